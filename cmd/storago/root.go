package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/storago/dialect/sql"
	"github.com/syssam/storago/dialect/sqlite"
	"github.com/syssam/storago/schema"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string

	cfg     *config
	stats   *sql.StatsConnector
	adapter *sql.Adapter
	schemas *registry
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:   "storago",
		Short: "Manage SQLite tables declared in a schema file",
		Long: `storago creates, fills and queries the SQLite tables declared in a YAML
schema file. Configuration is read from storago.yaml, STORAGO_* environment
variables and flags, in increasing order of precedence.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: ./storago.yaml)")
	flags.String("database", "", "database file path (default: storago.db)")
	flags.String("mode", "", "connector mode: statement or transaction")
	flags.String("schemas", "", "schema file path (default: schema.yaml)")
	flags.Bool("debug", false, "log executed statements")

	root.AddCommand(
		a.createCmd(),
		a.dropCmd(),
		a.insertCmd(),
		a.selectCmd(),
		a.renderCmd(),
		a.describeCmd(),
		versionCmd(),
	)
	return root
}

// setup loads the configuration and the schema file and builds a
// disconnected adapter. Commands that issue statements call connect.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.v, cmd, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logger := newLogger(cmd.ErrOrStderr(), cfg)

	connector, err := sqlite.Connector(cfg.Database, cfg.Mode)
	if err != nil {
		return err
	}
	a.stats = sql.NewStatsConnector(connector,
		sql.WithSlowThreshold(cfg.SlowThreshold),
		sql.WithSlowQueryLog(logger),
	)
	opts := []sql.Option{sql.WithLogger(logger)}
	if cfg.Debug {
		opts = append(opts, sql.Debug())
	}
	a.adapter = sql.NewAdapter(a.stats, opts...)

	a.schemas, err = loadSchemas(cfg.Schemas, a.adapter)
	return err
}

// withSchema connects the adapter, calls fn with the named schema and
// closes the connection, reporting the statement statistics.
func (a *app) withSchema(ctx context.Context, name string, fn func(*schema.Schema) error) (err error) {
	s, err := a.schemas.lookup(name)
	if err != nil {
		return err
	}
	if err := a.adapter.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		a.adapter.Logger().DebugContext(ctx, "storago: statistics",
			"database", a.cfg.Database,
			"stats", a.stats.QueryStats().Stats().String(),
		)
		if cerr := a.adapter.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
