package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/storago/dialect"
)

const (
	configFileName = "storago"
	configFileType = "yaml"
	envPrefix      = "STORAGO"

	cfgKeyDatabase      = "database"
	cfgKeyMode          = "mode"
	cfgKeySchemas       = "schemas"
	cfgKeyDebug         = "debug"
	cfgKeyLogLevel      = "log.level"
	cfgKeyLogFormat     = "log.format"
	cfgKeySlowThreshold = "stats.slow_threshold"
)

// config is the resolved configuration of a CLI invocation.
type config struct {
	Database      string
	Mode          dialect.Mode
	Schemas       string
	Debug         bool
	LogLevel      slog.Level
	LogFormat     string
	SlowThreshold time.Duration
}

// loadConfig resolves the configuration with the precedence
// flag > STORAGO_* env > config file > default.
// A missing default config file is not an error; a missing --config file is.
func loadConfig(v *viper.Viper, cmd *cobra.Command, configFile string) (*config, error) {
	v.SetDefault(cfgKeyDatabase, "storago.db")
	v.SetDefault(cfgKeyMode, string(dialect.ModeStatement))
	v.SetDefault(cfgKeySchemas, "schema.yaml")
	v.SetDefault(cfgKeyDebug, false)
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFormat, "text")
	v.SetDefault(cfgKeySlowThreshold, 100*time.Millisecond)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	flags := cmd.Root().PersistentFlags()
	for key, name := range map[string]string{
		cfgKeyDatabase: "database",
		cfgKeyMode:     "mode",
		cfgKeySchemas:  "schemas",
		cfgKeyDebug:    "debug",
	} {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	mode, err := dialect.ParseMode(v.GetString(cfgKeyMode))
	if err != nil {
		return nil, err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString(cfgKeyLogLevel))); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgKeyLogLevel, err)
	}
	format := strings.ToLower(v.GetString(cfgKeyLogFormat))
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("config %s: unknown format %q", cfgKeyLogFormat, format)
	}
	return &config{
		Database:      v.GetString(cfgKeyDatabase),
		Mode:          mode,
		Schemas:       v.GetString(cfgKeySchemas),
		Debug:         v.GetBool(cfgKeyDebug),
		LogLevel:      level,
		LogFormat:     format,
		SlowThreshold: v.GetDuration(cfgKeySlowThreshold),
	}, nil
}

// newLogger returns the logger configured by cfg. Debug mode lowers the
// level so that executed statements are shown.
func newLogger(w io.Writer, cfg *config) *slog.Logger {
	level := cfg.LogLevel
	if cfg.Debug && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
