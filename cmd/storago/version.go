package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/storago/dialect/sqlite"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func versionCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the storago version and the SQLite driver in use",
		Args:  cobra.NoArgs,
		// Needs neither configuration nor schema file.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := sqlite.GetInfo()
			if output == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "storago %s (%s, %s driver %s)\n", version, info.Package, info.DriverType, info.DriverName)
				return nil
			}
			enc, err := newEncoder(output)
			if err != nil {
				return err
			}
			return enc(cmd.OutOrStdout(), map[string]any{"version": version, "driver": info})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: json, yaml or msgpack (default: text)")
	return cmd
}
