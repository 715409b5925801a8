package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/storago/schema"
)

func (a *app) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <schema>",
		Short: "Create the table of a schema if it does not exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSchema(cmd.Context(), args[0], func(s *schema.Schema) error {
				if err := s.Create().Execute(cmd.Context()); err != nil {
					return fmt.Errorf("create %s: %w", s.Name(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created table %s\n", s.Name())
				return nil
			})
		},
	}
}

func (a *app) dropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop <schema>",
		Short: "Drop the table of a schema if it exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSchema(cmd.Context(), args[0], func(s *schema.Schema) error {
				if err := s.Drop().Execute(cmd.Context()); err != nil {
					return fmt.Errorf("drop %s: %w", s.Name(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "dropped table %s\n", s.Name())
				return nil
			})
		},
	}
}
