package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/storago/dialect/sql/sqlgraph"
	"github.com/syssam/storago/schema"
)

func (a *app) insertCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "insert <schema> --set col=value...",
		Short: "Insert a row",
		Long: `Insert a row into the table of a schema. Fields that are not set take
their default value, or NULL when they have none.`,
		Example: `  storago insert car --set brand=ford --set sold=true --set options='{"color": "red"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSchema(cmd.Context(), args[0], func(s *schema.Schema) error {
				row, err := parseRow(s, sets)
				if err != nil {
					return err
				}
				res, err := s.Insert().Add(row).Execute(cmd.Context())
				switch {
				case sqlgraph.IsUniqueConstraintError(err):
					return fmt.Errorf("insert %s: row already exists: %w", s.Name(), err)
				case sqlgraph.IsConstraintError(err):
					return fmt.Errorf("insert %s: constraint failed: %w", s.Name(), err)
				case err != nil:
					return fmt.Errorf("insert %s: %w", s.Name(), err)
				}
				n, err := res.RowsAffected()
				if err != nil {
					return err
				}
				id, err := res.LastInsertId()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "inserted %d row(s) into %s, rowid %d\n", n, s.Name(), id)
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as col=value (repeatable)")
	return cmd
}
