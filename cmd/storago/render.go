package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/syssam/storago/schema"
)

func (a *app) renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "render <schema> <create|drop|select>",
		Short:     "Print the SQL of a statement without connecting",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"create", "drop", "select"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.schemas.lookup(args[0])
			if err != nil {
				return err
			}
			var query string
			switch args[1] {
			case "create":
				if query, err = s.Create().Render(); err != nil {
					return err
				}
			case "drop":
				query = s.Drop().Render()
			case "select":
				query = s.Select().String()
			default:
				return fmt.Errorf("unknown statement %q", args[1])
			}
			fmt.Fprintln(cmd.OutOrStdout(), query)
			return nil
		},
	}
}

func (a *app) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [schema]",
		Short: "List the schemas, or the fields of one schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if len(args) == 0 {
				fmt.Fprintln(w, "TABLE\tCOLUMNS")
				for _, s := range a.schemas.schemas {
					fmt.Fprintf(w, "%s\t%s\n", s.Name(), strings.Join(s.Columns(), ", "))
				}
				return w.Flush()
			}
			s, err := a.schemas.lookup(args[0])
			if err != nil {
				return err
			}
			return describeFields(w, s)
		},
	}
}

func describeFields(w *tabwriter.Writer, s *schema.Schema) error {
	fmt.Fprintln(w, "FIELD\tTYPE\tSTORAGE\tDEFAULT\tCOMMENT")
	for _, f := range s.Fields() {
		storage, err := f.CastDB(s.Adapter())
		if err != nil {
			return err
		}
		def := "-"
		if f.HasDefault() {
			def = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.Name(), f.Type(), storage, def, f.Describe())
	}
	return w.Flush()
}
