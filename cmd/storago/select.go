package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/storago/dialect/sql"
	"github.com/syssam/storago/schema"
)

type selectOptions struct {
	wheres   []string
	args     []string
	eqs      []string
	orders   []string
	limit    int
	offset   int
	distinct bool
	output   string
}

func (a *app) selectCmd() *cobra.Command {
	opts := &selectOptions{}
	cmd := &cobra.Command{
		Use:   "select <schema>",
		Short: "Query the rows of a table",
		Long: `Query the rows of the table of a schema. Every --where predicate consumes
as many --arg values as it has ? placeholders, in order. A ? inside a quoted
literal or identifier is not a placeholder.`,
		Example: `  storago select car --where "brand = ?" --arg ford --order rowid:desc --limit 10
  storago select car --eq sold=true --output yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newEncoder(opts.output); err != nil {
				return err
			}
			return a.withSchema(cmd.Context(), args[0], func(s *schema.Schema) error {
				b, err := opts.build(s)
				if err != nil {
					return err
				}
				rows, err := b.All(cmd.Context())
				if err != nil {
					return fmt.Errorf("select %s: %w", s.Name(), err)
				}
				return writeRows(cmd.OutOrStdout(), opts.output, rows)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringArrayVar(&opts.wheres, "where", nil, "predicate with ? placeholders (repeatable)")
	flags.StringArrayVar(&opts.args, "arg", nil, "bind argument of the --where placeholders (repeatable)")
	flags.StringArrayVar(&opts.eqs, "eq", nil, "equality on a field as col=value (repeatable)")
	flags.StringArrayVar(&opts.orders, "order", nil, "ordering term as col[:asc|:desc] (repeatable)")
	flags.IntVar(&opts.limit, "limit", -1, "maximum number of rows")
	flags.IntVar(&opts.offset, "offset", 0, "number of rows to skip")
	flags.BoolVar(&opts.distinct, "distinct", false, "drop duplicate rows")
	flags.StringVarP(&opts.output, "output", "o", "json", "output format: json, yaml or msgpack")
	return cmd
}

// build returns the select builder described by the options.
func (o *selectOptions) build(s *schema.Schema) (*sql.SelectBuilder, error) {
	b := s.Select().SetDistinct(o.distinct)
	args := o.args
	for _, w := range o.wheres {
		n := countPlaceholders(w)
		if n > len(args) {
			return nil, fmt.Errorf("predicate %q has %d placeholders, %d arguments left", w, n, len(args))
		}
		bound := make([]any, n)
		for i, raw := range args[:n] {
			bound[i] = parseArg(raw)
		}
		b.Where(w, bound...)
		args = args[n:]
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("%d arguments without placeholder", len(args))
	}
	for _, eq := range o.eqs {
		col, raw, err := splitAssign(eq)
		if err != nil {
			return nil, err
		}
		f, ok := s.Field(col)
		if !ok {
			return nil, fmt.Errorf("unknown field %q of %s", col, s.Name())
		}
		v, err := parseValue(f, raw)
		if err != nil {
			return nil, err
		}
		c := sql.C(f)
		if v == nil {
			b.WhereP(c.IsNull())
		} else {
			b.WhereP(c.EQ(v))
		}
	}
	for _, term := range o.orders {
		col, dir, _ := strings.Cut(term, ":")
		b.OrderBy(col, dir)
	}
	if o.limit >= 0 {
		b.Limit(o.limit)
	}
	if o.offset > 0 {
		b.Offset(o.offset)
	}
	return b, nil
}

// countPlaceholders counts the ? placeholders of a predicate outside quoted
// literals and identifiers. A doubled quote inside a quoted run is an escape.
func countPlaceholders(pred string) int {
	var (
		n     int
		quote rune
	)
	for _, r := range pred {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == '[':
			quote = ']'
		case r == '?':
			n++
		}
	}
	return n
}
