package sql

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/storago/dialect"
)

// Order directions.
const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// RowID is the SQLite pseudo-column appended to every selection.
const RowID = "rowid"

type joinKind uint8

const (
	innerJoin joinKind = iota
	leftJoin
	rightJoin
)

var joinKeywords = [...]string{
	innerJoin: "JOIN",
	leftJoin:  "LEFT JOIN",
	rightJoin: "RIGHT JOIN",
}

type join struct {
	kind    joinKind
	table   string
	on      string
	columns []string
}

type where struct {
	pred string
	args []any
}

// SelectBuilder accumulates the clauses of a SELECT statement over a table.
//
//	cars.Select().
//	    Where("brand = ?", "ford").
//	    OrderBy("rowid", sql.OrderDesc).
//	    Limit(10).
//	    All(ctx)
type SelectBuilder struct {
	adapter  *Adapter
	table    Table
	distinct bool
	from     string
	columns  []string
	joins    []join
	wheres   []where
	order    []string
	limit    *int
	offset   *int
	params   []any
	err      error
}

// Distinct sets the DISTINCT flag.
func (s *SelectBuilder) Distinct() *SelectBuilder {
	return s.SetDistinct(true)
}

// SetDistinct sets or clears the DISTINCT flag.
func (s *SelectBuilder) SetDistinct(v bool) *SelectBuilder {
	s.distinct = v
	return s
}

// From sets the source table and its selected columns. Without columns, the
// fields of the bound table are selected when table is its name, and all
// columns otherwise. The rowid pseudo-column is always appended and every
// column is qualified with the table name.
func (s *SelectBuilder) From(table string, columns ...string) *SelectBuilder {
	s.from = table
	s.columns = s.selection(table, columns)
	return s
}

func (s *SelectBuilder) selection(table string, columns []string) []string {
	if len(columns) == 0 {
		if table == s.table.Name() {
			for _, f := range s.table.Fields() {
				columns = append(columns, f.Name())
			}
		} else {
			columns = []string{"*"}
		}
	}
	selected := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		selected = append(selected, table+"."+c)
	}
	return append(selected, table+"."+RowID)
}

// Where adds a predicate and its bind arguments. Predicates are joined with
// AND. A single []any argument is expanded into the argument list.
func (s *SelectBuilder) Where(pred string, args ...any) *SelectBuilder {
	if len(args) == 1 {
		if list, ok := args[0].([]any); ok {
			args = list
		}
	}
	s.wheres = append(s.wheres, where{pred: pred, args: args})
	return s
}

// WhereP adds the given predicates. The first predicate carrying a
// conversion error fails the execution of the builder.
func (s *SelectBuilder) WhereP(ps ...*Predicate) *SelectBuilder {
	for _, p := range ps {
		if p.err != nil && s.err == nil {
			s.err = p.err
		}
		s.wheres = append(s.wheres, where{pred: p.expr, args: p.args})
	}
	return s
}

// Join adds an inner join. Columns of the joined table are added to the
// selection, qualified with its name unless they already are.
func (s *SelectBuilder) Join(table, on string, columns ...string) *SelectBuilder {
	return s.join(innerJoin, table, on, columns)
}

// JoinLeft adds a left join.
func (s *SelectBuilder) JoinLeft(table, on string, columns ...string) *SelectBuilder {
	return s.join(leftJoin, table, on, columns)
}

// JoinRight adds a right join.
func (s *SelectBuilder) JoinRight(table, on string, columns ...string) *SelectBuilder {
	return s.join(rightJoin, table, on, columns)
}

func (s *SelectBuilder) join(kind joinKind, table, on string, columns []string) *SelectBuilder {
	qualified := make([]string, len(columns))
	for i, c := range columns {
		if !strings.Contains(c, ".") {
			c = table + "." + c
		}
		qualified[i] = c
	}
	s.joins = append(s.joins, join{kind: kind, table: table, on: on, columns: qualified})
	return s
}

// OrderBy adds an ordering term. The direction defaults to ascending.
func (s *SelectBuilder) OrderBy(column string, dir ...string) *SelectBuilder {
	d := OrderAsc
	if len(dir) > 0 && strings.EqualFold(dir[0], OrderDesc) {
		d = OrderDesc
	}
	s.order = append(s.order, column+" "+d)
	return s
}

// Limit limits the number of returned rows, optionally setting the offset.
func (s *SelectBuilder) Limit(n int, offset ...int) *SelectBuilder {
	s.limit = &n
	if len(offset) > 0 {
		s.Offset(offset[0])
	}
	return s
}

// Offset skips the first n rows.
func (s *SelectBuilder) Offset(n int) *SelectBuilder {
	s.offset = &n
	return s
}

// Render returns the SELECT statement and its bind arguments. Clauses are
// rendered in a fixed order and the arguments are rebuilt on each call, so
// rendering twice without changes yields the same result.
func (s *SelectBuilder) Render() (string, []any) {
	from, columns := s.from, s.columns
	if from == "" {
		from, columns = s.table.Name(), s.selection(s.table.Name(), nil)
	}
	selected := make([]string, 0, len(columns))
	selected = append(selected, columns...)
	for _, j := range s.joins {
		selected = append(selected, j.columns...)
	}
	params := make([]any, 0)
	var b strings.Builder
	b.WriteString("SELECT ")
	if s.distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(strings.Join(selected, ", "))
	b.WriteString(" FROM ")
	b.WriteString(from)
	for _, kind := range []joinKind{innerJoin, leftJoin, rightJoin} {
		for _, j := range s.joins {
			if j.kind != kind {
				continue
			}
			b.WriteByte(' ')
			b.WriteString(joinKeywords[kind])
			b.WriteByte(' ')
			b.WriteString(j.table)
			b.WriteString(" ON ")
			b.WriteString(j.on)
		}
	}
	if len(s.wheres) > 0 {
		b.WriteString(" WHERE ")
		for i, w := range s.wheres {
			if i > 0 {
				b.WriteString(" AND ")
			}
			b.WriteString(w.pred)
			params = append(params, w.args...)
		}
	}
	if len(s.order) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(s.order, ", "))
	}
	if s.limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(*s.limit))
	}
	if s.offset != nil {
		if s.limit == nil {
			// SQLite accepts OFFSET only after a LIMIT.
			b.WriteString(" LIMIT -1")
		}
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(*s.offset))
	}
	b.WriteByte(';')
	s.params = params
	return b.String(), params
}

// String returns the rendered statement text.
func (s *SelectBuilder) String() string {
	query, _ := s.Render()
	return query
}

// Params returns the bind arguments of the last render.
func (s *SelectBuilder) Params() []any { return s.params }

// Execute runs the query and returns the raw storage rows.
func (s *SelectBuilder) Execute(ctx context.Context) ([]dialect.Row, error) {
	if s.err != nil {
		return nil, s.err
	}
	query, args := s.Render()
	return s.adapter.Query(ctx, query, args)
}

// All runs the query and returns the rows populated by the bound table, in
// result order. An empty result yields an empty, non-nil slice.
func (s *SelectBuilder) All(ctx context.Context) ([]dialect.Row, error) {
	raw, err := s.Execute(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]dialect.Row, len(raw))
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range raw {
		g.Go(func() error {
			row, err := s.table.PopulateFromDB(ctx, r)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// One limits the query to a single row and returns it, or nil if the result
// is empty.
func (s *SelectBuilder) One(ctx context.Context) (dialect.Row, error) {
	rows, err := s.Limit(1).All(ctx)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}
