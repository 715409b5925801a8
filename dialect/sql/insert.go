package sql

import (
	"context"
	"errors"
	"maps"
	"strings"

	"github.com/syssam/storago"
	"github.com/syssam/storago/dialect"
)

// ErrNothingToInsert is returned when an insert builder renders with no staged rows.
var ErrNothingToInsert = errors.New("storago: nothing to insert")

// InsertBuilder stages rows and renders them as a single INSERT statement.
type InsertBuilder struct {
	adapter *Adapter
	table   Table
	rows    []dialect.Row
	values  []any
}

// Add stages rows for insertion. Rows are copied; fields missing from a row
// take their default value when one is declared.
func (i *InsertBuilder) Add(rows ...dialect.Row) *InsertBuilder {
	for _, row := range rows {
		staged := maps.Clone(row)
		if staged == nil {
			staged = make(dialect.Row)
		}
		for _, f := range i.table.Fields() {
			if _, ok := staged[f.Name()]; !ok && f.HasDefault() {
				staged[f.Name()] = f.DefaultValue()
			}
		}
		i.rows = append(i.rows, staged)
	}
	return i
}

// Reset drops the staged rows.
func (i *InsertBuilder) Reset() *InsertBuilder {
	i.rows = nil
	i.values = nil
	return i
}

// Len returns the number of staged rows.
func (i *InsertBuilder) Len() int { return len(i.rows) }

// Render returns the INSERT statement with one value tuple per staged row,
// and the storage values of every row in row-major, field order. The values
// are rebuilt on each call.
//
//	INSERT INTO cars (id, brand) VALUES (?, ?), (?, ?);
func (i *InsertBuilder) Render() (string, []any, error) {
	if len(i.rows) == 0 {
		return "", nil, ErrNothingToInsert
	}
	fields := i.table.Fields()
	if len(fields) == 0 {
		return "", nil, storago.NewSchemaError(i.table.Name(), "no fields to insert")
	}
	columns := make([]string, len(fields))
	for j, f := range fields {
		columns[j] = f.Name()
	}
	tuple := "(" + strings.Repeat("?, ", len(fields)-1) + "?)"
	values := make([]any, 0, len(fields)*len(i.rows))
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(i.table.Name())
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES ")
	for j, row := range i.rows {
		if j > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tuple)
		for _, f := range fields {
			v, err := f.ToDB(i.adapter, row)
			if err != nil {
				return "", nil, storago.NewValidationError(f.Name(), err)
			}
			values = append(values, v)
		}
	}
	b.WriteByte(';')
	i.values = values
	return b.String(), values, nil
}

// Values returns the bind values of the last render.
func (i *InsertBuilder) Values() []any { return i.values }

// Execute inserts all staged rows in one statement.
func (i *InsertBuilder) Execute(ctx context.Context) (dialect.Result, error) {
	query, args, err := i.Render()
	if err != nil {
		return nil, err
	}
	return i.adapter.Run(ctx, query, args)
}

// Save is like Execute but discards the driver result.
func (i *InsertBuilder) Save(ctx context.Context) error {
	_, err := i.Execute(ctx)
	return err
}
