package schema

import (
	"context"

	"github.com/spf13/cast"

	"github.com/syssam/storago"
	"github.com/syssam/storago/dialect"
	"github.com/syssam/storago/dialect/sql"
	"github.com/syssam/storago/schema/field"
)

// Mixin is a reusable set of fields shared by several schemas.
type Mixin interface {
	Fields() []*field.Field
}

// Fields returns the fields of the mixins followed by the given fields.
//
//	schema.New("cars", adapter, schema.Fields(
//	    []schema.Mixin{mixin.ID{}, mixin.Time{}},
//	    field.Text("brand"),
//	)...)
func Fields(mixins []Mixin, fields ...*field.Field) []*field.Field {
	var all []*field.Field
	for _, m := range mixins {
		all = append(all, m.Fields()...)
	}
	return append(all, fields...)
}

// Schema binds a table name and its ordered fields to an adapter. It is the
// factory of the statement builders of the table and converts the rows read
// from it.
type Schema struct {
	name    string
	fields  []*field.Field
	byName  map[string]*field.Field
	adapter *sql.Adapter
}

// New returns a schema for the named table. Fields keep their declaration
// order, which is the column order of every rendered statement.
func New(name string, adapter *sql.Adapter, fields ...*field.Field) (*Schema, error) {
	if !sql.ValidIdentifier(name) {
		return nil, storago.NewSchemaError(name, "invalid table name")
	}
	if adapter == nil {
		return nil, storago.NewSchemaError(name, "missing adapter")
	}
	if len(fields) == 0 {
		return nil, storago.NewSchemaError(name, "no fields declared")
	}
	s := &Schema{
		name:    name,
		fields:  fields,
		byName:  make(map[string]*field.Field, len(fields)),
		adapter: adapter,
	}
	for i, f := range fields {
		switch {
		case f == nil:
			return nil, storago.NewSchemaError(name, "field %d is nil", i)
		case !sql.ValidIdentifier(f.Name()):
			return nil, storago.NewSchemaError(name, "invalid field name %q", f.Name())
		case f.Name() == sql.RowID:
			return nil, storago.NewSchemaError(name, "field name %q is reserved", f.Name())
		}
		if _, ok := s.byName[f.Name()]; ok {
			return nil, storago.NewSchemaError(name, "duplicate field %q", f.Name())
		}
		s.byName[f.Name()] = f
	}
	return s, nil
}

// MustNew is like New but panics on error.
func MustNew(name string, adapter *sql.Adapter, fields ...*field.Field) *Schema {
	s, err := New(name, adapter, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the table name.
func (s *Schema) Name() string { return s.name }

// Fields returns the fields in declaration order. The slice must not be modified.
func (s *Schema) Fields() []*field.Field { return s.fields }

// Columns returns the column names in declaration order.
func (s *Schema) Columns() []string {
	columns := make([]string, len(s.fields))
	for i, f := range s.fields {
		columns[i] = f.Name()
	}
	return columns
}

// Field returns the field with the given name.
func (s *Schema) Field(name string) (*field.Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Adapter returns the adapter the schema is bound to.
func (s *Schema) Adapter() *sql.Adapter { return s.adapter }

// PopulateFromDB converts a raw storage row to an application row. Columns
// that are not fields of the schema, such as those of joined tables, are
// kept as read. The rowid column is returned as int64.
func (s *Schema) PopulateFromDB(_ context.Context, raw dialect.Row) (dialect.Row, error) {
	row := make(dialect.Row, len(raw))
	for column, v := range raw {
		f, ok := s.byName[column]
		switch {
		case ok:
			av, err := f.FromDB(s.adapter, v)
			if err != nil {
				return nil, storago.NewValidationError(column, err)
			}
			row[column] = av
		case column == sql.RowID && v != nil:
			id, err := cast.ToInt64E(v)
			if err != nil {
				return nil, storago.NewValidationError(column, storago.NewValueError(field.TypeInteger.String(), v, err))
			}
			row[column] = id
		default:
			row[column] = v
		}
	}
	return row, nil
}

// Select returns a select builder over the table and its fields.
func (s *Schema) Select() *sql.SelectBuilder {
	return s.adapter.Select(s).From(s.name)
}

// Insert returns an insert builder for the table.
func (s *Schema) Insert() *sql.InsertBuilder {
	return s.adapter.Insert(s)
}

// Create returns a builder creating the table.
func (s *Schema) Create() *sql.CreateBuilder {
	return s.adapter.Create(s)
}

// Drop returns a builder dropping the table.
func (s *Schema) Drop() *sql.DropBuilder {
	return s.adapter.Drop(s)
}

var _ sql.Table = (*Schema)(nil)
