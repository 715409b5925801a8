package sql

import (
	"context"
	"strings"
)

// CreateBuilder renders the CREATE TABLE statement of a table.
type CreateBuilder struct {
	adapter *Adapter
	table   Table
}

// Render returns the statement creating the table if it does not exist.
// Columns follow the declaration order of the fields.
//
//	CREATE TABLE IF NOT EXISTS cars (id TEXT, brand TEXT);
func (c *CreateBuilder) Render() (string, error) {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(c.table.Name())
	b.WriteString(" (")
	for i, f := range c.table.Fields() {
		typ, err := f.CastDB(c.adapter)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name())
		b.WriteByte(' ')
		b.WriteString(typ.String())
	}
	b.WriteString(");")
	return b.String(), nil
}

// Execute creates the table.
func (c *CreateBuilder) Execute(ctx context.Context) error {
	query, err := c.Render()
	if err != nil {
		return err
	}
	_, err = c.adapter.Run(ctx, query, nil)
	return err
}

// DropBuilder renders the DROP TABLE statement of a table.
type DropBuilder struct {
	adapter *Adapter
	table   Table
}

// Render returns the statement dropping the table if it exists.
func (d *DropBuilder) Render() string {
	return "DROP TABLE IF EXISTS " + d.table.Name() + ";"
}

// Execute drops the table.
func (d *DropBuilder) Execute(ctx context.Context) error {
	_, err := d.adapter.Run(ctx, d.Render(), nil)
	return err
}
