// Package schema binds field declarations to a table and an adapter.
//
// A Schema is the factory of the statement builders of its table:
//
//	cars := schema.MustNew("cars", adapter,
//	    field.Text("id"),
//	    field.Text("brand"),
//	    field.Bool("sold"),
//	)
//
//	cars.Create().Render()
//	// CREATE TABLE IF NOT EXISTS cars (id TEXT, brand TEXT, sold INTEGER);
//
//	cars.Select().Where("brand = ?", "ford").Render()
//	// SELECT cars.id, cars.brand, cars.sold, cars.rowid FROM cars WHERE brand = ?;
//
// Rows read through a schema are converted to their application values by
// PopulateFromDB. A value that cannot be converted is reported as a
// storago.ValidationError naming the field.
//
// # Mixins
//
// Field sets shared by several schemas are declared as mixins and combined
// with Fields. Ready-to-use mixins live in contrib/mixin:
//
//	cars := schema.MustNew("cars", adapter, schema.Fields(
//	    []schema.Mixin{mixin.ID{}, mixin.Time{}},
//	    field.Text("brand"),
//	)...)
package schema
