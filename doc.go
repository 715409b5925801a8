// Package storago is a small ORM adapter layer for SQLite.
//
// It renders CREATE TABLE, INSERT, SELECT and DROP statements from fluent
// builders, converts field values between their application and storage
// representations, and executes statements through a single driver
// connection.
//
// The root package holds the errors shared by all subpackages:
//
//   - ErrDatabaseNotConnected: a statement was issued before Connect
//   - ErrInvalidValue / ValueError: a value could not be coerced
//   - ValidationError: a coercion failure attributed to a named field
//   - SchemaError: an invalid schema declaration
//
// # Packages
//
//   - schema/field: field types and declarations
//   - schema: schemas binding fields to an adapter
//   - dialect: storage driver capability interfaces
//   - dialect/sql: the connection adapter, type coercion and builders
//   - dialect/sqlite: SQLite connectors for the adapter
//
// # Usage
//
//	adapter, err := sqlite.Open("cars.db", dialect.ModeStatement)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := adapter.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer adapter.Close()
//
//	cars := schema.MustNew("cars", adapter,
//	    field.Text("id"),
//	    field.Text("brand"),
//	)
//	if err := cars.Create().Execute(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	_, err = cars.Insert().Add(dialect.Row{"id": "1", "brand": "ford"}).Execute(ctx)
//	car, err := cars.Select().Where("id = ?", "1").One(ctx)
package storago
