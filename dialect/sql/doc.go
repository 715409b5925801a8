// Package sql provides the SQLite connection adapter, statement builders and
// type coercion of storago.
//
// # Adapter
//
// An Adapter owns one connection, opened through a dialect.Connector. Two
// connector families are provided:
//
//   - Statement / StatementDB: statements are prepared and executed directly
//   - Transaction / TransactionDB: every statement runs in a transaction of its
//     own, committed on success and rolled back on error
//
// The data-access primitives (Run, Get, Query, All, Each) prepare a statement,
// execute it and finalize it on every exit path. Driver errors are returned
// as reported by the driver:
//
//	adapter := sql.NewAdapter(sql.Statement("sqlite", "file:cars.db"))
//	if err := adapter.Connect(ctx); err != nil {
//	    return err
//	}
//	rows, err := adapter.Query(ctx, "SELECT brand FROM cars WHERE id = ?", []any{"1"})
//
// Calls made before Connect or after Close fail with
// storago.ErrDatabaseNotConnected.
//
// # Builders
//
// Builders are bound to a Table and created by the adapter:
//
//	adapter.Create(cars).Render()
//	// CREATE TABLE IF NOT EXISTS cars (id TEXT, brand TEXT);
//
//	adapter.Insert(cars).Add(dialect.Row{"id": "1", "brand": "ford"}).Render()
//	// INSERT INTO cars (id, brand) VALUES (?, ?);  [1 ford]
//
//	adapter.Select(cars).From("cars").Where("id = ?", "1").Render()
//	// SELECT cars.id, cars.brand, cars.rowid FROM cars WHERE id = ?;  [1]
//
//	adapter.Drop(cars).Render()
//	// DROP TABLE IF EXISTS cars;
//
// Rendering rebuilds the bind arguments on every call, so a builder can be
// rendered any number of times.
//
// # Predicates
//
// Where takes raw SQL. WhereP takes predicates built over declared fields,
// whose operands are converted to their storage values:
//
//	brand := sql.C(field.Text("brand"))
//	adapter.Select(cars).WhereP(sql.Or(brand.EQ("ford"), brand.HasPrefix("fi")))
//
// # Type Coercion
//
// CastColumnType, ToStorage and FromStorage map field types to SQLite
// column types and convert values across the storage boundary:
//
//	BOOLEAN          INTEGER  true/false <-> 1/0
//	DATE, DATETIME   NUMERIC  time.Time <-> epoch milliseconds
//	JSON             TEXT     any <-> JSON text
//	UUID             TEXT     uuid.UUID <-> canonical text
//	integer types    INTEGER  int64
//	REAL, DOUBLE     REAL     float64
//
// # Statistics
//
// StatsConnector and DebugConnector decorate a connector with statement
// statistics and statement logging.
package sql
