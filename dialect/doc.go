// Package dialect defines the storage driver capability used by storago.
//
// The adapter in dialect/sql never talks to a database driver directly. It
// asks a Connector for a Conn, prepares statements on it and drives them
// through the Stmt interface:
//
//	type Connector interface {
//	    Connect(ctx context.Context) (Conn, error)
//	}
//
//	type Conn interface {
//	    Prepare(ctx context.Context, query string, args []any) (Stmt, error)
//	    Close() error
//	}
//
//	type Stmt interface {
//	    Run(ctx context.Context) (Result, error)
//	    Get(ctx context.Context) (Row, error)
//	    All(ctx context.Context) ([]Row, error)
//	    Each(ctx context.Context, fn func(Row) error) (int, error)
//	    Finalize() error
//	}
//
// # Modes
//
// Two connector families implement these interfaces:
//
//   - ModeStatement: statements are prepared and executed directly
//   - ModeTransaction: every statement runs in its own transaction, which
//     commits when the statement succeeds and rolls back when it fails
//
// Both are provided by dialect/sql and selected at construction:
//
//	sql.NewAdapter(sql.Statement("sqlite", "cars.db"))
//	sql.NewAdapter(sql.Transaction("sqlite", "cars.db"))
//
// # Rows
//
// Rows are plain maps from column name to value. Rows read from the driver
// hold storage values; rows returned by a schema hold application values.
package dialect
