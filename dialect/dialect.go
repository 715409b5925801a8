package dialect

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLite is the only dialect rendered by the builders.
const SQLite = "sqlite"

// Mode selects how a connector talks to the storage engine.
type Mode string

// Supported connector modes.
const (
	// ModeStatement uses the prepared-statement API directly.
	ModeStatement Mode = "statement"
	// ModeTransaction runs every statement inside its own transaction,
	// committing on success and rolling back on error.
	ModeTransaction Mode = "transaction"
)

// ParseMode returns the mode with the given name. An empty name selects
// ModeStatement.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeStatement:
		return ModeStatement, nil
	case ModeTransaction:
		return ModeTransaction, nil
	default:
		return "", fmt.Errorf("dialect: unknown mode %q", s)
	}
}

type (
	// Row is a single result row keyed by column name.
	Row = map[string]any
	// Result is an alias to sql.Result.
	Result = sql.Result
)

// Connector opens the single connection an adapter works with.
type Connector interface {
	Connect(ctx context.Context) (Conn, error)
}

// Conn is an open storage connection.
type Conn interface {
	// Prepare compiles query with its bind arguments. Compile errors are
	// returned as reported by the driver.
	Prepare(ctx context.Context, query string, args []any) (Stmt, error)
	// Close tears down the connection.
	Close() error
}

// Stmt is a prepared statement bound to its arguments. It must be released
// with Finalize once the caller is done with it.
type Stmt interface {
	// Run executes the statement and returns the driver result.
	Run(ctx context.Context) (Result, error)
	// Get returns the first result row, or nil if there is none.
	Get(ctx context.Context) (Row, error)
	// All returns every result row in order.
	All(ctx context.Context) ([]Row, error)
	// Each calls fn for every result row and returns the number of rows
	// visited. Iteration stops at the first error returned by fn.
	Each(ctx context.Context, fn func(Row) error) (int, error)
	// Finalize releases the statement. It is safe to call more than once.
	Finalize() error
}
