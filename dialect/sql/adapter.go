package sql

import (
	"context"
	"log/slog"
	"sync"

	"github.com/syssam/storago"
	"github.com/syssam/storago/dialect"
	"github.com/syssam/storago/schema/field"
)

// Table is the schema capability the builders work with.
type Table interface {
	// Name returns the table name.
	Name() string
	// Fields returns the fields of the table in declaration order.
	Fields() []*field.Field
	// PopulateFromDB converts a raw storage row to an application row.
	PopulateFromDB(context.Context, dialect.Row) (dialect.Row, error)
}

// Adapter owns the single connection to the storage engine and executes the
// statements rendered by its builders.
//
// An Adapter starts disconnected. Every statement-issuing call made while
// disconnected fails with storago.ErrDatabaseNotConnected without reaching
// the driver. Statements are not queued: callers wait for each call to
// return before issuing the next one.
type Adapter struct {
	connector dialect.Connector
	logger    *slog.Logger
	debug     bool

	mu   sync.RWMutex
	conn dialect.Conn
}

// Option configures the Adapter.
type Option func(*Adapter)

// WithLogger sets the logger of the adapter. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = l
	}
}

// Debug logs every executed statement and its arguments at debug level.
func Debug() Option {
	return func(a *Adapter) {
		a.debug = true
	}
}

// NewAdapter returns a disconnected adapter that opens its connection
// through the given connector.
//
// Example:
//
//	adapter := sql.NewAdapter(sql.Statement("sqlite", "file:cars.db"),
//	    sql.WithLogger(logger),
//	    sql.Debug(),
//	)
//	if err := adapter.Connect(ctx); err != nil {
//	    return err
//	}
//	defer adapter.Close()
func NewAdapter(connector dialect.Connector, opts ...Option) *Adapter {
	a := &Adapter{
		connector: connector,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.debug {
		a.connector = NewDebugConnector(a.connector, DebugWithLog(a.logger.DebugContext))
	}
	return a
}

// Logger returns the logger of the adapter.
func (a *Adapter) Logger() *slog.Logger { return a.logger }

// Connect opens the connection. Calling Connect on a connected adapter is a
// no-op.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn != nil {
		return nil
	}
	conn, err := a.connector.Connect(ctx)
	if err != nil {
		return err
	}
	a.conn = conn
	a.logger.DebugContext(ctx, "storago: connected")
	return nil
}

// Connected reports whether the adapter holds an open connection.
func (a *Adapter) Connected() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.conn != nil
}

// Conn returns the open connection.
func (a *Adapter) Conn() (dialect.Conn, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.conn == nil {
		return nil, storago.ErrDatabaseNotConnected
	}
	return a.conn, nil
}

// Close closes the connection and leaves the adapter disconnected, even if
// the driver reports an error. Closing a disconnected adapter is a no-op.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn = nil
	a.logger.Debug("storago: disconnected")
	return err
}

// Prepare compiles query on the open connection. The caller owns the
// returned statement and must finalize it. Compile errors are returned as
// reported by the driver.
func (a *Adapter) Prepare(ctx context.Context, query string, args []any) (dialect.Stmt, error) {
	conn, err := a.Conn()
	if err != nil {
		return nil, err
	}
	return conn.Prepare(ctx, query, args)
}

// Run executes a statement that returns no rows.
func (a *Adapter) Run(ctx context.Context, query string, args []any) (dialect.Result, error) {
	return withStmt(ctx, a, query, args, func(stmt dialect.Stmt) (dialect.Result, error) {
		return stmt.Run(ctx)
	})
}

// Get returns the first row of the query result, or nil if it is empty.
func (a *Adapter) Get(ctx context.Context, query string, args []any) (dialect.Row, error) {
	return withStmt(ctx, a, query, args, func(stmt dialect.Stmt) (dialect.Row, error) {
		return stmt.Get(ctx)
	})
}

// Query returns all rows of the query result in order.
func (a *Adapter) Query(ctx context.Context, query string, args []any) ([]dialect.Row, error) {
	return withStmt(ctx, a, query, args, func(stmt dialect.Stmt) ([]dialect.Row, error) {
		return stmt.All(ctx)
	})
}

// All is an alias of Query.
func (a *Adapter) All(ctx context.Context, query string, args []any) ([]dialect.Row, error) {
	return a.Query(ctx, query, args)
}

// Each calls fn for every row of the query result and returns the number of
// rows visited. fn must not issue statements on this adapter.
func (a *Adapter) Each(ctx context.Context, query string, args []any, fn func(dialect.Row) error) (int, error) {
	return withStmt(ctx, a, query, args, func(stmt dialect.Stmt) (int, error) {
		return stmt.Each(ctx, fn)
	})
}

// withStmt prepares query, passes the statement to fn and finalizes it on
// every exit path. An error of fn takes precedence over a finalize error.
func withStmt[T any](ctx context.Context, a *Adapter, query string, args []any, fn func(dialect.Stmt) (T, error)) (T, error) {
	var zero T
	stmt, err := a.Prepare(ctx, query, args)
	if err != nil {
		return zero, err
	}
	v, err := fn(stmt)
	if ferr := stmt.Finalize(); err == nil {
		err = ferr
	}
	if err != nil {
		return zero, err
	}
	return v, nil
}

// CastColumnType implements the field.Caster interface.
func (a *Adapter) CastColumnType(t field.Type) (field.StorageType, error) {
	return CastColumnType(t)
}

// ToStorage implements the field.Coercer interface.
func (a *Adapter) ToStorage(t field.Type, v any) (any, error) {
	return ToStorage(t, v)
}

// FromStorage implements the field.Coercer interface.
func (a *Adapter) FromStorage(t field.Type, v any) (any, error) {
	return FromStorage(t, v)
}

// Select returns a select builder bound to the table.
func (a *Adapter) Select(t Table) *SelectBuilder {
	return &SelectBuilder{adapter: a, table: t}
}

// Insert returns an insert builder bound to the table.
func (a *Adapter) Insert(t Table) *InsertBuilder {
	return &InsertBuilder{adapter: a, table: t}
}

// Create returns a create builder bound to the table.
func (a *Adapter) Create(t Table) *CreateBuilder {
	return &CreateBuilder{adapter: a, table: t}
}

// Drop returns a drop builder bound to the table.
func (a *Adapter) Drop(t Table) *DropBuilder {
	return &DropBuilder{adapter: a, table: t}
}

var _ field.Coercer = (*Adapter)(nil)
