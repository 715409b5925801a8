package sql

import (
	"context"
	"database/sql"
	"errors"
	"regexp"

	"github.com/syssam/storago/dialect"
)

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores, dots for schema.name)
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// ValidIdentifier checks if the string is a valid SQL identifier.
func ValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// source describes how a connector obtains its *sql.DB.
type source struct {
	driver string
	dsn    string
	db     *sql.DB
}

// open returns the database of the source limited to a single connection.
// The connection is verified before it is handed to the adapter.
func (s source) open(ctx context.Context) (*sql.DB, error) {
	db := s.db
	if db == nil {
		var err error
		if db, err = sql.Open(s.driver, s.dsn); err != nil {
			return nil, err
		}
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		if s.db == nil {
			_ = db.Close()
		}
		return nil, err
	}
	return db, nil
}

// StmtConnector is a dialect.Connector that executes statements through the
// prepared-statement API of database/sql.
type StmtConnector struct {
	source
}

// Statement returns a connector that opens the named database/sql driver
// with the given data source name.
func Statement(driverName, dsn string) *StmtConnector {
	return &StmtConnector{source{driver: driverName, dsn: dsn}}
}

// StatementDB returns a connector over an already opened database.
func StatementDB(db *sql.DB) *StmtConnector {
	return &StmtConnector{source{db: db}}
}

// Connect implements the dialect.Connector interface.
func (c *StmtConnector) Connect(ctx context.Context) (dialect.Conn, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	return &StmtConn{db: db}, nil
}

// StmtConn is the connection returned by StmtConnector.
type StmtConn struct {
	db *sql.DB
}

// DB returns the underlying *sql.DB instance.
func (c *StmtConn) DB() *sql.DB { return c.db }

// Prepare implements the dialect.Conn interface.
func (c *StmtConn) Prepare(ctx context.Context, query string, args []any) (dialect.Stmt, error) {
	stmt, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &Stmt{stmt: stmt, args: args}, nil
}

// Close implements the dialect.Conn interface.
func (c *StmtConn) Close() error { return c.db.Close() }

// errFinalized is returned when a finalized statement is executed.
var errFinalized = errors.New("dialect/sql: statement is finalized")

// Stmt is a prepared statement bound to its arguments. Statements prepared
// by a TxConn run each execution in a transaction of their own.
type Stmt struct {
	stmt   *sql.Stmt
	args   []any
	conn   *TxConn
	closed bool
}

// Args returns the bind arguments of the statement.
func (s *Stmt) Args() []any { return s.args }

// Run implements the dialect.Stmt interface.
func (s *Stmt) Run(ctx context.Context) (dialect.Result, error) {
	stmt, tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	res, err := stmt.ExecContext(ctx, s.args...)
	if err = end(tx, err); err != nil {
		return nil, err
	}
	return res, nil
}

// Get implements the dialect.Stmt interface.
func (s *Stmt) Get(ctx context.Context) (dialect.Row, error) {
	stmt, tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.get(ctx, stmt)
	if err = end(tx, err); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Stmt) get(ctx context.Context, stmt *sql.Stmt) (dialect.Row, error) {
	rows, err := stmt.QueryContext(ctx, s.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanRow(rows, columns)
}

// All implements the dialect.Stmt interface.
func (s *Stmt) All(ctx context.Context) ([]dialect.Row, error) {
	all := make([]dialect.Row, 0)
	_, err := s.Each(ctx, func(row dialect.Row) error {
		all = append(all, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// Each implements the dialect.Stmt interface. The connection is held while
// rows are visited, so fn must not issue statements on the same connection.
func (s *Stmt) Each(ctx context.Context, fn func(dialect.Row) error) (int, error) {
	stmt, tx, err := s.begin(ctx)
	if err != nil {
		return 0, err
	}
	n, err := s.each(ctx, stmt, fn)
	return n, end(tx, err)
}

func (s *Stmt) each(ctx context.Context, stmt *sql.Stmt, fn func(dialect.Row) error) (n int, err error) {
	rows, err := stmt.QueryContext(ctx, s.args...)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := rows.Close(); err == nil {
			err = cerr
		}
	}()
	columns, err := rows.Columns()
	if err != nil {
		return 0, err
	}
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return n, err
		}
		n++
		if err := fn(row); err != nil {
			return n, err
		}
	}
	return n, rows.Err()
}

// Finalize implements the dialect.Stmt interface.
func (s *Stmt) Finalize() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.stmt.Close()
}

// scanRow reads the current row of rows into a dialect.Row.
func scanRow(rows *sql.Rows, columns []string) (dialect.Row, error) {
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	row := make(dialect.Row, len(columns))
	for i, c := range columns {
		row[c] = values[i]
	}
	return row, nil
}

var (
	_ dialect.Connector = (*StmtConnector)(nil)
	_ dialect.Conn      = (*StmtConn)(nil)
	_ dialect.Stmt      = (*Stmt)(nil)
)
