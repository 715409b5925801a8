package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/syssam/storago/dialect"
)

// TxConnector is a dialect.Connector that runs every execution of a prepared
// statement in a transaction of its own. The transaction commits when the
// statement executes successfully and rolls back when it fails.
type TxConnector struct {
	source
	opts *sql.TxOptions
}

// Transaction returns a transactional connector that opens the named
// database/sql driver with the given data source name.
func Transaction(driverName, dsn string) *TxConnector {
	return &TxConnector{source: source{driver: driverName, dsn: dsn}}
}

// TransactionDB returns a transactional connector over an already opened database.
func TransactionDB(db *sql.DB) *TxConnector {
	return &TxConnector{source: source{db: db}}
}

// WithTxOptions sets the options used to begin each transaction.
func (c *TxConnector) WithTxOptions(opts *sql.TxOptions) *TxConnector {
	c.opts = opts
	return c
}

// Connect implements the dialect.Connector interface.
func (c *TxConnector) Connect(ctx context.Context) (dialect.Conn, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	return &TxConn{db: db, opts: c.opts}, nil
}

// TxConn is the connection returned by TxConnector.
type TxConn struct {
	db   *sql.DB
	opts *sql.TxOptions
}

// DB returns the underlying *sql.DB instance.
func (c *TxConn) DB() *sql.DB { return c.db }

// Prepare prepares the query on the database. No transaction is open until
// the statement executes, so several statements may be prepared at once.
func (c *TxConn) Prepare(ctx context.Context, query string, args []any) (dialect.Stmt, error) {
	stmt, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &Stmt{stmt: stmt, args: args, conn: c}, nil
}

// Close implements the dialect.Conn interface.
func (c *TxConn) Close() error { return c.db.Close() }

// begin returns the statement to execute and, for statements of a TxConn,
// the transaction it runs in.
func (s *Stmt) begin(ctx context.Context) (*sql.Stmt, *sql.Tx, error) {
	if s.closed {
		return nil, nil, errFinalized
	}
	if s.conn == nil {
		return s.stmt, nil, nil
	}
	tx, err := s.conn.db.BeginTx(ctx, s.conn.opts)
	if err != nil {
		return nil, nil, err
	}
	return tx.StmtContext(ctx, s.stmt), tx, nil
}

// end completes tx, if any, with the outcome of the execution.
func end(tx *sql.Tx, err error) error {
	switch {
	case tx == nil:
		return err
	case err != nil:
		return rollback(tx, err)
	default:
		return tx.Commit()
	}
}

// rollback calls tx.Rollback and wraps the given error with the rollback
// error if it occurred.
func rollback(tx *sql.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

var (
	_ dialect.Connector = (*TxConnector)(nil)
	_ dialect.Conn      = (*TxConn)(nil)
)
