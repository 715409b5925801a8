package sql

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/storago"
	"github.com/syssam/storago/dialect"
	"github.com/syssam/storago/schema/field"
)

// table is a minimal Table used by the builder tests.
type table struct {
	name   string
	fields []*field.Field
}

func newTable(name string, fields ...*field.Field) *table {
	return &table{name: name, fields: fields}
}

func (t *table) Name() string           { return t.name }
func (t *table) Fields() []*field.Field { return t.fields }

func (t *table) PopulateFromDB(_ context.Context, raw dialect.Row) (dialect.Row, error) {
	row := make(dialect.Row, len(raw))
	for k, v := range raw {
		row[k] = v
		for _, f := range t.fields {
			if f.Name() != k {
				continue
			}
			av, err := FromStorage(f.Type(), v)
			if err != nil {
				return nil, storago.NewValidationError(k, err)
			}
			row[k] = av
		}
	}
	return row, nil
}

// connectorFunc adapts a function to dialect.Connector.
type connectorFunc func(context.Context) (dialect.Conn, error)

func (f connectorFunc) Connect(ctx context.Context) (dialect.Conn, error) { return f(ctx) }

// fakeConn records the statements prepared on it.
type fakeConn struct {
	prepareErr error
	closeErr   error
	closed     bool
	stmts      []*fakeStmt
	newStmt    func(query string, args []any) *fakeStmt
}

func (c *fakeConn) Prepare(_ context.Context, query string, args []any) (dialect.Stmt, error) {
	if c.prepareErr != nil {
		return nil, c.prepareErr
	}
	s := &fakeStmt{query: query, args: args}
	if c.newStmt != nil {
		s = c.newStmt(query, args)
	}
	c.stmts = append(c.stmts, s)
	return s, nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return c.closeErr
}

type fakeStmt struct {
	query       string
	args        []any
	rows        []dialect.Row
	err         error
	finalizeErr error
	finalized   int
	run         func()
}

func (s *fakeStmt) exec() error {
	if s.run != nil {
		s.run()
	}
	return s.err
}

func (s *fakeStmt) Run(context.Context) (dialect.Result, error) {
	if err := s.exec(); err != nil {
		return nil, err
	}
	return sqlmock.NewResult(1, 1), nil
}

func (s *fakeStmt) Get(context.Context) (dialect.Row, error) {
	if err := s.exec(); err != nil || len(s.rows) == 0 {
		return nil, err
	}
	return s.rows[0], nil
}

func (s *fakeStmt) All(context.Context) ([]dialect.Row, error) {
	if err := s.exec(); err != nil {
		return nil, err
	}
	return append(make([]dialect.Row, 0), s.rows...), nil
}

func (s *fakeStmt) Each(_ context.Context, fn func(dialect.Row) error) (int, error) {
	if err := s.exec(); err != nil {
		return 0, err
	}
	for i, r := range s.rows {
		if err := fn(r); err != nil {
			return i + 1, err
		}
	}
	return len(s.rows), nil
}

func (s *fakeStmt) Finalize() error {
	s.finalized++
	return s.finalizeErr
}

func fakeAdapter(t *testing.T, conn *fakeConn, opts ...Option) *Adapter {
	t.Helper()
	a := NewAdapter(connectorFunc(func(context.Context) (dialect.Conn, error) {
		return conn, nil
	}), opts...)
	require.NoError(t, a.Connect(context.Background()))
	return a
}

func TestAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(connectorFunc(func(context.Context) (dialect.Conn, error) {
		t.Fatal("driver must not be reached")
		return nil, nil
	}))
	assert.False(t, a.Connected())

	tests := []struct {
		name string
		call func() error
	}{
		{name: "conn", call: func() error { _, err := a.Conn(); return err }},
		{name: "prepare", call: func() error { _, err := a.Prepare(ctx, "SELECT 1", nil); return err }},
		{name: "run", call: func() error { _, err := a.Run(ctx, "SELECT 1", nil); return err }},
		{name: "get", call: func() error { _, err := a.Get(ctx, "SELECT 1", nil); return err }},
		{name: "query", call: func() error { _, err := a.Query(ctx, "SELECT 1", nil); return err }},
		{name: "all", call: func() error { _, err := a.All(ctx, "SELECT 1", nil); return err }},
		{
			name: "each",
			call: func() error {
				_, err := a.Each(ctx, "SELECT 1", nil, func(dialect.Row) error { return nil })
				return err
			},
		},
		{
			name: "select",
			call: func() error { _, err := a.Select(newTable("cars", field.Text("id"))).All(ctx); return err },
		},
		{
			name: "create",
			call: func() error { return a.Create(newTable("cars", field.Text("id"))).Execute(ctx) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, storago.ErrDatabaseNotConnected)
			assert.True(t, storago.IsNotConnected(err))
		})
	}
}

func TestAdapter_Connect(t *testing.T) {
	ctx := context.Background()

	t.Run("idempotent", func(t *testing.T) {
		calls := 0
		a := NewAdapter(connectorFunc(func(context.Context) (dialect.Conn, error) {
			calls++
			return &fakeConn{}, nil
		}))
		require.NoError(t, a.Connect(ctx))
		require.NoError(t, a.Connect(ctx))
		assert.Equal(t, 1, calls)
		assert.True(t, a.Connected())
	})

	t.Run("error", func(t *testing.T) {
		errOpen := errors.New("unable to open database file")
		a := NewAdapter(connectorFunc(func(context.Context) (dialect.Conn, error) {
			return nil, errOpen
		}))
		assert.Equal(t, errOpen, a.Connect(ctx))
		assert.False(t, a.Connected())
	})
}

func TestAdapter_Close(t *testing.T) {
	ctx := context.Background()

	t.Run("clears_state", func(t *testing.T) {
		conn := &fakeConn{}
		a := fakeAdapter(t, conn)
		require.NoError(t, a.Close())
		assert.True(t, conn.closed)
		assert.False(t, a.Connected())
		require.NoError(t, a.Close(), "closing twice is a no-op")

		_, err := a.Run(ctx, "SELECT 1", nil)
		assert.ErrorIs(t, err, storago.ErrDatabaseNotConnected)
	})

	t.Run("driver_error", func(t *testing.T) {
		errClose := errors.New("database is locked")
		a := fakeAdapter(t, &fakeConn{closeErr: errClose})
		assert.Equal(t, errClose, a.Close())
		assert.False(t, a.Connected(), "state is cleared regardless of the outcome")
	})
}

func TestAdapter_Finalize(t *testing.T) {
	ctx := context.Background()
	errDriver := errors.New("SQL logic error")
	errFinalize := errors.New("finalize failed")

	tests := []struct {
		name    string
		stmt    *fakeStmt
		call    func(a *Adapter) error
		wantErr error
	}{
		{
			name:    "run_error",
			stmt:    &fakeStmt{err: errDriver},
			call:    func(a *Adapter) error { _, err := a.Run(ctx, "q", nil); return err },
			wantErr: errDriver,
		},
		{
			name:    "get_error",
			stmt:    &fakeStmt{err: errDriver},
			call:    func(a *Adapter) error { _, err := a.Get(ctx, "q", nil); return err },
			wantErr: errDriver,
		},
		{
			name:    "query_error",
			stmt:    &fakeStmt{err: errDriver},
			call:    func(a *Adapter) error { _, err := a.Query(ctx, "q", nil); return err },
			wantErr: errDriver,
		},
		{
			name: "each_callback_error",
			stmt: &fakeStmt{rows: []dialect.Row{{"id": 1}, {"id": 2}}},
			call: func(a *Adapter) error {
				_, err := a.Each(ctx, "q", nil, func(dialect.Row) error { return errDriver })
				return err
			},
			wantErr: errDriver,
		},
		{
			name:    "op_error_wins",
			stmt:    &fakeStmt{err: errDriver, finalizeErr: errFinalize},
			call:    func(a *Adapter) error { _, err := a.Query(ctx, "q", nil); return err },
			wantErr: errDriver,
		},
		{
			name:    "finalize_error",
			stmt:    &fakeStmt{finalizeErr: errFinalize},
			call:    func(a *Adapter) error { _, err := a.Run(ctx, "q", nil); return err },
			wantErr: errFinalize,
		},
		{
			name: "success",
			stmt: &fakeStmt{rows: []dialect.Row{{"id": 1}}},
			call: func(a *Adapter) error { _, err := a.All(ctx, "q", nil); return err },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeConn{newStmt: func(string, []any) *fakeStmt { return tt.stmt }}
			a := fakeAdapter(t, conn)
			err := tt.call(a)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err, "driver errors are returned unchanged")
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 1, tt.stmt.finalized, "statement is finalized exactly once")
		})
	}
}

func TestAdapter_PrepareError(t *testing.T) {
	errSyntax := errors.New(`near "SELEC": syntax error`)
	a := fakeAdapter(t, &fakeConn{prepareErr: errSyntax})
	_, err := a.Prepare(context.Background(), "SELEC 1", nil)
	assert.Equal(t, errSyntax, err)
	_, err = a.Query(context.Background(), "SELEC 1", nil)
	assert.Equal(t, errSyntax, err)
}

func TestAdapter_Primitives(t *testing.T) {
	ctx := context.Background()
	rows := []dialect.Row{{"id": "1"}, {"id": "2"}}
	conn := &fakeConn{newStmt: func(q string, args []any) *fakeStmt {
		return &fakeStmt{query: q, args: args, rows: rows}
	}}
	a := fakeAdapter(t, conn)

	row, err := a.Get(ctx, "SELECT id FROM cars", nil)
	require.NoError(t, err)
	assert.Equal(t, rows[0], row)

	all, err := a.Query(ctx, "SELECT id FROM cars WHERE id > ?", []any{0})
	require.NoError(t, err)
	assert.Equal(t, rows, all)

	var seen []dialect.Row
	n, err := a.Each(ctx, "SELECT id FROM cars", nil, func(r dialect.Row) error {
		seen = append(seen, r)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, rows, seen)

	res, err := a.Run(ctx, "DELETE FROM cars", nil)
	require.NoError(t, err)
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	require.Len(t, conn.stmts, 4)
	assert.Equal(t, "SELECT id FROM cars WHERE id > ?", conn.stmts[1].query)
	assert.Equal(t, []any{0}, conn.stmts[1].args)
}

func TestAdapter_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := fakeAdapter(t, &fakeConn{}, WithLogger(logger), Debug())
	assert.Same(t, logger, a.Logger())

	_, err := a.Run(context.Background(), "DROP TABLE IF EXISTS cars;", nil)
	require.NoError(t, err)
	_, err = a.Query(context.Background(), "SELECT 1 WHERE ? = ?", []any{1, 1})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=exec")
	assert.Contains(t, out, `statement="DROP TABLE IF EXISTS cars;"`)
	assert.Contains(t, out, "msg=query")
	assert.Contains(t, out, "args=\"[1 1]\"")
}

func TestAdapter_Coercer(t *testing.T) {
	a := NewAdapter(nil)
	f := field.Bool("sold")

	typ, err := f.CastDB(a)
	require.NoError(t, err)
	assert.Equal(t, field.StorageInteger, typ)

	v, err := f.ToDB(a, dialect.Row{"sold": true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = f.ToDB(a, dialect.Row{})
	require.NoError(t, err)
	assert.Nil(t, v, "a missing key is stored as NULL")

	v, err = f.FromDB(a, int64(0))
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestAdapter_StatementDB(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	ctx := context.Background()
	a := NewAdapter(StatementDB(db))
	require.NoError(t, a.Connect(ctx))

	mock.ExpectPrepare("SELECT cars.id, cars.rowid FROM cars WHERE id = ?;").
		WillBeClosed().
		ExpectQuery().
		WithArgs("123123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "rowid"}).AddRow("123123", int64(1)))
	cars := newTable("cars", field.Text("id"))
	rows, err := a.Select(cars).From("cars").Where("id = ?", "123123").All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dialect.Row{{"id": "123123", "rowid": int64(1)}}, rows)

	mock.ExpectClose()
	require.NoError(t, a.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}
