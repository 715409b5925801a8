package sql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/storago"
	"github.com/syssam/storago/dialect"
	"github.com/syssam/storago/schema/field"
)

func TestCreateBuilder(t *testing.T) {
	a := NewAdapter(nil)

	tests := []struct {
		name   string
		table  *table
		want   string
		errStr string
	}{
		{
			name:  "two_text_fields",
			table: newTable("cars", field.Text("id"), field.Text("brand")),
			want:  "CREATE TABLE IF NOT EXISTS cars (id TEXT, brand TEXT);",
		},
		{
			name: "storage_types",
			table: newTable("cars",
				field.UUID("id"),
				field.Bool("sold"),
				field.DateTime("sold_at"),
				field.Double("price"),
				field.Numeric("rank"),
				field.JSON("options"),
				field.Blob("photo"),
			),
			want: "CREATE TABLE IF NOT EXISTS cars (id TEXT, sold INTEGER, sold_at INTEGER, price REAL, rank NUMERIC, options TEXT, photo BLOB);",
		},
		{
			name:   "unsupported_type",
			table:  newTable("cars", field.Text("id"), field.New("weird", field.TypeInvalid)),
			errStr: "not supported",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := a.Create(tt.table).Render()
			if tt.errStr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errStr)
				assert.True(t, field.IsKindNotSupported(err))
				assert.Empty(t, q)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestDropBuilder(t *testing.T) {
	a := NewAdapter(nil)
	assert.Equal(t, "DROP TABLE IF EXISTS cars;", a.Drop(newTable("cars", field.Text("id"))).Render())
}

func TestDDL_Execute(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	ctx := context.Background()
	a := NewAdapter(StatementDB(db))
	require.NoError(t, a.Connect(ctx))
	cars := newTable("cars", field.Text("id"), field.Text("brand"))

	mock.ExpectPrepare("CREATE TABLE IF NOT EXISTS cars (id TEXT, brand TEXT);").
		WillBeClosed().
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare("DROP TABLE IF EXISTS cars;").
		WillBeClosed().
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, a.Create(cars).Execute(ctx))
	require.NoError(t, a.Drop(cars).Execute(ctx))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBuilder_Render(t *testing.T) {
	a := NewAdapter(nil)
	cars := newTable("cars", field.Text("id"), field.Text("brand"))

	t.Run("single_row", func(t *testing.T) {
		q, args, err := a.Insert(cars).Add(dialect.Row{"id": "1", "brand": "ford"}).Render()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO cars (id, brand) VALUES (?, ?);", q)
		assert.Equal(t, []any{"1", "ford"}, args)
	})

	t.Run("row_major_values", func(t *testing.T) {
		ins := a.Insert(cars).Add(
			dialect.Row{"id": "1", "brand": "ford"},
			dialect.Row{"brand": "fiat", "id": "2"},
		)
		q, args, err := ins.Render()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO cars (id, brand) VALUES (?, ?), (?, ?);", q)
		assert.Equal(t, []any{"1", "ford", "2", "fiat"}, args)
		assert.Equal(t, args, ins.Values())
		assert.Equal(t, 2, ins.Len())
	})

	t.Run("idempotent", func(t *testing.T) {
		ins := a.Insert(cars).Add(dialect.Row{"id": "1", "brand": "ford"})
		q1, args1, err := ins.Render()
		require.NoError(t, err)
		q2, args2, err := ins.Render()
		require.NoError(t, err)
		assert.Equal(t, q1, q2)
		assert.Equal(t, args1, args2)
		assert.Len(t, args2, 2)
	})

	t.Run("missing_key_is_null", func(t *testing.T) {
		_, args, err := a.Insert(cars).Add(dialect.Row{"id": "1"}).Render()
		require.NoError(t, err)
		assert.Equal(t, []any{"1", nil}, args)
	})

	t.Run("nothing_to_insert", func(t *testing.T) {
		_, _, err := a.Insert(cars).Render()
		assert.ErrorIs(t, err, ErrNothingToInsert)
		_, err = a.Insert(cars).Execute(context.Background())
		assert.ErrorIs(t, err, ErrNothingToInsert)
	})

	t.Run("no_fields", func(t *testing.T) {
		_, _, err := a.Insert(newTable("empty")).Add(dialect.Row{"id": "1"}).Render()
		require.Error(t, err)
		assert.True(t, storago.IsSchemaError(err))
	})

	t.Run("reset", func(t *testing.T) {
		ins := a.Insert(cars).Add(dialect.Row{"id": "1"})
		_, _, err := ins.Render()
		require.NoError(t, err)
		ins.Reset()
		assert.Zero(t, ins.Len())
		assert.Nil(t, ins.Values())
		_, _, err = ins.Render()
		assert.ErrorIs(t, err, ErrNothingToInsert)
	})

	t.Run("rows_are_copied", func(t *testing.T) {
		row := dialect.Row{"id": "1", "brand": "ford"}
		ins := a.Insert(cars).Add(row)
		row["brand"] = "fiat"
		_, args, err := ins.Render()
		require.NoError(t, err)
		assert.Equal(t, []any{"1", "ford"}, args)
	})
}

func TestInsertBuilder_Coercion(t *testing.T) {
	a := NewAdapter(nil)
	at := time.UnixMilli(1700000000000)
	cars := newTable("cars",
		field.Text("id").Default(func() any { return "generated" }),
		field.Bool("sold"),
		field.DateTime("sold_at"),
		field.Int("doors"),
	)

	t.Run("storage_values", func(t *testing.T) {
		_, args, err := a.Insert(cars).Add(dialect.Row{"sold": true, "sold_at": at, "doors": "4"}).Render()
		require.NoError(t, err)
		assert.Equal(t, []any{"generated", int64(1), int64(1700000000000), int64(4)}, args)
	})

	t.Run("explicit_value_beats_default", func(t *testing.T) {
		_, args, err := a.Insert(cars).Add(dialect.Row{"id": "mine"}).Render()
		require.NoError(t, err)
		assert.Equal(t, "mine", args[0])
	})

	t.Run("invalid_value", func(t *testing.T) {
		_, _, err := a.Insert(cars).Add(dialect.Row{"doors": "four"}).Render()
		require.Error(t, err)
		assert.True(t, storago.IsValidationError(err))
		assert.True(t, storago.IsInvalidValue(err))
		var verr *storago.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "doors", verr.Name)
	})
}

func TestInsertBuilder_Execute(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	ctx := context.Background()
	a := NewAdapter(StatementDB(db))
	require.NoError(t, a.Connect(ctx))
	cars := newTable("cars", field.Text("id"), field.Text("brand"))

	mock.ExpectPrepare("INSERT INTO cars (id, brand) VALUES (?, ?), (?, ?);").
		WillBeClosed().
		ExpectExec().
		WithArgs("1", "ford", "2", "fiat").
		WillReturnResult(sqlmock.NewResult(2, 2))

	res, err := a.Insert(cars).Add(
		dialect.Row{"id": "1", "brand": "ford"},
		dialect.Row{"id": "2", "brand": "fiat"},
	).Execute(ctx)
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	errUnique := errors.New("UNIQUE constraint failed: cars.id")
	mock.ExpectPrepare("INSERT INTO cars (id, brand) VALUES (?, ?);").
		WillBeClosed().
		ExpectExec().
		WithArgs("1", "ford").
		WillReturnError(errUnique)
	err = a.Insert(cars).Add(dialect.Row{"id": "1", "brand": "ford"}).Save(ctx)
	assert.Equal(t, errUnique, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectBuilder_Render(t *testing.T) {
	a := NewAdapter(nil)
	cars := newTable("cars", field.Text("id"))

	tests := []struct {
		name   string
		build  func() *SelectBuilder
		want   string
		params []any
	}{
		{
			name:   "from_bound_table",
			build:  func() *SelectBuilder { return a.Select(cars).From("cars") },
			want:   "SELECT cars.id, cars.rowid FROM cars;",
			params: []any{},
		},
		{
			name:   "implicit_from",
			build:  func() *SelectBuilder { return a.Select(cars) },
			want:   "SELECT cars.id, cars.rowid FROM cars;",
			params: []any{},
		},
		{
			name:   "where",
			build:  func() *SelectBuilder { return a.Select(cars).From("cars").Where("id = ?", "123123") },
			want:   "SELECT cars.id, cars.rowid FROM cars WHERE id = ?;",
			params: []any{"123123"},
		},
		{
			name: "where_and",
			build: func() *SelectBuilder {
				return a.Select(cars).Where("id > ?", 1).Where("id < ? OR id = ?", []any{5, 9})
			},
			want:   "SELECT cars.id, cars.rowid FROM cars WHERE id > ? AND id < ? OR id = ?;",
			params: []any{1, 5, 9},
		},
		{
			name:   "other_table_selects_all",
			build:  func() *SelectBuilder { return a.Select(cars).From("owners") },
			want:   "SELECT owners.*, owners.rowid FROM owners;",
			params: []any{},
		},
		{
			name:   "explicit_columns",
			build:  func() *SelectBuilder { return a.Select(cars).From("cars", "id", "brand").Distinct() },
			want:   "SELECT DISTINCT cars.id, cars.brand, cars.rowid FROM cars;",
			params: []any{},
		},
		{
			name: "joins_grouped_by_kind",
			build: func() *SelectBuilder {
				return a.Select(cars).From("cars").
					JoinRight("dealers", "dealers.id = cars.dealer_id").
					JoinLeft("owners", "owners.id = cars.owner_id", "name", "makers.country").
					Join("makers", "makers.id = cars.maker_id")
			},
			want: "SELECT cars.id, cars.rowid, owners.name, makers.country FROM cars" +
				" JOIN makers ON makers.id = cars.maker_id" +
				" LEFT JOIN owners ON owners.id = cars.owner_id" +
				" RIGHT JOIN dealers ON dealers.id = cars.dealer_id;",
			params: []any{},
		},
		{
			name: "order_limit_offset",
			build: func() *SelectBuilder {
				return a.Select(cars).OrderBy("brand").OrderBy("rowid", "desc").Limit(10, 20)
			},
			want:   "SELECT cars.id, cars.rowid FROM cars ORDER BY brand ASC, rowid DESC LIMIT 10 OFFSET 20;",
			params: []any{},
		},
		{
			name:   "offset_without_limit",
			build:  func() *SelectBuilder { return a.Select(cars).Offset(5) },
			want:   "SELECT cars.id, cars.rowid FROM cars LIMIT -1 OFFSET 5;",
			params: []any{},
		},
		{
			name:   "distinct_cleared",
			build:  func() *SelectBuilder { return a.Select(cars).Distinct().SetDistinct(false) },
			want:   "SELECT cars.id, cars.rowid FROM cars;",
			params: []any{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.build()
			q, params := s.Render()
			assert.Equal(t, tt.want, q)
			assert.Equal(t, tt.params, params)
			assert.Equal(t, tt.params, s.Params())
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestSelectBuilder_RenderIdempotent(t *testing.T) {
	a := NewAdapter(nil)
	s := a.Select(newTable("cars", field.Text("id"))).Where("id = ?", "1").Limit(1)
	q1, p1 := s.Render()
	q2, p2 := s.Render()
	assert.Equal(t, q1, q2)
	assert.Equal(t, p1, p2)
	assert.Len(t, p2, 1)
}

func TestSelectBuilder_Execute(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	ctx := context.Background()
	a := NewAdapter(StatementDB(db))
	require.NoError(t, a.Connect(ctx))
	cars := newTable("cars", field.Text("id"), field.Bool("sold"))

	t.Run("all_populates_in_order", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "sold", "rowid"})
		for i := range 20 {
			rows.AddRow(string(rune('a'+i)), int64(i%2), int64(i+1))
		}
		mock.ExpectPrepare("SELECT cars.id, cars.sold, cars.rowid FROM cars ORDER BY rowid ASC;").
			WillBeClosed().
			ExpectQuery().
			WillReturnRows(rows)
		got, err := a.Select(cars).OrderBy("rowid").All(ctx)
		require.NoError(t, err)
		require.Len(t, got, 20)
		for i, r := range got {
			assert.Equal(t, string(rune('a'+i)), r["id"])
			assert.Equal(t, i%2 == 1, r["sold"])
			assert.Equal(t, int64(i+1), r["rowid"])
		}
	})

	t.Run("all_empty_is_not_nil", func(t *testing.T) {
		mock.ExpectPrepare("SELECT cars.id, cars.sold, cars.rowid FROM cars WHERE id = ?;").
			WillBeClosed().
			ExpectQuery().
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id", "sold", "rowid"}))
		got, err := a.Select(cars).Where("id = ?", "missing").All(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("one", func(t *testing.T) {
		mock.ExpectPrepare("SELECT cars.id, cars.sold, cars.rowid FROM cars LIMIT 1;").
			WillBeClosed().
			ExpectQuery().
			WillReturnRows(sqlmock.NewRows([]string{"id", "sold", "rowid"}).AddRow("a", int64(1), int64(1)))
		got, err := a.Select(cars).One(ctx)
		require.NoError(t, err)
		assert.Equal(t, dialect.Row{"id": "a", "sold": true, "rowid": int64(1)}, got)
	})

	t.Run("one_empty", func(t *testing.T) {
		mock.ExpectPrepare("SELECT cars.id, cars.sold, cars.rowid FROM cars LIMIT 1;").
			WillBeClosed().
			ExpectQuery().
			WillReturnRows(sqlmock.NewRows([]string{"id", "sold", "rowid"}))
		got, err := a.Select(cars).One(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("populate_error", func(t *testing.T) {
		mock.ExpectPrepare("SELECT cars.id, cars.sold, cars.rowid FROM cars;").
			WillBeClosed().
			ExpectQuery().
			WillReturnRows(sqlmock.NewRows([]string{"id", "sold", "rowid"}).AddRow("a", "maybe", int64(1)))
		_, err := a.Select(cars).All(ctx)
		require.Error(t, err)
		assert.True(t, storago.IsValidationError(err))
	})

	t.Run("raw_rows", func(t *testing.T) {
		mock.ExpectPrepare("SELECT cars.id, cars.sold, cars.rowid FROM cars;").
			WillBeClosed().
			ExpectQuery().
			WillReturnRows(sqlmock.NewRows([]string{"id", "sold", "rowid"}).AddRow("a", int64(0), int64(1)))
		got, err := a.Select(cars).Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, []dialect.Row{{"id": "a", "sold": int64(0), "rowid": int64(1)}}, got)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectBuilder_PredicateError(t *testing.T) {
	a := NewAdapter(connectorFunc(func(context.Context) (dialect.Conn, error) {
		t.Fatal("driver must not be reached")
		return nil, nil
	}))
	doors := field.Int("doors")
	s := a.Select(newTable("cars", doors)).WhereP(C(doors).EQ("four"))
	_, err := s.All(context.Background())
	require.Error(t, err)
	assert.True(t, storago.IsValidationError(err))
}
