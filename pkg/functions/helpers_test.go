package functions_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/sqlfn/internal/testutil"
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/dialects/sqlite"
	"github.com/leapstack-labs/sqlfn/pkg/function"
	"github.com/leapstack-labs/sqlfn/pkg/functions"
	"github.com/leapstack-labs/sqlfn/pkg/sqlgen"
)

// sqliteVariant builds an unregistered dialect from the SQLite profile
// with mutate applied, so that every strategy can run on one engine.
func sqliteVariant(name string, mutate func(*core.DialectConfig)) *dialect.Dialect {
	cfg := *sqlite.Config
	cfg.Name = name
	mutate(&cfg)
	return dialect.New(&cfg).
		Functions(functions.Common, functions.TimestampAdd("datetime(?3,(?2)||' ?1')")).
		WithReservedWords("order", "select", "value").
		Build()
}

func openSQLite(t *testing.T, setup ...string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// one connection keeps the in-memory database alive across statements
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range setup {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return db
}

// queryRows runs a compiled statement and returns its columns and rows.
// Text values are returned as strings.
func queryRows(t *testing.T, db *sql.DB, res *sqlgen.Result) ([]string, [][]any) {
	t.Helper()
	rows, err := db.Query(res.SQL, res.Params...)
	require.NoError(t, err, res.SQL)
	defer rows.Close()

	cols, err := rows.Columns()
	require.NoError(t, err)
	var out [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		require.NoError(t, rows.Scan(ptrs...))
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	require.NoError(t, rows.Err())
	return cols, out
}

func compile(t *testing.T, d *dialect.Dialect, q core.QueryPart, opts ...sqlgen.Option) (*sqlgen.Result, *core.SelectStatement) {
	t.Helper()
	stmt := core.NewSelectStatement(q)
	opts = append([]sqlgen.Option{sqlgen.WithLogger(testutil.NewTestLogger(t))}, opts...)
	res, err := sqlgen.New(d, opts...).Compile(stmt)
	require.NoError(t, err)
	t.Log(res.SQL)
	return res, stmt
}

func compileErr(t *testing.T, d *dialect.Dialect, q core.QueryPart) error {
	t.Helper()
	_, err := sqlgen.New(d).Compile(core.NewSelectStatement(q))
	require.Error(t, err)
	return err
}

func renderExpr(t *testing.T, d *dialect.Dialect, e core.Expr) string {
	t.Helper()
	res, err := sqlgen.New(d).RenderExpr(e)
	require.NoError(t, err)
	return res.SQL
}

func call(t *testing.T, d *dialect.Dialect, name string, args []core.Expr, opts ...function.CallOption) *core.FuncCall {
	t.Helper()
	c, err := d.Functions().Call(name, args, opts...)
	require.NoError(t, err)
	return c
}

func col(q, name string, typ *core.Type) *core.ColumnRef {
	return &core.ColumnRef{Qualifier: q, Column: name, Type: typ}
}

func table(name, alias string) *core.TableGroup {
	return &core.TableGroup{Ref: &core.NamedTable{Name: name}, Alias: alias}
}

func date(s string) *core.Literal {
	return &core.Literal{Kind: core.LiteralString, Value: s, Type: core.Date}
}

func days(n int64) *core.DurationExpr {
	return &core.DurationExpr{Magnitude: core.Int(n), Unit: core.UnitDay}
}
