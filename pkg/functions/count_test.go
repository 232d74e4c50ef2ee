package functions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/dialects/duckdb"
	"github.com/leapstack-labs/sqlfn/pkg/dialects/mysql"
	"github.com/leapstack-labs/sqlfn/pkg/dialects/sqlite"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

func identifier(q string) *core.ColumnRef {
	return &core.ColumnRef{Qualifier: q, Column: "id", Type: core.Long, Identifier: true}
}

func join(typ core.JoinType, g *core.TableGroup) *core.TableGroupJoin {
	j := &core.TableGroupJoin{Type: typ, Group: g}
	if typ != core.JoinCross {
		j.Predicate = core.Bin(col(g.Alias, "o_id", core.Long), core.OpEq, identifier("o"))
	}
	return j
}

func countQuery(t *testing.T, d *dialect.Dialect, arg *core.ColumnRef, joins ...*core.TableGroupJoin) *core.QuerySpec {
	o := table("orders", "o")
	o.Joins = joins
	return &core.QuerySpec{
		Select: []core.SelectItem{{Expr: call(t, d, "count", []core.Expr{arg}), Alias: "n"}},
		From:   []*core.TableGroup{o},
	}
}

func TestCount_IdentifierBecomesStar(t *testing.T) {
	d := sqlite.SQLite
	tests := []struct {
		name  string
		arg   *core.ColumnRef
		joins func() []*core.TableGroupJoin
		want  string
	}{
		{
			name: "single table",
			arg:  identifier("o"),
			want: "count(*)",
		},
		{
			name: "inner and cross joins",
			arg:  identifier("o"),
			joins: func() []*core.TableGroupJoin {
				return []*core.TableGroupJoin{join(core.JoinInner, table("lines", "l")), join(core.JoinCross, table("regions", "r"))}
			},
			want: "count(*)",
		},
		{
			name: "outer side of a left join",
			arg:  identifier("o"),
			joins: func() []*core.TableGroupJoin {
				return []*core.TableGroupJoin{join(core.JoinLeft, table("lines", "l"))}
			},
			want: "count(*)",
		},
		{
			name: "identifier of a left joined table",
			arg:  identifier("l"),
			joins: func() []*core.TableGroupJoin {
				return []*core.TableGroupJoin{join(core.JoinLeft, table("lines", "l"))}
			},
			want: "count(l.id)",
		},
		{
			name: "right join anywhere",
			arg:  identifier("o"),
			joins: func() []*core.TableGroupJoin {
				return []*core.TableGroupJoin{join(core.JoinInner, table("lines", "l")), join(core.JoinRight, table("regions", "r"))}
			},
			want: "count(o.id)",
		},
		{
			name: "full join nested in a joined group",
			arg:  identifier("o"),
			joins: func() []*core.TableGroupJoin {
				l := table("lines", "l")
				l.Joins = []*core.TableGroupJoin{join(core.JoinFull, table("products", "p"))}
				return []*core.TableGroupJoin{join(core.JoinInner, l)}
			},
			want: "count(o.id)",
		},
		{
			name: "nullable identifier",
			arg:  &core.ColumnRef{Qualifier: "o", Column: "id", Type: core.Long, Identifier: true, Nullable: true},
			want: "count(o.id)",
		},
		{
			name: "plain column",
			arg:  col("o", "amount", core.Long),
			want: "count(o.amount)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var joins []*core.TableGroupJoin
			if tt.joins != nil {
				joins = tt.joins()
			}
			res, _ := compile(t, d, countQuery(t, d, tt.arg, joins...))
			assert.Contains(t, res.SQL, "select "+tt.want+" n from orders o")
		})
	}
}

func TestCount_DistinctTuple(t *testing.T) {
	tuple := func(t *testing.T, d *dialect.Dialect) *core.QuerySpec {
		args := []core.Expr{col("t", "a", core.String), col("t", "b", core.Integer)}
		return &core.QuerySpec{
			Select: []core.SelectItem{{Expr: call(t, d, "count", args, function.Distinct()), Alias: "n"}},
			From:   []*core.TableGroup{table("t", "t")},
		}
	}

	t.Run("row value", func(t *testing.T) {
		res, _ := compile(t, duckdb.DuckDB, tuple(t, duckdb.DuckDB))
		assert.Equal(t, "select count(distinct (t.a,t.b)) n from t", res.SQL)
	})

	t.Run("argument list", func(t *testing.T) {
		res, _ := compile(t, mysql.MySQL, tuple(t, mysql.MySQL))
		assert.Equal(t, "select count(distinct t.a,t.b) n from t", res.SQL)
	})

	t.Run("concatenation", func(t *testing.T) {
		db := openSQLite(t,
			"create table t(a text, b integer)",
			`insert into t values ('x',1),('x',1),('x',2),('',1),(null,1),('x',null),('1x',null)`,
		)
		res, _ := compile(t, sqlite.SQLite, tuple(t, sqlite.SQLite))
		assert.Contains(t, res.SQL, "count(distinct case when t.a is not null and t.b is not null then ")

		_, rows := queryRows(t, db, res)
		// ('x',1) ('x',2) ('',1); tuples with a null element are not counted
		assert.Equal(t, [][]any{{int64(3)}}, rows)
	})

	t.Run("empty strings keep their position", func(t *testing.T) {
		db := openSQLite(t,
			"create table t(a text, b text)",
			`insert into t values ('','x'),('x','')`,
		)
		d := sqlite.SQLite
		args := []core.Expr{col("t", "a", core.String), col("t", "b", core.String)}
		q := &core.QuerySpec{
			Select: []core.SelectItem{{Expr: call(t, d, "count", args, function.Distinct()), Alias: "n"}},
			From:   []*core.TableGroup{table("t", "t")},
		}
		res, _ := compile(t, d, q)
		_, rows := queryRows(t, db, res)
		assert.Equal(t, [][]any{{int64(2)}}, rows)
	})
}

func TestCount_ArgumentErrors(t *testing.T) {
	d := sqlite.SQLite
	q := &core.QuerySpec{
		Select: []core.SelectItem{{Expr: call(t, d, "count", []core.Expr{col("t", "a", core.Long), col("t", "b", core.Long)})}},
		From:   []*core.TableGroup{table("t", "t")},
	}
	err := compileErr(t, d, q)
	var argErr *function.ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "count", argErr.Function)
}
