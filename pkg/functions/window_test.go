package functions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/dialects/h2"
	"github.com/leapstack-labs/sqlfn/pkg/dialects/sqlite"
	"github.com/leapstack-labs/sqlfn/pkg/dialects/sqlserver"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

var salesTable = []string{
	"create table sales(region text, amount integer)",
	"insert into sales values ('east',10),('east',20),('east',20),('west',20),('west',30)",
}

func region() *core.ColumnRef { return col("s", "region", core.String) }
func amount() *core.ColumnRef { return col("s", "amount", core.Integer) }

// salesQuery groups sales by region with a count and a sum; extra items
// are appended to the select list.
func salesQuery(t *testing.T, d *dialect.Dialect, extra ...core.SelectItem) *core.QuerySpec {
	items := []core.SelectItem{
		{Expr: region()},
		{Expr: call(t, d, "count", nil, function.Star()), Alias: "n"},
		{Expr: call(t, d, "sum", []core.Expr{amount()}), Alias: "total"},
	}
	return &core.QuerySpec{
		Select:  append(items, extra...),
		From:    []*core.TableGroup{table("sales", "s")},
		GroupBy: []core.Expr{region()},
		OrderBy: []core.OrderByItem{{Expr: region()}},
	}
}

func rankOf(t *testing.T, d *dialect.Dialect, name string, value int64) core.SelectItem {
	return core.SelectItem{
		Expr: call(t, d, name, []core.Expr{core.Int(value)},
			function.WithinGroup(core.OrderByItem{Expr: amount()})),
		Alias: "r",
	}
}

func TestWindowEmulation_PreservesGroupedColumns(t *testing.T) {
	db := openSQLite(t, salesTable...)
	d := sqlite.SQLite

	baseline, _ := compile(t, d, salesQuery(t, d))
	assert.Equal(t,
		"select s.region,count(*) n,sum(s.amount) total from sales s group by s.region order by s.region",
		baseline.SQL)
	baseCols, baseRows := queryRows(t, db, baseline)

	q := salesQuery(t, d, rankOf(t, d, "rank", 20))
	res, stmt := compile(t, d, q)
	assert.Contains(t, res.SQL, "rank() over (partition by s.region order by s.amount)")
	assert.Contains(t, res.SQL, "group by w1.col0")

	outer := core.FirstSpec(stmt.Query)
	require.Len(t, outer.Select, len(q.Select))

	cols, rows := queryRows(t, db, res)
	assert.Equal(t, append(baseCols, "r"), cols)
	require.Len(t, rows, len(baseRows))
	for i := range rows {
		assert.Equal(t, baseRows[i], rows[i][:len(baseCols)], "row %d", i)
	}
	assert.Equal(t, int64(2), rows[0][3], "east")
	assert.Equal(t, int64(1), rows[1][3], "west")
}

func TestWindowEmulation_DenseRankAndFilter(t *testing.T) {
	db := openSQLite(t, salesTable...)
	d := sqlite.SQLite

	q := &core.QuerySpec{
		Select: []core.SelectItem{
			{Expr: region(), Alias: "region"},
			rankOf(t, d, "dense_rank", 20),
			{
				Expr: call(t, d, "count", []core.Expr{amount()},
					function.WithFilter(core.Bin(amount(), core.OpGt, core.Int(10)))),
				Alias: "big",
			},
		},
		From:    []*core.TableGroup{table("sales", "s")},
		GroupBy: []core.Expr{region()},
		OrderBy: []core.OrderByItem{{Expr: region()}},
	}
	res, _ := compile(t, d, q)

	_, rows := queryRows(t, db, res)
	assert.Equal(t, [][]any{
		{"east", int64(2), int64(2)},
		{"west", int64(1), int64(2)},
	}, rows)
}

func TestWindowEmulation_NoGroupBy(t *testing.T) {
	db := openSQLite(t, salesTable...)
	d := sqlite.SQLite

	q := &core.QuerySpec{
		Select: []core.SelectItem{rankOf(t, d, "rank", 30)},
		From:   []*core.TableGroup{table("sales", "s")},
	}
	res, _ := compile(t, d, q)
	assert.Contains(t, res.SQL, "rank() over (order by s.amount)")

	_, rows := queryRows(t, db, res)
	assert.Equal(t, [][]any{{int64(5)}}, rows)
}

var scoresTable = []string{
	"create table scores(region text, amount integer, bonus integer)",
	"insert into scores values ('east',10,1),('east',20,2),('east',20,5),('west',20,2),('west',30,3)",
}

func TestWindowEmulation_MultipleArguments(t *testing.T) {
	tests := []struct {
		name  string
		d     *dialect.Dialect
		match string
	}{
		{"row values", sqlite.SQLite, "(w1.col2,w1.col3)=(20,2)"},
		{"conjunction", sqliteVariant("sqlite-no-row-values", func(c *core.DialectConfig) {
			c.RowValueComparison = false
		}), "w1.col2=20 and w1.col3=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.d
			q := &core.QuerySpec{
				Select: []core.SelectItem{
					{Expr: region()},
					{
						Expr: call(t, d, "rank", []core.Expr{core.Int(20), core.Int(2)},
							function.WithinGroup(
								core.OrderByItem{Expr: amount()},
								core.OrderByItem{Expr: col("s", "bonus", core.Integer)},
							)),
						Alias: "r",
					},
				},
				From:    []*core.TableGroup{table("scores", "s")},
				GroupBy: []core.Expr{region()},
				OrderBy: []core.OrderByItem{{Expr: region()}},
			}
			res, _ := compile(t, d, q)
			assert.Contains(t, res.SQL, "rank() over (partition by s.region order by s.amount,s.bonus)")
			assert.Contains(t, res.SQL, tt.match)

			_, rows := queryRows(t, openSQLite(t, scoresTable...), res)
			assert.Equal(t, [][]any{{"east", int64(2)}, {"west", int64(1)}}, rows)
		})
	}
}

func TestWindowEmulation_OuterClauses(t *testing.T) {
	d := sqlite.SQLite
	countStar := func() *core.FuncCall { return call(t, d, "count", nil, function.Star()) }
	query := func() *core.QuerySpec {
		return &core.QuerySpec{
			Select:  []core.SelectItem{{Expr: region()}, rankOf(t, d, "rank", 20)},
			From:    []*core.TableGroup{table("sales", "s")},
			GroupBy: []core.Expr{region()},
			OrderBy: []core.OrderByItem{{Expr: region()}},
		}
	}

	t.Run("having aggregate read from the inner query", func(t *testing.T) {
		q := query()
		q.Having = core.Bin(countStar(), core.OpGt, core.Int(2))
		res, stmt := compile(t, d, q)
		assert.Contains(t, res.SQL, "count(*) over (partition by s.region) col3")
		assert.Contains(t, res.SQL, "having coalesce(min(w1.col3),0)>2")

		outer := core.FirstSpec(stmt.Query)
		require.Len(t, outer.Select, 2)
		require.NotNil(t, outer.Having)

		_, rows := queryRows(t, openSQLite(t, salesTable...), res)
		assert.Equal(t, [][]any{{"east", int64(2)}}, rows)
	})

	t.Run("offset and fetch apply to the groups", func(t *testing.T) {
		q := query()
		q.Offset = core.Int(1)
		q.Fetch = core.Int(1)
		res, stmt := compile(t, d, q)
		assert.Contains(t, res.SQL, "order by w1.col0 limit 1 offset 1")

		inner := core.FirstSpec(core.FirstSpec(stmt.Query).From[0].Ref.(*core.DerivedTable).Query)
		assert.Nil(t, inner.Offset)
		assert.Nil(t, inner.Fetch)

		_, rows := queryRows(t, openSQLite(t, salesTable...), res)
		assert.Equal(t, [][]any{{"west", int64(1)}}, rows)
	})
}

func TestWindowEmulation_Errors(t *testing.T) {
	d := sqlite.SQLite
	tests := []struct {
		name  string
		query func(t *testing.T) *core.QuerySpec
	}{
		{
			name: "outside the select list",
			query: func(t *testing.T) *core.QuerySpec {
				q := salesQuery(t, d)
				q.Having = core.Bin(rankOf(t, d, "rank", 20).Expr, core.OpEq, core.Int(1))
				return q
			},
		},
		{
			name: "distinct aggregate alongside",
			query: func(t *testing.T) *core.QuerySpec {
				return salesQuery(t, d,
					rankOf(t, d, "rank", 20),
					core.SelectItem{Expr: call(t, d, "count", []core.Expr{amount()}, function.Distinct()), Alias: "k"})
			},
		},
		{
			name: "filter on a hypothetical set call",
			query: func(t *testing.T) *core.QuerySpec {
				return salesQuery(t, d, core.SelectItem{
					Expr: call(t, d, "rank", []core.Expr{core.Int(20)},
						function.WithinGroup(core.OrderByItem{Expr: amount()}),
						function.WithFilter(core.Bin(amount(), core.OpGt, core.Int(0)))),
					Alias: "r",
				})
			},
		},
		{
			name: "inverse distribution without support",
			query: func(t *testing.T) *core.QuerySpec {
				return salesQuery(t, d, core.SelectItem{
					Expr: call(t, d, "percentile_cont", []core.Expr{core.Number("0.5", core.Double)},
						function.WithinGroup(core.OrderByItem{Expr: amount()})),
					Alias: "p",
				})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := compileErr(t, d, tt.query(t))
			var unsupported *function.UnsupportedEmulationError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, "sqlite", unsupported.Dialect)
		})
	}
}

func TestOrderedSet_ArgumentCount(t *testing.T) {
	d := sqlite.SQLite
	q := salesQuery(t, d, core.SelectItem{
		Expr: call(t, d, "rank", []core.Expr{core.Int(1), core.Int(2)},
			function.WithinGroup(core.OrderByItem{Expr: amount()})),
	})
	err := compileErr(t, d, q)
	var argErr *function.ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "rank", argErr.Function)
}

func TestOrderedSet_Rendering(t *testing.T) {
	t.Run("native", func(t *testing.T) {
		d := h2.H2
		res, _ := compile(t, d, salesQuery(t, d, rankOf(t, d, "rank", 20)))
		assert.Equal(t,
			"select s.region,count(*) n,sum(s.amount) total,rank(20) within group (order by s.amount) r "+
				"from sales s group by s.region order by s.region",
			res.SQL)
	})

	t.Run("inverse distribution as window", func(t *testing.T) {
		d := sqlserver.SQLServer
		median := core.SelectItem{
			Expr: call(t, d, "percentile_cont", []core.Expr{core.Number("0.5", core.Double)},
				function.WithinGroup(core.OrderByItem{Expr: amount()})),
			Alias: "median",
		}
		res, _ := compile(t, d, salesQuery(t, d, median))
		assert.Contains(t, res.SQL,
			"percentile_cont(0.5) within group (order by s.amount) over (partition by s.region)")
		assert.Contains(t, res.SQL, "min(w1.col")
	})
}
