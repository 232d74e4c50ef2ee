package sqlgen

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/sqlfn/internal/testutil"
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/function"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_BasicSelect(t *testing.T) {
	d := newTestDialect(t, nil)
	q := &core.QuerySpec{
		Select: []core.SelectItem{
			{Expr: col("t", "a")},
			{Expr: call(t, d, "count", nil, function.Star()), Alias: "n"},
		},
		From:    []*core.TableGroup{table("orders", "t")},
		Where:   core.Bin(col("t", "b"), core.OpGt, &core.Param{Value: 5}),
		GroupBy: []core.Expr{col("t", "a")},
		OrderBy: []core.OrderByItem{{Expr: col("t", "a"), Desc: true}},
		Fetch:   core.Int(10),
	}

	res := compile(t, d, q)
	assert.Equal(t, "select t.a,count(*) n from orders t where t.b>$1 group by t.a order by t.a desc limit 10", res.SQL)
	assert.Equal(t, []any{5}, res.Params)
}

func TestCompile_Placeholders(t *testing.T) {
	tests := []struct {
		name     string
		style    core.PlaceholderStyle
		expected string
	}{
		{"question", core.PlaceholderQuestion, "select ?,? from t"},
		{"dollar", core.PlaceholderDollar, "select $1,$2 from t"},
		{"at p", core.PlaceholderAtP, "select @p1,@p2 from t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDialect(t, func(c *core.DialectConfig) { c.Placeholder = tt.style })
			q := &core.QuerySpec{
				Select: []core.SelectItem{{Expr: &core.Param{Value: "x"}}, {Expr: &core.Param{Value: 2}}},
				From:   []*core.TableGroup{table("t", "t")},
			}
			res := compile(t, d, q)
			assert.Equal(t, tt.expected, res.SQL)
			assert.Equal(t, []any{"x", 2}, res.Params)
		})
	}
}

func TestCompile_Limits(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*core.DialectConfig)
		orderBy  bool
		offset   core.Expr
		fetch    core.Expr
		expected string
	}{
		{
			name:     "limit offset",
			offset:   core.Int(5),
			fetch:    core.Int(10),
			expected: "select t.a from t limit 10 offset 5",
		},
		{
			name:     "offset without limit",
			mutate:   func(c *core.DialectConfig) { c.UnboundedLimit = "-1" },
			offset:   core.Int(5),
			expected: "select t.a from t limit -1 offset 5",
		},
		{
			name:     "offset fetch",
			mutate:   func(c *core.DialectConfig) { c.LimitStyle = core.OffsetFetch },
			offset:   core.Int(5),
			fetch:    core.Int(10),
			expected: "select t.a from t offset 5 rows fetch first 10 rows only",
		},
		{
			name: "offset fetch needs order by",
			mutate: func(c *core.DialectConfig) {
				c.LimitStyle = core.OffsetFetch
				c.OffsetFetchNeedsOrderBy = true
			},
			fetch:    core.Int(10),
			expected: "select t.a from t order by (select null) offset 0 rows fetch first 10 rows only",
		},
		{
			name: "offset fetch after order by",
			mutate: func(c *core.DialectConfig) {
				c.LimitStyle = core.OffsetFetch
				c.OffsetFetchNeedsOrderBy = true
			},
			orderBy:  true,
			offset:   core.Int(5),
			expected: "select t.a from t order by t.a offset 5 rows",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDialect(t, tt.mutate)
			q := &core.QuerySpec{
				Select: []core.SelectItem{{Expr: col("t", "a")}},
				From:   []*core.TableGroup{table("t", "t")},
				Offset: tt.offset,
				Fetch:  tt.fetch,
			}
			if tt.orderBy {
				q.OrderBy = []core.OrderByItem{{Expr: col("t", "a")}}
			}
			assert.Equal(t, tt.expected, compile(t, d, q).SQL)
		})
	}
}

func TestCompile_Precedence(t *testing.T) {
	d := newTestDialect(t, nil)
	a, b, c := col("t", "a"), col("t", "b"), col("t", "c")
	tests := []struct {
		name     string
		expr     core.Expr
		expected string
	}{
		{"mul over add", core.Bin(core.Bin(a, core.OpAdd, b), core.OpMul, c), "(t.a+t.b)*t.c"},
		{"add then mul", core.Bin(a, core.OpAdd, core.Bin(b, core.OpMul, c)), "t.a+t.b*t.c"},
		{"right nested sub", core.Bin(a, core.OpSub, core.Bin(b, core.OpSub, c)), "t.a-(t.b-t.c)"},
		{"left nested sub", core.Bin(core.Bin(a, core.OpSub, b), core.OpSub, c), "t.a-t.b-t.c"},
		{
			"or under and",
			core.And(core.Or(core.Bin(a, core.OpEq, core.Int(1)), core.Bin(b, core.OpEq, core.Int(2))), core.Bin(c, core.OpEq, core.Int(3))),
			"(t.a=1 or t.b=2) and t.c=3",
		},
		{"not", &core.UnaryExpr{Op: core.OpNot, Expr: core.Bin(a, core.OpLe, b)}, "not t.a<=t.b"},
		{"is null", &core.IsNullExpr{Expr: core.Bin(a, core.OpAdd, b), Not: true}, "t.a+t.b is not null"},
		{"case", &core.CaseExpr{Whens: []core.WhenClause{{Condition: core.Bin(a, core.OpGt, core.Int(0)), Result: core.Str("it's")}}, Else: core.Null()}, "case when t.a>0 then 'it''s' else null end"},
		{"in list", &core.InExpr{Expr: a, Values: []core.Expr{core.Int(1), core.Int(2)}}, "t.a in (1,2)"},
		{"tuple", &core.TupleExpr{Items: []core.Expr{a, b}}, "(t.a,t.b)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(d).RenderExpr(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.SQL)
		})
	}
}

func TestCompile_FunctionArgumentsAreParenthesized(t *testing.T) {
	d := newTestDialect(t, nil)
	concat := &core.BinaryExpr{Left: col("t", "a"), Op: core.OpConcat, Right: col("t", "b")}
	up := call(t, d, "upper", []core.Expr{concat})
	pad := call(t, d, "lpad", []core.Expr{&core.ColumnRef{Qualifier: "t", Column: "s", Type: core.String}, core.Int(5), core.Str("0")})

	res, err := New(d).RenderExpr(up)
	require.NoError(t, err)
	assert.Equal(t, "upper((t.a||t.b))", res.SQL)

	res, err = New(d).RenderExpr(pad)
	require.NoError(t, err)
	assert.Equal(t, "lpad(t.s,5,'0')", res.SQL)
}

func TestCompile_Identifiers(t *testing.T) {
	d := newTestDialect(t, nil)
	q := &core.QuerySpec{
		Select: []core.SelectItem{{Expr: col("o", "select"), Alias: "order"}},
		From:   []*core.TableGroup{table("order", "o")},
	}
	assert.Equal(t, `select o."select" "order" from "order" o`, compile(t, d, q).SQL)
}

func TestCompile_FilterClause(t *testing.T) {
	pred := core.Bin(col("t", "y"), core.OpGt, core.Int(1))

	tests := []struct {
		name     string
		native   bool
		star     bool
		expected string
	}{
		{"native", true, false, "select sum(t.x) filter (where t.y>1) from t"},
		{"emulated", false, false, "select sum(case when t.y>1 then t.x end) from t"},
		{"emulated star", false, true, "select count(case when t.y>1 then 1 end) from t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDialect(t, func(c *core.DialectConfig) { c.SupportsFilterClause = tt.native })
			var agg *core.FuncCall
			if tt.star {
				agg = call(t, d, "count", nil, function.Star(), function.WithFilter(pred))
			} else {
				agg = call(t, d, "sum", []core.Expr{col("t", "x")}, function.WithFilter(pred))
			}
			q := &core.QuerySpec{
				Select: []core.SelectItem{{Expr: agg}},
				From:   []*core.TableGroup{table("t", "t")},
			}
			assert.Equal(t, tt.expected, compile(t, d, q).SQL)
		})
	}
}

func TestCompile_WindowAndWithinGroup(t *testing.T) {
	d := newTestDialect(t, nil)
	w := call(t, d, "sum", []core.Expr{col("t", "x")}, function.Over(&core.WindowSpec{
		PartitionBy: []core.Expr{col("t", "a")},
		OrderBy:     []core.OrderByItem{{Expr: col("t", "b"), Desc: true}},
		Frame:       "rows between unbounded preceding and current row",
	}))
	res, err := New(d).RenderExpr(w)
	require.NoError(t, err)
	assert.Equal(t, "sum(t.x) over (partition by t.a order by t.b desc rows between unbounded preceding and current row)", res.SQL)

	ordered := &core.FuncCall{
		Name:        "percentile_cont",
		Args:        []core.Expr{core.Number("0.5", core.Double)},
		WithinGroup: []core.OrderByItem{{Expr: col("t", "x")}},
	}
	res, err = New(d).RenderExpr(ordered)
	require.NoError(t, err)
	assert.Equal(t, "percentile_cont(0.5) within group (order by t.x)", res.SQL)
}

func TestCompile_ReadExpressions(t *testing.T) {
	d := newTestDialect(t, nil)
	src := &core.TableGroup{
		Ref:   &core.SourceTable{Source: &core.Template{Text: "system_range(1,?1)", Args: []core.Expr{core.Int(3)}}, Columns: []string{"x"}},
		Alias: "g",
	}
	src.SetRead("value", core.Bin(core.Int(10), core.OpAdd, core.Bin(col("g", "x"), core.OpSub, core.Int(1))))
	src.SetRead("ordinality", col("g", "x"))

	q := &core.QuerySpec{
		Select: []core.SelectItem{{Expr: col("g", "value"), Alias: "value"}, {Expr: col("g", "ordinality")}},
		From:   []*core.TableGroup{src},
	}
	assert.Equal(t, "select 10+(g.x-1) value,g.x ordinality from system_range(1,3) g", compile(t, d, q).SQL)
}

func TestCompile_ReadExpressionsAsOperands(t *testing.T) {
	d := newTestDialect(t, nil)
	src := &core.TableGroup{
		Ref:   &core.SourceTable{Source: &core.Template{Text: "system_range(1,?1)", Args: []core.Expr{core.Int(3)}}, Columns: []string{"x"}},
		Alias: "g",
	}
	src.SetRead("value", core.Bin(core.Int(10), core.OpAdd, core.Bin(col("g", "x"), core.OpSub, core.Int(1))))

	tests := []struct {
		name string
		expr core.Expr
		want string
	}{
		{"multiplied", core.Bin(col("g", "value"), core.OpMul, core.Int(2)), "(10+(g.x-1))*2"},
		{"subtracted from", core.Bin(core.Int(100), core.OpSub, col("g", "value")), "100-(10+(g.x-1))"},
		{"added to", core.Bin(col("g", "value"), core.OpAdd, core.Int(1)), "10+(g.x-1)+1"},
		{"negated", &core.UnaryExpr{Op: core.OpNeg, Expr: col("g", "value")}, "-(10+(g.x-1))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &core.QuerySpec{
				Select: []core.SelectItem{{Expr: tt.expr, Alias: "v"}},
				From:   []*core.TableGroup{src},
			}
			assert.Equal(t, "select "+tt.want+" v from system_range(1,3) g", compile(t, d, q).SQL)
		})
	}
}

func TestCompile_JoinsAndDerivedTables(t *testing.T) {
	d := newTestDialect(t, nil)
	root := table("a", "a")
	b := root.Join(core.JoinLeft, table("b", "b"), core.Bin(col("a", "id"), core.OpEq, col("b", "a_id")))
	b.Join(core.JoinInner, table("c", "c"), core.Bin(col("b", "id"), core.OpEq, col("c", "b_id")))
	root.Join(core.JoinCross, &core.TableGroup{
		Ref: &core.DerivedTable{
			Query:   &core.QuerySpec{Select: []core.SelectItem{{Expr: core.Int(1), Alias: "one"}}},
			Columns: []string{"one"},
		},
		Alias: "d",
	}, nil)

	q := &core.QuerySpec{
		Select: []core.SelectItem{{Expr: &core.StarExpr{}}},
		From:   []*core.TableGroup{root},
	}
	assert.Equal(t,
		"select * from a left join b on a.id=b.a_id join c on b.id=c.b_id cross join (select 1 one) d(one)",
		compile(t, d, q).SQL)
}

func TestCompile_ValuesTable(t *testing.T) {
	rows := [][]core.Expr{{core.Int(1), core.Str("x")}, {core.Int(2), core.Str("y")}}
	tests := []struct {
		name     string
		mutate   func(*core.DialectConfig)
		expected string
	}{
		{"column lists", nil, "select v.n from (values (1,'x'),(2,'y')) v(n,s)"},
		{
			"union fallback",
			func(c *core.DialectConfig) {
				c.DerivedColumnLists = false
				c.DualTable = "dual"
			},
			"select v.n from (select 1 n,'x' s from dual union all select 2 n,'y' s from dual) v",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDialect(t, tt.mutate)
			q := &core.QuerySpec{
				Select: []core.SelectItem{{Expr: col("v", "n")}},
				From:   []*core.TableGroup{{Ref: &core.ValuesTable{Rows: rows, Columns: []string{"n", "s"}}, Alias: "v"}},
			}
			assert.Equal(t, tt.expected, compile(t, d, q).SQL)
		})
	}
}

func TestCompile_CteAndSetOperations(t *testing.T) {
	for _, recursive := range []bool{true, false} {
		d := newTestDialect(t, func(c *core.DialectConfig) { c.RecursiveKeyword = recursive })

		seed := &core.QuerySpec{Select: []core.SelectItem{{Expr: core.Int(1)}}}
		step := &core.QuerySpec{
			Select: []core.SelectItem{{Expr: core.Bin(col("r", "n"), core.OpAdd, core.Int(1))}},
			From:   []*core.TableGroup{{Ref: &core.CteRef{Name: "r"}, Alias: "r"}},
			Where:  core.Bin(col("r", "n"), core.OpLt, core.Int(3)),
		}
		stmt := core.NewSelectStatement(&core.QuerySpec{
			Select: []core.SelectItem{{Expr: col("r", "n")}},
			From:   []*core.TableGroup{{Ref: &core.CteRef{Name: "r"}, Alias: "r"}},
		})
		require.NoError(t, stmt.Ctes.Add(&core.CteStatement{
			Name:      "r",
			Columns:   []core.CteColumn{{Name: "n"}},
			Query:     &core.QueryGroup{Op: core.SetOpUnionAll, Parts: []core.QueryPart{seed, step}},
			Recursive: true,
		}))

		res, err := New(d).Compile(stmt)
		require.NoError(t, err)
		prefix := "with "
		if recursive {
			prefix = "with recursive "
		}
		assert.Equal(t, prefix+"r(n) as (select 1 union all select r.n+1 from r where r.n<3) select r.n from r", res.SQL)
	}
}

func TestCompile_NilDialect(t *testing.T) {
	_, err := New(nil).Compile(core.NewSelectStatement(&core.QuerySpec{}))
	assert.ErrorIs(t, err, dialect.ErrDialectRequired)
}

func TestCompile_ConversionErrorsAreWrapped(t *testing.T) {
	boom := errors.New("boom")
	d := newTestDialect(t, nil, func(r *function.Registry, _ *core.DialectConfig) {
		r.Named("explode").ConvertCall(func(*core.FuncCall, function.Converter) (core.Expr, error) {
			return nil, boom
		}).Register()
	})
	q := &core.QuerySpec{Select: []core.SelectItem{{Expr: call(t, d, "explode", nil)}}}

	_, err := New(d, WithLogger(testutil.NewTestLogger(t))).Compile(core.NewSelectStatement(q))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to convert statement")
}
