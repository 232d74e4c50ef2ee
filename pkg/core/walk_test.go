package core_test

import (
	"testing"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func col(q, c string) *core.ColumnRef {
	return &core.ColumnRef{Qualifier: q, Column: c, Type: core.Integer}
}

func TestEqual(t *testing.T) {
	p := &core.Param{Value: 1}

	tests := []struct {
		name string
		a, b core.Expr
		want bool
	}{
		{"same column", col("t", "a"), col("t", "a"), true},
		{"different qualifier", col("t", "a"), col("u", "a"), false},
		{"literal", core.Int(1), core.Int(1), true},
		{"literal kind", core.Int(1), core.Str("1"), false},
		{"binary", core.Bin(col("t", "a"), core.OpAdd, core.Int(1)), core.Bin(col("t", "a"), core.OpAdd, core.Int(1)), true},
		{"binary op", core.Bin(col("t", "a"), core.OpAdd, core.Int(1)), core.Bin(col("t", "a"), core.OpSub, core.Int(1)), false},
		{"param identity", p, p, true},
		{"param value", &core.Param{Value: 1}, &core.Param{Value: 1}, false},
		{
			"call",
			&core.FuncCall{Name: "sum", Args: []core.Expr{col("t", "a")}},
			&core.FuncCall{Name: "sum", Args: []core.Expr{col("t", "a")}},
			true,
		},
		{
			"call distinct",
			&core.FuncCall{Name: "count", Args: []core.Expr{col("t", "a")}, Distinct: true},
			&core.FuncCall{Name: "count", Args: []core.Expr{col("t", "a")}},
			false,
		},
		{
			"call window",
			&core.FuncCall{Name: "rank", Window: &core.WindowSpec{PartitionBy: []core.Expr{col("t", "g")}}},
			&core.FuncCall{Name: "rank", Window: &core.WindowSpec{PartitionBy: []core.Expr{col("t", "g")}}},
			true,
		},
		{"nil", nil, nil, true},
		{"nil and value", nil, core.Int(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, core.Equal(tt.a, tt.b))
		})
	}
}

func TestRewrite_CopiesComposites(t *testing.T) {
	a := col("t", "a")
	orig := core.Bin(&core.FuncCall{Name: "abs", Args: []core.Expr{a}}, core.OpAdd, col("t", "b"))

	out := core.Rewrite(orig, func(e core.Expr) (core.Expr, bool) {
		if c, ok := e.(*core.ColumnRef); ok {
			return col("x", c.Column), true
		}
		return nil, false
	})

	bin, ok := out.(*core.BinaryExpr)
	require.True(t, ok)
	assert.NotSame(t, orig, bin)
	call := bin.Left.(*core.FuncCall)
	assert.Equal(t, "x", call.Args[0].(*core.ColumnRef).Qualifier)
	assert.Equal(t, "x", bin.Right.(*core.ColumnRef).Qualifier)

	// the input is untouched
	assert.Same(t, a, orig.Left.(*core.FuncCall).Args[0])
	assert.Equal(t, "t", orig.Right.(*core.ColumnRef).Qualifier)
}

func TestWalk_SkipsChildren(t *testing.T) {
	e := core.Bin(&core.FuncCall{Name: "abs", Args: []core.Expr{col("t", "a")}}, core.OpAdd, col("t", "b"))

	var seen []string
	core.Walk(e, func(n core.Expr) bool {
		switch v := n.(type) {
		case *core.FuncCall:
			seen = append(seen, v.Name)
			return false
		case *core.ColumnRef:
			seen = append(seen, v.Column)
		}
		return true
	})
	assert.Equal(t, []string{"abs", "b"}, seen)
}

func TestReferencesColumns(t *testing.T) {
	assert.False(t, core.ReferencesColumns(core.Bin(core.Int(1), core.OpAdd, &core.Param{Value: 2})))
	assert.True(t, core.ReferencesColumns(core.Bin(core.Int(1), core.OpAdd, col("t", "a"))))
	assert.True(t, core.ReferencesColumns(&core.SubqueryExpr{Query: &core.QuerySpec{}}))
}
