package core_test

import (
	"testing"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCteContainer(t *testing.T) {
	c := core.NewCteContainer()
	first := &core.CteStatement{Name: "series_values"}

	require.NoError(t, c.Add(first))

	err := c.Add(&core.CteStatement{Name: "series_values"})
	var dup *core.DuplicateCteError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "series_values", dup.Name)

	got, added := c.AddIfAbsent(&core.CteStatement{Name: "series_values", Recursive: true})
	assert.False(t, added)
	assert.Same(t, first, got)

	fixed := &core.CteStatement{Name: "max_series", Recursive: true}
	got, added = c.AddIfAbsent(fixed)
	assert.True(t, added)
	assert.Same(t, fixed, got)

	assert.Equal(t, 2, c.Len())
	assert.True(t, c.HasRecursive())
	assert.Equal(t, "series_values_1", c.UniqueName("series_values"))
	assert.Equal(t, "other", c.UniqueName("other"))

	names := make([]string, 0, c.Len())
	for _, cte := range c.All() {
		names = append(names, cte.Name)
	}
	assert.Equal(t, []string{"series_values", "max_series"}, names)
}

func TestTableGroup_Navigation(t *testing.T) {
	a := &core.TableGroup{Ref: &core.NamedTable{Name: "a"}, Alias: "a"}
	b := &core.TableGroup{Ref: &core.NamedTable{Name: "b"}, Alias: "b"}
	c := &core.TableGroup{Ref: &core.NamedTable{Name: "c"}, Alias: "c"}
	a.Join(core.JoinInner, b, nil)
	b.Join(core.JoinCross, c, nil)

	spec := &core.QuerySpec{From: []*core.TableGroup{a}}

	assert.Same(t, c, spec.FindGroup("c"))
	assert.Nil(t, spec.FindGroup("missing"))
	assert.True(t, a.Contains(c))
	assert.False(t, c.Contains(a))

	join := a.OwningJoin(c)
	require.NotNil(t, join)
	assert.Same(t, c, join.Group)

	join.AddPredicate(core.Bin(&core.ColumnRef{Qualifier: "c", Column: "x"}, core.OpEq, core.Int(1)))
	assert.Equal(t, core.JoinInner, join.Type)
	assert.NotNil(t, join.Predicate)
	assert.Nil(t, a.OwningJoin(a))
}

func TestJoinType_NullExtension(t *testing.T) {
	tests := []struct {
		join  core.JoinType
		left  bool
		right bool
	}{
		{core.JoinInner, false, false},
		{core.JoinCross, false, false},
		{core.JoinLeft, false, true},
		{core.JoinRight, true, false},
		{core.JoinFull, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.join), func(t *testing.T) {
			assert.Equal(t, tt.left, tt.join.NullExtendsLeft())
			assert.Equal(t, tt.right, tt.join.NullExtendsRight())
		})
	}
}

func TestAndOr(t *testing.T) {
	x := core.Bin(&core.ColumnRef{Column: "x"}, core.OpGt, core.Int(0))
	y := core.Bin(&core.ColumnRef{Column: "y"}, core.OpGt, core.Int(0))

	assert.Nil(t, core.And(nil, nil))
	assert.Same(t, x, core.And(nil, x))

	and, ok := core.And(x, y).(*core.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, core.OpAnd, and.Op)

	or, ok := core.Or(x, nil, y).(*core.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, core.OpOr, or.Op)
	assert.Equal(t, core.Boolean, or.ExprType())
}

func TestFirstSpec(t *testing.T) {
	seed := &core.QuerySpec{}
	step := &core.QuerySpec{}
	group := &core.QueryGroup{Op: core.SetOpUnionAll, Parts: []core.QueryPart{seed, step}}

	assert.Same(t, seed, core.FirstSpec(group))
	assert.Same(t, step, core.FirstSpec(step))
	assert.Nil(t, core.FirstSpec(&core.QueryGroup{}))
}
