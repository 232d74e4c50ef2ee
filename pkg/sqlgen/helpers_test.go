package sqlgen

import (
	"testing"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/function"
	"github.com/stretchr/testify/require"
)

func baseConfig() *core.DialectConfig {
	return &core.DialectConfig{
		Name: "test",
		Identifiers: core.IdentifierConfig{
			Quote:    `"`,
			QuoteEnd: `"`,
			Escape:   `""`,
		},
		Placeholder:          core.PlaceholderDollar,
		RecursiveKeyword:     true,
		DerivedColumnLists:   true,
		SupportsFilterClause: true,
	}
}

func testFunctions(r *function.Registry, _ *core.DialectConfig) {
	r.Named("sum").Aggregate().Exactly(1).Returns(function.SumReturnType).Register()
	r.Named("count").Aggregate().Between(0, 1).ReturnsType(core.Long).Register()
	r.Named("upper").Exactly(1).ReturnsType(core.String).Register()
	r.Pattern("lpad", "lpad(?1,?2,?3)").Exactly(3).ReturnsType(core.String).Register()
}

func newTestDialect(t *testing.T, mutate func(*core.DialectConfig), extra ...function.Contributor) *dialect.Dialect {
	t.Helper()
	cfg := baseConfig()
	if mutate != nil {
		mutate(cfg)
	}
	return dialect.New(cfg).
		Functions(testFunctions).
		Functions(extra...).
		WithReservedWords("order", "select").
		Build()
}

func call(t *testing.T, d *dialect.Dialect, name string, args []core.Expr, opts ...function.CallOption) *core.FuncCall {
	t.Helper()
	c, err := d.Functions().Call(name, args, opts...)
	require.NoError(t, err)
	return c
}

func col(q, name string) *core.ColumnRef {
	return &core.ColumnRef{Qualifier: q, Column: name, Type: core.Integer}
}

func table(name, alias string) *core.TableGroup {
	return &core.TableGroup{Ref: &core.NamedTable{Name: name}, Alias: alias}
}

func compile(t *testing.T, d *dialect.Dialect, q core.QueryPart) *Result {
	t.Helper()
	res, err := New(d).Compile(core.NewSelectStatement(q))
	require.NoError(t, err)
	return res
}
