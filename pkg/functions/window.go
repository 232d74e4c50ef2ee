package functions

import (
	"log/slog"
	"strconv"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

type orderedSetFamily int

const (
	hypotheticalSet orderedSetFamily = iota + 1
	inverseDistribution
)

var orderedSetFamilies = map[string]orderedSetFamily{
	"rank":            hypotheticalSet,
	"dense_rank":      hypotheticalSet,
	"percent_rank":    hypotheticalSet,
	"cume_dist":       hypotheticalSet,
	"percentile_cont": inverseDistribution,
	"percentile_disc": inverseDistribution,
	"mode":            inverseDistribution,
}

func (f orderedSetFamily) support(cfg *core.DialectConfig) core.AggregateSupport {
	if f == hypotheticalSet {
		return cfg.HypotheticalSet
	}
	return cfg.InverseDistribution
}

// OrderedSet registers the hypothetical-set aggregates (rank, dense_rank,
// percent_rank, cume_dist) and the inverse distribution aggregates
// (percentile_cont, percentile_disc, mode). Their grouped form is rewritten
// into the window form on dialects that only support the latter.
func OrderedSet(r *function.Registry, _ *core.DialectConfig) {
	for _, h := range []struct {
		name string
		typ  *core.Type
	}{
		{"rank", core.Long},
		{"dense_rank", core.Long},
		{"percent_rank", core.Double},
		{"cume_dist", core.Double},
	} {
		r.Named(h.name).OrderedSet().AtLeast(0).
			ReturnsType(h.typ).
			ConvertCall(convertOrderedSet).
			Register()
	}

	r.Named("percentile_cont").OrderedSet().Exactly(1).Types(function.Numeric).
		ReturnsType(core.Double).
		Parameters("fraction").
		ConvertCall(convertOrderedSet).
		Register()
	r.Named("percentile_disc").OrderedSet().Exactly(1).Types(function.Numeric).
		Returns(orderedValueType).
		Parameters("fraction").
		ConvertCall(convertOrderedSet).
		Register()
	r.Named("mode").OrderedSet().NoArgs().
		Returns(orderedValueType).
		ConvertCall(convertOrderedSet).
		Register()
}

// orderedValueType is completed from the WITHIN GROUP clause during
// conversion, which return type resolvers cannot see.
var orderedValueType = function.ReturnTypeFunc("type of the ordered value", func(implied *core.Type, _ []core.Expr, _ function.TypeContext) *core.Type {
	return implied
})

func convertOrderedSet(call *core.FuncCall, c function.Converter) (core.Expr, error) {
	family := orderedSetFamilies[call.Name]
	if family == hypotheticalSet && len(call.WithinGroup) > 0 && len(call.Args) != len(call.WithinGroup) {
		return nil, &function.ArgumentError{
			Function: call.Name,
			Reason: "requires one argument per WITHIN GROUP item, found " +
				strconv.Itoa(len(call.Args)) + " and " + strconv.Itoa(len(call.WithinGroup)),
		}
	}
	if family == hypotheticalSet && call.Window != nil && len(call.Args) > 0 {
		return nil, &function.ArgumentError{Function: call.Name, Reason: "accepts no arguments with an OVER clause"}
	}
	if call.Type == nil && family == inverseDistribution && len(call.WithinGroup) > 0 {
		call.Type = core.TypeOf(call.WithinGroup[0].Expr)
	}
	if call.Window != nil || len(call.WithinGroup) == 0 {
		return call, nil
	}

	cfg := c.Dialect()
	switch family.support(cfg) {
	case core.AggregateNative:
		return call, nil
	case core.AggregateUnsupported:
		return nil, unsupported(call.Name, cfg, c.Clause(), "the dialect has no ordered-set aggregates")
	}

	switch {
	case c.Clause() != core.ClauseSelect:
		return nil, unsupported(call.Name, cfg, c.Clause(), "the window emulation only applies to the select list")
	case call.Filter != nil && family == hypotheticalSet:
		return nil, unsupported(call.Name, cfg, c.Clause(), "a FILTER clause cannot be combined with the window emulation")
	case call.Filter != nil:
		for i := range call.WithinGroup {
			call.WithinGroup[i].Expr = core.When(call.Filter, call.WithinGroup[i].Expr)
		}
		call.Filter = nil
	}

	if c.AddQueryTransformerOnce("ordered-set-window", windowEmulation) {
		c.Logger().Debug("grouped ordered-set aggregate emulated with window functions",
			slog.String("function", call.Name))
	}
	return call, nil
}

// emulatedOrderedSet returns the family of a call the window emulation
// has to rewrite.
func emulatedOrderedSet(call *core.FuncCall, cfg *core.DialectConfig) (orderedSetFamily, bool) {
	if call.Window != nil || len(call.WithinGroup) == 0 {
		return 0, false
	}
	family, ok := orderedSetFamilies[call.Name]
	if !ok || family.support(cfg) != core.AggregateWindowOnly {
		return 0, false
	}
	return family, true
}

// windowEmulation splits a grouped query into an inner query evaluating
// every aggregate as a window function partitioned by the grouping keys,
// and an outer query grouping the inner rows again:
//
//	select g, rank(5) within group (order by a) from t group by g
//
// becomes
//
//	select w1.col0 g, min(case when w1.col2=5 then w1.col1 end)
//	from (select t.g col0, rank() over (partition by t.g order by t.a) col1, t.a col2 from t) w1
//	group by w1.col0
func windowEmulation(_ *core.CteContainer, spec *core.QuerySpec, c function.Converter) (*core.QuerySpec, error) {
	w := &windowSplit{
		cfg:       c.Dialect(),
		functions: c.Functions(),
		alias:     c.NextAlias("w"),
		inner:     &core.QuerySpec{From: spec.From, Where: spec.Where},
		spec:      spec,
	}
	for _, item := range spec.Select {
		if item.Alias != "" {
			w.selectAliases = append(w.selectAliases, item.Alias)
		}
	}

	outer := &core.QuerySpec{
		Distinct: spec.Distinct,
		From:     []*core.TableGroup{{Ref: &core.DerivedTable{Query: w.inner}, Alias: w.alias}},
		Offset:   spec.Offset,
		Fetch:    spec.Fetch,
	}
	for _, item := range spec.Select {
		alias := item.Alias
		if col, ok := item.Expr.(*core.ColumnRef); ok && alias == "" {
			alias = col.Column
		}
		outer.Select = append(outer.Select, core.SelectItem{Expr: w.rewrite(item.Expr), Alias: alias})
	}
	for _, g := range spec.GroupBy {
		outer.GroupBy = append(outer.GroupBy, w.column(g))
	}
	outer.Having = w.rewrite(spec.Having)
	for _, o := range spec.OrderBy {
		o.Expr = w.rewrite(o.Expr)
		outer.OrderBy = append(outer.OrderBy, o)
	}
	if w.err != nil {
		return nil, w.err
	}
	return outer, nil
}

type windowSplit struct {
	cfg           *core.DialectConfig
	functions     *function.Registry
	alias         string
	inner         *core.QuerySpec
	spec          *core.QuerySpec
	selectAliases []string
	columns       []core.Expr
	err           error
}

// column selects e in the inner query, once per distinct expression, and
// returns the outer reference to it.
func (w *windowSplit) column(e core.Expr) *core.ColumnRef {
	pos := -1
	for i, existing := range w.columns {
		if core.Equal(existing, e) {
			pos = i
			break
		}
	}
	if pos < 0 {
		pos = len(w.columns)
		w.columns = append(w.columns, e)
		w.inner.Select = append(w.inner.Select, core.SelectItem{Expr: e, Alias: "col" + strconv.Itoa(pos)})
	}
	return &core.ColumnRef{Qualifier: w.alias, Column: "col" + strconv.Itoa(pos), Type: core.TypeOf(e)}
}

func (w *windowSplit) partition() *core.WindowSpec {
	return &core.WindowSpec{PartitionBy: append([]core.Expr(nil), w.spec.GroupBy...)}
}

func (w *windowSplit) rewrite(e core.Expr) core.Expr {
	return core.Rewrite(e, func(n core.Expr) (core.Expr, bool) {
		if call, ok := n.(*core.FuncCall); ok {
			if family, ok := emulatedOrderedSet(call, w.cfg); ok {
				return w.orderedSet(call, family), true
			}
			if d, ok := function.DescriptorOf(call); ok && call.Window == nil &&
				(d.Kind == function.Aggregate || d.Kind == function.OrderedSetAggregate) {
				return w.aggregate(call), true
			}
		}
		for _, g := range w.spec.GroupBy {
			if core.Equal(n, g) {
				return w.column(g), true
			}
		}
		switch v := n.(type) {
		case *core.ColumnRef:
			if v.Qualifier == "" && w.isSelectAlias(v.Column) {
				return v, true
			}
			return w.column(v), true
		case *core.SubqueryExpr, *core.ExistsExpr:
			return n, true
		}
		return nil, false
	})
}

func (w *windowSplit) isSelectAlias(name string) bool {
	for _, a := range w.selectAliases {
		if a == name {
			return true
		}
	}
	return false
}

// orderedSet rewrites one emulated call. A hypothetical-set call reads the
// rank of the row whose ordered values equal its arguments; an inverse
// distribution call is constant over the partition.
func (w *windowSplit) orderedSet(call *core.FuncCall, family orderedSetFamily) core.Expr {
	over := w.partition()
	if family == inverseDistribution {
		windowed := call.Clone()
		windowed.Window = over
		return w.min(w.column(windowed), call.Type)
	}

	over.OrderBy = call.WithinGroup
	ranked := &core.FuncCall{Name: call.Name, Function: call.Function, Window: over, Type: call.Type}
	value := w.column(ranked)

	var sorted, args []core.Expr
	for i, o := range call.WithinGroup {
		sorted = append(sorted, w.column(o.Expr))
		args = append(args, w.rewrite(call.Args[i]))
	}
	var match core.Expr
	switch {
	case len(args) == 1:
		match = core.Bin(sorted[0], core.OpEq, args[0])
	case w.cfg.RowValueComparison:
		match = core.Bin(&core.TupleExpr{Items: sorted}, core.OpEq, &core.TupleExpr{Items: args})
	default:
		var eqs []core.Expr
		for i := range args {
			eqs = append(eqs, core.Bin(sorted[i], core.OpEq, args[i]))
		}
		match = core.And(eqs...)
	}
	return w.min(core.When(match, value), call.Type)
}

// aggregate moves another aggregate of the query into the inner query.
func (w *windowSplit) aggregate(call *core.FuncCall) core.Expr {
	if call.Distinct {
		if w.err == nil {
			w.err = unsupported(call.Name, w.cfg, core.ClauseSelect,
				"DISTINCT aggregates cannot be evaluated as window functions")
		}
		return call
	}
	windowed := call.Clone()
	windowed.Window = w.partition()
	value := w.min(w.column(windowed), call.Type)
	if call.Name != "count" {
		return value
	}
	return &core.FuncCall{
		Name:     "coalesce",
		Function: w.descriptor("coalesce"),
		Args:     []core.Expr{value, core.Int(0)},
		Type:     call.Type,
	}
}

func (w *windowSplit) min(e core.Expr, typ *core.Type) *core.FuncCall {
	return &core.FuncCall{Name: "min", Function: w.descriptor("min"), Args: []core.Expr{e}, Type: typ}
}

// descriptor returns nil for unregistered names; the printer then falls
// back to the standard rendering.
func (w *windowSplit) descriptor(name string) core.Callable {
	if d, ok := w.functions.Find(name); ok {
		return d
	}
	return nil
}
