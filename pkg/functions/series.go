package functions

import (
	"fmt"
	"log/slog"
	"math/big"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

const (
	seriesCte      = "series_values"
	seriesValue    = "v"
	seriesOrdinal  = "o"
	maxSeriesCte   = "max_series"
	maxSeriesIndex = "i"
)

// Series registers generate_series(start, stop[, step]) as a table
// function. Dialects without a native implementation get one of two
// emulations: a bounded row source read through start+step*(n-1), or a
// recursive CTE stepping from start to stop.
func Series(r *function.Registry, _ *core.DialectConfig) {
	r.Named("generate_series").SetReturning().
		Validator(seriesValidator{}).
		Returns(function.UseArgType(1)).
		ArgumentTypes(seriesArgumentTypes).
		Parameters("start", "stop", "step").
		ConvertTable(convertSeries).
		Register()
}

// seriesValidator checks that start and stop share a type family and that
// the step fits it: a number for numeric series, a duration for temporal
// ones.
type seriesValidator struct{}

func (seriesValidator) Arity() (int, int) { return 2, 3 }

func (seriesValidator) Categories() []function.Category {
	return []function.Category{function.Comparable, function.Comparable, function.AnyType}
}

func (v seriesValidator) Validate(name string, args []core.Expr, tc function.TypeContext) error {
	if err := function.Composite(function.Between(2, 3), function.Types(v.Categories()...)).Validate(name, args, tc); err != nil {
		return err
	}

	start, stop := core.TypeOf(args[0]), core.TypeOf(args[1])
	if start != nil && stop != nil && start.Family() != stop.Family() {
		return &function.ArgumentError{
			Function: name, Position: 2,
			Expected: start.String(), Actual: stop.String(),
			Reason: "must have the type of the start value",
		}
	}
	elem := seriesElement(args)
	if elem == nil {
		return nil
	}

	var step core.Expr
	if len(args) == 3 {
		step = args[2]
	}
	switch elem.Family() {
	case core.FamilyIntegral, core.FamilyExact, core.FamilyApproximate:
		if step == nil {
			return nil
		}
		st := core.TypeOf(step)
		_, isDuration := step.(*core.DurationExpr)
		if isDuration || (st != nil && (!st.IsNumeric() || (elem.IsIntegral() && !st.IsIntegral()))) {
			return &function.ArgumentError{
				Function: name, Position: 3,
				Expected: elem.String(), Actual: describeStep(step),
				Reason: "must be a number of the series type",
			}
		}
	case core.FamilyTemporal:
		if step == nil {
			return &function.ArgumentError{Function: name, Reason: "requires a duration step for temporal series"}
		}
		if _, ok := step.(*core.DurationExpr); ok {
			return nil
		}
		if st := core.TypeOf(step); st != nil && st.Code != core.CodeInterval {
			return &function.ArgumentError{
				Function: name, Position: 3,
				Expected: core.Duration.String(), Actual: st.String(),
				Reason: "must be a duration",
			}
		}
	default:
		return &function.ArgumentError{
			Function: name, Position: 1,
			Expected: "numeric or temporal", Actual: elem.String(),
			Reason: "has the wrong type",
		}
	}
	return nil
}

func describeStep(e core.Expr) string {
	if _, ok := e.(*core.DurationExpr); ok {
		return "duration"
	}
	return core.TypeOf(e).String()
}

func seriesElement(args []core.Expr) *core.Type {
	if t := core.TypeOf(args[0]); t != nil {
		return t
	}
	return core.TypeOf(args[1])
}

// seriesArgumentTypes types untyped bounds like their sibling and an
// untyped step like a numeric series element.
var seriesArgumentTypes function.ArgumentTypeResolver = func(args []core.Expr, position int, _ function.TypeContext) *core.Type {
	elem := seriesElement(args)
	if position < 2 || elem == nil {
		return elem
	}
	if elem.IsTemporal() {
		return core.Duration
	}
	return elem
}

// ---------- Conversion ----------

// series holds the arguments of a generate_series table group.
type series struct {
	group *core.TableGroup
	table *core.FunctionTable
	start core.Expr
	stop  core.Expr
	step  core.Expr // nil means 1
	elem  *core.Type
}

func (s *series) temporal() bool { return s.elem.IsTemporal() }

func convertSeries(g *core.TableGroup, ft *core.FunctionTable, c function.Converter) error {
	args := ft.Call.Args
	s := &series{group: g, table: ft, start: args[0], stop: args[1], elem: seriesElement(args)}
	if len(args) == 3 {
		s.step = args[2]
	}
	if s.elem == nil {
		s.elem = core.Long
	}

	cfg := c.Dialect()
	switch cfg.SeriesStrategy {
	case core.SeriesNative:
		return nil
	case core.SeriesNativeNumeric:
		if !s.temporal() && !ft.WithOrdinality {
			return nil
		}
		return s.rowSource(c, nil, "")
	case core.SeriesRowSource:
		return s.rowSource(c, nil, "")
	}

	if _, ok := s.step.(*core.DurationExpr); s.temporal() && !ok {
		return unsupported(ft.Call.Name, cfg, core.ClauseFrom, "a temporal step must be a duration literal")
	}
	if core.ReferencesColumns(s.start) || core.ReferencesColumns(s.stop) || core.ReferencesColumns(s.step) {
		return s.maxSeries(c)
	}
	return s.recursive(c)
}

// rowSource replaces the series by a bounded row source producing the
// ordinals 1..n. source defaults to the dialect series source.
func (s *series) rowSource(c function.Converter, source core.TableRef, ordinal string) error {
	cfg := c.Dialect()
	name := s.table.Call.Name
	if _, ok := s.step.(*core.DurationExpr); s.temporal() && !ok {
		return unsupported(name, cfg, core.ClauseFrom, "a temporal step must be a duration literal")
	}

	if source == nil {
		if cfg.SeriesSource.Pattern == "" {
			return unsupported(name, cfg, core.ClauseFrom, "the dialect declares no series row source")
		}
		n, err := s.bound(c)
		if err != nil {
			return err
		}
		source = &core.SourceTable{
			Source:  &core.Template{Text: cfg.SeriesSource.Pattern, Args: []core.Expr{core.Int(n)}},
			Columns: []string{cfg.SeriesSource.Column},
		}
		ordinal = cfg.SeriesSource.Column
	}

	g := s.group
	ord := &core.ColumnRef{Qualifier: g.Alias, Column: ordinal, Type: core.Long}
	start, step := s.start, s.step

	if !simpleOperand(s.start) || !simpleOperand(s.stepValue()) {
		correlated := core.ReferencesColumns(s.start) || core.ReferencesColumns(s.stepValue())
		if correlated && !cfg.LateralKeyword {
			return unsupported(name, cfg, core.ClauseFrom, "correlated series bounds require lateral derived tables")
		}
		values, src := c.NextAlias("v"), c.NextAlias("src")
		stepValue := s.stepValue()
		if stepValue == nil {
			stepValue = core.Int(1)
		}
		body := &core.QuerySpec{
			Select: []core.SelectItem{
				{Expr: &core.ColumnRef{Qualifier: values, Column: "b", Type: core.TypeOf(s.start)}, Alias: "b"},
				{Expr: &core.ColumnRef{Qualifier: values, Column: "s", Type: core.TypeOf(stepValue)}, Alias: "s"},
				{Expr: &core.ColumnRef{Qualifier: src, Column: ordinal, Type: core.Long}, Alias: ordinal},
			},
			From: []*core.TableGroup{{
				Ref:   &core.ValuesTable{Rows: [][]core.Expr{{s.start, stepValue}}, Columns: []string{"b", "s"}},
				Alias: values,
				Joins: []*core.TableGroupJoin{{Type: core.JoinCross, Group: &core.TableGroup{Ref: source, Alias: src}}},
			}},
		}
		source = &core.DerivedTable{Query: body, Lateral: correlated}
		start = &core.ColumnRef{Qualifier: g.Alias, Column: "b", Type: core.TypeOf(s.start)}
		if d, ok := s.step.(*core.DurationExpr); ok {
			step = &core.DurationExpr{Magnitude: &core.ColumnRef{Qualifier: g.Alias, Column: "s", Type: core.TypeOf(d.Magnitude)}, Unit: d.Unit}
		} else {
			step = &core.ColumnRef{Qualifier: g.Alias, Column: "s", Type: core.TypeOf(stepValue)}
		}
	}

	value, err := s.advance(c, start, step, core.Bin(ord, core.OpSub, core.Int(1)))
	if err != nil {
		return err
	}
	g.Ref = source
	g.SetRead(s.table.ValueColumn(), value)
	g.SetRead(s.table.OrdinalityColumn(), ord)

	stop, err := s.coerce(c, s.stop)
	if err != nil {
		return err
	}
	current := &core.ColumnRef{Qualifier: g.Alias, Column: s.table.ValueColumn(), Type: s.elem}
	sign := s.sign(s.step)
	pred := within(current, stop, step, sign)
	if sign == 0 {
		first, err := s.coerce(c, start)
		if err != nil {
			return err
		}
		pred = core.Or(pred, core.And(
			core.Bin(ord, core.OpEq, core.Int(1)),
			core.Bin(first, core.OpEq, stop),
		))
	}

	c.AddQueryTransformer(func(_ *core.CteContainer, spec *core.QuerySpec, _ function.Converter) (*core.QuerySpec, error) {
		for _, root := range spec.From {
			if root == g {
				spec.AddWhere(pred)
				return spec, nil
			}
			if j := root.OwningJoin(g); j != nil {
				j.AddPredicate(pred)
				return spec, nil
			}
		}
		spec.AddWhere(pred)
		return spec, nil
	})
	c.Logger().Debug("series emulated over a row source",
		slog.String("alias", g.Alias), slog.Bool("temporal", s.temporal()))
	return nil
}

// maxSeries emulates a series with correlated bounds over the shared
// max_series ordinal CTE.
func (s *series) maxSeries(c function.Converter) error {
	limit := int64(c.MaxSeriesSize())
	self := &core.ColumnRef{Qualifier: maxSeriesCte, Column: maxSeriesIndex, Type: core.Long}
	cte := &core.CteStatement{
		Name:      maxSeriesCte,
		Columns:   []core.CteColumn{{Name: maxSeriesIndex, Type: core.Long}},
		Recursive: true,
		Source:    s.table.Call,
		Query: &core.QueryGroup{Op: core.SetOpUnionAll, Parts: []core.QueryPart{
			&core.QuerySpec{Select: []core.SelectItem{{Expr: core.Int(1), Alias: maxSeriesIndex}}},
			&core.QuerySpec{
				Select: []core.SelectItem{{Expr: core.Bin(self, core.OpAdd, core.Int(1)), Alias: maxSeriesIndex}},
				From:   []*core.TableGroup{{Ref: &core.CteRef{Name: maxSeriesCte}, Alias: maxSeriesCte}},
				Where:  core.Bin(self, core.OpLt, core.Int(limit)),
			},
		}},
	}
	c.Statement().Ctes.AddIfAbsent(cte)
	return s.rowSource(c, &core.CteRef{Name: maxSeriesCte}, maxSeriesIndex)
}

// recursive emulates a series with uncorrelated bounds through a
// recursive CTE, shared by identical calls of the statement.
func (s *series) recursive(c function.Converter) error {
	ctes := c.Statement().Ctes
	var cte *core.CteStatement
	for _, existing := range ctes.All() {
		if existing.Source != nil && existing.Source.Name == s.table.Call.Name &&
			core.EqualAll(existing.Source.Args, s.table.Call.Args) {
			cte = existing
			break
		}
	}

	if cte == nil {
		var err error
		if cte, err = s.recursiveCte(c, ctes.UniqueName(seriesCte)); err != nil {
			return err
		}
		if err := ctes.Add(cte); err != nil {
			return err
		}
		c.Logger().Debug("series emulated with a recursive cte", slog.String("cte", cte.Name))
	}

	s.group.Ref = &core.DerivedTable{Query: &core.QuerySpec{
		Select: []core.SelectItem{
			{Expr: &core.ColumnRef{Qualifier: cte.Name, Column: seriesValue, Type: s.elem}, Alias: s.table.ValueColumn()},
			{Expr: &core.ColumnRef{Qualifier: cte.Name, Column: seriesOrdinal, Type: core.Long}, Alias: s.table.OrdinalityColumn()},
		},
		From: []*core.TableGroup{{Ref: &core.CteRef{Name: cte.Name}, Alias: cte.Name}},
	}}
	return nil
}

func (s *series) recursiveCte(c function.Converter, name string) (*core.CteStatement, error) {
	start, err := s.coerce(c, s.start)
	if err != nil {
		return nil, err
	}
	stop, err := s.coerce(c, s.stop)
	if err != nil {
		return nil, err
	}

	sign := s.sign(s.step)
	seed := &core.QuerySpec{
		Select: []core.SelectItem{
			{Expr: start, Alias: seriesValue},
			{Expr: core.Int(1), Alias: seriesOrdinal},
		},
		Where: within(start, stop, s.step, sign),
	}
	if sign == 0 {
		seed.Where = core.Or(seed.Where, core.Bin(start, core.OpEq, stop))
	}

	prev := &core.ColumnRef{Qualifier: name, Column: seriesValue, Type: s.elem}
	next, err := s.advance(c, prev, s.step, core.Int(1))
	if err != nil {
		return nil, err
	}
	ord := &core.ColumnRef{Qualifier: name, Column: seriesOrdinal, Type: core.Long}
	step := &core.QuerySpec{
		Select: []core.SelectItem{
			{Expr: next, Alias: seriesValue},
			{Expr: core.Bin(ord, core.OpAdd, core.Int(1)), Alias: seriesOrdinal},
		},
		From:  []*core.TableGroup{{Ref: &core.CteRef{Name: name}, Alias: name}},
		Where: within(next, stop, s.step, sign),
	}

	return &core.CteStatement{
		Name: name,
		Columns: []core.CteColumn{
			{Name: seriesValue, Type: s.elem},
			{Name: seriesOrdinal, Type: core.Long},
		},
		Query:     &core.QueryGroup{Op: core.SetOpUnionAll, Parts: []core.QueryPart{seed, step}},
		Recursive: true,
		Source:    s.table.Call,
	}, nil
}

// advance returns from + step*times, through timestampadd for temporal
// series.
func (s *series) advance(c function.Converter, from, step, times core.Expr) (core.Expr, error) {
	if d, ok := step.(*core.DurationExpr); ok {
		base, err := s.coerce(c, from)
		if err != nil {
			return nil, err
		}
		return newCall(c.Functions(), "timestampadd", core.Timestamp,
			&core.TemporalUnit{Unit: d.Unit}, scale(d.Magnitude, times), base)
	}
	if step == nil {
		step = core.Int(1)
	}
	return &core.BinaryExpr{Left: from, Op: core.OpAdd, Right: scale(step, times), Type: s.elem}, nil
}

func scale(step, times core.Expr) core.Expr {
	if isOne(step) {
		return times
	}
	if isOne(times) {
		return step
	}
	return core.Bin(step, core.OpMul, times)
}

// within is the predicate keeping value on the start side of stop. When
// the sign of the step is unknown both directions are guarded.
func within(value, stop, step core.Expr, sign int) core.Expr {
	up := core.Bin(value, core.OpLe, stop)
	down := core.Bin(value, core.OpGe, stop)
	switch sign {
	case 1:
		return up
	case -1:
		return down
	}
	magnitude := step
	if d, ok := step.(*core.DurationExpr); ok {
		magnitude = d.Magnitude
	}
	return core.Or(
		core.And(core.Bin(magnitude, core.OpGt, core.Int(0)), up),
		core.And(core.Bin(magnitude, core.OpLt, core.Int(0)), down),
	)
}

// sign returns the sign of a literal step, 0 when it is not known until
// the query runs.
func (s *series) sign(step core.Expr) int {
	if step == nil {
		return 1
	}
	if d, ok := step.(*core.DurationExpr); ok {
		step = d.Magnitude
	}
	if v, ok := literalValue(step); ok {
		return v.Sign()
	}
	return 0
}

// coerce casts a date or time bound to timestamp on dialects that only
// add durations to timestamps.
func (s *series) coerce(c function.Converter, e core.Expr) (core.Expr, error) {
	t := core.TypeOf(e)
	if !c.Dialect().TemporalArithmeticNeedsTimestamp || t == nil ||
		(t.Code != core.CodeDate && t.Code != core.CodeTime) {
		return e, nil
	}
	return castTo(c.Functions(), e, core.Timestamp)
}

// bound returns the number of rows the row source has to produce: exact
// for literal numeric bounds, the configured maximum otherwise.
func (s *series) bound(c function.Converter) (int64, error) {
	if s.temporal() {
		return int64(c.MaxSeriesSize()), nil
	}
	start, ok1 := literalValue(s.start)
	stop, ok2 := literalValue(s.stop)
	step := big.NewRat(1, 1)
	ok3 := true
	if s.step != nil {
		step, ok3 = literalValue(s.step)
	}
	if !ok1 || !ok2 || !ok3 {
		return int64(c.MaxSeriesSize()), nil
	}
	if step.Sign() == 0 {
		return 0, &function.ArgumentError{Function: s.table.Call.Name, Position: 3, Reason: "must not be zero"}
	}

	steps := new(big.Rat).Quo(new(big.Rat).Sub(stop, start), step)
	n := new(big.Int).Div(steps.Num(), steps.Denom())
	n.Add(n, big.NewInt(1))
	if n.Sign() < 0 {
		return 0, nil
	}
	if !n.IsInt64() {
		return 0, fmt.Errorf("series of %s rows cannot be generated", n)
	}
	return n.Int64(), nil
}

func (s *series) stepValue() core.Expr {
	if d, ok := s.step.(*core.DurationExpr); ok {
		return d.Magnitude
	}
	return s.step
}

// simpleOperand reports whether e can be repeated in read expressions.
func simpleOperand(e core.Expr) bool {
	switch v := e.(type) {
	case nil, *core.Literal, *core.Param, *core.ColumnRef:
		return true
	case *core.UnaryExpr:
		return v.Op == core.OpNeg && simpleOperand(v.Expr)
	}
	return false
}

func literalValue(e core.Expr) (*big.Rat, bool) {
	switch v := e.(type) {
	case *core.Literal:
		if v.Kind != core.LiteralNumber {
			return nil, false
		}
		return new(big.Rat).SetString(v.Value)
	case *core.UnaryExpr:
		if v.Op != core.OpNeg {
			return nil, false
		}
		r, ok := literalValue(v.Expr)
		if !ok {
			return nil, false
		}
		return r.Neg(r), true
	}
	return nil, false
}

func isOne(e core.Expr) bool {
	v, ok := literalValue(e)
	return ok && v.Cmp(big.NewRat(1, 1)) == 0
}
