package sqlgen

import (
	"log/slog"
	"strconv"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

// frame is a query spec being converted, with the slot that holds it.
type frame struct {
	spec         *core.QuerySpec
	slot         *core.QueryPart
	clause       core.Clause
	transformers []function.QueryTransformer
	keys         map[string]struct{}
}

// conversion is the conversion pass of one compilation. It implements
// function.Converter for descriptor hooks.
type conversion struct {
	compiler *Compiler
	stmt     *core.SelectStatement

	frames  []*frame // innermost last
	pending []*frame // frames with transformers, innermost first

	converted map[*core.CteStatement]struct{}
	mainDone  bool
	aliases   map[string]struct{}
	aliasSeq  map[string]int
}

var _ function.Converter = (*conversion)(nil)

func newConversion(c *Compiler, stmt *core.SelectStatement) *conversion {
	conv := &conversion{
		compiler:  c,
		stmt:      stmt,
		converted: make(map[*core.CteStatement]struct{}),
		aliases:   make(map[string]struct{}),
		aliasSeq:  make(map[string]int),
	}
	collectAliases(stmt, conv.aliases)
	return conv
}

// ---------- function.Converter ----------

func (c *conversion) Dialect() *core.DialectConfig     { return c.compiler.dialect.Config() }
func (c *conversion) Functions() *function.Registry    { return c.compiler.dialect.Functions() }
func (c *conversion) Logger() *slog.Logger             { return c.compiler.logger }
func (c *conversion) Statement() *core.SelectStatement { return c.stmt }

func (c *conversion) Clause() core.Clause {
	if f := c.top(); f != nil {
		return f.clause
	}
	return core.ClauseNone
}

func (c *conversion) Query() *core.QuerySpec {
	if f := c.top(); f != nil {
		return f.spec
	}
	return nil
}

func (c *conversion) AddQueryTransformer(t function.QueryTransformer) {
	f := c.top()
	if f == nil {
		c.Logger().Warn("query transformer registered outside of a query")
		return
	}
	f.transformers = append(f.transformers, t)
}

func (c *conversion) AddQueryTransformerOnce(key string, t function.QueryTransformer) bool {
	f := c.top()
	if f == nil {
		return false
	}
	if _, ok := f.keys[key]; ok {
		return false
	}
	if f.keys == nil {
		f.keys = make(map[string]struct{})
	}
	f.keys[key] = struct{}{}
	f.transformers = append(f.transformers, t)
	c.Logger().Debug("registered query transformer", slog.String("key", key))
	return true
}

func (c *conversion) NextAlias(prefix string) string {
	for {
		c.aliasSeq[prefix]++
		alias := prefix + strconv.Itoa(c.aliasSeq[prefix])
		if _, taken := c.aliases[alias]; !taken {
			c.aliases[alias] = struct{}{}
			return alias
		}
	}
}

func (c *conversion) MaxSeriesSize() int {
	if c.compiler.maxSeriesSize > 0 {
		return c.compiler.maxSeriesSize
	}
	return c.Dialect().SeriesLimit()
}

func (c *conversion) top() *frame {
	if len(c.frames) == 0 {
		return nil
	}
	return c.frames[len(c.frames)-1]
}

// ---------- Conversion walk ----------

func (c *conversion) run() error {
	// User CTEs first, then the main query. CTEs added by emulations are
	// built from converted expressions.
	for {
		progressed := false
		for _, cte := range c.stmt.Ctes.All() {
			if _, done := c.converted[cte]; done || cte.Source != nil {
				continue
			}
			c.converted[cte] = struct{}{}
			progressed = true
			if err := c.queryPart(&cte.Query, core.ClauseCte); err != nil {
				return err
			}
		}
		if !c.mainDone {
			c.mainDone = true
			progressed = true
			if err := c.queryPart(&c.stmt.Query, core.ClauseNone); err != nil {
				return err
			}
		}
		if !progressed {
			return nil
		}
	}
}

func (c *conversion) queryPart(slot *core.QueryPart, clause core.Clause) error {
	switch q := (*slot).(type) {
	case *core.QuerySpec:
		return c.querySpec(q, slot)
	case *core.QueryGroup:
		for i := range q.Parts {
			if err := c.queryPart(&q.Parts[i], clause); err != nil {
				return err
			}
		}
		for i := range q.OrderBy {
			var err error
			if q.OrderBy[i].Expr, err = c.expr(q.OrderBy[i].Expr); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *conversion) querySpec(spec *core.QuerySpec, slot *core.QueryPart) error {
	f := &frame{spec: spec, slot: slot}
	c.frames = append(c.frames, f)
	err := c.querySpecClauses(spec, f)
	c.frames = c.frames[:len(c.frames)-1]
	if err != nil {
		return err
	}
	if len(f.transformers) > 0 {
		c.pending = append(c.pending, f)
	}
	return nil
}

func (c *conversion) querySpecClauses(spec *core.QuerySpec, f *frame) error {
	var err error

	f.clause = core.ClauseFrom
	for _, g := range spec.From {
		if err = c.tableGroup(g); err != nil {
			return err
		}
	}

	f.clause = core.ClauseWhere
	if spec.Where, err = c.expr(spec.Where); err != nil {
		return err
	}

	f.clause = core.ClauseGroupBy
	if err = c.exprs(spec.GroupBy); err != nil {
		return err
	}

	f.clause = core.ClauseHaving
	if spec.Having, err = c.expr(spec.Having); err != nil {
		return err
	}

	f.clause = core.ClauseSelect
	for i := range spec.Select {
		if spec.Select[i].Expr, err = c.expr(spec.Select[i].Expr); err != nil {
			return err
		}
	}

	f.clause = core.ClauseOrderBy
	for i := range spec.OrderBy {
		if spec.OrderBy[i].Expr, err = c.expr(spec.OrderBy[i].Expr); err != nil {
			return err
		}
	}

	f.clause = core.ClauseOffset
	if spec.Offset, err = c.expr(spec.Offset); err != nil {
		return err
	}
	if spec.Fetch, err = c.expr(spec.Fetch); err != nil {
		return err
	}
	return nil
}

func (c *conversion) tableGroup(g *core.TableGroup) error {
	switch ref := g.Ref.(type) {
	case *core.DerivedTable:
		if err := c.queryPart(&ref.Query, core.ClauseFrom); err != nil {
			return err
		}
	case *core.FunctionTable:
		if err := c.exprs(ref.Call.Args); err != nil {
			return err
		}
		if d, ok := function.DescriptorOf(ref.Call); ok && d.ConvertTable != nil {
			if err := d.ConvertTable(g, ref, c); err != nil {
				return err
			}
		}
	case *core.ValuesTable:
		for _, row := range ref.Rows {
			if err := c.exprs(row); err != nil {
				return err
			}
		}
	case *core.SourceTable:
		var err error
		if ref.Source, err = c.expr(ref.Source); err != nil {
			return err
		}
	}

	for _, j := range g.Joins {
		if err := c.tableGroup(j.Group); err != nil {
			return err
		}
		var err error
		if j.Predicate, err = c.expr(j.Predicate); err != nil {
			return err
		}
	}
	return nil
}

func (c *conversion) exprs(list []core.Expr) error {
	for i := range list {
		var err error
		if list[i], err = c.expr(list[i]); err != nil {
			return err
		}
	}
	return nil
}

// expr converts e bottom-up in place and returns its replacement.
func (c *conversion) expr(e core.Expr) (core.Expr, error) {
	var err error
	switch v := e.(type) {
	case nil:
		return nil, nil
	case *core.BinaryExpr:
		if v.Left, err = c.expr(v.Left); err != nil {
			return nil, err
		}
		if v.Right, err = c.expr(v.Right); err != nil {
			return nil, err
		}
	case *core.UnaryExpr:
		if v.Expr, err = c.expr(v.Expr); err != nil {
			return nil, err
		}
	case *core.CaseExpr:
		if v.Operand, err = c.expr(v.Operand); err != nil {
			return nil, err
		}
		for i := range v.Whens {
			if v.Whens[i].Condition, err = c.expr(v.Whens[i].Condition); err != nil {
				return nil, err
			}
			if v.Whens[i].Result, err = c.expr(v.Whens[i].Result); err != nil {
				return nil, err
			}
		}
		if v.Else, err = c.expr(v.Else); err != nil {
			return nil, err
		}
	case *core.IsNullExpr:
		if v.Expr, err = c.expr(v.Expr); err != nil {
			return nil, err
		}
	case *core.InExpr:
		if v.Expr, err = c.expr(v.Expr); err != nil {
			return nil, err
		}
		if err = c.exprs(v.Values); err != nil {
			return nil, err
		}
		if v.Query != nil {
			if err = c.queryPart(&v.Query, c.Clause()); err != nil {
				return nil, err
			}
		}
	case *core.TupleExpr:
		if err = c.exprs(v.Items); err != nil {
			return nil, err
		}
	case *core.SubqueryExpr:
		if err = c.queryPart(&v.Query, c.Clause()); err != nil {
			return nil, err
		}
	case *core.ExistsExpr:
		if err = c.queryPart(&v.Query, c.Clause()); err != nil {
			return nil, err
		}
	case *core.DurationExpr:
		if v.Magnitude, err = c.expr(v.Magnitude); err != nil {
			return nil, err
		}
	case *core.Template:
		if err = c.exprs(v.Args); err != nil {
			return nil, err
		}
	case *core.FuncCall:
		return c.call(v)
	}
	return e, nil
}

func (c *conversion) call(call *core.FuncCall) (core.Expr, error) {
	var err error
	if err = c.exprs(call.Args); err != nil {
		return nil, err
	}
	if call.Filter, err = c.expr(call.Filter); err != nil {
		return nil, err
	}
	for i := range call.WithinGroup {
		if call.WithinGroup[i].Expr, err = c.expr(call.WithinGroup[i].Expr); err != nil {
			return nil, err
		}
	}
	if call.Window != nil {
		if err = c.exprs(call.Window.PartitionBy); err != nil {
			return nil, err
		}
		for i := range call.Window.OrderBy {
			if call.Window.OrderBy[i].Expr, err = c.expr(call.Window.OrderBy[i].Expr); err != nil {
				return nil, err
			}
		}
	}

	var out core.Expr = call
	if d, ok := function.DescriptorOf(call); ok && d.ConvertCall != nil {
		if out, err = d.ConvertCall(call, c); err != nil {
			return nil, err
		}
	}
	if fc, ok := out.(*core.FuncCall); ok && fc.Filter != nil && !c.Dialect().SupportsFilterClause {
		emulateFilter(fc)
	}
	return out, nil
}

// emulateFilter moves a FILTER predicate into the aggregated values:
// agg(x) filter (where p) becomes agg(case when p then x end).
func emulateFilter(call *core.FuncCall) {
	pred := call.Filter
	call.Filter = nil
	if call.Star {
		call.Star = false
		call.Args = []core.Expr{core.When(pred, core.Int(1))}
		return
	}
	if len(call.WithinGroup) > 0 {
		for i := range call.WithinGroup {
			call.WithinGroup[i].Expr = core.When(pred, call.WithinGroup[i].Expr)
		}
		return
	}
	for i, a := range call.Args {
		call.Args[i] = core.When(pred, a)
	}
}

// ---------- Transformation ----------

func (c *conversion) transform() error {
	for _, f := range c.pending {
		c.frames = append(c.frames, f)
		f.clause = core.ClauseNone
		for _, t := range f.transformers {
			next, err := t(c.stmt.Ctes, f.spec, c)
			if err != nil {
				c.frames = c.frames[:len(c.frames)-1]
				return err
			}
			if next != nil {
				f.spec = next
			}
		}
		*f.slot = f.spec
		c.frames = c.frames[:len(c.frames)-1]
	}
	return nil
}

// collectAliases records the table aliases a statement already uses.
func collectAliases(stmt *core.SelectStatement, into map[string]struct{}) {
	var part func(q core.QueryPart)
	var group func(g *core.TableGroup)
	var expr func(e core.Expr)

	group = func(g *core.TableGroup) {
		into[g.Alias] = struct{}{}
		if dt, ok := g.Ref.(*core.DerivedTable); ok {
			part(dt.Query)
		}
		for _, j := range g.Joins {
			group(j.Group)
			expr(j.Predicate)
		}
	}
	expr = func(e core.Expr) {
		core.Walk(e, func(n core.Expr) bool {
			switch v := n.(type) {
			case *core.SubqueryExpr:
				part(v.Query)
			case *core.ExistsExpr:
				part(v.Query)
			case *core.InExpr:
				if v.Query != nil {
					part(v.Query)
				}
			}
			return true
		})
	}
	part = func(q core.QueryPart) {
		switch v := q.(type) {
		case *core.QuerySpec:
			for _, g := range v.From {
				group(g)
			}
			expr(v.Where)
			expr(v.Having)
			for _, item := range v.Select {
				expr(item.Expr)
			}
		case *core.QueryGroup:
			for _, p := range v.Parts {
				part(p)
			}
		}
	}

	for _, cte := range stmt.Ctes.All() {
		into[cte.Name] = struct{}{}
		part(cte.Query)
	}
	part(stmt.Query)
}
