package sqlgen

import (
	"strings"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

const defaultIntervalPattern = "(?1) * interval '1 ?2'"

// Binding strength of operators, loosest first.
const (
	precOr = iota + 1
	precAnd
	precNot
	precCompare
	precConcat
	precAdd
	precMul
	precUnary
	precAtom
)

func precedence(e core.Expr) int {
	switch v := e.(type) {
	case *core.BinaryExpr:
		switch v.Op {
		case core.OpOr:
			return precOr
		case core.OpAnd:
			return precAnd
		case core.OpConcat:
			return precConcat
		case core.OpAdd, core.OpSub:
			return precAdd
		case core.OpMul, core.OpDiv, core.OpMod:
			return precMul
		}
		return precCompare
	case *core.UnaryExpr:
		if v.Op == core.OpNot {
			return precNot
		}
		return precUnary
	case *core.IsNullExpr, *core.InExpr:
		return precCompare
	}
	return precAtom
}

// expr renders e. Callers inside function templates go through Render,
// which parenthesizes operator expressions.
func (p *Printer) expr(e core.Expr) {
	if e == nil || p.err != nil {
		return
	}

	switch v := e.(type) {
	case *core.ColumnRef:
		p.formatColumnRef(v)
	case *core.Literal:
		p.formatLiteral(v)
	case *core.Param:
		p.param(v.Value)
	case *core.BinaryExpr:
		p.formatBinaryExpr(v)
	case *core.UnaryExpr:
		p.formatUnaryExpr(v)
	case *core.FuncCall:
		p.formatFuncCall(v)
	case *core.CaseExpr:
		p.formatCaseExpr(v)
	case *core.IsNullExpr:
		p.operand(v.Expr, precCompare+1)
		if v.Not {
			p.write(" is not null")
		} else {
			p.write(" is null")
		}
	case *core.InExpr:
		p.formatInExpr(v)
	case *core.TupleExpr:
		p.write("(")
		p.formatList(len(v.Items), func(i int) { p.expr(v.Items[i]) }, ",")
		p.write(")")
	case *core.SubqueryExpr:
		p.write("(")
		p.queryPart(v.Query)
		p.write(")")
	case *core.ExistsExpr:
		if v.Not {
			p.write("not ")
		}
		p.write("exists (")
		p.queryPart(v.Query)
		p.write(")")
	case *core.StarExpr:
		if v.Qualifier != "" {
			p.ident(v.Qualifier)
			p.write(".")
		}
		p.write("*")
	case *core.TemporalUnit:
		p.write(string(v.Unit))
	case *core.DurationExpr:
		p.formatDuration(v)
	case *core.CastTarget:
		p.write(p.dialect.TypeName(v.Type))
	case *core.TrimSpec:
		p.write(v.Kind.String())
	case *core.Template:
		p.formatTemplate(v.Text, v.Args)
	}
}

// operand renders e, parenthesized when it binds looser than min.
func (p *Printer) operand(e core.Expr, min int) {
	if p.bindingOf(e) < min {
		p.write("(")
		p.expr(e)
		p.write(")")
		return
	}
	p.expr(e)
}

// bindingOf is the precedence e prints with. A column with a read
// expression binds like that expression.
func (p *Printer) bindingOf(e core.Expr) int {
	if col, ok := e.(*core.ColumnRef); ok {
		if _, read, ok := p.readOf(col); ok {
			return precedence(read)
		}
	}
	return precedence(e)
}

// readOf returns the read expression registered for col by its table
// group, unless that group is already being rendered.
func (p *Printer) readOf(col *core.ColumnRef) (*core.TableGroup, core.Expr, bool) {
	if col.Qualifier == "" {
		return nil, nil, false
	}
	g := p.findGroup(col.Qualifier)
	if g == nil {
		return nil, nil, false
	}
	read, ok := g.Read[col.Column]
	if !ok {
		return nil, nil, false
	}
	if _, busy := p.resolving[g]; busy {
		return nil, nil, false
	}
	return g, read, true
}

func (p *Printer) formatColumnRef(col *core.ColumnRef) {
	if col.Qualifier == "" {
		p.ident(col.Column)
		return
	}
	if g, read, ok := p.readOf(col); ok {
		p.resolving[g] = struct{}{}
		p.expr(read)
		delete(p.resolving, g)
		return
	}
	p.ident(col.Qualifier)
	p.write(".")
	p.ident(col.Column)
}

func (p *Printer) formatLiteral(lit *core.Literal) {
	cfg := p.Dialect()
	switch lit.Kind {
	case core.LiteralString:
		p.write("'")
		p.write(strings.ReplaceAll(lit.Value, "'", "''"))
		p.write("'")
	case core.LiteralBool:
		switch {
		case lit.Value == "true" && cfg.TrueLiteral != "":
			p.write(cfg.TrueLiteral)
		case lit.Value == "false" && cfg.FalseLiteral != "":
			p.write(cfg.FalseLiteral)
		default:
			p.write(lit.Value)
		}
	case core.LiteralNull:
		p.write("null")
	default:
		p.write(lit.Value)
	}
}

func (p *Printer) formatBinaryExpr(expr *core.BinaryExpr) {
	prec := precedence(expr)
	p.operand(expr.Left, prec)
	switch {
	case expr.Op.IsLogical() || expr.Op == core.OpLike:
		p.space()
		p.write(string(expr.Op))
		p.space()
	default:
		p.write(string(expr.Op))
	}
	// left associative: an equal precedence right operand keeps its parens
	p.operand(expr.Right, prec+1)
}

func (p *Printer) formatUnaryExpr(expr *core.UnaryExpr) {
	if expr.Op == core.OpNot {
		p.write("not ")
		p.operand(expr.Expr, precNot)
		return
	}
	p.write(string(expr.Op))
	p.operand(expr.Expr, precAtom)
}

func (p *Printer) formatFuncCall(fn *core.FuncCall) {
	d, ok := function.DescriptorOf(fn)
	if !ok {
		d, ok = p.Functions().Find(fn.Name)
	}

	var err error
	p.calls++
	if ok {
		err = d.RenderCall(p, fn, p)
	} else {
		err = function.RenderStandard(p, fn, p)
	}
	p.calls--
	if err != nil {
		p.fail(err)
		return
	}

	if len(fn.WithinGroup) > 0 && (!ok || d.RenderOrderedSet == nil) {
		p.write(" within group (order by ")
		p.formatOrderByList(fn.WithinGroup)
		p.write(")")
	}

	if fn.Filter != nil {
		p.write(" filter (where ")
		p.expr(fn.Filter)
		p.write(")")
	}

	if fn.Window != nil && (!ok || d.RenderWindow == nil) {
		p.write(" over (")
		p.formatWindowSpec(fn.Window)
		p.write(")")
	}
}

func (p *Printer) formatWindowSpec(w *core.WindowSpec) {
	sep := ""
	if len(w.PartitionBy) > 0 {
		p.write("partition by ")
		p.formatList(len(w.PartitionBy), func(i int) { p.expr(w.PartitionBy[i]) }, ",")
		sep = " "
	}
	if len(w.OrderBy) > 0 {
		p.write(sep)
		p.write("order by ")
		p.formatOrderByList(w.OrderBy)
		sep = " "
	}
	if w.Frame != "" {
		p.write(sep)
		p.write(w.Frame)
	}
}

func (p *Printer) formatCaseExpr(expr *core.CaseExpr) {
	p.write("case")
	if expr.Operand != nil {
		p.space()
		p.expr(expr.Operand)
	}
	for _, w := range expr.Whens {
		p.write(" when ")
		p.expr(w.Condition)
		p.write(" then ")
		p.expr(w.Result)
	}
	if expr.Else != nil {
		p.write(" else ")
		p.expr(expr.Else)
	}
	p.write(" end")
}

func (p *Printer) formatInExpr(expr *core.InExpr) {
	p.operand(expr.Expr, precCompare+1)
	if expr.Not {
		p.write(" not")
	}
	p.write(" in (")
	if expr.Query != nil {
		p.queryPart(expr.Query)
	} else {
		p.formatList(len(expr.Values), func(i int) { p.expr(expr.Values[i]) }, ",")
	}
	p.write(")")
}

func (p *Printer) formatDuration(d *core.DurationExpr) {
	tpl := p.Dialect().IntervalPattern
	if tpl == "" {
		tpl = defaultIntervalPattern
	}
	p.formatTemplate(tpl, []core.Expr{d.Magnitude, &core.TemporalUnit{Unit: d.Unit}})
}

func (p *Printer) formatTemplate(text string, args []core.Expr) {
	pt := p.pattern(text)
	if pt == nil {
		return
	}
	p.calls++
	p.fail(pt.Render(p, args, p))
	p.calls--
}

func (p *Printer) formatOrderByList(items []core.OrderByItem) {
	p.formatList(len(items), func(i int) { p.formatOrderByItem(items[i]) }, ",")
}

func (p *Printer) formatOrderByItem(item core.OrderByItem) {
	p.expr(item.Expr)
	if item.Desc {
		p.write(" desc")
	}
	if item.NullsFirst != nil {
		if *item.NullsFirst {
			p.write(" nulls first")
		} else {
			p.write(" nulls last")
		}
	}
}
