package querydoc

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

type exprForm struct {
	key     string
	allowed []string
	build   func(b *builder, n *yaml.Node, m map[string]*yaml.Node) (core.Expr, error)
}

// exprForms are tried in order; the first key present in a mapping picks
// the form. Forms sharing a key (type, unit) are listed after the forms
// that own it.
var exprForms []exprForm

func init() {
	exprForms = []exprForm{
		{"call", []string{"call", "args", "distinct", "star", "filter", "within_group", "over", "implied"}, (*builder).callExpr},
		{"op", []string{"op", "args"}, (*builder).opExpr},
		{"not", []string{"not"}, unary(core.OpNot)},
		{"neg", []string{"neg"}, unary(core.OpNeg)},
		{"is_null", []string{"is_null"}, isNull(false)},
		{"is_not_null", []string{"is_not_null"}, isNull(true)},
		{"in", []string{"in", "values", "negate"}, (*builder).inExpr},
		{"param", []string{"param", "type"}, (*builder).paramExpr},
		{"lit", []string{"lit", "type"}, (*builder).typedLiteral},
		{"case", []string{"case", "operand", "else"}, (*builder).caseExpr},
		{"tuple", []string{"tuple"}, (*builder).tupleExpr},
		{"interval", []string{"interval", "unit"}, (*builder).durationExpr},
		{"unit", []string{"unit"}, (*builder).unitExpr},
		{"trim", []string{"trim"}, (*builder).trimSpec},
		{"type", []string{"type"}, (*builder).castTarget},
	}
}

func (b *builder) expr(n *yaml.Node) (core.Expr, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return b.expr(n.Alias)
	case yaml.ScalarNode:
		return b.scalar(n)
	case yaml.MappingNode:
		return b.mapping(n)
	}
	return nil, &Error{Line: n.Line, Err: errors.New("expected an expression")}
}

func (b *builder) scalar(n *yaml.Node) (core.Expr, error) {
	switch n.ShortTag() {
	case "!!null":
		return core.Null(), nil
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			return nil, &Error{Line: n.Line, Err: err}
		}
		return core.Bool(v), nil
	case "!!int":
		v, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, &Error{Line: n.Line, Err: fmt.Errorf("bad integer %q", n.Value)}
		}
		return core.Number(strconv.FormatInt(v, 10), intType(v)), nil
	case "!!float":
		return core.Number(n.Value, core.Double), nil
	}
	if isQuoted(n) {
		return core.Str(n.Value), nil
	}
	return b.column(n)
}

func intType(v int64) *core.Type {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return core.Long
	}
	return core.Integer
}

func (b *builder) mapping(n *yaml.Node) (core.Expr, error) {
	m := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		m[n.Content[i].Value] = n.Content[i+1]
	}
	for _, f := range exprForms {
		if _, ok := m[f.key]; !ok {
			continue
		}
		for _, k := range sortedKeys(m) {
			if !slices.Contains(f.allowed, k) {
				return nil, &Error{Line: n.Line, Err: fmt.Errorf("unknown key %q in %s expression", k, f.key)}
			}
		}
		return f.build(b, n, m)
	}
	return nil, &Error{Line: n.Line, Err: fmt.Errorf("unrecognized expression with keys %s", strings.Join(sortedKeys(m), ", "))}
}

func (b *builder) callExpr(n *yaml.Node, m map[string]*yaml.Node) (core.Expr, error) {
	var opts []function.CallOption
	var args []core.Expr
	if a, ok := m["args"]; ok {
		var err error
		if args, err = b.list(a); err != nil {
			return nil, err
		}
	}
	if v, err := flag(m, "distinct"); err != nil {
		return nil, err
	} else if v {
		opts = append(opts, function.Distinct())
	}
	if v, err := flag(m, "star"); err != nil {
		return nil, err
	} else if v {
		opts = append(opts, function.Star())
	}
	if f, ok := m["filter"]; ok {
		pred, err := b.expr(f)
		if err != nil {
			return nil, err
		}
		opts = append(opts, function.WithFilter(pred))
	}
	if wg, ok := m["within_group"]; ok {
		items, err := b.orderNodes(wg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, function.WithinGroup(items...))
	}
	if over, ok := m["over"]; ok {
		w, err := b.window(over)
		if err != nil {
			return nil, err
		}
		opts = append(opts, function.Over(w))
	}
	if implied, ok := m["implied"]; ok {
		t, err := ParseType(implied.Value)
		if err != nil {
			return nil, &Error{Line: implied.Line, Err: err}
		}
		opts = append(opts, function.Implied(t))
	}

	call, err := b.d.Functions().Call(m["call"].Value, args, opts...)
	if err != nil {
		return nil, &Error{Line: n.Line, Err: err}
	}
	return call, nil
}

func (b *builder) window(n *yaml.Node) (*core.WindowSpec, error) {
	w := &core.WindowSpec{}
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return w, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, &Error{Line: n.Line, Err: errors.New("over must be a mapping")}
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		var err error
		switch key.Value {
		case "partition_by":
			w.PartitionBy, err = b.list(value)
		case "order_by":
			w.OrderBy, err = b.orderNodes(value)
		case "frame":
			w.Frame = value.Value
		default:
			err = &Error{Line: key.Line, Err: fmt.Errorf("unknown key %q in over", key.Value)}
		}
		if err != nil {
			return nil, err
		}
	}
	return w, nil
}

var binaryOps = map[string]core.BinaryOp{
	"+":    core.OpAdd,
	"-":    core.OpSub,
	"*":    core.OpMul,
	"/":    core.OpDiv,
	"%":    core.OpMod,
	"=":    core.OpEq,
	"<>":   core.OpNe,
	"!=":   core.OpNe,
	"<":    core.OpLt,
	"<=":   core.OpLe,
	">":    core.OpGt,
	">=":   core.OpGe,
	"and":  core.OpAnd,
	"or":   core.OpOr,
	"||":   core.OpConcat,
	"like": core.OpLike,
}

func (b *builder) opExpr(n *yaml.Node, m map[string]*yaml.Node) (core.Expr, error) {
	op, ok := binaryOps[strings.ToLower(m["op"].Value)]
	if !ok {
		return nil, &Error{Line: n.Line, Err: fmt.Errorf("unknown operator %q", m["op"].Value)}
	}
	a, ok := m["args"]
	if !ok {
		return nil, &Error{Line: n.Line, Err: fmt.Errorf("operator %s needs args", op)}
	}
	args, err := b.list(a)
	if err != nil {
		return nil, err
	}
	switch {
	case op.IsLogical() && len(args) >= 2:
		if op == core.OpAnd {
			return core.And(args...), nil
		}
		return core.Or(args...), nil
	case len(args) == 2:
		return core.Bin(args[0], op, args[1]), nil
	}
	return nil, &Error{Line: n.Line, Err: fmt.Errorf("operator %s takes 2 operands, found %d", op, len(args))}
}

func unary(op core.UnaryOp) func(*builder, *yaml.Node, map[string]*yaml.Node) (core.Expr, error) {
	return func(b *builder, _ *yaml.Node, m map[string]*yaml.Node) (core.Expr, error) {
		operand, err := b.expr(m[opKey(op)])
		if err != nil {
			return nil, err
		}
		return &core.UnaryExpr{Op: op, Expr: operand}, nil
	}
}

func opKey(op core.UnaryOp) string {
	if op == core.OpNot {
		return "not"
	}
	return "neg"
}

func isNull(not bool) func(*builder, *yaml.Node, map[string]*yaml.Node) (core.Expr, error) {
	key := "is_null"
	if not {
		key = "is_not_null"
	}
	return func(b *builder, _ *yaml.Node, m map[string]*yaml.Node) (core.Expr, error) {
		operand, err := b.expr(m[key])
		if err != nil {
			return nil, err
		}
		return &core.IsNullExpr{Expr: operand, Not: not}, nil
	}
}

func (b *builder) inExpr(n *yaml.Node, m map[string]*yaml.Node) (core.Expr, error) {
	operand, err := b.expr(m["in"])
	if err != nil {
		return nil, err
	}
	vals, ok := m["values"]
	if !ok {
		return nil, &Error{Line: n.Line, Err: errors.New("in needs values")}
	}
	values, err := b.list(vals)
	if err != nil {
		return nil, err
	}
	not, err := flag(m, "negate")
	if err != nil {
		return nil, err
	}
	return &core.InExpr{Expr: operand, Not: not, Values: values}, nil
}

// paramExpr builds a bind parameter. Without a type the parameter takes
// the type of its value, or stays untyped for null so the call it feeds
// can infer one.
func (b *builder) paramExpr(_ *yaml.Node, m map[string]*yaml.Node) (core.Expr, error) {
	v := m["param"]
	p := &core.Param{}
	switch v.ShortTag() {
	case "!!null":
	case "!!bool":
		var x bool
		if err := v.Decode(&x); err != nil {
			return nil, &Error{Line: v.Line, Err: err}
		}
		p.Value, p.Type = x, core.Boolean
	case "!!int":
		x, err := strconv.ParseInt(v.Value, 0, 64)
		if err != nil {
			return nil, &Error{Line: v.Line, Err: fmt.Errorf("bad integer %q", v.Value)}
		}
		p.Value, p.Type = x, intType(x)
	case "!!float":
		x, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			return nil, &Error{Line: v.Line, Err: fmt.Errorf("bad number %q", v.Value)}
		}
		p.Value, p.Type = x, core.Double
	case "!!str":
		p.Value, p.Type = v.Value, core.String
	default:
		return nil, &Error{Line: v.Line, Err: errors.New("param value must be a scalar")}
	}
	if t, ok := m["type"]; ok {
		typ, err := ParseType(t.Value)
		if err != nil {
			return nil, &Error{Line: t.Line, Err: err}
		}
		p.Type = typ
	}
	return p, nil
}

// typedLiteral builds a literal of a declared type, as in
// {lit: '2024-01-31', type: date}.
func (b *builder) typedLiteral(n *yaml.Node, m map[string]*yaml.Node) (core.Expr, error) {
	t, ok := m["type"]
	if !ok {
		return nil, &Error{Line: n.Line, Err: errors.New("lit needs a type")}
	}
	typ, err := ParseType(t.Value)
	if err != nil {
		return nil, &Error{Line: t.Line, Err: err}
	}
	v := m["lit"]
	switch v.ShortTag() {
	case "!!int", "!!float":
		return core.Number(v.Value, typ), nil
	case "!!bool":
		return &core.Literal{Kind: core.LiteralBool, Value: strings.ToLower(v.Value), Type: typ}, nil
	case "!!null":
		return &core.Literal{Kind: core.LiteralNull, Value: "null", Type: typ}, nil
	}
	return &core.Literal{Kind: core.LiteralString, Value: v.Value, Type: typ}, nil
}

func (b *builder) caseExpr(n *yaml.Node, m map[string]*yaml.Node) (core.Expr, error) {
	branches := m["case"]
	if branches.Kind != yaml.SequenceNode || len(branches.Content) == 0 {
		return nil, &Error{Line: n.Line, Err: errors.New("case needs a list of when/then branches")}
	}
	c := &core.CaseExpr{}
	for _, br := range branches.Content {
		if br.Kind != yaml.MappingNode || len(br.Content) != 4 || !hasKey(br, "when") || !hasKey(br, "then") {
			return nil, &Error{Line: br.Line, Err: errors.New("case branch must have exactly when and then")}
		}
		var when core.WhenClause
		for i := 0; i < 4; i += 2 {
			e, err := b.expr(br.Content[i+1])
			if err != nil {
				return nil, err
			}
			if br.Content[i].Value == "when" {
				when.Condition = e
			} else {
				when.Result = e
			}
		}
		c.Whens = append(c.Whens, when)
	}
	var err error
	if op, ok := m["operand"]; ok {
		if c.Operand, err = b.expr(op); err != nil {
			return nil, err
		}
	}
	if e, ok := m["else"]; ok {
		if c.Else, err = b.expr(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (b *builder) tupleExpr(_ *yaml.Node, m map[string]*yaml.Node) (core.Expr, error) {
	items, err := b.list(m["tuple"])
	if err != nil {
		return nil, err
	}
	return &core.TupleExpr{Items: items}, nil
}

func (b *builder) durationExpr(n *yaml.Node, m map[string]*yaml.Node) (core.Expr, error) {
	u, ok := m["unit"]
	if !ok {
		return nil, &Error{Line: n.Line, Err: errors.New("interval needs a unit")}
	}
	unit, err := parseUnit(u)
	if err != nil {
		return nil, err
	}
	mag, err := b.expr(m["interval"])
	if err != nil {
		return nil, err
	}
	return &core.DurationExpr{Magnitude: mag, Unit: unit}, nil
}

func (b *builder) unitExpr(_ *yaml.Node, m map[string]*yaml.Node) (core.Expr, error) {
	unit, err := parseUnit(m["unit"])
	if err != nil {
		return nil, err
	}
	return &core.TemporalUnit{Unit: unit}, nil
}

var units = []core.Unit{
	core.UnitYear, core.UnitMonth, core.UnitWeek, core.UnitDay,
	core.UnitHour, core.UnitMinute, core.UnitSecond,
}

func parseUnit(n *yaml.Node) (core.Unit, error) {
	s := core.Unit(strings.TrimSuffix(strings.ToLower(n.Value), "s"))
	for _, u := range units {
		if u == s {
			return u, nil
		}
	}
	return "", &Error{Line: n.Line, Err: fmt.Errorf("unknown temporal unit %q", n.Value)}
}

func (b *builder) trimSpec(_ *yaml.Node, m map[string]*yaml.Node) (core.Expr, error) {
	v := m["trim"]
	for _, k := range []core.TrimKind{core.TrimBoth, core.TrimLeading, core.TrimTrailing} {
		if strings.EqualFold(v.Value, k.String()) {
			return &core.TrimSpec{Kind: k}, nil
		}
	}
	return nil, &Error{Line: v.Line, Err: fmt.Errorf("unknown trim kind %q", v.Value)}
}

func (b *builder) castTarget(_ *yaml.Node, m map[string]*yaml.Node) (core.Expr, error) {
	v := m["type"]
	t, err := ParseType(v.Value)
	if err != nil {
		return nil, &Error{Line: v.Line, Err: err}
	}
	return &core.CastTarget{Type: t}, nil
}

func (b *builder) list(n *yaml.Node) ([]core.Expr, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, &Error{Line: n.Line, Err: errors.New("expected a list")}
	}
	out := make([]core.Expr, 0, len(n.Content))
	for _, c := range n.Content {
		e, err := b.expr(c)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func flag(m map[string]*yaml.Node, key string) (bool, error) {
	n, ok := m[key]
	if !ok {
		return false, nil
	}
	var v bool
	if err := n.Decode(&v); err != nil {
		return false, &Error{Line: n.Line, Err: fmt.Errorf("%s must be true or false", key)}
	}
	return v, nil
}
