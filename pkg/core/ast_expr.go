package core

import "strconv"

// ---------- Expression Types ----------

// ColumnRef represents a column reference (possibly qualified).
type ColumnRef struct {
	Qualifier  string // table group alias
	Column     string
	Type       *Type
	Nullable   bool
	Identifier bool // column is (part of) the identifier of its table
}

func (*ColumnRef) node()     {}
func (*ColumnRef) exprNode() {}

// ExprType implements Expr.
func (c *ColumnRef) ExprType() *Type { return c.Type }

// LiteralKind represents the kind of a literal.
type LiteralKind int

// LiteralKind constants for SQL literal value types.
const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// Literal represents a literal value. Value holds the SQL text of numbers
// and booleans and the unquoted content of strings.
type Literal struct {
	Kind  LiteralKind
	Value string
	Type  *Type
}

func (*Literal) node()     {}
func (*Literal) exprNode() {}

// ExprType implements Expr.
func (l *Literal) ExprType() *Type { return l.Type }

// Int returns an integer literal.
func Int(n int64) *Literal {
	return &Literal{Kind: LiteralNumber, Value: strconv.FormatInt(n, 10), Type: Integer}
}

// Number returns a numeric literal of the given type.
func Number(text string, t *Type) *Literal {
	return &Literal{Kind: LiteralNumber, Value: text, Type: t}
}

// Str returns a string literal.
func Str(s string) *Literal {
	return &Literal{Kind: LiteralString, Value: s, Type: String}
}

// Bool returns a boolean literal.
func Bool(b bool) *Literal {
	return &Literal{Kind: LiteralBool, Value: strconv.FormatBool(b), Type: Boolean}
}

// Null returns an untyped NULL literal.
func Null() *Literal {
	return &Literal{Kind: LiteralNull, Value: "null"}
}

// Param represents a positional bind parameter.
type Param struct {
	Value any
	Type  *Type
}

func (*Param) node()     {}
func (*Param) exprNode() {}

// ExprType implements Expr.
func (p *Param) ExprType() *Type { return p.Type }

// BinaryOp is a binary operator.
type BinaryOp string

// Binary operators.
const (
	OpAdd    BinaryOp = "+"
	OpSub    BinaryOp = "-"
	OpMul    BinaryOp = "*"
	OpDiv    BinaryOp = "/"
	OpMod    BinaryOp = "%"
	OpEq     BinaryOp = "="
	OpNe     BinaryOp = "<>"
	OpLt     BinaryOp = "<"
	OpLe     BinaryOp = "<="
	OpGt     BinaryOp = ">"
	OpGe     BinaryOp = ">="
	OpAnd    BinaryOp = "and"
	OpOr     BinaryOp = "or"
	OpConcat BinaryOp = "||"
	OpLike   BinaryOp = "like"
)

// IsComparison reports whether the operator yields a boolean from two values.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpLike:
		return true
	}
	return false
}

// IsLogical reports whether the operator is AND or OR.
func (op BinaryOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
	Type  *Type
}

func (*BinaryExpr) node()     {}
func (*BinaryExpr) exprNode() {}

// ExprType implements Expr.
func (b *BinaryExpr) ExprType() *Type {
	switch {
	case b.Type != nil:
		return b.Type
	case b.Op.IsComparison() || b.Op.IsLogical():
		return Boolean
	case b.Op == OpConcat:
		return String
	}
	if t := TypeOf(b.Left); t != nil {
		return t
	}
	return TypeOf(b.Right)
}

// Bin builds a binary expression.
func Bin(left Expr, op BinaryOp, right Expr) *BinaryExpr {
	return &BinaryExpr{Left: left, Op: op, Right: right}
}

// And joins predicates with AND, skipping nil operands.
func And(preds ...Expr) Expr {
	return junction(OpAnd, preds)
}

// Or joins predicates with OR, skipping nil operands.
func Or(preds ...Expr) Expr {
	return junction(OpOr, preds)
}

func junction(op BinaryOp, preds []Expr) Expr {
	var out Expr
	for _, p := range preds {
		if p == nil {
			continue
		}
		if out == nil {
			out = p
			continue
		}
		out = Bin(out, op, p)
	}
	return out
}

// UnaryOp is a unary operator.
type UnaryOp string

// Unary operators.
const (
	OpNot UnaryOp = "not"
	OpNeg UnaryOp = "-"
)

// UnaryExpr represents a unary expression.
type UnaryExpr struct {
	Op   UnaryOp
	Expr Expr
}

func (*UnaryExpr) node()     {}
func (*UnaryExpr) exprNode() {}

// ExprType implements Expr.
func (u *UnaryExpr) ExprType() *Type {
	if u.Op == OpNot {
		return Boolean
	}
	return TypeOf(u.Expr)
}

// FuncCall represents a function call.
type FuncCall struct {
	Name        string
	Function    Callable // resolved descriptor, nil until the call is resolved
	Args        []Expr
	Distinct    bool
	Star        bool          // COUNT(*)
	Filter      Expr          // FILTER (WHERE ...) clause
	WithinGroup []OrderByItem // WITHIN GROUP (ORDER BY ...) clause
	Window      *WindowSpec   // OVER clause
	Type        *Type
}

func (*FuncCall) node()     {}
func (*FuncCall) exprNode() {}

// ExprType implements Expr.
func (f *FuncCall) ExprType() *Type { return f.Type }

// Clone returns a shallow copy of the call with its own argument slice.
func (f *FuncCall) Clone() *FuncCall {
	c := *f
	c.Args = append([]Expr(nil), f.Args...)
	c.WithinGroup = append([]OrderByItem(nil), f.WithinGroup...)
	if f.Window != nil {
		w := *f.Window
		c.Window = &w
	}
	return &c
}

// WindowSpec represents a window specification (OVER clause).
type WindowSpec struct {
	PartitionBy []Expr
	OrderBy     []OrderByItem
	Frame       string // frame clause text, e.g. "rows between unbounded preceding and current row"
}

// WhenClause represents a WHEN branch in a CASE expression.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// CaseExpr represents a CASE expression.
type CaseExpr struct {
	Operand Expr // nil for searched CASE
	Whens   []WhenClause
	Else    Expr
	Type    *Type
}

func (*CaseExpr) node()     {}
func (*CaseExpr) exprNode() {}

// ExprType implements Expr.
func (c *CaseExpr) ExprType() *Type {
	if c.Type != nil {
		return c.Type
	}
	for _, w := range c.Whens {
		if t := TypeOf(w.Result); t != nil {
			return t
		}
	}
	return TypeOf(c.Else)
}

// When builds a searched CASE with a single branch and no ELSE.
func When(cond, result Expr) *CaseExpr {
	return &CaseExpr{Whens: []WhenClause{{Condition: cond, Result: result}}}
}

// IsNullExpr represents IS [NOT] NULL.
type IsNullExpr struct {
	Expr Expr
	Not  bool
}

func (*IsNullExpr) node()     {}
func (*IsNullExpr) exprNode() {}

// ExprType implements Expr.
func (*IsNullExpr) ExprType() *Type { return Boolean }

// InExpr represents [NOT] IN with a value list or a subquery.
type InExpr struct {
	Expr   Expr
	Not    bool
	Values []Expr
	Query  QueryPart
}

func (*InExpr) node()     {}
func (*InExpr) exprNode() {}

// ExprType implements Expr.
func (*InExpr) ExprType() *Type { return Boolean }

// TupleExpr represents a row value constructor.
type TupleExpr struct {
	Items []Expr
}

func (*TupleExpr) node()     {}
func (*TupleExpr) exprNode() {}

// ExprType implements Expr.
func (*TupleExpr) ExprType() *Type { return nil }

// SubqueryExpr represents a scalar subquery.
type SubqueryExpr struct {
	Query QueryPart
	Type  *Type
}

func (*SubqueryExpr) node()     {}
func (*SubqueryExpr) exprNode() {}

// ExprType implements Expr.
func (s *SubqueryExpr) ExprType() *Type { return s.Type }

// ExistsExpr represents [NOT] EXISTS (subquery).
type ExistsExpr struct {
	Query QueryPart
	Not   bool
}

func (*ExistsExpr) node()     {}
func (*ExistsExpr) exprNode() {}

// ExprType implements Expr.
func (*ExistsExpr) ExprType() *Type { return Boolean }

// StarExpr represents * or table.*.
type StarExpr struct {
	Qualifier string
}

func (*StarExpr) node()     {}
func (*StarExpr) exprNode() {}

// ExprType implements Expr.
func (*StarExpr) ExprType() *Type { return nil }

// Unit is a temporal unit.
type Unit string

// Temporal units.
const (
	UnitYear   Unit = "year"
	UnitMonth  Unit = "month"
	UnitWeek   Unit = "week"
	UnitDay    Unit = "day"
	UnitHour   Unit = "hour"
	UnitMinute Unit = "minute"
	UnitSecond Unit = "second"
)

// TemporalUnit is a temporal unit used as a function argument, as in
// timestampadd(day, 1, ts).
type TemporalUnit struct {
	Unit Unit
}

func (*TemporalUnit) node()     {}
func (*TemporalUnit) exprNode() {}

// ExprType implements Expr.
func (*TemporalUnit) ExprType() *Type { return nil }

// DurationExpr is an interval of Magnitude units.
type DurationExpr struct {
	Magnitude Expr
	Unit      Unit
}

func (*DurationExpr) node()     {}
func (*DurationExpr) exprNode() {}

// ExprType implements Expr.
func (*DurationExpr) ExprType() *Type { return Duration }

// CastTarget is the target type argument of a cast.
type CastTarget struct {
	Type *Type
}

func (*CastTarget) node()     {}
func (*CastTarget) exprNode() {}

// ExprType implements Expr.
func (c *CastTarget) ExprType() *Type { return c.Type }

// TrimKind is the side a trim applies to.
type TrimKind int

// Trim kinds.
const (
	TrimBoth TrimKind = iota
	TrimLeading
	TrimTrailing
)

// String returns the SQL keyword of the trim kind.
func (k TrimKind) String() string {
	switch k {
	case TrimLeading:
		return "leading"
	case TrimTrailing:
		return "trailing"
	default:
		return "both"
	}
}

// TrimSpec is the LEADING/TRAILING/BOTH argument of trim.
type TrimSpec struct {
	Kind TrimKind
}

func (*TrimSpec) node()     {}
func (*TrimSpec) exprNode() {}

// ExprType implements Expr.
func (*TrimSpec) ExprType() *Type { return nil }

// Template is a SQL fragment with ?1..?n placeholders filled with Args.
// Emulations use it for dialect specific read expressions and row sources.
type Template struct {
	Text string
	Args []Expr
	Type *Type
}

func (*Template) node()     {}
func (*Template) exprNode() {}

// ExprType implements Expr.
func (t *Template) ExprType() *Type { return t.Type }
