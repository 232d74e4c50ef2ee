package core

// Equal reports whether two expressions are structurally identical.
// Parameters and subqueries compare by identity.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *ColumnRef:
		y, ok := b.(*ColumnRef)
		return ok && x.Qualifier == y.Qualifier && x.Column == y.Column
	case *Literal:
		y, ok := b.(*Literal)
		return ok && x.Kind == y.Kind && x.Value == y.Value
	case *BinaryExpr:
		y, ok := b.(*BinaryExpr)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *UnaryExpr:
		y, ok := b.(*UnaryExpr)
		return ok && x.Op == y.Op && Equal(x.Expr, y.Expr)
	case *FuncCall:
		y, ok := b.(*FuncCall)
		return ok && funcCallEqual(x, y)
	case *CaseExpr:
		y, ok := b.(*CaseExpr)
		if !ok || len(x.Whens) != len(y.Whens) || !Equal(x.Operand, y.Operand) || !Equal(x.Else, y.Else) {
			return false
		}
		for i := range x.Whens {
			if !Equal(x.Whens[i].Condition, y.Whens[i].Condition) || !Equal(x.Whens[i].Result, y.Whens[i].Result) {
				return false
			}
		}
		return true
	case *IsNullExpr:
		y, ok := b.(*IsNullExpr)
		return ok && x.Not == y.Not && Equal(x.Expr, y.Expr)
	case *InExpr:
		y, ok := b.(*InExpr)
		return ok && x.Not == y.Not && x.Query == y.Query && Equal(x.Expr, y.Expr) && EqualAll(x.Values, y.Values)
	case *TupleExpr:
		y, ok := b.(*TupleExpr)
		return ok && EqualAll(x.Items, y.Items)
	case *StarExpr:
		y, ok := b.(*StarExpr)
		return ok && x.Qualifier == y.Qualifier
	case *TemporalUnit:
		y, ok := b.(*TemporalUnit)
		return ok && x.Unit == y.Unit
	case *DurationExpr:
		y, ok := b.(*DurationExpr)
		return ok && x.Unit == y.Unit && Equal(x.Magnitude, y.Magnitude)
	case *CastTarget:
		y, ok := b.(*CastTarget)
		return ok && x.Type.String() == y.Type.String()
	case *TrimSpec:
		y, ok := b.(*TrimSpec)
		return ok && x.Kind == y.Kind
	case *Template:
		y, ok := b.(*Template)
		return ok && x.Text == y.Text && EqualAll(x.Args, y.Args)
	}
	return a == b
}

// EqualAll reports whether two expression lists are pairwise Equal.
func EqualAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func funcCallEqual(x, y *FuncCall) bool {
	if x.Name != y.Name || x.Distinct != y.Distinct || x.Star != y.Star ||
		!EqualAll(x.Args, y.Args) || !Equal(x.Filter, y.Filter) ||
		!orderEqual(x.WithinGroup, y.WithinGroup) {
		return false
	}
	if (x.Window == nil) != (y.Window == nil) {
		return false
	}
	if x.Window != nil {
		return x.Window.Frame == y.Window.Frame &&
			EqualAll(x.Window.PartitionBy, y.Window.PartitionBy) &&
			orderEqual(x.Window.OrderBy, y.Window.OrderBy)
	}
	return true
}

func orderEqual(a, b []OrderByItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Desc != b[i].Desc || !Equal(a[i].Expr, b[i].Expr) {
			return false
		}
		if (a[i].NullsFirst == nil) != (b[i].NullsFirst == nil) {
			return false
		}
		if a[i].NullsFirst != nil && *a[i].NullsFirst != *b[i].NullsFirst {
			return false
		}
	}
	return true
}
