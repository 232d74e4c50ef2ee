package core

// Children returns the direct child expressions of e. Subqueries are not
// descended into.
func Children(e Expr) []Expr {
	switch v := e.(type) {
	case *BinaryExpr:
		return []Expr{v.Left, v.Right}
	case *UnaryExpr:
		return []Expr{v.Expr}
	case *FuncCall:
		out := append([]Expr(nil), v.Args...)
		if v.Filter != nil {
			out = append(out, v.Filter)
		}
		for _, o := range v.WithinGroup {
			out = append(out, o.Expr)
		}
		if v.Window != nil {
			out = append(out, v.Window.PartitionBy...)
			for _, o := range v.Window.OrderBy {
				out = append(out, o.Expr)
			}
		}
		return out
	case *CaseExpr:
		var out []Expr
		if v.Operand != nil {
			out = append(out, v.Operand)
		}
		for _, w := range v.Whens {
			out = append(out, w.Condition, w.Result)
		}
		if v.Else != nil {
			out = append(out, v.Else)
		}
		return out
	case *IsNullExpr:
		return []Expr{v.Expr}
	case *InExpr:
		return append([]Expr{v.Expr}, v.Values...)
	case *TupleExpr:
		return v.Items
	case *DurationExpr:
		return []Expr{v.Magnitude}
	case *Template:
		return v.Args
	}
	return nil
}

// Walk calls fn for e and its descendants in pre-order. Returning false
// from fn skips the children of that node.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range Children(e) {
		Walk(c, fn)
	}
}

// Any reports whether pred holds for e or any descendant.
func Any(e Expr, pred func(Expr) bool) bool {
	found := false
	Walk(e, func(n Expr) bool {
		if found {
			return false
		}
		if pred(n) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Rewrite rebuilds e bottom-up through fn. fn is called first on each
// node; when it returns (replacement, true) the replacement is used and
// the node's children are not visited. Composite nodes are copied, so the
// input tree is left untouched.
func Rewrite(e Expr, fn func(Expr) (Expr, bool)) Expr {
	if e == nil {
		return nil
	}
	if r, done := fn(e); done {
		return r
	}
	rw := func(x Expr) Expr { return Rewrite(x, fn) }
	switch v := e.(type) {
	case *BinaryExpr:
		c := *v
		c.Left, c.Right = rw(v.Left), rw(v.Right)
		return &c
	case *UnaryExpr:
		c := *v
		c.Expr = rw(v.Expr)
		return &c
	case *FuncCall:
		c := v.Clone()
		for i, a := range c.Args {
			c.Args[i] = rw(a)
		}
		c.Filter = rw(v.Filter)
		for i := range c.WithinGroup {
			c.WithinGroup[i].Expr = rw(c.WithinGroup[i].Expr)
		}
		if c.Window != nil {
			c.Window.PartitionBy = rewriteAll(v.Window.PartitionBy, fn)
			c.Window.OrderBy = append([]OrderByItem(nil), v.Window.OrderBy...)
			for i := range c.Window.OrderBy {
				c.Window.OrderBy[i].Expr = rw(c.Window.OrderBy[i].Expr)
			}
		}
		return c
	case *CaseExpr:
		c := *v
		c.Operand = rw(v.Operand)
		c.Whens = make([]WhenClause, len(v.Whens))
		for i, w := range v.Whens {
			c.Whens[i] = WhenClause{Condition: rw(w.Condition), Result: rw(w.Result)}
		}
		c.Else = rw(v.Else)
		return &c
	case *IsNullExpr:
		c := *v
		c.Expr = rw(v.Expr)
		return &c
	case *InExpr:
		c := *v
		c.Expr = rw(v.Expr)
		c.Values = rewriteAll(v.Values, fn)
		return &c
	case *TupleExpr:
		return &TupleExpr{Items: rewriteAll(v.Items, fn)}
	case *DurationExpr:
		c := *v
		c.Magnitude = rw(v.Magnitude)
		return &c
	case *Template:
		c := *v
		c.Args = rewriteAll(v.Args, fn)
		return &c
	}
	return e
}

func rewriteAll(in []Expr, fn func(Expr) (Expr, bool)) []Expr {
	if in == nil {
		return nil
	}
	out := make([]Expr, len(in))
	for i, e := range in {
		out[i] = Rewrite(e, fn)
	}
	return out
}

// ReferencesColumns reports whether e contains a column reference.
func ReferencesColumns(e Expr) bool {
	return Any(e, func(n Expr) bool {
		switch n.(type) {
		case *ColumnRef, *StarExpr, *SubqueryExpr, *ExistsExpr:
			return true
		}
		if in, ok := n.(*InExpr); ok && in.Query != nil {
			return true
		}
		return false
	})
}
