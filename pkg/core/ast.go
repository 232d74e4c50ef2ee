package core

// Node is the base interface for all AST nodes.
type Node interface {
	node()
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode() // Marker method to distinguish expressions

	// ExprType returns the resolved type of the expression, or nil when
	// it is not known (untyped parameters, NULL).
	ExprType() *Type
}

// QueryPart is a query that produces rows: a QuerySpec or a QueryGroup.
type QueryPart interface {
	Node
	queryPart()
}

// TableRef is a marker interface for the source of a TableGroup.
type TableRef interface {
	Node
	tableRefNode()
}

// Callable is the function descriptor attached to a call node.
// It is implemented by function.Descriptor; core never calls into it.
type Callable interface {
	FunctionName() string
}

// TypeOf returns the type of an expression, tolerating nil.
func TypeOf(e Expr) *Type {
	if e == nil {
		return nil
	}
	return e.ExprType()
}

// Clause identifies the clause of a query an expression belongs to.
type Clause int

// Clauses, in logical evaluation order.
const (
	ClauseNone Clause = iota
	ClauseFrom
	ClauseWhere
	ClauseGroupBy
	ClauseHaving
	ClauseSelect
	ClauseOrderBy
	ClauseOffset
	ClauseOver
	ClauseCte
)

// String returns the SQL keyword of the clause.
func (c Clause) String() string {
	switch c {
	case ClauseFrom:
		return "from"
	case ClauseWhere:
		return "where"
	case ClauseGroupBy:
		return "group by"
	case ClauseHaving:
		return "having"
	case ClauseSelect:
		return "select"
	case ClauseOrderBy:
		return "order by"
	case ClauseOffset:
		return "offset/fetch"
	case ClauseOver:
		return "over"
	case ClauseCte:
		return "with"
	default:
		return "none"
	}
}
