package core

// JoinType is the join type of a TableGroupJoin.
type JoinType string

// Standard ANSI SQL join type values.
const (
	JoinInner JoinType = "inner"
	JoinLeft  JoinType = "left"
	JoinRight JoinType = "right"
	JoinFull  JoinType = "full"
	JoinCross JoinType = "cross"
)

// NullExtendsRight reports whether rows of the joined group may be
// null-extended by this join.
func (j JoinType) NullExtendsRight() bool {
	return j == JoinLeft || j == JoinFull
}

// NullExtendsLeft reports whether rows on the left of the join may be
// null-extended by this join.
func (j JoinType) NullExtendsLeft() bool {
	return j == JoinRight || j == JoinFull
}

// TableGroupJoin joins a table group to its parent group.
type TableGroupJoin struct {
	Type      JoinType
	Group     *TableGroup
	Predicate Expr // nil for CROSS
}

// AddPredicate ANDs a predicate into the join condition. A CROSS join
// becomes an INNER join.
func (j *TableGroupJoin) AddPredicate(pred Expr) {
	if j.Type == JoinCross {
		j.Type = JoinInner
	}
	j.Predicate = And(j.Predicate, pred)
}
