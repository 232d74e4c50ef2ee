package core

import (
	"fmt"
	"strconv"
)

// ---------- Statement Types ----------

// SelectStatement is a complete query with its CTE container.
type SelectStatement struct {
	Ctes  *CteContainer
	Query QueryPart
}

func (*SelectStatement) node() {}

// NewSelectStatement creates a statement with an empty CTE container.
func NewSelectStatement(q QueryPart) *SelectStatement {
	return &SelectStatement{Ctes: NewCteContainer(), Query: q}
}

// SelectItem is one entry of a select list.
type SelectItem struct {
	Expr  Expr
	Alias string
}

// OrderByItem represents an ORDER BY item.
type OrderByItem struct {
	Expr       Expr
	Desc       bool
	NullsFirst *bool // nil = dialect default
}

// QuerySpec is a single SELECT ... FROM ... query block.
type QuerySpec struct {
	Distinct bool
	Select   []SelectItem
	From     []*TableGroup
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	OrderBy  []OrderByItem
	Offset   Expr
	Fetch    Expr
}

func (*QuerySpec) node()      {}
func (*QuerySpec) queryPart() {}

// AddWhere ANDs a predicate into the WHERE clause.
func (q *QuerySpec) AddWhere(pred Expr) {
	q.Where = And(q.Where, pred)
}

// FindGroup returns the table group with the given alias, searching joins.
func (q *QuerySpec) FindGroup(alias string) *TableGroup {
	for _, root := range q.From {
		if g := root.Find(alias); g != nil {
			return g
		}
	}
	return nil
}

// SetOp represents the type of set operation.
type SetOp string

// SetOp constants for set operations in queries.
const (
	SetOpUnion     SetOp = "union"
	SetOpUnionAll  SetOp = "union all"
	SetOpIntersect SetOp = "intersect"
	SetOpExcept    SetOp = "except"
)

// QueryGroup composes query parts with a set operator.
type QueryGroup struct {
	Op      SetOp
	Parts   []QueryPart
	OrderBy []OrderByItem
	Offset  Expr
	Fetch   Expr
}

func (*QueryGroup) node()      {}
func (*QueryGroup) queryPart() {}

// FirstSpec returns the left-most query spec of a query part.
func FirstSpec(q QueryPart) *QuerySpec {
	switch v := q.(type) {
	case *QuerySpec:
		return v
	case *QueryGroup:
		if len(v.Parts) > 0 {
			return FirstSpec(v.Parts[0])
		}
	}
	return nil
}

// ---------- Common Table Expressions ----------

// CteColumn is a declared CTE column.
type CteColumn struct {
	Name string
	Type *Type
}

// CteStatement is a named query of the WITH clause.
type CteStatement struct {
	Name      string
	Columns   []CteColumn
	Query     QueryPart
	Recursive bool

	// Source is the call that requested the CTE, nil for user CTEs.
	// Emulations use it to reuse an identical definition.
	Source *FuncCall
}

// CteContainer holds the CTEs of a statement in declaration order.
// Names are unique within a container.
type CteContainer struct {
	ctes   []*CteStatement
	byName map[string]*CteStatement
}

// NewCteContainer creates an empty container.
func NewCteContainer() *CteContainer {
	return &CteContainer{byName: make(map[string]*CteStatement)}
}

// DuplicateCteError is returned when a CTE name is registered twice.
type DuplicateCteError struct {
	Name string
}

func (e *DuplicateCteError) Error() string {
	return fmt.Sprintf("cte %q is already defined in this statement", e.Name)
}

// Add registers a CTE. Adding a name twice is an error.
func (c *CteContainer) Add(cte *CteStatement) error {
	if _, exists := c.byName[cte.Name]; exists {
		return &DuplicateCteError{Name: cte.Name}
	}
	c.ctes = append(c.ctes, cte)
	c.byName[cte.Name] = cte
	return nil
}

// AddIfAbsent registers a CTE unless one with the same name exists.
// It returns the registered CTE and whether it was added.
func (c *CteContainer) AddIfAbsent(cte *CteStatement) (*CteStatement, bool) {
	if existing, ok := c.byName[cte.Name]; ok {
		return existing, false
	}
	c.ctes = append(c.ctes, cte)
	c.byName[cte.Name] = cte
	return cte, true
}

// Get returns the CTE with the given name.
func (c *CteContainer) Get(name string) (*CteStatement, bool) {
	cte, ok := c.byName[name]
	return cte, ok
}

// All returns the CTEs in declaration order.
func (c *CteContainer) All() []*CteStatement {
	return c.ctes
}

// Len returns the number of CTEs.
func (c *CteContainer) Len() int {
	return len(c.ctes)
}

// HasRecursive reports whether any CTE is recursive.
func (c *CteContainer) HasRecursive() bool {
	for _, cte := range c.ctes {
		if cte.Recursive {
			return true
		}
	}
	return false
}

// UniqueName returns base, or base_N for the first N that is free.
func (c *CteContainer) UniqueName(base string) string {
	if _, taken := c.byName[base]; !taken {
		return base
	}
	for i := 1; ; i++ {
		name := base + "_" + strconv.Itoa(i)
		if _, taken := c.byName[name]; !taken {
			return name
		}
	}
}
