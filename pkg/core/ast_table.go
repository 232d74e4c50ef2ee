package core

// ---------- FROM Graph ----------

// TableGroup is a node of the FROM graph: a table reference with its alias
// and the groups joined to it.
type TableGroup struct {
	Ref   TableRef
	Alias string
	Joins []*TableGroupJoin

	// Read maps a column name of the group to the expression that
	// computes it. Column references to the group render through it.
	Read map[string]Expr
}

func (*TableGroup) node() {}

// Join appends a join to the group and returns the joined group.
func (g *TableGroup) Join(typ JoinType, target *TableGroup, pred Expr) *TableGroup {
	g.Joins = append(g.Joins, &TableGroupJoin{Type: typ, Group: target, Predicate: pred})
	return target
}

// SetRead registers the read expression of a column.
func (g *TableGroup) SetRead(column string, e Expr) {
	if g.Read == nil {
		g.Read = make(map[string]Expr)
	}
	g.Read[column] = e
}

// Find returns the group with the given alias in this subtree.
func (g *TableGroup) Find(alias string) *TableGroup {
	if g.Alias == alias {
		return g
	}
	for _, j := range g.Joins {
		if found := j.Group.Find(alias); found != nil {
			return found
		}
	}
	return nil
}

// Contains reports whether target is this group or nested under it.
func (g *TableGroup) Contains(target *TableGroup) bool {
	if g == target {
		return true
	}
	for _, j := range g.Joins {
		if j.Group.Contains(target) {
			return true
		}
	}
	return false
}

// OwningJoin returns the join whose target is the given group, searching
// the subtree rooted at g.
func (g *TableGroup) OwningJoin(target *TableGroup) *TableGroupJoin {
	for _, j := range g.Joins {
		if j.Group == target {
			return j
		}
		if found := j.Group.OwningJoin(target); found != nil {
			return found
		}
	}
	return nil
}

// ---------- Table Reference Types ----------

// NamedTable represents a table name reference.
type NamedTable struct {
	Schema string
	Name   string
}

func (*NamedTable) node()         {}
func (*NamedTable) tableRefNode() {}

// DerivedTable represents a subquery in FROM clause.
type DerivedTable struct {
	Query   QueryPart
	Columns []string // optional derived column list
	Lateral bool
}

func (*DerivedTable) node()         {}
func (*DerivedTable) tableRefNode() {}

// CteRef references a CTE of the statement by name.
type CteRef struct {
	Name string
}

func (*CteRef) node()         {}
func (*CteRef) tableRefNode() {}

// FunctionTable is a set-returning function call used as a table source.
type FunctionTable struct {
	Call           *FuncCall
	Columns        []string // value column, then ordinality column when requested
	WithOrdinality bool
}

func (*FunctionTable) node()         {}
func (*FunctionTable) tableRefNode() {}

// ValueColumn returns the name of the value column.
func (f *FunctionTable) ValueColumn() string {
	if len(f.Columns) > 0 {
		return f.Columns[0]
	}
	return "value"
}

// OrdinalityColumn returns the name of the ordinality column.
func (f *FunctionTable) OrdinalityColumn() string {
	if len(f.Columns) > 1 {
		return f.Columns[1]
	}
	return "ordinality"
}

// ValuesTable is a literal row list used as a table source.
type ValuesTable struct {
	Rows    [][]Expr
	Columns []string
}

func (*ValuesTable) node()         {}
func (*ValuesTable) tableRefNode() {}

// SourceTable is a dialect row source expression used as a table, such as
// system_range(1, 10). Columns names the columns it produces.
type SourceTable struct {
	Source  Expr
	Columns []string
}

func (*SourceTable) node()         {}
func (*SourceTable) tableRefNode() {}
