package sqlgen

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
)

func (p *Printer) statement(stmt *core.SelectStatement) {
	if stmt == nil {
		return
	}
	if stmt.Ctes != nil && stmt.Ctes.Len() > 0 {
		p.formatWithClause(stmt.Ctes)
		p.space()
	}
	p.queryPart(stmt.Query)
}

func (p *Printer) formatWithClause(ctes *core.CteContainer) {
	p.write("with ")
	if ctes.HasRecursive() && p.Dialect().RecursiveKeyword {
		p.write("recursive ")
	}
	all := ctes.All()
	p.formatList(len(all), func(i int) {
		cte := all[i]
		p.ident(cte.Name)
		if len(cte.Columns) > 0 {
			p.write("(")
			p.formatList(len(cte.Columns), func(j int) { p.ident(cte.Columns[j].Name) }, ",")
			p.write(")")
		}
		p.write(" as (")
		p.withScopes(nil, func() {
			saved := p.clause
			p.clause = core.ClauseCte
			p.queryPart(cte.Query)
			p.clause = saved
		})
		p.write(")")
	}, ",")
}

// withScopes renders fn with the given scope stack, restoring the current
// one afterwards. CTE bodies do not see the query they are referenced from.
func (p *Printer) withScopes(scopes []*core.QuerySpec, fn func()) {
	saved := p.scopes
	p.scopes = scopes
	fn()
	p.scopes = saved
}

func (p *Printer) queryPart(q core.QueryPart) {
	if p.err != nil {
		return
	}
	switch v := q.(type) {
	case *core.QuerySpec:
		p.formatQuerySpec(v)
	case *core.QueryGroup:
		p.formatQueryGroup(v)
	}
}

func (p *Printer) formatQueryGroup(g *core.QueryGroup) {
	p.formatList(len(g.Parts), func(i int) {
		if inner, ok := g.Parts[i].(*core.QueryGroup); ok {
			p.write("(")
			p.formatQueryGroup(inner)
			p.write(")")
			return
		}
		p.queryPart(g.Parts[i])
	}, " "+string(g.Op)+" ")

	if len(g.OrderBy) > 0 {
		p.write(" order by ")
		p.formatOrderByList(g.OrderBy)
	}
	p.formatLimit(g.Offset, g.Fetch, len(g.OrderBy) > 0)
}

func (p *Printer) formatQuerySpec(spec *core.QuerySpec) {
	p.scopes = append(p.scopes, spec)
	defer func() { p.scopes = p.scopes[:len(p.scopes)-1] }()
	saved := p.clause
	defer func() { p.clause = saved }()

	p.clause = core.ClauseSelect
	p.write("select ")
	if spec.Distinct {
		p.write("distinct ")
	}
	p.formatList(len(spec.Select), func(i int) { p.formatSelectItem(spec.Select[i]) }, ",")

	p.clause = core.ClauseFrom
	if len(spec.From) > 0 {
		p.write(" from ")
		p.formatList(len(spec.From), func(i int) { p.formatTableGroup(spec.From[i]) }, ",")
	} else if dual := p.Dialect().DualTable; dual != "" {
		p.write(" from ")
		p.write(dual)
	}

	if spec.Where != nil {
		p.clause = core.ClauseWhere
		p.write(" where ")
		p.expr(spec.Where)
	}

	if len(spec.GroupBy) > 0 {
		p.clause = core.ClauseGroupBy
		p.write(" group by ")
		p.formatList(len(spec.GroupBy), func(i int) { p.expr(spec.GroupBy[i]) }, ",")
	}

	if spec.Having != nil {
		p.clause = core.ClauseHaving
		p.write(" having ")
		p.expr(spec.Having)
	}

	if len(spec.OrderBy) > 0 {
		p.clause = core.ClauseOrderBy
		p.write(" order by ")
		p.formatOrderByList(spec.OrderBy)
	}

	p.clause = core.ClauseOffset
	p.formatLimit(spec.Offset, spec.Fetch, len(spec.OrderBy) > 0)
}

// formatSelectItem renders expr [alias]. A column computed by a read
// expression keeps its name.
func (p *Printer) formatSelectItem(item core.SelectItem) {
	p.expr(item.Expr)
	alias := item.Alias
	if col, ok := item.Expr.(*core.ColumnRef); ok {
		switch {
		case p.hasRead(col) && alias == "":
			alias = col.Column
		case !p.hasRead(col) && col.Column == alias:
			alias = ""
		}
	}
	if alias == "" {
		return
	}
	p.space()
	p.ident(alias)
}

func (p *Printer) hasRead(col *core.ColumnRef) bool {
	if col.Qualifier == "" {
		return false
	}
	g := p.findGroup(col.Qualifier)
	if g == nil {
		return false
	}
	_, ok := g.Read[col.Column]
	return ok
}

func (p *Printer) formatLimit(offset, fetch core.Expr, ordered bool) {
	if offset == nil && fetch == nil {
		return
	}
	cfg := p.Dialect()

	if cfg.LimitStyle == core.OffsetFetch {
		if cfg.OffsetFetchNeedsOrderBy {
			if !ordered {
				p.write(" order by (select null)")
			}
			if offset == nil {
				offset = core.Int(0)
			}
		}
		if offset != nil {
			p.write(" offset ")
			p.expr(offset)
			p.write(" rows")
		}
		if fetch != nil {
			p.write(" fetch first ")
			p.expr(fetch)
			p.write(" rows only")
		}
		return
	}

	if fetch != nil {
		p.write(" limit ")
		p.expr(fetch)
	} else if cfg.UnboundedLimit != "" {
		p.write(" limit ")
		p.write(cfg.UnboundedLimit)
	}
	if offset != nil {
		p.write(" offset ")
		p.expr(offset)
	}
}

// ---------- FROM ----------

func (p *Printer) formatTableGroup(g *core.TableGroup) {
	p.formatTableRef(g)
	for _, j := range g.Joins {
		p.formatJoin(j)
	}
}

func (p *Printer) formatJoin(j *core.TableGroupJoin) {
	typ := j.Type
	if typ == core.JoinInner && j.Predicate == nil {
		typ = core.JoinCross
	}
	switch typ {
	case core.JoinInner:
		p.write(" join ")
	default:
		p.space()
		p.write(string(typ))
		p.write(" join ")
	}
	p.formatTableRef(j.Group)
	if typ != core.JoinCross {
		p.write(" on ")
		p.expr(j.Predicate)
	}
	for _, nested := range j.Group.Joins {
		p.formatJoin(nested)
	}
}

func (p *Printer) formatTableRef(g *core.TableGroup) {
	cfg := p.Dialect()
	switch ref := g.Ref.(type) {
	case *core.NamedTable:
		if ref.Schema != "" {
			p.ident(ref.Schema)
			p.write(".")
		}
		p.ident(ref.Name)
		if g.Alias != "" && g.Alias != ref.Name {
			p.space()
			p.ident(g.Alias)
		}
		return

	case *core.CteRef:
		p.ident(ref.Name)
		if g.Alias != "" && g.Alias != ref.Name {
			p.space()
			p.ident(g.Alias)
		}
		return

	case *core.DerivedTable:
		if ref.Lateral && cfg.LateralKeyword {
			p.write("lateral ")
		}
		p.write("(")
		p.queryPart(ref.Query)
		p.write(")")
		p.alias(g.Alias, ref.Columns, cfg.DerivedColumnLists)

	case *core.FunctionTable:
		p.expr(ref.Call)
		if ref.WithOrdinality {
			p.write(" with ordinality")
		}
		p.alias(g.Alias, ref.Columns, true)

	case *core.ValuesTable:
		p.formatValuesTable(g, ref)

	case *core.SourceTable:
		p.expr(ref.Source)
		p.alias(g.Alias, nil, false)
	}
}

func (p *Printer) alias(alias string, columns []string, withColumns bool) {
	if alias == "" {
		return
	}
	p.space()
	p.ident(alias)
	if withColumns && len(columns) > 0 {
		p.write("(")
		p.formatList(len(columns), func(i int) { p.ident(columns[i]) }, ",")
		p.write(")")
	}
}

// formatValuesTable renders a VALUES list, or a union of one-row selects
// when the dialect cannot name the columns of a derived table.
func (p *Printer) formatValuesTable(g *core.TableGroup, v *core.ValuesTable) {
	cfg := p.Dialect()
	if cfg.DerivedColumnLists {
		p.write("(values ")
		p.formatList(len(v.Rows), func(i int) {
			p.write("(")
			p.formatList(len(v.Rows[i]), func(j int) { p.expr(v.Rows[i][j]) }, ",")
			p.write(")")
		}, ",")
		p.write(")")
		p.alias(g.Alias, v.Columns, true)
		return
	}

	p.write("(")
	p.formatList(len(v.Rows), func(i int) {
		p.write("select ")
		p.formatList(len(v.Rows[i]), func(j int) {
			p.expr(v.Rows[i][j])
			if j < len(v.Columns) {
				p.space()
				p.ident(v.Columns[j])
			}
		}, ",")
		if cfg.DualTable != "" {
			p.write(" from ")
			p.write(cfg.DualTable)
		}
	}, " union all ")
	p.write(")")
	p.alias(g.Alias, nil, false)
}
