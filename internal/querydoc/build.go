package querydoc

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
)

// Error locates a build failure in the document.
type Error struct {
	Path string
	Line int
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// ResolveDialect returns the dialect named by the document, or fallback
// when the document names none.
func (doc *Document) ResolveDialect(fallback string) (*dialect.Dialect, error) {
	name := doc.Dialect
	if name == "" {
		name = fallback
	}
	if name == "" {
		return nil, dialect.ErrDialectRequired
	}
	return dialect.Lookup(name)
}

// Build turns the document into a statement for d. Calls are resolved
// against the dialect's function registry, so argument errors surface here
// with the line of the offending node.
func (doc *Document) Build(d *dialect.Dialect) (*core.SelectStatement, error) {
	b := &builder{doc: doc, d: d}
	q, err := b.query(&doc.Query)
	if err != nil {
		var located *Error
		if errors.As(err, &located) {
			located.Path = doc.Path
			return nil, located
		}
		return nil, &Error{Path: doc.Path, Err: err}
	}
	return core.NewSelectStatement(q), nil
}

// scope is a table group visible to column references.
type scope struct {
	alias   string
	columns map[string]*core.ColumnRef
}

type builder struct {
	doc    *Document
	d      *dialect.Dialect
	scopes []*scope
}

func (b *builder) query(src *Query) (*core.QuerySpec, error) {
	q := &core.QuerySpec{Distinct: src.Distinct}

	for i := range src.From {
		g, err := b.group(&src.From[i])
		if err != nil {
			return nil, err
		}
		q.From = append(q.From, g)
	}

	for _, item := range src.Select {
		e, err := b.expr(&item.Expr)
		if err != nil {
			return nil, err
		}
		q.Select = append(q.Select, core.SelectItem{Expr: e, Alias: item.As})
	}

	var err error
	if q.Where, err = b.optional(&src.Where); err != nil {
		return nil, err
	}
	for i := range src.GroupBy {
		e, err := b.expr(&src.GroupBy[i])
		if err != nil {
			return nil, err
		}
		q.GroupBy = append(q.GroupBy, e)
	}
	if q.Having, err = b.optional(&src.Having); err != nil {
		return nil, err
	}
	if q.OrderBy, err = b.orderItems(src.OrderBy); err != nil {
		return nil, err
	}
	if q.Offset, err = b.optional(&src.Offset); err != nil {
		return nil, err
	}
	if q.Fetch, err = b.optional(&src.Fetch); err != nil {
		return nil, err
	}
	return q, nil
}

// group builds a table group and its joins. Each group enters the scope
// before its joins, so join conditions see every group declared so far.
func (b *builder) group(f *From) (*core.TableGroup, error) {
	g, err := b.source(f)
	if err != nil {
		return nil, err
	}
	for i := range f.Joins {
		j := &f.Joins[i]
		typ := core.JoinType(strings.ToLower(j.Type))
		if typ == "" {
			typ = core.JoinInner
		}
		switch typ {
		case core.JoinInner, core.JoinLeft, core.JoinRight, core.JoinFull, core.JoinCross:
		default:
			return nil, &Error{Line: j.line, Err: fmt.Errorf("unknown join type %q", j.Type)}
		}

		target, err := b.group(&j.From)
		if err != nil {
			return nil, err
		}
		pred, err := b.optional(&j.On)
		if err != nil {
			return nil, err
		}
		switch {
		case typ == core.JoinCross && pred != nil:
			return nil, &Error{Line: j.line, Err: errors.New("cross join takes no on condition")}
		case typ != core.JoinCross && pred == nil:
			return nil, &Error{Line: j.line, Err: fmt.Errorf("%s join requires an on condition", typ)}
		}
		g.Join(typ, target, pred)
	}
	return g, nil
}

func (b *builder) source(f *From) (*core.TableGroup, error) {
	switch {
	case f.Table != "" && f.Function != "":
		return nil, &Error{Line: f.line, Err: errors.New("table and function are exclusive")}
	case f.Table != "":
		return b.namedTable(f)
	case f.Function != "":
		return b.functionTable(f)
	}
	return nil, &Error{Line: f.line, Err: errors.New("from entry needs a table or a function")}
}

func (b *builder) namedTable(f *From) (*core.TableGroup, error) {
	decl, ok := b.doc.Tables[f.Table]
	if !ok {
		return nil, &Error{Line: f.line, Err: fmt.Errorf("table %q is not declared", f.Table)}
	}
	alias := f.As
	if alias == "" {
		alias = f.Table
	}

	sc := &scope{alias: alias, columns: make(map[string]*core.ColumnRef, len(decl))}
	for name, c := range decl {
		t, err := ParseType(c.Type)
		if err != nil {
			return nil, &Error{Line: f.line, Err: fmt.Errorf("column %s.%s: %w", f.Table, name, err)}
		}
		sc.columns[name] = &core.ColumnRef{Qualifier: alias, Column: name, Type: t, Nullable: c.Nullable, Identifier: c.ID}
	}
	if err := b.enter(sc, f.line); err != nil {
		return nil, err
	}

	schema, name := "", f.Table
	if i := strings.LastIndexByte(f.Table, '.'); i > 0 {
		schema, name = f.Table[:i], f.Table[i+1:]
	}
	return &core.TableGroup{Ref: &core.NamedTable{Schema: schema, Name: name}, Alias: alias}, nil
}

func (b *builder) functionTable(f *From) (*core.TableGroup, error) {
	args, err := b.exprs(f.Args)
	if err != nil {
		return nil, err
	}
	call, err := b.d.Functions().Call(f.Function, args)
	if err != nil {
		return nil, &Error{Line: f.line, Err: err}
	}
	if len(f.Columns) > 2 || (len(f.Columns) == 2 && !f.Ordinality) {
		return nil, &Error{Line: f.line, Err: fmt.Errorf("function %s produces %d columns", f.Function, expectedColumns(f))}
	}

	ft := &core.FunctionTable{Call: call, Columns: f.Columns, WithOrdinality: f.Ordinality}
	alias := f.As
	if alias == "" {
		alias = call.Name
	}

	value := ft.ValueColumn()
	sc := &scope{alias: alias, columns: map[string]*core.ColumnRef{
		value: {Qualifier: alias, Column: value, Type: call.Type},
	}}
	if f.Ordinality {
		ord := ft.OrdinalityColumn()
		sc.columns[ord] = &core.ColumnRef{Qualifier: alias, Column: ord, Type: core.Long}
	}
	if err := b.enter(sc, f.line); err != nil {
		return nil, err
	}
	return &core.TableGroup{Ref: ft, Alias: alias}, nil
}

func expectedColumns(f *From) int {
	if f.Ordinality {
		return 2
	}
	return 1
}

func (b *builder) enter(sc *scope, line int) error {
	for _, s := range b.scopes {
		if s.alias == sc.alias {
			return &Error{Line: line, Err: fmt.Errorf("duplicate table alias %q", sc.alias)}
		}
	}
	b.scopes = append(b.scopes, sc)
	return nil
}

// column resolves a qualified or bare column name against the scope.
func (b *builder) column(n *yaml.Node) (core.Expr, error) {
	name := n.Value
	if name == "*" {
		return &core.StarExpr{}, nil
	}
	if qual, col, ok := strings.Cut(name, "."); ok {
		for _, s := range b.scopes {
			if s.alias != qual {
				continue
			}
			if col == "*" {
				return &core.StarExpr{Qualifier: qual}, nil
			}
			if ref, ok := s.columns[col]; ok {
				c := *ref
				return &c, nil
			}
			return nil, &Error{Line: n.Line, Err: fmt.Errorf("table %s has no column %q", qual, col)}
		}
		return nil, &Error{Line: n.Line, Err: fmt.Errorf("unknown table alias %q", qual)}
	}

	var found *core.ColumnRef
	for _, s := range b.scopes {
		if ref, ok := s.columns[name]; ok {
			if found != nil {
				return nil, &Error{Line: n.Line, Err: fmt.Errorf("column %q is ambiguous", name)}
			}
			found = ref
		}
	}
	if found == nil {
		return nil, &Error{Line: n.Line, Err: fmt.Errorf("unknown column %q", name)}
	}
	c := *found
	return &c, nil
}

func (b *builder) optional(n *yaml.Node) (core.Expr, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	return b.expr(n)
}

func (b *builder) exprs(nodes []yaml.Node) ([]core.Expr, error) {
	out := make([]core.Expr, 0, len(nodes))
	for i := range nodes {
		e, err := b.expr(&nodes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (b *builder) orderItems(items []Order) ([]core.OrderByItem, error) {
	var out []core.OrderByItem
	for i := range items {
		e, err := b.expr(&items[i].Expr)
		if err != nil {
			return nil, err
		}
		out = append(out, core.OrderByItem{Expr: e, Desc: items[i].Desc, NullsFirst: items[i].NullsFirst})
	}
	return out, nil
}

// orderNodes decodes a sequence of order entries held as a raw node.
func (b *builder) orderNodes(n *yaml.Node) ([]core.OrderByItem, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, &Error{Line: n.Line, Err: errors.New("expected a list of order entries")}
	}
	items := make([]Order, len(n.Content))
	for i, c := range n.Content {
		if err := items[i].UnmarshalYAML(c); err != nil {
			return nil, &Error{Line: c.Line, Err: err}
		}
	}
	return b.orderItems(items)
}

// isQuoted reports whether a scalar was written as a quoted string.
func isQuoted(n *yaml.Node) bool {
	return n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0
}

func sortedKeys(m map[string]*yaml.Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
