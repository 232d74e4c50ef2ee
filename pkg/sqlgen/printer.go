package sqlgen

import (
	"bytes"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

// Printer renders a converted statement as single-line SQL and collects
// bind values in placeholder order. It implements function.Translator.
type Printer struct {
	dialect *dialect.Dialect
	output  *bytes.Buffer
	params  []any
	err     error

	clause    core.Clause
	calls     int                           // depth of function and template rendering
	scopes    []*core.QuerySpec             // queries being rendered, innermost last
	resolving map[*core.TableGroup]struct{} // groups whose read expression is being rendered
	patterns  map[string]*function.Pattern
}

var _ function.Translator = (*Printer)(nil)

func newPrinter(d *dialect.Dialect) *Printer {
	return &Printer{
		dialect:   d,
		output:    &bytes.Buffer{},
		resolving: make(map[*core.TableGroup]struct{}),
		patterns:  make(map[string]*function.Pattern),
	}
}

// String returns the rendered output.
func (p *Printer) String() string {
	return p.output.String()
}

// AppendSQL implements function.Appender.
func (p *Printer) AppendSQL(s string) {
	p.output.WriteString(s)
}

// Render implements function.Translator. Inside a function rendering,
// operator expressions are parenthesized so templates can combine their
// arguments freely.
func (p *Printer) Render(e core.Expr) error {
	if p.calls > 0 && p.bindingOf(e) < precAtom {
		p.write("(")
		p.expr(e)
		p.write(")")
		return p.err
	}
	p.expr(e)
	return p.err
}

// Dialect implements function.Translator.
func (p *Printer) Dialect() *core.DialectConfig {
	return p.dialect.Config()
}

// Functions implements function.Translator.
func (p *Printer) Functions() *function.Registry {
	return p.dialect.Functions()
}

// Clause implements function.Translator.
func (p *Printer) Clause() core.Clause {
	return p.clause
}

func (p *Printer) write(s string) {
	p.output.WriteString(s)
}

func (p *Printer) space() {
	p.output.WriteByte(' ')
}

func (p *Printer) fail(err error) {
	if p.err == nil && err != nil {
		p.err = err
	}
}

func (p *Printer) ident(name string) {
	p.write(p.dialect.QuoteIdentifierIfNeeded(name))
}

func (p *Printer) param(v any) {
	p.params = append(p.params, v)
	p.write(p.dialect.FormatPlaceholder(len(p.params)))
}

// formatList prints count items separated by sep.
func (p *Printer) formatList(count int, format func(i int), sep string) {
	for i := 0; i < count; i++ {
		if i > 0 {
			p.write(sep)
		}
		format(i)
	}
}

func (p *Printer) pattern(tpl string) *function.Pattern {
	if pt, ok := p.patterns[tpl]; ok {
		return pt
	}
	pt, err := function.ParsePattern(tpl)
	if err != nil {
		p.fail(err)
		return nil
	}
	p.patterns[tpl] = pt
	return pt
}

// findGroup resolves a qualifier against the queries in scope, innermost
// first.
func (p *Printer) findGroup(alias string) *core.TableGroup {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if g := p.scopes[i].FindGroup(alias); g != nil {
			return g
		}
	}
	return nil
}
