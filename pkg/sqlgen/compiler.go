// Package sqlgen compiles select statements into dialect SQL.
//
// Compilation has three passes over a statement the caller hands over:
// conversion (descriptor hooks rewrite calls and table functions and may
// register query transformers), transformation (each owning query runs its
// transformers once, innermost queries first) and emission (the printer
// renders SQL and collects bind values).
//
// A statement is mutated in place and must not be compiled twice.
package sqlgen

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
)

// Result is the output of a compilation.
type Result struct {
	SQL    string
	Params []any
}

// Compiler renders statements for one dialect. It is safe for concurrent
// use; each Compile call owns its statement.
type Compiler struct {
	dialect       *dialect.Dialect
	logger        *slog.Logger
	maxSeriesSize int
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for emulation decisions.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxSeriesSize overrides the dialect bound for emulated series of
// unknown length.
func WithMaxSeriesSize(n int) Option {
	return func(c *Compiler) {
		c.maxSeriesSize = n
	}
}

// New creates a compiler for a dialect.
func New(d *dialect.Dialect, opts ...Option) *Compiler {
	c := &Compiler{
		dialect: d,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialect returns the target dialect.
func (c *Compiler) Dialect() *dialect.Dialect {
	return c.dialect
}

// Compile converts, transforms and renders a statement.
func (c *Compiler) Compile(stmt *core.SelectStatement) (*Result, error) {
	if c.dialect == nil {
		return nil, dialect.ErrDialectRequired
	}
	if stmt.Ctes == nil {
		stmt.Ctes = core.NewCteContainer()
	}

	conv := newConversion(c, stmt)
	if err := conv.run(); err != nil {
		return nil, fmt.Errorf("failed to convert statement: %w", err)
	}
	if err := conv.transform(); err != nil {
		return nil, fmt.Errorf("failed to transform statement: %w", err)
	}

	p := newPrinter(c.dialect)
	p.statement(stmt)
	if p.err != nil {
		return nil, fmt.Errorf("failed to render statement: %w", p.err)
	}
	c.logger.Debug("compiled statement",
		slog.String("dialect", c.dialect.Name()),
		slog.Int("params", len(p.params)),
		slog.Int("ctes", stmt.Ctes.Len()))
	return &Result{SQL: p.String(), Params: p.params}, nil
}

// RenderExpr renders a single expression outside of any query, which is
// mostly useful for tests and diagnostics.
func (c *Compiler) RenderExpr(e core.Expr) (*Result, error) {
	p := newPrinter(c.dialect)
	if err := p.Render(e); err != nil {
		return nil, err
	}
	return &Result{SQL: p.String(), Params: p.params}, nil
}
