package function

import (
	"log/slog"

	"github.com/leapstack-labs/sqlfn/pkg/core"
)

// Appender is the SQL output sink.
type Appender interface {
	AppendSQL(s string)
}

// Translator is the SQL emitter as seen by a renderer. Render appends the
// rendering of a nested expression to the same sink the renderer writes to.
type Translator interface {
	Render(e core.Expr) error
	Dialect() *core.DialectConfig
	Functions() *Registry
	Clause() core.Clause
}

// QueryTransformer restructures the query that owns an emulated call. It
// runs once per owning query after conversion and before emission, and
// returns the query that takes the original's place (the same spec when
// it only mutates in place). It must preserve the select list the parent
// query reads.
type QueryTransformer func(ctes *core.CteContainer, spec *core.QuerySpec, c Converter) (*core.QuerySpec, error)

// Converter is the conversion pass as seen by a descriptor hook.
type Converter interface {
	Dialect() *core.DialectConfig
	Functions() *Registry
	Logger() *slog.Logger

	// Clause is the clause of the innermost query being converted.
	Clause() core.Clause
	// Query is the innermost query spec being converted, nil at statement level.
	Query() *core.QuerySpec
	// Statement is the statement being compiled.
	Statement() *core.SelectStatement

	// AddQueryTransformer registers a transformer against Query().
	AddQueryTransformer(t QueryTransformer)
	// AddQueryTransformerOnce registers a transformer against Query()
	// unless one with the same key is already registered there.
	AddQueryTransformerOnce(key string, t QueryTransformer) bool

	// NextAlias returns a table alias unique within the statement.
	NextAlias(prefix string) string
	// MaxSeriesSize bounds emulated series of unknown length.
	MaxSeriesSize() int
}

// Contributor registers a family of functions for a dialect.
type Contributor func(r *Registry, cfg *core.DialectConfig)
