// Package dialect provides SQL dialect definitions: the static capability
// profile of a target database joined with its function registry.
//
// Concrete dialects are registered from pkg/dialects/*/ packages.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	config    *core.DialectConfig
	functions *function.Registry

	// All keywords that need quoting as identifiers
	reservedWords map[string]struct{}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return d.config.Name
}

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	return d.config
}

// Functions returns the function registry of the dialect.
func (d *Dialect) Functions() *function.Registry {
	return d.functions
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.config.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.config.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	case core.PlaceholderAtP:
		return "@p" + strconv.Itoa(index)
	case core.PlaceholderColon:
		return ":" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// IsReservedWord returns true if the word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.reservedWords[strings.ToLower(word)]
	return ok
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	ids := d.config.Identifiers
	// Escape any existing quote end characters in the name (e.g., ] -> ]])
	escaped := strings.ReplaceAll(name, ids.QuoteEnd, ids.Escape)
	return ids.Quote + escaped + ids.QuoteEnd
}

// QuoteIdentifierIfNeeded quotes an identifier only if it's a reserved word.
func (d *Dialect) QuoteIdentifierIfNeeded(name string) string {
	if d.IsReservedWord(name) {
		return d.QuoteIdentifier(name)
	}
	return name
}

// TypeName returns the SQL spelling of a type, including its length or
// precision.
func (d *Dialect) TypeName(t *core.Type) string {
	name := d.config.TypeName(t.Code)
	if strings.Contains(name, "(") {
		return name
	}
	switch {
	case t.Length > 0:
		return name + "(" + strconv.Itoa(t.Length) + ")"
	case t.Precision > 0:
		return name + "(" + strconv.Itoa(t.Precision) + "," + strconv.Itoa(t.Scale) + ")"
	}
	return name
}

// ---------- Builder ----------

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect      *Dialect
	contributors []function.Contributor
}

// New creates a dialect builder from a DialectConfig.
// Build() runs the function contributors against a fresh registry.
func New(cfg *core.DialectConfig) *Builder {
	return &Builder{
		dialect: &Dialect{
			config:        cfg,
			reservedWords: make(map[string]struct{}),
		},
	}
}

// Functions adds function contributors. They run in order, so a later
// contributor overrides the registrations of an earlier one.
func (b *Builder) Functions(contributors ...function.Contributor) *Builder {
	b.contributors = append(b.contributors, contributors...)
	return b
}

// WithReservedWords registers words that need quoting when used as identifiers.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	for _, w := range words {
		b.dialect.reservedWords[strings.ToLower(w)] = struct{}{}
	}
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	reg := function.NewRegistry(b.dialect.config)
	for _, c := range b.contributors {
		c(reg, b.dialect.config)
	}
	b.dialect.functions = reg
	return b.dialect
}
