// Package ansi provides the base ANSI SQL dialect.
//
// It renders every function family in its standard form and serves as the
// reference the other dialects are compared against in tests.
package ansi

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/functions"
)

func init() {
	dialect.Register(ANSI)
}

// Config is the ANSI dialect configuration.
var Config = &core.DialectConfig{
	Name:        "ansi",
	Placeholder: core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase,
	},

	LimitStyle:         core.OffsetFetch,
	RecursiveKeyword:   true,
	DerivedColumnLists: true,
	RowValueComparison: true,
	LateralKeyword:     true,

	SupportsFilterClause: true,
	TupleCountDistinct:   core.TupleCountRow,

	SeriesStrategy: core.SeriesRecursiveCTE,
}

// ANSI is the base ANSI SQL dialect.
var ANSI = dialect.New(Config).
	Functions(functions.Common).
	WithReservedWords(ReservedWords...).
	Build()

// ReservedWords are the SQL:2016 reserved words most likely to collide
// with column names. Other dialects extend this list.
var ReservedWords = []string{
	"all", "and", "any", "as", "asc", "between", "by", "case", "cast", "check",
	"column", "constraint", "create", "cross", "current", "date", "default",
	"desc", "distinct", "else", "end", "except", "exists", "false", "fetch",
	"for", "foreign", "from", "full", "group", "having", "in", "inner",
	"intersect", "interval", "into", "is", "join", "lateral", "left", "like",
	"not", "null", "of", "offset", "on", "or", "order", "outer", "primary",
	"references", "right", "rows", "select", "table", "then", "time",
	"timestamp", "to", "true", "union", "unique", "user", "using", "value",
	"values", "when", "where", "window", "with", "year",
}
