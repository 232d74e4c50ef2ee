// Package postgres provides the PostgreSQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlfn/pkg/functions"
)

func init() {
	dialect.Register(Postgres)
}

// Config is the PostgreSQL dialect configuration.
var Config = &core.DialectConfig{
	Name:          "postgres",
	DefaultSchema: "public",
	Placeholder:   core.PlaceholderDollar,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormLowercase, // Postgres normalizes unquoted to lowercase
	},

	LimitStyle:         core.LimitOffset,
	RecursiveKeyword:   true,
	DerivedColumnLists: true,
	RowValueComparison: true,
	LateralKeyword:     true,

	SupportsFilterClause: true,
	TupleCountDistinct:   core.TupleCountRow,

	SeriesStrategy: core.SeriesNative,

	TypeNames: map[core.SQLTypeCode]string{
		core.CodeClob:  "text",
		core.CodeBlob:  "bytea",
		core.CodeFloat: "real",
	},
}

// Postgres is the PostgreSQL dialect.
var Postgres = dialect.New(Config).
	Functions(functions.Common, functions.TimestampAdd("(?3+(?2)*interval '1 ?1')")).
	WithReservedWords(ansi.ReservedWords...).
	WithReservedWords("analyse", "analyze", "limit", "returning", "variadic").
	Build()
