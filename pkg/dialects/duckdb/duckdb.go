// Package duckdb provides the DuckDB SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package duckdb

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlfn/pkg/functions"
)

func init() {
	dialect.Register(DuckDB)
}

// Config is the DuckDB dialect configuration.
var Config = &core.DialectConfig{
	Name:          "duckdb",
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},

	LimitStyle:         core.LimitOffset,
	RecursiveKeyword:   true,
	DerivedColumnLists: true,
	RowValueComparison: true,
	LateralKeyword:     true,

	SupportsFilterClause: true,
	TupleCountDistinct:   core.TupleCountRow,
	// rank() within group is rejected, percentile_cont() within group is not
	HypotheticalSet:     core.AggregateWindowOnly,
	InverseDistribution: core.AggregateNative,

	TrimStyle: core.TrimFunctions,

	// generate_series has no ordinality, range() is exclusive
	SeriesStrategy: core.SeriesNativeNumeric,
	SeriesSource: core.SeriesSource{
		Pattern: "range(1,?1+1)",
		Column:  "range",
	},

	TypeNames: map[core.SQLTypeCode]string{
		core.CodeDouble: "double",
		core.CodeClob:   "varchar",
		core.CodeBinary: "blob",
	},
}

// DuckDB is the DuckDB dialect.
var DuckDB = dialect.New(Config).
	Functions(functions.Common, functions.TimestampAdd("(?3+(?2)*interval '1 ?1')")).
	WithReservedWords(ansi.ReservedWords...).
	WithReservedWords("limit", "qualify", "pivot", "unpivot", "returning").
	Build()
