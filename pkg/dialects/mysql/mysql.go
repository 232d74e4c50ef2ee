// Package mysql provides the MySQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package mysql

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlfn/pkg/functions"
)

func init() {
	dialect.Register(MySQL)
}

// Config is the MySQL dialect configuration.
var Config = &core.DialectConfig{
	Name:        "mysql",
	Placeholder: core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: core.NormCaseSensitive,
	},

	LimitStyle:         core.LimitOffset,
	UnboundedLimit:     "18446744073709551615",
	DualTable:          "dual",
	RecursiveKeyword:   true,
	RowValueComparison: true,
	LateralKeyword:     true,
	IntervalPattern:    "interval (?1) ?2",

	TupleCountDistinct:  core.TupleCountArgs,
	HypotheticalSet:     core.AggregateWindowOnly,
	InverseDistribution: core.AggregateUnsupported,

	ConcatStyle: core.ConcatFunction,
	TrimStyle:   core.TrimStandard,
	PadStyle:    core.PadNative,
	LocateStyle: core.LocateFunction,

	// cte_max_recursion_depth defaults to 1000
	SeriesStrategy: core.SeriesRecursiveCTE,
	MaxSeriesSize:  1000,

	TypeNames: map[core.SQLTypeCode]string{
		core.CodeVarchar:   "char",
		core.CodeClob:      "char",
		core.CodeInteger:   "signed",
		core.CodeBigInt:    "signed",
		core.CodeSmallInt:  "signed",
		core.CodeTinyInt:   "signed",
		core.CodeDouble:    "double",
		core.CodeBoolean:   "unsigned",
		core.CodeTimestamp: "datetime",
	},
}

// MySQL is the MySQL dialect.
var MySQL = dialect.New(Config).
	Functions(functions.Common, functions.TimestampAdd("timestampadd(?1,?2,?3)")).
	WithReservedWords(ansi.ReservedWords...).
	WithReservedWords("div", "key", "keys", "limit", "mod", "rlike", "straight_join", "xor").
	Build()
