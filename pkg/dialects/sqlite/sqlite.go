// Package sqlite provides the SQLite SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package sqlite

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlfn/pkg/functions"
)

func init() {
	dialect.Register(SQLite)
}

// Config is the SQLite dialect configuration.
var Config = &core.DialectConfig{
	Name:          "sqlite",
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},

	LimitStyle:         core.LimitOffset,
	UnboundedLimit:     "-1",
	RecursiveKeyword:   true,
	RowValueComparison: true,
	TrueLiteral:        "1",
	FalseLiteral:       "0",

	SupportsFilterClause: true,
	TupleCountDistinct:   core.TupleCountConcat,
	HypotheticalSet:      core.AggregateWindowOnly,
	InverseDistribution:  core.AggregateUnsupported,

	TrimStyle:   core.TrimFunctions,
	PadStyle:    core.PadZeroblob,
	LocateStyle: core.LocateInstr,

	SeriesStrategy:                   core.SeriesRecursiveCTE,
	TemporalArithmeticNeedsTimestamp: true,

	TypeNames: map[core.SQLTypeCode]string{
		core.CodeVarchar:   "text",
		core.CodeClob:      "text",
		core.CodeDouble:    "real",
		core.CodeDecimal:   "numeric",
		core.CodeBoolean:   "integer",
		core.CodeTimestamp: "text",
	},
	CastPatterns: map[core.CastKey]string{
		{From: core.CastDate, To: core.CastTimestamp}:      "datetime(?1)",
		{From: core.CastTime, To: core.CastTimestamp}:      "datetime('1970-01-01 ' || ?1)",
		{From: core.CastString, To: core.CastTimestamp}:    "datetime(?1)",
		{From: core.CastTimestamp, To: core.CastDate}:      "date(?1)",
		{From: core.CastTimestamp, To: core.CastTime}:      "time(?1)",
		{From: core.CastBoolean, To: core.CastString}:      "case ?1 when 1 then 'true' when 0 then 'false' end",
		{From: core.CastFloating, To: core.CastIntegral}:   "cast(?1 as integer)",
		{From: core.CastIntegral, To: core.CastFloating}:   "cast(?1 as real)",
		{From: core.CastTimestamp, To: core.CastTimestamp}: "datetime(?1)",
	},
}

// SQLite is the SQLite dialect.
var SQLite = dialect.New(Config).
	Functions(functions.Common, functions.TimestampAdd("datetime(?3,(?2)||' ?1')"), sqliteFunctions).
	WithReservedWords(ansi.ReservedWords...).
	WithReservedWords("glob", "limit", "regexp", "returning").
	Build()
