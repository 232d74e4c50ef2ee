// Package h2 provides the H2 Database dialect definition.
// This package is pure Go with no database driver dependencies.
package h2

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlfn/pkg/functions"
)

func init() {
	dialect.Register(H2)
}

// Config is the H2 dialect configuration.
var Config = &core.DialectConfig{
	Name:          "h2",
	DefaultSchema: "PUBLIC",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase,
	},

	LimitStyle:         core.LimitOffset,
	RecursiveKeyword:   true,
	DerivedColumnLists: true,
	RowValueComparison: true,
	IntervalPattern:    "(?1) * interval '1' ?2",

	SupportsFilterClause: true,
	TupleCountDistinct:   core.TupleCountRow,

	LocateStyle: core.LocateFunction,

	SeriesStrategy: core.SeriesRowSource,
	SeriesSource: core.SeriesSource{
		Pattern: "system_range(1,?1)",
		Column:  "x",
	},

	TypeNames: map[core.SQLTypeCode]string{
		core.CodeDouble:  "double precision",
		core.CodeClob:    "character large object",
		core.CodeBlob:    "binary large object",
		core.CodeBinary:  "binary varying",
		core.CodeVarchar: "character varying",
	},
}

// H2 is the H2 dialect.
var H2 = dialect.New(Config).
	Functions(functions.Common).
	WithReservedWords(ansi.ReservedWords...).
	WithReservedWords("limit", "minus", "qualify", "rownum", "top", "_rowid_").
	Build()
