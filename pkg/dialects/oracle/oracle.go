// Package oracle provides the Oracle Database dialect definition.
// This package is pure Go with no database driver dependencies.
package oracle

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlfn/pkg/functions"
)

func init() {
	dialect.Register(Oracle)
}

// Config is the Oracle dialect configuration.
var Config = &core.DialectConfig{
	Name:        "oracle",
	Placeholder: core.PlaceholderColon,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase,
	},

	LimitStyle:      core.OffsetFetch,
	DualTable:       "dual",
	LateralKeyword:  true,
	TrueLiteral:     "1",
	FalseLiteral:    "0",
	IntervalPattern: "numtodsinterval(?1,'?2')",

	TupleCountDistinct: core.TupleCountConcat,

	ConcatCastLength:  4000,
	EmptyStringIsNull: true,
	TrimStyle:         core.TrimStandard,
	PadStyle:          core.PadNative,
	LocateStyle:       core.LocateInstrStart,

	SeriesStrategy: core.SeriesRowSource,
	SeriesSource: core.SeriesSource{
		Pattern: "(select level x from dual connect by level<=?1)",
		Column:  "x",
	},

	TypeNames: map[core.SQLTypeCode]string{
		core.CodeVarchar:  "varchar2",
		core.CodeNVarchar: "nvarchar2",
		core.CodeTinyInt:  "number(3)",
		core.CodeSmallInt: "number(5)",
		core.CodeInteger:  "number(10)",
		core.CodeBigInt:   "number(19)",
		core.CodeDouble:   "binary_double",
		core.CodeFloat:    "binary_float",
		core.CodeReal:     "binary_float",
		core.CodeBoolean:  "number(1)",
		core.CodeDecimal:  "number",
		core.CodeNumeric:  "number",
		core.CodeBinary:   "raw",
	},
}

// Oracle is the Oracle dialect.
var Oracle = dialect.New(Config).
	Functions(functions.Common, oracleFunctions).
	WithReservedWords(ansi.ReservedWords...).
	WithReservedWords("level", "rownum", "rowid", "sysdate", "uid", "connect", "start", "minus", "number").
	Build()
