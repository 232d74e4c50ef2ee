// Package sqlserver provides the Microsoft SQL Server dialect definition.
// This package is pure Go with no database driver dependencies.
package sqlserver

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlfn/pkg/function"
	"github.com/leapstack-labs/sqlfn/pkg/functions"
)

func init() {
	dialect.Register(SQLServer)
}

// Config is the SQL Server dialect configuration.
var Config = &core.DialectConfig{
	Name:          "sqlserver",
	DefaultSchema: "dbo",
	Placeholder:   core.PlaceholderAtP,
	Identifiers: core.IdentifierConfig{
		Quote:         "[",
		QuoteEnd:      "]",
		Escape:        "]]",
		Normalization: core.NormCaseInsensitive,
	},

	LimitStyle:              core.OffsetFetch,
	OffsetFetchNeedsOrderBy: true,
	DerivedColumnLists:      true,
	TrueLiteral:             "1",
	FalseLiteral:            "0",

	TupleCountDistinct:  core.TupleCountConcat,
	HypotheticalSet:     core.AggregateWindowOnly,
	InverseDistribution: core.AggregateWindowOnly,

	ConcatStyle:      core.ConcatPlus,
	ConcatCastLength: 255,
	TrimStyle:        core.TrimReplaceChain,
	PadStyle:         core.PadReplicate,
	LocateStyle:      core.LocateCharindex,

	SeriesStrategy: core.SeriesRowSource,
	SeriesSource: core.SeriesSource{
		Pattern: "(select top (?1) row_number() over (order by (select null)) x from sys.all_objects a cross join sys.all_objects b)",
		Column:  "x",
	},

	TypeNames: map[core.SQLTypeCode]string{
		core.CodeDouble:    "float",
		core.CodeBoolean:   "bit",
		core.CodeTimestamp: "datetime2",
		core.CodeClob:      "varchar(max)",
		core.CodeBinary:    "varbinary(max)",
	},
}

// SQLServer is the SQL Server dialect.
var SQLServer = dialect.New(Config).
	Functions(functions.Common, functions.TimestampAdd("dateadd(?1,?2,?3)"), sqlserverFunctions).
	WithReservedWords(ansi.ReservedWords...).
	WithReservedWords("clustered", "identity", "nonclustered", "pivot", "top", "tran", "unpivot").
	Build()

func sqlserverFunctions(r *function.Registry, _ *core.DialectConfig) {
	r.Pattern("current_date", "cast(getdate() as date)").NoArgs().ReturnsType(core.Date).Register()
	r.Pattern("current_time", "cast(getdate() as time)").NoArgs().ReturnsType(core.Time).Register()

	r.Named("character_length").Invoke("len").Exactly(1).Types(function.StringOrClob).
		ReturnsType(core.Integer).
		Parameters("string").
		Alias("char_length").
		Register()
	r.Named("length").Invoke("len").Exactly(1).Types(function.StringOrClob).
		ReturnsType(core.Integer).
		Parameters("string").
		Register()
	r.Named("octet_length").Invoke("datalength").Exactly(1).Types(function.StringOrClob).
		ReturnsType(core.Integer).
		Parameters("string").
		Register()
	r.Named("ln").Invoke("log").Exactly(1).Types(function.Numeric).
		ReturnsType(core.Double).
		Parameters("number").
		Register()
	r.Named("atan2").Invoke("atn2").Exactly(2).Types(function.Numeric, function.Numeric).
		ReturnsType(core.Double).
		Register()
	r.Pattern("mod", "(?1%?2)").Exactly(2).Types(function.Integer, function.Integer).
		Returns(function.UseArgType(1)).
		ArgumentTypes(function.FirstTypedArg).
		Parameters("dividend", "divisor").
		Register()
	r.Named("every").Invoke("min").Aggregate().Exactly(1).Types(function.Boolean).
		ReturnsType(core.Boolean).
		Register()
	r.Named("any").Invoke("max").Aggregate().Exactly(1).Types(function.Boolean).
		ReturnsType(core.Boolean).
		Register()
}
