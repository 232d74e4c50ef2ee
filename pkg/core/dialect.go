package core

// DialectConfig holds the static capability profile of a SQL dialect.
// This is pure data — no handler functions.
//
// The runtime behavior (function registry, quoting helpers) lives in
// pkg/dialect.Dialect, which wraps this config. Emulations in
// pkg/functions read these flags to pick a strategy.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "duckdb", "postgres")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// DefaultSchema is the default schema name ("main" for DuckDB, "public" for Postgres)
	DefaultSchema string

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle

	// ===== Query syntax =====

	LimitStyle              LimitStyle
	UnboundedLimit          string // LIMIT value emitted when only OFFSET is present ("-1" for SQLite)
	OffsetFetchNeedsOrderBy bool   // OFFSET/FETCH is only legal after ORDER BY (SQL Server)
	DualTable               string // table selected from when a query has no FROM ("dual")
	RecursiveKeyword        bool   // WITH RECURSIVE instead of plain WITH
	DerivedColumnLists      bool   // alias(c1, c2) after derived tables and VALUES
	RowValueComparison      bool   // (a, b) = (x, y)
	LateralKeyword          bool   // LATERAL derived tables
	TrueLiteral             string // defaults to "true"
	FalseLiteral            string // defaults to "false"
	IntervalPattern         string // ?1 = magnitude, ?2 = unit; defaults to "(?1) * interval '1 ?2'"

	// ===== Aggregates =====

	SupportsFilterClause bool
	TupleCountDistinct   TupleCountStyle
	HypotheticalSet      AggregateSupport // rank, dense_rank, percent_rank, cume_dist with WITHIN GROUP
	InverseDistribution  AggregateSupport // percentile_cont, percentile_disc, mode

	// ===== Strings =====

	ConcatStyle       ConcatStyle
	ConcatCastLength  int  // non-string concat operands are cast to varchar(n); 0 disables
	ConcatRecast      bool // re-cast the concatenation to the bounded implied type
	EmptyStringIsNull bool // '' is NULL (Oracle)
	TrimStyle         TrimStyle
	PadStyle          PadStyle
	LocateStyle       LocateStyle

	// ===== Types and casts =====

	TypeNames    map[SQLTypeCode]string // SQL name per type code for casts
	CastPatterns map[CastKey]string     // ?1 = value, ?2 = target type name

	// ===== Set-returning functions =====

	SeriesStrategy SeriesStrategy
	SeriesSource   SeriesSource // bounded row source for SeriesRowSource

	// MaxSeriesSize bounds emulated series whose length is not known
	// when the SQL is generated.
	MaxSeriesSize int

	// TemporalArithmeticNeedsTimestamp casts date and time bounds to
	// timestamp before adding durations.
	TemporalArithmeticNeedsTimestamp bool
}

// DefaultMaxSeriesSize is used when a dialect does not set MaxSeriesSize.
const DefaultMaxSeriesSize = 10000

// SeriesLimit returns MaxSeriesSize or the default.
func (c *DialectConfig) SeriesLimit() int {
	if c.MaxSeriesSize > 0 {
		return c.MaxSeriesSize
	}
	return DefaultMaxSeriesSize
}

// TypeName returns the dialect name for a type code.
func (c *DialectConfig) TypeName(code SQLTypeCode) string {
	if n, ok := c.TypeNames[code]; ok {
		return n
	}
	return defaultTypeNames[code]
}

var defaultTypeNames = map[SQLTypeCode]string{
	CodeTinyInt:     "tinyint",
	CodeSmallInt:    "smallint",
	CodeInteger:     "integer",
	CodeBigInt:      "bigint",
	CodeFloat:       "float",
	CodeReal:        "real",
	CodeDouble:      "double precision",
	CodeDecimal:     "decimal",
	CodeNumeric:     "numeric",
	CodeChar:        "char",
	CodeVarchar:     "varchar",
	CodeNChar:       "nchar",
	CodeNVarchar:    "nvarchar",
	CodeClob:        "clob",
	CodeBlob:        "blob",
	CodeBoolean:     "boolean",
	CodeDate:        "date",
	CodeTime:        "time",
	CodeTimestamp:   "timestamp",
	CodeTimestampTZ: "timestamp with time zone",
	CodeInterval:    "interval",
	CodeBinary:      "varbinary",
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Oracle, H2).
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly (MySQL).
	NormCaseSensitive
	// NormCaseInsensitive normalizes to lowercase for comparison (DuckDB, SQLite).
	NormCaseInsensitive
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
	// PlaceholderAtP uses @p1, @p2, etc. for parameters (SQL Server).
	PlaceholderAtP
	// PlaceholderColon uses :1, :2, etc. for parameters (Oracle).
	PlaceholderColon
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// LimitStyle defines how OFFSET and FETCH are rendered.
type LimitStyle int

const (
	// LimitOffset renders LIMIT n OFFSET m.
	LimitOffset LimitStyle = iota
	// OffsetFetch renders OFFSET m ROWS FETCH FIRST n ROWS ONLY.
	OffsetFetch
)

// TupleCountStyle defines how count(distinct a, b) is rendered.
type TupleCountStyle int

const (
	// TupleCountConcat emulates the tuple by concatenating its elements.
	TupleCountConcat TupleCountStyle = iota
	// TupleCountRow renders count(distinct (a, b)).
	TupleCountRow
	// TupleCountArgs renders count(distinct a, b).
	TupleCountArgs
)

// AggregateSupport defines how an aggregate family is supported.
type AggregateSupport int

const (
	// AggregateNative supports the grouped aggregate form.
	AggregateNative AggregateSupport = iota
	// AggregateWindowOnly supports only the window form; the grouped form
	// is emulated by a query transformer.
	AggregateWindowOnly
	// AggregateUnsupported supports neither form.
	AggregateUnsupported
)

func (s AggregateSupport) String() string {
	switch s {
	case AggregateWindowOnly:
		return "window only"
	case AggregateUnsupported:
		return "unsupported"
	default:
		return "native"
	}
}

// ConcatStyle defines how string concatenation is rendered.
type ConcatStyle int

const (
	// ConcatOperator renders a || b.
	ConcatOperator ConcatStyle = iota
	// ConcatFunction renders concat(a, b).
	ConcatFunction
	// ConcatPlus renders a + b.
	ConcatPlus
)

// TrimStyle defines how trim(spec char from s) is rendered.
type TrimStyle int

const (
	// TrimStandard renders trim(leading c from s).
	TrimStandard TrimStyle = iota
	// TrimFunctions renders ltrim(s, c), rtrim(s, c), trim(s, c).
	TrimFunctions
	// TrimReplaceChain only has space trimming ltrim(s)/rtrim(s); other
	// characters are trimmed through a replace() chain.
	TrimReplaceChain
)

// PadStyle defines how lpad/rpad are rendered.
type PadStyle int

const (
	// PadNative renders lpad(s, n, p).
	PadNative PadStyle = iota
	// PadZeroblob emulates padding with replace(hex(zeroblob(n)), '00', p).
	PadZeroblob
	// PadReplicate emulates padding with replicate(p, n).
	PadReplicate
)

// LocateStyle defines how locate(pattern, s[, start]) is rendered.
type LocateStyle int

const (
	// LocatePosition renders position(p in s).
	LocatePosition LocateStyle = iota
	// LocateFunction renders locate(p, s, start).
	LocateFunction
	// LocateInstr renders instr(s, p) without a start argument.
	LocateInstr
	// LocateInstrStart renders instr(s, p, start).
	LocateInstrStart
	// LocateCharindex renders charindex(p, s, start).
	LocateCharindex
)

// SeriesStrategy defines how generate_series is rendered.
type SeriesStrategy int

const (
	// SeriesRecursiveCTE emulates the series with a recursive CTE.
	SeriesRecursiveCTE SeriesStrategy = iota
	// SeriesNative renders generate_series natively, including ordinality.
	SeriesNative
	// SeriesNativeNumeric renders numeric series without ordinality natively
	// and uses the row source otherwise.
	SeriesNativeNumeric
	// SeriesRowSource emulates the series over a bounded row source.
	SeriesRowSource
)

func (s SeriesStrategy) String() string {
	switch s {
	case SeriesNative:
		return "native"
	case SeriesNativeNumeric:
		return "native numeric"
	case SeriesRowSource:
		return "row source"
	default:
		return "recursive cte"
	}
}

// SeriesSource describes a bounded row source producing 1..n.
type SeriesSource struct {
	Pattern string // ?1 = upper bound, e.g. "system_range(1, ?1)"
	Column  string // column holding the 1-based ordinal
}

// CastKind is the coarse category of a cast source or target.
type CastKind int

// Cast kinds.
const (
	CastOther CastKind = iota
	CastBoolean
	CastIntegral
	CastFixed
	CastFloating
	CastString
	CastDate
	CastTime
	CastTimestamp
	CastArray
)

// CastKey keys the cast pattern table.
type CastKey struct {
	From CastKind
	To   CastKind
}

// CastKindOf classifies a type for cast dispatch.
func CastKindOf(t *Type) CastKind {
	switch {
	case t == nil:
		return CastOther
	case t.Code == CodeBoolean:
		return CastBoolean
	case t.IsIntegral():
		return CastIntegral
	case t.Code == CodeDecimal || t.Code == CodeNumeric:
		return CastFixed
	case t.Code == CodeFloat || t.Code == CodeReal || t.Code == CodeDouble:
		return CastFloating
	case t.IsStringOrClob():
		return CastString
	case t.Code == CodeDate:
		return CastDate
	case t.Code == CodeTime:
		return CastTime
	case t.Code == CodeTimestamp || t.Code == CodeTimestampTZ:
		return CastTimestamp
	case t.Code == CodeArray:
		return CastArray
	}
	return CastOther
}
