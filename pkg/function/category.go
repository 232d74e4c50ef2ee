package function

import "github.com/leapstack-labs/sqlfn/pkg/core"

// Category is the semantic type class an argument position accepts.
type Category int

// Argument categories.
const (
	AnyType Category = iota
	Numeric
	Integer
	String
	StringOrClob
	Temporal
	Date
	Time
	TemporalUnit
	Duration
	Boolean
	Comparable
	Array
	TrimSpec
	CastTarget
)

var categoryNames = map[Category]string{
	AnyType:      "ANY",
	Numeric:      "NUMERIC",
	Integer:      "INTEGER",
	String:       "STRING",
	StringOrClob: "STRING_OR_CLOB",
	Temporal:     "TEMPORAL",
	Date:         "DATE",
	Time:         "TIME",
	TemporalUnit: "TEMPORAL_UNIT",
	Duration:     "DURATION",
	Boolean:      "BOOLEAN",
	Comparable:   "COMPARABLE",
	Array:        "ARRAY",
	TrimSpec:     "TRIM_SPEC",
	CastTarget:   "CAST_TARGET",
}

func (c Category) String() string {
	return categoryNames[c]
}

// Accepts reports whether e belongs to the category. Untyped expressions
// (NULL, parameters without a type) are accepted by every value category.
func (c Category) Accepts(e core.Expr) bool {
	switch e.(type) {
	case *core.TemporalUnit:
		return c == TemporalUnit || c == AnyType
	case *core.TrimSpec:
		return c == TrimSpec || c == AnyType
	case *core.CastTarget:
		return c == CastTarget || c == AnyType
	case *core.DurationExpr:
		return c == Duration || c == AnyType
	}

	switch c {
	case AnyType:
		return true
	case TemporalUnit, TrimSpec, CastTarget:
		return false
	}

	t := core.TypeOf(e)
	if t == nil {
		return true
	}
	switch c {
	case Numeric:
		return t.IsNumeric()
	case Integer:
		return t.IsIntegral()
	case String:
		return t.IsString()
	case StringOrClob:
		return t.IsStringOrClob()
	case Temporal:
		return t.IsTemporal()
	case Date:
		return t.Code == core.CodeDate
	case Time:
		return t.Code == core.CodeTime
	case Duration:
		return t.Code == core.CodeInterval
	case Boolean:
		return t.Code == core.CodeBoolean
	case Comparable:
		return !t.IsLob()
	case Array:
		return t.Code == core.CodeArray
	}
	return false
}

// describeArg returns a short description of an argument for error messages.
func describeArg(e core.Expr) string {
	switch v := e.(type) {
	case *core.TemporalUnit:
		return "temporal unit " + string(v.Unit)
	case *core.TrimSpec:
		return "trim specification"
	case *core.CastTarget:
		return "cast target"
	case *core.DurationExpr:
		return "duration"
	}
	return core.TypeOf(e).String()
}
