package functions

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

// Standard registers the scalar, aggregate and window functions every
// dialect renders natively under their standard names.
func Standard(r *function.Registry, _ *core.DialectConfig) {
	standardMath(r)
	standardStrings(r)
	standardTemporal(r)
	standardAggregates(r)
	standardWindow(r)
}

func standardMath(r *function.Registry) {
	// precision preserving
	for _, name := range []string{"abs", "floor", "ceiling"} {
		r.Named(name).Exactly(1).Types(function.Numeric).
			Returns(function.UseArgType(1)).
			Parameters("number").
			Register()
	}
	r.RegisterAlternateKey("ceil", "ceiling")

	r.Named("round").Between(1, 2).Types(function.Numeric, function.Integer).
		Returns(function.UseArgType(1)).
		Parameters("number", "places").
		Register()
	r.Named("sign").Exactly(1).Types(function.Numeric).
		ReturnsType(core.Integer).
		Parameters("number").
		Register()
	r.Named("mod").Exactly(2).Types(function.Integer, function.Integer).
		Returns(function.UseArgType(1)).
		ArgumentTypes(function.FirstTypedArg).
		Parameters("dividend", "divisor").
		Register()

	// transcendental
	for _, name := range []string{"sqrt", "exp", "ln", "sin", "cos", "tan", "asin", "acos", "atan"} {
		r.Named(name).Exactly(1).Types(function.Numeric).
			ReturnsType(core.Double).
			Parameters("number").
			Register()
	}
	r.Named("power").Exactly(2).Types(function.Numeric, function.Numeric).
		ReturnsType(core.Double).
		Parameters("base", "exponent").
		Register()
	r.Named("atan2").Exactly(2).Types(function.Numeric, function.Numeric).
		ReturnsType(core.Double).
		Register()
}

func standardStrings(r *function.Registry) {
	for _, name := range []string{"upper", "lower"} {
		r.Named(name).Exactly(1).Types(function.StringOrClob).
			Returns(function.UseArgType(1)).
			Parameters("string").
			Register()
	}

	characterLength := r.Named("character_length").Exactly(1).Types(function.StringOrClob).
		ReturnsType(core.Integer).
		Parameters("string").
		Alias("char_length").
		Register()
	r.Named("octet_length").Exactly(1).Types(function.StringOrClob).
		ReturnsType(core.Integer).
		Parameters("string").
		Register()
	arrayLength := r.Named("array_length").Exactly(1).Types(function.Array).
		ReturnsType(core.Integer).
		Parameters("array").
		Register()
	r.Register(function.Overloaded("length", characterLength, arrayLength))

	r.Named("substring").Between(2, 3).Types(function.StringOrClob, function.Integer, function.Integer).
		Returns(function.UseArgType(1)).
		Parameters("string", "start", "length").
		Register()
	r.Named("replace").Exactly(3).Types(function.StringOrClob, function.String, function.String).
		Returns(function.UseArgType(1)).
		Parameters("string", "pattern", "replacement").
		Register()

	r.Named("coalesce").AtLeast(1).
		Returns(function.FirstNonNullArgType).
		ArgumentTypes(function.FirstTypedArg).
		Register()
	r.Named("nullif").Exactly(2).
		Returns(function.UseArgType(1)).
		ArgumentTypes(function.FirstTypedArg).
		Register()
}

func standardTemporal(r *function.Registry) {
	r.Pattern("current_date", "current_date").NoArgs().ReturnsType(core.Date).Register()
	r.Pattern("current_time", "current_time").NoArgs().ReturnsType(core.Time).Register()
	r.Pattern("current_timestamp", "current_timestamp").NoArgs().ReturnsType(core.Timestamp).Register()
}

func standardAggregates(r *function.Registry) {
	r.Named("sum").Aggregate().Exactly(1).Types(function.Numeric).
		Returns(function.SumReturnType).
		Register()
	r.Named("avg").Aggregate().Exactly(1).Types(function.Numeric).
		Returns(function.AvgReturnType).
		Register()
	for _, name := range []string{"min", "max"} {
		r.Named(name).Aggregate().Exactly(1).Types(function.Comparable).
			Returns(function.UseArgType(1)).
			Register()
	}
	for _, name := range []string{"every", "any"} {
		r.Named(name).Aggregate().Exactly(1).Types(function.Boolean).
			ReturnsType(core.Boolean).
			Register()
	}
}

func standardWindow(r *function.Registry) {
	r.Named("row_number").Window().NoArgs().ReturnsType(core.Long).Register()
	r.Named("ntile").Window().Exactly(1).Types(function.Integer).ReturnsType(core.Integer).Register()
	for _, name := range []string{"lag", "lead"} {
		r.Named(name).Window().Between(1, 3).Types(function.AnyType, function.Integer, function.AnyType).
			Returns(function.UseArgType(1)).
			ArgumentTypes(function.ArgTypeFrom(1)).
			Parameters("value", "offset", "default").
			Register()
	}
	for _, name := range []string{"first_value", "last_value"} {
		r.Named(name).Window().Exactly(1).Returns(function.UseArgType(1)).Register()
	}
}
