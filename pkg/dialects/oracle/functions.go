package oracle

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

var (
	addYearMonth = function.MustPattern("(?3+numtoyminterval(?2,'?1'))")
	addDaySecond = function.MustPattern("(?3+numtodsinterval(?2,'?1'))")
	addWeeks     = function.MustPattern("(?3+numtodsinterval(7*(?2),'day'))")
)

func oracleFunctions(r *function.Registry, _ *core.DialectConfig) {
	r.Named("timestampadd").Exactly(3).
		Types(function.TemporalUnit, function.Numeric, function.Temporal).
		Returns(function.UseArgType(3)).
		ArgumentTypes(function.ArgTypes(nil, core.Long, core.Timestamp)).
		Parameters("unit", "magnitude", "timestamp").
		Render(renderTimestampAdd).
		Register()

	r.Pattern("current_time", "to_char(current_timestamp,'hh24:mi:ss')").NoArgs().ReturnsType(core.Time).Register()
	r.Named("character_length").Invoke("length").Exactly(1).Types(function.StringOrClob).
		ReturnsType(core.Integer).
		Parameters("string").
		Alias("char_length").
		Register()
	r.Named("octet_length").Invoke("lengthb").Exactly(1).Types(function.StringOrClob).
		ReturnsType(core.Integer).
		Parameters("string").
		Register()
	r.Named("substring").Invoke("substr").Between(2, 3).Types(function.StringOrClob, function.Integer, function.Integer).
		Returns(function.UseArgType(1)).
		Parameters("string", "start", "length").
		Register()
	r.Named("ceiling").Invoke("ceil").Exactly(1).Types(function.Numeric).
		Returns(function.UseArgType(1)).
		Parameters("number").
		Register()
	r.Named("every").Invoke("min").Aggregate().Exactly(1).Types(function.Boolean).
		ReturnsType(core.Boolean).
		Register()
	r.Named("any").Invoke("max").Aggregate().Exactly(1).Types(function.Boolean).
		ReturnsType(core.Boolean).
		Register()
}

// renderTimestampAdd picks the interval constructor for the unit; weeks
// are expressed in days.
func renderTimestampAdd(out function.Appender, call *core.FuncCall, t function.Translator) error {
	unit, _ := call.Args[0].(*core.TemporalUnit)
	switch {
	case unit == nil:
		return &function.ArgumentError{Function: call.Name, Position: 1, Reason: "requires a temporal unit"}
	case unit.Unit == core.UnitYear || unit.Unit == core.UnitMonth:
		return addYearMonth.Render(out, call.Args, t)
	case unit.Unit == core.UnitWeek:
		return addWeeks.Render(out, call.Args, t)
	}
	return addDaySecond.Render(out, call.Args, t)
}
