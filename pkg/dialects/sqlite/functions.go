package sqlite

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

func sqliteFunctions(r *function.Registry, _ *core.DialectConfig) {
	r.Pattern("current_timestamp", "datetime('now')").NoArgs().ReturnsType(core.Timestamp).Register()
	r.Pattern("current_date", "date('now')").NoArgs().ReturnsType(core.Date).Register()
	r.Pattern("current_time", "time('now')").NoArgs().ReturnsType(core.Time).Register()

	r.Named("character_length").Invoke("length").Exactly(1).Types(function.StringOrClob).
		ReturnsType(core.Integer).
		Parameters("string").
		Alias("char_length").
		Register()
	r.Named("substring").Invoke("substr").Between(2, 3).Types(function.StringOrClob, function.Integer, function.Integer).
		Returns(function.UseArgType(1)).
		Parameters("string", "start", "length").
		Register()
	r.Pattern("ceiling", "(cast(?1 as integer)+(?1>cast(?1 as integer)))").Exactly(1).Types(function.Numeric).
		Returns(function.UseArgType(1)).
		Parameters("number").
		Alias("ceil").
		Register()
	r.Pattern("floor", "(cast(?1 as integer)-(?1<cast(?1 as integer)))").Exactly(1).Types(function.Numeric).
		Returns(function.UseArgType(1)).
		Parameters("number").
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
