package functions

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

// Temporal registers timestampadd and array_to_string. Dialects without
// timestampadd override it with their own template.
func Temporal(r *function.Registry, _ *core.DialectConfig) {
	TimestampAdd("timestampadd(?1,?2,?3)")(r, nil)

	r.Named("array_to_string").Between(2, 3).Types(function.Array, function.String, function.String).
		ReturnsType(core.String).
		Parameters("array", "separator", "null_string").
		Register()
}

// TimestampAdd returns a contributor registering timestampadd(unit,
// magnitude, timestamp) rendered from tpl.
func TimestampAdd(tpl string) function.Contributor {
	return func(r *function.Registry, _ *core.DialectConfig) {
		r.Pattern("timestampadd", tpl).Exactly(3).
			Types(function.TemporalUnit, function.Numeric, function.Temporal).
			Returns(function.UseArgType(3)).
			ArgumentTypes(function.ArgTypes(nil, core.Long, core.Timestamp)).
			Parameters("unit", "magnitude", "timestamp").
			Register()
	}
}
