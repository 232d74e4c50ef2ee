package functions

import (
	"strings"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

type padTemplates struct {
	left, right string // ?1 string, ?2 length, ?3 padding
}

var padEmulations = map[core.PadStyle]padTemplates{
	core.PadZeroblob: {
		left:  "substr(substr(replace(hex(zeroblob(?2)),'00',?3),1,?2-length(?1))||?1,1,?2)",
		right: "substr(?1||replace(hex(zeroblob(?2)),'00',?3),1,?2)",
	},
	core.PadReplicate: {
		left:  "case when len(?1) >= ?2 then left(?1,?2) else right(replicate(?3,?2)+?1,?2) end",
		right: "left(?1+replicate(?3,?2),?2)",
	},
}

// Pad registers lpad and rpad. Without a padding argument the string is
// padded with spaces.
func Pad(r *function.Registry, cfg *core.DialectConfig) {
	tpl, emulated := padEmulations[cfg.PadStyle]
	for name, text := range map[string]string{"lpad": tpl.left, "rpad": tpl.right} {
		b := r.Named(name).Between(2, 3).Types(function.String, function.Integer, function.String).
			Returns(function.UseArgType(1)).
			ArgumentTypes(function.ArgTypes(core.String, core.Integer, core.String)).
			Parameters("string", "length", "padding")
		if !emulated {
			text = name + "(?1,?2,?3)"
		}
		b.ArityPattern(3, text).
			ArityPattern(2, strings.ReplaceAll(text, "?3", "' '")).
			Register()
	}
}
