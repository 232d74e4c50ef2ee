package functions

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

// TrimEmulation returns the template of each trim side. ?2 is the trim
// character and ?3 the source string. space is set when the character is
// the literal ' ', which most dialects trim with ltrim/rtrim.
type TrimEmulation struct {
	Leading  func(space bool) string
	Trailing func(space bool) string
	Both     func(space bool) string
}

// StandardTrim renders trim(leading c from s).
var StandardTrim = TrimEmulation{
	Leading:  func(bool) string { return "trim(leading ?2 from ?3)" },
	Trailing: func(bool) string { return "trim(trailing ?2 from ?3)" },
	Both:     func(bool) string { return "trim(both ?2 from ?3)" },
}

// FunctionTrim renders ltrim(s, c), rtrim(s, c) and trim(s, c).
var FunctionTrim = TrimEmulation{
	Leading:  twoArgTrim("ltrim"),
	Trailing: twoArgTrim("rtrim"),
	Both:     twoArgTrim("trim"),
}

func twoArgTrim(name string) func(bool) string {
	return func(space bool) string {
		if space {
			return name + "(?3)"
		}
		return name + "(?3,?2)"
	}
}

// ReplaceChainTrim trims other characters than space by swapping them with
// spaces around ltrim/rtrim. Spaces in the source are parked on a marker
// while that happens.
var ReplaceChainTrim = TrimEmulation{
	Leading:  replaceChain("ltrim(", ")"),
	Trailing: replaceChain("rtrim(", ")"),
	Both:     replaceChain("ltrim(rtrim(", "))"),
}

const trimMarker = "#%#%"

func replaceChain(open, closing string) func(bool) string {
	return func(space bool) string {
		if space {
			return open + "?3" + closing
		}
		return "replace(replace(" + open +
			"replace(replace(?3,' ','" + trimMarker + "'),?2,' ')" +
			closing + ",' ',?2),'" + trimMarker + "',' ')"
	}
}

// Trim registers trim(spec, character, string) with the strategy of the
// dialect trim style.
func Trim(r *function.Registry, cfg *core.DialectConfig) {
	switch cfg.TrimStyle {
	case core.TrimFunctions:
		TrimWith(FunctionTrim)(r, cfg)
	case core.TrimReplaceChain:
		TrimWith(ReplaceChainTrim)(r, cfg)
	default:
		TrimWith(StandardTrim)(r, cfg)
	}
}

// TrimWith returns a contributor registering trim with the given
// emulation. Dialects use it to override a single side.
func TrimWith(e TrimEmulation) function.Contributor {
	return func(r *function.Registry, _ *core.DialectConfig) {
		var table [3][2]*function.Pattern
		for kind, side := range map[core.TrimKind]func(bool) string{
			core.TrimBoth:     e.Both,
			core.TrimLeading:  e.Leading,
			core.TrimTrailing: e.Trailing,
		} {
			table[kind][0] = function.MustPattern(side(false))
			table[kind][1] = function.MustPattern(side(true))
		}

		r.Named("trim").Exactly(3).Types(function.TrimSpec, function.String, function.StringOrClob).
			Returns(function.UseArgType(3)).
			ArgumentTypes(function.ArgTypes(nil, core.Character, core.String)).
			Parameters("specification", "character", "string").
			Render(func(out function.Appender, call *core.FuncCall, t function.Translator) error {
				spec := call.Args[0].(*core.TrimSpec)
				space := 0
				if isSpace(call.Args[1]) {
					space = 1
				}
				return table[spec.Kind][space].Render(out, call.Args, t)
			}).
			Register()
	}
}
