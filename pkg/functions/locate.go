package functions

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

// locate templates per style: without and with a start position. ?1 is
// the pattern, ?2 the string and ?3 the 1-based start.
var locateTemplates = map[core.LocateStyle][2]string{
	core.LocatePosition: {
		"position(?1 in ?2)",
		"case when position(?1 in substring(?2 from ?3))=0 then 0 else position(?1 in substring(?2 from ?3))+?3-1 end",
	},
	core.LocateFunction: {"locate(?1,?2)", "locate(?1,?2,?3)"},
	core.LocateInstr: {
		"instr(?2,?1)",
		"case when instr(substr(?2,?3),?1)=0 then 0 else instr(substr(?2,?3),?1)+?3-1 end",
	},
	core.LocateInstrStart: {"instr(?2,?1)", "instr(?2,?1,?3)"},
	core.LocateCharindex:  {"charindex(?1,?2)", "charindex(?1,?2,?3)"},
}

// Locate registers locate(pattern, string[, start]), returning the
// 1-based position of the first match at or after start, or 0.
func Locate(r *function.Registry, cfg *core.DialectConfig) {
	tpl, ok := locateTemplates[cfg.LocateStyle]
	if !ok {
		tpl = locateTemplates[core.LocatePosition]
	}
	r.Named("locate").Between(2, 3).Types(function.String, function.StringOrClob, function.Integer).
		ReturnsType(core.Integer).
		ArgumentTypes(function.ArgTypes(core.String, core.String, core.Integer)).
		Parameters("pattern", "string", "start").
		ArityPattern(2, tpl[0]).
		ArityPattern(3, tpl[1]).
		Alias("position").
		Register()
}
