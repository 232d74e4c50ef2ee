package functions

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

// Concat registers concat(a, b, ...). Arguments that are not strings are
// cast to a bounded varchar first, and the result is cast back to the
// bounded implied type on dialects that lose the length.
func Concat(r *function.Registry, cfg *core.DialectConfig) {
	style := cfg.ConcatStyle
	length := cfg.ConcatCastLength
	recast := cfg.ConcatRecast

	r.Named("concat").AtLeast(1).
		Returns(function.ImpliedOr(core.String)).
		ArgumentTypes(stringArguments).
		ConvertCall(func(call *core.FuncCall, c function.Converter) (core.Expr, error) {
			return convertConcat(call, c, length, recast)
		}).
		Render(func(out function.Appender, call *core.FuncCall, t function.Translator) error {
			return renderConcat(out, call, t, style)
		}).
		Register()
}

var stringArguments function.ArgumentTypeResolver = func([]core.Expr, int, function.TypeContext) *core.Type {
	return core.String
}

func convertConcat(call *core.FuncCall, c function.Converter, length int, recast bool) (core.Expr, error) {
	target := core.String
	if length > 0 {
		target = core.Varchar(length)
	}
	for i, a := range call.Args {
		t := core.TypeOf(a)
		if t == nil || t.IsStringOrClob() {
			continue
		}
		cast, err := castTo(c.Functions(), a, target)
		if err != nil {
			return nil, err
		}
		call.Args[i] = cast
	}

	if !recast || call.Type == nil || !call.Type.IsString() || call.Type.Length == 0 {
		return call, nil
	}
	cast, err := castTo(c.Functions(), call, call.Type)
	if err != nil {
		return nil, err
	}
	return cast, nil
}

func renderConcat(out function.Appender, call *core.FuncCall, t function.Translator, style core.ConcatStyle) error {
	if len(call.Args) == 1 {
		return t.Render(call.Args[0])
	}
	if style == core.ConcatFunction {
		return function.RenderStandard(out, call, t)
	}

	op := "||"
	if style == core.ConcatPlus {
		op = "+"
	}
	out.AppendSQL("(")
	for i, a := range call.Args {
		if i > 0 {
			out.AppendSQL(op)
		}
		if err := t.Render(a); err != nil {
			return err
		}
	}
	out.AppendSQL(")")
	return nil
}
