package functions

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

const defaultCastPattern = "cast(?1 as ?2)"

// Cast registers cast(value, type). The pattern comes from the dialect
// cast table keyed by the source and target kinds. Array to string casts
// are composed from array_to_string.
func Cast(r *function.Registry, cfg *core.DialectConfig) {
	patterns := make(map[core.CastKey]*function.Pattern, len(cfg.CastPatterns))
	for key, tpl := range cfg.CastPatterns {
		patterns[key] = function.MustPattern(tpl)
	}
	fallback := function.MustPattern(defaultCastPattern)
	emptyIsNull := cfg.EmptyStringIsNull

	r.Named("cast").Exactly(2).Types(function.AnyType, function.CastTarget).
		Returns(castReturnType).
		Parameters("value", "type").
		Render(func(out function.Appender, call *core.FuncCall, t function.Translator) error {
			target := call.Args[1].(*core.CastTarget)
			key := core.CastKey{
				From: core.CastKindOf(core.TypeOf(call.Args[0])),
				To:   core.CastKindOf(target.Type),
			}
			if key.From == core.CastArray && key.To == core.CastString {
				expr, err := arrayToString(t.Functions(), call.Args[0], emptyIsNull)
				if err != nil {
					return err
				}
				return t.Render(expr)
			}
			if p, ok := patterns[key]; ok {
				return p.Render(out, call.Args, t)
			}
			return fallback.Render(out, call.Args, t)
		}).
		Register()
}

var castReturnType = function.ReturnTypeFunc("cast target", func(implied *core.Type, args []core.Expr, _ function.TypeContext) *core.Type {
	if len(args) == 2 {
		if target, ok := args[1].(*core.CastTarget); ok {
			return target.Type
		}
	}
	return implied
})

// arrayToString renders an array as '[e1,e2,null]'. Dialects reading the
// empty string as NULL get a guard so that a NULL array stays NULL instead of '[]'.
func arrayToString(r *function.Registry, array core.Expr, emptyIsNull bool) (core.Expr, error) {
	joined, err := newCall(r, "array_to_string", core.String, array, core.Str(","), core.Str("null"))
	if err != nil {
		return nil, err
	}
	concat, err := newCall(r, "concat", core.String, core.Str("["), joined, core.Str("]"))
	if err != nil {
		return nil, err
	}
	if !emptyIsNull {
		return concat, nil
	}
	return &core.CaseExpr{
		Whens: []core.WhenClause{{Condition: &core.IsNullExpr{Expr: array}, Result: core.Null()}},
		Else:  concat,
		Type:  core.String,
	}, nil
}
