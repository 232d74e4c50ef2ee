package functions

import (
	"log/slog"
	"strconv"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

// Count registers count with two conversions: count(id) becomes count(*)
// when the identifier cannot be null-extended, and count(distinct a, b)
// is rendered in the tuple style of the dialect.
func Count(r *function.Registry, cfg *core.DialectConfig) {
	style := cfg.TupleCountDistinct
	r.Named("count").Aggregate().AtLeast(0).
		ReturnsType(core.Long).
		Parameters("value").
		ConvertCall(func(call *core.FuncCall, c function.Converter) (core.Expr, error) {
			return convertCount(call, c, style)
		}).
		Register()
}

func convertCount(call *core.FuncCall, c function.Converter, style core.TupleCountStyle) (core.Expr, error) {
	switch {
	case call.Star:
		return call, nil
	case len(call.Args) == 0:
		return nil, &function.ArgumentError{Function: call.Name, Reason: "requires * or at least one argument"}
	case len(call.Args) > 1 && !call.Distinct:
		return nil, &function.ArgumentError{Function: call.Name, Reason: "accepts several arguments only with DISTINCT"}
	case len(call.Args) > 1:
		return countDistinctTuple(call, c, style)
	}

	col, ok := call.Args[0].(*core.ColumnRef)
	if !ok || call.Distinct || !col.Identifier || col.Nullable {
		return call, nil
	}
	if q := c.Query(); q == nil || !starSafe(q, col.Qualifier) {
		return call, nil
	}
	c.Logger().Debug("count over identifier rendered as count(*)",
		slog.String("column", col.Qualifier+"."+col.Column))
	call.Star = true
	call.Args = nil
	return call, nil
}

// starSafe reports whether every row of the FROM graph carries a non-null
// value for the identifier of the group aliased alias. A RIGHT or FULL
// join anywhere can null-extend any group, and a group on the inner side
// of a LEFT join is null-extended when unmatched.
func starSafe(q *core.QuerySpec, alias string) bool {
	target := q.FindGroup(alias)
	if target == nil {
		return false
	}
	for _, root := range q.From {
		if !joinsSafe(root, target) {
			return false
		}
	}
	return true
}

func joinsSafe(g, target *core.TableGroup) bool {
	for _, j := range g.Joins {
		switch j.Type {
		case core.JoinInner, core.JoinCross:
		case core.JoinLeft:
			if j.Group.Contains(target) {
				return false
			}
		default:
			return false
		}
		if !joinsSafe(j.Group, target) {
			return false
		}
	}
	return true
}

func countDistinctTuple(call *core.FuncCall, c function.Converter, style core.TupleCountStyle) (core.Expr, error) {
	switch style {
	case core.TupleCountArgs:
		return call, nil
	case core.TupleCountRow:
		call.Args = []core.Expr{&core.TupleExpr{Items: call.Args}}
		return call, nil
	}

	concat, err := tupleConcat(c.Functions(), call.Args)
	if err != nil {
		return nil, err
	}
	c.Logger().Debug("count distinct tuple emulated by concatenation", slog.Int("elements", len(call.Args)))
	call.Args = []core.Expr{concat}
	return call, nil
}

// tupleConcat folds the elements of a tuple into one string:
//
//	case when a is not null and b is not null
//	then coalesce(nullif(a,''),'\0')||'\0'||coalesce(nullif(b,''),'\01') end
//
// Empty strings get a marker of their own per position so that an empty
// first element and an empty second element stay distinct. The result is only exact while neither the
// separator nor the markers occur in the data.
func tupleConcat(r *function.Registry, elems []core.Expr) (core.Expr, error) {
	var parts []core.Expr
	var notNull []core.Expr
	for i, e := range elems {
		notNull = append(notNull, &core.IsNullExpr{Expr: e, Not: true})

		var text core.Expr = e
		if t := core.TypeOf(e); t == nil || !t.IsStringOrClob() {
			cast, err := castTo(r, e, core.String)
			if err != nil {
				return nil, err
			}
			text = cast
		}
		nullif, err := newCall(r, "nullif", core.String, text, core.Str(""))
		if err != nil {
			return nil, err
		}
		coalesce, err := newCall(r, "coalesce", core.String, nullif, core.Str(tupleMarker(i)))
		if err != nil {
			return nil, err
		}
		if i > 0 {
			parts = append(parts, core.Str(tupleSeparator))
		}
		parts = append(parts, coalesce)
	}

	concat, err := newCall(r, "concat", core.String, parts...)
	if err != nil {
		return nil, err
	}
	return core.When(core.And(notNull...), concat), nil
}

const tupleSeparator = `\0`

func tupleMarker(position int) string {
	if position == 0 {
		return `\0`
	}
	return `\0` + strconv.Itoa(position)
}
