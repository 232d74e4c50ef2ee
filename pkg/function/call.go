package function

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
)

// CallOption configures a call built by Registry.Call.
type CallOption func(*core.FuncCall, *callSettings)

type callSettings struct {
	implied *core.Type
}

// WithFilter attaches a FILTER (WHERE ...) predicate.
func WithFilter(pred core.Expr) CallOption {
	return func(c *core.FuncCall, _ *callSettings) { c.Filter = pred }
}

// WithinGroup attaches a WITHIN GROUP (ORDER BY ...) clause.
func WithinGroup(items ...core.OrderByItem) CallOption {
	return func(c *core.FuncCall, _ *callSettings) { c.WithinGroup = items }
}

// Over attaches an OVER clause.
func Over(w *core.WindowSpec) CallOption {
	return func(c *core.FuncCall, _ *callSettings) {
		if w == nil {
			w = &core.WindowSpec{}
		}
		c.Window = w
	}
}

// Distinct marks an aggregate call DISTINCT.
func Distinct() CallOption {
	return func(c *core.FuncCall, _ *callSettings) { c.Distinct = true }
}

// Star marks the call as name(*).
func Star() CallOption {
	return func(c *core.FuncCall, _ *callSettings) { c.Star = true }
}

// Implied sets the type the surrounding context expects.
func Implied(t *core.Type) CallOption {
	return func(_ *core.FuncCall, s *callSettings) { s.implied = t }
}

// Call builds a typed call node. It resolves the name, picks the overload,
// checks the arguments and the clauses the call carries, types untyped
// parameters and resolves the return type. No SQL is rendered.
func (r *Registry) Call(name string, args []core.Expr, opts ...CallOption) (*core.FuncCall, error) {
	d, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	call := &core.FuncCall{Name: d.Name, Args: args}
	var s callSettings
	for _, opt := range opts {
		opt(call, &s)
	}

	tc := r.TypeContext()
	chosen, err := Resolve(d, args, tc)
	if err != nil {
		return nil, err
	}
	if err := checkClauses(chosen, call); err != nil {
		return nil, err
	}

	call.Name = chosen.Name
	call.Function = chosen
	inferArgumentTypes(chosen, args, tc)
	if chosen.ReturnType != nil {
		call.Type = chosen.ReturnType.ResolveReturnType(s.implied, args, tc)
	} else {
		call.Type = s.implied
	}
	return call, nil
}

// DescriptorOf returns the descriptor attached to a resolved call.
func DescriptorOf(call *core.FuncCall) (*Descriptor, bool) {
	d, ok := call.Function.(*Descriptor)
	return d, ok
}

func checkClauses(d *Descriptor, call *core.FuncCall) error {
	fail := func(reason string) error {
		return &ArgumentError{Function: d.Name, Reason: reason}
	}
	switch d.Kind {
	case Scalar, SetReturning:
		if call.Window != nil || call.Filter != nil || len(call.WithinGroup) > 0 || call.Distinct {
			return fail("is not an aggregate and accepts no DISTINCT, FILTER, WITHIN GROUP or OVER clause")
		}
	case Aggregate:
		if len(call.WithinGroup) > 0 {
			return fail("is not an ordered-set aggregate and accepts no WITHIN GROUP clause")
		}
	case OrderedSetAggregate:
		if len(call.WithinGroup) == 0 && call.Window == nil {
			return fail("requires a WITHIN GROUP clause")
		}
		if call.Distinct {
			return fail("accepts no DISTINCT")
		}
	case Window:
		if call.Window == nil {
			return fail("is a window function and requires an OVER clause")
		}
		if len(call.WithinGroup) > 0 || call.Distinct {
			return fail("is a window function and accepts no DISTINCT or WITHIN GROUP clause")
		}
	}
	if call.Star && len(call.Args) > 0 {
		return fail("accepts either * or arguments")
	}
	return nil
}

func inferArgumentTypes(d *Descriptor, args []core.Expr, tc TypeContext) {
	if d.ArgumentTypes == nil {
		return
	}
	for i, a := range args {
		p, ok := a.(*core.Param)
		if !ok || p.Type != nil {
			continue
		}
		p.Type = d.ArgumentTypes(args, i, tc)
	}
}
