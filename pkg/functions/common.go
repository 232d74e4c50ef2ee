package functions

import (
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

// Common registers every shared family. Dialects register their overrides
// after it.
func Common(r *function.Registry, cfg *core.DialectConfig) {
	for _, c := range []function.Contributor{
		Standard,
		Count,
		Cast,
		Concat,
		Trim,
		Pad,
		Locate,
		Temporal,
		OrderedSet,
		Series,
	} {
		c(r, cfg)
	}
}

// newCall builds a call to a registered function without validating it.
// Emulations use it for the calls they compose themselves.
func newCall(r *function.Registry, name string, typ *core.Type, args ...core.Expr) (*core.FuncCall, error) {
	d, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if d.IsOverloaded() {
		if d, err = function.Resolve(d, args, r.TypeContext()); err != nil {
			return nil, err
		}
	}
	return &core.FuncCall{Name: d.Name, Function: d, Args: args, Type: typ}, nil
}

// castTo wraps e in a cast to t.
func castTo(r *function.Registry, e core.Expr, t *core.Type) (*core.FuncCall, error) {
	return newCall(r, "cast", t, e, &core.CastTarget{Type: t})
}

// isSpace reports whether e is the string literal ' '.
func isSpace(e core.Expr) bool {
	lit, ok := e.(*core.Literal)
	return ok && lit.Kind == core.LiteralString && lit.Value == " "
}

// unsupported builds the error returned when an emulation cannot proceed.
func unsupported(name string, cfg *core.DialectConfig, clause core.Clause, reason string) error {
	return &function.UnsupportedEmulationError{
		Function: name,
		Dialect:  cfg.Name,
		Clause:   clause,
		Reason:   reason,
	}
}
