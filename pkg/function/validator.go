package function

import (
	"fmt"

	"github.com/leapstack-labs/sqlfn/pkg/core"
)

// TypeContext carries what validators and resolvers may consult besides
// the arguments themselves.
type TypeContext struct {
	Dialect *core.DialectConfig
}

// Validator checks the arguments of a call before it is rendered.
type Validator interface {
	Validate(name string, args []core.Expr, tc TypeContext) error
}

// Describer is implemented by validators that can describe their accepted
// argument list for signatures.
type Describer interface {
	// Arity returns the accepted argument count range. max is -1 when the
	// function is variadic.
	Arity() (min, max int)
	// Categories returns the per-position categories.
	Categories() []Category
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(name string, args []core.Expr, tc TypeContext) error

// Validate implements Validator.
func (f ValidatorFunc) Validate(name string, args []core.Expr, tc TypeContext) error {
	return f(name, args, tc)
}

type arity struct {
	min, max int
}

// Exactly accepts exactly n arguments.
func Exactly(n int) Validator { return arity{min: n, max: n} }

// Between accepts from min to max arguments.
func Between(min, max int) Validator { return arity{min: min, max: max} }

// AtLeast accepts min or more arguments.
func AtLeast(min int) Validator { return arity{min: min, max: -1} }

// None accepts no arguments.
func None() Validator { return arity{} }

func (a arity) Validate(name string, args []core.Expr, _ TypeContext) error {
	n := len(args)
	if n >= a.min && (a.max < 0 || n <= a.max) {
		return nil
	}
	var want string
	switch {
	case a.min == a.max:
		want = fmt.Sprintf("exactly %d", a.min)
	case a.max < 0:
		want = fmt.Sprintf("at least %d", a.min)
	default:
		want = fmt.Sprintf("between %d and %d", a.min, a.max)
	}
	return &ArgumentError{
		Function: name,
		Expected: want,
		Actual:   fmt.Sprint(n),
		Reason:   fmt.Sprintf("requires %s arguments, found %d", want, n),
	}
}

func (a arity) Arity() (int, int)      { return a.min, a.max }
func (a arity) Categories() []Category { return nil }

type typesValidator struct {
	categories []Category
}

// Types checks each argument against the category of its position. When
// there are more arguments than categories, the last category repeats.
func Types(categories ...Category) Validator {
	return typesValidator{categories: categories}
}

func (v typesValidator) Validate(name string, args []core.Expr, _ TypeContext) error {
	if len(v.categories) == 0 {
		return nil
	}
	for i, arg := range args {
		cat := v.categories[len(v.categories)-1]
		if i < len(v.categories) {
			cat = v.categories[i]
		}
		if !cat.Accepts(arg) {
			return &ArgumentError{
				Function: name,
				Position: i + 1,
				Expected: cat.String(),
				Actual:   describeArg(arg),
				Reason:   "has the wrong type",
			}
		}
	}
	return nil
}

func (v typesValidator) Arity() (int, int)      { return 0, -1 }
func (v typesValidator) Categories() []Category { return v.categories }

type composite struct {
	validators []Validator
}

// Composite runs validators in order and fails on the first violation.
func Composite(validators ...Validator) Validator {
	return composite{validators: validators}
}

func (c composite) Validate(name string, args []core.Expr, tc TypeContext) error {
	for _, v := range c.validators {
		if err := v.Validate(name, args, tc); err != nil {
			return err
		}
	}
	return nil
}

// Arity returns the narrowest range declared by the arity primitives.
func (c composite) Arity() (int, int) {
	lo, hi := 0, -1
	for _, v := range c.validators {
		d, ok := v.(Describer)
		if !ok {
			continue
		}
		min, max := d.Arity()
		if min > lo {
			lo = min
		}
		if max >= 0 && (hi < 0 || max < hi) {
			hi = max
		}
	}
	return lo, hi
}

// Categories returns the categories of the first validator declaring any.
func (c composite) Categories() []Category {
	for _, v := range c.validators {
		if d, ok := v.(Describer); ok {
			if cats := d.Categories(); len(cats) > 0 {
				return cats
			}
		}
	}
	return nil
}
