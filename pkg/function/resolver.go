package function

import (
	"fmt"

	"github.com/leapstack-labs/sqlfn/pkg/core"
)

// ReturnTypeResolver computes the result type of a call from its arguments
// and the type the surrounding context demands, if any.
type ReturnTypeResolver interface {
	ResolveReturnType(implied *core.Type, args []core.Expr, tc TypeContext) *core.Type
	String() string
}

type returnTypeFunc struct {
	name string
	fn   func(implied *core.Type, args []core.Expr, tc TypeContext) *core.Type
}

func (r returnTypeFunc) ResolveReturnType(implied *core.Type, args []core.Expr, tc TypeContext) *core.Type {
	return r.fn(implied, args, tc)
}

func (r returnTypeFunc) String() string { return r.name }

// ReturnTypeFunc builds a named resolver from a function.
func ReturnTypeFunc(name string, fn func(implied *core.Type, args []core.Expr, tc TypeContext) *core.Type) ReturnTypeResolver {
	return returnTypeFunc{name: name, fn: fn}
}

// UseArgType resolves to the type of the k-th (1-based) argument, falling
// back to the implied type when the argument is untyped.
func UseArgType(k int) ReturnTypeResolver {
	return ReturnTypeFunc(fmt.Sprintf("type of argument %d", k), func(implied *core.Type, args []core.Expr, _ TypeContext) *core.Type {
		if k-1 < len(args) {
			if t := core.TypeOf(args[k-1]); t != nil {
				return t
			}
		}
		return implied
	})
}

// Invariant always resolves to t.
func Invariant(t *core.Type) ReturnTypeResolver {
	return ReturnTypeFunc(t.String(), func(*core.Type, []core.Expr, TypeContext) *core.Type {
		return t
	})
}

// ImpliedOr resolves to the implied type when it is in the same family as
// t, and to t otherwise.
func ImpliedOr(t *core.Type) ReturnTypeResolver {
	return ReturnTypeFunc(t.String(), func(implied *core.Type, _ []core.Expr, _ TypeContext) *core.Type {
		if implied != nil && implied.Family() == t.Family() {
			return implied
		}
		return t
	})
}

// FirstNonNullArgType resolves to the type of the first typed argument.
var FirstNonNullArgType = ReturnTypeFunc("type of first typed argument", func(implied *core.Type, args []core.Expr, _ TypeContext) *core.Type {
	for _, a := range args {
		if t := core.TypeOf(a); t != nil {
			return t
		}
	}
	return implied
})

// SumReturnType widens the argument type the way JPA mandates for sum():
// integral types resolve to Long, floating types to Double, BigInteger and
// BigDecimal to themselves. Other types fall back on their SQL type code.
var SumReturnType = ReturnTypeFunc("sum widening", func(implied *core.Type, args []core.Expr, _ TypeContext) *core.Type {
	if len(args) == 0 {
		return implied
	}
	t := core.TypeOf(args[0])
	if t == nil {
		if implied != nil && implied.IsNumeric() {
			return implied
		}
		return nil
	}
	return sumType(t)
})

// AvgReturnType resolves avg() to Double for every numeric argument.
// Vector arguments keep their type.
var AvgReturnType = ReturnTypeFunc("avg widening", func(_ *core.Type, args []core.Expr, _ TypeContext) *core.Type {
	if len(args) > 0 {
		if t := core.TypeOf(args[0]); t != nil && t.Code == core.CodeVector {
			return t
		}
	}
	return core.Double
})

func sumType(t *core.Type) *core.Type {
	switch {
	case t.Kind.IsIntegral():
		return core.Long
	case t.Kind.IsFloating():
		return core.Double
	case t.Kind == core.KindBigInt:
		return core.BigInteger
	case t.Kind == core.KindDecimal:
		return core.BigDecimal
	}
	switch t.Code {
	case core.CodeSmallInt, core.CodeTinyInt, core.CodeInteger, core.CodeBigInt:
		return core.Long
	case core.CodeFloat, core.CodeReal, core.CodeDouble:
		return core.Double
	case core.CodeDecimal, core.CodeNumeric:
		if t.Kind == core.KindBigInt {
			return core.BigInteger
		}
		return core.BigDecimal
	case core.CodeVector:
		return t
	default:
		return core.BigDecimal
	}
}

// ArgumentTypeResolver infers the type of an untyped argument at position
// (0-based) from the other arguments.
type ArgumentTypeResolver func(args []core.Expr, position int, tc TypeContext) *core.Type

// ArgTypeFrom types untyped arguments like the k-th (1-based) argument.
func ArgTypeFrom(k int) ArgumentTypeResolver {
	return func(args []core.Expr, position int, _ TypeContext) *core.Type {
		if position == k-1 || k-1 >= len(args) {
			return nil
		}
		return core.TypeOf(args[k-1])
	}
}

// ArgTypes types untyped arguments by position with fixed types.
func ArgTypes(types ...*core.Type) ArgumentTypeResolver {
	return func(_ []core.Expr, position int, _ TypeContext) *core.Type {
		if position < len(types) {
			return types[position]
		}
		return nil
	}
}

// FirstTypedArg types untyped arguments like the first typed sibling.
var FirstTypedArg ArgumentTypeResolver = func(args []core.Expr, position int, _ TypeContext) *core.Type {
	for i, a := range args {
		if i == position {
			continue
		}
		if t := core.TypeOf(a); t != nil {
			return t
		}
	}
	return nil
}
