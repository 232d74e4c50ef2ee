package function

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlfn/pkg/core"
)

// Kind classifies a function.
type Kind int

// Function kinds.
const (
	Scalar Kind = iota
	Aggregate
	OrderedSetAggregate
	Window
	SetReturning
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case Aggregate:
		return "aggregate"
	case OrderedSetAggregate:
		return "ordered-set aggregate"
	case Window:
		return "window"
	case SetReturning:
		return "set-returning"
	default:
		return "scalar"
	}
}

// RenderFunc renders a call. Nested expressions are rendered through t.
type RenderFunc func(out Appender, call *core.FuncCall, t Translator) error

// ConvertCallFunc rewrites a call during the conversion pass. It returns
// the expression that replaces the call, which may be the call itself.
type ConvertCallFunc func(call *core.FuncCall, c Converter) (core.Expr, error)

// ConvertTableFunc rewrites a table group whose source is a call to the
// function during the conversion pass.
type ConvertTableFunc func(group *core.TableGroup, table *core.FunctionTable, c Converter) error

// Descriptor describes one SQL function. A descriptor is a set of optional
// capabilities; nil members fall back to defaults. Descriptors are
// immutable once registered.
type Descriptor struct {
	Name          string
	Kind          Kind
	Description   string
	Parameters    []string // argument names for the signature
	Validator     Validator
	ReturnType    ReturnTypeResolver
	ArgumentTypes ArgumentTypeResolver

	// Render renders the call head, name(args). The emitter appends
	// WITHIN GROUP, FILTER and OVER clauses itself.
	Render RenderFunc
	// RenderWindow, when set, replaces Render for calls with an OVER clause.
	RenderWindow RenderFunc
	// RenderOrderedSet, when set, replaces Render for calls with WITHIN GROUP.
	RenderOrderedSet RenderFunc

	ConvertCall  ConvertCallFunc
	ConvertTable ConvertTableFunc

	// Candidates lists overloads tried in declared order.
	Candidates []*Descriptor
}

// FunctionName implements core.Callable.
func (d *Descriptor) FunctionName() string { return d.Name }

// IsOverloaded reports whether the descriptor dispatches to candidates.
func (d *Descriptor) IsOverloaded() bool { return len(d.Candidates) > 0 }

// RenderCall renders the head of a call with the variant matching its clauses.
func (d *Descriptor) RenderCall(out Appender, call *core.FuncCall, t Translator) error {
	switch {
	case call.Window != nil && d.RenderWindow != nil:
		return d.RenderWindow(out, call, t)
	case len(call.WithinGroup) > 0 && d.RenderOrderedSet != nil:
		return d.RenderOrderedSet(out, call, t)
	case d.Render != nil:
		return d.Render(out, call, t)
	}
	return RenderStandard(out, call, t)
}

// RenderStandard renders name([distinct ]args) or name(*).
func RenderStandard(out Appender, call *core.FuncCall, t Translator) error {
	return renderNamed(out, call.Name, call, t)
}

func renderNamed(out Appender, name string, call *core.FuncCall, t Translator) error {
	out.AppendSQL(name)
	out.AppendSQL("(")
	if call.Distinct {
		out.AppendSQL("distinct ")
	}
	if call.Star {
		out.AppendSQL("*")
	}
	for i, a := range call.Args {
		if i > 0 {
			out.AppendSQL(",")
		}
		if err := t.Render(a); err != nil {
			return err
		}
	}
	out.AppendSQL(")")
	return nil
}

// ReturnTypeName describes the return type for documentation.
func (d *Descriptor) ReturnTypeName() string {
	if d.IsOverloaded() {
		names := make([]string, 0, len(d.Candidates))
		for _, c := range d.Candidates {
			names = append(names, c.ReturnTypeName())
		}
		return strings.Join(names, " | ")
	}
	if d.ReturnType == nil {
		return "unknown"
	}
	return d.ReturnType.String()
}

// Signature returns the argument list signature, e.g.
// (STRING string, INTEGER length[, STRING padding]).
func (d *Descriptor) Signature() string {
	if d.IsOverloaded() {
		sigs := make([]string, 0, len(d.Candidates))
		for _, c := range d.Candidates {
			sigs = append(sigs, c.Signature())
		}
		return strings.Join(sigs, " | ")
	}

	min, max := 0, -1
	var cats []Category
	if desc, ok := d.Validator.(Describer); ok {
		min, max = desc.Arity()
		cats = desc.Categories()
	} else if d.Validator == nil {
		max = len(d.Parameters)
	}

	n := len(d.Parameters)
	if max >= 0 && max > n {
		n = max
	}
	if min > n {
		n = min
	}
	if max < 0 && n == 0 {
		n = 1
	}

	var sb strings.Builder
	sb.WriteString("(")
	optional := 0
	for i := 0; i < n; i++ {
		if i > 0 {
			if i >= min {
				sb.WriteString("[")
				optional++
			}
			sb.WriteString(", ")
		}
		cat := AnyType
		if len(cats) > 0 {
			cat = cats[len(cats)-1]
			if i < len(cats) {
				cat = cats[i]
			}
		}
		sb.WriteString(cat.String())
		sb.WriteString(" ")
		if i < len(d.Parameters) {
			sb.WriteString(d.Parameters[i])
		} else {
			sb.WriteString("arg" + strconv.Itoa(i+1))
		}
	}
	if max < 0 {
		sb.WriteString("...")
	}
	sb.WriteString(strings.Repeat("]", optional))
	sb.WriteString(")")
	return sb.String()
}
