package function

import (
	"fmt"

	"github.com/leapstack-labs/sqlfn/pkg/core"
)

// Builder provides a fluent API for constructing and registering descriptors.
type Builder struct {
	registry *Registry
	d        Descriptor
	sqlName  string
	pattern  *Pattern
	byArity  map[int]*Pattern
	aliases  []string
}

// Named starts a descriptor rendered as name(args).
func (r *Registry) Named(name string) *Builder {
	return &Builder{registry: r, d: Descriptor{Name: name, Kind: Scalar}, sqlName: name}
}

// Pattern starts a descriptor rendered from a template.
func (r *Registry) Pattern(name, tpl string) *Builder {
	return &Builder{registry: r, d: Descriptor{Name: name, Kind: Scalar}, sqlName: name, pattern: MustPattern(tpl)}
}

// Invoke renders a named descriptor under a different SQL name.
func (b *Builder) Invoke(sqlName string) *Builder {
	b.sqlName = sqlName
	return b
}

// Kind sets the function kind.
func (b *Builder) Kind(k Kind) *Builder {
	b.d.Kind = k
	return b
}

// Aggregate marks the function as a grouped aggregate.
func (b *Builder) Aggregate() *Builder { return b.Kind(Aggregate) }

// OrderedSet marks the function as an ordered-set aggregate.
func (b *Builder) OrderedSet() *Builder { return b.Kind(OrderedSetAggregate) }

// Window marks the function as window-only.
func (b *Builder) Window() *Builder { return b.Kind(Window) }

// SetReturning marks the function as a table source.
func (b *Builder) SetReturning() *Builder { return b.Kind(SetReturning) }

// Exactly sets an exact arity.
func (b *Builder) Exactly(n int) *Builder { return b.addValidator(Exactly(n)) }

// Between sets an arity range.
func (b *Builder) Between(min, max int) *Builder { return b.addValidator(Between(min, max)) }

// AtLeast sets a minimum arity.
func (b *Builder) AtLeast(n int) *Builder { return b.addValidator(AtLeast(n)) }

// NoArgs accepts no arguments.
func (b *Builder) NoArgs() *Builder { return b.addValidator(None()) }

// Types sets per-position argument categories.
func (b *Builder) Types(cats ...Category) *Builder { return b.addValidator(Types(cats...)) }

// Validator adds a custom validator.
func (b *Builder) Validator(v Validator) *Builder { return b.addValidator(v) }

func (b *Builder) addValidator(v Validator) *Builder {
	switch cur := b.d.Validator.(type) {
	case nil:
		b.d.Validator = v
	case composite:
		b.d.Validator = composite{validators: append(cur.validators, v)}
	default:
		b.d.Validator = composite{validators: []Validator{cur, v}}
	}
	return b
}

// Returns sets the return type resolver.
func (b *Builder) Returns(r ReturnTypeResolver) *Builder {
	b.d.ReturnType = r
	return b
}

// ReturnsType sets an invariant return type.
func (b *Builder) ReturnsType(t *core.Type) *Builder {
	return b.Returns(Invariant(t))
}

// ArgumentTypes sets the resolver for untyped arguments.
func (b *Builder) ArgumentTypes(r ArgumentTypeResolver) *Builder {
	b.d.ArgumentTypes = r
	return b
}

// Parameters names the arguments for the signature.
func (b *Builder) Parameters(names ...string) *Builder {
	b.d.Parameters = names
	return b
}

// Description sets the documentation string.
func (b *Builder) Description(s string) *Builder {
	b.d.Description = s
	return b
}

// ArityPattern uses a different template when the call has n arguments.
func (b *Builder) ArityPattern(n int, tpl string) *Builder {
	if b.byArity == nil {
		b.byArity = make(map[int]*Pattern)
	}
	b.byArity[n] = MustPattern(tpl)
	return b
}

// Render sets a custom renderer.
func (b *Builder) Render(fn RenderFunc) *Builder {
	b.d.Render = fn
	return b
}

// RenderWindow sets the renderer used with an OVER clause.
func (b *Builder) RenderWindow(fn RenderFunc) *Builder {
	b.d.RenderWindow = fn
	return b
}

// RenderOrderedSet sets the renderer used with WITHIN GROUP.
func (b *Builder) RenderOrderedSet(fn RenderFunc) *Builder {
	b.d.RenderOrderedSet = fn
	return b
}

// ConvertCall sets the conversion hook for calls.
func (b *Builder) ConvertCall(fn ConvertCallFunc) *Builder {
	b.d.ConvertCall = fn
	return b
}

// ConvertTable sets the conversion hook for table sources.
func (b *Builder) ConvertTable(fn ConvertTableFunc) *Builder {
	b.d.ConvertTable = fn
	return b
}

// Alias registers alternate keys for the function.
func (b *Builder) Alias(names ...string) *Builder {
	b.aliases = append(b.aliases, names...)
	return b
}

// Descriptor returns the descriptor without registering it.
// It panics when a template references more arguments than the validator
// accepts.
func (b *Builder) Descriptor() *Descriptor {
	d := b.d
	if d.Render == nil {
		d.Render = b.renderer()
	}
	if max, ok := maxArity(d.Validator); ok {
		for _, p := range b.patterns() {
			if p.MaxArg() > max {
				panic(fmt.Sprintf("function %s: pattern %q references ?%d but at most %d arguments are accepted",
					d.Name, p.String(), p.MaxArg(), max))
			}
		}
	}
	return &d
}

// Register registers the descriptor and its aliases.
func (b *Builder) Register() *Descriptor {
	d := b.Descriptor()
	b.registry.Register(d)
	for _, a := range b.aliases {
		b.registry.RegisterAlternateKey(a, d.Name)
	}
	return d
}

func (b *Builder) patterns() []*Pattern {
	var out []*Pattern
	if b.pattern != nil {
		out = append(out, b.pattern)
	}
	for n, p := range b.byArity {
		// arity specific templates only need to fit their own arity
		if p.MaxArg() > n {
			panic(fmt.Sprintf("function %s: pattern %q for %d arguments references ?%d",
				b.d.Name, p.String(), n, p.MaxArg()))
		}
	}
	return out
}

func (b *Builder) renderer() RenderFunc {
	pattern, byArity, sqlName := b.pattern, b.byArity, b.sqlName
	if pattern == nil && len(byArity) == 0 {
		return func(out Appender, call *core.FuncCall, t Translator) error {
			return renderNamed(out, sqlName, call, t)
		}
	}
	return func(out Appender, call *core.FuncCall, t Translator) error {
		if p, ok := byArity[len(call.Args)]; ok {
			return p.Render(out, call.Args, t)
		}
		if pattern == nil {
			return renderNamed(out, sqlName, call, t)
		}
		return pattern.Render(out, call.Args, t)
	}
}

func maxArity(v Validator) (int, bool) {
	d, ok := v.(Describer)
	if !ok {
		return 0, false
	}
	_, max := d.Arity()
	return max, max >= 0
}
