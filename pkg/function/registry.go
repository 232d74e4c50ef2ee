package function

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/sqlfn/pkg/core"
)

// Registry maps function names and aliases to descriptors for one dialect.
//
// A registry is populated during bootstrap and read-only afterwards; it is
// then safe for concurrent use by any number of compilations.
type Registry struct {
	cfg       *core.DialectConfig
	functions map[string]*Descriptor
	aliases   map[string]string
}

// NewRegistry creates an empty registry for a dialect.
func NewRegistry(cfg *core.DialectConfig) *Registry {
	if cfg == nil {
		cfg = &core.DialectConfig{Name: "ansi"}
	}
	return &Registry{
		cfg:       cfg,
		functions: make(map[string]*Descriptor),
		aliases:   make(map[string]string),
	}
}

// Config returns the dialect the registry was built for.
func (r *Registry) Config() *core.DialectConfig { return r.cfg }

// Register adds a descriptor, replacing any previous one with the same name.
func (r *Registry) Register(d *Descriptor) {
	r.functions[strings.ToLower(d.Name)] = d
}

// RegisterAlternateKey makes alias resolve to canonical. The canonical
// function does not need to be registered yet.
func (r *Registry) RegisterAlternateKey(alias, canonical string) {
	r.aliases[strings.ToLower(alias)] = strings.ToLower(canonical)
}

// Find returns the descriptor registered under name or one of its aliases.
func (r *Registry) Find(name string) (*Descriptor, bool) {
	key := strings.ToLower(name)
	if d, ok := r.functions[key]; ok {
		return d, true
	}
	if canonical, ok := r.aliases[key]; ok {
		d, ok := r.functions[canonical]
		return d, ok
	}
	return nil, false
}

// Lookup is Find returning a *LookupError for unknown names.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	if d, ok := r.Find(name); ok {
		return d, nil
	}
	return nil, &LookupError{Name: name, Dialect: r.cfg.Name}
}

// Names returns the registered canonical names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aliases returns the alternate keys of a canonical name, sorted.
func (r *Registry) Aliases(canonical string) []string {
	var out []string
	canonical = strings.ToLower(canonical)
	for alias, target := range r.aliases {
		if target == canonical {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// TypeContext returns the type context of the registry's dialect.
func (r *Registry) TypeContext() TypeContext {
	return TypeContext{Dialect: r.cfg}
}
