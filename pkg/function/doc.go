// Package function provides the SQL function descriptor model.
//
// A Descriptor is the unit of registration: a name, a kind, an arguments
// validator, a return type resolver and a renderer. Descriptors are
// registered into a Registry, one per dialect, during bootstrap and are
// read-only afterwards.
//
// Rendering happens through a Translator (the SQL emitter) and may be
// preceded by a conversion hook that rewrites the call node or registers a
// QueryTransformer against the enclosing query.
package function
