// Package core defines the shared language of the sqlfn system.
//
// This package contains:
//   - The SQL type model (Type, SQLTypeCode, ValueKind)
//   - The query AST (SelectStatement, QuerySpec, TableGroup, CteContainer, expressions)
//   - Dialect capability data (DialectConfig)
//   - Tree helpers (Walk, Rewrite, Equal)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse. Function descriptors
// live in pkg/function and are referenced from call nodes through the
// small Callable interface.
package core
