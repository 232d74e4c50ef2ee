package function

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlfn/pkg/core"
)

// ArgumentError is returned when a call's arity or argument categories do
// not match what the function accepts.
type ArgumentError struct {
	Function string
	Position int // 1-based argument position, 0 for arity and clause errors
	Expected string
	Actual   string
	Reason   string
}

func (e *ArgumentError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("function %s(): argument %d %s (expected %s, found %s)",
			e.Function, e.Position, e.Reason, e.Expected, e.Actual)
	}
	return fmt.Sprintf("function %s(): %s", e.Function, e.Reason)
}

// UnsupportedEmulationError is returned when a dialect lacks a feature and
// the feature cannot be emulated in the current context.
type UnsupportedEmulationError struct {
	Function string
	Dialect  string
	Clause   core.Clause
	Reason   string
}

func (e *UnsupportedEmulationError) Error() string {
	msg := fmt.Sprintf("function %s() cannot be emulated on %s: %s", e.Function, e.Dialect, e.Reason)
	if e.Clause != core.ClauseNone {
		msg += fmt.Sprintf(" (in %s clause)", e.Clause)
	}
	return msg
}

// LookupError is returned when a function name or alias was never registered.
type LookupError struct {
	Name    string
	Dialect string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("function %s() is not registered for dialect %s", e.Name, e.Dialect)
}

// OverloadError aggregates the rejections of every overload candidate.
// Primary is the rejection of the first declared candidate.
type OverloadError struct {
	Function   string
	Primary    error
	Suppressed []error
}

func (e *OverloadError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "no overload of %s() accepts the arguments: %v", e.Function, e.Primary)
	for _, s := range e.Suppressed {
		fmt.Fprintf(&sb, "; %v", s)
	}
	return sb.String()
}

// Unwrap returns the primary and suppressed rejections.
func (e *OverloadError) Unwrap() []error {
	return append([]error{e.Primary}, e.Suppressed...)
}

// PatternError is returned when a pattern references a placeholder beyond
// the supplied arguments. It indicates a registration bug.
type PatternError struct {
	Pattern     string
	Placeholder int
	Args        int
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %q references ?%d but only %d arguments were supplied", e.Pattern, e.Placeholder, e.Args)
}
