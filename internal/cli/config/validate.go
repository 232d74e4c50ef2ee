package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlfn/pkg/adapter"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if c.MaxSeriesSize < 0 {
		return fmt.Errorf("max_series_size must not be negative, got %d", c.MaxSeriesSize)
	}
	if c.Dialect != "" {
		if _, err := dialect.Lookup(c.Dialect); err != nil {
			return fmt.Errorf("invalid dialect: %w", err)
		}
	}
	if err := ValidateTarget(c.Target); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	return nil
}

// ValidateTarget checks that a configured target names a registered
// adapter. A nil target is valid; commands that need one report it.
func ValidateTarget(t *TargetConfig) error {
	if t == nil {
		return nil
	}
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(t.Type) {
		return &adapter.UnknownAdapterError{Type: t.Type, Available: adapter.ListAdapters()}
	}
	return nil
}
