// Package config provides configuration management for the sqlfn CLI.
//
// Configuration is read from sqlfn.yaml, SQLFN_ environment variables and
// command line flags, in increasing order of precedence.
package config

import (
	"github.com/leapstack-labs/sqlfn/pkg/adapter"
)

// TargetConfig is an alias for the adapter connection configuration.
// This allows CLI code to use config.TargetConfig without importing pkg/adapter.
type TargetConfig = adapter.Config

// Config holds all CLI configuration options.
type Config struct {
	// Dialect renders documents that do not name one. exec always compiles
	// for the dialect of its target.
	Dialect       string               `koanf:"dialect"`
	MaxSeriesSize int                  `koanf:"max_series_size"`
	Environment   string               `koanf:"environment"`
	Verbose       bool                 `koanf:"verbose"`
	OutputFormat  string               `koanf:"output"`
	Target        *TargetConfig        `koanf:"target"`
	Environments  map[string]EnvConfig `koanf:"environments"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Dialect string        `koanf:"dialect"`
	Target  *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	DefaultEnv    = "dev"
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Output formats.
const (
	OutputAuto     = "auto"
	OutputText     = "text"
	OutputMarkdown = "markdown"
	OutputJSON     = "json"
)

// OutputFormats lists the accepted output formats.
var OutputFormats = []string{OutputAuto, OutputText, OutputMarkdown, OutputJSON}
