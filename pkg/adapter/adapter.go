// Package adapter runs compiled statements against a database.
//
// This package holds the contract every database adapter implements and a
// database/sql base that concrete adapters embed. Implementations live in
// pkg/adapters/ subdirectories and register themselves from init.
package adapter

import (
	"context"

	"github.com/leapstack-labs/sqlfn/pkg/dialect"
)

// Config describes the database an adapter connects to. It is read from
// the target section of sqlfn.yaml.
type Config struct {
	Type     string            `koanf:"type" mapstructure:"type"`
	Path     string            `koanf:"path" mapstructure:"path"`
	Host     string            `koanf:"host" mapstructure:"host"`
	Port     int               `koanf:"port" mapstructure:"port"`
	Database string            `koanf:"database" mapstructure:"database"`
	User     string            `koanf:"user" mapstructure:"user"`
	Password string            `koanf:"password" mapstructure:"password"`
	Options  map[string]string `koanf:"options" mapstructure:"options"`

	// Params holds adapter specific settings, decoded by each adapter with
	// DecodeParams.
	Params map[string]any `koanf:"params" mapstructure:"params"`
}

// Column describes a table column.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Position int
}

// Metadata describes a table.
type Metadata struct {
	Schema   string
	Name     string
	Columns  []Column
	RowCount int64
}

// ResultSet is a fully read query result. Text and blob values are
// returned as strings.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a statement that doesn't return rows.
	Exec(ctx context.Context, sql string, args ...any) error

	// Query executes a statement and reads all of its rows.
	Query(ctx context.Context, sql string, args ...any) (*ResultSet, error)

	// GetTableMetadata retrieves metadata for a specified table.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// Dialect returns the dialect statements are compiled for before they
	// reach this adapter.
	Dialect() *dialect.Dialect
}
