// Package sqlite provides a SQLite database adapter on the pure Go
// modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sqlfn/pkg/adapter"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	sqlitedialect "github.com/leapstack-labs/sqlfn/pkg/dialects/sqlite"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// Params holds SQLite-specific configuration.
type Params struct {
	// Pragmas are applied in order after connecting, e.g. "foreign_keys=on".
	Pragmas []string `mapstructure:"pragmas"`

	// BusyTimeout in milliseconds.
	BusyTimeout int `mapstructure:"busy_timeout"`
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the SQLite dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return sqlitedialect.SQLite
}

// Connect opens the database file at cfg.Path, or an in-memory database
// when the path is empty.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	var params Params
	if err := adapter.DecodeParams(cfg.Params, &params); err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	a.Logger.Debug("connecting to sqlite", slog.String("path", path))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}
	// an in-memory database lives as long as its connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	pragmas := params.Pragmas
	if params.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("busy_timeout=%d", params.BusyTimeout))
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, "PRAGMA "+p); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply pragma %q: %w", p, err)
		}
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// GetTableMetadata reads column metadata from pragma_table_info, since
// SQLite has no information_schema.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}
	schema, name := adapter.ParseQualifiedName(table, a.Dialect())

	rows, err := a.DB.QueryContext(ctx,
		`SELECT name, type, "notnull", cid + 1 FROM pragma_table_info(?, ?) ORDER BY cid`, name, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []adapter.Column
	for rows.Next() {
		var col adapter.Column
		var notNull bool
		if err := rows.Scan(&col.Name, &col.Type, &notNull, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Type = strings.ToUpper(col.Type)
		col.Nullable = !notNull
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, &adapter.TableNotFoundError{Table: table}
	}

	var count int64
	d := a.Dialect()
	//nolint:gosec // Table names come from metadata
	countSQL := "SELECT COUNT(*) FROM " + d.QuoteIdentifierIfNeeded(schema) + "." + d.QuoteIdentifierIfNeeded(name)
	if err := a.DB.QueryRowContext(ctx, countSQL).Scan(&count); err != nil {
		count = 0
	}

	return &adapter.Metadata{Schema: schema, Name: name, Columns: columns, RowCount: count}, nil
}

var _ adapter.Adapter = (*Adapter)(nil)
