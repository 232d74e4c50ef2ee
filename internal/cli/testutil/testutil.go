// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlfn/pkg/adapter"
	sqliteadapter "github.com/leapstack-labs/sqlfn/pkg/adapters/sqlite"
)

// Project is a temporary sqlfn project: a config file, query documents and
// a seeded SQLite database.
type Project struct {
	Dir      string
	Config   string
	Database string
}

// Query returns the path of a query document in the project.
func (p *Project) Query(name string) string {
	return filepath.Join(p.Dir, "queries", name+".yaml")
}

const projectConfig = `dialect: sqlite
target:
  type: sqlite
  path: ${TEST_DB_PATH}
environments:
  prod:
    dialect: postgres
`

// ByRegion counts sales per region.
const ByRegion = `name: by_region
tables:
  sales:
    id: {type: long, id: true}
    region: string
    amount: {type: integer, nullable: true}
query:
  select:
    - {expr: s.region, as: region}
    - {expr: {call: count, star: true}, as: n}
    - {expr: {call: count, args: [s.amount], filter: {op: ">", args: [s.amount, {param: 10}]}}, as: big}
  from: [{table: sales, as: s}]
  group_by: [s.region]
  order_by: [s.region]
`

// Series enumerates a numeric series.
const Series = `name: series
query:
  select: [{expr: g.n, as: n}]
  from: [{function: generate_series, args: [1, 3], columns: [n], as: g}]
  order_by: [g.n]
`

var seedSQL = []string{
	"create table sales(id integer, region text, amount integer)",
	"insert into sales values (1,'east',10),(2,'east',20),(3,'west',null)",
}

// SetupTestProject creates a temporary project with query documents and a
// seeded SQLite target. The target path is passed through ${TEST_DB_PATH}.
func SetupTestProject(t *testing.T) *Project {
	t.Helper()

	tmpDir := t.TempDir()
	queries := filepath.Join(tmpDir, "queries")
	if err := os.MkdirAll(queries, 0o750); err != nil {
		t.Fatalf("failed to create directory %s: %v", queries, err)
	}

	p := &Project{
		Dir:      tmpDir,
		Config:   filepath.Join(tmpDir, "sqlfn.yaml"),
		Database: filepath.Join(tmpDir, "dev.db"),
	}

	files := map[string]string{
		p.Config:             projectConfig,
		p.Query("by_region"): ByRegion,
		p.Query("series"):    Series,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to create %s: %v", path, err)
		}
	}

	t.Setenv("TEST_DB_PATH", p.Database)

	seedDatabase(t, p.Database)
	return p
}

func seedDatabase(t *testing.T, path string) {
	t.Helper()
	ctx := context.Background()
	adp := sqliteadapter.New(nil)
	if err := adp.Connect(ctx, adapter.Config{Type: "sqlite", Path: path}); err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer func() { _ = adp.Close() }()

	for _, stmt := range seedSQL {
		if err := adp.Exec(ctx, stmt); err != nil {
			t.Fatalf("failed to seed %s: %v", path, err)
		}
	}
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
