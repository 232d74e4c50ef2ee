package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/leapstack-labs/sqlfn/internal/cli/config"
	"github.com/leapstack-labs/sqlfn/pkg/adapter"
)

// outputMode resolves the auto format: text on a terminal, markdown
// otherwise.
func outputMode(cfg *config.Config, w io.Writer) string {
	if cfg.OutputFormat != "" && cfg.OutputFormat != config.OutputAuto {
		return cfg.OutputFormat
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return config.OutputText
	}
	return config.OutputMarkdown
}

// newTable returns a table writer mirrored to w.
func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))
	return t
}

// renderTable renders t in the given mode.
func renderTable(t table.Writer, mode string) {
	if mode == config.OutputMarkdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}

func renderResults(w io.Writer, rs *adapter.ResultSet, mode string) error {
	if mode == config.OutputJSON {
		return writeJSON(w, resultRows(rs))
	}
	if len(rs.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	header := make([]any, len(rs.Columns))
	for i, col := range rs.Columns {
		header[i] = col
	}
	t := newTable(w, header...)
	for _, r := range rs.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = formatValue(v)
		}
		t.AppendRow(row)
	}
	renderTable(t, mode)
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rs.Rows))
	return nil
}

// resultRows converts a result set to one map per row for JSON output.
func resultRows(rs *adapter.ResultSet) []map[string]any {
	rows := make([]map[string]any, 0, len(rs.Rows))
	for _, r := range rs.Rows {
		row := make(map[string]any, len(rs.Columns))
		for i, col := range rs.Columns {
			row[col] = r[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
