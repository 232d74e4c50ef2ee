package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlfn/internal/cli/config"
	"github.com/leapstack-labs/sqlfn/internal/querydoc"
	"github.com/leapstack-labs/sqlfn/pkg/sqlgen"
)

// watchDebounce coalesces the bursts of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

// RenderOutput is the JSON form of one rendered document.
type RenderOutput struct {
	Document string `json:"document"`
	Name     string `json:"name"`
	Dialect  string `json:"dialect"`
	SQL      string `json:"sql"`
	Params   []any  `json:"params"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "render <document>...",
		Short: "Render query documents to dialect SQL",
		Long: `Render YAML query documents to the SQL of their dialect, with every
portable function translated or emulated.

A document's own dialect wins over --dialect. Bound parameters are listed
after each statement.

Output adapts to environment:
  - Terminal: Plain SQL
  - Piped/Scripted: Markdown with code block`,
		Example: `  # Render a document for PostgreSQL
  sqlfn render queries/by_region.yaml --dialect postgres

  # Re-render whenever the documents change
  sqlfn render queries/*.yaml --dialect sqlserver --watch

  # Render as JSON
  sqlfn render queries/by_region.yaml -d duckdb -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render when a document changes")

	return cmd
}

func runRender(cmd *cobra.Command, paths []string, watch bool) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := config.GetLogger(ctx)
	w := cmd.OutOrStdout()
	mode := outputMode(cfg, w)

	if !watch {
		return renderDocuments(w, cfg, logger, paths, mode)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = true
	}
	dirs := make(map[string]bool)
	for abs := range watched {
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	var mu sync.Mutex
	render := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := renderDocuments(w, cfg, logger, paths, mode); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}

	render()
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Watching %d document(s). Press Ctrl+C to stop.\n", len(watched))
	watchLoop(ctx, watcher, watched, render, logger)
	return nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, watched map[string]bool, render func(), logger *slog.Logger) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			logger.Debug("document changed", slog.String("path", abs), slog.String("op", event.Op.String()))

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, render)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

func renderDocuments(w io.Writer, cfg *config.Config, logger *slog.Logger, paths []string, mode string) error {
	outputs := make([]RenderOutput, 0, len(paths))
	for _, path := range paths {
		out, err := renderDocument(cfg, logger, path)
		if err != nil {
			return err
		}
		outputs = append(outputs, *out)
	}

	switch mode {
	case config.OutputJSON:
		return writeJSON(w, outputs)
	case config.OutputMarkdown:
		for _, out := range outputs {
			_, _ = fmt.Fprintf(w, "## %s (%s)\n\n```sql\n%s;\n```\n\n", out.Name, out.Dialect, out.SQL)
			if len(out.Params) > 0 {
				_, _ = fmt.Fprintf(w, "Parameters: `%v`\n\n", out.Params)
			}
		}
	default:
		for _, out := range outputs {
			_, _ = fmt.Fprintf(w, "-- %s (%s)\n%s;\n", out.Name, out.Dialect, out.SQL)
			if len(out.Params) > 0 {
				_, _ = fmt.Fprintf(w, "-- params: %v\n", out.Params)
			}
		}
	}
	return nil
}

func renderDocument(cfg *config.Config, logger *slog.Logger, path string) (*RenderOutput, error) {
	doc, err := querydoc.Load(path)
	if err != nil {
		return nil, err
	}
	d, err := doc.ResolveDialect(cfg.Dialect)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	stmt, err := doc.Build(d)
	if err != nil {
		return nil, err
	}

	res, err := sqlgen.New(d,
		sqlgen.WithLogger(logger.With(slog.String("document", doc.Name))),
		sqlgen.WithMaxSeriesSize(cfg.MaxSeriesSize),
	).Compile(stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to compile: %w", path, err)
	}

	params := res.Params
	if params == nil {
		params = []any{}
	}
	return &RenderOutput{
		Document: path,
		Name:     doc.Name,
		Dialect:  d.Name(),
		SQL:      res.SQL,
		Params:   params,
	}, nil
}
