package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqlfn/internal/cli/config"
	"github.com/leapstack-labs/sqlfn/internal/querydoc"
	"github.com/leapstack-labs/sqlfn/pkg/adapter"
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/sqlgen"
)

// ExecOutput is the JSON form of one executed document.
type ExecOutput struct {
	Document string           `json:"document"`
	Name     string           `json:"name"`
	SQL      string           `json:"sql"`
	Params   []any            `json:"params"`
	Rows     []map[string]any `json:"rows"`
}

type execJob struct {
	path string
	doc  *querydoc.Document
	stmt *core.SelectStatement

	res *sqlgen.Result
	rs  *adapter.ResultSet
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "exec <document>...",
		Short: "Run query documents against the target database",
		Long: `Compile query documents for the dialect of the configured target and
run them. Several documents run concurrently; results are printed in the
order the documents were given.

A document that names a dialect other than the target's is rejected.`,
		Example: `  # Run against the dev target from sqlfn.yaml
  sqlfn exec queries/by_region.yaml

  # Run every document against prod, two at a time
  sqlfn exec queries/*.yaml --target prod --concurrency 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args, concurrency)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Maximum number of documents run at once")

	return cmd
}

func runExec(cmd *cobra.Command, paths []string, concurrency int) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := config.GetLogger(ctx)

	if cfg.Target == nil {
		return fmt.Errorf("no target configured: add a target section to sqlfn.yaml")
	}
	if concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", concurrency)
	}

	adp, err := adapter.NewAdapter(*cfg.Target, logger)
	if err != nil {
		return err
	}
	if err := adp.Connect(ctx, *cfg.Target); err != nil {
		return fmt.Errorf("failed to connect to %s target: %w", cfg.Target.Type, err)
	}
	defer func() { _ = adp.Close() }()

	d := adp.Dialect()
	jobs := make([]*execJob, 0, len(paths))
	for _, path := range paths {
		doc, err := querydoc.Load(path)
		if err != nil {
			return err
		}
		if doc.Dialect != "" && doc.Dialect != d.Name() {
			return fmt.Errorf("%s: document targets dialect %s but the %s target uses %s", path, doc.Dialect, cfg.Target.Type, d.Name())
		}
		stmt, err := doc.Build(d)
		if err != nil {
			return err
		}
		jobs = append(jobs, &execJob{path: path, doc: doc, stmt: stmt})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, job := range jobs {
		g.Go(func() error {
			start := time.Now()
			jl := logger.With(slog.String("document", job.doc.Name))
			res, rs, err := adapter.Run(gctx, adp, job.stmt,
				sqlgen.WithLogger(jl),
				sqlgen.WithMaxSeriesSize(cfg.MaxSeriesSize),
			)
			if err != nil {
				return fmt.Errorf("%s: %w", job.path, err)
			}
			jl.Debug("document executed",
				slog.Int("rows", len(rs.Rows)),
				slog.Duration("elapsed", time.Since(start)))
			job.res, job.rs = res, rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	mode := outputMode(cfg, w)
	if mode == config.OutputJSON {
		outputs := make([]ExecOutput, 0, len(jobs))
		for _, job := range jobs {
			params := job.res.Params
			if params == nil {
				params = []any{}
			}
			outputs = append(outputs, ExecOutput{
				Document: job.path,
				Name:     job.doc.Name,
				SQL:      job.res.SQL,
				Params:   params,
				Rows:     resultRows(job.rs),
			})
		}
		return writeJSON(w, outputs)
	}

	for i, job := range jobs {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		if mode == config.OutputMarkdown {
			_, _ = fmt.Fprintf(w, "## %s\n\n", job.doc.Name)
		} else {
			_, _ = fmt.Fprintf(w, "-- %s\n", job.doc.Name)
		}
		if err := renderResults(w, job.rs, mode); err != nil {
			return err
		}
	}
	return nil
}
