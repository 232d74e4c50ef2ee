package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlfn/internal/cli/config"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
)

type dialectInfo struct {
	Name            string `json:"name"`
	Placeholder     string `json:"placeholder"`
	Series          string `json:"series"`
	FilterClause    bool   `json:"filter_clause"`
	HypotheticalSet string `json:"hypothetical_set"`
	Functions       int    `json:"functions"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported SQL dialects",
		Long: `List the registered SQL dialects and the capabilities that decide
how portable functions are rendered for each of them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDialects(cmd)
		},
	}
}

func runDialects(cmd *cobra.Command) error {
	cfg := config.FromContext(cmd.Context())
	w := cmd.OutOrStdout()

	var infos []dialectInfo
	for _, name := range dialect.List() {
		d, err := dialect.Lookup(name)
		if err != nil {
			return err
		}
		dc := d.Config()
		infos = append(infos, dialectInfo{
			Name:            name,
			Placeholder:     d.FormatPlaceholder(1),
			Series:          dc.SeriesStrategy.String(),
			FilterClause:    dc.SupportsFilterClause,
			HypotheticalSet: dc.HypotheticalSet.String(),
			Functions:       len(d.Functions().Names()),
		})
	}

	mode := outputMode(cfg, w)
	if mode == config.OutputJSON {
		return writeJSON(w, infos)
	}

	t := newTable(w, "Dialect", "Placeholder", "Series", "Filter", "Hypothetical set", "Functions")
	for _, info := range infos {
		t.AppendRow([]any{
			info.Name, info.Placeholder, info.Series,
			yesNo(info.FilterClause), info.HypotheticalSet, info.Functions,
		})
	}
	renderTable(t, mode)
	_, _ = fmt.Fprintf(w, "(%d dialects)\n", len(infos))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
