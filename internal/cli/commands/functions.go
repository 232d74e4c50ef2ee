package commands

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlfn/internal/cli/config"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
)

// defaultDialect is listed when neither --dialect nor the config names one.
const defaultDialect = "ansi"

type functionInfo struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Signature   string   `json:"signature"`
	Returns     string   `json:"returns"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description,omitempty"`
}

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "functions [pattern]",
		Short: "List the functions a dialect provides",
		Long: `List the portable functions registered for a dialect with their
signature and return type.

The optional pattern filters by name. Glob characters are honored,
otherwise the pattern matches any part of the name.`,
		Example: `  # All functions of the default dialect
  sqlfn functions

  # String functions available on SQL Server
  sqlfn functions --dialect sqlserver 'trim*'

  # Machine readable
  sqlfn functions -d postgres -o json percentile`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			return runFunctions(cmd, pattern)
		},
	}
}

func runFunctions(cmd *cobra.Command, pattern string) error {
	cfg := config.FromContext(cmd.Context())
	w := cmd.OutOrStdout()

	name := cfg.Dialect
	if name == "" {
		name = defaultDialect
	}
	d, err := dialect.Lookup(name)
	if err != nil {
		return err
	}

	reg := d.Functions()
	var infos []functionInfo
	for _, fn := range reg.Names() {
		ok, err := matchName(pattern, fn)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		desc, _ := reg.Find(fn)
		infos = append(infos, functionInfo{
			Name:        desc.Name,
			Kind:        desc.Kind.String(),
			Signature:   desc.Signature(),
			Returns:     desc.ReturnTypeName(),
			Aliases:     reg.Aliases(fn),
			Description: desc.Description,
		})
	}

	mode := outputMode(cfg, w)
	if mode == config.OutputJSON {
		return writeJSON(w, infos)
	}

	t := newTable(w, "Function", "Kind", "Signature", "Returns", "Aliases")
	for _, info := range infos {
		t.AppendRow([]any{info.Name, info.Kind, info.Signature, info.Returns, strings.Join(info.Aliases, ", ")})
	}
	renderTable(t, mode)
	_, _ = fmt.Fprintf(w, "(%d functions, dialect %s)\n", len(infos), d.Name())
	return nil
}

func matchName(pattern, name string) (bool, error) {
	if pattern == "" {
		return true, nil
	}
	pattern = strings.ToLower(pattern)
	if !strings.ContainsAny(pattern, "*?[") {
		return strings.Contains(name, pattern), nil
	}
	ok, err := path.Match(pattern, name)
	if err != nil {
		return false, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return ok, nil
}
