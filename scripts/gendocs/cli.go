package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/sqlfn/internal/cli"
	"github.com/leapstack-labs/sqlfn/internal/cli/config"
)

// sampleConfig is the sqlfn.yaml shown on the index page.
const sampleConfig = `dialect: sqlite
max_series_size: 1000
target:
  type: sqlite
  path: ./dev.db
environments:
  prod:
    dialect: postgres
    target:
      type: postgres
      host: db.internal
      database: analytics
      user: ${PGUSER}
      password: ${PGPASSWORD}`

var outputDescriptions = map[string]string{
	config.OutputAuto:     "text on a terminal, markdown otherwise",
	config.OutputText:     "aligned tables and plain SQL",
	config.OutputMarkdown: "markdown tables and fenced SQL blocks",
	config.OutputJSON:     "one JSON document on stdout",
}

// generateCLIDocs writes an index page and one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	commands := documentedCommands(root)

	if err := generateCLIIndex(root, commands, outDir); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, cmd := range commands {
		if err := generateCommandPage(cmd, outDir); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
		log.Printf("  Generated %s.md", cmd.Name())
	}
	return nil
}

func documentedCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func generateCLIIndex(root *cobra.Command, commands []*cobra.Command, outDir string) error {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for sqlfn")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/sqlfn/cmd/sqlfn@latest")

	w.Header(2, "Commands")
	rows := make([][]string, 0, len(commands))
	for _, cmd := range commands {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Output Formats")
	formats := make([][]string, 0, len(config.OutputFormats))
	for _, f := range config.OutputFormats {
		formats = append(formats, []string{InlineCode(f), outputDescriptions[f]})
	}
	w.Table([]string{"Format", "Description"}, formats)

	w.Header(2, "Configuration")
	w.Paragraph("Settings are read from sqlfn.yaml in the working directory or one of its parents. " +
		"Environment variables override the file and flags override both. " +
		"Target fields expand ${VAR} references.")
	w.CodeBlock("yaml", sampleConfig)
	w.Table([]string{"Variable", "Flag"}, envRows(root.PersistentFlags()))
	w.Paragraph("Nested keys use a double underscore, for example " + InlineCode("SQLFN_TARGET__PATH") + ".")

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// envRows lists the environment variable of every flag that maps to a
// configuration key.
func envRows(flags *pflag.FlagSet) [][]string {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "config" || f.Name == "target" {
			return
		}
		rows = append(rows, []string{InlineCode(envName(f.Name)), InlineCode("--" + f.Name)})
	})
	return rows
}

func envName(flag string) string {
	return "SQLFN_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

func generateCommandPage(cmd *cobra.Command, outDir string) error {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	w.Paragraph("Global options are listed in the [CLI reference](/cli).")

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}

	return os.WriteFile(filepath.Join(outDir, cmd.Name()+".md"), w.Bytes(), 0600)
}

func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		def := f.DefValue
		if def != "" && f.Value.Type() != "bool" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// dedent strips the indentation shared by every non-blank line.
func dedent(text string) string {
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimSpace(line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
