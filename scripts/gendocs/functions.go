package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

// generateFunctionDocs writes an index comparing dialects and one page per
// dialect listing its functions. Dialects are registered by the cli import
// in cli.go.
func generateFunctionDocs(outDir string) error {
	log.Printf("Generating function docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	names := dialect.List()
	dialects := make([]*dialect.Dialect, 0, len(names))
	for _, name := range names {
		d, err := dialect.Lookup(name)
		if err != nil {
			return err
		}
		dialects = append(dialects, d)
	}

	if err := generateFunctionIndex(dialects, outDir); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, d := range dialects {
		if err := generateDialectPage(d, outDir); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", d.Name(), err)
		}
		log.Printf("  Generated %s.md", d.Name())
	}
	return nil
}

// generateFunctionIndex writes the availability matrix of every function
// across dialects.
func generateFunctionIndex(dialects []*dialect.Dialect, outDir string) error {
	w := NewMarkdownWriter()
	w.Frontmatter("Functions", "Portable SQL functions and their availability per dialect")
	w.GeneratedMarker()

	w.Header(1, "Functions")
	w.Paragraph("Each dialect renders the portable functions natively where it can and emulates them otherwise. A dash marks a function the dialect does not provide.")

	w.Header(2, "Dialects")
	dialectRows := make([][]string, 0, len(dialects))
	for _, d := range dialects {
		cfg := d.Config()
		dialectRows = append(dialectRows, []string{
			fmt.Sprintf("[%s](/functions/%s)", InlineCode(d.Name()), d.Name()),
			InlineCode(d.FormatPlaceholder(1)),
			cfg.SeriesStrategy.String(),
			cfg.HypotheticalSet.String(),
		})
	}
	w.Table([]string{"Dialect", "Placeholder", "generate_series", "Hypothetical set"}, dialectRows)

	w.Header(2, "Availability")
	seen := make(map[string]bool)
	var all []string
	for _, d := range dialects {
		for _, name := range d.Functions().Names() {
			if !seen[name] {
				seen[name] = true
				all = append(all, name)
			}
		}
	}
	slices.Sort(all)

	headers := []string{"Function"}
	for _, d := range dialects {
		headers = append(headers, d.Name())
	}
	rows := make([][]string, 0, len(all))
	for _, name := range all {
		row := []string{InlineCode(name)}
		for _, d := range dialects {
			mark := "-"
			if _, ok := d.Functions().Find(name); ok {
				mark = "yes"
			}
			row = append(row, mark)
		}
		rows = append(rows, row)
	}
	w.Table(headers, rows)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateDialectPage writes the function reference of one dialect.
func generateDialectPage(d *dialect.Dialect, outDir string) error {
	w := NewMarkdownWriter()
	w.Frontmatter(d.Name(), fmt.Sprintf("Functions available in the %s dialect", d.Name()))
	w.GeneratedMarker()

	w.Header(1, d.Name())

	reg := d.Functions()
	byKind := make(map[function.Kind][]*function.Descriptor)
	for _, name := range reg.Names() {
		desc, _ := reg.Find(name)
		byKind[desc.Kind] = append(byKind[desc.Kind], desc)
	}

	kinds := []function.Kind{
		function.Scalar, function.Aggregate, function.OrderedSetAggregate,
		function.Window, function.SetReturning,
	}
	for _, kind := range kinds {
		descs := byKind[kind]
		if len(descs) == 0 {
			continue
		}
		w.Header(2, kindHeading(kind))

		rows := make([][]string, 0, len(descs))
		for _, desc := range descs {
			aliases := reg.Aliases(desc.Name)
			for i, a := range aliases {
				aliases[i] = InlineCode(a)
			}
			rows = append(rows, []string{
				InlineCode(desc.Name),
				InlineCode(desc.Signature()),
				desc.ReturnTypeName(),
				strings.Join(aliases, ", "),
				cleanDescription(desc.Description),
			})
		}
		w.Table([]string{"Function", "Signature", "Returns", "Aliases", "Description"}, rows)
	}

	return os.WriteFile(filepath.Join(outDir, d.Name()+".md"), w.Bytes(), 0600)
}

// kindHeading titles the section listing functions of one kind.
func kindHeading(kind function.Kind) string {
	return cases.Title(language.English).String(kind.String()) + " functions"
}
