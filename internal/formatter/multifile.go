package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/erdsketch/internal/diagram"
)

// MultiFileFormatter writes a diagram to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) (*MultiFileFormatter, error) {
	normalized := normalizeFormat(format)
	switch normalized {
	case formatText, formatMarkdown:
	default:
		return nil, fmt.Errorf("unsupported multi-file format: %s (must be text or markdown)", format)
	}
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: normalized,
	}, nil
}

// Format writes an overview file and one file per table
func (f *MultiFileFormatter) Format(c diagram.ComparableDiagram) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(c); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	used := make(map[string]bool)
	for _, table := range c.Nodes {
		name := f.fileName(table.TableName, used)
		if err := f.writeTableFile(name, table, c); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", displayName(table.TableName), err)
		}
	}

	return nil
}

// fileName derives a file name from the table name. A taken name gets the
// first free numeric suffix so no table overwrites another.
func (f *MultiFileFormatter) fileName(tableName string, used map[string]bool) string {
	base := mermaidToken(tableName, "_unnamed")
	name := base
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	used[name] = true
	return name + f.getFileExtension()
}

func (f *MultiFileFormatter) writeOverview(c diagram.ComparableDiagram) error {
	filename := filepath.Join(f.OutputDir, "_overview"+f.getFileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	sorted := make([]diagram.ComparableTable, len(c.Nodes))
	copy(sorted, c.Nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TableName < sorted[j].TableName
	})

	if f.OutputFormat == formatMarkdown {
		_, _ = fmt.Fprintf(file, "# Diagram Overview\n\n")
		_, _ = fmt.Fprintf(file, "Each table has a corresponding file: `<table_name>%s`\n\n", f.getFileExtension())
		_, _ = fmt.Fprintf(file, "## Tables\n\n")
	} else {
		_, _ = fmt.Fprintf(file, "DIAGRAM OVERVIEW\n")
		_, _ = fmt.Fprintf(file, "Each table has a file: <table_name>%s\n\n", f.getFileExtension())
	}

	for _, table := range sorted {
		if f.OutputFormat == formatMarkdown {
			_, _ = fmt.Fprintf(file, "- **%s**", displayName(table.TableName))
		} else {
			_, _ = fmt.Fprintf(file, "%s", displayName(table.TableName))
		}

		if refs := outgoing(c, table.TableName); len(refs) > 0 {
			targets := make([]string, 0, len(refs))
			for _, ref := range refs {
				targets = append(targets, displayName(ref.TargetTable))
			}
			_, _ = fmt.Fprintf(file, " (references: %s)", strings.Join(targets, ", "))
		}
		_, _ = fmt.Fprintf(file, "\n")
	}

	return nil
}

func (f *MultiFileFormatter) writeTableFile(name string, table diagram.ComparableTable, c diagram.ComparableDiagram) error {
	file, err := os.Create(filepath.Join(f.OutputDir, name))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	f.formatTable(file, table, c)
	return nil
}

func (f *MultiFileFormatter) formatTable(w io.Writer, table diagram.ComparableTable, c diagram.ComparableDiagram) {
	refs := outgoing(c, table.TableName)
	referencedBy := incoming(c, table.TableName)

	if f.OutputFormat == formatMarkdown {
		md := NewMarkdownFormatter(w)
		_, _ = fmt.Fprintf(w, "## %s\n\n", displayName(table.TableName))
		md.formatAttributes(table.Attributes)
		md.formatReferences(refs)
		md.formatReferencedBy(referencedBy)
		return
	}

	NewTextFormatter(w).formatTable(table, refs)
	if len(referencedBy) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "  REFERENCED BY:")
		for _, ref := range referencedBy {
			_, _ = fmt.Fprintf(w, "    %s.%s → %s (%s)\n",
				displayName(ref.SourceTable), ref.SourceAttribute, ref.TargetAttribute, ref.Kind)
		}
	}
}

func (f *MultiFileFormatter) getFileExtension() string {
	if f.OutputFormat == formatMarkdown {
		return ".md"
	}
	return ".txt"
}
