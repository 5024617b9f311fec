package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/erdsketch/internal/diagram"
)

// TextFormatter formats a diagram as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the diagram in compact text format
func (f *TextFormatter) Format(c diagram.ComparableDiagram) error {
	for i, table := range c.Nodes {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}
		f.formatTable(table, outgoing(c, table.TableName))
	}
	return nil
}

func (f *TextFormatter) formatTable(table diagram.ComparableTable, refs []Reference) {
	pkStr := ""
	if keys := keyOf(table); len(keys) > 0 {
		pkStr = fmt.Sprintf(" (PK: %s)", strings.Join(keys, ", "))
	}
	_, _ = fmt.Fprintf(f.writer, "TABLE %s%s\n", displayName(table.TableName), pkStr)

	for _, attr := range table.Attributes {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", formatAttribute(attr))
	}

	if len(refs) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  RELATIONS:")
		for _, ref := range refs {
			_, _ = fmt.Fprintf(f.writer, "    %s → %s.%s (%s)\n",
				ref.SourceAttribute, displayName(ref.TargetTable), ref.TargetAttribute, ref.Kind)
		}
	}
}

func formatAttribute(attr diagram.ComparableAttribute) string {
	parts := []string{displayName(attr.Name) + ":"}
	if attr.Type != "" {
		parts = append(parts, attr.Type)
	}
	if attr.FieldType != diagram.None {
		parts = append(parts, string(attr.FieldType))
	}
	return strings.Join(parts, " ")
}
