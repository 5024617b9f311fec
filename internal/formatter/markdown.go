package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/erdsketch/internal/diagram"
)

// MarkdownFormatter formats a diagram as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the diagram in markdown format
func (f *MarkdownFormatter) Format(c diagram.ComparableDiagram) error {
	_, _ = fmt.Fprintln(f.writer, "# Diagram")
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range c.Nodes {
		_, _ = fmt.Fprintf(f.writer, "## %s\n\n", displayName(table.TableName))
		f.formatAttributes(table.Attributes)
		f.formatReferences(outgoing(c, table.TableName))
	}
	return nil
}

func (f *MarkdownFormatter) formatAttributes(attrs []diagram.ComparableAttribute) {
	_, _ = fmt.Fprintln(f.writer, "### Attributes")
	_, _ = fmt.Fprintln(f.writer)

	if len(attrs) == 0 {
		_, _ = fmt.Fprintln(f.writer, "_none_")
		_, _ = fmt.Fprintln(f.writer)
		return
	}

	for _, attr := range attrs {
		typeStr := attr.Type
		if typeStr == "" {
			typeStr = "-"
		}
		if attr.FieldType != diagram.None {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, %s\n", displayName(attr.Name), typeStr, attr.FieldType)
		} else {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", displayName(attr.Name), typeStr)
		}
	}
	_, _ = fmt.Fprintln(f.writer)
}

func (f *MarkdownFormatter) formatReferences(refs []Reference) {
	if len(refs) == 0 {
		return
	}
	_, _ = fmt.Fprintln(f.writer, "### References")
	_, _ = fmt.Fprintln(f.writer)
	for _, ref := range refs {
		_, _ = fmt.Fprintf(f.writer, "- %s → %s.%s (%s)\n",
			ref.SourceAttribute, displayName(ref.TargetTable), ref.TargetAttribute,
			DescribeKind(ref.Kind, ref.SourceTable, ref.TargetTable))
	}
	_, _ = fmt.Fprintln(f.writer)
}

func (f *MarkdownFormatter) formatReferencedBy(refs []Reference) {
	if len(refs) == 0 {
		return
	}
	_, _ = fmt.Fprintln(f.writer, "### Referenced by")
	_, _ = fmt.Fprintln(f.writer)
	for _, ref := range refs {
		_, _ = fmt.Fprintf(f.writer, "- %s.%s → %s (%s)\n",
			displayName(ref.SourceTable), ref.SourceAttribute, ref.TargetAttribute,
			DescribeKind(ref.Kind, ref.SourceTable, ref.TargetTable))
	}
	_, _ = fmt.Fprintln(f.writer)
}
