package formatter

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/tordrt/erdsketch/internal/diagram"
)

// MermaidFormatter writes a Mermaid erDiagram block.
type MermaidFormatter struct {
	writer io.Writer
}

// NewMermaidFormatter creates a new Mermaid formatter
func NewMermaidFormatter(w io.Writer) *MermaidFormatter {
	return &MermaidFormatter{writer: w}
}

// Format writes relationships first, then one entity block per table.
// Relationships whose tables are missing from the diagram are left out.
func (f *MermaidFormatter) Format(c diagram.ComparableDiagram) error {
	var sb strings.Builder
	sb.WriteString("erDiagram\n")

	known := make(map[string]bool, len(c.Nodes))
	for _, table := range c.Nodes {
		known[table.TableName] = true
	}

	if len(c.Edges) > 0 {
		seen := make(map[string]bool)
		for _, edge := range c.Edges {
			if !known[edge.SourceTableName] || !known[edge.TargetTableName] {
				continue
			}
			key := fmt.Sprintf("%s:%s:%s:%s", edge.SourceTableName, edge.SourceHandle, edge.Type, edge.TargetTableName)
			if seen[key] {
				continue
			}
			seen[key] = true

			sb.WriteString(fmt.Sprintf("    %s %s %s : %q\n",
				mermaidEntity(edge.SourceTableName),
				mermaidCardinality(edge.Type),
				mermaidEntity(edge.TargetTableName),
				handleAttribute(edge.SourceHandle)))
		}
		sb.WriteString("\n")
	}

	for _, table := range c.Nodes {
		sb.WriteString(fmt.Sprintf("    %s {\n", mermaidEntity(table.TableName)))
		for _, attr := range table.Attributes {
			annotation := ""
			if attr.FieldType != diagram.None {
				annotation = " " + string(attr.FieldType)
			}
			sb.WriteString(fmt.Sprintf("        %s %s%s\n",
				mermaidToken(attr.Type, "unknown"),
				mermaidToken(attr.Name, "unnamed"),
				annotation))
		}
		sb.WriteString("    }\n\n")
	}

	_, err := io.WriteString(f.writer, sb.String())
	return err
}

// mermaidCardinality maps a kind to Mermaid crow's foot notation, source on the left.
func mermaidCardinality(kind diagram.Kind) string {
	if kind == diagram.OneToOne {
		return "|o--||"
	}
	return "}o--||"
}

func mermaidEntity(name string) string {
	return strings.ToUpper(mermaidToken(name, "unnamed"))
}

// mermaidToken replaces characters Mermaid does not accept in identifiers.
func mermaidToken(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, s)
}
