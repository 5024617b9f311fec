package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/erdsketch/internal/diagram"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
	formatMermaid  = "mermaid"
	formatYAML     = "yaml"
	formatJSON     = "json"

	unnamed = "(unnamed)"
)

// Formatter writes a canonical diagram in one output format.
type Formatter interface {
	Format(c diagram.ComparableDiagram) error
}

// Formats lists the names accepted by New.
var Formats = []string{formatText, formatMarkdown, formatMermaid, formatYAML, formatJSON}

// New returns the formatter registered under format.
func New(format string, w io.Writer) (Formatter, error) {
	switch normalizeFormat(format) {
	case formatText:
		return NewTextFormatter(w), nil
	case formatMarkdown:
		return NewMarkdownFormatter(w), nil
	case formatMermaid:
		return NewMermaidFormatter(w), nil
	case formatYAML:
		return NewYAMLFormatter(w), nil
	case formatJSON:
		return NewJSONFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (must be one of %s)", format, strings.Join(Formats, ", "))
	}
}

// normalizeFormat lower-cases a format name and resolves its aliases.
func normalizeFormat(format string) string {
	switch f := strings.ToLower(format); f {
	case "md":
		return formatMarkdown
	case "yml":
		return formatYAML
	default:
		return f
	}
}

// Reference is a relationship seen from one of its tables.
type Reference struct {
	SourceTable     string
	SourceAttribute string
	TargetTable     string
	TargetAttribute string
	Kind            diagram.Kind
}

func toReference(edge diagram.ComparableRelationship) Reference {
	return Reference{
		SourceTable:     edge.SourceTableName,
		SourceAttribute: handleAttribute(edge.SourceHandle),
		TargetTable:     edge.TargetTableName,
		TargetAttribute: handleAttribute(edge.TargetHandle),
		Kind:            edge.Type,
	}
}

// outgoing returns the relationships leaving the named table.
func outgoing(c diagram.ComparableDiagram, tableName string) []Reference {
	var refs []Reference
	for _, edge := range c.Edges {
		if edge.SourceTableName == tableName {
			refs = append(refs, toReference(edge))
		}
	}
	return refs
}

// incoming returns the relationships pointing at the named table.
func incoming(c diagram.ComparableDiagram, tableName string) []Reference {
	var refs []Reference
	for _, edge := range c.Edges {
		if edge.TargetTableName == tableName {
			refs = append(refs, toReference(edge))
		}
	}
	return refs
}

// handleAttribute strips the role prefix from a handle. Malformed handles are
// shown as they are.
func handleAttribute(handle string) string {
	_, name, err := diagram.ParseHandle(handle)
	if err != nil {
		return handle
	}
	return name
}

func displayName(name string) string {
	if name == "" {
		return unnamed
	}
	return name
}

func keyOf(t diagram.ComparableTable) []string {
	var keys []string
	for _, attr := range t.Attributes {
		if attr.FieldType == diagram.PrimaryKey {
			keys = append(keys, displayName(attr.Name))
		}
	}
	return keys
}

// DescribeKind spells out a relationship kind from the source table's side.
func DescribeKind(kind diagram.Kind, source, target string) string {
	if kind == diagram.OneToOne {
		return fmt.Sprintf("each %s has at most one %s", displayName(target), displayName(source))
	}
	return fmt.Sprintf("many %s to one %s", displayName(source), displayName(target))
}
