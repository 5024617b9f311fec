package formatter

import (
	"encoding/json"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/tordrt/erdsketch/internal/diagram"
)

// YAMLFormatter writes the canonical diagram as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the diagram as a YAML document
func (f *YAMLFormatter) Format(c diagram.ComparableDiagram) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))
	if err := encoder.Encode(nonNil(c)); err != nil {
		return err
	}
	return encoder.Close()
}

// JSONFormatter writes the canonical diagram as indented JSON.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// Format writes the diagram as a JSON document
func (f *JSONFormatter) Format(c diagram.ComparableDiagram) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(nonNil(c))
}

func nonNil(c diagram.ComparableDiagram) diagram.ComparableDiagram {
	if c.Nodes == nil {
		c.Nodes = []diagram.ComparableTable{}
	}
	if c.Edges == nil {
		c.Edges = []diagram.ComparableRelationship{}
	}
	return c
}
