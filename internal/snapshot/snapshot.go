// Package snapshot reads and writes canonical diagrams as JSON or YAML files.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/tordrt/erdsketch/internal/diagram"
)

// Format is a snapshot encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown snapshot format")

// ParseFormat accepts "json", "yaml" and "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Read decodes a snapshot and validates its field types and relationship kinds.
func Read(r io.Reader, format Format) (diagram.ComparableDiagram, error) {
	var c diagram.ComparableDiagram

	data, err := io.ReadAll(r)
	if err != nil {
		return c, fmt.Errorf("failed to read snapshot: %w", err)
	}

	switch format {
	case JSON:
		err = json.Unmarshal(data, &c)
	case YAML:
		err = yaml.Unmarshal(data, &c)
	default:
		return c, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return c, fmt.Errorf("failed to decode %s snapshot: %w", format, err)
	}

	if err := validate(c); err != nil {
		return c, err
	}
	return fill(c), nil
}

// ReadFile reads a snapshot file, choosing the format from its extension.
func ReadFile(path string) (diagram.ComparableDiagram, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return diagram.ComparableDiagram{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return diagram.ComparableDiagram{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	return Read(f, format)
}

// Write encodes c. Empty diagrams are written with empty lists, never null.
func Write(w io.Writer, c diagram.ComparableDiagram, format Format) error {
	c = fill(c)

	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("failed to encode json snapshot: %w", err)
		}
	case YAML:
		enc := yaml.NewEncoder(w, yaml.Indent(2))
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("failed to encode yaml snapshot: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}

// WriteFile writes c to path, choosing the format from its extension.
func WriteFile(path string, c diagram.ComparableDiagram) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := Write(f, c, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func validate(c diagram.ComparableDiagram) error {
	for i, node := range c.Nodes {
		for j, attr := range node.Attributes {
			if _, err := diagram.ParseFieldType(string(attr.FieldType)); err != nil {
				return fmt.Errorf("nodes[%d].attributes[%d]: %w", i, j, err)
			}
		}
	}
	for i, edge := range c.Edges {
		if _, err := diagram.ParseKind(string(edge.Type)); err != nil {
			return fmt.Errorf("edges[%d]: %w", i, err)
		}
		if err := validateHandle(edge.SourceHandle, diagram.RoleFK); err != nil {
			return fmt.Errorf("edges[%d].sourceHandle: %w", i, err)
		}
		if err := validateHandle(edge.TargetHandle, diagram.RolePK); err != nil {
			return fmt.Errorf("edges[%d].targetHandle: %w", i, err)
		}
	}
	return nil
}

func validateHandle(handle string, want diagram.Role) error {
	role, _, err := diagram.ParseHandle(handle)
	if err != nil {
		return err
	}
	if role != want {
		return fmt.Errorf("%w: %q must have role %q", diagram.ErrInvalidHandle, handle, want)
	}
	return nil
}

func fill(c diagram.ComparableDiagram) diagram.ComparableDiagram {
	if c.Nodes == nil {
		c.Nodes = []diagram.ComparableTable{}
	}
	if c.Edges == nil {
		c.Edges = []diagram.ComparableRelationship{}
	}
	for i := range c.Nodes {
		if c.Nodes[i].Attributes == nil {
			c.Nodes[i].Attributes = []diagram.ComparableAttribute{}
		}
	}
	return c
}
