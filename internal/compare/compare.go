// Package compare reports how two canonical diagrams differ. Equality is
// exact: same tables in the same order with the same attribute sequences, and
// the same relationships in the same order.
package compare

import (
	"fmt"
	"reflect"

	"github.com/tordrt/erdsketch/internal/diagram"
)

// Change is one difference found between the expected and the actual diagram.
// Expected or Actual is empty when the element exists on one side only.
type Change struct {
	Path     string
	Expected string
	Actual   string
}

// Result of comparing two diagrams.
type Result struct {
	Equal   bool
	Changes []Change
}

// Compare walks both diagrams position by position. Result.Equal is
// deep equality of the two diagrams, with nil and empty slices treated alike;
// Changes explains where they diverge.
func Compare(expected, actual diagram.ComparableDiagram) *Result {
	expected = normalise(expected)
	actual = normalise(actual)

	result := &Result{Equal: reflect.DeepEqual(expected, actual)}
	if result.Equal {
		return result
	}

	result.Changes = append(result.Changes, compareNodes(expected.Nodes, actual.Nodes)...)
	result.Changes = append(result.Changes, compareEdges(expected.Edges, actual.Edges)...)
	return result
}

func compareNodes(expected, actual []diagram.ComparableTable) []Change {
	var changes []Change
	for i := 0; i < max(len(expected), len(actual)); i++ {
		path := fmt.Sprintf("nodes[%d]", i)
		switch {
		case i >= len(actual):
			changes = append(changes, Change{Path: path, Expected: describeTable(expected[i])})
			continue
		case i >= len(expected):
			changes = append(changes, Change{Path: path, Actual: describeTable(actual[i])})
			continue
		}

		exp, act := expected[i], actual[i]
		if exp.TableName != act.TableName {
			changes = append(changes, Change{Path: path + ".tableName", Expected: exp.TableName, Actual: act.TableName})
		}
		for j := 0; j < max(len(exp.Attributes), len(act.Attributes)); j++ {
			attrPath := fmt.Sprintf("%s.attributes[%d]", path, j)
			switch {
			case j >= len(act.Attributes):
				changes = append(changes, Change{Path: attrPath, Expected: describeAttribute(exp.Attributes[j])})
			case j >= len(exp.Attributes):
				changes = append(changes, Change{Path: attrPath, Actual: describeAttribute(act.Attributes[j])})
			case exp.Attributes[j] != act.Attributes[j]:
				changes = append(changes, Change{
					Path:     attrPath,
					Expected: describeAttribute(exp.Attributes[j]),
					Actual:   describeAttribute(act.Attributes[j]),
				})
			}
		}
	}
	return changes
}

func compareEdges(expected, actual []diagram.ComparableRelationship) []Change {
	var changes []Change
	for i := 0; i < max(len(expected), len(actual)); i++ {
		path := fmt.Sprintf("edges[%d]", i)
		switch {
		case i >= len(actual):
			changes = append(changes, Change{Path: path, Expected: describeEdge(expected[i])})
		case i >= len(expected):
			changes = append(changes, Change{Path: path, Actual: describeEdge(actual[i])})
		case expected[i] != actual[i]:
			changes = append(changes, Change{Path: path, Expected: describeEdge(expected[i]), Actual: describeEdge(actual[i])})
		}
	}
	return changes
}

func normalise(c diagram.ComparableDiagram) diagram.ComparableDiagram {
	out := diagram.ComparableDiagram{
		Nodes: make([]diagram.ComparableTable, 0, len(c.Nodes)),
		Edges: make([]diagram.ComparableRelationship, 0, len(c.Edges)),
	}
	for _, node := range c.Nodes {
		attrs := make([]diagram.ComparableAttribute, 0, len(node.Attributes))
		attrs = append(attrs, node.Attributes...)
		out.Nodes = append(out.Nodes, diagram.ComparableTable{TableName: node.TableName, Attributes: attrs})
	}
	out.Edges = append(out.Edges, c.Edges...)
	return out
}

func describeTable(t diagram.ComparableTable) string {
	return fmt.Sprintf("table %q (%d attributes)", t.TableName, len(t.Attributes))
}

func describeAttribute(a diagram.ComparableAttribute) string {
	key := string(a.FieldType)
	if key == "" {
		key = "-"
	}
	return fmt.Sprintf("%s %s %s", key, a.Name, a.Type)
}

func describeEdge(e diagram.ComparableRelationship) string {
	return fmt.Sprintf("%s.%s -> %s.%s (%s)", e.SourceTableName, e.SourceHandle, e.TargetTableName, e.TargetHandle, e.Type)
}
