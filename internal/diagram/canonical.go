package diagram

// ComparableAttribute is an attribute without its id.
type ComparableAttribute struct {
	FieldType FieldType `json:"fieldType" yaml:"fieldType"`
	Name      string    `json:"name" yaml:"name"`
	Type      string    `json:"type" yaml:"type"`
}

// ComparableTable is a table reduced to its name and attribute sequence.
type ComparableTable struct {
	TableName  string                `json:"tableName" yaml:"tableName"`
	Attributes []ComparableAttribute `json:"attributes" yaml:"attributes"`
}

// ComparableRelationship names its endpoints by table name instead of table id.
type ComparableRelationship struct {
	SourceTableName string `json:"sourceTableName" yaml:"sourceTableName"`
	TargetTableName string `json:"targetTableName" yaml:"targetTableName"`
	SourceHandle    string `json:"sourceHandle" yaml:"sourceHandle"`
	TargetHandle    string `json:"targetHandle" yaml:"targetHandle"`
	Type            Kind   `json:"type" yaml:"type"`
}

// ComparableDiagram is a diagram with ids and positions erased. Two diagrams
// describing the same schema, with tables and attributes declared in the same
// order, have deeply equal ComparableDiagrams.
type ComparableDiagram struct {
	Nodes []ComparableTable        `json:"nodes" yaml:"nodes"`
	Edges []ComparableRelationship `json:"edges" yaml:"edges"`
}

// Canonicalize projects the live diagram onto a ComparableDiagram. Tables and
// relationships keep diagram order. A relationship whose table no longer exists
// gets "" for that table's name. Slices in the result are never nil.
func Canonicalize(d *Diagram) ComparableDiagram {
	names := make(map[TableID]string, len(d.tables))
	nodes := make([]ComparableTable, 0, len(d.tables))
	for _, t := range d.tables {
		names[t.ID] = t.Name

		attrs := make([]ComparableAttribute, 0, len(t.Attributes))
		for _, attr := range t.Attributes {
			attrs = append(attrs, ComparableAttribute{
				FieldType: attr.FieldType,
				Name:      attr.Name,
				Type:      attr.Type,
			})
		}
		nodes = append(nodes, ComparableTable{TableName: t.Name, Attributes: attrs})
	}

	edges := make([]ComparableRelationship, 0, len(d.relationships))
	for _, rel := range d.relationships {
		edges = append(edges, ComparableRelationship{
			SourceTableName: names[rel.SourceTableID],
			TargetTableName: names[rel.TargetTableID],
			SourceHandle:    rel.SourceHandle,
			TargetHandle:    rel.TargetHandle,
			Type:            rel.Kind,
		})
	}

	return ComparableDiagram{Nodes: nodes, Edges: edges}
}

// FromComparable rebuilds a live diagram from a snapshot with fresh ids and grid
// positions. Edge endpoints resolve to the first table carrying the name. Each
// edge must pass the same checks as Connect: handle roles are normalised and
// must name an FK attribute on the source and a PK attribute on the target.
// Edges that fail are returned instead of being added. Duplicate edges and
// kinds are kept as they are, so a valid snapshot round-trips.
func FromComparable(c ComparableDiagram) (*Diagram, []ComparableRelationship) {
	d := New()
	byName := make(map[string]TableID, len(c.Nodes))
	for i, node := range c.Nodes {
		attrs := make([]Attribute, 0, len(node.Attributes))
		for _, attr := range node.Attributes {
			attrs = append(attrs, Attribute{FieldType: attr.FieldType, Name: attr.Name, Type: attr.Type})
		}
		t := d.SeedTable(node.TableName, GridPosition(i), attrs)
		if _, seen := byName[node.TableName]; !seen {
			byName[node.TableName] = t.ID
		}
	}

	var skipped []ComparableRelationship
	for _, edge := range c.Edges {
		source, okSource := byName[edge.SourceTableName]
		target, okTarget := byName[edge.TargetTableName]
		if !okSource || !okTarget {
			skipped = append(skipped, edge)
			continue
		}
		sourceHandle, targetHandle, err := d.validateConnection(source, edge.SourceHandle, target, edge.TargetHandle)
		if err != nil {
			skipped = append(skipped, edge)
			continue
		}
		kind := edge.Type
		if kind != OneToOne {
			kind = ManyToOne
		}
		d.appendRelationship(Relationship{
			SourceTableID: source,
			TargetTableID: target,
			SourceHandle:  sourceHandle,
			TargetHandle:  targetHandle,
			Kind:          kind,
		})
	}
	return d, skipped
}
