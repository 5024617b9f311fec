// Package diagram holds the entity-relationship model behind the editor: tables
// with ordered, keyed attributes, relationships between a foreign key and a
// primary key, the guard that keeps relationships referentially sound, and the
// canonical snapshot used to compare two diagrams.
//
// A Diagram is the single source of truth. Tables are edited through a
// TableEditor, which works on an owned copy and folds it back into the diagram
// after every change. The package does no locking; callers that share a
// Diagram between goroutines serialise access themselves.
package diagram

import "fmt"

// Diagram is the aggregate root: an ordered table list and the relationships between them.
type Diagram struct {
	tables        []*Table
	relationships []Relationship

	nextTableID        TableID
	nextRelationshipID RelationshipID
}

// New creates an empty diagram.
func New() *Diagram {
	return &Diagram{}
}

// AddTable appends an unnamed table with no attributes.
func (d *Diagram) AddTable(pos Position) *Table {
	return d.SeedTable("", pos, nil)
}

// SeedTable appends a table with the given name and attributes. Attribute ids
// are reassigned densely from 0 in the given order.
func (d *Diagram) SeedTable(name string, pos Position, attrs []Attribute) *Table {
	t := &Table{
		ID:         d.nextTableID,
		Name:       name,
		Attributes: make([]Attribute, len(attrs)),
		Position:   pos,
	}
	for i, attr := range attrs {
		attr.ID = i
		t.Attributes[i] = attr
	}
	d.nextTableID++
	d.tables = append(d.tables, t)
	return t
}

// Table returns the stored table with the given id. The returned table must not be modified.
func (d *Diagram) Table(id TableID) (*Table, bool) {
	i := d.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return d.tables[i], true
}

// Tables returns the tables in diagram order. The slice is fresh but the
// tables are the stored ones, so pointer equality tells which tables changed
// between two reads.
func (d *Diagram) Tables() []*Table {
	tables := make([]*Table, len(d.tables))
	copy(tables, d.tables)
	return tables
}

// RemoveTable deletes a table unconditionally. Relationships that reference
// it are kept; canonicalization resolves their missing endpoint to "".
func (d *Diagram) RemoveTable(id TableID) error {
	i := d.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrTableNotFound, id)
	}
	tables := make([]*Table, 0, len(d.tables)-1)
	tables = append(tables, d.tables[:i]...)
	d.tables = append(tables, d.tables[i+1:]...)
	return nil
}

// FoldBack replaces the stored table whose id matches local with a copy of
// local. Every other table keeps its pointer. A local copy taken before the
// stored table last changed is refused with ErrStaleEditor.
func (d *Diagram) FoldBack(local *Table) error {
	i := d.indexOf(local.ID)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrTableNotFound, local.ID)
	}
	if d.tables[i].revision != local.revision {
		return fmt.Errorf("%w: table %d", ErrStaleEditor, local.ID)
	}

	stored := local.Clone()
	stored.revision++

	tables := make([]*Table, len(d.tables))
	copy(tables, d.tables)
	tables[i] = stored
	d.tables = tables

	local.revision = stored.revision
	return nil
}

// Relationships returns a copy of the relationship list in creation order.
func (d *Diagram) Relationships() []Relationship {
	rels := make([]Relationship, len(d.relationships))
	copy(rels, d.relationships)
	return rels
}

// Relationship returns the relationship with the given id.
func (d *Diagram) Relationship(id RelationshipID) (Relationship, bool) {
	for _, rel := range d.relationships {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// IsLoadBearing runs the guard against the diagram's current relationships.
func (d *Diagram) IsLoadBearing(table *Table, attributeID int) bool {
	return IsLoadBearing(d.relationships, table, attributeID)
}

// Connect creates a ManyToOne relationship from an FK handle on the source
// table to a PK handle on the target table. Connecting the same endpoints twice
// returns the existing relationship.
func (d *Diagram) Connect(sourceTableID TableID, sourceHandle string, targetTableID TableID, targetHandle string) (Relationship, error) {
	sourceHandle, targetHandle, err := d.validateConnection(sourceTableID, sourceHandle, targetTableID, targetHandle)
	if err != nil {
		return Relationship{}, err
	}

	rel := Relationship{
		SourceTableID: sourceTableID,
		TargetTableID: targetTableID,
		SourceHandle:  sourceHandle,
		TargetHandle:  targetHandle,
		Kind:          ManyToOne,
	}
	for _, existing := range d.relationships {
		if existing.sameEndpoints(rel) {
			return existing, nil
		}
	}
	return d.appendRelationship(rel), nil
}

func (d *Diagram) validateConnection(sourceTableID TableID, sourceHandle string, targetTableID TableID, targetHandle string) (string, string, error) {
	source, ok := d.Table(sourceTableID)
	if !ok {
		return "", "", fmt.Errorf("%w: source %d", ErrTableNotFound, sourceTableID)
	}
	target, ok := d.Table(targetTableID)
	if !ok {
		return "", "", fmt.Errorf("%w: target %d", ErrTableNotFound, targetTableID)
	}

	sourceRole, sourceName, err := ParseHandle(sourceHandle)
	if err != nil {
		return "", "", err
	}
	targetRole, targetName, err := ParseHandle(targetHandle)
	if err != nil {
		return "", "", err
	}
	if sourceRole != RoleFK {
		return "", "", fmt.Errorf("%w: source handle %q must be a foreign key", ErrInvalidConnection, sourceHandle)
	}
	if targetRole != RolePK {
		return "", "", fmt.Errorf("%w: target handle %q must be a primary key", ErrInvalidConnection, targetHandle)
	}

	sourceHandle = FormatHandle(sourceRole, sourceName)
	targetHandle = FormatHandle(targetRole, targetName)
	if _, ok := source.AttributeByHandle(sourceHandle); !ok {
		return "", "", fmt.Errorf("%w: table %d has no attribute for %q", ErrInvalidConnection, sourceTableID, sourceHandle)
	}
	if _, ok := target.AttributeByHandle(targetHandle); !ok {
		return "", "", fmt.Errorf("%w: table %d has no attribute for %q", ErrInvalidConnection, targetTableID, targetHandle)
	}
	return sourceHandle, targetHandle, nil
}

func (d *Diagram) appendRelationship(rel Relationship) Relationship {
	rel.ID = d.nextRelationshipID
	d.nextRelationshipID++
	d.relationships = append(d.relationships, rel)
	return rel
}

// Disconnect removes a relationship.
func (d *Diagram) Disconnect(id RelationshipID) error {
	for i, rel := range d.relationships {
		if rel.ID == id {
			rels := make([]Relationship, 0, len(d.relationships)-1)
			rels = append(rels, d.relationships[:i]...)
			d.relationships = append(rels, d.relationships[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrRelationshipNotFound, id)
}

// ToggleKind flips the cardinality of one relationship in place.
func (d *Diagram) ToggleKind(id RelationshipID) (Relationship, error) {
	for i, rel := range d.relationships {
		if rel.ID == id {
			d.relationships[i] = rel.Toggled()
			return d.relationships[i], nil
		}
	}
	return Relationship{}, fmt.Errorf("%w: %d", ErrRelationshipNotFound, id)
}

// Edit opens an editor on a working copy of the table.
func (d *Diagram) Edit(id TableID) (*TableEditor, error) {
	t, ok := d.Table(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrTableNotFound, id)
	}
	return &TableEditor{diagram: d, working: t.Clone()}, nil
}

func (d *Diagram) indexOf(id TableID) int {
	for i, t := range d.tables {
		if t.ID == id {
			return i
		}
	}
	return -1
}
