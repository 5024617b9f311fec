package diagram

// TableID identifies a table within one diagram. Ids are never reused.
type TableID int

// Position is a canvas coordinate. It never takes part in canonicalization.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GridPosition lays tables out four per row for diagrams that were not drawn by hand.
func GridPosition(i int) Position {
	return Position{
		X: float64(250 * (i % 4)),
		Y: float64(200 * (i / 4)),
	}
}

// Table is a node of the diagram. Tables stored in a Diagram are never mutated
// in place; a change replaces the stored pointer (see Diagram.FoldBack).
type Table struct {
	ID         TableID     `json:"id"`
	Name       string      `json:"name"`
	Attributes []Attribute `json:"attributes"`
	Position   Position    `json:"position"`

	revision uint64
}

// Attribute looks up an attribute by id and returns its index.
func (t *Table) Attribute(id int) (Attribute, int, bool) {
	for i, attr := range t.Attributes {
		if attr.ID == id {
			return attr, i, true
		}
	}
	return Attribute{}, -1, false
}

// AttributeByHandle finds the attribute a handle points at.
func (t *Table) AttributeByHandle(handle string) (Attribute, bool) {
	for _, attr := range t.Attributes {
		if attr.FieldType != None && attr.Handle() == handle {
			return attr, true
		}
	}
	return Attribute{}, false
}

// NextAttributeID is max(existing ids)+1, or 0 for an empty table.
func (t *Table) NextAttributeID() int {
	if len(t.Attributes) == 0 {
		return 0
	}
	next := t.Attributes[0].ID
	for _, attr := range t.Attributes[1:] {
		if attr.ID > next {
			next = attr.ID
		}
	}
	return next + 1
}

// Clone returns a deep copy that shares nothing with t.
func (t *Table) Clone() *Table {
	c := *t
	c.Attributes = make([]Attribute, len(t.Attributes))
	copy(c.Attributes, t.Attributes)
	return &c
}
