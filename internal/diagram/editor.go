package diagram

import "fmt"

// TableEditor edits one table through an owned working copy. Each mutating
// call builds the next copy, runs the guard against the diagram's live
// relationships, and folds the result back before returning, so there is never
// an uncommitted change visible anywhere. A failed call leaves both the
// working copy and the diagram untouched.
type TableEditor struct {
	diagram *Diagram
	working *Table
}

// Table returns a copy of the editor's working table.
func (e *TableEditor) Table() Table {
	return *e.working.Clone()
}

// AddRow appends an empty attribute with a fresh id.
func (e *TableEditor) AddRow() (Attribute, error) {
	next := e.working.Clone()
	attr := Attribute{ID: next.NextAttributeID()}
	next.Attributes = append(next.Attributes, attr)
	if err := e.commit(next); err != nil {
		return Attribute{}, err
	}
	return attr, nil
}

// RemoveRow deletes an attribute unless a relationship depends on it.
func (e *TableEditor) RemoveRow(attributeID int) error {
	if err := e.ensureFresh(); err != nil {
		return err
	}
	_, i, ok := e.working.Attribute(attributeID)
	if !ok {
		return fmt.Errorf("%w: %d in table %d", ErrAttributeNotFound, attributeID, e.working.ID)
	}
	if err := CheckRemove(e.diagram.relationships, e.working, attributeID); err != nil {
		return err
	}

	next := e.working.Clone()
	next.Attributes = append(next.Attributes[:i], next.Attributes[i+1:]...)
	return e.commit(next)
}

// EditAttribute sets one field of an attribute. Key role and name edits are
// refused while the attribute is load bearing; type edits never are.
func (e *TableEditor) EditAttribute(attributeID int, field Field, value string) error {
	if err := e.ensureFresh(); err != nil {
		return err
	}
	attr, i, ok := e.working.Attribute(attributeID)
	if !ok {
		return fmt.Errorf("%w: %d in table %d", ErrAttributeNotFound, attributeID, e.working.ID)
	}
	if err := CheckEdit(e.diagram.relationships, e.working, attributeID, field); err != nil {
		return err
	}

	switch field {
	case KeyField:
		ft, err := ParseFieldType(value)
		if err != nil {
			return err
		}
		attr.FieldType = ft
	case NameField:
		attr.Name = value
	case TypeField:
		attr.Type = value
	default:
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}

	next := e.working.Clone()
	next.Attributes[i] = attr
	return e.commit(next)
}

// Rename sets the table name. An empty name is allowed.
func (e *TableEditor) Rename(name string) error {
	next := e.working.Clone()
	next.Name = name
	return e.commit(next)
}

func (e *TableEditor) commit(next *Table) error {
	if err := e.diagram.FoldBack(next); err != nil {
		return err
	}
	e.working = next
	return nil
}

// ensureFresh makes the guard read the same attributes the diagram holds.
func (e *TableEditor) ensureFresh() error {
	stored, ok := e.diagram.Table(e.working.ID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrTableNotFound, e.working.ID)
	}
	if stored.revision != e.working.revision {
		return fmt.Errorf("%w: table %d", ErrStaleEditor, e.working.ID)
	}
	return nil
}
