// Package session is the entry point a diagramming surface talks to. Each
// Report method corresponds to one user gesture; the session validates it
// through the diagram's guard, applies it, and logs the outcome. Guard
// rejections come back as *diagram.RejectionError values whose message can be
// shown to the user directly.
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tordrt/erdsketch/internal/diagram"
)

// Session owns one diagram and serialises every gesture against it, so the
// diagram only ever sees one actor even when the surface is concurrent.
type Session struct {
	id      uuid.UUID
	mu      sync.Mutex
	diagram *diagram.Diagram
	logger  *zap.SugaredLogger
}

// New starts a session on an empty diagram.
func New(logger *zap.SugaredLogger) *Session {
	return NewWithDiagram(diagram.New(), logger)
}

// NewWithDiagram starts a session on an existing diagram. The session takes
// ownership; the caller must not use d afterwards.
func NewWithDiagram(d *diagram.Diagram, logger *zap.SugaredLogger) *Session {
	id := uuid.New()
	return &Session{
		id:      id,
		diagram: d,
		logger:  logger.With("session", id.String()),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Tables returns copies of the tables in diagram order.
func (s *Session) Tables() []diagram.Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.diagram.Tables()
	tables := make([]diagram.Table, 0, len(stored))
	for _, t := range stored {
		tables = append(tables, *t.Clone())
	}
	return tables
}

// Table returns a copy of one table.
func (s *Session) Table(id diagram.TableID) (diagram.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.diagram.Table(id)
	if !ok {
		return diagram.Table{}, s.fail("table", diagram.ErrTableNotFound, "table", id)
	}
	return *t.Clone(), nil
}

// Relationships returns the relationships in creation order.
func (s *Session) Relationships() []diagram.Relationship {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diagram.Relationships()
}

// ReportAttributeEdit applies an edit of fieldType, name or type.
func (s *Session) ReportAttributeEdit(tableID diagram.TableID, attributeID int, field diagram.Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ed, err := s.diagram.Edit(tableID)
	if err != nil {
		return s.fail("attribute edit", err, "table", tableID)
	}
	if err := ed.EditAttribute(attributeID, field, value); err != nil {
		return s.fail("attribute edit", err, "table", tableID, "attribute", attributeID, "field", field)
	}
	s.logger.Debugw("attribute edited", "table", tableID, "attribute", attributeID, "field", field, "value", value)
	return nil
}

// ReportRowAdd appends an empty attribute to a table.
func (s *Session) ReportRowAdd(tableID diagram.TableID) (diagram.Attribute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ed, err := s.diagram.Edit(tableID)
	if err != nil {
		return diagram.Attribute{}, s.fail("row add", err, "table", tableID)
	}
	attr, err := ed.AddRow()
	if err != nil {
		return diagram.Attribute{}, s.fail("row add", err, "table", tableID)
	}
	s.logger.Debugw("row added", "table", tableID, "attribute", attr.ID)
	return attr, nil
}

// ReportRowRemove removes an attribute unless a relationship depends on it.
func (s *Session) ReportRowRemove(tableID diagram.TableID, attributeID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ed, err := s.diagram.Edit(tableID)
	if err != nil {
		return s.fail("row remove", err, "table", tableID)
	}
	if err := ed.RemoveRow(attributeID); err != nil {
		return s.fail("row remove", err, "table", tableID, "attribute", attributeID)
	}
	s.logger.Debugw("row removed", "table", tableID, "attribute", attributeID)
	return nil
}

// ReportTableRename sets a table's name.
func (s *Session) ReportTableRename(tableID diagram.TableID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ed, err := s.diagram.Edit(tableID)
	if err != nil {
		return s.fail("table rename", err, "table", tableID)
	}
	if err := ed.Rename(name); err != nil {
		return s.fail("table rename", err, "table", tableID)
	}
	s.logger.Debugw("table renamed", "table", tableID, "name", name)
	return nil
}

// ReportTableAdd creates an unnamed, empty table at pos.
func (s *Session) ReportTableAdd(pos diagram.Position) diagram.Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.diagram.AddTable(pos)
	s.logger.Debugw("table added", "table", t.ID, "x", pos.X, "y", pos.Y)
	return *t.Clone()
}

// ReportTableAddNamed creates an empty table at pos already carrying name, as
// one gesture.
func (s *Session) ReportTableAddNamed(pos diagram.Position, name string) diagram.Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.diagram.SeedTable(name, pos, nil)
	s.logger.Debugw("table added", "table", t.ID, "name", name, "x", pos.X, "y", pos.Y)
	return *t.Clone()
}

// ReportTableRemove deletes a table. Relationships that point at it are kept.
func (s *Session) ReportTableRemove(tableID diagram.TableID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.diagram.RemoveTable(tableID); err != nil {
		return s.fail("table remove", err, "table", tableID)
	}
	s.logger.Debugw("table removed", "table", tableID)
	return nil
}

// ReportConnect draws a ManyToOne relationship between an FK and a PK handle.
func (s *Session) ReportConnect(sourceTableID diagram.TableID, sourceHandle string, targetTableID diagram.TableID, targetHandle string) (diagram.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rel, err := s.diagram.Connect(sourceTableID, sourceHandle, targetTableID, targetHandle)
	if err != nil {
		return diagram.Relationship{}, s.fail("connect", err,
			"source", sourceTableID, "sourceHandle", sourceHandle,
			"target", targetTableID, "targetHandle", targetHandle)
	}
	s.logger.Debugw("connected", "relationship", rel.ID, "source", sourceTableID, "target", targetTableID)
	return rel, nil
}

// ReportDisconnect removes a relationship.
func (s *Session) ReportDisconnect(id diagram.RelationshipID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.diagram.Disconnect(id); err != nil {
		return s.fail("disconnect", err, "relationship", id)
	}
	s.logger.Debugw("disconnected", "relationship", id)
	return nil
}

// ReportToggleRelationshipKind flips a relationship between manyToOne and oneToOne.
func (s *Session) ReportToggleRelationshipKind(id diagram.RelationshipID) (diagram.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rel, err := s.diagram.ToggleKind(id)
	if err != nil {
		return diagram.Relationship{}, s.fail("toggle kind", err, "relationship", id)
	}
	s.logger.Debugw("relationship kind toggled", "relationship", id, "kind", rel.Kind)
	return rel, nil
}

// RequestCanonicalSnapshot canonicalizes the current diagram.
func (s *Session) RequestCanonicalSnapshot() diagram.ComparableDiagram {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := diagram.Canonicalize(s.diagram)
	s.logger.Debugw("snapshot taken", "tables", len(snapshot.Nodes), "relationships", len(snapshot.Edges))
	return snapshot
}

// fail logs a refused gesture and hands the error back unchanged. Guard
// rejections are expected user behaviour and log at info.
func (s *Session) fail(gesture string, err error, keysAndValues ...interface{}) error {
	fields := append([]interface{}{"gesture", gesture, "error", err}, keysAndValues...)
	if errors.Is(err, diagram.ErrLoadBearing) {
		s.logger.Infow("gesture rejected", fields...)
	} else {
		s.logger.Warnw("gesture failed", fields...)
	}
	return err
}
