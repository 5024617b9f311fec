package diagram

import (
	"fmt"
	"strings"
)

// Role is the key role encoded in a handle
type Role string

const (
	RolePK Role = "pk"
	RoleFK Role = "fk"
)

// FormatHandle builds the composite handle key "{role}-{attributeName}".
func FormatHandle(role Role, attributeName string) string {
	return strings.ToLower(string(role)) + "-" + attributeName
}

// ParseHandle splits a handle at its first dash. The role is matched without
// regard to case; the attribute name is returned verbatim.
func ParseHandle(handle string) (Role, string, error) {
	rolePart, name, ok := strings.Cut(handle, "-")
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidHandle, handle)
	}
	switch role := Role(strings.ToLower(rolePart)); role {
	case RolePK, RoleFK:
		return role, name, nil
	default:
		return "", "", fmt.Errorf("%w: %q has unknown role %q", ErrInvalidHandle, handle, rolePart)
	}
}

// Kind is the cardinality of a relationship.
type Kind string

const (
	ManyToOne Kind = "manyToOne"
	OneToOne  Kind = "oneToOne"
)

// Toggle flips the cardinality. It is its own inverse.
func (k Kind) Toggle() Kind {
	if k == OneToOne {
		return ManyToOne
	}
	return OneToOne
}

// ParseKind validates a kind coming from a snapshot or the surface.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case ManyToOne, OneToOne:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// RelationshipID identifies a relationship within one diagram.
type RelationshipID int

// Relationship is a directed edge from a foreign key attribute on the source
// table to a primary key attribute on the target table.
type Relationship struct {
	ID            RelationshipID `json:"id"`
	SourceTableID TableID        `json:"sourceTableId"`
	TargetTableID TableID        `json:"targetTableId"`
	SourceHandle  string         `json:"sourceHandle"`
	TargetHandle  string         `json:"targetHandle"`
	Kind          Kind           `json:"kind"`
}

// Toggled returns r with its kind flipped and every other field untouched.
func (r Relationship) Toggled() Relationship {
	r.Kind = r.Kind.Toggle()
	return r
}

func (r Relationship) sameEndpoints(o Relationship) bool {
	return r.SourceTableID == o.SourceTableID &&
		r.TargetTableID == o.TargetTableID &&
		r.SourceHandle == o.SourceHandle &&
		r.TargetHandle == o.TargetHandle
}
