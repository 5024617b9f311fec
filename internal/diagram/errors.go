package diagram

import "errors"

var (
	// ErrTableNotFound is returned when a table id does not resolve to a table in the diagram.
	ErrTableNotFound = errors.New("table not found")
	// ErrAttributeNotFound is returned when an attribute id does not exist on the table.
	ErrAttributeNotFound = errors.New("attribute not found")
	// ErrRelationshipNotFound is returned when a relationship id does not exist in the diagram.
	ErrRelationshipNotFound = errors.New("relationship not found")

	// ErrLoadBearing matches every guard rejection (see RejectionError).
	ErrLoadBearing = errors.New("attribute is referenced by a relationship")
	// ErrStaleEditor is returned when a table editor folds back a copy older than the stored table.
	ErrStaleEditor = errors.New("table was changed by another editor")

	ErrInvalidHandle     = errors.New("invalid handle")
	ErrInvalidConnection = errors.New("invalid connection")
	ErrInvalidFieldType  = errors.New("invalid field type")
	ErrInvalidField      = errors.New("invalid attribute field")
	ErrInvalidKind       = errors.New("invalid relationship kind")
)

// RejectionError is a guard rejection. The attempted edit was discarded and the
// diagram is unchanged; Reason is meant to be shown to the user as is.
type RejectionError struct {
	TableID     TableID
	AttributeID int
	Reason      string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

// Is reports ErrLoadBearing so callers can use errors.Is.
func (e *RejectionError) Is(target error) bool {
	return target == ErrLoadBearing
}
