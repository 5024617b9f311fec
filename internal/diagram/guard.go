package diagram

const (
	reasonEditKey   = "Cannot change attribute key, remove the relation first."
	reasonRemoveKey = "Cannot delete an attribute with an existing relation, remove the relation first."
)

// IsLoadBearing reports whether the attribute with the given id is an endpoint
// of one of the relationships. A PK attribute bears load when a relationship
// targets this table through "pk-<name>"; an FK attribute when one leaves this
// table through "fk-<name>". Attributes without a key role never do.
func IsLoadBearing(relationships []Relationship, table *Table, attributeID int) bool {
	attr, _, ok := table.Attribute(attributeID)
	if !ok {
		return false
	}

	switch attr.FieldType {
	case PrimaryKey:
		handle := FormatHandle(RolePK, attr.Name)
		for _, rel := range relationships {
			if rel.TargetTableID == table.ID && rel.TargetHandle == handle {
				return true
			}
		}
	case ForeignKey:
		handle := FormatHandle(RoleFK, attr.Name)
		for _, rel := range relationships {
			if rel.SourceTableID == table.ID && rel.SourceHandle == handle {
				return true
			}
		}
	}
	return false
}

// CheckEdit applies the edit policy: the key role and the name of a load-bearing
// attribute are frozen, its type is not.
func CheckEdit(relationships []Relationship, table *Table, attributeID int, field Field) error {
	if field == TypeField {
		return nil
	}
	if IsLoadBearing(relationships, table, attributeID) {
		return &RejectionError{TableID: table.ID, AttributeID: attributeID, Reason: reasonEditKey}
	}
	return nil
}

// CheckRemove applies the removal policy for a single attribute.
func CheckRemove(relationships []Relationship, table *Table, attributeID int) error {
	if IsLoadBearing(relationships, table, attributeID) {
		return &RejectionError{TableID: table.ID, AttributeID: attributeID, Reason: reasonRemoveKey}
	}
	return nil
}
