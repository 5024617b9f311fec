package diagram

import (
	"fmt"
	"strings"
)

// FieldType is the structural role of an attribute
type FieldType string

const (
	None       FieldType = ""
	PrimaryKey FieldType = "PK"
	ForeignKey FieldType = "FK"
)

// ParseFieldType accepts "PK", "FK" or "" in any letter case.
func ParseFieldType(s string) (FieldType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return None, nil
	case "PK":
		return PrimaryKey, nil
	case "FK":
		return ForeignKey, nil
	default:
		return None, fmt.Errorf("%w: %q (must be PK, FK or empty)", ErrInvalidFieldType, s)
	}
}

// Role returns the handle role for the field type, or "" for None.
func (f FieldType) Role() Role {
	switch f {
	case PrimaryKey:
		return RolePK
	case ForeignKey:
		return RoleFK
	default:
		return ""
	}
}

// MarshalJSON encodes None as null.
func (f FieldType) MarshalJSON() ([]byte, error) {
	if f == None {
		return []byte("null"), nil
	}
	return []byte(`"` + string(f) + `"`), nil
}

// UnmarshalJSON accepts null, "", "PK" and "FK".
func (f *FieldType) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*f = None
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidFieldType, s)
	}
	parsed, err := ParseFieldType(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MarshalYAML encodes None as null.
func (f FieldType) MarshalYAML() (interface{}, error) {
	if f == None {
		return nil, nil
	}
	return string(f), nil
}

// UnmarshalYAML accepts null, "", "PK" and "FK".
func (f *FieldType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s *string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == nil {
		*f = None
		return nil
	}
	parsed, err := ParseFieldType(*s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Attribute is one row of a table. ID is unique within the owning table only.
type Attribute struct {
	ID        int       `json:"id"`
	FieldType FieldType `json:"fieldType"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
}

// Handle returns the connector handle of the attribute, or "" when it has no key role.
func (a Attribute) Handle() string {
	role := a.FieldType.Role()
	if role == "" {
		return ""
	}
	return FormatHandle(role, a.Name)
}

// Field names an editable attribute field.
type Field string

const (
	KeyField  Field = "fieldType"
	NameField Field = "name"
	TypeField Field = "type"
)

// ParseField validates a field name coming from the surface.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case KeyField, NameField, TypeField:
		return Field(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
	}
}

// DataTypes is the suggested data type vocabulary. Attribute types are free
// text; these are only offered as completions.
var DataTypes = []string{
	"CHAR(size)",
	"VARCHAR(size)",
	"BINARY(size)",
	"VARBINARY(size)",
	"TEXT(size)",
	"BLOB(size)",
	"SERIAL",
	"BIT(size)",
	"BOOL",
	"INT(size)",
	"INTEGER(size)",
	"BIGINT(size)",
	"DOUBLE()",
	"DOUBLE(size, d)",
	"DECIMAL(size, d)",
	"DATE",
	"DATETIME",
	"TIMESTAMP",
	"TIME",
}

// SuggestDataTypes returns the vocabulary entries starting with prefix, ignoring case.
func SuggestDataTypes(prefix string) []string {
	prefix = strings.ToLower(prefix)
	suggestions := make([]string, 0, len(DataTypes))
	for _, t := range DataTypes {
		if strings.HasPrefix(strings.ToLower(t), prefix) {
			suggestions = append(suggestions, t)
		}
	}
	return suggestions
}
