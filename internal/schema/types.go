package schema

// Catalog is the relational structure read from a database
type Catalog struct {
	Tables []Table
}

// Table represents a database table
type Table struct {
	Name        string
	Columns     []Column
	PrimaryKey  []string
	ForeignKeys []ForeignKey
}

// Column represents a table column
type Column struct {
	Name     string
	Type     string
	Nullable bool
	IsUnique bool // single-column unique constraint or index, primary keys excluded
}

// ForeignKey is one column of a foreign key constraint. Composite constraints
// produce one ForeignKey per column pair.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// Table looks a table up by name.
func (c *Catalog) Table(name string) (*Table, bool) {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i], true
		}
	}
	return nil, false
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// IsPrimaryKey reports whether the column is part of the primary key.
func (t *Table) IsPrimaryKey(column string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == column {
			return true
		}
	}
	return false
}

// IsForeignKey reports whether the column is the source of a foreign key.
func (t *Table) IsForeignKey(column string) bool {
	for _, fk := range t.ForeignKeys {
		if fk.Column == column {
			return true
		}
	}
	return false
}
