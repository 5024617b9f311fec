// Package importer turns an extracted database catalog into a diagram.
package importer

import (
	"fmt"

	"github.com/tordrt/erdsketch/internal/diagram"
	"github.com/tordrt/erdsketch/internal/schema"
)

// Warning describes a foreign key that could not become a relationship.
type Warning struct {
	Table     string
	Column    string
	RefTable  string
	RefColumn string
	Reason    string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s: %s", w.Table, w.Column, w.RefTable, w.RefColumn, w.Reason)
}

// Import builds a diagram with one table per catalog table, laid out on a
// grid in catalog order. A column that is both primary and foreign key becomes
// an FK attribute, since only FK attributes can start a relationship. Each
// foreign key whose referenced column is a PK attribute of an imported table
// becomes a relationship; the others are returned as warnings.
func Import(c *schema.Catalog) (*diagram.Diagram, []Warning) {
	d := diagram.New()
	ids := make(map[string]diagram.TableID, len(c.Tables))

	for i, table := range c.Tables {
		attrs := make([]diagram.Attribute, 0, len(table.Columns))
		for _, col := range table.Columns {
			attrs = append(attrs, diagram.Attribute{
				FieldType: fieldType(&table, col.Name),
				Name:      col.Name,
				Type:      col.Type,
			})
		}
		ids[table.Name] = d.SeedTable(table.Name, diagram.GridPosition(i), attrs).ID
	}

	var warnings []Warning
	for _, table := range c.Tables {
		for _, fk := range table.ForeignKeys {
			warn := func(reason string) {
				warnings = append(warnings, Warning{
					Table: table.Name, Column: fk.Column,
					RefTable: fk.RefTable, RefColumn: fk.RefColumn,
					Reason: reason,
				})
			}

			target, ok := ids[fk.RefTable]
			if !ok {
				warn("referenced table is not part of the import")
				continue
			}

			rel, err := d.Connect(ids[table.Name],
				diagram.FormatHandle(diagram.RoleFK, fk.Column),
				target,
				diagram.FormatHandle(diagram.RolePK, fk.RefColumn))
			if err != nil {
				warn(fmt.Sprintf("referenced column is not a primary key attribute: %v", err))
				continue
			}

			if kind := kindOf(&table, fk.Column); rel.Kind != kind {
				if _, err := d.ToggleKind(rel.ID); err != nil {
					warn(err.Error())
				}
			}
		}
	}

	return d, warnings
}

func fieldType(table *schema.Table, column string) diagram.FieldType {
	switch {
	case table.IsForeignKey(column):
		return diagram.ForeignKey
	case table.IsPrimaryKey(column):
		return diagram.PrimaryKey
	default:
		return diagram.None
	}
}

// kindOf is OneToOne when the referencing column can hold each value once.
func kindOf(table *schema.Table, column string) diagram.Kind {
	if col, ok := table.Column(column); ok && col.IsUnique {
		return diagram.OneToOne
	}
	if len(table.PrimaryKey) == 1 && table.PrimaryKey[0] == column {
		return diagram.OneToOne
	}
	return diagram.ManyToOne
}
