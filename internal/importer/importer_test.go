package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/erdsketch/internal/diagram"
	"github.com/tordrt/erdsketch/internal/schema"
)

func schoolCatalog() *schema.Catalog {
	return &schema.Catalog{Tables: []schema.Table{
		{
			Name:       "teachers",
			PrimaryKey: []string{"teacher_id"},
			Columns: []schema.Column{
				{Name: "teacher_id", Type: "integer"},
				{Name: "name", Type: "varchar(100)"},
			},
		},
		{
			Name:       "classes",
			PrimaryKey: []string{"class_id"},
			Columns: []schema.Column{
				{Name: "class_id", Type: "integer"},
				{Name: "course_code", Type: "varchar(20)"},
				{Name: "teacher_id", Type: "integer", Nullable: true},
			},
			ForeignKeys: []schema.ForeignKey{{Column: "teacher_id", RefTable: "teachers", RefColumn: "teacher_id"}},
		},
		{
			Name:       "profiles",
			PrimaryKey: []string{"teacher_id"},
			Columns: []schema.Column{
				{Name: "teacher_id", Type: "integer"},
				{Name: "bio", Type: "text"},
			},
			ForeignKeys: []schema.ForeignKey{{Column: "teacher_id", RefTable: "teachers", RefColumn: "teacher_id"}},
		},
		{
			Name:       "badges",
			PrimaryKey: []string{"badge_id"},
			Columns: []schema.Column{
				{Name: "badge_id", Type: "integer"},
				{Name: "teacher_id", Type: "integer", IsUnique: true},
			},
			ForeignKeys: []schema.ForeignKey{{Column: "teacher_id", RefTable: "teachers", RefColumn: "teacher_id"}},
		},
	}}
}

func TestImport(t *testing.T) {
	d, warnings := Import(schoolCatalog())
	assert.Empty(t, warnings)

	c := diagram.Canonicalize(d)
	require.Len(t, c.Nodes, 4)
	assert.Equal(t, diagram.ComparableTable{TableName: "classes", Attributes: []diagram.ComparableAttribute{
		{FieldType: diagram.PrimaryKey, Name: "class_id", Type: "integer"},
		{Name: "course_code", Type: "varchar(20)"},
		{FieldType: diagram.ForeignKey, Name: "teacher_id", Type: "integer"},
	}}, c.Nodes[1])

	// Both primary and foreign key: FK wins.
	assert.Equal(t, diagram.ForeignKey, c.Nodes[2].Attributes[0].FieldType)

	assert.Equal(t, []diagram.ComparableRelationship{
		{SourceTableName: "classes", TargetTableName: "teachers", SourceHandle: "fk-teacher_id", TargetHandle: "pk-teacher_id", Type: diagram.ManyToOne},
		{SourceTableName: "profiles", TargetTableName: "teachers", SourceHandle: "fk-teacher_id", TargetHandle: "pk-teacher_id", Type: diagram.OneToOne},
		{SourceTableName: "badges", TargetTableName: "teachers", SourceHandle: "fk-teacher_id", TargetHandle: "pk-teacher_id", Type: diagram.OneToOne},
	}, c.Edges)
}

func TestImportLayout(t *testing.T) {
	d, _ := Import(schoolCatalog())

	tables := d.Tables()
	for i, table := range tables {
		assert.Equal(t, diagram.GridPosition(i), table.Position)
	}
}

func TestImportedDiagramIsGuarded(t *testing.T) {
	d, _ := Import(schoolCatalog())

	classes := d.Tables()[1]
	ed, err := d.Edit(classes.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, ed.RemoveRow(2), diagram.ErrLoadBearing)
}

func TestImportWarnings(t *testing.T) {
	c := &schema.Catalog{Tables: []schema.Table{
		{
			Name:       "teachers",
			PrimaryKey: []string{"teacher_id"},
			Columns: []schema.Column{
				{Name: "teacher_id", Type: "integer"},
				{Name: "email", Type: "text", IsUnique: true},
			},
		},
		{
			Name:       "classes",
			PrimaryKey: []string{"class_id"},
			Columns: []schema.Column{
				{Name: "class_id", Type: "integer"},
				{Name: "room_id", Type: "integer"},
				{Name: "teacher_email", Type: "text"},
			},
			ForeignKeys: []schema.ForeignKey{
				{Column: "room_id", RefTable: "rooms", RefColumn: "room_id"},
				{Column: "teacher_email", RefTable: "teachers", RefColumn: "email"},
			},
		},
	}}

	d, warnings := Import(c)
	assert.Empty(t, d.Relationships())
	require.Len(t, warnings, 2)
	assert.Equal(t, "rooms", warnings[0].RefTable)
	assert.Contains(t, warnings[0].Reason, "not part of the import")
	assert.Equal(t, "email", warnings[1].RefColumn)
	assert.Contains(t, warnings[1].String(), "classes.teacher_email -> teachers.email")
}

func TestImportEmptyCatalog(t *testing.T) {
	d, warnings := Import(&schema.Catalog{})
	assert.Empty(t, warnings)
	assert.Empty(t, d.Tables())
}
