package diagram

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// schoolDiagram builds Teachers and Classes joined by Classes.teacher_id -> Teachers.teacher_id.
func schoolDiagram(t *testing.T) (*Diagram, *Table, *Table, Relationship) {
	t.Helper()

	d := New()
	teachers := d.SeedTable("Teachers", Position{X: 250}, []Attribute{
		{FieldType: PrimaryKey, Name: "teacher_id", Type: "INT"},
		{FieldType: None, Name: "name", Type: "VARCHAR"},
	})
	classes := d.SeedTable("Classes", Position{X: 100, Y: 100}, []Attribute{
		{FieldType: PrimaryKey, Name: "class_id", Type: "INT"},
		{FieldType: None, Name: "course_code", Type: "VARCHAR"},
		{FieldType: ForeignKey, Name: "teacher_id", Type: "INT"},
	})
	rel, err := d.Connect(classes.ID, "fk-teacher_id", teachers.ID, "pk-teacher_id")
	require.NoError(t, err)
	return d, teachers, classes, rel
}

func TestCanonicalizeSchoolScenario(t *testing.T) {
	d, _, _, _ := schoolDiagram(t)

	got := Canonicalize(d)

	want := ComparableDiagram{
		Nodes: []ComparableTable{
			{TableName: "Teachers", Attributes: []ComparableAttribute{
				{FieldType: PrimaryKey, Name: "teacher_id", Type: "INT"},
				{FieldType: None, Name: "name", Type: "VARCHAR"},
			}},
			{TableName: "Classes", Attributes: []ComparableAttribute{
				{FieldType: PrimaryKey, Name: "class_id", Type: "INT"},
				{FieldType: None, Name: "course_code", Type: "VARCHAR"},
				{FieldType: ForeignKey, Name: "teacher_id", Type: "INT"},
			}},
		},
		Edges: []ComparableRelationship{
			{
				SourceTableName: "Classes",
				TargetTableName: "Teachers",
				SourceHandle:    "fk-teacher_id",
				TargetHandle:    "pk-teacher_id",
				Type:            ManyToOne,
			},
		},
	}
	assert.Equal(t, want, got)
}

func TestCanonicalJSONShape(t *testing.T) {
	d, _, _, _ := schoolDiagram(t)

	data, err := json.Marshal(Canonicalize(d))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"nodes": [
			{"tableName": "Teachers", "attributes": [
				{"fieldType": "PK", "name": "teacher_id", "type": "INT"},
				{"fieldType": null, "name": "name", "type": "VARCHAR"}
			]},
			{"tableName": "Classes", "attributes": [
				{"fieldType": "PK", "name": "class_id", "type": "INT"},
				{"fieldType": null, "name": "course_code", "type": "VARCHAR"},
				{"fieldType": "FK", "name": "teacher_id", "type": "INT"}
			]}
		],
		"edges": [
			{"sourceTableName": "Classes", "targetTableName": "Teachers",
			 "sourceHandle": "fk-teacher_id", "targetHandle": "pk-teacher_id", "type": "manyToOne"}
		]
	}`, string(data))

	var decoded ComparableDiagram
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Canonicalize(d), decoded)
}

func TestCanonicalizeEmptyDiagram(t *testing.T) {
	got := Canonicalize(New())

	assert.NotNil(t, got.Nodes)
	assert.NotNil(t, got.Edges)
	assert.Empty(t, got.Nodes)
	assert.Empty(t, got.Edges)
}

func TestCanonicalizeErasesIdentity(t *testing.T) {
	first, _, _, _ := schoolDiagram(t)

	// Same schema built with shifted table ids, shifted attribute ids and other positions.
	second := New()
	scratch := second.AddTable(Position{})
	require.NoError(t, second.RemoveTable(scratch.ID))

	teachers := second.AddTable(Position{X: -40, Y: 900})
	ed, err := second.Edit(teachers.ID)
	require.NoError(t, err)
	require.NoError(t, ed.Rename("Teachers"))
	junkA, err := ed.AddRow()
	require.NoError(t, err)
	junkB, err := ed.AddRow()
	require.NoError(t, err)
	addRow(t, ed, PrimaryKey, "teacher_id", "INT")
	addRow(t, ed, None, "name", "VARCHAR")
	require.NoError(t, ed.RemoveRow(junkA.ID))
	require.NoError(t, ed.RemoveRow(junkB.ID))

	classes := second.AddTable(Position{X: 3, Y: 4})
	ed, err = second.Edit(classes.ID)
	require.NoError(t, err)
	require.NoError(t, ed.Rename("Classes"))
	addRow(t, ed, PrimaryKey, "class_id", "INT")
	addRow(t, ed, None, "course_code", "VARCHAR")
	addRow(t, ed, ForeignKey, "teacher_id", "INT")

	_, err = second.Connect(classes.ID, "fk-teacher_id", teachers.ID, "pk-teacher_id")
	require.NoError(t, err)

	firstTables, secondTables := first.Tables(), second.Tables()
	require.NotEqual(t, firstTables[0].ID, secondTables[0].ID)
	require.NotEqual(t, firstTables[0].Attributes[0].ID, secondTables[0].Attributes[0].ID)

	assert.Equal(t, Canonicalize(first), Canonicalize(second))
}

func addRow(t *testing.T, ed *TableEditor, ft FieldType, name, typ string) {
	t.Helper()
	attr, err := ed.AddRow()
	require.NoError(t, err)
	require.NoError(t, ed.EditAttribute(attr.ID, KeyField, string(ft)))
	require.NoError(t, ed.EditAttribute(attr.ID, NameField, name))
	require.NoError(t, ed.EditAttribute(attr.ID, TypeField, typ))
}

func TestCanonicalizeOrderSensitivity(t *testing.T) {
	base := New()
	base.SeedTable("a", Position{}, []Attribute{{Name: "x"}, {Name: "y"}})
	base.SeedTable("b", Position{}, nil)

	swappedAttrs := New()
	swappedAttrs.SeedTable("a", Position{}, []Attribute{{Name: "y"}, {Name: "x"}})
	swappedAttrs.SeedTable("b", Position{}, nil)

	swappedTables := New()
	swappedTables.SeedTable("b", Position{}, nil)
	swappedTables.SeedTable("a", Position{}, []Attribute{{Name: "x"}, {Name: "y"}})

	assert.NotEqual(t, Canonicalize(base), Canonicalize(swappedAttrs))
	assert.NotEqual(t, Canonicalize(base), Canonicalize(swappedTables))
}

func TestCanonicalizeDanglingRelationship(t *testing.T) {
	d, teachers, _, _ := schoolDiagram(t)

	require.NoError(t, d.RemoveTable(teachers.ID))

	got := Canonicalize(d)
	require.Len(t, got.Nodes, 1)
	require.Len(t, got.Edges, 1)
	assert.Equal(t, "Classes", got.Edges[0].SourceTableName)
	assert.Equal(t, "", got.Edges[0].TargetTableName)
	assert.Equal(t, "pk-teacher_id", got.Edges[0].TargetHandle)
}

func TestToggleInvolution(t *testing.T) {
	d, _, _, rel := schoolDiagram(t)
	require.Equal(t, ManyToOne, rel.Kind)

	once, err := d.ToggleKind(rel.ID)
	require.NoError(t, err)
	assert.Equal(t, OneToOne, once.Kind)

	twice, err := d.ToggleKind(rel.ID)
	require.NoError(t, err)
	assert.Equal(t, rel, twice)

	_, err = d.ToggleKind(RelationshipID(99))
	assert.ErrorIs(t, err, ErrRelationshipNotFound)
}

func TestKindToggle(t *testing.T) {
	assert.Equal(t, OneToOne, ManyToOne.Toggle())
	assert.Equal(t, ManyToOne, OneToOne.Toggle())
	assert.Equal(t, ManyToOne, ManyToOne.Toggle().Toggle())
}

func TestTableIDsAreNotReused(t *testing.T) {
	d := New()
	a := d.AddTable(Position{})
	b := d.AddTable(Position{})
	require.NoError(t, d.RemoveTable(b.ID))
	c := d.AddTable(Position{})

	assert.Equal(t, TableID(0), a.ID)
	assert.Equal(t, TableID(2), c.ID)
	assert.ErrorIs(t, d.RemoveTable(b.ID), ErrTableNotFound)
}

func TestRemoveTableKeepsRelationships(t *testing.T) {
	d, _, classes, rel := schoolDiagram(t)

	require.NoError(t, d.RemoveTable(classes.ID))

	rels := d.Relationships()
	require.Len(t, rels, 1)
	assert.Equal(t, rel, rels[0])
}

func TestConnect(t *testing.T) {
	d, teachers, classes, rel := schoolDiagram(t)

	t.Run("starts as many to one", func(t *testing.T) {
		assert.Equal(t, ManyToOne, rel.Kind)
	})

	t.Run("same endpoints return the existing relationship", func(t *testing.T) {
		again, err := d.Connect(classes.ID, "FK-teacher_id", teachers.ID, "pk-teacher_id")
		require.NoError(t, err)
		assert.Equal(t, rel.ID, again.ID)
		assert.Len(t, d.Relationships(), 1)
	})

	tests := []struct {
		name         string
		source       TableID
		sourceHandle string
		target       TableID
		targetHandle string
		wantErr      error
	}{
		{"unknown source table", 42, "fk-teacher_id", teachers.ID, "pk-teacher_id", ErrTableNotFound},
		{"unknown target table", classes.ID, "fk-teacher_id", 42, "pk-teacher_id", ErrTableNotFound},
		{"malformed handle", classes.ID, "teacher_id", teachers.ID, "pk-teacher_id", ErrInvalidHandle},
		{"unknown role", classes.ID, "xx-teacher_id", teachers.ID, "pk-teacher_id", ErrInvalidHandle},
		{"source must be fk", classes.ID, "pk-class_id", teachers.ID, "pk-teacher_id", ErrInvalidConnection},
		{"target must be pk", classes.ID, "fk-teacher_id", teachers.ID, "fk-teacher_id", ErrInvalidConnection},
		{"source attribute missing", classes.ID, "fk-nope", teachers.ID, "pk-teacher_id", ErrInvalidConnection},
		{"target attribute missing", classes.ID, "fk-teacher_id", teachers.ID, "pk-name", ErrInvalidConnection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Connect(tt.source, tt.sourceHandle, tt.target, tt.targetHandle)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, d.Relationships(), 1)
		})
	}
}

func TestDisconnect(t *testing.T) {
	d, _, _, rel := schoolDiagram(t)

	require.NoError(t, d.Disconnect(rel.ID))
	assert.Empty(t, d.Relationships())
	assert.ErrorIs(t, d.Disconnect(rel.ID), ErrRelationshipNotFound)

	_, ok := d.Relationship(rel.ID)
	assert.False(t, ok)
}

func TestParseHandle(t *testing.T) {
	tests := []struct {
		handle   string
		wantRole Role
		wantName string
		wantErr  bool
	}{
		{"pk-id", RolePK, "id", false},
		{"FK-user_id", RoleFK, "user_id", false},
		{"fk-created-by", RoleFK, "created-by", false},
		{"fk-", RoleFK, "", false},
		{"id", "", "", true},
		{"ix-id", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.handle, func(t *testing.T) {
			role, name, err := ParseHandle(tt.handle)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHandle)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, role)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestFromComparableRoundTrip(t *testing.T) {
	d, _, _, rel := schoolDiagram(t)
	_, err := d.ToggleKind(rel.ID)
	require.NoError(t, err)
	snapshot := Canonicalize(d)

	rebuilt, skipped := FromComparable(snapshot)

	assert.Empty(t, skipped)
	assert.Equal(t, snapshot, Canonicalize(rebuilt))

	tables := rebuilt.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, GridPosition(1), tables[1].Position)
	assert.Equal(t, []int{0, 1, 2}, attributeIDs(tables[1]))
	assert.True(t, rebuilt.IsLoadBearing(tables[1], 2))
}

func TestFromComparableSkipsUnresolvedEdges(t *testing.T) {
	d, teachers, _, _ := schoolDiagram(t)
	require.NoError(t, d.RemoveTable(teachers.ID))
	snapshot := Canonicalize(d)

	rebuilt, skipped := FromComparable(snapshot)

	require.Len(t, skipped, 1)
	assert.Equal(t, "", skipped[0].TargetTableName)
	assert.Empty(t, rebuilt.Relationships())
}

func TestFromComparableChecksHandles(t *testing.T) {
	d, _, _, _ := schoolDiagram(t)
	base := Canonicalize(d)

	t.Run("role case is normalised", func(t *testing.T) {
		snapshot := Canonicalize(d)
		snapshot.Edges[0].SourceHandle = "FK-teacher_id"
		snapshot.Edges[0].TargetHandle = "Pk-teacher_id"

		rebuilt, skipped := FromComparable(snapshot)
		assert.Empty(t, skipped)
		assert.Equal(t, base, Canonicalize(rebuilt))

		classes := rebuilt.Tables()[1]
		assert.True(t, rebuilt.IsLoadBearing(classes, 2))
		ed, err := rebuilt.Edit(classes.ID)
		require.NoError(t, err)
		assert.ErrorIs(t, ed.RemoveRow(2), ErrLoadBearing)
	})

	tests := []struct {
		name         string
		sourceHandle string
		targetHandle string
	}{
		{"missing source attribute", "fk-nonexistent", "pk-teacher_id"},
		{"missing target attribute", "fk-teacher_id", "pk-nonexistent"},
		{"source is not a foreign key", "pk-teacher_id", "pk-teacher_id"},
		{"target is not a primary key", "fk-teacher_id", "fk-teacher_id"},
		{"malformed handle", "teacher_id", "pk-teacher_id"},
		{"unknown role", "uk-teacher_id", "pk-teacher_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := Canonicalize(d)
			snapshot.Edges[0].SourceHandle = tt.sourceHandle
			snapshot.Edges[0].TargetHandle = tt.targetHandle

			rebuilt, skipped := FromComparable(snapshot)
			require.Len(t, skipped, 1)
			assert.Equal(t, snapshot.Edges[0], skipped[0])
			assert.Empty(t, rebuilt.Relationships())
		})
	}
}

func TestFieldTypeJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    FieldType
		wantErr bool
	}{
		{`null`, None, false},
		{`""`, None, false},
		{`"PK"`, PrimaryKey, false},
		{`"fk"`, ForeignKey, false},
		{`"UNIQUE"`, None, true},
		{`7`, None, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got FieldType
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidFieldType), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestDataTypes(t *testing.T) {
	assert.Equal(t, []string{"VARCHAR(size)", "VARBINARY(size)"}, SuggestDataTypes("var"))
	assert.Equal(t, []string{"DOUBLE()", "DOUBLE(size, d)", "DECIMAL(size, d)", "DATE", "DATETIME"}, SuggestDataTypes("d"))
	assert.Len(t, SuggestDataTypes(""), len(DataTypes))
	assert.Empty(t, SuggestDataTypes("uuid"))
}

func attributeIDs(t *Table) []int {
	ids := make([]int, 0, len(t.Attributes))
	for _, attr := range t.Attributes {
		ids = append(ids, attr.ID)
	}
	return ids
}
