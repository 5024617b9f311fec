package snapshot

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/erdsketch/internal/diagram"
)

func school() diagram.ComparableDiagram {
	return diagram.ComparableDiagram{
		Nodes: []diagram.ComparableTable{
			{TableName: "Teachers", Attributes: []diagram.ComparableAttribute{
				{FieldType: diagram.PrimaryKey, Name: "teacher_id", Type: "INT"},
				{Name: "name", Type: "VARCHAR"},
			}},
			{TableName: "Classes", Attributes: []diagram.ComparableAttribute{
				{FieldType: diagram.PrimaryKey, Name: "class_id", Type: "INT"},
				{FieldType: diagram.ForeignKey, Name: "teacher_id", Type: "INT"},
			}},
		},
		Edges: []diagram.ComparableRelationship{{
			SourceTableName: "Classes",
			TargetTableName: "Teachers",
			SourceHandle:    "fk-teacher_id",
			TargetHandle:    "pk-teacher_id",
			Type:            diagram.ManyToOne,
		}},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	for _, format := range []Format{JSON, YAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, school(), format))

			got, err := Read(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, school(), got)
		})
	}
}

func TestReadJSON(t *testing.T) {
	input := `{
  "nodes": [{"tableName": "Teachers", "attributes": [
    {"fieldType": "PK", "name": "teacher_id", "type": "INT"},
    {"fieldType": null, "name": "name", "type": "VARCHAR"}
  ]}],
  "edges": []
}`
	got, err := Read(strings.NewReader(input), JSON)
	require.NoError(t, err)
	require.Len(t, got.Nodes, 1)
	assert.Equal(t, diagram.None, got.Nodes[0].Attributes[1].FieldType)
	assert.Equal(t, []diagram.ComparableRelationship{}, got.Edges)
}

func TestReadYAML(t *testing.T) {
	input := `nodes:
  - tableName: Teachers
    attributes:
      - fieldType: PK
        name: teacher_id
        type: INT
      - fieldType: null
        name: name
        type: VARCHAR
edges: []
`
	got, err := Read(strings.NewReader(input), YAML)
	require.NoError(t, err)
	require.Len(t, got.Nodes, 1)
	assert.Equal(t, diagram.PrimaryKey, got.Nodes[0].Attributes[0].FieldType)
	assert.Equal(t, diagram.None, got.Nodes[0].Attributes[1].FieldType)
}

func TestReadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"field type", `{"nodes":[{"tableName":"T","attributes":[{"fieldType":"UK","name":"a","type":"INT"}]}],"edges":[]}`},
		{"kind", `{"nodes":[],"edges":[{"sourceTableName":"A","targetTableName":"B","sourceHandle":"fk-a","targetHandle":"pk-b","type":"manyToMany"}]}`},
		{"syntax", `{"nodes":`},
		{"handle without role", `{"nodes":[],"edges":[{"sourceTableName":"A","targetTableName":"B","sourceHandle":"a","targetHandle":"pk-b","type":"manyToOne"}]}`},
		{"unknown handle role", `{"nodes":[],"edges":[{"sourceTableName":"A","targetTableName":"B","sourceHandle":"uk-a","targetHandle":"pk-b","type":"manyToOne"}]}`},
		{"source handle not a foreign key", `{"nodes":[],"edges":[{"sourceTableName":"A","targetTableName":"B","sourceHandle":"pk-a","targetHandle":"pk-b","type":"manyToOne"}]}`},
		{"target handle not a primary key", `{"nodes":[],"edges":[{"sourceTableName":"A","targetTableName":"B","sourceHandle":"fk-a","targetHandle":"fk-b","type":"manyToOne"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), JSON)
			assert.Error(t, err)
		})
	}
}

func TestWriteEmptyDiagram(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, diagram.ComparableDiagram{}, JSON))
	assert.JSONEq(t, `{"nodes":[],"edges":[]}`, buf.String())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", JSON, false},
		{"YAML", YAML, false},
		{"yml", YAML, false},
		{"toml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"school.json", "school.yaml", "school.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteFile(path, school()))

			got, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, school(), got)
		})
	}

	_, err := ReadFile(filepath.Join(dir, "school"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
