package db

import (
	"context"
	"fmt"

	"github.com/tordrt/erdsketch/internal/schema"
)

// Extractor reads the relational structure of one database schema.
type Extractor interface {
	// ExtractCatalog extracts the requested tables, or every base table when
	// tables is empty. Tables come back in the order requested, otherwise by name.
	ExtractCatalog(ctx context.Context, tables []string) (*schema.Catalog, error)
}

// tableReader is what each dialect implements; extractCatalog drives it.
type tableReader interface {
	getTableNames(ctx context.Context) ([]string, error)
	extractColumns(ctx context.Context, tableName string) ([]schema.Column, error)
	extractPrimaryKey(ctx context.Context, tableName string) ([]string, error)
	extractForeignKeys(ctx context.Context, tableName string) ([]schema.ForeignKey, error)
	extractUniqueColumns(ctx context.Context, tableName string) ([]string, error)
}

func extractCatalog(ctx context.Context, r tableReader, requestedTables []string) (*schema.Catalog, error) {
	tableNames := requestedTables
	if len(tableNames) == 0 {
		var err error
		tableNames, err = r.getTableNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
	}

	catalog := &schema.Catalog{Tables: make([]schema.Table, 0, len(tableNames))}
	for _, tableName := range tableNames {
		table, err := extractTable(ctx, r, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		catalog.Tables = append(catalog.Tables, *table)
	}

	return catalog, nil
}

// extractTable extracts all information for a single table
func extractTable(ctx context.Context, r tableReader, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	columns, err := r.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found or has no columns", tableName)
	}
	table.Columns = columns

	pk, err := r.extractPrimaryKey(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	table.PrimaryKey = pk

	fks, err := r.extractForeignKeys(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract foreign keys: %w", err)
	}
	table.ForeignKeys = fks

	unique, err := r.extractUniqueColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract unique columns: %w", err)
	}
	for _, name := range unique {
		if col, ok := table.Column(name); ok && !table.IsPrimaryKey(name) {
			col.IsUnique = true
		}
	}

	return table, nil
}
