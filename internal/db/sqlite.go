package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/erdsketch/internal/schema"
)

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens the database file at path
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// SQLiteExtractor handles catalog extraction from SQLite. The pragma table
// functions take the table name as a bound parameter.
type SQLiteExtractor struct {
	db *sql.DB
}

// NewSQLiteExtractor creates a new SQLite extractor
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{db: client.db}
}

// ExtractCatalog implements Extractor.
func (e *SQLiteExtractor) ExtractCatalog(ctx context.Context, tables []string) (*schema.Catalog, error) {
	return extractCatalog(ctx, e, tables)
}

func (e *SQLiteExtractor) getTableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`
	return queryStrings(ctx, e.db, query)
}

func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, error) {
	query := `SELECT name, type, "notnull" FROM pragma_table_info(?) ORDER BY cid`

	rows, err := e.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var notNull int

		if err := rows.Scan(&col.Name, &col.Type, &notNull); err != nil {
			return nil, err
		}
		col.Nullable = notNull == 0
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// extractPrimaryKey returns the primary key columns in key order.
func (e *SQLiteExtractor) extractPrimaryKey(ctx context.Context, tableName string) ([]string, error) {
	query := `SELECT name, pk FROM pragma_table_info(?) WHERE pk > 0`

	rows, err := e.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type keyColumn struct {
		name  string
		order int
	}
	var keys []keyColumn
	for rows.Next() {
		var k keyColumn
		if err := rows.Scan(&k.name, &k.order); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].order < keys[j].order })
	pk := make([]string, 0, len(keys))
	for _, k := range keys {
		pk = append(pk, k.name)
	}
	return pk, nil
}

// extractForeignKeys reads the foreign key list. A reference written without
// a column list points at the referenced table's primary key.
func (e *SQLiteExtractor) extractForeignKeys(ctx context.Context, tableName string) ([]schema.ForeignKey, error) {
	query := `SELECT seq, "table", "from", "to" FROM pragma_foreign_key_list(?) ORDER BY id, seq`

	rows, err := e.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type pending struct {
		fk  schema.ForeignKey
		seq int
	}
	var found []pending
	for rows.Next() {
		var p pending
		var to sql.NullString
		if err := rows.Scan(&p.seq, &p.fk.RefTable, &p.fk.Column, &to); err != nil {
			return nil, err
		}
		p.fk.RefColumn = to.String
		found = append(found, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	fks := make([]schema.ForeignKey, 0, len(found))
	for _, p := range found {
		if p.fk.RefColumn == "" {
			pk, err := e.extractPrimaryKey(ctx, p.fk.RefTable)
			if err != nil {
				return nil, err
			}
			if p.seq < len(pk) {
				p.fk.RefColumn = pk[p.seq]
			}
		}
		fks = append(fks, p.fk)
	}
	return fks, nil
}

// extractUniqueColumns returns columns covered by a single-column unique
// index, whether declared inline, as a table constraint or with CREATE UNIQUE INDEX.
func (e *SQLiteExtractor) extractUniqueColumns(ctx context.Context, tableName string) ([]string, error) {
	query := `
		SELECT MIN(ii.name)
		FROM pragma_index_list(?) AS il, pragma_index_info(il.name) AS ii
		WHERE il."unique" = 1 AND il.origin != 'pk' AND il.partial = 0 AND ii.cid >= 0
		GROUP BY il.name
		HAVING COUNT(*) = 1
	`
	return queryStrings(ctx, e.db, query, tableName)
}
