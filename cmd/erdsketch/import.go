package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/erdsketch"
	"github.com/tordrt/erdsketch/internal/diagram"
	"github.com/tordrt/erdsketch/internal/snapshot"
)

var importFlags struct {
	dbURL         string
	mysqlURL      string
	sqlitePath    string
	tables        string
	excludeTables string
	schemaName    string
	format        string
	outputFile    string
	outputDir     string
	snapshotFile  string
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Build a diagram from a live database",
	Long: `Import reads tables, columns and keys from PostgreSQL, MySQL or SQLite and
turns them into a diagram. Foreign keys that cannot become relationships are
reported as warnings.`,
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importFlags.dbURL, "db-url", "", "Database URL (postgres://, mysql:// or sqlite://)")
	f.StringVar(&importFlags.mysqlURL, "mysql-url", "", "MySQL connection string")
	f.StringVar(&importFlags.sqlitePath, "sqlite", "", "SQLite database file path")
	f.StringVarP(&importFlags.tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	f.StringVarP(&importFlags.excludeTables, "exclude", "x", "", "Tables to leave out (comma-separated, optional)")
	f.StringVarP(&importFlags.schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL)")
	f.StringVarP(&importFlags.format, "format", "f", "markdown", "Output format: text, markdown, mermaid, yaml or json")
	f.StringVarP(&importFlags.outputFile, "output", "o", "", "Output file (default: stdout)")
	f.StringVarP(&importFlags.outputDir, "output-dir", "d", "", "Output directory for multi-file output")
	f.StringVar(&importFlags.snapshotFile, "snapshot", "", "Also write a canonical snapshot to this .json or .yaml file")
}

func runImport(cmd *cobra.Command, args []string) error {
	if importFlags.outputDir != "" && importFlags.outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}

	url, err := resolveDatabaseURL(importFlags.dbURL, importFlags.mysqlURL, importFlags.sqlitePath, cfg.DatabaseURL)
	if err != nil {
		return err
	}

	schemaName := importFlags.schemaName
	if schemaName == "" {
		schemaName = cfg.SchemaName
	}

	d, warnings, err := erdsketch.ImportDiagram(cmd.Context(), url, &erdsketch.Options{
		Tables:        parseTableList(importFlags.tables),
		ExcludeTables: parseTableList(importFlags.excludeTables),
		SchemaName:    schemaName,
	})
	if err != nil {
		return fmt.Errorf("failed to import diagram: %w", err)
	}
	for _, w := range warnings {
		logger.Warnw("foreign key skipped", "table", w.Table, "column", w.Column,
			"refTable", w.RefTable, "refColumn", w.RefColumn, "reason", w.Reason)
	}

	c := diagram.Canonicalize(d)
	logger.Debugw("diagram imported", "tables", len(c.Nodes), "relationships", len(c.Edges))

	if importFlags.snapshotFile != "" {
		if err := snapshot.WriteFile(importFlags.snapshotFile, c); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	return writeDiagram(c, importFlags.format, importFlags.outputFile, importFlags.outputDir, cmd.OutOrStdout())
}

// writeDiagram renders c to outputDir, outputFile or stdout, in that order of preference.
func writeDiagram(c diagram.ComparableDiagram, format, outputFile, outputDir string, stdout io.Writer) error {
	if outputDir != "" {
		if err := erdsketch.FormatDiagram(c, &erdsketch.OutputOptions{OutputDir: outputDir, Format: format}); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return nil
	}

	writer := stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warnw("failed to close output file", "file", outputFile, "error", err)
			}
		}()
		writer = f
	}

	if err := erdsketch.FormatDiagram(c, &erdsketch.OutputOptions{Writer: writer, Format: format}); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}
