package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tordrt/erdsketch/internal/config"
	"github.com/tordrt/erdsketch/internal/logging"
)

var (
	envFile string
	debug   bool

	cfg    *config.Config
	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "erdsketch",
	Short: "Draw, import and compare entity-relationship diagrams",
	Long: `erdsketch keeps entity-relationship diagrams consistent: relationships always
connect a foreign key attribute to a primary key attribute, and attributes a
relationship depends on cannot be removed or rekeyed until the relationship is.

Diagrams can be drawn through the HTTP API (serve), imported from PostgreSQL,
MySQL or SQLite (import), rendered from snapshot files (export) and compared
structurally (compare).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return err
		}
		logger, err = logging.New(debug || cfg.Debug)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load settings from")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(importCmd, exportCmd, compareCmd, serveCmd)
}

// parseTableList splits a comma-separated flag value, dropping blanks.
func parseTableList(s string) []string {
	if s == "" {
		return nil
	}
	var list []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			list = append(list, t)
		}
	}
	return list
}

// resolveDatabaseURL combines the per-dialect flags with the configured URL.
// Exactly one source may be given on the command line.
func resolveDatabaseURL(dbURL, mysqlURL, sqlitePath, fallback string) (string, error) {
	var urls []string
	if dbURL != "" {
		urls = append(urls, dbURL)
	}
	if mysqlURL != "" {
		if !strings.HasPrefix(mysqlURL, "mysql://") {
			mysqlURL = "mysql://" + mysqlURL
		}
		urls = append(urls, mysqlURL)
	}
	if sqlitePath != "" {
		urls = append(urls, "sqlite://"+sqlitePath)
	}

	switch len(urls) {
	case 0:
		if fallback == "" {
			return "", fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified (or set %s)", config.EnvDatabaseURL)
		}
		return fallback, nil
	case 1:
		return urls[0], nil
	default:
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
