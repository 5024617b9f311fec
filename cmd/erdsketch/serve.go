package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tordrt/erdsketch"
	"github.com/tordrt/erdsketch/internal/diagram"
	"github.com/tordrt/erdsketch/internal/server"
	"github.com/tordrt/erdsketch/internal/session"
	"github.com/tordrt/erdsketch/internal/snapshot"
)

const shutdownTimeout = 5 * time.Second

var serveFlags struct {
	addr         string
	snapshotFile string
	dbURL        string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a diagram session over HTTP",
	Long: `Serve starts one diagram session and exposes its gestures as a JSON API under
/api/v1. The session starts empty, from a snapshot file, or from a database
import.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.addr, "addr", "", "Listen address (default from ERDSKETCH_ADDR or :8080)")
	f.StringVar(&serveFlags.snapshotFile, "snapshot", "", "Seed the session from a snapshot file")
	f.StringVar(&serveFlags.dbURL, "db-url", "", "Seed the session from a database import")
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := seedDiagram(cmd.Context())
	if err != nil {
		return err
	}
	s := session.NewWithDiagram(d, logger)

	addr := serveFlags.addr
	if addr == "" {
		addr = cfg.Addr
	}
	srv := server.NewServer(addr, s, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("listening", "addr", addr, "session", s.ID().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Infow("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func seedDiagram(ctx context.Context) (*diagram.Diagram, error) {
	if serveFlags.snapshotFile != "" && serveFlags.dbURL != "" {
		return nil, fmt.Errorf("cannot use both --snapshot and --db-url flags")
	}

	if serveFlags.snapshotFile != "" {
		c, err := snapshot.ReadFile(serveFlags.snapshotFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot: %w", err)
		}
		d, dropped := diagram.FromComparable(c)
		for _, edge := range dropped {
			logger.Warnw("relationship skipped", "source", edge.SourceTableName, "target", edge.TargetTableName)
		}
		return d, nil
	}

	if serveFlags.dbURL != "" {
		d, warnings, err := erdsketch.ImportDiagram(ctx, serveFlags.dbURL, &erdsketch.Options{SchemaName: cfg.SchemaName})
		if err != nil {
			return nil, fmt.Errorf("failed to import diagram: %w", err)
		}
		for _, w := range warnings {
			logger.Warnw("foreign key skipped", "warning", w.String())
		}
		return d, nil
	}

	return diagram.New(), nil
}
