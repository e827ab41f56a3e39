package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/sqlstore"
)

// runMigrations executes a single migration command against the configured
// database. Every log line of the run carries the same correlation_id.
func runMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if !slices.Contains(sqlstore.MigrationCommands, command) {
		return fmt.Errorf("unknown migration command %q (want one of %s)",
			command, strings.Join(sqlstore.MigrationCommands, ", "))
	}

	log := logger.With(slog.String("correlation_id", uuid.NewString()))

	db, dialect, err := sqlstore.Open(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	start := time.Now()
	log.Info("running migration command",
		slog.String("command", command),
		slog.String("dialect", string(dialect)))

	if err := sqlstore.Migrate(ctx, db, dialect, command, log); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migration command finished", slog.Duration("duration", time.Since(start)))
	return nil
}
