package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/sqlstore"
)

// setupAppDatabase opens the configured database and, when auto_migrate is
// set, brings its schema up to date.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, sqlstore.Dialect, error) {
	db, dialect, err := sqlstore.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := sqlstore.Migrate(ctx, db, dialect, "up", logger); err != nil {
			_ = db.Close()
			return nil, "", fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	logger.Info("Database connection established", slog.String("dialect", string(dialect)))
	return db, dialect, nil
}
