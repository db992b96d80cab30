package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"session-auth/internal/database/migrations"
)

// Migrate applies every pending embedded migration. Already applied
// versions are skipped, so it is safe to run on each start.
func (db *DB) Migrate(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	for _, result := range results {
		slog.Info("migration applied",
			"version", result.Source.Version,
			"file", result.Source.Path,
			"duration_ms", result.Duration.Milliseconds(),
		)
	}

	slog.Info("database schema ensured", "applied", len(results))
	return nil
}
