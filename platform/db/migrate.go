package db

import (
	"context"
	"fmt"
	"io/fs"

	"appraisal_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies every pending goose migration found in migrations.
// The pool is borrowed through database/sql for the duration of the run.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, log *logger.Logger) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, res := range results {
		log.Info("migration applied",
			"version", res.Source.Version,
			"path", res.Source.Path,
			"duration_ms", res.Duration.Milliseconds(),
		)
	}
	return nil
}
