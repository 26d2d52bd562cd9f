package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"coverage-bot/internal/storage/migrations"
)

// migrationStep applies or reverts embedded migrations.
type migrationStep func(ctx context.Context, db *sql.DB) error

// RunMigrations applies every pending estimate history migration.
func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	return migrate(ctx, db, logger, "storage.RunMigrations", "apply", func(ctx context.Context, db *sql.DB) error {
		return goose.UpContext(ctx, db, ".")
	})
}

// RollbackMigration reverts the latest applied migration.
func RollbackMigration(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	return migrate(ctx, db, logger, "storage.RollbackMigration", "roll back", func(ctx context.Context, db *sql.DB) error {
		return goose.DownContext(ctx, db, ".")
	})
}

func migrate(ctx context.Context, db *sql.DB, logger *zap.Logger, operation, action string, step migrationStep) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%s: failed to set dialect: %w", operation, err)
	}

	logger.Info("Estimate history migrations", zap.String("action", action))
	if err := step(ctx, db); err != nil {
		return fmt.Errorf("%s: failed to %s migrations: %w", operation, action, err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("%s: failed to read schema version: %w", operation, err)
	}
	logger.Info("Estimate history schema ready", zap.Int64("version", version))
	return nil
}
