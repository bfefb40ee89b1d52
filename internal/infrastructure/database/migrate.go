package database

import (
	"context"
	"database/sql"
	"fmt"

	"publisher-backoffice/internal/infrastructure/database/migrations"
	"publisher-backoffice/pkg/logger"

	_ "github.com/lib/pq"
)

// Migrate applies the embedded schema through database/sql and lib/pq.
func Migrate(ctx context.Context, cfg *DBConfig) error {
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping migration connection: %w", err)
	}

	applied, err := migrations.Apply(ctx, sqlDB)
	if err != nil {
		return err
	}

	logger.Info("schema migrations applied", map[string]interface{}{
		"count":    len(applied),
		"versions": applied,
	})
	return nil
}
