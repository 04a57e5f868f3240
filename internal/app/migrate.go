package app

import (
	"context"
	"database/sql"
	"fmt"

	"go-leave/migrations"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err == nil {
		zap.L().Named("app.migrate").Info("migrations applied", zap.Int64("version", version))
	}
	return nil
}
