package database

import (
	"context"
	"fmt"

	"konishi/internal/config"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ApplySchema brings the schema up to date. Postgres runs the embedded SQL
// migrations; sqlite is built from the models with AutoMigrate.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if cfg.DBDriver == "sqlite" {
		log.Info().Str("env", cfg.Env).Msg("Running GORM AutoMigrate")
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		return nil
	}

	if err := RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("run sql migrations: %w", err)
	}
	return nil
}
