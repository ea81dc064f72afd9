// Command migrate runs schema operations for the feed store.
package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"konishi/internal/config"
	"konishi/internal/database"
	"konishi/internal/observability"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}
}

func usage() error {
	return fmt.Errorf("usage: migrate <up|status|down> [version]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	observability.InitLogging(cfg.Env, cfg.LogLevel)

	if cfg.DBDriver == "sqlite" {
		return fmt.Errorf("sql migrations target postgres; sqlite schemas are built by AutoMigrate")
	}

	ctx := context.Background()
	db, err := database.ConnectWithOptions(ctx, cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0))); cmd {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Info().Msg("sql migrations applied")
	case "status":
		status, err := database.GetMigrationStatus(ctx, db)
		if err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
		log.Info().Ints("applied", status.Applied).Int("pending", len(status.Pending)).Msg("migration status")
		for _, m := range status.Pending {
			log.Info().Str("migration", m.String()).Msg("pending")
		}
	case "down":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: migrate down <version>")
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
		}
		if err := database.RollbackMigration(ctx, db, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Info().Int("version", version).Msg("rolled back migration")
	default:
		return usage()
	}

	return nil
}
