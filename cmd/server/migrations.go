package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/minhpham2409/quiz-app/internal/platform/postgres"
)

// migrationsDir is the path of the embedded migration files inside
// postgres.MigrationsFS.
const migrationsDir = "migrations"

// runMigrations executes the given goose command against the embedded
// migration files.
func runMigrations(db *sql.DB, command string, logger *slog.Logger) error {
	goose.SetBaseFS(postgres.MigrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	logger.Info("executing migrations", "command", command)

	switch command {
	case "up":
		if err := goose.Up(db, migrationsDir); err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
	case "down":
		if err := goose.Down(db, migrationsDir); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
	case "status":
		if err := goose.Status(db, migrationsDir); err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
	case "version":
		if err := goose.Version(db, migrationsDir); err != nil {
			return fmt.Errorf("migration version failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown migration command %q (want up, down, status or version)", command)
	}

	logger.Info("migration command completed", "command", command)
	return nil
}
