//go:build integration

// Package testdb provides helpers for database-backed integration tests.
// Tests that need a real PostgreSQL instance read the connection string
// from DATABASE_URL and skip when it is not set.
package testdb

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/minhpham2409/quiz-app/internal/platform/postgres"
)

// migrateOnce guards schema setup so parallel test packages don't race on
// applying migrations to the shared test database.
var migrateOnce sync.Once

// GetTestDatabaseURL returns the connection string for the test database,
// or an empty string when none is configured.
func GetTestDatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// ShouldSkipDatabaseTest reports whether database integration tests should
// be skipped because no test database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// GetTestDBWithT opens a connection to the test database, applies the
// embedded migrations, and registers cleanup. The test fails if the
// database is unreachable.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", GetTestDatabaseURL())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	migrateOnce.Do(func() {
		goose.SetBaseFS(postgres.MigrationsFS)
		if dialectErr := goose.SetDialect("postgres"); dialectErr != nil {
			t.Fatalf("failed to set migration dialect: %v", dialectErr)
		}
		if upErr := goose.Up(db, "migrations"); upErr != nil {
			t.Fatalf("failed to apply migrations: %v", upErr)
		}
	})

	return db
}

// WithTx runs fn inside a transaction that is rolled back when the test
// completes, so tests never leave rows behind in the shared database.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	fn(t, tx)
}
