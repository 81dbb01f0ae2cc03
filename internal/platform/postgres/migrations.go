package postgres

import "embed"

// MigrationsFS holds the embedded goose migration files. Pass it to
// goose.SetBaseFS and run migrations against the "migrations" directory.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
