// Package store defines interfaces for data persistence operations.
// The interfaces keep the application's core logic independent of the
// storage backend; the PostgreSQL implementations live in
// internal/platform/postgres.
package store
