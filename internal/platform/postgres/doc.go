// Package postgres implements the store interfaces using PostgreSQL
// through the database/sql interface and the pgx driver.
package postgres
