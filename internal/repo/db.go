// Package repo contains the Postgres implementations of the driver app's
// sources. Each resource has its own file. No business logic lives here;
// only SQL, type mapping and boundary normalization.
package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// validID reports whether id can be a primary key. Ids are opaque strings
// to the rest of the system but uuid columns here.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// nullableID maps an empty id to NULL.
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// SQLSTATE codes for writes that reference a missing row or break a CHECK.
const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// pgCode returns the SQLSTATE of a server-side error, or "" for anything else.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
