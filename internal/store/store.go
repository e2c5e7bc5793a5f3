package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a guarded mutation matched no row, either
	// because the row does not exist or the caller does not own it.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when signing up with a taken email.
	ErrDuplicateEmail = errors.New("email already registered")
)

// now returns the timestamp written to created_at/updated_at columns.
var now = func() time.Time { return time.Now().UTC() }

// newID returns a fresh row identifier.
func newID() string {
	return uuid.NewString()
}

// queryRower is satisfied by *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// isUniqueViolation reports whether err is a unique constraint failure in
// either dialect.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code == "23505"
	}
	return false
}
