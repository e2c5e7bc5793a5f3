package db

import (
	"testing"
)

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: Postgres}
	got := pg.Rebind(`SELECT id FROM items WHERE status = ? AND type = ? ORDER BY created_at`)
	want := `SELECT id FROM items WHERE status = $1 AND type = $2 ORDER BY created_at`
	if got != want {
		t.Errorf("Rebind postgres:\n got %q\nwant %q", got, want)
	}

	lite := &DB{Dialect: SQLite}
	q := `SELECT 1 WHERE ? = ?`
	if got := lite.Rebind(q); got != q {
		t.Errorf("Rebind sqlite changed query: %q", got)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := Migrate(database); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var n int
	err := database.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('items', 'upvotes', 'comments', 'profiles')`,
	).Scan(&n)
	if err != nil {
		t.Fatalf("counting tables: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 domain tables, got %d", n)
	}
}

func TestOpenInvalidPostgresDSN(t *testing.T) {
	if _, err := Open("postgres://%zz"); err == nil {
		t.Error("expected error for malformed postgres DSN")
	}
}
