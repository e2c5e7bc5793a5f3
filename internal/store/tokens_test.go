package store

import (
	"context"
	"testing"
	"time"

	"github.com/questify/questify/internal/db"
)

func mustRevoked(t *testing.T, database *db.DB, jti string) bool {
	t.Helper()
	revoked, err := IsTokenRevoked(context.Background(), database, jti)
	if err != nil {
		t.Fatalf("IsTokenRevoked(%s): %v", jti, err)
	}
	return revoked
}

func TestRevokeToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if mustRevoked(t, database, "session-a") {
		t.Fatal("fresh token reported as revoked")
	}

	for range 2 {
		if err := RevokeToken(ctx, database, "session-a", time.Now().Add(time.Hour)); err != nil {
			t.Fatalf("RevokeToken: %v", err)
		}
	}

	if !mustRevoked(t, database, "session-a") {
		t.Error("expected session-a to be revoked")
	}
	if mustRevoked(t, database, "session-b") {
		t.Error("expected session-b to stay valid")
	}
}

func TestPruneRevokedTokens(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := database.ExecContext(ctx, database.Rebind(
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?), (?, ?)`),
		"stale", time.Now().Add(-time.Hour).UTC(), "live", time.Now().Add(time.Hour).UTC(),
	); err != nil {
		t.Fatal(err)
	}

	n, err := PruneRevokedTokens(ctx, database)
	if err != nil {
		t.Fatalf("PruneRevokedTokens: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned entry, got %d", n)
	}
	if mustRevoked(t, database, "stale") {
		t.Error("expected stale entry to be gone")
	}
	if !mustRevoked(t, database, "live") {
		t.Error("expected live entry to remain")
	}
}
