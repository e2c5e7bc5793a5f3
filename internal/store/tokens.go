package store

import (
	"context"
	"fmt"
	"time"

	"github.com/questify/questify/internal/db"
)

// RevokeToken puts a session token's JTI on the deny list until expiresAt.
// Entries whose tokens have already expired are dropped on the way.
func RevokeToken(ctx context.Context, conn *db.DB, jti string, expiresAt time.Time) error {
	if _, err := conn.ExecContext(ctx, conn.Rebind(
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?) ON CONFLICT (jti) DO NOTHING`),
		jti, expiresAt.UTC(),
	); err != nil {
		return fmt.Errorf("revoking token %s: %w", jti, err)
	}
	_, _ = PruneRevokedTokens(ctx, conn)
	return nil
}

// PruneRevokedTokens deletes deny-list entries for tokens that expired on
// their own and returns how many were removed.
func PruneRevokedTokens(ctx context.Context, conn *db.DB) (int64, error) {
	result, err := conn.ExecContext(ctx, conn.Rebind(`DELETE FROM revoked_tokens WHERE expires_at < ?`), now())
	if err != nil {
		return 0, fmt.Errorf("pruning revoked tokens: %w", err)
	}
	return result.RowsAffected()
}

// IsTokenRevoked reports whether logout revoked the token with this JTI.
func IsTokenRevoked(ctx context.Context, conn *db.DB, jti string) (bool, error) {
	var revoked bool
	err := conn.QueryRowContext(ctx, conn.Rebind(
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)`), jti,
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return revoked, nil
}
