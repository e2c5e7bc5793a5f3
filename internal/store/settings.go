package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/questify/questify/internal/db"
)

const jwtSecretKey = "jwt_secret"

// GetSetting returns a stored setting and whether it exists.
func GetSetting(ctx context.Context, conn *db.DB, key string) (string, bool, error) {
	var value string
	err := conn.QueryRowContext(ctx, conn.Rebind(`SELECT value FROM settings WHERE key = ?`), key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, true, nil
}

// EnsureSetting returns the value stored under key. When there is none, it
// stores the result of generate. Concurrent callers all see the first value
// written.
func EnsureSetting(ctx context.Context, conn *db.DB, key string, generate func() (string, error)) (string, error) {
	if value, ok, err := GetSetting(ctx, conn, key); err != nil || ok {
		return value, err
	}

	candidate, err := generate()
	if err != nil {
		return "", fmt.Errorf("generating setting %s: %w", key, err)
	}
	_, err = conn.ExecContext(ctx, conn.Rebind(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING`),
		key, candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing setting %s: %w", key, err)
	}

	value, _, err := GetSetting(ctx, conn, key)
	return value, err
}

// GetJWTSecret returns the server's token signing secret, creating a random
// one on first use.
func GetJWTSecret(ctx context.Context, conn *db.DB) (string, error) {
	return EnsureSetting(ctx, conn, jwtSecretKey, randomHex)
}

func randomHex() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
