package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
)

// CreateUser creates a new user account.
func CreateUser(ctx context.Context, conn *db.DB, email, passwordHash string) (*model.User, error) {
	id := newID()
	_, err := conn.ExecContext(ctx, conn.Rebind(
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`),
		id, email, passwordHash, now(),
	)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return GetUser(ctx, conn, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, conn *db.DB, id string) (*model.User, error) {
	u := &model.User{}
	err := conn.QueryRowContext(ctx, conn.Rebind(
		`SELECT id, email, password_hash, created_at FROM users WHERE id = ?`), id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns a user by email address.
func GetUserByEmail(ctx context.Context, conn *db.DB, email string) (*model.User, error) {
	u := &model.User{}
	err := conn.QueryRowContext(ctx, conn.Rebind(
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`), email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, conn *db.DB, id, passwordHash string) error {
	_, err := conn.ExecContext(ctx, conn.Rebind(
		`UPDATE users SET password_hash = ? WHERE id = ?`),
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}
