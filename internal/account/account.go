// Package account implements email and password accounts on top of the
// store and session tokens.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/questify/questify/internal/auth"
	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
	"github.com/questify/questify/internal/store"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is a signed-in user and their token.
type Session struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// Signup creates an account and signs it in.
func Signup(ctx context.Context, conn *db.DB, secret, email, password string) (*Session, error) {
	email = model.NormalizeEmail(email)
	if err := model.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := model.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := store.CreateUser(ctx, conn, email, string(hash))
	if err != nil {
		return nil, err
	}

	slog.Info("user signed up", "user", user.ID)
	return newSession(secret, user)
}

// Login checks credentials and issues a new session.
func Login(ctx context.Context, conn *db.DB, secret, email, password string) (*Session, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := store.GetUserByEmail(ctx, conn, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login failed", "email", email)
		return nil, ErrInvalidCredentials
	}

	slog.Info("user logged in", "user", user.ID)
	return newSession(secret, user)
}

// Logout revokes the session token so it can no longer be used.
func Logout(ctx context.Context, conn *db.DB, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := store.RevokeToken(ctx, conn, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	slog.Info("user logged out", "user", claims.UserID)
	return nil
}

// ChangePassword replaces the password after checking the current one.
func ChangePassword(ctx context.Context, conn *db.DB, userID, current, next string) error {
	if current == "" {
		return &model.ValidationError{Field: "current_password", Message: "is required"}
	}
	if err := model.ValidatePassword(next); err != nil {
		return err
	}

	user, err := store.GetUser(ctx, conn, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := store.UpdateUserPassword(ctx, conn, userID, string(hash)); err != nil {
		return err
	}

	slog.Info("user changed password", "user", userID)
	return nil
}

func newSession(secret string, user *model.User) (*Session, error) {
	token, err := auth.GenerateToken(secret, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: user.ID, Token: token}, nil
}
