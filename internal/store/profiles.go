package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
)

// AvatarPath returns the URL path an uploaded avatar is served from.
func AvatarPath(userID string) string {
	return "/profiles/" + userID + "/avatar"
}

// GetProfile returns a user's profile, or nil if none has been saved yet.
func GetProfile(ctx context.Context, conn *db.DB, userID string) (*model.Profile, error) {
	p := &model.Profile{}
	var fullName, username, avatarURL, avatarMime sql.NullString
	err := conn.QueryRowContext(ctx, conn.Rebind(
		`SELECT id, full_name, username, avatar_url, avatar_mime, updated_at
		 FROM profiles WHERE id = ?`), userID,
	).Scan(&p.ID, &fullName, &username, &avatarURL, &avatarMime, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	p.FullName = fullName.String
	p.Username = username.String
	p.AvatarURL = avatarURL.String
	p.AvatarMime = avatarMime.String
	return p, nil
}

// UpsertProfile creates or updates the profile keyed by userID.
func UpsertProfile(ctx context.Context, conn *db.DB, userID string, in model.ProfileInput) (*model.Profile, error) {
	_, err := conn.ExecContext(ctx, conn.Rebind(
		`INSERT INTO profiles (id, full_name, username, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     full_name = excluded.full_name,
		     username = excluded.username,
		     updated_at = excluded.updated_at`),
		userID, strings.TrimSpace(in.FullName), strings.TrimSpace(in.Username), now(),
	)
	if err != nil {
		return nil, fmt.Errorf("upserting profile: %w", err)
	}
	return GetProfile(ctx, conn, userID)
}

// SetAvatar stores processed avatar image data and points avatar_url at it.
func SetAvatar(ctx context.Context, conn *db.DB, userID string, image []byte, mime string) error {
	_, err := conn.ExecContext(ctx, conn.Rebind(
		`INSERT INTO profiles (id, avatar, avatar_mime, avatar_url, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     avatar = excluded.avatar,
		     avatar_mime = excluded.avatar_mime,
		     avatar_url = excluded.avatar_url,
		     updated_at = excluded.updated_at`),
		userID, image, mime, AvatarPath(userID), now(),
	)
	if err != nil {
		return fmt.Errorf("setting avatar: %w", err)
	}
	return nil
}

// GetAvatar returns a user's avatar image data and MIME type.
func GetAvatar(ctx context.Context, conn *db.DB, userID string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := conn.QueryRowContext(ctx, conn.Rebind(
		`SELECT avatar, avatar_mime FROM profiles WHERE id = ?`), userID,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting avatar: %w", err)
	}
	return image, mime.String, nil
}
