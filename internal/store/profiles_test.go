package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
)

func TestGetProfileMissingIsNil(t *testing.T) {
	database := db.NewTestDB(t)
	u := mustUser(t, database, "new@example.com")

	p, err := GetProfile(context.Background(), database, u.ID)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestUpsertProfile(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	u := mustUser(t, database, "ana@example.com")

	p, err := UpsertProfile(ctx, database, u.ID, model.ProfileInput{FullName: "Ana Novak", Username: "ana"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.ID)
	assert.Equal(t, "Ana Novak", p.FullName)

	p, err = UpsertProfile(ctx, database, u.ID, model.ProfileInput{FullName: "Ana N.", Username: " ana2 "})
	require.NoError(t, err)
	assert.Equal(t, "Ana N.", p.FullName)
	assert.Equal(t, "ana2", p.Username)

	var rows int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestAvatar(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	u := mustUser(t, database, "pic@example.com")

	require.NoError(t, SetAvatar(ctx, database, u.ID, []byte("fake image data"), "image/jpeg"))

	data, mime, err := GetAvatar(ctx, database, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "fake image data", string(data))
	assert.Equal(t, "image/jpeg", mime)

	p, err := GetProfile(ctx, database, u.ID)
	require.NoError(t, err)
	assert.Equal(t, AvatarPath(u.ID), p.AvatarURL)

	// Updating names keeps the avatar.
	_, err = UpsertProfile(ctx, database, u.ID, model.ProfileInput{Username: "pic"})
	require.NoError(t, err)
	data, _, _ = GetAvatar(ctx, database, u.ID)
	assert.NotEmpty(t, data)
}
