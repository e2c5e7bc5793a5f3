package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
)

func TestToggleUpvoteTwiceRestoresState(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "owner@example.com")
	voter := mustUser(t, database, "voter@example.com")
	item := mustItem(t, database, owner.ID, "Bike", model.ItemTypeFound)

	// Someone else's upvote keeps the count non-zero.
	_, err := AddUpvote(ctx, database, item.ID, owner.ID)
	require.NoError(t, err)

	before, err := GetUpvoteState(ctx, database, item.ID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UpvoteState{Upvoted: false, Upvotes: 1}, *before)

	first, err := ToggleUpvote(ctx, database, item.ID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UpvoteState{Upvoted: true, Upvotes: 2}, *first)

	second, err := ToggleUpvote(ctx, database, item.ID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, *before, *second)

	assert.Equal(t, 1, countRows(t, database, "upvotes", item.ID))
}

func TestAddAndRemoveUpvoteIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "owner@example.com")
	item := mustItem(t, database, owner.ID, "Ring", model.ItemTypeLost)

	for range 2 {
		state, err := AddUpvote(ctx, database, item.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, model.UpvoteState{Upvoted: true, Upvotes: 1}, *state)
	}

	state, err := GetUpvoteState(ctx, database, item.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, state.Upvoted)

	for range 2 {
		state, err := RemoveUpvote(ctx, database, item.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, model.UpvoteState{Upvoted: false, Upvotes: 0}, *state)
	}
}

func TestUpvoteCountsAppearInListing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "owner@example.com")
	a := mustUser(t, database, "a@example.com")
	b := mustUser(t, database, "b@example.com")
	item := mustItem(t, database, owner.ID, "Glasses", model.ItemTypeFound)

	ToggleUpvote(ctx, database, item.ID, a.ID)
	ToggleUpvote(ctx, database, item.ID, b.ID)
	AddComment(ctx, database, item.ID, a.ID, "Are they round?")

	items, err := ListActiveItems(ctx, database, model.ItemTypeFound, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Upvotes)
	assert.Equal(t, 1, items[0].Comments)
}

func TestUpvoteMissingOrResolvedItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "owner@example.com")
	item := mustItem(t, database, owner.ID, "Coat", model.ItemTypeFound)
	require.NoError(t, SetItemStatus(ctx, database, item.ID, owner.ID, model.ItemStatusResolved))

	_, err := ToggleUpvote(ctx, database, "missing", owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ToggleUpvote(ctx, database, item.ID, owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
