package store

import (
	"context"

	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
)

// Scoped runs store operations on behalf of one viewer. An empty UserID is an
// anonymous viewer: reads are allowed, writes fail with model.ErrAuthRequired,
// and contact details are withheld.
type Scoped struct {
	DB     *db.DB
	UserID string
}

// NewScoped returns a store view bound to userID.
func NewScoped(conn *db.DB, userID string) *Scoped {
	return &Scoped{DB: conn, UserID: userID}
}

// Authenticated reports whether the viewer is signed in.
func (s *Scoped) Authenticated() bool {
	return s.UserID != ""
}

// ListItems returns active items of itemType ("" for all), newest first.
func (s *Scoped) ListItems(ctx context.Context, itemType string) ([]model.Item, error) {
	items, err := ListActiveItems(ctx, s.DB, itemType, 0)
	if err != nil {
		return nil, err
	}
	if !s.Authenticated() {
		for i := range items {
			items[i].ContactInfo = ""
		}
	}
	return items, nil
}

// UpvoteStatus returns the viewer's upvote state for an item.
func (s *Scoped) UpvoteStatus(ctx context.Context, itemID string) (*model.UpvoteState, error) {
	if !s.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	return GetUpvoteState(ctx, s.DB, itemID, s.UserID)
}

// ToggleUpvote flips the viewer's upvote on an item.
func (s *Scoped) ToggleUpvote(ctx context.Context, itemID string) (*model.UpvoteState, error) {
	if !s.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	return ToggleUpvote(ctx, s.DB, itemID, s.UserID)
}

// ListComments returns an item's comments, newest first.
func (s *Scoped) ListComments(ctx context.Context, itemID string) ([]model.Comment, error) {
	return ListComments(ctx, s.DB, itemID)
}

// AddComment posts a comment as the viewer.
func (s *Scoped) AddComment(ctx context.Context, itemID, content string) (*model.Comment, error) {
	if !s.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	return AddComment(ctx, s.DB, itemID, s.UserID, content)
}

// CreateItem posts a new item owned by the viewer.
func (s *Scoped) CreateItem(ctx context.Context, in model.ItemInput) (*model.Item, error) {
	if !s.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return CreateItem(ctx, s.DB, s.UserID, in)
}

// GetProfile returns the viewer's profile, or nil if it has not been saved.
func (s *Scoped) GetProfile(ctx context.Context) (*model.Profile, error) {
	if !s.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	return GetProfile(ctx, s.DB, s.UserID)
}

// UpsertProfile saves the viewer's profile.
func (s *Scoped) UpsertProfile(ctx context.Context, in model.ProfileInput) (*model.Profile, error) {
	if !s.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	return UpsertProfile(ctx, s.DB, s.UserID, in)
}

// ListOwnItems returns every item the viewer posted.
func (s *Scoped) ListOwnItems(ctx context.Context) ([]model.Item, error) {
	if !s.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	return ListUserItems(ctx, s.DB, s.UserID)
}

// DeleteItem deletes one of the viewer's items.
func (s *Scoped) DeleteItem(ctx context.Context, itemID string) error {
	if !s.Authenticated() {
		return model.ErrAuthRequired
	}
	return DeleteItem(ctx, s.DB, itemID, s.UserID)
}

// ResolveItem marks one of the viewer's items as resolved.
func (s *Scoped) ResolveItem(ctx context.Context, itemID string) error {
	if !s.Authenticated() {
		return model.ErrAuthRequired
	}
	return SetItemStatus(ctx, s.DB, itemID, s.UserID, model.ItemStatusResolved)
}
