// Package view holds the page-independent state behind the item listings,
// cards, comments panel, post form and profile page. It talks to the data
// service only through Gateway and ProfileGateway.
package view

import (
	"context"

	"github.com/questify/questify/internal/model"
)

// Gateway is the data service as seen by one viewer.
type Gateway interface {
	// Authenticated reports whether the viewer is signed in.
	Authenticated() bool
	ListItems(ctx context.Context, itemType string) ([]model.Item, error)
	UpvoteStatus(ctx context.Context, itemID string) (*model.UpvoteState, error)
	ToggleUpvote(ctx context.Context, itemID string) (*model.UpvoteState, error)
	ListComments(ctx context.Context, itemID string) ([]model.Comment, error)
	AddComment(ctx context.Context, itemID, content string) (*model.Comment, error)
	CreateItem(ctx context.Context, in model.ItemInput) (*model.Item, error)
}

// ProfileGateway covers the signed-in viewer's own profile and items.
type ProfileGateway interface {
	// GetProfile returns nil, nil when the viewer has not saved a profile yet.
	GetProfile(ctx context.Context) (*model.Profile, error)
	UpsertProfile(ctx context.Context, in model.ProfileInput) (*model.Profile, error)
	ListOwnItems(ctx context.Context) ([]model.Item, error)
	DeleteItem(ctx context.Context, itemID string) error
}

// Messages shown in place of the underlying error.
const (
	MsgLoadItems     = "failed to load items"
	MsgLoadComments  = "failed to load comments"
	MsgAddComment    = "failed to add comment"
	MsgUpvote        = "failed to update upvote"
	MsgPostItem      = "failed to post item"
	MsgLoadProfile   = "failed to load profile"
	MsgAuthRequired  = "please log in first"
	MsgShareFailed   = "unable to share this item"
	MsgCommentsEmpty = "No comments yet. Be the first to comment!"
)
