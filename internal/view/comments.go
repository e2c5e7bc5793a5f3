package view

import (
	"context"

	"github.com/questify/questify/internal/model"
)

// CommentsPanel lists and appends comments for one item.
type CommentsPanel struct {
	gw     Gateway
	ItemID string

	Comments []model.Comment
	Loading  bool
	Err      string
	Draft    string

	// OnAdded runs after a comment is stored, before the list is re-fetched.
	OnAdded func(*model.Comment)
}

// NewCommentsPanel returns an unopened panel.
func NewCommentsPanel(gw Gateway, itemID string) *CommentsPanel {
	return &CommentsPanel{gw: gw, ItemID: itemID}
}

// Open fetches the comments, newest first.
func (p *CommentsPanel) Open(ctx context.Context) error {
	p.Loading = true
	defer func() { p.Loading = false }()

	comments, err := p.gw.ListComments(ctx, p.ItemID)
	if err != nil {
		p.Err = MsgLoadComments
		return err
	}
	p.Comments = comments
	p.Err = ""
	return nil
}

// Empty reports whether the loaded panel has no comments.
func (p *CommentsPanel) Empty() bool {
	return !p.Loading && len(p.Comments) == 0
}

// Submit posts Draft. Blank drafts and anonymous viewers are rejected
// without calling the service.
func (p *CommentsPanel) Submit(ctx context.Context) error {
	if !p.gw.Authenticated() {
		return model.ErrAuthRequired
	}
	if err := model.ValidateComment(p.Draft); err != nil {
		return err
	}

	c, err := p.gw.AddComment(ctx, p.ItemID, p.Draft)
	if err != nil {
		p.Err = MsgAddComment
		return err
	}
	p.Draft = ""
	if p.OnAdded != nil {
		p.OnAdded(c)
	}
	return p.Open(ctx)
}
