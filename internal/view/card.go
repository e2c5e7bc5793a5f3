package view

import (
	"context"
	"errors"
	"strings"

	"github.com/questify/questify/internal/model"
)

// ErrShareFailed is returned when neither native sharing nor the clipboard
// fallback worked.
var ErrShareFailed = errors.New("share failed")

// ShareData is what gets handed to a native share target.
type ShareData struct {
	Title string
	Text  string
	URL   string
}

// Sharer is a platform-native share target.
type Sharer interface {
	Share(ctx context.Context, data ShareData) error
}

// Clipboard receives the link when native sharing is unavailable.
type Clipboard interface {
	WriteText(text string) error
}

// ShareMethod reports how an item was shared.
type ShareMethod string

const (
	SharedNative ShareMethod = "native"
	SharedCopied ShareMethod = "copied"
)

// ItemURL returns the public link to an item on its listing page.
func ItemURL(baseURL string, item model.Item) string {
	return strings.TrimRight(baseURL, "/") + "/" + item.Type + "#item-" + item.ID
}

// Card is one item with the viewer's local engagement state.
type Card struct {
	gw Gateway

	Item     model.Item
	Upvoted  bool
	Upvotes  int
	Comments int
}

// NewCard seeds a card from the counts the feed returned.
func NewCard(gw Gateway, item model.Item) *Card {
	return &Card{
		gw:       gw,
		Item:     item,
		Upvotes:  item.Upvotes,
		Comments: item.Comments,
	}
}

// NewCards builds a card per item.
func NewCards(gw Gateway, items []model.Item) []*Card {
	cards := make([]*Card, 0, len(items))
	for _, it := range items {
		cards = append(cards, NewCard(gw, it))
	}
	return cards
}

// Init asks the service whether the viewer upvoted the item. Anonymous
// viewers make no call.
func (c *Card) Init(ctx context.Context) error {
	if !c.gw.Authenticated() {
		return nil
	}
	state, err := c.gw.UpvoteStatus(ctx, c.Item.ID)
	if err != nil {
		return err
	}
	c.Upvoted = state.Upvoted
	c.Upvotes = state.Upvotes
	return nil
}

// ToggleUpvote flips the upvote optimistically, then settles on the
// service's answer. A failed call restores the previous state.
func (c *Card) ToggleUpvote(ctx context.Context) error {
	if !c.gw.Authenticated() {
		return model.ErrAuthRequired
	}

	prevUpvoted, prevUpvotes := c.Upvoted, c.Upvotes
	c.Upvoted = !prevUpvoted
	if c.Upvoted {
		c.Upvotes++
	} else {
		c.Upvotes--
	}

	state, err := c.gw.ToggleUpvote(ctx, c.Item.ID)
	if err != nil {
		c.Upvoted, c.Upvotes = prevUpvoted, prevUpvotes
		return err
	}
	c.Upvoted = state.Upvoted
	c.Upvotes = state.Upvotes
	return nil
}

// RevealContact returns the stored contact details verbatim.
func (c *Card) RevealContact() (string, error) {
	if !c.gw.Authenticated() {
		return "", model.ErrAuthRequired
	}
	return c.Item.ContactInfo, nil
}

// Share tries native first and falls back to copying the link. Either
// target may be nil.
func (c *Card) Share(ctx context.Context, baseURL string, native Sharer, clip Clipboard) (ShareMethod, error) {
	data := ShareData{
		Title: c.Item.Title,
		Text:  c.Item.Description,
		URL:   ItemURL(baseURL, c.Item),
	}
	if native != nil {
		if err := native.Share(ctx, data); err == nil {
			return SharedNative, nil
		}
	}
	if clip != nil {
		if err := clip.WriteText(data.URL); err == nil {
			return SharedCopied, nil
		}
	}
	return "", ErrShareFailed
}

// OpenComments opens and loads the comments panel for the item. Each
// comment added through the panel bumps the card's counter.
func (c *Card) OpenComments(ctx context.Context) (*CommentsPanel, error) {
	if !c.gw.Authenticated() {
		return nil, model.ErrAuthRequired
	}
	panel := NewCommentsPanel(c.gw, c.Item.ID)
	panel.OnAdded = func(*model.Comment) { c.Comments++ }
	return panel, panel.Open(ctx)
}
