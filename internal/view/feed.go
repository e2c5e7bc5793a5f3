package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/questify/questify/internal/model"
)

// Feed is the listing state for one item type ("" for every type).
type Feed struct {
	gw       Gateway
	itemType string

	Items   []model.Item
	Loading bool
	Err     string
}

// NewFeed returns an unloaded feed of itemType.
func NewFeed(gw Gateway, itemType string) *Feed {
	return &Feed{gw: gw, itemType: itemType}
}

// Type returns the current type filter.
func (f *Feed) Type() string {
	return f.itemType
}

// Load fetches active items. On failure Items is emptied and Err holds a
// generic message; the underlying error is returned for logging.
func (f *Feed) Load(ctx context.Context) error {
	f.Loading = true
	defer func() { f.Loading = false }()

	items, err := f.gw.ListItems(ctx, f.itemType)
	if err != nil {
		f.Items = nil
		f.Err = MsgLoadItems
		return err
	}
	f.Items = items
	f.Err = ""
	return nil
}

// Refresh re-fetches with the current filter.
func (f *Feed) Refresh(ctx context.Context) error {
	return f.Load(ctx)
}

// SetType changes the type filter and re-fetches when it differs.
func (f *Feed) SetType(ctx context.Context, itemType string) error {
	if itemType == f.itemType && f.Items != nil {
		return nil
	}
	f.itemType = itemType
	return f.Load(ctx)
}

// Recent returns at most n of the loaded items.
func (f *Feed) Recent(n int) []model.Item {
	if len(f.Items) <= n {
		return f.Items
	}
	return f.Items[:n]
}

// Filter keeps items whose title, description or location contains q
// (case-insensitive) and whose category equals category. An empty category
// or "all" matches every category.
func Filter(items []model.Item, q, category string) []model.Item {
	q = strings.ToLower(strings.TrimSpace(q))
	var out []model.Item
	for _, it := range items {
		if category != "" && category != "all" && it.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(it.Title), q) &&
			!strings.Contains(strings.ToLower(it.Description), q) &&
			!strings.Contains(strings.ToLower(it.Location), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Ago renders the age of t relative to now the way cards show it.
func Ago(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = -d
	}
	days := int((d + 24*time.Hour - 1) / (24 * time.Hour))
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "1 day ago"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	}
	return t.Format("Jan 2, 2006")
}
