package view

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/questify/questify/internal/model"
)

// ProfilePage is the signed-in viewer's profile and posted items.
type ProfilePage struct {
	// Profile is nil until the viewer saves one.
	Profile *model.Profile
	Items   []model.Item
}

// LoadProfile reads the profile and the viewer's items concurrently.
func LoadProfile(ctx context.Context, gw ProfileGateway) (*ProfilePage, error) {
	page := &ProfilePage{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := gw.GetProfile(ctx)
		page.Profile = p
		return err
	})
	g.Go(func() error {
		items, err := gw.ListOwnItems(ctx)
		page.Items = items
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

// Save upserts the profile fields and keeps the page in sync.
func (p *ProfilePage) Save(ctx context.Context, gw ProfileGateway, in model.ProfileInput) error {
	saved, err := gw.UpsertProfile(ctx, in)
	if err != nil {
		return err
	}
	p.Profile = saved
	return nil
}

// Delete removes one of the viewer's items and drops it from the page.
func (p *ProfilePage) Delete(ctx context.Context, gw ProfileGateway, itemID string) error {
	if err := gw.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	kept := p.Items[:0]
	for _, it := range p.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	p.Items = kept
	return nil
}
