package view

import (
	"context"

	"github.com/questify/questify/internal/model"
)

// PostForm is the new-item form.
type PostForm struct {
	gw    Gateway
	Input model.ItemInput
	Err   string
}

// NewPostForm returns an empty form.
func NewPostForm(gw Gateway) *PostForm {
	return &PostForm{gw: gw}
}

// ListingPath returns the listing an item of itemType appears on.
func ListingPath(itemType string) string {
	if itemType == model.ItemTypeFound {
		return "/found"
	}
	return "/lost"
}

// Submit validates and posts the form, then clears it. It returns the
// listing to go to next. Invalid input never reaches the service.
func (f *PostForm) Submit(ctx context.Context) (string, error) {
	if !f.gw.Authenticated() {
		return "/login", model.ErrAuthRequired
	}
	in := f.Input.Normalize()
	if err := in.Validate(); err != nil {
		f.Err = err.Error()
		return "", err
	}

	item, err := f.gw.CreateItem(ctx, in)
	if err != nil {
		f.Err = MsgPostItem
		return "", err
	}
	f.Input = model.ItemInput{}
	f.Err = ""
	return ListingPath(item.Type), nil
}
