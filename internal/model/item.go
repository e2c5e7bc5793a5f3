package model

import (
	"strings"
	"time"
)

// Item is a lost or found belonging posted by a user.
type Item struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	Location    string    `json:"location"`
	ContactInfo string    `json:"contact_info,omitempty"`
	Category    string    `json:"category"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Derived counts (only populated by listings).
	Upvotes  int `json:"upvotes"`
	Comments int `json:"comments"`
}

// Item types.
const (
	ItemTypeLost  = "lost"
	ItemTypeFound = "found"
)

// Item statuses. Only active items are listed.
const (
	ItemStatusActive   = "active"
	ItemStatusResolved = "resolved"
)

// Categories is the fixed list of item categories offered by the post form.
var Categories = []string{
	"Electronics",
	"Bags",
	"Jewelry",
	"Accessories",
	"Keys",
	"Documents",
	"Toys",
	"Clothing",
	"Sports Equipment",
	"Other",
}

// ValidItemType reports whether t is lost or found.
func ValidItemType(t string) bool {
	return t == ItemTypeLost || t == ItemTypeFound
}

// ValidItemStatus reports whether s is a known item status.
func ValidItemStatus(s string) bool {
	return s == ItemStatusActive || s == ItemStatusResolved
}

// ValidCategory reports whether c is one of Categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// ItemInput holds the fields a user submits when posting an item.
type ItemInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Location    string `json:"location"`
	ContactInfo string `json:"contact_info"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}

// Normalize trims surrounding whitespace from every field.
func (in ItemInput) Normalize() ItemInput {
	return ItemInput{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Location:    strings.TrimSpace(in.Location),
		ContactInfo: strings.TrimSpace(in.ContactInfo),
		Category:    strings.TrimSpace(in.Category),
		Type:        strings.TrimSpace(in.Type),
	}
}

// Validate checks that every required field is present. The image URL is optional.
func (in ItemInput) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"title", in.Title},
		{"description", in.Description},
		{"location", in.Location},
		{"contact_info", in.ContactInfo},
		{"category", in.Category},
		{"type", in.Type},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "is required"}
		}
	}
	if !ValidItemType(strings.TrimSpace(in.Type)) {
		return &ValidationError{Field: "type", Message: "must be 'lost' or 'found'"}
	}
	if !ValidCategory(strings.TrimSpace(in.Category)) {
		return &ValidationError{Field: "category", Message: "is not a known category"}
	}
	return nil
}
