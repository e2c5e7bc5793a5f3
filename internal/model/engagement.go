package model

import (
	"strings"
	"time"
)

// Upvote marks a user's interest in an item. At most one per (item, user).
type Upvote struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// UpvoteState is the authoritative upvote view of one item for one user.
type UpvoteState struct {
	Upvoted bool `json:"upvoted"`
	Upvotes int  `json:"upvotes"`
}

// Comment is an append-only note on an item.
type Comment struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Joined from profiles (not always populated).
	Author string `json:"author,omitempty"`
}

// MaxCommentLength bounds comment content.
const MaxCommentLength = 2000

// ValidateComment rejects empty or oversized comment content.
func ValidateComment(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return &ValidationError{Field: "content", Message: "is required"}
	}
	if len(trimmed) > MaxCommentLength {
		return &ValidationError{Field: "content", Message: "is too long"}
	}
	return nil
}
