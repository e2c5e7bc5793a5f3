package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
)

// ListComments returns the comments on an item, newest first, with the
// author's display name when a profile exists.
func ListComments(ctx context.Context, conn *db.DB, itemID string) ([]model.Comment, error) {
	rows, err := conn.QueryContext(ctx, conn.Rebind(
		`SELECT c.id, c.item_id, c.user_id, c.content, c.created_at,
		        COALESCE(NULLIF(p.username, ''), p.full_name, '') AS author
		 FROM comments c
		 LEFT JOIN profiles p ON p.id = c.user_id
		 WHERE c.item_id = ?
		 ORDER BY c.created_at DESC`), itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.ItemID, &c.UserID, &c.Content, &c.CreatedAt, &c.Author); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// AddComment appends a comment to an active item. Content is trimmed and must
// not be empty.
func AddComment(ctx context.Context, conn *db.DB, itemID, userID, content string) (*model.Comment, error) {
	if err := model.ValidateComment(content); err != nil {
		return nil, err
	}

	active, err := itemIsActive(ctx, conn, conn.DB, itemID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrNotFound
	}

	c := &model.Comment{
		ID:        newID(),
		ItemID:    itemID,
		UserID:    userID,
		Content:   strings.TrimSpace(content),
		CreatedAt: now(),
	}
	_, err = conn.ExecContext(ctx, conn.Rebind(
		`INSERT INTO comments (id, item_id, user_id, content, created_at) VALUES (?, ?, ?, ?, ?)`),
		c.ID, c.ItemID, c.UserID, c.Content, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("adding comment: %w", err)
	}
	return c, nil
}
