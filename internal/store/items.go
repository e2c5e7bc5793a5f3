package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
)

// itemColumns selects an item with its derived upvote and comment counts.
const itemColumns = `i.id, i.user_id, i.title, i.description, i.image_url, i.location, i.contact_info,
        i.category, i.type, i.status, i.created_at, i.updated_at,
        (SELECT COUNT(*) FROM upvotes u WHERE u.item_id = i.id) AS upvotes,
        (SELECT COUNT(*) FROM comments c WHERE c.item_id = i.id) AS comments`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var imageURL sql.NullString
	err := row.Scan(&item.ID, &item.UserID, &item.Title, &item.Description, &imageURL, &item.Location,
		&item.ContactInfo, &item.Category, &item.Type, &item.Status, &item.CreatedAt, &item.UpdatedAt,
		&item.Upvotes, &item.Comments)
	if err != nil {
		return nil, err
	}
	item.ImageURL = imageURL.String
	return item, nil
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// CreateItem creates a new active item owned by userID. The input must
// already be validated.
func CreateItem(ctx context.Context, conn *db.DB, userID string, in model.ItemInput) (*model.Item, error) {
	in = in.Normalize()
	var imageURL sql.NullString
	if in.ImageURL != "" {
		imageURL = sql.NullString{String: in.ImageURL, Valid: true}
	}

	id := newID()
	ts := now()
	_, err := conn.ExecContext(ctx, conn.Rebind(
		`INSERT INTO items (id, user_id, title, description, image_url, location, contact_info,
		                    category, type, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id, userID, in.Title, in.Description, imageURL, in.Location, in.ContactInfo,
		in.Category, in.Type, model.ItemStatusActive, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, conn, id)
}

// GetItem returns an item by ID with its counts.
func GetItem(ctx context.Context, conn *db.DB, id string) (*model.Item, error) {
	item, err := scanItem(conn.QueryRowContext(ctx, conn.Rebind(
		`SELECT `+itemColumns+` FROM items i WHERE i.id = ?`), id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListActiveItems returns active items, newest first, optionally filtered by
// type. A limit of zero returns every match.
func ListActiveItems(ctx context.Context, conn *db.DB, itemType string, limit int) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.status = ?`
	args := []any{model.ItemStatusActive}
	if itemType != "" {
		query += ` AND i.type = ?`
		args = append(args, itemType)
	}
	query += ` ORDER BY i.created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := conn.QueryContext(ctx, conn.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListUserItems returns every item owned by userID regardless of status,
// newest first.
func ListUserItems(ctx context.Context, conn *db.DB, userID string) ([]model.Item, error) {
	rows, err := conn.QueryContext(ctx, conn.Rebind(
		`SELECT `+itemColumns+` FROM items i WHERE i.user_id = ? ORDER BY i.created_at DESC`), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing user items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ItemStats counts active items per type and resolved items.
type ItemStats struct {
	Lost     int
	Found    int
	Resolved int
}

// CountItems returns the number of active lost and found items and the
// number of resolved ones.
func CountItems(ctx context.Context, conn *db.DB) (*ItemStats, error) {
	stats := &ItemStats{}
	err := conn.QueryRowContext(ctx, conn.Rebind(
		`SELECT
		    COALESCE(SUM(CASE WHEN status = ? AND type = ? THEN 1 ELSE 0 END), 0),
		    COALESCE(SUM(CASE WHEN status = ? AND type = ? THEN 1 ELSE 0 END), 0),
		    COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		 FROM items`),
		model.ItemStatusActive, model.ItemTypeLost,
		model.ItemStatusActive, model.ItemTypeFound,
		model.ItemStatusResolved,
	).Scan(&stats.Lost, &stats.Found, &stats.Resolved)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}
	return stats, nil
}

// SetItemStatus changes the status of an item owned by userID.
func SetItemStatus(ctx context.Context, conn *db.DB, id, userID, status string) error {
	result, err := conn.ExecContext(ctx, conn.Rebind(
		`UPDATE items SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`),
		status, now(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItem deletes an item owned by userID together with its upvotes and
// comments.
func DeleteItem(ctx context.Context, conn *db.DB, id, userID string) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var owner string
	err = tx.QueryRowContext(ctx, conn.Rebind(`SELECT user_id FROM items WHERE id = ?`), id).Scan(&owner)
	if err == sql.ErrNoRows || (err == nil && owner != userID) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking item owner: %w", err)
	}

	for _, q := range []string{
		`DELETE FROM upvotes WHERE item_id = ?`,
		`DELETE FROM comments WHERE item_id = ?`,
		`DELETE FROM items WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, conn.Rebind(q), id); err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item deletion: %w", err)
	}
	return nil
}

// itemIsActive reports whether the item exists and is listed.
func itemIsActive(ctx context.Context, conn *db.DB, q queryRower, id string) (bool, error) {
	var status string
	err := q.QueryRowContext(ctx, conn.Rebind(`SELECT status FROM items WHERE id = ?`), id).Scan(&status)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking item: %w", err)
	}
	return status == model.ItemStatusActive, nil
}
