package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
)

// GetUpvoteState returns whether userID upvoted itemID and the item's total.
func GetUpvoteState(ctx context.Context, conn *db.DB, itemID, userID string) (*model.UpvoteState, error) {
	return upvoteState(ctx, conn, conn.DB, itemID, userID)
}

// AddUpvote records an upvote. Adding an existing upvote is a no-op.
func AddUpvote(ctx context.Context, conn *db.DB, itemID, userID string) (*model.UpvoteState, error) {
	return changeUpvote(ctx, conn, itemID, userID, func(tx *sql.Tx, upvoted bool) error {
		if upvoted {
			return nil
		}
		return insertUpvote(ctx, conn, tx, itemID, userID)
	})
}

// RemoveUpvote deletes an upvote. Removing a missing upvote is a no-op.
func RemoveUpvote(ctx context.Context, conn *db.DB, itemID, userID string) (*model.UpvoteState, error) {
	return changeUpvote(ctx, conn, itemID, userID, func(tx *sql.Tx, upvoted bool) error {
		if !upvoted {
			return nil
		}
		return deleteUpvote(ctx, conn, tx, itemID, userID)
	})
}

// ToggleUpvote flips userID's upvote on itemID and returns the resulting
// state. The flip and the recount happen in one transaction so the returned
// count always matches the stored rows.
func ToggleUpvote(ctx context.Context, conn *db.DB, itemID, userID string) (*model.UpvoteState, error) {
	return changeUpvote(ctx, conn, itemID, userID, func(tx *sql.Tx, upvoted bool) error {
		if upvoted {
			return deleteUpvote(ctx, conn, tx, itemID, userID)
		}
		return insertUpvote(ctx, conn, tx, itemID, userID)
	})
}

// changeUpvote runs apply inside a transaction with the current upvote flag
// and returns the state after it. Only active items accept changes.
func changeUpvote(ctx context.Context, conn *db.DB, itemID, userID string, apply func(tx *sql.Tx, upvoted bool) error) (*model.UpvoteState, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	active, err := itemIsActive(ctx, conn, tx, itemID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrNotFound
	}

	before, err := upvoteState(ctx, conn, tx, itemID, userID)
	if err != nil {
		return nil, err
	}
	if err := apply(tx, before.Upvoted); err != nil {
		return nil, err
	}
	after, err := upvoteState(ctx, conn, tx, itemID, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing upvote: %w", err)
	}
	return after, nil
}

func insertUpvote(ctx context.Context, conn *db.DB, tx *sql.Tx, itemID, userID string) error {
	_, err := tx.ExecContext(ctx, conn.Rebind(
		`INSERT INTO upvotes (id, item_id, user_id, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (item_id, user_id) DO NOTHING`),
		newID(), itemID, userID, now(),
	)
	if err != nil {
		return fmt.Errorf("adding upvote: %w", err)
	}
	return nil
}

func deleteUpvote(ctx context.Context, conn *db.DB, tx *sql.Tx, itemID, userID string) error {
	_, err := tx.ExecContext(ctx, conn.Rebind(
		`DELETE FROM upvotes WHERE item_id = ? AND user_id = ?`), itemID, userID,
	)
	if err != nil {
		return fmt.Errorf("removing upvote: %w", err)
	}
	return nil
}

func upvoteState(ctx context.Context, conn *db.DB, q queryRower, itemID, userID string) (*model.UpvoteState, error) {
	state := &model.UpvoteState{}
	var mine int
	err := q.QueryRowContext(ctx, conn.Rebind(
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN user_id = ? THEN 1 ELSE 0 END), 0)
		 FROM upvotes WHERE item_id = ?`), userID, itemID,
	).Scan(&state.Upvotes, &mine)
	if err != nil {
		return nil, fmt.Errorf("reading upvote state: %w", err)
	}
	state.Upvoted = mine > 0
	return state, nil
}
