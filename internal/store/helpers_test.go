package store

import (
	"context"
	"testing"
	"time"

	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
)

// useClock makes now() advance one second per call so created_at ordering is
// deterministic within a test.
func useClock(t *testing.T) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	prev := now
	now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	t.Cleanup(func() { now = prev })
}

func mustUser(t *testing.T, database *db.DB, email string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, email, "hash")
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

func itemInput(title, itemType string) model.ItemInput {
	return model.ItemInput{
		Title:       title,
		Description: "Description of " + title,
		Location:    "Central Park",
		ContactInfo: "555-0100",
		Category:    "Other",
		Type:        itemType,
	}
}

// countRows counts the upvote or comment rows stored for an item.
func countRows(t *testing.T, database *db.DB, table, itemID string) int {
	t.Helper()
	var n int
	err := database.QueryRowContext(context.Background(), database.Rebind(
		`SELECT COUNT(*) FROM `+table+` WHERE item_id = ?`), itemID,
	).Scan(&n)
	if err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}

func mustItem(t *testing.T, database *db.DB, userID, title, itemType string) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), database, userID, itemInput(title, itemType))
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", title, err)
	}
	return item
}
