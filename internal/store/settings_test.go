package store

import (
	"context"
	"errors"
	"testing"

	"github.com/questify/questify/internal/db"
)

func TestGetJWTSecretPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}

	second, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("expected same secret, got %q and %q", first, second)
	}
}

func TestEnsureSetting(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, ok, err := GetSetting(ctx, database, "site_name"); err != nil || ok {
		t.Fatalf("expected missing setting, got ok=%v err=%v", ok, err)
	}

	calls := 0
	gen := func() (string, error) {
		calls++
		return "Questify", nil
	}
	for range 2 {
		value, err := EnsureSetting(ctx, database, "site_name", gen)
		if err != nil {
			t.Fatal(err)
		}
		if value != "Questify" {
			t.Errorf("expected Questify, got %q", value)
		}
	}
	if calls != 1 {
		t.Errorf("expected generator to run once, ran %d times", calls)
	}

	boom := errors.New("boom")
	_, err := EnsureSetting(ctx, database, "other", func() (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected generator error, got %v", err)
	}
}
