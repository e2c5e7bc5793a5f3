package db

import (
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent and valid in both dialects. Append new
// migrations at the end.
var migrations = []string{
	// Migration 1: listing pages filter on type as well as status.
	`CREATE INDEX IF NOT EXISTS idx_items_type_status ON items(type, status, created_at)`,
}

// Migrate ensures the schema and runs the migrations.
func Migrate(d *DB) error {
	if err := EnsureSchema(d); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for i, m := range migrations {
		if _, err := d.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
