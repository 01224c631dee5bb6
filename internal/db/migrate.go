package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id    TEXT PRIMARY KEY,
		full_name  TEXT NOT NULL,
		department TEXT NOT NULL,
		email      TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS records (
		id                    INTEGER PRIMARY KEY,
		owner_id              TEXT NOT NULL,
		work_id               TEXT NOT NULL,
		title                 TEXT NOT NULL,
		automation_score      INTEGER NOT NULL DEFAULT 0,
		monthly_saved_minutes INTEGER NOT NULL DEFAULT 0,
		tool_category         TEXT NOT NULL DEFAULT 'other',
		payload               TEXT NOT NULL,
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL,
		UNIQUE (owner_id, work_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_records_owner ON records(owner_id, id)`,

	`CREATE TABLE IF NOT EXISTS allowlist (
		email      TEXT PRIMARY KEY,
		note       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	// Denormalized so the dashboard can aggregate workload without decoding payloads.
	`ALTER TABLE records ADD COLUMN monthly_workload_minutes INTEGER NOT NULL DEFAULT 0`,
}
