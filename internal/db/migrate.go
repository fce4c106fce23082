package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
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
	`CREATE TABLE IF NOT EXISTS kv_entries (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS assessment_results (
		id              TEXT PRIMARY KEY,
		completed_at    TEXT NOT NULL,
		dominant        TEXT NOT NULL
		                CHECK(dominant IN ('vishama','tikshna','manda','sama')),
		severity        TEXT NOT NULL
		                CHECK(severity IN ('balanced','mild','moderate','severe')),
		imbalance_score INTEGER NOT NULL DEFAULT 0,
		parameter_count INTEGER NOT NULL,
		payload         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_results_completed ON assessment_results(completed_at)`,

	// Results written before catalogs became configurable were all scored
	// against the default catalog.
	`ALTER TABLE assessment_results ADD COLUMN catalog TEXT NOT NULL DEFAULT 'default'`,
}
