package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"kv_entries", "assessment_results"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}

	var idx string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_results_completed'`).Scan(&idx)
	require.NoError(t, err)
}

func TestMigrate_ResultConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO assessment_results
		(id, completed_at, dominant, severity, parameter_count, payload)
		VALUES ('r1', '2026-01-01T00:00:00Z', 'fiery', 'mild', 8, '{}')`)
	assert.Error(t, err, "unknown dominant category should be rejected")

	_, err = db.Exec(`INSERT INTO assessment_results
		(id, completed_at, dominant, severity, parameter_count, payload)
		VALUES ('r2', '2026-01-01T00:00:00Z', 'sama', 'critical', 8, '{}')`)
	assert.Error(t, err, "unknown severity should be rejected")
}
