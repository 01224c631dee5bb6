package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableNames(t *testing.T, path string) map[string]bool {
	t.Helper()
	database, err := OpenDB(path)
	require.NoError(t, err)
	defer database.Close()

	rows, err := database.Query(`SELECT name FROM sqlite_master WHERE type = 'table'`)
	require.NoError(t, err)
	defer rows.Close()

	names := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names[name] = true
	}
	require.NoError(t, rows.Err())
	return names
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	names := tableNames(t, ":memory:")
	for _, want := range []string{"user_profiles", "records", "allowlist"} {
		assert.True(t, names[want], "missing table %s", want)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, Migrate(database))
	require.NoError(t, Migrate(database))
}

func TestMigrate_ReopenFileDatabase(t *testing.T) {
	path := t.TempDir() + "/nested/carte.db"
	tableNames(t, path)
	names := tableNames(t, path)
	assert.True(t, names["records"])
}

func TestMigrate_RecordsUniquePerOwner(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	insert := `INSERT INTO records (id, owner_id, work_id, title, payload, created_at, updated_at)
		VALUES (?, ?, ?, 't', '{}', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`
	_, err = database.Exec(insert, 1, "u1", "A1B")
	require.NoError(t, err)
	_, err = database.Exec(insert, 2, "u2", "A1B")
	require.NoError(t, err, "same work id for another owner is allowed")
	_, err = database.Exec(insert, 3, "u1", "A1B")
	assert.Error(t, err)
}

func TestMigrate_ForeignKeysAndWAL(t *testing.T) {
	database, err := OpenDB(t.TempDir() + "/carte.db")
	require.NoError(t, err)
	defer database.Close()

	var fk int
	require.NoError(t, database.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)

	var mode string
	require.NoError(t, database.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
