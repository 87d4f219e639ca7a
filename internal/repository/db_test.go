package repository

import (
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestDB opens a migrated database in a per-test temp directory.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	logger := testLogger()
	db, err := Open(Config{Path: filepath.Join(t.TempDir(), "syllabi.db")}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { Close(db, logger) })
	return db
}

func TestOpen_CreatesDatabaseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "syllabi.db")

	db, err := Open(Config{Path: path}, testLogger())
	require.NoError(t, err)
	defer Close(db, testLogger())

	assert.FileExists(t, path)
	assert.NoError(t, db.Ping())
}

func TestOpen_CreatesNestedDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "syllabi.db")

	db, err := Open(Config{Path: path}, testLogger())
	require.NoError(t, err)
	defer Close(db, testLogger())

	assert.FileExists(t, path)
}

func TestOpen_AppliesMigrations(t *testing.T) {
	db := setupTestDB(t)

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Greater(t, applied, 0, "at least one migration should be recorded")

	for _, table := range []string{"instructors", "courses", "import_log"} {
		var n int
		err := db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s should exist", table)
	}
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "syllabi.db")
	logger := testLogger()

	db1, err := Open(Config{Path: path}, logger)
	require.NoError(t, err)

	var version1, count1 int
	require.NoError(t, db1.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version1))
	require.NoError(t, db1.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count1))
	Close(db1, logger)

	db2, err := Open(Config{Path: path}, logger)
	require.NoError(t, err)
	defer Close(db2, logger)

	var version2, count2 int
	require.NoError(t, db2.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version2))
	require.NoError(t, db2.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count2))

	assert.Equal(t, version1, version2)
	assert.Equal(t, count1, count2, "reopening must not re-run migrations")
}

func TestOpen_ForeignKeysEnabled(t *testing.T) {
	db := setupTestDB(t)

	var enabled int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestOpen_InMemory(t *testing.T) {
	logger := testLogger()
	db, err := Open(Config{Path: ":memory:"}, logger)
	require.NoError(t, err)
	defer Close(db, logger)

	var n int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='courses'",
	).Scan(&n))
	assert.Equal(t, 1, n)
}
