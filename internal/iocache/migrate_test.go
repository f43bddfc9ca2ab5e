package iocache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/schoolfit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateStore_NoneBackend(t *testing.T) {
	err := MigrateStore(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateStore_BeyondLatest(t *testing.T) {
	err := MigrateStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "m.db"), LatestSchemaVersion+1)
	assert.ErrorContains(t, err, "beyond the latest version")
}

func TestMigrateStore_SQLite(t *testing.T) {
	// Create a temporary database file for testing
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")

	// Run migration to latest version
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, -1))

	// Verify migration was successful by checking the database file exists
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	version, dirty, err := SchemaVersion(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.Equal(t, uint(LatestSchemaVersion), version)
	assert.False(t, dirty)

	// Run migration again (should be a no-op)
	assert.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, -1))

	// Step down to version 1
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, 1))
	version, _, err = SchemaVersion(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	// Rollback to version 0
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, 0))
	version, _, err = SchemaVersion(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.Zero(t, version)

	// Opening a store brings the schema back to the latest version
	store, err := NewTableStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	version, _, err = SchemaVersion(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.Equal(t, uint(LatestSchemaVersion), version)
}

func TestSchemaVersion_NoneBackend(t *testing.T) {
	version, dirty, err := SchemaVersion(schema.NoneBackend, "")
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)
}

func TestEmbeddedMigrations(t *testing.T) {
	for _, dir := range []string{"sqlite", "mysql", "postgres"} {
		entries, err := migrationsFS.ReadDir("migrations/" + dir)
		require.NoError(t, err)
		assert.Len(t, entries, LatestSchemaVersion*2, "every version has up and down files in %s", dir)
	}
}
