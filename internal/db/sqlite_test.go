package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.sqlite")

	sqlDB, err := OpenSQLite(path)
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, RunMigrations(sqlDB))

	// Migrations are idempotent.
	require.NoError(t, RunMigrations(sqlDB))

	var count int
	err = sqlDB.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN
		 ('runs', 'run_provisions', 'run_uploads', 'run_statements')`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN("/tmp/x.sqlite")
	assert.Contains(t, dsn, "_busy_timeout=5000")
	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.Contains(t, dsn, "_foreign_keys=on")
	assert.Contains(t, dsn, "_txlock=immediate")
}
