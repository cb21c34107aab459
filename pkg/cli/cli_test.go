package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lakeload/internal/history"
)

// execRoot runs the root command with args and an isolated HOME, returning
// the command error and whatever was written to stderr by cobra.
func execRoot(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	rootCmd := newRootCmd()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestVersionCmd(t *testing.T) {
	require.NoError(t, execRoot(t, "version"))
	require.NoError(t, execRoot(t, "version", "-o", "json"))
}

func TestInvalidOutputFormat(t *testing.T) {
	err := execRoot(t, "version", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestRunCmdRejectsUnknownStore(t *testing.T) {
	t.Setenv("STORE", "ftp")
	err := execRoot(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown STORE")
}

func TestUploadCmdRequiresStoreConfig(t *testing.T) {
	t.Setenv("STORE", "s3")
	err := execRoot(t, "upload")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE=s3 requires")
}

func TestRunCmdLocalEndToEnd(t *testing.T) {
	work := t.TempDir()
	dataDir := filepath.Join(work, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "synthetic-01.csv"),
		[]byte("id,name\n1,a\n"), 0o644))

	ddlPath := filepath.Join(work, "warehouse_ddl.sql")
	require.NoError(t, os.WriteFile(ddlPath,
		[]byte("-- tables\nCREATE TABLE t (id INTEGER);\n"), 0o644))

	storeDir := filepath.Join(work, "store")
	historyPath := filepath.Join(work, "history.sqlite")

	t.Setenv("STORE", "local")
	t.Setenv("LOCAL_STORE_DIR", storeDir)
	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("DDL_FILE", ddlPath)
	t.Setenv("WAREHOUSE_PATH", filepath.Join(work, "warehouse.duckdb"))
	t.Setenv("HISTORY_DB_PATH", historyPath)

	require.NoError(t, execRoot(t, "run", "-o", "json"))

	// The file landed under the volume root in the local store.
	uploaded := filepath.Join(storeDir, "Volumes", "demos", "moorcare", "data_files", "synthetic-01.csv")
	data, err := os.ReadFile(uploaded)
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,a\n", string(data))

	// The run was recorded to the history ledger.
	repo, err := history.Open(historyPath)
	require.NoError(t, err)
	defer repo.Close()

	runs, err := repo.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Uploads)
	assert.Equal(t, 1, runs[0].Statements)
}

func TestHistoryCmdAfterRun(t *testing.T) {
	work := t.TempDir()
	dataDir := filepath.Join(work, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	t.Setenv("STORE", "local")
	t.Setenv("LOCAL_STORE_DIR", filepath.Join(work, "store"))
	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("WAREHOUSE_PATH", filepath.Join(work, "warehouse.duckdb"))
	t.Setenv("HISTORY_DB_PATH", filepath.Join(work, "history.sqlite"))

	// Empty data dir: provisioning runs, uploads and DDL are skipped.
	require.NoError(t, execRoot(t, "run"))
	require.NoError(t, execRoot(t, "history", "--limit", "5"))
}
