package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the loader reads so tests are hermetic.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"CATALOG", "TARGET_SCHEMA", "VOLUME", "DATA_DIR", "FILE_PATTERN",
		"DDL_FILE", "STORE", "KEY_ID", "SECRET", "ENDPOINT", "REGION", "BUCKET",
		"AZURE_ACCOUNT_NAME", "AZURE_ACCOUNT_KEY", "AZURE_CONTAINER",
		"GCS_BUCKET", "GCS_KEY_FILE", "LOCAL_STORE_DIR", "WAREHOUSE_PATH",
		"META_DB_PATH", "HISTORY_DB_PATH", "APPLY_DDL_ALWAYS", "LOG_LEVEL",
	}
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "demos", cfg.Catalog)
	assert.Equal(t, "moorcare", cfg.Schema)
	assert.Equal(t, "data_files", cfg.Volume)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "synthetic-*.csv", cfg.FilePattern)
	assert.Equal(t, "warehouse_ddl.sql", cfg.DDLFile)
	assert.Equal(t, StoreLocal, cfg.Store)
	assert.Equal(t, "lakeload_meta.sqlite", cfg.MetaDBPath)
	assert.Equal(t, "lakeload_history.sqlite", cfg.HistoryDBPath)
	assert.False(t, cfg.ApplyDDLAlways)
	assert.NotEmpty(t, cfg.Warnings, "defaulted store should produce a warning")
}

func TestLoadFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATALOG", "lake")
	t.Setenv("TARGET_SCHEMA", "peatland")
	t.Setenv("VOLUME", "raw")
	t.Setenv("STORE", "S3")
	t.Setenv("KEY_ID", "k")
	t.Setenv("SECRET", "s")
	t.Setenv("ENDPOINT", "s3.example.com")
	t.Setenv("REGION", "eu-central")
	t.Setenv("BUCKET", "lake-bucket")
	t.Setenv("APPLY_DDL_ALWAYS", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "lake", cfg.Catalog)
	assert.Equal(t, "peatland", cfg.Schema)
	assert.Equal(t, "raw", cfg.Volume)
	assert.Equal(t, StoreS3, cfg.Store, "store mode is lowercased")
	require.True(t, cfg.HasS3Config())
	assert.Equal(t, "lake-bucket", *cfg.S3Bucket)
	assert.True(t, cfg.ApplyDDLAlways)
}

func TestValidate(t *testing.T) {
	t.Run("bad_identifier", func(t *testing.T) {
		cfg := &Config{Catalog: "demos; DROP", Schema: "s", Volume: "v", Store: StoreLocal, LocalStoreDir: "/tmp"}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "CATALOG")
	})

	t.Run("s3_missing_credentials", func(t *testing.T) {
		cfg := &Config{Catalog: "c", Schema: "s", Volume: "v", Store: StoreS3}
		assert.Error(t, cfg.Validate())
	})

	t.Run("s3_complete", func(t *testing.T) {
		k, s, r, b := "k", "s", "r", "b"
		cfg := &Config{
			Catalog: "c", Schema: "s", Volume: "v", Store: StoreS3,
			S3KeyID: &k, S3Secret: &s, S3Region: &r, S3Bucket: &b,
		}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("azure_missing_account", func(t *testing.T) {
		cfg := &Config{Catalog: "c", Schema: "s", Volume: "v", Store: StoreAzure, AzureContainer: "data"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("gcs_missing_bucket", func(t *testing.T) {
		cfg := &Config{Catalog: "c", Schema: "s", Volume: "v", Store: StoreGCS}
		assert.Error(t, cfg.Validate())
	})

	t.Run("local_requires_root", func(t *testing.T) {
		cfg := &Config{Catalog: "c", Schema: "s", Volume: "v", Store: StoreLocal}
		assert.Error(t, cfg.Validate())

		cfg.LocalStoreDir = t.TempDir()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown_store", func(t *testing.T) {
		cfg := &Config{Catalog: "c", Schema: "s", Volume: "v", Store: "ftp"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing_target", func(t *testing.T) {
		cfg := &Config{Store: StoreLocal, LocalStoreDir: "/tmp", Schema: "s", Volume: "v"}
		assert.Error(t, cfg.Validate())
	})
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := `# comment
CATALOG=lake
TARGET_SCHEMA="quoted"
VOLUME='single'
MALFORMED LINE
`
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	// Pre-set value wins over the file.
	t.Setenv("VOLUME", "preset")

	require.NoError(t, LoadDotEnv(envPath))
	assert.Equal(t, "lake", os.Getenv("CATALOG"))
	assert.Equal(t, "quoted", os.Getenv("TARGET_SCHEMA"))
	assert.Equal(t, "preset", os.Getenv("VOLUME"))

	// Missing file is not an error.
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "nope.env")))
}
