// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"lakeload/internal/ddl"
	"lakeload/internal/domain"
)

// Store connection modes.
const (
	StoreS3    = "s3"
	StoreAzure = "azure"
	StoreGCS   = "gcs"
	StoreLocal = "local"
)

// Config holds the configuration for one workflow run: the target catalog
// location, the local data to upload, and the store/warehouse connection.
type Config struct {
	// Target location in the catalog.
	Catalog string // target catalog (default "demos")
	Schema  string // target schema (default "moorcare")
	Volume  string // target volume name (default "data_files")

	// Local inputs.
	DataDir     string // directory scanned for data files (default "data")
	FilePattern string // glob pattern within DataDir (default "synthetic-*.csv")
	DDLFile     string // DDL script path (default "warehouse_ddl.sql")

	// Store selects the object-store connection mode: s3, azure, gcs, or local.
	Store string

	// S3-compatible store fields, nil when not configured.
	S3KeyID    *string
	S3Secret   *string
	S3Endpoint *string
	S3Region   *string
	S3Bucket   *string

	// Azure Blob store fields.
	AzureAccountName string
	AzureAccountKey  string
	AzureContainer   string

	// GCS store fields.
	GCSBucket  string
	GCSKeyFile string // service account key file, also used for the warehouse secret

	// Local store root (STORE=local).
	LocalStoreDir string

	// Warehouse session.
	WarehousePath string // DuckDB database file for local mode ("" = in-memory)
	MetaDBPath    string // DuckLake SQLite metastore path (default "lakeload_meta.sqlite")

	// Run-history ledger ("" disables recording).
	HistoryDBPath string

	// ApplyDDLAlways runs the DDL stage even when no files were uploaded.
	ApplyDDLAlways bool

	LogLevel string // log level: debug, info, warn, error (default "info")

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// HasS3Config returns true if all required S3 fields are set.
func (c *Config) HasS3Config() bool {
	return c.S3KeyID != nil && c.S3Secret != nil && c.S3Region != nil
}

// LoadFromEnv loads configuration from environment variables and applies
// defaults. Validation of the selected store mode happens in Validate.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Catalog:          os.Getenv("CATALOG"),
		Schema:           os.Getenv("TARGET_SCHEMA"),
		Volume:           os.Getenv("VOLUME"),
		DataDir:          os.Getenv("DATA_DIR"),
		FilePattern:      os.Getenv("FILE_PATTERN"),
		DDLFile:          os.Getenv("DDL_FILE"),
		Store:            strings.ToLower(os.Getenv("STORE")),
		AzureAccountName: os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:  os.Getenv("AZURE_ACCOUNT_KEY"),
		AzureContainer:   os.Getenv("AZURE_CONTAINER"),
		GCSBucket:        os.Getenv("GCS_BUCKET"),
		GCSKeyFile:       os.Getenv("GCS_KEY_FILE"),
		LocalStoreDir:    os.Getenv("LOCAL_STORE_DIR"),
		WarehousePath:    os.Getenv("WAREHOUSE_PATH"),
		MetaDBPath:       os.Getenv("META_DB_PATH"),
		HistoryDBPath:    os.Getenv("HISTORY_DB_PATH"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		ApplyDDLAlways:   parseBoolEnvDefault("APPLY_DDL_ALWAYS", false),
	}

	// S3 fields are optional and only set if present
	if v := os.Getenv("KEY_ID"); v != "" {
		cfg.S3KeyID = &v
	}
	if v := os.Getenv("SECRET"); v != "" {
		cfg.S3Secret = &v
	}
	if v := os.Getenv("ENDPOINT"); v != "" {
		cfg.S3Endpoint = &v
	}
	if v := os.Getenv("REGION"); v != "" {
		cfg.S3Region = &v
	}
	if v := os.Getenv("BUCKET"); v != "" {
		cfg.S3Bucket = &v
	}

	// Defaults
	if cfg.Catalog == "" {
		cfg.Catalog = "demos"
	}
	if cfg.Schema == "" {
		cfg.Schema = "moorcare"
	}
	if cfg.Volume == "" {
		cfg.Volume = "data_files"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.FilePattern == "" {
		cfg.FilePattern = "synthetic-*.csv"
	}
	if cfg.DDLFile == "" {
		cfg.DDLFile = "warehouse_ddl.sql"
	}
	if cfg.Store == "" {
		cfg.Store = StoreLocal
		cfg.Warnings = append(cfg.Warnings, "STORE not set, defaulting to local object store")
	}
	if cfg.MetaDBPath == "" {
		cfg.MetaDBPath = "lakeload_meta.sqlite"
	}
	if cfg.HistoryDBPath == "" {
		cfg.HistoryDBPath = "lakeload_history.sqlite"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks for missing required connection parameters. A failure here
// is the only fatal error class: the workflow must not start without a
// complete connection descriptor.
func (c *Config) Validate() error {
	if c.Catalog == "" || c.Schema == "" || c.Volume == "" {
		return domain.ErrValidation("CATALOG, TARGET_SCHEMA and VOLUME are required")
	}
	for key, val := range map[string]string{
		"CATALOG":       c.Catalog,
		"TARGET_SCHEMA": c.Schema,
		"VOLUME":        c.Volume,
	} {
		if err := ddl.ValidateIdentifier(val); err != nil {
			return domain.ErrValidation("%s %q: %v", key, val, err)
		}
	}

	switch c.Store {
	case StoreS3:
		if !c.HasS3Config() {
			return domain.ErrValidation("STORE=s3 requires KEY_ID, SECRET and REGION")
		}
		if c.S3Bucket == nil {
			return domain.ErrValidation("STORE=s3 requires BUCKET")
		}
	case StoreAzure:
		if c.AzureAccountName == "" || c.AzureAccountKey == "" || c.AzureContainer == "" {
			return domain.ErrValidation("STORE=azure requires AZURE_ACCOUNT_NAME, AZURE_ACCOUNT_KEY and AZURE_CONTAINER")
		}
	case StoreGCS:
		if c.GCSBucket == "" {
			return domain.ErrValidation("STORE=gcs requires GCS_BUCKET")
		}
	case StoreLocal:
		if c.LocalStoreDir == "" {
			return domain.ErrValidation("STORE=local requires LOCAL_STORE_DIR")
		}
	default:
		return domain.ErrValidation("unknown STORE %q: must be s3, azure, gcs, or local", c.Store)
	}

	return nil
}

func parseBoolEnvDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return defaultVal
	}
	if v == "0" || v == "false" || v == "no" || v == "off" {
		return false
	}
	if v == "1" || v == "true" || v == "yes" || v == "on" {
		return true
	}
	return defaultVal
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
