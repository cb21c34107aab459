// Package warehouse manages the DuckDB session used for provisioning and
// DDL execution: extension installation, storage secrets, and catalog
// attachment.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/duckdb/duckdb-go/v2"

	"lakeload/internal/config"
	"lakeload/internal/ddl"
)

// secretName is the DuckDB secret created for the configured object store.
const secretName = "lakeload_store"

// Session wraps a DuckDB connection attached to the target catalog.
// All statements execute serially on the one connection pool; there is
// exactly one caller.
type Session struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates a DuckDB session for the configured connection mode.
//
// For cloud store modes it follows the DuckLake bring-up: install the
// ducklake/sqlite/httpfs extensions, create a named storage secret from the
// store credentials, and ATTACH the DuckLake catalog (SQLite metastore +
// remote data path). For the local mode it attaches a plain DuckDB database
// file under the catalog name instead.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Session, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Session{db: db, logger: logger}
	if err := s.setup(ctx, cfg); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) setup(ctx context.Context, cfg *config.Config) error {
	if cfg.Store == config.StoreLocal {
		path := cfg.WarehousePath
		if path == "" {
			path = "lakeload.duckdb"
		}
		attach, err := ddl.AttachDatabase(cfg.Catalog, path)
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, attach); err != nil {
			return fmt.Errorf("attach local database: %w", err)
		}
		s.logger.Debug("attached local warehouse", "path", path, "catalog", cfg.Catalog)
		return nil
	}

	if err := s.installExtensions(ctx); err != nil {
		return err
	}
	if err := s.createStoreSecret(ctx, cfg); err != nil {
		return err
	}

	dataPath, err := lakeDataPath(cfg)
	if err != nil {
		return err
	}
	attach, err := ddl.AttachDuckLake(cfg.Catalog, cfg.MetaDBPath, dataPath)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, attach); err != nil {
		return fmt.Errorf("attach catalog %q: %w", cfg.Catalog, err)
	}
	s.logger.Debug("attached lake catalog", "catalog", cfg.Catalog, "data_path", dataPath)
	return nil
}

// installExtensions installs and loads the DuckDB extensions needed for the
// lake catalog. Safe to call without credentials.
func (s *Session) installExtensions(ctx context.Context) error {
	extensions := []string{
		"INSTALL ducklake; LOAD ducklake;",
		"INSTALL sqlite; LOAD sqlite;",
		"INSTALL httpfs; LOAD httpfs;",
	}
	for _, ext := range extensions {
		if _, err := s.db.ExecContext(ctx, ext); err != nil {
			return fmt.Errorf("extension setup (%s): %w", ext, err)
		}
	}
	return nil
}

// createStoreSecret creates the named DuckDB secret matching the configured
// object store so the attached catalog can reach the volume data.
func (s *Session) createStoreSecret(ctx context.Context, cfg *config.Config) error {
	var (
		stmt string
		err  error
	)
	switch cfg.Store {
	case config.StoreS3:
		endpoint := ""
		if cfg.S3Endpoint != nil {
			endpoint = *cfg.S3Endpoint
		}
		stmt, err = ddl.CreateS3Secret(secretName, *cfg.S3KeyID, *cfg.S3Secret, endpoint, *cfg.S3Region, "path")
	case config.StoreAzure:
		stmt, err = ddl.CreateAzureSecret(secretName, cfg.AzureAccountName, cfg.AzureAccountKey)
	case config.StoreGCS:
		stmt, err = ddl.CreateGCSSecret(secretName, cfg.GCSKeyFile)
	default:
		return fmt.Errorf("no secret type for store mode %q", cfg.Store)
	}
	if err != nil {
		return fmt.Errorf("build secret DDL: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create store secret %q: %w", secretName, err)
	}
	return nil
}

// lakeDataPath derives the catalog's remote data root from the store config.
func lakeDataPath(cfg *config.Config) (string, error) {
	switch cfg.Store {
	case config.StoreS3:
		bucket := "lakeload"
		if cfg.S3Bucket != nil {
			bucket = *cfg.S3Bucket
		}
		return fmt.Sprintf("s3://%s/lake_data/", bucket), nil
	case config.StoreAzure:
		return fmt.Sprintf("az://%s/lake_data/", cfg.AzureContainer), nil
	case config.StoreGCS:
		return fmt.Sprintf("gs://%s/lake_data/", cfg.GCSBucket), nil
	default:
		return "", fmt.Errorf("no data path for store mode %q", cfg.Store)
	}
}

// Exec runs a single SQL statement to completion on the session.
func (s *Session) Exec(ctx context.Context, stmt string) error {
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

// Close releases the underlying connection.
func (s *Session) Close() error {
	return s.db.Close()
}
