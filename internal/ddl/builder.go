// Package ddl builds warehouse DDL statements for schemas, volumes, secrets,
// and catalog attachment, and splits DDL scripts into executable statements.
package ddl

import (
	"fmt"
)

// CreateSchemaIfNotExists returns: CREATE SCHEMA IF NOT EXISTS <catalog>."<name>".
func CreateSchemaIfNotExists(catalog, name string) (string, error) {
	if err := ValidateIdentifier(catalog); err != nil {
		return "", fmt.Errorf("invalid catalog name: %w", err)
	}
	if err := ValidateIdentifier(name); err != nil {
		return "", fmt.Errorf("invalid schema name: %w", err)
	}
	return fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s.%s",
		QuoteIdentifier(catalog), QuoteIdentifier(name)), nil
}

// CreateVolumeIfNotExists returns: CREATE VOLUME IF NOT EXISTS <catalog>."<schema>"."<name>".
func CreateVolumeIfNotExists(catalog, schema, name string) (string, error) {
	if err := ValidateIdentifier(catalog); err != nil {
		return "", fmt.Errorf("invalid catalog name: %w", err)
	}
	if err := ValidateIdentifier(schema); err != nil {
		return "", fmt.Errorf("invalid schema name: %w", err)
	}
	if err := ValidateIdentifier(name); err != nil {
		return "", fmt.Errorf("invalid volume name: %w", err)
	}
	return fmt.Sprintf("CREATE VOLUME IF NOT EXISTS %s.%s.%s",
		QuoteIdentifier(catalog), QuoteIdentifier(schema), QuoteIdentifier(name)), nil
}

// CreateS3Secret returns a DuckDB DDL statement to create a named S3 secret.
func CreateS3Secret(name, keyID, secret, endpoint, region, urlStyle string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("secret name is required")
	}
	return fmt.Sprintf(`CREATE SECRET %s (
	TYPE S3,
	KEY_ID %s,
	SECRET %s,
	ENDPOINT %s,
	REGION %s,
	URL_STYLE %s
)`,
		QuoteIdentifier(name),
		QuoteLiteral(keyID),
		QuoteLiteral(secret),
		QuoteLiteral(endpoint),
		QuoteLiteral(region),
		QuoteLiteral(urlStyle),
	), nil
}

// CreateAzureSecret returns a DuckDB DDL statement to create an Azure secret.
func CreateAzureSecret(name, accountName, accountKey string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("secret name is required")
	}
	return fmt.Sprintf(`CREATE SECRET %s (
	TYPE AZURE,
	ACCOUNT_NAME %s,
	ACCOUNT_KEY %s
)`,
		QuoteIdentifier(name),
		QuoteLiteral(accountName),
		QuoteLiteral(accountKey),
	), nil
}

// CreateGCSSecret returns a DuckDB DDL statement to create a GCS secret.
func CreateGCSSecret(name, keyFilePath string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("secret name is required")
	}
	return fmt.Sprintf(`CREATE SECRET %s (
	TYPE GCS,
	KEY_FILE_PATH %s
)`,
		QuoteIdentifier(name),
		QuoteLiteral(keyFilePath),
	), nil
}

// AttachDuckLake returns a DuckDB DDL statement to attach a DuckLake catalog.
// Both metaDBPath and dataPath are properly escaped as SQL string literals.
func AttachDuckLake(catalogName, metaDBPath, dataPath string) (string, error) {
	if err := ValidateIdentifier(catalogName); err != nil {
		return "", fmt.Errorf("invalid catalog name: %w", err)
	}
	if metaDBPath == "" {
		return "", fmt.Errorf("metastore path is required")
	}
	if dataPath == "" {
		return "", fmt.Errorf("data path is required")
	}
	// The ATTACH connection string format is: 'ducklake:sqlite:<path>'
	connStr := QuoteLiteral("ducklake:sqlite:" + metaDBPath)
	return fmt.Sprintf("ATTACH %s AS %s (\n\tDATA_PATH %s\n)",
		connStr,
		QuoteIdentifier(catalogName),
		QuoteLiteral(dataPath),
	), nil
}

// AttachDatabase returns a DuckDB DDL statement to attach a plain database
// file under the given catalog name (local connection mode).
func AttachDatabase(catalogName, dbPath string) (string, error) {
	if err := ValidateIdentifier(catalogName); err != nil {
		return "", fmt.Errorf("invalid catalog name: %w", err)
	}
	if dbPath == "" {
		return "", fmt.Errorf("database path is required")
	}
	return fmt.Sprintf("ATTACH %s AS %s", QuoteLiteral(dbPath), QuoteIdentifier(catalogName)), nil
}
