// Package history persists workflow run reports to a local SQLite ledger.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lakeload/internal/db"
	"lakeload/internal/domain"
)

// Repo records and lists workflow runs. Ledger failures are surfaced as
// errors but callers treat them as warnings; history is never on the
// workflow's critical path.
type Repo struct {
	db *sql.DB
}

// Open opens (or creates) the ledger at path and applies migrations.
func Open(path string) (*Repo, error) {
	sqlDB, err := db.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate history ledger: %w", err)
	}
	return &Repo{db: sqlDB}, nil
}

// NewRepo wraps an already-open ledger connection (used in tests).
func NewRepo(sqlDB *sql.DB) *Repo {
	return &Repo{db: sqlDB}
}

// Close releases the ledger connection.
func (r *Repo) Close() error {
	return r.db.Close()
}

// RecordRun writes a full report to the ledger in one transaction.
func (r *Repo) RecordRun(ctx context.Context, report *domain.Report) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, outcome, ddl_skipped)
		 VALUES (?, ?, ?, ?, ?)`,
		report.RunID, report.StartedAt, report.FinishedAt, string(report.Outcome), report.DDLSkipped)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, p := range report.Provision {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_provisions (run_id, position, resource, kind, status, already_exists, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			report.RunID, i, p.Resource, p.Kind, string(p.Status), p.AlreadyExists, nullable(p.Error))
		if err != nil {
			return fmt.Errorf("insert provision %d: %w", i, err)
		}
	}

	for i, u := range report.Uploads {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_uploads (run_id, position, local_path, remote_path, bytes, sha256, verified, status, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			report.RunID, i, u.LocalPath, u.RemotePath, u.Bytes, u.SHA256, u.Verified, string(u.Status), nullable(u.Error))
		if err != nil {
			return fmt.Errorf("insert upload %d: %w", i, err)
		}
	}

	for _, s := range report.Statements {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_statements (run_id, stmt_index, sql_text, duration_ms, status, error)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			report.RunID, s.Index, s.SQL, s.Duration.Milliseconds(), string(s.Status), nullable(s.Error))
		if err != nil {
			return fmt.Errorf("insert statement %d: %w", s.Index, err)
		}
	}

	return tx.Commit()
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID         string
	StartedAt  time.Time
	Outcome    domain.Outcome
	Uploads    int
	Statements int
	Warnings   int
}

// ListRuns returns the most recent runs, newest first.
func (r *Repo) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.started_at, r.outcome,
		        (SELECT COUNT(*) FROM run_uploads u WHERE u.run_id = r.id),
		        (SELECT COUNT(*) FROM run_statements s WHERE s.run_id = r.id),
		        (SELECT COUNT(*) FROM run_provisions p WHERE p.run_id = r.id AND p.status = 'warning')
		        + (SELECT COUNT(*) FROM run_uploads u WHERE u.run_id = r.id AND u.status = 'warning')
		        + (SELECT COUNT(*) FROM run_statements s WHERE s.run_id = r.id AND s.status = 'warning')
		 FROM runs r
		 ORDER BY r.started_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var outcome string
		if err := rows.Scan(&s.ID, &s.StartedAt, &outcome, &s.Uploads, &s.Statements, &s.Warnings); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.Outcome = domain.Outcome(outcome)
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
