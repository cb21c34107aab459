// Package workflow orchestrates a full load run: provision the target
// schema and volume, upload matching data files, then apply the DDL script.
package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lakeload/internal/config"
	"lakeload/internal/domain"
	"lakeload/internal/provision"
	"lakeload/internal/runner"
	"lakeload/internal/store"
	"lakeload/internal/upload"
)

// Executor runs a single SQL statement against the warehouse session.
type Executor interface {
	Exec(ctx context.Context, stmt string) error
}

// Recorder persists a finished run report. A nil Recorder disables history.
type Recorder interface {
	RecordRun(ctx context.Context, report *domain.Report) error
}

// Workflow runs the three stages in order. Stage failures are collected as
// warnings in the report; only configuration problems abort the run.
type Workflow struct {
	cfg    *config.Config
	prov   *provision.Provisioner
	up     *upload.Uploader
	ddl    *runner.Runner
	rec    Recorder
	logger *slog.Logger
}

// New creates a Workflow over an open warehouse executor and object store.
func New(cfg *config.Config, exec Executor, st store.ObjectStore, rec Recorder, logger *slog.Logger) *Workflow {
	return &Workflow{
		cfg:    cfg,
		prov:   provision.New(exec, logger),
		up:     upload.New(st, logger),
		ddl:    runner.New(exec, logger),
		rec:    rec,
		logger: logger,
	}
}

// Run executes the workflow once and returns the run report.
//
// The DDL stage is skipped when no files matched, unless ApplyDDLAlways is
// set: an empty data directory usually means the run is pointed at the
// wrong place, and applying table DDL for data that never arrived just
// hides that.
func (w *Workflow) Run(ctx context.Context) (*domain.Report, error) {
	report := &domain.Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	w.logger.Info("run started",
		"run_id", report.RunID,
		"catalog", w.cfg.Catalog,
		"schema", w.cfg.Schema,
		"volume", w.cfg.Volume)

	report.Provision = w.prov.EnsureAll(ctx, w.cfg.Catalog, w.cfg.Schema, w.cfg.Volume)

	uploads, err := w.up.UploadAll(ctx, w.cfg.DataDir, w.cfg.FilePattern, w.cfg.Catalog, w.cfg.Schema, w.cfg.Volume)
	if err != nil {
		return nil, err
	}
	report.Uploads = uploads

	if len(uploads) == 0 && !w.cfg.ApplyDDLAlways {
		w.logger.Warn("no files matched, skipping ddl",
			"dir", w.cfg.DataDir, "pattern", w.cfg.FilePattern)
		report.DDLSkipped = true
	} else {
		statements, err := w.ddl.RunFile(ctx, w.cfg.DDLFile)
		if err != nil {
			return nil, err
		}
		report.Statements = statements
	}

	report.FinishedAt = time.Now().UTC()
	report.Resolve()

	w.record(ctx, report)

	w.logger.Info("run finished",
		"run_id", report.RunID,
		"outcome", string(report.Outcome),
		"uploads", len(report.Uploads),
		"statements", len(report.Statements),
		"warnings", report.WarningCount())
	return report, nil
}

// record persists the report when a recorder is configured. Ledger failures
// never fail the run.
func (w *Workflow) record(ctx context.Context, report *domain.Report) {
	if w.rec == nil {
		return
	}
	if err := w.rec.RecordRun(ctx, report); err != nil {
		w.logger.Warn("failed to record run history", "run_id", report.RunID, "error", err)
	}
}
