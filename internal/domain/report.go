package domain

import "time"

// StageStatus classifies the outcome of a single unit of work.
type StageStatus string

const (
	// StatusOK means the unit completed, including "already exists" provisioning.
	StatusOK StageStatus = "ok"
	// StatusWarning means the unit failed but the workflow continued.
	StatusWarning StageStatus = "warning"
)

// ProvisionResult is the outcome of one ensure operation (schema or volume).
type ProvisionResult struct {
	Resource      string      // qualified name, e.g. "demos.moorcare" or "demos.moorcare.data_files"
	Kind          string      // "schema" or "volume"
	Status        StageStatus
	AlreadyExists bool   // backing store reported the resource as pre-existing
	Error         string // failure text when Status is StatusWarning
}

// UploadResult is the outcome of one file upload.
type UploadResult struct {
	LocalPath  string
	RemotePath string
	Bytes      int64
	SHA256     string // hex digest of the local content
	Verified   bool   // remote byte length matched after upload
	Status     StageStatus
	Error      string
}

// StatementResult is the outcome of one DDL statement execution.
// Index is 1-based over the surviving (non-comment, non-empty) statements.
type StatementResult struct {
	Index    int
	SQL      string
	Duration time.Duration
	Status   StageStatus
	Error    string
}

// Outcome summarises a whole workflow run.
type Outcome string

const (
	// OutcomeSucceeded means every attempted unit completed.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomePartial means at least one unit was downgraded to a warning.
	OutcomePartial Outcome = "partial"
	// OutcomeSkipped means no files matched and the remaining stages were skipped.
	OutcomeSkipped Outcome = "skipped"
)

// Report collects the per-stage results of a workflow run. The workflow
// never aborts on stage failures, so a Report is produced on every run
// that passes configuration validation.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    Outcome
	Provision  []ProvisionResult
	Uploads    []UploadResult
	Statements []StatementResult
	DDLSkipped bool // DDL stage short-circuited because no files were uploaded
}

// WarningCount returns the number of units downgraded to warnings.
func (r *Report) WarningCount() int {
	n := 0
	for _, p := range r.Provision {
		if p.Status == StatusWarning {
			n++
		}
	}
	for _, u := range r.Uploads {
		if u.Status == StatusWarning {
			n++
		}
	}
	for _, s := range r.Statements {
		if s.Status == StatusWarning {
			n++
		}
	}
	return n
}

// Resolve computes the run outcome from the collected results.
func (r *Report) Resolve() {
	switch {
	case r.DDLSkipped && len(r.Uploads) == 0:
		r.Outcome = OutcomeSkipped
	case r.WarningCount() > 0:
		r.Outcome = OutcomePartial
	default:
		r.Outcome = OutcomeSucceeded
	}
}
