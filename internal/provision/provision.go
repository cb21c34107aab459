// Package provision ensures the target schema and managed volume exist.
package provision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"lakeload/internal/ddl"
	"lakeload/internal/domain"
)

// Executor runs a single SQL statement against the warehouse session.
type Executor interface {
	Exec(ctx context.Context, stmt string) error
}

// Provisioner issues idempotent-intent creates for the schema and volume.
//
// Failures are never fatal: a backing store that reports the resource as
// already existing counts as success, and any other failure is downgraded
// to a warning so later stages still run; the upload may succeed even when
// provisioning could not (the namespace may already exist under a different
// code path).
type Provisioner struct {
	exec   Executor
	logger *slog.Logger
}

// New creates a Provisioner.
func New(exec Executor, logger *slog.Logger) *Provisioner {
	return &Provisioner{exec: exec, logger: logger}
}

// EnsureSchema creates catalog.schema, tolerating "already exists".
func (p *Provisioner) EnsureSchema(ctx context.Context, catalog, schema string) domain.ProvisionResult {
	res := domain.ProvisionResult{
		Resource: fmt.Sprintf("%s.%s", catalog, schema),
		Kind:     "schema",
	}
	stmt, err := ddl.CreateSchemaIfNotExists(catalog, schema)
	if err != nil {
		return p.classify(res, err)
	}
	return p.classify(res, p.exec.Exec(ctx, stmt))
}

// EnsureVolume creates catalog.schema.volume, tolerating "already exists".
// The schema must already exist (or the failure is reported as a warning).
func (p *Provisioner) EnsureVolume(ctx context.Context, catalog, schema, volume string) domain.ProvisionResult {
	res := domain.ProvisionResult{
		Resource: fmt.Sprintf("%s.%s.%s", catalog, schema, volume),
		Kind:     "volume",
	}
	stmt, err := ddl.CreateVolumeIfNotExists(catalog, schema, volume)
	if err != nil {
		return p.classify(res, err)
	}
	return p.classify(res, p.exec.Exec(ctx, stmt))
}

// EnsureAll runs both ensure operations in order. There is no rollback:
// a created schema stays even when the volume create fails.
func (p *Provisioner) EnsureAll(ctx context.Context, catalog, schema, volume string) []domain.ProvisionResult {
	return []domain.ProvisionResult{
		p.EnsureSchema(ctx, catalog, schema),
		p.EnsureVolume(ctx, catalog, schema, volume),
	}
}

// classify fills in the result status from the ensure error, applying the
// "already exists means success" rule.
func (p *Provisioner) classify(res domain.ProvisionResult, err error) domain.ProvisionResult {
	switch {
	case err == nil:
		res.Status = domain.StatusOK
		p.logger.Info("resource ready", "kind", res.Kind, "resource", res.Resource)
	case IsAlreadyExists(err):
		res.Status = domain.StatusOK
		res.AlreadyExists = true
		p.logger.Info("resource already exists", "kind", res.Kind, "resource", res.Resource)
	default:
		res.Status = domain.StatusWarning
		res.Error = err.Error()
		p.logger.Warn("provisioning failed, continuing",
			"kind", res.Kind, "resource", res.Resource, "error", err)
	}
	return res
}

// IsAlreadyExists reports whether err is a backing-store failure that means
// the resource already exists (case-insensitive substring match).
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}
