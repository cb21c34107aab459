// Package runner applies a DDL script statement by statement.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"lakeload/internal/ddl"
	"lakeload/internal/domain"
)

// Executor runs a single SQL statement against the warehouse session.
type Executor interface {
	Exec(ctx context.Context, stmt string) error
}

// Runner executes the surviving statements of a DDL script in order,
// continuing past per-statement failures. The script may contain statements
// that are only valid after one-time manual setup; a strict all-or-nothing
// batch would let those block everything behind them.
type Runner struct {
	exec   Executor
	logger *slog.Logger
}

// New creates a Runner.
func New(exec Executor, logger *slog.Logger) *Runner {
	return &Runner{exec: exec, logger: logger}
}

// RunScript splits script and executes each surviving statement, returning
// a 1-indexed result per statement. No statement's failure prevents the
// execution of any later statement.
func (r *Runner) RunScript(ctx context.Context, script string) []domain.StatementResult {
	stmts := ddl.SplitScript(script)
	results := make([]domain.StatementResult, 0, len(stmts))

	for i, stmt := range stmts {
		res := domain.StatementResult{
			Index: i + 1,
			SQL:   stmt,
		}

		start := time.Now()
		err := r.exec.Exec(ctx, stmt)
		res.Duration = time.Since(start)

		if err != nil {
			res.Status = domain.StatusWarning
			res.Error = err.Error()
			r.logger.Warn("statement failed, continuing",
				"index", res.Index, "total", len(stmts), "error", err)
		} else {
			res.Status = domain.StatusOK
			r.logger.Info("statement applied",
				"index", res.Index, "total", len(stmts), "duration", res.Duration)
		}
		results = append(results, res)
	}
	return results
}

// RunFile reads a DDL script from path (UTF-8 text) and runs it.
func (r *Runner) RunFile(ctx context.Context, path string) ([]domain.StatementResult, error) {
	script, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return nil, fmt.Errorf("read DDL script %s: %w", path, err)
	}
	return r.RunScript(ctx, string(script)), nil
}
