package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lakeload/internal/domain"
	"lakeload/internal/testutil"
)

func newRunner(exec *testutil.MockExecutor) *Runner {
	return New(exec, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRunScript(t *testing.T) {
	t.Run("executes_survivors_in_order", func(t *testing.T) {
		exec := &testutil.MockExecutor{}
		script := `
-- provisioning header;
CREATE TABLE sites (id INT);
-- another comment;

CREATE TABLE readings (id INT);
INSERT INTO sites VALUES (1)
`
		results := newRunner(exec).RunScript(context.Background(), script)

		// 6 terminator-delimited fragments, 3 comment/empty: 3 attempted.
		require.Len(t, results, 3)
		assert.Equal(t, []string{
			"CREATE TABLE sites (id INT)",
			"CREATE TABLE readings (id INT)",
			"INSERT INTO sites VALUES (1)",
		}, exec.Statements)

		for i, res := range results {
			assert.Equal(t, i+1, res.Index, "results are 1-indexed")
			assert.Equal(t, domain.StatusOK, res.Status)
		}
	})

	t.Run("failure_does_not_stop_later_statements", func(t *testing.T) {
		exec := &testutil.MockExecutor{
			ExecFn: func(_ context.Context, stmt string) error {
				if strings.Contains(stmt, "BROKEN") {
					return errors.New("syntax error near BROKEN")
				}
				return nil
			},
		}
		script := "CREATE TABLE ok1 (id INT); BROKEN STATEMENT; CREATE TABLE ok2 (id INT)"
		results := newRunner(exec).RunScript(context.Background(), script)

		require.Len(t, results, 3)
		assert.Equal(t, domain.StatusOK, results[0].Status)
		assert.Equal(t, domain.StatusWarning, results[1].Status)
		assert.Contains(t, results[1].Error, "syntax error")
		assert.Equal(t, domain.StatusOK, results[2].Status,
			"the statement after the failure still executed")
		assert.Len(t, exec.Statements, 3)
	})

	t.Run("empty_script", func(t *testing.T) {
		exec := &testutil.MockExecutor{}
		results := newRunner(exec).RunScript(context.Background(), "-- only comments;\n")
		assert.Empty(t, results)
		assert.Empty(t, exec.Statements)
	})
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ddl.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1;\nSELECT 2;"), 0o600))

	exec := &testutil.MockExecutor{}
	results, err := newRunner(exec).RunFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	_, err = newRunner(exec).RunFile(context.Background(), filepath.Join(dir, "missing.sql"))
	assert.Error(t, err)
}
