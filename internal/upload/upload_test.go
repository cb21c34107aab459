package upload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
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
	"lakeload/internal/store"
	"lakeload/internal/testutil"
)

func newUploader(st store.ObjectStore) *Uploader {
	return New(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
}

func TestVolumeRoot(t *testing.T) {
	assert.Equal(t, "Volumes/demos/moorcare/data_files", VolumeRoot("demos", "moorcare", "data_files"))
}

func TestUploadAll(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"synthetic-sites.csv":      "id,region\n1,Scotland\n",
		"synthetic-monitoring.csv": "id,ph\n1,4.2\n",
		"notes.txt":                "not a csv",
	})

	st := &testutil.MockObjectStore{}
	results, err := newUploader(st).UploadAll(context.Background(),
		dir, "synthetic-*.csv", "demos", "moorcare", "data_files")
	require.NoError(t, err)
	require.Len(t, results, 2, "only files matching the pattern are uploaded")

	// Results are sorted by filename.
	assert.Equal(t, "Volumes/demos/moorcare/data_files/synthetic-monitoring.csv", results[0].RemotePath)
	assert.Equal(t, "Volumes/demos/moorcare/data_files/synthetic-sites.csv", results[1].RemotePath)

	for _, res := range results {
		assert.Equal(t, domain.StatusOK, res.Status)
		assert.True(t, res.Verified)
		assert.Empty(t, res.Error)

		remote, ok := st.Objects[res.RemotePath]
		require.True(t, ok)
		assert.Equal(t, res.Bytes, int64(len(remote)))

		digest := sha256.Sum256(remote)
		assert.Equal(t, hex.EncodeToString(digest[:]), res.SHA256)
	}
}

func TestUploadAllZeroMatches(t *testing.T) {
	st := &testutil.MockObjectStore{}
	results, err := newUploader(st).UploadAll(context.Background(),
		t.TempDir(), "synthetic-*.csv", "demos", "moorcare", "data_files")

	require.NoError(t, err, "zero matches is not an error")
	assert.Empty(t, results, "caller detects the empty result to short-circuit")
	assert.Empty(t, st.Objects)
}

func TestUploadAllReuploadOverwrites(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"synthetic-a.csv": "same content"})

	st := &testutil.MockObjectStore{}
	u := newUploader(st)
	ctx := context.Background()

	first, err := u.UploadAll(ctx, dir, "synthetic-*.csv", "demos", "moorcare", "data_files")
	require.NoError(t, err)
	second, err := u.UploadAll(ctx, dir, "synthetic-*.csv", "demos", "moorcare", "data_files")
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].RemotePath, second[0].RemotePath, "remote path is deterministic")
	assert.Len(t, st.Objects, 1, "re-upload overwrites, no duplicate object")
	assert.Equal(t, []byte("same content"), st.Objects[second[0].RemotePath])
}

func TestUploadAllPerFileFailureDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"synthetic-a.csv": "aaa",
		"synthetic-b.csv": "bbb",
		"synthetic-c.csv": "ccc",
	})

	st := &testutil.MockObjectStore{
		PutFn: func(_ context.Context, key string, _ []byte) error {
			if strings.HasSuffix(key, "synthetic-b.csv") {
				return errors.New("connection reset")
			}
			return nil
		},
	}
	results, err := newUploader(st).UploadAll(context.Background(),
		dir, "synthetic-*.csv", "demos", "moorcare", "data_files")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, domain.StatusOK, results[0].Status)
	assert.Equal(t, domain.StatusWarning, results[1].Status)
	assert.Contains(t, results[1].Error, "connection reset")
	assert.Equal(t, domain.StatusOK, results[2].Status, "failure of one file does not abort the rest")
}

func TestUploadAllVerificationMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"synthetic-a.csv": "full content"})

	st := &testutil.MockObjectStore{
		StatFn: func(context.Context, string) (int64, error) { return 3, nil }, // truncated remote
	}
	results, err := newUploader(st).UploadAll(context.Background(),
		dir, "synthetic-*.csv", "demos", "moorcare", "data_files")
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, domain.StatusWarning, results[0].Status)
	assert.False(t, results[0].Verified)
	assert.Contains(t, results[0].Error, "remote has 3 bytes")
}

func TestUploadAllWithLocalStore(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"synthetic-a.csv": "id\n1\n"})

	st, err := store.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	results, err := newUploader(st).UploadAll(context.Background(),
		dir, "synthetic-*.csv", "demos", "moorcare", "data_files")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusOK, results[0].Status)
	assert.True(t, results[0].Verified)
}
