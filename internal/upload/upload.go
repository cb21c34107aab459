// Package upload transfers local data files into the target volume.
package upload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"

	"lakeload/internal/domain"
	"lakeload/internal/store"
)

// Uploader copies files matching a glob pattern into an object store,
// one blocking transfer at a time. Per-file failures are reported
// individually and never abort the remaining files.
type Uploader struct {
	store  store.ObjectStore
	logger *slog.Logger
}

// New creates an Uploader.
func New(st store.ObjectStore, logger *slog.Logger) *Uploader {
	return &Uploader{store: st, logger: logger}
}

// VolumeRoot returns the object-key prefix for a volume. It mirrors the
// catalog's volume path layout (/Volumes/<catalog>/<schema>/<volume>) with
// the leading separator dropped for object-store key space.
func VolumeRoot(catalog, schema, volume string) string {
	return path.Join("Volumes", catalog, schema, volume)
}

// UploadAll uploads every file in localDir matching pattern to the volume.
//
// Matches are sorted by filename so runs are deterministic. Remote paths are
// a pure function of (catalog, schema, volume, filename), so re-running on
// unchanged files overwrites the remote objects with identical bytes. Zero
// matches is not an error: the caller receives an empty slice and decides
// whether to short-circuit.
//
// The only returned error is a malformed glob pattern; everything else is
// per-file and lands in the results.
func (u *Uploader) UploadAll(ctx context.Context, localDir, pattern, catalog, schema, volume string) ([]domain.UploadResult, error) {
	matches, err := filepath.Glob(filepath.Join(localDir, pattern))
	if err != nil {
		return nil, domain.ErrValidation("bad file pattern %q: %v", pattern, err)
	}
	sort.Strings(matches)

	root := VolumeRoot(catalog, schema, volume)
	results := make([]domain.UploadResult, 0, len(matches))
	for _, localPath := range matches {
		results = append(results, u.uploadOne(ctx, localPath, root))
	}
	return results, nil
}

// uploadOne reads, uploads, and verifies a single file.
func (u *Uploader) uploadOne(ctx context.Context, localPath, root string) domain.UploadResult {
	filename := filepath.Base(localPath)
	res := domain.UploadResult{
		LocalPath:  localPath,
		RemotePath: path.Join(root, filename),
	}

	data, err := os.ReadFile(localPath) //nolint:gosec // path comes from the configured scan
	if err != nil {
		return u.warn(res, fmt.Errorf("read %s: %w", localPath, err))
	}
	res.Bytes = int64(len(data))
	digest := sha256.Sum256(data)
	res.SHA256 = hex.EncodeToString(digest[:])

	if err := u.store.Put(ctx, res.RemotePath, data); err != nil {
		return u.warn(res, err)
	}

	// Post-upload verification: remote byte length must match what we sent.
	remoteLen, err := u.store.Stat(ctx, res.RemotePath)
	if err != nil {
		return u.warn(res, fmt.Errorf("verify %s: %w", res.RemotePath, err))
	}
	if remoteLen != res.Bytes {
		return u.warn(res, fmt.Errorf("verify %s: remote has %d bytes, sent %d", res.RemotePath, remoteLen, res.Bytes))
	}

	res.Status = domain.StatusOK
	res.Verified = true
	u.logger.Info("uploaded file", "local", localPath, "remote", res.RemotePath, "bytes", res.Bytes)
	return res
}

func (u *Uploader) warn(res domain.UploadResult, err error) domain.UploadResult {
	res.Status = domain.StatusWarning
	res.Error = err.Error()
	u.logger.Warn("upload failed, continuing", "local", res.LocalPath, "error", err)
	return res
}
