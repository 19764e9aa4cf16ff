package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"llamaflow/config"
	"llamaflow/logger"
	"llamaflow/models"
)

// SnapshotWriter persists envelopes as indented JSON files under a fixed
// root directory. Every write creates a new file; snapshots are never
// updated or deleted. When S3 mirroring is enabled each written snapshot
// is also uploaded under the same relative key.
type SnapshotWriter struct {
	root   string
	mirror *S3Mirror
	log    *logger.Log
}

// NewSnapshotWriter creates a SnapshotWriter rooted at the configured
// storage directory.
func NewSnapshotWriter(cfg *config.Config) (*SnapshotWriter, error) {
	w := &SnapshotWriter{
		root: cfg.Storage.Local.RootDir,
		log:  logger.GetLogger(),
	}

	if cfg.Storage.S3.Enabled {
		mirror, err := NewS3Mirror(cfg)
		if err != nil {
			return nil, fmt.Errorf("create s3 mirror: %w", err)
		}
		w.mirror = mirror
	}

	return w, nil
}

// Write serializes env and writes it to
// <root>/<category>[/<subcategory>]/<filename>, creating directories as
// needed. Filesystem errors propagate to the caller; a failed write leaves
// no usable snapshot behind for this request.
func (w *SnapshotWriter) Write(ctx context.Context, env models.Envelope, category, subcategory, filename string) (string, error) {
	dir := filepath.Join(w.root, category)
	if subcategory != "" {
		dir = filepath.Join(dir, subcategory)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", path, err)
	}

	logger.IncrementSnapshotWrite(len(data))
	logger.LogDataFlowEntry(
		w.log.WithComponent("snapshot_writer"),
		env.Metadata.SourceInfo.Endpoint,
		path,
		len(data),
		env.Metadata.SourceInfo.DataType,
	)

	if w.mirror != nil {
		// Mirroring is best effort; local snapshots stay authoritative.
		if err := w.mirror.Upload(ctx, category, subcategory, filename, data); err != nil {
			w.log.WithComponent("snapshot_writer").WithError(err).Warn("failed to mirror snapshot to S3")
		}
	}

	return path, nil
}
