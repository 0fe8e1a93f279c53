// Package worker contains the background loops started alongside the HTTP
// server.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/scai-digital/cascade/internal/snapshot"
)

// SnapshotSource produces a JSON snapshot of the full workspace state.
// Implemented by the SQLite store.
type SnapshotSource interface {
	Snapshot(ctx context.Context) ([]byte, error)
}

// BackupCoordinator periodically snapshots the workspace state and uploads
// it to backup storage.
type BackupCoordinator struct {
	source   SnapshotSource
	uploader snapshot.Uploader
	interval time.Duration
}

// NewBackupCoordinator creates a backup coordinator.
func NewBackupCoordinator(source SnapshotSource, uploader snapshot.Uploader, interval time.Duration) *BackupCoordinator {
	return &BackupCoordinator{
		source:   source,
		uploader: uploader,
		interval: interval,
	}
}

// Run starts the coordinator loop. Blocks until ctx is cancelled.
// The first backup runs immediately so a fresh deployment is covered
// before the first interval elapses.
func (c *BackupCoordinator) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "worker",
		"worker", "backup-coordinator",
		"interval", c.interval.String(),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.backup(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "backup-coordinator",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			c.backup(ctx)
		}
	}
}

// backup performs one snapshot-and-upload cycle, logging failures without
// stopping the loop.
func (c *BackupCoordinator) backup(ctx context.Context) {
	data, err := c.source.Snapshot(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("workspace snapshot failed",
			"component", "worker",
			"worker", "backup-coordinator",
			"error", err,
		)
		return
	}

	if err := c.uploader.Upload(ctx, data); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("backup upload failed",
			"component", "worker",
			"worker", "backup-coordinator",
			"error", err,
		)
		return
	}

	slog.Info("backup uploaded",
		"component", "worker",
		"worker", "backup-coordinator",
		"bytes", len(data),
	)
}
