package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/heads"
)

// Ensure LoggingSnapshotService implements heads.SnapshotService.
var _ heads.SnapshotService = (*LoggingSnapshotService)(nil)

// LoggingSnapshotService wraps a SnapshotService with debug logging.
type LoggingSnapshotService struct {
	next   heads.SnapshotService
	logger *slog.Logger
}

// NewLoggingSnapshotService creates a new LoggingSnapshotService.
func NewLoggingSnapshotService(next heads.SnapshotService, logger *slog.Logger) *LoggingSnapshotService {
	return &LoggingSnapshotService{next: next, logger: logger}
}

// SaveSnapshot delegates to the wrapped service and logs the operation.
func (s *LoggingSnapshotService) SaveSnapshot(ctx context.Context, snap *heads.Snapshot) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("save snapshot",
			"id", snap.ID,
			"states", storeLen(snap.Store),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveSnapshot(ctx, snap)
}

// LatestSnapshot delegates to the wrapped service and logs the operation.
func (s *LoggingSnapshotService) LatestSnapshot(ctx context.Context) (snap *heads.Snapshot, err error) {
	defer func(begin time.Time) {
		var id string
		var states int
		if snap != nil {
			id, states = snap.ID, storeLen(snap.Store)
		}
		s.logger.Debug("latest snapshot",
			"id", id,
			"states", states,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LatestSnapshot(ctx)
}

// FindSnapshots delegates to the wrapped service and logs the operation.
func (s *LoggingSnapshotService) FindSnapshots(ctx context.Context, limit int) (snaps []*heads.Snapshot, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find snapshots",
			"limit", limit,
			"count", len(snaps),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindSnapshots(ctx, limit)
}

func storeLen(store *heads.Store) int {
	if store == nil {
		return 0
	}
	return store.Len()
}
