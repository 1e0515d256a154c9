package mock

import (
	"context"

	"github.com/fwojciec/heads"
)

// Compile-time interface verification.
var (
	_ heads.SnapshotService = (*SnapshotService)(nil)
	_ heads.Refresher       = (*Refresher)(nil)
)

// SnapshotService is a mock implementation of heads.SnapshotService.
type SnapshotService struct {
	SaveSnapshotFn   func(ctx context.Context, snap *heads.Snapshot) error
	LatestSnapshotFn func(ctx context.Context) (*heads.Snapshot, error)
	FindSnapshotsFn  func(ctx context.Context, limit int) ([]*heads.Snapshot, error)
}

func (s *SnapshotService) SaveSnapshot(ctx context.Context, snap *heads.Snapshot) error {
	return s.SaveSnapshotFn(ctx, snap)
}

func (s *SnapshotService) LatestSnapshot(ctx context.Context) (*heads.Snapshot, error) {
	return s.LatestSnapshotFn(ctx)
}

func (s *SnapshotService) FindSnapshots(ctx context.Context, limit int) ([]*heads.Snapshot, error) {
	return s.FindSnapshotsFn(ctx, limit)
}

// Refresher is a mock implementation of heads.Refresher.
type Refresher struct {
	SyncFn func(ctx context.Context) (*heads.Snapshot, error)
}

func (r *Refresher) Sync(ctx context.Context) (*heads.Snapshot, error) {
	return r.SyncFn(ctx)
}
