package refresh

import (
	"context"
	"sync/atomic"

	"github.com/fwojciec/heads"
)

// Active holds the snapshot readers are served. It is safe for concurrent
// use; readers never observe a partially built store.
type Active struct {
	snap atomic.Pointer[heads.Snapshot]
}

// Current returns the active snapshot, or nil before one is set.
func (a *Active) Current() *heads.Snapshot {
	return a.snap.Load()
}

// Set makes snap the active snapshot.
func (a *Active) Set(snap *heads.Snapshot) {
	a.snap.Store(snap)
}

// Load seeds the active snapshot with the latest saved one. Having no saved
// snapshot is not an error.
func (a *Active) Load(ctx context.Context, snapshots heads.SnapshotService) error {
	snap, err := snapshots.LatestSnapshot(ctx)
	if heads.ErrorCode(err) == heads.ENOTFOUND {
		return nil
	} else if err != nil {
		return err
	}
	a.Set(snap)
	return nil
}
