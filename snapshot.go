package heads

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Snapshot is one saved result of parsing the source page.
type Snapshot struct {
	ID         string    `json:"id"`
	SourceURL  string    `json:"sourceUrl"`
	SourceHash string    `json:"sourceHash"`
	CreatedAt  time.Time `json:"createdAt"`
	Store      *Store    `json:"store"`
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *Snapshot) Validate() error {
	if s.SourceURL == "" {
		return Errorf(EINVALID, "snapshot source URL required")
	}
	if s.Store == nil {
		return Errorf(EINVALID, "snapshot store required")
	}
	return nil
}

// SnapshotService persists snapshots.
type SnapshotService interface {
	// SaveSnapshot stores a snapshot, assigning its ID and creation time.
	SaveSnapshot(ctx context.Context, snap *Snapshot) error

	// LatestSnapshot returns the most recently saved snapshot.
	// Returns ENOTFOUND if no snapshot has been saved.
	LatestSnapshot(ctx context.Context) (*Snapshot, error)

	// FindSnapshots returns snapshots newest first, without their stores.
	// A limit of zero returns all snapshots.
	FindSnapshots(ctx context.Context, limit int) ([]*Snapshot, error)
}

// Refresher rebuilds the store from the source page.
type Refresher interface {
	// Sync fetches and parses the source page and saves the result.
	// It returns the snapshot that is current afterwards.
	Sync(ctx context.Context) (*Snapshot, error)
}

// ComputeHash computes a hash of the content using xxhash.
func ComputeHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}
