// Package refresh keeps the store in step with the source page. It fetches
// the page, parses it, saves the result as a snapshot and publishes it to
// readers.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/heads"
)

// Ensure Synchronizer implements heads.Refresher at compile time.
var _ heads.Refresher = (*Synchronizer)(nil)

// Synchronizer rebuilds the store from the source page.
type Synchronizer struct {
	Fetcher   heads.Fetcher
	Parser    heads.Parser
	Snapshots heads.SnapshotService
	SourceURL string

	// Force saves a new snapshot even when the page is unchanged.
	Force bool

	// RetryDelays overrides DefaultRetryDelays.
	RetryDelays []time.Duration

	// OnSaved, if set, is called with every newly saved snapshot.
	OnSaved func(snap *heads.Snapshot)

	Logger *slog.Logger

	mu sync.Mutex
}

// Sync fetches and parses the source page and saves the result. When the
// page hash matches the latest snapshot the latest snapshot is returned and
// nothing is saved. A parse failure or a page without states leaves the
// saved snapshots untouched.
func (s *Synchronizer) Sync(ctx context.Context) (*heads.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.logger()
	url := s.sourceURL()

	html, err := s.fetch(ctx, url, logger)
	if err != nil {
		return nil, err
	}
	hash := heads.ComputeHash(html)

	if !s.Force {
		latest, err := s.Snapshots.LatestSnapshot(ctx)
		switch {
		case err == nil && latest.SourceHash == hash:
			logger.Info("source unchanged", "hash", hash, "snapshot", latest.ID)
			return latest, nil
		case err != nil && heads.ErrorCode(err) != heads.ENOTFOUND:
			return nil, err
		}
	}

	store, err := s.Parser.Parse(html)
	if err != nil {
		return nil, err
	}
	if store.Len() == 0 {
		return nil, heads.Errorf(heads.EMALFORMED, "no states found at %s", url)
	}

	snap := &heads.Snapshot{
		SourceURL:  url,
		SourceHash: hash,
		Store:      store,
	}
	if err := s.Snapshots.SaveSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	logger.Info("snapshot saved",
		"snapshot", snap.ID,
		"states", store.Len(),
		"hash", hash,
	)

	if s.OnSaved != nil {
		s.OnSaved(snap)
	}
	return snap, nil
}

// Run syncs immediately and then on every tick of interval until ctx is
// done. Failed syncs are logged and retried on the next tick.
func (s *Synchronizer) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sync(ctx); err != nil && ctx.Err() == nil {
			s.logger().Error("sync failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// fetch fetches url with the default retry schedule unless RetryDelays is
// set.
func (s *Synchronizer) fetch(ctx context.Context, url string, logger *slog.Logger) (string, error) {
	if s.RetryDelays == nil {
		return FetchWithRetry(ctx, url, s.Fetcher.Fetch, logger)
	}
	return FetchWithRetryDelays(ctx, url, s.Fetcher.Fetch, logger, s.RetryDelays)
}

func (s *Synchronizer) sourceURL() string {
	if s.SourceURL == "" {
		return heads.DefaultSourceURL
	}
	return s.SourceURL
}

func (s *Synchronizer) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
