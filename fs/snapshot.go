// Package fs stores snapshots as JSON files in a directory.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/heads"
	"github.com/google/uuid"
)

// Ensure SnapshotService implements heads.SnapshotService at compile time.
var _ heads.SnapshotService = (*SnapshotService)(nil)

const fileExt = ".json"

// SnapshotService implements heads.SnapshotService with one file per
// snapshot, named after its creation time in Unix milliseconds. Files are
// written to a temporary file first and renamed into place, so readers
// never see a partial snapshot.
type SnapshotService struct {
	dir string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	mu sync.Mutex
}

// NewSnapshotService creates a SnapshotService storing files in dir.
func NewSnapshotService(dir string) *SnapshotService {
	return &SnapshotService{dir: dir, Now: time.Now}
}

// snapshotFile is the on-disk form of a snapshot. Order keeps the table
// order of states, which the store's JSON form does not carry.
type snapshotFile struct {
	*heads.Snapshot
	Order []string `json:"order"`
}

// SaveSnapshot writes snap to a new file, assigning its ID and creation time.
func (s *SnapshotService) SaveSnapshot(ctx context.Context, snap *heads.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	created := s.Now().UTC().Truncate(time.Millisecond)
	path := s.pathFor(created)
	// Keep file names unique when saves land in the same millisecond.
	for fileExists(path) {
		created = created.Add(time.Millisecond)
		path = s.pathFor(created)
	}

	saved := *snap
	saved.ID = uuid.New().String()
	saved.CreatedAt = created

	data, err := json.MarshalIndent(snapshotFile{Snapshot: &saved, Order: snap.Store.Names()}, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}

	snap.ID = saved.ID
	snap.CreatedAt = saved.CreatedAt
	return nil
}

// LatestSnapshot returns the snapshot in the newest file.
func (s *SnapshotService) LatestSnapshot(ctx context.Context) (*heads.Snapshot, error) {
	names, err := s.snapshotFiles()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, heads.Errorf(heads.ENOTFOUND, "no snapshots in %s", s.dir)
	}
	return s.readSnapshot(names[0])
}

// FindSnapshots returns snapshots newest first, without their stores.
func (s *SnapshotService) FindSnapshots(ctx context.Context, limit int) ([]*heads.Snapshot, error) {
	names, err := s.snapshotFiles()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	snaps := make([]*heads.Snapshot, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		snap, err := s.readSnapshot(name)
		if err != nil {
			return nil, err
		}
		snap.Store = nil
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func (s *SnapshotService) pathFor(t time.Time) string {
	return filepath.Join(s.dir, strconv.FormatInt(t.UnixMilli(), 10)+fileExt)
}

// snapshotFiles returns snapshot file names, newest first. A missing
// directory holds no snapshots.
func (s *SnapshotService) snapshotFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	type stamped struct {
		name   string
		millis int64
	}
	var files []stamped
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		millis, err := strconv.ParseInt(strings.TrimSuffix(e.Name(), fileExt), 10, 64)
		if err != nil {
			continue
		}
		files = append(files, stamped{name: e.Name(), millis: millis})
	}
	slices.SortFunc(files, func(a, b stamped) int {
		switch {
		case a.millis > b.millis:
			return -1
		case a.millis < b.millis:
			return 1
		}
		return 0
	})

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}
	return names, nil
}

func (s *SnapshotService) readSnapshot(name string) (*heads.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, heads.Errorf(heads.EINVALID, "corrupt snapshot %s: %v", name, err)
	}
	if file.Snapshot == nil || file.Store == nil {
		return nil, heads.Errorf(heads.EINVALID, "corrupt snapshot %s: no store", name)
	}
	if file.Store.States == nil {
		file.Store.States = make(map[string]*heads.StateLeaders)
	}
	file.Store.Reorder(file.Order)
	return file.Snapshot, nil
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
