package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/heads"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ heads.SnapshotService = (*SnapshotService)(nil)

// timeFormat is RFC 3339 with fixed-width nanoseconds, so stored timestamps
// sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// roles lists the leader roles in storage order.
var roles = []heads.Role{
	heads.RoleHeadOfState,
	heads.RoleHeadOfGovernment,
	heads.RoleHeadOfStateAndGovernment,
}

// SnapshotService implements heads.SnapshotService using SQLite.
type SnapshotService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{db: db, Now: time.Now}
}

// SaveSnapshot stores a snapshot with its states and leaders in one
// transaction.
func (s *SnapshotService) SaveSnapshot(ctx context.Context, snap *heads.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	id := uuid.New().String()
	createdAt := s.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, source_url, source_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, id, snap.SourceURL, snap.SourceHash, formatTime(createdAt)); err != nil {
		return err
	}

	for position, name := range snap.Store.Names() {
		state := snap.Store.States[name]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO states (snapshot_id, name, href, position)
			VALUES (?, ?, ?, ?)
		`, id, name, state.Href, position); err != nil {
			return err
		}

		for _, role := range roles {
			for _, l := range state.Leaders(role) {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO leaders (snapshot_id, state_name, role, name, title, href, executive_administrator, ceremonial)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?)
				`, id, name, string(role), l.Name, l.Title, l.Href, l.ExecutiveAdministrator, l.Ceremonial); err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	snap.ID = id
	snap.CreatedAt = createdAt
	return nil
}

// LatestSnapshot returns the most recently saved snapshot with its store.
func (s *SnapshotService) LatestSnapshot(ctx context.Context) (*heads.Snapshot, error) {
	var snap heads.Snapshot
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, source_url, source_hash, created_at
		FROM snapshots
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&snap.ID, &snap.SourceURL, &snap.SourceHash, &createdAt)

	if err == sql.ErrNoRows {
		return nil, heads.Errorf(heads.ENOTFOUND, "no snapshots saved")
	}
	if err != nil {
		return nil, err
	}

	if snap.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}

	if snap.Store, err = s.loadStore(ctx, snap.ID); err != nil {
		return nil, err
	}
	return &snap, nil
}

// FindSnapshots returns snapshots newest first, without their stores.
func (s *SnapshotService) FindSnapshots(ctx context.Context, limit int) ([]*heads.Snapshot, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source_url, source_hash, created_at FROM snapshots ORDER BY created_at DESC, rowid DESC")
	appendLimit(&query, &args, limit)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []*heads.Snapshot
	for rows.Next() {
		var snap heads.Snapshot
		var createdAt string

		if err := rows.Scan(&snap.ID, &snap.SourceURL, &snap.SourceHash, &createdAt); err != nil {
			return nil, err
		}
		if snap.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}
		snaps = append(snaps, &snap)
	}

	return snaps, rows.Err()
}

// loadStore rebuilds the store of a snapshot in its original state order.
func (s *SnapshotService) loadStore(ctx context.Context, snapshotID string) (*heads.Store, error) {
	stateRows, err := s.db.QueryContext(ctx, `
		SELECT name, href
		FROM states
		WHERE snapshot_id = ?
		ORDER BY position ASC
	`, snapshotID)
	if err != nil {
		return nil, err
	}
	defer stateRows.Close()

	var records []*heads.Record
	byName := make(map[string]*heads.Record)
	for stateRows.Next() {
		rec := &heads.Record{}
		if err := stateRows.Scan(&rec.State.Name, &rec.State.Href); err != nil {
			return nil, err
		}
		records = append(records, rec)
		byName[rec.State.Name] = rec
	}
	if err := stateRows.Err(); err != nil {
		return nil, err
	}

	leaderRows, err := s.db.QueryContext(ctx, `
		SELECT state_name, role, name, title, href, executive_administrator, ceremonial
		FROM leaders
		WHERE snapshot_id = ?
		ORDER BY rowid ASC
	`, snapshotID)
	if err != nil {
		return nil, err
	}
	defer leaderRows.Close()

	for leaderRows.Next() {
		var stateName, role string
		var l heads.Leader
		if err := leaderRows.Scan(&stateName, &role, &l.Name, &l.Title, &l.Href,
			&l.ExecutiveAdministrator, &l.Ceremonial); err != nil {
			return nil, err
		}

		rec, ok := byName[stateName]
		if !ok {
			continue
		}
		switch heads.Role(role) {
		case heads.RoleHeadOfState:
			rec.HeadOfState = append(rec.HeadOfState, &l)
		case heads.RoleHeadOfGovernment:
			rec.HeadOfGovernment = append(rec.HeadOfGovernment, &l)
		case heads.RoleHeadOfStateAndGovernment:
			rec.HeadOfStateAndGovernment = append(rec.HeadOfStateAndGovernment, &l)
		}
	}
	if err := leaderRows.Err(); err != nil {
		return nil, err
	}

	store := heads.NewStore()
	for _, rec := range records {
		if err := store.Insert(rec); err != nil {
			return nil, err
		}
	}
	return store, nil
}
