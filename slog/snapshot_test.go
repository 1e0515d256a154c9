package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/heads"
	"github.com/fwojciec/heads/mock"
	hslog "github.com/fwojciec/heads/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingSnapshotService_SaveSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("logs assigned ID", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SnapshotService{
			SaveSnapshotFn: func(_ context.Context, snap *heads.Snapshot) error {
				snap.ID = "snap-1"
				return nil
			},
		}

		svc := hslog.NewLoggingSnapshotService(inner, debugLogger(&buf))
		err := svc.SaveSnapshot(context.Background(), &heads.Snapshot{SourceURL: "u", Store: heads.NewStore()})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "save snapshot")
		assert.Contains(t, output, "id=snap-1")
		assert.Contains(t, output, "states=0")
	})

	t.Run("logs error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SnapshotService{
			SaveSnapshotFn: func(context.Context, *heads.Snapshot) error {
				return errors.New("disk full")
			},
		}

		svc := hslog.NewLoggingSnapshotService(inner, debugLogger(&buf))
		err := svc.SaveSnapshot(context.Background(), &heads.Snapshot{})

		require.Error(t, err)
		assert.Contains(t, buf.String(), `err="disk full"`)
	})
}

func TestLoggingSnapshotService_LatestSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("logs snapshot", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SnapshotService{
			LatestSnapshotFn: func(context.Context) (*heads.Snapshot, error) {
				return &heads.Snapshot{ID: "snap-2", Store: heads.NewStore()}, nil
			},
		}

		svc := hslog.NewLoggingSnapshotService(inner, debugLogger(&buf))
		snap, err := svc.LatestSnapshot(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "snap-2", snap.ID)
		assert.Contains(t, buf.String(), "id=snap-2")
	})

	t.Run("logs not found", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SnapshotService{
			LatestSnapshotFn: func(context.Context) (*heads.Snapshot, error) {
				return nil, heads.Errorf(heads.ENOTFOUND, "no snapshots saved")
			},
		}

		svc := hslog.NewLoggingSnapshotService(inner, debugLogger(&buf))
		_, err := svc.LatestSnapshot(context.Background())

		require.Error(t, err)
		assert.Equal(t, heads.ENOTFOUND, heads.ErrorCode(err))
		assert.Contains(t, buf.String(), "no snapshots saved")
	})
}

func TestLoggingSnapshotService_FindSnapshots(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.SnapshotService{
		FindSnapshotsFn: func(_ context.Context, limit int) ([]*heads.Snapshot, error) {
			return []*heads.Snapshot{{ID: "a"}, {ID: "b"}}, nil
		},
	}

	svc := hslog.NewLoggingSnapshotService(inner, debugLogger(&buf))
	snaps, err := svc.FindSnapshots(context.Background(), 5)

	require.NoError(t, err)
	assert.Len(t, snaps, 2)
	output := buf.String()
	assert.Contains(t, output, "limit=5")
	assert.Contains(t, output, "count=2")
}
