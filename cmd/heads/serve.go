package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fwojciec/heads"
	hhttp "github.com/fwojciec/heads/http"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := deps.Active.Load(ctx, deps.Snapshots); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", heads.ErrorMessage(err))
		return err
	}
	if snap := deps.Active.Current(); snap != nil {
		deps.Logger.Info("serving snapshot", "snapshot", snap.ID, "states", snap.Store.Len())
	}

	next := deps.Sync.OnSaved
	deps.Sync.OnSaved = func(snap *heads.Snapshot) {
		deps.Active.Set(snap)
		if next != nil {
			next(snap)
		}
	}

	srv := hhttp.NewServer(deps.Active, deps.Sync,
		hhttp.WithSnapshotService(deps.Snapshots),
		hhttp.WithLogger(deps.Logger),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx, c.Addr)
	})
	if c.Interval > 0 {
		g.Go(func() error {
			return deps.Sync.Run(ctx, c.Interval)
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(deps.Stderr, "error: %s\n", heads.ErrorMessage(err))
		return err
	}
	return nil
}
