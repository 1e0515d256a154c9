package main

import (
	"fmt"

	"github.com/fwojciec/heads"
)

// Run executes the sync command.
func (c *SyncCmd) Run(deps *Dependencies) error {
	saved := false
	next := deps.Sync.OnSaved
	deps.Sync.OnSaved = func(snap *heads.Snapshot) {
		saved = true
		if next != nil {
			next(snap)
		}
	}
	deps.Sync.Force = c.Force

	snap, err := deps.Sync.Sync(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", heads.ErrorMessage(err))
		return err
	}

	if saved {
		fmt.Fprintf(deps.Stdout, "Saved snapshot %s (%d states)\n", snap.ID, snap.Store.Len())
	} else {
		fmt.Fprintf(deps.Stdout, "Source unchanged, snapshot %s is current (%d states)\n", snap.ID, snap.Store.Len())
	}
	return nil
}
