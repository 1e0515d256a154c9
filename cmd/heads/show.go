package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/fwojciec/heads"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	snap, err := deps.Snapshots.LatestSnapshot(deps.Ctx)
	if heads.ErrorCode(err) == heads.ENOTFOUND {
		fmt.Fprintln(deps.Stdout, "No snapshots found. Use 'heads sync' to create one.")
		return nil
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", heads.ErrorMessage(err))
		return err
	}

	if c.State == "" {
		if c.JSON {
			return writeJSON(deps.Stdout, snap.Store)
		}
		fmt.Fprintf(deps.Stdout, "Snapshot %s  %s  %d states\n",
			snap.ID, snap.CreatedAt.Format("2006-01-02 15:04"), snap.Store.Len())
		for _, name := range snap.Store.Names() {
			state := snap.Store.States[name]
			fmt.Fprintf(deps.Stdout, "%s  %d\n", name, leaderCount(state))
		}
		return nil
	}

	state, ok := snap.Store.States[c.State]
	if !ok {
		err := heads.Errorf(heads.ENOTFOUND, "state %q not found", c.State)
		fmt.Fprintf(deps.Stderr, "error: %s\n", heads.ErrorMessage(err))
		return err
	}
	if c.JSON {
		return writeJSON(deps.Stdout, state)
	}

	fmt.Fprintln(deps.Stdout, c.State)
	printRole(deps.Stdout, "Head of state", state.HeadOfState)
	printRole(deps.Stdout, "Head of government", state.HeadOfGovernment)
	printRole(deps.Stdout, "Head of state and government", state.HeadOfStateAndGovernment)
	return nil
}

func printRole(w io.Writer, label string, leaders map[string]*heads.Leader) {
	if len(leaders) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", label)

	names := make([]string, 0, len(leaders))
	for name := range leaders {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		l := leaders[name]
		var flags string
		switch {
		case l.ExecutiveAdministrator:
			flags = " [executive]"
		case l.Ceremonial:
			flags = " [ceremonial]"
		}
		fmt.Fprintf(w, "    %s: %s%s\n", l.Title, l.Name, flags)
	}
}

func leaderCount(state *heads.StateLeaders) int {
	return len(state.HeadOfState) + len(state.HeadOfGovernment) + len(state.HeadOfStateAndGovernment)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
