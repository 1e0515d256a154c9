package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/heads"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	store, err := deps.Parser.Parse(string(data))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", heads.ErrorMessage(err))
		return err
	}

	return writeJSON(deps.Stdout, store)
}
