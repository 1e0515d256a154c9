package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/heads"
	"github.com/fwojciec/heads/goquery"
)

// Run executes the table command.
func (c *TableCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	table, err := goquery.TableHTML(string(data))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", heads.ErrorMessage(err))
		return err
	}

	md, err := deps.Converter.Convert(table)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", heads.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, md)
	return nil
}
