package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/heads"
	"github.com/fwojciec/heads/refresh"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Snapshots heads.SnapshotService
	Parser    heads.Parser
	Converter heads.Converter
	Sync      *refresh.Synchronizer
	Active    *refresh.Active
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB        string `name:"db" env:"HEADS_DB" help:"SQLite database path (default ~/.heads/heads.db)"`
	DataDir   string `name:"data-dir" env:"HEADS_DATA_DIR" help:"Snapshot directory for the json backend (default ~/.heads/snapshots)"`
	Backend   string `enum:"sqlite,json" default:"sqlite" env:"HEADS_BACKEND" help:"Snapshot storage: sqlite or json"`
	SourceURL string `name:"source-url" env:"HEADS_SOURCE_URL" default:"${source_url}" help:"Page holding the leaders table"`
	Render    bool   `env:"HEADS_RENDER" help:"Load the source page in headless Chrome before parsing"`
	Verbose   bool   `short:"v" help:"Log debug output"`

	Sync  SyncCmd  `cmd:"" help:"Fetch the source page and save a snapshot"`
	Parse ParseCmd `cmd:"" help:"Parse a saved page and print the store as JSON"`
	Show  ShowCmd  `cmd:"" help:"Show the latest snapshot"`
	Table TableCmd `cmd:"" help:"Print the leaders table of a saved page as Markdown"`
	Serve ServeCmd `cmd:"" help:"Serve the latest store over HTTP and keep it fresh"`
}

// SyncCmd is the "sync" subcommand.
type SyncCmd struct {
	Force bool `short:"f" help:"Save a snapshot even if the page is unchanged"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	File string `arg:"" type:"existingfile" help:"HTML file to parse"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	State string `arg:"" optional:"" help:"State to show; lists all states when omitted"`
	JSON  bool   `name:"json" help:"Print JSON"`
}

// TableCmd is the "table" subcommand.
type TableCmd struct {
	File string `arg:"" type:"existingfile" help:"HTML file holding the table"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr     string        `default:":8080" env:"HEADS_ADDR" help:"Listen address"`
	Interval time.Duration `default:"24h" help:"Time between refreshes; 0 disables them"`
}
