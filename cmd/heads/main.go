package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/heads"
	"github.com/fwojciec/heads/fs"
	"github.com/fwojciec/heads/goquery"
	"github.com/fwojciec/heads/htmltomarkdown"
	hhttp "github.com/fwojciec/heads/http"
	"github.com/fwojciec/heads/refresh"
	"github.com/fwojciec/heads/rod"
	hslog "github.com/fwojciec/heads/slog"
	"github.com/fwojciec/heads/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path for the sqlite backend. Set before calling Run().
	DBPath string

	// Snapshot directory for the json backend. Set before calling Run().
	DataDir string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SnapshotService heads.SnapshotService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:  defaultPath("heads.db"),
		DataDir: defaultPath("snapshots"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := newParser(cli, stdout, stderr, kong.Bind(deps))
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'heads --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	if cli.DataDir != "" {
		m.DataDir = cli.DataDir
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	deps.Parser = hslog.NewLoggingParser(goquery.NewParser(logger), logger)
	deps.Converter = htmltomarkdown.NewConverter()

	// Commands below need snapshot storage.
	if cmd == "parse" || cmd == "table" {
		return kongCtx.Run(deps)
	}

	if err := m.openSnapshots(cli.Backend, stderr); err != nil {
		return err
	}
	defer m.Close()
	deps.Snapshots = hslog.NewLoggingSnapshotService(m.SnapshotService, logger)

	if cmd == "sync" || cmd == "serve" {
		next, err := newFetcher(cli.Render)
		if err != nil {
			fmt.Fprintf(stderr, "Hint: --render needs Chrome or Chromium installed\n")
			return err
		}
		fetcher := hslog.NewLoggingFetcher(next, logger)
		defer fetcher.Close()

		deps.Sync = &refresh.Synchronizer{
			Fetcher:   fetcher,
			Parser:    deps.Parser,
			Snapshots: deps.Snapshots,
			SourceURL: cli.SourceURL,
			Logger:    logger,
		}
		deps.Active = &refresh.Active{}
	}

	return kongCtx.Run(deps)
}

// openSnapshots sets up the snapshot service for the chosen backend unless
// one was provided.
func (m *Main) openSnapshots(backend string, stderr io.Writer) error {
	if m.SnapshotService != nil {
		return nil
	}

	switch backend {
	case "json":
		m.SnapshotService = fs.NewSnapshotService(m.DataDir)
	default:
		if err := os.MkdirAll(filepath.Dir(m.DBPath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set HEADS_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		m.SnapshotService = sqlite.NewSnapshotService(m.DB)
	}
	return nil
}

// newFetcher returns the fetcher for the source page. Rendering launches a
// browser, so it is only started when asked for.
func newFetcher(render bool) (heads.Fetcher, error) {
	if render {
		return rod.NewFetcher()
	}
	return hhttp.NewFetcher(), nil
}

func newParser(cli *CLI, stdout, stderr io.Writer, opts ...kong.Option) (*kong.Kong, error) {
	opts = append([]kong.Option{
		kong.Name("heads"),
		kong.Description("Track current heads of state and government"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{"source_url": heads.DefaultSourceURL},
	}, opts...)
	return kong.New(cli, opts...)
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".heads", name)
}
