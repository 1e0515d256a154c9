// Package sqlite stores snapshots in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// pragmas are applied to every connection in order. WAL is skipped for
// in-memory databases, which do not support it.
var pragmas = []struct {
	name, stmt string
	fileOnly   bool
}{
	{name: "busy timeout", stmt: "PRAGMA busy_timeout = 5000"},
	{name: "WAL mode", stmt: "PRAGMA journal_mode = WAL", fileOnly: true},
	{name: "foreign keys", stmt: "PRAGMA foreign_keys = ON"},
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory database
	// exists per connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, p := range pragmas {
		if p.fileOnly && db.path == ":memory:" {
			continue
		}
		if _, err := conn.Exec(p.stmt); err != nil {
			conn.Close()
			return fmt.Errorf("failed to set %s: %w", p.name, err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	db.db = conn
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, opts)
}

// schema holds one row per snapshot, one per state in table order and one
// per leader. Deleting a snapshot cascades to its states and leaders.
const schema = `
		CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			source_url TEXT NOT NULL,
			source_hash TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS states (
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			href TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (snapshot_id, name)
		);

		CREATE TABLE IF NOT EXISTS leaders (
			snapshot_id TEXT NOT NULL,
			state_name TEXT NOT NULL,
			role TEXT NOT NULL,
			name TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			href TEXT NOT NULL DEFAULT '',
			executive_administrator INTEGER NOT NULL DEFAULT 0,
			ceremonial INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (snapshot_id, state_name, role, name),
			FOREIGN KEY (snapshot_id, state_name) REFERENCES states(snapshot_id, name) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
		CREATE INDEX IF NOT EXISTS idx_snapshots_source_hash ON snapshots(source_hash);
`
