package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// connection-level pragmas; they must be set on every pooled connection,
// so file databases pass them in the DSN.
var pragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
}

// dsn builds the driver DSN for a file database.
func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}

// OpenDB opens the AgroBot database at path and migrates it. A file
// database runs in WAL mode so the TUI can read history while a save is in
// flight. MemoryPath is pinned to one connection so every query sees the
// same schema.
func OpenDB(path string) (*sql.DB, error) {
	if path == MemoryPath {
		return openMemory()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}
	conn, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	return migrated(conn)
}

func openMemory() (*sql.DB, error) {
	conn, err := sql.Open("sqlite", MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return migrated(conn)
}

func migrated(conn *sql.DB) (*sql.DB, error) {
	if err := Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return conn, nil
}
