package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username      TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS chat_turns (
		username TEXT NOT NULL,
		seq      INTEGER NOT NULL,
		speaker  TEXT NOT NULL CHECK(speaker IN ('user','bot')),
		text     TEXT NOT NULL,
		PRIMARY KEY (username, seq)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_chat_turns_username ON chat_turns(username)`,

	`CREATE TABLE IF NOT EXISTS user_themes (
		username   TEXT PRIMARY KEY,
		theme_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}
