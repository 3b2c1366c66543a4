package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/agrobot/internal/db"
)

// NewTestDB returns a migrated in-memory database closed at test end.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}
