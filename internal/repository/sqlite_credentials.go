package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/agrobot/internal/db"
)

// SQLiteCredentialRepo implements CredentialRepo on the users table.
type SQLiteCredentialRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteCredentialRepo creates a new SQLiteCredentialRepo.
func NewSQLiteCredentialRepo(conn *sql.DB) *SQLiteCredentialRepo {
	return &SQLiteCredentialRepo{db: conn, uow: db.NewSQLiteUnitOfWork(conn)}
}

func (r *SQLiteCredentialRepo) Load(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT username, password_hash FROM users`)
	if err != nil {
		return map[string]string{}, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	users := map[string]string{}
	for rows.Next() {
		var name, hash string
		if err := rows.Scan(&name, &hash); err != nil {
			return map[string]string{}, fmt.Errorf("scanning user: %w", err)
		}
		users[name] = hash
	}
	if err := rows.Err(); err != nil {
		return map[string]string{}, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// Save upserts every entry in one transaction. Accounts are never deleted,
// so rows missing from users are left alone.
func (r *SQLiteCredentialRepo) Save(ctx context.Context, users map[string]string) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		now := nowUTC()
		for name, hash := range users {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)
				 ON CONFLICT(username) DO UPDATE SET password_hash = excluded.password_hash`,
				name, hash, now)
			if err != nil {
				return fmt.Errorf("saving user %s: %w", name, err)
			}
		}
		return nil
	})
}
