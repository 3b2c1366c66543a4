package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/agrobot/internal/db"
	"github.com/alexanderramin/agrobot/internal/domain"
)

// SQLiteHistoryRepo implements HistoryRepo on the chat_turns table, one row
// per turn ordered by seq.
type SQLiteHistoryRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteHistoryRepo creates a new SQLiteHistoryRepo.
func NewSQLiteHistoryRepo(conn *sql.DB) *SQLiteHistoryRepo {
	return &SQLiteHistoryRepo{db: conn, uow: db.NewSQLiteUnitOfWork(conn)}
}

// NewSQLiteHistoryRepoWithUoW lets tests inject a failing unit of work.
func NewSQLiteHistoryRepoWithUoW(conn db.DBTX, uow db.UnitOfWork) *SQLiteHistoryRepo {
	return &SQLiteHistoryRepo{db: conn, uow: uow}
}

func (r *SQLiteHistoryRepo) Load(ctx context.Context, username string) ([]domain.Turn, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT speaker, text FROM chat_turns WHERE username = ? ORDER BY seq`, username)
	if err != nil {
		return nil, fmt.Errorf("querying history for %s: %w", username, err)
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var speaker, text string
		if err := rows.Scan(&speaker, &text); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		sp := domain.Speaker(speaker)
		if !sp.Valid() {
			return nil, fmt.Errorf("history for %s: speaker %q: %w", username, speaker, ErrMalformed)
		}
		turns = append(turns, domain.Turn{Speaker: sp, Text: text})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return turns, nil
}

// Save rewrites the whole transcript: the user's rows are deleted and
// reinserted in one transaction.
func (r *SQLiteHistoryRepo) Save(ctx context.Context, username string, turns []domain.Turn) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chat_turns WHERE username = ?`, username); err != nil {
			return fmt.Errorf("clearing history for %s: %w", username, err)
		}
		for i, t := range turns {
			if !t.Speaker.Valid() {
				return fmt.Errorf("saving turn %d: unknown speaker %q", i, t.Speaker)
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO chat_turns (username, seq, speaker, text) VALUES (?, ?, ?, ?)`,
				username, i, string(t.Speaker), t.Text)
			if err != nil {
				return fmt.Errorf("inserting turn %d: %w", i, err)
			}
		}
		return nil
	})
}
