package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// TxFunc is the body of a unit of work.
type TxFunc func(ctx context.Context, tx DBTX) error

// UnitOfWork runs fn inside one transaction. A returned error or a panic
// rolls everything back.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork implements UnitOfWork with database/sql transactions.
type SQLiteUnitOfWork struct {
	conn *sql.DB
}

func NewSQLiteUnitOfWork(conn *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{conn: conn}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	return Finish(tx, TxFunc(fn).run(ctx, tx))
}

// run calls f, turning a panic into a rollback before re-panicking.
func (f TxFunc) run(ctx context.Context, tx *sql.Tx) (err error) {
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	return f(ctx, tx)
}

// Finish commits tx when fnErr is nil and rolls it back otherwise. A failed
// rollback is joined to fnErr.
func Finish(tx *sql.Tx, fnErr error) error {
	if fnErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(fnErr, fmt.Errorf("rolling back: %w", rbErr))
		}
		return fnErr
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
