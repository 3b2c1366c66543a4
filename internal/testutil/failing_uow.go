package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/agrobot/internal/db"
)

// FailOnNthExecUoW injects Err on the FailOn-th write inside a transaction
// so tests can check that a half-written transcript never becomes visible.
// Writes are counted from 1 across the whole unit of work; reads pass
// through.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	execs atomic.Int32
}

// Execs reports how many writes the last unit of work attempted.
func (u *FailOnNthExecUoW) Execs() int32 {
	return u.execs.Load()
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	u.execs.Store(0)
	return db.Finish(tx, fn(ctx, &countingTx{DBTX: tx, uow: u}))
}

type countingTx struct {
	db.DBTX
	uow *FailOnNthExecUoW
}

func (c *countingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if c.uow.execs.Add(1) == c.uow.FailOn {
		return nil, c.uow.Err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
