package testutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/pcam/internal/db"
)

// ErrInjected is the default error returned by the failing wrappers.
var ErrInjected = errors.New("injected failure")

// FailOnNthExecUoW is a test UoW that injects an error on the Nth ExecContext
// call within a transaction, so multi-write operations can be checked for
// rollback at precise points.
//
// ExecContext calls are counted starting at 1. Reads pass through.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.err()}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

func (u *FailOnNthExecUoW) err() error {
	if u.Err != nil {
		return u.Err
	}
	return ErrInjected
}

type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := f.count.Add(1)
	if n == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// FailingDBTX wraps a connection and fails every ExecContext while Fail is
// set. Reads always pass through, so a store built on it keeps serving the
// data written before the failure was switched on.
type FailingDBTX struct {
	db.DBTX
	Fail  atomic.Bool
	Err   error
	Execs atomic.Int32
}

// NewFailingDBTX wraps conn with writes initially enabled.
func NewFailingDBTX(conn db.DBTX) *FailingDBTX {
	return &FailingDBTX{DBTX: conn}
}

func (f *FailingDBTX) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.Execs.Add(1)
	if f.Fail.Load() {
		if f.Err != nil {
			return nil, f.Err
		}
		return nil, ErrInjected
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
