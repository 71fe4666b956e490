package repokit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrLockNotAcquired is returned by a TryAdvisoryXactLock hook when another session holds the key
var ErrLockNotAcquired = errors.New("repokit: advisory lock held elsewhere")

// BeginHook runs at the start of a transaction with the tx bound Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks wraps a TxRunner and runs hooks before fn inside the same tx
// Exec, Query and QueryRow outside a tx pass straight through
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	return hookedTx{TxRunner: inner, hooks: hooks}
}

type hookedTx struct {
	TxRunner
	hooks []BeginHook
}

// Tx starts a tx on inner then runs all hooks before fn
func (h hookedTx) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hk := range h.hooks {
			if err := hk(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

// StatementTimeout sets a per transaction statement timeout, zero disables the limit
func StatementTimeout(d time.Duration) BeginHook {
	stmt := fmt.Sprintf("SET LOCAL statement_timeout = %d", d.Milliseconds())
	return func(ctx context.Context, q Queryer) error {
		_, err := q.Exec(ctx, stmt)
		return err
	}
}

// TryAdvisoryXactLock takes pg_try_advisory_xact_lock(key) for the life of the tx
// and fails the tx with ErrLockNotAcquired when another session holds it
func TryAdvisoryXactLock(key int64) BeginHook {
	return func(ctx context.Context, q Queryer) error {
		var ok bool
		if err := q.QueryRow(ctx, "SELECT pg_try_advisory_xact_lock($1)", key).Scan(&ok); err != nil {
			return err
		}
		if !ok {
			return ErrLockNotAcquired
		}
		return nil
	}
}
