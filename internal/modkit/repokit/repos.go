// Package repokit holds the seams repositories are written against
package repokit

import "sdexindex/internal/platform/store"

// Queryer is what a repo method runs on, a pool or an open tx
type Queryer = store.RowQuerier

// TxRunner opens transactions; services hand the tx Queryer to bound repos
type TxRunner = store.TxRunner

// Clickhouse is the append surface for snapshot history
type Clickhouse = store.Clickhouse

// Binder binds a domain repo to one Queryer
// services bind once per transaction so every call shares the tx
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a constructor such as repo.NewPG into a Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }
