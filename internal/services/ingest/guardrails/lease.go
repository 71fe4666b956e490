// Package guardrails holds cross cutting safety helpers for the ingest driver
package guardrails

import (
	"errors"
	"hash/fnv"

	"sdexindex/internal/modkit/repokit"
)

// ErrLeaseHeld signals another indexer is draining the stream
var ErrLeaseHeld = repokit.ErrLockNotAcquired

// LeaseKey derives a stable advisory lock key for a stream
func LeaseKey(stream string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("sdexindex:" + stream))
	return int64(h.Sum64())
}

// LeaseHooks returns the begin hooks that gate every ingest tx on the stream lease
// the lock is transaction scoped so a pooled connection never keeps it
func LeaseHooks(stream string, enabled bool) []repokit.BeginHook {
	if !enabled {
		return nil
	}
	return []repokit.BeginHook{repokit.TryAdvisoryXactLock(LeaseKey(stream))}
}

// IsLeaseHeld reports lease contention
func IsLeaseHeld(err error) bool { return errors.Is(err, ErrLeaseHeld) }
