package domain

import (
	"context"
	"errors"

	"sdexindex/internal/adapters/ingest/horizon"
	"sdexindex/internal/core/asset"
	"sdexindex/internal/core/offer"
)

// ErrCursorMoved means the stored cursor changed under this page's tx
var ErrCursorMoved = errors.New("ingest: cursor moved by another writer")

// RunnerPort is what the CLI drives
type RunnerPort interface {
	RunOnce(ctx context.Context) (Report, error)
	Run(ctx context.Context) error
}

// StatusPort is the read side other modules consume
type StatusPort interface {
	Status(ctx context.Context) (Status, error)
}

// Fetcher pulls one page of offers; horizon.Client satisfies it
type Fetcher interface {
	FetchOffers(ctx context.Context, limit uint32, cursor string) (horizon.OffersPage, error)
}

// StorageRepo is the postgres side, bound to one Queryer per tx
type StorageRepo interface {
	// LoadCursor returns the stored cursor or "" when the stream is new
	LoadCursor(ctx context.Context, stream string) (string, error)

	// AdvanceCursor moves from -> to and fails with ErrCursorMoved when from is stale
	AdvanceCursor(ctx context.Context, stream, from, to string) error

	// EnsureAssets returns ids for keys, inserting unknown assets
	EnsureAssets(ctx context.Context, keys []asset.Key) (map[asset.Key]int64, error)

	// UpsertOffers writes current offer state, idempotent on offer id
	UpsertOffers(ctx context.Context, b Batch, assetIDs map[asset.Key]int64) (int, error)

	// InsertRejections appends rejected records
	InsertRejections(ctx context.Context, b Batch) error

	// Status reads the cursor row and table counts
	Status(ctx context.Context, stream string) (Status, error)
}

// SnapshotSink appends accepted offers to the history store
type SnapshotSink interface {
	AppendSnapshots(ctx context.Context, b Batch) error
}

// Keys returns the distinct asset keys referenced by offers in first seen order
func Keys(offers []offer.Offer) []asset.Key {
	seen := make(map[asset.Key]struct{}, len(offers))
	var out []asset.Key
	for _, o := range offers {
		s, b := o.Pair()
		for _, k := range []asset.Key{s, b} {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}
