package repo

import (
	"context"

	"sdexindex/internal/modkit/repokit"
	"sdexindex/internal/services/ingest/domain"
)

const snapshotsTable = "offer_snapshots"

var snapshotColumns = []string{
	"observed_at", "run_id", "offer_id", "seller", "selling", "buying",
	"amount", "price", "price_n", "price_d", "last_modified_ledger",
}

// CH appends offer history to clickhouse
type CH struct{ ch repokit.Clickhouse }

// NewCH returns a snapshot sink, or nil when clickhouse is disabled
func NewCH(ch repokit.Clickhouse) domain.SnapshotSink {
	if ch == nil {
		return nil
	}
	return CH{ch: ch}
}

// AppendSnapshots writes one row per accepted offer
func (c CH) AppendSnapshots(ctx context.Context, b domain.Batch) error {
	if len(b.Offers) == 0 {
		return nil
	}
	observed := b.ObservedAt.UTC()
	rows := make([][]any, 0, len(b.Offers))
	for _, o := range b.Offers {
		rows = append(rows, []any{
			observed,
			b.RunID,
			o.ID,
			o.Seller,
			o.Selling.String(),
			o.Buying.String(),
			o.AmountDecimal(),
			o.PriceDecimal(),
			o.PriceN,
			o.PriceD,
			o.LastModifiedLedger,
		})
	}
	return c.ch.Insert(ctx, snapshotsTable, snapshotColumns, rows)
}
