// Package repo provides postgres and clickhouse access for offer ingestion
package repo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"sdexindex/internal/core/asset"
	"sdexindex/internal/modkit/repokit"
	perr "sdexindex/internal/platform/errors"
	"sdexindex/internal/platform/store"
	"sdexindex/internal/services/ingest/domain"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

// LoadCursor returns the stored cursor, "" for a new stream
func (r *queries) LoadCursor(ctx context.Context, stream string) (string, error) {
	cur, err := store.Scalar[string](ctx, r.q,
		`SELECT COALESCE((SELECT cursor FROM ingest_cursor WHERE stream = $1), '')`, stream)
	if err != nil {
		return "", perr.FromPostgres(err, "load cursor")
	}
	return cur, nil
}

// AdvanceCursor is a compare and set on the stored cursor
func (r *queries) AdvanceCursor(ctx context.Context, stream, from, to string) error {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO ingest_cursor (stream, cursor, updated_at)
		VALUES ($1, $3, now())
		ON CONFLICT (stream) DO UPDATE
		SET cursor = EXCLUDED.cursor, updated_at = now()
		WHERE ingest_cursor.cursor = $2
	`, stream, from, to)
	if err != nil {
		return perr.FromPostgres(err, "advance cursor")
	}
	if tag.RowsAffected() == 0 {
		return perr.Wrapf(domain.ErrCursorMoved, perr.ErrorCodeConflict, "cursor for %s is no longer %q", stream, from)
	}
	return nil
}

// EnsureAssets upserts keys and returns their ids
func (r *queries) EnsureAssets(ctx context.Context, keys []asset.Key) (map[asset.Key]int64, error) {
	out := make(map[asset.Key]int64, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	types := make([]string, len(keys))
	codes := make([]string, len(keys))
	issuers := make([]string, len(keys))
	for i, k := range keys {
		types[i], codes[i], issuers[i] = string(k.Type), k.Code, k.Issuer
	}

	// rows inserted by the CTE are invisible to the second SELECT, so no id repeats
	rows, err := r.q.Query(ctx, `
		WITH input AS (
			SELECT * FROM unnest($1::text[], $2::text[], $3::text[]) AS t(asset_type, code, issuer)
		), ins AS (
			INSERT INTO assets (asset_type, code, issuer)
			SELECT asset_type, code, issuer FROM input
			ON CONFLICT (asset_type, code, issuer) DO NOTHING
			RETURNING id, asset_type, code, issuer
		)
		SELECT id, asset_type, code, issuer FROM ins
		UNION ALL
		SELECT a.id, a.asset_type, a.code, a.issuer
		FROM assets a JOIN input i USING (asset_type, code, issuer)
	`, types, codes, issuers)
	if err != nil {
		return nil, perr.FromPostgres(err, "ensure assets")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  int64
			typ string
			k   asset.Key
		)
		if err := rows.Scan(&id, &typ, &k.Code, &k.Issuer); err != nil {
			return nil, perr.FromPostgres(err, "scan asset")
		}
		k.Type = asset.Type(typ)
		out[k] = id
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "ensure assets")
	}
	for _, k := range keys {
		if _, ok := out[k]; !ok {
			return nil, perr.Newf(perr.ErrorCodeUnknown, "asset %s:%s:%s has no id", k.Type, k.Code, k.Issuer)
		}
	}
	return out, nil
}

// UpsertOffers writes the batch in one statement; replaying a page is a no-op apart from last_seen_at
func (r *queries) UpsertOffers(ctx context.Context, b domain.Batch, ids map[asset.Key]int64) (int, error) {
	n := len(b.Offers)
	if n == 0 {
		return 0, nil
	}
	var (
		offerIDs = make([]string, n)
		tokens   = make([]string, n)
		sellers  = make([]string, n)
		selling  = make([]int64, n)
		buying   = make([]int64, n)
		amounts  = make([]string, n)
		prices   = make([]string, n)
		priceN   = make([]int32, n)
		priceD   = make([]int32, n)
		ledgers  = make([]int64, n)
	)
	for i, o := range b.Offers {
		sk, bk := o.Pair()
		sid, ok := ids[sk]
		if !ok {
			return 0, fmt.Errorf("upsert offers: no id for selling asset of offer %d", o.ID)
		}
		bid, ok := ids[bk]
		if !ok {
			return 0, fmt.Errorf("upsert offers: no id for buying asset of offer %d", o.ID)
		}
		offerIDs[i] = strconv.FormatUint(o.ID, 10)
		tokens[i] = o.PagingToken
		sellers[i] = o.Seller
		selling[i], buying[i] = sid, bid
		amounts[i] = o.AmountDecimal().String()
		prices[i] = o.PriceDecimal().String()
		priceN[i], priceD[i] = o.PriceN, o.PriceD
		ledgers[i] = int64(o.LastModifiedLedger)
	}

	tag, err := r.q.Exec(ctx, `
		INSERT INTO offers (
			id, paging_token, seller, selling_asset_id, buying_asset_id,
			amount, price, price_n, price_d, last_modified_ledger,
			last_run_id, first_seen_at, last_seen_at
		)
		SELECT
			u.id::numeric, u.token, u.seller, u.selling, u.buying,
			u.amount::numeric, u.price::numeric, u.pn, u.pd, u.ledger,
			$11, $12, $12
		FROM unnest(
			$1::text[], $2::text[], $3::text[], $4::bigint[], $5::bigint[],
			$6::text[], $7::text[], $8::int[], $9::int[], $10::bigint[]
		) AS u(id, token, seller, selling, buying, amount, price, pn, pd, ledger)
		ON CONFLICT (id) DO UPDATE SET
			paging_token = EXCLUDED.paging_token,
			seller = EXCLUDED.seller,
			selling_asset_id = EXCLUDED.selling_asset_id,
			buying_asset_id = EXCLUDED.buying_asset_id,
			amount = EXCLUDED.amount,
			price = EXCLUDED.price,
			price_n = EXCLUDED.price_n,
			price_d = EXCLUDED.price_d,
			last_modified_ledger = EXCLUDED.last_modified_ledger,
			last_run_id = EXCLUDED.last_run_id,
			last_seen_at = EXCLUDED.last_seen_at
	`, offerIDs, tokens, sellers, selling, buying, amounts, prices, priceN, priceD, ledgers,
		b.RunID, b.ObservedAt.UTC())
	if err != nil {
		return 0, perr.FromPostgres(err, "upsert offers")
	}
	return int(tag.RowsAffected()), nil
}

// InsertRejections appends the batch's rejected records
func (r *queries) InsertRejections(ctx context.Context, b domain.Batch) error {
	n := len(b.Rejections)
	if n == 0 {
		return nil
	}
	rawIDs := make([]string, n)
	kinds := make([]string, n)
	fields := make([]string, n)
	values := make([]string, n)
	reasons := make([]string, n)
	for i, rj := range b.Rejections {
		rawIDs[i], kinds[i], fields[i], values[i], reasons[i] = rj.RawID, rj.Kind, rj.Field, rj.Value, rj.Reason
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO offer_rejections (run_id, raw_id, kind, field, value, reason, observed_at)
		SELECT $6, u.raw_id, u.kind, u.field, u.value, u.reason, $7
		FROM unnest($1::text[], $2::text[], $3::text[], $4::text[], $5::text[])
			AS u(raw_id, kind, field, value, reason)
	`, rawIDs, kinds, fields, values, reasons, b.RunID, b.ObservedAt.UTC())
	if err != nil {
		return perr.FromPostgres(err, "insert rejections")
	}
	return nil
}

// Status reads the cursor row and table counts in one round trip
func (r *queries) Status(ctx context.Context, stream string) (domain.Status, error) {
	st := domain.Status{Stream: stream}
	var updated *time.Time
	err := r.q.QueryRow(ctx, `
		SELECT
			COALESCE(c.cursor, ''),
			c.updated_at,
			(SELECT count(*) FROM offers),
			(SELECT count(*) FROM assets),
			(SELECT count(*) FROM offer_rejections)
		FROM (SELECT $1::text AS stream) s
		LEFT JOIN ingest_cursor c ON c.stream = s.stream
	`, stream).Scan(&st.Cursor, &updated, &st.Offers, &st.Assets, &st.Rejections)
	if err != nil {
		return domain.Status{}, perr.FromPostgres(err, "ingest status")
	}
	st.UpdatedAt = updated
	return st, nil
}
