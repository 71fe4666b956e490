// Package repo provides postgres access for offer reads
package repo

import (
	"context"
	"strconv"
	"time"

	"sdexindex/internal/core/asset"
	"sdexindex/internal/modkit/repokit"
	perr "sdexindex/internal/platform/errors"
	"sdexindex/internal/platform/store"
)

// Repo is the minimal persistence surface for offer reads
type Repo interface {
	List(ctx context.Context, f Filter) ([]Row, error)
	Get(ctx context.Context, id uint64) (Row, error)
}

// Filter narrows List; nil assets and an empty seller match everything
type Filter struct {
	Selling *asset.Key
	Buying  *asset.Key
	Seller  string
	After   uint64
	Limit   int
}

// Row is one offer joined to both of its assets
type Row struct {
	ID                 uint64
	PagingToken        string
	Seller             string
	Selling            asset.Key
	Buying             asset.Key
	Amount             string
	Price              string
	PriceN             int32
	PriceD             int32
	LastModifiedLedger int64
	LastSeenAt         time.Time
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const selectOffer = `
select o.id::text, o.paging_token, o.seller,
	sa.asset_type, sa.code, sa.issuer,
	ba.asset_type, ba.code, ba.issuer,
	o.amount::text, o.price::text, o.price_n, o.price_d,
	o.last_modified_ledger, o.last_seen_at
from offers o
join assets sa on sa.id = o.selling_asset_id
join assets ba on ba.id = o.buying_asset_id
`

func (r *queries) List(ctx context.Context, f Filter) ([]Row, error) {
	sell, buy := keyArgs(f.Selling), keyArgs(f.Buying)
	const sql = selectOffer + `
where o.id > $1::numeric
and ($2 = '' or (sa.asset_type = $2 and sa.code = $3 and sa.issuer = $4))
and ($5 = '' or (ba.asset_type = $5 and ba.code = $6 and ba.issuer = $7))
and ($8 = '' or o.seller = $8)
order by o.id asc
limit $9
`
	rows, err := store.Many(ctx, r.q, scanRow, sql,
		strconv.FormatUint(f.After, 10),
		sell[0], sell[1], sell[2],
		buy[0], buy[1], buy[2],
		f.Seller, f.Limit,
	)
	if err != nil {
		return nil, perr.FromPostgres(err, "list offers")
	}
	return rows, nil
}

func (r *queries) Get(ctx context.Context, id uint64) (Row, error) {
	row, err := store.One(ctx, r.q, scanRow, selectOffer+`where o.id = $1::numeric`, strconv.FormatUint(id, 10))
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return Row{}, perr.NotFoundf("offer %d not found", id)
		}
		return Row{}, perr.FromPostgres(err, "get offer")
	}
	return row, nil
}

// keyArgs flattens an optional key into type, code, issuer; all empty when k is nil
func keyArgs(k *asset.Key) [3]string {
	if k == nil {
		return [3]string{}
	}
	return [3]string{string(k.Type), k.Code, k.Issuer}
}

func scanRow(s store.Row) (Row, error) {
	var (
		rr       Row
		id       string
		sellType string
		buyType  string
	)
	err := s.Scan(
		&id, &rr.PagingToken, &rr.Seller,
		&sellType, &rr.Selling.Code, &rr.Selling.Issuer,
		&buyType, &rr.Buying.Code, &rr.Buying.Issuer,
		&rr.Amount, &rr.Price, &rr.PriceN, &rr.PriceD,
		&rr.LastModifiedLedger, &rr.LastSeenAt,
	)
	if err != nil {
		return Row{}, err
	}
	if rr.ID, err = strconv.ParseUint(id, 10, 64); err != nil {
		return Row{}, err
	}
	rr.Selling.Type = asset.Type(sellType)
	rr.Buying.Type = asset.Type(buyType)
	return rr, nil
}
