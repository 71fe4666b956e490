// Package service contains offer read workflows
package service

import (
	"context"
	"strconv"
	"time"

	"sdexindex/internal/core/asset"
	"sdexindex/internal/modkit/repokit"
	perr "sdexindex/internal/platform/errors"
	"sdexindex/internal/services/api/offers/domain"
	"sdexindex/internal/services/api/offers/repo"

	"github.com/shopspring/decimal"
)

// Service defines the offers service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the offers service
type Svc struct {
	Repo repo.Repo
}

// New constructs an offers service, binding the repo to db once
func New(db repokit.Queryer, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("offers.Service requires a non nil Queryer")
	}
	if binder == nil {
		panic("offers.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db)}
}

// List returns one keyset page of offers after in.After
func (s *Svc) List(ctx context.Context, in domain.ListInput) (domain.ListResult, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = domain.DefaultLimit
	}
	f := repo.Filter{Seller: in.Seller, After: in.After, Limit: limit + 1}

	var err error
	if f.Selling, err = keyParam("selling", in.Selling); err != nil {
		return domain.ListResult{}, err
	}
	if f.Buying, err = keyParam("buying", in.Buying); err != nil {
		return domain.ListResult{}, err
	}

	rows, err := s.Repo.List(ctx, f)
	if err != nil {
		return domain.ListResult{}, err
	}

	out := domain.ListResult{Items: make([]domain.Offer, 0, min(len(rows), limit)), Limit: limit}
	// the extra row only proves there is a next page
	if len(rows) > limit {
		rows = rows[:limit]
		out.Next = strconv.FormatUint(rows[len(rows)-1].ID, 10)
	}
	for _, r := range rows {
		out.Items = append(out.Items, toOffer(r))
	}
	return out, nil
}

// Get returns one offer by id
func (s *Svc) Get(ctx context.Context, id string) (domain.Offer, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return domain.Offer{}, perr.WithField(perr.Validationf("id must be a non negative integer"), "id")
	}
	r, err := s.Repo.Get(ctx, n)
	if err != nil {
		return domain.Offer{}, err
	}
	return toOffer(r), nil
}

func keyParam(field, v string) (*asset.Key, error) {
	if v == "" {
		return nil, nil
	}
	a, err := asset.FromString(v)
	if err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeValidation, "%s must be native or CODE:ISSUER", field), field)
	}
	k := asset.KeyOf(a)
	return &k, nil
}

func toOffer(r repo.Row) domain.Offer {
	return domain.Offer{
		ID:                 strconv.FormatUint(r.ID, 10),
		PagingToken:        r.PagingToken,
		Seller:             r.Seller,
		Selling:            keyString(r.Selling),
		Buying:             keyString(r.Buying),
		Amount:             trimDecimal(r.Amount),
		Price:              trimDecimal(r.Price),
		PriceR:             domain.PriceR{N: r.PriceN, D: r.PriceD},
		LastModifiedLedger: r.LastModifiedLedger,
		LastSeenAt:         r.LastSeenAt.UTC().Format(time.RFC3339),
	}
}

func keyString(k asset.Key) string {
	a, err := asset.FromKey(k)
	if err != nil {
		return string(k.Type)
	}
	return a.String()
}

// trimDecimal drops the trailing zeros postgres numeric keeps from the input scale
func trimDecimal(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d.String()
}
