package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"sdexindex/internal/adapters/ingest/horizon"
	"sdexindex/internal/core/asset"
	"sdexindex/internal/modkit/repokit"
	"sdexindex/internal/platform/store"
	"sdexindex/internal/services/ingest/domain"
)

const seller = "GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVN"

// record builds a valid offer record; pass id "bad" for one FromRaw rejects
func record(id string) horizon.OfferRecord {
	return horizon.OfferRecord{
		ID:          id,
		PagingToken: id,
		Seller:      seller,
		Selling:     json.RawMessage(`{"asset_type":"native"}`),
		Buying: json.RawMessage(`{"asset_type":"credit_alphanum4","asset_code":"USDC","asset_issuer":"` +
			seller + `"}`),
		Amount: "5",
		Price:  "0.5",
		PriceR: &horizon.PriceR{N: 1, D: 2},
	}
}

func page(next string, recs ...horizon.OfferRecord) horizon.OffersPage {
	p := horizon.OffersPage{Embedded: &horizon.Embedded[horizon.OfferRecord]{Records: recs}}
	if next != "" {
		p.Links = &horizon.Links{Next: &horizon.Link{Href: "https://horizon.test/offers?cursor=" + next + "&limit=200&order=asc"}}
	}
	return p
}

type fetchCall struct {
	limit  uint32
	cursor string
}

// fakeFetcher replays scripted pages and errors in order
type fakeFetcher struct {
	mu      sync.Mutex
	pages   []horizon.OffersPage
	errs    []error
	calls   []fetchCall
	pageIdx int
}

func (f *fakeFetcher) FetchOffers(_ context.Context, limit uint32, cursor string) (horizon.OffersPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fetchCall{limit, cursor})
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return horizon.OffersPage{}, err
		}
	}
	if f.pageIdx >= len(f.pages) {
		return page(""), nil
	}
	p := f.pages[f.pageIdx]
	f.pageIdx++
	return p, nil
}

// memStore is an in memory StorageRepo with tx staging
type memStore struct {
	mu         sync.Mutex
	cursor     string
	offers     map[uint64]string
	rejections []domain.Rejection
	assets     map[asset.Key]int64
	ensures    int

	upsertErr error
	moved     bool
}

func newMemStore() *memStore {
	return &memStore{offers: map[uint64]string{}, assets: map[asset.Key]int64{}}
}

type memRepo struct{ s *memStore }

func (r memRepo) LoadCursor(context.Context, string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.cursor, nil
}

func (r memRepo) AdvanceCursor(_ context.Context, _ string, from, to string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.moved || r.s.cursor != from {
		return domain.ErrCursorMoved
	}
	r.s.cursor = to
	return nil
}

func (r memRepo) EnsureAssets(_ context.Context, keys []asset.Key) (map[asset.Key]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ensures++
	out := map[asset.Key]int64{}
	for _, k := range keys {
		id, ok := r.s.assets[k]
		if !ok {
			id = int64(len(r.s.assets) + 1)
			r.s.assets[k] = id
		}
		out[k] = id
	}
	return out, nil
}

func (r memRepo) UpsertOffers(_ context.Context, b domain.Batch, ids map[asset.Key]int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.upsertErr != nil {
		return 0, r.s.upsertErr
	}
	for _, o := range b.Offers {
		s, bk := o.Pair()
		r.s.offers[o.ID] = fmt.Sprintf("%d/%d", ids[s], ids[bk])
	}
	return len(b.Offers), nil
}

func (r memRepo) InsertRejections(_ context.Context, b domain.Batch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rejections = append(r.s.rejections, b.Rejections...)
	return nil
}

func (r memRepo) Status(context.Context, string) (domain.Status, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return domain.Status{
		Stream: domain.Stream, Cursor: r.s.cursor,
		Offers: int64(len(r.s.offers)), Assets: int64(len(r.s.assets)), Rejections: int64(len(r.s.rejections)),
	}, nil
}

// fakeTx runs fn directly; failOn makes the nth Tx call return err without running fn
type fakeTx struct {
	mu     sync.Mutex
	calls  int
	failOn map[int]error
}

func (f *fakeTx) Tx(_ context.Context, fn func(q repokit.Queryer) error) error {
	f.mu.Lock()
	f.calls++
	err := f.failOn[f.calls]
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return fn(nil)
}

func (f *fakeTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (f *fakeTx) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (f *fakeTx) QueryRow(context.Context, string, ...any) store.Row             { return nil }

type fakeSink struct {
	mu      sync.Mutex
	batches []domain.Batch
	err     error
}

func (f *fakeSink) AppendSnapshots(_ context.Context, b domain.Batch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, b)
	return nil
}

func binderFor(s *memStore) repokit.Binder[domain.StorageRepo] {
	return repokit.BindFunc[domain.StorageRepo](func(repokit.Queryer) domain.StorageRepo { return memRepo{s: s} })
}
