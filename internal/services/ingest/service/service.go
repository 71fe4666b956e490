// Package service drains Horizon offer pages into storage
package service

import (
	"context"
	"time"

	"sdexindex/internal/adapters/ingest/horizon"
	"sdexindex/internal/core/asset"
	"sdexindex/internal/core/offer"
	"sdexindex/internal/modkit/repokit"
	perr "sdexindex/internal/platform/errors"
	"sdexindex/internal/platform/logger"
	"sdexindex/internal/services/ingest/domain"
	"sdexindex/internal/services/ingest/guardrails"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Config holds the driver tuning
type Config struct {
	// PageLimit is the Horizon page size, clamped to 1..horizon.MaxLimit
	PageLimit uint32
	// PollInterval is the wait between drains in Run
	PollInterval time.Duration
	// MaxPages caps one drain, 0 is unlimited
	MaxPages int
	// RPS paces Horizon requests, <=0 disables pacing
	RPS float64
	// AssetCache is the number of asset ids kept in memory
	AssetCache int

	Retry    RetryPolicy
	Timeouts guardrails.Timeouts
}

// Service implements domain.RunnerPort and domain.StatusPort
type Service struct {
	// DB runs page transactions; module wiring adds the lease and statement timeout hooks
	DB repokit.TxRunner
	// RO serves status reads outside any tx
	RO        repokit.Queryer
	Binder    repokit.Binder[domain.StorageRepo]
	Fetch     domain.Fetcher
	Snapshots domain.SnapshotSink // nil when clickhouse is off
	Cfg       Config

	limiter *rate.Limiter
	assets  *lru.Cache[asset.Key, int64]
	now     func() time.Time
}

var (
	_ domain.RunnerPort = (*Service)(nil)
	_ domain.StatusPort = (*Service)(nil)
)

// New constructs the ingest service
func New(
	db repokit.TxRunner,
	ro repokit.Queryer,
	binder repokit.Binder[domain.StorageRepo],
	f domain.Fetcher,
	snaps domain.SnapshotSink,
	cfg Config,
) *Service {
	if db == nil {
		panic("ingest.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("ingest.Service requires a non nil Repo binder")
	}
	if f == nil {
		panic("ingest.Service requires a non nil Fetcher")
	}
	if ro == nil {
		ro = db
	}
	if cfg.PageLimit == 0 || cfg.PageLimit > horizon.MaxLimit {
		cfg.PageLimit = horizon.MaxLimit
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.AssetCache <= 0 {
		cfg.AssetCache = 4096
	}
	cfg.Retry = cfg.Retry.withDefaults()

	lim := rate.NewLimiter(rate.Inf, 1)
	if cfg.RPS > 0 {
		lim = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}
	cache, err := lru.New[asset.Key, int64](cfg.AssetCache)
	if err != nil {
		panic(err)
	}
	return &Service{
		DB: db, RO: ro, Binder: binder,
		Fetch: f, Snapshots: snaps,
		Cfg:     cfg,
		limiter: lim,
		assets:  cache,
		now:     time.Now,
	}
}

// Status implements domain.StatusPort
func (s *Service) Status(ctx context.Context) (domain.Status, error) {
	return s.Binder.Bind(s.RO).Status(ctx, domain.Stream)
}

// Run drains on every tick until ctx is done; tick failures are logged, never fatal
func (s *Service) Run(ctx context.Context) error {
	log := logger.Named("ingest")
	log.Info().
		Dur("poll_interval", s.Cfg.PollInterval).
		Uint32("page_limit", s.Cfg.PageLimit).
		Bool("snapshots", s.Snapshots != nil).
		Msg("ingest loop started")

	t := time.NewTicker(s.Cfg.PollInterval)
	defer t.Stop()
	for {
		rep, err := s.RunOnce(ctx)
		if ctx.Err() != nil {
			log.Info().Msg("ingest loop stopped")
			return nil
		}
		if err != nil {
			log.Error().
				Err(err).
				Str("run_id", rep.RunID.String()).
				Str("cursor", rep.Cursor).
				Str("code", perr.CodeOf(err).String()).
				Bool("retryable", perr.Retryable(err)).
				Msg("ingest tick failed")
		}
		// a capped drain with pages left goes again without waiting
		if err == nil && rep.More {
			continue
		}
		select {
		case <-ctx.Done():
			log.Info().Msg("ingest loop stopped")
			return nil
		case <-t.C:
		}
	}
}

// RunOnce drains pages from the stored cursor until Horizon runs dry or MaxPages is hit
func (s *Service) RunOnce(ctx context.Context) (domain.Report, error) {
	rep := domain.Report{RunID: uuid.New()}
	ctx = logger.WithRun(ctx, rep.RunID.String())
	log := logger.C(ctx).With().Str("component", "ingest").Logger()
	start := s.now()

	cursor, err := s.loadCursor(ctx)
	if err != nil {
		if guardrails.IsLeaseHeld(err) {
			log.Debug().Msg("lease held elsewhere; skipping tick")
			rep.Skipped = true
			return finish(rep, start, s.now()), nil
		}
		return finish(rep, start, s.now()), err
	}
	rep.Cursor = cursor

	for s.Cfg.MaxPages <= 0 || rep.Pages < s.Cfg.MaxPages {
		pageCtx, cancel := guardrails.WithPage(ctx, s.Cfg.Timeouts)
		next, more, n, err := s.drainPage(pageCtx, cursor, &rep)
		cancel()
		if err != nil {
			if guardrails.IsLeaseHeld(err) {
				log.Debug().Msg("lease lost to another indexer; ending tick")
				rep.Skipped = true
				return finish(rep, start, s.now()), nil
			}
			return finish(rep, start, s.now()), err
		}
		if n == 0 {
			break
		}
		cursor = next
		rep.Cursor = next
		if !more {
			break
		}
		if s.Cfg.MaxPages > 0 && rep.Pages >= s.Cfg.MaxPages {
			rep.More = true
		}
	}

	log.Info().
		Int("pages", rep.Pages).
		Int("fetched", rep.Fetched).
		Int("accepted", rep.Accepted).
		Int("rejected", rep.Rejected).
		Str("cursor", rep.Cursor).
		Msg("drain complete")
	return finish(rep, start, s.now()), nil
}

// drainPage fetches one page after cursor and commits it
// n is the number of records on the page, zero means the stream is caught up
func (s *Service) drainPage(ctx context.Context, cursor string, rep *domain.Report) (next string, more bool, n int, err error) {
	page, err := s.fetchPage(ctx, cursor)
	if err != nil {
		return "", false, 0, err
	}
	recs := page.Records()
	rep.Pages++
	rep.Fetched += len(recs)
	if len(recs) == 0 {
		return cursor, false, 0, nil
	}

	next, more = page.NextCursor()
	if !more {
		// no next link; resume after the last record that carries a paging token
		next = lastToken(recs, cursor)
	}

	offers, errs := offer.FromRecords(horizon.RawRecords(recs))
	b := domain.Batch{
		RunID:      rep.RunID,
		ObservedAt: s.now().UTC(),
		Offers:     offers,
	}
	log := logger.C(ctx)
	for _, e := range errs {
		rj := domain.RejectionFrom(e)
		log.Warn().
			Str("raw_id", rj.RawID).
			Str("kind", rj.Kind).
			Str("field", rj.Field).
			Err(e).
			Msg("offer rejected")
		b.Rejections = append(b.Rejections, rj)
	}

	if err := s.commit(ctx, cursor, next, b); err != nil {
		return "", false, 0, err
	}
	rep.Accepted += len(offers)
	rep.Rejected += len(errs)
	return next, more, len(recs), nil
}

// commit writes the batch and moves the cursor in one postgres tx
// the clickhouse append runs alongside the postgres writes and is not rolled back,
// so a replayed page can leave duplicate snapshot rows
func (s *Service) commit(ctx context.Context, from, to string, b domain.Batch) error {
	ids, err := s.assetIDs(ctx, domain.Keys(b.Offers))
	if err != nil {
		return err
	}

	dbCtx, cancel := guardrails.ForDB(ctx, s.Cfg.Timeouts)
	defer cancel()
	return s.DB.Tx(dbCtx, func(q repokit.Queryer) error {
		repo := s.Binder.Bind(q)

		g, gctx := errgroup.WithContext(dbCtx)
		g.Go(func() error {
			if _, err := repo.UpsertOffers(gctx, b, ids); err != nil {
				return err
			}
			return repo.InsertRejections(gctx, b)
		})
		if s.Snapshots != nil {
			g.Go(func() error { return s.Snapshots.AppendSnapshots(gctx, b) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
		return repo.AdvanceCursor(dbCtx, domain.Stream, from, to)
	})
}

func (s *Service) loadCursor(ctx context.Context) (string, error) {
	var cur string
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		c, err := s.Binder.Bind(q).LoadCursor(ctx, domain.Stream)
		cur = c
		return err
	})
	return cur, err
}

// assetIDs serves ids from the cache and resolves the rest in a short tx
// the cache is only filled after that tx commits so it never holds rolled back ids
func (s *Service) assetIDs(ctx context.Context, keys []asset.Key) (map[asset.Key]int64, error) {
	out := make(map[asset.Key]int64, len(keys))
	var missing []asset.Key
	for _, k := range keys {
		if id, ok := s.assets.Get(k); ok {
			out[k] = id
			continue
		}
		missing = append(missing, k)
	}
	if len(missing) == 0 {
		return out, nil
	}

	var got map[asset.Key]int64
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		m, err := s.Binder.Bind(q).EnsureAssets(ctx, missing)
		got = m
		return err
	})
	if err != nil {
		return nil, err
	}
	for k, id := range got {
		s.assets.Add(k, id)
		out[k] = id
	}
	return out, nil
}

// lastToken returns the newest non empty paging token, or fallback when none has one
func lastToken(recs []horizon.OfferRecord, fallback string) string {
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].PagingToken != "" {
			return recs[i].PagingToken
		}
	}
	return fallback
}

func finish(rep domain.Report, start, end time.Time) domain.Report {
	rep.Elapsed = end.Sub(start)
	return rep
}
