package service

import (
	"context"
	"time"

	"sdexindex/internal/adapters/ingest/horizon"
	perr "sdexindex/internal/platform/errors"
	"sdexindex/internal/platform/logger"
	"sdexindex/internal/services/ingest/guardrails"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds retries of one page fetch on the same cursor
type RetryPolicy struct {
	Initial    time.Duration
	Max        time.Duration
	MaxRetries uint64
	MaxElapsed time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Initial <= 0 {
		p.Initial = 500 * time.Millisecond
	}
	if p.Max <= 0 {
		p.Max = 30 * time.Second
	}
	if p.MaxElapsed <= 0 {
		p.MaxElapsed = time.Minute
	}
	return p
}

// retryAfter lets a server Retry-After stretch the next interval
type retryAfter struct {
	backoff.BackOff
	hint time.Duration
}

func (r *retryAfter) NextBackOff() time.Duration {
	d := r.BackOff.NextBackOff()
	if d == backoff.Stop {
		return d
	}
	if r.hint > d {
		d = r.hint
	}
	r.hint = 0
	return d
}

func (s *Service) newBackOff(ctx context.Context) (backoff.BackOff, *retryAfter) {
	p := s.Cfg.Retry
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.Initial
	eb.MaxInterval = p.Max
	eb.MaxElapsedTime = p.MaxElapsed
	eb.Reset()

	var b backoff.BackOff = eb
	if p.MaxRetries > 0 {
		b = backoff.WithMaxRetries(b, p.MaxRetries)
	}
	ra := &retryAfter{BackOff: b}
	return backoff.WithContext(ra, ctx), ra
}

// fetchPage gets one page, retrying transport errors, 429 and 5xx on the same cursor
func (s *Service) fetchPage(ctx context.Context, cursor string) (horizon.OffersPage, error) {
	fctx, cancel := guardrails.ForFetch(ctx, s.Cfg.Timeouts)
	defer cancel()

	b, ra := s.newBackOff(fctx)
	log := logger.C(ctx)
	var page horizon.OffersPage
	attempt := 0

	op := func() error {
		attempt++
		if err := s.limiter.Wait(fctx); err != nil {
			return backoff.Permanent(err)
		}
		p, err := s.Fetch.FetchOffers(fctx, s.Cfg.PageLimit, cursor)
		if err != nil {
			if !horizon.Retryable(err) {
				return backoff.Permanent(err)
			}
			if fe, ok := horizon.AsFetchError(err); ok {
				ra.hint = fe.RetryAfter
			}
			return err
		}
		page = p
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("wait", wait).
			Str("cursor", cursor).
			Bool("rate_limited", horizon.IsRateLimited(err)).
			Msg("horizon fetch failed; retrying")
	}
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return horizon.OffersPage{}, upstream(err)
	}
	return page, nil
}

// upstream tags a final Horizon failure with a perr code; context and limiter errors pass through
func upstream(err error) error {
	fe, ok := horizon.AsFetchError(err)
	if !ok {
		return err
	}
	code := perr.ErrorCodeUpstream
	if fe.Kind == horizon.FetchDecode {
		code = perr.ErrorCodeDecode
	}
	return perr.WithOp(perr.Wrap(err, code, "fetch offers"), "ingest.fetch")
}
