package guardrails

import (
	"context"
	"time"
)

// Timeouts is an optional budget bundle for a single page of work
// zero values mean no extra timeout at that level
type Timeouts struct {
	// Page is the overall budget for fetch plus write of one page
	Page time.Duration

	// Fetch caps a single Horizon request including its retries
	Fetch time.Duration

	// DB caps the storage transaction
	DB time.Duration
}

// WithPage returns a context limited by the page budget without extending any parent deadline
func WithPage(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Page)
}

// ForFetch returns a sub context for the fetch phase
func ForFetch(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Fetch)
}

// ForDB returns a sub context for the storage phase
func ForDB(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.DB)
}

// Remaining returns the time until the deadline on ctx or zero when none is set or already expired
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return 0
}

// withChildTimeout picks the tighter of d and the parent remainder, never extending the parent
func withChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
