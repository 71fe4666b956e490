package repokit

import (
	"context"
	"fmt"
	"time"
)

// guardTimeout bounds MustGuard when ctx carries no deadline
var guardTimeout = 5 * time.Second

type guarder interface {
	Guard(context.Context) error
}

// MustGuard runs store.Guard and panics on any error, for process startup
func MustGuard(ctx context.Context, st guarder) {
	if st == nil {
		panic("repokit: nil store")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, guardTimeout)
		defer cancel()
	}
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
