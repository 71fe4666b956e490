package guardrails

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaseKey_StablePerStream(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LeaseKey("offers"), LeaseKey("offers"))
	assert.NotEqual(t, LeaseKey("offers"), LeaseKey("trades"))
}

func TestLeaseHooks(t *testing.T) {
	t.Parallel()

	assert.Empty(t, LeaseHooks("offers", false))
	assert.Len(t, LeaseHooks("offers", true), 1)
}

func TestIsLeaseHeld_Wrapped(t *testing.T) {
	t.Parallel()

	assert.True(t, IsLeaseHeld(fmt.Errorf("tx: %w", ErrLeaseHeld)))
	assert.False(t, IsLeaseHeld(context.Canceled))
}

func TestWithPage_ZeroInheritsParent(t *testing.T) {
	t.Parallel()

	ctx, cancel := WithPage(context.Background(), Timeouts{})
	defer cancel()
	_, ok := ctx.Deadline()
	assert.False(t, ok)
}

func TestForFetch_NeverExtendsParent(t *testing.T) {
	t.Parallel()

	parent, pcancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer pcancel()

	ctx, cancel := ForFetch(parent, Timeouts{Fetch: time.Hour})
	defer cancel()

	dl, ok := ctx.Deadline()
	require.True(t, ok)
	assert.LessOrEqual(t, time.Until(dl), 50*time.Millisecond)
}

func TestForDB_TighterThanParent(t *testing.T) {
	t.Parallel()

	parent, pcancel := context.WithTimeout(context.Background(), time.Hour)
	defer pcancel()

	ctx, cancel := ForDB(parent, Timeouts{DB: time.Second})
	defer cancel()

	assert.LessOrEqual(t, Remaining(ctx), time.Second)
	assert.Zero(t, Remaining(context.Background()))
}
