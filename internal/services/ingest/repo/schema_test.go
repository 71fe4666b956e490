package repo

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements_SplitAndTrim(t *testing.T) {
	t.Parallel()

	stmts, err := statements("schema/pg.sql")
	require.NoError(t, err)
	require.NotEmpty(t, stmts)
	for _, s := range stmts {
		assert.NotContains(t, s, ";")
		assert.Equal(t, strings.TrimSpace(s), s)
	}
}

func TestEnsureSchema_RunsBothBackends(t *testing.T) {
	t.Parallel()

	q := &fakeQ{}
	ch := &fakeCH{}
	require.NoError(t, EnsureSchema(context.Background(), q, ch))

	var sqls []string
	for _, s := range q.stmts {
		sqls = append(sqls, s.sql)
	}
	joined := strings.Join(sqls, "\n")
	for _, table := range []string{"assets", "offers", "offer_rejections", "ingest_cursor"} {
		assert.Contains(t, joined, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
	require.Len(t, ch.execs, 1)
	assert.Contains(t, ch.execs[0], "offer_snapshots")
}

func TestEnsureSchema_NilBackendsSkip(t *testing.T) {
	t.Parallel()
	require.NoError(t, EnsureSchema(context.Background(), nil, nil))
}
