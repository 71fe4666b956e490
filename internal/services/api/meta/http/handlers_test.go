package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sdexindex/internal/modkit/httpkit"
	phttp "sdexindex/internal/platform/net/http"
	ingest "sdexindex/internal/services/ingest/domain"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type statusFn func(context.Context) (ingest.Status, error)

func (f statusFn) Status(ctx context.Context) (ingest.Status, error) { return f(ctx) }

var now = time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)

func serve(t *testing.T, d Deps, target string) (int, map[string]any) {
	t.Helper()
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	// same as Register but with a fixed clock
	h := &handlers{deps: d, now: func() time.Time { return now }}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/status", h.status)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, target, nil))

	var env struct {
		Data  map[string]any `json:"data"`
		Error string         `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if env.Data == nil {
		env.Data = map[string]any{"error": env.Error}
	}
	return rec.Code, env.Data
}

func TestRegister_MountsRoutes(t *testing.T) {
	t.Parallel()

	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), Deps{ServiceName: "sdex-api"})
	for _, p := range []string{"/health", "/ready", "/version", "/service"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, p, nil))
		assert.Equal(t, stdhttp.StatusOK, rec.Code, p)
	}
}

func TestHealthAndService(t *testing.T) {
	t.Parallel()

	d := Deps{ServiceName: "sdex-api", StartedAt: now.Add(-90 * time.Second)}
	code, body := serve(t, d, "/health")
	require.Equal(t, stdhttp.StatusOK, code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "2026-01-02T03:00:00Z", body["now"])

	_, body = serve(t, d, "/service")
	assert.InDelta(t, 90, body["uptime"], 0)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	_, body := serve(t, Deps{ServiceName: "sdex-api"}, "/version")
	assert.Equal(t, "sdex-api", body["service"])
	assert.Equal(t, "dev", body["version"])
}

func TestReady(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		pg   any
		ch   any
		want string
	}{
		{"pg only", pinger{}, nil, "ok"},
		{"both up", pinger{}, pinger{}, "ok"},
		{"pg down", pinger{err: errors.New("refused")}, nil, "fail"},
		{"ch down", pinger{}, pinger{err: errors.New("refused")}, "fail"},
		{"no pg", nil, nil, "degraded"},
		{"pg not a pinger", struct{}{}, nil, "degraded"},
	}
	for _, tc := range cases {
		_, body := serve(t, Deps{PG: tc.pg, CH: tc.ch}, "/ready")
		assert.Equal(t, tc.want, body["status"], tc.name)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	at := now.Add(-3 * time.Second)
	d := Deps{Status: statusFn(func(context.Context) (ingest.Status, error) {
		return ingest.Status{Stream: "offers", Cursor: "99", UpdatedAt: &at, Offers: 5, Assets: 2}, nil
	})}
	code, body := serve(t, d, "/status")
	require.Equal(t, stdhttp.StatusOK, code)
	assert.Equal(t, "99", body["cursor"])
	assert.InDelta(t, 5, body["offers"], 0)
	assert.InDelta(t, 3, body["lag_seconds"], 0)
}

func TestStatus_BeforeFirstPageHasNoLag(t *testing.T) {
	t.Parallel()

	d := Deps{Status: statusFn(func(context.Context) (ingest.Status, error) {
		return ingest.Status{Stream: "offers"}, nil
	})}
	_, body := serve(t, d, "/status")
	_, has := body["lag_seconds"]
	assert.False(t, has)
}

func TestStatus_Unwired(t *testing.T) {
	t.Parallel()

	code, _ := serve(t, Deps{}, "/status")
	assert.Equal(t, stdhttp.StatusServiceUnavailable, code)
}
