package module

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"sdexindex/internal/modkit"
	"sdexindex/internal/modkit/module"
	phttp "sdexindex/internal/platform/net/http"
	"sdexindex/internal/platform/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopPG struct{}

func (nopPG) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (nopPG) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (nopPG) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (nopPG) Tx(context.Context, func(store.RowQuerier) error) error         { return nil }

func TestNew_DefaultsAndOverrides(t *testing.T) {
	t.Parallel()

	m := New(modkit.Deps{PG: nopPG{}})
	assert.Equal(t, "offers", m.Name())

	m = New(modkit.Deps{PG: nopPG{}}, modkit.WithName("book"), modkit.WithPrefix("book/"))
	assert.Equal(t, "book", m.Name())
	assert.Equal(t, "/book", m.(*Module).Prefix())

	p, ok := module.PortsOf[Ports](m)
	require.True(t, ok)
	assert.NotNil(t, p.Service)
}

func TestNew_PanicsWithoutPG(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { New(modkit.Deps{}) })
}

func TestMountRoutes_AppliesModuleMiddleware(t *testing.T) {
	t.Parallel()

	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Module", "offers")
			next.ServeHTTP(w, r)
		})
	}
	mux := chi.NewRouter()
	New(modkit.Deps{PG: nopPG{}}, modkit.WithMiddlewares(tag)).MountRoutes(phttp.AdaptChi(mux))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/offers/not-a-number", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "offers", rec.Header().Get("X-Module"))
}
