package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "sdexindex/internal/platform/errors"

	"github.com/go-chi/chi/v5"
)

type pageQuery struct {
	Limit int    `query:"limit" validate:"omitempty,min=1,max=10"`
	After string `query:"after"`
}

func TestSugar_GetAndGetQuery(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())

	Get(r, "/ping", func(*http.Request) (any, error) {
		return map[string]string{"ok": "pong"}, nil
	})
	Get(r, "/boom", func(*http.Request) (any, error) {
		return nil, perr.Unavailablef("store down")
	})
	GetQuery(r, "/list", func(_ *http.Request, q pageQuery) (any, error) {
		if q.After == "fail" {
			return nil, errors.New("boom")
		}
		return List([]string{q.After}, Page{Limit: q.Limit, Count: 1}), nil
	})

	do := func(path string) (*httptest.ResponseRecorder, Envelope) {
		rr := httptest.NewRecorder()
		r.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		var env Envelope
		_ = json.Unmarshal(rr.Body.Bytes(), &env)
		return rr, env
	}

	if rr, env := do("/ping"); rr.Code != 200 || env.Data == nil {
		t.Fatalf("GET /ping => %d %+v", rr.Code, env)
	}
	if rr, env := do("/boom"); rr.Code != http.StatusServiceUnavailable || env.Kind != "unavailable" {
		t.Fatalf("GET /boom => %d %+v", rr.Code, env)
	}
	if rr, env := do("/list?limit=5&after=abc"); rr.Code != 200 || env.Page == nil || env.Page.Limit != 5 {
		t.Fatalf("GET /list => %d %+v", rr.Code, env)
	}
	if rr, env := do("/list?limit=50"); rr.Code != http.StatusBadRequest || env.Field != "limit" {
		t.Fatalf("GET /list?limit=50 => %d %+v", rr.Code, env)
	}
	if rr, _ := do("/list?after=fail"); rr.Code != http.StatusInternalServerError {
		t.Fatalf("GET /list?after=fail => %d", rr.Code)
	}
}
