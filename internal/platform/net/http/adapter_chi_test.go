package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func header(name string) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
			w.Header().Set(name, "1")
			next.ServeHTTP(w, req)
		})
	}
}

func body(s string) Handler {
	return func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { _, _ = w.Write([]byte(s)) }
}

func TestAdaptChi_RootGroupRouteAndMux(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())
	r.Use(header("X-Root"))
	r.Get("/root", body("root"))

	r.Group(func(gr Router) {
		gr.Use(header("X-Group"))
		if gr.Mux() == nil {
			t.Fatalf("group Mux() returned nil")
		}
		gr.Get("/g/ping", body("g"))
		gr.Group(func(ngr Router) { ngr.Get("/g/nested", body("nested")) })
	})

	r.Route("/api", func(sr Router) {
		sr.Use(header("X-Route"))
		sr.Get("/ping", body("pong"))
		sr.Route("/v1", func(nr Router) { nr.Get("/ok", body("v1ok")) })
		sr.Handle("/std", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
			_, _ = w.Write([]byte("std"))
		}))
	})
	r.Head("/h", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.Header().Set("X-Head", "1") })

	do := func(method, path string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		r.Mux().ServeHTTP(rr, httptest.NewRequest(method, path, nil))
		return rr
	}

	cases := []struct {
		path, body string
		headers    []string
	}{
		{"/root", "root", []string{"X-Root"}},
		{"/g/ping", "g", []string{"X-Root", "X-Group"}},
		{"/g/nested", "nested", []string{"X-Root", "X-Group"}},
		{"/api/ping", "pong", []string{"X-Root", "X-Route"}},
		{"/api/v1/ok", "v1ok", []string{"X-Root", "X-Route"}},
		{"/api/std", "std", []string{"X-Root", "X-Route"}},
	}
	for _, tc := range cases {
		rr := do(stdhttp.MethodGet, tc.path)
		if rr.Code != 200 || rr.Body.String() != tc.body {
			t.Fatalf("GET %s => code=%d body=%q", tc.path, rr.Code, rr.Body.String())
		}
		for _, h := range tc.headers {
			if rr.Header().Get(h) != "1" {
				t.Fatalf("GET %s missing %s", tc.path, h)
			}
		}
	}

	if rr := do(stdhttp.MethodHead, "/h"); rr.Code != 200 || rr.Header().Get("X-Head") != "1" {
		t.Fatalf("HEAD /h => code=%d", rr.Code)
	}
	if rr := do(stdhttp.MethodPost, "/root"); rr.Code != stdhttp.StatusMethodNotAllowed {
		t.Fatalf("POST /root => %d want 405", rr.Code)
	}
}

func TestParam(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())
	r.Get("/offers/{id}", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		_, _ = w.Write([]byte(Param(req, "id") + "|" + Param(req, "missing")))
	})

	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, "/offers/165561423", nil))
	if got := rr.Body.String(); got != "165561423|" {
		t.Fatalf("params = %q", got)
	}
}
