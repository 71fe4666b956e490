package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sdexindex/internal/platform/config"
	phttp "sdexindex/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestServer_RunStopsOnContextCancel(t *testing.T) {
	addr := freeAddr(t)
	t.Setenv("T_API_PORT", addr)

	optCalled := false
	srv := phttp.NewServer(config.New().Prefix("T_API_"), func(*chi.Mux) { optCalled = true })
	if !optCalled {
		t.Fatalf("expected NewServer option to be called")
	}
	if srv.Addr() != addr {
		t.Fatalf("Addr() = %q want %q", srv.Addr(), addr)
	}
	srv.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/ping")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(b) != "pong" {
		t.Fatalf("body %q", b)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestServer_ShutdownEndsRun(t *testing.T) {
	t.Setenv("S_PORT", freeAddr(t))
	srv := phttp.NewServer(config.New().Prefix("S_"))

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after Shutdown")
	}
}

func TestNewServer_AddrDefaultsAndBarePort(t *testing.T) {
	if got := phttp.NewServer(config.New().Prefix("NOPE_")).Addr(); got != ":4000" {
		t.Fatalf("default addr %q", got)
	}
	t.Setenv("B_PORT", "8088")
	if got := phttp.NewServer(config.New().Prefix("B_")).Addr(); got != ":8088" {
		t.Fatalf("bare port addr %q", got)
	}
}

func TestServer_Run_ReturnsListenError(t *testing.T) {
	t.Setenv("E_PORT", "127.0.0.1:abc")
	srv := phttp.NewServer(config.New().Prefix("E_"))
	if err := srv.Run(context.Background()); err == nil {
		t.Fatalf("expected Run to return an error for invalid addr")
	}
}

func TestServer_NotFoundAndMethodEnvelopes(t *testing.T) {
	srv := phttp.NewServer(config.New().Prefix("NF_"))
	srv.Router().Get("/only-get", func(w http.ResponseWriter, _ *http.Request) {})

	rec := httptest.NewRecorder()
	srv.Router().Mux().ServeHTTP(rec, httptest.NewRequest("GET", "/missing", nil))
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if rec.Code != http.StatusNotFound || env.Kind != "not_found" {
		t.Fatalf("404 envelope %d %+v", rec.Code, env)
	}

	rec = httptest.NewRecorder()
	srv.Router().Mux().ServeHTTP(rec, httptest.NewRequest("POST", "/only-get", nil))
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") == "" {
		t.Fatalf("405 path %d allow=%q", rec.Code, rec.Header().Get("Allow"))
	}
}
