package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"strings"
	"time"

	"sdexindex/internal/platform/config"
	perr "sdexindex/internal/platform/errors"
	"sdexindex/internal/platform/logger"
	pnet "sdexindex/internal/platform/net"

	"github.com/go-chi/chi/v5"
)

// shutdownGrace bounds in flight requests once Run's context is cancelled
var shutdownGrace = 10 * time.Second

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	addr string
	mux  *chi.Mux
	srv  *stdhttp.Server
}

// NewServer creates a server listening on PORT under cfg, default :4000
// opts receive the *chi.Mux so callers can mount routes/mw
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayString("PORT", ":4000")
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	m := chi.NewRouter()
	m.NotFound(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		RespondError(w, r, perr.NotFoundf("no route for %s", r.URL.Path))
	})
	m.MethodNotAllowed(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.Header().Set("Allow", "GET, HEAD")
		JSON(w, stdhttp.StatusMethodNotAllowed, Envelope{
			StatusCode: stdhttp.StatusMethodNotAllowed,
			Status:     stdhttp.StatusText(stdhttp.StatusMethodNotAllowed),
			Error:      "method " + r.Method + " not allowed",
			RequestID:  pnet.RequestID(r.Context()),
		})
	})
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr: addr,
		mux:  m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      45 * time.Second,
			IdleTimeout:       90 * time.Second,
		},
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router {
	return AdaptChi(s.mux)
}

// Addr returns the listening address
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is cancelled, then drains in flight requests
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	log.Info().Str("addr", s.addr).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("http shutting down")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
		defer cancel()
		if err := s.srv.Shutdown(sctx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, stdhttp.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
