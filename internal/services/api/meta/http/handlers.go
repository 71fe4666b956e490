// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"sdexindex/internal/core/version"
	"sdexindex/internal/modkit/httpkit"
	perr "sdexindex/internal/platform/errors"
	ingest "sdexindex/internal/services/ingest/domain"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	// Status reads ingest progress; nil answers 503
	Status ingest.StatusPort
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d, now: time.Now}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/status", h.status)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"sdex-api"`
	Started string `json:"started"  example:"2026-01-02T13:00:00Z"`
	Now     string `json:"now"      example:"2026-01-02T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped unknown
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-01-02T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"sdex-api"`
	Started string `json:"started" example:"2026-01-02T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// StatusResponse reports ingest progress
type StatusResponse struct {
	ingest.Status
	// Lag is seconds since the cursor last moved, omitted before the first page
	Lag *int64 `json:"lag_seconds,omitempty" example:"3"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse ok
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness check with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse ok
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	check := func(name string, c any) ReadyCheck {
		if c == nil {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if p, ok := c.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
			}
			return ReadyCheck{Name: name, Status: "ok"}
		}
		return ReadyCheck{Name: name, Status: "unknown"}
	}

	pg := check("pg", h.deps.PG)
	ch := check("ch", h.deps.CH)

	// clickhouse is optional so a skipped ch still reads as ok
	overall := "ok"
	switch {
	case pg.Status == "fail" || ch.Status == "fail":
		overall = "fail"
	case pg.Status != "ok" || (ch.Status != "ok" && ch.Status != "skipped"):
		overall = "degraded"
	}

	return ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{pg, ch},
		Now:    h.now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo ok
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 type ServiceResponse ok
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := h.now().Sub(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}

// swagger:route GET /meta/status Meta metaStatus
// @Summary Ingest cursor and table counts
// @Tags Meta
// @Produce json
// @Success 200 type StatusResponse ok
// @Router /meta/status [get]
func (h *handlers) status(r *http.Request) (any, error) {
	if h.deps.Status == nil {
		return nil, perr.Unavailablef("ingest status is not wired")
	}
	st, err := h.deps.Status.Status(r.Context())
	if err != nil {
		return nil, err
	}
	out := StatusResponse{Status: st}
	if st.UpdatedAt != nil {
		lag := int64(h.now().Sub(*st.UpdatedAt) / time.Second)
		out.Lag = &lag
	}
	return out, nil
}
