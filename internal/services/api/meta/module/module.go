// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	modkit "sdexindex/internal/modkit"
	"sdexindex/internal/modkit/httpkit"
	str "sdexindex/internal/platform/strings"
	ingest "sdexindex/internal/services/ingest/domain"

	metahttp "sdexindex/internal/services/api/meta/http"
)

// ServiceName is reported by /meta endpoints
const ServiceName = "sdex-api"

// Ports are the cross module ports meta consumes, injected with modkit.WithPorts
type Ports struct {
	Status ingest.StatusPort
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports

	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		startedAt: time.Now(),
	}
	if p, ok := b.Ports.(Ports); ok {
		m.ports = p
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	d := metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   m.startedAt,
		PG:          m.deps.PG,
		CH:          m.deps.CH,
		Status:      m.ports.Status,
	}
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		metahttp.Register(rr, d)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
