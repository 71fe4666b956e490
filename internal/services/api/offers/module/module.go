// Package module wires offer reads into the API using modkit
package module

import (
	"net/http"

	modkit "sdexindex/internal/modkit"
	"sdexindex/internal/modkit/httpkit"
	str "sdexindex/internal/platform/strings"
	offershttp "sdexindex/internal/services/api/offers/http"
	offersrepo "sdexindex/internal/services/api/offers/repo"
	offerssvc "sdexindex/internal/services/api/offers/service"
)

// Ports exposes the offers read service to other modules
type Ports struct {
	Service offerssvc.Service
}

// Module implements the offers module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	svc offerssvc.Service
}

// New constructs the offers module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("offers"), modkit.WithPrefix("/offers")}, opts...)...)

	svc := offerssvc.New(deps.PG, offersrepo.NewPG())
	return &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		offershttp.Register(rr, m.svc)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns the module ports
func (m *Module) Ports() any { return Ports{Service: m.svc} }
