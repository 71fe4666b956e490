// Package module wires the ingest driver
package module

import (
	"sdexindex/internal/adapters/ingest/horizon"
	"sdexindex/internal/modkit"
	"sdexindex/internal/modkit/repokit"
	phttp "sdexindex/internal/platform/net/http"
	"sdexindex/internal/services/ingest/domain"
	"sdexindex/internal/services/ingest/guardrails"
	"sdexindex/internal/services/ingest/repo"
	"sdexindex/internal/services/ingest/service"
)

// Ports defines the ingest module ports
type Ports struct {
	Runner domain.RunnerPort
	Status domain.StatusPort
}

// Module implements the ingest module
type Module struct {
	deps  modkit.Deps
	ports Ports
	svc   *service.Service
}

// New constructs the ingest module from deps and options
// deps.PG is required, deps.CH enables snapshot history
// fetch may be nil, in which case a Horizon client is built from opts
func New(deps modkit.Deps, opts Options, fetch domain.Fetcher) *Module {
	if fetch == nil {
		fetch = horizon.NewClient(opts.Horizon)
	}

	hooks := append(
		guardrails.LeaseHooks(domain.Stream, opts.Lease),
		repokit.StatementTimeout(opts.StatementTimeout),
	)
	tx := repokit.WithBeginHooks(deps.PG, hooks...)

	svc := service.New(
		tx, deps.PG, repo.NewPG(),
		fetch, repo.NewCH(deps.CH),
		service.Config{
			PageLimit:    clampLimit(opts.PageLimit),
			PollInterval: opts.PollInterval,
			MaxPages:     opts.MaxPages,
			RPS:          opts.RPS,
			AssetCache:   opts.AssetCache,
			Retry: service.RetryPolicy{
				Initial:    opts.RetryInitial,
				Max:        opts.RetryMax,
				MaxRetries: uint64(max(opts.MaxRetries, 0)),
				MaxElapsed: opts.MaxElapsed,
			},
			Timeouts: guardrails.Timeouts{
				Page: opts.PageTimeout,
				DB:   opts.DBTimeout,
			},
		},
	)

	return &Module{
		deps:  deps,
		svc:   svc,
		ports: Ports{Runner: svc, Status: svc},
	}
}

// Name returns the module name
func (m *Module) Name() string { return "ingest" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module prefix (none)
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op as ingest has no routes
func (m *Module) MountRoutes(_ phttp.Router) {}

func clampLimit(n int) uint32 {
	if n <= 0 || n > horizon.MaxLimit {
		return horizon.MaxLimit
	}
	return uint32(n)
}
