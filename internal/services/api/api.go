// Package api provides the HTTP API for the application
package api

import (
	"sdexindex/internal/platform/config"
	"sdexindex/internal/platform/logger"
	phttp "sdexindex/internal/platform/net/http"
	"sdexindex/internal/platform/net/middleware"
	"sdexindex/internal/platform/store"

	"sdexindex/internal/modkit"
	"sdexindex/internal/modkit/httpkit"
	"sdexindex/internal/modkit/module"
	"sdexindex/internal/modkit/swaggerkit"

	metamod "sdexindex/internal/services/api/meta/module"
	offersmod "sdexindex/internal/services/api/offers/module"

	// ingest module owns the Status port
	ingestmod "sdexindex/internal/services/ingest/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	Stack          httpkit.StackOptions
}

// StackFromConfig reads the middleware knobs under cfg, usually CORE_API_*
func StackFromConfig(cfg config.Conf) httpkit.StackOptions {
	return httpkit.StackOptions{
		Timeout:     cfg.MayDuration("TIMEOUT", 0),
		SlowRequest: cfg.MayDuration("SLOW_REQUEST", 0),
		MaxInFlight: cfg.MayInt("MAX_IN_FLIGHT", 0),
		CORS: middleware.CORSOptions{
			AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", nil),
			MaxAge:         cfg.MayInt("CORS_MAX_AGE", 300),
		},
	}
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Log: opt.Logger,
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// the ingest module is built for its Status port only, it never runs here
	ing := ingestmod.New(deps, ingestmod.FromConfig(config.New()), nil)
	status := module.MustPortsOf[ingestmod.Ports](ing).Status

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Status: status})),
		offersmod.New(deps),
	}

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Stack), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
}
