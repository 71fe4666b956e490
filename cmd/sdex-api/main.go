// @title         SDEX Offers API
// @version       0.1.0
// @description   Read only endpoints over the indexed Stellar DEX order book

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sdexindex/internal/core/version"
	"sdexindex/internal/platform/config"
	"sdexindex/internal/platform/logger"
	phttp "sdexindex/internal/platform/net/http"
	"sdexindex/internal/platform/store"

	"sdexindex/internal/services/api"
)

const serviceName = "sdex-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	// open the platform store (postgres + optional CH adapter)
	cfg := store.ConfigFrom(root, serviceName, version.Info(serviceName).Version)
	if cfg.PG.URL == "" {
		l.Panic().Msg("SERVICE_PGSQL_DBURL or DATABASE_URL is required")
	}
	st, err := store.Open(ctx, cfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			Stack:          api.StackFromConfig(apiCfg),
		},
	)

	// run until signalled
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
