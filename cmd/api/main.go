package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	server "marzi/internal/adapters/http_server"
	"marzi/internal/adapters/observability"
	redisad "marzi/internal/adapters/redis"
	"marzi/internal/adapters/sheetdb"
	"marzi/internal/app"
	"marzi/internal/domain"
	"marzi/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve(cfg.MetricsAddr)

	client, err := sheetdb.New(cfg.SheetBase, cfg.SheetToken, cfg.SheetRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("sheetdb client init failed")
	}

	// CACHE_TTL_SECONDS=0 runs the always-fetch-fresh deployment
	var cache domain.Cache
	if cfg.CacheTTL > 0 {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		log.Info().Dur("ttl", cfg.CacheTTL).Msg("sheet cache enabled")
	}

	catalog := app.NewCatalogService(client, cache, cfg.CacheTTL, cfg.PackagesSheet)
	leads := app.NewLeadService(client)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Catalog: catalog, Leads: leads})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
