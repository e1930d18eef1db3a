// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

// Command movierex serves the MovieRex views over HTTP.
//
// It loads configuration (defaults, optional config.yaml, environment),
// opens the local store, builds the recommendation service client and the
// view controllers, and runs the HTTP server and storage maintenance under
// a suture supervisor tree until SIGINT or SIGTERM.
//
// Quick start against a local recommendation service:
//
//	export MOVIEREX_API_URL=http://127.0.0.1:8000/api/v1
//	export STORAGE_TYPE=memory
//	./movierex
//
// Docker with a persistent store:
//
//	docker run -d \
//	  -e MOVIEREX_API_URL=http://recommender:8000/api/v1 \
//	  -v movierex-data:/data/movierex \
//	  -p 8080:8080 \
//	  ghcr.io/tomtom215/movierex
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/movierex/internal/api"
	"github.com/tomtom215/movierex/internal/cache"
	"github.com/tomtom215/movierex/internal/client"
	"github.com/tomtom215/movierex/internal/config"
	"github.com/tomtom215/movierex/internal/inflight"
	"github.com/tomtom215/movierex/internal/logging"
	"github.com/tomtom215/movierex/internal/session"
	"github.com/tomtom215/movierex/internal/storage"
	"github.com/tomtom215/movierex/internal/supervisor"
	"github.com/tomtom215/movierex/internal/supervisor/services"
	"github.com/tomtom215/movierex/internal/views"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("api_url", cfg.API.BaseURL).
		Str("storage", cfg.Storage.Type).
		Msg("Starting MovieRex")

	store, err := storage.Open(storage.Type(cfg.Storage.Type), cfg.Storage.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Storage.Path).Msg("Failed to open storage")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing storage")
		}
	}()

	var upstream client.API = client.NewHTTPClient(client.Config{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        cfg.API.Timeout,
		RateLimitRPS:   cfg.API.RateLimitRPS,
		RateLimitBurst: cfg.API.RateLimitBurst,
	})
	handlerOpts := []api.HandlerOption{api.WithVersion(version)}
	if cfg.API.CircuitBreaker {
		breaker := client.NewCircuitBreakerClient(upstream)
		upstream = breaker
		handlerOpts = append(handlerOpts, api.WithBreakerState(breaker.State))
	}

	sess := session.New(store, cfg.Storage.SessionKey)
	v := views.New(views.Deps{
		API:                  upstream,
		Session:              sess,
		Controller:           inflight.NewController(),
		HomeCache:            cache.New(store, cfg.Cache.HomeKey, cache.WithTTL(cfg.Cache.TTL)),
		RecommendationsCache: cache.New(store, cfg.Cache.RecommendationsKey, cache.WithTTL(cfg.Cache.TTL)),
		Options: views.Options{
			PageSize:            cfg.Views.PageSize,
			MaxPages:            cfg.Views.MaxPages,
			RecommendationLimit: cfg.Views.RecommendationLimit,
			PreviewSize:         cfg.Views.PreviewSize,
			PopularMaxPages:     cfg.Views.PopularMaxPages,
			DashboardTop:        cfg.Views.DashboardTop,
			CastLimit:           cfg.Views.CastLimit,
			SimilarSize:         cfg.Views.SimilarSize,
		},
	})

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Server.RateLimitRequests
	mwConfig.RateLimitWindow = cfg.Server.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Server.RateLimitDisabled

	router := api.NewRouter(api.NewHandler(v, store, handlerOpts...), mwConfig)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if gc, ok := store.(services.GarbageCollector); ok && cfg.Storage.GCInterval > 0 {
		tree.AddStorageService(services.NewStorageGCService(gc, cfg.Storage.GCInterval))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("MovieRex stopped")
}
