// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/movierex/internal/middleware"
)

// Router wires a Handler into a chi router.
type Router struct {
	handler *Handler
	chiMw   *ChiMiddleware
}

// NewRouter creates a Router. A nil config selects DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, config *ChiMiddlewareConfig) *Router {
	return &Router{
		handler: handler,
		chiMw:   NewChiMiddleware(config),
	}
}

// SetupChi returns the HTTP handler serving every route.
//
// Middleware order: request ID, real IP, panic recovery, CORS. The /api/v1
// group adds rate limiting, security headers and Prometheus metrics.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMw.CORS())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		WriteNotFound(w, req, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).MethodNotAllowed()
	})

	h := router.handler
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/health", h.Health)
		r.Get("/home", h.Home)

		r.Get("/recommendations", h.Recommendations)
		r.Post("/recommendations/reload", h.ReloadRecommendations)

		r.Get("/popular", h.Popular)
		r.Get("/search", h.Search)
		r.Get("/movies/{id}", h.Movie)
		r.Get("/dashboard/{userID}", h.Dashboard)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Put("/", h.PutSession)
			r.Delete("/", h.DeleteSession)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
