// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

/*
Package api serves the MovieRex views as JSON for a thin page shell.

Every handler drives one view controller from internal/views and answers
with that view's snapshot wrapped in the standard envelope:

	{
	  "success": true,
	  "data": { ...snapshot... },
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 12}
	}

A view that failed to load is still a successful response; the failure is
part of the snapshot (status "failed" plus a user-facing message). Errors in
the envelope are reserved for malformed requests and local faults.

When a newer request for the same view starts while an older one is still
waiting on the recommendation service, the older request answers with the
snapshot current at that moment and meta.superseded set to true. Its own
upstream result is discarded.

# Routes

	GET    /api/v1/health
	GET    /api/v1/home
	GET    /api/v1/recommendations?page=N
	POST   /api/v1/recommendations/reload
	GET    /api/v1/popular?page=N
	GET    /api/v1/search?q=term&page=N
	GET    /api/v1/movies/{id}
	GET    /api/v1/dashboard/{userID}
	GET    /api/v1/session
	PUT    /api/v1/session          {"user_id": 42}
	DELETE /api/v1/session
	GET    /metrics

# Middleware

Requests pass through request ID injection, real IP extraction, panic
recovery, CORS (go-chi/cors), per-IP rate limiting (go-chi/httprate),
security headers and Prometheus instrumentation.
*/
package api
