// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

// Package metrics registers the Prometheus collectors for MovieRex:
// remote API calls, the local result cache, superseded loads, the circuit
// breaker and the local HTTP surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Remote recommendation service
	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierex_remote_requests_total",
			Help: "Total number of requests sent to the recommendation service",
		},
		[]string{"operation", "outcome"}, // outcome: "ok", "http_error", "transport_error", "cancelled"
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierex_remote_request_duration_seconds",
			Help:    "Duration of requests to the recommendation service in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	RemoteItemsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierex_remote_items_dropped_total",
			Help: "Recommendation items dropped at decode time (no id or failed validation)",
		},
		[]string{"reason"},
	)

	// Local result cache
	ResultCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierex_result_cache_hits_total",
			Help: "Result cache lookups answered from storage",
		},
		[]string{"slot"},
	)

	ResultCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierex_result_cache_misses_total",
			Help: "Result cache lookups that fell through to the network",
		},
		[]string{"slot", "reason"}, // reason: "absent", "expired", "owner", "malformed", "error"
	)

	// In-flight request control
	SupersededLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierex_superseded_loads_total",
			Help: "Loads whose results were discarded because a newer load started",
		},
		[]string{"view"},
	)

	InflightLoads = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movierex_inflight_loads",
			Help: "Loads currently pending per view",
		},
		[]string{"view"},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Local HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierex_api_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierex_api_request_duration_seconds",
			Help:    "HTTP API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierex_api_active_requests",
			Help: "Number of HTTP API requests currently being served",
		},
	)

	// Storage
	StorageGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierex_storage_gc_runs_total",
			Help: "Badger value log GC passes",
		},
		[]string{"result"}, // result: "rewritten", "noop", "error"
	)
)

// RecordRemoteRequest records one call to the recommendation service.
func RecordRemoteRequest(operation, outcome string, duration time.Duration) {
	RemoteRequestsTotal.WithLabelValues(operation, outcome).Inc()
	RemoteRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCacheHit records a result cache hit.
func RecordCacheHit(slot string) {
	ResultCacheHits.WithLabelValues(slot).Inc()
}

// RecordCacheMiss records a result cache miss.
func RecordCacheMiss(slot, reason string) {
	ResultCacheMisses.WithLabelValues(slot, reason).Inc()
}

// RecordSuperseded records a discarded load.
func RecordSuperseded(view string) {
	SupersededLoads.WithLabelValues(view).Inc()
}

// RecordAPIRequest records a local HTTP API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-progress HTTP API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
