// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/movierex/internal/logging"
	"github.com/tomtom215/movierex/internal/storage"
)

// healthProbeKey is read by the health check; it is never written.
const healthProbeKey = "movierex_health_probe"

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	StorageOK      bool    `json:"storage_ok"`
	CircuitBreaker string  `json:"circuit_breaker,omitempty"`
	LoggedIn       bool    `json:"logged_in"`
	Uptime         float64 `json:"uptime_seconds"`
}

// Health reports local storage reachability and the upstream breaker state.
// The status is "degraded" when storage fails or the breaker is open.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	storageOK := true
	if h.store != nil {
		if _, err := h.store.Get(r.Context(), healthProbeKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("health check storage probe failed")
			storageOK = false
		}
	}

	breaker := ""
	if h.breakerState != nil {
		breaker = h.breakerState()
	}

	status := "healthy"
	if !storageOK || breaker == "open" {
		status = "degraded"
	}

	_, loggedIn := h.session.Current(r.Context())

	WriteSuccess(w, r, HealthStatus{
		Status:         status,
		Version:        h.version,
		StorageOK:      storageOK,
		CircuitBreaker: breaker,
		LoggedIn:       loggedIn,
		Uptime:         time.Since(h.startTime).Seconds(),
	})
}
