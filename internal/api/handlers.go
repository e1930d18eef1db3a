// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/movierex/internal/logging"
	"github.com/tomtom215/movierex/internal/session"
	"github.com/tomtom215/movierex/internal/storage"
	"github.com/tomtom215/movierex/internal/views"
)

// Handler serves the views over HTTP.
type Handler struct {
	views   *views.Views
	session *session.Store
	store   storage.Store

	// breakerState reports the upstream circuit breaker state; nil when
	// the client runs without a breaker.
	breakerState func() string

	version   string
	startTime time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithBreakerState reports the circuit breaker state in health checks.
func WithBreakerState(state func() string) HandlerOption {
	return func(h *Handler) {
		h.breakerState = state
	}
}

// WithVersion sets the version reported by health checks.
func WithVersion(version string) HandlerOption {
	return func(h *Handler) {
		h.version = version
	}
}

// NewHandler creates a Handler. store is probed by the health check.
func NewHandler(v *views.Views, store storage.Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		views:     v,
		session:   v.Session,
		store:     store,
		version:   "dev",
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Home serves the landing page: popular preview and recommendation preview.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	snap, err := h.views.Home.Load(withView(r, "home"))
	respondView(w, r, snap, err)
}

// Recommendations serves the paginated recommendation list. Without a page
// parameter the list keeps the page already on screen when the data came
// from cache, and starts at page 1 after a fetch.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	page, hasPage, err := queryPage(r)
	if err != nil {
		respondRequestError(w, r, err)
		return
	}

	snap, err := h.views.Recommendations.Load(withView(r, views.KeyRecommendations))
	if err != nil || !hasPage || page == snap.Page || snap.Status != views.StatusReady {
		respondView(w, r, snap, err)
		return
	}

	snap, err = h.views.Recommendations.SetPage(page)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Int("page", page).Msg("page rejected")
		NewResponseWriter(w, r).ValidationError(err.Error(), map[string]interface{}{
			"field":       "page",
			"total_pages": snap.TotalPages,
		})
		return
	}
	respondView(w, r, snap, nil)
}

// ReloadRecommendations drops the cached list and fetches it again.
func (h *Handler) ReloadRecommendations(w http.ResponseWriter, r *http.Request) {
	snap, err := h.views.Recommendations.Reload(withView(r, views.KeyRecommendations))
	respondView(w, r, snap, err)
}

// Popular serves one page of popular movies.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	page, hasPage, err := queryPage(r)
	if err != nil {
		respondRequestError(w, r, err)
		return
	}
	if !hasPage {
		page = 1
	}

	snap, err := h.views.Popular.Load(withView(r, views.KeyPopular), page)
	respondView(w, r, snap, err)
}

// Search serves one page of search results for q.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	page, hasPage, err := queryPage(r)
	if err != nil {
		respondRequestError(w, r, err)
		return
	}
	if !hasPage {
		page = 1
	}

	snap, err := h.views.Search.Load(withView(r, views.KeySearch), r.URL.Query().Get("q"), page)
	respondView(w, r, snap, err)
}

// Movie serves the detail page of one movie. An id that does not parse is
// passed on as 0 and rendered as the view's invalid-id state.
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("movie id rejected")
	}

	snap, err := h.views.Details.Load(withView(r, views.KeyDetails), id)
	respondView(w, r, snap, err)
}

// Dashboard serves the analysis page of one user.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("user id rejected")
	}

	snap, err := h.views.Dashboard.Load(withView(r, views.KeyDashboard), userID)
	respondView(w, r, snap, err)
}
