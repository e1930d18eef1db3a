// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package views

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/movierex/internal/cache"
	"github.com/tomtom215/movierex/internal/client"
	"github.com/tomtom215/movierex/internal/inflight"
	"github.com/tomtom215/movierex/internal/logging"
	"github.com/tomtom215/movierex/internal/ranking"
	"github.com/tomtom215/movierex/internal/render"
	"github.com/tomtom215/movierex/internal/session"
)

// Home messages.
const (
	MsgNoPopular             = "No popular movies found."
	MsgPopularFailed         = "Failed to load popular movies. Please try again later."
	MsgNoRecommendations     = "No recommendations found for your profile."
	MsgRecommendationsFailed = "Failed to load recommendations. Please try again later."
	MsgLoginForPersonalised  = "Please log in to see your personalized movie recommendations."
)

// HomeSnapshot is the landing page: a popular preview and, for a logged-in
// user, a recommendation preview.
type HomeSnapshot struct {
	UserID          int     `json:"user_id,omitempty"`
	Popular         Section `json:"popular"`
	Recommendations Section `json:"recommendations"`
	// FromCache is set when the recommendation preview came from the cache.
	FromCache bool `json:"from_cache"`
}

// Home controls the landing page.
type Home struct {
	api     client.API
	cache   *cache.ResultCache
	session *session.Store
	ctrl    *inflight.Controller
	opts    Options

	mu        sync.Mutex
	userID    int
	popular   Section
	recs      Section
	fromCache bool
}

// NewHome returns an idle Home.
func NewHome(deps Deps) *Home {
	return &Home{
		api:     deps.API,
		cache:   deps.HomeCache,
		session: deps.Session,
		ctrl:    deps.Controller,
		opts:    deps.Options.withDefaults(),
		popular: idleSection(),
		recs:    idleSection(),
	}
}

// Load refreshes both sections concurrently.
func (h *Home) Load(ctx context.Context) (HomeSnapshot, error) {
	var g errgroup.Group
	g.Go(func() error { return h.loadPopular(ctx) })
	g.Go(func() error { return h.loadRecommendations(ctx) })
	err := g.Wait()
	return h.Snapshot(), err
}

func (h *Home) loadPopular(ctx context.Context) error {
	tok := h.ctrl.Start(ctx, KeyHomePopular)
	defer tok.Settle()

	movies, err := h.api.Popular(tok.Context(), 1, h.opts.PreviewSize)
	if err != nil {
		if stop := interrupted(tok, err); stop != nil {
			return stop
		}
		logFailure(ctx, KeyHomePopular, err)
		return tok.Apply(func() error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.popular = Section{Status: StatusFailed, Message: MsgPopularFailed, Cards: []render.Card{}}
			return nil
		})
	}

	cards := render.MovieCards(movies)
	return tok.Apply(func() error {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.popular = Section{Status: statusOf(len(cards)), Cards: cards}
		if len(cards) == 0 {
			h.popular.Message = MsgNoPopular
		}
		return nil
	})
}

func (h *Home) loadRecommendations(ctx context.Context) error {
	tok := h.ctrl.Start(ctx, KeyHomeRecommendations)
	defer tok.Settle()

	user, ok := h.session.Current(ctx)
	if !ok {
		return tok.Apply(func() error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.userID = 0
			h.fromCache = false
			h.recs = Section{Status: StatusLoggedOut, Message: MsgLoginForPersonalised, Cards: []render.Card{}}
			return nil
		})
	}

	if items, hit := h.cache.Get(ctx, user.ID); hit {
		ranked := ranking.Rank(items)
		return tok.Apply(func() error {
			h.showRecommendations(user.ID, ranked, true)
			return nil
		})
	}

	items, err := h.api.Recommendations(tok.Context(), user.ID, h.opts.PreviewSize)
	if err != nil {
		if stop := interrupted(tok, err); stop != nil {
			return stop
		}
		logFailure(ctx, KeyHomeRecommendations, err)
		return tok.Apply(func() error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.userID = user.ID
			h.fromCache = false
			h.recs = Section{Status: StatusFailed, Message: MsgRecommendationsFailed, Cards: []render.Card{}}
			return nil
		})
	}

	ranked := ranking.Rank(items)
	logging.Ctx(ctx).Debug().
		Str("view", KeyHomeRecommendations).
		Int("user_id", user.ID).
		Int("received", len(items)).
		Int("dropped", ranking.Dropped(len(items), ranked)).
		Msg("recommendations ranked")

	return tok.Apply(func() error {
		if err := h.cache.Set(ctx, user.ID, ranking.Strip(ranked)); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("slot", h.cache.Slot()).Msg("cache write failed")
		}
		h.showRecommendations(user.ID, ranked, false)
		return nil
	})
}

func (h *Home) showRecommendations(userID int, ranked []ranking.Ranked, fromCache bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.userID = userID
	h.fromCache = fromCache
	h.recs = Section{Status: statusOf(len(ranked)), Cards: render.RecommendationCards(ranked)}
	if len(ranked) == 0 {
		h.recs.Message = MsgNoRecommendations
	}
}

// Snapshot returns the current page state.
func (h *Home) Snapshot() HomeSnapshot {
	popularPending := h.ctrl.Pending(KeyHomePopular)
	recsPending := h.ctrl.Pending(KeyHomeRecommendations)

	h.mu.Lock()
	defer h.mu.Unlock()
	s := HomeSnapshot{
		UserID:          h.userID,
		Popular:         h.popular.clone(),
		Recommendations: h.recs.clone(),
		FromCache:       h.fromCache,
	}
	if popularPending {
		s.Popular.Status = StatusLoading
	}
	if recsPending {
		s.Recommendations.Status = StatusLoading
	}
	return s
}
