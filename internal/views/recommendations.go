// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/movierex/internal/cache"
	"github.com/tomtom215/movierex/internal/client"
	"github.com/tomtom215/movierex/internal/inflight"
	"github.com/tomtom215/movierex/internal/logging"
	"github.com/tomtom215/movierex/internal/paginate"
	"github.com/tomtom215/movierex/internal/ranking"
	"github.com/tomtom215/movierex/internal/render"
	"github.com/tomtom215/movierex/internal/session"
)

// RecommendationsSnapshot is one page of the user's ranked recommendations.
type RecommendationsSnapshot struct {
	Status     Status             `json:"status"`
	Message    string             `json:"message,omitempty"`
	UserID     int                `json:"user_id,omitempty"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
	Total      int                `json:"total"`
	Rows       [][]render.Card    `json:"rows"`
	Pagination *render.Pagination `json:"pagination,omitempty"`
	FromCache  bool               `json:"from_cache"`
}

// Recommendations controls the paged recommendations page. The ranked list
// is fetched once (PageSize*MaxPages items), cached per user and paged
// locally.
type Recommendations struct {
	api     client.API
	cache   *cache.ResultCache
	session *session.Store
	ctrl    *inflight.Controller
	opts    Options
	pager   *paginate.Pager

	mu        sync.Mutex
	status    Status
	message   string
	userID    int
	ranked    []ranking.Ranked
	fromCache bool
}

// NewRecommendations returns an idle Recommendations view.
func NewRecommendations(deps Deps) *Recommendations {
	opts := deps.Options.withDefaults()
	return &Recommendations{
		api:     deps.API,
		cache:   deps.RecommendationsCache,
		session: deps.Session,
		ctrl:    deps.Controller,
		opts:    opts,
		pager:   paginate.NewPager(opts.PageSize, opts.MaxPages),
		status:  StatusIdle,
	}
}

// Load shows the logged-in user's recommendations, from the cache when it
// holds a fresh list for them. A cache hit for the user already on screen
// keeps the current page; anything else starts on page 1.
func (v *Recommendations) Load(ctx context.Context) (RecommendationsSnapshot, error) {
	err := v.load(ctx)
	return v.Snapshot(), err
}

// Reload discards the cached list and fetches a new one.
func (v *Recommendations) Reload(ctx context.Context) (RecommendationsSnapshot, error) {
	if err := v.cache.Clear(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("slot", v.cache.Slot()).Msg("cache clear failed")
	}
	return v.Load(ctx)
}

func (v *Recommendations) load(ctx context.Context) error {
	tok := v.ctrl.Start(ctx, KeyRecommendations)
	defer tok.Settle()

	user, ok := v.session.Current(ctx)
	if !ok {
		return tok.Apply(func() error {
			v.mu.Lock()
			defer v.mu.Unlock()
			v.status = StatusLoggedOut
			v.message = MsgLoginForPersonalised
			v.userID = 0
			v.ranked = nil
			v.fromCache = false
			v.pager.Reset(0)
			return nil
		})
	}

	if items, hit := v.cache.Get(ctx, user.ID); hit {
		ranked := ranking.Rank(items)
		return tok.Apply(func() error {
			v.show(user.ID, ranked, true)
			return nil
		})
	}

	items, err := v.api.Recommendations(tok.Context(), user.ID, v.opts.RecommendationLimit)
	if err != nil {
		if stop := interrupted(tok, err); stop != nil {
			return stop
		}
		logFailure(ctx, KeyRecommendations, err)
		return tok.Apply(func() error {
			v.mu.Lock()
			defer v.mu.Unlock()
			v.status = StatusFailed
			v.message = MsgRecommendationsFailed
			v.userID = user.ID
			v.ranked = nil
			v.fromCache = false
			v.pager.Reset(0)
			return nil
		})
	}

	ranked := ranking.Rank(items)
	logging.Ctx(ctx).Debug().
		Str("view", KeyRecommendations).
		Int("user_id", user.ID).
		Int("received", len(items)).
		Int("dropped", ranking.Dropped(len(items), ranked)).
		Msg("recommendations ranked")

	return tok.Apply(func() error {
		if err := v.cache.Set(ctx, user.ID, ranking.Strip(ranked)); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("slot", v.cache.Slot()).Msg("cache write failed")
		}
		v.show(user.ID, ranked, false)
		return nil
	})
}

// show installs a ranked list. A fresh fetch always resets to page 1.
func (v *Recommendations) show(userID int, ranked []ranking.Ranked, fromCache bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	keepPage := fromCache && v.userID == userID && v.ranked != nil
	page := v.pager.Current()
	v.pager.Reset(len(ranked))
	if keepPage {
		v.pager.SetPage(page)
	}

	v.userID = userID
	v.ranked = ranked
	v.fromCache = fromCache
	v.status = statusOf(len(ranked))
	if len(ranked) == 0 {
		v.message = MsgNoRecommendations
	} else {
		v.message = fmt.Sprintf("Showing personalized recommendations for User ID: %d", userID)
	}
}

// SetPage moves to page n of the list on screen.
func (v *Recommendations) SetPage(n int) (RecommendationsSnapshot, error) {
	v.mu.Lock()
	ok := v.status == StatusReady && v.pager.SetPage(n)
	v.mu.Unlock()

	if !ok {
		return v.Snapshot(), fmt.Errorf("%w: %d", ErrInvalidPage, n)
	}
	return v.Snapshot(), nil
}

// Snapshot renders the current page.
func (v *Recommendations) Snapshot() RecommendationsSnapshot {
	pending := v.ctrl.Pending(KeyRecommendations)

	v.mu.Lock()
	defer v.mu.Unlock()

	page := v.pager.Current()
	total := v.pager.Total()
	cards := render.RecommendationCards(paginate.Page(v.pager, v.ranked))

	s := RecommendationsSnapshot{
		Status:     v.status,
		Message:    v.message,
		UserID:     v.userID,
		Page:       page,
		TotalPages: total,
		Total:      len(v.ranked),
		Rows:       render.Grid(cards, v.opts.GridColumns),
		Pagination: render.Controls(page, total),
		FromCache:  v.fromCache,
	}
	if pending {
		s.Status = StatusLoading
	}
	return s
}
