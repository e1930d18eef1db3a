// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

// Package views holds one controller per page of the application.
//
// Each controller owns its state behind a mutex and exposes immutable
// snapshots. A load runs under an inflight token keyed by the view, so a
// newer load of the same view always wins: results of a superseded load are
// dropped and the call returns inflight.ErrSuperseded together with the
// snapshot the newer load produced (or is producing).
//
// Fetch failures never escape a view. They become a StatusFailed snapshot
// carrying a generic retry message. The only errors a Load returns are
// inflight.ErrSuperseded and the cancellation of the caller's own context.
package views

import (
	"context"
	"errors"

	"github.com/tomtom215/movierex/internal/cache"
	"github.com/tomtom215/movierex/internal/client"
	"github.com/tomtom215/movierex/internal/inflight"
	"github.com/tomtom215/movierex/internal/logging"
	"github.com/tomtom215/movierex/internal/render"
	"github.com/tomtom215/movierex/internal/session"
)

// Status is the lifecycle state of a view or section.
type Status string

// View statuses.
const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusReady     Status = "ready"
	StatusEmpty     Status = "empty"
	StatusFailed    Status = "failed"
	StatusLoggedOut Status = "logged_out"
)

// View keys used for in-flight tracking, logs and metrics.
const (
	KeyHomePopular         = "home.popular"
	KeyHomeRecommendations = "home.recommendations"
	KeyRecommendations     = "recommendations"
	KeyPopular             = "popular"
	KeySearch              = "search"
	KeyDetails             = "details"
	KeyDashboard           = "dashboard"
)

// ErrInvalidPage is returned when navigating to a page the result set does
// not have.
var ErrInvalidPage = errors.New("page out of range")

// Options are the presentation constants of the views.
type Options struct {
	PageSize            int
	MaxPages            int
	RecommendationLimit int
	PreviewSize         int
	PopularMaxPages     int
	DashboardTop        int
	CastLimit           int
	SimilarSize         int
	GridColumns         int
}

// DefaultOptions returns the stock layout: 8 per page over at most 3 pages,
// 4-card previews, 10 popular pages, 12 dashboard cards.
func DefaultOptions() Options {
	return Options{
		PageSize:            8,
		MaxPages:            3,
		RecommendationLimit: 24,
		PreviewSize:         4,
		PopularMaxPages:     10,
		DashboardTop:        render.DefaultDashboardTop,
		CastLimit:           render.DefaultCastLimit,
		SimilarSize:         4,
		GridColumns:         4,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PageSize <= 0 {
		o.PageSize = d.PageSize
	}
	if o.MaxPages <= 0 {
		o.MaxPages = d.MaxPages
	}
	if o.RecommendationLimit <= 0 {
		o.RecommendationLimit = o.PageSize * o.MaxPages
	}
	if o.PreviewSize <= 0 {
		o.PreviewSize = d.PreviewSize
	}
	if o.PopularMaxPages <= 0 {
		o.PopularMaxPages = d.PopularMaxPages
	}
	if o.DashboardTop <= 0 {
		o.DashboardTop = d.DashboardTop
	}
	if o.CastLimit <= 0 {
		o.CastLimit = d.CastLimit
	}
	if o.SimilarSize <= 0 {
		o.SimilarSize = d.SimilarSize
	}
	if o.GridColumns <= 0 {
		o.GridColumns = d.GridColumns
	}
	return o
}

// Deps wires the views to their collaborators.
type Deps struct {
	API                  client.API
	Session              *session.Store
	Controller           *inflight.Controller
	HomeCache            *cache.ResultCache
	RecommendationsCache *cache.ResultCache
	Options              Options
}

// Views is the full set of page controllers.
type Views struct {
	Home            *Home
	Recommendations *Recommendations
	Popular         *Popular
	Search          *Search
	Details         *Details
	Dashboard       *Dashboard
	Session         *session.Store
}

// New builds every view over deps. A nil Controller gets a fresh one.
func New(deps Deps) *Views {
	if deps.Controller == nil {
		deps.Controller = inflight.NewController()
	}
	deps.Options = deps.Options.withDefaults()

	return &Views{
		Home:            NewHome(deps),
		Recommendations: NewRecommendations(deps),
		Popular:         NewPopular(deps),
		Search:          NewSearch(deps),
		Details:         NewDetails(deps),
		Dashboard:       NewDashboard(deps),
		Session:         deps.Session,
	}
}

// Section is an independently loaded part of a page.
type Section struct {
	Status  Status        `json:"status"`
	Message string        `json:"message,omitempty"`
	Cards   []render.Card `json:"cards"`
}

func idleSection() Section {
	return Section{Status: StatusIdle, Cards: []render.Card{}}
}

func (s Section) clone() Section {
	s.Cards = append([]render.Card{}, s.Cards...)
	return s
}

// interrupted reports whether a failed fetch was abandoned rather than
// failed: superseded by a newer load or cancelled by the caller. A nil
// result means err is a real failure to show.
func interrupted(tok *inflight.Token, err error) error {
	if errors.Is(context.Cause(tok.Context()), inflight.ErrSuperseded) {
		return inflight.ErrSuperseded
	}
	if client.IsCancelled(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// logFailure records a fetch failure that is being shown to the user.
func logFailure(ctx context.Context, view string, err error) {
	evt := logging.Ctx(ctx).Warn().Err(err).Str("view", view)
	if ne, ok := client.AsNetworkError(err); ok {
		evt = evt.Int("status", ne.Status)
	}
	evt.Msg("view load failed")
}

// statusOf picks ready or empty for a loaded list of n entries.
func statusOf(n int) Status {
	if n == 0 {
		return StatusEmpty
	}
	return StatusReady
}
