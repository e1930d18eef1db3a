// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package views

import (
	"context"
	"sync"

	"github.com/tomtom215/movierex/internal/client"
	"github.com/tomtom215/movierex/internal/inflight"
	"github.com/tomtom215/movierex/internal/render"
)

// ListSnapshot is a page of catalogue movies.
type ListSnapshot struct {
	Status     Status             `json:"status"`
	Message    string             `json:"message,omitempty"`
	Query      string             `json:"query,omitempty"`
	Page       int                `json:"page"`
	Rows       [][]render.Card    `json:"rows"`
	Pagination *render.Pagination `json:"pagination,omitempty"`
}

// listState is the shared state of the server-paged catalogue views.
type listState struct {
	mu      sync.Mutex
	status  Status
	message string
	query   string
	page    int
	total   int
	cards   []render.Card
}

func (l *listState) set(status Status, message string, page, total int, cards []render.Card) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status = status
	l.message = message
	l.page = page
	l.total = total
	if cards == nil {
		cards = []render.Card{}
	}
	l.cards = cards
}

func (l *listState) snapshot(pending bool, columns int) ListSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	page := max(l.page, 1)
	s := ListSnapshot{
		Status:     l.status,
		Message:    l.message,
		Query:      l.query,
		Page:       page,
		Rows:       render.Grid(append([]render.Card{}, l.cards...), columns),
		Pagination: render.Controls(page, l.total),
	}
	if pending {
		s.Status = StatusLoading
	}
	return s
}

// MsgNoMovies is shown when a catalogue page comes back empty.
const MsgNoMovies = "No movies found."

// Popular controls the popular movies page. The upstream reports no total,
// so navigation assumes PopularMaxPages pages.
type Popular struct {
	api  client.API
	ctrl *inflight.Controller
	opts Options
	listState
}

// NewPopular returns an idle Popular view.
func NewPopular(deps Deps) *Popular {
	p := &Popular{api: deps.API, ctrl: deps.Controller, opts: deps.Options.withDefaults()}
	p.status = StatusIdle
	p.cards = []render.Card{}
	return p
}

// Load shows page (clamped to [1, PopularMaxPages]).
func (p *Popular) Load(ctx context.Context, page int) (ListSnapshot, error) {
	err := p.load(ctx, min(max(page, 1), p.opts.PopularMaxPages))
	return p.Snapshot(), err
}

func (p *Popular) load(ctx context.Context, page int) error {
	tok := p.ctrl.Start(ctx, KeyPopular)
	defer tok.Settle()

	movies, err := p.api.Popular(tok.Context(), page, 0)
	if err != nil {
		if stop := interrupted(tok, err); stop != nil {
			return stop
		}
		logFailure(ctx, KeyPopular, err)
		return tok.Apply(func() error {
			p.set(StatusFailed, MsgPopularFailed, page, 0, nil)
			return nil
		})
	}

	cards := render.MovieCards(movies)
	return tok.Apply(func() error {
		if len(cards) == 0 {
			p.set(StatusEmpty, MsgNoMovies, page, 0, cards)
			return nil
		}
		p.set(StatusReady, "", page, p.opts.PopularMaxPages, cards)
		return nil
	})
}

// Snapshot returns the page on screen.
func (p *Popular) Snapshot() ListSnapshot {
	return p.snapshot(p.ctrl.Pending(KeyPopular), p.opts.GridColumns)
}
