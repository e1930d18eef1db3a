// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/movierex/internal/client"
	"github.com/tomtom215/movierex/internal/inflight"
	"github.com/tomtom215/movierex/internal/render"
	"github.com/tomtom215/movierex/internal/validation"
)

// Search messages.
const (
	MsgNoQuery      = "No search query provided. Please enter a search term."
	MsgSearchFailed = "Failed to search movies. Please try again later."
)

type searchRequest struct {
	Query string `json:"query" validate:"notblank,max=200"`
	Page  int    `json:"page" validate:"gte=1"`
}

// Search controls the search results page.
type Search struct {
	api  client.API
	ctrl *inflight.Controller
	opts Options
	listState
}

// NewSearch returns an idle Search view.
func NewSearch(deps Deps) *Search {
	s := &Search{api: deps.API, ctrl: deps.Controller, opts: deps.Options.withDefaults()}
	s.status = StatusIdle
	s.cards = []render.Card{}
	return s
}

// Load searches for query. The query is trimmed; a blank query is shown as
// a failed search without calling the upstream.
func (s *Search) Load(ctx context.Context, query string, page int) (ListSnapshot, error) {
	err := s.load(ctx, strings.TrimSpace(query), max(page, 1))
	return s.Snapshot(), err
}

func (s *Search) load(ctx context.Context, query string, page int) error {
	tok := s.ctrl.Start(ctx, KeySearch)
	defer tok.Settle()

	if err := validation.Struct(&searchRequest{Query: query, Page: page}); err != nil {
		msg := MsgNoQuery
		if query != "" {
			msg = err.Error()
		}
		return tok.Apply(func() error {
			s.setQuery(query)
			s.set(StatusFailed, msg, page, 0, nil)
			return nil
		})
	}

	movies, err := s.api.Search(tok.Context(), query, page)
	if err != nil {
		if stop := interrupted(tok, err); stop != nil {
			return stop
		}
		logFailure(ctx, KeySearch, err)
		return tok.Apply(func() error {
			s.setQuery(query)
			s.set(StatusFailed, MsgSearchFailed, page, 0, nil)
			return nil
		})
	}

	cards := render.MovieCards(movies)
	return tok.Apply(func() error {
		s.setQuery(query)
		if len(cards) == 0 {
			s.set(StatusEmpty, NoResultsMessage(query), page, 0, cards)
			return nil
		}
		// The upstream reports no total; only pages already reached are linked.
		s.set(StatusReady, "", page, page, cards)
		return nil
	})
}

func (s *Search) setQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// Snapshot returns the results on screen.
func (s *Search) Snapshot() ListSnapshot {
	return s.snapshot(s.ctrl.Pending(KeySearch), s.opts.GridColumns)
}

// NoResultsMessage is shown when a search matches nothing.
func NoResultsMessage(query string) string {
	return fmt.Sprintf("No movies found matching %q. Try a different search term.", query)
}
