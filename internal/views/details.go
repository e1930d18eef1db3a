// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package views

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/movierex/internal/client"
	"github.com/tomtom215/movierex/internal/inflight"
	"github.com/tomtom215/movierex/internal/models"
	"github.com/tomtom215/movierex/internal/ranking"
	"github.com/tomtom215/movierex/internal/render"
	"github.com/tomtom215/movierex/internal/session"
)

// Details messages.
const (
	MsgInvalidMovieID = "No movie ID provided."
	MsgDetailsFailed  = "Failed to load movie details. Please try again."
	MsgNoSimilar      = "No recommendations available."
	MsgSimilarFailed  = "Failed to load similar movies."
)

// DetailsSnapshot is one movie page with its similar-movies strip.
type DetailsSnapshot struct {
	Status  Status         `json:"status"`
	Message string         `json:"message,omitempty"`
	MovieID int            `json:"movie_id,omitempty"`
	Movie   *render.Detail `json:"movie,omitempty"`
	Similar Section        `json:"similar"`
}

// Details controls the movie page. The movie, its credits and its videos
// load concurrently and fail together; the similar strip loads alongside
// and fails on its own.
type Details struct {
	api     client.API
	session *session.Store
	ctrl    *inflight.Controller
	opts    Options

	mu      sync.Mutex
	status  Status
	message string
	movieID int
	detail  *render.Detail
	similar Section
}

// NewDetails returns an idle Details view.
func NewDetails(deps Deps) *Details {
	return &Details{
		api:     deps.API,
		session: deps.Session,
		ctrl:    deps.Controller,
		opts:    deps.Options.withDefaults(),
		status:  StatusIdle,
		similar: idleSection(),
	}
}

// Load shows movie id.
func (v *Details) Load(ctx context.Context, id int) (DetailsSnapshot, error) {
	err := v.load(ctx, id)
	return v.Snapshot(), err
}

type detailResult struct {
	detail *render.Detail
	err    error
}

type similarResult struct {
	cards []render.Card
	err   error
}

func (v *Details) load(ctx context.Context, id int) error {
	tok := v.ctrl.Start(ctx, KeyDetails)
	defer tok.Settle()

	if id <= 0 {
		return tok.Apply(func() error {
			v.mu.Lock()
			defer v.mu.Unlock()
			v.status = StatusFailed
			v.message = MsgInvalidMovieID
			v.movieID = 0
			v.detail = nil
			v.similar = idleSection()
			return nil
		})
	}

	var (
		dr detailResult
		sr similarResult
		g  errgroup.Group
	)
	g.Go(func() error {
		dr = v.fetchDetail(tok.Context(), id)
		return nil
	})
	g.Go(func() error {
		sr = v.fetchSimilar(tok.Context(), id)
		return nil
	})
	_ = g.Wait()

	if dr.err != nil {
		if stop := interrupted(tok, dr.err); stop != nil {
			return stop
		}
		logFailure(ctx, KeyDetails, dr.err)
	}
	if sr.err != nil {
		if stop := interrupted(tok, sr.err); stop != nil {
			return stop
		}
		logFailure(ctx, KeyDetails+".similar", sr.err)
	}

	return tok.Apply(func() error {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.movieID = id
		if dr.err != nil {
			v.status = StatusFailed
			v.message = MsgDetailsFailed
			v.detail = nil
		} else {
			v.status = StatusReady
			v.message = ""
			v.detail = dr.detail
		}

		switch {
		case sr.err != nil:
			v.similar = Section{Status: StatusFailed, Message: MsgSimilarFailed, Cards: []render.Card{}}
		case len(sr.cards) == 0:
			v.similar = Section{Status: StatusEmpty, Message: MsgNoSimilar, Cards: []render.Card{}}
		default:
			v.similar = Section{Status: StatusReady, Cards: sr.cards}
		}
		return nil
	})
}

// fetchDetail loads the movie, its credits and its videos. The first failure
// cancels the other two.
func (v *Details) fetchDetail(ctx context.Context, id int) detailResult {
	var (
		movie   *models.Movie
		credits *models.Credits
		videos  []models.Video
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		movie, err = v.api.Movie(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		credits, err = v.api.Credits(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		videos, err = v.api.Videos(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return detailResult{err: err}
	}

	d := render.DetailPage(movie, credits, videos, v.opts.CastLimit)
	return detailResult{detail: &d}
}

// fetchSimilar builds the strip under a movie: the user's recommendations
// when logged in, otherwise popular movies. The current movie is excluded
// and a short personalised list is topped up from popular movies.
func (v *Details) fetchSimilar(ctx context.Context, id int) similarResult {
	size := v.opts.SimilarSize
	user, loggedIn := v.session.Current(ctx)

	if !loggedIn {
		movies, err := v.api.Popular(ctx, 1, size)
		if err != nil {
			return similarResult{err: err}
		}
		return similarResult{cards: render.MovieCards(excludeMovie(movies, id, nil, size))}
	}

	items, err := v.api.Recommendations(ctx, user.ID, size)
	if err != nil {
		return similarResult{err: err}
	}

	seen := map[int]struct{}{id: {}}
	var cards []render.Card
	for _, r := range ranking.Rank(items) {
		itemID, _ := r.Item.ItemID()
		if _, dup := seen[itemID]; dup {
			continue
		}
		seen[itemID] = struct{}{}
		cards = append(cards, render.RecommendationCard(&r))
	}
	if len(cards) >= size {
		return similarResult{cards: cards[:size]}
	}

	// A failed top-up keeps what the recommendations gave.
	popular, err := v.api.Popular(ctx, 1, 2*size-len(cards))
	if err != nil {
		if client.IsCancelled(err) {
			return similarResult{err: err}
		}
		return similarResult{cards: cards}
	}
	extra := excludeMovie(popular, id, seen, size-len(cards))
	return similarResult{cards: append(cards, render.MovieCards(extra)...)}
}

// excludeMovie drops id and already seen movies and keeps at most limit.
func excludeMovie(movies []models.Movie, id int, seen map[int]struct{}, limit int) []models.Movie {
	out := make([]models.Movie, 0, limit)
	for _, m := range movies {
		if len(out) == limit {
			break
		}
		if m.ID == id {
			continue
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Snapshot returns the movie on screen.
func (v *Details) Snapshot() DetailsSnapshot {
	pending := v.ctrl.Pending(KeyDetails)

	v.mu.Lock()
	defer v.mu.Unlock()
	s := DetailsSnapshot{
		Status:  v.status,
		Message: v.message,
		MovieID: v.movieID,
		Movie:   v.detail,
		Similar: v.similar.clone(),
	}
	if pending {
		s.Status = StatusLoading
	}
	return s
}
