// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

// Package render converts movies and ranked recommendations into display
// units. Nothing here fetches or mutates state; every function is a pure
// mapping from models to the shapes the page shell draws.
package render

import (
	"strconv"
	"time"

	"github.com/tomtom215/movierex/internal/models"
	"github.com/tomtom215/movierex/internal/ranking"
)

// Placeholder images used when the upstream has no artwork.
const (
	PosterPlaceholder  = "https://via.placeholder.com/300x450?text=No+Image"
	ProfilePlaceholder = "https://via.placeholder.com/80x80?text=No+Image"
)

// Fallback texts.
const (
	NotAvailable       = "N/A"
	UnknownReleaseDate = "Release date unknown"
	NoOverview         = "No overview available."
	upstreamDateLayout = "2006-01-02"
	displayDateLayout  = "January 2, 2006"
)

// Card is one movie tile.
type Card struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Poster      string   `json:"poster"`
	Genres      []string `json:"genres"`
	Rating      string   `json:"rating"`
	ReleaseDate string   `json:"release_date"`
	Metrics     *Metrics `json:"metrics,omitempty"`
}

// Metrics is the recommendation breakdown shown under a recommended movie.
// Percentages are whole numbers; a nil pointer means the value is unknown.
type Metrics struct {
	Content       int  `json:"content"`
	Collab        *int `json:"collab,omitempty"`
	ContentWeight *int `json:"content_weight,omitempty"`
	CollabWeight  *int `json:"collab_weight,omitempty"`
	Match         *int `json:"match,omitempty"`
}

// MovieCard renders a catalogue movie.
func MovieCard(m *models.Movie) Card {
	return Card{
		ID:          m.ID,
		Title:       m.Title,
		Poster:      Poster(m.PosterPath),
		Genres:      genres(m.Genres),
		Rating:      Rating(m.VoteAverage),
		ReleaseDate: FormatDate(m.ReleaseDate),
	}
}

// RecommendationCard renders a ranked recommendation. The metrics block is
// present only when the item carries a content score.
func RecommendationCard(r *ranking.Ranked) Card {
	it := &r.Item
	id, _ := it.ItemID()
	card := Card{
		ID:          id,
		Title:       it.Title,
		Poster:      Poster(it.PosterPath),
		Genres:      genres(it.Genres),
		Rating:      Rating(it.VoteAverage),
		ReleaseDate: FormatDate(it.ReleaseDate),
	}
	if it.ContentScore == nil {
		return card
	}

	m := &Metrics{
		Content: ranking.Percent(*it.ContentScore),
		Collab:  percentPtr(it.CollabScore),
		Match:   intPtr(ranking.Percent(r.RankScore)),
	}
	if it.ContentWeight != nil && it.CollabWeight != nil {
		m.ContentWeight = percentPtr(it.ContentWeight)
		m.CollabWeight = percentPtr(it.CollabWeight)
	}
	card.Metrics = m
	return card
}

// RecommendationCards renders ranked items in order.
func RecommendationCards(ranked []ranking.Ranked) []Card {
	cards := make([]Card, len(ranked))
	for i := range ranked {
		cards[i] = RecommendationCard(&ranked[i])
	}
	return cards
}

// MovieCards renders movies in order.
func MovieCards(movies []models.Movie) []Card {
	cards := make([]Card, len(movies))
	for i := range movies {
		cards[i] = MovieCard(&movies[i])
	}
	return cards
}

// Poster returns path or the poster placeholder.
func Poster(path *string) string {
	if path == nil || *path == "" {
		return PosterPlaceholder
	}
	return *path
}

// Rating formats a vote average to one decimal, or N/A when absent.
func Rating(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

// FormatDate renders a YYYY-MM-DD release date as "January 2, 2006".
// Dates in any other layout are shown as received.
func FormatDate(date *string) string {
	if date == nil || *date == "" {
		return UnknownReleaseDate
	}
	t, err := time.Parse(upstreamDateLayout, *date)
	if err != nil {
		return *date
	}
	return t.Format(displayDateLayout)
}

func genres(g models.GenreList) []string {
	if len(g) == 0 {
		return []string{}
	}
	return append([]string(nil), g...)
}

func percentPtr(v *float64) *int {
	if v == nil {
		return nil
	}
	return intPtr(ranking.Percent(*v))
}

func intPtr(v int) *int { return &v }
