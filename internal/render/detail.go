// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package render

import (
	"net/url"
	"strings"

	"github.com/tomtom215/movierex/internal/models"
)

// DefaultCastLimit is how many cast members a detail page lists.
const DefaultCastLimit = 10

const (
	youtubeWatchURL = "https://www.youtube.com/watch?v="
	youtubeEmbedURL = "https://www.youtube.com/embed/"
)

// Detail is the full page of one movie.
type Detail struct {
	Card
	Overview string      `json:"overview"`
	Cast     []CastCard  `json:"cast"`
	Videos   []VideoLink `json:"videos"`
	// Trailer is the first playable video, embedded at the top of the page.
	Trailer *VideoLink `json:"trailer,omitempty"`
}

// CastCard is one cast member.
type CastCard struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Photo     string `json:"photo"`
}

// VideoLink points at a YouTube trailer or teaser.
type VideoLink struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	WatchURL string `json:"watch_url"`
	EmbedURL string `json:"embed_url"`
}

// DetailPage renders a movie with its credits and videos. credits may be nil.
// castLimit <= 0 selects DefaultCastLimit.
func DetailPage(m *models.Movie, credits *models.Credits, videos []models.Video, castLimit int) Detail {
	if castLimit <= 0 {
		castLimit = DefaultCastLimit
	}

	d := Detail{
		Card:     MovieCard(m),
		Overview: m.Overview,
		Cast:     []CastCard{},
		Videos:   Trailers(videos),
	}
	if strings.TrimSpace(d.Overview) == "" {
		d.Overview = NoOverview
	}

	if credits != nil {
		cast := credits.Cast
		if len(cast) > castLimit {
			cast = cast[:castLimit]
		}
		for _, c := range cast {
			photo := ProfilePlaceholder
			if c.ProfilePath != nil && *c.ProfilePath != "" {
				photo = *c.ProfilePath
			}
			d.Cast = append(d.Cast, CastCard{Name: c.Name, Character: c.Character, Photo: photo})
		}
	}

	if len(d.Videos) > 0 {
		first := d.Videos[0]
		d.Trailer = &first
	}
	return d
}

// Trailers keeps the YouTube trailers and teasers of videos, in order.
func Trailers(videos []models.Video) []VideoLink {
	links := []VideoLink{}
	for _, v := range videos {
		if !strings.EqualFold(v.Site, "youtube") || v.Key == "" {
			continue
		}
		typ := strings.ToLower(v.Type)
		if typ != "trailer" && typ != "teaser" {
			continue
		}
		key := url.PathEscape(v.Key)
		links = append(links, VideoLink{
			Name:     v.Name,
			Type:     v.Type,
			WatchURL: youtubeWatchURL + url.QueryEscape(v.Key),
			EmbedURL: youtubeEmbedURL + key,
		})
	}
	return links
}
