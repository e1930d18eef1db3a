// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

// Package models defines the wire types exchanged with the recommendation
// service and persisted in the local store.
package models

import (
	"strings"

	"github.com/goccy/go-json"
)

// Movie is a title returned by the popular, search, detail and batch endpoints.
// Optional upstream fields are pointers so "absent" and "zero" stay distinct.
type Movie struct {
	ID          int       `json:"id" validate:"gt=0"`
	Title       string    `json:"title"`
	Overview    string    `json:"overview"`
	PosterPath  *string   `json:"poster_path"`
	ReleaseDate *string   `json:"release_date"`
	VoteAverage *float64  `json:"vote_average" validate:"omitempty,gte=0,lte=10"`
	Genres      GenreList `json:"genres"`
}

// GenreList decodes either a JSON array of names or a single "A|B" / "A, B"
// string, which is how the recommendation endpoint ships MovieLens genres.
type GenreList []string

// UnmarshalJSON accepts an array, a delimited string or null.
func (g *GenreList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*g = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = splitGenres(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*g = list
	return nil
}

func splitGenres(s string) GenreList {
	sep := ","
	if strings.Contains(s, "|") {
		sep = "|"
	}
	parts := strings.Split(s, sep)
	out := make(GenreList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" && p != "(no genres listed)" {
			out = append(out, p)
		}
	}
	return out
}

// CastMember is one credited actor.
type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
}

// CrewMember is one credited crew member.
type CrewMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Job         string  `json:"job"`
	Department  string  `json:"department"`
	ProfilePath *string `json:"profile_path"`
}

// Credits holds cast and crew for a movie.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Video is a trailer, teaser or clip attached to a movie.
type Video struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}
