// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package models

// RecommendationItem is one entry of a personalised recommendation list.
//
// The upstream identifies items by movieId (MovieLens responses) or id (TMDB
// shaped responses); ItemID resolves whichever is present. All scores are
// optional. Which of them determine the rank score is reported by Scoring.
type RecommendationItem struct {
	MovieID *int `json:"movieId,omitempty"`
	ID      *int `json:"id,omitempty"`

	ContentScore  *float64 `json:"content_score,omitempty" validate:"omitempty,gte=0,lte=1"`
	CollabScore   *float64 `json:"collab_score,omitempty" validate:"omitempty,gte=0,lte=1"`
	ContentWeight *float64 `json:"content_weight,omitempty" validate:"omitempty,gte=0"`
	CollabWeight  *float64 `json:"collab_weight,omitempty" validate:"omitempty,gte=0"`
	FinalScore    *float64 `json:"final_score,omitempty" validate:"omitempty,gte=0,lte=1"`

	// Display pass-through.
	Title       string    `json:"title"`
	Overview    string    `json:"overview,omitempty"`
	PosterPath  *string   `json:"poster_path,omitempty"`
	ReleaseDate *string   `json:"release_date,omitempty"`
	VoteAverage *float64  `json:"vote_average,omitempty"`
	Genres      GenreList `json:"genres,omitempty"`
}

// ItemID returns movieId, falling back to id. ok is false when neither is set.
func (r *RecommendationItem) ItemID() (id int, ok bool) {
	switch {
	case r.MovieID != nil:
		return *r.MovieID, true
	case r.ID != nil:
		return *r.ID, true
	default:
		return 0, false
	}
}

// ScoringKind says which fields of an item produce its rank score.
type ScoringKind uint8

const (
	// ScoringNone means the item carries neither a full blend nor a final score.
	ScoringNone ScoringKind = iota
	// ScoringBlended means both component scores and both weights are present.
	ScoringBlended
	// ScoringFinal means only the server's pre-blended final score is usable.
	ScoringFinal
)

// String returns the kind name used in logs and API output.
func (k ScoringKind) String() string {
	switch k {
	case ScoringBlended:
		return "blended"
	case ScoringFinal:
		return "final"
	default:
		return "none"
	}
}

// Scoring is the resolved scoring input of one item. Only the fields relevant
// to Kind are populated.
type Scoring struct {
	Kind          ScoringKind
	Content       float64
	Collab        float64
	ContentWeight float64
	CollabWeight  float64
	Final         float64
}

// Scoring resolves which score fields apply. The blend wins whenever all four
// of its inputs are present, even if a final score is also supplied.
func (r *RecommendationItem) Scoring() Scoring {
	if r.ContentScore != nil && r.CollabScore != nil && r.ContentWeight != nil && r.CollabWeight != nil {
		return Scoring{
			Kind:          ScoringBlended,
			Content:       *r.ContentScore,
			Collab:        *r.CollabScore,
			ContentWeight: *r.ContentWeight,
			CollabWeight:  *r.CollabWeight,
		}
	}
	if r.FinalScore != nil {
		return Scoring{Kind: ScoringFinal, Final: *r.FinalScore}
	}
	return Scoring{Kind: ScoringNone}
}

// CurrentUser is the logged-in user persisted in the session slot.
type CurrentUser struct {
	ID int `json:"id" validate:"gt=0"`
}
