// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

// Package ranking turns the upstream's per-item scores into one comparable
// rank score and orders a recommendation list by it.
//
// An item's rank score comes from the first rule that applies:
//
//  1. content, collab and both weights present: content*cw + collab*cbw
//  2. final score present: the final score
//  3. otherwise the item is dropped
//
// Items whose rank score is not strictly positive are dropped as well. The
// survivors are ordered by rank score descending; equal scores keep their
// input order.
package ranking

import (
	"math"
	"sort"

	"github.com/tomtom215/movierex/internal/models"
)

// Ranked is an item with its computed rank score.
type Ranked struct {
	Item      models.RecommendationItem `json:"item"`
	RankScore float64                   `json:"rank_score"`
	Source    models.ScoringKind        `json:"-"`
}

// Score computes the rank score of item. ok is false when the item carries
// neither a full blend nor a final score.
func Score(item *models.RecommendationItem) (score float64, kind models.ScoringKind, ok bool) {
	s := item.Scoring()
	switch s.Kind {
	case models.ScoringBlended:
		return s.Content*s.ContentWeight + s.Collab*s.CollabWeight, s.Kind, true
	case models.ScoringFinal:
		return s.Final, s.Kind, true
	default:
		return 0, models.ScoringNone, false
	}
}

// Rank scores items, drops those without a usable positive score, and sorts
// the rest by rank score descending. The input is not modified.
func Rank(items []models.RecommendationItem) []Ranked {
	ranked := make([]Ranked, 0, len(items))
	for i := range items {
		score, kind, ok := Score(&items[i])
		if !ok || !(score > 0) {
			continue
		}
		ranked = append(ranked, Ranked{Item: items[i], RankScore: score, Source: kind})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RankScore > ranked[j].RankScore
	})
	return ranked
}

// Dropped returns how many of n input items Rank excluded.
func Dropped(n int, ranked []Ranked) int {
	return n - len(ranked)
}

// Strip returns the items of ranked in rank order, without scores.
func Strip(ranked []Ranked) []models.RecommendationItem {
	out := make([]models.RecommendationItem, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].Item
	}
	return out
}

// Percent converts a [0,1] score to a whole display percentage.
func Percent(score float64) int {
	return int(math.Round(score * 100))
}

// EqualBlend is the fixed 50/50 blend shown on the dashboard.
func EqualBlend(content, collab float64) float64 {
	return content*0.5 + collab*0.5
}
