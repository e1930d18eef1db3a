// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/movierex/internal/models"
	"github.com/tomtom215/movierex/internal/ranking"
)

// DefaultDashboardTop is how many recommendations the dashboard lists.
const DefaultDashboardTop = 12

// NoGenreData is shown in place of the insight when a user has no genre data.
const NoGenreData = "No genre preferences data available for this user."

// EqualBlendFormula labels the dashboard match score.
const EqualBlendFormula = "(Content * 50% + Collaborative * 50%)"

// DashboardPanel is the rendered user dashboard.
type DashboardPanel struct {
	UserID          int                 `json:"user_id"`
	Genres          []GenreShare        `json:"genres"`
	Insight         string              `json:"insight"`
	Factors         []models.UserFactor `json:"factors"`
	SimilarUsers    []int               `json:"similar_users"`
	Recommendations []DashboardCard     `json:"recommendations"`
}

// GenreShare is one slice of the genre preference chart.
type GenreShare struct {
	Genre string  `json:"genre"`
	Value float64 `json:"value"`
}

// DashboardCard is a poster-less recommendation tile scored with the fixed
// 50/50 blend. Missing component scores count as zero.
type DashboardCard struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Genres  string `json:"genres"`
	Content int    `json:"content"`
	Collab  int    `json:"collab"`
	Match   int    `json:"match"`
	Formula string `json:"formula"`
}

// Dashboard renders d for userID. top <= 0 selects DefaultDashboardTop.
func Dashboard(userID int, d *models.Dashboard, top int) DashboardPanel {
	if top <= 0 {
		top = DefaultDashboardTop
	}

	p := DashboardPanel{
		UserID:          userID,
		Genres:          GenreShares(d.GenrePreferences),
		Factors:         []models.UserFactor(d.UserFactors),
		SimilarUsers:    d.SimilarUsers,
		Recommendations: []DashboardCard{},
	}
	if p.Factors == nil {
		p.Factors = []models.UserFactor{}
	}
	if p.SimilarUsers == nil {
		p.SimilarUsers = []int{}
	}
	p.Insight = GenreInsight(p.Genres, 3)

	recs := d.Recommendations
	if len(recs) > top {
		recs = recs[:top]
	}
	for i := range recs {
		p.Recommendations = append(p.Recommendations, dashboardCard(&recs[i]))
	}
	return p
}

// GenreShares orders genre preferences by value descending, then by name.
func GenreShares(prefs map[string]float64) []GenreShare {
	shares := make([]GenreShare, 0, len(prefs))
	for g, v := range prefs {
		shares = append(shares, GenreShare{Genre: g, Value: v})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Value != shares[j].Value {
			return shares[i].Value > shares[j].Value
		}
		return shares[i].Genre < shares[j].Genre
	})
	return shares
}

// GenreInsight names the first n genres of shares.
func GenreInsight(shares []GenreShare, n int) string {
	if len(shares) == 0 {
		return NoGenreData
	}
	if len(shares) > n {
		shares = shares[:n]
	}
	names := make([]string, len(shares))
	for i, s := range shares {
		names[i] = s.Genre
	}
	return fmt.Sprintf("Based on your viewing history and preferences, you seem to enjoy %s movies the most.",
		strings.Join(names, ", "))
}

func dashboardCard(it *models.RecommendationItem) DashboardCard {
	id, _ := it.ItemID()
	var content, collab float64
	if it.ContentScore != nil {
		content = *it.ContentScore
	}
	if it.CollabScore != nil {
		collab = *it.CollabScore
	}
	return DashboardCard{
		ID:      id,
		Title:   it.Title,
		Genres:  strings.Join(it.Genres, ", "),
		Content: ranking.Percent(content),
		Collab:  ranking.Percent(collab),
		Match:   ranking.Percent(ranking.EqualBlend(content, collab)),
		Formula: EqualBlendFormula,
	}
}
