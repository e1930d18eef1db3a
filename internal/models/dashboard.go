// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Dashboard is the per-user analysis returned by /dashboard/user/{id}.
type Dashboard struct {
	Recommendations  []RecommendationItem `json:"recommendations"`
	GenrePreferences map[string]float64   `json:"genre_preferences"`
	UserFactors      UserFactors          `json:"user_factors"`
	SimilarUsers     []int                `json:"similar_users"`
}

// UserFactor is one dimension of the user's latent taste vector.
type UserFactor struct {
	Factor string  `json:"factor"`
	Value  float64 `json:"value"`
}

// UserFactors decodes either labelled {factor, value} objects or a bare array
// of numbers; bare numbers are labelled "Factor 1", "Factor 2", ...
type UserFactors []UserFactor

// UnmarshalJSON accepts both shapes, mixed element by element.
func (u *UserFactors) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*u = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("user_factors: %w", err)
	}

	out := make(UserFactors, 0, len(raw))
	for i, elem := range raw {
		if len(elem) > 0 && elem[0] == '{' {
			var f UserFactor
			if err := json.Unmarshal(elem, &f); err != nil {
				return fmt.Errorf("user_factors[%d]: %w", i, err)
			}
			if f.Factor == "" {
				f.Factor = fmt.Sprintf("Factor %d", i+1)
			}
			out = append(out, f)
			continue
		}

		var v float64
		if err := json.Unmarshal(elem, &v); err != nil {
			return fmt.Errorf("user_factors[%d]: %w", i, err)
		}
		out = append(out, UserFactor{Factor: fmt.Sprintf("Factor %d", i+1), Value: v})
	}
	*u = out
	return nil
}
