// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package render

import "github.com/tomtom215/movierex/internal/paginate"

// WindowSpan is the number of numbered page links shown at once.
const WindowSpan = 5

// Grid splits cards into rows of columns. The last row may be short.
func Grid[T any](cards []T, columns int) [][]T {
	if columns <= 0 {
		columns = 1
	}
	rows := make([][]T, 0, (len(cards)+columns-1)/columns)
	for start := 0; start < len(cards); start += columns {
		end := min(start+columns, len(cards))
		rows = append(rows, cards[start:end])
	}
	return rows
}

// Pagination is the previous / numbered / next control strip.
type Pagination struct {
	Current  int        `json:"current"`
	Total    int        `json:"total"`
	Previous *int       `json:"previous,omitempty"`
	Next     *int       `json:"next,omitempty"`
	Pages    []PageLink `json:"pages"`
}

// PageLink is one numbered link.
type PageLink struct {
	Page   int  `json:"page"`
	Active bool `json:"active"`
}

// Controls renders the pagination strip. It returns nil when there is at
// most one page, in which case no controls are drawn.
func Controls(current, total int) *Pagination {
	if total <= 1 {
		return nil
	}
	p := &Pagination{Current: current, Total: total}
	if current > 1 {
		p.Previous = intPtr(current - 1)
	}
	if current < total {
		p.Next = intPtr(current + 1)
	}
	for _, n := range paginate.Window(current, total, WindowSpan) {
		p.Pages = append(p.Pages, PageLink{Page: n, Active: n == current})
	}
	return p
}
