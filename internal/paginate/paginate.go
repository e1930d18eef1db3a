// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

// Package paginate slices ranked lists into fixed-size, 1-based pages.
//
// The page count is capped by a configured maximum: with 8 items per page and
// at most 3 pages, items past the 24th are never reachable through paging.
package paginate

import "sync"

// TotalPages returns min(ceil(length/pageSize), maxPages). A non-positive
// maxPages means no ceiling. A non-positive pageSize yields 0.
func TotalPages(length, pageSize, maxPages int) int {
	if length <= 0 || pageSize <= 0 {
		return 0
	}
	total := (length + pageSize - 1) / pageSize
	if maxPages > 0 && total > maxPages {
		total = maxPages
	}
	return total
}

// Paginate returns page pageIndex (1-based) of seq. Out-of-range indexes
// return an empty, non-nil slice. The result aliases seq.
func Paginate[T any](seq []T, pageSize, pageIndex int) []T {
	if pageSize <= 0 || pageIndex < 1 {
		return []T{}
	}
	start := (pageIndex - 1) * pageSize
	if start >= len(seq) {
		return []T{}
	}
	end := min(start+pageSize, len(seq))
	return seq[start:end]
}

// Window returns the numbered page links shown around current: at most span
// consecutive pages, centred on current where possible and clamped to
// [1, total]. It returns nil when total is 1 or less.
func Window(current, total, span int) []int {
	if total <= 1 || span <= 0 {
		return nil
	}
	start := max(1, current-span/2)
	end := min(total, start+span-1)
	if end-start < span-1 {
		start = max(1, end-span+1)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Pager holds the current page of one result set. The page survives repeated
// renders of the same set and goes back to 1 on Reset.
type Pager struct {
	PageSize int
	MaxPages int

	mu      sync.Mutex
	current int
	length  int
}

// NewPager returns a Pager on page 1 of an empty set.
func NewPager(pageSize, maxPages int) *Pager {
	return &Pager{PageSize: pageSize, MaxPages: maxPages, current: 1}
}

// Reset starts a new result set of the given length on page 1.
func (p *Pager) Reset(length int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = 1
	p.length = length
}

// Current returns the current 1-based page.
func (p *Pager) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current < 1 {
		return 1
	}
	return p.current
}

// Total returns the page count of the current result set.
func (p *Pager) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return TotalPages(p.length, p.PageSize, p.MaxPages)
}

// SetPage moves to page n. It reports false and leaves the page unchanged
// when n is outside [1, Total()].
func (p *Pager) SetPage(n int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n < 1 || n > TotalPages(p.length, p.PageSize, p.MaxPages) {
		return false
	}
	p.current = n
	return true
}

// Page returns the current page of seq.
func Page[T any](p *Pager, seq []T) []T {
	return Paginate(seq, p.PageSize, p.Current())
}
