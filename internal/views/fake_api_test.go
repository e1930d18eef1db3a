// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package views

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/movierex/internal/cache"
	"github.com/tomtom215/movierex/internal/client"
	"github.com/tomtom215/movierex/internal/inflight"
	"github.com/tomtom215/movierex/internal/models"
	"github.com/tomtom215/movierex/internal/session"
	"github.com/tomtom215/movierex/internal/storage"
)

// fakeAPI is a scriptable client.API. Unset hooks return empty results.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	popular         func(ctx context.Context, page, limit int) ([]models.Movie, error)
	search          func(ctx context.Context, query string, page int) ([]models.Movie, error)
	movie           func(ctx context.Context, id int) (*models.Movie, error)
	credits         func(ctx context.Context, id int) (*models.Credits, error)
	videos          func(ctx context.Context, id int) ([]models.Video, error)
	recommendations func(ctx context.Context, userID, limit int) ([]models.RecommendationItem, error)
	dashboard       func(ctx context.Context, userID int) (*models.Dashboard, error)
}

var _ client.API = (*fakeAPI)(nil)

func (f *fakeAPI) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
}

func (f *fakeAPI) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAPI) Popular(ctx context.Context, page, limit int) ([]models.Movie, error) {
	f.count("popular")
	if f.popular == nil {
		return nil, nil
	}
	return f.popular(ctx, page, limit)
}

func (f *fakeAPI) Search(ctx context.Context, query string, page int) ([]models.Movie, error) {
	f.count("search")
	if f.search == nil {
		return nil, nil
	}
	return f.search(ctx, query, page)
}

func (f *fakeAPI) Movie(ctx context.Context, id int) (*models.Movie, error) {
	f.count("movie")
	if f.movie == nil {
		return &models.Movie{ID: id, Title: "movie"}, nil
	}
	return f.movie(ctx, id)
}

func (f *fakeAPI) Credits(ctx context.Context, id int) (*models.Credits, error) {
	f.count("credits")
	if f.credits == nil {
		return &models.Credits{}, nil
	}
	return f.credits(ctx, id)
}

func (f *fakeAPI) Videos(ctx context.Context, id int) ([]models.Video, error) {
	f.count("videos")
	if f.videos == nil {
		return nil, nil
	}
	return f.videos(ctx, id)
}

func (f *fakeAPI) MoviesByIDs(ctx context.Context, ids []int) ([]models.Movie, error) {
	f.count("movies_by_ids")
	out := make([]models.Movie, len(ids))
	for i, id := range ids {
		out[i] = models.Movie{ID: id}
	}
	return out, nil
}

func (f *fakeAPI) Recommendations(ctx context.Context, userID, limit int) ([]models.RecommendationItem, error) {
	f.count("recommendations")
	if f.recommendations == nil {
		return nil, nil
	}
	return f.recommendations(ctx, userID, limit)
}

func (f *fakeAPI) Dashboard(ctx context.Context, userID int) (*models.Dashboard, error) {
	f.count("dashboard")
	if f.dashboard == nil {
		return &models.Dashboard{}, nil
	}
	return f.dashboard(ctx, userID)
}

type testEnv struct {
	api     *fakeAPI
	store   *storage.MemoryStore
	session *session.Store
	clock   *testClock
	views   *Views
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestEnv(t *testing.T, api *fakeAPI) *testEnv {
	t.Helper()
	store := storage.NewMemoryStore()
	clock := &testClock{t: time.UnixMilli(1_700_000_000_000)}
	sess := session.New(store, "")
	v := New(Deps{
		API:                  api,
		Session:              sess,
		Controller:           inflight.NewController(),
		HomeCache:            cache.New(store, "home_recommendations_cache", cache.WithClock(clock.Now)),
		RecommendationsCache: cache.New(store, "recommendations_cache", cache.WithClock(clock.Now)),
		Options:              DefaultOptions(),
	})
	return &testEnv{api: api, store: store, session: sess, clock: clock, views: v}
}

func (e *testEnv) login(t *testing.T, id int) {
	t.Helper()
	if _, err := e.session.Save(context.Background(), id); err != nil {
		t.Fatal(err)
	}
}

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

// scoredItems returns n items with descending final scores and ids 1..n.
func scoredItems(n int) []models.RecommendationItem {
	items := make([]models.RecommendationItem, n)
	for i := range items {
		items[i] = models.RecommendationItem{
			MovieID:    ip(i + 1),
			Title:      "rec",
			FinalScore: fp(0.99 - float64(i)*0.01),
		}
	}
	return items
}

func movies(ids ...int) []models.Movie {
	out := make([]models.Movie, len(ids))
	for i, id := range ids {
		out[i] = models.Movie{ID: id, Title: "popular"}
	}
	return out
}

func networkError(status int) error {
	return &client.NetworkError{Op: "test", Status: status, StatusText: "Internal Server Error"}
}
