// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package cache

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/movierex/internal/models"
	"github.com/tomtom215/movierex/internal/storage"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func item(id int, final float64) models.RecommendationItem {
	return models.RecommendationItem{ID: &id, FinalScore: &final, Title: "movie"}
}

func newTestCache(t *testing.T) (*ResultCache, *fakeClock, *storage.MemoryStore) {
	t.Helper()
	clock := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	store := storage.NewMemoryStore()
	return New(store, "recommendations_cache", WithClock(clock.Now)), clock, store
}

func TestGetWithinTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, clock, _ := newTestCache(t)

	if err := c.Set(ctx, 7, []models.RecommendationItem{item(1, 0.9), item(2, 0.5)}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	clock.Advance(299_999 * time.Millisecond)
	got, ok := c.Get(ctx, 7)
	if !ok {
		t.Fatal("expected hit 1ms before expiry")
	}
	if len(got) != 2 || *got[0].ID != 1 || *got[1].ID != 2 {
		t.Errorf("payload order not preserved: %+v", got)
	}
}

func TestGetExpiresExactlyAtTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, clock, _ := newTestCache(t)
	_ = c.Set(ctx, 7, []models.RecommendationItem{item(1, 0.9)})

	clock.Advance(300_000 * time.Millisecond)
	if _, ok := c.Get(ctx, 7); ok {
		t.Error("expected miss when age == TTL")
	}

	clock.Advance(time.Hour)
	if _, ok := c.Get(ctx, 7); ok {
		t.Error("expected miss long after TTL")
	}
}

func TestGetOwnerMismatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, _, _ := newTestCache(t)
	_ = c.Set(ctx, 7, []models.RecommendationItem{item(1, 0.9)})

	if _, ok := c.Get(ctx, 8); ok {
		t.Error("expected miss for a different owner even within TTL")
	}
	if _, ok := c.Get(ctx, 7); !ok {
		t.Error("owner mismatch read must not evict the entry")
	}
}

func TestSetReplacesNeverMerges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, _, _ := newTestCache(t)
	_ = c.Set(ctx, 7, []models.RecommendationItem{item(1, 0.9), item(2, 0.8)})
	_ = c.Set(ctx, 8, []models.RecommendationItem{item(3, 0.7)})

	if _, ok := c.Get(ctx, 7); ok {
		t.Error("previous owner's entry should have been replaced")
	}
	got, ok := c.Get(ctx, 8)
	if !ok || len(got) != 1 || *got[0].ID != 3 {
		t.Errorf("Get(8) = %+v, %v", got, ok)
	}
}

func TestMalformedDataIsMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, _, store := newTestCache(t)

	now := strconv.FormatInt(time.UnixMilli(1_700_000_000_000).UnixMilli(), 10)
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{not json"},
		{"wrong owner type", `{"userId":"seven"}`},
		{"array", `[]`},
		{"no data", `{"userId":7,"timestamp":` + now + `}`},
		{"null data", `{"userId":7,"data":null,"timestamp":` + now + `}`},
		{"score above one", `{"userId":7,"data":[{"id":1,"final_score":42,"title":"x"}],"timestamp":` + now + `}`},
		{"negative score", `{"userId":7,"data":[{"id":1,"content_score":-0.5,"title":"x"}],"timestamp":` + now + `}`},
		{"item without id", `{"userId":7,"data":[{"final_score":0.5,"title":"x"}],"timestamp":` + now + `}`},
	}

	for _, tt := range tests {
		if err := store.Set(ctx, c.Slot(), []byte(tt.raw)); err != nil {
			t.Fatal(err)
		}
		if items, ok := c.Get(ctx, 7); ok {
			t.Errorf("%s: expected miss, got hit with %d items", tt.name, len(items))
		}
	}

	valid := `{"userId":7,"data":[{"id":1,"final_score":0.5,"title":"x"}],"timestamp":` + now + `}`
	if err := store.Set(ctx, c.Slot(), []byte(valid)); err != nil {
		t.Fatal(err)
	}
	if items, ok := c.Get(ctx, 7); !ok || len(items) != 1 {
		t.Errorf("valid entry: Get = %d items, %v; want 1 item hit", len(items), ok)
	}
}

func TestEmptyPayloadIsAHit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, _, _ := newTestCache(t)
	_ = c.Set(ctx, 7, nil)

	got, ok := c.Get(ctx, 7)
	if !ok || len(got) != 0 {
		t.Errorf("Get = %v, %v; want empty hit", got, ok)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, _, _ := newTestCache(t)
	_ = c.Set(ctx, 7, []models.RecommendationItem{item(1, 0.9)})

	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(ctx, 7); ok {
		t.Error("expected miss after Clear")
	}
}

func TestEntryLayout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, _, store := newTestCache(t)
	_ = c.Set(ctx, 7, []models.RecommendationItem{item(1, 0.9)})

	raw, err := store.Get(ctx, "recommendations_cache")
	if err != nil {
		t.Fatal(err)
	}
	want := `{"userId":7,"data":[{"id":1,"final_score":0.9,"title":"movie"}],"timestamp":1700000000000}`
	if string(raw) != want {
		t.Errorf("stored entry\n got %s\nwant %s", raw, want)
	}
}

func TestSurvivesAcrossInstances(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := storage.OpenBadger(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	clock := &fakeClock{t: time.Now()}
	first := New(store, "home_recommendations_cache", WithClock(clock.Now))
	_ = first.Set(ctx, 3, []models.RecommendationItem{item(10, 0.4)})

	second := New(store, "home_recommendations_cache", WithClock(clock.Now))
	if _, ok := second.Get(ctx, 3); !ok {
		t.Error("expected a second cache over the same store slot to see the entry")
	}

	other := New(store, "recommendations_cache", WithClock(clock.Now))
	if _, ok := other.Get(ctx, 3); ok {
		t.Error("slots must be independent")
	}
}
