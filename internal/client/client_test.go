// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(Config{BaseURL: srv.URL + "/api/v1/"})
}

func TestPopularBuildsQuery(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `[{"id":550,"title":"Fight Club","overview":"","poster_path":null,"release_date":"1999-10-15","vote_average":8.4,"genres":["Drama"]}]`)
	})

	movies, err := c.Popular(context.Background(), 0, 4)
	if err != nil {
		t.Fatalf("Popular: %v", err)
	}
	if gotPath != "/api/v1/movies/popular" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "limit=4&page=1" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(movies) != 1 || movies[0].ID != 550 || movies[0].PosterPath != nil {
		t.Errorf("unexpected movies %+v", movies)
	}
	if movies[0].VoteAverage == nil || *movies[0].VoteAverage != 8.4 {
		t.Errorf("vote average not decoded: %+v", movies[0].VoteAverage)
	}
}

func TestPopularOmitsZeroLimit(t *testing.T) {
	t.Parallel()

	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `[]`)
	})

	if _, err := c.Popular(context.Background(), 3, 0); err != nil {
		t.Fatal(err)
	}
	if gotQuery != "page=3" {
		t.Errorf("query = %q, want page=3", gotQuery)
	}
}

func TestSearchEscapesQuery(t *testing.T) {
	t.Parallel()

	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("query")
		_, _ = io.WriteString(w, `[]`)
	})

	if _, err := c.Search(context.Background(), "star wars & co", 2); err != nil {
		t.Fatal(err)
	}
	if got != "star wars & co" {
		t.Errorf("query = %q", got)
	}
}

func TestRecommendationsRequestAndSanitize(t *testing.T) {
	t.Parallel()

	var body map[string]int
	var method, contentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `[
			{"movieId": 1, "title": "ok", "final_score": 0.7, "genres": "Action|Drama"},
			{"title": "no id", "final_score": 0.9},
			{"id": 3, "title": "out of range", "content_score": 1.7},
			{"id": 4, "title": "unscored"}
		]`)
	})

	items, err := c.Recommendations(context.Background(), 42, 24)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if method != http.MethodPost || contentType != "application/json" {
		t.Errorf("method=%s content-type=%s", method, contentType)
	}
	if body["user_id"] != 42 || body["limit"] != 24 || body["n_recommendations"] != 24 {
		t.Errorf("request body = %v", body)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 surviving items, got %d", len(items))
	}
	if id, _ := items[0].ItemID(); id != 1 {
		t.Errorf("first item id = %d", id)
	}
	if len(items[0].Genres) != 2 {
		t.Errorf("genres = %v", items[0].Genres)
	}
	if id, _ := items[1].ItemID(); id != 4 {
		t.Errorf("unscored item should pass the boundary, got id %d", id)
	}
}

func TestNonOKStatusIsNetworkError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.Movie(context.Background(), 7)
	ne, ok := AsNetworkError(err)
	if !ok {
		t.Fatalf("expected NetworkError, got %T %v", err, err)
	}
	if ne.Status != 500 || ne.StatusText != "Internal Server Error" || ne.Op != "movie" {
		t.Errorf("unexpected error %+v", ne)
	}
	if !strings.Contains(err.Error(), "500 Internal Server Error") {
		t.Errorf("error message %q", err)
	}
	if IsCancelled(err) {
		t.Error("HTTP failure must not look like cancellation")
	}
}

func TestTransportErrorHasZeroStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(Config{BaseURL: url})
	_, err := c.Videos(context.Background(), 1)
	ne, ok := AsNetworkError(err)
	if !ok {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if ne.Status != 0 || !ne.Temporary() {
		t.Errorf("unexpected transport error %+v", ne)
	}
}

func TestCancellationIsDistinct(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.Recommendations(ctx, 1, 24)
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !IsCancelled(err) {
			t.Fatalf("expected cancellation, got %v", err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("cancellation should carry the context cause: %v", err)
		}
		if _, ok := AsNetworkError(err); ok {
			t.Error("cancellation must not be a NetworkError")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("request did not observe cancellation")
	}
}

func TestNoRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, _ = c.Dashboard(context.Background(), 5)
	if n := calls.Load(); n != 1 {
		t.Errorf("expected exactly one attempt, got %d", n)
	}
}

func TestMoviesByIDs(t *testing.T) {
	t.Parallel()

	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("ids")
		_, _ = io.WriteString(w, `[{"id":1,"title":"a"},{"id":2,"title":"b"}]`)
	})

	movies, err := c.MoviesByIDs(context.Background(), []int{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if got != "1,2" || len(movies) != 2 {
		t.Errorf("ids=%q movies=%d", got, len(movies))
	}

	none, err := c.MoviesByIDs(context.Background(), nil)
	if err != nil || none != nil {
		t.Errorf("empty ids should short-circuit, got %v %v", none, err)
	}
}

func TestDashboardDecodesAndSanitizes(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/dashboard/user/9" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{
			"recommendations": [{"movieId": 1, "content_score": 0.5, "collab_score": 0.3}, {"title": "orphan"}],
			"genre_preferences": {"Drama": 0.5},
			"user_factors": [0.1, 0.2],
			"similar_users": [3]
		}`)
	})

	d, err := c.Dashboard(context.Background(), 9)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Recommendations) != 1 || len(d.UserFactors) != 2 || d.UserFactors[1].Factor != "Factor 2" {
		t.Errorf("unexpected dashboard %+v", d)
	}
}
