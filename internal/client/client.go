// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

// Package client talks to the remote movie recommendation service.
//
// Every call makes exactly one attempt. A non-2xx response or transport
// failure surfaces as *NetworkError; a call abandoned through its context
// surfaces as an error matching ErrCancelled, which callers treat as
// "no result" rather than as a failure.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/movierex/internal/logging"
	"github.com/tomtom215/movierex/internal/metrics"
	"github.com/tomtom215/movierex/internal/models"
	"github.com/tomtom215/movierex/internal/validation"
)

// API is the set of remote operations the views depend on.
type API interface {
	Popular(ctx context.Context, page, limit int) ([]models.Movie, error)
	Search(ctx context.Context, query string, page int) ([]models.Movie, error)
	Movie(ctx context.Context, id int) (*models.Movie, error)
	Credits(ctx context.Context, id int) (*models.Credits, error)
	Videos(ctx context.Context, id int) ([]models.Video, error)
	MoviesByIDs(ctx context.Context, ids []int) ([]models.Movie, error)
	Recommendations(ctx context.Context, userID, limit int) ([]models.RecommendationItem, error)
	Dashboard(ctx context.Context, userID int) (*models.Dashboard, error)
}

// Config configures an HTTPClient.
type Config struct {
	// BaseURL is the API root, e.g. http://127.0.0.1:8000/api/v1.
	BaseURL string

	// Timeout bounds one request. Zero leaves requests unbounded.
	Timeout time.Duration

	// RateLimitRPS paces outbound requests; zero disables pacing.
	RateLimitRPS   float64
	RateLimitBurst int

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
}

// HTTPClient implements API over HTTP/JSON.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

var _ API = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the service at cfg.BaseURL.
func NewHTTPClient(cfg Config) *HTTPClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	return &HTTPClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logging.WithComponent("client"),
	}
}

// Popular returns one page of popular movies. limit is omitted when zero.
func (c *HTTPClient) Popular(ctx context.Context, page, limit int) ([]models.Movie, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(pageOrFirst(page)))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var movies []models.Movie
	if err := c.do(ctx, "popular", http.MethodGet, "/movies/popular", q, nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// Search returns one page of movies matching query.
func (c *HTTPClient) Search(ctx context.Context, query string, page int) ([]models.Movie, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(pageOrFirst(page)))

	var movies []models.Movie
	if err := c.do(ctx, "search", http.MethodGet, "/movies/search", q, nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// Movie returns the details of one movie.
func (c *HTTPClient) Movie(ctx context.Context, id int) (*models.Movie, error) {
	var movie models.Movie
	if err := c.do(ctx, "movie", http.MethodGet, "/movies/"+strconv.Itoa(id), nil, nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Credits returns cast and crew for a movie.
func (c *HTTPClient) Credits(ctx context.Context, id int) (*models.Credits, error) {
	var credits models.Credits
	path := "/movies/" + strconv.Itoa(id) + "/credits"
	if err := c.do(ctx, "credits", http.MethodGet, path, nil, nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// Videos returns the videos attached to a movie.
func (c *HTTPClient) Videos(ctx context.Context, id int) ([]models.Video, error) {
	var videos []models.Video
	path := "/movies/" + strconv.Itoa(id) + "/videos"
	if err := c.do(ctx, "videos", http.MethodGet, path, nil, nil, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// MoviesByIDs fetches details for several movies in one call. The upstream
// silently skips ids it cannot resolve.
func (c *HTTPClient) MoviesByIDs(ctx context.Context, ids []int) ([]models.Movie, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	q := url.Values{}
	q.Set("ids", strings.Join(parts, ","))

	var movies []models.Movie
	if err := c.do(ctx, "movies_by_ids", http.MethodGet, "/movies/details", q, nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

type recommendationRequest struct {
	UserID int `json:"user_id"`
	Limit  int `json:"limit"`
	// NRecommendations is the name the upstream model actually reads.
	NRecommendations int `json:"n_recommendations"`
}

// Recommendations returns up to limit personalised items for userID, in the
// upstream's order. Items without an id or with out-of-range scores are dropped.
func (c *HTTPClient) Recommendations(ctx context.Context, userID, limit int) ([]models.RecommendationItem, error) {
	body := recommendationRequest{UserID: userID, Limit: limit, NRecommendations: limit}

	var items []models.RecommendationItem
	if err := c.do(ctx, "recommendations", http.MethodPost, "/recommendations", nil, body, &items); err != nil {
		return nil, err
	}
	return c.sanitize(ctx, items), nil
}

// Dashboard returns the per-user analysis.
func (c *HTTPClient) Dashboard(ctx context.Context, userID int) (*models.Dashboard, error) {
	var d models.Dashboard
	path := "/dashboard/user/" + strconv.Itoa(userID)
	if err := c.do(ctx, "dashboard", http.MethodGet, path, nil, nil, &d); err != nil {
		return nil, err
	}
	d.Recommendations = c.sanitize(ctx, d.Recommendations)
	return &d, nil
}

// sanitize drops items the rest of the pipeline cannot key or trust.
func (c *HTTPClient) sanitize(ctx context.Context, items []models.RecommendationItem) []models.RecommendationItem {
	out := items[:0]
	for i := range items {
		item := items[i]
		if _, ok := item.ItemID(); !ok {
			metrics.RemoteItemsDropped.WithLabelValues("missing_id").Inc()
			logging.Ctx(ctx).Warn().Int("index", i).Str("title", item.Title).Msg("dropping recommendation without id")
			continue
		}
		if err := validation.Struct(&item); err != nil {
			metrics.RemoteItemsDropped.WithLabelValues("invalid").Inc()
			logging.Ctx(ctx).Warn().Err(err).Int("index", i).Msg("dropping invalid recommendation")
			continue
		}
		out = append(out, item)
	}
	return out
}

// do performs one request and decodes a JSON response into out.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.RecordRemoteRequest(op, outcome, time.Since(start))
		if outcome == "cancelled" {
			logging.Ctx(ctx).Debug().Str("op", op).Msg("remote request cancelled")
		}
	}()

	if c.limiter != nil {
		if werr := c.limiter.Wait(ctx); werr != nil {
			if ctx.Err() != nil {
				outcome = "cancelled"
				return cancelled(ctx, op)
			}
			outcome = "transport_error"
			return &NetworkError{Op: op, StatusText: "rate limited", Err: werr}
		}
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader = http.NoBody
	if body != nil {
		data, merr := json.Marshal(body)
		if merr != nil {
			outcome = "transport_error"
			return fmt.Errorf("%s: marshal request: %w", op, merr)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		outcome = "transport_error"
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := logging.RequestIDFromContext(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			outcome = "cancelled"
			return cancelled(ctx, op)
		}
		outcome = "transport_error"
		return &NetworkError{Op: op, StatusText: "transport error", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "http_error"
		c.logger.Debug().Str("op", op).Int("status", resp.StatusCode).Msg("remote request failed")
		return &NetworkError{Op: op, Status: resp.StatusCode, StatusText: statusText(resp)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			outcome = "cancelled"
			return cancelled(ctx, op)
		}
		outcome = "transport_error"
		return &NetworkError{Op: op, Status: resp.StatusCode, StatusText: "invalid response body", Err: err}
	}

	return nil
}

// statusText strips the numeric prefix from resp.Status ("404 Not Found").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func pageOrFirst(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
