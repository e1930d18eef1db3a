// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/movierex/internal/logging"
	"github.com/tomtom215/movierex/internal/metrics"
	"github.com/tomtom215/movierex/internal/models"
)

var _ API = (*CircuitBreakerClient)(nil)

// CircuitBreakerClient wraps an API with a circuit breaker so a failing
// upstream is not hammered by every view load.
//
// The breaker never retries. It only short-circuits calls while open, and
// those rejections surface as a 503 NetworkError so views handle them like
// any other failed fetch.
type CircuitBreakerClient struct {
	next API
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewCircuitBreakerClient wraps next.
// Circuit breaker configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
//   - 4xx responses and cancellations do not count as failures
func NewCircuitBreakerClient(next API) *CircuitBreakerClient {
	name := "recommendation-api"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening recommendation API circuit")
				return true
			}
			return false
		},

		IsSuccessful: isSuccessful,

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] Recommendation API state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{next: next, cb: cb, name: name}
}

// isSuccessful decides what the breaker counts as an upstream failure.
func isSuccessful(err error) bool {
	if err == nil || IsCancelled(err) {
		return true
	}
	if ne, ok := AsNetworkError(err); ok {
		return !ne.Temporary()
	}
	return false
}

// State returns the current breaker state name.
func (c *CircuitBreakerClient) State() string {
	return stateToString(c.cb.State())
}

func execute[T any](c *CircuitBreakerClient, op string, fn func() (T, error)) (T, error) {
	var zero T

	result, err := c.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
			logging.Warn().Err(err).Str("op", op).Msg("[CIRCUIT BREAKER] Recommendation API request rejected")
			return zero, &NetworkError{
				Op:         op,
				Status:     http.StatusServiceUnavailable,
				StatusText: "circuit breaker open",
				Err:        err,
			}
		}
		if isSuccessful(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
		}
		return zero, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
	typed, ok := result.(T)
	if !ok && result != nil {
		return zero, errors.New("circuit breaker: unexpected result type for " + op)
	}
	return typed, nil
}

func (c *CircuitBreakerClient) Popular(ctx context.Context, page, limit int) ([]models.Movie, error) {
	return execute(c, "popular", func() ([]models.Movie, error) {
		return c.next.Popular(ctx, page, limit)
	})
}

func (c *CircuitBreakerClient) Search(ctx context.Context, query string, page int) ([]models.Movie, error) {
	return execute(c, "search", func() ([]models.Movie, error) {
		return c.next.Search(ctx, query, page)
	})
}

func (c *CircuitBreakerClient) Movie(ctx context.Context, id int) (*models.Movie, error) {
	return execute(c, "movie", func() (*models.Movie, error) {
		return c.next.Movie(ctx, id)
	})
}

func (c *CircuitBreakerClient) Credits(ctx context.Context, id int) (*models.Credits, error) {
	return execute(c, "credits", func() (*models.Credits, error) {
		return c.next.Credits(ctx, id)
	})
}

func (c *CircuitBreakerClient) Videos(ctx context.Context, id int) ([]models.Video, error) {
	return execute(c, "videos", func() ([]models.Video, error) {
		return c.next.Videos(ctx, id)
	})
}

func (c *CircuitBreakerClient) MoviesByIDs(ctx context.Context, ids []int) ([]models.Movie, error) {
	return execute(c, "movies_by_ids", func() ([]models.Movie, error) {
		return c.next.MoviesByIDs(ctx, ids)
	})
}

func (c *CircuitBreakerClient) Recommendations(ctx context.Context, userID, limit int) ([]models.RecommendationItem, error) {
	return execute(c, "recommendations", func() ([]models.RecommendationItem, error) {
		return c.next.Recommendations(ctx, userID, limit)
	})
}

func (c *CircuitBreakerClient) Dashboard(ctx context.Context, userID int) (*models.Dashboard, error) {
	return execute(c, "dashboard", func() (*models.Dashboard, error) {
		return c.next.Dashboard(ctx, userID)
	})
}

// stateToFloat converts circuit breaker state to a gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
