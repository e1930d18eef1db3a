// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package client

import (
	"context"
	"errors"
	"fmt"
)

// ErrCancelled marks a call abandoned because its context was cancelled.
// It is not a failure: callers drop the result and leave their state as is.
var ErrCancelled = errors.New("request cancelled")

// NetworkError reports a non-2xx response or a transport failure.
// Status is 0 when no response was received.
type NetworkError struct {
	Op         string
	Status     int
	StatusText string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
		}
		return fmt.Sprintf("%s: network error: %s", e.Op, e.StatusText)
	}
	return fmt.Sprintf("%s: network response was not ok: %d %s", e.Op, e.Status, e.StatusText)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the failure is worth counting against the
// upstream's health: transport errors and 5xx are, 4xx are caller mistakes.
func (e *NetworkError) Temporary() bool {
	return e.Status == 0 || e.Status >= 500
}

// IsCancelled reports whether err is a cancellation rather than a failure.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// AsNetworkError unwraps err to a *NetworkError.
func AsNetworkError(err error) (*NetworkError, bool) {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

// cancelled wraps the context error of a call abandoned mid-flight.
func cancelled(ctx context.Context, op string) error {
	return fmt.Errorf("%s: %w: %w", op, ErrCancelled, context.Cause(ctx))
}
