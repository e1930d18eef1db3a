// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/movierex/internal/inflight"
	"github.com/tomtom215/movierex/internal/logging"
	"github.com/tomtom215/movierex/internal/validation"
)

// respondView writes the outcome of a view load. A superseded load answers
// with the view state left by the newer load. A load cancelled because the
// caller went away writes nothing.
func respondView(w http.ResponseWriter, r *http.Request, snapshot interface{}, err error) {
	rw := NewResponseWriter(w, r)
	switch {
	case err == nil:
		rw.Success(snapshot)
	case errors.Is(err, inflight.ErrSuperseded):
		rw.Superseded(snapshot)
	case r.Context().Err() != nil:
		logging.Ctx(r.Context()).Debug().Err(err).Msg("client went away before the view loaded")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("view load returned an unexpected error")
		rw.InternalError("Failed to load view")
	}
}

// respondRequestError maps request parsing failures to 400 responses.
func respondRequestError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)

	var verr *validation.Errors
	if errors.As(err, &verr) {
		rw.ValidationError(verr.Error(), verr.Details())
		return
	}

	var perr *ParamError
	if errors.As(err, &perr) {
		rw.ValidationError(perr.Error(), map[string]interface{}{"field": perr.Param, "value": perr.Value})
		return
	}

	rw.BadRequest(err.Error())
}

// withView tags the request context with the view key for logging.
func withView(r *http.Request, view string) context.Context {
	return logging.ContextWithView(r.Context(), view)
}
