// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/movierex/internal/validation"
)

// maxBodyBytes caps request bodies; the only body is a session login.
const maxBodyBytes = 4 << 10

// SessionRequest logs a user in.
type SessionRequest struct {
	UserID int `json:"user_id" validate:"gt=0"`
}

// decodeSessionRequest reads and validates a SessionRequest body.
func decodeSessionRequest(r *http.Request) (*SessionRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	var req SessionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// queryPage reads the optional page query parameter. present is false when
// the parameter is absent or empty.
func queryPage(r *http.Request) (page int, present bool, err error) {
	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	if raw == "" {
		return 0, false, nil
	}
	page, err = positiveInt("page", raw)
	if err != nil {
		return 0, false, err
	}
	return page, true, nil
}

// pathID reads a positive integer path parameter.
func pathID(r *http.Request, name string) (int, error) {
	return positiveInt(name, chi.URLParam(r, name))
}

func positiveInt(param, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &ParamError{Param: param, Value: raw}
	}
	return n, nil
}
