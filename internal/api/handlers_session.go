// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/movierex/internal/validation"
)

// SessionResponse describes who is logged in.
type SessionResponse struct {
	LoggedIn bool `json:"logged_in"`
	UserID   int  `json:"user_id,omitempty"`
}

// GetSession reports the current user.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	user, ok := h.session.Current(r.Context())
	WriteSuccess(w, r, SessionResponse{LoggedIn: ok, UserID: user.ID})
}

// PutSession logs a user in.
func (h *Handler) PutSession(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSessionRequest(r)
	if err != nil {
		respondRequestError(w, r, err)
		return
	}

	user, err := h.session.Save(r.Context(), req.UserID)
	if err != nil {
		var verr *validation.Errors
		if errors.As(err, &verr) {
			respondRequestError(w, r, err)
			return
		}
		NewResponseWriter(w, r).StorageError(err)
		return
	}
	WriteSuccess(w, r, SessionResponse{LoggedIn: true, UserID: user.ID})
}

// DeleteSession logs the current user out.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Clear(r.Context()); err != nil {
		NewResponseWriter(w, r).StorageError(err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}
