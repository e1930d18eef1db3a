// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

// Package session persists the "current logged-in user" slot.
//
// There is no authentication: logging in records a user id that scopes the
// personalised views. The slot holds {"id": n}.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movierex/internal/logging"
	"github.com/tomtom215/movierex/internal/models"
	"github.com/tomtom215/movierex/internal/storage"
	"github.com/tomtom215/movierex/internal/validation"
)

// DefaultKey is the storage key of the session slot.
const DefaultKey = "movie_rex_user"

// Store reads and writes the session slot.
type Store struct {
	store storage.Store
	key   string
}

// New returns a Store over key. An empty key selects DefaultKey.
func New(store storage.Store, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{store: store, key: key}
}

// Save records userID as the current user.
func (s *Store) Save(ctx context.Context, userID int) (models.CurrentUser, error) {
	user := models.CurrentUser{ID: userID}
	if err := validation.Struct(&user); err != nil {
		return models.CurrentUser{}, err
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return models.CurrentUser{}, fmt.Errorf("marshal session: %w", err)
	}
	if err := s.store.Set(ctx, s.key, raw); err != nil {
		return models.CurrentUser{}, fmt.Errorf("save session: %w", err)
	}

	logging.Ctx(ctx).Info().Int("user_id", userID).Msg("user logged in")
	return user, nil
}

// Current returns the logged-in user. ok is false when nobody is logged in or
// the slot does not hold a usable id.
func (s *Store) Current(ctx context.Context) (user models.CurrentUser, ok bool) {
	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logging.Ctx(ctx).Warn().Err(err).Msg("session read failed")
		}
		return models.CurrentUser{}, false
	}

	if err := json.Unmarshal(raw, &user); err != nil {
		return models.CurrentUser{}, false
	}
	if validation.Struct(&user) != nil {
		return models.CurrentUser{}, false
	}
	return user, true
}

// Clear logs the current user out.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	logging.Ctx(ctx).Info().Msg("user logged out")
	return nil
}
