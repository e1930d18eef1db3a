// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

// Package cache holds ranked recommendation sets in a durable store slot for
// a fixed time-to-live, scoped to the user they were fetched for.
//
// A slot holds a single entry. Writing replaces it; entries are never merged.
// A read returns the payload only when the stored owner matches and the entry
// is younger than the TTL. Anything else, including unreadable bytes, is a miss.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/movierex/internal/logging"
	"github.com/tomtom215/movierex/internal/metrics"
	"github.com/tomtom215/movierex/internal/models"
	"github.com/tomtom215/movierex/internal/storage"
	"github.com/tomtom215/movierex/internal/validation"
)

// DefaultTTL is the validity window of a cached recommendation set.
const DefaultTTL = 5 * time.Minute

// entry is the persisted slot layout. Timestamp is Unix milliseconds.
// Data must be present; an empty array is a valid payload, null is not.
type entry struct {
	UserID    int                         `json:"userId"`
	Data      []models.RecommendationItem `json:"data" validate:"required,dive"`
	Timestamp int64                       `json:"timestamp"`
}

// ResultCache is a single-entry, owner-scoped, TTL-bounded slot.
type ResultCache struct {
	store  storage.Store
	slot   string
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// Option customises a ResultCache.
type Option func(*ResultCache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *ResultCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(c *ResultCache) {
		if now != nil {
			c.now = now
		}
	}
}

// New returns a ResultCache over the given store slot.
func New(store storage.Store, slot string, opts ...Option) *ResultCache {
	c := &ResultCache{
		store:  store,
		slot:   slot,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: logging.WithComponent("cache").With().Str("slot", slot).Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Slot returns the storage key this cache writes to.
func (c *ResultCache) Slot() string {
	return c.slot
}

// TTL returns the validity window.
func (c *ResultCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached payload for ownerKey. ok is false when the slot is
// empty, belongs to another owner, has reached the TTL, or cannot be read.
func (c *ResultCache) Get(ctx context.Context, ownerKey int) (items []models.RecommendationItem, ok bool) {
	raw, err := c.store.Get(ctx, c.slot)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.miss(ownerKey, "absent")
		} else {
			c.logger.Warn().Err(err).Msg("cache read failed, treating as miss")
			c.miss(ownerKey, "error")
		}
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.logger.Debug().Err(err).Msg("malformed cache entry, treating as miss")
		c.miss(ownerKey, "malformed")
		return nil, false
	}
	if err := checkEntry(&e); err != nil {
		c.logger.Debug().Err(err).Msg("invalid cache entry, treating as miss")
		c.miss(ownerKey, "malformed")
		return nil, false
	}

	if e.UserID != ownerKey {
		c.miss(ownerKey, "owner")
		return nil, false
	}

	age := c.now().UnixMilli() - e.Timestamp
	if age >= c.ttl.Milliseconds() {
		c.miss(ownerKey, "expired")
		return nil, false
	}

	metrics.RecordCacheHit(c.slot)
	c.logger.Debug().Int("owner_key", ownerKey).Int64("age_ms", age).Int("items", len(e.Data)).Msg("cache hit")
	return e.Data, true
}

// Set replaces the slot with payload owned by ownerKey, stamped with the current time.
func (c *ResultCache) Set(ctx context.Context, ownerKey int, payload []models.RecommendationItem) error {
	if payload == nil {
		payload = []models.RecommendationItem{}
	}
	raw, err := json.Marshal(entry{
		UserID:    ownerKey,
		Data:      payload,
		Timestamp: c.now().UnixMilli(),
	})
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.slot, raw)
}

// Clear empties the slot.
func (c *ResultCache) Clear(ctx context.Context) error {
	return c.store.Remove(ctx, c.slot)
}

// checkEntry applies the same item rules the client enforces on fresh data.
func checkEntry(e *entry) error {
	if err := validation.Struct(e); err != nil {
		return err
	}
	for i := range e.Data {
		if _, ok := e.Data[i].ItemID(); !ok {
			return fmt.Errorf("item %d has no id", i)
		}
	}
	return nil
}

func (c *ResultCache) miss(ownerKey int, reason string) {
	metrics.RecordCacheMiss(c.slot, reason)
	c.logger.Debug().Int("owner_key", ownerKey).Str("reason", reason).Msg("cache miss")
}
