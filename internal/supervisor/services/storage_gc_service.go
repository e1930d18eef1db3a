// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierex/internal/logging"
	"github.com/tomtom215/movierex/internal/metrics"
	"github.com/tomtom215/movierex/internal/storage"
)

// GarbageCollector is a store with value log garbage collection.
// *storage.BadgerStore satisfies it.
type GarbageCollector interface {
	RunGC() (rewritten bool, err error)
}

// StorageGCService runs GarbageCollector.RunGC every interval.
type StorageGCService struct {
	store    GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
}

// NewStorageGCService creates the service. Non-positive intervals select 10m.
func NewStorageGCService(store GarbageCollector, interval time.Duration) *StorageGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StorageGCService{
		store:    store,
		interval: interval,
		logger:   logging.WithComponent("storage-gc"),
	}
}

// Serve collects on every tick until ctx ends. It returns early only when
// the store has been closed.
func (s *StorageGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.collect(); errors.Is(err, storage.ErrClosed) {
				return err
			}
		}
	}
}

func (s *StorageGCService) collect() error {
	start := time.Now()
	rewritten, err := s.store.RunGC()
	switch {
	case err != nil:
		metrics.StorageGCRuns.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Msg("value log gc failed")
	case rewritten:
		metrics.StorageGCRuns.WithLabelValues("rewritten").Inc()
		s.logger.Debug().Dur("elapsed", time.Since(start)).Msg("value log gc rewrote files")
	default:
		metrics.StorageGCRuns.WithLabelValues("noop").Inc()
	}
	return err
}

// String names the service in supervisor logs.
func (s *StorageGCService) String() string {
	return "storage-gc"
}
