// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

// Package storage is the durable key-value store behind the result cache and
// the session slot. Values are opaque byte blobs under fixed string keys.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("storage: store is closed")

// Store is a flat key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Type selects the Store backend.
type Type string

const (
	// TypeBadger persists to a BadgerDB directory and survives restarts.
	TypeBadger Type = "badger"

	// TypeMemory keeps values in process memory only.
	TypeMemory Type = "memory"
)

// Open returns the store named by storeType. path is only used by badger.
func Open(storeType Type, path string) (Store, error) {
	switch storeType {
	case TypeBadger:
		return OpenBadger(path)
	case TypeMemory, "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown store type %q", storeType)
	}
}
