// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

// Package config loads MovieRex configuration from defaults, an optional YAML
// file and environment variables, in that order of precedence (env wins).
//
// Environment variables use flat legacy-style names (MOVIEREX_API_URL,
// CACHE_TTL, HTTP_PORT, ...); see envTransformFunc for the full mapping.
package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	API     APIConfig     `koanf:"api"`
	Cache   CacheConfig   `koanf:"cache"`
	Storage StorageConfig `koanf:"storage"`
	Views   ViewsConfig   `koanf:"views"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// APIConfig configures the remote recommendation service client.
type APIConfig struct {
	// BaseURL is the remote API root, e.g. http://127.0.0.1:8000/api/v1.
	BaseURL string `koanf:"base_url" validate:"required,http_url"`

	// Timeout bounds a single remote request. Zero means no timeout; callers
	// cancel through their context instead.
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`

	// RateLimitRPS paces outbound requests. Zero disables pacing.
	RateLimitRPS   float64 `koanf:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int     `koanf:"rate_limit_burst" validate:"gte=0"`

	// CircuitBreaker wraps the client in a gobreaker circuit breaker.
	CircuitBreaker bool `koanf:"circuit_breaker"`
}

// CacheConfig configures the local result cache.
type CacheConfig struct {
	TTL                time.Duration `koanf:"ttl" validate:"gt=0"`
	HomeKey            string        `koanf:"home_key" validate:"required"`
	RecommendationsKey string        `koanf:"recommendations_key" validate:"required"`
}

// StorageConfig configures the durable key-value store behind the cache and session slot.
type StorageConfig struct {
	// Type is "badger" (durable, default) or "memory" (lost on restart).
	Type       string        `koanf:"type" validate:"oneof=badger memory"`
	Path       string        `koanf:"path"`
	GCInterval time.Duration `koanf:"gc_interval" validate:"gte=0"`
	SessionKey string        `koanf:"session_key" validate:"required"`
}

// ViewsConfig holds the presentation constants of the views.
type ViewsConfig struct {
	PageSize            int `koanf:"page_size" validate:"gte=1"`
	MaxPages            int `koanf:"max_pages" validate:"gte=1"`
	RecommendationLimit int `koanf:"recommendation_limit" validate:"gte=1"`
	PreviewSize         int `koanf:"preview_size" validate:"gte=1"`
	PopularMaxPages     int `koanf:"popular_max_pages" validate:"gte=1"`
	DashboardTop        int `koanf:"dashboard_top" validate:"gte=1"`
	CastLimit           int `koanf:"cast_limit" validate:"gte=0"`
	SimilarSize         int `koanf:"similar_size" validate:"gte=0"`
}

// ServerConfig configures the local HTTP surface.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"gte=1,lte=65535"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}
