// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/movierex/config.yaml",
	"/etc/movierex/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://127.0.0.1:8000/api/v1",
			Timeout:        0,
			RateLimitRPS:   0,
			RateLimitBurst: 10,
			CircuitBreaker: true,
		},
		Cache: CacheConfig{
			TTL:                5 * time.Minute,
			HomeKey:            "home_recommendations_cache",
			RecommendationsKey: "recommendations_cache",
		},
		Storage: StorageConfig{
			Type:       "badger",
			Path:       "/data/movierex",
			GCInterval: 10 * time.Minute,
			SessionKey: "movie_rex_user",
		},
		Views: ViewsConfig{
			PageSize:            8,
			MaxPages:            3,
			RecommendationLimit: 24,
			PreviewSize:         4,
			PopularMaxPages:     10,
			DashboardTop:        12,
			CastLimit:           10,
			SimilarSize:         4,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from three layers:
//  1. built-in defaults
//  2. optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. environment variables
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Remote API
	"movierex_api_url":          "api.base_url",
	"api_base_url":              "api.base_url",
	"api_timeout":               "api.timeout",
	"api_rate_limit_rps":        "api.rate_limit_rps",
	"api_rate_limit_burst":      "api.rate_limit_burst",
	"api_circuit_breaker":       "api.circuit_breaker",
	"cache_ttl":                 "cache.ttl",
	"cache_home_key":            "cache.home_key",
	"cache_recommendations_key": "cache.recommendations_key",

	// Storage
	"storage_type":        "storage.type",
	"storage_path":        "storage.path",
	"storage_gc_interval": "storage.gc_interval",
	"session_key":         "storage.session_key",

	// Views
	"page_size":            "views.page_size",
	"max_pages":            "views.max_pages",
	"recommendation_limit": "views.recommendation_limit",
	"preview_size":         "views.preview_size",
	"popular_max_pages":    "views.popular_max_pages",
	"dashboard_top":        "views.dashboard_top",
	"cast_limit":           "views.cast_limit",
	"similar_size":         "views.similar_size",

	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped names return "" and are skipped so unrelated variables never
// leak into the configuration.
//
//   - MOVIEREX_API_URL -> api.base_url
//   - CACHE_TTL -> cache.ttl
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
