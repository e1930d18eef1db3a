// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/movierex/internal/validation"
)

// Validate checks struct-tag rules and the cross-field constraints tags cannot express.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	return c.validateServer()
}

func (c *Config) validateAPI() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid API base URL %q: %w", c.API.BaseURL, err)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("API base URL must not carry a query or fragment: %q", c.API.BaseURL)
	}
	if c.API.RateLimitRPS > 0 && c.API.RateLimitBurst < 1 {
		return fmt.Errorf("api.rate_limit_burst must be at least 1 when api.rate_limit_rps is set")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.Type == "badger" && strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage.path is required when storage.type=badger")
	}
	if c.Cache.HomeKey == c.Cache.RecommendationsKey {
		return fmt.Errorf("cache.home_key and cache.recommendations_key must differ")
	}
	if c.Storage.SessionKey == c.Cache.HomeKey || c.Storage.SessionKey == c.Cache.RecommendationsKey {
		return fmt.Errorf("storage.session_key must not collide with a cache slot")
	}
	return nil
}

func (c *Config) validateServer() error {
	if !c.Server.RateLimitDisabled && c.Server.RateLimitRequests > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive when rate limiting is enabled")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
