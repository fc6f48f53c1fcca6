// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

// Package config defines the Cinefeed configuration model and its
// layered loading via Koanf v2 (defaults < config file < environment).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Cinefeed server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Metadata  MetadataConfig  `koanf:"metadata"`
	Recommend RecommendConfig `koanf:"recommend"`
	Store     StoreConfig     `koanf:"store"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// Timeout is the per-request read/write timeout.
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// MetadataConfig holds settings for the movie metadata provider.
type MetadataConfig struct {
	// BaseURL is the provider API root (TMDB-compatible).
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates requests to the provider.
	APIKey string `koanf:"api_key"`

	// Language is the provider's language tag for localized metadata.
	Language string `koanf:"language"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `koanf:"timeout"`

	// RatePerSecond limits outbound requests to the provider.
	RatePerSecond float64 `koanf:"rate_per_second"`

	// RateBurst is the rate limiter burst size.
	RateBurst int `koanf:"rate_burst"`

	// RefreshInterval is how often the catalog cache is refreshed.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// CatalogPages is how many popular pages to cache per refresh.
	CatalogPages int `koanf:"catalog_pages"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// DefaultLimit is the result size when the caller does not specify one.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit caps the requested result size.
	MaxLimit int `koanf:"max_limit"`

	// FetchConcurrency bounds concurrent similar-movie lookups per request.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// MinCommonRaters is the minimum shared-rater support below which a
	// pair's similarity is defined as zero.
	MinCommonRaters int `koanf:"min_common_raters"`

	// SimilarityWorkers bounds the batch job's worker pool.
	// Zero means runtime.NumCPU().
	SimilarityWorkers int `koanf:"similarity_workers"`

	// SimilarityInterval is how often the batch job reruns.
	SimilarityInterval time.Duration `koanf:"similarity_interval"`

	// SimilarityOnStartup triggers a batch run when the service starts.
	SimilarityOnStartup bool `koanf:"similarity_on_startup"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	// SimilarityBackend selects the similarity store: "badger" or "memory".
	SimilarityBackend string `koanf:"similarity_backend"`

	// SimilarityPath is the BadgerDB directory for the badger backend.
	SimilarityPath string `koanf:"similarity_path"`
}

// SecurityConfig holds authentication and rate limit settings.
type SecurityConfig struct {
	// JWTSecret signs session tokens. Required in production.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTTL is how long issued tokens remain valid.
	SessionTTL time.Duration `koanf:"session_ttl"`

	// RateLimitReqs is the allowed requests per window per client IP.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Recommend.DefaultLimit <= 0 {
		return fmt.Errorf("recommend.default_limit must be positive, got %d", c.Recommend.DefaultLimit)
	}
	if c.Recommend.MaxLimit < c.Recommend.DefaultLimit {
		return fmt.Errorf("recommend.max_limit %d below default_limit %d",
			c.Recommend.MaxLimit, c.Recommend.DefaultLimit)
	}
	if c.Recommend.MinCommonRaters < 1 {
		return fmt.Errorf("recommend.min_common_raters must be at least 1, got %d", c.Recommend.MinCommonRaters)
	}
	if c.Recommend.FetchConcurrency < 1 {
		return fmt.Errorf("recommend.fetch_concurrency must be at least 1, got %d", c.Recommend.FetchConcurrency)
	}
	switch c.Store.SimilarityBackend {
	case "badger":
		if c.Store.SimilarityPath == "" {
			return fmt.Errorf("store.similarity_path required for badger backend")
		}
	case "memory":
	default:
		return fmt.Errorf("store.similarity_backend %q unknown (want badger or memory)", c.Store.SimilarityBackend)
	}
	if c.Metadata.BaseURL == "" {
		return fmt.Errorf("metadata.base_url is required")
	}
	if len(c.Security.JWTSecret) > 0 && len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters")
	}
	return nil
}
