// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package config

import (
	"strings"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "zero default limit",
			mutate:  func(c *Config) { c.Recommend.DefaultLimit = 0 },
			wantErr: "default_limit",
		},
		{
			name: "max limit below default limit",
			mutate: func(c *Config) {
				c.Recommend.DefaultLimit = 20
				c.Recommend.MaxLimit = 10
			},
			wantErr: "max_limit",
		},
		{
			name:    "min common raters below one",
			mutate:  func(c *Config) { c.Recommend.MinCommonRaters = 0 },
			wantErr: "min_common_raters",
		},
		{
			name:    "zero fetch concurrency",
			mutate:  func(c *Config) { c.Recommend.FetchConcurrency = 0 },
			wantErr: "fetch_concurrency",
		},
		{
			name:    "unknown similarity backend",
			mutate:  func(c *Config) { c.Store.SimilarityBackend = "postgres" },
			wantErr: "similarity_backend",
		},
		{
			name: "badger backend without path",
			mutate: func(c *Config) {
				c.Store.SimilarityBackend = "badger"
				c.Store.SimilarityPath = ""
			},
			wantErr: "similarity_path",
		},
		{
			name: "memory backend needs no path",
			mutate: func(c *Config) {
				c.Store.SimilarityBackend = "memory"
				c.Store.SimilarityPath = ""
			},
		},
		{
			name:    "missing metadata base url",
			mutate:  func(c *Config) { c.Metadata.BaseURL = "" },
			wantErr: "base_url",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "too-short" },
			wantErr: "jwt_secret",
		},
		{
			name: "long jwt secret accepted",
			mutate: func(c *Config) {
				c.Security.JWTSecret = strings.Repeat("s", 32)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"http_port", "server.port"},
		{"TMDB_API_KEY", "metadata.api_key"},
		{"RECOMMEND_MIN_COMMON_RATERS", "recommend.min_common_raters"},
		{"SIMILARITY_BACKEND", "store.similarity_backend"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("SIMILARITY_BACKEND", "memory")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv(ConfigPathEnvVar, "/nonexistent/cinefeed.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Store.SimilarityBackend != "memory" {
		t.Errorf("SimilarityBackend = %q, want memory", cfg.Store.SimilarityBackend)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()

	sc := ServerConfig{Host: "127.0.0.1", Port: 8460}
	if got := sc.Addr(); got != "127.0.0.1:8460" {
		t.Errorf("Addr() = %q", got)
	}
}
