// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/cinefeed/cinefeed/internal/logging"
	"github.com/cinefeed/cinefeed/internal/metrics"
	"github.com/cinefeed/cinefeed/internal/models"
)

// ErrNotFound is returned when the provider has no movie with the
// requested ID.
var ErrNotFound = fmt.Errorf("metadata: movie not found")

// ClientConfig configures a metadata Client.
type ClientConfig struct {
	BaseURL       string
	APIKey        string
	Language      string
	Timeout       time.Duration
	RatePerSecond float64
	RateBurst     int
}

// Client is a rate-limited HTTP client for the metadata provider.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	http     *http.Client
	limiter  *rate.Limiter
	logger   zerolog.Logger
}

// NewClient creates a metadata client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 20
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = int(cfg.RatePerSecond)
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		http:     &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		logger:   logging.With().Str("component", "metadata").Logger(),
	}
}

// Popular returns one page of popular movies.
func (c *Client) Popular(ctx context.Context, page int) ([]models.Movie, error) {
	if page < 1 {
		page = 1
	}
	var resp listResponse
	err := c.get(ctx, "popular", "/movie/popular", url.Values{
		"page": {strconv.Itoa(page)},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return toModels(resp.Results), nil
}

// Movie returns full details for one movie.
func (c *Client) Movie(ctx context.Context, movieID int) (models.Movie, error) {
	var resp movieDetailDTO
	err := c.get(ctx, "movie", "/movie/"+strconv.Itoa(movieID), nil, &resp)
	if err != nil {
		return models.Movie{}, err
	}
	return resp.toModel(), nil
}

// Similar returns the provider's content-based similar movies. This is
// distinct from the rating-derived similarity store and only used to
// enrich movie detail pages.
func (c *Client) Similar(ctx context.Context, movieID int) ([]models.Movie, error) {
	var resp listResponse
	err := c.get(ctx, "similar", "/movie/"+strconv.Itoa(movieID)+"/similar", nil, &resp)
	if err != nil {
		return nil, err
	}
	return toModels(resp.Results), nil
}

// Search returns movies matching the query.
func (c *Client) Search(ctx context.Context, query string, page int) ([]models.Movie, error) {
	if page < 1 {
		page = 1
	}
	var resp listResponse
	err := c.get(ctx, "search", "/search/movie", url.Values{
		"query": {query},
		"page":  {strconv.Itoa(page)},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return toModels(resp.Results), nil
}

// get performs one rate-limited GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("metadata: rate limiter: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("metadata: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.MetadataRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MetadataRequestsTotal.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("metadata: %s: %w", operation, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.MetadataRequestsTotal.WithLabelValues(operation, "not_found").Inc()
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		metrics.MetadataRequestsTotal.WithLabelValues(operation, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Bytes("body", body).
			Msg("provider returned non-200")
		return fmt.Errorf("metadata: %s: unexpected status %d", operation, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.MetadataRequestsTotal.WithLabelValues(operation, "decode_error").Inc()
		return fmt.Errorf("metadata: %s: decode response: %w", operation, err)
	}
	metrics.MetadataRequestsTotal.WithLabelValues(operation, "ok").Inc()
	return nil
}

func toModels(dtos []movieDTO) []models.Movie {
	out := make([]models.Movie, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toModel())
	}
	return out
}
