// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package metadata

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cinefeed/cinefeed/internal/logging"
	"github.com/cinefeed/cinefeed/internal/metrics"
	"github.com/cinefeed/cinefeed/internal/models"
)

// CachedCatalog holds a popularity-ordered snapshot of the provider's
// popular movies. Reads are served from memory; Refresh replaces the
// snapshot atomically. Recommendation fallback and popular listings
// read from here, so a provider outage degrades to stale data rather
// than errors.
type CachedCatalog struct {
	provider Provider
	pages    int
	logger   zerolog.Logger

	mu     sync.RWMutex
	movies []models.Movie
	byID   map[int]models.Movie
	fresh  bool
}

// NewCachedCatalog creates a catalog caching the first `pages` pages of
// popular movies.
func NewCachedCatalog(provider Provider, pages int) *CachedCatalog {
	if pages < 1 {
		pages = 1
	}
	return &CachedCatalog{
		provider: provider,
		pages:    pages,
		logger:   logging.With().Str("component", "catalog").Logger(),
		byID:     make(map[int]models.Movie),
	}
}

// Refresh fetches the configured pages and atomically replaces the
// snapshot. A partial fetch keeps what it got; an entirely failed fetch
// leaves the previous snapshot in place.
func (c *CachedCatalog) Refresh(ctx context.Context) error {
	var movies []models.Movie
	var firstErr error
	for page := 1; page <= c.pages; page++ {
		pageMovies, err := c.provider.Popular(ctx, page)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			c.logger.Warn().Err(err).Int("page", page).Msg("popular page fetch failed")
			continue
		}
		movies = append(movies, pageMovies...)
	}

	if len(movies) == 0 {
		if firstErr != nil {
			return fmt.Errorf("catalog refresh: %w", firstErr)
		}
		return fmt.Errorf("catalog refresh: provider returned no movies")
	}

	byID := make(map[int]models.Movie, len(movies))
	deduped := movies[:0]
	for _, m := range movies {
		if _, seen := byID[m.ID]; seen {
			continue
		}
		byID[m.ID] = m
		deduped = append(deduped, m)
	}

	c.mu.Lock()
	c.movies = deduped
	c.byID = byID
	c.fresh = true
	c.mu.Unlock()

	metrics.CatalogMovies.Set(float64(len(deduped)))
	c.logger.Info().Int("movies", len(deduped)).Msg("catalog refreshed")
	return nil
}

// Popular returns up to limit movies from the snapshot, provider order
// (popularity descending) preserved.
func (c *CachedCatalog) Popular(_ context.Context, limit int) ([]models.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.fresh {
		return nil, fmt.Errorf("catalog: not yet populated")
	}
	if limit <= 0 || limit > len(c.movies) {
		limit = len(c.movies)
	}
	out := make([]models.Movie, limit)
	copy(out, c.movies[:limit])
	return out, nil
}

// Movie returns a movie by ID, from the snapshot when possible, falling
// back to a provider detail fetch for movies outside the popular window.
func (c *CachedCatalog) Movie(ctx context.Context, movieID int) (models.Movie, error) {
	c.mu.RLock()
	m, ok := c.byID[movieID]
	c.mu.RUnlock()
	if ok {
		return m, nil
	}
	return c.provider.Movie(ctx, movieID)
}

// Movies resolves several IDs, silently dropping those that cannot be
// resolved. Used when turning scored candidates into response payloads.
func (c *CachedCatalog) Movies(ctx context.Context, movieIDs []int) ([]models.Movie, error) {
	out := make([]models.Movie, 0, len(movieIDs))
	for _, id := range movieIDs {
		m, err := c.Movie(ctx, id)
		if err != nil {
			c.logger.Debug().Err(err).Int("movie_id", id).Msg("movie resolution failed, dropping")
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Size returns the number of movies in the snapshot.
func (c *CachedCatalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.movies)
}
