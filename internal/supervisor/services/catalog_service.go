// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinefeed/cinefeed/internal/logging"
)

// CatalogRefresher is the catalog surface this service drives.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// CatalogService refreshes the cached movie catalog on startup and
// then periodically, so popular listings and the recommendation
// fallback stay warm.
type CatalogService struct {
	catalog  CatalogRefresher
	interval time.Duration
	logger   zerolog.Logger
}

// NewCatalogService creates the periodic refresh service.
func NewCatalogService(catalog CatalogRefresher, interval time.Duration) *CatalogService {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &CatalogService{
		catalog:  catalog,
		interval: interval,
		logger:   logging.With().Str("service", "catalog").Logger(),
	}
}

// Serve implements suture.Service. Refresh failures are logged and
// retried on the next tick; the previous snapshot keeps serving reads.
func (s *CatalogService) Serve(ctx context.Context) error {
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Error().Err(err).Msg("initial catalog refresh failed")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.catalog.Refresh(ctx); err != nil {
				s.logger.Error().Err(err).Msg("catalog refresh failed")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *CatalogService) String() string { return "catalog-refresh" }
