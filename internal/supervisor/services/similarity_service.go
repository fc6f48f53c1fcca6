// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinefeed/cinefeed/internal/logging"
	"github.com/cinefeed/cinefeed/internal/recommend"
)

// SimilarityRunner is the batch job surface this service drives.
type SimilarityRunner interface {
	Run(ctx context.Context) (recommend.RunStats, error)
}

// SimilarityService periodically reruns the similarity batch job.
type SimilarityService struct {
	job          SimilarityRunner
	interval     time.Duration
	runOnStartup bool
	logger       zerolog.Logger
}

// NewSimilarityService creates the periodic batch service.
func NewSimilarityService(job SimilarityRunner, interval time.Duration, runOnStartup bool) *SimilarityService {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &SimilarityService{
		job:          job,
		interval:     interval,
		runOnStartup: runOnStartup,
		logger:       logging.With().Str("service", "similarity").Logger(),
	}
}

// Serve implements suture.Service. Run failures are logged and the
// ticker keeps going; only context cancellation ends the service.
func (s *SimilarityService) Serve(ctx context.Context) error {
	if s.runOnStartup {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *SimilarityService) runOnce(ctx context.Context) {
	stats, err := s.job.Run(ctx)
	if err != nil {
		// A manual rebuild may hold the single-flight slot.
		if errors.Is(err, recommend.ErrAlreadyRunning) {
			s.logger.Info().Msg("similarity run skipped, one already in flight")
			return
		}
		s.logger.Error().Err(err).Msg("scheduled similarity run failed")
		return
	}
	s.logger.Info().
		Int("pairs_written", stats.PairsWritten).
		Dur("elapsed", stats.Elapsed).
		Msg("scheduled similarity run finished")
}

// String implements fmt.Stringer for supervisor logs.
func (s *SimilarityService) String() string { return "similarity-batch" }
