// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

// Package recommend implements collaborative filtering over user
// ratings: an offline batch job computing Pearson item-item
// similarities and an online engine scoring candidates against a
// user's rating history, with a popularity fallback for cold starts
// and failures.
package recommend

import (
	"context"
	"time"

	"github.com/cinefeed/cinefeed/internal/models"
)

// Source identifies which branch produced a recommendation result.
type Source string

const (
	// SourcePersonalized means the result came from collaborative
	// filtering over the user's ratings.
	SourcePersonalized Source = "personalized"

	// SourceFallbackColdStart means the user had no usable rating
	// signal and popular movies were returned instead.
	SourceFallbackColdStart Source = "fallback_cold_start"

	// SourceFallbackError means personalization failed and popular
	// movies were returned instead.
	SourceFallbackError Source = "fallback_error"
)

// ScoredMovie is one recommended movie with its predicted score.
// Fallback results carry a zero score.
type ScoredMovie struct {
	Movie models.Movie `json:"movie"`
	Score float64      `json:"score"`
}

// Result is a recommendation response.
type Result struct {
	Movies []ScoredMovie `json:"movies"`
	Source Source        `json:"source"`
}

// RatingSource provides rating reads for the online engine.
type RatingSource interface {
	RatingsByUser(ctx context.Context, userID int) ([]models.Rating, error)
}

// MatrixSource provides the full rating matrix for the batch job.
type MatrixSource interface {
	AllRatings(ctx context.Context) ([]models.Rating, error)
}

// SimilaritySource provides similarity reads for the online engine.
type SimilaritySource interface {
	SimilarTo(ctx context.Context, movieID int) ([]models.MovieSimilarity, error)
}

// SimilarityWriter receives batch job output.
type SimilarityWriter interface {
	PutSimilarity(ctx context.Context, sim models.MovieSimilarity) error
}

// Catalog resolves movie IDs to metadata and provides the popularity
// fallback.
type Catalog interface {
	Popular(ctx context.Context, limit int) ([]models.Movie, error)
	Movies(ctx context.Context, movieIDs []int) ([]models.Movie, error)
}

// RunStats summarizes one similarity batch run.
type RunStats struct {
	StartedAt    time.Time     `json:"started_at"`
	Elapsed      time.Duration `json:"elapsed"`
	Movies       int           `json:"movies"`
	PairsTotal   int           `json:"pairs_total"`
	PairsWritten int           `json:"pairs_written"`
	PairsFailed  int           `json:"pairs_failed"`
}
