// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package recommend

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cinefeed/cinefeed/internal/logging"
	"github.com/cinefeed/cinefeed/internal/metrics"
	"github.com/cinefeed/cinefeed/internal/models"
)

// Engine produces personalized recommendations. It never returns an
// error to the caller: any failure along the personalized path degrades
// to the popularity fallback.
type Engine struct {
	ratings RatingSource
	sims    SimilaritySource
	catalog Catalog
	cfg     Config
	logger  zerolog.Logger
}

// NewEngine creates a recommendation engine.
func NewEngine(ratings RatingSource, sims SimilaritySource, catalog Catalog, cfg Config) *Engine {
	return &Engine{
		ratings: ratings,
		sims:    sims,
		catalog: catalog,
		cfg:     cfg,
		logger:  logging.With().Str("component", "recommend").Logger(),
	}
}

// Recommend returns up to limit movies for the user. A non-positive
// limit selects the default; limits above the maximum are clamped.
func (e *Engine) Recommend(ctx context.Context, userID, limit int) Result {
	start := time.Now()
	defer func() {
		metrics.RecommendDuration.Observe(time.Since(start).Seconds())
	}()

	limit = e.clampLimit(limit)

	ratings, err := e.ratings.RatingsByUser(ctx, userID)
	if err != nil {
		e.logger.Error().Err(err).Int("user_id", userID).Msg("rating lookup failed")
		return e.fallback(ctx, limit, SourceFallbackError)
	}
	if len(ratings) == 0 {
		return e.fallback(ctx, limit, SourceFallbackColdStart)
	}

	scores, err := e.scoreCandidates(ctx, ratings)
	if err != nil {
		e.logger.Error().Err(err).Int("user_id", userID).Msg("candidate scoring failed")
		return e.fallback(ctx, limit, SourceFallbackError)
	}

	// A user whose rated movies have no computed neighbors carries no
	// collaborative signal yet. Same treatment as no ratings at all.
	if len(scores) == 0 {
		return e.fallback(ctx, limit, SourceFallbackColdStart)
	}

	metrics.RecommendCandidates.Observe(float64(len(scores)))

	ranked := rankScores(scores)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	ids := make([]int, len(ranked))
	for i, c := range ranked {
		ids[i] = c.movieID
	}
	movies, err := e.catalog.Movies(ctx, ids)
	if err != nil {
		e.logger.Error().Err(err).Int("user_id", userID).Msg("movie resolution failed")
		return e.fallback(ctx, limit, SourceFallbackError)
	}

	// Movies dropped during resolution shrink the result rather than
	// being backfilled; scores keyed by ID survive the drop.
	scored := make([]ScoredMovie, 0, len(movies))
	for _, m := range movies {
		scored = append(scored, ScoredMovie{Movie: m, Score: scores[m.ID]})
	}

	metrics.RecommendRequestsTotal.WithLabelValues(string(SourcePersonalized)).Inc()
	return Result{Movies: scored, Source: SourcePersonalized}
}

// clampLimit resolves the effective result limit.
func (e *Engine) clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return e.cfg.DefaultLimit
	case limit > e.cfg.MaxLimit:
		return e.cfg.MaxLimit
	default:
		return limit
	}
}

// scoreCandidates fetches neighbors of every rated movie concurrently
// and aggregates candidate scores. A candidate reachable through
// several rated movies keeps its single best score (max aggregation),
// so one strong path is never diluted by weak ones. Movies the user
// already rated are excluded.
func (e *Engine) scoreCandidates(ctx context.Context, ratings []models.Rating) (map[int]float64, error) {
	rated := make(map[int]float64, len(ratings))
	for _, r := range ratings {
		rated[r.MovieID] = r.Rating
	}

	var mu sync.Mutex
	scores := make(map[int]float64)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.FetchConcurrency)

	for _, r := range ratings {
		g.Go(func() error {
			sims, err := e.sims.SimilarTo(gctx, r.MovieID)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			for _, sim := range sims {
				// Zero and negative similarities never recommend.
				if sim.Score <= 0 {
					continue
				}
				candidate := sim.Other(r.MovieID)
				if _, alreadyRated := rated[candidate]; alreadyRated {
					continue
				}
				score := r.Rating * sim.Score
				if cur, ok := scores[candidate]; !ok || score > cur {
					scores[candidate] = score
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// candidate pairs a movie ID with its aggregated score for ranking.
type candidate struct {
	movieID int
	score   float64
}

// rankScores orders candidates by score descending, movie ID ascending
// on ties, so equal inputs always rank identically.
func rankScores(scores map[int]float64) []candidate {
	ranked := make([]candidate, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, candidate{movieID: id, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].movieID < ranked[j].movieID
	})
	return ranked
}

// fallback returns popular movies. A failing fallback returns an empty
// result; the caller still never sees an error.
func (e *Engine) fallback(ctx context.Context, limit int, source Source) Result {
	metrics.RecommendRequestsTotal.WithLabelValues(string(source)).Inc()

	popular, err := e.catalog.Popular(ctx, limit)
	if err != nil {
		e.logger.Error().Err(err).Msg("popularity fallback failed")
		return Result{Movies: []ScoredMovie{}, Source: source}
	}

	scored := make([]ScoredMovie, 0, len(popular))
	for _, m := range popular {
		scored = append(scored, ScoredMovie{Movie: m})
	}
	return Result{Movies: scored, Source: source}
}
