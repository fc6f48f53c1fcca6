// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinefeed/cinefeed/internal/logging"
	"github.com/cinefeed/cinefeed/internal/metrics"
	"github.com/cinefeed/cinefeed/internal/models"
)

// ErrAlreadyRunning is returned when a batch run is requested while one
// is in progress.
var ErrAlreadyRunning = errors.New("recommend: similarity batch already running")

// SimilarityJob recomputes pairwise item-item similarities over the
// full rating matrix. Each run overwrites every evaluated pair, zeros
// included, so stale scores never linger. Readers see a mix of old and
// new scores while a run is in flight; the window closes when the run
// completes.
type SimilarityJob struct {
	ratings MatrixSource
	writer  SimilarityWriter
	cfg     Config
	logger  zerolog.Logger

	running atomic.Bool

	mu   sync.Mutex
	last *RunStats
}

// NewSimilarityJob creates a similarity batch job.
func NewSimilarityJob(ratings MatrixSource, writer SimilarityWriter, cfg Config) *SimilarityJob {
	return &SimilarityJob{
		ratings: ratings,
		writer:  writer,
		cfg:     cfg,
		logger:  logging.With().Str("component", "similarity_job").Logger(),
	}
}

// Running reports whether a batch run is in progress.
func (j *SimilarityJob) Running() bool {
	return j.running.Load()
}

// LastStats returns stats for the most recent completed run, or nil if
// none has completed yet.
func (j *SimilarityJob) LastStats() *RunStats {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.last == nil {
		return nil
	}
	stats := *j.last
	return &stats
}

// Run executes one batch pass. Only one run may be in flight;
// concurrent calls get ErrAlreadyRunning. Reading the rating matrix is
// fatal to the run; individual pair failures are logged, counted and
// skipped.
func (j *SimilarityJob) Run(ctx context.Context) (RunStats, error) {
	if !j.running.CompareAndSwap(false, true) {
		return RunStats{}, ErrAlreadyRunning
	}
	defer j.running.Store(false)

	stats := RunStats{StartedAt: time.Now()}

	all, err := j.ratings.AllRatings(ctx)
	if err != nil {
		metrics.SimilarityJobRuns.WithLabelValues("error").Inc()
		return stats, fmt.Errorf("read rating matrix: %w", err)
	}

	matrix := buildMatrix(all)
	movieIDs := make([]int, 0, len(matrix))
	for id := range matrix {
		movieIDs = append(movieIDs, id)
	}
	sort.Ints(movieIDs)

	stats.Movies = len(movieIDs)
	stats.PairsTotal = len(movieIDs) * (len(movieIDs) - 1) / 2

	j.logger.Info().
		Int("movies", stats.Movies).
		Int("pairs", stats.PairsTotal).
		Int("workers", j.cfg.workerCount()).
		Msg("similarity batch starting")

	type pair struct{ a, b int }
	pairs := make(chan pair)

	var written, failed atomic.Int64
	var wg sync.WaitGroup
	for range j.cfg.workerCount() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range pairs {
				score := pearson(matrix[p.a], matrix[p.b], j.cfg.MinCommonRaters)
				sim := models.MovieSimilarity{
					MovieID1:  p.a,
					MovieID2:  p.b,
					Score:     score,
					UpdatedAt: time.Now(),
				}
				if err := j.writer.PutSimilarity(ctx, sim); err != nil {
					failed.Add(1)
					j.logger.Warn().Err(err).
						Int("movie_id1", p.a).
						Int("movie_id2", p.b).
						Msg("similarity write failed")
					continue
				}
				written.Add(1)
			}
		}()
	}

produce:
	for i := 0; i < len(movieIDs); i++ {
		for k := i + 1; k < len(movieIDs); k++ {
			select {
			case pairs <- pair{a: movieIDs[i], b: movieIDs[k]}:
			case <-ctx.Done():
				break produce
			}
		}
	}
	close(pairs)
	wg.Wait()

	stats.PairsWritten = int(written.Load())
	stats.PairsFailed = int(failed.Load())
	stats.Elapsed = time.Since(stats.StartedAt)

	if err := ctx.Err(); err != nil {
		metrics.SimilarityJobRuns.WithLabelValues("canceled").Inc()
		return stats, fmt.Errorf("similarity batch canceled: %w", err)
	}

	j.mu.Lock()
	statsCopy := stats
	j.last = &statsCopy
	j.mu.Unlock()

	metrics.SimilarityJobRuns.WithLabelValues("ok").Inc()
	metrics.SimilarityJobDuration.Observe(stats.Elapsed.Seconds())
	metrics.SimilarityPairsComputed.Set(float64(stats.PairsWritten))
	metrics.SimilarityLastSuccess.SetToCurrentTime()

	j.logger.Info().
		Int("written", stats.PairsWritten).
		Int("failed", stats.PairsFailed).
		Dur("elapsed", stats.Elapsed).
		Msg("similarity batch finished")

	return stats, nil
}

// buildMatrix indexes ratings as movie -> user -> rating.
func buildMatrix(ratings []models.Rating) map[int]map[int]float64 {
	matrix := make(map[int]map[int]float64)
	for _, r := range ratings {
		users, ok := matrix[r.MovieID]
		if !ok {
			users = make(map[int]float64)
			matrix[r.MovieID] = users
		}
		users[r.UserID] = r.Rating
	}
	return matrix
}

// pearson computes the Pearson correlation between two movies' rating
// vectors, restricted to users who rated both. Pairs with fewer than
// minCommon shared raters, and pairs where either side has zero
// variance over the shared raters, score zero.
func pearson(a, b map[int]float64, minCommon int) float64 {
	var common []int
	for userID := range a {
		if _, ok := b[userID]; ok {
			common = append(common, userID)
		}
	}
	if len(common) < minCommon {
		return 0
	}

	n := float64(len(common))
	var meanA, meanB float64
	for _, userID := range common {
		meanA += a[userID]
		meanB += b[userID]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for _, userID := range common {
		da := a[userID] - meanA
		db := b[userID] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}
