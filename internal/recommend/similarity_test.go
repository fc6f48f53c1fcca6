// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package recommend

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/cinefeed/cinefeed/internal/models"
)

type stubMatrix struct {
	ratings []models.Rating
	err     error
}

func (s *stubMatrix) AllRatings(context.Context) ([]models.Rating, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ratings, nil
}

// collectWriter records written similarities, optionally failing
// selected pairs.
type collectWriter struct {
	mu     sync.Mutex
	sims   map[[2]int]models.MovieSimilarity
	failOn map[[2]int]bool
}

func newCollectWriter() *collectWriter {
	return &collectWriter{
		sims:   make(map[[2]int]models.MovieSimilarity),
		failOn: make(map[[2]int]bool),
	}
}

func (w *collectWriter) PutSimilarity(_ context.Context, sim models.MovieSimilarity) error {
	key := [2]int{sim.MovieID1, sim.MovieID2}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failOn[key] {
		return errors.New("write failed")
	}
	w.sims[key] = sim
	return nil
}

func (w *collectWriter) get(a, b int) (models.MovieSimilarity, bool) {
	if a > b {
		a, b = b, a
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	sim, ok := w.sims[[2]int{a, b}]
	return sim, ok
}

// ratingsFor builds ratings where every listed user rated both movies.
func ratingsFor(movieA, movieB int, valuesA, valuesB []float64) []models.Rating {
	var out []models.Rating
	for i := range valuesA {
		userID := i + 1
		out = append(out,
			models.Rating{UserID: userID, MovieID: movieA, Rating: valuesA[i]},
			models.Rating{UserID: userID, MovieID: movieB, Rating: valuesB[i]},
		)
	}
	return out
}

func jobConfig() Config {
	cfg := DefaultConfig()
	cfg.Workers = 2
	return cfg
}

func TestPearson(t *testing.T) {
	t.Parallel()

	// Perfectly linear ratings correlate at exactly 1.
	a := map[int]float64{1: 1, 2: 2, 3: 3, 4: 4, 5: 5}
	b := map[int]float64{1: 1.5, 2: 2.5, 3: 3.5, 4: 4.5, 5: 5.5}
	if got := pearson(a, b, 5); math.Abs(got-1) > 1e-9 {
		t.Errorf("linear pair: pearson = %v, want 1", got)
	}

	// Inverted ratings correlate at exactly -1.
	inv := map[int]float64{1: 5, 2: 4, 3: 3, 4: 2, 5: 1}
	if got := pearson(a, inv, 5); math.Abs(got+1) > 1e-9 {
		t.Errorf("inverted pair: pearson = %v, want -1", got)
	}
}

func TestPearsonInsufficientCommonRaters(t *testing.T) {
	t.Parallel()

	// Four shared raters with perfect correlation, but the support
	// threshold is five.
	a := map[int]float64{1: 1, 2: 2, 3: 3, 4: 4}
	b := map[int]float64{1: 1, 2: 2, 3: 3, 4: 4}
	if got := pearson(a, b, 5); got != 0 {
		t.Errorf("pearson = %v, want 0 below support threshold", got)
	}
}

func TestPearsonZeroVariance(t *testing.T) {
	t.Parallel()

	// One side rated everything identically: correlation is undefined,
	// defined here as zero.
	flat := map[int]float64{1: 3, 2: 3, 3: 3, 4: 3, 5: 3}
	varied := map[int]float64{1: 1, 2: 2, 3: 3, 4: 4, 5: 5}
	if got := pearson(flat, varied, 5); got != 0 {
		t.Errorf("pearson = %v, want 0 for zero variance", got)
	}
	if got := pearson(varied, flat, 5); got != 0 {
		t.Errorf("pearson = %v, want 0 for zero variance (swapped)", got)
	}
}

func TestPearsonUsesIntersectionMeans(t *testing.T) {
	t.Parallel()

	// Movie a has extra raters outside the intersection. They must not
	// influence the correlation: means are computed over shared raters
	// only.
	a := map[int]float64{1: 1, 2: 2, 3: 3, 4: 4, 5: 5, 100: 5, 101: 5, 102: 5}
	b := map[int]float64{1: 1, 2: 2, 3: 3, 4: 4, 5: 5}
	if got := pearson(a, b, 5); math.Abs(got-1) > 1e-9 {
		t.Errorf("pearson = %v, want 1 regardless of non-shared raters", got)
	}
}

func TestSimilarityJobWritesZeroScores(t *testing.T) {
	t.Parallel()

	// Two movies sharing only 3 raters: below the threshold of 5, so
	// the pair scores zero. The zero must still be written.
	ratings := ratingsFor(1, 2, []float64{1, 2, 3}, []float64{1, 2, 3})
	writer := newCollectWriter()
	job := NewSimilarityJob(&stubMatrix{ratings: ratings}, writer, jobConfig())

	stats, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.PairsWritten != 1 {
		t.Fatalf("PairsWritten = %d, want 1", stats.PairsWritten)
	}

	sim, ok := writer.get(1, 2)
	if !ok {
		t.Fatal("unsupported pair was not written")
	}
	if sim.Score != 0 {
		t.Errorf("Score = %v, want 0", sim.Score)
	}
}

func TestSimilarityJobComputesCorrelatedPair(t *testing.T) {
	t.Parallel()

	ratings := ratingsFor(10, 20,
		[]float64{1, 2, 3, 4, 5},
		[]float64{1.5, 2.5, 3.5, 4.5, 5},
	)
	writer := newCollectWriter()
	job := NewSimilarityJob(&stubMatrix{ratings: ratings}, writer, jobConfig())

	stats, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Movies != 2 || stats.PairsTotal != 1 {
		t.Errorf("stats = %+v", stats)
	}

	sim, ok := writer.get(10, 20)
	if !ok {
		t.Fatal("pair not written")
	}
	if sim.Score < 0.99 {
		t.Errorf("Score = %v, want near 1", sim.Score)
	}
	if sim.MovieID1 != 10 || sim.MovieID2 != 20 {
		t.Errorf("pair not normalized: %d/%d", sim.MovieID1, sim.MovieID2)
	}
}

func TestSimilarityJobMatrixReadFailureIsFatal(t *testing.T) {
	t.Parallel()

	job := NewSimilarityJob(&stubMatrix{err: errors.New("store down")}, newCollectWriter(), jobConfig())
	if _, err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error when the rating matrix cannot be read")
	}
}

func TestSimilarityJobPairFailureIsSkipped(t *testing.T) {
	t.Parallel()

	// Three movies, all pairs sharing 5 raters. One pair's write fails;
	// the other two must still be written.
	var ratings []models.Rating
	for userID := 1; userID <= 5; userID++ {
		for _, movieID := range []int{1, 2, 3} {
			ratings = append(ratings, models.Rating{
				UserID: userID, MovieID: movieID, Rating: float64(userID%5) + 1,
			})
		}
	}
	writer := newCollectWriter()
	writer.failOn[[2]int{1, 2}] = true
	job := NewSimilarityJob(&stubMatrix{ratings: ratings}, writer, jobConfig())

	stats, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("a pair failure must not fail the run: %v", err)
	}
	if stats.PairsFailed != 1 {
		t.Errorf("PairsFailed = %d, want 1", stats.PairsFailed)
	}
	if stats.PairsWritten != 2 {
		t.Errorf("PairsWritten = %d, want 2", stats.PairsWritten)
	}
	if _, ok := writer.get(1, 3); !ok {
		t.Error("pair 1/3 missing")
	}
	if _, ok := writer.get(2, 3); !ok {
		t.Error("pair 2/3 missing")
	}
}

// blockingWriter blocks the first write until released.
type blockingWriter struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (w *blockingWriter) PutSimilarity(context.Context, models.MovieSimilarity) error {
	w.once.Do(func() {
		close(w.started)
		<-w.release
	})
	return nil
}

func TestSimilarityJobSingleFlight(t *testing.T) {
	t.Parallel()

	ratings := ratingsFor(1, 2, []float64{1, 2, 3, 4, 5}, []float64{1, 2, 3, 4, 5})
	writer := &blockingWriter{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	job := NewSimilarityJob(&stubMatrix{ratings: ratings}, writer, jobConfig())

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := job.Run(context.Background()); err != nil {
			t.Errorf("first Run: %v", err)
		}
	}()

	<-writer.started
	if !job.Running() {
		t.Error("Running() = false during an active run")
	}
	if _, err := job.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run: got %v, want ErrAlreadyRunning", err)
	}

	close(writer.release)
	<-done

	if job.Running() {
		t.Error("Running() = true after completion")
	}
	if stats := job.LastStats(); stats == nil || stats.PairsWritten != 1 {
		t.Errorf("LastStats = %+v", stats)
	}
}

func TestSimilarityJobStatsBeforeFirstRun(t *testing.T) {
	t.Parallel()

	job := NewSimilarityJob(&stubMatrix{}, newCollectWriter(), jobConfig())
	if stats := job.LastStats(); stats != nil {
		t.Errorf("LastStats before any run = %+v, want nil", stats)
	}
	if job.Running() {
		t.Error("Running() = true before any run")
	}
}
