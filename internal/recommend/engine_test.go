// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/cinefeed/cinefeed/internal/models"
)

type stubRatings struct {
	byUser map[int][]models.Rating
	err    error
}

func (s *stubRatings) RatingsByUser(_ context.Context, userID int) ([]models.Rating, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byUser[userID], nil
}

type stubSims struct {
	byMovie map[int][]models.MovieSimilarity
	err     error
}

func (s *stubSims) SimilarTo(_ context.Context, movieID int) ([]models.MovieSimilarity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byMovie[movieID], nil
}

type stubCatalog struct {
	popular    []models.Movie
	popularErr error
	missing    map[int]bool
}

func (s *stubCatalog) Popular(_ context.Context, limit int) ([]models.Movie, error) {
	if s.popularErr != nil {
		return nil, s.popularErr
	}
	if limit > len(s.popular) {
		limit = len(s.popular)
	}
	return s.popular[:limit], nil
}

func (s *stubCatalog) Movies(_ context.Context, movieIDs []int) ([]models.Movie, error) {
	out := make([]models.Movie, 0, len(movieIDs))
	for _, id := range movieIDs {
		if s.missing[id] {
			continue
		}
		out = append(out, models.Movie{ID: id})
	}
	return out, nil
}

func sim(a, b int, score float64) models.MovieSimilarity {
	if a > b {
		a, b = b, a
	}
	return models.MovieSimilarity{MovieID1: a, MovieID2: b, Score: score}
}

func newTestEngine(ratings RatingSource, sims SimilaritySource, catalog Catalog) *Engine {
	return NewEngine(ratings, sims, catalog, DefaultConfig())
}

func TestRecommendMaxAggregation(t *testing.T) {
	t.Parallel()

	// User rated movie 1 at 5.0 and movie 2 at 4.0. Movie 3 is similar
	// to both: 0.8 to movie 1, 0.6 to movie 2. Its score must be
	// max(5.0*0.8, 4.0*0.6) = 4.0, not the sum.
	ratings := &stubRatings{byUser: map[int][]models.Rating{
		7: {
			{UserID: 7, MovieID: 1, Rating: 5.0},
			{UserID: 7, MovieID: 2, Rating: 4.0},
		},
	}}
	sims := &stubSims{byMovie: map[int][]models.MovieSimilarity{
		1: {sim(1, 3, 0.8)},
		2: {sim(2, 3, 0.6)},
	}}
	engine := newTestEngine(ratings, sims, &stubCatalog{})

	result := engine.Recommend(context.Background(), 7, 10)
	if result.Source != SourcePersonalized {
		t.Fatalf("Source = %s, want personalized", result.Source)
	}
	if len(result.Movies) != 1 {
		t.Fatalf("got %d movies, want 1", len(result.Movies))
	}
	got := result.Movies[0]
	if got.Movie.ID != 3 {
		t.Errorf("recommended movie %d, want 3", got.Movie.ID)
	}
	if got.Score != 4.0 {
		t.Errorf("score = %v, want 4.0 (max aggregation)", got.Score)
	}
}

func TestRecommendExcludesRatedMovies(t *testing.T) {
	t.Parallel()

	ratings := &stubRatings{byUser: map[int][]models.Rating{
		7: {
			{UserID: 7, MovieID: 1, Rating: 5.0},
			{UserID: 7, MovieID: 2, Rating: 4.0},
		},
	}}
	// Movie 2 is a neighbor of movie 1 but already rated.
	sims := &stubSims{byMovie: map[int][]models.MovieSimilarity{
		1: {sim(1, 2, 0.9), sim(1, 3, 0.5)},
		2: {sim(1, 2, 0.9)},
	}}
	engine := newTestEngine(ratings, sims, &stubCatalog{})

	result := engine.Recommend(context.Background(), 7, 10)
	for _, m := range result.Movies {
		if m.Movie.ID == 1 || m.Movie.ID == 2 {
			t.Errorf("already rated movie %d in output", m.Movie.ID)
		}
	}
	if len(result.Movies) != 1 || result.Movies[0].Movie.ID != 3 {
		t.Errorf("unexpected result: %+v", result.Movies)
	}
}

func TestRecommendColdStartFallsBackToPopular(t *testing.T) {
	t.Parallel()

	catalog := &stubCatalog{popular: []models.Movie{{ID: 10}, {ID: 11}, {ID: 12}}}
	engine := newTestEngine(&stubRatings{byUser: map[int][]models.Rating{}}, &stubSims{}, catalog)

	result := engine.Recommend(context.Background(), 99, 2)
	if result.Source != SourceFallbackColdStart {
		t.Fatalf("Source = %s, want fallback_cold_start", result.Source)
	}
	if len(result.Movies) != 2 {
		t.Fatalf("got %d movies, want 2", len(result.Movies))
	}
	if result.Movies[0].Score != 0 {
		t.Errorf("fallback results must carry zero score, got %v", result.Movies[0].Score)
	}
}

func TestRecommendNoNeighborsFallsBack(t *testing.T) {
	t.Parallel()

	ratings := &stubRatings{byUser: map[int][]models.Rating{
		7: {{UserID: 7, MovieID: 1, Rating: 5.0}},
	}}
	catalog := &stubCatalog{popular: []models.Movie{{ID: 10}}}
	engine := newTestEngine(ratings, &stubSims{}, catalog)

	result := engine.Recommend(context.Background(), 7, 10)
	if result.Source != SourceFallbackColdStart {
		t.Errorf("Source = %s, want fallback_cold_start", result.Source)
	}
}

func TestRecommendRatingErrorFallsBack(t *testing.T) {
	t.Parallel()

	ratings := &stubRatings{err: errors.New("store down")}
	catalog := &stubCatalog{popular: []models.Movie{{ID: 10}}}
	engine := newTestEngine(ratings, &stubSims{}, catalog)

	result := engine.Recommend(context.Background(), 7, 10)
	if result.Source != SourceFallbackError {
		t.Fatalf("Source = %s, want fallback_error", result.Source)
	}
	if len(result.Movies) != 1 {
		t.Errorf("fallback should still return popular movies")
	}
}

func TestRecommendSimilarityErrorFallsBack(t *testing.T) {
	t.Parallel()

	ratings := &stubRatings{byUser: map[int][]models.Rating{
		7: {{UserID: 7, MovieID: 1, Rating: 5.0}},
	}}
	sims := &stubSims{err: errors.New("badger closed")}
	catalog := &stubCatalog{popular: []models.Movie{{ID: 10}}}
	engine := newTestEngine(ratings, sims, catalog)

	result := engine.Recommend(context.Background(), 7, 10)
	if result.Source != SourceFallbackError {
		t.Errorf("Source = %s, want fallback_error", result.Source)
	}
}

func TestRecommendEverythingFailingReturnsEmpty(t *testing.T) {
	t.Parallel()

	ratings := &stubRatings{err: errors.New("store down")}
	catalog := &stubCatalog{popularErr: errors.New("provider down")}
	engine := newTestEngine(ratings, &stubSims{}, catalog)

	result := engine.Recommend(context.Background(), 7, 10)
	if result.Source != SourceFallbackError {
		t.Errorf("Source = %s, want fallback_error", result.Source)
	}
	if result.Movies == nil || len(result.Movies) != 0 {
		t.Errorf("expected empty (non-nil) movie list, got %v", result.Movies)
	}
}

func TestRecommendNegativeSimilarityNeverRecommends(t *testing.T) {
	t.Parallel()

	ratings := &stubRatings{byUser: map[int][]models.Rating{
		7: {{UserID: 7, MovieID: 1, Rating: 5.0}},
	}}
	sims := &stubSims{byMovie: map[int][]models.MovieSimilarity{
		1: {sim(1, 3, -0.9), sim(1, 4, 0)},
	}}
	catalog := &stubCatalog{popular: []models.Movie{{ID: 10}}}
	engine := newTestEngine(ratings, sims, catalog)

	result := engine.Recommend(context.Background(), 7, 10)
	for _, m := range result.Movies {
		if m.Movie.ID == 3 || m.Movie.ID == 4 {
			t.Errorf("non-positive similarity produced recommendation of movie %d", m.Movie.ID)
		}
	}
}

func TestRecommendLimitClamping(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	engine := NewEngine(&stubRatings{}, &stubSims{}, &stubCatalog{}, cfg)

	tests := []struct {
		limit int
		want  int
	}{
		{0, cfg.DefaultLimit},
		{-5, cfg.DefaultLimit},
		{3, 3},
		{cfg.MaxLimit + 100, cfg.MaxLimit},
	}
	for _, tt := range tests {
		if got := engine.clampLimit(tt.limit); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
		}
	}
}

func TestRecommendFewerCandidatesThanLimit(t *testing.T) {
	t.Parallel()

	ratings := &stubRatings{byUser: map[int][]models.Rating{
		7: {{UserID: 7, MovieID: 1, Rating: 5.0}},
	}}
	sims := &stubSims{byMovie: map[int][]models.MovieSimilarity{
		1: {sim(1, 2, 0.3), sim(1, 3, 0.5), sim(1, 4, 0.7)},
	}}
	engine := newTestEngine(ratings, sims, &stubCatalog{})

	result := engine.Recommend(context.Background(), 7, 10)
	if result.Source != SourcePersonalized {
		t.Fatalf("Source = %s, want personalized", result.Source)
	}
	if len(result.Movies) != 3 {
		t.Errorf("got %d movies, want all 3 candidates", len(result.Movies))
	}
}

func TestRecommendDeterministicOrder(t *testing.T) {
	t.Parallel()

	// Movies 3 and 4 tie on score; ascending movie ID breaks the tie.
	ratings := &stubRatings{byUser: map[int][]models.Rating{
		7: {{UserID: 7, MovieID: 1, Rating: 5.0}},
	}}
	sims := &stubSims{byMovie: map[int][]models.MovieSimilarity{
		1: {sim(1, 4, 0.5), sim(1, 3, 0.5), sim(1, 2, 0.9)},
	}}
	engine := newTestEngine(ratings, sims, &stubCatalog{})

	for range 10 {
		result := engine.Recommend(context.Background(), 7, 10)
		if len(result.Movies) != 3 {
			t.Fatalf("got %d movies, want 3", len(result.Movies))
		}
		gotOrder := []int{result.Movies[0].Movie.ID, result.Movies[1].Movie.ID, result.Movies[2].Movie.ID}
		if gotOrder[0] != 2 || gotOrder[1] != 3 || gotOrder[2] != 4 {
			t.Fatalf("order = %v, want [2 3 4]", gotOrder)
		}
	}
}

func TestRecommendDropsUnresolvableMovies(t *testing.T) {
	t.Parallel()

	ratings := &stubRatings{byUser: map[int][]models.Rating{
		7: {{UserID: 7, MovieID: 1, Rating: 5.0}},
	}}
	sims := &stubSims{byMovie: map[int][]models.MovieSimilarity{
		1: {sim(1, 2, 0.9), sim(1, 3, 0.5)},
	}}
	catalog := &stubCatalog{missing: map[int]bool{2: true}}
	engine := newTestEngine(ratings, sims, catalog)

	result := engine.Recommend(context.Background(), 7, 10)
	if result.Source != SourcePersonalized {
		t.Fatalf("Source = %s, want personalized", result.Source)
	}
	if len(result.Movies) != 1 || result.Movies[0].Movie.ID != 3 {
		t.Errorf("unresolvable movie should be dropped: %+v", result.Movies)
	}
}
