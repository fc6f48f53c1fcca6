// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cinefeed/cinefeed/internal/models"
)

// similarityStores returns one instance of each SimilarityStore backend.
func similarityStores(t *testing.T) map[string]SimilarityStore {
	t.Helper()

	badgerStore, err := NewBadgerSimilarityStore(BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("open in-memory badger: %v", err)
	}
	t.Cleanup(func() {
		if err := badgerStore.Close(); err != nil {
			t.Errorf("close badger: %v", err)
		}
	})

	return map[string]SimilarityStore{
		"memory": NewMemorySimilarityStore(),
		"badger": badgerStore,
	}
}

func TestSimilarityStoreSymmetricLookup(t *testing.T) {
	t.Parallel()

	for name, s := range similarityStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			sim := models.MovieSimilarity{
				MovieID1:  20,
				MovieID2:  10, // deliberately unnormalized
				Score:     0.85,
				UpdatedAt: time.Now(),
			}
			if err := s.PutSimilarity(ctx, sim); err != nil {
				t.Fatalf("PutSimilarity: %v", err)
			}

			forward, err := s.Similarity(ctx, 10, 20)
			if err != nil {
				t.Fatalf("Similarity(10, 20): %v", err)
			}
			backward, err := s.Similarity(ctx, 20, 10)
			if err != nil {
				t.Fatalf("Similarity(20, 10): %v", err)
			}
			if forward.Score != 0.85 || backward.Score != 0.85 {
				t.Errorf("scores differ by orientation: %v vs %v", forward.Score, backward.Score)
			}
			if forward.MovieID1 != 10 || forward.MovieID2 != 20 {
				t.Errorf("pair not normalized: %d/%d", forward.MovieID1, forward.MovieID2)
			}
		})
	}
}

func TestSimilarityStoreOverwrite(t *testing.T) {
	t.Parallel()

	for name, s := range similarityStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			put := func(score float64) {
				t.Helper()
				err := s.PutSimilarity(ctx, models.MovieSimilarity{
					MovieID1: 1, MovieID2: 2, Score: score, UpdatedAt: time.Now(),
				})
				if err != nil {
					t.Fatalf("PutSimilarity(%.2f): %v", score, err)
				}
			}
			put(0.3)
			put(0.9)

			got, err := s.Similarity(ctx, 1, 2)
			if err != nil {
				t.Fatalf("Similarity: %v", err)
			}
			if got.Score != 0.9 {
				t.Errorf("Score = %.2f, want 0.9 (overwrite)", got.Score)
			}
		})
	}
}

func TestSimilarityStoreZeroScoreIsStored(t *testing.T) {
	t.Parallel()

	for name, s := range similarityStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			err := s.PutSimilarity(ctx, models.MovieSimilarity{
				MovieID1: 5, MovieID2: 6, Score: 0, UpdatedAt: time.Now(),
			})
			if err != nil {
				t.Fatalf("PutSimilarity: %v", err)
			}

			got, err := s.Similarity(ctx, 5, 6)
			if err != nil {
				t.Fatalf("a stored zero score must be readable: %v", err)
			}
			if got.Score != 0 {
				t.Errorf("Score = %v, want 0", got.Score)
			}
		})
	}
}

func TestSimilarityStoreNotFound(t *testing.T) {
	t.Parallel()

	for name, s := range similarityStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Similarity(context.Background(), 998, 999)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("got %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSimilarityStoreSimilarTo(t *testing.T) {
	t.Parallel()

	for name, s := range similarityStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			pairs := []models.MovieSimilarity{
				{MovieID1: 1, MovieID2: 2, Score: 0.5},
				{MovieID1: 3, MovieID2: 1, Score: 0.7},
				{MovieID1: 2, MovieID2: 3, Score: 0.1},
				{MovieID1: 4, MovieID2: 5, Score: 0.9},
			}
			for _, p := range pairs {
				if err := s.PutSimilarity(ctx, p); err != nil {
					t.Fatalf("PutSimilarity: %v", err)
				}
			}

			got, err := s.SimilarTo(ctx, 1)
			if err != nil {
				t.Fatalf("SimilarTo: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("SimilarTo(1) returned %d pairs, want 2", len(got))
			}
			for _, sim := range got {
				if sim.MovieID1 != 1 && sim.MovieID2 != 1 {
					t.Errorf("pair %d/%d does not involve movie 1", sim.MovieID1, sim.MovieID2)
				}
			}
		})
	}
}
