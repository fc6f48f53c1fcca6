// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package store

import (
	"context"
	"sync"

	"github.com/cinefeed/cinefeed/internal/models"
)

// simKey is a normalized pair key: lo < hi.
type simKey struct {
	lo, hi int
}

func newSimKey(a, b int) simKey {
	if a > b {
		a, b = b, a
	}
	return simKey{lo: a, hi: b}
}

// MemorySimilarityStore is an in-memory SimilarityStore. Used in tests
// and as the "memory" backend for ephemeral deployments.
type MemorySimilarityStore struct {
	mu    sync.RWMutex
	pairs map[simKey]models.MovieSimilarity
	// byMovie indexes pair keys by each member for SimilarTo.
	byMovie map[int]map[simKey]struct{}
}

// NewMemorySimilarityStore creates an empty MemorySimilarityStore.
func NewMemorySimilarityStore() *MemorySimilarityStore {
	return &MemorySimilarityStore{
		pairs:   make(map[simKey]models.MovieSimilarity),
		byMovie: make(map[int]map[simKey]struct{}),
	}
}

// PutSimilarity writes one pair's score, overwriting any previous value.
func (s *MemorySimilarityStore) PutSimilarity(_ context.Context, sim models.MovieSimilarity) error {
	key := newSimKey(sim.MovieID1, sim.MovieID2)
	sim.MovieID1, sim.MovieID2 = key.lo, key.hi

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pairs[key] = sim
	for _, id := range []int{key.lo, key.hi} {
		if s.byMovie[id] == nil {
			s.byMovie[id] = make(map[simKey]struct{})
		}
		s.byMovie[id][key] = struct{}{}
	}
	return nil
}

// Similarity returns the score for a pair in either orientation.
func (s *MemorySimilarityStore) Similarity(_ context.Context, movieID1, movieID2 int) (models.MovieSimilarity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sim, ok := s.pairs[newSimKey(movieID1, movieID2)]
	if !ok {
		return models.MovieSimilarity{}, ErrNotFound
	}
	return sim, nil
}

// SimilarTo returns all stored pairs involving movieID.
func (s *MemorySimilarityStore) SimilarTo(_ context.Context, movieID int) ([]models.MovieSimilarity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.byMovie[movieID]
	out := make([]models.MovieSimilarity, 0, len(keys))
	for key := range keys {
		out = append(out, s.pairs[key])
	}
	return out, nil
}
