// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cinefeed/cinefeed/internal/models"
)

// ratingKey identifies one (user, movie) rating.
type ratingKey struct {
	userID  int
	movieID int
}

// MemoryStore is an in-memory implementation of RatingStore, UserStore
// and HistoryStore. Safe for concurrent use.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[int]models.User
	emailIndex map[string]int
	ratings    map[ratingKey]models.Rating
	history    map[int][]models.WatchEvent
	nextUserID int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int]models.User),
		emailIndex: make(map[string]int),
		ratings:    make(map[ratingKey]models.Rating),
		history:    make(map[int][]models.WatchEvent),
		nextUserID: 1,
	}
}

// CreateUser stores a new user and assigns its ID.
func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, exists := s.emailIndex[email]; exists {
		return fmt.Errorf("store: email %s already registered", u.Email)
	}

	u.ID = s.nextUserID
	s.nextUserID++
	s.users[u.ID] = *u
	s.emailIndex[email] = u.ID
	return nil
}

// UserByID returns the user with the given ID.
func (s *MemoryStore) UserByID(_ context.Context, id int) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

// UserByEmail returns the user with the given email.
func (s *MemoryStore) UserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emailIndex[strings.ToLower(email)]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return s.users[id], nil
}

// UpsertRating stores a rating, last write wins on re-rating.
func (s *MemoryStore) UpsertRating(_ context.Context, r models.Rating) error {
	if r.Rating < models.RatingMin || r.Rating > models.RatingMax {
		return fmt.Errorf("store: rating %.1f outside [%.0f, %.0f]",
			r.Rating, models.RatingMin, models.RatingMax)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings[ratingKey{r.UserID, r.MovieID}] = r
	return nil
}

// DeleteRating removes a user's rating for a movie.
func (s *MemoryStore) DeleteRating(_ context.Context, userID, movieID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ratingKey{userID, movieID}
	if _, ok := s.ratings[key]; !ok {
		return ErrNotFound
	}
	delete(s.ratings, key)
	return nil
}

// RatingsByUser returns all ratings by one user, ordered by movie ID.
func (s *MemoryStore) RatingsByUser(_ context.Context, userID int) ([]models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Rating
	for key, r := range s.ratings {
		if key.userID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovieID < out[j].MovieID })
	return out, nil
}

// RatingsByMovie returns all ratings for one movie, ordered by user ID.
func (s *MemoryStore) RatingsByMovie(_ context.Context, movieID int) ([]models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Rating
	for key, r := range s.ratings {
		if key.movieID == movieID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// AllRatings returns every stored rating.
func (s *MemoryStore) AllRatings(_ context.Context) ([]models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Rating, 0, len(s.ratings))
	for _, r := range s.ratings {
		out = append(out, r)
	}
	return out, nil
}

// RatedMovieIDs returns distinct movie IDs with at least one rating,
// in ascending order.
func (s *MemoryStore) RatedMovieIDs(_ context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int]struct{})
	for key := range s.ratings {
		seen[key.movieID] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Ints(out)
	return out, nil
}

// AddWatchEvent appends a watch event to a user's history.
func (s *MemoryStore) AddWatchEvent(_ context.Context, ev models.WatchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[ev.UserID] = append(s.history[ev.UserID], ev)
	return nil
}

// HistoryByUser returns a user's watch events, most recent first.
func (s *MemoryStore) HistoryByUser(_ context.Context, userID int) ([]models.WatchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.history[userID]
	out := make([]models.WatchEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WatchedAt.After(out[j].WatchedAt)
	})
	return out, nil
}
