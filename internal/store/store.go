// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

// Package store provides persistence for users, ratings, watch history
// and movie similarities. Ratings and users live in memory; similarities
// are persisted in BadgerDB so batch results survive restarts.
package store

import (
	"context"
	"errors"

	"github.com/cinefeed/cinefeed/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// RatingStore provides read and write access to user ratings.
type RatingStore interface {
	// UpsertRating stores a rating, replacing any previous rating the
	// user gave the same movie (last write wins).
	UpsertRating(ctx context.Context, r models.Rating) error

	// DeleteRating removes a user's rating for a movie.
	// Returns ErrNotFound if no such rating exists.
	DeleteRating(ctx context.Context, userID, movieID int) error

	// RatingsByUser returns all ratings by one user.
	RatingsByUser(ctx context.Context, userID int) ([]models.Rating, error)

	// RatingsByMovie returns all ratings for one movie.
	RatingsByMovie(ctx context.Context, movieID int) ([]models.Rating, error)

	// AllRatings returns every stored rating. Used by the similarity
	// batch job, which needs the full matrix.
	AllRatings(ctx context.Context) ([]models.Rating, error)

	// RatedMovieIDs returns the set of distinct movie IDs with at least
	// one rating.
	RatedMovieIDs(ctx context.Context) ([]int, error)
}

// SimilarityStore persists item-item similarity scores. Pairs are stored
// under a normalized key (smaller ID first); reads answer both
// orientations.
type SimilarityStore interface {
	// PutSimilarity writes one pair's score, overwriting any previous
	// value. Zero scores are written too: they record that the pair was
	// evaluated and found unsupported.
	PutSimilarity(ctx context.Context, sim models.MovieSimilarity) error

	// Similarity returns the score for a pair in either orientation.
	// Returns ErrNotFound when the pair has never been computed.
	Similarity(ctx context.Context, movieID1, movieID2 int) (models.MovieSimilarity, error)

	// SimilarTo returns all stored pairs involving movieID.
	SimilarTo(ctx context.Context, movieID int) ([]models.MovieSimilarity, error)
}

// UserStore provides user account persistence.
type UserStore interface {
	// CreateUser stores a new user and assigns its ID.
	// Returns an error if the email is already registered.
	CreateUser(ctx context.Context, u *models.User) error

	// UserByID returns the user with the given ID, or ErrNotFound.
	UserByID(ctx context.Context, id int) (models.User, error)

	// UserByEmail returns the user with the given email, or ErrNotFound.
	UserByEmail(ctx context.Context, email string) (models.User, error)
}

// HistoryStore records watch events.
type HistoryStore interface {
	// AddWatchEvent appends a watch event to a user's history.
	AddWatchEvent(ctx context.Context, ev models.WatchEvent) error

	// HistoryByUser returns a user's watch events, most recent first.
	HistoryByUser(ctx context.Context, userID int) ([]models.WatchEvent, error)
}
