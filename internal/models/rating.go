// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package models

import "time"

// RatingMin and RatingMax bound user star ratings.
const (
	RatingMin = 1.0
	RatingMax = 5.0
)

// Rating is a single user's star rating of a movie.
//
// There is at most one rating per (user, movie). Re-rating replaces the
// previous row (last-write-wins); the store enforces this.
type Rating struct {
	// UserID identifies the rating user.
	UserID int `json:"user_id"`

	// MovieID identifies the rated movie.
	MovieID int `json:"movie_id"`

	// Rating is the star value in [1, 5].
	Rating float64 `json:"rating"`

	// RatedAt is when the rating was last written.
	RatedAt time.Time `json:"rated_at"`
}

// WatchEvent records a playback event for the history and profile views.
type WatchEvent struct {
	// UserID identifies the watching user.
	UserID int `json:"user_id"`

	// MovieID identifies the watched movie.
	MovieID int `json:"movie_id"`

	// Progress is the completion fraction (0-1).
	Progress float64 `json:"progress"`

	// WatchedAt is when the event was recorded.
	WatchedAt time.Time `json:"watched_at"`
}
