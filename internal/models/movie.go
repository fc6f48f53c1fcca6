// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package models

import "time"

// Movie is a content item as produced by the metadata provider.
// The recommendation engine treats movies as immutable: it reads
// identifiers and the popularity summary, never writes.
type Movie struct {
	// ID is the provider's movie identifier.
	ID int `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Overview is the synopsis text.
	Overview string `json:"overview,omitempty"`

	// PosterURL is the fully-qualified poster image URL.
	PosterURL string `json:"poster_url,omitempty"`

	// ReleaseDate is the provider's release date (YYYY-MM-DD).
	ReleaseDate string `json:"release_date,omitempty"`

	// VoteAverage is the provider's aggregate rating (0-10).
	VoteAverage float64 `json:"vote_average,omitempty"`

	// GenreIDs lists the provider's genre identifiers.
	GenreIDs []int `json:"genre_ids,omitempty"`

	// Popularity is the provider's popularity score, used to order
	// the fallback list. Higher is more popular.
	Popularity float64 `json:"popularity,omitempty"`
}

// MovieSimilarity is a pairwise similarity edge between two movies.
//
// The pair is conceptually undirected. Writers normalize the key so the
// smaller ID is always MovieID1; readers answer lookups for either
// ordering (see store.SimilarityStore implementations).
type MovieSimilarity struct {
	// MovieID1 is the smaller movie ID of the pair.
	MovieID1 int `json:"movie_id_1"`

	// MovieID2 is the larger movie ID of the pair.
	MovieID2 int `json:"movie_id_2"`

	// Score is the Pearson correlation of the two rating vectors,
	// in [-1, 1]. Pairs with insufficient common raters carry an
	// explicit 0.
	Score float64 `json:"score"`

	// UpdatedAt is when the batch job last wrote this edge.
	UpdatedAt time.Time `json:"updated_at"`
}

// Other returns the movie on the opposite side of the edge from id.
// Returns 0 if id is on neither side.
func (s MovieSimilarity) Other(id int) int {
	switch id {
	case s.MovieID1:
		return s.MovieID2
	case s.MovieID2:
		return s.MovieID1
	default:
		return 0
	}
}
