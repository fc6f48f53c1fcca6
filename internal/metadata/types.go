// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

// Package metadata fetches movie metadata from a TMDB-compatible
// provider. The Client handles transport, rate limiting and decoding;
// BreakerClient wraps it in a circuit breaker; CachedCatalog keeps a
// periodically refreshed popular-movie snapshot so read paths never
// block on the provider.
package metadata

import (
	"time"

	"github.com/cinefeed/cinefeed/internal/models"
)

// movieDTO is the provider's movie representation.
type movieDTO struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int   `json:"genre_ids"`
	Popularity  float64 `json:"popularity"`
}

// movieDetailDTO extends movieDTO with fields only present on the
// detail endpoint.
type movieDetailDTO struct {
	movieDTO
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	Runtime int `json:"runtime"`
}

// listResponse is the provider's paged list envelope.
type listResponse struct {
	Page         int        `json:"page"`
	Results      []movieDTO `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// posterBaseURL prefixes relative poster paths from the provider.
const posterBaseURL = "https://image.tmdb.org/t/p/w500"

// toModel converts a provider movie to the domain model. Release dates
// that do not parse as YYYY-MM-DD are dropped rather than passed
// through malformed.
func (d movieDTO) toModel() models.Movie {
	m := models.Movie{
		ID:          d.ID,
		Title:       d.Title,
		Overview:    d.Overview,
		VoteAverage: d.VoteAverage,
		GenreIDs:    d.GenreIDs,
		Popularity:  d.Popularity,
	}
	if d.PosterPath != "" {
		m.PosterURL = posterBaseURL + d.PosterPath
	}
	if _, err := time.Parse("2006-01-02", d.ReleaseDate); err == nil {
		m.ReleaseDate = d.ReleaseDate
	}
	return m
}

func (d movieDetailDTO) toModel() models.Movie {
	m := d.movieDTO.toModel()
	if len(m.GenreIDs) == 0 && len(d.Genres) > 0 {
		ids := make([]int, 0, len(d.Genres))
		for _, g := range d.Genres {
			ids = append(ids, g.ID)
		}
		m.GenreIDs = ids
	}
	return m
}
