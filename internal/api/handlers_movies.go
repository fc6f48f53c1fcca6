// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cinefeed/cinefeed/internal/metadata"
)

// defaultPopularLimit bounds /movies/popular when no limit is given.
const defaultPopularLimit = 20

// maxPopularLimit caps /movies/popular.
const maxPopularLimit = 100

// handlePopularMovies serves GET /movies/popular.
func (s *Server) handlePopularMovies(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPopularLimit)
	if limit < 1 {
		limit = defaultPopularLimit
	}
	if limit > maxPopularLimit {
		limit = maxPopularLimit
	}

	movies, err := s.catalog.Popular(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("popular movies lookup failed")
		respondError(w, http.StatusServiceUnavailable, CodeUnavailable, "catalog unavailable")
		return
	}
	respondOK(w, movies)
}

// handleMovieDetail serves GET /movies/{movieID}.
func (s *Server) handleMovieDetail(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathInt(w, r, "movieID")
	if !ok {
		return
	}

	movie, err := s.catalog.Movie(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			notFound(w, "movie not found")
			return
		}
		s.logger.Error().Err(err).Int("movie_id", movieID).Msg("movie lookup failed")
		internalError(w)
		return
	}
	respondOK(w, movie)
}

// handleSimilarMovies serves GET /movies/{movieID}/similar. This is the
// provider's content-based list, not the rating-derived similarity used
// for recommendations.
func (s *Server) handleSimilarMovies(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathInt(w, r, "movieID")
	if !ok {
		return
	}

	movies, err := s.provider.Similar(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			notFound(w, "movie not found")
			return
		}
		s.logger.Error().Err(err).Int("movie_id", movieID).Msg("similar movies lookup failed")
		respondError(w, http.StatusServiceUnavailable, CodeUnavailable, "metadata provider unavailable")
		return
	}
	respondOK(w, movies)
}

// handleSearchMovies serves GET /movies/search?q=...
func (s *Server) handleSearchMovies(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		badRequest(w, "query parameter q is required")
		return
	}
	page := queryInt(r, "page", 1)

	movies, err := s.provider.Search(r.Context(), query, page)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("search failed")
		respondError(w, http.StatusServiceUnavailable, CodeUnavailable, "metadata provider unavailable")
		return
	}
	respondOK(w, movies)
}

// queryInt parses an integer query parameter, returning def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// pathInt parses a positive integer URL parameter, writing a 400 and
// returning ok=false on failure.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v < 1 {
		badRequest(w, name+" must be a positive integer")
		return 0, false
	}
	return v, true
}
