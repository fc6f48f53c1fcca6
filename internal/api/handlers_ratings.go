// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/cinefeed/cinefeed/internal/auth"
	"github.com/cinefeed/cinefeed/internal/metrics"
	"github.com/cinefeed/cinefeed/internal/models"
	"github.com/cinefeed/cinefeed/internal/store"
)

// handleUpsertRating serves POST /ratings. Re-rating a movie replaces
// the previous rating.
func (s *Server) handleUpsertRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	rating := models.Rating{
		UserID:  auth.UserIDFromContext(r.Context()),
		MovieID: req.MovieID,
		Rating:  req.Rating,
		RatedAt: time.Now(),
	}
	if err := s.ratings.UpsertRating(r.Context(), rating); err != nil {
		s.logger.Error().Err(err).Int("movie_id", req.MovieID).Msg("rating upsert failed")
		internalError(w)
		return
	}

	metrics.RatingsTotal.WithLabelValues("upserted").Inc()
	respondCreated(w, rating)
}

// handleListRatings serves GET /ratings.
func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	ratings, err := s.ratings.RatingsByUser(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("rating list failed")
		internalError(w)
		return
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}
	respondOK(w, ratings)
}

// handleDeleteRating serves DELETE /ratings/{movieID}.
func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathInt(w, r, "movieID")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(r.Context())

	err := s.ratings.DeleteRating(r.Context(), userID, movieID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, "rating not found")
			return
		}
		s.logger.Error().Err(err).Int("movie_id", movieID).Msg("rating delete failed")
		internalError(w)
		return
	}

	metrics.RatingsTotal.WithLabelValues("deleted").Inc()
	respondOK(w, map[string]int{"movie_id": movieID})
}

// handleAddWatchEvent serves POST /history.
func (s *Server) handleAddWatchEvent(w http.ResponseWriter, r *http.Request) {
	var req watchEventRequest
	if err := decodeAndValidate(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	event := models.WatchEvent{
		UserID:    auth.UserIDFromContext(r.Context()),
		MovieID:   req.MovieID,
		Progress:  req.Progress,
		WatchedAt: time.Now(),
	}
	if err := s.history.AddWatchEvent(r.Context(), event); err != nil {
		s.logger.Error().Err(err).Int("movie_id", req.MovieID).Msg("watch event write failed")
		internalError(w)
		return
	}
	respondCreated(w, event)
}

// handleHistory serves GET /history.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	events, err := s.history.HistoryByUser(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("history list failed")
		internalError(w)
		return
	}
	if events == nil {
		events = []models.WatchEvent{}
	}
	respondOK(w, events)
}
