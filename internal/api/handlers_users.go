// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package api

import (
	"net/http"

	"github.com/cinefeed/cinefeed/internal/auth"
	"github.com/cinefeed/cinefeed/internal/models"
)

// achievementDef is a static achievement definition. Progress counts
// are derived from stored activity at request time.
type achievementDef struct {
	id          string
	name        string
	description string
	threshold   int
	count       func(ratings, watched int) int
}

var achievementDefs = []achievementDef{
	{
		id:          "first_rating",
		name:        "Critic in Training",
		description: "Rate your first movie",
		threshold:   1,
		count:       func(ratings, _ int) int { return ratings },
	},
	{
		id:          "ten_ratings",
		name:        "Opinionated",
		description: "Rate 10 movies",
		threshold:   10,
		count:       func(ratings, _ int) int { return ratings },
	},
	{
		id:          "fifty_ratings",
		name:        "Resident Critic",
		description: "Rate 50 movies",
		threshold:   50,
		count:       func(ratings, _ int) int { return ratings },
	},
	{
		id:          "first_watch",
		name:        "Opening Night",
		description: "Watch your first movie",
		threshold:   1,
		count:       func(_, watched int) int { return watched },
	},
	{
		id:          "marathon",
		name:        "Marathon Runner",
		description: "Watch 25 movies",
		threshold:   25,
		count:       func(_, watched int) int { return watched },
	},
}

// handleAchievements serves GET /users/me/achievements.
func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	ratings, err := s.ratings.RatingsByUser(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("rating list failed")
		internalError(w)
		return
	}
	events, err := s.history.HistoryByUser(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("history list failed")
		internalError(w)
		return
	}

	// A movie watched several times counts once.
	watchedMovies := make(map[int]struct{}, len(events))
	for _, ev := range events {
		watchedMovies[ev.MovieID] = struct{}{}
	}

	achievements := make([]models.Achievement, 0, len(achievementDefs))
	for _, def := range achievementDefs {
		progress := def.count(len(ratings), len(watchedMovies))
		if progress > def.threshold {
			progress = def.threshold
		}
		achievements = append(achievements, models.Achievement{
			ID:          def.id,
			Name:        def.name,
			Description: def.description,
			Threshold:   def.threshold,
			Progress:    progress,
			Unlocked:    progress >= def.threshold,
		})
	}
	respondOK(w, achievements)
}
