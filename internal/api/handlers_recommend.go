// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package api

import (
	"errors"
	"net/http"

	"github.com/cinefeed/cinefeed/internal/recommend"
)

// handleRecommendations serves GET /recommendations/user/{userID}.
// The engine degrades internally, so this endpoint always answers 200
// with a Source field naming the branch taken.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "userID")
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 0)

	result := s.engine.Recommend(r.Context(), userID, limit)
	respondOK(w, result)
}

// handleSimilarityRebuild serves POST /similarity/rebuild. The run
// executes synchronously; clients wanting fire-and-forget poll
// /similarity/status instead of waiting.
func (s *Server) handleSimilarityRebuild(w http.ResponseWriter, r *http.Request) {
	stats, err := s.job.Run(r.Context())
	if err != nil {
		if errors.Is(err, recommend.ErrAlreadyRunning) {
			conflict(w, "a similarity rebuild is already running")
			return
		}
		s.logger.Error().Err(err).Msg("similarity rebuild failed")
		internalError(w)
		return
	}
	respondOK(w, stats)
}

// similarityStatus is the /similarity/status payload.
type similarityStatus struct {
	Running bool                `json:"running"`
	LastRun *recommend.RunStats `json:"last_run,omitempty"`
}

// handleSimilarityStatus serves GET /similarity/status.
func (s *Server) handleSimilarityStatus(w http.ResponseWriter, _ *http.Request) {
	respondOK(w, similarityStatus{
		Running: s.job.Running(),
		LastRun: s.job.LastStats(),
	})
}
