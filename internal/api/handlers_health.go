// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package api

import (
	"net/http"
	"time"
)

var startTime = time.Now()

// healthResponse is the /health payload.
type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	BatchRunning  bool   `json:"batch_running"`
}

// handleHealth serves GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondOK(w, healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(startTime).Seconds()),
		BatchRunning:  s.job.Running(),
	})
}
