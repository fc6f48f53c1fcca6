// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

// Package api implements the Cinefeed HTTP API: movie browsing,
// ratings, watch history, recommendations, similarity job control and
// account endpoints, all under /api/v1.
package api

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/cinefeed/cinefeed/internal/logging"
)

// Response is the uniform API envelope.
type Response struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError carries a machine-readable code and a human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned by the API.
const (
	CodeBadRequest   = "bad_request"
	CodeUnauthorized = "unauthorized"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeInternal     = "internal_error"
	CodeUnavailable  = "unavailable"
)

// writeJSON writes a response envelope with the given status.
func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Err(err).Msg("response encoding failed")
	}
}

// respondOK writes a 200 success envelope.
func respondOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// respondCreated writes a 201 success envelope.
func respondCreated(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Response{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

func badRequest(w http.ResponseWriter, message string) {
	respondError(w, http.StatusBadRequest, CodeBadRequest, message)
}

func unauthorized(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
}

func notFound(w http.ResponseWriter, message string) {
	respondError(w, http.StatusNotFound, CodeNotFound, message)
}

func conflict(w http.ResponseWriter, message string) {
	respondError(w, http.StatusConflict, CodeConflict, message)
}

func internalError(w http.ResponseWriter) {
	respondError(w, http.StatusInternalServerError, CodeInternal, "internal error")
}
