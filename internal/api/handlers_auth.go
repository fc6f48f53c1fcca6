// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cinefeed/cinefeed/internal/auth"
	"github.com/cinefeed/cinefeed/internal/models"
	"github.com/cinefeed/cinefeed/internal/store"
)

// sessionResponse is returned on successful register and login.
type sessionResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// handleRegister serves POST /auth/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("password hashing failed")
		internalError(w)
		return
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.users.CreateUser(r.Context(), user); err != nil {
		// The only CreateUser failure in the memory store is a
		// duplicate email.
		conflict(w, "email already registered")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", user.ID).Msg("token issue failed")
		internalError(w)
		return
	}
	respondCreated(w, sessionResponse{Token: token, User: *user})
}

// handleLogin serves POST /auth/login. Wrong email and wrong password
// answer identically so the endpoint does not leak which emails exist.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	user, err := s.users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid email or password")
			return
		}
		s.logger.Error().Err(err).Msg("user lookup failed")
		internalError(w)
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		respondError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid email or password")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", user.ID).Msg("token issue failed")
		internalError(w)
		return
	}
	respondOK(w, sessionResponse{Token: token, User: user})
}

// handleCurrentUser serves GET /users/me.
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	user, err := s.users.UserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, "user not found")
			return
		}
		s.logger.Error().Err(err).Int("user_id", userID).Msg("user lookup failed")
		internalError(w)
		return
	}
	respondOK(w, user)
}
