// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cinefeed/cinefeed/internal/auth"
	"github.com/cinefeed/cinefeed/internal/logging"
	"github.com/cinefeed/cinefeed/internal/metadata"
	"github.com/cinefeed/cinefeed/internal/middleware"
	"github.com/cinefeed/cinefeed/internal/models"
	"github.com/cinefeed/cinefeed/internal/recommend"
	"github.com/cinefeed/cinefeed/internal/store"
)

// Recommender produces recommendations for a user.
type Recommender interface {
	Recommend(ctx context.Context, userID, limit int) recommend.Result
}

// SimilarityRunner controls the similarity batch job.
type SimilarityRunner interface {
	Run(ctx context.Context) (recommend.RunStats, error)
	Running() bool
	LastStats() *recommend.RunStats
}

// MovieCatalog serves movie reads from the cached catalog.
type MovieCatalog interface {
	Popular(ctx context.Context, limit int) ([]models.Movie, error)
	Movie(ctx context.Context, movieID int) (models.Movie, error)
}

// Config holds API server settings.
type Config struct {
	CORSOrigins     []string
	RateLimitReqs   int
	RateLimitWindow time.Duration
}

// Server bundles the API's dependencies and builds its router.
type Server struct {
	cfg      Config
	engine   Recommender
	job      SimilarityRunner
	catalog  MovieCatalog
	provider metadata.Provider
	ratings  store.RatingStore
	users    store.UserStore
	history  store.HistoryStore
	tokens   *auth.TokenManager
	logger   zerolog.Logger
}

// Deps are the collaborators a Server needs.
type Deps struct {
	Engine   Recommender
	Job      SimilarityRunner
	Catalog  MovieCatalog
	Provider metadata.Provider
	Ratings  store.RatingStore
	Users    store.UserStore
	History  store.HistoryStore
	Tokens   *auth.TokenManager
}

// NewServer creates an API server.
func NewServer(cfg Config, deps Deps) *Server {
	return &Server{
		cfg:      cfg,
		engine:   deps.Engine,
		job:      deps.Job,
		catalog:  deps.Catalog,
		provider: deps.Provider,
		ratings:  deps.Ratings,
		users:    deps.Users,
		history:  deps.History,
		tokens:   deps.Tokens,
		logger:   logging.With().Str("component", "api").Logger(),
	}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Instrument)
	r.Use(chimw.Recoverer)

	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	if s.cfg.RateLimitReqs > 0 {
		r.Use(httprate.LimitByIP(s.cfg.RateLimitReqs, s.cfg.RateLimitWindow))
	}

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/movies/popular", s.handlePopularMovies)
		r.Get("/movies/search", s.handleSearchMovies)
		r.Get("/movies/{movieID}", s.handleMovieDetail)
		r.Get("/movies/{movieID}/similar", s.handleSimilarMovies)

		r.Get("/recommendations/user/{userID}", s.handleRecommendations)

		// Routes below require a session.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(s.tokens, unauthorized))

			r.Get("/users/me", s.handleCurrentUser)
			r.Get("/users/me/achievements", s.handleAchievements)

			r.Post("/ratings", s.handleUpsertRating)
			r.Get("/ratings", s.handleListRatings)
			r.Delete("/ratings/{movieID}", s.handleDeleteRating)

			r.Post("/history", s.handleAddWatchEvent)
			r.Get("/history", s.handleHistory)

			r.Post("/similarity/rebuild", s.handleSimilarityRebuild)
			r.Get("/similarity/status", s.handleSimilarityStatus)
		})
	})

	return r
}
