// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

// Command server runs the Cinefeed API server and its background jobs.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cinefeed/cinefeed/internal/api"
	"github.com/cinefeed/cinefeed/internal/auth"
	"github.com/cinefeed/cinefeed/internal/config"
	"github.com/cinefeed/cinefeed/internal/logging"
	"github.com/cinefeed/cinefeed/internal/metadata"
	"github.com/cinefeed/cinefeed/internal/recommend"
	"github.com/cinefeed/cinefeed/internal/store"
	"github.com/cinefeed/cinefeed/internal/supervisor"
	"github.com/cinefeed/cinefeed/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("configuration load failed")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().Str("addr", cfg.Server.Addr()).Msg("cinefeed starting")

	if err := run(cfg); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("cinefeed exited with error")
	}
	logging.Info().Msg("cinefeed stopped")
}

func run(cfg *config.Config) error {
	memory := store.NewMemoryStore()

	sims, closeSims, err := openSimilarityStore(cfg)
	if err != nil {
		return err
	}
	defer closeSims()

	provider := metadata.NewBreakerClient(metadata.NewClient(metadata.ClientConfig{
		BaseURL:       cfg.Metadata.BaseURL,
		APIKey:        cfg.Metadata.APIKey,
		Language:      cfg.Metadata.Language,
		Timeout:       cfg.Metadata.Timeout,
		RatePerSecond: cfg.Metadata.RatePerSecond,
		RateBurst:     cfg.Metadata.RateBurst,
	}))
	catalog := metadata.NewCachedCatalog(provider, cfg.Metadata.CatalogPages)

	recCfg := recommend.Config{
		DefaultLimit:     cfg.Recommend.DefaultLimit,
		MaxLimit:         cfg.Recommend.MaxLimit,
		FetchConcurrency: cfg.Recommend.FetchConcurrency,
		MinCommonRaters:  cfg.Recommend.MinCommonRaters,
		Workers:          cfg.Recommend.SimilarityWorkers,
	}
	if err := recCfg.Validate(); err != nil {
		return err
	}
	engine := recommend.NewEngine(memory, sims, catalog, recCfg)
	job := recommend.NewSimilarityJob(memory, sims, recCfg)

	tokens, err := newTokenManager(cfg)
	if err != nil {
		return err
	}

	server := api.NewServer(api.Config{
		CORSOrigins:     cfg.Security.CORSOrigins,
		RateLimitReqs:   cfg.Security.RateLimitReqs,
		RateLimitWindow: cfg.Security.RateLimitWindow,
	}, api.Deps{
		Engine:   engine,
		Job:      job,
		Catalog:  catalog,
		Provider: provider,
		Ratings:  memory,
		Users:    memory,
		History:  memory,
		Tokens:   tokens,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Routes(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree()
	tree.AddAPI(services.NewHTTPService(httpServer, cfg.Server.ShutdownTimeout))
	tree.AddJob(services.NewCatalogService(catalog, cfg.Metadata.RefreshInterval))
	tree.AddJob(services.NewSimilarityService(job,
		cfg.Recommend.SimilarityInterval, cfg.Recommend.SimilarityOnStartup))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return tree.Serve(ctx)
}

// openSimilarityStore opens the configured similarity backend.
func openSimilarityStore(cfg *config.Config) (store.SimilarityStore, func(), error) {
	switch cfg.Store.SimilarityBackend {
	case "memory":
		return store.NewMemorySimilarityStore(), func() {}, nil
	default:
		badgerStore, err := store.NewBadgerSimilarityStore(store.BadgerOptions{
			Path: cfg.Store.SimilarityPath,
		})
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			if err := badgerStore.Close(); err != nil {
				logging.Err(err).Msg("similarity store close failed")
			}
		}
		return badgerStore, closer, nil
	}
}

// newTokenManager builds the session token manager. Without a
// configured secret an ephemeral one is generated: sessions then die
// with the process, which is fine for development and wrong for
// production.
func newTokenManager(cfg *config.Config) (*auth.TokenManager, error) {
	secret := cfg.Security.JWTSecret
	if secret == "" {
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return nil, err
		}
		secret = hex.EncodeToString(raw)
		logging.Warn().Msg("no jwt_secret configured, using an ephemeral secret")
	}
	return auth.NewTokenManager(secret, cfg.Security.SessionTTL)
}
