// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/cinefeed/cinefeed/internal/logging"
	"github.com/cinefeed/cinefeed/internal/metrics"
	"github.com/cinefeed/cinefeed/internal/models"
)

// Provider is the metadata operations surface. *Client implements it;
// BreakerClient wraps any Provider.
type Provider interface {
	Popular(ctx context.Context, page int) ([]models.Movie, error)
	Movie(ctx context.Context, movieID int) (models.Movie, error)
	Similar(ctx context.Context, movieID int) ([]models.Movie, error)
	Search(ctx context.Context, query string, page int) ([]models.Movie, error)
}

// BreakerClient wraps a Provider in a circuit breaker so a failing
// provider sheds load fast instead of tying up request goroutines.
type BreakerClient struct {
	inner   Provider
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBreakerClient wraps the provider in a circuit breaker. The breaker
// opens at a 60% failure ratio over at least 10 requests and probes
// again after 30 seconds.
func NewBreakerClient(inner Provider) *BreakerClient {
	logger := logging.With().Str("component", "metadata_breaker").Logger()

	settings := gobreaker.Settings{
		Name:        "metadata",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
		IsSuccessful: func(err error) bool {
			// A 404 is a definitive answer from a healthy provider.
			return err == nil || errors.Is(err, ErrNotFound)
		},
	}

	metrics.CircuitBreakerState.WithLabelValues(settings.Name).Set(stateValue(gobreaker.StateClosed))

	return &BreakerClient{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// execute runs fn through the breaker and casts the result.
func execute[T any](b *BreakerClient, fn func() (T, error)) (T, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("metadata: unexpected result type %T", result)
	}
	return typed, nil
}

// Popular implements Provider.
func (b *BreakerClient) Popular(ctx context.Context, page int) ([]models.Movie, error) {
	return execute(b, func() ([]models.Movie, error) { return b.inner.Popular(ctx, page) })
}

// Movie implements Provider.
func (b *BreakerClient) Movie(ctx context.Context, movieID int) (models.Movie, error) {
	return execute(b, func() (models.Movie, error) { return b.inner.Movie(ctx, movieID) })
}

// Similar implements Provider.
func (b *BreakerClient) Similar(ctx context.Context, movieID int) ([]models.Movie, error) {
	return execute(b, func() ([]models.Movie, error) { return b.inner.Similar(ctx, movieID) })
}

// Search implements Provider.
func (b *BreakerClient) Search(ctx context.Context, query string, page int) ([]models.Movie, error) {
	return execute(b, func() ([]models.Movie, error) { return b.inner.Search(ctx, query, page) })
}
