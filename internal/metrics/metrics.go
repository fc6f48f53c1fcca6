// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

// Package metrics defines Prometheus collectors for Cinefeed.
// All collectors are registered on the default registry via promauto
// and exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts HTTP API requests by method, route and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeed_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	// APIRequestDuration observes HTTP request latency by route.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinefeed_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RecommendRequestsTotal counts recommendation requests by the branch
	// that produced the result: personalized, fallback_cold_start or
	// fallback_error.
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeed_recommend_requests_total",
			Help: "Total recommendation requests by result source",
		},
		[]string{"source"},
	)

	// RecommendDuration observes end-to-end recommendation latency.
	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinefeed_recommend_duration_seconds",
			Help:    "Recommendation computation duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	// RecommendCandidates observes candidate set sizes before the limit
	// is applied.
	RecommendCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinefeed_recommend_candidates",
			Help:    "Candidate movies considered per recommendation request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// SimilarityJobRuns counts similarity batch runs by outcome.
	SimilarityJobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeed_similarity_job_runs_total",
			Help: "Total similarity batch job runs by outcome",
		},
		[]string{"outcome"},
	)

	// SimilarityJobDuration observes similarity batch run duration.
	SimilarityJobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinefeed_similarity_job_duration_seconds",
			Help:    "Similarity batch job duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	// SimilarityPairsComputed reports pairs written by the last batch run.
	SimilarityPairsComputed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinefeed_similarity_pairs_computed",
			Help: "Movie pairs written by the last similarity batch run",
		},
	)

	// SimilarityLastSuccess is the unix timestamp of the last successful
	// batch run.
	SimilarityLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinefeed_similarity_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful similarity batch run",
		},
	)

	// MetadataRequestsTotal counts metadata provider requests by operation
	// and outcome.
	MetadataRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeed_metadata_requests_total",
			Help: "Total metadata provider requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// MetadataRequestDuration observes metadata provider request latency.
	MetadataRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinefeed_metadata_request_duration_seconds",
			Help:    "Metadata provider request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// CircuitBreakerState reports the metadata circuit breaker state
	// (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinefeed_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerTransitions counts breaker state transitions.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeed_circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// RatingsTotal counts rating writes by kind (created, updated, deleted).
	RatingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinefeed_ratings_total",
			Help: "Total rating operations by kind",
		},
		[]string{"kind"},
	)

	// CatalogMovies reports the number of movies in the cached catalog.
	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinefeed_catalog_movies",
			Help: "Movies currently held in the cached catalog",
		},
	)
)
