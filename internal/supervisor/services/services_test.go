// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cinefeed/cinefeed/internal/recommend"
)

type countingRunner struct {
	runs atomic.Int32
	err  error
}

func (r *countingRunner) Run(context.Context) (recommend.RunStats, error) {
	r.runs.Add(1)
	return recommend.RunStats{PairsWritten: 1}, r.err
}

func TestSimilarityServiceRunsOnStartup(t *testing.T) {
	t.Parallel()

	runner := &countingRunner{}
	svc := NewSimilarityService(runner, time.Hour, true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Serve: %v", err)
		}
	}()

	deadline := time.After(2 * time.Second)
	for runner.runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("startup run never happened")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestSimilarityServicePeriodicRuns(t *testing.T) {
	t.Parallel()

	runner := &countingRunner{}
	svc := NewSimilarityService(runner, 10*time.Millisecond, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = svc.Serve(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for runner.runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("only %d runs before deadline", runner.runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestSimilarityServiceSurvivesRunErrors(t *testing.T) {
	t.Parallel()

	runner := &countingRunner{err: errors.New("batch failed")}
	svc := NewSimilarityService(runner, 10*time.Millisecond, true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = svc.Serve(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for runner.runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("service stopped retrying after errors: %d runs", runner.runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

type countingCatalog struct {
	refreshes atomic.Int32
	err       error
}

func (c *countingCatalog) Refresh(context.Context) error {
	c.refreshes.Add(1)
	return c.err
}

func TestCatalogServiceRefreshesOnStartup(t *testing.T) {
	t.Parallel()

	catalog := &countingCatalog{}
	svc := NewCatalogService(catalog, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = svc.Serve(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for catalog.refreshes.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("initial refresh never happened")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
