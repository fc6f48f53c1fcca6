// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package recommend

import (
	"fmt"
	"runtime"
)

// Config holds engine and batch job tuning.
type Config struct {
	// DefaultLimit is the result size when the caller does not specify
	// one (or specifies a non-positive one).
	DefaultLimit int

	// MaxLimit caps requested result sizes.
	MaxLimit int

	// FetchConcurrency bounds concurrent similarity lookups per
	// recommendation request.
	FetchConcurrency int

	// MinCommonRaters is the minimum shared-rater support for a pair.
	// Below it the pair's similarity is defined as zero.
	MinCommonRaters int

	// Workers bounds the batch job's worker pool. Zero means
	// runtime.NumCPU().
	Workers int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		DefaultLimit:     10,
		MaxLimit:         50,
		FetchConcurrency: 8,
		MinCommonRaters:  5,
		Workers:          0,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("recommend: DefaultLimit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("recommend: MaxLimit %d below DefaultLimit %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("recommend: FetchConcurrency must be at least 1, got %d", c.FetchConcurrency)
	}
	if c.MinCommonRaters < 1 {
		return fmt.Errorf("recommend: MinCommonRaters must be at least 1, got %d", c.MinCommonRaters)
	}
	if c.Workers < 0 {
		return fmt.Errorf("recommend: Workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// workerCount resolves the effective batch worker count.
func (c Config) workerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
