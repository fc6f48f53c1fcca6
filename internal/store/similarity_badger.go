// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/cinefeed/cinefeed/internal/logging"
	"github.com/cinefeed/cinefeed/internal/models"
)

// Key layout:
//
//	sim/<lo>/<hi>      -> JSON MovieSimilarity (lo < hi)
//	idx/<movieID>/<otherID> -> empty, one entry per pair member
//
// The idx entries let SimilarTo answer both orientations with a single
// prefix scan.
const (
	simKeyPrefix = "sim/"
	idxKeyPrefix = "idx/"
)

// BadgerSimilarityStore persists similarities in BadgerDB.
type BadgerSimilarityStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// BadgerOptions configures a BadgerSimilarityStore.
type BadgerOptions struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory runs Badger without disk persistence. Used in tests.
	InMemory bool
}

// NewBadgerSimilarityStore opens (or creates) the similarity database.
func NewBadgerSimilarityStore(opts BadgerOptions) (*BadgerSimilarityStore, error) {
	logger := logging.With().Str("component", "similarity_store").Logger()

	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(opts.Path)
	}
	badgerOpts = badgerOpts.WithLogger(badgerLogger{logger})

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open similarity database: %w", err)
	}

	return &BadgerSimilarityStore{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *BadgerSimilarityStore) Close() error {
	return s.db.Close()
}

func simKeyBytes(lo, hi int) []byte {
	return []byte(simKeyPrefix + strconv.Itoa(lo) + "/" + strconv.Itoa(hi))
}

func idxKeyBytes(movieID, otherID int) []byte {
	return []byte(idxKeyPrefix + strconv.Itoa(movieID) + "/" + strconv.Itoa(otherID))
}

// PutSimilarity writes one pair's score, overwriting any previous value.
func (s *BadgerSimilarityStore) PutSimilarity(_ context.Context, sim models.MovieSimilarity) error {
	lo, hi := sim.MovieID1, sim.MovieID2
	if lo > hi {
		lo, hi = hi, lo
	}
	sim.MovieID1, sim.MovieID2 = lo, hi

	value, err := json.Marshal(sim)
	if err != nil {
		return fmt.Errorf("marshal similarity %d/%d: %w", lo, hi, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(simKeyBytes(lo, hi), value); err != nil {
			return err
		}
		if err := txn.Set(idxKeyBytes(lo, hi), nil); err != nil {
			return err
		}
		return txn.Set(idxKeyBytes(hi, lo), nil)
	})
	if err != nil {
		return fmt.Errorf("write similarity %d/%d: %w", lo, hi, err)
	}
	return nil
}

// Similarity returns the score for a pair in either orientation.
func (s *BadgerSimilarityStore) Similarity(_ context.Context, movieID1, movieID2 int) (models.MovieSimilarity, error) {
	lo, hi := movieID1, movieID2
	if lo > hi {
		lo, hi = hi, lo
	}

	var sim models.MovieSimilarity
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(simKeyBytes(lo, hi))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sim)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return models.MovieSimilarity{}, ErrNotFound
		}
		return models.MovieSimilarity{}, fmt.Errorf("read similarity %d/%d: %w", lo, hi, err)
	}
	return sim, nil
}

// SimilarTo returns all stored pairs involving movieID.
func (s *BadgerSimilarityStore) SimilarTo(ctx context.Context, movieID int) ([]models.MovieSimilarity, error) {
	prefix := []byte(idxKeyPrefix + strconv.Itoa(movieID) + "/")

	var otherIDs []int
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			suffix := string(bytes.TrimPrefix(key, prefix))
			otherID, err := strconv.Atoi(strings.TrimSpace(suffix))
			if err != nil {
				s.logger.Warn().Str("key", string(key)).Msg("malformed index key skipped")
				continue
			}
			otherIDs = append(otherIDs, otherID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan similarities for movie %d: %w", movieID, err)
	}

	out := make([]models.MovieSimilarity, 0, len(otherIDs))
	for _, otherID := range otherIDs {
		sim, err := s.Similarity(ctx, movieID, otherID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Index entry without a value; a partially applied write.
				continue
			}
			return nil, err
		}
		out = append(out, sim)
	}
	return out, nil
}

// badgerLogger adapts zerolog to badger.Logger.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}
