// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store persists evaluation results in an embedded BadgerDB
// so past verdicts survive restarts and can feed the dashboard.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/sentinel/datatypes"
)

// ErrNotFound is returned when no evaluation exists for an ID.
var ErrNotFound = errors.New("store: evaluation not found")

// keyPrefix namespaces evaluation records inside the database.
const keyPrefix = "eval:"

// =============================================================================
// History
// =============================================================================

// History is the evaluation-result archive.
//
// Thread Safety: safe for concurrent use; BadgerDB transactions
// provide isolation.
type History struct {
	db  *badger.DB
	log *slog.Logger
}

// Config holds store configuration.
type Config struct {
	// Path is the directory for database files. Required unless
	// InMemory is true.
	Path string

	// InMemory keeps everything in RAM. Useful for testing.
	InMemory bool

	// Logger for store operations. BadgerDB's internal logging is
	// disabled either way.
	Logger *slog.Logger
}

// Open creates the history store.
//
// Outputs:
//
//	*History - The opened store. Caller must Close() when done.
//	error - Non-nil if the path is invalid or the database cannot open.
func Open(cfg Config) (*History, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("store: path is required for persistent database")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open evaluation store: %w", err)
	}
	return &History{db: db, log: log}, nil
}

// Close releases the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}

// Put stores an evaluation result, keyed by its ID.
func (h *History) Put(result datatypes.EvaluationResult) error {
	if result.ID == "" {
		return errors.New("store: evaluation result has no ID")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal evaluation %s: %w", result.ID, err)
	}
	err = h.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+result.ID), payload)
	})
	if err != nil {
		return fmt.Errorf("store evaluation %s: %w", result.ID, err)
	}
	h.log.Debug("stored evaluation", "id", result.ID, "accept", result.Accept)
	return nil
}

// Get loads one evaluation result by ID.
//
// Outputs:
//
//	datatypes.EvaluationResult - The stored result.
//	error - ErrNotFound when the ID is unknown.
func (h *History) Get(id string) (datatypes.EvaluationResult, error) {
	var result datatypes.EvaluationResult
	err := h.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	if err != nil {
		return datatypes.EvaluationResult{}, err
	}
	return result, nil
}

// List returns stored evaluations, newest first, capped at limit.
// A limit <= 0 means no cap.
func (h *History) List(limit int) ([]datatypes.EvaluationResult, error) {
	var results []datatypes.EvaluationResult
	err := h.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var r datatypes.EvaluationResult
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			})
			if err != nil {
				return err
			}
			results = append(results, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
