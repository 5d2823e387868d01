// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package review

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/logging"
)

const reviewKeyPrefix = "review:"

// cachedReview is the stored value.
type cachedReview struct {
	Review    string    `json:"review"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// BadgerCache stores generated reviews in BadgerDB with a TTL.
type BadgerCache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerCache opens the cache at path, or an in-memory instance when
// path is empty.
func OpenBadgerCache(path string, ttl time.Duration) (*BadgerCache, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o750); err != nil {
			return nil, fmt.Errorf("create review cache directory: %w", err)
		}
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for reviews: %w", err)
	}

	logging.Info().Str("path", path).Bool("in_memory", path == "").Dur("ttl", ttl).Msg("Review cache opened")
	return &BadgerCache{db: db, ttl: ttl}, nil
}

// Get returns the cached review for key. Expired entries are never returned.
func (c *BadgerCache) Get(key string) (string, bool, error) {
	var cached cachedReview
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &cached)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get cached review: %w", err)
	}
	return cached.Review, true, nil
}

// Set stores review under key for the cache TTL.
func (c *BadgerCache) Set(key, model, review string) error {
	data, err := json.Marshal(cachedReview{Review: review, Model: model, CreatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal cached review: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data)
		if c.ttl > 0 {
			e = e.WithTTL(c.ttl)
		}
		return txn.SetEntry(e)
	})
}

// Close closes the underlying BadgerDB.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}
