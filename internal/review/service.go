// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package review generates movie reviews with an OpenAI-compatible chat model
// and caches them in BadgerDB.
package review

import (
	"context"
	"time"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

// GenerationError reports that no review could be produced.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "review generation failed: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Cache stores generated reviews. Implemented by *BadgerCache.
type Cache interface {
	Get(key string) (string, bool, error)
	Set(key, model, review string) error
}

// Service generates reviews. The cache is optional.
type Service struct {
	completer Completer
	cache     Cache
	model     string
}

// NewService creates a service. cache may be nil.
func NewService(completer Completer, model string, cache Cache) *Service {
	return &Service{completer: completer, cache: cache, model: model}
}

// Generate returns a one-paragraph review for req. Cache failures are logged
// and never fail the request; backend failures return *GenerationError.
func (s *Service) Generate(ctx context.Context, req ReviewRequest) (string, error) {
	start := time.Now()
	prompt := BuildPrompt(req)
	key := cacheKey(s.model, prompt)
	logger := logging.Ctx(ctx)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(key)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("Review cache lookup failed")
		case ok:
			metrics.RecordCacheLookup("review", true)
			metrics.RecordReview("cached", time.Since(start))
			return cached, nil
		default:
			metrics.RecordCacheLookup("review", false)
		}
	}

	text, err := s.completer.Complete(ctx, prompt.Messages())
	if err != nil {
		metrics.RecordReview("error", time.Since(start))
		return "", &GenerationError{Err: err}
	}
	if text == "" {
		metrics.RecordReview("error", time.Since(start))
		return "", &GenerationError{Err: ErrEmptyCompletion}
	}

	if s.cache != nil {
		if err := s.cache.Set(key, s.model, text); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache review")
		}
	}

	metrics.RecordReview("generated", time.Since(start))
	logger.Debug().Str("title", req.Title).Dur("duration", time.Since(start)).Msg("Review generated")
	return text, nil
}
