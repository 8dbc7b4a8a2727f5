// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package services

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// GCRunner matches the BadgerDB value log GC entry point.
type GCRunner interface {
	RunValueLogGC(discardRatio float64) error
}

// BadgerGCService runs periodic value log garbage collection. Each tick it
// repeats GC passes until badger reports nothing left to rewrite.
type BadgerGCService struct {
	runner       GCRunner
	interval     time.Duration
	discardRatio float64
	logger       zerolog.Logger
	name         string
}

// NewBadgerGCService creates a GC service. Zero interval defaults to ten
// minutes, zero discard ratio to 0.5.
func NewBadgerGCService(runner GCRunner, interval time.Duration, discardRatio float64, logger zerolog.Logger) *BadgerGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if discardRatio <= 0 {
		discardRatio = 0.5
	}
	return &BadgerGCService{
		runner:       runner,
		interval:     interval,
		discardRatio: discardRatio,
		logger:       logger.With().Str("component", "badger-gc").Logger(),
		name:         "badger-gc",
	}
}

// Serve implements suture.Service.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.collect()
		}
	}
}

func (s *BadgerGCService) collect() {
	passes := 0
	for {
		err := s.runner.RunValueLogGC(s.discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("value log GC failed")
			return
		}
		passes++
	}
	if passes > 0 {
		s.logger.Debug().Int("passes", passes).Msg("value log GC reclaimed space")
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *BadgerGCService) String() string {
	return s.name
}
