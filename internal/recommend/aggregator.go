// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package recommend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/findfest/findfest/internal/metrics"
)

// Aggregator maintains the per-user category counters and the global
// fallback vector as interaction events (RSVP confirmations and
// cancellations) arrive.
//
// The global vector is recomputed eagerly after every accepted interaction
// as the exact sum over all per-user vectors. A failed recompute leaves the
// previous global vector in place; cold-start scoring is fallback quality
// anyway, so staleness there is tolerated rather than surfaced to callers.
type Aggregator struct {
	store  AggregateStore
	logger zerolog.Logger
}

// NewAggregator creates an aggregator over the given store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAggregator(store AggregateStore, logger zerolog.Logger) (*Aggregator, error) {
	if store == nil {
		return nil, fmt.Errorf("aggregate store not set")
	}
	return &Aggregator{
		store:  store,
		logger: logger.With().Str("component", "aggregator").Logger(),
	}, nil
}

// RecordInteraction applies a +1 or -1 delta to the user's counter for each
// listed category, then refreshes the global vector. Decrements clamp at
// zero and drop the key entirely, so a counter never goes negative and
// vectors carry no zero-valued entries.
func (a *Aggregator) RecordInteraction(ctx context.Context, userID string, categories []string, delta int) error {
	if userID == "" {
		return fmt.Errorf("user id required")
	}
	if len(categories) == 0 {
		return nil
	}

	vec, err := a.store.GetUserVector(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user vector: %w", err)
	}
	if vec == nil {
		vec = make(CategoryVector)
	}

	vec.Apply(categories, delta)

	if err := a.store.SetUserVector(ctx, userID, vec); err != nil {
		return fmt.Errorf("set user vector: %w", err)
	}

	if err := a.recomputeGlobal(ctx); err != nil {
		metrics.RecordGlobalRecomputeFailure()
		a.logger.Warn().Err(err).
			Str("user_id", userID).
			Msg("global vector recompute failed, keeping previous value")
	}

	return nil
}

// RecomputeGlobal rebuilds the global fallback vector from scratch and
// persists it. Exposed for startup repair after a crash between a user
// update and its recompute.
func (a *Aggregator) RecomputeGlobal(ctx context.Context) error {
	return a.recomputeGlobal(ctx)
}

func (a *Aggregator) recomputeGlobal(ctx context.Context) error {
	vectors, err := a.store.AllUserVectors(ctx)
	if err != nil {
		return fmt.Errorf("list user vectors: %w", err)
	}

	global := make(CategoryVector)
	for _, vec := range vectors {
		global.AddVector(vec)
	}

	if err := a.store.SetGlobalVector(ctx, global); err != nil {
		return fmt.Errorf("set global vector: %w", err)
	}
	return nil
}
