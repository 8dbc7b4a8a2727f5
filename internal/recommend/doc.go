// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

// Package recommend implements content-based event recommendation over
// category interaction counters.
//
// # Architecture
//
// Three collaborators make up the package:
//
//   - ProfileBuilder assembles a per-request taste profile: the user's own
//     counter vector, the summed vectors of followed users, and the social
//     boost inputs.
//   - Scorer ranks the event catalog for a request by blending cosine
//     similarity, distance decay, and social boosts into one score.
//   - Aggregator maintains the counters as RSVP interactions arrive and
//     keeps the global fallback vector in sync.
//
// # Scoring
//
// Each event is scored against a query vector built over a sorted category
// vocabulary:
//
//	score = 0.6*cosine + 0.2*distanceWeight + 0.1*topCategoryBoost + 0.1*creatorBoost
//
// A known user with interaction history queries with 0.7*own + 0.3*followed;
// anonymous or historyless requests fall back to the global vector and are
// flagged as cold start in the response metadata.
//
// # Design Principles
//
//   - Deterministic: the vocabulary is sorted and ties keep catalog order,
//     so identical inputs always produce identical rankings.
//   - Stateless scoring: a pass reads a snapshot and shares no mutable
//     state, so concurrent requests need no locking.
//   - Tolerant aggregation: a failed global recompute keeps the previous
//     vector rather than failing the interaction.
//
// # Usage
//
//	scorer, err := recommend.NewScorer(recommend.DefaultConfig(), logger, store)
//	if err != nil {
//		return err
//	}
//	resp, err := scorer.Recommend(ctx, recommend.Request{UserID: "u1"})
package recommend
