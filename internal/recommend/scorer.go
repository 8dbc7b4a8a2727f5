// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/findfest/findfest/internal/geo"
	"github.com/findfest/findfest/internal/metrics"
)

// Scorer ranks the event catalog for one requester by blending content
// similarity, geographic proximity, and social signals.
//
// A scoring pass is stateless: it reads a snapshot of the counters and the
// catalog, does pure in-memory arithmetic, and returns. Concurrent calls
// share no mutable state and may run fully in parallel.
type Scorer struct {
	config   *Config
	logger   zerolog.Logger
	provider DataProvider
	profiles *ProfileBuilder
}

// NewScorer creates a scorer over the given data provider.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScorer(cfg *Config, logger zerolog.Logger, provider DataProvider) (*Scorer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("data provider not set")
	}

	return &Scorer{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		provider: provider,
		profiles: NewProfileBuilder(provider),
	}, nil
}

// Recommend scores every catalog event for the request and returns the full
// ranked list, descending by score. Ties keep catalog order.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *Scorer) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	logger := s.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Logger()

	profile, err := s.profiles.Build(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("build profile: %w", err)
	}

	// Fall back to the user's stored location when the request has none.
	location := req.Location
	if location == nil && profile.Location != nil {
		location = profile.Location
		logger.Debug().
			Float64("lat", location.Lat).
			Float64("lon", location.Lon).
			Msg("using stored profile location")
	}

	global, err := s.provider.GetGlobalVector(ctx)
	if err != nil {
		return nil, fmt.Errorf("get global vector: %w", err)
	}

	vocab := buildVocabulary(profile.UserVector, profile.FollowedSum, global)
	userVec := mapToVector(profile.UserVector, vocab)
	followedVec := mapToVector(profile.FollowedSum, vocab)
	globalVec := mapToVector(global, vocab)

	query, coldStart := s.combine(profile, userVec, followedVec, globalVec)

	events, err := s.provider.GetEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}

	scored := make([]ScoredEvent, 0, len(events))
	for i := range events {
		scored = append(scored, s.scoreEvent(&events[i], query, vocab, location, profile))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	metrics.RecordRecommendation(coldStart, len(events), time.Since(start))

	resp := &Response{
		Recommendations: scored,
		TotalCandidates: len(events),
		Metadata: ResponseMetadata{
			RequestID: req.RequestID,
			UserID:    req.UserID,
			ColdStart: coldStart,
			LatencyMS: time.Since(start).Milliseconds(),
			Timestamp: time.Now(),
		},
	}

	logger.Debug().
		Int("candidates", len(events)).
		Bool("cold_start", coldStart).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// combine builds the query vector. A known user with at least one strictly
// positive own-vector entry gets the weighted user+followed blend; everyone
// else (anonymous requests, users with no history) rides on the global
// fallback vector.
func (s *Scorer) combine(profile *Profile, userVec, followedVec, globalVec []float64) (query []float64, coldStart bool) {
	if profile.Known && hasPositive(userVec) {
		query = make([]float64, len(userVec))
		for i := range userVec {
			query[i] = s.config.UserVectorWeight*userVec[i] + s.config.FollowedVectorWeight*followedVec[i]
		}
		return query, false
	}
	return globalVec, true
}

// scoreEvent computes the blended score and sub-scores for one candidate.
func (s *Scorer) scoreEvent(event *Event, query []float64, vocab []string, location *geo.Coordinate, profile *Profile) ScoredEvent {
	indicator := make([]float64, len(vocab))
	tags := make(map[string]struct{}, len(event.Categories))
	for _, cat := range event.Categories {
		tags[cat] = struct{}{}
	}
	for i, cat := range vocab {
		if _, ok := tags[cat]; ok {
			indicator[i] = 1
		}
	}

	cosineSim := cosineSimilarity(query, indicator)

	var distanceWeight float64
	if location != nil && event.Location != nil {
		_, distanceWeight = geo.DistanceWeight(*location, *event.Location)
	}

	var creatorBoost float64
	if _, ok := profile.Following[event.CreatedBy]; ok && event.CreatedBy != "" {
		creatorBoost = 1
	}

	var topCatBoost float64
	for _, cat := range event.Categories {
		if _, ok := profile.FollowedTopCategories[cat]; ok {
			topCatBoost = 1
			break
		}
	}

	w := s.config.Weights
	return ScoredEvent{
		Event:          *event,
		Score:          w.Similarity*cosineSim + w.Distance*distanceWeight + w.TopCategory*topCatBoost + w.Creator*creatorBoost,
		CosineSim:      cosineSim,
		DistanceWeight: distanceWeight,
		TopCatBoost:    topCatBoost,
		CreatorBoost:   creatorBoost,
	}
}

// buildVocabulary returns the sorted union of all category labels carrying
// affinity in any of the given vectors. Sorting makes the vector arithmetic
// reproducible across requests; map iteration order must never leak into
// scoring.
func buildVocabulary(vectors ...CategoryVector) []string {
	seen := make(map[string]struct{})
	for _, vec := range vectors {
		for cat := range vec {
			seen[cat] = struct{}{}
		}
	}

	vocab := make([]string, 0, len(seen))
	for cat := range seen {
		vocab = append(vocab, cat)
	}
	sort.Strings(vocab)
	return vocab
}

// mapToVector aligns a frequency map onto the vocabulary, zero-filling
// missing categories.
func mapToVector(vec CategoryVector, vocab []string) []float64 {
	out := make([]float64, len(vocab))
	for i, cat := range vocab {
		out[i] = float64(vec[cat])
	}
	return out
}

// cosineSimilarity returns the cosine of the angle between two equal-length
// vectors, defined as 0 when either has zero magnitude.
func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func hasPositive(vec []float64) bool {
	for _, v := range vec {
		if v > 0 {
			return true
		}
	}
	return false
}
