// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package recommend

import "fmt"

// Config contains all configuration for the recommendation scorer.
type Config struct {
	// Weights defines the contribution of each scoring component.
	Weights ScoringWeights `json:"weights" koanf:"weights"`

	// UserVectorWeight is the share of the query vector taken from the
	// requester's own taste vector. Default: 0.7.
	UserVectorWeight float64 `json:"user_vector_weight" koanf:"user_vector_weight"`

	// FollowedVectorWeight is the share taken from the aggregated vector
	// of followed users. Default: 0.3.
	FollowedVectorWeight float64 `json:"followed_vector_weight" koanf:"followed_vector_weight"`
}

// ScoringWeights defines the blend of the per-event score components.
//
//	score = Similarity*cos + Distance*weight + TopCategory*boost + Creator*boost
//
// These are fixed constants of the scoring policy; changing them changes the
// ranking contract.
type ScoringWeights struct {
	// Similarity weights the cosine similarity term. Default: 0.6.
	Similarity float64 `json:"similarity" koanf:"similarity"`

	// Distance weights the proximity decay term. Default: 0.2.
	Distance float64 `json:"distance" koanf:"distance"`

	// TopCategory weights the followed-top-category boost. Default: 0.1.
	TopCategory float64 `json:"top_category" koanf:"top_category"`

	// Creator weights the followed-creator boost. Default: 0.1.
	Creator float64 `json:"creator" koanf:"creator"`
}

// DefaultConfig returns the production scoring policy.
func DefaultConfig() *Config {
	return &Config{
		Weights: ScoringWeights{
			Similarity:  0.6,
			Distance:    0.2,
			TopCategory: 0.1,
			Creator:     0.1,
		},
		UserVectorWeight:     0.7,
		FollowedVectorWeight: 0.3,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"weights.similarity", c.Weights.Similarity},
		{"weights.distance", c.Weights.Distance},
		{"weights.top_category", c.Weights.TopCategory},
		{"weights.creator", c.Weights.Creator},
		{"user_vector_weight", c.UserVectorWeight},
		{"followed_vector_weight", c.FollowedVectorWeight},
	} {
		if w.value < 0 || w.value > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %f", w.name, w.value)
		}
	}

	if c.UserVectorWeight+c.FollowedVectorWeight == 0 {
		return fmt.Errorf("user_vector_weight and followed_vector_weight must not both be zero")
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}
