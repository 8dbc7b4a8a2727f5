// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package recommend

import (
	"context"
	"time"

	"github.com/findfest/findfest/internal/geo"
)

// CategoryVector maps a category label to a non-negative interaction count.
// A zero count is represented by the absence of the key, never by an explicit
// zero value.
type CategoryVector map[string]int

// Clone returns an independent copy of the vector.
func (v CategoryVector) Clone() CategoryVector {
	out := make(CategoryVector, len(v))
	for cat, n := range v {
		out[cat] = n
	}
	return out
}

// AddVector accumulates another vector element-wise into v.
func (v CategoryVector) AddVector(other CategoryVector) {
	for cat, n := range other {
		v[cat] += n
	}
}

// Apply adjusts the count of every given category by delta, clamping at zero.
// A category whose count drops to zero or below is removed from the vector.
func (v CategoryVector) Apply(categories []string, delta int) {
	for _, cat := range categories {
		n := v[cat] + delta
		if n <= 0 {
			delete(v, cat)
			continue
		}
		v[cat] = n
	}
}

// HasPositive reports whether any category has a strictly positive count.
func (v CategoryVector) HasPositive() bool {
	for _, n := range v {
		if n > 0 {
			return true
		}
	}
	return false
}

// TopCategories returns the arg-max categories of the vector, ties included.
// An empty or all-zero vector yields no categories.
func (v CategoryVector) TopCategories() []string {
	maxCount := 0
	for _, n := range v {
		if n > maxCount {
			maxCount = n
		}
	}
	if maxCount == 0 {
		return nil
	}

	top := make([]string, 0, 1)
	for cat, n := range v {
		if n == maxCount {
			top = append(top, cat)
		}
	}
	return top
}

// Event is a candidate event in the catalog. Immutable during a scoring pass.
type Event struct {
	// ID is the event document identifier.
	ID string `json:"id"`

	// Name is the display name of the event.
	Name string `json:"name"`

	// Categories is the set of category tags on the event. May be empty.
	Categories []string `json:"categories,omitempty"`

	// Location is the event venue. Optional; events without a location
	// receive a distance weight of zero.
	Location *geo.Coordinate `json:"location,omitempty"`

	// CreatedBy is the identifier of the user who created the event.
	CreatedBy string `json:"created_by,omitempty"`
}

// UserProfile is the slice of a user document the recommender consumes.
type UserProfile struct {
	// ID is the user document identifier.
	ID string `json:"id"`

	// CategoryFrequency is the user's interaction counter vector.
	CategoryFrequency CategoryVector `json:"category_frequency,omitempty"`

	// Location is the user's last known coordinate, used as a fallback
	// when a recommendation request carries no location.
	Location *geo.Coordinate `json:"location,omitempty"`
}

// Request is a single recommendation request.
type Request struct {
	// UserID identifies the requesting user. Empty for anonymous requests,
	// which fall back to the global taste vector.
	UserID string `json:"user_id,omitempty" validate:"omitempty,max=128"`

	// Location is the requester's current coordinate. When absent and
	// UserID is set, the user's stored location is used instead.
	Location *geo.Coordinate `json:"location,omitempty" validate:"omitempty"`

	// RequestID is a unique identifier for tracing. Generated if empty.
	RequestID string `json:"request_id,omitempty"`
}

// ScoredEvent is a candidate event annotated with its final score and the
// component sub-scores that produced it.
type ScoredEvent struct {
	Event

	// Score is the blended recommendation score.
	Score float64 `json:"score"`

	// CosineSim is the cosine similarity between the query vector and the
	// event's binary category indicator vector.
	CosineSim float64 `json:"cosine_sim"`

	// DistanceWeight is the proximity weight in [0, 2], or 0 when either
	// coordinate is unknown.
	DistanceWeight float64 `json:"distance_weight"`

	// TopCatBoost is 1 when the event shares a category with the top
	// categories of someone the requester follows, else 0.
	TopCatBoost float64 `json:"top_cat_boost"`

	// CreatorBoost is 1 when the event was created by someone the
	// requester follows, else 0.
	CreatorBoost float64 `json:"creator_boost"`
}

// Response is an ordered recommendation response.
type Response struct {
	// Recommendations is the full catalog ranked descending by score.
	// Pagination and filtering are the caller's concern.
	Recommendations []ScoredEvent `json:"recommendations"`

	// TotalCandidates is the number of catalog events considered.
	TotalCandidates int `json:"total_candidates"`

	// Metadata carries timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// UserID is the user the recommendations are for, if known.
	UserID string `json:"user_id,omitempty"`

	// ColdStart indicates the global fallback vector was used.
	ColdStart bool `json:"cold_start"`

	// LatencyMS is the total scoring latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// DataProvider defines the read-side collaborator lookups the scorer needs.
// This is typically implemented by the store layer; keeping it an interface
// here avoids a dependency cycle and keeps the scorer testable.
type DataProvider interface {
	// GetUser returns the user profile, or (nil, nil) when the user is
	// unknown. Absence is data, not an error.
	GetUser(ctx context.Context, userID string) (*UserProfile, error)

	// GetFollowing returns the identifiers the user follows. An unknown
	// user or empty follow list yields an empty slice.
	GetFollowing(ctx context.Context, userID string) ([]string, error)

	// GetEvents returns the full candidate catalog.
	GetEvents(ctx context.Context) ([]Event, error)

	// GetGlobalVector returns the population-wide fallback vector.
	GetGlobalVector(ctx context.Context) (CategoryVector, error)
}

// AggregateStore defines the write-side operations the aggregator needs to
// maintain per-user counters and the global fallback vector.
type AggregateStore interface {
	// GetUserVector returns the user's counter vector, empty when absent.
	GetUserVector(ctx context.Context, userID string) (CategoryVector, error)

	// SetUserVector persists the user's counter vector.
	SetUserVector(ctx context.Context, userID string, vec CategoryVector) error

	// AllUserVectors returns every user's counter vector, keyed by user ID.
	AllUserVectors(ctx context.Context) (map[string]CategoryVector, error)

	// SetGlobalVector persists the global fallback vector.
	SetGlobalVector(ctx context.Context, vec CategoryVector) error
}
