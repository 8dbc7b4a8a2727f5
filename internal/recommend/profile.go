// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package recommend

import (
	"context"
	"fmt"

	"github.com/findfest/findfest/internal/geo"
)

// Profile is the per-request view of a user's taste derived from the
// interaction counters: the user's own vector, the aggregated vector of the
// users they follow, and the social-boost inputs. Missing users and empty
// follow lists yield empty values, never errors.
type Profile struct {
	// Known reports whether the user document exists.
	Known bool

	// UserVector is the user's own counter vector.
	UserVector CategoryVector

	// FollowedSum is the element-wise sum of the followed users' vectors.
	FollowedSum CategoryVector

	// FollowedTopCategories is the union of each followed user's arg-max
	// categories (ties included), used for the top-category boost.
	FollowedTopCategories map[string]struct{}

	// Following is the set of user identifiers the user follows, used for
	// the creator boost.
	Following map[string]struct{}

	// Location is the user's stored coordinate, if any.
	Location *geo.Coordinate
}

// ProfileBuilder constructs per-request taste profiles from stored counters.
// It is read-only and safe for concurrent use.
type ProfileBuilder struct {
	provider DataProvider
}

// NewProfileBuilder creates a profile builder backed by the given provider.
func NewProfileBuilder(provider DataProvider) *ProfileBuilder {
	return &ProfileBuilder{provider: provider}
}

// Build assembles the profile for userID. An empty userID or an unknown user
// produces an empty profile with Known=false.
func (b *ProfileBuilder) Build(ctx context.Context, userID string) (*Profile, error) {
	prof := &Profile{
		UserVector:            CategoryVector{},
		FollowedSum:           CategoryVector{},
		FollowedTopCategories: map[string]struct{}{},
		Following:             map[string]struct{}{},
	}

	if userID == "" {
		return prof, nil
	}

	user, err := b.provider.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	if user == nil {
		return prof, nil
	}

	prof.Known = true
	prof.Location = user.Location
	if user.CategoryFrequency != nil {
		prof.UserVector = user.CategoryFrequency.Clone()
	}

	following, err := b.provider.GetFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get following for %s: %w", userID, err)
	}

	for _, followID := range following {
		prof.Following[followID] = struct{}{}

		followed, err := b.provider.GetUser(ctx, followID)
		if err != nil {
			return nil, fmt.Errorf("get followed user %s: %w", followID, err)
		}
		if followed == nil || followed.CategoryFrequency == nil {
			continue
		}

		prof.FollowedSum.AddVector(followed.CategoryFrequency)
		for _, cat := range followed.CategoryFrequency.TopCategories() {
			prof.FollowedTopCategories[cat] = struct{}{}
		}
	}

	return prof, nil
}
