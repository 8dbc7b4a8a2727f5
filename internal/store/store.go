// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package store

import (
	"context"
	"errors"
	"time"

	"github.com/findfest/findfest/internal/recommend"
)

// Sentinel errors returned by store implementations.
var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrAlreadyExists indicates a create collided with an existing document.
	ErrAlreadyExists = errors.New("document already exists")
)

// RSVP records a user's attendance intent for an event.
type RSVP struct {
	// UserID is the attending user.
	UserID string `json:"user_id"`

	// EventID is the event being attended.
	EventID string `json:"event_id"`

	// Status is true while the RSVP is confirmed. A cancelled RSVP keeps
	// its document with Status false so re-confirmation is cheap.
	Status bool `json:"status"`

	// CreatedAt is when the RSVP was first created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the status last changed.
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the persistence surface for users, events, follow edges, RSVPs,
// and the recommendation counters. It satisfies both read and write
// collaborator interfaces of the recommend package so a single store can
// back the scorer and the aggregator.
type Store interface {
	recommend.DataProvider
	recommend.AggregateStore

	// PutUser creates or replaces a user document.
	PutUser(ctx context.Context, user *recommend.UserProfile) error

	// CreateEvent stores a new event, assigning an ID when absent.
	// Returns ErrAlreadyExists when the ID is taken.
	CreateEvent(ctx context.Context, event *recommend.Event) error

	// GetEvent returns an event, or ErrNotFound.
	GetEvent(ctx context.Context, eventID string) (*recommend.Event, error)

	// UpdateEvent replaces an existing event. Returns ErrNotFound when the
	// event does not exist.
	UpdateEvent(ctx context.Context, event *recommend.Event) error

	// DeleteEvent removes an event. Returns ErrNotFound when absent.
	DeleteEvent(ctx context.Context, eventID string) error

	// Follow records a follow edge. Both users must exist. Idempotent.
	Follow(ctx context.Context, userID, targetID string) error

	// Unfollow removes a follow edge. Removing an absent edge is a no-op.
	Unfollow(ctx context.Context, userID, targetID string) error

	// GetRSVP returns the RSVP document, or (nil, nil) when absent.
	GetRSVP(ctx context.Context, userID, eventID string) (*RSVP, error)

	// PutRSVP creates or replaces an RSVP document.
	PutRSVP(ctx context.Context, rsvp *RSVP) error

	// DeleteRSVP removes an RSVP document. Absent documents are a no-op.
	DeleteRSVP(ctx context.Context, userID, eventID string) error

	// CountConfirmedRSVPs returns the number of confirmed RSVPs for an event.
	CountConfirmedRSVPs(ctx context.Context, eventID string) (int, error)

	// Close releases store resources.
	Close() error
}
