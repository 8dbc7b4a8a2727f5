// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/findfest/findfest/internal/recommend"
)

// MemoryStore is an in-memory Store for development and tests. All data is
// lost on Close. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*recommend.UserProfile
	events  map[string]*recommend.Event
	order   []string
	follows map[string]map[string]struct{}
	rsvps   map[string]*RSVP
	global  recommend.CategoryVector
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*recommend.UserProfile),
		events:  make(map[string]*recommend.Event),
		follows: make(map[string]map[string]struct{}),
		rsvps:   make(map[string]*RSVP),
		global:  recommend.CategoryVector{},
	}
}

func rsvpKey(userID, eventID string) string {
	return userID + "\x00" + eventID
}

func cloneUser(u *recommend.UserProfile) *recommend.UserProfile {
	out := *u
	out.CategoryFrequency = u.CategoryFrequency.Clone()
	if u.Location != nil {
		loc := *u.Location
		out.Location = &loc
	}
	return &out
}

func cloneEvent(e *recommend.Event) *recommend.Event {
	out := *e
	out.Categories = append([]string(nil), e.Categories...)
	if e.Location != nil {
		loc := *e.Location
		out.Location = &loc
	}
	return &out
}

// GetUser implements recommend.DataProvider.
func (s *MemoryStore) GetUser(_ context.Context, userID string) (*recommend.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	return cloneUser(user), nil
}

// GetFollowing implements recommend.DataProvider.
func (s *MemoryStore) GetFollowing(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := s.follows[userID]
	out := make([]string, 0, len(edges))
	for target := range edges {
		out = append(out, target)
	}
	sort.Strings(out)
	return out, nil
}

// GetEvents implements recommend.DataProvider. Events come back in creation
// order so tie scores rank older events first.
func (s *MemoryStore) GetEvents(_ context.Context) ([]recommend.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recommend.Event, 0, len(s.order))
	for _, id := range s.order {
		if event, ok := s.events[id]; ok {
			out = append(out, *cloneEvent(event))
		}
	}
	return out, nil
}

// GetGlobalVector implements recommend.DataProvider.
func (s *MemoryStore) GetGlobalVector(_ context.Context) (recommend.CategoryVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.global.Clone(), nil
}

// GetUserVector implements recommend.AggregateStore.
func (s *MemoryStore) GetUserVector(_ context.Context, userID string) (recommend.CategoryVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if user, ok := s.users[userID]; ok {
		return user.CategoryFrequency.Clone(), nil
	}
	return recommend.CategoryVector{}, nil
}

// SetUserVector implements recommend.AggregateStore. A vector write for an
// unknown user creates the user document.
func (s *MemoryStore) SetUserVector(_ context.Context, userID string, vec recommend.CategoryVector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		user = &recommend.UserProfile{ID: userID}
		s.users[userID] = user
	}
	user.CategoryFrequency = vec.Clone()
	return nil
}

// AllUserVectors implements recommend.AggregateStore.
func (s *MemoryStore) AllUserVectors(_ context.Context) (map[string]recommend.CategoryVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]recommend.CategoryVector, len(s.users))
	for id, user := range s.users {
		if len(user.CategoryFrequency) > 0 {
			out[id] = user.CategoryFrequency.Clone()
		}
	}
	return out, nil
}

// SetGlobalVector implements recommend.AggregateStore.
func (s *MemoryStore) SetGlobalVector(_ context.Context, vec recommend.CategoryVector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global = vec.Clone()
	return nil
}

// PutUser creates or replaces a user document.
func (s *MemoryStore) PutUser(_ context.Context, user *recommend.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = cloneUser(user)
	return nil
}

// CreateEvent stores a new event, assigning a UUID when the ID is empty.
func (s *MemoryStore) CreateEvent(_ context.Context, event *recommend.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if _, ok := s.events[event.ID]; ok {
		return ErrAlreadyExists
	}
	s.events[event.ID] = cloneEvent(event)
	s.order = append(s.order, event.ID)
	return nil
}

// GetEvent returns an event by ID.
func (s *MemoryStore) GetEvent(_ context.Context, eventID string) (*recommend.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneEvent(event), nil
}

// UpdateEvent replaces an existing event.
func (s *MemoryStore) UpdateEvent(_ context.Context, event *recommend.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[event.ID]; !ok {
		return ErrNotFound
	}
	s.events[event.ID] = cloneEvent(event)
	return nil
}

// DeleteEvent removes an event.
func (s *MemoryStore) DeleteEvent(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[eventID]; !ok {
		return ErrNotFound
	}
	delete(s.events, eventID)
	return nil
}

// Follow records a follow edge between two existing users.
func (s *MemoryStore) Follow(_ context.Context, userID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return ErrNotFound
	}
	if _, ok := s.users[targetID]; !ok {
		return ErrNotFound
	}

	edges, ok := s.follows[userID]
	if !ok {
		edges = make(map[string]struct{})
		s.follows[userID] = edges
	}
	edges[targetID] = struct{}{}
	return nil
}

// Unfollow removes a follow edge.
func (s *MemoryStore) Unfollow(_ context.Context, userID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.follows[userID], targetID)
	return nil
}

// GetRSVP returns the RSVP document, or (nil, nil) when absent.
func (s *MemoryStore) GetRSVP(_ context.Context, userID, eventID string) (*RSVP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rsvp, ok := s.rsvps[rsvpKey(userID, eventID)]
	if !ok {
		return nil, nil
	}
	out := *rsvp
	return &out, nil
}

// PutRSVP creates or replaces an RSVP document.
func (s *MemoryStore) PutRSVP(_ context.Context, rsvp *RSVP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rsvp
	s.rsvps[rsvpKey(rsvp.UserID, rsvp.EventID)] = &stored
	return nil
}

// DeleteRSVP removes an RSVP document.
func (s *MemoryStore) DeleteRSVP(_ context.Context, userID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rsvps, rsvpKey(userID, eventID))
	return nil
}

// CountConfirmedRSVPs returns the number of confirmed RSVPs for an event.
func (s *MemoryStore) CountConfirmedRSVPs(_ context.Context, eventID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, rsvp := range s.rsvps {
		if rsvp.EventID == eventID && rsvp.Status {
			count++
		}
	}
	return count, nil
}

// Close implements Store. Nothing to release for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
