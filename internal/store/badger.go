// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/findfest/findfest/internal/recommend"
)

// Key prefixes for BadgerDB storage. RSVPs are keyed event-first so counting
// an event's attendance scans a single prefix.
const (
	userKeyPrefix   = "user:"
	eventKeyPrefix  = "event:"
	followKeyPrefix = "follow:"
	rsvpKeyPrefix   = "rsvp:"
	globalVectorKey = "meta:category_frequency"
)

// BadgerStore is a BadgerDB-backed Store, suitable for production use with
// persistence across restarts. Documents are stored as JSON values.
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

// OpenBadgerStore opens (creating if needed) a BadgerDB at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStoreFromDB wraps an already open BadgerDB. The caller keeps
// ownership of the handle.
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) getJSON(key string, out any) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	return true, nil
}

func (s *BadgerStore) putJSON(key string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// GetUser implements recommend.DataProvider.
func (s *BadgerStore) GetUser(_ context.Context, userID string) (*recommend.UserProfile, error) {
	var user recommend.UserProfile
	found, err := s.getJSON(userKeyPrefix+userID, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// GetFollowing implements recommend.DataProvider.
func (s *BadgerStore) GetFollowing(_ context.Context, userID string) ([]string, error) {
	prefix := []byte(followKeyPrefix + userID + ":")
	out := []string{}

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			out = append(out, strings.TrimPrefix(key, string(prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list following for %s: %w", userID, err)
	}
	return out, nil
}

// GetEvents implements recommend.DataProvider. Events come back in key
// order, which is stable across calls.
func (s *BadgerStore) GetEvents(_ context.Context) ([]recommend.Event, error) {
	prefix := []byte(eventKeyPrefix)
	out := []recommend.Event{}

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var event recommend.Event
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &event)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, event)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

// GetGlobalVector implements recommend.DataProvider.
func (s *BadgerStore) GetGlobalVector(_ context.Context) (recommend.CategoryVector, error) {
	vec := recommend.CategoryVector{}
	if _, err := s.getJSON(globalVectorKey, &vec); err != nil {
		return nil, err
	}
	return vec, nil
}

// GetUserVector implements recommend.AggregateStore.
func (s *BadgerStore) GetUserVector(ctx context.Context, userID string) (recommend.CategoryVector, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.CategoryFrequency == nil {
		return recommend.CategoryVector{}, nil
	}
	return user.CategoryFrequency, nil
}

// SetUserVector implements recommend.AggregateStore. A vector write for an
// unknown user creates the user document.
func (s *BadgerStore) SetUserVector(ctx context.Context, userID string, vec recommend.CategoryVector) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		user = &recommend.UserProfile{ID: userID}
	}
	user.CategoryFrequency = vec
	return s.putJSON(userKeyPrefix+userID, user)
}

// AllUserVectors implements recommend.AggregateStore.
func (s *BadgerStore) AllUserVectors(_ context.Context) (map[string]recommend.CategoryVector, error) {
	prefix := []byte(userKeyPrefix)
	out := make(map[string]recommend.CategoryVector)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var user recommend.UserProfile
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if len(user.CategoryFrequency) > 0 {
				out[user.ID] = user.CategoryFrequency
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list user vectors: %w", err)
	}
	return out, nil
}

// SetGlobalVector implements recommend.AggregateStore.
func (s *BadgerStore) SetGlobalVector(_ context.Context, vec recommend.CategoryVector) error {
	return s.putJSON(globalVectorKey, vec)
}

// PutUser creates or replaces a user document.
func (s *BadgerStore) PutUser(_ context.Context, user *recommend.UserProfile) error {
	return s.putJSON(userKeyPrefix+user.ID, user)
}

// CreateEvent stores a new event, assigning a UUID when the ID is empty.
func (s *BadgerStore) CreateEvent(_ context.Context, event *recommend.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := []byte(eventKeyPrefix + event.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check event %s: %w", event.ID, err)
		}
		return txn.Set(key, data)
	})
}

// GetEvent returns an event by ID.
func (s *BadgerStore) GetEvent(_ context.Context, eventID string) (*recommend.Event, error) {
	var event recommend.Event
	found, err := s.getJSON(eventKeyPrefix+eventID, &event)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &event, nil
}

// UpdateEvent replaces an existing event.
func (s *BadgerStore) UpdateEvent(_ context.Context, event *recommend.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := []byte(eventKeyPrefix + event.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("check event %s: %w", event.ID, err)
		}
		return txn.Set(key, data)
	})
}

// DeleteEvent removes an event.
func (s *BadgerStore) DeleteEvent(_ context.Context, eventID string) error {
	key := []byte(eventKeyPrefix + eventID)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("check event %s: %w", eventID, err)
		}
		return txn.Delete(key)
	})
}

// Follow records a follow edge between two existing users.
func (s *BadgerStore) Follow(ctx context.Context, userID, targetID string) error {
	for _, id := range []string{userID, targetID} {
		user, err := s.GetUser(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrNotFound
		}
	}

	key := []byte(followKeyPrefix + userID + ":" + targetID)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, []byte(targetID))
	})
}

// Unfollow removes a follow edge.
func (s *BadgerStore) Unfollow(_ context.Context, userID, targetID string) error {
	key := []byte(followKeyPrefix + userID + ":" + targetID)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// GetRSVP returns the RSVP document, or (nil, nil) when absent.
func (s *BadgerStore) GetRSVP(_ context.Context, userID, eventID string) (*RSVP, error) {
	var rsvp RSVP
	found, err := s.getJSON(rsvpKeyPrefix+eventID+":"+userID, &rsvp)
	if err != nil || !found {
		return nil, err
	}
	return &rsvp, nil
}

// PutRSVP creates or replaces an RSVP document.
func (s *BadgerStore) PutRSVP(_ context.Context, rsvp *RSVP) error {
	return s.putJSON(rsvpKeyPrefix+rsvp.EventID+":"+rsvp.UserID, rsvp)
}

// DeleteRSVP removes an RSVP document.
func (s *BadgerStore) DeleteRSVP(_ context.Context, userID, eventID string) error {
	key := []byte(rsvpKeyPrefix + eventID + ":" + userID)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// CountConfirmedRSVPs returns the number of confirmed RSVPs for an event.
func (s *BadgerStore) CountConfirmedRSVPs(_ context.Context, eventID string) (int, error) {
	prefix := []byte(rsvpKeyPrefix + eventID + ":")
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rsvp RSVP
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rsvp)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if rsvp.Status {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count rsvps for %s: %w", eventID, err)
	}
	return count, nil
}

// Backup streams a full snapshot of the database to w. The returned
// version can be passed as since on a later call for an incremental
// backup.
func (s *BadgerStore) Backup(w io.Writer, since uint64) (uint64, error) {
	return s.db.Backup(w, since)
}

// RunValueLogGC runs one BadgerDB value log garbage collection pass.
// Returns badger.ErrNoRewrite when there was nothing to reclaim.
func (s *BadgerStore) RunValueLogGC(discardRatio float64) error {
	return s.db.RunValueLogGC(discardRatio)
}

// Close closes the underlying BadgerDB.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
