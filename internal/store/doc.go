// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

// Package store provides persistence for users, events, follow edges,
// RSVPs, and the recommendation counters.
//
// Two implementations exist: MemoryStore for development and tests, and
// BadgerStore for production, which keeps each document as a JSON value in
// an embedded BadgerDB. Both satisfy the read and write interfaces of the
// recommend package, so either one can back the scorer and the aggregator.
package store
