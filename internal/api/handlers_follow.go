// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/findfest/findfest/internal/metrics"
	"github.com/findfest/findfest/internal/store"
)

// Follow records a follow edge from userID to targetID. Both users must
// exist; repeating a follow is idempotent.
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	targetID := chi.URLParam(r, "targetID")

	if userID == targetID {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"A user cannot follow themselves", nil)
		return
	}

	err := h.store.Follow(r.Context(), userID, targetID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
		return
	}
	if err != nil {
		metrics.RecordStoreError("follow")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to save follow", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"user_id":   userID,
		"following": targetID,
	}, 0)
}

// Unfollow removes a follow edge. Removing an absent edge is a no-op.
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	targetID := chi.URLParam(r, "targetID")

	if err := h.store.Unfollow(r.Context(), userID, targetID); err != nil {
		metrics.RecordStoreError("unfollow")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to remove follow", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"user_id":    userID,
		"unfollowed": targetID,
	}, 0)
}

// ListFollowing returns the IDs the user follows, sorted.
func (h *Handler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	following, err := h.store.GetFollowing(r.Context(), userID)
	if err != nil {
		metrics.RecordStoreError("get_following")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to load follows", err)
		return
	}
	if following == nil {
		following = []string{}
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"user_id":   userID,
		"following": following,
		"total":     len(following),
	}, 0)
}
