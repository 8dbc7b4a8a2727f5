// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/findfest/findfest/internal/geo"
	"github.com/findfest/findfest/internal/metrics"
	"github.com/findfest/findfest/internal/recommend"
)

// userRequest is the create/update user body.
type userRequest struct {
	ID       string          `json:"id" validate:"required,max=128"`
	Location *geo.Coordinate `json:"location,omitempty"`
}

// CreateUser creates or replaces a user profile. Category counters for an
// existing user are preserved; only the stored location is replaced.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if msg, ok := decodeJSONBody(r, &req); !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	if req.Location != nil && !req.Location.Valid() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Location coordinates are out of range", nil)
		return
	}

	user, err := h.store.GetUser(r.Context(), req.ID)
	if err != nil {
		metrics.RecordStoreError("get_user")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to load user", err)
		return
	}
	if user == nil {
		user = &recommend.UserProfile{
			ID:                req.ID,
			CategoryFrequency: recommend.CategoryVector{},
		}
	}
	user.Location = req.Location

	if err := h.store.PutUser(r.Context(), user); err != nil {
		metrics.RecordStoreError("put_user")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to save user", err)
		return
	}

	respondSuccess(w, http.StatusCreated, user, 0)
}

// GetUser returns a stored user profile.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		metrics.RecordStoreError("get_user")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to load user", err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
		return
	}

	respondSuccess(w, http.StatusOK, user, 0)
}
