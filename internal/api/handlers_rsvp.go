// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/findfest/findfest/internal/logging"
	"github.com/findfest/findfest/internal/metrics"
	"github.com/findfest/findfest/internal/store"
)

// rsvpRequest is the RSVP confirm/cancel body.
type rsvpRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
}

// rsvpResponse is the RSVP status payload.
type rsvpResponse struct {
	UserID  string `json:"user_id"`
	EventID string `json:"event_id"`
	Status  bool   `json:"status"`
}

// ConfirmRSVP confirms attendance for an event. The first confirmation (or
// a re-confirmation after cancelling) bumps the user's category counters;
// repeating a confirmation is idempotent.
func (h *Handler) ConfirmRSVP(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req rsvpRequest
	if msg, ok := decodeJSONBody(r, &req); !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	event, err := h.store.GetEvent(r.Context(), eventID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Event not found", nil)
		return
	}
	if err != nil {
		metrics.RecordStoreError("get_event")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to load event", err)
		return
	}

	existing, err := h.store.GetRSVP(r.Context(), req.UserID, eventID)
	if err != nil {
		metrics.RecordStoreError("get_rsvp")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to load RSVP", err)
		return
	}
	if existing != nil && existing.Status {
		respondSuccess(w, http.StatusOK, rsvpResponse{
			UserID: req.UserID, EventID: eventID, Status: true,
		}, 0)
		return
	}

	now := time.Now().UTC()
	rsvp := &store.RSVP{
		UserID:    req.UserID,
		EventID:   eventID,
		Status:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		rsvp.CreatedAt = existing.CreatedAt
	}

	if err := h.store.PutRSVP(r.Context(), rsvp); err != nil {
		metrics.RecordStoreError("put_rsvp")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to save RSVP", err)
		return
	}

	if err := h.aggregator.RecordInteraction(r.Context(), req.UserID, event.Categories, 1); err != nil {
		logging.CtxErr(r.Context(), err).
			Str("user_id", req.UserID).
			Str("event_id", eventID).
			Msg("failed to record confirm interaction")
	}
	metrics.RecordInteraction("confirm")

	respondSuccess(w, http.StatusCreated, rsvpResponse{
		UserID: req.UserID, EventID: eventID, Status: true,
	}, 0)
}

// CancelRSVP cancels a confirmed RSVP, reversing its counter contribution.
// Cancelling an absent or already cancelled RSVP is a no-op.
func (h *Handler) CancelRSVP(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"user_id query parameter is required", nil)
		return
	}

	existing, err := h.store.GetRSVP(r.Context(), userID, eventID)
	if err != nil {
		metrics.RecordStoreError("get_rsvp")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to load RSVP", err)
		return
	}
	if existing == nil || !existing.Status {
		respondSuccess(w, http.StatusOK, rsvpResponse{
			UserID: userID, EventID: eventID, Status: false,
		}, 0)
		return
	}

	existing.Status = false
	existing.UpdatedAt = time.Now().UTC()
	if err := h.store.PutRSVP(r.Context(), existing); err != nil {
		metrics.RecordStoreError("put_rsvp")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to save RSVP", err)
		return
	}

	event, err := h.store.GetEvent(r.Context(), eventID)
	if err == nil {
		if err := h.aggregator.RecordInteraction(r.Context(), userID, event.Categories, -1); err != nil {
			logging.CtxErr(r.Context(), err).
				Str("user_id", userID).
				Str("event_id", eventID).
				Msg("failed to record cancel interaction")
		}
	}
	metrics.RecordInteraction("cancel")

	respondSuccess(w, http.StatusOK, rsvpResponse{
		UserID: userID, EventID: eventID, Status: false,
	}, 0)
}

// RSVPStatus reports whether the user has a confirmed RSVP for the event.
// Asking about an absent RSVP returns false without creating a document.
func (h *Handler) RSVPStatus(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"user_id query parameter is required", nil)
		return
	}

	rsvp, err := h.store.GetRSVP(r.Context(), userID, eventID)
	if err != nil {
		metrics.RecordStoreError("get_rsvp")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to load RSVP", err)
		return
	}

	status := rsvp != nil && rsvp.Status
	respondSuccess(w, http.StatusOK, rsvpResponse{
		UserID: userID, EventID: eventID, Status: status,
	}, 0)
}

// RSVPCount returns the number of confirmed RSVPs for an event.
func (h *Handler) RSVPCount(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	count, err := h.store.CountConfirmedRSVPs(r.Context(), eventID)
	if err != nil {
		metrics.RecordStoreError("count_rsvps")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to count RSVPs", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"event_id": eventID,
		"count":    count,
	}, 0)
}
