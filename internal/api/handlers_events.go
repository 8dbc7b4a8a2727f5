// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package api

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/findfest/findfest/internal/geo"
	"github.com/findfest/findfest/internal/metrics"
	"github.com/findfest/findfest/internal/recommend"
	"github.com/findfest/findfest/internal/store"
)

// eventRequest is the create/update event body.
type eventRequest struct {
	Name       string          `json:"name" validate:"required,max=200"`
	Categories []string        `json:"categories" validate:"max=32,dive,required,max=64"`
	Location   *geo.Coordinate `json:"location"`
	CreatedBy  string          `json:"created_by" validate:"omitempty,max=128"`
}

func (req *eventRequest) toEvent(id string) (*recommend.Event, string) {
	if req.Location != nil && !req.Location.Valid() {
		return nil, "location is out of range"
	}
	return &recommend.Event{
		ID:         id,
		Name:       req.Name,
		Categories: req.Categories,
		Location:   req.Location,
		CreatedBy:  req.CreatedBy,
	}, ""
}

// CreateEvent stores a new event.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if msg, ok := decodeJSONBody(r, &req); !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	event, msg := req.toEvent("")
	if msg != "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg, nil)
		return
	}

	if err := h.store.CreateEvent(r.Context(), event); err != nil {
		metrics.RecordStoreError("create_event")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to create event", err)
		return
	}

	respondSuccess(w, http.StatusCreated, event, 0)
}

// GetEvent returns one event by ID.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

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

	respondSuccess(w, http.StatusOK, event, 0)
}

// ListEvents returns the full event catalog.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	events, err := h.store.GetEvents(r.Context())
	if err != nil {
		metrics.RecordStoreError("list_events")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to list events", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  len(events),
	}, time.Since(start))
}

// UpdateEvent replaces an existing event.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req eventRequest
	if msg, ok := decodeJSONBody(r, &req); !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	event, msg := req.toEvent(eventID)
	if msg != "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg, nil)
		return
	}

	err := h.store.UpdateEvent(r.Context(), event)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Event not found", nil)
		return
	}
	if err != nil {
		metrics.RecordStoreError("update_event")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to update event", err)
		return
	}

	respondSuccess(w, http.StatusOK, event, 0)
}

// DeleteEvent removes an event.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	err := h.store.DeleteEvent(r.Context(), eventID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Event not found", nil)
		return
	}
	if err != nil {
		metrics.RecordStoreError("delete_event")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to delete event", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"deleted": eventID}, 0)
}

// nearbyEvent is one entry of the nearby events response.
type nearbyEvent struct {
	recommend.Event
	DistanceKm float64 `json:"distance_km"`
}

// NearbyEvents returns events within radius_km of the given point, closest
// first. Events without a location are excluded.
func (h *Handler) NearbyEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	lat, okLat := getFloatParam(r, "lat")
	lon, okLon := getFloatParam(r, "lon")
	if !okLat || !okLon {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"lat and lon query parameters are required", nil)
		return
	}
	origin := geo.Coordinate{Lat: lat, Lon: lon}
	if !origin.Valid() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"lat/lon out of range", nil)
		return
	}

	radiusKm := geo.IdealRadiusKm
	if v, ok := getFloatParam(r, "radius_km"); ok {
		if v <= 0 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
				"radius_km must be positive", nil)
			return
		}
		radiusKm = v
	}

	events, err := h.store.GetEvents(r.Context())
	if err != nil {
		metrics.RecordStoreError("list_events")
		respondError(w, http.StatusInternalServerError, "STORE_ERROR",
			"Failed to list events", err)
		return
	}

	nearby := make([]nearbyEvent, 0)
	for i := range events {
		if events[i].Location == nil {
			continue
		}
		if d := geo.Distance(origin, *events[i].Location); d <= radiusKm {
			nearby = append(nearby, nearbyEvent{Event: events[i], DistanceKm: d})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"events":    nearby,
		"total":     len(nearby),
		"radius_km": radiusKm,
	}, time.Since(start))
}
