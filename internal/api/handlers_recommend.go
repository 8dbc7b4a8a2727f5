// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package api

import (
	"net/http"
	"time"

	"github.com/findfest/findfest/internal/geo"
	"github.com/findfest/findfest/internal/logging"
	"github.com/findfest/findfest/internal/middleware"
	"github.com/findfest/findfest/internal/recommend"
)

// recommendRequest is the POST /recommendations body. Location accepts both
// the lat/lon and latitude/longitude spellings.
type recommendRequest struct {
	UserID   string          `json:"user_id" validate:"omitempty,max=128"`
	Location *geo.Coordinate `json:"location"`
}

// Recommendations scores the event catalog for the requester and returns
// the full ranked list. Anonymous requests are served from the global
// fallback vector.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req recommendRequest
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
			"location is out of range", nil)
		return
	}

	resp, err := h.scorer.Recommend(r.Context(), recommend.Request{
		UserID:    req.UserID,
		Location:  req.Location,
		RequestID: middleware.GetRequestID(r.Context()),
	})
	if err != nil {
		logging.CtxErr(r.Context(), err).Msg("recommendation failed")
		respondError(w, http.StatusInternalServerError, "RECOMMENDATION_ERROR",
			"Failed to compute recommendations", err)
		return
	}

	respondSuccess(w, http.StatusOK, resp, time.Since(start))
}
