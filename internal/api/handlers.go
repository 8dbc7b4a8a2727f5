// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/findfest/findfest/internal/recommend"
	"github.com/findfest/findfest/internal/store"
)

// Handler carries the dependencies of all HTTP handlers.
type Handler struct {
	store      store.Store
	scorer     *recommend.Scorer
	aggregator *recommend.Aggregator
	logger     zerolog.Logger
	startedAt  time.Time
}

// NewHandler creates the HTTP handler set.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(st store.Store, scorer *recommend.Scorer, aggregator *recommend.Aggregator, logger zerolog.Logger) *Handler {
	return &Handler{
		store:      st,
		scorer:     scorer,
		aggregator: aggregator,
		logger:     logger.With().Str("component", "api").Logger(),
		startedAt:  time.Now(),
	}
}

// healthResponse is the health endpoint payload.
type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	}, 0)
}
