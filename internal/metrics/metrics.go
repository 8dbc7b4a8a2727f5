// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

// Package metrics provides Prometheus instrumentation for FindFest.
//
// Metrics are exposed at the /metrics endpoint in Prometheus text format
// and cover HTTP traffic, recommendation scoring, RSVP interactions, and
// store failures.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findfest_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "findfest_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "findfest_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findfest_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findfest_recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"mode"}, // "personalized", "cold_start"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "findfest_recommendation_duration_seconds",
			Help:    "Recommendation scoring duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "findfest_recommendation_candidates",
			Help:    "Number of candidate events scored per request",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 5000},
		},
	)

	// Interaction Metrics
	InteractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findfest_interactions_total",
			Help: "Total number of recorded RSVP interactions",
		},
		[]string{"action"}, // "confirm", "cancel"
	)

	GlobalRecomputeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "findfest_global_recompute_failures_total",
			Help: "Total number of failed global vector recomputes",
		},
	)

	// Store Metrics
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findfest_store_errors_total",
			Help: "Total number of store operation failures",
		},
		[]string{"operation"},
	)
)

// RecordAPIRequest records metrics for one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rate limit rejection for an endpoint.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordRecommendation records one recommendation scoring pass.
func RecordRecommendation(coldStart bool, candidates int, duration time.Duration) {
	mode := "personalized"
	if coldStart {
		mode = "cold_start"
	}
	RecommendationRequests.WithLabelValues(mode).Inc()
	RecommendationDuration.Observe(duration.Seconds())
	RecommendationCandidates.Observe(float64(candidates))
}

// RecordInteraction records one RSVP interaction.
func RecordInteraction(action string) {
	InteractionsTotal.WithLabelValues(action).Inc()
}

// RecordGlobalRecomputeFailure records a failed global vector recompute.
func RecordGlobalRecomputeFailure() {
	GlobalRecomputeFailures.Inc()
}

// RecordStoreError records a store operation failure.
func RecordStoreError(operation string) {
	StoreErrors.WithLabelValues(operation).Inc()
}
