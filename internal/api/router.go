// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

// Package api provides the HTTP surface: Chi routing, middleware wiring,
// and the JSON handlers for recommendations, events, users, follows, and
// RSVPs.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/findfest/findfest/internal/middleware"
)

// Router wires handlers and middleware into the HTTP route tree.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates a router from a handler set and middleware config.
func NewRouter(handler *Handler, mw *Middleware) *Router {
	if mw == nil {
		mw = NewMiddleware(DefaultMiddlewareConfig())
	}
	return &Router{handler: handler, middleware: mw}
}

// Setup builds the route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order. CORS must be
	// global so OPTIONS preflight requests are handled everywhere.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())

	// Prometheus scrape endpoint, outside the API rate limit.
	r.Handle("/metrics", promhttp.Handler())

	// Health endpoints get a permissive rate limit so monitoring can poll
	// frequently without tripping the API limit.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.middleware.RateLimitHealth())
		r.Get("/", router.handler.Health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Post("/recommendations", router.handler.Recommendations)

		r.Route("/events", func(r chi.Router) {
			r.Post("/", router.handler.CreateEvent)
			r.Get("/", router.handler.ListEvents)
			r.Get("/nearby", router.handler.NearbyEvents)

			r.Route("/{eventID}", func(r chi.Router) {
				r.Get("/", router.handler.GetEvent)
				r.Put("/", router.handler.UpdateEvent)
				r.Delete("/", router.handler.DeleteEvent)

				r.Post("/rsvp", router.handler.ConfirmRSVP)
				r.Delete("/rsvp", router.handler.CancelRSVP)
				r.Get("/rsvp", router.handler.RSVPStatus)
				r.Get("/rsvp/count", router.handler.RSVPCount)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", router.handler.CreateUser)

			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", router.handler.GetUser)
				r.Get("/following", router.handler.ListFollowing)
				r.Put("/following/{targetID}", router.handler.Follow)
				r.Delete("/following/{targetID}", router.handler.Unfollow)
			})
		})
	})

	return r
}
