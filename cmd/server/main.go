// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

// Package main is the entry point for the FindFest server.
//
// FindFest recommends local events by combining taste similarity (cosine of
// category frequency vectors), geographic proximity, and social signals
// from follow relationships. RSVPs feed the taste vectors, so the ranking
// improves as users confirm attendance.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered sources via Koanf v2 (defaults, YAML file,
//     FINDFEST_* environment variables)
//  2. Storage: BadgerDB (or in-memory for development)
//  3. Recommendation engine: scorer and interaction aggregator
//  4. HTTP server: Chi router under a suture supervision tree
//
// # Configuration
//
// Highest priority wins:
//   - Environment variables (FINDFEST_SERVER_PORT, FINDFEST_STORAGE_PATH, ...)
//   - Config file (CONFIG_PATH, ./config.yaml, /etc/findfest/config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, drains in-flight requests within the configured
// shutdown timeout, and closes the store.
//
// # Example Usage
//
//	export FINDFEST_SERVER_PORT=8080
//	export FINDFEST_STORAGE_PATH=/data/findfest
//	./findfest
//
// Development with an in-memory store:
//
//	export FINDFEST_STORAGE_BACKEND=memory
//	./findfest
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/findfest/findfest/internal/api"
	"github.com/findfest/findfest/internal/backup"
	"github.com/findfest/findfest/internal/config"
	"github.com/findfest/findfest/internal/logging"
	"github.com/findfest/findfest/internal/recommend"
	"github.com/findfest/findfest/internal/store"
	"github.com/findfest/findfest/internal/supervisor"
	"github.com/findfest/findfest/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("backend", cfg.Storage.Backend).
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Msg("Starting FindFest")

	st, err := openStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	logger := logging.Logger()

	scorer, err := recommend.NewScorer(&cfg.Recommend, logger, st)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create scorer")
	}
	aggregator, err := recommend.NewAggregator(st, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create aggregator")
	}

	// Rebuild the global fallback vector from stored user vectors so a
	// crash between an RSVP write and the global update cannot leave the
	// fallback stale forever.
	if err := aggregator.RecomputeGlobal(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Startup global vector recompute failed")
	}

	handler := api.NewHandler(st, scorer, aggregator, logger)
	mw := api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.API.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.API.RateLimitReqs,
		RateLimitWindow:    cfg.API.RateLimitWindow,
	})
	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	if bs, ok := st.(*store.BadgerStore); ok {
		tree.AddDataService(services.NewBadgerGCService(bs, 10*time.Minute, 0.5, logger))

		if cfg.Storage.BackupDir != "" {
			backupMgr, err := backup.NewManager(bs, backup.Config{
				Dir:      cfg.Storage.BackupDir,
				Interval: cfg.Storage.BackupInterval,
				Retain:   cfg.Storage.BackupRetain,
			}, logger)
			if err != nil {
				logging.Fatal().Err(err).Msg("Failed to create backup manager")
			}
			tree.AddDataService(backup.NewService(backupMgr))
			logging.Info().Str("dir", cfg.Storage.BackupDir).Msg("Scheduled backups enabled")
		}
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("FindFest stopped gracefully")
}

// openStore opens the configured storage backend.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "badger":
		return store.OpenBadgerStore(cfg.Storage.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
