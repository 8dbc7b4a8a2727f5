// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

// Package config provides layered application configuration.
//
// Settings are resolved with clear precedence: environment variables
// override an optional YAML config file, which overrides built-in defaults.
package config

import (
	"fmt"
	"time"

	"github.com/findfest/findfest/internal/recommend"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Storage   StorageConfig    `koanf:"storage"`
	API       APIConfig        `koanf:"api"`
	Recommend recommend.Config `koanf:"recommend"`
	Logging   LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// ReadTimeout bounds reading the request including the body.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds writing the response.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	// Backend selects the store implementation: "badger" or "memory".
	Backend string `koanf:"backend"`

	// Path is the BadgerDB directory, unused for the memory backend.
	Path string `koanf:"path"`

	// BackupDir enables scheduled BadgerDB snapshots when set. Unused for
	// the memory backend.
	BackupDir string `koanf:"backup_dir"`

	// BackupInterval is the time between snapshots.
	BackupInterval time.Duration `koanf:"backup_interval"`

	// BackupRetain is how many snapshots to keep.
	BackupRetain int `koanf:"backup_retain"`
}

// APIConfig holds API surface settings.
type APIConfig struct {
	// RateLimitReqs is the allowed requests per window per client IP.
	// Zero disables rate limiting.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists the allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line in log entries.
	Caller bool `koanf:"caller"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}

	switch c.Storage.Backend {
	case "memory":
	case "badger":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the badger backend")
		}
	default:
		return fmt.Errorf("storage.backend must be badger or memory, got %q", c.Storage.Backend)
	}
	if c.Storage.BackupRetain < 0 {
		return fmt.Errorf("storage.backup_retain must not be negative")
	}

	if c.API.RateLimitReqs < 0 {
		return fmt.Errorf("api.rate_limit_reqs must not be negative")
	}
	if c.API.RateLimitReqs > 0 && c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("api.rate_limit_window must be positive when rate limiting is enabled")
	}

	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	return nil
}
