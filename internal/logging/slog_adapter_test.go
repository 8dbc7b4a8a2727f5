// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
)

func TestSlogHandler_WritesThroughZerolog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.Info("service started", "name", "http", "port", int64(8080))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "service started" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["name"] != "http" {
		t.Errorf("name = %v, want http", entry["name"])
	}
	if entry["port"] != float64(8080) {
		t.Errorf("port = %v, want 8080", entry["port"])
	}
}

func TestSlogHandler_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))
		logger.Log(context.Background(), tt.level, "msg")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("level %v: output is not JSON: %v", tt.level, err)
		}
		if entry["level"] != tt.want {
			t.Errorf("level %v emitted as %v, want %v", tt.level, entry["level"], tt.want)
		}
	}
}

func TestSlogHandler_GroupsAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))
	logger = logger.With("service", "recommender").WithGroup("req")

	logger.Info("done", "id", "abc")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["service"] != "recommender" {
		t.Errorf("service = %v, want recommender", entry["service"])
	}
	if entry["req.id"] != "abc" {
		t.Errorf("req.id = %v, want abc", entry["req.id"])
	}
}
