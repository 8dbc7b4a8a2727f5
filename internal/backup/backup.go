// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

// Package backup writes scheduled BadgerDB snapshots with a simple
// keep-newest retention policy. Snapshots are full backups in badger's
// stream format and can be restored with `badger restore` or db.Load.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Backupper streams a database snapshot. Satisfied by *store.BadgerStore.
type Backupper interface {
	Backup(w io.Writer, since uint64) (uint64, error)
}

// Config holds backup scheduling configuration.
type Config struct {
	// Dir is the directory snapshots are written to. Empty disables
	// backups.
	Dir string

	// Interval between snapshots. Zero defaults to 24h.
	Interval time.Duration

	// Retain is how many snapshots to keep. Zero defaults to 7.
	Retain int
}

const (
	snapshotPrefix = "findfest-"
	snapshotSuffix = ".badger.bak"
)

// Manager creates snapshots and prunes old ones.
type Manager struct {
	source Backupper
	config Config
	logger zerolog.Logger
}

// NewManager creates a backup manager.
func NewManager(source Backupper, config Config, logger zerolog.Logger) (*Manager, error) {
	if source == nil {
		return nil, fmt.Errorf("backup source is required")
	}
	if config.Dir == "" {
		return nil, fmt.Errorf("backup directory is required")
	}
	if config.Interval <= 0 {
		config.Interval = 24 * time.Hour
	}
	if config.Retain <= 0 {
		config.Retain = 7
	}
	return &Manager{
		source: source,
		config: config,
		logger: logger.With().Str("component", "backup").Logger(),
	}, nil
}

// CreateBackup writes one full snapshot and applies retention. Returns the
// path of the written snapshot.
func (m *Manager) CreateBackup(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(m.config.Dir, 0o750); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := snapshotPrefix + time.Now().UTC().Format("20060102T150405Z") + snapshotSuffix
	path := filepath.Join(m.config.Dir, name)

	// Write to a temp file first so a crash mid-backup never leaves a
	// truncated snapshot under the final name.
	tmp, err := os.CreateTemp(m.config.Dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create snapshot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := m.source.Backup(tmp, 0); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("stream snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close snapshot file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("finalize snapshot: %w", err)
	}

	m.logger.Info().Str("path", path).Msg("backup written")

	if err := m.prune(); err != nil {
		m.logger.Warn().Err(err).Msg("backup retention prune failed")
	}
	return path, nil
}

// Snapshots returns existing snapshot paths, oldest first.
func (m *Manager) Snapshots() ([]string, error) {
	entries, err := os.ReadDir(m.config.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || len(name) < len(snapshotPrefix)+len(snapshotSuffix) {
			continue
		}
		if name[:len(snapshotPrefix)] != snapshotPrefix ||
			name[len(name)-len(snapshotSuffix):] != snapshotSuffix {
			continue
		}
		paths = append(paths, filepath.Join(m.config.Dir, name))
	}
	// Timestamped names sort chronologically.
	sort.Strings(paths)
	return paths, nil
}

// prune deletes the oldest snapshots beyond the retention count.
func (m *Manager) prune() error {
	paths, err := m.Snapshots()
	if err != nil {
		return err
	}
	for len(paths) > m.config.Retain {
		if err := os.Remove(paths[0]); err != nil {
			return fmt.Errorf("remove old snapshot: %w", err)
		}
		m.logger.Debug().Str("path", paths[0]).Msg("old backup pruned")
		paths = paths[1:]
	}
	return nil
}
