// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package backup

import (
	"context"
	"time"
)

// Service runs the backup manager on its interval as a suture service.
type Service struct {
	manager *Manager
}

// NewService wraps a manager as a supervised service.
func NewService(manager *Manager) *Service {
	return &Service{manager: manager}
}

// Serve implements suture.Service.
func (s *Service) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.manager.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.manager.CreateBackup(ctx); err != nil {
				s.manager.logger.Error().Err(err).Msg("scheduled backup failed")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *Service) String() string {
	return "backup-scheduler"
}
