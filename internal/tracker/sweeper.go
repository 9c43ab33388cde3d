// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package tracker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/racetrack/internal/logging"
)

const (
	minSweepInterval = time.Second
	maxSweepInterval = 5 * time.Second
)

// SweepInterval returns raceTTL/3 clamped to [1s, 5s].
func SweepInterval(raceTTL time.Duration) time.Duration {
	d := raceTTL / 3
	if d < minSweepInterval {
		return minSweepInterval
	}
	if d > maxSweepInterval {
		return maxSweepInterval
	}
	return d
}

// Sweeper periodically calls Tracker.Sweep. It implements suture.Service
// and stops when its context is canceled.
type Sweeper struct {
	tracker  *Tracker
	interval time.Duration
	logger   zerolog.Logger
}

// NewSweeper creates a sweeper for t running every interval.
func NewSweeper(t *Tracker, interval time.Duration) *Sweeper {
	return &Sweeper{
		tracker:  t,
		interval: interval,
		logger:   logging.WithComponent("sweeper"),
	}
}

// Interval returns the sweep cadence.
func (s *Sweeper) Interval() time.Duration {
	return s.interval
}

// Serve sweeps until ctx is canceled.
func (s *Sweeper) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("Expiry sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Expiry sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			res := s.tracker.Sweep()
			if len(res.Races) > 0 || res.Participants > 0 || res.Results > 0 || res.ReleasedProducer != "" {
				s.logger.Debug().
					Int("races", len(res.Races)).
					Int("participants", res.Participants).
					Int("results", res.Results).
					Str("released_producer", res.ReleasedProducer).
					Int("wiped_races", res.Wiped).
					Msg("Sweep removed entries")
			}
		}
	}
}

func (s *Sweeper) String() string {
	return "expiry-sweeper"
}
