// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/racetrack/internal/course"
	"github.com/tomtom215/racetrack/internal/logging"
	"github.com/tomtom215/racetrack/internal/metrics"
	"github.com/tomtom215/racetrack/internal/models"
)

// EventPublisher delivers race events to the transport.
type EventPublisher interface {
	PublishRaceEvent(ctx context.Context, evt *models.RaceEvent) error
}

// Config controls the simulated workload.
type Config struct {
	ProducerID   string
	Races        int
	Participants int
	Laps         int
	Interval     time.Duration
	RestartDelay time.Duration

	// RaceIDOffset is the first race id; races use RaceIDOffset..RaceIDOffset+Races-1.
	RaceIDOffset int64

	// Seed makes runs reproducible. Zero picks a random seed.
	Seed uint64
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch {
	case c.ProducerID == "":
		return errors.New("producer id is required")
	case c.Races < 1:
		return errors.New("at least one race is required")
	case c.Participants < 1:
		return errors.New("at least one participant is required")
	case c.Laps < 1:
		return errors.New("at least one lap is required")
	case c.Interval <= 0:
		return errors.New("publish interval must be positive")
	case c.RestartDelay < 0:
		return errors.New("restart delay must not be negative")
	}
	return nil
}

type raceSlot struct {
	race      *Race
	restartAt time.Time
}

// Simulator runs races and publishes their telemetry on every tick.
// It implements suture.Service.
type Simulator struct {
	cfg    Config
	course *course.Course
	pub    EventPublisher
	rng    *rand.Rand
	slots  []*raceSlot
	logger zerolog.Logger
}

// New creates a Simulator. All races start immediately.
func New(cfg Config, c *course.Course, pub EventPublisher) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulator config: %w", err)
	}
	if c == nil {
		return nil, errors.New("course is required")
	}
	if pub == nil {
		return nil, errors.New("publisher is required")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := &Simulator{
		cfg:    cfg,
		course: c,
		pub:    pub,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		slots:  make([]*raceSlot, cfg.Races),
		logger: logging.With().Str("component", "simulator").Str("producer_id", cfg.ProducerID).Logger(),
	}
	for i := range s.slots {
		id := models.RaceIDFromInt(cfg.RaceIDOffset + int64(i))
		s.slots[i] = &raceSlot{race: s.newRace(id)}
	}
	return s, nil
}

func (s *Simulator) newRace(id models.RaceID) *Race {
	return NewRace(id, s.cfg.Participants, s.cfg.Laps, s.course, s.rng)
}

// Races returns the races currently simulated.
func (s *Simulator) Races() []*Race {
	out := make([]*Race, len(s.slots))
	for i, slot := range s.slots {
		out[i] = slot.race
	}
	return out
}

// Serve publishes a tick every Interval until ctx is canceled.
func (s *Simulator) Serve(ctx context.Context) error {
	s.logger.Info().
		Int("races", s.cfg.Races).
		Int("participants", s.cfg.Participants).
		Dur("interval", s.cfg.Interval).
		Msg("Simulator started")

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Simulator stopped")
			return ctx.Err()
		case now := <-ticker.C:
			if err := s.Step(ctx, now); err != nil {
				return err
			}
		}
	}
}

// Step advances every race by one interval and publishes the result.
// Publish failures are logged and counted; only context cancellation
// stops the loop.
func (s *Simulator) Step(ctx context.Context, now time.Time) error {
	for _, slot := range s.slots {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !slot.restartAt.IsZero() {
			if now.Before(slot.restartAt) {
				continue
			}
			slot.race = s.newRace(slot.race.ID)
			slot.restartAt = time.Time{}
			s.logger.Info().Str("race_id", slot.race.ID.String()).Msg("Race restarted")
		}

		slot.race.Tick(s.cfg.Interval, s.rng)
		events := slot.race.Events(s.cfg.ProducerID, now)
		for i := range events {
			s.publish(ctx, &events[i])
		}

		if slot.race.Finished() {
			reset := slot.race.ResetEvent(s.cfg.ProducerID, now)
			s.publish(ctx, &reset)
			slot.restartAt = now.Add(s.cfg.RestartDelay)
			s.logger.Info().
				Str("race_id", slot.race.ID.String()).
				Dur("restart_in", s.cfg.RestartDelay).
				Msg("Race finished")
		}
	}
	return nil
}

func (s *Simulator) publish(ctx context.Context, evt *models.RaceEvent) {
	if err := s.pub.PublishRaceEvent(ctx, evt); err != nil {
		metrics.RecordEventPublished(false)
		s.logger.Warn().Err(err).Str("race_id", evt.RaceID.String()).Msg("Publish failed")
		return
	}
	metrics.RecordEventPublished(true)
}

func (s *Simulator) String() string {
	return "race-simulator"
}
