// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/racetrack/internal/api"
	"github.com/tomtom215/racetrack/internal/eventprocessor"
	"github.com/tomtom215/racetrack/internal/ingest"
	"github.com/tomtom215/racetrack/internal/logging"
	"github.com/tomtom215/racetrack/internal/simulation"
	"github.com/tomtom215/racetrack/internal/tracker"
)

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// TrackerConfig returns the retention and arbitration settings.
func (c *Config) TrackerConfig() tracker.Config {
	return tracker.Config{
		RaceTTL:        millis(c.Race.TTLMs),
		ParticipantTTL: millis(c.Race.ParticipantTTLMs),
		ResultsTTL:     millis(c.Race.ResultsTTLMs),
		ResultsMax:     c.Race.ResultsMaxEntries,
		FailoverWindow: millis(c.Race.FailoverWindowMs),
	}
}

// IngestConfig returns the ingestion pipeline settings.
func (c *Config) IngestConfig() ingest.Config {
	return ingest.Config{AllowedProducers: c.Race.AllowedProducers}
}

// TransportConfig returns the NATS JetStream settings.
func (c *Config) TransportConfig() *eventprocessor.TransportConfig {
	t := c.Transport
	return &eventprocessor.TransportConfig{
		URL:            t.URL,
		EmbeddedServer: t.EmbeddedServer,
		StoreDir:       t.StoreDir,
		StreamName:     t.StreamName,
		Subject:        t.Subject,
		PoisonSubject:  t.PoisonSubject,
		ReconnectWait:  t.ReconnectWait,
		StreamMaxAge:   t.StreamMaxAge,
	}
}

// APIConfig returns the read API settings.
func (c *Config) APIConfig() api.Config {
	s := c.Security
	return api.Config{
		APIToken:          s.APIToken,
		CORSOrigins:       s.CORSOrigins,
		RateLimitRequests: s.RateLimitRequests,
		RateLimitWindow:   s.RateLimitWindow,
		RateLimitDisabled: s.RateLimitDisabled,
	}
}

// LoggingConfig returns the logger settings.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}

// SimulationConfig returns the simulator settings.
func (c *Config) SimulationConfig() simulation.Config {
	s := c.Simulator
	return simulation.Config{
		ProducerID:   s.ProducerID,
		Races:        s.Races,
		Participants: s.Participants,
		Laps:         s.Laps,
		Interval:     millis(s.PublishIntervalMs),
		RestartDelay: s.RestartDelay,
		RaceIDOffset: s.RaceIDOffset,
	}
}

// ListenAddr returns the HTTP listen address.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
