// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting via environment variables
//
// Example - Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	store := tracker.New(cfg.TrackerConfig())
type Config struct {
	Transport TransportConfig `koanf:"transport"`
	Race      RaceConfig      `koanf:"race"`
	Security  SecurityConfig  `koanf:"security"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Simulator SimulatorConfig `koanf:"simulator"`
}

// TransportConfig holds NATS JetStream settings shared by the tracker and
// the simulator.
type TransportConfig struct {
	// URL is the NATS server connection URL.
	URL string `koanf:"url"`

	// EmbeddedServer starts an in-process NATS server instead of dialing URL.
	EmbeddedServer bool `koanf:"embedded_server"`

	// StoreDir is the JetStream storage directory of the embedded server.
	StoreDir string `koanf:"store_dir"`

	StreamName    string `koanf:"stream_name"`
	Subject       string `koanf:"subject"`
	PoisonSubject string `koanf:"poison_subject"`

	// ReconnectWait is the fixed delay between reconnect attempts.
	ReconnectWait time.Duration `koanf:"reconnect_wait"`

	StreamMaxAge time.Duration `koanf:"stream_max_age"`
}

// RaceConfig holds retention and arbitration settings. Durations are in
// milliseconds.
type RaceConfig struct {
	TTLMs int64 `koanf:"ttl_ms"`

	// ParticipantTTLMs falls back to TTLMs when zero.
	ParticipantTTLMs int64 `koanf:"participant_ttl_ms"`

	ResultsTTLMs      int64 `koanf:"results_ttl_ms"`
	ResultsMaxEntries int   `koanf:"results_max_entries"`
	FailoverWindowMs  int64 `koanf:"failover_window_ms"`

	// AllowedProducers restricts accepted producer ids. Empty allows all.
	AllowedProducers []string `koanf:"allowed_producers"`
}

// SecurityConfig holds read API access settings.
type SecurityConfig struct {
	// APIToken is the shared secret for the read API. Empty disables the check.
	APIToken string `koanf:"api_token"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	Caller bool `koanf:"caller"`
}

// SimulatorConfig holds the telemetry simulator settings.
type SimulatorConfig struct {
	ProducerID   string `koanf:"producer_id"`
	Races        int    `koanf:"races"`
	Participants int    `koanf:"participants"`
	Laps         int    `koanf:"laps"`

	// PublishIntervalMs is the tick period in milliseconds.
	PublishIntervalMs int64 `koanf:"publish_interval_ms"`

	RaceIDOffset int64         `koanf:"race_id_offset"`
	RestartDelay time.Duration `koanf:"restart_delay"`
}
