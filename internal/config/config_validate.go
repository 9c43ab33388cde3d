// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateTransport(); err != nil {
		return err
	}

	if err := c.validateRace(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	return c.validateSimulator()
}

// validateTransport validates the NATS settings. The subject layout is
// checked by eventprocessor when the transport starts.
func (c *Config) validateTransport() error {
	if c.Transport.EmbeddedServer {
		if c.Transport.StoreDir == "" {
			return fmt.Errorf("NATS_STORE_DIR is required when NATS_EMBEDDED=true")
		}
	} else {
		if c.Transport.URL == "" {
			return fmt.Errorf("NATS_URL is required when NATS_EMBEDDED=false")
		}
		if err := validateNATSURL(c.Transport.URL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
	}
	if c.Transport.Subject == "" {
		return fmt.Errorf("RACE_EVENTS_SUBJECT must not be empty")
	}
	if c.Transport.ReconnectWait <= 0 {
		return fmt.Errorf("NATS_RECONNECT_WAIT must be positive, got %v", c.Transport.ReconnectWait)
	}
	return nil
}

// validateNATSURL validates that the NATS URL is properly formatted
// Supports: nats://, tls://, and ws:// schemes with IP addresses/hostnames and optional ports
func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsedURL.Scheme] {
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222, nats.example.com)")
	}

	return nil
}

func (c *Config) validateRace() error {
	r := c.Race
	if r.TTLMs <= 0 {
		return fmt.Errorf("RACE_TTL_MS must be positive, got %d", r.TTLMs)
	}
	if r.ParticipantTTLMs < 0 {
		return fmt.Errorf("PARTICIPANT_TTL_MS must not be negative, got %d", r.ParticipantTTLMs)
	}
	if r.ResultsTTLMs <= 0 {
		return fmt.Errorf("RESULTS_TTL_MS must be positive, got %d", r.ResultsTTLMs)
	}
	if r.ResultsMaxEntries < 1 {
		return fmt.Errorf("RESULTS_MAX_ENTRIES must be at least 1, got %d", r.ResultsMaxEntries)
	}
	if r.FailoverWindowMs <= 0 {
		return fmt.Errorf("PRODUCER_FAILOVER_MS must be positive, got %d", r.FailoverWindowMs)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if s.RateLimitDisabled {
		return nil
	}
	if s.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", s.RateLimitRequests)
	}
	if s.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", s.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	level := strings.ToLower(c.Logging.Level)
	if !validLevels[level] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	c.Logging.Level = level

	format := strings.ToLower(c.Logging.Format)
	if format != "json" && format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	c.Logging.Format = format
	return nil
}

// validateSimulator only checks ranges; the simulator binary runs the full
// simulation.Config validation.
func (c *Config) validateSimulator() error {
	s := c.Simulator
	if s.PublishIntervalMs <= 0 {
		return fmt.Errorf("PUBLISH_INTERVAL must be positive, got %d", s.PublishIntervalMs)
	}
	if s.RaceIDOffset < 0 {
		return fmt.Errorf("RACE_ID_OFFSET must not be negative, got %d", s.RaceIDOffset)
	}
	return nil
}
