// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package eventprocessor

import (
	"fmt"
	"strings"
	"time"
)

// TransportConfig holds the NATS settings shared by the tracker and the
// simulator.
type TransportConfig struct {
	// URL is the NATS server connection URL. Ignored when EmbeddedServer
	// is set; the embedded server's client URL is used instead.
	URL string

	// EmbeddedServer starts an in-process NATS server with JetStream.
	EmbeddedServer bool

	// StoreDir is the JetStream storage directory of the embedded server.
	StoreDir string

	// StreamName is the JetStream stream carrying race events.
	StreamName string

	// Subject is the subject race events are published to. It must be
	// covered by the stream subjects.
	Subject string

	// PoisonSubject receives payloads that failed decoding. Empty disables
	// the poison queue; such payloads are then acknowledged and dropped.
	PoisonSubject string

	// ReconnectWait is the fixed delay between reconnect attempts.
	ReconnectWait time.Duration

	// StreamMaxAge bounds how long the stream keeps events.
	StreamMaxAge time.Duration
}

// DefaultTransportConfig returns production defaults.
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		URL:           "nats://127.0.0.1:4222",
		StoreDir:      "/data/nats/jetstream",
		StreamName:    "RACE_EVENTS",
		Subject:       "race.events",
		PoisonSubject: "race.poison",
		ReconnectWait: 5 * time.Second,
		StreamMaxAge:  time.Hour,
	}
}

// Validate checks the transport configuration.
func (c *TransportConfig) Validate() error {
	if !c.EmbeddedServer && c.URL == "" {
		return fmt.Errorf("%w: NATS URL required when the embedded server is disabled", ErrInvalidConfig)
	}
	if c.StreamName == "" || strings.ContainsAny(c.StreamName, ".*> ") {
		return fmt.Errorf("%w: invalid stream name %q", ErrInvalidConfig, c.StreamName)
	}
	if !subjectCovered(c.Subject) {
		return fmt.Errorf("%w: subject %q must be under %s", ErrInvalidConfig, c.Subject, StreamSubject)
	}
	if c.PoisonSubject != "" && !subjectCovered(c.PoisonSubject) {
		return fmt.Errorf("%w: poison subject %q must be under %s", ErrInvalidConfig, c.PoisonSubject, StreamSubject)
	}
	if c.PoisonSubject == c.Subject {
		return fmt.Errorf("%w: poison subject must differ from the event subject", ErrInvalidConfig)
	}
	if c.ReconnectWait <= 0 {
		return fmt.Errorf("%w: reconnect wait must be positive", ErrInvalidConfig)
	}
	return nil
}

// StreamSubject is the wildcard bound to the race events stream.
const StreamSubject = "race.>"

func subjectCovered(subject string) bool {
	return strings.HasPrefix(subject, "race.") && len(subject) > len("race.") &&
		!strings.ContainsAny(subject, "*> ")
}

// Stream returns the stream configuration for this transport.
func (c *TransportConfig) Stream() StreamConfig {
	cfg := DefaultStreamConfig()
	cfg.Name = c.StreamName
	if c.StreamMaxAge > 0 {
		cfg.MaxAge = c.StreamMaxAge
	}
	return cfg
}

// Server returns the embedded server configuration for this transport.
func (c *TransportConfig) Server() ServerConfig {
	cfg := DefaultServerConfig()
	cfg.StoreDir = c.StoreDir
	return cfg
}

// Publisher returns the publisher configuration for url.
func (c *TransportConfig) Publisher(url string) PublisherConfig {
	cfg := DefaultPublisherConfig(url)
	cfg.ReconnectWait = c.ReconnectWait
	return cfg
}

// Subscriber returns the subscriber configuration for url.
func (c *TransportConfig) Subscriber(url string) SubscriberConfig {
	cfg := DefaultSubscriberConfig(url)
	cfg.StreamName = c.StreamName
	cfg.ReconnectWait = c.ReconnectWait
	return cfg
}

// ServerConfig holds embedded NATS server configuration.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// DefaultServerConfig returns production defaults for the embedded server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "/data/nats/jetstream",
		JetStreamMaxMem:   256 << 20, // 256MB
		JetStreamMaxStore: 1 << 30,   // 1GB
	}
}

// PublisherConfig holds publisher configuration.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool // nolint:revive // ID is correct per Go conventions
}

// DefaultPublisherConfig returns production defaults for the publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		MaxReconnects:    -1, // Unlimited
		ReconnectWait:    5 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024, // 8MB
		EnableTrackMsgID: true,
	}
}

// SubscriberConfig holds subscriber configuration.
type SubscriberConfig struct {
	URL            string
	AckWaitTimeout time.Duration
	MaxDeliver     int
	MaxAckPending  int
	CloseTimeout   time.Duration
	MaxReconnects  int
	ReconnectWait  time.Duration

	// InactiveThreshold is how long the server keeps an ephemeral
	// consumer after its subscriber went away.
	InactiveThreshold time.Duration

	// StreamName binds the subscription to an existing stream. Required
	// because the stream subjects are a wildcard.
	StreamName string
}

// DefaultSubscriberConfig returns production defaults for the subscriber.
// There is no durable name and no queue group: every instance receives
// every event.
func DefaultSubscriberConfig(url string) SubscriberConfig {
	return SubscriberConfig{
		URL:               url,
		AckWaitTimeout:    30 * time.Second,
		MaxDeliver:        3,
		MaxAckPending:     1000,
		CloseTimeout:      10 * time.Second,
		MaxReconnects:     -1,
		ReconnectWait:     5 * time.Second,
		InactiveThreshold: 30 * time.Second,
	}
}

// StreamConfig defines race event stream settings.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	MaxMsgs         int64
	DuplicateWindow time.Duration
	Replicas        int
}

// DefaultStreamConfig returns the race event stream configuration. Events
// are only useful while a race is live, so retention is short.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Name:            "RACE_EVENTS",
		Subjects:        []string{StreamSubject},
		MaxAge:          time.Hour,
		MaxBytes:        512 * 1024 * 1024, // 512MB
		MaxMsgs:         -1,                // Unlimited
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Allowed in half-open state
	Interval         time.Duration // Reset interval for counts
	Timeout          time.Duration // Time to stay open
	FailureThreshold uint32        // Failures before opening
}

// DefaultCircuitBreakerConfig returns production defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
	}
}
