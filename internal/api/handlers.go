// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package api

import (
	"time"

	"github.com/tomtom215/racetrack/internal/models"
	ws "github.com/tomtom215/racetrack/internal/websocket"
)

// RaceReader is the read-only projection of the tracker.
type RaceReader interface {
	Races() []models.RaceView
	Race(id models.RaceID) (models.RaceView, error)
	Leaderboard(id models.RaceID) (models.Leaderboard, error)
	LastResults() []models.ResultSnapshot
	Stats() models.TrackerStats
}

// IngestStatus exposes live ingestion counters for /status.
type IngestStatus interface {
	Connected() bool
	EventsLastMinute() int64
	ProducerRates() map[string]int64
}

// Config holds the HTTP-facing settings the handlers and router need.
type Config struct {
	// APIToken enables the shared-secret check when non-empty.
	APIToken string

	// CORSOrigins lists allowed browser origins; "*" allows any.
	CORSOrigins []string

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response helpers
//   - handlers_races.go: race, leaderboard and results endpoints
//   - handlers_health.go: health and status endpoints
//   - handlers_websocket.go: live notification endpoint
type Handler struct {
	races     RaceReader
	ingest    IngestStatus
	wsHub     *ws.Hub
	config    *Config
	startTime time.Time
	now       func() time.Time
}

// NewHandler creates a new API handler. ingest and wsHub may be nil; /status
// then reports no ingest counters and /ws answers 503.
//
// Example:
//
//	handler := api.NewHandler(trk, pipeline, hub, &api.Config{APIToken: token})
//	router := api.NewRouter(handler)
//	http.ListenAndServe(":3001", router.SetupChi())
func NewHandler(races RaceReader, ingest IngestStatus, wsHub *ws.Hub, cfg *Config) *Handler {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Handler{
		races:     races,
		ingest:    ingest,
		wsHub:     wsHub,
		config:    cfg,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// SetClock replaces the handler clock. Tests use it together with the
// tracker's fake clock.
func (h *Handler) SetClock(now func() time.Time) {
	h.now = now
}
