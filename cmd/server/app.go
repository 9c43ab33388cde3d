// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/racetrack/internal/api"
	"github.com/tomtom215/racetrack/internal/config"
	"github.com/tomtom215/racetrack/internal/ingest"
	"github.com/tomtom215/racetrack/internal/logging"
	"github.com/tomtom215/racetrack/internal/supervisor"
	"github.com/tomtom215/racetrack/internal/supervisor/services"
	"github.com/tomtom215/racetrack/internal/tracker"
	ws "github.com/tomtom215/racetrack/internal/websocket"
)

// httpShutdownTimeout bounds how long in-flight requests may drain.
const httpShutdownTimeout = 10 * time.Second

// components holds every long-lived part of the tracker server.
type components struct {
	tracker  *tracker.Tracker
	pipeline *ingest.Pipeline
	hub      *ws.Hub
	consumer *ingest.Consumer
	handler  *api.Handler
	server   *http.Server
	http     *services.HTTPServerService
}

// newComponents wires the tracker, ingestion and API around the transport
// at transportURL. Nothing is started.
func newComponents(cfg *config.Config, transportURL string) (*components, error) {
	hub := ws.NewHub()

	store, err := tracker.New(cfg.TrackerConfig(), tracker.WithNotifier(hub))
	if err != nil {
		return nil, fmt.Errorf("create tracker: %w", err)
	}

	pipeline := ingest.NewPipeline(store, cfg.IngestConfig())
	consumer := ingest.NewConsumer(pipeline, *cfg.TransportConfig(), transportURL)

	apiCfg := cfg.APIConfig()
	handler := api.NewHandler(store, pipeline, hub, &apiCfg)
	router := api.NewRouter(handler)

	server := &http.Server{
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	return &components{
		tracker:  store,
		pipeline: pipeline,
		hub:      hub,
		consumer: consumer,
		handler:  handler,
		server:   server,
		http:     services.NewHTTPServerService(server, cfg.ListenAddr(), httpShutdownTimeout),
	}, nil
}

// addTo places each component in its supervisor layer.
func (c *components) addTo(tree *supervisor.SupervisorTree) {
	tree.AddMessagingService(c.hub)
	tree.AddMessagingService(c.consumer)
	logging.Info().Msg("Websocket hub and race event consumer added to supervisor tree")

	sweeper := c.tracker.Sweeper()
	tree.AddStateService(sweeper)
	logging.Info().Dur("interval", sweeper.Interval()).Msg("Expiry sweeper added to supervisor tree")

	tree.AddAPIService(c.http)
	logging.Info().Msg("HTTP server service added to supervisor tree")
}
