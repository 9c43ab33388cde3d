// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

/*
Package main is the entry point for the Racetrack tracker server.

The server consumes race telemetry from NATS JetStream, keeps a short-lived
view of live races, archives finished results, and serves them over a
read-only JSON API.

# Application Architecture

	RootSupervisor ("racetrack")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── websocket-hub
	│   └── race-event-consumer
	├── StateSupervisor ("state-layer")
	│   └── expiry-sweeper
	└── APISupervisor ("api-layer")
	    └── http-server

Startup order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog with JSON or console output
 3. Transport: embedded NATS server (NATS_EMBEDDED=true) or external URL,
    then the RACE_EVENTS stream is created or updated
 4. Tracker, ingestion pipeline, websocket hub and API router
 5. Supervisor tree

Only one producer feeds the view at a time. Events from other producers
are dropped until the active one has been silent for PRODUCER_FAILOVER_MS.

# Endpoints

	GET /health                    liveness (public)
	GET /metrics                   Prometheus metrics (public)
	GET /races                     current races
	GET /races/{raceId}            one race
	GET /races/{raceId}/leaderboard
	GET /last-results              recently finished races
	GET /status                    producer and ingestion status
	GET /ws                        live notifications
	GET /swagger/*                 API documentation

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
to 10s, the consumer unsubscribes, and the embedded NATS server, if any,
stops last.

# Example Usage

Single node with an embedded broker:

	export NATS_EMBEDDED=true
	export NATS_STORE_DIR=/tmp/racetrack
	export API_TOKEN=s3cret
	./server

With an external broker and two simulators:

	export NATS_URL=nats://nats:4222
	export ALLOWED_PRODUCERS=sim-a,sim-b
	./server
*/
package main
