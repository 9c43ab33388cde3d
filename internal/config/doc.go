// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

/*
Package config provides centralized configuration management for Racetrack.

Configuration is layered with Koanf v2: built-in defaults, an optional YAML
file, then environment variables. The tracker server and the simulator read
the same Config and take the sections they need.

# Configuration File

The first file found is used:
  - $CONFIG_PATH
  - config.yaml, config.yml
  - /etc/racetrack/config.yaml, /etc/racetrack/config.yml

Example:

	transport:
	  url: nats://nats:4222
	race:
	  ttl_ms: 30000
	  allowed_producers: [sim-a, sim-b]
	security:
	  api_token: s3cret

# Environment Variables

Transport:
  - NATS_URL (alias TRANSPORT_URL): server URL (default: nats://127.0.0.1:4222)
  - NATS_EMBEDDED: run an in-process server (default: false)
  - NATS_STORE_DIR: embedded JetStream directory (default: /data/nats/jetstream)
  - NATS_STREAM_NAME: stream name (default: RACE_EVENTS)
  - RACE_EVENTS_SUBJECT (alias EXCHANGE_NAME): event subject (default: race.events)
  - RACE_POISON_SUBJECT: malformed payload subject (default: race.poison)
  - NATS_RECONNECT_WAIT: fixed reconnect backoff (default: 5s)
  - NATS_STREAM_MAX_AGE: stream retention (default: 1h)

Races:
  - RACE_TTL_MS: race visibility after its last event (default: 30000)
  - PARTICIPANT_TTL_MS: participant visibility, 0 uses RACE_TTL_MS (default: 0)
  - RESULTS_TTL_MS: archived result retention (default: 600000)
  - RESULTS_MAX_ENTRIES: archive bound (default: 50)
  - PRODUCER_FAILOVER_MS: silence before another producer takes over (default: 10000)
  - ALLOWED_PRODUCERS: comma-separated producer ids, empty allows all

Security:
  - API_TOKEN: shared secret for the read API, empty disables it
  - CORS_ORIGINS: comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT (default: 600, 1m, false)

Server and logging:
  - HTTP_HOST, PORT (alias HTTP_PORT), HTTP_TIMEOUT (default: 0.0.0.0, 3001, 30s)
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER (default: info, json, false)

Simulator:
  - PRODUCER_ID (default: host name), NUM_RACES (1), NUM_PARTICIPANTS (10),
    NUM_LAPS (5), PUBLISH_INTERVAL in ms (1000), RACE_ID_OFFSET (0), RESTART_DELAY (5s)

Variables not in the mapping table are ignored.
*/
package config
