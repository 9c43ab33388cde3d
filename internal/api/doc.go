// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

/*
Package api provides the read-only HTTP query surface.

Routes:

	GET /health                      liveness, always 200, never authenticated
	GET /metrics                     Prometheus exposition, never authenticated
	GET /races                       current races, sorted by race id
	GET /races/{raceId}              one race, 404 {"error":"Race not found"}
	GET /races/{raceId}/leaderboard  ranked leaderboard of one race
	GET /last-results                archived snapshots, newest first
	GET /status                      arbitration and ingest status
	GET /ws                          live notifications (websocket)
	GET /swagger/*                   API documentation

When an API token is configured every route except /health and /metrics
requires it, either as X-API-Token or as a bearer Authorization header.

Every read goes through the tracker's read lock and returns a deep copy;
handlers never mutate state. Race ids in paths are canonicalized the same
way as on the wire, so /races/007 and /races/7 address the same race.

Middleware stack (outermost first): request id, real IP, panic recovery,
CORS, Prometheus instrumentation, then per-group rate limiting, security
headers and the shared-secret check.
*/
package api
