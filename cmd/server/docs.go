// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

// Package main provides the Racetrack HTTP server
//
// @title Racetrack API
// @version 1.0
// @description Read-only access to live race leaderboards, recent results and ingestion status.
// @description
// @description ## Authentication
// @description
// @description When API_TOKEN is set, every endpoint except `/health` and `/metrics`
// @description requires the token in the `X-API-Token` header or as `Authorization: Bearer <token>`.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 600 requests per minute per IP address.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description { "error": "Race not found" }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/racetrack/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3001
// @BasePath /
// @schemes http https
//
// @securityDefinitions.apikey APIToken
// @in header
// @name X-API-Token
// @description Shared secret configured with API_TOKEN.
//
// @tag.name Core
// @tag.description Health and ingestion status
//
// @tag.name Races
// @tag.description Live races, leaderboards and recent results
//
// @tag.name Realtime
// @tag.description WebSocket notifications for finalized races, producer changes and expiry
package main
