// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

// Package logging provides the zerolog-based structured logging used by every
// Racetrack component.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once at startup via Init
//   - JSON output for production and console output for development
//   - Context helpers that carry request and correlation IDs
//   - A slog.Handler backed by zerolog, used by sutureslog
//   - A watermill.LoggerAdapter backed by zerolog, used by the transport
//   - EventLogger with typed helpers for ingestion outcomes
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("race_id", "7").Msg("Race finalized")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Transport disconnected")
//
// # Configuration
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// Always terminate a chain with .Msg() or .Send(); an unterminated event is
// never written.
package logging
