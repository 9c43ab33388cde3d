// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

// Package cache provides bucketed sliding-window counters used to report
// ingest rates (overall and per producer) on the status endpoint.
package cache
