// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

// Package validation wraps a go-playground/validator v10 singleton used to
// check inbound race events before they reach the tracker. Field names in
// errors are the JSON names of the wire schema.
package validation
