// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

// Package ingest turns raw transport messages into tracker mutations.
//
// Pipeline.OnEvent runs every message through the same steps:
//
//  1. decode and validate; failures are rejected and never redelivered
//  2. default a missing producerId to "unknown"
//  3. drop producers outside the allow-list, when one is configured
//  4. hand the event to the tracker, which finalizes resets and
//     arbitrates and upserts everything else under one lock
//
// Everything except a rejection is acknowledged, including intentional
// drops. Consumer binds a Pipeline to the NATS subscription and routes
// rejections to the poison subject.
package ingest
