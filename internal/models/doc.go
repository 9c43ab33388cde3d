// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

/*
Package models defines the data structures shared by the ingestion core, the
simulator and the HTTP query surface.

Wire Models:

  - RaceEvent: one telemetry message as published by a producer
  - RaceID: race identifier accepting either a JSON integer or string

View Models:

  - Participant: the materialized state of one participant in one race
  - RaceView: a race with its visible participants
  - LeaderboardEntry: one formatted leaderboard row
  - ResultSnapshot: the archived leaderboard of a finalized race

All view models are value copies; handing one to a caller never exposes
tracker internals.
*/
package models
