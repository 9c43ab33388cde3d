// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

/*
Package simulation generates race telemetry: participants advancing around a
course.Course, races that re-rank their field every tick, and a Simulator
service that publishes every participant on a fixed interval.

Participant lifecycle:

	running --(distance >= totalDistance)--> finished

The transition is one-way. A finished participant is pinned to the finish
waypoint and ignores further ticks.

Race lifecycle:

	racing --(all finished)--> reset published --(RestartDelay)--> new race

Race ids are allocated from a configurable offset so that several
simulators can run side by side without colliding.
*/
package simulation
