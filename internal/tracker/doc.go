// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

/*
Package tracker is the stateful core of Racetrack: the materialized view of
live races, the archive of finalized results and the arbiter that decides
which producer is authoritative.

# Ownership

Tracker owns all three structures and guards them with one sync.RWMutex.
Nothing outside the package sees the underlying maps; read methods return
copies filtered by TTL at read time.

# Arbitration

The Arbiter is a three-state machine:

	awaiting --event--> active(X)
	active(X) --event from X--> active(X)
	active(X) --event from Y, silence < window--> active(X)   (Y dropped)
	active(X) --silence >= window--> failing_over
	failing_over --event from Y--> active(Y)                  (view wiped)
	failing_over --sweep--> awaiting                          (view wiped)
	any --transport disconnect--> awaiting                    (view kept)

# Expiry

Sweeper runs Tracker.Sweep every RaceTTL/3, clamped to [1s, 5s]. It is a
suture service; canceling its context stops it.
*/
package tracker
