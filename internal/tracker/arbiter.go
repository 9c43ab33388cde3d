// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package tracker

import "time"

// ProducerState is the observable state of the arbiter.
type ProducerState int

const (
	// StateAwaiting means no producer is active; the next event wins.
	StateAwaiting ProducerState = iota
	// StateActive means a producer is active and within the failover window.
	StateActive
	// StateFailingOver means the active producer has been silent for at
	// least the failover window; any producer may take over.
	StateFailingOver
)

func (s ProducerState) String() string {
	switch s {
	case StateAwaiting:
		return "awaiting"
	case StateActive:
		return "active"
	case StateFailingOver:
		return "failing_over"
	default:
		return "unknown"
	}
}

// Decision is the arbiter's verdict on one event.
type Decision int

const (
	// DecisionAcquired: no producer was active, the sender became active.
	DecisionAcquired Decision = iota
	// DecisionRefreshed: the sender is the active producer.
	DecisionRefreshed
	// DecisionRejected: another producer is active and not yet silent long enough.
	DecisionRejected
	// DecisionFailedOver: the active producer went silent, the sender took
	// over and the view store must be wiped.
	DecisionFailedOver
)

func (d Decision) String() string {
	switch d {
	case DecisionAcquired:
		return "acquired"
	case DecisionRefreshed:
		return "refreshed"
	case DecisionRejected:
		return "rejected"
	case DecisionFailedOver:
		return "failover"
	default:
		return "unknown"
	}
}

// Authoritative reports whether the event should be applied.
func (d Decision) Authoritative() bool {
	return d != DecisionRejected
}

// Arbiter decides which producer is authoritative. It is not safe for
// concurrent use; Tracker serializes access under its lock.
type Arbiter struct {
	window    time.Duration
	active    string
	lastSeen  time.Time
	failovers uint64
}

// NewArbiter creates an arbiter in StateAwaiting.
func NewArbiter(window time.Duration) *Arbiter {
	return &Arbiter{window: window}
}

// Observe records an event from producerID received at now. previous is
// the producer that was displaced on failover.
func (a *Arbiter) Observe(producerID string, now time.Time) (d Decision, previous string) {
	switch {
	case a.active == "":
		a.active, a.lastSeen = producerID, now
		return DecisionAcquired, ""
	case a.active == producerID:
		if now.After(a.lastSeen) {
			a.lastSeen = now
		}
		return DecisionRefreshed, ""
	case now.Sub(a.lastSeen) < a.window:
		return DecisionRejected, ""
	default:
		previous = a.active
		a.active, a.lastSeen = producerID, now
		a.failovers++
		return DecisionFailedOver, previous
	}
}

// CheckLiveness releases the active producer once it has been silent for
// longer than the window. It returns the released producer id.
func (a *Arbiter) CheckLiveness(now time.Time) (released string, ok bool) {
	if a.active == "" || now.Sub(a.lastSeen) <= a.window {
		return "", false
	}
	return a.Release()
}

// Release clears the active producer unconditionally.
func (a *Arbiter) Release() (released string, ok bool) {
	if a.active == "" {
		return "", false
	}
	released = a.active
	a.active, a.lastSeen = "", time.Time{}
	return released, true
}

// State reports the arbiter state as of now.
func (a *Arbiter) State(now time.Time) ProducerState {
	switch {
	case a.active == "":
		return StateAwaiting
	case now.Sub(a.lastSeen) >= a.window:
		return StateFailingOver
	default:
		return StateActive
	}
}

// Active returns the active producer and when it was last heard from.
func (a *Arbiter) Active() (producerID string, lastSeen time.Time, ok bool) {
	return a.active, a.lastSeen, a.active != ""
}

// Failovers returns the number of takeovers since start.
func (a *Arbiter) Failovers() uint64 {
	return a.failovers
}
