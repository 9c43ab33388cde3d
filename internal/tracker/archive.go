// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package tracker

import (
	"time"

	"github.com/tomtom215/racetrack/internal/models"
)

// Archive holds finalized race snapshots, at most one per race id, bounded
// by age and count. It holds no lock of its own; Tracker guards it.
type Archive struct {
	ttl       time.Duration
	max       int
	snapshots []models.ResultSnapshot // oldest first
}

// NewArchive creates an archive. max <= 0 disables the count bound.
func NewArchive(ttl time.Duration, max int) *Archive {
	return &Archive{ttl: ttl, max: max}
}

// File stores s as the most recent snapshot, replacing any earlier snapshot
// of the same race and evicting the oldest entries beyond the count bound.
func (a *Archive) File(s models.ResultSnapshot) {
	kept := a.snapshots[:0]
	for _, existing := range a.snapshots {
		if existing.RaceID != s.RaceID {
			kept = append(kept, existing)
		}
	}
	clear(a.snapshots[len(kept):])
	a.snapshots = append(kept, s)

	if a.max > 0 && len(a.snapshots) > a.max {
		a.snapshots = append([]models.ResultSnapshot(nil), a.snapshots[len(a.snapshots)-a.max:]...)
	}
}

// Recent returns snapshots finalized within the TTL, newest first.
func (a *Archive) Recent(now time.Time) []models.ResultSnapshot {
	out := make([]models.ResultSnapshot, 0, len(a.snapshots))
	for i := len(a.snapshots) - 1; i >= 0; i-- {
		s := a.snapshots[i]
		if now.Sub(s.FinalizedAt()) <= a.ttl {
			out = append(out, s)
		}
	}
	return out
}

// Expire drops snapshots older than the TTL and returns how many were dropped.
func (a *Archive) Expire(now time.Time) int {
	kept := a.snapshots[:0]
	for _, s := range a.snapshots {
		if now.Sub(s.FinalizedAt()) <= a.ttl {
			kept = append(kept, s)
		}
	}
	removed := len(a.snapshots) - len(kept)
	clear(a.snapshots[len(kept):])
	a.snapshots = kept
	return removed
}

// Len returns the number of stored snapshots, expired or not.
func (a *Archive) Len() int {
	return len(a.snapshots)
}
