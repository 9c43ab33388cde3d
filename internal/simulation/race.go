// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package simulation

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/tomtom215/racetrack/internal/course"
	"github.com/tomtom215/racetrack/internal/models"
)

var driverNames = []string{
	"Alice", "Bob", "Charlie", "David", "Eve",
	"Frank", "Grace", "Henry", "Ivy", "Jack",
}

// Race is one simulated race.
type Race struct {
	ID           models.RaceID
	Participants []*Participant
}

// NewRace creates a race with n participants lined up in grid order.
func NewRace(id models.RaceID, n, laps int, c *course.Course, rng *rand.Rand) *Race {
	r := &Race{ID: id, Participants: make([]*Participant, n)}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%s #%d", driverNames[i%len(driverNames)], i)
		r.Participants[i] = NewParticipant(fmt.Sprintf("%s-%d", id, i), name, i+1, laps, c, randomProfile(rng), rng)
	}
	return r
}

// Tick advances every participant and re-ranks the field by distance.
func (r *Race) Tick(dt time.Duration, rng *rand.Rand) {
	for _, p := range r.Participants {
		p.Advance(dt, rng)
	}
	r.rerank()
}

// rerank assigns positions by distance, furthest first. The stable sort
// keeps the previous order for ties, so finishers keep their finish order.
func (r *Race) rerank() {
	ranked := make([]*Participant, len(r.Participants))
	copy(ranked, r.Participants)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Distance != ranked[j].Distance {
			return ranked[i].Distance > ranked[j].Distance
		}
		return ranked[i].Position < ranked[j].Position
	})
	for i, p := range ranked {
		p.Position = i + 1
	}
}

// Finished reports whether every participant finished.
func (r *Race) Finished() bool {
	for _, p := range r.Participants {
		if !p.Finished() {
			return false
		}
	}
	return true
}

// Events renders every participant in wire format.
func (r *Race) Events(producerID string, now time.Time) []models.RaceEvent {
	events := make([]models.RaceEvent, len(r.Participants))
	for i, p := range r.Participants {
		events[i] = p.Event(r.ID, producerID, now)
	}
	return events
}

// ResetEvent is the terminal event announcing that the race is over.
func (r *Race) ResetEvent(producerID string, now time.Time) models.RaceEvent {
	return models.RaceEvent{
		RaceID:     r.ID,
		ProducerID: producerID,
		EventType:  models.EventTypeReset,
		Timestamp:  now.UnixMilli(),
	}
}
