// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/racetrack/internal/models"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingNotifier struct {
	mu        sync.Mutex
	finalized []models.ResultSnapshot
	changes   []ProducerChange
	expired   []models.RaceID
}

func (n *recordingNotifier) RaceFinalized(s models.ResultSnapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.finalized = append(n.finalized, s)
}

func (n *recordingNotifier) ProducerChanged(c ProducerChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, c)
}

func (n *recordingNotifier) RaceExpired(id models.RaceID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expired = append(n.expired, id)
}

func testConfig() Config {
	return Config{
		RaceTTL:        30 * time.Second,
		ResultsTTL:     10 * time.Minute,
		ResultsMax:     50,
		FailoverWindow: 10 * time.Second,
	}
}

func newTestTracker(t *testing.T, cfg Config) (*Tracker, *fakeClock, *recordingNotifier) {
	t.Helper()
	clock := newFakeClock()
	notifier := &recordingNotifier{}
	tr, err := New(cfg, WithClock(clock.Now), WithNotifier(notifier))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr, clock, notifier
}

func upsert(producer string, race models.RaceID, id string, position int, distance float64) *models.RaceEvent {
	return &models.RaceEvent{
		ID:            id,
		RaceID:        race,
		ProducerID:    producer,
		Name:          "Driver " + id,
		Position:      position,
		Speed:         180,
		Distance:      distance,
		TotalDistance: 1000,
		Status:        models.StatusRunning,
	}
}

func reset(producer string, race models.RaceID) *models.RaceEvent {
	return &models.RaceEvent{RaceID: race, ProducerID: producer, EventType: models.EventTypeReset}
}

func apply(t *testing.T, tr *Tracker, evt *models.RaceEvent) Outcome {
	t.Helper()
	return tr.Apply(context.Background(), evt)
}
