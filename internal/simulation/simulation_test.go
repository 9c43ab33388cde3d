// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package simulation

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/racetrack/internal/course"
	"github.com/tomtom215/racetrack/internal/models"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.RaceEvent
	err    error
}

func (p *recordingPublisher) PublishRaceEvent(_ context.Context, evt *models.RaceEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *evt)
	return nil
}

func (p *recordingPublisher) resets() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for i := range p.events {
		if p.events[i].IsReset() {
			n++
		}
	}
	return n
}

func TestParticipant_AdvanceKeepsSpeedInBand(t *testing.T) {
	t.Parallel()

	rng := testRNG()
	p := NewParticipant("1-0", "Alice #0", 1, 5, course.Estoril(), ProfileBalanced, rng)
	for i := 0; i < 500 && !p.Finished(); i++ {
		prev := p.Speed
		p.Advance(time.Second, rng)
		if p.Finished() {
			break
		}
		if p.Speed < ProfileBalanced.MinSpeed || p.Speed > ProfileBalanced.MaxSpeed {
			t.Fatalf("speed %f outside band", p.Speed)
		}
		if diff := p.Speed - prev; diff > MaxSpeedStep || diff < -MaxSpeedStep {
			t.Fatalf("speed step %f exceeds %f", diff, MaxSpeedStep)
		}
		if p.Lap < 1 || p.Lap > p.TotalLaps {
			t.Fatalf("lap %d out of range", p.Lap)
		}
	}
}

func TestParticipant_FinishIsTerminal(t *testing.T) {
	t.Parallel()

	c := course.Estoril()
	rng := testRNG()
	p := NewParticipant("1-0", "Bob #2", 2, 1, c, ProfileSprinter, rng)
	p.Distance = p.TotalDistance - 1

	p.Advance(time.Second, rng)

	if !p.Finished() {
		t.Fatal("expected participant to finish")
	}
	if p.Distance != p.TotalDistance {
		t.Errorf("distance = %f, want clamp to %f", p.Distance, p.TotalDistance)
	}
	if p.Lat != c.Finish().Lat || p.Lon != c.Finish().Lon {
		t.Error("finished participant should be pinned to the finish waypoint")
	}

	speed := p.Speed
	p.Advance(time.Second, rng)
	if p.Speed != speed || p.Distance != p.TotalDistance {
		t.Error("finished participant must not change on further ticks")
	}
}

func TestParticipant_Event(t *testing.T) {
	t.Parallel()

	p := NewParticipant("9-3", "Dave #4", 4, 5, course.Estoril(), ProfileEndurance, testRNG())
	now := time.UnixMilli(1_700_000_000_000)
	evt := p.Event("9", "sim-a", now)

	if err := evt.Validate(); err != nil {
		t.Fatalf("generated event should be valid: %v", err)
	}
	if evt.Timestamp != now.UnixMilli() {
		t.Errorf("timestamp = %d", evt.Timestamp)
	}
	if string(evt.Profile) != `"endurance"` {
		t.Errorf("profile = %s", evt.Profile)
	}
}

func TestRace_TickRanksByDistance(t *testing.T) {
	t.Parallel()

	rng := testRNG()
	r := NewRace("1", 6, 5, course.Estoril(), rng)
	for i := 0; i < 20; i++ {
		r.Tick(time.Second, rng)
	}

	byPos := make(map[int]*Participant, len(r.Participants))
	for _, p := range r.Participants {
		if _, dup := byPos[p.Position]; dup {
			t.Fatalf("duplicate position %d", p.Position)
		}
		byPos[p.Position] = p
	}
	for pos := 1; pos < len(r.Participants); pos++ {
		if byPos[pos].Distance < byPos[pos+1].Distance {
			t.Errorf("position %d is behind position %d", pos, pos+1)
		}
	}
}

func TestRace_Names(t *testing.T) {
	t.Parallel()

	r := NewRace("3", 12, 1, course.Estoril(), testRNG())
	tests := []struct {
		index    int
		wantName string
		wantID   string
	}{
		{0, "Alice #0", "3-0"},
		{2, "Charlie #2", "3-2"},
		{10, "Alice #10", "3-10"},
		{11, "Bob #11", "3-11"},
	}
	for _, tt := range tests {
		p := r.Participants[tt.index]
		if p.Name != tt.wantName || p.ID != tt.wantID {
			t.Errorf("participant %d = %q/%q, want %q/%q", tt.index, p.ID, p.Name, tt.wantID, tt.wantName)
		}
	}
}

func TestSimulator_PublishesResetAndRestarts(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	sim, err := New(Config{
		ProducerID:   "sim-a",
		Races:        2,
		Participants: 3,
		Laps:         1,
		Interval:     2 * time.Minute,
		RestartDelay: 5 * time.Second,
		RaceIDOffset: 100,
		Seed:         42,
	}, course.Estoril(), pub)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)

	// two minutes at >= 100 km/h covers more than one Estoril lap
	if err := sim.Step(ctx, now); err != nil {
		t.Fatal(err)
	}
	if got := pub.resets(); got != 2 {
		t.Fatalf("expected 2 reset events, got %d", got)
	}
	if len(pub.events) != 2*3+2 {
		t.Fatalf("expected 8 events, got %d", len(pub.events))
	}

	// within the restart delay nothing is published
	if err := sim.Step(ctx, now.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	if len(pub.events) != 8 {
		t.Fatalf("expected no events during restart delay, got %d", len(pub.events))
	}

	if err := sim.Step(ctx, now.Add(6*time.Second)); err != nil {
		t.Fatal(err)
	}
	ids := map[models.RaceID]bool{}
	for _, r := range sim.Races() {
		ids[r.ID] = true
	}
	if !ids["100"] || !ids["101"] {
		t.Errorf("restarted races should keep their ids, got %v", ids)
	}
}

func TestSimulator_PublishErrorsDoNotStop(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{err: errors.New("broker down")}
	sim, err := New(Config{ProducerID: "p", Races: 1, Participants: 2, Laps: 5, Interval: time.Second, Seed: 1}, course.Estoril(), pub)
	if err != nil {
		t.Fatal(err)
	}
	if err := sim.Step(context.Background(), time.Now()); err != nil {
		t.Fatalf("publish errors should not surface: %v", err)
	}
}

func TestSimulator_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	sim, err := New(Config{ProducerID: "p", Races: 1, Participants: 1, Laps: 5, Interval: 10 * time.Millisecond, Seed: 1}, course.Estoril(), &recordingPublisher{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := sim.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve returned %v, want deadline exceeded", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := Config{ProducerID: "p", Races: 1, Participants: 1, Laps: 1, Interval: time.Second}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no producer", func(c *Config) { c.ProducerID = "" }},
		{"no races", func(c *Config) { c.Races = 0 }},
		{"no participants", func(c *Config) { c.Participants = 0 }},
		{"no laps", func(c *Config) { c.Laps = 0 }},
		{"zero interval", func(c *Config) { c.Interval = 0 }},
		{"negative restart", func(c *Config) { c.RestartDelay = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)
			if cfg.Validate() == nil {
				t.Error("expected validation error")
			}
		})
	}
}
