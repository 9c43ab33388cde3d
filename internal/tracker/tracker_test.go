// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/racetrack/internal/models"
)

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero race ttl", func(c *Config) { c.RaceTTL = 0 }},
		{"negative participant ttl", func(c *Config) { c.ParticipantTTL = -1 }},
		{"zero results ttl", func(c *Config) { c.ResultsTTL = 0 }},
		{"negative results max", func(c *Config) { c.ResultsMax = -1 }},
		{"zero failover window", func(c *Config) { c.FailoverWindow = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestApply_UpsertIsIdempotent(t *testing.T) {
	t.Parallel()

	tr, clock, _ := newTestTracker(t, testConfig())
	evt := upsert("A", "1", "1-0", 1, 100)

	apply(t, tr, evt)
	clock.Advance(time.Second)
	apply(t, tr, evt)

	race, err := tr.Race("1")
	if err != nil {
		t.Fatal(err)
	}
	if race.TotalParticipants != 1 {
		t.Fatalf("participants = %d, want 1", race.TotalParticipants)
	}
	if !race.Participants[0].LastSeen.Equal(clock.Now()) {
		t.Error("the later receipt time should win")
	}
}

func TestApply_LastWriteWins(t *testing.T) {
	t.Parallel()

	tr, _, _ := newTestTracker(t, testConfig())
	apply(t, tr, upsert("A", "1", "1-0", 2, 500))
	// an older producer timestamp arriving later still wins
	older := upsert("A", "1", "1-0", 1, 100)
	older.Timestamp = 1
	apply(t, tr, older)

	race, _ := tr.Race("1")
	if race.Participants[0].Distance != 100 {
		t.Errorf("distance = %f, want 100 (receipt order)", race.Participants[0].Distance)
	}
}

func TestApply_NonActiveProducerDropped(t *testing.T) {
	t.Parallel()

	tr, clock, _ := newTestTracker(t, testConfig())
	apply(t, tr, upsert("A", "1", "1-0", 1, 100))
	clock.Advance(9 * time.Second)

	if got := apply(t, tr, upsert("B", "2", "2-0", 1, 100)); got != OutcomeDropped {
		t.Fatalf("outcome = %v, want dropped", got)
	}
	if _, err := tr.Race("2"); !errors.Is(err, ErrRaceNotFound) {
		t.Error("dropped event must not create a race")
	}
	if _, err := tr.Race("1"); err != nil {
		t.Error("active producer data must be untouched")
	}
}

func TestApply_FailoverWipesView(t *testing.T) {
	t.Parallel()

	tr, clock, notifier := newTestTracker(t, testConfig())
	apply(t, tr, upsert("A", "1", "1-0", 1, 100))
	apply(t, tr, upsert("A", "2", "2-0", 1, 100))
	clock.Advance(10 * time.Second)

	if got := apply(t, tr, upsert("B", "3", "3-0", 1, 50)); got != OutcomeApplied {
		t.Fatalf("outcome = %v, want applied", got)
	}

	races := tr.Races()
	if len(races) != 1 || races[0].ID != "3" {
		t.Fatalf("after failover only B's race should exist, got %+v", races)
	}
	stats := tr.Stats()
	if stats.Producer.ActiveProducer != "B" || stats.Producer.Failovers != 1 {
		t.Errorf("producer status = %+v", stats.Producer)
	}

	last := notifier.changes[len(notifier.changes)-1]
	if last.Reason != "failover" || last.Previous != "A" || last.Producer != "B" {
		t.Errorf("change = %+v", last)
	}
}

func TestReleaseProducer_KeepsView(t *testing.T) {
	t.Parallel()

	tr, _, _ := newTestTracker(t, testConfig())
	apply(t, tr, upsert("A", "1", "1-0", 1, 100))

	tr.ReleaseProducer("disconnect")

	if tr.ProducerState() != StateAwaiting {
		t.Errorf("state = %v, want awaiting", tr.ProducerState())
	}
	if _, err := tr.Race("1"); err != nil {
		t.Error("disconnect must not clear the view")
	}
	// any producer may now acquire immediately
	if got := apply(t, tr, upsert("B", "1", "1-1", 2, 10)); got != OutcomeApplied {
		t.Errorf("outcome = %v, want applied", got)
	}
	race, _ := tr.Race("1")
	if race.TotalParticipants != 2 {
		t.Errorf("participants = %d, want 2", race.TotalParticipants)
	}
}

func TestRaceTTL_Visibility(t *testing.T) {
	t.Parallel()

	tr, clock, _ := newTestTracker(t, testConfig())
	apply(t, tr, upsert("A", "1", "1-0", 1, 100))

	clock.Advance(30 * time.Second)
	if _, err := tr.Race("1"); err != nil {
		t.Error("race should be visible exactly at the TTL")
	}

	clock.Advance(time.Millisecond)
	if _, err := tr.Race("1"); !errors.Is(err, ErrRaceNotFound) {
		t.Error("race should be invisible past the TTL")
	}
	if len(tr.Races()) != 0 {
		t.Error("expired race must not be listed")
	}
	if _, err := tr.Leaderboard("1"); !errors.Is(err, ErrRaceNotFound) {
		t.Error("expired race has no leaderboard")
	}
}

func TestParticipantTTL_HidesStaleParticipants(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ParticipantTTL = 5 * time.Second
	tr, clock, _ := newTestTracker(t, cfg)

	apply(t, tr, upsert("A", "1", "1-0", 1, 100))
	clock.Advance(4 * time.Second)
	apply(t, tr, upsert("A", "1", "1-1", 2, 90))
	clock.Advance(2 * time.Second)

	race, err := tr.Race("1")
	if err != nil {
		t.Fatal(err)
	}
	if race.TotalParticipants != 1 || race.Participants[0].ID != "1-1" {
		t.Errorf("visible participants = %+v", race.Participants)
	}

	res := tr.Sweep()
	if res.Participants != 1 {
		t.Errorf("swept participants = %d, want 1", res.Participants)
	}
	if tr.Stats().Participants != 1 {
		t.Errorf("tracked participants = %d, want 1", tr.Stats().Participants)
	}
}

func TestFinalize_ArchivesSnapshot(t *testing.T) {
	t.Parallel()

	tr, clock, notifier := newTestTracker(t, testConfig())
	apply(t, tr, upsert("A", "7", "7-1", 2, 400))
	apply(t, tr, upsert("A", "7", "7-0", 1, 500))
	clock.Advance(time.Second)

	// terminal events bypass arbitration
	if got := apply(t, tr, reset("someone-else", "7")); got != OutcomeFinalized {
		t.Fatalf("outcome = %v, want finalized", got)
	}

	results := tr.LastResults()
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	snap := results[0]
	if snap.RaceID != "7" || snap.FinishedAt != clock.Now().UnixMilli() {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Leaderboard) != 2 || snap.Leaderboard[0].Name != "Driver 7-0" {
		t.Errorf("leaderboard = %+v", snap.Leaderboard)
	}

	race, _ := tr.Race("7")
	for _, p := range race.Participants {
		if p.Status != models.StatusFinished {
			t.Errorf("participant %s status = %s, want finished", p.ID, p.Status)
		}
	}
	if len(notifier.finalized) != 1 {
		t.Errorf("notifications = %d, want 1", len(notifier.finalized))
	}
}

func TestFinalize_UnknownRace(t *testing.T) {
	t.Parallel()

	tr, _, _ := newTestTracker(t, testConfig())
	if got := apply(t, tr, reset("A", "99")); got != OutcomeUnknownRace {
		t.Errorf("outcome = %v, want unknown race", got)
	}
	if len(tr.LastResults()) != 0 {
		t.Error("no snapshot for a race without data")
	}
}

func TestFinalize_ExpiredRaceIsUnknownBeforeSweep(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RaceTTL = 10 * time.Second
	tr, clock, notifier := newTestTracker(t, cfg)
	apply(t, tr, upsert("A", "7", "7-0", 1, 10))

	// past the TTL with no sweep in between
	clock.Advance(11 * time.Second)
	if _, err := tr.Race("7"); !errors.Is(err, ErrRaceNotFound) {
		t.Fatalf("Race() before reset error = %v, want ErrRaceNotFound", err)
	}

	if got := apply(t, tr, reset("A", "7")); got != OutcomeUnknownRace {
		t.Errorf("outcome = %v, want unknown race", got)
	}
	if _, err := tr.Race("7"); !errors.Is(err, ErrRaceNotFound) {
		t.Errorf("Race() after reset error = %v, want ErrRaceNotFound", err)
	}
	if len(tr.LastResults()) != 0 {
		t.Error("expired race must not be archived")
	}
	if len(notifier.finalized) != 0 {
		t.Error("expired race must not be announced as finalized")
	}
}

func TestFinalize_ReplacesSnapshotForSameRace(t *testing.T) {
	t.Parallel()

	tr, clock, _ := newTestTracker(t, testConfig())
	apply(t, tr, upsert("A", "1", "1-0", 1, 10))
	apply(t, tr, upsert("A", "2", "2-0", 1, 10))
	apply(t, tr, reset("A", "1"))
	clock.Advance(time.Second)
	apply(t, tr, reset("A", "2"))
	clock.Advance(time.Second)
	apply(t, tr, reset("A", "1"))

	results := tr.LastResults()
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].RaceID != "1" || results[1].RaceID != "2" {
		t.Errorf("order = %s, %s; want 1, 2", results[0].RaceID, results[1].RaceID)
	}
}

func TestResultsTTL(t *testing.T) {
	t.Parallel()

	tr, clock, _ := newTestTracker(t, testConfig())
	apply(t, tr, upsert("A", "1", "1-0", 1, 10))
	apply(t, tr, reset("A", "1"))

	clock.Advance(10 * time.Minute)
	if len(tr.LastResults()) != 1 {
		t.Error("snapshot should be visible exactly at the results TTL")
	}
	clock.Advance(time.Millisecond)
	if len(tr.LastResults()) != 0 {
		t.Error("snapshot should expire past the results TTL")
	}
	if res := tr.Sweep(); res.Results != 1 {
		t.Errorf("swept results = %d, want 1", res.Results)
	}
}

func TestResultsMax(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ResultsMax = 2
	tr, clock, _ := newTestTracker(t, cfg)

	for i := 1; i <= 3; i++ {
		id := models.RaceIDFromInt(int64(i))
		apply(t, tr, upsert("A", id, fmt.Sprintf("%d-0", i), 1, 10))
		apply(t, tr, reset("A", id))
		clock.Advance(time.Second)
	}

	results := tr.LastResults()
	if len(results) != 2 || results[0].RaceID != "3" || results[1].RaceID != "2" {
		t.Errorf("results = %+v", results)
	}
}

func TestSweep_ReleasesSilentProducerAndWipes(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RaceTTL = time.Minute
	tr, clock, notifier := newTestTracker(t, cfg)
	apply(t, tr, upsert("A", "1", "1-0", 1, 10))

	clock.Advance(10 * time.Second)
	if res := tr.Sweep(); res.ReleasedProducer != "" {
		t.Fatal("producer released at exactly the window")
	}

	clock.Advance(time.Millisecond)
	res := tr.Sweep()
	if res.ReleasedProducer != "A" || res.Wiped != 1 {
		t.Fatalf("sweep = %+v", res)
	}
	if len(tr.Races()) != 0 {
		t.Error("view should be wiped on silence")
	}
	last := notifier.changes[len(notifier.changes)-1]
	if last.Reason != "silence" {
		t.Errorf("change reason = %q", last.Reason)
	}
}

func TestSweep_ExpiresRaces(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.FailoverWindow = time.Hour
	tr, clock, notifier := newTestTracker(t, cfg)
	apply(t, tr, upsert("A", "1", "1-0", 1, 10))
	clock.Advance(20 * time.Second)
	apply(t, tr, upsert("A", "2", "2-0", 1, 10))
	clock.Advance(11 * time.Second)

	res := tr.Sweep()
	if len(res.Races) != 1 || res.Races[0] != "1" {
		t.Errorf("expired = %v, want [1]", res.Races)
	}
	if len(notifier.expired) != 1 {
		t.Errorf("expiry notifications = %d", len(notifier.expired))
	}
	if tr.Stats().Races != 1 {
		t.Errorf("races = %d, want 1", tr.Stats().Races)
	}
}

func TestReads_ReturnCopies(t *testing.T) {
	t.Parallel()

	tr, _, _ := newTestTracker(t, testConfig())
	apply(t, tr, upsert("A", "1", "1-0", 1, 10))

	race, _ := tr.Race("1")
	race.Participants[0].Name = "mutated"

	again, _ := tr.Race("1")
	if again.Participants[0].Name == "mutated" {
		t.Error("reads must not expose internal state")
	}
}

func TestRaces_SortedByID(t *testing.T) {
	t.Parallel()

	tr, _, _ := newTestTracker(t, testConfig())
	for _, id := range []models.RaceID{"10", "monza", "2"} {
		apply(t, tr, upsert("A", id, string(id)+"-0", 1, 10))
	}

	races := tr.Races()
	got := []models.RaceID{races[0].ID, races[1].ID, races[2].ID}
	want := []models.RaceID{"2", "10", "monza"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

// The race 7 walkthrough: two producers, a failover and a finalization.
func TestScenario_Race7(t *testing.T) {
	t.Parallel()

	tr, clock, _ := newTestTracker(t, testConfig())

	apply(t, tr, upsert("A", "7", "7-0", 1, 300))
	apply(t, tr, upsert("A", "7", "7-1", 2, 250))
	clock.Advance(2 * time.Second)
	if got := apply(t, tr, upsert("B", "7", "7-0", 1, 900)); got != OutcomeDropped {
		t.Fatalf("B inside window: %v", got)
	}

	lb, err := tr.Leaderboard("7")
	if err != nil {
		t.Fatal(err)
	}
	if lb.Leaderboard[0].Distance != "300.00" || lb.Leaderboard[0].Progress != "30.0" {
		t.Errorf("leader = %+v", lb.Leaderboard[0])
	}

	// A goes quiet; B takes over after the window and the view restarts
	clock.Advance(10 * time.Second)
	if got := apply(t, tr, upsert("B", "7", "7-0", 1, 950)); got != OutcomeApplied {
		t.Fatalf("B after window: %v", got)
	}
	race, _ := tr.Race("7")
	if race.TotalParticipants != 1 {
		t.Errorf("participants after failover = %d, want 1", race.TotalParticipants)
	}

	apply(t, tr, upsert("B", "7", "7-1", 2, 940))
	apply(t, tr, reset("B", "7"))

	results := tr.LastResults()
	if len(results) != 1 || len(results[0].Leaderboard) != 2 {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Leaderboard[0].Distance != "950.00" {
		t.Errorf("winner = %+v", results[0].Leaderboard[0])
	}
}

func TestTracker_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	tr, _, _ := newTestTracker(t, testConfig())
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				tr.Apply(ctx, upsert("A", models.RaceIDFromInt(int64(w)), fmt.Sprintf("%d-%d", w, i%10), i%10+1, float64(i)))
				if i%50 == 0 {
					tr.Apply(ctx, reset("A", models.RaceIDFromInt(int64(w))))
				}
			}
		}(w)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			tr.Races()
			tr.LastResults()
			tr.Sweep()
		}
	}()
	wg.Wait()

	if got := tr.Stats().Participants; got != 40 {
		t.Errorf("participants = %d, want 40", got)
	}
}
