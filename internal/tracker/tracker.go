// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/racetrack/internal/logging"
	"github.com/tomtom215/racetrack/internal/metrics"
	"github.com/tomtom215/racetrack/internal/models"
)

// ErrRaceNotFound is returned by read methods for unknown or expired races.
var ErrRaceNotFound = errors.New("race not found")

// Config holds the retention and arbitration windows.
type Config struct {
	RaceTTL time.Duration

	// ParticipantTTL defaults to RaceTTL when zero.
	ParticipantTTL time.Duration

	ResultsTTL time.Duration

	// ResultsMax bounds the archive size; zero means unbounded.
	ResultsMax int

	FailoverWindow time.Duration
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.RaceTTL <= 0 {
		return errors.New("race TTL must be positive")
	}
	if c.ParticipantTTL < 0 {
		return errors.New("participant TTL must not be negative")
	}
	if c.ResultsTTL <= 0 {
		return errors.New("results TTL must be positive")
	}
	if c.ResultsMax < 0 {
		return errors.New("results max must not be negative")
	}
	if c.FailoverWindow <= 0 {
		return errors.New("failover window must be positive")
	}
	return nil
}

func (c *Config) participantTTL() time.Duration {
	if c.ParticipantTTL == 0 {
		return c.RaceTTL
	}
	return c.ParticipantTTL
}

// Outcome describes what Apply did with an event.
type Outcome int

const (
	// OutcomeApplied: the participant was upserted.
	OutcomeApplied Outcome = iota
	// OutcomeDropped: the sender is not the authoritative producer.
	OutcomeDropped
	// OutcomeFinalized: a reset archived the race.
	OutcomeFinalized
	// OutcomeUnknownRace: a reset arrived for a race with no data.
	OutcomeUnknownRace
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeDropped:
		return "dropped"
	case OutcomeFinalized:
		return "finalized"
	case OutcomeUnknownRace:
		return "unknown_race"
	default:
		return "unknown"
	}
}

// ProducerChange describes an arbitration transition.
type ProducerChange struct {
	Reason   string    `json:"reason"` // acquired, failover, disconnect, silence
	Producer string    `json:"producer,omitempty"`
	Previous string    `json:"previous,omitempty"`
	At       time.Time `json:"at"`
}

// Notifier receives lifecycle notifications. Calls happen after the
// tracker lock is released and must not block.
type Notifier interface {
	RaceFinalized(snapshot models.ResultSnapshot)
	ProducerChanged(change ProducerChange)
	RaceExpired(raceID models.RaceID)
}

type nopNotifier struct{}

func (nopNotifier) RaceFinalized(models.ResultSnapshot) {}
func (nopNotifier) ProducerChanged(ProducerChange)      {}
func (nopNotifier) RaceExpired(models.RaceID)           {}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithNotifier sets the lifecycle notifier.
func WithNotifier(n Notifier) Option {
	return func(t *Tracker) {
		if n != nil {
			t.notifier = n
		}
	}
}

// Tracker owns the view store, the results archive and the arbiter. Every
// mutation happens under one write lock so that arbitration and the upsert
// it authorizes are atomic; reads take the read lock and return copies.
type Tracker struct {
	mu      sync.RWMutex
	cfg     Config
	arbiter *Arbiter
	view    *viewStore
	archive *Archive

	now      func() time.Time
	notifier Notifier
	events   *logging.EventLogger
}

// New creates a Tracker.
func New(cfg Config, opts ...Option) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tracker config: %w", err)
	}
	t := &Tracker{
		cfg:      cfg,
		arbiter:  NewArbiter(cfg.FailoverWindow),
		view:     newViewStore(),
		archive:  NewArchive(cfg.ResultsTTL, cfg.ResultsMax),
		now:      time.Now,
		notifier: nopNotifier{},
		events:   logging.NewEventLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Config returns the tracker configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Apply runs a validated event through finalization, arbitration and
// upsert. Timestamps are receipt time.
func (t *Tracker) Apply(ctx context.Context, evt *models.RaceEvent) Outcome {
	if evt.IsReset() {
		return t.finalize(ctx, evt.RaceID)
	}

	now := t.now()

	t.mu.Lock()
	decision, previous := t.arbiter.Observe(evt.ProducerID, now)
	if !decision.Authoritative() {
		t.mu.Unlock()
		return OutcomeDropped
	}
	if decision == DecisionFailedOver {
		t.view.wipe()
	}
	p := models.ParticipantFromEvent(evt, now)
	t.view.upsert(&p, now)
	races, participants := t.view.counts()
	t.mu.Unlock()

	metrics.RecordViewSize(races, participants)

	switch decision {
	case DecisionAcquired:
		t.events.LogProducerAcquired(ctx, evt.ProducerID)
		t.producerChanged(ProducerChange{Reason: "acquired", Producer: evt.ProducerID, At: now})
	case DecisionFailedOver:
		t.events.LogProducerFailover(ctx, previous, evt.ProducerID, t.cfg.FailoverWindow)
		t.producerChanged(ProducerChange{Reason: "failover", Producer: evt.ProducerID, Previous: previous, At: now})
	}
	return OutcomeApplied
}

// finalize archives the leaderboard of a race and marks everyone finished.
// It bypasses arbitration. A race past its TTL is unknown even before the
// sweeper removes it.
func (t *Tracker) finalize(ctx context.Context, raceID models.RaceID) Outcome {
	now := t.now()

	t.mu.Lock()
	race, ok := t.visibleRace(raceID, now)
	if !ok || len(race.participants) == 0 {
		t.mu.Unlock()
		return OutcomeUnknownRace
	}

	all := make([]models.Participant, 0, len(race.participants))
	for _, p := range race.participants {
		all = append(all, *p)
	}
	snapshot := models.ResultSnapshot{
		RaceID:      raceID,
		FinishedAt:  now.UnixMilli(),
		Leaderboard: BuildLeaderboard(all, true),
	}
	t.archive.File(snapshot)

	// The roster stays visible for a grace period of one race TTL.
	for _, p := range race.participants {
		p.Status = models.StatusFinished
		p.LastSeen = now
	}
	race.lastSeen = now
	retained := t.archive.Len()
	t.mu.Unlock()

	metrics.RecordResultArchived(retained)
	t.events.LogRaceFinalized(ctx, raceID.String(), len(all))
	t.notifier.RaceFinalized(cloneSnapshot(snapshot))
	return OutcomeFinalized
}

// ReleaseProducer clears the active producer without touching the view,
// as on a transport disconnect.
func (t *Tracker) ReleaseProducer(reason string) {
	t.mu.Lock()
	released, ok := t.arbiter.Release()
	t.mu.Unlock()

	if !ok {
		metrics.SetProducerPresent(false)
		return
	}
	t.events.LogProducerReleased(released, reason)
	t.producerChanged(ProducerChange{Reason: reason, Previous: released, At: t.now()})
}

func (t *Tracker) producerChanged(change ProducerChange) {
	metrics.RecordProducerChange(change.Reason, change.Producer != "")
	t.notifier.ProducerChanged(change)
}

// SweepResult reports what one sweep removed.
type SweepResult struct {
	Races            []models.RaceID
	Participants     int
	Results          int
	ReleasedProducer string
	Wiped            int
}

// Sweep expires stale races, participants and results and releases a
// silent producer, wiping the view when it does.
func (t *Tracker) Sweep() SweepResult {
	start := time.Now()
	now := t.now()

	t.mu.Lock()
	var res SweepResult
	res.Races, res.Participants = t.view.expire(now, t.cfg.RaceTTL, t.cfg.participantTTL())
	res.Results = t.archive.Expire(now)
	if released, ok := t.arbiter.CheckLiveness(now); ok {
		res.ReleasedProducer = released
		res.Wiped = t.view.wipe()
	}
	races, participants := t.view.counts()
	retained := t.archive.Len()
	t.mu.Unlock()

	metrics.RecordExpired("race", len(res.Races))
	metrics.RecordExpired("participant", res.Participants)
	metrics.RecordExpired("result", res.Results)
	metrics.RecordViewSize(races, participants)
	metrics.RecordSweep(time.Since(start), retained)

	for _, id := range res.Races {
		t.notifier.RaceExpired(id)
	}
	if res.ReleasedProducer != "" {
		t.events.LogProducerReleased(res.ReleasedProducer, "silence")
		t.producerChanged(ProducerChange{Reason: "silence", Previous: res.ReleasedProducer, At: now})
	}
	return res
}

// Races returns every visible race ordered by race id.
func (t *Tracker) Races() []models.RaceView {
	now := t.now()

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.RaceView, 0, len(t.view.races))
	for _, race := range t.view.races {
		if now.Sub(race.lastSeen) > t.cfg.RaceTTL {
			continue
		}
		out = append(out, t.raceView(race, now))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Less(out[j].ID) })
	return out
}

// Race returns one visible race.
func (t *Tracker) Race(id models.RaceID) (models.RaceView, error) {
	now := t.now()

	t.mu.RLock()
	defer t.mu.RUnlock()

	race, ok := t.visibleRace(id, now)
	if !ok {
		return models.RaceView{}, ErrRaceNotFound
	}
	return t.raceView(race, now), nil
}

// Leaderboard returns the live leaderboard of one visible race.
func (t *Tracker) Leaderboard(id models.RaceID) (models.Leaderboard, error) {
	now := t.now()

	t.mu.RLock()
	defer t.mu.RUnlock()

	race, ok := t.visibleRace(id, now)
	if !ok {
		return models.Leaderboard{}, ErrRaceNotFound
	}
	participants := race.visibleParticipants(now, t.cfg.participantTTL())
	return models.Leaderboard{RaceID: id, Leaderboard: BuildLeaderboard(participants, false)}, nil
}

// LastResults returns archived snapshots within the results TTL, newest first.
func (t *Tracker) LastResults() []models.ResultSnapshot {
	now := t.now()

	t.mu.RLock()
	recent := t.archive.Recent(now)
	t.mu.RUnlock()

	for i := range recent {
		recent[i] = cloneSnapshot(recent[i])
	}
	return recent
}

// Stats summarizes the tracker state.
func (t *Tracker) Stats() models.TrackerStats {
	now := t.now()

	t.mu.RLock()
	defer t.mu.RUnlock()

	races, participants := t.view.counts()
	status := models.ProducerStatus{
		State:     t.arbiter.State(now).String(),
		Failovers: t.arbiter.Failovers(),
	}
	if pid, lastSeen, ok := t.arbiter.Active(); ok {
		status.ActiveProducer = pid
		status.LastSeen = lastSeen.UnixMilli()
	}
	return models.TrackerStats{
		Producer:        status,
		Races:           races,
		Participants:    participants,
		ArchivedResults: t.archive.Len(),
	}
}

// ProducerState returns the arbiter state as of now.
func (t *Tracker) ProducerState() ProducerState {
	now := t.now()
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.arbiter.State(now)
}

// Sweeper returns the expiry service bound to this tracker.
func (t *Tracker) Sweeper() *Sweeper {
	return NewSweeper(t, SweepInterval(t.cfg.RaceTTL))
}

// visibleRace must be called with the lock held.
func (t *Tracker) visibleRace(id models.RaceID, now time.Time) (*raceEntry, bool) {
	race, ok := t.view.race(id)
	if !ok || now.Sub(race.lastSeen) > t.cfg.RaceTTL {
		return nil, false
	}
	return race, true
}

// raceView must be called with the lock held.
func (t *Tracker) raceView(race *raceEntry, now time.Time) models.RaceView {
	participants := race.visibleParticipants(now, t.cfg.participantTTL())
	return models.RaceView{
		ID:                race.id,
		Participants:      participants,
		TotalParticipants: len(participants),
	}
}

func cloneSnapshot(s models.ResultSnapshot) models.ResultSnapshot {
	s.Leaderboard = append([]models.LeaderboardEntry(nil), s.Leaderboard...)
	if s.Leaderboard == nil {
		s.Leaderboard = []models.LeaderboardEntry{}
	}
	return s
}
