// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package ingest

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/racetrack/internal/cache"
	"github.com/tomtom215/racetrack/internal/logging"
	"github.com/tomtom215/racetrack/internal/metrics"
	"github.com/tomtom215/racetrack/internal/models"
	"github.com/tomtom215/racetrack/internal/tracker"
)

// Outcome tells the transport what to do with a message.
type Outcome int

const (
	// Ack: the message was handled, possibly by intentionally dropping it.
	Ack Outcome = iota
	// Reject: the payload is malformed and must not be redelivered.
	Reject
)

func (o Outcome) String() string {
	if o == Reject {
		return "reject"
	}
	return "ack"
}

// Tracker is the part of tracker.Tracker the pipeline drives.
type Tracker interface {
	Apply(ctx context.Context, evt *models.RaceEvent) tracker.Outcome
	ReleaseProducer(reason string)
}

// Config holds pipeline settings.
type Config struct {
	// AllowedProducers restricts accepted producer ids. Empty allows all.
	AllowedProducers []string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock replaces time.Now for rate windows.
func WithClock(now cache.Clock) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithDropLogLimit sets how many drop log lines per second are emitted.
func WithDropLogLimit(perSecond float64, burst int) Option {
	return func(p *Pipeline) { p.dropLog = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// Pipeline is the ingestion entry point for raw messages.
type Pipeline struct {
	tracker Tracker
	allowed map[string]struct{}
	events  *logging.EventLogger
	dropLog *rate.Limiter
	now     cache.Clock

	received    *cache.SlidingWindowCounter
	perProducer *cache.SlidingWindowStore
	connected   atomic.Bool
}

const (
	rateWindow  = time.Minute
	rateBuckets = 12
	maxTracked  = 64
)

// NewPipeline creates a pipeline feeding t.
func NewPipeline(t Tracker, cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		tracker: t,
		events:  logging.NewEventLogger(),
		dropLog: rate.NewLimiter(rate.Every(time.Second), 5),
		now:     time.Now,
	}
	if len(cfg.AllowedProducers) > 0 {
		p.allowed = make(map[string]struct{}, len(cfg.AllowedProducers))
		for _, id := range cfg.AllowedProducers {
			if id = strings.TrimSpace(id); id != "" {
				p.allowed[id] = struct{}{}
			}
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	p.received = cache.NewSlidingWindowCounter(rateWindow, rateBuckets, p.now)
	p.perProducer = cache.NewSlidingWindowStore(rateWindow, rateBuckets, maxTracked, p.now)
	return p
}

// OnEvent processes one raw message. The error explains a Reject.
func (p *Pipeline) OnEvent(ctx context.Context, raw []byte) (Outcome, error) {
	start := time.Now()

	evt, err := models.DecodeRaceEvent(raw)
	if err != nil {
		reason := metrics.ReasonValidation
		if errors.Is(err, models.ErrUndecodableEvent) {
			reason = metrics.ReasonDecode
		}
		return p.reject(ctx, reason, err)
	}

	p.received.Increment(1)
	p.perProducer.Increment(evt.ProducerID)

	if !p.producerAllowed(evt.ProducerID) {
		p.drop(ctx, evt, metrics.ReasonUnauthorizedProducer)
		return Ack, nil
	}

	switch p.tracker.Apply(ctx, evt) {
	case tracker.OutcomeDropped:
		p.drop(ctx, evt, metrics.ReasonNonActiveProducer)
	case tracker.OutcomeUnknownRace:
		p.drop(ctx, evt, metrics.ReasonUnknownRace)
	default:
		metrics.RecordMessageProcessed(time.Since(start))
	}
	return Ack, nil
}

func (p *Pipeline) producerAllowed(id string) bool {
	if p.allowed == nil {
		return true
	}
	_, ok := p.allowed[id]
	return ok
}

func (p *Pipeline) reject(ctx context.Context, reason string, err error) (Outcome, error) {
	metrics.RecordMessageRejected(reason)
	p.events.LogEventRejected(ctx, reason, err)
	return Reject, err
}

func (p *Pipeline) drop(ctx context.Context, evt *models.RaceEvent, reason string) {
	metrics.RecordMessageDropped(reason)
	if p.dropLog.Allow() {
		p.events.LogEventDropped(ctx, evt.ProducerID, evt.RaceID.String(), reason)
	}
}

// OnConnect records the transport coming up.
func (p *Pipeline) OnConnect() {
	if !p.connected.Swap(true) {
		metrics.RecordTransportState(true)
	}
}

// OnDisconnect releases the active producer without touching the view.
func (p *Pipeline) OnDisconnect() {
	if p.connected.Swap(false) {
		metrics.RecordTransportState(false)
	}
	p.tracker.ReleaseProducer("disconnect")
}

// Connected reports the last known transport state.
func (p *Pipeline) Connected() bool {
	return p.connected.Load()
}

// EventsLastMinute returns the number of well-formed events received over
// the trailing minute, including dropped ones.
func (p *Pipeline) EventsLastMinute() int64 {
	return p.received.Count()
}

// ProducerRates returns per-producer event counts over the trailing minute.
func (p *Pipeline) ProducerRates() map[string]int64 {
	p.perProducer.CleanupInactive()
	return p.perProducer.Snapshot()
}
