// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package models

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/racetrack/internal/validation"
)

// ParticipantStatus is the lifecycle state of a participant.
type ParticipantStatus string

const (
	StatusRunning  ParticipantStatus = "running"
	StatusFinished ParticipantStatus = "finished"
)

// EventTypeReset marks a terminal event: the producer considers the race
// over and is about to restart it.
const EventTypeReset = "reset"

// UnknownProducer is substituted when an event carries no producerId.
const UnknownProducer = "unknown"

// ErrMalformedEvent wraps every decode or validation failure.
var ErrMalformedEvent = errors.New("malformed race event")

// ErrUndecodableEvent marks a payload that is not a JSON race event at all,
// as opposed to one that decodes but fails validation. It always comes
// wrapped together with ErrMalformedEvent.
var ErrUndecodableEvent = errors.New("undecodable payload")

// RaceEvent is one telemetry message. Upsert events describe a single
// participant; reset events only need raceId.
type RaceEvent struct {
	ID            string            `json:"id" validate:"required_unless=EventType reset"`
	RaceID        RaceID            `json:"raceId" validate:"required"`
	ProducerID    string            `json:"producerId,omitempty"`
	EventType     string            `json:"eventType,omitempty" validate:"omitempty,oneof=reset"`
	Name          string            `json:"name"`
	Position      int               `json:"position" validate:"gte=0"`
	Speed         float64           `json:"speed"`
	Distance      float64           `json:"distance"`
	TotalDistance float64           `json:"totalDistance"`
	Lap           int               `json:"lap,omitempty"`
	TotalLaps     int               `json:"totalLaps,omitempty"`
	Status        ParticipantStatus `json:"status,omitempty" validate:"omitempty,oneof=running finished"`
	Profile       json.RawMessage   `json:"profile,omitempty"`
	Skill         json.RawMessage   `json:"skill,omitempty"`
	Lat           float64           `json:"lat" validate:"latitude"`
	Lon           float64           `json:"lon" validate:"longitude"`
	Timestamp     int64             `json:"timestamp"`
}

// IsReset reports whether the event is terminal for its race.
func (e *RaceEvent) IsReset() bool {
	return e.EventType == EventTypeReset
}

// Validate checks the event against the wire schema.
func (e *RaceEvent) Validate() error {
	if verr := validation.ValidateStruct(e); verr != nil {
		return fmt.Errorf("%w: %s", ErrMalformedEvent, verr.Error())
	}
	if !e.IsReset() && e.Status == "" {
		return fmt.Errorf("%w: status is required", ErrMalformedEvent)
	}
	return nil
}

// DecodeRaceEvent parses and validates one message payload. A missing
// producer id is replaced with UnknownProducer.
func DecodeRaceEvent(payload []byte) (*RaceEvent, error) {
	var evt RaceEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrMalformedEvent, ErrUndecodableEvent, err)
	}
	if err := evt.Validate(); err != nil {
		return nil, err
	}
	if evt.ProducerID == "" {
		evt.ProducerID = UnknownProducer
	}
	return &evt, nil
}
