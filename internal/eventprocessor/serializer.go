// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package eventprocessor

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/racetrack/internal/models"
)

// Serializer handles race event encoding for NATS messages.
type Serializer struct{}

// NewSerializer creates a new serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Marshal validates evt and encodes it as JSON.
func (s *Serializer) Marshal(evt *models.RaceEvent) ([]byte, error) {
	if err := evt.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates a payload.
func (s *Serializer) Unmarshal(data []byte) (*models.RaceEvent, error) {
	return models.DecodeRaceEvent(data)
}
