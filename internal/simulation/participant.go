// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package simulation

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/racetrack/internal/course"
	"github.com/tomtom215/racetrack/internal/models"
)

// MaxSpeedStep is the largest speed change per tick in km/h.
const MaxSpeedStep = 5.0

// Participant is one simulated competitor.
type Participant struct {
	ID            string
	Name          string
	Position      int
	Speed         float64
	Distance      float64
	TotalDistance float64
	Lap           int
	TotalLaps     int
	Status        models.ParticipantStatus
	Profile       Profile
	Skill         float64
	Lat           float64
	Lon           float64

	course *course.Course
}

// NewParticipant places a participant on the start line.
func NewParticipant(id, name string, position, laps int, c *course.Course, profile Profile, rng *rand.Rand) *Participant {
	start := c.Start()
	return &Participant{
		ID:            id,
		Name:          name,
		Position:      position,
		Speed:         profile.startSpeed(rng),
		TotalDistance: float64(laps) * c.Length(),
		Lap:           1,
		TotalLaps:     laps,
		Status:        models.StatusRunning,
		Profile:       profile,
		Skill:         math.Round(rng.Float64()*100) / 100,
		Lat:           start.Lat,
		Lon:           start.Lon,
		course:        c,
	}
}

// Finished reports whether the participant crossed the finish line.
func (p *Participant) Finished() bool {
	return p.Status == models.StatusFinished
}

// Advance moves a running participant forward by dt. Finished participants
// do not move.
func (p *Participant) Advance(dt time.Duration, rng *rand.Rand) {
	if p.Finished() {
		return
	}

	p.Distance += p.Speed / 3.6 * dt.Seconds()
	p.Speed = p.Profile.clamp(p.Speed + (rng.Float64()*2-1)*MaxSpeedStep)

	if p.Distance >= p.TotalDistance {
		p.MarkFinished()
		return
	}

	p.Lap = int(p.Distance/p.course.Length()) + 1
	if p.Lap > p.TotalLaps {
		p.Lap = p.TotalLaps
	}
	pos := p.course.PositionAt(p.Distance)
	p.Lat, p.Lon = pos.Lat, pos.Lon
}

// MarkFinished forces the finished state, clamping distance and pinning
// the participant to the finish waypoint.
func (p *Participant) MarkFinished() {
	p.Status = models.StatusFinished
	p.Distance = p.TotalDistance
	p.Lap = p.TotalLaps
	finish := p.course.Finish()
	p.Lat, p.Lon = finish.Lat, finish.Lon
}

// Event renders the participant in wire format.
func (p *Participant) Event(raceID models.RaceID, producerID string, now time.Time) models.RaceEvent {
	profile, _ := json.Marshal(p.Profile.Name)
	skill, _ := json.Marshal(p.Skill)
	return models.RaceEvent{
		ID:            p.ID,
		RaceID:        raceID,
		ProducerID:    producerID,
		Name:          p.Name,
		Position:      p.Position,
		Speed:         p.Speed,
		Distance:      p.Distance,
		TotalDistance: p.TotalDistance,
		Lap:           p.Lap,
		TotalLaps:     p.TotalLaps,
		Status:        p.Status,
		Profile:       profile,
		Skill:         skill,
		Lat:           p.Lat,
		Lon:           p.Lon,
		Timestamp:     now.UnixMilli(),
	}
}
