// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package simulation

import "math/rand/v2"

// Profile describes how a participant drives. Speeds are km/h.
type Profile struct {
	Name string `json:"name"`

	// MinSpeed and MaxSpeed bound the random walk.
	MinSpeed float64 `json:"-"`
	MaxSpeed float64 `json:"-"`

	// StartMin and StartMax bound the initial speed.
	StartMin float64 `json:"-"`
	StartMax float64 `json:"-"`
}

// Built-in profiles. Balanced matches the classic 100..250 km/h band with a
// 150..200 km/h start.
var (
	ProfileBalanced  = Profile{Name: "balanced", MinSpeed: 100, MaxSpeed: 250, StartMin: 150, StartMax: 200}
	ProfileSprinter  = Profile{Name: "sprinter", MinSpeed: 110, MaxSpeed: 250, StartMin: 175, StartMax: 200}
	ProfileEndurance = Profile{Name: "endurance", MinSpeed: 120, MaxSpeed: 220, StartMin: 150, StartMax: 180}
)

var profiles = []Profile{ProfileBalanced, ProfileSprinter, ProfileEndurance}

// randomProfile picks one of the built-in profiles.
func randomProfile(rng *rand.Rand) Profile {
	return profiles[rng.IntN(len(profiles))]
}

// startSpeed draws the initial speed for p.
func (p Profile) startSpeed(rng *rand.Rand) float64 {
	return p.StartMin + rng.Float64()*(p.StartMax-p.StartMin)
}

func (p Profile) clamp(speed float64) float64 {
	if speed < p.MinSpeed {
		return p.MinSpeed
	}
	if speed > p.MaxSpeed {
		return p.MaxSpeed
	}
	return speed
}
