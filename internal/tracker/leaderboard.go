// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package tracker

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/tomtom215/racetrack/internal/models"
)

// BuildLeaderboard projects participants into leaderboard rows ordered by
// the producer-assigned position. Positions are trusted as sent; nothing is
// re-ranked here. detailed adds lap and profile, as archived snapshots do.
func BuildLeaderboard(participants []models.Participant, detailed bool) []models.LeaderboardEntry {
	sorted := make([]models.Participant, len(participants))
	copy(sorted, participants)
	sortByPosition(sorted)

	entries := make([]models.LeaderboardEntry, len(sorted))
	for i := range sorted {
		p := &sorted[i]
		entries[i] = models.LeaderboardEntry{
			Position: p.Position,
			Name:     p.Name,
			Distance: toFixed(p.Distance, 2),
			Speed:    toFixed(p.Speed, 2),
			Status:   p.Status,
			Progress: progress(p.Distance, p.TotalDistance),
			Lat:      p.Lat,
			Lon:      p.Lon,
		}
		if detailed {
			entries[i].Lap = p.Lap
			entries[i].Profile = p.Profile
		}
	}
	return entries
}

// progress is distance as a percentage of total with one decimal. A
// non-positive total yields "0.0".
func progress(distance, total float64) string {
	if total <= 0 {
		return "0.0"
	}
	return toFixed(distance/total*100, 1)
}

// toFixed formats x with the given number of decimals. Values exactly
// halfway between two candidates round away from zero; strconv would pick
// the even one. Everything else matches strconv's correctly rounded output.
func toFixed(x float64, decimals int) string {
	formatted := strconv.FormatFloat(x, 'f', decimals, 64)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return formatted
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	scaled := new(big.Rat).SetFloat64(math.Abs(x))
	scaled.Mul(scaled, new(big.Rat).SetInt(scale))

	// a tie is scaled = k + 1/2, i.e. 2*scaled is an odd integer
	doubled := new(big.Rat).Mul(scaled, big.NewRat(2, 1))
	if !doubled.IsInt() || doubled.Num().Bit(0) == 0 {
		return formatted
	}

	up := new(big.Int).Add(doubled.Num(), big.NewInt(1))
	up.Rsh(up, 1)

	digits := up.String()
	if decimals > 0 {
		if len(digits) <= decimals {
			digits = strings.Repeat("0", decimals-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-decimals] + "." + digits[len(digits)-decimals:]
	}
	if x < 0 {
		digits = "-" + digits
	}
	return digits
}
