// Package scoring turns raw kills and finishing positions into points.
package scoring

import "github.com/pable/go-scorekeeper/internal/model"

// TopPosition is the rank that counts as a Boyaah.
const TopPosition = 1

// boyaahByValue selects how a team-flow Boyaah is detected. When true an entry
// is a Boyaah if its position points equal whatever rank 1 is worth, so any
// other rank configured with the same value also qualifies. Set to false to
// detect by rank instead.
const boyaahByValue = true

// Points is the score of a single entry: kills × kill value + position points.
// Kills must already be non-negative.
func Points(kills int, position model.OptInt, cfg model.ScoringConfig) float64 {
	return float64(kills)*cfg.KillPoints + PositionPoints(position, cfg)
}

// PositionPoints is the placement part of the score. Unset, non-positive or
// unconfigured positions are worth nothing.
func PositionPoints(position model.OptInt, cfg model.ScoringConfig) float64 {
	if !position.Set || position.N <= 0 {
		return 0
	}
	return cfg.PositionPoints[position.N]
}

// KillScore is the kill part of the score.
func KillScore(kills int, cfg model.ScoringConfig) float64 {
	return float64(kills) * cfg.KillPoints
}

// IsTopPosition reports whether the position is first place.
func IsTopPosition(position model.OptInt) bool {
	return position.Set && position.N == TopPosition
}

// IsBoyaah reports whether a team-flow entry at this position counts as a
// Boyaah. Entries without a position never do, and nothing does while rank 1
// has no configured value.
func IsBoyaah(position model.OptInt, cfg model.ScoringConfig) bool {
	if !position.Set || position.N <= 0 {
		return false
	}
	if !boyaahByValue {
		return IsTopPosition(position)
	}
	top, ok := cfg.PositionPoints[TopPosition]
	if !ok {
		return false
	}
	pts, ok := cfg.PositionPoints[position.N]
	return ok && pts == top
}
