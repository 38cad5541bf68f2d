package model

import (
	"fmt"
	"strconv"
	"time"
)

// Flow is the entry shape a tournament uses. A tournament never mixes flows.
type Flow string

const (
	FlowTeam Flow = "team" // teams register players, kills entered per player
	FlowSlot Flow = "slot" // fixed slot per team, kills entered once per team
)

// ParseFlow converts a CLI/config string into a Flow.
func ParseFlow(s string) (Flow, error) {
	switch Flow(s) {
	case FlowTeam, FlowSlot:
		return Flow(s), nil
	default:
		return "", fmt.Errorf("unknown flow %q (want team or slot)", s)
	}
}

// MatchKind separates the semifinal stage from the final stage.
type MatchKind string

const (
	KindSemifinal MatchKind = "semifinal"
	KindFinal     MatchKind = "final"
)

// ParseMatchKind converts a CLI/config string into a MatchKind.
func ParseMatchKind(s string) (MatchKind, error) {
	switch MatchKind(s) {
	case KindSemifinal, KindFinal:
		return MatchKind(s), nil
	default:
		return "", fmt.Errorf("unknown match kind %q (want semifinal or final)", s)
	}
}

// ---- Scoring configuration ----

// ScoringConfig holds the points awarded per kill and per finishing position.
// It is shared read-only by every match of a tournament.
type ScoringConfig struct {
	KillPoints     float64         `yaml:"kill_points" json:"kill_points"`
	PositionPoints map[int]float64 `yaml:"position_points" json:"position_points"`
}

// DefaultScoringConfig returns the stock scheme: one point per kill, ranks 1–12.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		KillPoints: 1,
		PositionPoints: map[int]float64{
			1: 12, 2: 9, 3: 8, 4: 7, 5: 6, 6: 5,
			7: 4, 8: 3, 9: 2, 10: 1, 11: 0, 12: 0,
		},
	}
}

// Validate rejects negative point values and non-positive ranks.
func (c ScoringConfig) Validate() error {
	if c.KillPoints < 0 {
		return fmt.Errorf("kill points must be >= 0, got %v", c.KillPoints)
	}
	for rank, pts := range c.PositionPoints {
		if rank < 1 {
			return fmt.Errorf("position %d: ranks start at 1", rank)
		}
		if pts < 0 {
			return fmt.Errorf("position %d: points must be >= 0, got %v", rank, pts)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can edit the position table safely.
func (c ScoringConfig) Clone() ScoringConfig {
	out := ScoringConfig{KillPoints: c.KillPoints, PositionPoints: make(map[int]float64, len(c.PositionPoints))}
	for k, v := range c.PositionPoints {
		out.PositionPoints[k] = v
	}
	return out
}

// ---- Match entries ----

// Player is one roster member of a team-flow entry.
type Player struct {
	Name       string `yaml:"name" json:"name"`
	UID        string `yaml:"uid" json:"uid"`
	InGameName string `yaml:"ign" json:"ign"`
	Kills      OptInt `yaml:"kills" json:"kills"`
}

// Entry is the capability both flows share: something with a team name,
// a kill total, a finishing position and a derived score.
type Entry interface {
	TeamName() string
	KillCount() int
	Placement() OptInt
	Score() float64
	SetScore(points float64)
}

// TeamEntry is one team's line in a team-flow match.
type TeamEntry struct {
	Team     string   `yaml:"team" json:"team"`
	Players  []Player `yaml:"players" json:"players"`
	Position OptInt   `yaml:"position" json:"position"`
	Points   float64  `yaml:"-" json:"points"`
}

func (e *TeamEntry) TeamName() string { return e.Team }

// KillCount sums player kills; unset kills count as zero.
func (e *TeamEntry) KillCount() int {
	total := 0
	for _, p := range e.Players {
		total += p.Kills.Value()
	}
	return total
}

func (e *TeamEntry) Placement() OptInt  { return e.Position }
func (e *TeamEntry) Score() float64     { return e.Points }
func (e *TeamEntry) SetScore(p float64) { e.Points = p }

// SlotEntry is one team's line in a slot-flow match. Kills are entered once
// for the whole team.
type SlotEntry struct {
	Slot     int     `yaml:"slot" json:"slot"`
	Team     string  `yaml:"team" json:"team"`
	Kills    OptInt  `yaml:"kills" json:"kills"`
	Position OptInt  `yaml:"position" json:"position"`
	Points   float64 `yaml:"-" json:"points"`
}

func (e *SlotEntry) TeamName() string {
	if e.Team == "" {
		return "Slot " + strconv.Itoa(e.Slot)
	}
	return e.Team
}

func (e *SlotEntry) KillCount() int     { return e.Kills.Value() }
func (e *SlotEntry) Placement() OptInt  { return e.Position }
func (e *SlotEntry) Score() float64     { return e.Points }
func (e *SlotEntry) SetScore(p float64) { e.Points = p }

// Match is one game of the tournament. Entries are homogeneous per flow.
// Number is for display and grouping only and need not be unique.
type Match[E Entry] struct {
	ID      string    `yaml:"-" json:"id"`
	Kind    MatchKind `yaml:"kind" json:"kind"`
	Number  int       `yaml:"number" json:"number"`
	Entries []E       `yaml:"entries" json:"entries"`
}

type (
	TeamMatch = Match[*TeamEntry]
	SlotMatch = Match[*SlotEntry]
)

// ---- Registries ----

// Team is a registered team-flow roster.
type Team struct {
	Name    string   `yaml:"name" json:"name"`
	Players []Player `yaml:"players" json:"players"`
}

// Slot maps a fixed slot number to a team name (slot flow).
type Slot struct {
	Number int    `yaml:"slot" json:"slot"`
	Team   string `yaml:"team" json:"team"`
}

// ---- Derived results ----

// TeamStanding is a pure projection over matches and config; never stored.
type TeamStanding struct {
	Team                string  `json:"team"`
	MatchesPlayed       int     `json:"matches_played"`
	TotalKills          int     `json:"total_kills"`
	TotalPoints         float64 `json:"total_points"`
	TotalKillPoints     float64 `json:"total_kill_points"`
	TotalPositionPoints float64 `json:"total_position_points"`
	BoyaahCount         int     `json:"boyaah_count"`
}

func (s *TeamStanding) AveragePoints() float64 {
	if s.MatchesPlayed == 0 {
		return 0
	}
	return s.TotalPoints / float64(s.MatchesPlayed)
}

// MVP is a player record for per-match or tournament-wide awards.
type MVP struct {
	Name       string `json:"name"`
	UID        string `json:"uid"`
	InGameName string `json:"ign"`
	Team       string `json:"team"`
	Kills      int    `json:"kills"`
}

// DisplayName prefers the in-game name.
func (m MVP) DisplayName() string {
	if m.InGameName != "" {
		return m.InGameName
	}
	return m.Name
}

// MatchSummary is a lightweight record for list commands.
type MatchSummary struct {
	Index   int // 1-based position in the tournament
	ID      string
	Kind    MatchKind
	Number  int
	Entries int
}

// ---- Archive ----

// ArchivedTournament is the final standings of a finished tournament, kept
// after its matches are cleared.
type ArchivedTournament struct {
	Index     int            `json:"-"` // 1-based position in the archive
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Flow      Flow           `json:"flow"`
	SavedAt   time.Time      `json:"saved_at"`
	Matches   int            `json:"matches"`
	Standings []TeamStanding `json:"standings"`
}
