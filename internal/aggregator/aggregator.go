package aggregator

import (
	"sort"

	"github.com/pable/go-scorekeeper/internal/model"
	"github.com/pable/go-scorekeeper/internal/scoring"
)

// BoyaahRule decides which entries of a match count as a Boyaah.
type BoyaahRule int

const (
	// BoyaahByPositionPoints: position points equal the rank-1 value (team flow).
	BoyaahByPositionPoints BoyaahRule = iota
	// BoyaahByMatchTop: the single entry with the strictly highest positive
	// points in the match (slot flow). Ties award nobody.
	BoyaahByMatchTop
)

// RuleFor returns the Boyaah rule each flow uses.
func RuleFor(flow model.Flow) BoyaahRule {
	if flow == model.FlowSlot {
		return BoyaahByMatchTop
	}
	return BoyaahByPositionPoints
}

// ScoreMatch writes the derived points into every entry of m.
func ScoreMatch[E model.Entry](m *model.Match[E], cfg model.ScoringConfig) {
	for _, e := range m.Entries {
		e.SetScore(scoring.Points(e.KillCount(), e.Placement(), cfg))
	}
}

// ScoreMatches re-derives points for a whole tournament in place.
func ScoreMatches[E model.Entry](matches []model.Match[E], cfg model.ScoringConfig) {
	for i := range matches {
		ScoreMatch(&matches[i], cfg)
	}
}

// Ranked pairs an entry with its display rank inside a match.
type Ranked[E model.Entry] struct {
	Rank  int
	Entry E
}

// RankEntries orders entries by points descending. The sort is stable, so
// exact ties keep entry order, and tied entries share a rank (1, 1, 3).
func RankEntries[E model.Entry](entries []E) []Ranked[E] {
	sorted := make([]E, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score() > sorted[j].Score()
	})

	out := make([]Ranked[E], len(sorted))
	for i, e := range sorted {
		rank := i + 1
		if i > 0 && e.Score() == sorted[i-1].Score() {
			rank = out[i-1].Rank
		}
		out[i] = Ranked[E]{Rank: rank, Entry: e}
	}
	return out
}

// MatchBoyaahs returns, by entry index, which entries of m are a Boyaah.
// Points are derived from raw inputs, not read from the entries.
func MatchBoyaahs[E model.Entry](m model.Match[E], cfg model.ScoringConfig, rule BoyaahRule) []bool {
	flags := make([]bool, len(m.Entries))
	switch rule {
	case BoyaahByMatchTop:
		best, bestIdx, tied := 0.0, -1, false
		for i, e := range m.Entries {
			pts := scoring.Points(e.KillCount(), e.Placement(), cfg)
			switch {
			case bestIdx == -1 || pts > best:
				best, bestIdx, tied = pts, i, false
			case pts == best:
				tied = true
			}
		}
		if bestIdx >= 0 && best > 0 && !tied {
			flags[bestIdx] = true
		}
	default:
		for i, e := range m.Entries {
			flags[i] = scoring.IsBoyaah(e.Placement(), cfg)
		}
	}
	return flags
}

// Standings folds matches into one row per team, ordered by total points
// descending. Everything is recomputed from raw kills and positions on every
// call, so the result never depends on previously stored points. Teams
// appear in first-seen order before sorting, and the sort is stable.
func Standings[E model.Entry](matches []model.Match[E], cfg model.ScoringConfig, rule BoyaahRule) []model.TeamStanding {
	index := make(map[string]int)
	var out []model.TeamStanding

	for _, m := range matches {
		boyaah := MatchBoyaahs(m, cfg, rule)
		for i, e := range m.Entries {
			name := e.TeamName()
			idx, ok := index[name]
			if !ok {
				idx = len(out)
				index[name] = idx
				out = append(out, model.TeamStanding{Team: name})
			}
			s := &out[idx]

			kills := e.KillCount()
			s.MatchesPlayed++
			s.TotalKills += kills
			s.TotalKillPoints += scoring.KillScore(kills, cfg)
			s.TotalPositionPoints += scoring.PositionPoints(e.Placement(), cfg)
			s.TotalPoints += scoring.Points(kills, e.Placement(), cfg)
			if boyaah[i] {
				s.BoyaahCount++
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPoints > out[j].TotalPoints
	})
	return out
}

// TeamStandings aggregates a team-flow tournament.
func TeamStandings(matches []model.TeamMatch, cfg model.ScoringConfig) []model.TeamStanding {
	return Standings(matches, cfg, RuleFor(model.FlowTeam))
}

// SlotStandings aggregates a slot-flow tournament.
func SlotStandings(matches []model.SlotMatch, cfg model.ScoringConfig) []model.TeamStanding {
	return Standings(matches, cfg, RuleFor(model.FlowSlot))
}

// FilterKind keeps matches of one kind. An empty kind keeps everything.
func FilterKind[E model.Entry](matches []model.Match[E], kind model.MatchKind) []model.Match[E] {
	if kind == "" {
		return matches
	}
	var out []model.Match[E]
	for _, m := range matches {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}
