package aggregator

import (
	"sort"

	"github.com/pable/go-scorekeeper/internal/model"
)

// zeroKillFirstOnly pins the per-match MVP behaviour when nobody scored a
// kill: only the first player scanned is returned. Set to false to return
// every player instead.
const zeroKillFirstOnly = true

// MatchMVPs returns every player of the match tied for the most kills.
// Players are scanned team by team in entry order.
func MatchMVPs(m model.TeamMatch) []model.MVP {
	best := -1
	var all []model.MVP
	for _, e := range m.Entries {
		for _, p := range e.Players {
			k := p.Kills.Value()
			if k > best {
				best = k
			}
			all = append(all, mvpFrom(p, e.Team, k))
		}
	}
	if len(all) == 0 {
		return nil
	}
	if best == 0 && zeroKillFirstOnly {
		return all[:1]
	}

	var out []model.MVP
	for _, c := range all {
		if c.Kills == best {
			out = append(out, c)
		}
	}
	return out
}

type playerKey struct{ name, uid string }

// accumulate sums kills per (name, uid) in first-appearance order. Each record
// carries the team and in-game name seen most recently.
func accumulate(matches []model.TeamMatch) []model.MVP {
	index := make(map[playerKey]int)
	var totals []model.MVP
	for _, m := range matches {
		for _, e := range m.Entries {
			for _, p := range e.Players {
				key := playerKey{p.Name, p.UID}
				idx, ok := index[key]
				if !ok {
					idx = len(totals)
					index[key] = idx
					totals = append(totals, model.MVP{Name: p.Name, UID: p.UID})
				}
				t := &totals[idx]
				t.Kills += p.Kills.Value()
				t.Team = e.Team
				t.InGameName = p.InGameName
			}
		}
	}
	return totals
}

// TournamentMVPs returns every player tied for the highest kill total across
// all matches, in first-appearance order. No players means no MVPs.
func TournamentMVPs(matches []model.TeamMatch) []model.MVP {
	totals := accumulate(matches)
	if len(totals) == 0 {
		return nil
	}

	best := totals[0].Kills
	for _, t := range totals[1:] {
		if t.Kills > best {
			best = t.Kills
		}
	}
	var out []model.MVP
	for _, t := range totals {
		if t.Kills == best {
			out = append(out, t)
		}
	}
	return out
}

// PlayerTotals returns every player's accumulated kills, highest first.
func PlayerTotals(matches []model.TeamMatch) []model.MVP {
	totals := accumulate(matches)
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Kills > totals[j].Kills
	})
	return totals
}

func mvpFrom(p model.Player, team string, kills int) model.MVP {
	return model.MVP{Name: p.Name, UID: p.UID, InGameName: p.InGameName, Team: team, Kills: kills}
}
