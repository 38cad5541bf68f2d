// Package export renders a tournament snapshot as a JSON document, an XLSX
// workbook or a PNG points chart.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pable/go-scorekeeper/internal/aggregator"
	"github.com/pable/go-scorekeeper/internal/model"
)

// Snapshot is everything an export needs, computed once by the caller.
// Exactly one of TeamMatches and SlotMatches is populated, matching Flow.
type Snapshot struct {
	Name        string
	Flow        model.Flow
	Kind        model.MatchKind // empty means all matches
	GeneratedAt time.Time
	Config      model.ScoringConfig
	Standings   []model.TeamStanding
	MVPs        []model.MVP
	TeamMatches []model.TeamMatch
	SlotMatches []model.SlotMatch
}

// document is the top-level JSON schema.
type document struct {
	Name        string              `json:"name"`
	Flow        model.Flow          `json:"flow"`
	Kind        string              `json:"kind"`
	GeneratedAt string              `json:"generated_at"`
	Scoring     model.ScoringConfig `json:"scoring"`
	Standings   []standingRow       `json:"standings"`
	MVPs        []model.MVP         `json:"mvps"`
	Matches     []matchDoc          `json:"matches"`
}

type standingRow struct {
	Rank int `json:"rank"`
	model.TeamStanding
	AveragePoints float64 `json:"average_points"`
}

type matchDoc struct {
	ID      string      `json:"id"`
	Kind    string      `json:"kind"`
	Number  int         `json:"number"`
	Entries []entryDoc  `json:"entries"`
	MVPs    []model.MVP `json:"mvps,omitempty"`
}

// entryDoc flattens both entry shapes. Slot is zero and Players empty in
// the team and slot flows respectively.
type entryDoc struct {
	Rank     int            `json:"rank"`
	Slot     int            `json:"slot,omitempty"`
	Team     string         `json:"team"`
	Kills    int            `json:"kills"`
	Position model.OptInt   `json:"position"`
	Points   float64        `json:"points"`
	Boyaah   bool           `json:"boyaah"`
	Players  []model.Player `json:"players,omitempty"`
}

// WriteJSON writes snap as an indented JSON document.
func WriteJSON(w io.Writer, snap Snapshot) error {
	doc := document{
		Name:        snap.Name,
		Flow:        snap.Flow,
		Kind:        kindLabel(snap.Kind),
		GeneratedAt: snap.GeneratedAt.UTC().Format(time.RFC3339),
		Scoring:     snap.Config,
		MVPs:        snap.MVPs,
		Standings:   make([]standingRow, len(snap.Standings)),
		Matches:     []matchDoc{},
	}
	if doc.MVPs == nil {
		doc.MVPs = []model.MVP{}
	}
	for i := range snap.Standings {
		s := snap.Standings[i]
		doc.Standings[i] = standingRow{Rank: i + 1, TeamStanding: s, AveragePoints: s.AveragePoints()}
	}

	for _, m := range snap.TeamMatches {
		md := matchDoc{ID: m.ID, Kind: string(m.Kind), Number: m.Number, MVPs: aggregator.MatchMVPs(m)}
		flags := aggregator.MatchBoyaahs(m, snap.Config, aggregator.RuleFor(snap.Flow))
		for _, r := range rankWithFlags(m.Entries, flags) {
			e := r.entry
			md.Entries = append(md.Entries, entryDoc{
				Rank: r.rank, Team: e.Team, Kills: e.KillCount(), Position: e.Position,
				Points: e.Points, Boyaah: r.boyaah, Players: e.Players,
			})
		}
		doc.Matches = append(doc.Matches, md)
	}
	for _, m := range snap.SlotMatches {
		md := matchDoc{ID: m.ID, Kind: string(m.Kind), Number: m.Number}
		flags := aggregator.MatchBoyaahs(m, snap.Config, aggregator.RuleFor(snap.Flow))
		for _, r := range rankWithFlags(m.Entries, flags) {
			e := r.entry
			md.Entries = append(md.Entries, entryDoc{
				Rank: r.rank, Slot: e.Slot, Team: e.TeamName(), Kills: e.KillCount(),
				Position: e.Position, Points: e.Points, Boyaah: r.boyaah,
			})
		}
		doc.Matches = append(doc.Matches, md)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

type flaggedEntry[E model.Entry] struct {
	rank   int
	entry  E
	boyaah bool
}

// indexedEntry remembers an entry's original position through ranking.
type indexedEntry[E model.Entry] struct {
	Entry E
	idx   int
}

func (x *indexedEntry[E]) TeamName() string        { return x.Entry.TeamName() }
func (x *indexedEntry[E]) KillCount() int          { return x.Entry.KillCount() }
func (x *indexedEntry[E]) Placement() model.OptInt { return x.Entry.Placement() }
func (x *indexedEntry[E]) Score() float64          { return x.Entry.Score() }
func (x *indexedEntry[E]) SetScore(p float64)      { x.Entry.SetScore(p) }

// rankWithFlags ranks entries by points and carries each entry's Boyaah flag
// (indexed by original entry order) along with it.
func rankWithFlags[E model.Entry](entries []E, flags []bool) []flaggedEntry[E] {
	wrapped := make([]*indexedEntry[E], len(entries))
	for i, e := range entries {
		wrapped[i] = &indexedEntry[E]{Entry: e, idx: i}
	}
	ranked := aggregator.RankEntries(wrapped)
	out := make([]flaggedEntry[E], len(ranked))
	for i, r := range ranked {
		out[i] = flaggedEntry[E]{rank: r.Rank, entry: r.Entry.Entry, boyaah: flags[r.Entry.idx]}
	}
	return out
}

func kindLabel(kind model.MatchKind) string {
	if kind == "" {
		return "all"
	}
	return string(kind)
}
