package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-scorekeeper/internal/aggregator"
	"github.com/pable/go-scorekeeper/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// Points formats a point value without trailing zeros (12, 1.5).
func Points(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func boyaahMark(b bool) string {
	if b {
		return "★"
	}
	return ""
}

// PrintTournamentHeader prints a one-line tournament banner.
func PrintTournamentHeader(w io.Writer, name string, flow model.Flow, matches int) {
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "\nTournament: %s  |  Flow: %s  |  Matches: %d\n\n", name, flow, matches)
}

// PrintMatchHeader prints the kind/number line above a match table.
func PrintMatchHeader(w io.Writer, index int, kind model.MatchKind, number int) {
	fmt.Fprintf(w, "\nMatch #%d  |  %s %d\n\n", index, kind, number)
}

// PrintTeamMatch prints a team-flow match ranked by points, the per-player
// kill sheet, and the match MVP line.
func PrintTeamMatch(w io.Writer, m model.TeamMatch, cfg model.ScoringConfig) {
	flags := aggregator.MatchBoyaahs(m, cfg, aggregator.RuleFor(model.FlowTeam))
	boyaah := make(map[*model.TeamEntry]bool, len(m.Entries))
	for i, e := range m.Entries {
		boyaah[e] = flags[i]
	}

	table := newTable(w)
	table.Header("#", "TEAM", "KILLS", "POS", "PTS", "BOYAAH")
	for _, r := range aggregator.RankEntries(m.Entries) {
		table.Append(
			strconv.Itoa(r.Rank),
			r.Entry.Team,
			strconv.Itoa(r.Entry.KillCount()),
			r.Entry.Position.String(),
			Points(r.Entry.Points),
			boyaahMark(boyaah[r.Entry]),
		)
	}
	table.Render()

	players := newTable(w)
	players.Header("TEAM", "PLAYER", "IGN", "UID", "KILLS")
	for _, e := range m.Entries {
		for _, p := range e.Players {
			players.Append(e.Team, p.Name, p.InGameName, p.UID, p.Kills.String())
		}
	}
	players.Render()

	mvps := aggregator.MatchMVPs(m)
	if len(mvps) == 0 {
		return
	}
	fmt.Fprint(w, "\nMVP: ")
	for i, v := range mvps {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		fmt.Fprintf(w, "%s (%s, %d kills)", v.DisplayName(), v.Team, v.Kills)
	}
	fmt.Fprintln(w)
}

// PrintSlotMatch prints a slot-flow match ranked by points.
func PrintSlotMatch(w io.Writer, m model.SlotMatch, cfg model.ScoringConfig) {
	flags := aggregator.MatchBoyaahs(m, cfg, aggregator.RuleFor(model.FlowSlot))
	boyaah := make(map[*model.SlotEntry]bool, len(m.Entries))
	for i, e := range m.Entries {
		boyaah[e] = flags[i]
	}

	table := newTable(w)
	table.Header("#", "SLOT", "TEAM", "KILLS", "POS", "PTS", "BOYAAH")
	for _, r := range aggregator.RankEntries(m.Entries) {
		table.Append(
			strconv.Itoa(r.Rank),
			strconv.Itoa(r.Entry.Slot),
			r.Entry.TeamName(),
			r.Entry.Kills.String(),
			r.Entry.Position.String(),
			Points(r.Entry.Points),
			boyaahMark(boyaah[r.Entry]),
		)
	}
	table.Render()
}

// PrintStandings prints the ranked standings table.
// Columns: # | TEAM | M | KILLS | KILL_PTS | POS_PTS | PTS | AVG | BOYAAH
func PrintStandings(w io.Writer, standings []model.TeamStanding) {
	table := newTable(w)
	table.Header("#", "TEAM", "M", "KILLS", "KILL_PTS", "POS_PTS", "PTS", "AVG", "BOYAAH")
	for i := range standings {
		s := &standings[i]
		table.Append(
			strconv.Itoa(i+1),
			s.Team,
			strconv.Itoa(s.MatchesPlayed),
			strconv.Itoa(s.TotalKills),
			Points(s.TotalKillPoints),
			Points(s.TotalPositionPoints),
			Points(s.TotalPoints),
			fmt.Sprintf("%.2f", s.AveragePoints()),
			strconv.Itoa(s.BoyaahCount),
		)
	}
	table.Render()
}

// PrintMVPs prints the tournament MVP table. Several rows mean a tie.
func PrintMVPs(w io.Writer, mvps []model.MVP) {
	if len(mvps) == 0 {
		fmt.Fprintln(w, "No player kills recorded yet.")
		return
	}
	table := newTable(w)
	table.Header("PLAYER", "IGN", "UID", "TEAM", "KILLS")
	for _, m := range mvps {
		table.Append(m.Name, m.InGameName, m.UID, m.Team, strconv.Itoa(m.Kills))
	}
	table.Render()
}

// PrintPlayerTotals prints the top n players by kills. n <= 0 prints all.
func PrintPlayerTotals(w io.Writer, totals []model.MVP, n int) {
	if n > 0 && len(totals) > n {
		totals = totals[:n]
	}
	table := newTable(w)
	table.Header("#", "PLAYER", "TEAM", "KILLS")
	for i, m := range totals {
		table.Append(strconv.Itoa(i+1), m.DisplayName(), m.Team, strconv.Itoa(m.Kills))
	}
	table.Render()
}

// PrintScoringConfig prints kill points and the position table by rank.
func PrintScoringConfig(w io.Writer, cfg model.ScoringConfig) {
	fmt.Fprintf(w, "Kill points: %s\n\n", Points(cfg.KillPoints))

	ranks := make([]int, 0, len(cfg.PositionPoints))
	for r := range cfg.PositionPoints {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)

	table := newTable(w)
	table.Header("POSITION", "POINTS")
	for _, r := range ranks {
		table.Append(strconv.Itoa(r), Points(cfg.PositionPoints[r]))
	}
	table.Render()
}

// PrintTeamSize prints the roster cap line.
func PrintTeamSize(w io.Writer, limit int) {
	if limit <= 0 {
		fmt.Fprintln(w, "\nMax team size: no limit")
		return
	}
	fmt.Fprintf(w, "\nMax team size: %d\n", limit)
}

// PrintMatchList prints one line per stored match.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("#", "KIND", "NUMBER", "ENTRIES", "ID")
	for _, m := range matches {
		table.Append(
			strconv.Itoa(m.Index),
			string(m.Kind),
			strconv.Itoa(m.Number),
			strconv.Itoa(m.Entries),
			m.ID,
		)
	}
	table.Render()
}

// PrintTeams prints the team registry with one row per player.
func PrintTeams(w io.Writer, teams []model.Team) {
	table := newTable(w)
	table.Header("TEAM", "PLAYER", "IGN", "UID")
	for _, t := range teams {
		if len(t.Players) == 0 {
			table.Append(t.Name, "", "", "")
			continue
		}
		for _, p := range t.Players {
			table.Append(t.Name, p.Name, p.InGameName, p.UID)
		}
	}
	table.Render()
}

// PrintSlots prints the slot registry.
func PrintSlots(w io.Writer, slots []model.Slot) {
	table := newTable(w)
	table.Header("SLOT", "TEAM")
	for _, s := range slots {
		table.Append(strconv.Itoa(s.Number), s.Team)
	}
	table.Render()
}

// PrintArchives prints one line per archived tournament with its winner.
func PrintArchives(w io.Writer, archives []model.ArchivedTournament) {
	table := newTable(w)
	table.Header("#", "NAME", "FLOW", "SAVED", "MATCHES", "WINNER", "PTS")
	for _, a := range archives {
		winner, pts := "", ""
		if len(a.Standings) > 0 {
			winner, pts = a.Standings[0].Team, Points(a.Standings[0].TotalPoints)
		}
		table.Append(
			strconv.Itoa(a.Index),
			a.Name,
			string(a.Flow),
			a.SavedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(a.Matches),
			winner,
			pts,
		)
	}
	table.Render()
}

// PrintArchive prints an archived tournament's banner and frozen standings.
func PrintArchive(w io.Writer, a model.ArchivedTournament) {
	PrintTournamentHeader(w, a.Name, a.Flow, a.Matches)
	fmt.Fprintf(w, "Saved: %s\n\n", a.SavedAt.Local().Format("2006-01-02 15:04"))
	PrintStandings(w, a.Standings)
}

// PrintRaw prints an untyped result set, as returned by a raw SQL query.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
}
