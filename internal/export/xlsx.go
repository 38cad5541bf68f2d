package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pable/go-scorekeeper/internal/aggregator"
	"github.com/pable/go-scorekeeper/internal/model"
)

const (
	standingsSheet = "Standings"
	mvpSheet       = "MVP"
)

var (
	standingsHeader = []any{"#", "Team", "Matches", "Kills", "Kill pts", "Position pts", "Total", "Average", "Boyaah"}
	teamMatchHeader = []any{"#", "Team", "Player", "IGN", "UID", "Player kills", "Team kills", "Position", "Points", "Boyaah"}
	slotMatchHeader = []any{"#", "Slot", "Team", "Kills", "Position", "Points", "Boyaah"}
	mvpHeader       = []any{"Player", "IGN", "UID", "Team", "Kills"}
)

// WriteXLSX writes snap as a workbook: a standings sheet, one sheet per
// match, and an MVP sheet for team-flow tournaments.
func WriteXLSX(w io.Writer, snap Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	x := &sheetWriter{f: f, header: bold}

	if err := f.SetSheetName("Sheet1", standingsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := x.writeStandings(snap.Standings); err != nil {
		return err
	}

	for i, m := range snap.TeamMatches {
		flags := aggregator.MatchBoyaahs(m, snap.Config, aggregator.RuleFor(snap.Flow))
		rows := make([][]any, 0, len(m.Entries))
		for _, r := range rankWithFlags(m.Entries, flags) {
			e := r.entry
			if len(e.Players) == 0 {
				rows = append(rows, []any{r.rank, e.Team, "", "", "", "", e.KillCount(), optCell(e.Position), e.Points, mark(r.boyaah)})
				continue
			}
			for _, p := range e.Players {
				rows = append(rows, []any{r.rank, e.Team, p.Name, p.InGameName, p.UID, optCell(p.Kills), e.KillCount(), optCell(e.Position), e.Points, mark(r.boyaah)})
			}
		}
		if err := x.writeSheet(matchSheetName(i+1, m.Kind, m.Number), teamMatchHeader, rows); err != nil {
			return err
		}
	}
	for i, m := range snap.SlotMatches {
		flags := aggregator.MatchBoyaahs(m, snap.Config, aggregator.RuleFor(snap.Flow))
		rows := make([][]any, 0, len(m.Entries))
		for _, r := range rankWithFlags(m.Entries, flags) {
			e := r.entry
			rows = append(rows, []any{r.rank, e.Slot, e.TeamName(), optCell(e.Kills), optCell(e.Position), e.Points, mark(r.boyaah)})
		}
		if err := x.writeSheet(matchSheetName(i+1, m.Kind, m.Number), slotMatchHeader, rows); err != nil {
			return err
		}
	}

	if snap.Flow == model.FlowTeam {
		rows := make([][]any, 0, len(snap.MVPs))
		for _, m := range snap.MVPs {
			rows = append(rows, []any{m.Name, m.InGameName, m.UID, m.Team, m.Kills})
		}
		if err := x.writeSheet(mvpSheet, mvpHeader, rows); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

type sheetWriter struct {
	f      *excelize.File
	header int
}

func (x *sheetWriter) writeStandings(standings []model.TeamStanding) error {
	rows := make([][]any, len(standings))
	for i := range standings {
		s := &standings[i]
		rows[i] = []any{
			i + 1, s.Team, s.MatchesPlayed, s.TotalKills, s.TotalKillPoints,
			s.TotalPositionPoints, s.TotalPoints, s.AveragePoints(), s.BoyaahCount,
		}
	}
	return x.fill(standingsSheet, standingsHeader, rows)
}

func (x *sheetWriter) writeSheet(name string, header []any, rows [][]any) error {
	if _, err := x.f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	return x.fill(name, header, rows)
}

func (x *sheetWriter) fill(sheet string, header []any, rows [][]any) error {
	if err := x.f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := x.f.SetCellStyle(sheet, "A1", last, x.header); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := x.f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// matchSheetName is unique per match index and within Excel's 31-char limit.
func matchSheetName(index int, kind model.MatchKind, number int) string {
	return fmt.Sprintf("%02d %s %d", index, kind, number)
}

// optCell leaves unset values as empty cells.
func optCell(o model.OptInt) any {
	if !o.Set {
		return ""
	}
	return o.N
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
