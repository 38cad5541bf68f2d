package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-scorekeeper/internal/aggregator"
	"github.com/pable/go-scorekeeper/internal/export"
	"github.com/pable/go-scorekeeper/internal/model"
	"github.com/pable/go-scorekeeper/internal/tournament"
)

var (
	exportOut  string
	exportKind string
)

var exportCmd = &cobra.Command{
	Use:   "export <json|xlsx|png>",
	Short: "Export standings and matches as JSON, an XLSX workbook or a PNG chart",
	Long: `Export the tournament.

  json  standings, MVPs and every match with ranks and Boyaah flags
  xlsx  a Standings sheet, one sheet per match, and an MVP sheet (team flow)
  png   a bar chart of total points per team

Example:
  scorekeeper export xlsx --out spring-cup.xlsx
  scorekeeper export png --kind final --out finals.png`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "xlsx", "png"},
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
	exportCmd.Flags().StringVar(&exportKind, "kind", "", "semifinal, final or all")
}

func runExport(cmd *cobra.Command, args []string) error {
	var write func(io.Writer, export.Snapshot) error
	switch args[0] {
	case "json":
		write = export.WriteJSON
	case "xlsx":
		write = export.WriteXLSX
	case "png":
		write = export.WritePNG
	default:
		return fmt.Errorf("unknown export format %q (want json, xlsx or png)", args[0])
	}
	kind, err := kindFlag(exportKind)
	if err != nil {
		return err
	}

	return withService(func(svc *tournament.Service) error {
		snap, err := buildSnapshot(svc, kind)
		if err != nil {
			return err
		}
		if exportOut == "" {
			return write(os.Stdout, snap)
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		if err := write(f, snap); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (%d teams, %d matches)\n",
			exportOut, len(snap.Standings), len(snap.TeamMatches)+len(snap.SlotMatches))
		return nil
	})
}

// buildSnapshot gathers everything an export needs for one match kind.
func buildSnapshot(svc *tournament.Service, kind model.MatchKind) (export.Snapshot, error) {
	flow, err := svc.Flow()
	if err != nil {
		return export.Snapshot{}, err
	}
	name, err := svc.Name()
	if err != nil {
		return export.Snapshot{}, err
	}
	cfg, err := svc.Config()
	if err != nil {
		return export.Snapshot{}, err
	}
	standings, err := svc.Standings(kind)
	if err != nil {
		return export.Snapshot{}, err
	}

	snap := export.Snapshot{
		Name:        name,
		Flow:        flow,
		Kind:        kind,
		GeneratedAt: time.Now(),
		Config:      cfg,
		Standings:   standings,
	}
	if flow == model.FlowSlot {
		matches, err := svc.SlotMatches()
		if err != nil {
			return snap, err
		}
		snap.SlotMatches = aggregator.FilterKind(matches, kind)
		return snap, nil
	}

	matches, err := svc.TeamMatches()
	if err != nil {
		return snap, err
	}
	snap.TeamMatches = aggregator.FilterKind(matches, kind)
	snap.MVPs = aggregator.TournamentMVPs(snap.TeamMatches)
	return snap, nil
}
