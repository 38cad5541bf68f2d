package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scorekeeper/internal/model"
	"github.com/pable/go-scorekeeper/internal/report"
	"github.com/pable/go-scorekeeper/internal/tournament"
)

var standingsKind string

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Print the ranked tournament standings",
	Long: `Print one row per team, ranked by total points, with kills, position
points, average points per match and Boyaah count. Everything is recomputed
from the stored kills and positions against the current scoring scheme.

Use --kind to limit the table to semifinals or finals.`,
	Args: cobra.NoArgs,
	RunE: runStandings,
}

func init() {
	standingsCmd.Flags().StringVar(&standingsKind, "kind", "", "semifinal, final or all")
}

func runStandings(cmd *cobra.Command, args []string) error {
	kind, err := kindFlag(standingsKind)
	if err != nil {
		return err
	}
	return withService(func(svc *tournament.Service) error {
		return printStandings(svc, kind)
	})
}

func printStandings(svc *tournament.Service, kind model.MatchKind) error {
	flow, err := svc.Flow()
	if err != nil {
		return err
	}
	name, err := svc.Name()
	if err != nil {
		return err
	}
	list, err := svc.Matches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	standings, err := svc.Standings(kind)
	if err != nil {
		return err
	}

	report.PrintTournamentHeader(os.Stdout, name, flow, countKind(list, kind))
	if len(standings) == 0 {
		fmt.Fprintln(os.Stdout, "No matches to rank yet.")
		return nil
	}
	report.PrintStandings(os.Stdout, standings)
	return nil
}

// countKind counts the matches of one kind; an empty kind counts them all.
func countKind(list []model.MatchSummary, kind model.MatchKind) int {
	if kind == "" {
		return len(list)
	}
	n := 0
	for _, m := range list {
		if m.Kind == kind {
			n++
		}
	}
	return n
}
