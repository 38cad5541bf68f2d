package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scorekeeper/internal/model"
	"github.com/pable/go-scorekeeper/internal/report"
	"github.com/pable/go-scorekeeper/internal/tournament"
)

var (
	mvpKind string
	mvpTop  int
)

var mvpCmd = &cobra.Command{
	Use:   "mvp",
	Short: "Print the tournament MVP (team flow)",
	Long: `Print the player(s) with the most kills across the tournament. Players
are identified by name and uid; a tie lists everyone tied.

Use --top to also print a kill leaderboard.`,
	Args: cobra.NoArgs,
	RunE: runMVP,
}

func init() {
	mvpCmd.Flags().StringVar(&mvpKind, "kind", "", "semifinal, final or all")
	mvpCmd.Flags().IntVar(&mvpTop, "top", 0, "also list the top N players by kills")
}

func runMVP(cmd *cobra.Command, args []string) error {
	kind, err := kindFlag(mvpKind)
	if err != nil {
		return err
	}
	return withService(func(svc *tournament.Service) error {
		return printMVPs(svc, kind, mvpTop)
	})
}

func printMVPs(svc *tournament.Service, kind model.MatchKind, top int) error {
	mvps, err := svc.TournamentMVPs(kind)
	if err != nil {
		return err
	}
	report.PrintMVPs(os.Stdout, mvps)
	if top <= 0 {
		return nil
	}
	totals, err := svc.PlayerTotals(kind)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout)
	report.PrintPlayerTotals(os.Stdout, totals, top)
	return nil
}
