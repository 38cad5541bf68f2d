package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scorekeeper/internal/config"
	"github.com/pable/go-scorekeeper/internal/model"
	"github.com/pable/go-scorekeeper/internal/report"
)

var (
	initFlow     string
	initName     string
	initScoring  string
	initGame     string
	initTeamSize int
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new tournament",
	Long: `Create a tournament in the database and fix its flow.

The team flow registers players per team and takes kills per player.
The slot flow assigns each team a fixed slot and takes kills once per team.
A tournament never mixes the two.

Scoring comes from --scoring (a YAML file with kill_points and
position_points), else from the settings file, else the built-in defaults.

--game picks a title preset (free-fire, bgmi, valorant, call-of-duty) whose
roster cap limits how many players a team may list; --max-team-size sets
the cap directly and wins over the preset.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initFlow, "flow", "team", "tournament flow: team or slot")
	initCmd.Flags().StringVar(&initName, "name", "", "tournament display name")
	initCmd.Flags().StringVar(&initScoring, "scoring", "", "scoring YAML file")
	initCmd.Flags().StringVar(&initGame, "game", "", "game preset that sets the roster cap")
	initCmd.Flags().IntVar(&initTeamSize, "max-team-size", 0, "players allowed per team (0 = no cap)")
}

func runInit(cmd *cobra.Command, args []string) error {
	flow, err := model.ParseFlow(initFlow)
	if err != nil {
		return err
	}
	scoring := settings.Scoring
	if initScoring != "" {
		if scoring, err = config.LoadScoring(initScoring); err != nil {
			return err
		}
	}

	teamSize := initTeamSize
	if initGame != "" && teamSize == 0 {
		game, err := model.LookupGame(initGame)
		if err != nil {
			return err
		}
		teamSize = game.MaxTeamSize
	}

	db, svc, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := svc.Init(flow, initName, scoring); err != nil {
		return err
	}
	if teamSize != 0 {
		if err := svc.SetMaxTeamSize(teamSize); err != nil {
			return err
		}
	}
	fmt.Fprintf(os.Stdout, "Created %s-flow tournament in %s\n\n", flow, settings.DBPath)
	report.PrintScoringConfig(os.Stdout, scoring)
	report.PrintTeamSize(os.Stdout, teamSize)
	return nil
}
