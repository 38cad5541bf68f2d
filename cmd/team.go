package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scorekeeper/internal/report"
	"github.com/pable/go-scorekeeper/internal/tournament"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Manage the team registry (team flow)",
}

var teamAddCmd = &cobra.Command{
	Use:   "add <file.yaml>",
	Short: "Register or replace teams from a YAML roster file",
	Long: `Register teams from a YAML file. A file holds one team:

  name: Wolves
  players:
    - {name: Ann, uid: "5123", ign: annie}
    - {name: Ben, uid: "5124", ign: benz}

or several under a "teams:" list. Re-adding a team replaces its roster.
Match files then only need player names; uid and ign are filled in from
the registry.`,
	Args: cobra.ExactArgs(1),
	RunE: runTeamAdd,
}

var teamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered teams and players",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *tournament.Service) error {
			teams, err := svc.Teams()
			if err != nil {
				return fmt.Errorf("list teams: %w", err)
			}
			if len(teams) == 0 {
				fmt.Fprintln(os.Stdout, "No teams registered yet. Run 'scorekeeper team add <file.yaml>'.")
				return nil
			}
			report.PrintTeams(os.Stdout, teams)
			return nil
		})
	},
}

var teamRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a team from the registry (stored matches are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *tournament.Service) error {
			ok, err := svc.RemoveTeam(args[0])
			if err != nil {
				return fmt.Errorf("remove team: %w", err)
			}
			if !ok {
				return fmt.Errorf("no team named %q", args[0])
			}
			fmt.Fprintf(os.Stdout, "Removed team %s\n", args[0])
			return nil
		})
	},
}

func init() {
	teamCmd.AddCommand(teamAddCmd)
	teamCmd.AddCommand(teamListCmd)
	teamCmd.AddCommand(teamRemoveCmd)
}

func runTeamAdd(cmd *cobra.Command, args []string) error {
	teams, err := readTeams(args[0])
	if err != nil {
		return err
	}
	return withService(func(svc *tournament.Service) error {
		for _, t := range teams {
			if err := svc.RegisterTeam(t); err != nil {
				return fmt.Errorf("register %s: %w", t.Name, err)
			}
			fmt.Fprintf(os.Stdout, "Registered %s (%d players)\n", t.Name, len(t.Players))
		}
		return nil
	})
}
