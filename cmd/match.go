package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-scorekeeper/internal/model"
	"github.com/pable/go-scorekeeper/internal/report"
	"github.com/pable/go-scorekeeper/internal/tournament"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Add, list, show or delete matches",
}

var matchAddCmd = &cobra.Command{
	Use:   "add <file.yaml>",
	Short: "Score and store a match read from a YAML file",
	Long: `Score and store a match. The file shape follows the tournament flow.

Team flow:

  kind: semifinal
  number: 1
  entries:
    - team: Wolves
      position: 1
      players:
        - {name: Ann, kills: 4}
        - {name: Ben, kills: 2}

Slot flow:

  kind: final
  number: 2
  entries:
    - {slot: 1, kills: 5, position: 2}
    - {slot: 7, kills: 9, position: 1}

Leave kills or position blank (or omit them) when unknown; they count as 0.
Negative values are clamped to 0.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatchAdd,
}

var matchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matches in tournament order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *tournament.Service) error {
			matches, err := svc.Matches()
			if err != nil {
				return fmt.Errorf("list matches: %w", err)
			}
			if len(matches) == 0 {
				fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'scorekeeper match add <file.yaml>' to add one.")
				return nil
			}
			report.PrintMatchList(os.Stdout, matches)
			return nil
		})
	},
}

var matchShowCmd = &cobra.Command{
	Use:   "show <index>",
	Short: "Show one match ranked by points, with Boyaah and MVP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("parse index: %w", err)
		}
		return withService(func(svc *tournament.Service) error {
			return showMatch(svc, index)
		})
	},
}

var matchDeleteCmd = &cobra.Command{
	Use:   "delete <index>",
	Short: "Delete a match by its list index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("parse index: %w", err)
		}
		return withService(func(svc *tournament.Service) error {
			gone, err := svc.DeleteMatch(index)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Deleted match #%d (%s %d)\n", index, gone.Kind, gone.Number)
			return nil
		})
	},
}

func init() {
	matchCmd.AddCommand(matchAddCmd)
	matchCmd.AddCommand(matchListCmd)
	matchCmd.AddCommand(matchShowCmd)
	matchCmd.AddCommand(matchDeleteCmd)
}

func runMatchAdd(cmd *cobra.Command, args []string) error {
	return withService(func(svc *tournament.Service) error {
		return addMatchFile(svc, args[0])
	})
}

// addMatchFile reads path in the shape of the tournament flow, stores it and
// prints the scored result.
func addMatchFile(svc *tournament.Service, path string) error {
	flow, err := svc.Flow()
	if err != nil {
		return err
	}
	cfg, err := svc.Config()
	if err != nil {
		return err
	}

	switch flow {
	case model.FlowSlot:
		m, err := readSlotMatch(path)
		if err != nil {
			return err
		}
		if m, err = svc.AddSlotMatch(m); err != nil {
			return err
		}
		report.PrintMatchHeader(os.Stdout, matchCount(svc), m.Kind, m.Number)
		report.PrintSlotMatch(os.Stdout, m, cfg)
	default:
		m, err := readTeamMatch(path)
		if err != nil {
			return err
		}
		if m, err = svc.AddTeamMatch(m); err != nil {
			return err
		}
		report.PrintMatchHeader(os.Stdout, matchCount(svc), m.Kind, m.Number)
		report.PrintTeamMatch(os.Stdout, m, cfg)
	}
	return nil
}

func showMatch(svc *tournament.Service, index int) error {
	flow, err := svc.Flow()
	if err != nil {
		return err
	}
	cfg, err := svc.Config()
	if err != nil {
		return err
	}
	if flow == model.FlowSlot {
		m, err := svc.SlotMatchAt(index)
		if err != nil {
			return err
		}
		report.PrintMatchHeader(os.Stdout, index, m.Kind, m.Number)
		report.PrintSlotMatch(os.Stdout, m, cfg)
		return nil
	}
	m, err := svc.TeamMatchAt(index)
	if err != nil {
		return err
	}
	report.PrintMatchHeader(os.Stdout, index, m.Kind, m.Number)
	report.PrintTeamMatch(os.Stdout, m, cfg)
	return nil
}

// matchCount is the index the most recently added match was given.
func matchCount(svc *tournament.Service) int {
	list, err := svc.Matches()
	if err != nil {
		return 0
	}
	return len(list)
}
