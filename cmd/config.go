package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-scorekeeper/internal/config"
	"github.com/pable/go-scorekeeper/internal/model"
	"github.com/pable/go-scorekeeper/internal/report"
	"github.com/pable/go-scorekeeper/internal/tournament"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the tournament scoring scheme",
	Long: `Show or change the points awarded per kill and per finishing position.

Every change re-scores all stored matches, so standings always reflect the
current scheme.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the scoring scheme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *tournament.Service) error {
			cfg, err := svc.Config()
			if err != nil {
				return err
			}
			report.PrintScoringConfig(os.Stdout, cfg)
			limit, err := svc.MaxTeamSize()
			if err != nil {
				return err
			}
			report.PrintTeamSize(os.Stdout, limit)
			return nil
		})
	},
}

var configSetKillCmd = &cobra.Command{
	Use:   "set-kill <points>",
	Short: "Set the points awarded per kill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("parse kill points: %w", err)
		}
		return updateScoring(func(cfg *model.ScoringConfig) { cfg.KillPoints = v })
	},
}

var configSetPositionCmd = &cobra.Command{
	Use:   "set-position <rank> <points>",
	Short: "Set the points for one finishing position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rank, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("parse rank: %w", err)
		}
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("parse position points: %w", err)
		}
		return updateScoring(func(cfg *model.ScoringConfig) { cfg.PositionPoints[rank] = v })
	},
}

var configUnsetPositionCmd = &cobra.Command{
	Use:   "unset-position <rank>",
	Short: "Remove a finishing position from the table (it then scores 0)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rank, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("parse rank: %w", err)
		}
		return updateScoring(func(cfg *model.ScoringConfig) { delete(cfg.PositionPoints, rank) })
	},
}

var configImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Replace the scoring scheme with one read from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		imported, err := config.LoadScoring(args[0])
		if err != nil {
			return err
		}
		return updateScoring(func(cfg *model.ScoringConfig) { *cfg = imported })
	},
}

var configSetTeamSizeCmd = &cobra.Command{
	Use:   "set-team-size <players|game>",
	Short: "Cap the players per team, by number or game preset (0 removes the cap)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			game, gerr := model.LookupGame(args[0])
			if gerr != nil {
				return gerr
			}
			n = game.MaxTeamSize
		}
		return withService(func(svc *tournament.Service) error {
			if err := svc.SetMaxTeamSize(n); err != nil {
				return err
			}
			report.PrintTeamSize(os.Stdout, n)
			return nil
		})
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetTeamSizeCmd)
	configCmd.AddCommand(configSetKillCmd)
	configCmd.AddCommand(configSetPositionCmd)
	configCmd.AddCommand(configUnsetPositionCmd)
	configCmd.AddCommand(configImportCmd)
}

// updateScoring applies edit to a copy of the stored scheme and saves it,
// which re-scores every match.
func updateScoring(edit func(cfg *model.ScoringConfig)) error {
	return withService(func(svc *tournament.Service) error {
		current, err := svc.Config()
		if err != nil {
			return err
		}
		cfg := current.Clone()
		edit(&cfg)
		if err := svc.UpdateConfig(cfg); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Scoring updated; stored matches re-scored.")
		fmt.Fprintln(os.Stdout)
		report.PrintScoringConfig(os.Stdout, cfg)
		return nil
	})
}

// withService runs fn against the opened tournament and closes it after.
func withService(fn func(svc *tournament.Service) error) error {
	db, svc, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(svc)
}
