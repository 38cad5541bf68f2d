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

var (
	archiveName  string
	archiveClear bool
	archiveFlow  string
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Keep the final standings of finished tournaments",
	Long: `Save the current standings to the tournament archive, then browse or
prune it. Archived standings are a frozen copy: later scoring changes do not
touch them.`,
}

var archiveSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Archive the current standings",
	Long: `Archive the current standings under --name (default: the tournament name).

With --clear the stored matches are removed afterwards so the next tournament
can start; teams, slots and scoring are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *tournament.Service) error {
			a, err := svc.Archive(archiveName, archiveClear)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Archived %q (%s flow, %d matches, %d teams)\n",
				a.Name, a.Flow, a.Matches, len(a.Standings))
			if archiveClear {
				fmt.Fprintln(os.Stdout, "Stored matches cleared.")
			}
			return nil
		})
	},
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived tournaments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var flow model.Flow
		if archiveFlow != "" && archiveFlow != "all" {
			var err error
			if flow, err = model.ParseFlow(archiveFlow); err != nil {
				return err
			}
		}
		return withService(func(svc *tournament.Service) error {
			list, err := svc.Archives(flow)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(os.Stdout, "No archived tournaments yet. Run 'scorekeeper archive save'.")
				return nil
			}
			report.PrintArchives(os.Stdout, list)
			return nil
		})
	},
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <index>",
	Short: "Print the standings of one archived tournament",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("parse index: %w", err)
		}
		return withService(func(svc *tournament.Service) error {
			a, err := svc.ArchiveAt(index)
			if err != nil {
				return err
			}
			report.PrintArchive(os.Stdout, a)
			return nil
		})
	},
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <index>",
	Short: "Delete one archived tournament",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("parse index: %w", err)
		}
		return withService(func(svc *tournament.Service) error {
			a, err := svc.DeleteArchive(index)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Deleted archived tournament #%d (%s)\n", index, a.Name)
			return nil
		})
	},
}

var archiveClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every archived tournament",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *tournament.Service) error {
			n, err := svc.ClearArchives()
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Deleted %d archived tournaments\n", n)
			return nil
		})
	},
}

func init() {
	archiveSaveCmd.Flags().StringVar(&archiveName, "name", "", "archive name (default: the tournament name)")
	archiveSaveCmd.Flags().BoolVar(&archiveClear, "clear", false, "remove stored matches after archiving")
	archiveListCmd.Flags().StringVar(&archiveFlow, "flow", "", "team, slot or all")

	archiveCmd.AddCommand(archiveSaveCmd)
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	archiveCmd.AddCommand(archiveDeleteCmd)
	archiveCmd.AddCommand(archiveClearCmd)
}
