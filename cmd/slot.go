package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-scorekeeper/internal/model"
	"github.com/pable/go-scorekeeper/internal/report"
	"github.com/pable/go-scorekeeper/internal/tournament"
)

var slotCmd = &cobra.Command{
	Use:   "slot",
	Short: "Manage the slot registry (slot flow)",
}

var slotSetCmd = &cobra.Command{
	Use:   "set <slot> <team name>",
	Short: "Assign a team name to a slot number",
	Long:  "Assign a team name to a slot number. Slot match files may then omit team names.",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("parse slot: %w", err)
		}
		name := strings.Join(args[1:], " ")
		return withService(func(svc *tournament.Service) error {
			if err := svc.AssignSlot(model.Slot{Number: n, Team: name}); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Slot %d -> %s\n", n, name)
			return nil
		})
	},
}

var slotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List slot assignments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *tournament.Service) error {
			slots, err := svc.Slots()
			if err != nil {
				return fmt.Errorf("list slots: %w", err)
			}
			if len(slots) == 0 {
				fmt.Fprintln(os.Stdout, "No slots assigned yet. Run 'scorekeeper slot set <n> <team>'.")
				return nil
			}
			report.PrintSlots(os.Stdout, slots)
			return nil
		})
	},
}

func init() {
	slotCmd.AddCommand(slotSetCmd)
	slotCmd.AddCommand(slotListCmd)
}
