package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-scorekeeper/internal/report"
	"github.com/pable/go-scorekeeper/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the tournament database",
	Long: `Run an arbitrary SQL query against the tournament database and print results as a table.

Schema overview:
  settings(key, value)                     flow, name, kill_points, max_team_size
  position_points(position, points)
  teams(name)
  team_players(team_name, idx, name, uid, ign)
  slots(slot, team_name)
  matches(id, seq, kind, number)           seq orders the tournament
  team_entries(match_id, idx, team_name, position, points)
  entry_players(match_id, entry_idx, idx, name, uid, ign, kills)
  slot_entries(match_id, idx, slot, team_name, kills, position, points)
  archive(id, seq, name, flow, saved_at, matches, standings)   standings is JSON

Blank kills and positions are stored as NULL, not 0. Stored points are a
cache; standings always recompute them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(settings.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintRaw(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
