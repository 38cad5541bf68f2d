package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-scorekeeper/internal/config"
	"github.com/pable/go-scorekeeper/internal/model"
	"github.com/pable/go-scorekeeper/internal/storage"
	"github.com/pable/go-scorekeeper/internal/tournament"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	// settings is resolved once per invocation by loadSettings.
	settings config.Config
)

var rootCmd = &cobra.Command{
	Use:   "scorekeeper",
	Short: "Battle-royale tournament scorekeeper",
	Long: `Keep score for a battle-royale esports tournament.

Configure kill and position points, register teams (team flow) or slots
(slot flow), enter matches from YAML files, and get standings, MVPs and
Boyaah counts as tables, JSON, XLSX workbooks or PNG charts.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the tournament database (default from config, else ~/.scorekeeper/tournament.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to the settings YAML file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default from config)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(slotCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(mvpCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadSettings merges the config file with flags; flags win.
func loadSettings(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if _, err := log.ParseLevel(logLevel); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	log.SetLevel(cfg.Level())
	settings = cfg
	log.Debug("settings loaded", "config", configPath, "db", cfg.DBPath, "command", cmd.Name())
	return nil
}

// openService opens the tournament database and wraps it in a Service.
// Callers must close the returned DB.
func openService() (*storage.DB, *tournament.Service, error) {
	if err := os.MkdirAll(filepath.Dir(settings.DBPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(settings.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	return db, tournament.New(db), nil
}

// kindFlag parses an optional --kind value; empty means all matches.
func kindFlag(s string) (model.MatchKind, error) {
	if s == "" || s == "all" {
		return "", nil
	}
	return model.ParseMatchKind(s)
}
