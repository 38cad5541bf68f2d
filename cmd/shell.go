package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-scorekeeper/internal/export"
	"github.com/pable/go-scorekeeper/internal/model"
	"github.com/pable/go-scorekeeper/internal/report"
	"github.com/pable/go-scorekeeper/internal/tournament"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the tournament database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, svc, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	flow, err := svc.Flow()
	if err != nil {
		return err
	}
	name, _ := svc.Name()
	if name == "" {
		name = settings.DBPath
	}
	cGreeting.Printf("scorekeeper shell: %s (%s flow)\n", name, flow)
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("scorekeeper")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]
		if cmd == "exit" || cmd == "quit" {
			return nil
		}
		if err := shellDispatch(svc, cmd, args); err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func shellDispatch(svc *tournament.Service, cmd string, args []string) error {
	switch cmd {
	case "help":
		shellHelp()
	case "standings":
		kind, err := shellKind(args)
		if err != nil {
			return err
		}
		return printStandings(svc, kind)
	case "mvp":
		kind, err := shellKind(args)
		if err != nil {
			return err
		}
		return printMVPs(svc, kind, 10)
	case "matches":
		list, err := svc.Matches()
		if err != nil {
			return err
		}
		if len(list) == 0 {
			cMuted.Println("No matches stored yet.")
			return nil
		}
		report.PrintMatchList(os.Stdout, list)
	case "show", "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <index>", cmd)
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("parse index: %w", err)
		}
		if cmd == "show" {
			return showMatch(svc, index)
		}
		gone, err := svc.DeleteMatch(index)
		if err != nil {
			return err
		}
		cWarn.Printf("deleted match #%d (%s %d)\n", index, gone.Kind, gone.Number)
	case "add":
		if len(args) != 1 {
			return fmt.Errorf("usage: add <match.yaml>")
		}
		return addMatchFile(svc, args[0])
	case "config":
		cfg, err := svc.Config()
		if err != nil {
			return err
		}
		report.PrintScoringConfig(os.Stdout, cfg)
	case "teams":
		teams, err := svc.Teams()
		if err != nil {
			return err
		}
		report.PrintTeams(os.Stdout, teams)
	case "slots":
		slots, err := svc.Slots()
		if err != nil {
			return err
		}
		report.PrintSlots(os.Stdout, slots)
	case "export":
		return shellExport(svc, args)
	case "archive":
		var flow model.Flow
		if len(args) > 0 && args[0] != "all" {
			f, err := model.ParseFlow(args[0])
			if err != nil {
				return err
			}
			flow = f
		}
		list, err := svc.Archives(flow)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			cMuted.Println("No archived tournaments yet.")
			return nil
		}
		report.PrintArchives(os.Stdout, list)
	default:
		cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
	}
	return nil
}

func shellKind(args []string) (model.MatchKind, error) {
	if len(args) == 0 {
		return "", nil
	}
	return kindFlag(args[0])
}

func shellExport(svc *tournament.Service, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: export <json|xlsx|png> <file>")
	}
	snap, err := buildSnapshot(svc, "")
	if err != nil {
		return err
	}
	f, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	switch args[0] {
	case "json":
		err = export.WriteJSON(f, snap)
	case "xlsx":
		err = export.WriteXLSX(f, snap)
	case "png":
		err = export.WritePNG(f, snap)
	default:
		err = fmt.Errorf("unknown export format %q", args[0])
	}
	if err != nil {
		return err
	}
	cMuted.Printf("wrote %s\n", args[1])
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"standings [semifinal|final]", "ranked standings"},
		{"mvp [semifinal|final]", "tournament MVP and top 10 by kills"},
		{"matches", "list stored matches"},
		{"show <index>", "one match ranked, with Boyaah and MVP"},
		{"add <match.yaml>", "score and store a match file"},
		{"delete <index>", "delete a match"},
		{"config", "print the scoring scheme"},
		{"teams / slots", "print the registries"},
		{"export <json|xlsx|png> <file>", "export the whole tournament"},
		{"archive [team|slot]", "list archived tournaments"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-34s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}
