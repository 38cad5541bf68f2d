package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-scorekeeper/internal/model"
	"github.com/pable/go-scorekeeper/internal/storage"
	"github.com/pable/go-scorekeeper/internal/tournament"
)

func writeYAML(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadTeams(t *testing.T) {
	dir := t.TempDir()

	single := writeYAML(t, dir, "one.yaml", `
name: Wolves
players:
  - {name: Ann, uid: "1", ign: annie}
`)
	teams, err := readTeams(single)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "annie", teams[0].Players[0].InGameName)

	many := writeYAML(t, dir, "many.yaml", `
teams:
  - name: Wolves
  - name: Bears
    players: [{name: Bo}]
`)
	teams, err = readTeams(many)
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	_, err = readTeams(writeYAML(t, dir, "typo.yaml", "nmae: Wolves\n"))
	assert.Error(t, err)

	_, err = readTeams(writeYAML(t, dir, "empty.yaml", ""))
	assert.Error(t, err)
}

func TestReadTeamMatch(t *testing.T) {
	path := writeYAML(t, t.TempDir(), "m.yaml", `
kind: semifinal
number: 3
entries:
  - team: Wolves
    position: 1
    players:
      - {name: Ann, kills: 4}
      - {name: Ben, kills: ""}
  - team: Bears
    players:
      - {name: Bo, kills: -2}
`)
	m, err := readTeamMatch(path)
	require.NoError(t, err)
	assert.Equal(t, model.KindSemifinal, m.Kind)
	assert.Equal(t, 3, m.Number)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, 4, m.Entries[0].KillCount())
	assert.False(t, m.Entries[0].Players[1].Kills.Set)
	assert.False(t, m.Entries[1].Position.Set)
	assert.Equal(t, model.NewOptInt(0), m.Entries[1].Players[0].Kills, "negative kills clamp to zero")
}

func TestReadSlotMatch(t *testing.T) {
	path := writeYAML(t, t.TempDir(), "s.yaml", `
kind: final
number: 1
entries:
  - {slot: 1, kills: 5, position: 2}
  - {slot: 7, kills: 9}
`)
	m, err := readSlotMatch(path)
	require.NoError(t, err)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, 7, m.Entries[1].Slot)
	assert.False(t, m.Entries[1].Position.Set)

	_, err = readSlotMatch(writeYAML(t, t.TempDir(), "bad.yaml", "kind: final\nentries:\n  - {slot: 1, points: 40}\n"))
	assert.Error(t, err, "points are derived, not accepted as input")
}

// Non-numeric kills are refused at the file boundary instead of silently
// scoring zero.
func TestReadSlotMatch_RejectsNonNumericKills(t *testing.T) {
	_, err := readSlotMatch(writeYAML(t, t.TempDir(), "abc.yaml", "kind: final\nentries:\n  - {slot: 1, kills: abc}\n"))
	assert.ErrorContains(t, err, "not a whole number")
}

func TestCountKind(t *testing.T) {
	list := []model.MatchSummary{
		{Kind: model.KindSemifinal}, {Kind: model.KindSemifinal}, {Kind: model.KindFinal},
	}
	assert.Equal(t, 3, countKind(list, ""))
	assert.Equal(t, 2, countKind(list, model.KindSemifinal))
	assert.Equal(t, 1, countKind(list, model.KindFinal))
	assert.Zero(t, countKind(nil, model.KindFinal))
}

func TestKindFlag(t *testing.T) {
	k, err := kindFlag("")
	require.NoError(t, err)
	assert.Equal(t, model.MatchKind(""), k)

	k, err = kindFlag("final")
	require.NoError(t, err)
	assert.Equal(t, model.KindFinal, k)

	_, err = kindFlag("quarter")
	assert.Error(t, err)
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCommands_SlotFlowEndToEnd(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "cup.db")
	base := []string{"--db", db, "--config", filepath.Join(dir, "none.yaml")}
	run := func(args ...string) error { return execute(t, append(args, base...)...) }

	require.NoError(t, run("init", "--flow", "slot", "--name", "Night Cup"))
	assert.ErrorIs(t, run("init", "--flow", "slot"), tournament.ErrAlreadyInitialized)

	require.NoError(t, run("slot", "set", "1", "Red", "Foxes"))
	match := writeYAML(t, dir, "m1.yaml", `
kind: semifinal
number: 1
entries:
  - {slot: 1, kills: 3, position: 1}
  - {slot: 2, kills: 6, position: 2}
`)
	require.NoError(t, run("match", "add", match))
	require.NoError(t, run("config", "set-kill", "2"))
	assert.ErrorIs(t, run("match", "show", "2"), tournament.ErrMatchNotFound)

	out := filepath.Join(dir, "cup.xlsx")
	require.NoError(t, run("export", "xlsx", "--out", out))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	store, err := storage.Open(db)
	require.NoError(t, err)
	defer store.Close()
	svc := tournament.New(store)

	standings, err := svc.Standings("")
	require.NoError(t, err)
	require.Len(t, standings, 2)
	// Kill points 2: Slot 2 = 12+9 = 21, Red Foxes = 6+12 = 18.
	assert.Equal(t, "Slot 2", standings[0].Team)
	assert.Equal(t, 21.0, standings[0].TotalPoints)
	assert.Equal(t, "Red Foxes", standings[1].Team)
	assert.Equal(t, 18.0, standings[1].TotalPoints)

	require.NoError(t, run("match", "delete", "1"))
	list, err := svc.Matches()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCommands_TeamFlowGamePresetAndArchive(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "spring.db")
	base := []string{"--db", db, "--config", filepath.Join(dir, "none.yaml")}
	run := func(args ...string) error { return execute(t, append(args, base...)...) }

	require.NoError(t, run("init", "--flow", "team", "--name", "Spring Cup", "--game", "valorant"))

	big := writeYAML(t, dir, "big.yaml", `
name: Wolves
players: [{name: a}, {name: b}, {name: c}, {name: d}, {name: e}, {name: f}]
`)
	assert.ErrorIs(t, run("team", "add", big), tournament.ErrInvalidEntry)

	match := writeYAML(t, dir, "m1.yaml", `
kind: final
number: 1
entries:
  - team: Wolves
    position: 1
    players: [{name: a, kills: 4}]
  - team: Bears
    position: 2
    players: [{name: b, kills: 1}]
`)
	require.NoError(t, run("match", "add", match))
	require.NoError(t, run("standings", "--kind", "semifinal"))
	require.NoError(t, run("archive", "save", "--clear"))
	require.NoError(t, run("archive", "list", "--flow", "team"))
	require.NoError(t, run("archive", "show", "1"))
	assert.ErrorIs(t, run("archive", "show", "2"), tournament.ErrArchiveNotFound)

	store, err := storage.Open(db)
	require.NoError(t, err)
	defer store.Close()
	svc := tournament.New(store)

	limit, err := svc.MaxTeamSize()
	require.NoError(t, err)
	assert.Equal(t, 5, limit)

	list, err := svc.Matches()
	require.NoError(t, err)
	assert.Empty(t, list, "archive save --clear empties the match list")

	archived, err := svc.Archives(model.FlowTeam)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "Spring Cup", archived[0].Name)
	assert.Equal(t, 1, archived[0].Matches)
	require.Len(t, archived[0].Standings, 2)
	// Wolves: 4 kills + 12 for first place.
	assert.Equal(t, "Wolves", archived[0].Standings[0].Team)
	assert.Equal(t, 16.0, archived[0].Standings[0].TotalPoints)

	require.NoError(t, run("archive", "delete", "1"))
	archived, err = svc.Archives("")
	require.NoError(t, err)
	assert.Empty(t, archived)
}
