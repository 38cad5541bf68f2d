package tournament

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-scorekeeper/internal/model"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	flow        model.Flow
	name        string
	cfg         model.ScoringConfig
	teams       []model.Team
	slots       []model.Slot
	teamMatches []model.TeamMatch
	slotMatches []model.SlotMatch
	maxTeam     int
	archive     []model.ArchivedTournament
	pointWrites int
}

var _ Store = (*memStore)(nil)

func (m *memStore) Flow() (model.Flow, error) {
	if m.flow == "" {
		return "", ErrNotInitialized
	}
	return m.flow, nil
}
func (m *memStore) SetFlow(f model.Flow) error   { m.flow = f; return nil }
func (m *memStore) Name() (string, error)        { return m.name, nil }
func (m *memStore) SetName(n string) error       { m.name = n; return nil }
func (m *memStore) Teams() ([]model.Team, error) { return m.teams, nil }
func (m *memStore) Slots() ([]model.Slot, error) { return m.slots, nil }

func (m *memStore) ScoringConfig() (model.ScoringConfig, error) { return m.cfg.Clone(), nil }
func (m *memStore) SaveScoringConfig(c model.ScoringConfig) error {
	m.cfg = c.Clone()
	return nil
}

func (m *memStore) SaveTeam(t model.Team) error {
	for i := range m.teams {
		if m.teams[i].Name == t.Name {
			m.teams[i] = t
			return nil
		}
	}
	m.teams = append(m.teams, t)
	return nil
}

func (m *memStore) DeleteTeam(name string) (bool, error) {
	for i := range m.teams {
		if m.teams[i].Name == name {
			m.teams = append(m.teams[:i], m.teams[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SaveSlot(s model.Slot) error {
	m.slots = append(m.slots, s)
	return nil
}

func (m *memStore) ListMatches() ([]model.MatchSummary, error) {
	var out []model.MatchSummary
	for _, x := range m.teamMatches {
		out = append(out, model.MatchSummary{Index: len(out) + 1, ID: x.ID, Kind: x.Kind, Number: x.Number, Entries: len(x.Entries)})
	}
	for _, x := range m.slotMatches {
		out = append(out, model.MatchSummary{Index: len(out) + 1, ID: x.ID, Kind: x.Kind, Number: x.Number, Entries: len(x.Entries)})
	}
	return out, nil
}

// Loads hand back copies so the service cannot mutate stored state directly.
func (m *memStore) TeamMatches() ([]model.TeamMatch, error) {
	out := make([]model.TeamMatch, len(m.teamMatches))
	for i, x := range m.teamMatches {
		out[i] = x
		out[i].Entries = make([]*model.TeamEntry, len(x.Entries))
		for j, e := range x.Entries {
			c := *e
			out[i].Entries[j] = &c
		}
	}
	return out, nil
}

func (m *memStore) SlotMatches() ([]model.SlotMatch, error) {
	out := make([]model.SlotMatch, len(m.slotMatches))
	for i, x := range m.slotMatches {
		out[i] = x
		out[i].Entries = make([]*model.SlotEntry, len(x.Entries))
		for j, e := range x.Entries {
			c := *e
			out[i].Entries[j] = &c
		}
	}
	return out, nil
}

func (m *memStore) InsertTeamMatch(x model.TeamMatch) error {
	m.teamMatches = append(m.teamMatches, x)
	return nil
}

func (m *memStore) InsertSlotMatch(x model.SlotMatch) error {
	m.slotMatches = append(m.slotMatches, x)
	return nil
}

func (m *memStore) DeleteMatch(id string) (bool, error) {
	for i, x := range m.teamMatches {
		if x.ID == id {
			m.teamMatches = append(m.teamMatches[:i], m.teamMatches[i+1:]...)
			return true, nil
		}
	}
	for i, x := range m.slotMatches {
		if x.ID == id {
			m.slotMatches = append(m.slotMatches[:i], m.slotMatches[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) UpdateTeamPoints(ms []model.TeamMatch) error {
	m.pointWrites++
	m.teamMatches = ms
	return nil
}

func (m *memStore) UpdateSlotPoints(ms []model.SlotMatch) error {
	m.pointWrites++
	m.slotMatches = ms
	return nil
}

func (m *memStore) MaxTeamSize() (int, error)  { return m.maxTeam, nil }
func (m *memStore) SetMaxTeamSize(n int) error { m.maxTeam = n; return nil }

func (m *memStore) ClearMatches() (int, error) {
	n := len(m.teamMatches) + len(m.slotMatches)
	m.teamMatches, m.slotMatches = nil, nil
	return n, nil
}

func (m *memStore) SaveArchive(a model.ArchivedTournament) error {
	m.archive = append(m.archive, a)
	return nil
}

func (m *memStore) Archives() ([]model.ArchivedTournament, error) {
	out := make([]model.ArchivedTournament, len(m.archive))
	for i, a := range m.archive {
		a.Index = i + 1
		out[i] = a
	}
	return out, nil
}

func (m *memStore) DeleteArchive(id string) (bool, error) {
	for i, a := range m.archive {
		if a.ID == id {
			m.archive = append(m.archive[:i], m.archive[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ClearArchives() (int, error) {
	n := len(m.archive)
	m.archive = nil
	return n, nil
}

func scenarioConfig() model.ScoringConfig {
	return model.ScoringConfig{KillPoints: 1, PositionPoints: map[int]float64{1: 12, 2: 9, 3: 8}}
}

func newService(t *testing.T, flow model.Flow) (*Service, *memStore) {
	t.Helper()
	store := &memStore{}
	svc := New(store)
	ids := 0
	svc.newID = func() string {
		ids++
		return fmt.Sprintf("m%d", ids)
	}
	require.NoError(t, svc.Init(flow, "Test Cup", scenarioConfig()))
	return svc, store
}

func kills(n int) model.OptInt { return model.NewOptInt(n) }

func scenarioA() model.TeamMatch {
	return model.TeamMatch{
		Kind: model.KindSemifinal, Number: 1,
		Entries: []*model.TeamEntry{
			{Team: "X", Position: model.NewOptInt(1), Players: []model.Player{{Name: "x1", Kills: kills(3)}, {Name: "x2", Kills: kills(2)}}},
			{Team: "Y", Position: model.NewOptInt(2), Players: []model.Player{{Name: "y1", Kills: kills(1)}, {Name: "y2", Kills: kills(1)}}},
		},
	}
}

func TestInit_RejectsSecondInit(t *testing.T) {
	svc, _ := newService(t, model.FlowTeam)
	err := svc.Init(model.FlowSlot, "again", scenarioConfig())
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestInit_RejectsInvalidConfig(t *testing.T) {
	svc := New(&memStore{})
	err := svc.Init(model.FlowTeam, "", model.ScoringConfig{KillPoints: -1})
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestAddTeamMatch_ScoresAndStores(t *testing.T) {
	svc, store := newService(t, model.FlowTeam)

	m, err := svc.AddTeamMatch(scenarioA())
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, 17.0, m.Entries[0].Points)
	assert.Equal(t, 11.0, m.Entries[1].Points)
	require.Len(t, store.teamMatches, 1)
}

func TestAddTeamMatch_WrongFlow(t *testing.T) {
	svc, _ := newService(t, model.FlowSlot)
	_, err := svc.AddTeamMatch(scenarioA())
	assert.ErrorIs(t, err, ErrFlowMismatch)
}

func TestAddTeamMatch_Validation(t *testing.T) {
	svc, _ := newService(t, model.FlowTeam)

	cases := map[string]func(m *model.TeamMatch){
		"bad kind":       func(m *model.TeamMatch) { m.Kind = "quarterfinal" },
		"zero number":    func(m *model.TeamMatch) { m.Number = 0 },
		"no teams":       func(m *model.TeamMatch) { m.Entries = nil },
		"blank team":     func(m *model.TeamMatch) { m.Entries[0].Team = "" },
		"duplicate team": func(m *model.TeamMatch) { m.Entries[1].Team = "X" },
		"zero position":  func(m *model.TeamMatch) { m.Entries[0].Position = model.NewOptInt(0) },
		"unnamed player": func(m *model.TeamMatch) { m.Entries[0].Players[0].Name = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := scenarioA()
			mutate(&m)
			_, err := svc.AddTeamMatch(m)
			assert.ErrorIs(t, err, ErrInvalidEntry)
		})
	}
}

func TestAddTeamMatch_FillsIdentityFromRoster(t *testing.T) {
	svc, _ := newService(t, model.FlowTeam)
	require.NoError(t, svc.RegisterTeam(model.Team{Name: "X", Players: []model.Player{
		{Name: "x1", UID: "111", InGameName: "Xone"},
	}}))

	m, err := svc.AddTeamMatch(scenarioA())
	require.NoError(t, err)
	assert.Equal(t, "111", m.Entries[0].Players[0].UID)
	assert.Equal(t, "Xone", m.Entries[0].Players[0].InGameName)
	assert.Empty(t, m.Entries[0].Players[1].UID)
}

func TestUpdateConfig_RescoresStoredMatches(t *testing.T) {
	svc, store := newService(t, model.FlowTeam)
	_, err := svc.AddTeamMatch(scenarioA())
	require.NoError(t, err)

	cfg := scenarioConfig()
	cfg.KillPoints = 2
	require.NoError(t, svc.UpdateConfig(cfg))

	assert.Equal(t, 1, store.pointWrites)
	assert.Equal(t, 22.0, store.teamMatches[0].Entries[0].Points)
	assert.Equal(t, 13.0, store.teamMatches[0].Entries[1].Points)
}

func TestUpdateConfig_NotInitializedLeavesConfigUntouched(t *testing.T) {
	store := &memStore{}
	svc := New(store)
	err := svc.UpdateConfig(scenarioConfig())
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Nil(t, store.cfg.PositionPoints)
	assert.Zero(t, store.cfg.KillPoints)
}

func TestUpdateConfig_Invalid(t *testing.T) {
	svc, _ := newService(t, model.FlowTeam)
	err := svc.UpdateConfig(model.ScoringConfig{PositionPoints: map[int]float64{1: -3}})
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestTeamMatches_NoWriteWhenPointsCurrent(t *testing.T) {
	svc, store := newService(t, model.FlowTeam)
	_, err := svc.AddTeamMatch(scenarioA())
	require.NoError(t, err)

	_, err = svc.TeamMatches()
	require.NoError(t, err)
	assert.Equal(t, 0, store.pointWrites)
}

func TestTeamMatches_RewritesStalePoints(t *testing.T) {
	svc, store := newService(t, model.FlowTeam)
	_, err := svc.AddTeamMatch(scenarioA())
	require.NoError(t, err)
	store.teamMatches[0].Entries[0].Points = 1

	matches, err := svc.TeamMatches()
	require.NoError(t, err)
	assert.Equal(t, 17.0, matches[0].Entries[0].Points)
	assert.Equal(t, 1, store.pointWrites)
}

func TestStandingsAndMVPs_TeamFlow(t *testing.T) {
	svc, _ := newService(t, model.FlowTeam)
	_, err := svc.AddTeamMatch(scenarioA())
	require.NoError(t, err)
	final := model.TeamMatch{
		Kind: model.KindFinal, Number: 1,
		Entries: []*model.TeamEntry{
			{Team: "Y", Position: model.NewOptInt(1), Players: []model.Player{{Name: "y1", Kills: kills(5)}}},
			{Team: "X", Position: model.NewOptInt(3), Players: []model.Player{{Name: "x1", Kills: kills(1)}}},
		},
	}
	_, err = svc.AddTeamMatch(final)
	require.NoError(t, err)

	all, err := svc.Standings("")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Y", all[0].Team)
	assert.Equal(t, 28.0, all[0].TotalPoints)
	assert.Equal(t, 1, all[0].BoyaahCount)
	assert.Equal(t, "X", all[1].Team)
	assert.Equal(t, 26.0, all[1].TotalPoints)
	assert.Equal(t, 1, all[1].BoyaahCount)

	finals, err := svc.Standings(model.KindFinal)
	require.NoError(t, err)
	assert.Equal(t, "Y", finals[0].Team)
	assert.Equal(t, 17.0, finals[0].TotalPoints)

	mvps, err := svc.TournamentMVPs("")
	require.NoError(t, err)
	require.Len(t, mvps, 1)
	assert.Equal(t, "y1", mvps[0].Name)
	assert.Equal(t, 6, mvps[0].Kills)

	semiMVPs, err := svc.TournamentMVPs(model.KindSemifinal)
	require.NoError(t, err)
	require.Len(t, semiMVPs, 1)
	assert.Equal(t, "x1", semiMVPs[0].Name)
}

func TestTournamentMVPs_SlotFlowRejected(t *testing.T) {
	svc, _ := newService(t, model.FlowSlot)
	_, err := svc.TournamentMVPs("")
	assert.ErrorIs(t, err, ErrFlowMismatch)
}

func TestAddSlotMatch_ResolvesRegistryNames(t *testing.T) {
	svc, _ := newService(t, model.FlowSlot)
	require.NoError(t, svc.AssignSlot(model.Slot{Number: 3, Team: "Sharks"}))

	m, err := svc.AddSlotMatch(model.SlotMatch{
		Kind: model.KindSemifinal, Number: 1,
		Entries: []*model.SlotEntry{
			{Slot: 3, Kills: kills(5)},
			{Slot: 4, Kills: kills(1), Position: model.NewOptInt(2)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sharks", m.Entries[0].Team)
	assert.Equal(t, 5.0, m.Entries[0].Points)
	assert.Equal(t, "Slot 4", m.Entries[1].TeamName())
	assert.Equal(t, 10.0, m.Entries[1].Points)

	st, err := svc.Standings("")
	require.NoError(t, err)
	require.Len(t, st, 2)
	assert.Equal(t, "Slot 4", st[0].Team)
	assert.Equal(t, 1, st[0].BoyaahCount)
}

func TestAddSlotMatch_Validation(t *testing.T) {
	svc, _ := newService(t, model.FlowSlot)
	_, err := svc.AddSlotMatch(model.SlotMatch{
		Kind: model.KindFinal, Number: 1,
		Entries: []*model.SlotEntry{{Slot: 1}, {Slot: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = svc.AddSlotMatch(model.SlotMatch{
		Kind: model.KindFinal, Number: 1,
		Entries: []*model.SlotEntry{{Slot: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestDeleteMatch_ByIndex(t *testing.T) {
	svc, store := newService(t, model.FlowTeam)
	for i := 1; i <= 3; i++ {
		m := scenarioA()
		m.Number = i
		_, err := svc.AddTeamMatch(m)
		require.NoError(t, err)
	}

	gone, err := svc.DeleteMatch(2)
	require.NoError(t, err)
	assert.Equal(t, "m2", gone.ID)
	require.Len(t, store.teamMatches, 2)
	assert.Equal(t, 3, store.teamMatches[1].Number)

	_, err = svc.DeleteMatch(3)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	_, err = svc.DeleteMatch(0)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	st, err := svc.Standings("")
	require.NoError(t, err)
	assert.Equal(t, 2, st[0].MatchesPlayed)
	assert.Equal(t, 34.0, st[0].TotalPoints)
}

func TestMatchAt(t *testing.T) {
	svc, _ := newService(t, model.FlowTeam)
	_, err := svc.AddTeamMatch(scenarioA())
	require.NoError(t, err)

	m, err := svc.TeamMatchAt(1)
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)

	_, err = svc.TeamMatchAt(2)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = svc.SlotMatchAt(1)
	assert.ErrorIs(t, err, ErrFlowMismatch)
}

func TestRegisterTeam_Validation(t *testing.T) {
	svc, _ := newService(t, model.FlowTeam)
	assert.ErrorIs(t, svc.RegisterTeam(model.Team{}), ErrInvalidEntry)
	assert.ErrorIs(t, svc.RegisterTeam(model.Team{Name: "X", Players: []model.Player{{Name: "a"}, {Name: "a"}}}), ErrInvalidEntry)
	assert.NoError(t, svc.RegisterTeam(model.Team{Name: "X", Players: []model.Player{{Name: "a", UID: "1"}, {Name: "a", UID: "2"}}}))

	ok, err := svc.RemoveTeam("X")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAssignSlot_Validation(t *testing.T) {
	svc, _ := newService(t, model.FlowSlot)
	assert.ErrorIs(t, svc.AssignSlot(model.Slot{Number: 0, Team: "A"}), ErrInvalidEntry)
	assert.ErrorIs(t, svc.AssignSlot(model.Slot{Number: 1}), ErrInvalidEntry)

	team, _ := newService(t, model.FlowTeam)
	assert.ErrorIs(t, team.AssignSlot(model.Slot{Number: 1, Team: "A"}), ErrFlowMismatch)
}

func TestMaxTeamSize_EnforcedOnRostersAndMatches(t *testing.T) {
	svc, store := newService(t, model.FlowTeam)
	require.NoError(t, svc.RegisterTeam(model.Team{Name: "Big", Players: []model.Player{
		{Name: "a"}, {Name: "b"}, {Name: "c"},
	}}))

	err := svc.SetMaxTeamSize(2)
	assert.ErrorIs(t, err, ErrInvalidEntry, "Big already has three players")
	assert.Zero(t, store.maxTeam)

	require.NoError(t, svc.SetMaxTeamSize(4))
	n, err := svc.MaxTeamSize()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	five := model.Team{Name: "Five", Players: []model.Player{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"}}}
	assert.ErrorIs(t, svc.RegisterTeam(five), ErrInvalidEntry)
	require.NoError(t, svc.RegisterTeam(model.Team{Name: "Four", Players: five.Players[:4]}))

	m := scenarioA()
	m.Entries[0].Players = append(m.Entries[0].Players,
		model.Player{Name: "x3"}, model.Player{Name: "x4"}, model.Player{Name: "x5"})
	_, err = svc.AddTeamMatch(m)
	assert.ErrorIs(t, err, ErrInvalidEntry)
	assert.Empty(t, store.teamMatches)

	_, err = svc.AddTeamMatch(scenarioA())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetMaxTeamSize(-1), ErrInvalidEntry)
	require.NoError(t, svc.SetMaxTeamSize(0))
	require.NoError(t, svc.RegisterTeam(five))
}

func TestArchive_SavesStandingsAndClears(t *testing.T) {
	svc, store := newService(t, model.FlowTeam)
	saved := time.Date(2026, 5, 2, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return saved }

	_, err := svc.Archive("", false)
	assert.ErrorIs(t, err, ErrInvalidEntry, "nothing to archive yet")

	_, err = svc.AddTeamMatch(scenarioA())
	require.NoError(t, err)

	a, err := svc.Archive("", true)
	require.NoError(t, err)
	assert.Equal(t, "Test Cup", a.Name)
	assert.Equal(t, model.FlowTeam, a.Flow)
	assert.Equal(t, saved, a.SavedAt)
	assert.Equal(t, 1, a.Matches)
	require.Len(t, a.Standings, 2)
	assert.Equal(t, "X", a.Standings[0].Team)
	assert.Equal(t, 17.0, a.Standings[0].TotalPoints)
	assert.Equal(t, 1, a.Standings[0].BoyaahCount)

	assert.Empty(t, store.teamMatches)
	require.Len(t, store.archive, 1)
	cfg, err := svc.Config()
	require.NoError(t, err)
	assert.Equal(t, scenarioConfig(), cfg, "scoring survives the clear")
}

func TestArchive_KeepsMatchesWithoutClear(t *testing.T) {
	svc, store := newService(t, model.FlowSlot)
	_, err := svc.AddSlotMatch(model.SlotMatch{Kind: model.KindFinal, Number: 1, Entries: []*model.SlotEntry{
		{Slot: 1, Kills: kills(2), Position: model.NewOptInt(1)},
	}})
	require.NoError(t, err)

	a, err := svc.Archive("Night Cup", false)
	require.NoError(t, err)
	assert.Equal(t, "Night Cup", a.Name)
	assert.Equal(t, model.FlowSlot, a.Flow)
	require.Len(t, a.Standings, 1)
	assert.Equal(t, "Slot 1", a.Standings[0].Team)
	assert.Len(t, store.slotMatches, 1)
}

func TestArchives_FilterShowDeleteClear(t *testing.T) {
	svc, store := newService(t, model.FlowTeam)
	store.archive = []model.ArchivedTournament{
		{ID: "a1", Name: "Spring", Flow: model.FlowTeam},
		{ID: "a2", Name: "Night", Flow: model.FlowSlot},
		{ID: "a3", Name: "Summer", Flow: model.FlowTeam},
	}

	all, err := svc.Archives("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	slots, err := svc.Archives(model.FlowSlot)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "Night", slots[0].Name)
	assert.Equal(t, 2, slots[0].Index, "filtered lists keep archive indexes")

	a, err := svc.ArchiveAt(3)
	require.NoError(t, err)
	assert.Equal(t, "Summer", a.Name)
	_, err = svc.ArchiveAt(4)
	assert.ErrorIs(t, err, ErrArchiveNotFound)
	_, err = svc.ArchiveAt(0)
	assert.ErrorIs(t, err, ErrArchiveNotFound)

	gone, err := svc.DeleteArchive(1)
	require.NoError(t, err)
	assert.Equal(t, "Spring", gone.Name)
	require.Len(t, store.archive, 2)
	assert.Equal(t, "a2", store.archive[0].ID)

	n, err := svc.ClearArchives()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, store.archive)
}
