// Package tournament ties the scoring core to a Store: it loads matches,
// re-derives points against the current config, validates new input and
// saves results back.
package tournament

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pable/go-scorekeeper/internal/aggregator"
	"github.com/pable/go-scorekeeper/internal/model"
)

// Service runs tournament operations against a Store.
type Service struct {
	store Store
	newID func() string
	now   func() time.Time
}

// New returns a Service backed by store.
func New(store Store) *Service {
	return &Service{store: store, newID: uuid.NewString, now: time.Now}
}

// Init records the flow, name and scoring scheme of a fresh tournament.
func (s *Service) Init(flow model.Flow, name string, cfg model.ScoringConfig) error {
	existing, err := s.store.Flow()
	switch {
	case err == nil:
		return fmt.Errorf("%w as %s", ErrAlreadyInitialized, existing)
	case !errors.Is(err, ErrNotInitialized):
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if err := s.store.SetFlow(flow); err != nil {
		return fmt.Errorf("save flow: %w", err)
	}
	if err := s.store.SetName(name); err != nil {
		return fmt.Errorf("save name: %w", err)
	}
	if err := s.store.SaveScoringConfig(cfg); err != nil {
		return fmt.Errorf("save scoring config: %w", err)
	}
	log.Info("tournament initialized", "flow", flow, "name", name)
	return nil
}

// Flow returns the tournament flow.
func (s *Service) Flow() (model.Flow, error) {
	return s.store.Flow()
}

// Name returns the tournament display name.
func (s *Service) Name() (string, error) {
	return s.store.Name()
}

// Config returns the tournament scoring config.
func (s *Service) Config() (model.ScoringConfig, error) {
	return s.store.ScoringConfig()
}

// UpdateConfig validates and stores cfg, then re-scores every stored match.
func (s *Service) UpdateConfig(cfg model.ScoringConfig) error {
	flow, err := s.store.Flow()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if err := s.store.SaveScoringConfig(cfg); err != nil {
		return fmt.Errorf("save scoring config: %w", err)
	}
	if flow == model.FlowSlot {
		_, err = s.SlotMatches()
	} else {
		_, err = s.TeamMatches()
	}
	return err
}

// MaxTeamSize returns the roster cap, 0 when players are unlimited.
func (s *Service) MaxTeamSize() (int, error) {
	return s.store.MaxTeamSize()
}

// SetMaxTeamSize caps the players a roster or match entry may list.
// 0 removes the cap. Registered teams already over the new cap are rejected.
func (s *Service) SetMaxTeamSize(n int) error {
	if _, err := s.store.Flow(); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: max team size must be >= 0, got %d", ErrInvalidEntry, n)
	}
	if n > 0 {
		teams, err := s.store.Teams()
		if err != nil {
			return fmt.Errorf("load teams: %w", err)
		}
		for _, t := range teams {
			if len(t.Players) > n {
				return fmt.Errorf("%w: team %s already has %d players", ErrInvalidEntry, t.Name, len(t.Players))
			}
		}
	}
	if err := s.store.SetMaxTeamSize(n); err != nil {
		return fmt.Errorf("save max team size: %w", err)
	}
	log.Info("max team size updated", "players", n)
	return nil
}

// TeamMatches loads the team-flow matches with points re-derived against
// the current config. Stale stored points are rewritten.
func (s *Service) TeamMatches() ([]model.TeamMatch, error) {
	if err := s.requireFlow(model.FlowTeam); err != nil {
		return nil, err
	}
	cfg, err := s.store.ScoringConfig()
	if err != nil {
		return nil, fmt.Errorf("load scoring config: %w", err)
	}
	matches, err := s.store.TeamMatches()
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	before := snapshot(matches)
	aggregator.ScoreMatches(matches, cfg)
	if changed := diffPoints(before, matches); changed > 0 {
		log.Debug("rescored stale entries", "entries", changed)
		if err := s.store.UpdateTeamPoints(matches); err != nil {
			return nil, fmt.Errorf("save rescored points: %w", err)
		}
	}
	return matches, nil
}

// SlotMatches loads the slot-flow matches with points re-derived against
// the current config. Stale stored points are rewritten.
func (s *Service) SlotMatches() ([]model.SlotMatch, error) {
	if err := s.requireFlow(model.FlowSlot); err != nil {
		return nil, err
	}
	cfg, err := s.store.ScoringConfig()
	if err != nil {
		return nil, fmt.Errorf("load scoring config: %w", err)
	}
	matches, err := s.store.SlotMatches()
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	before := snapshot(matches)
	aggregator.ScoreMatches(matches, cfg)
	if changed := diffPoints(before, matches); changed > 0 {
		log.Debug("rescored stale entries", "entries", changed)
		if err := s.store.UpdateSlotPoints(matches); err != nil {
			return nil, fmt.Errorf("save rescored points: %w", err)
		}
	}
	return matches, nil
}

// AddTeamMatch validates m, fills player identities from the team registry,
// scores it and appends it to the tournament.
func (s *Service) AddTeamMatch(m model.TeamMatch) (model.TeamMatch, error) {
	if err := s.requireFlow(model.FlowTeam); err != nil {
		return m, err
	}
	limit, err := s.store.MaxTeamSize()
	if err != nil {
		return m, fmt.Errorf("load max team size: %w", err)
	}
	if err := validateTeamMatch(m, limit); err != nil {
		return m, err
	}
	teams, err := s.store.Teams()
	if err != nil {
		return m, fmt.Errorf("load teams: %w", err)
	}
	fillFromRosters(&m, teams)

	cfg, err := s.store.ScoringConfig()
	if err != nil {
		return m, fmt.Errorf("load scoring config: %w", err)
	}
	m.ID = s.newID()
	aggregator.ScoreMatch(&m, cfg)
	if err := s.store.InsertTeamMatch(m); err != nil {
		return m, fmt.Errorf("insert match: %w", err)
	}
	log.Info("match added", "kind", m.Kind, "number", m.Number, "teams", len(m.Entries))
	return m, nil
}

// AddSlotMatch validates m, resolves team names from the slot registry,
// scores it and appends it to the tournament.
func (s *Service) AddSlotMatch(m model.SlotMatch) (model.SlotMatch, error) {
	if err := s.requireFlow(model.FlowSlot); err != nil {
		return m, err
	}
	if err := validateSlotMatch(m); err != nil {
		return m, err
	}
	slots, err := s.store.Slots()
	if err != nil {
		return m, fmt.Errorf("load slots: %w", err)
	}
	registry := make(map[int]string, len(slots))
	for _, sl := range slots {
		registry[sl.Number] = sl.Team
	}
	for _, e := range m.Entries {
		if e.Team == "" {
			e.Team = registry[e.Slot]
		}
	}

	cfg, err := s.store.ScoringConfig()
	if err != nil {
		return m, fmt.Errorf("load scoring config: %w", err)
	}
	m.ID = s.newID()
	aggregator.ScoreMatch(&m, cfg)
	if err := s.store.InsertSlotMatch(m); err != nil {
		return m, fmt.Errorf("insert match: %w", err)
	}
	log.Info("match added", "kind", m.Kind, "number", m.Number, "slots", len(m.Entries))
	return m, nil
}

// TeamMatchAt returns the team-flow match at the 1-based index.
func (s *Service) TeamMatchAt(index int) (model.TeamMatch, error) {
	matches, err := s.TeamMatches()
	if err != nil {
		return model.TeamMatch{}, err
	}
	if index < 1 || index > len(matches) {
		return model.TeamMatch{}, fmt.Errorf("%w: index %d (have %d)", ErrMatchNotFound, index, len(matches))
	}
	return matches[index-1], nil
}

// SlotMatchAt returns the slot-flow match at the 1-based index.
func (s *Service) SlotMatchAt(index int) (model.SlotMatch, error) {
	matches, err := s.SlotMatches()
	if err != nil {
		return model.SlotMatch{}, err
	}
	if index < 1 || index > len(matches) {
		return model.SlotMatch{}, fmt.Errorf("%w: index %d (have %d)", ErrMatchNotFound, index, len(matches))
	}
	return matches[index-1], nil
}

// Matches lists match headers in tournament order.
func (s *Service) Matches() ([]model.MatchSummary, error) {
	return s.store.ListMatches()
}

// DeleteMatch removes the match at the 1-based index.
func (s *Service) DeleteMatch(index int) (model.MatchSummary, error) {
	list, err := s.store.ListMatches()
	if err != nil {
		return model.MatchSummary{}, fmt.Errorf("list matches: %w", err)
	}
	if index < 1 || index > len(list) {
		return model.MatchSummary{}, fmt.Errorf("%w: index %d (have %d)", ErrMatchNotFound, index, len(list))
	}
	target := list[index-1]
	ok, err := s.store.DeleteMatch(target.ID)
	if err != nil {
		return target, fmt.Errorf("delete match: %w", err)
	}
	if !ok {
		return target, fmt.Errorf("%w: %s", ErrMatchNotFound, target.ID)
	}
	log.Info("match deleted", "index", index, "kind", target.Kind, "number", target.Number)
	return target, nil
}

// Standings recomputes the ranked table for the tournament, optionally
// limited to one match kind.
func (s *Service) Standings(kind model.MatchKind) ([]model.TeamStanding, error) {
	flow, err := s.store.Flow()
	if err != nil {
		return nil, err
	}
	cfg, err := s.store.ScoringConfig()
	if err != nil {
		return nil, fmt.Errorf("load scoring config: %w", err)
	}
	if flow == model.FlowSlot {
		matches, err := s.SlotMatches()
		if err != nil {
			return nil, err
		}
		return aggregator.SlotStandings(aggregator.FilterKind(matches, kind), cfg), nil
	}
	matches, err := s.TeamMatches()
	if err != nil {
		return nil, err
	}
	return aggregator.TeamStandings(aggregator.FilterKind(matches, kind), cfg), nil
}

// TournamentMVPs returns the players tied for the most kills (team flow only).
func (s *Service) TournamentMVPs(kind model.MatchKind) ([]model.MVP, error) {
	matches, err := s.TeamMatches()
	if err != nil {
		return nil, err
	}
	return aggregator.TournamentMVPs(aggregator.FilterKind(matches, kind)), nil
}

// PlayerTotals returns every player's kill total, highest first (team flow only).
func (s *Service) PlayerTotals(kind model.MatchKind) ([]model.MVP, error) {
	matches, err := s.TeamMatches()
	if err != nil {
		return nil, err
	}
	return aggregator.PlayerTotals(aggregator.FilterKind(matches, kind)), nil
}

// Teams returns the team registry.
func (s *Service) Teams() ([]model.Team, error) {
	return s.store.Teams()
}

// RegisterTeam validates and stores a team roster.
func (s *Service) RegisterTeam(t model.Team) error {
	if err := s.requireFlow(model.FlowTeam); err != nil {
		return err
	}
	if t.Name == "" {
		return fmt.Errorf("%w: team name is required", ErrInvalidEntry)
	}
	limit, err := s.store.MaxTeamSize()
	if err != nil {
		return fmt.Errorf("load max team size: %w", err)
	}
	if err := checkTeamSize(t.Name, len(t.Players), limit); err != nil {
		return err
	}
	seen := make(map[[2]string]bool)
	for _, p := range t.Players {
		if p.Name == "" {
			return fmt.Errorf("%w: team %s has a player without a name", ErrInvalidEntry, t.Name)
		}
		key := [2]string{p.Name, p.UID}
		if seen[key] {
			return fmt.Errorf("%w: team %s lists %s (uid %q) twice", ErrInvalidEntry, t.Name, p.Name, p.UID)
		}
		seen[key] = true
	}
	return s.store.SaveTeam(t)
}

// RemoveTeam deletes a team from the registry.
func (s *Service) RemoveTeam(name string) (bool, error) {
	return s.store.DeleteTeam(name)
}

// Slots returns the slot registry.
func (s *Service) Slots() ([]model.Slot, error) {
	return s.store.Slots()
}

// AssignSlot maps a slot number to a team name.
func (s *Service) AssignSlot(sl model.Slot) error {
	if err := s.requireFlow(model.FlowSlot); err != nil {
		return err
	}
	if sl.Number < 1 {
		return fmt.Errorf("%w: slot must be >= 1, got %d", ErrInvalidEntry, sl.Number)
	}
	if sl.Team == "" {
		return fmt.Errorf("%w: slot %d needs a team name", ErrInvalidEntry, sl.Number)
	}
	return s.store.SaveSlot(sl)
}

// Archive stores the current standings under name (the tournament name when
// empty). With clearMatches set the stored matches are removed afterwards so
// the next tournament starts fresh; teams, slots and scoring are kept.
func (s *Service) Archive(name string, clearMatches bool) (model.ArchivedTournament, error) {
	flow, err := s.store.Flow()
	if err != nil {
		return model.ArchivedTournament{}, err
	}
	list, err := s.store.ListMatches()
	if err != nil {
		return model.ArchivedTournament{}, fmt.Errorf("list matches: %w", err)
	}
	if len(list) == 0 {
		return model.ArchivedTournament{}, fmt.Errorf("%w: no matches to archive", ErrInvalidEntry)
	}
	standings, err := s.Standings("")
	if err != nil {
		return model.ArchivedTournament{}, err
	}
	if name == "" {
		if name, err = s.store.Name(); err != nil {
			return model.ArchivedTournament{}, err
		}
	}
	if name == "" {
		name = "Tournament"
	}

	a := model.ArchivedTournament{
		ID:        s.newID(),
		Name:      name,
		Flow:      flow,
		SavedAt:   s.now(),
		Matches:   len(list),
		Standings: standings,
	}
	if err := s.store.SaveArchive(a); err != nil {
		return a, fmt.Errorf("save archive: %w", err)
	}
	log.Info("tournament archived", "name", name, "flow", flow, "matches", len(list))

	if clearMatches {
		n, err := s.store.ClearMatches()
		if err != nil {
			return a, fmt.Errorf("clear matches: %w", err)
		}
		log.Info("matches cleared", "matches", n)
	}
	return a, nil
}

// Archives lists archived tournaments in save order. A non-empty flow keeps
// only that flow; indexes stay those of the full archive.
func (s *Service) Archives(flow model.Flow) ([]model.ArchivedTournament, error) {
	all, err := s.store.Archives()
	if err != nil {
		return nil, fmt.Errorf("load archive: %w", err)
	}
	if flow == "" {
		return all, nil
	}
	var out []model.ArchivedTournament
	for _, a := range all {
		if a.Flow == flow {
			out = append(out, a)
		}
	}
	return out, nil
}

// ArchiveAt returns the archived tournament at the 1-based index.
func (s *Service) ArchiveAt(index int) (model.ArchivedTournament, error) {
	all, err := s.store.Archives()
	if err != nil {
		return model.ArchivedTournament{}, fmt.Errorf("load archive: %w", err)
	}
	if index < 1 || index > len(all) {
		return model.ArchivedTournament{}, fmt.Errorf("%w: index %d (have %d)", ErrArchiveNotFound, index, len(all))
	}
	return all[index-1], nil
}

// DeleteArchive removes the archived tournament at the 1-based index.
func (s *Service) DeleteArchive(index int) (model.ArchivedTournament, error) {
	a, err := s.ArchiveAt(index)
	if err != nil {
		return a, err
	}
	ok, err := s.store.DeleteArchive(a.ID)
	if err != nil {
		return a, fmt.Errorf("delete archive: %w", err)
	}
	if !ok {
		return a, fmt.Errorf("%w: %s", ErrArchiveNotFound, a.ID)
	}
	log.Info("archive entry deleted", "index", index, "name", a.Name)
	return a, nil
}

// ClearArchives empties the archive and returns how many entries it held.
func (s *Service) ClearArchives() (int, error) {
	n, err := s.store.ClearArchives()
	if err != nil {
		return 0, fmt.Errorf("clear archive: %w", err)
	}
	log.Info("archive cleared", "entries", n)
	return n, nil
}

func (s *Service) requireFlow(want model.Flow) error {
	flow, err := s.store.Flow()
	if err != nil {
		return err
	}
	if flow != want {
		return fmt.Errorf("%w: tournament uses the %s flow", ErrFlowMismatch, flow)
	}
	return nil
}

func fillFromRosters(m *model.TeamMatch, teams []model.Team) {
	rosters := make(map[string][]model.Player, len(teams))
	for _, t := range teams {
		rosters[t.Name] = t.Players
	}
	for _, e := range m.Entries {
		roster := rosters[e.Team]
		for i := range e.Players {
			p := &e.Players[i]
			for _, r := range roster {
				if r.Name != p.Name || (p.UID != "" && p.UID != r.UID) {
					continue
				}
				if p.UID == "" {
					p.UID = r.UID
				}
				if p.InGameName == "" {
					p.InGameName = r.InGameName
				}
				break
			}
		}
	}
}

func snapshot[E model.Entry](matches []model.Match[E]) [][]float64 {
	out := make([][]float64, len(matches))
	for i, m := range matches {
		out[i] = make([]float64, len(m.Entries))
		for j, e := range m.Entries {
			out[i][j] = e.Score()
		}
	}
	return out
}

func diffPoints[E model.Entry](before [][]float64, matches []model.Match[E]) int {
	changed := 0
	for i, m := range matches {
		for j, e := range m.Entries {
			if before[i][j] != e.Score() {
				changed++
			}
		}
	}
	return changed
}
