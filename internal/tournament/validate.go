package tournament

import (
	"fmt"

	"github.com/pable/go-scorekeeper/internal/model"
)

func validateHeader(kind model.MatchKind, number int) error {
	if _, err := model.ParseMatchKind(string(kind)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if number < 1 {
		return fmt.Errorf("%w: match number must be >= 1, got %d", ErrInvalidEntry, number)
	}
	return nil
}

func validatePosition(team string, pos model.OptInt) error {
	if pos.Set && pos.N < 1 {
		return fmt.Errorf("%w: %s: position must be >= 1 or blank", ErrInvalidEntry, team)
	}
	return nil
}

// checkTeamSize enforces the roster cap; limit 0 means none.
func checkTeamSize(team string, players, limit int) error {
	if limit > 0 && players > limit {
		return fmt.Errorf("%w: %s lists %d players, the limit is %d", ErrInvalidEntry, team, players, limit)
	}
	return nil
}

func validateTeamMatch(m model.TeamMatch, maxTeamSize int) error {
	if err := validateHeader(m.Kind, m.Number); err != nil {
		return err
	}
	if len(m.Entries) == 0 {
		return fmt.Errorf("%w: match has no teams", ErrInvalidEntry)
	}
	seen := make(map[string]bool, len(m.Entries))
	for i, e := range m.Entries {
		if e == nil || e.Team == "" {
			return fmt.Errorf("%w: entry %d has no team name", ErrInvalidEntry, i+1)
		}
		if seen[e.Team] {
			return fmt.Errorf("%w: team %s appears twice in one match", ErrInvalidEntry, e.Team)
		}
		seen[e.Team] = true
		if err := validatePosition(e.Team, e.Position); err != nil {
			return err
		}
		if err := checkTeamSize(e.Team, len(e.Players), maxTeamSize); err != nil {
			return err
		}
		for _, p := range e.Players {
			if p.Name == "" {
				return fmt.Errorf("%w: %s has a player without a name", ErrInvalidEntry, e.Team)
			}
		}
	}
	return nil
}

func validateSlotMatch(m model.SlotMatch) error {
	if err := validateHeader(m.Kind, m.Number); err != nil {
		return err
	}
	if len(m.Entries) == 0 {
		return fmt.Errorf("%w: match has no slots", ErrInvalidEntry)
	}
	seen := make(map[int]bool, len(m.Entries))
	for i, e := range m.Entries {
		if e == nil || e.Slot < 1 {
			return fmt.Errorf("%w: entry %d needs a slot >= 1", ErrInvalidEntry, i+1)
		}
		if seen[e.Slot] {
			return fmt.Errorf("%w: slot %d appears twice in one match", ErrInvalidEntry, e.Slot)
		}
		seen[e.Slot] = true
		if err := validatePosition(e.TeamName(), e.Position); err != nil {
			return err
		}
	}
	return nil
}
