package model

import (
	"fmt"
	"strings"
)

// Game is a title preset. MaxTeamSize caps how many players a team-flow
// roster or match entry may list.
type Game struct {
	ID          string
	Name        string
	MaxTeamSize int
}

// Games lists the built-in presets.
var Games = []Game{
	{ID: "free-fire", Name: "Free Fire", MaxTeamSize: 4},
	{ID: "bgmi", Name: "BGMI", MaxTeamSize: 4},
	{ID: "valorant", Name: "Valorant", MaxTeamSize: 5},
	{ID: "call-of-duty", Name: "Call of Duty", MaxTeamSize: 4},
}

// LookupGame finds a preset by id, case-insensitively.
func LookupGame(id string) (Game, error) {
	for _, g := range Games {
		if strings.EqualFold(g.ID, id) {
			return g, nil
		}
	}
	ids := make([]string, len(Games))
	for i, g := range Games {
		ids[i] = g.ID
	}
	return Game{}, fmt.Errorf("unknown game %q (want one of %s)", id, strings.Join(ids, ", "))
}
