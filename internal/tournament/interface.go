package tournament

import (
	"errors"

	"github.com/pable/go-scorekeeper/internal/model"
)

var (
	// ErrNotInitialized is returned when a tournament has no flow recorded yet.
	ErrNotInitialized = errors.New("tournament not initialized (run 'scorekeeper init')")
	// ErrFlowMismatch is returned when an operation needs the other flow.
	ErrFlowMismatch = errors.New("operation does not match the tournament flow")
	// ErrAlreadyInitialized is returned by Init on a tournament that has a flow.
	ErrAlreadyInitialized = errors.New("tournament already initialized")
	// ErrMatchNotFound is returned for an out-of-range match index.
	ErrMatchNotFound = errors.New("match not found")
	// ErrInvalidEntry wraps every validation failure of user input.
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrArchiveNotFound is returned for an out-of-range archive index.
	ErrArchiveNotFound = errors.New("archived tournament not found")
)

// Store is the persistence port the service runs on. The scoring core never
// touches it; the service loads plain structs, computes, and saves back.
type Store interface {
	Flow() (model.Flow, error)
	SetFlow(flow model.Flow) error
	Name() (string, error)
	SetName(name string) error

	ScoringConfig() (model.ScoringConfig, error)
	SaveScoringConfig(cfg model.ScoringConfig) error
	// MaxTeamSize is the roster cap; 0 means no cap.
	MaxTeamSize() (int, error)
	SetMaxTeamSize(n int) error

	Teams() ([]model.Team, error)
	SaveTeam(t model.Team) error
	DeleteTeam(name string) (bool, error)
	Slots() ([]model.Slot, error)
	SaveSlot(s model.Slot) error

	ListMatches() ([]model.MatchSummary, error)
	TeamMatches() ([]model.TeamMatch, error)
	SlotMatches() ([]model.SlotMatch, error)
	InsertTeamMatch(m model.TeamMatch) error
	InsertSlotMatch(m model.SlotMatch) error
	DeleteMatch(id string) (bool, error)
	UpdateTeamPoints(matches []model.TeamMatch) error
	UpdateSlotPoints(matches []model.SlotMatch) error
	ClearMatches() (int, error)

	SaveArchive(a model.ArchivedTournament) error
	Archives() ([]model.ArchivedTournament, error)
	DeleteArchive(id string) (bool, error)
	ClearArchives() (int, error)
}
