package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pable/go-scorekeeper/internal/model"
)

// teamFile accepts either a single team document or a "teams:" list.
type teamFile struct {
	Teams      []model.Team `yaml:"teams"`
	model.Team `yaml:",inline"`
}

// decodeStrict decodes one YAML document from path into out, rejecting
// unknown keys so typos in hand-written files surface early.
func decodeStrict(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s is empty", path)
		}
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func readTeams(path string) ([]model.Team, error) {
	var tf teamFile
	if err := decodeStrict(path, &tf); err != nil {
		return nil, err
	}
	teams := tf.Teams
	if tf.Name != "" || len(tf.Players) > 0 {
		teams = append(teams, tf.Team)
	}
	if len(teams) == 0 {
		return nil, fmt.Errorf("%s: no teams found", path)
	}
	return teams, nil
}

func readTeamMatch(path string) (model.TeamMatch, error) {
	var m model.TeamMatch
	err := decodeStrict(path, &m)
	return m, err
}

func readSlotMatch(path string) (model.SlotMatch, error) {
	var m model.SlotMatch
	err := decodeStrict(path, &m)
	return m, err
}
