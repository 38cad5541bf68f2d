package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-scorekeeper/internal/model"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, model.DefaultScoringConfig(), cfg.Scoring)
	assert.Equal(t, "tournament.db", filepath.Base(cfg.DBPath))
}

func TestLoad_FileReplacesPositionTable(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvLogLevel, "")
	path := writeFile(t, "config.yaml", `
db: /tmp/cup.db
log_level: debug
scoring:
  kill_points: 2
  position_points:
    1: 20
    2: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cup.db", cfg.DBPath)
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, model.ScoringConfig{KillPoints: 2, PositionPoints: map[int]float64{1: 20, 2: 10}}, cfg.Scoring)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvDB, "/data/override.db")
	t.Setenv(EnvLogLevel, "warn")
	path := writeFile(t, "config.yaml", "db: /tmp/file.db\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/override.db", cfg.DBPath)
	assert.Equal(t, log.WarnLevel, cfg.Level())
}

func TestLoad_Rejects(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvLogLevel, "")

	_, err := Load(writeFile(t, "bad.yaml", "scoring: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "neg.yaml", "scoring:\n  kill_points: -1\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "lvl.yaml", "log_level: chatty\n"))
	assert.Error(t, err)
}

func TestLoadScoring(t *testing.T) {
	path := writeFile(t, "scoring.yaml", `
kill_points: 1.5
position_points:
  1: 15
  2: 12
  3: 10
`)
	cfg, err := LoadScoring(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.KillPoints)
	assert.Equal(t, 15.0, cfg.PositionPoints[1])
	assert.Len(t, cfg.PositionPoints, 3)

	_, err = LoadScoring(writeFile(t, "bad.yaml", "position_points:\n  0: 5\n"))
	assert.Error(t, err)

	_, err = LoadScoring(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
