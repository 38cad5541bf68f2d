package storage

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/pable/go-scorekeeper/internal/model"
	"github.com/pable/go-scorekeeper/internal/tournament"
)

//go:embed schema.sql
var schemaSQL string

var _ tournament.Store = (*DB)(nil)

const (
	keyFlow       = "flow"
	keyName       = "name"
	keyKillPoints = "kill_points"
	keyTeamSize   = "max_team_size"
)

// DB wraps a sql.DB for one tournament file.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite tournament file at the given path and applies the schema.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection: keeps :memory: databases coherent and serialises writers.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	log.Debug("opened tournament store", "path", path)
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// ---- Settings ----

func (db *DB) setting(key string) (string, bool, error) {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (db *DB) setSetting(key, value string) error {
	_, err := db.conn.Exec("INSERT OR REPLACE INTO settings(key, value) VALUES (?, ?)", key, value)
	return err
}

// Flow returns the tournament's flow, or ErrNotInitialized.
func (db *DB) Flow() (model.Flow, error) {
	v, ok, err := db.setting(keyFlow)
	if err != nil {
		return "", fmt.Errorf("read flow: %w", err)
	}
	if !ok {
		return "", tournament.ErrNotInitialized
	}
	return model.ParseFlow(v)
}

// SetFlow records the tournament's flow.
func (db *DB) SetFlow(flow model.Flow) error {
	return db.setSetting(keyFlow, string(flow))
}

// Name returns the tournament display name (may be empty).
func (db *DB) Name() (string, error) {
	v, _, err := db.setting(keyName)
	return v, err
}

// SetName stores the tournament display name.
func (db *DB) SetName(name string) error {
	return db.setSetting(keyName, name)
}

// ---- Scoring config ----

// ScoringConfig loads the kill value and the position table.
func (db *DB) ScoringConfig() (model.ScoringConfig, error) {
	cfg := model.ScoringConfig{PositionPoints: make(map[int]float64)}

	v, ok, err := db.setting(keyKillPoints)
	if err != nil {
		return cfg, fmt.Errorf("read kill points: %w", err)
	}
	if ok {
		cfg.KillPoints, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("parse kill points %q: %w", v, err)
		}
	}

	rows, err := db.conn.Query("SELECT position, points FROM position_points ORDER BY position")
	if err != nil {
		return cfg, fmt.Errorf("read position points: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pos int
		var pts float64
		if err := rows.Scan(&pos, &pts); err != nil {
			return cfg, err
		}
		cfg.PositionPoints[pos] = pts
	}
	return cfg, rows.Err()
}

// SaveScoringConfig replaces the stored scoring config.
func (db *DB) SaveScoringConfig(cfg model.ScoringConfig) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT OR REPLACE INTO settings(key, value) VALUES (?, ?)",
		keyKillPoints, strconv.FormatFloat(cfg.KillPoints, 'f', -1, 64)); err != nil {
		return fmt.Errorf("save kill points: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM position_points"); err != nil {
		return fmt.Errorf("clear position points: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO position_points(position, points) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for pos, pts := range cfg.PositionPoints {
		if _, err := stmt.Exec(pos, pts); err != nil {
			return fmt.Errorf("save position %d: %w", pos, err)
		}
	}
	return tx.Commit()
}

// MaxTeamSize returns the roster cap, 0 when none is set.
func (db *DB) MaxTeamSize() (int, error) {
	v, ok, err := db.setting(keyTeamSize)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse max team size %q: %w", v, err)
	}
	return n, nil
}

// SetMaxTeamSize stores the roster cap; 0 removes it.
func (db *DB) SetMaxTeamSize(n int) error {
	if n <= 0 {
		_, err := db.conn.Exec("DELETE FROM settings WHERE key = ?", keyTeamSize)
		return err
	}
	return db.setSetting(keyTeamSize, strconv.Itoa(n))
}

func nullInt(o model.OptInt) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(o.N), Valid: o.Set}
}

func optInt(n sql.NullInt64) model.OptInt {
	if !n.Valid {
		return model.Unset
	}
	return model.NewOptInt(int(n.Int64))
}
