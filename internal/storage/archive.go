package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pable/go-scorekeeper/internal/model"
)

// SaveArchive appends a finished tournament to the archive.
func (db *DB) SaveArchive(a model.ArchivedTournament) error {
	standings, err := json.Marshal(a.Standings)
	if err != nil {
		return fmt.Errorf("encode standings: %w", err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO archive(id, seq, name, flow, saved_at, matches, standings)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM archive), ?, ?, ?, ?, ?)`,
		a.ID, a.Name, string(a.Flow), a.SavedAt.UTC().Format(time.RFC3339), a.Matches, string(standings))
	if err != nil {
		return fmt.Errorf("insert archive %s: %w", a.ID, err)
	}
	return nil
}

// Archives returns every archived tournament in the order it was saved.
func (db *DB) Archives() ([]model.ArchivedTournament, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, flow, saved_at, matches, standings
		FROM archive ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ArchivedTournament
	for rows.Next() {
		var a model.ArchivedTournament
		var flow, savedAt, standings string
		if err := rows.Scan(&a.ID, &a.Name, &flow, &savedAt, &a.Matches, &standings); err != nil {
			return nil, err
		}
		if a.Flow, err = model.ParseFlow(flow); err != nil {
			return nil, fmt.Errorf("archive %s: %w", a.ID, err)
		}
		if a.SavedAt, err = time.Parse(time.RFC3339, savedAt); err != nil {
			return nil, fmt.Errorf("archive %s: parse saved_at: %w", a.ID, err)
		}
		if err := json.Unmarshal([]byte(standings), &a.Standings); err != nil {
			return nil, fmt.Errorf("archive %s: decode standings: %w", a.ID, err)
		}
		a.Index = len(out) + 1
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteArchive removes one archived tournament. Reports whether it existed.
func (db *DB) DeleteArchive(id string) (bool, error) {
	res, err := db.conn.Exec("DELETE FROM archive WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ClearArchives empties the archive and returns how many entries it held.
func (db *DB) ClearArchives() (int, error) {
	res, err := db.conn.Exec("DELETE FROM archive")
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
