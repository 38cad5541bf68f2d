package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-scorekeeper/internal/model"
)

// ---- Registries ----

// SaveTeam inserts or replaces a team and its roster.
func (db *DB) SaveTeam(t model.Team) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT OR IGNORE INTO teams(name) VALUES (?)", t.Name); err != nil {
		return fmt.Errorf("insert team %s: %w", t.Name, err)
	}
	if _, err := tx.Exec("DELETE FROM team_players WHERE team_name = ?", t.Name); err != nil {
		return fmt.Errorf("clear roster %s: %w", t.Name, err)
	}
	stmt, err := tx.Prepare("INSERT INTO team_players(team_name, idx, name, uid, ign) VALUES (?,?,?,?,?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, p := range t.Players {
		if _, err := stmt.Exec(t.Name, i, p.Name, p.UID, p.InGameName); err != nil {
			return fmt.Errorf("insert player %s/%s: %w", t.Name, p.Name, err)
		}
	}
	return tx.Commit()
}

// DeleteTeam removes a registered team. Matches already played keep their copy.
func (db *DB) DeleteTeam(name string) (bool, error) {
	if _, err := db.conn.Exec("DELETE FROM team_players WHERE team_name = ?", name); err != nil {
		return false, err
	}
	res, err := db.conn.Exec("DELETE FROM teams WHERE name = ?", name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Teams returns all registered teams ordered by name, with rosters in entry order.
func (db *DB) Teams() ([]model.Team, error) {
	rows, err := db.conn.Query(`
		SELECT t.name, p.name, p.uid, p.ign
		FROM teams t LEFT JOIN team_players p ON p.team_name = t.name
		ORDER BY t.name, p.idx`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Team
	for rows.Next() {
		var team string
		var name, uid, ign sql.NullString
		if err := rows.Scan(&team, &name, &uid, &ign); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].Name != team {
			out = append(out, model.Team{Name: team})
		}
		if name.Valid {
			t := &out[len(out)-1]
			t.Players = append(t.Players, model.Player{Name: name.String, UID: uid.String, InGameName: ign.String})
		}
	}
	return out, rows.Err()
}

// SaveSlot assigns a team name to a slot number.
func (db *DB) SaveSlot(s model.Slot) error {
	_, err := db.conn.Exec("INSERT OR REPLACE INTO slots(slot, team_name) VALUES (?, ?)", s.Number, s.Team)
	return err
}

// Slots returns the slot registry ordered by slot number.
func (db *DB) Slots() ([]model.Slot, error) {
	rows, err := db.conn.Query("SELECT slot, team_name FROM slots ORDER BY slot")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Slot
	for rows.Next() {
		var s model.Slot
		if err := rows.Scan(&s.Number, &s.Team); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ---- Matches ----

func nextSeq(tx *sql.Tx) (int, error) {
	var seq int
	err := tx.QueryRow("SELECT COALESCE(MAX(seq), 0) + 1 FROM matches").Scan(&seq)
	return seq, err
}

func insertMatchRow(tx *sql.Tx, id string, kind model.MatchKind, number int) error {
	seq, err := nextSeq(tx)
	if err != nil {
		return fmt.Errorf("next seq: %w", err)
	}
	_, err = tx.Exec("INSERT INTO matches(id, seq, kind, number) VALUES (?, ?, ?, ?)",
		id, seq, string(kind), number)
	return err
}

// InsertTeamMatch appends a team-flow match after every stored match.
func (db *DB) InsertTeamMatch(m model.TeamMatch) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertMatchRow(tx, m.ID, m.Kind, m.Number); err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	entryStmt, err := tx.Prepare(`
		INSERT INTO team_entries(match_id, idx, team_name, position, points)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer entryStmt.Close()
	playerStmt, err := tx.Prepare(`
		INSERT INTO entry_players(match_id, entry_idx, idx, name, uid, ign, kills)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer playerStmt.Close()

	for i, e := range m.Entries {
		if _, err := entryStmt.Exec(m.ID, i, e.Team, nullInt(e.Position), e.Points); err != nil {
			return fmt.Errorf("insert team entry %s: %w", e.Team, err)
		}
		for j, p := range e.Players {
			if _, err := playerStmt.Exec(m.ID, i, j, p.Name, p.UID, p.InGameName, nullInt(p.Kills)); err != nil {
				return fmt.Errorf("insert player %s/%s: %w", e.Team, p.Name, err)
			}
		}
	}
	return tx.Commit()
}

// InsertSlotMatch appends a slot-flow match after every stored match.
func (db *DB) InsertSlotMatch(m model.SlotMatch) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertMatchRow(tx, m.ID, m.Kind, m.Number); err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO slot_entries(match_id, idx, slot, team_name, kills, position, points)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range m.Entries {
		if _, err := stmt.Exec(m.ID, i, e.Slot, e.Team, nullInt(e.Kills), nullInt(e.Position), e.Points); err != nil {
			return fmt.Errorf("insert slot entry %d: %w", e.Slot, err)
		}
	}
	return tx.Commit()
}

// ListMatches returns match headers in tournament order with 1-based indexes.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT m.id, m.kind, m.number,
		       (SELECT COUNT(1) FROM team_entries t WHERE t.match_id = m.id) +
		       (SELECT COUNT(1) FROM slot_entries s WHERE s.match_id = m.id)
		FROM matches m ORDER BY m.seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		var kind string
		if err := rows.Scan(&s.ID, &kind, &s.Number, &s.Entries); err != nil {
			return nil, err
		}
		s.Kind = model.MatchKind(kind)
		s.Index = len(out) + 1
		out = append(out, s)
	}
	return out, rows.Err()
}

// TeamMatches loads every team-flow match in tournament order.
func (db *DB) TeamMatches() ([]model.TeamMatch, error) {
	headers, err := db.ListMatches()
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	out := make([]model.TeamMatch, 0, len(headers))
	byID := make(map[string]int, len(headers))
	for i, h := range headers {
		out = append(out, model.TeamMatch{ID: h.ID, Kind: h.Kind, Number: h.Number})
		byID[h.ID] = i
	}

	rows, err := db.conn.Query(`
		SELECT match_id, team_name, position, points
		FROM team_entries ORDER BY match_id, idx`)
	if err != nil {
		return nil, err
	}
	entries := make(map[string][]*model.TeamEntry)
	for rows.Next() {
		var id string
		var pos sql.NullInt64
		e := &model.TeamEntry{}
		if err := rows.Scan(&id, &e.Team, &pos, &e.Points); err != nil {
			rows.Close()
			return nil, err
		}
		e.Position = optInt(pos)
		entries[id] = append(entries[id], e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	rows, err = db.conn.Query(`
		SELECT match_id, entry_idx, name, uid, ign, kills
		FROM entry_players ORDER BY match_id, entry_idx, idx`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var entryIdx int
		var kills sql.NullInt64
		var p model.Player
		if err := rows.Scan(&id, &entryIdx, &p.Name, &p.UID, &p.InGameName, &kills); err != nil {
			return nil, err
		}
		p.Kills = optInt(kills)
		es := entries[id]
		if entryIdx < 0 || entryIdx >= len(es) {
			return nil, fmt.Errorf("player %s references missing entry %d of match %s", p.Name, entryIdx, id)
		}
		es[entryIdx].Players = append(es[entryIdx].Players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for id, es := range entries {
		if i, ok := byID[id]; ok {
			out[i].Entries = es
		}
	}
	return out, nil
}

// SlotMatches loads every slot-flow match in tournament order.
func (db *DB) SlotMatches() ([]model.SlotMatch, error) {
	headers, err := db.ListMatches()
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	out := make([]model.SlotMatch, 0, len(headers))
	byID := make(map[string]int, len(headers))
	for i, h := range headers {
		out = append(out, model.SlotMatch{ID: h.ID, Kind: h.Kind, Number: h.Number})
		byID[h.ID] = i
	}

	rows, err := db.conn.Query(`
		SELECT match_id, slot, team_name, kills, position, points
		FROM slot_entries ORDER BY match_id, idx`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var kills, pos sql.NullInt64
		e := &model.SlotEntry{}
		if err := rows.Scan(&id, &e.Slot, &e.Team, &kills, &pos, &e.Points); err != nil {
			return nil, err
		}
		e.Kills = optInt(kills)
		e.Position = optInt(pos)
		if i, ok := byID[id]; ok {
			out[i].Entries = append(out[i].Entries, e)
		}
	}
	return out, rows.Err()
}

// DeleteMatch removes a match and its entries. Reports whether it existed.
func (db *DB) DeleteMatch(id string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	for _, table := range []string{"entry_players", "team_entries", "slot_entries"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE match_id = ?", id); err != nil {
			return false, fmt.Errorf("delete %s: %w", table, err)
		}
	}
	res, err := tx.Exec("DELETE FROM matches WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

// ClearMatches removes every match and returns how many there were.
func (db *DB) ClearMatches() (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, table := range []string{"entry_players", "team_entries", "slot_entries"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("clear %s: %w", table, err)
		}
	}
	res, err := tx.Exec("DELETE FROM matches")
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), tx.Commit()
}

// UpdateTeamPoints rewrites the stored points of every team-flow entry.
func (db *DB) UpdateTeamPoints(matches []model.TeamMatch) error {
	return db.updatePoints("team_entries", func(emit func(id string, idx int, pts float64) error) error {
		for _, m := range matches {
			for i, e := range m.Entries {
				if err := emit(m.ID, i, e.Points); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// UpdateSlotPoints rewrites the stored points of every slot-flow entry.
func (db *DB) UpdateSlotPoints(matches []model.SlotMatch) error {
	return db.updatePoints("slot_entries", func(emit func(id string, idx int, pts float64) error) error {
		for _, m := range matches {
			for i, e := range m.Entries {
				if err := emit(m.ID, i, e.Points); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (db *DB) updatePoints(table string, walk func(emit func(id string, idx int, pts float64) error) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("UPDATE " + table + " SET points = ? WHERE match_id = ? AND idx = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	err = walk(func(id string, idx int, pts float64) error {
		if _, err := stmt.Exec(pts, id, idx); err != nil {
			return fmt.Errorf("update %s %s/%d: %w", table, id, idx, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return tx.Commit()
}

// QueryRaw runs an arbitrary read query and returns every value as text.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
