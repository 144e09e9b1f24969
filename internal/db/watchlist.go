package db

import (
	"fmt"
	"time"
)

// WatchlistEntry is one plate of interest. Matching is exact on the Latin
// plate text.
type WatchlistEntry struct {
	ID         int64
	Plate      string
	Reason     string
	IsActive   bool
	MatchCount int
	LastSeen   *time.Time
	CreatedAt  time.Time
}

// AddWatchlistEntry inserts an active watchlist entry for a plate.
func (db *DB) AddWatchlistEntry(plate, reason string) (*WatchlistEntry, error) {
	res, err := db.Exec(`
		INSERT INTO watchlist (plate, reason, is_active) VALUES (?, ?, 1)`,
		plate, reason,
	)
	if err != nil {
		return nil, fmt.Errorf("add watchlist entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("add watchlist entry id: %w", err)
	}
	return &WatchlistEntry{ID: id, Plate: plate, Reason: reason, IsActive: true}, nil
}

// DeactivateWatchlistEntry disables matching for a plate without deleting
// its history.
func (db *DB) DeactivateWatchlistEntry(plate string) error {
	_, err := db.Exec(`UPDATE watchlist SET is_active = 0 WHERE plate = ?`, plate)
	if err != nil {
		return fmt.Errorf("deactivate watchlist entry: %w", err)
	}
	return nil
}

// ActiveWatchlist returns active entries keyed by plate text.
func (db *DB) ActiveWatchlist() (map[string]*WatchlistEntry, error) {
	rows, err := db.Query(`
		SELECT id, plate, COALESCE(reason, ''), is_active, match_count,
		       last_seen_unix, created_at_unix
		FROM watchlist
		WHERE is_active = 1`,
	)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]*WatchlistEntry)
	for rows.Next() {
		e := &WatchlistEntry{}
		var lastSeenUnix *int64
		var createdAtUnix int64
		if err := rows.Scan(
			&e.ID, &e.Plate, &e.Reason, &e.IsActive,
			&e.MatchCount, &lastSeenUnix, &createdAtUnix,
		); err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		if lastSeenUnix != nil {
			lastSeen := time.Unix(*lastSeenUnix, 0)
			e.LastSeen = &lastSeen
		}
		e.CreatedAt = time.Unix(createdAtUnix, 0)
		entries[e.Plate] = e
	}
	return entries, rows.Err()
}

// RecordWatchlistMatch bumps an entry's match count and last-seen time.
func (db *DB) RecordWatchlistMatch(plate string) error {
	_, err := db.Exec(`
		UPDATE watchlist
		SET match_count = match_count + 1, last_seen_unix = strftime('%s','now')
		WHERE plate = ? AND is_active = 1`,
		plate,
	)
	if err != nil {
		return fmt.Errorf("record watchlist match: %w", err)
	}
	return nil
}
