package store

import (
	"fmt"
)

// AppendHistory appends e to the session history and returns it with its ID set.
func (s *Store) AppendHistory(e HistoryEntry) (HistoryEntry, error) {
	res, err := s.db.Exec(
		`INSERT INTO history (timestamp, duration, task) VALUES (?, ?, ?)`,
		e.Timestamp, e.Duration, e.Task,
	)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("append history: %w", err)
	}
	e.ID, _ = res.LastInsertId()
	return e, nil
}

// ListHistory returns history entries in insertion order. A positive Limit
// keeps only the most recent Limit entries.
func (s *Store) ListHistory(f HistoryFilter) ([]HistoryEntry, error) {
	query := `SELECT id, timestamp, duration, task FROM history WHERE 1=1`
	var args []any

	if f.From != nil {
		query += ` AND timestamp >= ?`
		args = append(args, f.From.UnixMilli())
	}
	if f.Limit > 0 {
		query = fmt.Sprintf(`SELECT * FROM (%s ORDER BY id DESC LIMIT %d)`, query, f.Limit)
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Duration, &e.Task); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountHistory returns the number of recorded sessions.
func (s *Store) CountHistory() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}
