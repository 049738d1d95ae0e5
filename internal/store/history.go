package store

import (
	"context"
	"fmt"
)

// ApplyRecord is one theme switch.
type ApplyRecord struct {
	Seq      int64  `json:"seq"`
	Token    string `json:"token"`
	Theme    string `json:"theme"`
	Previous string `json:"previous"`
}

// RecordApply appends a theme switch to the history.
// Uses ON CONFLICT(token) DO NOTHING - recording a token twice is a no-op.
func (s *Store) RecordApply(ctx context.Context, token, theme, previous string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO theme_history (token, theme, previous)
		VALUES (?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, token, theme, previous)
	if err != nil {
		return fmt.Errorf("record apply: %w", err)
	}
	return nil
}

// History returns up to limit theme switches, newest first. A limit of zero
// or less returns the full history.
func (s *Store) History(ctx context.Context, limit int) ([]ApplyRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, token, theme, previous
		FROM theme_history
		ORDER BY seq DESC, token COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	records := []ApplyRecord{}
	for rows.Next() {
		var r ApplyRecord
		if err := rows.Scan(&r.Seq, &r.Token, &r.Theme, &r.Previous); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return records, nil
}

// HistoryCount returns the number of recorded theme switches.
func (s *Store) HistoryCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM theme_history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}
