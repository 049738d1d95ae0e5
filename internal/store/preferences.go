package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ThemeKey is the preference key holding the persisted theme name.
const ThemeKey = "themer.theme.default"

// Preference returns the value stored under key.
func (s *Store) Preference(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read preference %q: %w", key, err)
	}
	return value, true, nil
}

// SetPreference stores value under key, replacing any previous value.
func (s *Store) SetPreference(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("write preference %q: %w", key, err)
	}
	return nil
}

// DeletePreference removes key. Deleting a missing key is not an error.
func (s *Store) DeletePreference(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete preference %q: %w", key, err)
	}
	return nil
}

// LoadTheme returns the persisted theme name.
func (s *Store) LoadTheme(ctx context.Context) (string, bool, error) {
	return s.Preference(ctx, ThemeKey)
}

// SaveTheme persists the theme name.
func (s *Store) SaveTheme(ctx context.Context, name string) error {
	return s.SetPreference(ctx, ThemeKey, name)
}
