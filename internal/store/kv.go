package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/sadopc/pomodojo/internal/logfields"
)

var ErrNotFound = errors.New("key not found")

// Storage keys.
const (
	KeyFocus       = "pomodojo_focus"
	KeyBreak       = "pomodojo_break"
	KeyCustomFocus = "pomodojo_custom_focus"
	KeyMuted       = "pomodojo_muted"
	KeyZen         = "pomodojo_zen"
	KeyCurrentTask = "pomodojo_current_task"
	KeyRunState    = "pomodojo_run_state"
	keyDailyPrefix = "pomodojo_daily_"
)

// DailyKey returns the key of the stat record for the day starting at dayStartMs.
func DailyKey(dayStartMs int64) string {
	return keyDailyPrefix + strconv.FormatInt(dayStartMs, 10)
}

// KV is the raw key-value surface the typed helpers are built on.
type KV interface {
	GetRaw(key string) (string, error)
	SetRaw(key, value string) error
	Logger() *slog.Logger
}

func (s *Store) GetRaw(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetRaw(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Logger() *slog.Logger {
	return s.logger
}

// Load decodes the JSON value stored under key. A missing key, a read
// failure or malformed JSON all yield fallback; only the latter two are logged.
func Load[T any](kv KV, key string, fallback T) T {
	raw, err := kv.GetRaw(key)
	if errors.Is(err, ErrNotFound) {
		return fallback
	}
	if err != nil {
		kv.Logger().Warn("read stored value failed, using fallback",
			logfields.Key(key), logfields.Error(err))
		return fallback
	}
	if raw == "" || raw == "null" {
		return fallback
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		kv.Logger().Warn("failed to parse stored value, using fallback",
			logfields.Key(key), logfields.Error(err))
		return fallback
	}
	return v
}

// Save JSON-encodes value under key.
func Save(kv KV, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return kv.SetRaw(key, string(data))
}
