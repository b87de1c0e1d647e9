package store

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/sadopc/pomodojo/internal/logfields"
)

const (
	DefaultFocus       = 25
	DefaultBreak       = 5
	DefaultCustomFocus = 60
	MinCustomFocus     = 10
	MaxCustomFocus     = 90
)

// FocusPresets are the focus durations offered without entering a custom value.
var FocusPresets = []int{25, 30, 45}

// BreakPresets are the offered break durations.
var BreakPresets = []int{5, 10, 15}

// IsFocusPreset reports whether minutes is one of FocusPresets.
func IsFocusPreset(minutes int) bool {
	for _, p := range FocusPresets {
		if p == minutes {
			return true
		}
	}
	return false
}

// ClampCustomFocus bounds a custom focus duration to [MinCustomFocus, MaxCustomFocus].
func ClampCustomFocus(minutes int) int {
	return max(MinCustomFocus, min(MaxCustomFocus, minutes))
}

// DefaultPreferences returns the preferences of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		FocusDuration: DefaultFocus,
		BreakDuration: DefaultBreak,
		CustomFocus:   DefaultCustomFocus,
	}
}

// LoadPreferences reads each preference key on its own. Missing or invalid
// values fall back to the matching field of base.
func (s *Store) LoadPreferences(base Preferences) Preferences {
	p := base
	p.FocusDuration = s.positiveInt(KeyFocus, p.FocusDuration)
	p.BreakDuration = s.positiveInt(KeyBreak, p.BreakDuration)
	p.CustomFocus = ClampCustomFocus(s.positiveInt(KeyCustomFocus, p.CustomFocus))
	p.Muted = s.flag(KeyMuted)
	p.Zen = s.flag(KeyZen)
	return p
}

func (s *Store) SavePreferences(p Preferences) error {
	pairs := [][2]string{
		{KeyFocus, strconv.Itoa(p.FocusDuration)},
		{KeyBreak, strconv.Itoa(p.BreakDuration)},
		{KeyMuted, strconv.FormatBool(p.Muted)},
		{KeyCustomFocus, strconv.Itoa(p.CustomFocus)},
		{KeyZen, strconv.FormatBool(p.Zen)},
	}
	for _, kv := range pairs {
		if err := s.SetRaw(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) positiveInt(key string, fallback int) int {
	raw, err := s.GetRaw(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("read preference failed", logfields.Key(key), logfields.Error(err))
		}
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		s.logger.Warn("invalid preference, using default", logfields.Key(key), slog.String("value", raw))
		return fallback
	}
	return n
}

func (s *Store) flag(key string) bool {
	raw, err := s.GetRaw(key)
	return err == nil && raw == "true"
}
