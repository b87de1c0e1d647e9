package store

import (
	"errors"

	"github.com/sadopc/pomodojo/internal/logfields"
)

// LoadRunState returns the persisted run-state snapshot, or nil when there
// is none or it cannot be decoded.
func (s *Store) LoadRunState() *RunState {
	return Load[*RunState](s, KeyRunState, nil)
}

func (s *Store) SaveRunState(rs RunState) error {
	return Save(s, KeyRunState, rs)
}

// LoadCurrentTask returns the label of the in-progress focus session.
func (s *Store) LoadCurrentTask() string {
	v, err := s.GetRaw(KeyCurrentTask)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("read current task failed", logfields.Error(err))
		}
		return ""
	}
	return v
}

func (s *Store) SaveCurrentTask(task string) error {
	return s.SetRaw(KeyCurrentTask, task)
}

// LoadDaily returns the stat record stored for the day starting at dayStartMs.
// A missing or malformed record yields a zero record dated dayStartMs.
func (s *Store) LoadDaily(dayStartMs int64) DailyStat {
	return Load(s, DailyKey(dayStartMs), DailyStat{Date: dayStartMs})
}

// SaveDaily stores d under the key of its own day.
func (s *Store) SaveDaily(d DailyStat) error {
	return Save(s, DailyKey(d.Date), d)
}
