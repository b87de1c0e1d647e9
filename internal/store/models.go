package store

import "time"

// Preferences are the user's timer settings. Durations are minutes.
type Preferences struct {
	FocusDuration int
	BreakDuration int
	CustomFocus   int
	Muted         bool
	Zen           bool
}

// DailyStat is the rollup for a single calendar day.
type DailyStat struct {
	Minutes  int   `json:"minutes"`
	Sessions int   `json:"sessions"`
	Date     int64 `json:"date"` // day-start, epoch ms
}

// HistoryEntry is one completed focus session. Entries are never mutated.
type HistoryEntry struct {
	ID        int64  `json:"-"`
	Timestamp int64  `json:"timestamp"` // epoch ms
	Duration  int    `json:"duration"`  // minutes
	Task      string `json:"task"`
}

func (e HistoryEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// RunState is the persisted snapshot of what the timer was doing.
type RunState struct {
	Mode          string `json:"mode"`
	TimeLeft      int    `json:"timeLeft"` // seconds
	IsRunning     bool   `json:"isRunning"`
	TargetEndTime *int64 `json:"targetEndTime"` // epoch ms, nil while paused
	Timestamp     int64  `json:"timestamp"`
}

// HistoryFilter is used to filter history in queries.
type HistoryFilter struct {
	From  *time.Time
	Limit int
}
