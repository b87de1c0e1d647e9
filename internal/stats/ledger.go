// Package stats keeps the append-only session history and the rollups
// derived from it.
package stats

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sadopc/pomodojo/internal/logfields"
	"github.com/sadopc/pomodojo/internal/store"
)

// Backend is the storage the ledger needs. *store.Store satisfies it.
type Backend interface {
	LoadDaily(dayStartMs int64) store.DailyStat
	SaveDaily(d store.DailyStat) error
	AppendHistory(e store.HistoryEntry) (store.HistoryEntry, error)
	ListHistory(f store.HistoryFilter) ([]store.HistoryEntry, error)
}

// Summary is an aggregate over a span of history.
type Summary struct {
	Minutes  int
	Sessions int
}

// Ledger owns the daily rollup and the session history.
type Ledger struct {
	backend Backend
	clock   clockwork.Clock
	logger  *slog.Logger

	daily  store.DailyStat
	loaded bool
}

func NewLedger(b Backend, clock clockwork.Clock, logger *slog.Logger) *Ledger {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{backend: b, clock: clock, logger: logger}
}

// RecordSession appends a completed focus session and adds it to today's rollup.
func (l *Ledger) RecordSession(minutes int, task string) error {
	now := l.clock.Now()
	if err := l.rollover(now); err != nil {
		l.logger.Warn("persist daily rollover failed", logfields.Error(err))
	}

	if _, err := l.backend.AppendHistory(store.HistoryEntry{
		Timestamp: now.UnixMilli(),
		Duration:  minutes,
		Task:      task,
	}); err != nil {
		return fmt.Errorf("record session: %w", err)
	}

	l.daily.Sessions++
	l.daily.Minutes += minutes
	if err := l.backend.SaveDaily(l.daily); err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	l.logger.Debug("session recorded", logfields.Minutes(minutes), logfields.Task(task))
	return nil
}

// Daily returns today's rollup, resetting it first if the day has changed.
func (l *Ledger) Daily() (store.DailyStat, error) {
	err := l.rollover(l.clock.Now())
	return l.daily, err
}

// Weekly sums every history entry since the start of the current week.
func (l *Ledger) Weekly() (Summary, error) {
	from := WeekStart(l.clock.Now())
	entries, err := l.backend.ListHistory(store.HistoryFilter{From: &from})
	if err != nil {
		return Summary{}, fmt.Errorf("weekly stats: %w", err)
	}
	var s Summary
	for _, e := range entries {
		s.Minutes += e.Duration
		s.Sessions++
	}
	return s, nil
}

// rollover loads the rollup on first use and zeroes it when it belongs
// to a day other than the one containing now.
func (l *Ledger) rollover(now time.Time) error {
	today := DayStart(now).UnixMilli()
	if !l.loaded {
		l.daily = l.backend.LoadDaily(today)
		l.loaded = true
	}

	switch {
	case l.daily.Date == today:
		return nil
	case l.daily.Date == 0:
		l.daily.Date = today
	default:
		l.logger.Debug("daily rollover", slog.Int64("from", l.daily.Date), slog.Int64("to", today))
		l.daily = store.DailyStat{Date: today}
	}
	return l.backend.SaveDaily(l.daily)
}
