package stats

import (
	"fmt"
	"time"

	"github.com/sadopc/pomodojo/internal/store"
)

// DayStart returns midnight of the calendar day containing t, in t's location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekStart returns Monday 00:00 of the week containing t. Sunday belongs
// to the week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	day := DayStart(t)
	weekday := day.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	return day.AddDate(0, 0, -int(weekday-time.Monday))
}

// Day is the activity of one calendar day.
type Day struct {
	Date time.Time
	Summary
}

// Breakdown returns one Day per calendar day for the last n days, oldest
// first, ending with today.
func (l *Ledger) Breakdown(n int) ([]Day, error) {
	return l.Days(DayStart(l.clock.Now()).AddDate(0, 0, -(n - 1)), n)
}

// Days returns one Day per calendar day for the n days starting at the
// day containing from.
func (l *Ledger) Days(from time.Time, n int) ([]Day, error) {
	if n <= 0 {
		return nil, nil
	}
	from = DayStart(from)
	to := from.AddDate(0, 0, n)

	entries, err := l.backend.ListHistory(store.HistoryFilter{From: &from})
	if err != nil {
		return nil, fmt.Errorf("daily breakdown: %w", err)
	}

	days := make([]Day, n)
	index := make(map[int64]int, n)
	for i := range days {
		days[i].Date = from.AddDate(0, 0, i)
		index[days[i].Date.UnixMilli()] = i
	}
	for _, e := range entries {
		t := e.Time().In(from.Location())
		if !t.Before(to) {
			continue
		}
		i, ok := index[DayStart(t).UnixMilli()]
		if !ok {
			continue
		}
		days[i].Minutes += e.Duration
		days[i].Sessions++
	}
	return days, nil
}
