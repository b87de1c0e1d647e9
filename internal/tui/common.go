package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/pomodojo/internal/stats"
	"github.com/sadopc/pomodojo/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewStats
	viewSettings
)

var viewNames = []string{"Timer", "Stats", "Settings"}

// --- Messages ---

// tickMsg drives one periodic re-evaluation chain, identified by id.
type tickMsg struct {
	id int
}

// refreshMsg is the slow clock used for daily rollover checks.
type refreshMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

type statsDataMsg struct {
	days   []stats.Day
	weekly stats.Summary
	recent []store.HistoryEntry
	err    error
}

// --- Helpers ---

func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func formatHours(mins int) string {
	return fmt.Sprintf("%.1fh", float64(mins)/60)
}
