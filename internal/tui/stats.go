package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"github.com/sadopc/pomodojo/internal/stats"
	"github.com/sadopc/pomodojo/internal/store"
)

const (
	chartDays     = 7
	recentEntries = 5
)

type statsModel struct {
	store  *store.Store
	ledger *stats.Ledger
	clock  clockwork.Clock
	width  int
	height int

	days   []stats.Day
	weekly stats.Summary
	recent []store.HistoryEntry
	offset int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newStatsModel(s *store.Store, l *stats.Ledger, clock clockwork.Clock) statsModel {
	return statsModel{
		store:  s,
		ledger: l,
		clock:  clock,
		chart:  barchart.New(60, 12),
	}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m statsModel) from() time.Time {
	today := stats.DayStart(m.clock.Now())
	return today.AddDate(0, 0, -(chartDays-1)-chartDays*m.offset)
}

func (m statsModel) refresh() tea.Cmd {
	from := m.from()
	return func() tea.Msg {
		days, err := m.ledger.Days(from, chartDays)
		if err != nil {
			return statsDataMsg{err: err}
		}
		weekly, err := m.ledger.Weekly()
		if err != nil {
			return statsDataMsg{err: err}
		}
		recent, err := m.store.ListHistory(store.HistoryFilter{Limit: recentEntries})
		return statsDataMsg{days: days, weekly: weekly, recent: recent, err: err}
	}
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Stats error: %v", msg.err), isError: true}
			}
		}
		m.days = msg.days
		m.weekly = msg.weekly
		m.recent = msg.recent
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.offset++
			return m, m.refresh()
		case key.Matches(msg, keys.Right):
			if m.offset > 0 {
				m.offset--
			}
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m *statsModel) buildChart() {
	if len(m.days) == 0 {
		return
	}
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, d := range m.days {
		style := lipgloss.NewStyle().Foreground(colorFocus)
		if d.Minutes == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: d.Date.Format("Mon 02"),
			Values: []barchart.BarValue{{
				Name:  "focus",
				Value: float64(d.Minutes),
				Style: style,
			}},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m statsModel) view() string {
	w := m.width - 4

	from := m.from()
	to := from.AddDate(0, 0, chartDays-1)
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s", from.Format("Jan 02"), to.Format("Jan 02, 2006")))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Focus minutes"), "  ", dateLabel,
	)

	week := fmt.Sprintf("%s  %s  %s",
		titleStyle.Render("This week"),
		highlightStyle.Render(formatMinutes(m.weekly.Minutes)),
		mutedStyle.Render(fmt.Sprintf("%d sessions", m.weekly.Sessions)),
	)

	nav := mutedStyle.Render("  ←/→: navigate  e: export csv")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", m.chart.View(), "", m.renderTotals(), "", week, "", m.renderRecent(w), "", nav,
		),
	)
}

func (m statsModel) renderTotals() string {
	var total stats.Summary
	for _, d := range m.days {
		total.Minutes += d.Minutes
		total.Sessions += d.Sessions
	}
	return mutedStyle.Render(fmt.Sprintf("  %s over %d sessions in this range", formatHours(total.Minutes), total.Sessions))
}

func (m statsModel) renderRecent(w int) string {
	if len(m.recent) == 0 {
		return mutedStyle.Render("  No sessions yet")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-17s %8s  %s", "Completed", "Minutes", "Task")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 54)))))
	for i := len(m.recent) - 1; i >= 0; i-- {
		e := m.recent[i]
		task := e.Task
		if task == "" {
			task = mutedStyle.Render("—")
		}
		rows = append(rows, fmt.Sprintf("  %-17s %8d  %s",
			e.Time().Format("Mon Jan 02 15:04"), e.Duration, task,
		))
	}
	return strings.Join(rows, "\n")
}
