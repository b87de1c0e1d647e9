package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"github.com/sadopc/pomodojo/internal/config"
	"github.com/sadopc/pomodojo/internal/export"
	"github.com/sadopc/pomodojo/internal/logfields"
	"github.com/sadopc/pomodojo/internal/stats"
	"github.com/sadopc/pomodojo/internal/store"
	"github.com/sadopc/pomodojo/internal/timer"
)

// refreshInterval is how often the identity totals are re-read so a
// day change is picked up while the app sits idle.
const refreshInterval = time.Minute

var exportFormats = []export.Format{export.FormatCSV, export.FormatJSON}

// Deps is everything the App needs from main.
type Deps struct {
	Store        *store.Store
	Ledger       *stats.Ledger
	Prefs        store.Preferences
	Clock        clockwork.Clock
	Audio        timer.AudioSink
	Logger       *slog.Logger
	TickInterval time.Duration
	Room         string
	// FocusOverride is an external focus length in minutes; zero means none.
	FocusOverride int
	// ExportDir is where the export picker writes; empty means the home directory.
	ExportDir string
}

// App is the root Bubble Tea model.
type App struct {
	store    *store.Store
	ctrl     *timer.Controller
	clock    clockwork.Clock
	logger   *slog.Logger
	interval time.Duration
	room     string
	exportTo string

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	timer    timerModel
	stats    statsModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool

	scheduled int // tick chain with a pending tea.Tick, -1 for none
	title     string
}

// NewApp builds the controller, restores the persisted run state and applies
// the focus override.
func NewApp(d Deps) App {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.TickInterval <= 0 {
		d.TickInterval = config.DefaultTickInterval
	}

	disp := &display{}
	box := newTaskBox()
	ctrl := timer.NewController(d.Store, d.Ledger, d.Prefs, timer.Options{
		Clock:   d.Clock,
		Audio:   d.Audio,
		Display: disp,
		Tasks:   box,
		Logger:  d.Logger,
	})
	ctrl.Recover()
	if d.FocusOverride > 0 && ctrl.OverrideFocus(d.FocusOverride) {
		d.Logger.Info("focus duration overridden", logfields.Minutes(d.FocusOverride))
	}
	box.input.SetValue(ctrl.State().Task)

	h := help.New()
	h.ShowAll = false

	a := App{
		store:      d.Store,
		ctrl:       ctrl,
		clock:      d.Clock,
		logger:     d.Logger,
		interval:   d.TickInterval,
		room:       d.Room,
		exportTo:   d.ExportDir,
		activeView: viewTimer,
		timer:      newTimerModel(ctrl, disp, box, d.Room),
		stats:      newStatsModel(d.Store, d.Ledger, d.Clock),
		settings:   newSettingsModel(ctrl),
		help:       h,
		scheduled:  -1,
	}
	if ctrl.Ticking() {
		a.scheduled = ctrl.TickID()
	}
	a.title = a.windowTitle()
	return a
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle(a.title),
		refreshCmd(),
		a.stats.refresh(),
	}
	if a.scheduled >= 0 {
		cmds = append(cmds, a.tickCmd(a.scheduled))
	}
	return tea.Batch(cmds...)
}

func (a App) tickCmd(id int) tea.Cmd {
	return tea.Tick(a.interval, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

func refreshCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.route(msg)
	sync := next.sync()
	return next, tea.Batch(cmd, sync)
}

// sync schedules a tick for a newly started chain and keeps the window
// title in step with the countdown.
func (a *App) sync() tea.Cmd {
	var cmds []tea.Cmd
	if a.ctrl.Ticking() && a.ctrl.TickID() != a.scheduled {
		a.scheduled = a.ctrl.TickID()
		cmds = append(cmds, a.tickCmd(a.scheduled))
	}
	if !a.ctrl.Ticking() {
		a.scheduled = -1
	}
	if t := a.windowTitle(); t != a.title {
		a.title = t
		cmds = append(cmds, tea.SetWindowTitle(t))
	}
	return tea.Batch(cmds...)
}

func (a App) windowTitle() string {
	st := a.ctrl.State()
	mode := "Focus"
	if st.Mode == timer.ModeBreak {
		mode = "Break"
	}
	return timer.FormatTime(st.TimeLeft) + " - " + mode
}

func (a App) route(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timer.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.stats.buildChart()
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (task field, form), delegate first.
		if a.isCapturing() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewStats
			return a, a.stats.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		if a.ctrl.Tick(msg.id) {
			return a, a.tickCmd(msg.id)
		}
		// The chain ended or was replaced; a phase may have completed.
		return a, a.refreshCurrentView()

	case refreshMsg:
		a.ctrl.Refresh()
		return a, tea.Batch(refreshCmd(), a.refreshCurrentView())

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	case statsDataMsg:
		var cmd tea.Cmd
		a.stats, cmd = a.stats.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isCapturing() bool {
	switch a.activeView {
	case viewTimer:
		return a.timer.capturing()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	if a.activeView == viewStats {
		return a.stats.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.timer.view()
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("pomodojo")
	if a.room != "" {
		title += mutedStyle.Render(" · " + a.room)
	}
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Countdown indicator when the timer view is not showing it
	timerInfo := ""
	if st := a.ctrl.State(); st.Running && a.activeView != viewTimer {
		clock := timer.FormatTime(st.TimeLeft)
		if st.Mode == timer.ModeBreak {
			timerInfo = successStyle.Render(" ☕ " + clock)
		} else {
			timerInfo = warningStyle.Render(" ● " + clock)
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Export History"))
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+export.DefaultFileName(f)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(f export.Format) tea.Cmd {
	now := a.clock.Now()
	dir := a.exportTo
	return func() tea.Msg {
		entries, err := a.store.ListHistory(store.HistoryFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		if len(entries) == 0 {
			return statusMsg{text: "No history to export", isError: true}
		}

		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			dir = home
		}
		path := filepath.Join(dir, export.DefaultFileName(f))
		if err := export.ToFile(path, f, entries, now); err != nil {
			a.logger.Error("export failed", logfields.Path(path), logfields.Error(err))
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		a.logger.Info("history exported", logfields.Path(path), slog.Int("count", len(entries)))
		return exportDoneMsg{path: path}
	}
}
