package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomodojo/internal/stats"
	"github.com/sadopc/pomodojo/internal/store"
	"github.com/sadopc/pomodojo/internal/timer"
)

// display receives what the controller publishes. Shared by pointer so it
// survives value copies of the models.
type display struct {
	clock  string
	label  string
	daily  store.DailyStat
	weekly stats.Summary
}

func (d *display) Show(clock, label string) {
	d.clock = clock
	d.label = label
}

func (d *display) ShowStats(daily store.DailyStat, weekly stats.Summary) {
	d.daily = daily
	d.weekly = weekly
}

// taskBox is the task-input source. Shared by pointer like display.
type taskBox struct {
	input   textinput.Model
	editing bool
}

func newTaskBox() *taskBox {
	ti := textinput.New()
	ti.Placeholder = "What are you focusing on?"
	ti.CharLimit = 120
	ti.Prompt = "› "
	return &taskBox{input: ti}
}

func (b *taskBox) Task() string {
	return b.input.Value()
}

type timerModel struct {
	ctrl    *timer.Controller
	display *display
	box     *taskBox
	room    string
	width   int
	height  int
}

func newTimerModel(ctrl *timer.Controller, d *display, box *taskBox, room string) timerModel {
	return timerModel{ctrl: ctrl, display: d, box: box, room: room}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

// capturing reports whether key input goes to the task field.
func (t timerModel) capturing() bool {
	return t.box.editing
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	if t.box.editing {
		return t.updateTask(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}

	st := t.ctrl.State()
	switch {
	case key.Matches(km, keys.Toggle):
		t.ctrl.Toggle()
	case key.Matches(km, keys.Reset):
		t.ctrl.Reset()
		return t, status("Timer reset")
	case key.Matches(km, keys.Task):
		if st.Mode == timer.ModeFocus && st.Panel == timer.PanelTaskInput {
			t.box.editing = true
			return t, t.box.input.Focus()
		}
	case key.Matches(km, keys.Enter):
		if st.Panel == timer.PanelReflection {
			t.ctrl.DismissReflection()
		}
	case key.Matches(km, keys.Zen):
		t.ctrl.SetZen(!st.Prefs.Zen)
	case key.Matches(km, keys.Mute):
		t.ctrl.SetMuted(!st.Prefs.Muted)
		if st.Prefs.Muted {
			return t, status("Sound on")
		}
		return t, status("Sound off")
	}
	return t, nil
}

func (t timerModel) updateTask(msg tea.Msg) (timerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Back):
			t.box.editing = false
			t.box.input.Blur()
			return t, nil
		}
	}
	var cmd tea.Cmd
	t.box.input, cmd = t.box.input.Update(msg)
	return t, cmd
}

func (t timerModel) view() string {
	w := t.width - 4
	if w < 20 {
		return "Terminal too small"
	}
	st := t.ctrl.State()

	clockStyle := idleClockStyle
	switch {
	case st.Mode == timer.ModeBreak:
		clockStyle = breakClockStyle
	case st.Running:
		clockStyle = focusClockStyle
	}
	clock := clockStyle.Width(w - 6).Render(t.display.clock)

	label := mutedStyle.Render(t.display.label)
	if st.Running {
		label = clockStyle.UnsetWidth().Render(t.display.label)
	}

	var prompt string
	if st.Panel == timer.PanelReflection {
		prompt = lipgloss.JoinVertical(lipgloss.Center,
			highlightStyle.Render("How did that session go?"),
			mutedStyle.Render("enter: back to task entry"),
		)
	} else {
		prompt = t.box.input.View()
		if !t.box.editing {
			if t.box.input.Value() == "" {
				prompt = mutedStyle.Render("t: name this focus session")
			} else {
				prompt = highlightStyle.Render(t.box.input.Value())
			}
		}
	}

	var controls string
	switch {
	case st.Running:
		controls = mutedStyle.Render("space: pause  r: reset")
	default:
		controls = mutedStyle.Render("space: start  r: reset  t: task")
	}

	parts := []string{clock, label, "", prompt, "", controls}
	if t.room != "" {
		parts = append([]string{warningStyle.Render("Room: " + t.room), ""}, parts...)
	}
	timerPanel := activePanelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, parts...),
	)
	if !st.Running {
		timerPanel = panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Center, parts...),
		)
	}

	if st.Prefs.Zen {
		return timerPanel
	}
	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, t.renderIdentity(w, st))
}

func (t timerModel) renderIdentity(w int, st timer.State) string {
	today := fmt.Sprintf("%s  %s  %s",
		titleStyle.Render("Today"),
		highlightStyle.Render(fmt.Sprintf("%dm", t.display.daily.Minutes)),
		mutedStyle.Render(fmt.Sprintf("%d sessions", t.display.daily.Sessions)),
	)
	week := fmt.Sprintf("%s  %s  %s",
		titleStyle.Render("This week"),
		highlightStyle.Render(fmt.Sprintf("%dm", t.display.weekly.Minutes)),
		mutedStyle.Render(fmt.Sprintf("%d sessions", t.display.weekly.Sessions)),
	)
	prefs := mutedStyle.Render(fmt.Sprintf("focus %dm  break %dm", st.Prefs.FocusDuration, st.Prefs.BreakDuration))
	if st.Prefs.Muted {
		prefs += mutedStyle.Render("  muted")
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, today, week, "", prefs))
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}
