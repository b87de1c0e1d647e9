package tui

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomodojo/internal/store"
	"github.com/sadopc/pomodojo/internal/timer"
)

// customFocusOption is the focus select value meaning "use the custom input".
const customFocusOption = 0

type settingsModel struct {
	ctrl   *timer.Controller
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	focus  *int
	custom *string
	brk    *int
	muted  *bool
	zen    *bool
}

func newSettingsModel(ctrl *timer.Controller) settingsModel {
	f, b := 0, 0
	c := ""
	m, z := false, false
	return settingsModel{
		ctrl:   ctrl,
		focus:  &f,
		custom: &c,
		brk:    &b,
		muted:  &m,
		zen:    &z,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Enter) {
		return s.showForm()
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	p := s.ctrl.State().Prefs
	*s.focus = p.FocusDuration
	if !store.IsFocusPreset(p.FocusDuration) {
		*s.focus = customFocusOption
	}
	*s.custom = strconv.Itoa(p.CustomFocus)
	*s.brk = p.BreakDuration
	*s.muted = p.Muted
	*s.zen = p.Zen

	focusOpts := make([]huh.Option[int], 0, len(store.FocusPresets)+1)
	for _, m := range store.FocusPresets {
		focusOpts = append(focusOpts, huh.NewOption(fmt.Sprintf("%d min", m), m))
	}
	focusOpts = append(focusOpts, huh.NewOption("Custom", customFocusOption))

	breakOpts := make([]huh.Option[int], 0, len(store.BreakPresets)+1)
	for _, m := range store.BreakPresets {
		breakOpts = append(breakOpts, huh.NewOption(fmt.Sprintf("%d min", m), m))
	}
	if !slices.Contains(store.BreakPresets, p.BreakDuration) {
		breakOpts = append(breakOpts, huh.NewOption(fmt.Sprintf("%d min", p.BreakDuration), p.BreakDuration))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().Title("Focus").Options(focusOpts...).Value(s.focus),
			huh.NewInput().
				Title(fmt.Sprintf("Custom focus (%d-%d min)", store.MinCustomFocus, store.MaxCustomFocus)).
				Value(s.custom),
			huh.NewSelect[int]().Title("Break").Options(breakOpts...).Value(s.brk),
		).Title("Durations"),
		huh.NewGroup(
			huh.NewConfirm().Title("Mute completion sound").Value(s.muted),
			huh.NewConfirm().Title("Zen mode").Description("Hide stats on the timer view").Value(s.zen),
		).Title("Display"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.save()
	}

	return s, cmd
}

// save applies the form. Duration changes are refused while the timer runs.
func (s settingsModel) save() tea.Cmd {
	before := s.ctrl.State().Prefs
	s.ctrl.SetMuted(*s.muted)
	s.ctrl.SetZen(*s.zen)

	custom := *s.focus == customFocusOption
	focus := *s.focus
	if custom {
		focus = timer.ParseCustomFocus(*s.custom)
	}
	focusChanged := focus != before.FocusDuration || (custom && focus != before.CustomFocus)
	if !focusChanged && *s.brk == before.BreakDuration {
		return status("Settings saved")
	}

	if s.ctrl.State().Running {
		return func() tea.Msg {
			return statusMsg{text: "Pause the timer to change durations", isError: true}
		}
	}
	if focusChanged {
		if custom {
			s.ctrl.SetCustomFocus(focus)
		} else {
			s.ctrl.SetFocusDuration(focus)
		}
	}
	if *s.brk != before.BreakDuration {
		s.ctrl.SetBreakDuration(*s.brk)
	}
	return status("Settings saved")
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	p := s.ctrl.State().Prefs
	rows := []string{
		title,
		"",
		settingRow("Focus", fmt.Sprintf("%d min", p.FocusDuration)),
		settingRow("Custom focus", fmt.Sprintf("%d min", p.CustomFocus)),
		settingRow("Break", fmt.Sprintf("%d min", p.BreakDuration)),
		settingRow("Sound", onOff(!p.Muted)),
		settingRow("Zen mode", onOff(p.Zen)),
		"",
		mutedStyle.Render("Press enter to edit settings"),
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(16).Render(label), highlightStyle.Render(value))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
