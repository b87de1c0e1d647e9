package timer

import (
	"testing"
	"time"

	"github.com/sadopc/pomodojo/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 4, 10, 0, 0, 0, time.Local)

func has(fx []Effect, k EffectKind) bool {
	for _, f := range fx {
		if f.Kind == k {
			return true
		}
	}
	return false
}

func kinds(fx []Effect) []EffectKind {
	out := make([]EffectKind, len(fx))
	for i, f := range fx {
		out[i] = f.Kind
	}
	return out
}

func newTestEngine() *Engine {
	return NewEngine(store.DefaultPreferences())
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{59, "00:59"},
		{60, "01:00"},
		{61, "01:01"},
		{1500, "25:00"},
		{5999, "99:59"},
		{-1, "00:00"},
		{-3600, "00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTime(tt.secs), "FormatTime(%d)", tt.secs)
	}
}

func TestNewEngine(t *testing.T) {
	e := newTestEngine()

	assert.Equal(t, ModeFocus, e.Mode())
	assert.Equal(t, 1500, e.TimeLeft())
	assert.False(t, e.Running())
	assert.True(t, e.Target().IsZero())
	assert.Equal(t, "Focus Time", e.Label())
}

// ============================================================
// Start / Pause / Toggle / Reset
// ============================================================

func TestStart(t *testing.T) {
	e := newTestEngine()

	fx := e.Start(t0)
	assert.Equal(t, []EffectKind{EffectPrepareAudio, EffectRefreshStats, EffectStartTicker, EffectSnapshot}, kinds(fx))
	assert.True(t, e.Running())
	assert.Equal(t, t0.Add(1500*time.Second), e.Target())
	assert.Equal(t, "Focusing...", e.Label())
}

func TestStartDeadlineUsesWallClock(t *testing.T) {
	e := newTestEngine()
	now := time.Now()
	e.Start(now)

	assert.NotContains(t, e.Target().String(), "m=")
	assert.Equal(t, now.Add(25*time.Minute).UnixMilli(), e.Target().UnixMilli())

	assert.Nil(t, e.Tick(now.Round(0).Add(10*time.Minute)))
	assert.Equal(t, 900, e.TimeLeft())

	snap := e.Snapshot(now)
	require.NotNil(t, snap.TargetEndTime)
	assert.Equal(t, e.Target().UnixMilli(), *snap.TargetEndTime)
}

func TestStartWhenRunning(t *testing.T) {
	e := newTestEngine()
	e.Start(t0)

	assert.Nil(t, e.Start(t0.Add(time.Minute)))
	assert.Equal(t, t0.Add(1500*time.Second), e.Target())
}

func TestStartThenPauseKeepsTime(t *testing.T) {
	e := newTestEngine()
	before := e.TimeLeft()

	e.Start(t0)
	fx := e.Pause(t0.Add(300 * time.Millisecond))

	assert.Equal(t, []EffectKind{EffectStopTicker, EffectSnapshot}, kinds(fx))
	assert.False(t, e.Running())
	assert.True(t, e.Target().IsZero())
	assert.InDelta(t, before, e.TimeLeft(), 1)
}

func TestPauseDerivesFromDeadline(t *testing.T) {
	e := newTestEngine()
	e.Start(t0)

	e.Pause(t0.Add(100*time.Second + 500*time.Millisecond))
	assert.Equal(t, 1400, e.TimeLeft())
}

func TestPauseAfterDeadlineCompletesPhase(t *testing.T) {
	e := newTestEngine()
	e.Start(t0)

	fx := e.Pause(t0.Add(26 * time.Minute))
	assert.True(t, has(fx, EffectRecordSession))
	assert.Equal(t, ModeBreak, e.Mode())
}

func TestPauseWhenIdle(t *testing.T) {
	e := newTestEngine()

	fx := e.Pause(t0)
	assert.Equal(t, []EffectKind{EffectStopTicker, EffectSnapshot}, kinds(fx))
	assert.Equal(t, 1500, e.TimeLeft())
}

func TestToggle(t *testing.T) {
	e := newTestEngine()

	e.Toggle(t0, "  write report  ")
	assert.True(t, e.Running())
	assert.Equal(t, "write report", e.Task())

	e.Toggle(t0.Add(10*time.Second), "ignored")
	assert.False(t, e.Running())
	assert.Equal(t, 1490, e.TimeLeft())
	assert.Equal(t, "write report", e.Task())
}

func TestToggleInBreakKeepsTask(t *testing.T) {
	e := newTestEngine()
	e.Toggle(t0, "task")
	e.SwitchMode(t0.Add(time.Second))
	e.Pause(t0.Add(2 * time.Second))

	e.Toggle(t0.Add(3*time.Second), "other")
	assert.True(t, e.Running())
	assert.Equal(t, "task", e.Task())
}

func TestReset(t *testing.T) {
	e := newTestEngine()
	e.Start(t0)
	e.SwitchMode(t0.Add(25 * time.Minute))
	require.Equal(t, ModeBreak, e.Mode())

	fx := e.Reset()
	assert.Equal(t, []EffectKind{EffectStopTicker, EffectShowTaskInput, EffectSnapshot}, kinds(fx))
	assert.Equal(t, ModeFocus, e.Mode())
	assert.Equal(t, 1500, e.TimeLeft())
	assert.False(t, e.Running())
}

// ============================================================
// Tick / SwitchMode
// ============================================================

func TestTickWhenIdle(t *testing.T) {
	e := newTestEngine()
	assert.Nil(t, e.Tick(t0))
}

func TestTickRecomputesFromDeadline(t *testing.T) {
	e := newTestEngine()
	e.Start(t0)

	assert.Nil(t, e.Tick(t0.Add(10*time.Second+200*time.Millisecond)))
	assert.Equal(t, 1490, e.TimeLeft())

	// A late tick jumps straight to the right value.
	assert.Nil(t, e.Tick(t0.Add(20*time.Minute)))
	assert.Equal(t, 300, e.TimeLeft())
}

func TestTickRoundsUp(t *testing.T) {
	e := newTestEngine()
	e.Start(t0)

	e.Tick(t0.Add(1500*time.Second - time.Millisecond))
	assert.Equal(t, 1, e.TimeLeft())
	assert.Equal(t, ModeFocus, e.Mode())
}

func TestTickExpiryCompletesFocus(t *testing.T) {
	e := newTestEngine()
	e.Toggle(t0, "deep work")

	end := t0.Add(1500 * time.Second)
	fx := e.Tick(end)

	require.NotEmpty(t, fx)
	assert.Equal(t, Effect{Kind: EffectPlayCue, Cue: ModeFocus}, fx[0])
	assert.Contains(t, fx, Effect{Kind: EffectRecordSession, Minutes: 25, Task: "deep work"})
	assert.Equal(t, ModeBreak, e.Mode())
	assert.Equal(t, 300, e.TimeLeft())
	assert.True(t, e.Running())
	assert.Equal(t, end.Add(300*time.Second), e.Target())
}

func TestSwitchModeFocusToBreak(t *testing.T) {
	e := newTestEngine()
	e.Toggle(t0, "t")

	fx := e.SwitchMode(t0.Add(time.Minute))
	assert.Equal(t, []EffectKind{
		EffectPlayCue, EffectRecordSession, EffectRefreshStats,
		EffectStartTicker, EffectShowReflection, EffectSnapshot,
	}, kinds(fx))
	assert.Equal(t, "Break Time", e.Label())
}

func TestSwitchModeFromIdleFocusAutoStartsBreak(t *testing.T) {
	e := newTestEngine()

	e.SwitchMode(t0)
	assert.Equal(t, ModeBreak, e.Mode())
	assert.True(t, e.Running())
	assert.Equal(t, t0.Add(300*time.Second), e.Target())
}

func TestSwitchModeBreakToFocus(t *testing.T) {
	e := newTestEngine()
	e.Toggle(t0, "t")
	e.SwitchMode(t0.Add(25 * time.Minute))

	fx := e.SwitchMode(t0.Add(30 * time.Minute))
	assert.Equal(t, []EffectKind{EffectPlayCue, EffectStopTicker, EffectShowTaskInput, EffectSnapshot}, kinds(fx))
	assert.Equal(t, ModeBreak, fx[0].Cue)
	assert.False(t, has(fx, EffectRecordSession))
	assert.Equal(t, ModeFocus, e.Mode())
	assert.Equal(t, 1500, e.TimeLeft())
	assert.False(t, e.Running())
	assert.Equal(t, "", e.Task())
}

// ============================================================
// Durations and preferences
// ============================================================

func TestSetFocusDurationRejectedWhileRunning(t *testing.T) {
	e := newTestEngine()
	e.Start(t0)

	assert.Nil(t, e.SetFocusDuration(30))
	assert.Equal(t, 25, e.Preferences().FocusDuration)
	assert.Equal(t, 1500, e.TimeLeft())
	assert.True(t, e.Running())
}

func TestSetFocusDurationWhilePaused(t *testing.T) {
	e := newTestEngine()

	fx := e.SetFocusDuration(30)
	assert.Equal(t, []EffectKind{EffectSavePreferences, EffectSnapshot}, kinds(fx))
	assert.Equal(t, 30, e.Preferences().FocusDuration)
	assert.Equal(t, 1800, e.TimeLeft())
	assert.Equal(t, store.DefaultCustomFocus, e.Preferences().CustomFocus)
}

func TestSetFocusDurationNonPresetUpdatesCustom(t *testing.T) {
	e := newTestEngine()

	e.SetFocusDuration(50)
	assert.Equal(t, 50, e.Preferences().CustomFocus)
}

func TestSetFocusDurationInBreakKeepsTimeLeft(t *testing.T) {
	e := newTestEngine()
	e.SwitchMode(t0)
	e.Pause(t0.Add(time.Minute))

	require.NotNil(t, e.SetFocusDuration(45))
	assert.Equal(t, 240, e.TimeLeft())
}

func TestSetFocusDurationInvalid(t *testing.T) {
	e := newTestEngine()
	assert.Nil(t, e.SetFocusDuration(0))
	assert.Nil(t, e.SetFocusDuration(-5))
	assert.Equal(t, 25, e.Preferences().FocusDuration)
}

func TestSetCustomFocusClamps(t *testing.T) {
	e := newTestEngine()

	e.SetCustomFocus(200)
	assert.Equal(t, 90, e.Preferences().FocusDuration)
	assert.Equal(t, 90, e.Preferences().CustomFocus)

	e.SetCustomFocus(3)
	assert.Equal(t, 10, e.Preferences().FocusDuration)
	assert.Equal(t, 600, e.TimeLeft())
}

func TestSetCustomFocusMatchingPreset(t *testing.T) {
	e := newTestEngine()

	require.NotNil(t, e.SetCustomFocus(30))
	assert.Equal(t, 30, e.Preferences().FocusDuration)
	assert.Equal(t, 30, e.Preferences().CustomFocus)
}

func TestSetCustomFocusRejectedWhileRunning(t *testing.T) {
	e := newTestEngine()
	e.Start(t0)

	assert.Nil(t, e.SetCustomFocus(30))
	assert.Equal(t, store.DefaultCustomFocus, e.Preferences().CustomFocus)
}

func TestSetBreakDuration(t *testing.T) {
	e := newTestEngine()

	require.NotNil(t, e.SetBreakDuration(10))
	assert.Equal(t, 10, e.Preferences().BreakDuration)
	assert.Equal(t, 1500, e.TimeLeft())

	e.Start(t0)
	assert.Nil(t, e.SetBreakDuration(15))
	assert.Equal(t, 10, e.Preferences().BreakDuration)
}

func TestOverrideFocus(t *testing.T) {
	e := newTestEngine()

	assert.Nil(t, e.OverrideFocus(0))
	assert.Nil(t, e.OverrideFocus(25))
	require.NotNil(t, e.OverrideFocus(40))
	assert.Equal(t, 2400, e.TimeLeft())

	e.Start(t0)
	assert.Nil(t, e.OverrideFocus(15))
	assert.Equal(t, 40, e.Preferences().FocusDuration)
}

func TestMuteAndZen(t *testing.T) {
	e := newTestEngine()

	assert.Equal(t, []EffectKind{EffectSavePreferences}, kinds(e.SetMuted(true)))
	assert.Equal(t, []EffectKind{EffectSavePreferences}, kinds(e.SetZen(true)))
	assert.True(t, e.Preferences().Muted)
	assert.True(t, e.Preferences().Zen)
}

func TestFallback(t *testing.T) {
	e := newTestEngine()
	e.Start(t0)
	e.SwitchMode(t0.Add(time.Minute))

	fx := e.Fallback()
	assert.Equal(t, EffectSnapshot, fx[len(fx)-1].Kind)
	assert.Equal(t, ModeFocus, e.Mode())
	assert.Equal(t, 1500, e.TimeLeft())
	assert.False(t, e.Running())
}

func TestSnapshot(t *testing.T) {
	e := newTestEngine()

	idle := e.Snapshot(t0)
	assert.Equal(t, store.RunState{Mode: "focus", TimeLeft: 1500, Timestamp: t0.UnixMilli()}, idle)

	e.Start(t0)
	running := e.Snapshot(t0)
	require.NotNil(t, running.TargetEndTime)
	assert.Equal(t, t0.Add(1500*time.Second).UnixMilli(), *running.TargetEndTime)
	assert.True(t, running.IsRunning)
}

func TestParseCustomFocus(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"60", 60},
		{" 45 ", 45},
		{"abc", 25},
		{"", 25},
		{"5", 10},
		{"120", 90},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCustomFocus(tt.in), "ParseCustomFocus(%q)", tt.in)
	}
}

func TestEffectKindString(t *testing.T) {
	assert.Equal(t, "snapshot", EffectSnapshot.String())
	assert.Equal(t, "record-session", EffectRecordSession.String())
	assert.Equal(t, "unknown", EffectKind(99).String())
}
