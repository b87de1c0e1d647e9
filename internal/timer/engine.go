// Package timer implements the focus/break state machine.
//
// Engine is pure: every operation takes the current time explicitly and
// returns the side effects it wants performed. Controller performs them.
package timer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/pomodojo/internal/store"
)

// Engine owns the live timer state: mode, remaining seconds, the running
// flag and the absolute deadline while running.
type Engine struct {
	prefs store.Preferences

	mode     Mode
	timeLeft int // seconds
	running  bool
	target   time.Time // zero while paused
	task     string
}

// NewEngine returns an idle focus engine with a full focus duration.
func NewEngine(prefs store.Preferences) *Engine {
	return &Engine{
		prefs:    prefs,
		mode:     ModeFocus,
		timeLeft: prefs.FocusDuration * 60,
	}
}

func (e *Engine) Mode() Mode                     { return e.mode }
func (e *Engine) TimeLeft() int                  { return e.timeLeft }
func (e *Engine) Running() bool                  { return e.running }
func (e *Engine) Target() time.Time              { return e.target }
func (e *Engine) Task() string                   { return e.task }
func (e *Engine) Preferences() store.Preferences { return e.prefs }

// Label is the mode caption shown above the countdown.
func (e *Engine) Label() string {
	if e.mode == ModeBreak {
		return "Break Time"
	}
	if e.running {
		return "Focusing..."
	}
	return "Focus Time"
}

// Snapshot returns the run state to persist.
func (e *Engine) Snapshot(now time.Time) store.RunState {
	rs := store.RunState{
		Mode:      string(e.mode),
		TimeLeft:  e.timeLeft,
		IsRunning: e.running,
		Timestamp: now.UnixMilli(),
	}
	if e.running {
		ms := e.target.UnixMilli()
		rs.TargetEndTime = &ms
	}
	return rs
}

// Start begins counting down from the current remaining time.
func (e *Engine) Start(now time.Time) []Effect {
	if e.running {
		return nil
	}
	e.start(now)
	return []Effect{
		{Kind: EffectPrepareAudio},
		{Kind: EffectRefreshStats},
		{Kind: EffectStartTicker},
		{Kind: EffectSnapshot},
	}
}

// Pause stops the countdown, keeping the remaining time derived from the
// deadline. A deadline that already passed completes the phase instead.
func (e *Engine) Pause(now time.Time) []Effect {
	if e.running {
		left := remaining(e.target, now)
		if left <= 0 {
			return e.Tick(now)
		}
		e.timeLeft = left
	}
	e.pause()
	return []Effect{{Kind: EffectStopTicker}, {Kind: EffectSnapshot}}
}

// Toggle pauses a running timer or starts an idle one. Starting a focus
// phase captures task as the session label.
func (e *Engine) Toggle(now time.Time, task string) []Effect {
	if e.running {
		return e.Pause(now)
	}
	if e.mode == ModeFocus {
		e.task = strings.TrimSpace(task)
	}
	return e.Start(now)
}

// Reset returns to an idle, full-length focus phase.
func (e *Engine) Reset() []Effect {
	e.pause()
	e.mode = ModeFocus
	e.timeLeft = e.prefs.FocusDuration * 60
	return []Effect{
		{Kind: EffectStopTicker},
		{Kind: EffectShowTaskInput},
		{Kind: EffectSnapshot},
	}
}

// Tick re-derives the remaining time from the deadline and completes the
// phase once it reaches zero.
func (e *Engine) Tick(now time.Time) []Effect {
	if !e.running {
		return nil
	}
	e.timeLeft = remaining(e.target, now)
	if e.timeLeft > 0 {
		return nil
	}
	e.timeLeft = 0
	return e.SwitchMode(now)
}

// SwitchMode completes the current phase. A finished focus phase is
// recorded and the break starts immediately; a finished break returns to
// an idle focus phase with the task label cleared.
func (e *Engine) SwitchMode(now time.Time) []Effect {
	fx := []Effect{{Kind: EffectPlayCue, Cue: e.mode}}

	if e.mode == ModeFocus {
		fx = append(fx,
			Effect{Kind: EffectRecordSession, Minutes: e.prefs.FocusDuration, Task: e.task},
			Effect{Kind: EffectRefreshStats},
		)
		e.mode = ModeBreak
		e.timeLeft = e.prefs.BreakDuration * 60
		e.start(now)
		fx = append(fx, Effect{Kind: EffectStartTicker}, Effect{Kind: EffectShowReflection})
	} else {
		e.mode = ModeFocus
		e.timeLeft = e.prefs.FocusDuration * 60
		e.pause()
		e.task = ""
		fx = append(fx, Effect{Kind: EffectStopTicker}, Effect{Kind: EffectShowTaskInput})
	}

	return append(fx, Effect{Kind: EffectSnapshot})
}

// SetFocusDuration changes the focus length. Rejected while running.
func (e *Engine) SetFocusDuration(minutes int) []Effect {
	if e.running || minutes <= 0 {
		return nil
	}
	e.prefs.FocusDuration = minutes
	if !store.IsFocusPreset(minutes) {
		e.prefs.CustomFocus = minutes
	}
	if e.mode == ModeFocus {
		e.timeLeft = minutes * 60
	}
	return []Effect{{Kind: EffectSavePreferences}, {Kind: EffectSnapshot}}
}

// SetCustomFocus applies a custom focus length bounded to the allowed range
// and remembers it as the custom value, even when it matches a preset.
func (e *Engine) SetCustomFocus(minutes int) []Effect {
	minutes = store.ClampCustomFocus(minutes)
	fx := e.SetFocusDuration(minutes)
	if fx != nil {
		e.prefs.CustomFocus = minutes
	}
	return fx
}

// SetBreakDuration changes the break length. Rejected while running.
func (e *Engine) SetBreakDuration(minutes int) []Effect {
	if e.running || minutes <= 0 {
		return nil
	}
	e.prefs.BreakDuration = minutes
	return []Effect{{Kind: EffectSavePreferences}, {Kind: EffectSnapshot}}
}

// OverrideFocus applies an externally requested focus length before a
// session starts. Ignored while running.
func (e *Engine) OverrideFocus(minutes int) []Effect {
	if e.running || minutes <= 0 || minutes == e.prefs.FocusDuration {
		return nil
	}
	return e.SetFocusDuration(minutes)
}

func (e *Engine) SetMuted(muted bool) []Effect {
	e.prefs.Muted = muted
	return []Effect{{Kind: EffectSavePreferences}}
}

func (e *Engine) SetZen(zen bool) []Effect {
	e.prefs.Zen = zen
	return []Effect{{Kind: EffectSavePreferences}}
}

// Fallback forces a fresh, idle focus phase.
func (e *Engine) Fallback() []Effect {
	e.pause()
	e.mode = ModeFocus
	e.timeLeft = e.prefs.FocusDuration * 60
	return []Effect{
		{Kind: EffectStopTicker},
		{Kind: EffectShowTaskInput},
		{Kind: EffectSnapshot},
	}
}

func (e *Engine) start(now time.Time) {
	e.running = true
	// Round(0) drops the monotonic reading so the deadline follows the wall
	// clock across suspend, like a restored one does.
	e.target = now.Add(time.Duration(e.timeLeft) * time.Second).Round(0)
}

func (e *Engine) pause() {
	e.running = false
	e.target = time.Time{}
}

func (e *Engine) duration(m Mode) int {
	if m == ModeBreak {
		return e.prefs.BreakDuration * 60
	}
	return e.prefs.FocusDuration * 60
}

// remaining is ceil((target - now) / 1s) at millisecond precision.
func remaining(target, now time.Time) int {
	ms := target.UnixMilli() - now.UnixMilli()
	return int(math.Ceil(float64(ms) / 1000))
}

// ParseCustomFocus reads a typed custom duration. Unparseable input means
// 25 minutes; the result is clamped to the custom range.
func ParseCustomFocus(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		n = store.DefaultFocus
	}
	return store.ClampCustomFocus(n)
}
