package timer

import (
	"time"

	"github.com/sadopc/pomodojo/internal/store"
)

// Restore reconciles a persisted snapshot with the current time. A nil
// snapshot yields a fresh focus phase. A running snapshot whose deadline is
// still ahead resumes with the remaining time; one whose deadline passed
// completes the phase now so the missed completion is still recorded. A
// paused snapshot keeps its remaining time only if it fits the mode's
// duration.
func (e *Engine) Restore(snap *store.RunState, task string, now time.Time) []Effect {
	e.pause()
	e.mode = ModeFocus
	e.task = task

	if snap == nil {
		e.timeLeft = e.prefs.FocusDuration * 60
		return []Effect{{Kind: EffectShowTaskInput}}
	}

	if m := Mode(snap.Mode); m.Valid() {
		e.mode = m
	}

	var fx []Effect
	if snap.IsRunning && snap.TargetEndTime != nil {
		target := time.UnixMilli(*snap.TargetEndTime)
		if delta := remaining(target, now); delta > 0 {
			e.timeLeft = delta
			e.target = target
			e.running = true
			fx = append(fx, Effect{Kind: EffectStartTicker})
		} else {
			e.timeLeft = 0
			fx = append(fx, e.SwitchMode(now)...)
		}
	} else {
		limit := e.duration(e.mode)
		if snap.TimeLeft > 0 && snap.TimeLeft <= limit {
			e.timeLeft = snap.TimeLeft
		} else {
			e.timeLeft = limit
		}
	}

	if e.mode == ModeBreak {
		fx = append(fx, Effect{Kind: EffectShowReflection})
	} else {
		fx = append(fx, Effect{Kind: EffectShowTaskInput})
	}
	return fx
}
