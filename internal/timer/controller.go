package timer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sadopc/pomodojo/internal/logfields"
	"github.com/sadopc/pomodojo/internal/stats"
	"github.com/sadopc/pomodojo/internal/store"
)

// DisplaySink receives the countdown and mode caption after every
// operation, and the identity rollups whenever they are refreshed.
type DisplaySink interface {
	Show(clock, label string)
	ShowStats(daily store.DailyStat, weekly stats.Summary)
}

// AudioSink plays completion cues. Errors are logged and otherwise ignored.
type AudioSink interface {
	Prepare() error
	Play(completed Mode) error
}

// TaskSource supplies the task label when a focus phase starts.
type TaskSource interface {
	Task() string
}

// Store is the persistence the controller writes snapshots to.
type Store interface {
	LoadRunState() *store.RunState
	SaveRunState(rs store.RunState) error
	LoadCurrentTask() string
	SaveCurrentTask(task string) error
	SavePreferences(p store.Preferences) error
}

type Options struct {
	Clock   clockwork.Clock
	Audio   AudioSink
	Display DisplaySink
	Tasks   TaskSource
	Logger  *slog.Logger
}

// Controller drives an Engine and performs the effects it returns.
type Controller struct {
	engine  *Engine
	store   Store
	ledger  *stats.Ledger
	clock   clockwork.Clock
	audio   AudioSink
	display DisplaySink
	tasks   TaskSource
	logger  *slog.Logger

	panel   Panel
	tickID  int
	ticking bool
}

func NewController(s Store, ledger *stats.Ledger, prefs store.Preferences, opts Options) *Controller {
	c := &Controller{
		engine:  NewEngine(prefs),
		store:   s,
		ledger:  ledger,
		clock:   opts.Clock,
		audio:   opts.Audio,
		display: opts.Display,
		tasks:   opts.Tasks,
		logger:  opts.Logger,
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	if c.audio == nil {
		c.audio = silent{}
	}
	if c.display == nil {
		c.display = discard{}
	}
	if c.tasks == nil {
		c.tasks = noTask{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// State is a read-only view of the controller for rendering.
type State struct {
	Mode     Mode
	TimeLeft int
	Running  bool
	Label    string
	Task     string
	Panel    Panel
	Prefs    store.Preferences
}

func (c *Controller) State() State {
	return State{
		Mode:     c.engine.Mode(),
		TimeLeft: c.engine.TimeLeft(),
		Running:  c.engine.Running(),
		Label:    c.engine.Label(),
		Task:     c.engine.Task(),
		Panel:    c.panel,
		Prefs:    c.engine.Preferences(),
	}
}

// TickID identifies the live periodic re-evaluation chain. It changes
// whenever the chain is started or stopped, so ticks carrying an older ID
// are stale.
func (c *Controller) TickID() int   { return c.tickID }
func (c *Controller) Ticking() bool { return c.ticking }

// Recover restores the persisted run state. It never fails: any fault
// leaves a fresh focus phase.
func (c *Controller) Recover() {
	c.do("recover", func(now time.Time) []Effect {
		snap := c.store.LoadRunState()
		task := c.store.LoadCurrentTask()
		fx := c.engine.Restore(snap, task, now)
		if snap != nil {
			c.logger.Info("run state restored",
				logfields.Mode(string(c.engine.Mode())),
				logfields.TimeLeft(c.engine.TimeLeft()),
				slog.Bool("running", c.engine.Running()))
		}
		return append(fx, Effect{Kind: EffectRefreshStats})
	})
}

func (c *Controller) Start() {
	c.do("start", c.engine.Start)
}

func (c *Controller) Pause() {
	c.do("pause", c.engine.Pause)
}

// Toggle starts or pauses, reading the task label when a focus phase starts.
func (c *Controller) Toggle() {
	c.do("toggle", func(now time.Time) []Effect {
		task := ""
		if !c.engine.Running() && c.engine.Mode() == ModeFocus {
			task = c.tasks.Task()
		}
		return c.engine.Toggle(now, task)
	})
}

func (c *Controller) Reset() {
	c.do("reset", func(time.Time) []Effect { return c.engine.Reset() })
}

// Tick re-evaluates the deadline for the chain identified by id. It reports
// whether that chain is still live and should fire again.
func (c *Controller) Tick(id int) bool {
	if !c.ticking || id != c.tickID {
		return false
	}
	c.do("tick", c.engine.Tick)
	return c.ticking && id == c.tickID
}

// SetFocusDuration reports whether the change was accepted.
func (c *Controller) SetFocusDuration(minutes int) bool {
	return c.accepted("set-focus", func() []Effect { return c.engine.SetFocusDuration(minutes) })
}

func (c *Controller) SetCustomFocus(minutes int) bool {
	return c.accepted("set-custom-focus", func() []Effect { return c.engine.SetCustomFocus(minutes) })
}

func (c *Controller) SetBreakDuration(minutes int) bool {
	return c.accepted("set-break", func() []Effect { return c.engine.SetBreakDuration(minutes) })
}

// OverrideFocus applies an external focus duration request.
func (c *Controller) OverrideFocus(minutes int) bool {
	return c.accepted("override-focus", func() []Effect { return c.engine.OverrideFocus(minutes) })
}

func (c *Controller) SetMuted(muted bool) {
	c.do("set-muted", func(time.Time) []Effect { return c.engine.SetMuted(muted) })
}

func (c *Controller) SetZen(zen bool) {
	c.do("set-zen", func(time.Time) []Effect { return c.engine.SetZen(zen) })
}

// DismissReflection returns from the reflection prompt to task entry.
func (c *Controller) DismissReflection() {
	c.panel = PanelTaskInput
}

// Refresh re-reads the identity rollups, rolling the daily stat over if
// the day changed.
func (c *Controller) Refresh() {
	c.do("refresh", func(time.Time) []Effect { return []Effect{{Kind: EffectRefreshStats}} })
}

func (c *Controller) accepted(op string, fn func() []Effect) bool {
	ok := false
	c.do(op, func(time.Time) []Effect {
		fx := fn()
		ok = len(fx) > 0
		return fx
	})
	return ok
}

// do runs one engine operation and its effects under a fault guard.
func (c *Controller) do(op string, fn func(now time.Time) []Effect) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("timer operation failed, falling back to a fresh focus session",
				logfields.Op(op), logfields.Error(fmt.Errorf("panic: %v", r)))
			c.fallback()
		}
	}()
	now := c.clock.Now()
	c.apply(now, fn(now))
	c.publish()
}

func (c *Controller) fallback() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("fallback failed", logfields.Error(fmt.Errorf("panic: %v", r)))
		}
	}()
	c.apply(c.clock.Now(), c.engine.Fallback())
	c.publish()
}

func (c *Controller) apply(now time.Time, fx []Effect) {
	for _, f := range fx {
		switch f.Kind {
		case EffectSnapshot:
			if err := c.store.SaveRunState(c.engine.Snapshot(now)); err != nil {
				c.logger.Warn("save run state failed", logfields.Error(err))
			}
			if err := c.store.SaveCurrentTask(c.engine.Task()); err != nil {
				c.logger.Warn("save current task failed", logfields.Error(err))
			}
		case EffectSavePreferences:
			if err := c.store.SavePreferences(c.engine.Preferences()); err != nil {
				c.logger.Warn("save preferences failed", logfields.Error(err))
			}
		case EffectStartTicker:
			c.tickID++
			c.ticking = true
		case EffectStopTicker:
			if c.ticking {
				c.tickID++
			}
			c.ticking = false
		case EffectPrepareAudio:
			if err := c.audio.Prepare(); err != nil {
				c.logger.Debug("audio unavailable", logfields.Error(err))
			}
		case EffectPlayCue:
			if c.engine.Preferences().Muted {
				continue
			}
			if err := c.audio.Play(f.Cue); err != nil {
				c.logger.Debug("play cue failed", logfields.Mode(string(f.Cue)), logfields.Error(err))
			}
		case EffectRecordSession:
			if err := c.ledger.RecordSession(f.Minutes, f.Task); err != nil {
				c.logger.Error("record session failed", logfields.Minutes(f.Minutes), logfields.Error(err))
			}
		case EffectRefreshStats:
			c.refreshStats()
		case EffectShowReflection:
			c.panel = PanelReflection
		case EffectShowTaskInput:
			c.panel = PanelTaskInput
		}
	}
}

func (c *Controller) refreshStats() {
	daily, err := c.ledger.Daily()
	if err != nil {
		c.logger.Warn("daily stats", logfields.Error(err))
	}
	weekly, err := c.ledger.Weekly()
	if err != nil {
		c.logger.Warn("weekly stats", logfields.Error(err))
	}
	c.display.ShowStats(daily, weekly)
}

func (c *Controller) publish() {
	c.display.Show(FormatTime(c.engine.TimeLeft()), c.engine.Label())
}

type silent struct{}

func (silent) Prepare() error  { return nil }
func (silent) Play(Mode) error { return nil }

type discard struct{}

func (discard) Show(string, string)                      {}
func (discard) ShowStats(store.DailyStat, stats.Summary) {}

type noTask struct{}

func (noTask) Task() string { return "" }
