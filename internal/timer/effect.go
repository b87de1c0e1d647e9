package timer

// EffectKind names a side effect requested by an Engine transition.
type EffectKind int

const (
	EffectSnapshot EffectKind = iota
	EffectSavePreferences
	EffectStartTicker
	EffectStopTicker
	EffectPrepareAudio
	EffectPlayCue
	EffectRecordSession
	EffectRefreshStats
	EffectShowReflection
	EffectShowTaskInput
)

var effectNames = map[EffectKind]string{
	EffectSnapshot:        "snapshot",
	EffectSavePreferences: "save-preferences",
	EffectStartTicker:     "start-ticker",
	EffectStopTicker:      "stop-ticker",
	EffectPrepareAudio:    "prepare-audio",
	EffectPlayCue:         "play-cue",
	EffectRecordSession:   "record-session",
	EffectRefreshStats:    "refresh-stats",
	EffectShowReflection:  "show-reflection",
	EffectShowTaskInput:   "show-task-input",
}

func (k EffectKind) String() string {
	if n, ok := effectNames[k]; ok {
		return n
	}
	return "unknown"
}

// Effect is an intended side effect. Cue is set for EffectPlayCue (the mode
// that just completed); Minutes and Task for EffectRecordSession.
type Effect struct {
	Kind    EffectKind
	Cue     Mode
	Minutes int
	Task    string
}
