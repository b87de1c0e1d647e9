package timer

// Mode is the phase of the focus/break cycle.
type Mode string

const (
	ModeFocus Mode = "focus"
	ModeBreak Mode = "break"
)

func (m Mode) Valid() bool {
	return m == ModeFocus || m == ModeBreak
}

func (m Mode) String() string {
	return string(m)
}

// Panel is the secondary prompt shown under the countdown.
type Panel int

const (
	PanelTaskInput Panel = iota
	PanelReflection
)
