// Package sound plays completion cues on the terminal bell.
package sound

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sadopc/pomodojo/internal/timer"
)

var ErrUnavailable = errors.New("terminal bell unavailable")

var _ timer.AudioSink = (*Bell)(nil)

// Bell rings the terminal bell: twice when a focus phase completes, once
// when a break completes.
type Bell struct {
	out       io.Writer
	available bool
}

// NewBell returns a Bell on f. It is unavailable unless f is a terminal.
func NewBell(f *os.File) *Bell {
	if f == nil {
		return &Bell{}
	}
	fd := f.Fd()
	return &Bell{
		out:       f,
		available: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

func (b *Bell) Prepare() error {
	if !b.available {
		return ErrUnavailable
	}
	return nil
}

func (b *Bell) Play(completed timer.Mode) error {
	if err := b.Prepare(); err != nil {
		return err
	}
	rings := 1
	if completed == timer.ModeFocus {
		rings = 2
	}
	_, err := io.WriteString(b.out, strings.Repeat("\a", rings))
	return err
}
