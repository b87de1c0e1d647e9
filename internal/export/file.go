// Package export renders the session history for use outside the app.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sadopc/pomodojo/internal/store"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// DefaultFileName is the export file name for format f.
func DefaultFileName(f Format) string {
	return "pomodojo_history." + string(f)
}

// Write renders entries to w in format f.
func Write(w io.Writer, f Format, entries []store.HistoryEntry, now time.Time) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, entries, now)
	default:
		return WriteCSV(w, entries)
	}
}

// ToFile writes entries to path in format f, replacing any existing file.
func ToFile(path string, f Format, entries []store.HistoryEntry, now time.Time) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s file: %w", f, err)
	}
	if err := Write(out, f, entries, now); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
