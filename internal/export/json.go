package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sadopc/pomodojo/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	Timestamp int64  `json:"timestamp"`
	Date      string `json:"date"`
	Duration  int    `json:"duration_minutes"`
	Task      string `json:"task,omitempty"`
}

// WriteJSON writes entries as an indented JSON document.
func WriteJSON(w io.Writer, entries []store.HistoryEntry, now time.Time) error {
	export := jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(entries),
		Entries:    make([]jsonEntry, 0, len(entries)),
	}

	for _, e := range entries {
		export.Entries = append(export.Entries, jsonEntry{
			Timestamp: e.Timestamp,
			Date:      FormatISO(e.Timestamp),
			Duration:  e.Duration,
			Task:      e.Task,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
