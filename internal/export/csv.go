package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sadopc/pomodojo/internal/store"
)

// CSVHeader is the first line of a CSV history export.
const CSVHeader = "Timestamp,Duration (mins),Task,Date"

// isoMillis matches the ISO-8601 rendering with millisecond precision in UTC.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// WriteCSV writes entries as CSV. The task column is always quoted.
func WriteCSV(w io.Writer, entries []store.HistoryEntry) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, CSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		_, err := fmt.Fprintf(bw, "%d,%d,%s,%s\n",
			e.Timestamp,
			e.Duration,
			quote(e.Task),
			FormatISO(e.Timestamp),
		)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FormatISO renders an epoch-millisecond timestamp as ISO-8601 UTC.
func FormatISO(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(isoMillis)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
