package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/pomodojo/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2023-11-14T22:13:20.000Z
const sampleMs int64 = 1_700_000_000_000

func sampleEntries() []store.HistoryEntry {
	return []store.HistoryEntry{
		{ID: 1, Timestamp: sampleMs, Duration: 25, Task: "write tests"},
		{ID: 2, Timestamp: sampleMs + 1_800_000, Duration: 45, Task: ""},
	}
}

// ============================================================
// CSV
// ============================================================

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleEntries()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Timestamp,Duration (mins),Task,Date", lines[0])
	assert.Equal(t, `1700000000000,25,"write tests",2023-11-14T22:13:20.000Z`, lines[1])
	assert.Equal(t, `1700001800000,45,"",2023-11-14T22:43:20.000Z`, lines[2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, CSVHeader+"\n", buf.String())
}

func TestWriteCSVSpecialCharacters(t *testing.T) {
	entries := []store.HistoryEntry{
		{Timestamp: sampleMs, Duration: 25, Task: `fix "quotes", and commas`},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err, "CSV should be valid even with special chars")
	require.Len(t, records, 2)
	assert.Equal(t, `fix "quotes", and commas`, records[1][2])
	assert.Equal(t, "25", records[1][1])
}

func TestFormatISO(t *testing.T) {
	assert.Equal(t, "2023-11-14T22:13:20.000Z", FormatISO(sampleMs))
	assert.Equal(t, "1970-01-01T00:00:00.123Z", FormatISO(123))
}

// ============================================================
// JSON
// ============================================================

func TestWriteJSON(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleEntries(), now))

	var got jsonExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "2026-03-04T12:00:00Z", got.ExportedAt)
	assert.Equal(t, 2, got.Count)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, jsonEntry{Timestamp: sampleMs, Date: "2023-11-14T22:13:20.000Z", Duration: 25, Task: "write tests"}, got.Entries[0])
	assert.NotContains(t, buf.String(), `"task": ""`)
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil, time.Now()))

	assert.Contains(t, buf.String(), `"entries": []`)
	assert.Contains(t, buf.String(), `"count": 0`)
}

func TestWriteJSONPrettyPrinted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleEntries(), time.Now()))
	assert.Contains(t, buf.String(), "\n  ")
}

// ============================================================
// Files and formats
// ============================================================

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" json ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "pomodojo_history.csv", DefaultFileName(FormatCSV))
	assert.Equal(t, "pomodojo_history.json", DefaultFileName(FormatJSON))
}

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName(FormatCSV))
	require.NoError(t, ToFile(path, FormatCSV, sampleEntries(), time.Now()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), CSVHeader+"\n"))
}

func TestToFileBadPath(t *testing.T) {
	err := ToFile("/nonexistent/dir/file.csv", FormatCSV, nil, time.Now())
	assert.Error(t, err)
}
