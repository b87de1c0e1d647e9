package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so stray .env files
// in the package directory are not picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	dir := inTempDir(t)

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 200*time.Millisecond, cfg.TickInterval)
}

func TestLoadEmptyPath(t *testing.T) {
	inTempDir(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `
db_path: /tmp/pomo.db
log_level: debug
tick_interval: 500ms
default_focus: 30
default_break: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pomo.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 500*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 30, cfg.DefaultFocus)
	assert.Equal(t, 10, cfg.DefaultBreak)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "default_focus: [")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "default_focus: 30\n")
	t.Setenv("POMODOJO_DEFAULT_FOCUS", "45")
	t.Setenv("POMODOJO_DB", "/tmp/env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.DefaultFocus)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
}

func TestDotEnvFile(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, filepath.Join(dir, ".env"), "POMODOJO_DEFAULT_BREAK=15\n")
	// Registered so the variable godotenv sets is removed after the test.
	t.Setenv("POMODOJO_DEFAULT_BREAK", "")
	os.Unsetenv("POMODOJO_DEFAULT_BREAK")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.DefaultBreak)
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, filepath.Join(dir, ".env"), "POMODOJO_DEFAULT_BREAK=15\n")
	t.Setenv("POMODOJO_DEFAULT_BREAK", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.DefaultBreak)
}

func TestInvalidEnv(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad int", "POMODOJO_DEFAULT_FOCUS", "lots"},
		{"bad duration", "POMODOJO_TICK_INTERVAL", "soon"},
		{"tick too fast", "POMODOJO_TICK_INTERVAL", "10ms"},
		{"zero break", "POMODOJO_DEFAULT_BREAK", "0"},
		{"bad level", "POMODOJO_LOG_LEVEL", "chatty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inTempDir(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDir(t *testing.T) {
	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "pomodojo", filepath.Base(dir))
}
