// Package config loads application settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

const (
	DefaultTickInterval = 200 * time.Millisecond
	MinTickInterval     = 50 * time.Millisecond
)

// Config holds process-level settings. Timer preferences live in the store.
type Config struct {
	DBPath       string        `yaml:"db_path"`
	LogFile      string        `yaml:"log_file"`
	LogLevel     string        `yaml:"log_level"`
	TickInterval time.Duration `yaml:"tick_interval"`
	DefaultFocus int           `yaml:"default_focus"`
	DefaultBreak int           `yaml:"default_break"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel:     "info",
		TickInterval: DefaultTickInterval,
		DefaultFocus: 25,
		DefaultBreak: 5,
	}
}

// Dir returns ~/.config/pomodojo.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "pomodojo"), nil
}

// Load builds a Config from defaults, the YAML file at path (if it
// exists), .env files in the working directory, and POMODOJO_*
// environment variables, in increasing precedence.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	loadEnvFiles()
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// loadEnvFiles loads .env and .env.local without overriding variables
// already present in the process environment.
func loadEnvFiles() {
	for _, f := range []string{".env", ".env.local"} {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("POMODOJO_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("POMODOJO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("POMODOJO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("POMODOJO_TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: POMODOJO_TICK_INTERVAL: %v", ErrInvalid, err)
		}
		cfg.TickInterval = d
	}
	for name, dst := range map[string]*int{
		"POMODOJO_DEFAULT_FOCUS": &cfg.DefaultFocus,
		"POMODOJO_DEFAULT_BREAK": &cfg.DefaultBreak,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks value domains.
func (c Config) Validate() error {
	if c.TickInterval < MinTickInterval {
		return fmt.Errorf("%w: tick_interval %s is below %s", ErrInvalid, c.TickInterval, MinTickInterval)
	}
	if c.DefaultFocus <= 0 || c.DefaultBreak <= 0 {
		return fmt.Errorf("%w: default durations must be positive", ErrInvalid)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalid, s)
}
