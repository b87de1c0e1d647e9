package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/jonboulle/clockwork"
	"github.com/sadopc/pomodojo/internal/config"
	"github.com/sadopc/pomodojo/internal/export"
	"github.com/sadopc/pomodojo/internal/logfields"
	"github.com/sadopc/pomodojo/internal/sound"
	"github.com/sadopc/pomodojo/internal/stats"
	"github.com/sadopc/pomodojo/internal/store"
	"github.com/sadopc/pomodojo/internal/tui"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path (default: <config dir>/pomodojo/config.yaml)"`
	DB      string `help:"SQLite database path" env:"POMODOJO_DB"`
	LogFile string `help:"Log file path, - for stderr" env:"POMODOJO_LOG_FILE"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Run struct {
		Room     string `help:"Room label shown in the header"`
		Duration int    `short:"d" help:"Focus length in minutes for this session (ignored while a session is running)"`
	} `cmd:"" default:"1" help:"Open the timer"`

	Stats struct{} `cmd:"" help:"Print today's and this week's focus totals"`

	Export struct {
		Format string `short:"f" enum:"csv,json" default:"csv" help:"Export format (csv, json)"`
		Output string `short:"o" help:"Output file, - for stdout (default: pomodojo_history.<format>)"`
	} `cmd:"" help:"Export the session history"`

	ResetData struct {
		Yes bool `short:"y" help:"Skip the confirmation prompt"`
	} `cmd:"" name:"reset-data" help:"Delete all sessions, settings and the saved timer"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("pomodojo"),
		kong.Description("A focus timer for the terminal."),
		kong.UsageOnError(),
	)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	s, err := store.New(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	s.WithLogger(logger)
	defer s.Close()

	clock := clockwork.NewRealClock()
	ledger := stats.NewLedger(s, clock, logger)

	switch ctx.Command() {
	case "run":
		err = runTimer(cfg, s, ledger, clock, logger)
	case "stats":
		err = runStats(s, ledger, os.Stdout)
	case "export":
		err = runExport(s, clock, logger)
	case "reset-data":
		err = runReset(s, logger)
	}
	if err != nil {
		logger.Error("command failed", logfields.Op(ctx.Command()), logfields.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		s.Close()
		closeLog()
		os.Exit(1)
	}
}

// loadConfig applies the config file and environment, then the global flags.
func loadConfig() (config.Config, error) {
	path := CLI.Config
	if path == "" {
		dir, err := config.Dir()
		if err == nil {
			path = filepath.Join(dir, "config.yaml")
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if CLI.DB != "" {
		cfg.DBPath = CLI.DB
	}
	if CLI.LogFile != "" {
		cfg.LogFile = CLI.LogFile
	}
	if CLI.Verbose {
		cfg.LogLevel = "debug"
	}
	if cfg.DBPath == "" {
		if cfg.DBPath, err = store.DefaultDBPath(); err != nil {
			return cfg, err
		}
	}
	if cfg.LogFile == "" {
		dir, err := config.Dir()
		if err != nil {
			return cfg, err
		}
		cfg.LogFile = filepath.Join(dir, "pomodojo.log")
	}
	return cfg, nil
}

// setupLogging opens the log destination. The terminal belongs to the UI,
// so logs go to a file unless "-" asks for stderr.
func setupLogging(cfg config.Config) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.LogFile != "-" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}

func runTimer(cfg config.Config, s *store.Store, ledger *stats.Ledger, clock clockwork.Clock, logger *slog.Logger) error {
	base := store.DefaultPreferences()
	base.FocusDuration = cfg.DefaultFocus
	base.BreakDuration = cfg.DefaultBreak

	app := tui.NewApp(tui.Deps{
		Store:         s,
		Ledger:        ledger,
		Prefs:         s.LoadPreferences(base),
		Clock:         clock,
		Audio:         sound.NewBell(os.Stdout),
		Logger:        logger,
		TickInterval:  cfg.TickInterval,
		Room:          CLI.Run.Room,
		FocusOverride: CLI.Run.Duration,
	})

	logger.Info("timer started", logfields.Path(cfg.DBPath), slog.String("room", CLI.Run.Room))
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func runStats(s *store.Store, ledger *stats.Ledger, w io.Writer) error {
	daily, err := ledger.Daily()
	if err != nil {
		return err
	}
	weekly, err := ledger.Weekly()
	if err != nil {
		return err
	}
	days, err := ledger.Breakdown(7)
	if err != nil {
		return err
	}
	total, err := s.CountHistory()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Today      %4d min  %3d sessions\n", daily.Minutes, daily.Sessions)
	fmt.Fprintf(w, "This week  %4d min  %3d sessions\n", weekly.Minutes, weekly.Sessions)
	fmt.Fprintf(w, "All time             %3d sessions\n", total)
	fmt.Fprintln(w)
	for _, d := range days {
		fmt.Fprintf(w, "%s  %4d min  %3d sessions\n", d.Date.Format("Mon Jan 02"), d.Minutes, d.Sessions)
	}
	return nil
}

func runExport(s *store.Store, clock clockwork.Clock, logger *slog.Logger) error {
	format, err := export.ParseFormat(CLI.Export.Format)
	if err != nil {
		return err
	}
	entries, err := s.ListHistory(store.HistoryFilter{})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return errors.New("no history to export")
	}

	path := CLI.Export.Output
	if path == "-" {
		return export.Write(os.Stdout, format, entries, clock.Now())
	}
	if path == "" {
		path = export.DefaultFileName(format)
	}
	if err := export.ToFile(path, format, entries, clock.Now()); err != nil {
		return err
	}
	logger.Info("history exported", logfields.Path(path), slog.Int("count", len(entries)))
	fmt.Fprintf(os.Stderr, "Exported %d sessions to %s\n", len(entries), path)
	return nil
}

func runReset(s *store.Store, logger *slog.Logger) error {
	if !CLI.ResetData.Yes {
		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Delete all sessions, settings and the saved timer?").
				Description("This cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return fmt.Errorf("confirm reset: %w", err)
		}
		if !confirmed {
			fmt.Fprintln(os.Stderr, "Nothing deleted.")
			return nil
		}
	}

	if err := s.Clear(); err != nil {
		return err
	}
	logger.Warn("all data cleared")
	fmt.Fprintln(os.Stderr, "All data deleted.")
	return nil
}
