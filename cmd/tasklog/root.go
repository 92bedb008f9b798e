package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasklog/internal/bus"
	"github.com/sandeepkv93/tasklog/internal/config"
	"github.com/sandeepkv93/tasklog/internal/storage"
	"github.com/sandeepkv93/tasklog/internal/summary"
	"github.com/sandeepkv93/tasklog/internal/timer"
	"github.com/sandeepkv93/tasklog/internal/tracker"
)

var version = "dev"

// LogFileName is where the TUI writes its log, next to the settings file.
const LogFileName = "tasklog.log"

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "tasklog",
		Short: "tasklog - track billable time against a work shift",
		Long: `tasklog tracks time spent on client and internal tasks.

Run without arguments to open the terminal UI. The subcommands operate on the
same timer state and task logs, so a timer started from the shell shows up in
the UI and the other way round.`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Settings file (default is the user config dir)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newStartCommand(opts))
	cmd.AddCommand(newPauseCommand(opts))
	cmd.AddCommand(newResumeCommand(opts))
	cmd.AddCommand(newStopCommand(opts))
	cmd.AddCommand(newStatusCommand(opts))
	cmd.AddCommand(newFileOpCommand(opts))
	cmd.AddCommand(newLogCommand(opts))
	cmd.AddCommand(newSummaryCommand(opts))
	cmd.AddCommand(newClientsCommand(opts))
	cmd.AddCommand(newConfigCommand(opts))

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}

func (o *rootOptions) level() slog.Level {
	if o.debug {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func (o *rootOptions) store() (*config.Store, error) {
	path := o.configPath
	if path == "" {
		def, err := config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
		path = def
	}
	return config.NewStore(path), nil
}

// cliLogger logs to the command's stderr. The TUI uses a file instead.
func (o *rootOptions) cliLogger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: o.level()}))
}

func (o *rootOptions) fileLogger(dir string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	level := o.level()
	if !o.debug {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}

// app is one process worth of wiring: settings, log store, timer state and
// the tracker service on top of them.
type app struct {
	settings config.Settings
	config   *config.Store
	logs     storage.LogStore
	bus      *bus.Bus
	tracker  *tracker.Service
	logger   *slog.Logger
}

func openApp(ctx context.Context, store *config.Store, logger *slog.Logger) (*app, error) {
	settings, err := store.Load()
	switch {
	case errors.Is(err, config.ErrInvalidSettings):
		logger.Warn("invalid settings reset to defaults", "path", store.Path(), "err", err)
	case err != nil:
		logger.Warn("settings unusable, using defaults", "path", store.Path(), "err", err)
		settings = config.Default()
	}
	logs, err := storage.Open(settings.Backend(), settings.RootPath)
	if err != nil {
		return nil, fmt.Errorf("opening task logs: %w", err)
	}
	shift, err := settings.Shift()
	if err != nil {
		shift, _ = summary.ParseShift(config.Default().WorkShiftStart, config.Default().WorkShiftEnd)
	}
	events := bus.New()
	svc, err := tracker.New(tracker.Options{
		Engine:        timer.NewEngine(),
		Logs:          logs,
		State:         storage.NewStateFile(filepath.Join(store.Dir(), storage.StateFileName)),
		Bus:           events,
		Logger:        logger,
		Shift:         shift,
		TargetSeconds: settings.TargetSeconds(),
	})
	if err != nil {
		_ = logs.Close()
		return nil, err
	}
	a := &app{settings: settings, config: store, logs: logs, bus: events, tracker: svc, logger: logger}
	if final, err := svc.Restore(ctx); err != nil {
		logger.Error("day rollover not saved", "err", err)
	} else if final != nil {
		logger.Info("previous day's task closed", "task_id", final.ID, "name", final.Name)
	}
	return a, nil
}

func (a *app) Close() error {
	a.bus.Close()
	return a.logs.Close()
}

// withApp opens the app for a headless subcommand and closes it afterwards.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(*app) error) error {
	store, err := opts.store()
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context(), store, opts.cliLogger(cmd))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
