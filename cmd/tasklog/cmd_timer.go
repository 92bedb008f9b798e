package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasklog/internal/model"
	"github.com/sandeepkv93/tasklog/internal/timer"
	"github.com/sandeepkv93/tasklog/internal/tracker"
)

func newStartCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start <name>",
		Short: "Start timing a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				task, err := a.tracker.Start(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "started %s at %s\n", task.Name, clock(task.StartTime))
				return nil
			})
		},
	}
}

func newPauseCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the running task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				if !a.tracker.Pause() {
					return errors.New("no running task to pause")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "paused at %s\n", model.FormatDuration(a.tracker.Elapsed()))
				return nil
			})
		},
	}
}

func newResumeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume the paused task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				if !a.tracker.Resume() {
					return errors.New("no paused task to resume")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "resumed")
				return nil
			})
		},
	}
}

func newStopCommand(opts *rootOptions) *cobra.Command {
	var stop tracker.StopOptions
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the active task and write it to today's log",
		Long: `Stop the active task and write it to today's log.

The name and duration default to the running task's values. The timer is
only cleared once the log write succeeded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				task, err := a.tracker.Stop(cmd.Context(), stop)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "logged %s %s\n", task.Name, model.FormatDuration(task.Duration))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&stop.Name, "name", "", "Final task name")
	cmd.Flags().StringVar(&stop.Duration, "duration", "", "Override the duration (HH:MM:SS)")
	cmd.Flags().StringVar(&stop.Narration, "narration", "", "What was done")
	return cmd
}

func newStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				out := cmd.OutOrStdout()
				phase := a.tracker.Phase()
				state := a.tracker.State()
				if phase == timer.PhaseIdle || state.CurrentTask == nil {
					fmt.Fprintln(out, "idle")
					return nil
				}
				task := state.CurrentTask
				fmt.Fprintf(out, "%s: %s\n", phase, task.Name)
				fmt.Fprintf(out, "started %s, elapsed %s\n", clock(task.StartTime), model.FormatDuration(a.tracker.Elapsed()))
				if n := len(task.WindowTitles); n > 0 {
					fmt.Fprintf(out, "last window: %s\n", task.WindowTitles[n-1].WindowTitle)
				}
				return nil
			})
		},
	}
}

func newFileOpCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fileop <operation> [details]",
		Short: "Record a file operation against the running task",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				details := ""
				if len(args) == 2 {
					details = args[1]
				}
				if !a.tracker.LogFileOperation(args[0], details) {
					return errors.New("file operations are only logged while a task is running")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "file operation logged")
				return nil
			})
		},
	}
}
