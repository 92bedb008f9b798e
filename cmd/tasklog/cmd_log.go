package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasklog/internal/model"
	"github.com/sandeepkv93/tasklog/internal/storage"
	"github.com/sandeepkv93/tasklog/internal/tracker"
)

func newLogCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Inspect and correct the daily task logs",
	}
	cmd.AddCommand(newLogListCommand(opts))
	cmd.AddCommand(newLogAddCommand(opts))
	cmd.AddCommand(newLogEditCommand(opts))
	cmd.AddCommand(newLogDeleteCommand(opts))
	return cmd
}

func newLogListCommand(opts *rootOptions) *cobra.Command {
	var date string
	var days int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged tasks for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				day, err := resolveDate(a, date)
				if err != nil {
					return err
				}
				if days > 1 {
					return listRange(cmd, a, day, days)
				}
				tasks, err := a.tracker.Logs(cmd.Context(), day)
				if err != nil {
					return err
				}
				if len(tasks) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: no tasks logged\n", day)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), day)
				fmt.Fprintln(cmd.OutOrStdout(), renderTasks(tasks))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to list (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&days, "days", 1, "Number of days ending at --date")
	return cmd
}

// listRange prints the tasks of days days ending at last. Unreadable days are
// reported and skipped.
func listRange(cmd *cobra.Command, a *app, last string, days int) error {
	to, err := model.ParseDay(last)
	if err != nil {
		return err
	}
	from := to.AddDate(0, 0, -(days - 1))
	tasks, failed := a.tracker.LogsRange(cmd.Context(), from, to)
	for day, ferr := range failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", day, ferr)
	}
	if len(tasks) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s..%s: no tasks logged\n", model.DayKey(from), last)
		return nil
	}
	var total int64
	for _, task := range tasks {
		total += task.Duration
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s..%s\n", model.DayKey(from), last)
	fmt.Fprintln(cmd.OutOrStdout(), renderTasks(tasks))
	fmt.Fprintf(cmd.OutOrStdout(), "total %s\n", model.FormatDuration(total))
	return nil
}

func renderTasks(tasks []model.Task) string {
	rows := make([][]string, 0, len(tasks))
	for i, task := range tasks {
		kind := "billable"
		if model.IsNonBillable(task.Name) {
			kind = "internal"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			task.ID,
			task.Name,
			clock(task.StartTime),
			model.FormatDuration(task.Duration),
			kind,
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "ID", "NAME", "START", "DURATION", "TYPE").
		Rows(rows...).
		String()
}

func newLogAddCommand(opts *rootOptions) *cobra.Command {
	var narration string
	cmd := &cobra.Command{
		Use:   "add <duration> <name>",
		Short: "Add a task to today's log that ends now",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				task, err := a.tracker.AddManual(cmd.Context(), strings.Join(args[1:], " "), args[0], narration)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s %s (%s)\n", task.Name, model.FormatDuration(task.Duration), task.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&narration, "narration", "", "What was done")
	return cmd
}

func newLogEditCommand(opts *rootOptions) *cobra.Command {
	var date, name, duration, narration string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the name, duration or narration of a logged task",
		Long: `Change the name, duration or narration of a logged task.

Flags that are not given keep the task's current value. The end time moves to
the start time plus the new duration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				day, err := resolveDate(a, date)
				if err != nil {
					return err
				}
				current, err := findTask(cmd, a, day, args[0])
				if err != nil {
					return err
				}
				edit := tracker.Edit{
					Name:      current.Name,
					Duration:  model.FormatDuration(current.Duration),
					Narration: current.Narration,
				}
				if cmd.Flags().Changed("name") {
					edit.Name = name
				}
				if cmd.Flags().Changed("duration") {
					edit.Duration = duration
				}
				if cmd.Flags().Changed("narration") {
					edit.Narration = narration
				}
				task, err := a.tracker.EditLogged(cmd.Context(), day, args[0], edit)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s %s\n", task.Name, model.FormatDuration(task.Duration))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day the task is logged under (default today)")
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&duration, "duration", "", "New duration (HH:MM:SS)")
	cmd.Flags().StringVar(&narration, "narration", "", "New narration")
	return cmd
}

func newLogDeleteCommand(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a task from a day's log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				day, err := resolveDate(a, date)
				if err != nil {
					return err
				}
				if err := a.tracker.DeleteLogged(cmd.Context(), day, args[0]); err != nil {
					if errors.Is(err, storage.ErrNotFound) {
						return fmt.Errorf("no task %s on %s", args[0], day)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day the task is logged under (default today)")
	return cmd
}

func findTask(cmd *cobra.Command, a *app, day, id string) (model.Task, error) {
	tasks, err := a.tracker.Logs(cmd.Context(), day)
	if err != nil {
		return model.Task{}, err
	}
	for _, task := range tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return model.Task{}, fmt.Errorf("no task %s on %s", id, day)
}

// resolveDate validates a YYYY-MM-DD flag value; empty means today.
func resolveDate(a *app, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return a.tracker.Today(), nil
	}
	day, err := model.ParseDay(raw)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", raw)
	}
	return model.DayKey(day), nil
}

func clock(t time.Time) string {
	return t.In(model.ReferenceZone).Format("15:04")
}
