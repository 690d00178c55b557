package ui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/dateutil"
	"github.com/javiermolinar/timegrid/internal/slot"
	"github.com/javiermolinar/timegrid/internal/task"
)

// searchWindow bounds the scheduled tasks scanned when resolving an ID prefix.
const searchWindow = 366 * 24 * time.Hour

func (a *App) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, place and resize tasks",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.root.PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.ensureStores()
		},
	}
	cmd.AddCommand(a.taskAddCmd())
	cmd.AddCommand(a.taskListCmd())
	cmd.AddCommand(a.taskPlaceCmd())
	cmd.AddCommand(a.taskResizeCmd())
	cmd.AddCommand(a.taskBacklogCmd())
	cmd.AddCommand(a.taskResetCmd())
	return cmd
}

func (a *App) taskAddCmd() *cobra.Command {
	var (
		date     string
		at       string
		duration string
		project  string
		kind     string
		priority string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a task, in the backlog unless --at is given",
		Example: `  timegrid task add "Write report" --duration=1h30m
  timegrid task add Review --date=tomorrow --at=14:00 --project=acme`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := task.NewTask{
				TaskName:    strings.Join(args, " "),
				ProjectName: project,
				TaskType:    kind,
				Priority:    priority,
			}
			if duration != "" {
				minutes, err := dateutil.ParseMinutes(duration)
				if err != nil {
					return err
				}
				in.Duration = minutes
			}
			if at != "" {
				due, err := placementTime(date, at, time.Now())
				if err != nil {
					return err
				}
				in.DueDate = &due
			}

			t, err := a.tasks.Create(context.Background(), a.config.Owner.ID, in)
			if err != nil {
				return fmt.Errorf("creating task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s (%s)\n",
				shortID(t.ID), formatTask(t.TaskName), t.Placement())
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow, monday, next-week)")
	cmd.Flags().StringVar(&at, "at", "", "Start time (HH:MM), snapped to the 30-minute grid")
	cmd.Flags().StringVar(&duration, "duration", "", "Duration in minutes or like 1h30m (default 60)")
	cmd.Flags().StringVar(&project, "project", "", "Project name")
	cmd.Flags().StringVar(&kind, "type", "", "Task type")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority")

	return cmd
}

func (a *App) taskListCmd() *cobra.Command {
	var (
		date    string
		backlog bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a day, or the backlog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			w := cmd.OutOrStdout()

			if backlog {
				tasks, err := a.tasks.Backlog(ctx, a.config.Owner.ID)
				if err != nil {
					return fmt.Errorf("listing backlog: %w", err)
				}
				fmt.Fprintln(w, formatHeader(fmt.Sprintf("Backlog (%d)", len(tasks))))
				if len(tasks) == 0 {
					fmt.Fprintln(w, "  Nothing waiting.")
				}
				for _, t := range tasks {
					PrintTaskRow(w, t, 40)
				}
				return nil
			}

			day, err := parseDay(date, time.Now())
			if err != nil {
				return err
			}
			tasks, err := a.tasks.ListRange(ctx, a.config.Owner.ID, day, day)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}
			scheduled := make([]*task.Task, 0, len(tasks))
			for _, t := range tasks {
				if t.IsScheduled() {
					scheduled = append(scheduled, t)
				}
			}
			sort.SliceStable(scheduled, func(i, j int) bool { return scheduled[i].DueDate.Before(*scheduled[j].DueDate) })

			fmt.Fprintln(w, formatHeader(day.Format("Monday, January 2")))
			if len(scheduled) == 0 {
				fmt.Fprintln(w, "  No tasks scheduled.")
			}
			for _, t := range scheduled {
				PrintTaskRow(w, t, 40)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow, monday)")
	cmd.Flags().BoolVar(&backlog, "backlog", false, "List unscheduled tasks")

	return cmd
}

func (a *App) taskPlaceCmd() *cobra.Command {
	var (
		date string
		at   string
	)

	cmd := &cobra.Command{
		Use:     "place [id]",
		Short:   "Put a task on the grid",
		Example: `  timegrid task place 3f2a --date=2025-01-16 --at=11:00`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			due, err := placementTime(date, at, time.Now())
			if err != nil {
				return err
			}
			id, err := a.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			t, err := a.tasks.PlaceAt(ctx, a.config.Owner.ID, id, due)
			if err != nil {
				return fmt.Errorf("placing task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Placed %s at %s\n", formatTask(t.TaskName), t.Placement())
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow, monday)")
	cmd.Flags().StringVar(&at, "at", "", "Start time (HH:MM), snapped to the 30-minute grid")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func (a *App) taskResizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "resize [id] [duration]",
		Short:   "Change a task's duration (minimum 30 minutes)",
		Example: `  timegrid task resize 3f2a 1h30m`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			minutes, err := dateutil.ParseMinutes(args[1])
			if err != nil {
				return err
			}
			id, err := a.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			t, err := a.tasks.Resize(ctx, a.config.Owner.ID, id, minutes)
			if err != nil {
				return fmt.Errorf("resizing task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now takes %s\n", formatTask(t.TaskName), FormatDuration(t.EffectiveDuration()))
			return nil
		},
	}
}

func (a *App) taskBacklogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backlog [id]",
		Short: "Send a task back to the backlog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := a.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			t, err := a.tasks.Unschedule(ctx, a.config.Owner.ID, id)
			if err != nil {
				return fmt.Errorf("unscheduling task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to the backlog\n", formatTask(t.TaskName))
			return nil
		},
	}
}

func (a *App) taskResetCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Send every task scheduled on a day back to the backlog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseDay(date, time.Now())
			if err != nil {
				return err
			}
			n, err := a.tasks.ResetDay(context.Background(), a.config.Owner.ID, day)
			if err != nil {
				return fmt.Errorf("resetting day: %w", err)
			}
			if n == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing scheduled on %s.\n", day.Format(dateutil.DateLayout))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %d tasks from %s to the backlog\n", n, day.Format(dateutil.DateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow, monday)")
	return cmd
}

// parseDay accepts the relative forms and, unlike scheduling prompts, past
// dates as well.
func parseDay(s string, now time.Time) (time.Time, error) {
	day, err := dateutil.ParseRelativeDate(s, now)
	if errors.Is(err, dateutil.ErrDateInPast) {
		return dateutil.ParseDate(s)
	}
	return day, err
}

// placementTime combines a day and an HH:MM clock, floored to its slot.
// Midnight is the backlog marker and cannot be a placement.
func placementTime(date, clock string, now time.Time) (time.Time, error) {
	day, err := parseDay(date, now)
	if err != nil {
		return time.Time{}, err
	}
	h, m, err := slot.ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	minutes := slot.Floor(h*60 + m)
	if minutes == 0 {
		return time.Time{}, fmt.Errorf("%w: 00:00 means backlog, use 'task backlog' instead", apperr.ErrValidation)
	}
	return slot.At(day, minutes), nil
}

// resolveTaskID expands a unique ID prefix, as printed by task list.
func (a *App) resolveTaskID(ctx context.Context, prefix string) (string, error) {
	if t, err := a.tasks.Get(ctx, a.config.Owner.ID, prefix); err == nil {
		return t.ID, nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return "", err
	}

	backlog, err := a.tasks.Backlog(ctx, a.config.Owner.ID)
	if err != nil {
		return "", err
	}
	now := time.Now()
	scheduled, err := a.tasks.ListRange(ctx, a.config.Owner.ID, now.Add(-searchWindow), now.Add(searchWindow))
	if err != nil {
		return "", err
	}

	seen := make(map[string]bool)
	var matches []string
	for _, t := range append(backlog, scheduled...) {
		if seen[t.ID] || !strings.HasPrefix(t.ID, prefix) {
			continue
		}
		seen[t.ID] = true
		matches = append(matches, t.ID)
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: task %s", apperr.ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d tasks", apperr.ErrValidation, prefix, len(matches))
	}
}
