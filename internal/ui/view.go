package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/timegrid/internal/calendar"
	"github.com/javiermolinar/timegrid/internal/debuglog"
	"github.com/javiermolinar/timegrid/internal/task"
)

func (a *App) viewCmd() *cobra.Command {
	var (
		date    string
		copyOut bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "view [day|week|month]",
		Short: "Print the calendar for a day, week or month",
		Long: `Print the calendar as text. Without an argument the configured
default view is used.

Examples:
  timegrid view
  timegrid view day --date=tomorrow
  timegrid view week --copy`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"day", "week", "month"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.root.PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.ensureStores()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				disableColor()
			}

			mode := a.config.View()
			if len(args) == 1 {
				m, err := calendar.ParseMode(args[0])
				if err != nil {
					return err
				}
				mode = m
			}
			now := time.Now()
			day, err := parseDay(date, now)
			if err != nil {
				return err
			}

			g, err := a.renderGrid(context.Background(), mode, day, now)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printView(w, g, termWidth())

			if copyOut {
				text := g.Agenda(g.tasks)
				if text == "" {
					fmt.Fprintln(w, formatMuted("Nothing scheduled to copy."))
					return nil
				}
				if err := clipboard.WriteAll(text); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				debuglog.Log("AGENDA_COPY", map[string]any{"mode": mode.String(), "bytes": len(text)})
				fmt.Fprintln(w, formatMuted("Agenda copied to clipboard."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date inside the view (YYYY-MM-DD, today, tomorrow, monday)")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the agenda of the view to the clipboard")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

// renderedView is a grid plus the task list it was built from.
type renderedView struct {
	*calendar.Grid
	tasks []*task.Task
}

func (a *App) renderGrid(ctx context.Context, mode calendar.Mode, date, now time.Time) (renderedView, error) {
	start, end := calendar.RangeFor(date, mode)
	blocks, err := a.blocks.List(ctx, a.config.Owner.ID)
	if err != nil {
		return renderedView{}, fmt.Errorf("listing blocks: %w", err)
	}
	tasks, err := a.tasks.ListRange(ctx, a.config.Owner.ID, start, end)
	if err != nil {
		return renderedView{}, fmt.Errorf("listing tasks: %w", err)
	}

	g := calendar.Render(calendar.Input{
		Mode:          mode,
		Date:          date,
		Now:           now,
		Geometry:      a.config.Geometry(),
		Blocks:        blocks,
		Tasks:         tasks,
		MonthMaxTasks: a.config.Grid.MonthMaxTasks,
	})
	return renderedView{Grid: g, tasks: tasks}, nil
}

func printView(w io.Writer, v renderedView, width int) {
	title := v.Start.Format("Monday, January 2, 2006")
	switch v.Mode {
	case calendar.Week:
		title = fmt.Sprintf("Week of %s - %s", v.Start.Format("Jan 2"), v.End.Format("Jan 2, 2006"))
	case calendar.Month:
		title = v.Start.Format("January 2006")
	}
	fmt.Fprintf(w, "%s\n\n", formatHeader(title))

	if v.Mode == calendar.Month {
		PrintMonth(w, v.Grid, width)
		PrintAgenda(w, v.Grid, v.tasks)
		return
	}

	PrintGrid(w, v.Grid, width)

	var stats Stats
	for _, col := range v.Columns {
		AccumulateColumn(&stats, col, viewportMinutes(v.Grid))
	}
	fmt.Fprintln(w)
	PrintStats(w, stats)
}
