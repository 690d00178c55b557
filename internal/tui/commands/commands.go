// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timegrid/internal/block"
	"github.com/javiermolinar/timegrid/internal/calendar"
	"github.com/javiermolinar/timegrid/internal/drag"
	"github.com/javiermolinar/timegrid/internal/suggest"
	"github.com/javiermolinar/timegrid/internal/task"
)

// TaskStore is the part of the task store the TUI uses.
type TaskStore interface {
	drag.Scheduler
	ListRange(ctx context.Context, ownerID string, start, end time.Time) ([]*task.Task, error)
	Backlog(ctx context.Context, ownerID string) ([]*task.Task, error)
	Create(ctx context.Context, ownerID string, in task.NewTask) (*task.Task, error)
	ResetDay(ctx context.Context, ownerID string, date time.Time) (int, error)
}

// BlockStore is the part of the block store the TUI uses.
type BlockStore interface {
	List(ctx context.Context, ownerID string) ([]*block.TimeBlock, error)
}

// Suggester proposes and applies backlog placements.
type Suggester interface {
	Suggest(ctx context.Context, ownerID string, date time.Time) (*suggest.Result, error)
	Apply(ctx context.Context, ownerID string, result *suggest.Result) ([]*task.Task, error)
}

// LoadedMsg carries everything needed to draw a range.
type LoadedMsg struct {
	Mode    calendar.Mode
	Date    time.Time
	Blocks  []*block.TimeBlock
	Tasks   []*task.Task
	Backlog []*task.Task
}

// CommittedMsg is sent when a drag commit was persisted.
type CommittedMsg struct {
	Commit drag.Commit
	Task   *task.Task
}

// CommitFailedMsg is sent when a drag commit could not be persisted.
type CommitFailedMsg struct {
	Commit drag.Commit
	Err    error
}

// TaskCreatedMsg is sent when a task was added from the prompt.
type TaskCreatedMsg struct {
	Task *task.Task
}

// DayResetMsg is sent when a day's tasks were sent back to the backlog.
type DayResetMsg struct {
	Date  time.Time
	Count int
}

// SuggestResultMsg is sent when placement suggestions are ready.
type SuggestResultMsg struct {
	Result *suggest.Result
}

// SuggestAppliedMsg is sent when suggestions were written.
type SuggestAppliedMsg struct {
	Count int
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// ClockTickMsg refreshes the header clock.
type ClockTickMsg time.Time

// MarkerTickMsg refreshes the current-time marker.
type MarkerTickMsg time.Time

// Load fetches blocks, the tasks of the range shown for date, and the backlog.
func Load(tasks TaskStore, blocks BlockStore, ownerID string, mode calendar.Mode, date time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		start, end := calendar.RangeFor(date, mode)

		bs, err := blocks.List(ctx, ownerID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		ts, err := tasks.ListRange(ctx, ownerID, start, end)
		if err != nil {
			return ErrMsg{Err: err}
		}
		backlog, err := tasks.Backlog(ctx, ownerID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return LoadedMsg{Mode: mode, Date: date, Blocks: bs, Tasks: ts, Backlog: backlog}
	}
}

// Commit persists a drag commit.
func Commit(tasks TaskStore, ownerID string, c drag.Commit) tea.Cmd {
	return func() tea.Msg {
		t, err := drag.Apply(context.Background(), tasks, ownerID, c)
		if err != nil {
			return CommitFailedMsg{Commit: c, Err: err}
		}
		return CommittedMsg{Commit: c, Task: t}
	}
}

// CreateTask adds a task.
func CreateTask(tasks TaskStore, ownerID string, in task.NewTask) tea.Cmd {
	return func() tea.Msg {
		t, err := tasks.Create(context.Background(), ownerID, in)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return TaskCreatedMsg{Task: t}
	}
}

// ResetDay sends every task scheduled on date back to the backlog.
func ResetDay(tasks TaskStore, ownerID string, date time.Time) tea.Cmd {
	return func() tea.Msg {
		n, err := tasks.ResetDay(context.Background(), ownerID, date)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return DayResetMsg{Date: date, Count: n}
	}
}

// Suggest asks for placements of the backlog on date.
func Suggest(s Suggester, ownerID string, date time.Time) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return ErrMsg{Err: fmt.Errorf("suggestions are not configured")}
		}
		result, err := s.Suggest(context.Background(), ownerID, date)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("suggesting: %w", err)}
		}
		return SuggestResultMsg{Result: result}
	}
}

// ApplySuggestion writes the proposals of result.
func ApplySuggestion(s Suggester, ownerID string, result *suggest.Result) tea.Cmd {
	return func() tea.Msg {
		if s == nil || result == nil {
			return ErrMsg{Err: fmt.Errorf("no suggestion to apply")}
		}
		placed, err := s.Apply(context.Background(), ownerID, result)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return SuggestAppliedMsg{Count: len(placed)}
	}
}

// CopyText copies text to the system clipboard.
func CopyText(text, what string) tea.Cmd {
	return func() tea.Msg {
		if text == "" {
			return StatusMsgCmd{Msg: "Nothing to copy"}
		}
		if err := clipboard.WriteAll(text); err != nil {
			return StatusMsgCmd{Msg: fmt.Sprintf("Copy failed: %v", err)}
		}
		return StatusMsgCmd{Msg: "Copied " + what}
	}
}

// ClockTick schedules the next header clock refresh.
func ClockTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return ClockTickMsg(t) })
}

// MarkerTick schedules the next marker refresh.
func MarkerTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return MarkerTickMsg(t) })
}
