// Package task defines tasks with an optional calendar placement and the store
// that moves them between the backlog and the grid.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/slot"
)

const (
	// DefaultDuration applies when a task has no duration set.
	DefaultDuration = 30
	// MinDuration is the shortest duration a task can be resized to.
	MinDuration = slot.Minutes
)

// Task is a unit of work that may be placed on the calendar.
//
// A task is in the backlog when DueDate is nil or its time-of-day is exactly
// 00:00. Sending a task back to the backlog keeps the date and sets the time
// to midnight, so a task cannot be scheduled at midnight.
type Task struct {
	ID          string
	OwnerID     string
	TaskName    string
	ProjectName string
	TaskType    string
	Priority    string
	Status      string
	DueDate     *time.Time
	Duration    int // minutes; 0 means DefaultDuration
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTask is the input for creating a task.
type NewTask struct {
	TaskName    string
	ProjectName string
	TaskType    string
	Priority    string
	Status      string
	DueDate     *time.Time
	Duration    int
}

// Build validates the input and returns an unsaved task for ownerID.
func (n NewTask) Build(ownerID string, now time.Time) (*Task, error) {
	name := strings.TrimSpace(n.TaskName)
	if name == "" {
		return nil, fmt.Errorf("%w: task name cannot be empty", apperr.ErrValidation)
	}
	if n.Duration != 0 && n.Duration < MinDuration {
		return nil, fmt.Errorf("%w: duration must be at least %d minutes, got %d", apperr.ErrValidation, MinDuration, n.Duration)
	}
	status := n.Status
	if status == "" {
		status = "todo"
	}
	return &Task{
		OwnerID:     ownerID,
		TaskName:    name,
		ProjectName: n.ProjectName,
		TaskType:    n.TaskType,
		Priority:    n.Priority,
		Status:      status,
		DueDate:     toMinute(n.DueDate),
		Duration:    n.Duration,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsMidnight reports whether t's wall clock reads 00:00. Due dates are
// stored to the minute, so seconds are ignored.
func IsMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0
}

func toMinute(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	m := t.Truncate(time.Minute)
	return &m
}

// Midnight returns the start of t's calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsBacklog reports whether the task is unscheduled.
func (t *Task) IsBacklog() bool {
	return t.DueDate == nil || IsMidnight(*t.DueDate)
}

// IsScheduled reports whether the task has a time-of-day on the grid.
func (t *Task) IsScheduled() bool {
	return !t.IsBacklog()
}

// EffectiveDuration returns Duration, defaulting to DefaultDuration.
func (t *Task) EffectiveDuration() int {
	if t.Duration <= 0 {
		return DefaultDuration
	}
	return t.Duration
}

// StartSlot returns the slot the task starts in, or -1 for backlog tasks.
func (t *Task) StartSlot() int {
	if t.IsBacklog() {
		return -1
	}
	return slot.OfTime(*t.DueDate)
}

// StartMinutes returns minutes since midnight of the due time.
func (t *Task) StartMinutes() int {
	if t.DueDate == nil {
		return 0
	}
	return t.DueDate.Hour()*60 + t.DueDate.Minute()
}

// End returns the due time plus the duration. Zero for tasks without a date.
func (t *Task) End() time.Time {
	if t.DueDate == nil {
		return time.Time{}
	}
	return t.DueDate.Add(time.Duration(t.EffectiveDuration()) * time.Minute)
}

// DueOn reports whether the task's due date falls on date's calendar day.
func (t *Task) DueOn(date time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	y1, m1, d1 := t.DueDate.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Placement is the explicit form of the backlog convention: either
// unscheduled or scheduled at a date-time.
type Placement struct {
	at *time.Time
}

// Unscheduled returns the backlog placement.
func Unscheduled() Placement {
	return Placement{}
}

// ScheduledAt returns a placement at t.
func ScheduledAt(t time.Time) Placement {
	return Placement{at: &t}
}

// Scheduled returns the placement time and whether there is one.
func (p Placement) Scheduled() (time.Time, bool) {
	if p.at == nil {
		return time.Time{}, false
	}
	return *p.at, true
}

// String formats the placement for display.
func (p Placement) String() string {
	if at, ok := p.Scheduled(); ok {
		return at.Format("2006-01-02 15:04")
	}
	return "backlog"
}

// Placement derives the task's placement from its stored due date.
func (t *Task) Placement() Placement {
	if t.IsBacklog() {
		return Unscheduled()
	}
	return ScheduledAt(*t.DueDate)
}

// ClampDuration raises d to MinDuration. Used for previews, where an
// out-of-range value is corrected rather than rejected.
func ClampDuration(d int) int {
	if d < MinDuration {
		return MinDuration
	}
	return d
}

// ValidateDuration rejects durations below the floor.
func ValidateDuration(d int) error {
	if d < MinDuration {
		return fmt.Errorf("%w: duration must be at least %d minutes, got %d", apperr.ErrValidation, MinDuration, d)
	}
	return nil
}

// Patch is a partial update of a task; nil fields are left unchanged.
type Patch struct {
	DueDate      *time.Time
	ClearDueDate bool
	Duration     *int
	TaskName     *string
	Status       *string
	Priority     *string
}

// Apply returns a copy of t with the patch applied.
func (p Patch) Apply(t Task) Task {
	if p.ClearDueDate {
		t.DueDate = nil
	}
	if p.DueDate != nil {
		due := p.DueDate.Truncate(time.Minute)
		t.DueDate = &due
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.TaskName != nil {
		t.TaskName = strings.TrimSpace(*p.TaskName)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return t
}
