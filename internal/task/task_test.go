package task

import (
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
)

func at(hour, minute int) *time.Time {
	t := time.Date(2024, 1, 15, hour, minute, 0, 0, time.UTC)
	return &t
}

func TestIsBacklog(t *testing.T) {
	tests := []struct {
		name string
		due  *time.Time
		want bool
	}{
		{name: "no due date", due: nil, want: true},
		{name: "midnight", due: at(0, 0), want: true},
		{name: "one minute past midnight", due: at(0, 1), want: false},
		{name: "seconds past midnight", due: ptr(at(0, 0).Add(30 * time.Second)), want: true},
		{name: "afternoon", due: at(14, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tsk := &Task{DueDate: tt.due}
			if got := tsk.IsBacklog(); got != tt.want {
				t.Errorf("IsBacklog() = %v, want %v", got, tt.want)
			}
			if tsk.IsScheduled() == tt.want {
				t.Errorf("IsScheduled() should be the opposite of IsBacklog()")
			}
		})
	}
}

func TestPlacement(t *testing.T) {
	backlog := &Task{DueDate: at(0, 0)}
	if _, ok := backlog.Placement().Scheduled(); ok {
		t.Error("midnight task should be unscheduled")
	}
	if got := backlog.Placement().String(); got != "backlog" {
		t.Errorf("String() = %q", got)
	}

	scheduled := &Task{DueDate: at(14, 0)}
	when, ok := scheduled.Placement().Scheduled()
	if !ok || !when.Equal(*at(14, 0)) {
		t.Errorf("Scheduled() = %v, %v", when, ok)
	}
}

func TestStartSlotAndEnd(t *testing.T) {
	tsk := &Task{DueDate: at(14, 0)}
	if got := tsk.StartSlot(); got != 28 {
		t.Errorf("StartSlot() = %d, want 28", got)
	}
	if got := tsk.EffectiveDuration(); got != DefaultDuration {
		t.Errorf("EffectiveDuration() = %d, want %d", got, DefaultDuration)
	}
	if got := tsk.End(); !got.Equal(*at(14, 30)) {
		t.Errorf("End() = %v", got)
	}
	if got := (&Task{}).StartSlot(); got != -1 {
		t.Errorf("backlog StartSlot() = %d, want -1", got)
	}
}

func TestClampAndValidateDuration(t *testing.T) {
	if got := ClampDuration(10); got != MinDuration {
		t.Errorf("ClampDuration(10) = %d", got)
	}
	if got := ClampDuration(90); got != 90 {
		t.Errorf("ClampDuration(90) = %d", got)
	}
	if err := ValidateDuration(29); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if err := ValidateDuration(30); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewTask_Build(t *testing.T) {
	now := time.Now()
	tsk, err := NewTask{TaskName: "  Pour slab  "}.Build("o", now)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if tsk.TaskName != "Pour slab" || tsk.Status != "todo" || tsk.OwnerID != "o" {
		t.Errorf("unexpected task: %+v", tsk)
	}

	if _, err := (NewTask{}).Build("o", now); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ErrValidation for empty name, got %v", err)
	}
	if _, err := (NewTask{TaskName: "x", Duration: 15}).Build("o", now); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ErrValidation for short duration, got %v", err)
	}
}

func TestPatch_Apply(t *testing.T) {
	base := Task{TaskName: "a", DueDate: at(9, 0), Duration: 60}

	d := 90
	got := Patch{Duration: &d}.Apply(base)
	if got.Duration != 90 || !got.DueDate.Equal(*at(9, 0)) {
		t.Errorf("unexpected: %+v", got)
	}

	got = Patch{ClearDueDate: true}.Apply(base)
	if got.DueDate != nil {
		t.Error("expected due date to be cleared")
	}
	if base.DueDate == nil {
		t.Error("Apply must not mutate the original")
	}
}

func TestPatch_ApplyDropsSeconds(t *testing.T) {
	base := Task{TaskName: "a", DueDate: at(9, 0), Duration: 30}
	due := at(0, 0).Add(30*time.Second + 5*time.Millisecond)

	got := Patch{DueDate: &due}.Apply(base)
	if !got.DueDate.Equal(*at(0, 0)) {
		t.Fatalf("DueDate = %v, want truncated to the minute", got.DueDate)
	}
	if !got.IsBacklog() {
		t.Error("a due time inside 00:00 should read as backlog")
	}
}
