// Package drag interprets pointer drags over the grid as task moves and
// resizes.
//
// A gesture is a single State value driven by pure transitions:
//
//	s := drag.Begin(t, drag.ResizeEnd, y)
//	s = s.Move(y2, slotHeight)
//	commit, ok := s.Drop(target)
//
// Nothing is persisted until the Commit returned by Drop is applied.
package drag

import (
	"math"
	"time"

	"github.com/javiermolinar/timegrid/internal/slot"
	"github.com/javiermolinar/timegrid/internal/task"
)

// Phase of a gesture.
type Phase int

const (
	Idle Phase = iota
	Dragging
)

// Handle is the part of a task the pointer grabbed.
type Handle int

const (
	Move Handle = iota
	ResizeStart
	ResizeEnd
)

func (h Handle) String() string {
	switch h {
	case ResizeStart:
		return "resize-start"
	case ResizeEnd:
		return "resize-end"
	default:
		return "move"
	}
}

// Anchor is what the task looked like when the gesture began.
type Anchor struct {
	TaskID   string
	Start    *time.Time // nil for a task dragged out of the backlog
	Duration int
	PointerY int
}

// Preview is the uncommitted geometry shown while dragging.
type Preview struct {
	Start      *time.Time
	Duration   int
	DeltaSlots int
}

// State is the whole gesture. The zero value is Idle.
type State struct {
	Phase   Phase
	Handle  Handle
	Anchor  Anchor
	Preview Preview
}

// Begin starts a gesture on t. Resizing needs a start time, so a resize
// handle on a backlog task is treated as a move.
func Begin(t *task.Task, h Handle, pointerY int) State {
	var start *time.Time
	if t.IsScheduled() {
		s := *t.DueDate
		start = &s
	} else if h != Move {
		h = Move
	}

	anchor := Anchor{
		TaskID:   t.ID,
		Start:    start,
		Duration: t.EffectiveDuration(),
		PointerY: pointerY,
	}
	return State{
		Phase:   Dragging,
		Handle:  h,
		Anchor:  anchor,
		Preview: Preview{Start: start, Duration: anchor.Duration},
	}
}

// Active reports whether a gesture is in progress.
func (s State) Active() bool {
	return s.Phase == Dragging
}

// DeltaSlots converts a pointer offset into whole slots.
func DeltaSlots(dy, slotHeight int) int {
	if slotHeight <= 0 {
		return 0
	}
	return int(math.Round(float64(dy) / float64(slotHeight)))
}

// Move recomputes the preview for the pointer at pointerY. A resize that
// would go below the minimum duration, or a start pulled to 00:00 or off the
// task's day, leaves the preview where it was.
func (s State) Move(pointerY, slotHeight int) State {
	if s.Phase != Dragging {
		return s
	}

	delta := DeltaSlots(pointerY-s.Anchor.PointerY, slotHeight)
	shift := time.Duration(delta*slot.Minutes) * time.Minute

	next := Preview{Start: s.Anchor.Start, Duration: s.Anchor.Duration, DeltaSlots: delta}
	switch s.Handle {
	case Move:
		if s.Anchor.Start != nil {
			start := s.Anchor.Start.Add(shift)
			next.Start = &start
		}
	case ResizeStart:
		next.Duration = s.Anchor.Duration - delta*slot.Minutes
		start := s.Anchor.Start.Add(shift)
		if !onDay(start, *s.Anchor.Start) {
			return s
		}
		next.Start = &start
	case ResizeEnd:
		next.Duration = s.Anchor.Duration + delta*slot.Minutes
	}

	if next.Duration < task.MinDuration {
		return s
	}
	s.Preview = next
	return s
}

// onDay reports whether t is a schedulable time on day's date. 00:00 is
// excluded because a task due at midnight is in the backlog.
func onDay(t, day time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2 && !task.IsMidnight(t)
}

// Cancel abandons the gesture. The task was never touched.
func (s State) Cancel() State {
	return State{}
}

// Drop ends the gesture over target and returns the mutation to persist.
// ok is false when there is nothing to commit: no target, a target that does
// not fit the handle, or a drop that changes nothing. That is a cancellation,
// not an error. The caller returns to Idle either way.
func (s State) Drop(target *Target) (Commit, bool) {
	if s.Phase != Dragging || target == nil {
		return Commit{}, false
	}

	id := s.Anchor.TaskID
	switch s.Handle {
	case Move:
		if target.Kind == BacklogTarget {
			if s.Anchor.Start == nil {
				return Commit{}, false
			}
			return Commit{Kind: CommitUnschedule, TaskID: id}, true
		}
		at := target.At()
		if s.Anchor.Start != nil && s.Anchor.Start.Equal(at) {
			return Commit{}, false
		}
		return Commit{Kind: CommitPlace, TaskID: id, At: at}, true

	case ResizeStart:
		if target.Kind != SlotTarget || s.Preview.DeltaSlots == 0 || !onDay(*s.Preview.Start, target.Date) {
			return Commit{}, false
		}
		return Commit{
			Kind:     CommitReschedule,
			TaskID:   id,
			At:       *s.Preview.Start,
			Duration: s.Preview.Duration,
		}, true

	case ResizeEnd:
		if target.Kind != SlotTarget || s.Preview.DeltaSlots == 0 {
			return Commit{}, false
		}
		return Commit{Kind: CommitResize, TaskID: id, Duration: s.Preview.Duration}, true
	}
	return Commit{}, false
}
