package drag

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/timegrid/internal/debuglog"
	"github.com/javiermolinar/timegrid/internal/task"
)

// CommitKind is the store operation a drop turns into.
type CommitKind int

const (
	CommitPlace CommitKind = iota
	CommitResize
	CommitReschedule
	CommitUnschedule
)

func (k CommitKind) String() string {
	switch k {
	case CommitResize:
		return "resize"
	case CommitReschedule:
		return "reschedule"
	case CommitUnschedule:
		return "unschedule"
	default:
		return "place"
	}
}

// Commit is a mutation produced by a drop.
type Commit struct {
	Kind     CommitKind
	TaskID   string
	At       time.Time
	Duration int
}

// Scheduler is the part of the task store a commit needs.
type Scheduler interface {
	PlaceAt(ctx context.Context, ownerID, id string, at time.Time) (*task.Task, error)
	Resize(ctx context.Context, ownerID, id string, minutes int) (*task.Task, error)
	Reschedule(ctx context.Context, ownerID, id string, at time.Time, minutes int) (*task.Task, error)
	Unschedule(ctx context.Context, ownerID, id string) (*task.Task, error)
}

// Apply persists c and returns the updated task.
func Apply(ctx context.Context, s Scheduler, ownerID string, c Commit) (*task.Task, error) {
	debuglog.Log("DRAG_COMMIT", map[string]any{
		"kind":     c.Kind.String(),
		"task":     c.TaskID,
		"at":       c.At.Format(time.RFC3339),
		"duration": c.Duration,
	})

	switch c.Kind {
	case CommitPlace:
		return s.PlaceAt(ctx, ownerID, c.TaskID, c.At)
	case CommitResize:
		return s.Resize(ctx, ownerID, c.TaskID, c.Duration)
	case CommitReschedule:
		return s.Reschedule(ctx, ownerID, c.TaskID, c.At, c.Duration)
	case CommitUnschedule:
		return s.Unschedule(ctx, ownerID, c.TaskID)
	}
	return nil, fmt.Errorf("unknown commit kind %d", c.Kind)
}
