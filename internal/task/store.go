package task

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/debuglog"
)

// DefaultTimeout bounds every persistence call made by the store.
const DefaultTimeout = 10 * time.Second

// Store places, resizes and resets tasks for an owner.
type Store struct {
	repo    Repository
	timeout time.Duration
	now     func() time.Time
}

// NewStore creates a store over repo. A zero timeout uses DefaultTimeout.
func NewStore(repo Repository, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{repo: repo, timeout: timeout, now: time.Now}
}

func (s *Store) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// Create validates and persists a new task.
func (s *Store) Create(ctx context.Context, ownerID string, in NewTask) (*Task, error) {
	t, err := in.Build(ownerID, s.now())
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.call(ctx)
	defer cancel()

	if err := s.repo.CreateTask(ctx, t); err != nil {
		debuglog.Error("task create", err)
		return nil, apperr.Persistence("creating task", err)
	}
	return t, nil
}

// Get returns a task or apperr.ErrNotFound.
func (s *Store) Get(ctx context.Context, ownerID, id string) (*Task, error) {
	ctx, cancel := s.call(ctx)
	defer cancel()

	t, err := s.repo.GetTask(ctx, ownerID, id)
	if err != nil {
		return nil, apperr.Persistence("getting task", err)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: task %s", apperr.ErrNotFound, id)
	}
	return t, nil
}

// ListRange returns tasks due between start and end, inclusive.
func (s *Store) ListRange(ctx context.Context, ownerID string, start, end time.Time) ([]*Task, error) {
	ctx, cancel := s.call(ctx)
	defer cancel()

	tasks, err := s.repo.ListTasksForRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, apperr.Persistence("listing tasks", err)
	}
	return tasks, nil
}

// Backlog returns the owner's unscheduled tasks.
func (s *Store) Backlog(ctx context.Context, ownerID string) ([]*Task, error) {
	ctx, cancel := s.call(ctx)
	defer cancel()

	tasks, err := s.repo.ListBacklog(ctx, ownerID)
	if err != nil {
		return nil, apperr.Persistence("listing backlog", err)
	}
	return tasks, nil
}

// PlaceAt sets the task's due date-time. A midnight time puts the task in the
// backlog.
func (s *Store) PlaceAt(ctx context.Context, ownerID, id string, at time.Time) (*Task, error) {
	t, err := s.update(ctx, ownerID, id, Patch{DueDate: &at})
	if err != nil {
		return nil, err
	}
	debuglog.Log("TASK_PLACE", map[string]any{
		"id":      id,
		"at":      at.Format(time.RFC3339),
		"backlog": t.IsBacklog(),
	})
	return t, nil
}

// Resize sets the task duration. Durations below MinDuration are rejected.
func (s *Store) Resize(ctx context.Context, ownerID, id string, minutes int) (*Task, error) {
	if err := ValidateDuration(minutes); err != nil {
		return nil, err
	}
	t, err := s.update(ctx, ownerID, id, Patch{Duration: &minutes})
	if err != nil {
		return nil, err
	}
	debuglog.Log("TASK_RESIZE", map[string]any{"id": id, "duration": minutes})
	return t, nil
}

// Reschedule sets due date-time and duration in one write.
func (s *Store) Reschedule(ctx context.Context, ownerID, id string, at time.Time, minutes int) (*Task, error) {
	if err := ValidateDuration(minutes); err != nil {
		return nil, err
	}
	t, err := s.update(ctx, ownerID, id, Patch{DueDate: &at, Duration: &minutes})
	if err != nil {
		return nil, err
	}
	debuglog.Log("TASK_RESCHEDULE", map[string]any{
		"id":       id,
		"at":       at.Format(time.RFC3339),
		"duration": minutes,
	})
	return t, nil
}

// Unschedule moves a task to the backlog, keeping its date.
func (s *Store) Unschedule(ctx context.Context, ownerID, id string) (*Task, error) {
	current, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if current.IsBacklog() {
		return current, nil
	}
	return s.PlaceAt(ctx, ownerID, id, Midnight(*current.DueDate))
}

// ResetDay moves every task scheduled on date back to the backlog and returns
// how many tasks changed. Calling it again is a no-op returning 0.
func (s *Store) ResetDay(ctx context.Context, ownerID string, date time.Time) (int, error) {
	day := Midnight(date)
	tasks, err := s.ListRange(ctx, ownerID, day, day)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, t := range tasks {
		if !t.DueOn(day) || t.IsBacklog() {
			continue
		}
		midnight := Midnight(*t.DueDate)
		if _, err := s.update(ctx, ownerID, t.ID, Patch{DueDate: &midnight}); err != nil {
			return count, fmt.Errorf("resetting %q: %w", t.TaskName, err)
		}
		count++
	}

	debuglog.Log("TASK_RESET_DAY", map[string]any{
		"date":  day.Format("2006-01-02"),
		"count": count,
	})
	return count, nil
}

func (s *Store) update(ctx context.Context, ownerID, id string, patch Patch) (*Task, error) {
	ctx, cancel := s.call(ctx)
	defer cancel()

	t, err := s.repo.UpdateTask(ctx, ownerID, id, patch)
	if err != nil {
		debuglog.Error("task update", err)
		return nil, apperr.Persistence("updating task", err)
	}
	return t, nil
}
