package task

import (
	"context"
	"time"
)

// Repository is the persistence collaborator for tasks.
// Every call is scoped to an owner.
type Repository interface {
	// CreateTask inserts a task and assigns its ID.
	CreateTask(ctx context.Context, t *Task) error

	// GetTask returns a task, or nil if it does not exist.
	GetTask(ctx context.Context, ownerID, id string) (*Task, error)

	// ListTasksForRange returns tasks due between start and end (inclusive
	// calendar days), ordered by due date.
	ListTasksForRange(ctx context.Context, ownerID string, start, end time.Time) ([]*Task, error)

	// ListBacklog returns tasks without a date or due at midnight.
	ListBacklog(ctx context.Context, ownerID string) ([]*Task, error)

	// UpdateTask applies patch and returns the stored task.
	// Returns apperr.ErrNotFound if the task does not exist.
	UpdateTask(ctx context.Context, ownerID, id string, patch Patch) (*Task, error)
}
