package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/task"
)

const taskColumns = `id, owner_id, task_name, project_name, task_type, priority, status,
	due_date, duration, created_at, updated_at`

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t         task.Task
		due       sql.NullString
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.TaskName,
		&t.ProjectName,
		&t.TaskType,
		&t.Priority,
		&t.Status,
		&due,
		&t.Duration,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if t.DueDate, err = parseDue(due); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseDate(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if t.UpdatedAt, err = parseDate(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}
	return &t, nil
}

func getTask(ctx context.Context, q queryer, ownerID, id string) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ? AND id = ?`

	t, err := scanTask(q.QueryRowContext(ctx, query, ownerID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

func (s *SQLite) listTasks(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask inserts a task and assigns its ID.
func (s *SQLite) CreateTask(ctx context.Context, t *task.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, query,
		id,
		t.OwnerID,
		t.TaskName,
		t.ProjectName,
		t.TaskType,
		t.Priority,
		t.Status,
		formatDue(t.DueDate),
		t.Duration,
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	t.ID = id
	return nil
}

// GetTask retrieves a task by ID, or nil if it does not exist.
func (s *SQLite) GetTask(ctx context.Context, ownerID, id string) (*task.Task, error) {
	return getTask(ctx, s.db, ownerID, id)
}

// ListTasksForRange returns tasks due between start and end (inclusive
// calendar days), ordered by due date.
func (s *SQLite) ListTasksForRange(ctx context.Context, ownerID string, start, end time.Time) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE owner_id = ? AND due_date >= ? AND due_date < ?
		ORDER BY due_date, task_name`

	from := task.Midnight(start).Format(dueLayout)
	to := task.Midnight(end).AddDate(0, 0, 1).Format(dueLayout)
	return s.listTasks(ctx, query, ownerID, from, to)
}

// ListBacklog returns tasks without a date or due at midnight.
func (s *SQLite) ListBacklog(ctx context.Context, ownerID string) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE owner_id = ? AND (due_date IS NULL OR substr(due_date, 12, 5) = '00:00')
		ORDER BY due_date IS NULL, due_date, task_name`

	return s.listTasks(ctx, query, ownerID)
}

// UpdateTask applies patch in a transaction and returns the stored task.
func (s *SQLite) UpdateTask(ctx context.Context, ownerID, id string, patch task.Patch) (*task.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := getTask(ctx, tx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("%w: task %s", apperr.ErrNotFound, id)
	}

	updated := patch.Apply(*current)
	updated.UpdatedAt = time.Now()

	query := `
		UPDATE tasks
		SET task_name = ?, status = ?, priority = ?, due_date = ?, duration = ?, updated_at = ?
		WHERE owner_id = ? AND id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		updated.TaskName,
		updated.Status,
		updated.Priority,
		formatDue(updated.DueDate),
		updated.Duration,
		formatTimestamp(updated.UpdatedAt),
		ownerID,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return &updated, nil
}
