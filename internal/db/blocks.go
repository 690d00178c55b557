package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/block"
)

const blockColumns = `id, owner_id, title, description, day_of_week, start_time, end_time,
	category, color, created_at, updated_at`

const insertBlock = `
	INSERT INTO time_blocks (` + blockColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func scanBlock(row scanner) (*block.TimeBlock, error) {
	var (
		b         block.TimeBlock
		category  string
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Title,
		&b.Description,
		&b.DayOfWeek,
		&b.StartTime,
		&b.EndTime,
		&category,
		&b.Color,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Category = block.Category(category)

	if b.CreatedAt, err = parseDate(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if b.UpdatedAt, err = parseDate(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}
	return &b, nil
}

func insertBlockWith(ctx context.Context, ex execer, b *block.TimeBlock) error {
	b.ID = uuid.NewString()
	created := formatTimestamp(b.CreatedAt)
	updated := formatTimestamp(b.UpdatedAt)

	_, err := ex.ExecContext(ctx, insertBlock,
		b.ID,
		b.OwnerID,
		b.Title,
		b.Description,
		b.DayOfWeek,
		b.StartTime,
		b.EndTime,
		string(b.Category),
		b.Color,
		created,
		updated,
	)
	if err != nil {
		return fmt.Errorf("inserting block %q: %w", b.Title, err)
	}
	return nil
}

// ListBlocks returns all blocks of the owner ordered by day and start time.
func (s *SQLite) ListBlocks(ctx context.Context, ownerID string) ([]*block.TimeBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM time_blocks
		WHERE owner_id = ?
		ORDER BY day_of_week, start_time`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var blocks []*block.TimeBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blocks: %w", err)
	}
	return blocks, nil
}

// GetBlock retrieves a block by ID, or nil if it does not exist.
func (s *SQLite) GetBlock(ctx context.Context, ownerID, id string) (*block.TimeBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM time_blocks WHERE owner_id = ? AND id = ?`

	b, err := scanBlock(s.db.QueryRowContext(ctx, query, ownerID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying block: %w", err)
	}
	return b, nil
}

// CreateBlock inserts a block and assigns its ID.
func (s *SQLite) CreateBlock(ctx context.Context, b *block.TimeBlock) error {
	return insertBlockWith(ctx, s.db, b)
}

// UpdateBlock overwrites a stored block.
func (s *SQLite) UpdateBlock(ctx context.Context, b *block.TimeBlock) error {
	query := `
		UPDATE time_blocks
		SET title = ?, description = ?, day_of_week = ?, start_time = ?, end_time = ?,
		    category = ?, color = ?, updated_at = ?
		WHERE owner_id = ? AND id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		b.Title,
		b.Description,
		b.DayOfWeek,
		b.StartTime,
		b.EndTime,
		string(b.Category),
		b.Color,
		formatTimestamp(b.UpdatedAt),
		b.OwnerID,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating block: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: block %s", apperr.ErrNotFound, b.ID)
	}
	return nil
}

// DeleteBlock removes a block. Deleting a missing block is not an error.
func (s *SQLite) DeleteBlock(ctx context.Context, ownerID, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM time_blocks WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return fmt.Errorf("deleting block: %w", err)
	}
	return nil
}

// ReplaceDayBlocks deletes every block of the owner on days and inserts
// blocks in one transaction.
func (s *SQLite) ReplaceDayBlocks(ctx context.Context, ownerID string, days []int, blocks []*block.TimeBlock) error {
	if len(days) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(days)), ",")
	args := make([]any, 0, len(days)+1)
	args = append(args, ownerID)
	for _, d := range days {
		args = append(args, d)
	}
	query := `DELETE FROM time_blocks WHERE owner_id = ? AND day_of_week IN (` + placeholders + `)`
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clearing target days: %w", err)
	}

	for _, b := range blocks {
		if err := insertBlockWith(ctx, tx, b); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
