package block

import "context"

// Repository is the persistence collaborator for blocks.
// Every call is scoped to an owner.
type Repository interface {
	// ListBlocks returns all blocks of the owner ordered by day and start time.
	ListBlocks(ctx context.Context, ownerID string) ([]*TimeBlock, error)

	// GetBlock returns a block, or nil if it does not exist.
	GetBlock(ctx context.Context, ownerID, id string) (*TimeBlock, error)

	// CreateBlock inserts a block and assigns its ID.
	CreateBlock(ctx context.Context, b *TimeBlock) error

	// UpdateBlock overwrites a stored block. Returns apperr.ErrNotFound if missing.
	UpdateBlock(ctx context.Context, b *TimeBlock) error

	// DeleteBlock removes a block. Deleting a missing block is not an error.
	DeleteBlock(ctx context.Context, ownerID, id string) error
}

// DayReplacer is implemented by repositories that can replace the blocks of
// several days in one transaction.
type DayReplacer interface {
	// ReplaceDayBlocks deletes every block of the owner on days and inserts
	// blocks, assigning their IDs, atomically.
	ReplaceDayBlocks(ctx context.Context, ownerID string, days []int, blocks []*TimeBlock) error
}
