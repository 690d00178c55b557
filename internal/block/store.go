package block

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/debuglog"
)

// DefaultTimeout bounds every persistence call made by the store.
const DefaultTimeout = 10 * time.Second

// Store owns the recurring blocks of each owner.
type Store struct {
	repo    Repository
	timeout time.Duration
}

// NewStore creates a store over repo. A zero timeout uses DefaultTimeout.
func NewStore(repo Repository, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{repo: repo, timeout: timeout}
}

func (s *Store) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// List returns every block of the owner.
func (s *Store) List(ctx context.Context, ownerID string) ([]*TimeBlock, error) {
	ctx, cancel := s.call(ctx)
	defer cancel()

	blocks, err := s.repo.ListBlocks(ctx, ownerID)
	if err != nil {
		return nil, apperr.Persistence("listing blocks", err)
	}
	return blocks, nil
}

// ListDay returns the owner's blocks on one day of the week.
func (s *Store) ListDay(ctx context.Context, ownerID string, day int) ([]*TimeBlock, error) {
	if err := validateDay(day); err != nil {
		return nil, err
	}
	blocks, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return filterDay(blocks, day), nil
}

// Get returns one block or apperr.ErrNotFound.
func (s *Store) Get(ctx context.Context, ownerID, id string) (*TimeBlock, error) {
	ctx, cancel := s.call(ctx)
	defer cancel()

	b, err := s.repo.GetBlock(ctx, ownerID, id)
	if err != nil {
		return nil, apperr.Persistence("getting block", err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: block %s", apperr.ErrNotFound, id)
	}
	return b, nil
}

// Create validates and persists a new block.
func (s *Store) Create(ctx context.Context, ownerID string, in NewTimeBlock) (*TimeBlock, error) {
	b, err := in.Build(ownerID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.call(ctx)
	defer cancel()

	if err := s.repo.CreateBlock(ctx, b); err != nil {
		debuglog.Error("block create", err)
		return nil, apperr.Persistence("creating block", err)
	}

	debuglog.Log("BLOCK_CREATE", map[string]any{
		"id":    b.ID,
		"day":   b.DayOfWeek,
		"start": b.StartTime,
		"end":   b.EndTime,
	})
	return b, nil
}

// Update applies a partial update and returns the stored result.
func (s *Store) Update(ctx context.Context, ownerID, id string, patch Patch) (*TimeBlock, error) {
	current, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	updated := patch.Apply(*current)
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now()

	ctx, cancel := s.call(ctx)
	defer cancel()

	if err := s.repo.UpdateBlock(ctx, &updated); err != nil {
		debuglog.Error("block update", err)
		return nil, apperr.Persistence("updating block", err)
	}

	debuglog.Log("BLOCK_UPDATE", map[string]any{"id": id})
	return &updated, nil
}

// Delete removes a block. Unknown ids are treated as already deleted so a
// retried delete succeeds.
func (s *Store) Delete(ctx context.Context, ownerID, id string) error {
	ctx, cancel := s.call(ctx)
	defer cancel()

	if err := s.repo.DeleteBlock(ctx, ownerID, id); err != nil {
		debuglog.Error("block delete", err)
		return apperr.Persistence("deleting block", err)
	}

	debuglog.Log("BLOCK_DELETE", map[string]any{"id": id})
	return nil
}

// CopyDay replaces the blocks of every target day with copies of the blocks
// on sourceDay and returns how many blocks were created.
//
// If the source day is empty nothing is touched and apperr.ErrEmptySource is
// returned. With a DayReplacer repository the replacement is one transaction.
// Otherwise targets are cleared first and then filled; a failure between the
// two phases leaves the remaining target days empty.
func (s *Store) CopyDay(ctx context.Context, ownerID string, sourceDay int, targetDays []int) (int, error) {
	if err := validateDay(sourceDay); err != nil {
		return 0, err
	}
	targets, err := normalizeTargets(sourceDay, targetDays)
	if err != nil {
		return 0, err
	}

	source, err := s.ListDay(ctx, ownerID, sourceDay)
	if err != nil {
		return 0, err
	}
	if len(source) == 0 {
		return 0, fmt.Errorf("%w: create %s blocks first", apperr.ErrEmptySource, DayName(sourceDay))
	}
	if len(targets) == 0 {
		return 0, nil
	}

	copies := make([]*TimeBlock, 0, len(source)*len(targets))
	for _, day := range targets {
		for _, b := range source {
			copies = append(copies, b.CopyTo(day))
		}
	}

	if replacer, ok := s.repo.(DayReplacer); ok {
		ctx, cancel := s.call(ctx)
		defer cancel()

		if err := replacer.ReplaceDayBlocks(ctx, ownerID, targets, copies); err != nil {
			debuglog.Error("copy day", err)
			return 0, apperr.Persistence("copying day", err)
		}
	} else if err := s.replaceInTwoPhases(ctx, ownerID, targets, copies); err != nil {
		return 0, err
	}

	debuglog.Log("BLOCK_COPY_DAY", map[string]any{
		"source":  sourceDay,
		"targets": targets,
		"created": len(copies),
	})
	return len(copies), nil
}

func (s *Store) replaceInTwoPhases(ctx context.Context, ownerID string, targets []int, copies []*TimeBlock) error {
	existing, err := s.List(ctx, ownerID)
	if err != nil {
		return err
	}

	for _, b := range existing {
		if !slices.Contains(targets, b.DayOfWeek) {
			continue
		}
		if err := s.Delete(ctx, ownerID, b.ID); err != nil {
			return fmt.Errorf("clearing %s: %w", DayName(b.DayOfWeek), err)
		}
	}

	for _, b := range copies {
		cctx, cancel := s.call(ctx)
		err := s.repo.CreateBlock(cctx, b)
		cancel()
		if err != nil {
			debuglog.Error("copy day create", err)
			return fmt.Errorf("filling %s: %w", DayName(b.DayOfWeek), apperr.Persistence("creating block", err))
		}
	}
	return nil
}

func validateDay(day int) error {
	if day < 0 || day > 6 {
		return fmt.Errorf("%w: day of week must be 0-6, got %d", apperr.ErrValidation, day)
	}
	return nil
}

// normalizeTargets validates, dedupes and sorts target days, dropping the source.
func normalizeTargets(sourceDay int, targetDays []int) ([]int, error) {
	seen := make(map[int]bool, len(targetDays))
	result := make([]int, 0, len(targetDays))
	for _, d := range targetDays {
		if err := validateDay(d); err != nil {
			return nil, err
		}
		if d == sourceDay || seen[d] {
			continue
		}
		seen[d] = true
		result = append(result, d)
	}
	slices.Sort(result)
	return result, nil
}

func filterDay(blocks []*TimeBlock, day int) []*TimeBlock {
	var result []*TimeBlock
	for _, b := range blocks {
		if b.DayOfWeek == day {
			result = append(result, b)
		}
	}
	return result
}
