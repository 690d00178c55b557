// Package block defines weekly recurring time blocks and the store that owns them.
package block

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/slot"
)

// Category classifies a block and drives its default color.
type Category string

const (
	CategoryWork      Category = "work"
	CategoryPersonal  Category = "personal"
	CategoryMeeting   Category = "meeting"
	CategoryBreak     Category = "break"
	CategoryFamily    Category = "family"
	CategorySiteVisit Category = "site_visit"
	CategoryChurch    Category = "church"
	CategoryRest      Category = "rest"
	CategoryExercise  Category = "exercise"
)

var defaultColors = map[Category]string{
	CategoryWork:      "#3b82f6",
	CategoryPersonal:  "#8b5cf6",
	CategoryMeeting:   "#f59e0b",
	CategoryBreak:     "#10b981",
	CategoryFamily:    "#ec4899",
	CategorySiteVisit: "#f97316",
	CategoryChurch:    "#6366f1",
	CategoryRest:      "#64748b",
	CategoryExercise:  "#ef4444",
}

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryWork, CategoryPersonal, CategoryMeeting, CategoryBreak, CategoryFamily,
		CategorySiteVisit, CategoryChurch, CategoryRest, CategoryExercise,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := defaultColors[c]
	return ok
}

// DefaultColor returns the color token used when a block has no override.
func (c Category) DefaultColor() string {
	if color, ok := defaultColors[c]; ok {
		return color
	}
	return defaultColors[CategoryWork]
}

// ParseCategory parses a category name, accepting "site-visit" for site_visit.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", apperr.ErrValidation, s)
	}
	return c, nil
}

// TimeBlock is a calendar entry that repeats every week on DayOfWeek.
type TimeBlock struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	DayOfWeek   int    // 0 = Sunday
	StartTime   string // "HH:MM"
	EndTime     string // "HH:MM"
	Category    Category
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTimeBlock is the input for creating a block.
type NewTimeBlock struct {
	Title       string
	Description string
	DayOfWeek   int
	StartTime   string
	EndTime     string
	Category    Category
	Color       string // empty means the category default
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	DayOfWeek   *int
	StartTime   *string
	EndTime     *string
	Category    *Category
	Color       *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DayOfWeek == nil &&
		p.StartTime == nil && p.EndTime == nil && p.Category == nil && p.Color == nil
}

// Apply returns a copy of b with the patch applied.
// A category change without an explicit color resets a default-colored block
// to the new category's default.
func (p Patch) Apply(b TimeBlock) TimeBlock {
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.DayOfWeek != nil {
		b.DayOfWeek = *p.DayOfWeek
	}
	if p.StartTime != nil {
		b.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		b.EndTime = *p.EndTime
	}
	if p.Category != nil {
		if p.Color == nil && b.Color == b.Category.DefaultColor() {
			b.Color = p.Category.DefaultColor()
		}
		b.Category = *p.Category
	}
	if p.Color != nil {
		b.Color = *p.Color
	}
	return b
}

// Build validates the input and returns an unsaved block for ownerID.
func (n NewTimeBlock) Build(ownerID string) (*TimeBlock, error) {
	b := &TimeBlock{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(n.Title),
		Description: n.Description,
		DayOfWeek:   n.DayOfWeek,
		StartTime:   n.StartTime,
		EndTime:     n.EndTime,
		Category:    n.Category,
		Color:       n.Color,
	}
	if b.Category == "" {
		b.Category = CategoryWork
	}
	if b.Color == "" {
		b.Color = b.Category.DefaultColor()
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the block invariants.
func (b *TimeBlock) Validate() error {
	if b.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", apperr.ErrValidation)
	}
	if b.DayOfWeek < 0 || b.DayOfWeek > 6 {
		return fmt.Errorf("%w: day of week must be 0-6, got %d", apperr.ErrValidation, b.DayOfWeek)
	}
	if _, _, err := slot.ParseClock(b.StartTime); err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	if _, _, err := slot.ParseClock(b.EndTime); err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	if b.EndTime <= b.StartTime {
		return fmt.Errorf("%w: end time must be after start time", apperr.ErrValidation)
	}
	if !b.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", apperr.ErrValidation, b.Category)
	}
	return nil
}

// Duration returns the block length in minutes.
func (b *TimeBlock) Duration() int {
	return slot.TimeToMinutes(b.EndTime) - slot.TimeToMinutes(b.StartTime)
}

// StartSlot returns the slot index the block starts in.
func (b *TimeBlock) StartSlot() int {
	return slot.OfClock(b.StartTime)
}

// OccursOn reports whether the block repeats on date's weekday.
func (b *TimeBlock) OccursOn(date time.Time) bool {
	return int(date.Weekday()) == b.DayOfWeek
}

// CopyTo returns an unsaved copy of b moved to day.
func (b *TimeBlock) CopyTo(day int) *TimeBlock {
	return &TimeBlock{
		OwnerID:     b.OwnerID,
		Title:       b.Title,
		Description: b.Description,
		DayOfWeek:   day,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Category:    b.Category,
		Color:       b.Color,
	}
}

// DayName returns the English weekday name for a 0-6 index.
func DayName(day int) string {
	if day < 0 || day > 6 {
		return fmt.Sprintf("day %d", day)
	}
	return time.Weekday(day).String()
}

// ParseDay accepts 0-6 or a weekday name ("monday", "mon").
func ParseDay(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return int(s[0] - '0'), nil
	}
	for d := 0; d < 7; d++ {
		name := strings.ToLower(time.Weekday(d).String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: invalid day %q", apperr.ErrValidation, s)
}
