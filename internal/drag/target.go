package drag

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/slot"
)

const (
	slotPrefix = "calendar-slot-"
	backlogID  = "backlog"
)

// TargetKind distinguishes grid cells from the backlog list.
type TargetKind int

const (
	SlotTarget TargetKind = iota
	BacklogTarget
)

// Target is a place a task can be dropped.
type Target struct {
	Kind   TargetKind
	Date   time.Time
	Hour   int
	Minute int
}

// SlotAt returns the grid cell target for date at hour:minute.
func SlotAt(date time.Time, hour, minute int) Target {
	y, m, d := date.Date()
	return Target{
		Kind:   SlotTarget,
		Date:   time.Date(y, m, d, 0, 0, 0, 0, date.Location()),
		Hour:   hour,
		Minute: minute,
	}
}

// SlotIndexAt returns the grid cell target for a slot index on date.
func SlotIndexAt(date time.Time, index int) Target {
	m := slot.StartMinutes(index)
	return SlotAt(date, m/60, m%60)
}

// Backlog returns the backlog target.
func Backlog() Target {
	return Target{Kind: BacklogTarget}
}

// At returns the date-time the cell stands for.
func (t Target) At() time.Time {
	return slot.At(t.Date, t.Hour*60+t.Minute)
}

// ID returns the drop target identifier, e.g. calendar-slot-2024-01-15-14-30.
func (t Target) ID() string {
	if t.Kind == BacklogTarget {
		return backlogID
	}
	return fmt.Sprintf("%s%s-%02d-%02d", slotPrefix, t.Date.Format("2006-01-02"), t.Hour, t.Minute)
}

// ParseTarget parses a drop target identifier. Dates are interpreted in loc.
func ParseTarget(id string, loc *time.Location) (Target, error) {
	if id == backlogID {
		return Backlog(), nil
	}

	rest, ok := strings.CutPrefix(id, slotPrefix)
	// YYYY-MM-DD-HH-MM
	if !ok || len(rest) != 16 || rest[10] != '-' || rest[13] != '-' {
		return Target{}, fmt.Errorf("%w: unknown drop target %q", apperr.ErrValidation, id)
	}

	date, err := time.ParseInLocation("2006-01-02", rest[:10], loc)
	if err != nil {
		return Target{}, fmt.Errorf("%w: bad date in drop target %q", apperr.ErrValidation, id)
	}
	hour, herr := strconv.Atoi(rest[11:13])
	minute, merr := strconv.Atoi(rest[14:16])
	if herr != nil || merr != nil || hour < 0 || hour > 23 || minute%slot.Minutes != 0 || minute < 0 || minute > 59 {
		return Target{}, fmt.Errorf("%w: bad time in drop target %q", apperr.ErrValidation, id)
	}

	return SlotAt(date, hour, minute), nil
}
