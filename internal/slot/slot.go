// Package slot maps wall-clock time onto the 30-minute grid used by every view.
package slot

import (
	"fmt"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
)

const (
	// Minutes is the length of one slot.
	Minutes = 30
	// PerHour is the number of slots in an hour.
	PerHour = 60 / Minutes
	// PerDay is 24 hours * 2 slots per hour = 48 slots.
	PerDay = 24 * PerHour
	// MinutesPerDay is 24 hours * 60 minutes.
	MinutesPerDay = 1440
)

// ToSlotIndex returns the slot containing hour:minute.
// Inputs are expected in [0,23] and [0,59].
func ToSlotIndex(hour, minute int) int {
	idx := hour * PerHour
	if minute >= Minutes {
		idx++
	}
	return idx
}

// Label returns the start time of a slot as "HH:MM".
func Label(index int) string {
	return MinutesToTime(StartMinutes(index))
}

// StartMinutes returns the minutes since midnight at which a slot starts.
func StartMinutes(index int) int {
	return index * Minutes
}

// Spanned returns how many slots a duration covers, never less than one.
func Spanned(durationMinutes int) int {
	n := (durationMinutes + Minutes - 1) / Minutes
	if n < 1 {
		return 1
	}
	return n
}

// OfTime returns the slot index of t's time-of-day.
func OfTime(t time.Time) int {
	return ToSlotIndex(t.Hour(), t.Minute())
}

// OfClock returns the slot index of an "HH:MM" string.
func OfClock(clock string) int {
	return TimeToMinutes(clock) / Minutes
}

// Floor snaps minutes since midnight down to a slot boundary.
func Floor(minutes int) int {
	if minutes < 0 {
		return 0
	}
	return minutes - minutes%Minutes
}

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// Returns 0 for invalid input.
func TimeToMinutes(t string) int {
	if len(t) < 5 {
		return 0
	}
	hours := int(t[0]-'0')*10 + int(t[1]-'0')
	mins := int(t[3]-'0')*10 + int(t[4]-'0')
	return hours*60 + mins
}

// MinutesToTime converts minutes since midnight to "HH:MM" format.
func MinutesToTime(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= MinutesPerDay {
		m = MinutesPerDay - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseClock validates a 24-hour "HH:MM" string and returns its hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("%w: time must be in HH:MM format, got %q", apperr.ErrValidation, s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: time must be in HH:MM format, got %q", apperr.ErrValidation, s)
	}
	return t.Hour(), t.Minute(), nil
}

// At returns date's calendar day at the given minutes since midnight.
func At(date time.Time, minutes int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, date.Location())
}
