// Package dateutil parses the date and duration arguments accepted by the
// CLI and computes the day spans shown by the calendar views.
package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
)

// DateLayout is the calendar date format used on the command line and in
// storage.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDateFormat = fmt.Errorf("%w: date must be YYYY-MM-DD, today, tomorrow, a weekday or next-<weekday>", apperr.ErrValidation)
	ErrDateInPast        = fmt.Errorf("%w: cannot schedule in the past", apperr.ErrValidation)
)

// ParseDate parses an absolute local date. Empty means today.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return d, nil
}

// ParseRelativeDate resolves s against the day of now. Besides YYYY-MM-DD it
// accepts today, tomorrow, next-week, a weekday name and next-<weekday>,
// case-insensitively. A weekday always means the next one strictly after
// today. Absolute dates before today fail with ErrDateInPast.
func ParseRelativeDate(s string, now time.Time) (time.Time, error) {
	today := TruncateToDay(now)
	word := strings.ToLower(strings.TrimSpace(s))

	if offset, ok := map[string]int{"": 0, "today": 0, "tomorrow": 1, "next-week": 7}[word]; ok {
		return today.AddDate(0, 0, offset), nil
	}
	if wd, ok := weekday(strings.TrimPrefix(word, "next-")); ok {
		return nextAfter(today, wd), nil
	}

	d, err := time.ParseInLocation(DateLayout, word, now.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	if d.Before(today) {
		return time.Time{}, ErrDateInPast
	}
	return d, nil
}

func weekday(name string) (time.Weekday, bool) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), name) {
			return wd, true
		}
	}
	return 0, false
}

// nextAfter returns the first wd strictly after day.
func nextAfter(day time.Time, wd time.Weekday) time.Time {
	n := (int(wd)-int(day.Weekday())+6)%7 + 1
	return day.AddDate(0, 0, n)
}

// ParseMinutes accepts whole minutes ("90") or a Go duration ("1h30m").
func ParseMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d%time.Minute != 0 {
		return 0, fmt.Errorf("%w: duration must be minutes or like 1h30m, got %q", apperr.ErrValidation, s)
	}
	return int(d / time.Minute), nil
}

// TruncateToDay returns midnight of t's day in t's location.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b share a calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ad == bd && am == bm && ay == by
}

// WeekRange returns the Sunday and Saturday around t.
func WeekRange(t time.Time) (sunday, saturday time.Time) {
	day := TruncateToDay(t)
	sunday = day.AddDate(0, 0, -int(day.Weekday()))
	return sunday, sunday.AddDate(0, 0, 6)
}

// MonthRange returns the first and last day of t's month.
func MonthRange(t time.Time) (first, last time.Time) {
	first = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first, first.AddDate(0, 1, -1)
}
