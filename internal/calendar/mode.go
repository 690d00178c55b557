package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/dateutil"
)

// Mode is the calendar view.
type Mode int

const (
	Day Mode = iota
	Week
	Month
)

func (m Mode) String() string {
	switch m {
	case Week:
		return "week"
	case Month:
		return "month"
	default:
		return "day"
	}
}

// ParseMode parses "day", "week" or "month".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "":
		return Day, nil
	case "week":
		return Week, nil
	case "month":
		return Month, nil
	}
	return Day, fmt.Errorf("%w: unknown view %q (want day, week or month)", apperr.ErrValidation, s)
}

// RangeFor returns the first and last date shown by mode around date.
// Weeks start on Sunday; padding cells of a month page carry no dates.
func RangeFor(date time.Time, mode Mode) (start, end time.Time) {
	switch mode {
	case Week:
		return dateutil.WeekRange(date)
	case Month:
		return dateutil.MonthRange(date)
	default:
		d := dateutil.TruncateToDay(date)
		return d, d
	}
}

// Shift moves date by n days, weeks or months.
func Shift(date time.Time, mode Mode, n int) time.Time {
	switch mode {
	case Week:
		return date.AddDate(0, 0, 7*n)
	case Month:
		// Anchor on the first so Jan 31 + 1 month is February, not March.
		first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
		return first.AddDate(0, n, 0)
	default:
		return date.AddDate(0, 0, n)
	}
}
