package view

import (
	"time"

	"github.com/javiermolinar/timegrid/internal/calendar"
	"github.com/javiermolinar/timegrid/internal/dateutil"
)

// HeaderLabels builds one label per day column and marks today's column.
// Narrow columns get the short form.
func HeaderLabels(days []time.Time, now time.Time, colWidth int) ([]string, map[int]bool) {
	labels := make([]string, len(days))
	today := make(map[int]bool)

	for i, d := range days {
		switch {
		case colWidth >= 16:
			labels[i] = d.Format("Monday Jan 2")
		case colWidth >= 7:
			labels[i] = d.Format("Mon 2")
		default:
			labels[i] = d.Format("Mon")[:2]
		}
		if dateutil.SameDay(d, now) {
			today[i] = true
		}
	}
	return labels, today
}

// RangeTitle describes the dates a mode shows around date.
func RangeTitle(mode calendar.Mode, date time.Time) string {
	start, end := calendar.RangeFor(date, mode)
	switch mode {
	case calendar.Month:
		return start.Format("January 2006")
	case calendar.Week:
		if start.Month() == end.Month() {
			return start.Format("Jan 2") + " - " + end.Format("2, 2006")
		}
		return start.Format("Jan 2") + " - " + end.Format("Jan 2, 2006")
	default:
		return date.Format("Monday, January 2, 2006")
	}
}
