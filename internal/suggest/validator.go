package suggest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/javiermolinar/timegrid/internal/llm"
	"github.com/javiermolinar/timegrid/internal/slot"
	"github.com/javiermolinar/timegrid/internal/task"
)

// ValidationError represents a single problem with a proposed placement.
type ValidationError struct {
	Index   int    // index of the placement in the response
	Field   string // "task_id", "start", "duration", "overlap"
	Message string
}

// String returns a formatted error message.
func (e ValidationError) String() string {
	return fmt.Sprintf("Placement %d: %s - %s", e.Index, e.Field, e.Message)
}

// ValidationResult contains the result of validating placements.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// FormatErrors returns the errors as feedback for the model.
func (r ValidationResult) FormatErrors() string {
	if len(r.Errors) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Your response had these errors:\n")
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "- %s\n", e.String())
	}
	b.WriteString("\nPlease correct these issues and respond again with valid JSON.")
	return b.String()
}

// Validator checks proposed placements against the grid rules for one day.
type Validator struct {
	date       time.Time
	now        time.Time
	dayStart   int // minutes since midnight
	dayEnd     int
	scheduled  []*task.Task
	candidates map[string]*task.Task
}

// NewValidator creates a validator for placements on date.
func NewValidator(date, now time.Time, dayStart, dayEnd string, scheduled, candidates []*task.Task) *Validator {
	byID := make(map[string]*task.Task, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}
	return &Validator{
		date:       task.Midnight(date),
		now:        now,
		dayStart:   slot.TimeToMinutes(dayStart),
		dayEnd:     slot.TimeToMinutes(dayEnd),
		scheduled:  scheduled,
		candidates: byID,
	}
}

type span struct {
	index int
	name  string
	start int
	end   int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

// Validate checks each placement and the placements against each other and
// the tasks already scheduled that day.
func (v *Validator) Validate(placements []llm.Placement) ValidationResult {
	var (
		result ValidationResult
		valid  []span
		seen   = make(map[string]bool)
	)
	fail := func(i int, field, format string, args ...any) {
		result.Errors = append(result.Errors, ValidationError{Index: i, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	for i, p := range placements {
		ok := true

		t, known := v.candidates[p.TaskID]
		switch {
		case !known:
			fail(i, "task_id", "'%s' is not one of the backlog tasks", p.TaskID)
			ok = false
		case seen[p.TaskID]:
			fail(i, "task_id", "'%s' is placed more than once", p.TaskID)
			ok = false
		}
		seen[p.TaskID] = true

		hour, minute, err := slot.ParseClock(p.Start)
		start := hour*60 + minute
		switch {
		case err != nil:
			fail(i, "start", "'%s' is invalid (must be HH:MM format, 00:00-23:59)", p.Start)
			ok = false
		case minute%slot.Minutes != 0:
			fail(i, "start", "'%s' is not on a 30-minute boundary", p.Start)
			ok = false
		case start == 0:
			fail(i, "start", "00:00 is reserved for the backlog")
			ok = false
		}

		if p.Duration < task.MinDuration || p.Duration%slot.Minutes != 0 {
			fail(i, "duration", "%d is invalid (must be a multiple of 30, at least 30)", p.Duration)
			ok = false
		}

		if !ok {
			continue
		}

		end := start + p.Duration
		if start < v.dayStart || end > v.dayEnd {
			fail(i, "start", "%s-%s is outside working hours %s-%s",
				p.Start, slot.MinutesToTime(end), slot.MinutesToTime(v.dayStart), slot.MinutesToTime(v.dayEnd))
			continue
		}
		if v.isInPast(start) {
			fail(i, "start", "%s is in the past", p.Start)
			continue
		}

		valid = append(valid, span{index: i, name: t.TaskName, start: start, end: end})
	}

	v.checkSelfOverlaps(&result, valid)
	v.checkScheduledOverlaps(&result, valid)

	result.Valid = len(result.Errors) == 0
	return result
}

func (v *Validator) isInPast(start int) bool {
	if !task.Midnight(v.now).Equal(v.date) {
		return false
	}
	return slot.At(v.date, start).Before(v.now)
}

func (v *Validator) checkSelfOverlaps(result *ValidationResult, spans []span) {
	sorted := append([]span(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[i].overlaps(sorted[j]) {
				result.Errors = append(result.Errors, ValidationError{
					Index: sorted[j].index,
					Field: "overlap",
					Message: fmt.Sprintf("overlaps with '%s' (%s-%s)", sorted[i].name,
						slot.MinutesToTime(sorted[i].start), slot.MinutesToTime(sorted[i].end)),
				})
			}
		}
	}
}

func (v *Validator) checkScheduledOverlaps(result *ValidationResult, spans []span) {
	for _, s := range spans {
		for _, t := range v.scheduled {
			if !t.IsScheduled() || !t.DueOn(v.date) {
				continue
			}
			other := span{start: t.StartMinutes(), end: t.StartMinutes() + t.EffectiveDuration()}
			if s.overlaps(other) {
				result.Errors = append(result.Errors, ValidationError{
					Index: s.index,
					Field: "overlap",
					Message: fmt.Sprintf("overlaps with scheduled task '%s' (%s-%s)", t.TaskName,
						slot.MinutesToTime(other.start), slot.MinutesToTime(other.end)),
				})
			}
		}
	}
}
