package dateutil

import (
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2025-01-15 ")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got, err = ParseDate("")
	if err != nil || !got.Equal(TruncateToDay(time.Now())) {
		t.Errorf("empty date = %v, %v; want today", got, err)
	}

	if _, err := ParseDate("01/15/2025"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("bad date error = %v, want ErrValidation", err)
	}
}

func TestParseRelativeDate(t *testing.T) {
	fri := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)
	mon := time.Date(2025, 1, 13, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		now  time.Time
		want time.Time
	}{
		{"", fri, day(2025, 1, 10)},
		{"Today", fri, day(2025, 1, 10)},
		{"TOMORROW", fri, day(2025, 1, 11)},
		{"next-week", fri, day(2025, 1, 17)},
		{"saturday", fri, day(2025, 1, 11)},
		{"sunday", fri, day(2025, 1, 12)},
		{"thursday", fri, day(2025, 1, 16)},
		{"friday", fri, day(2025, 1, 17)},
		{"next-friday", fri, day(2025, 1, 17)},
		{"Monday", mon, day(2025, 1, 20)},
		{"next-tuesday", mon, day(2025, 1, 14)},
		{"2025-01-10", fri, day(2025, 1, 10)},
		{"2025-03-01", fri, day(2025, 3, 1)},
		{"monday", time.Date(2024, 12, 31, 9, 0, 0, 0, time.UTC), day(2025, 1, 6)},
	}
	for _, tt := range tests {
		got, err := ParseRelativeDate(tt.in, tt.now)
		if err != nil {
			t.Errorf("ParseRelativeDate(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseRelativeDate(%q, %s) = %s, want %s", tt.in, tt.now.Weekday(), got.Format(DateLayout), tt.want.Format(DateLayout))
		}
	}
}

func TestParseRelativeDate_Errors(t *testing.T) {
	fri := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)
	tests := map[string]error{
		"2025-01-09":    ErrDateInPast,
		"yesterday":     ErrInvalidDateFormat,
		"next-month":    ErrInvalidDateFormat,
		"next-":         ErrInvalidDateFormat,
		"2025-13-01":    ErrInvalidDateFormat,
		"friday-ish":    ErrInvalidDateFormat,
		"in three days": ErrInvalidDateFormat,
	}
	for in, want := range tests {
		if _, err := ParseRelativeDate(in, fri); !errors.Is(err, want) {
			t.Errorf("ParseRelativeDate(%q) error = %v, want %v", in, err, want)
		}
	}
}

func TestParseMinutes(t *testing.T) {
	for in, want := range map[string]int{"90": 90, " 30 ": 30, "45m": 45, "1h30m": 90, "2h": 120} {
		got, err := ParseMinutes(in)
		if err != nil || got != want {
			t.Errorf("ParseMinutes(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"", "ninety", "90s", "1h30m15s"} {
		if _, err := ParseMinutes(in); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("ParseMinutes(%q) error = %v, want ErrValidation", in, err)
		}
	}
}

func TestRanges(t *testing.T) {
	sun, sat := WeekRange(time.Date(2025, 2, 1, 23, 59, 0, 0, time.UTC))
	if !sun.Equal(day(2025, 1, 26)) || !sat.Equal(day(2025, 2, 1)) {
		t.Errorf("WeekRange across months = %v..%v", sun, sat)
	}
	sun, _ = WeekRange(day(2025, 1, 5))
	if !sun.Equal(day(2025, 1, 5)) {
		t.Errorf("WeekRange of a Sunday starts at %v", sun)
	}

	first, last := MonthRange(time.Date(2024, 2, 14, 8, 0, 0, 0, time.UTC))
	if !first.Equal(day(2024, 2, 1)) || !last.Equal(day(2024, 2, 29)) {
		t.Errorf("MonthRange(Feb 2024) = %v..%v", first, last)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !SameDay(a, a.Add(23*time.Hour+59*time.Minute)) {
		t.Error("same date should match")
	}
	if SameDay(a, a.Add(24*time.Hour)) {
		t.Error("next day should not match")
	}
	if got := TruncateToDay(a.Add(13*time.Hour + 5*time.Second)); !got.Equal(a) {
		t.Errorf("TruncateToDay = %v", got)
	}
}
