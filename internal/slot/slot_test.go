package slot

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
)

func TestToSlotIndex(t *testing.T) {
	tests := []struct {
		name         string
		hour, minute int
		want         int
	}{
		{name: "midnight", hour: 0, minute: 0, want: 0},
		{name: "half past midnight", hour: 0, minute: 30, want: 1},
		{name: "9am", hour: 9, minute: 0, want: 18},
		{name: "9:29", hour: 9, minute: 29, want: 18},
		{name: "2pm", hour: 14, minute: 0, want: 28},
		{name: "12:30", hour: 12, minute: 30, want: 25},
		{name: "last minute", hour: 23, minute: 59, want: 47},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToSlotIndex(tt.hour, tt.minute); got != tt.want {
				t.Errorf("ToSlotIndex(%d, %d) = %d, want %d", tt.hour, tt.minute, got, tt.want)
			}
		})
	}
}

func TestToSlotIndex_TotalAndMonotonic(t *testing.T) {
	prev := -1
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			got := ToSlotIndex(h, m)
			if got < 0 || got >= PerDay {
				t.Fatalf("ToSlotIndex(%d, %d) = %d, out of range", h, m, got)
			}
			if got < prev {
				t.Fatalf("ToSlotIndex(%d, %d) = %d decreased from %d", h, m, got, prev)
			}
			prev = got
		}
	}
}

func TestLabel_RoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		for _, m := range []int{0, 30} {
			want := fmt.Sprintf("%02d:%02d", h, m)
			if got := Label(ToSlotIndex(h, m-m%30)); got != want {
				t.Errorf("Label(ToSlotIndex(%d, %d)) = %q, want %q", h, m, got, want)
			}
		}
	}
	if got := Label(0); got != "00:00" {
		t.Errorf("Label(0) = %q", got)
	}
	if got := Label(25); got != "12:30" {
		t.Errorf("Label(25) = %q", got)
	}
}

func TestSpanned(t *testing.T) {
	tests := []struct {
		duration int
		want     int
	}{
		{duration: 0, want: 1},
		{duration: 1, want: 1},
		{duration: 30, want: 1},
		{duration: 31, want: 2},
		{duration: 90, want: 3},
		{duration: 480, want: 16},
	}

	for _, tt := range tests {
		if got := Spanned(tt.duration); got != tt.want {
			t.Errorf("Spanned(%d) = %d, want %d", tt.duration, got, tt.want)
		}
	}
}

func TestTimeToMinutes(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{input: "00:00", want: 0},
		{input: "09:30", want: 570},
		{input: "23:59", want: 1439},
		{input: "9:00", want: 0},
		{input: "", want: 0},
	}
	for _, tt := range tests {
		if got := TimeToMinutes(tt.input); got != tt.want {
			t.Errorf("TimeToMinutes(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestMinutesToTime_Clamps(t *testing.T) {
	if got := MinutesToTime(-10); got != "00:00" {
		t.Errorf("MinutesToTime(-10) = %q", got)
	}
	if got := MinutesToTime(1500); got != "23:59" {
		t.Errorf("MinutesToTime(1500) = %q", got)
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("14:30")
	if err != nil || h != 14 || m != 30 {
		t.Fatalf("ParseClock(14:30) = %d, %d, %v", h, m, err)
	}

	for _, bad := range []string{"", "9:00", "24:00", "12:60", "ab:cd", "12-30"} {
		if _, _, err := ParseClock(bad); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("ParseClock(%q) error = %v, want ErrValidation", bad, err)
		}
	}
}

func TestOfTime(t *testing.T) {
	due := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	if got := OfTime(due); got != 28 {
		t.Errorf("OfTime = %d, want 28", got)
	}
	if got := OfClock("09:00"); got != 18 {
		t.Errorf("OfClock(09:00) = %d, want 18", got)
	}
}

func TestFloorAndAt(t *testing.T) {
	if got := Floor(545); got != 540 {
		t.Errorf("Floor(545) = %d", got)
	}
	date := time.Date(2024, 1, 15, 8, 12, 0, 0, time.UTC)
	want := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	if got := At(date, 570); !got.Equal(want) {
		t.Errorf("At = %v, want %v", got, want)
	}
}
