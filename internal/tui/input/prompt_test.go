package input

import (
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/calendar"
)

func TestPromptMatchingCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "no_slash", input: "add", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "full", input: "/suggest", want: 1},
		{name: "prefix", input: "/s", want: 1},
		{name: "shared_prefix", input: "/d", want: 1},
		{name: "with_space", input: "/add x", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PromptMatchingCommands(tt.input, Commands)
			if len(got) != tt.want {
				t.Fatalf("matches = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestPromptAutocomplete(t *testing.T) {
	value, ok := PromptAutocomplete("/su", Commands)
	if !ok {
		t.Fatal("expected autocomplete")
	}
	if value != "/suggest " {
		t.Fatalf("value = %q, want %q", value, "/suggest ")
	}
}

func TestParse_Add(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
	now := date.Add(9 * time.Hour)

	tests := []struct {
		name     string
		line     string
		wantName string
		wantAt   string
		wantDur  int
	}{
		{name: "backlog", line: "/add Order tiles", wantName: "Order tiles"},
		{name: "at", line: "/add Quote Maple St @14:00", wantName: "Quote Maple St", wantAt: "14:00"},
		{name: "at and duration", line: "/add Quote @14:30 1h30m", wantName: "Quote", wantAt: "14:30", wantDur: 90},
		{name: "duration only", line: "/add Call supplier 45", wantName: "Call supplier", wantDur: 45},
		{name: "numeric name kept", line: "/add 42", wantName: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.line, date, now)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if a.Kind != ActionAdd || a.Name != tt.wantName || a.Duration != tt.wantDur {
				t.Errorf("got %+v", a)
			}
			switch {
			case tt.wantAt == "" && a.At != nil:
				t.Errorf("expected backlog, got %v", a.At)
			case tt.wantAt != "" && (a.At == nil || a.At.Format("15:04") != tt.wantAt || a.At.Day() != 15):
				t.Errorf("At = %v, want %s on the 15th", a.At, tt.wantAt)
			}
		})
	}
}

func TestParse_Other(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
	now := time.Date(2025, 1, 17, 9, 0, 0, 0, time.Local) // Friday

	a, err := Parse("/week", date, now)
	if err != nil || a.Kind != ActionMode || a.Mode != calendar.Week {
		t.Errorf("/week = %+v, %v", a, err)
	}

	a, err = Parse("/go 2024-12-01", date, now)
	if err != nil || a.Kind != ActionGoto || a.Date.Month() != time.December {
		t.Errorf("/go past date = %+v, %v", a, err)
	}

	a, err = Parse("/go monday", date, now)
	if err != nil || a.Date.Day() != 20 {
		t.Errorf("/go monday = %+v, %v", a, err)
	}

	a, err = Parse("/today", date, now)
	if err != nil || a.Date.Day() != 17 {
		t.Errorf("/today = %+v, %v", a, err)
	}
}

func TestParse_Errors(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
	for _, line := range []string{"", "/nope", "/add", "/add x @25:00", "/go"} {
		if _, err := Parse(line, date, date); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Parse(%q) err = %v, want validation error", line, err)
		}
	}
}
