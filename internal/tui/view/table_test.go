package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestRenderMonthTable(t *testing.T) {
	plain := lipgloss.NewStyle()
	mt := MonthTable{
		Width:       100,
		Height:      8,
		Weekdays:    []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		HeaderStyle: plain,
		Weeks: [][]MonthCell{{
			{Style: plain}, {Style: plain}, {Style: plain},
			{Text: "1", Style: plain}, {Text: "2\n09:00 Quote", Style: plain}, {Text: "3", Style: plain}, {Text: "4", Style: plain},
		}},
		BorderStyle: plain,
	}

	out := ansi.Strip(RenderMonthTable(mt))
	for _, want := range []string{"Sun", "Sat", "09:00 Quote"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in month table:\n%s", want, out)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) != 8 {
		t.Errorf("got %d lines, want 8", len(lines))
	}
}

func TestRenderMonthTable_NoRoom(t *testing.T) {
	if out := RenderMonthTable(MonthTable{Width: 40}); out != "" {
		t.Errorf("expected empty output without height, got %q", out)
	}
}
