// Package view holds the stateless rendering pieces of the calendar TUI:
// cell fitting, column headers, the month table, the footer and the modal
// overlay.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// FormatDuration renders minutes as 45m, 2h or 1h 30m.
func FormatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// Fit cuts s to width cells with an ellipsis and pads it to exactly width.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "…")
	return s + strings.Repeat(" ", max(0, width-ansi.StringWidth(s)))
}
