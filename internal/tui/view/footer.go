package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Footer is the two lines under the grid: status on top, key help below.
type Footer struct {
	Width       int
	Status      string
	Help        string
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	Bg          lipgloss.Color
}

func (f Footer) Render() string {
	lines := clip(f.Status, f.Width, f.StatusStyle) + "\n" + clip(f.Help, f.Width, f.HelpStyle)
	return Box(f.Width, 2, lipgloss.Bottom, lines, f.Bg)
}

// clip renders text in style so the result, frame included, is width cells.
func clip(text string, width int, style lipgloss.Style) string {
	frame, _ := style.GetFrameSize()
	inner := max(0, width-frame)
	if inner > 0 {
		text = ansi.Truncate(text, inner, "…")
	}
	return style.Width(inner).Render(text)
}
