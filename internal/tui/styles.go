// Package tui provides the terminal user interface for timegrid.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timegrid/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	AppStyle   lipgloss.Style
	TitleStyle lipgloss.Style
	RangeStyle lipgloss.Style
	ClockStyle lipgloss.Style

	// Column headers
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style

	// Time column
	TimeLabelStyle     lipgloss.Style
	TimeLabelHourStyle lipgloss.Style
	MarkerLabelStyle   lipgloss.Style

	// Grid cells
	EmptyCellStyle     lipgloss.Style
	EmptyHourCellStyle lipgloss.Style
	CursorCellStyle    lipgloss.Style
	MarkerLineStyle    lipgloss.Style

	// Tasks
	TaskStyle         lipgloss.Style
	TaskAltStyle      lipgloss.Style // second lane of overlapping tasks
	TaskPastStyle     lipgloss.Style
	TaskSelectedStyle lipgloss.Style
	TaskOriginStyle   lipgloss.Style // where a dragged task was
	PreviewStyle      lipgloss.Style

	// Backlog panel
	BacklogTitleStyle    lipgloss.Style
	BacklogDropStyle     lipgloss.Style
	BacklogItemStyle     lipgloss.Style
	BacklogSelectedStyle lipgloss.Style
	BacklogMutedStyle    lipgloss.Style

	// Month grid
	MonthDayStyle    lipgloss.Style
	MonthTodayStyle  lipgloss.Style
	MonthCursorStyle lipgloss.Style
	MonthBlankStyle  lipgloss.Style
	BorderStyle      lipgloss.Style

	// Footer
	StatusStyle      lipgloss.Style
	StatusErrorStyle lipgloss.Style
	HelpStyle        lipgloss.Style
	PromptStyle      lipgloss.Style

	// Modal
	ModalStyle      lipgloss.Style
	ModalBgColor    lipgloss.Color
	ModalTitleStyle lipgloss.Style
	ModalTextStyle  lipgloss.Style
	ModalMutedStyle lipgloss.Style
	ModalErrorStyle lipgloss.Style

	SpinnerStyle lipgloss.Style

	blockStyles map[string]lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	return &Styles{
		palette: p,

		AppStyle:   base,
		TitleStyle: base.Foreground(p.Accent).Bold(true),
		RangeStyle: base.Bold(true),
		ClockStyle: base.Foreground(p.FgMuted),

		DayHeaderStyle:      base.Foreground(p.FgMuted).Bold(true),
		DayHeaderTodayStyle: lipgloss.NewStyle().Background(p.Accent).Foreground(p.TextOnAccent).Bold(true),

		TimeLabelStyle:     base.Foreground(p.FgMuted).Faint(true),
		TimeLabelHourStyle: base.Foreground(p.FgMuted),
		MarkerLabelStyle:   lipgloss.NewStyle().Background(p.Marker).Foreground(p.TextOnMarker).Bold(true),

		EmptyCellStyle:     base,
		EmptyHourCellStyle: base.Foreground(p.BgSelection),
		CursorCellStyle:    lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Fg),
		MarkerLineStyle:    base.Foreground(p.Marker),

		TaskStyle:         lipgloss.NewStyle().Background(p.TaskBg).Foreground(p.TextOnTask),
		TaskAltStyle:      lipgloss.NewStyle().Background(p.TaskBgAlt).Foreground(p.TextOnTask),
		TaskPastStyle:     lipgloss.NewStyle().Background(p.TaskPastBg).Foreground(p.FgMuted),
		TaskSelectedStyle: lipgloss.NewStyle().Background(p.Task).Foreground(p.TextOn(p.Task)).Bold(true),
		TaskOriginStyle:   lipgloss.NewStyle().Background(p.BgHighlight).Foreground(p.FgMuted).Italic(true),
		PreviewStyle:      lipgloss.NewStyle().Background(p.PreviewBg).Foreground(p.TextOn(p.PreviewBg)).Bold(true),

		BacklogTitleStyle:    base.Foreground(p.Backlog).Bold(true),
		BacklogDropStyle:     lipgloss.NewStyle().Background(p.Warning).Foreground(p.TextOnWarning).Bold(true),
		BacklogItemStyle:     base,
		BacklogSelectedStyle: lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Backlog).Bold(true),
		BacklogMutedStyle:    base.Foreground(p.FgMuted),

		MonthDayStyle:    base.Padding(0, 1),
		MonthTodayStyle:  base.Foreground(p.Accent).Bold(true).Padding(0, 1),
		MonthCursorStyle: lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Fg).Padding(0, 1),
		MonthBlankStyle:  base.Padding(0, 1),
		BorderStyle:      base.Foreground(p.Accent),

		StatusStyle:      base.Foreground(p.Accent),
		StatusErrorStyle: base.Foreground(p.Warning).Bold(true),
		HelpStyle:        base.Foreground(p.FgMuted),
		PromptStyle:      base,

		ModalStyle: lipgloss.NewStyle().
			Background(p.Modal.Bg).
			Foreground(p.Modal.Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Modal.Border).
			BorderBackground(p.Modal.Bg).
			Padding(1, 2),
		ModalBgColor:    p.Modal.Bg,
		ModalTitleStyle: lipgloss.NewStyle().Background(p.Modal.Bg).Foreground(p.Accent).Bold(true),
		ModalTextStyle:  lipgloss.NewStyle().Background(p.Modal.Bg).Foreground(p.Modal.Text),
		ModalMutedStyle: lipgloss.NewStyle().Background(p.Modal.Bg).Foreground(p.Modal.Muted),
		ModalErrorStyle: lipgloss.NewStyle().Background(p.Modal.Bg).Foreground(p.Warning),

		SpinnerStyle: base.Foreground(p.Accent),

		blockStyles: make(map[string]lipgloss.Style),
	}
}

// BlockStyle returns the style of a time block drawn in color.
func (s *Styles) BlockStyle(color string) lipgloss.Style {
	if st, ok := s.blockStyles[color]; ok {
		return st
	}
	bg := s.palette.BlockBg(color)
	st := lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(color))
	s.blockStyles[color] = st
	return st
}
