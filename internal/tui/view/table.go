package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// MonthCell is one rendered day of a month page.
type MonthCell struct {
	Text  string
	Style lipgloss.Style
}

// MonthTable is a month page: weekday headers and one row per week.
type MonthTable struct {
	Width       int
	Height      int
	Weekdays    []string
	HeaderStyle lipgloss.Style
	Weeks       [][]MonthCell
	BorderStyle lipgloss.Style
	Bg          lipgloss.Color
}

// RenderMonthTable draws the month as a rounded lipgloss table with a rule
// between weeks.
func RenderMonthTable(mt MonthTable) string {
	if mt.Height <= 0 || mt.Width <= 2 {
		return ""
	}

	rows := make([][]string, len(mt.Weeks))
	for i, week := range mt.Weeks {
		rows[i] = make([]string, len(week))
		for j, c := range week {
			rows[i][j] = c.Text
		}
	}

	t := table.New().
		Headers(mt.Weekdays...).
		Rows(rows...).
		Width(mt.Width - 2).
		Height(mt.Height).
		Border(lipgloss.RoundedBorder()).
		BorderRow(true).
		BorderStyle(mt.BorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return mt.HeaderStyle
			}
			if row < 0 || row >= len(mt.Weeks) || col < 0 || col >= len(mt.Weeks[row]) {
				return lipgloss.NewStyle()
			}
			return mt.Weeks[row][col].Style
		})

	return Box(mt.Width, mt.Height, lipgloss.Top, t.Render(), mt.Bg)
}
