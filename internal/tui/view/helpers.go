package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Fill pads every line of content to width with bg and pads or crops the
// block to height lines. Lines already wider than width are left alone.
func Fill(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	pad := lipgloss.NewStyle().Background(bg)
	lines := strings.Split(content, "\n")
	out := make([]string, height)
	for i := range out {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if gap := width - lipgloss.Width(line); gap > 0 {
			line += pad.Render(strings.Repeat(" ", gap))
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}

// Box places content in a width x height area aligned vertically by align,
// with bg behind the whitespace.
func Box(width, height int, align lipgloss.Position, content string, bg lipgloss.Color) string {
	placed := lipgloss.Place(width, height, lipgloss.Left, align, content, lipgloss.WithWhitespaceBackground(bg))
	return Fill(placed, width, height, bg)
}

// Overlay draws modal centered over base. Both are ANSI strings; the cells of
// base left and right of the modal are kept.
func Overlay(base, modal string, width, height int, bg lipgloss.Color) string {
	rows := strings.Split(modal, "\n")
	modalW := 0
	for _, r := range rows {
		modalW = max(modalW, lipgloss.Width(r))
	}
	if modalW == 0 {
		return base
	}
	modalW = min(modalW, width)

	pad := lipgloss.NewStyle().Background(bg)
	for i, r := range rows {
		w := lipgloss.Width(r)
		switch {
		case w > modalW:
			r = ansi.Cut(r, 0, modalW)
		case w < modalW:
			r += pad.Render(strings.Repeat(" ", modalW-w))
		}
		rows[i] = keepBackground(r, bg) + ansi.ResetStyle
	}

	top := max(0, (height-len(rows))/2)
	left := max(0, (width-modalW)/2)
	lines := strings.Split(Fill(base, width, height, ""), "\n")
	for i, r := range rows {
		y := top + i
		if y >= len(lines) {
			break
		}
		lines[y] = ansi.Cut(lines[y], 0, left) + r + ansi.Cut(lines[y], left+modalW, width)
	}
	return strings.Join(lines, "\n")
}

// keepBackground re-applies bg after every reset inside line so styled
// spans in the modal do not punch holes into its background.
func keepBackground(line string, bg lipgloss.Color) string {
	if bg == "" {
		return line
	}
	seq := ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
	for _, reset := range []string{ansi.ResetStyle, "\x1b[0m", "\x1b[49m"} {
		line = strings.ReplaceAll(line, reset, reset+seq)
	}
	return line
}
