package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timegrid/internal/calendar"
	"github.com/javiermolinar/timegrid/internal/dateutil"
	"github.com/javiermolinar/timegrid/internal/drag"
	"github.com/javiermolinar/timegrid/internal/layout"
	"github.com/javiermolinar/timegrid/internal/slot"
	"github.com/javiermolinar/timegrid/internal/task"
	"github.com/javiermolinar/timegrid/internal/tui/view"
)

// View renders the model. Before the first WindowSizeMsg there is nothing
// to lay out.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	parts := []string{m.renderHeader(), m.renderBody(), m.renderFooter()}
	base := view.Fill(strings.Join(parts, "\n"), m.width, m.height, m.styles.palette.Bg)

	switch m.focus {
	case FocusHelp:
		return view.Overlay(base, m.renderHelpModal(), m.width, m.height, m.styles.ModalBgColor)
	case FocusSuggest:
		return view.Overlay(base, m.renderSuggestModal(), m.width, m.height, m.styles.ModalBgColor)
	}
	return base
}

func paint(style lipgloss.Style, text string, width int) string {
	return style.Render(view.Fit(text, width))
}

func (m Model) renderHeader() string {
	s := m.styles

	left := s.TitleStyle.Render(" timegrid ") + s.RangeStyle.Render(" "+view.RangeTitle(m.mode, m.date)+" ")
	if m.busy > 0 {
		left += s.SpinnerStyle.Render(m.spinner.View())
	}
	clock := s.ClockStyle.Render(m.now.Format("Mon 15:04:05") + " ")
	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(clock))
	title := left + s.AppStyle.Render(strings.Repeat(" ", gap)) + clock

	if m.mode == calendar.Month {
		return title + "\n" + s.AppStyle.Render(strings.Repeat(" ", m.width))
	}

	days := make([]time.Time, len(m.grid.Columns))
	for i, c := range m.grid.Columns {
		days[i] = c.Date
	}
	colW := m.colWidth()
	labels, today := view.HeaderLabels(days, m.now, colW)

	var b strings.Builder
	b.WriteString(paint(s.AppStyle, "", timeColWidth))
	for i, label := range labels {
		style := s.DayHeaderStyle
		if today[i] {
			style = s.DayHeaderTodayStyle
		}
		b.WriteString(paint(style, " "+label, colW))
	}
	if w := m.backlogPanelWidth(); w > 0 {
		b.WriteString(paint(s.AppStyle, "", w))
	}
	return title + "\n" + b.String()
}

func (m Model) renderBody() string {
	height := m.gridHeight()
	if m.mode == calendar.Month {
		return m.renderMonth(height)
	}

	lines := make([]string, 0, height)
	visible := m.visibleLines()
	for row := 0; row < height; row++ {
		var b strings.Builder
		if row < visible {
			line := m.scroll + row
			b.WriteString(m.renderTimeLabel(line))
			for c := range m.grid.Columns {
				b.WriteString(m.renderCell(c, line))
			}
		} else {
			b.WriteString(paint(m.styles.AppStyle, "", m.width-m.backlogPanelWidth()))
		}
		if m.backlogPanelWidth() > 0 {
			b.WriteString(m.renderBacklogLine(row))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTimeLabel(line int) string {
	s := m.styles
	if mk := m.grid.Marker; mk != nil && mk.Top == line {
		return paint(s.MarkerLabelStyle, mk.Label, timeColWidth-1) + s.AppStyle.Render(" ")
	}
	idx := m.grid.SlotAt(line)
	if idx < 0 {
		return paint(s.AppStyle, "", timeColWidth)
	}
	if m.lineOfSlot(idx) != line {
		// Continuation line of a taller slot.
		return paint(s.AppStyle, "", timeColWidth)
	}
	if idx%slot.PerHour == 0 {
		return paint(s.TimeLabelHourStyle, slot.Label(idx), timeColWidth)
	}
	return paint(s.TimeLabelStyle, slot.Label(idx), timeColWidth)
}

// renderCell draws one line of a day column. Overlapping tasks split the
// column into lanes; the drag preview is drawn over everything.
func (m Model) renderCell(col, line int) string {
	width := m.colWidth()

	if pcol, box, ok := m.previewBox(); ok && pcol == col && line >= box.Top && line < box.Bottom() {
		return paint(m.styles.PreviewStyle, m.previewText(line-box.Top), width)
	}

	covering, lanes := m.grid.Covering(col, line)
	if len(covering) == 0 {
		return m.renderBackground(col, line, width)
	}

	laneW := width / lanes
	var b strings.Builder
	for i := 0; i < lanes; i++ {
		w := laneW
		if i == lanes-1 {
			w = width - laneW*(lanes-1)
		}
		drawn := false
		for _, it := range covering {
			if it.Lane.Index == i {
				b.WriteString(m.renderTaskLine(it, line, w))
				drawn = true
				break
			}
		}
		if !drawn {
			b.WriteString(m.renderBackground(col, line, w))
		}
	}
	return b.String()
}

func (m Model) renderTaskLine(it calendar.TaskItem, line, width int) string {
	s := m.styles
	t := it.Task

	style := s.TaskStyle
	switch {
	case m.drag.Active() && t.ID == m.drag.Anchor.TaskID:
		style = s.TaskOriginStyle
	case m.isSelected(t):
		style = s.TaskSelectedStyle
	case t.End().Before(m.now):
		style = s.TaskPastStyle
	case it.Lane.Index%2 == 1:
		style = s.TaskAltStyle
	}

	first := max(it.Box.Top, m.scroll)
	text := ""
	switch line - first {
	case 0:
		text = " " + t.TaskName
	case 1:
		text = " " + timeRange(*t.DueDate, t.EffectiveDuration())
	case 2:
		if t.ProjectName != "" {
			text = " " + t.ProjectName
		}
	}
	return paint(style, text, width)
}

func (m Model) isSelected(t *task.Task) bool {
	if m.focus != FocusGrid || m.drag.Active() {
		return false
	}
	sel, ok := m.cursorTask()
	return ok && sel.ID == t.ID
}

func (m Model) renderBackground(col, line, width int) string {
	s := m.styles

	if mk := m.grid.Marker; mk != nil && mk.Column == col && mk.Top == line {
		return s.MarkerLineStyle.Render(strings.Repeat("─", max(0, width)))
	}
	if m.focus == FocusGrid && !m.drag.Active() && col == m.cursor.Col && line == m.lineOfSlot(m.cursor.Slot) {
		return paint(s.CursorCellStyle, "", width)
	}
	for _, bi := range m.grid.Columns[col].Blocks {
		if line >= bi.Box.Top && line < bi.Box.Bottom() {
			text := ""
			if line == max(bi.Box.Top, m.scroll) {
				text = " " + bi.Block.Title
			}
			return paint(s.BlockStyle(bi.Block.Color), text, width)
		}
	}
	if idx := m.grid.SlotAt(line); idx >= 0 && idx%slot.PerHour == 0 && m.lineOfSlot(idx) == line {
		return paint(s.EmptyHourCellStyle, "·", width)
	}
	return paint(s.EmptyCellStyle, "", width)
}

// previewBox is where the dragged task would land, relative to the
// viewport.
func (m Model) previewBox() (int, layout.Box, bool) {
	if !m.drag.Active() || m.overBacklog || m.dragCol < 0 || m.dragCol >= len(m.grid.Columns) {
		return 0, layout.Box{}, false
	}
	p := m.drag.Preview
	offset := m.lineOfSlot(0) // absolute to viewport-relative
	if p.Start == nil {
		box := m.geometry.Position(0, p.Duration)
		box.Top = m.dragLine
		return m.dragCol, box, true
	}
	if a := m.drag.Anchor.Start; a != nil && !dateutil.SameDay(*a, *p.Start) {
		return 0, layout.Box{}, false
	}
	box := m.geometry.Position(slot.OfTime(*p.Start), p.Duration)
	box.Top += offset
	return m.dragCol, box, true
}

func (m Model) previewText(offset int) string {
	p := m.drag.Preview
	switch offset {
	case 0:
		return " " + m.draggedName()
	case 1:
		if p.Start != nil {
			return " " + timeRange(*p.Start, p.Duration)
		}
		return " " + view.FormatDuration(p.Duration)
	}
	return ""
}

func (m Model) draggedName() string {
	id := m.drag.Anchor.TaskID
	for _, list := range [][]*task.Task{m.tasks, m.backlog} {
		for _, t := range list {
			if t.ID == id {
				return t.TaskName
			}
		}
	}
	return ""
}

func timeRange(start time.Time, minutes int) string {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return start.Format("15:04") + "-" + end.Format("15:04")
}

func (m Model) renderBacklogLine(row int) string {
	s := m.styles
	w := m.backlogPanelWidth()
	border := s.BorderStyle.Render("│")
	w--

	if row == 0 {
		if m.drag.Active() && m.overBacklog && m.drag.Anchor.Start != nil {
			return border + paint(s.BacklogDropStyle, " Drop to unschedule", w)
		}
		return border + paint(s.BacklogTitleStyle, fmt.Sprintf(" Backlog (%d)", len(m.backlog)), w)
	}

	idx := row - 1
	if idx >= len(m.backlog) {
		return border + paint(s.AppStyle, "", w)
	}
	t := m.backlog[idx]
	dur := view.FormatDuration(t.EffectiveDuration())
	name := view.Fit(" "+t.TaskName, max(0, w-len(dur)-1))
	text := name + dur + " "

	style := s.BacklogItemStyle
	switch {
	case m.drag.Active() && t.ID == m.drag.Anchor.TaskID:
		style = s.BacklogMutedStyle
	case m.focus == FocusBacklog && idx == m.backlogCursor:
		style = s.BacklogSelectedStyle
	}
	return border + paint(style, text, w)
}

func (m Model) renderMonth(height int) string {
	s := m.styles
	cellW := max(4, (m.width-2)/7-3)
	weeks := make([][]view.MonthCell, len(m.grid.Weeks))
	for i, week := range m.grid.Weeks {
		weeks[i] = make([]view.MonthCell, len(week))
		for j, cell := range week {
			weeks[i][j] = m.monthCell(cell, cellW)
		}
	}

	return view.RenderMonthTable(view.MonthTable{
		Width:       m.width,
		Height:      height,
		Weekdays:    []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		HeaderStyle: s.DayHeaderStyle.Padding(0, 1),
		Weeks:       weeks,
		BorderStyle: s.BorderStyle,
		Bg:          s.palette.Bg,
	})
}

func (m Model) monthCell(cell calendar.MonthCell, width int) view.MonthCell {
	s := m.styles
	if cell.Blank {
		return view.MonthCell{Style: s.MonthBlankStyle}
	}

	lines := []string{cell.Date.Format("2")}
	for _, t := range cell.Tasks {
		lines = append(lines, view.Fit(t.DueDate.Format("15:04")+" "+t.TaskName, width))
	}
	if cell.Overflow > 0 {
		lines = append(lines, fmt.Sprintf("+%d more", cell.Overflow))
	}

	style := s.MonthDayStyle
	switch {
	case dateutil.SameDay(cell.Date, m.date):
		style = s.MonthCursorStyle
	case cell.Today:
		style = s.MonthTodayStyle
	}
	return view.MonthCell{Text: strings.Join(lines, "\n"), Style: style}
}

func (m Model) renderFooter() string {
	s := m.styles
	footer := view.Footer{
		Width:       m.width,
		StatusStyle: s.StatusStyle,
		HelpStyle:   s.HelpStyle,
		Bg:          s.palette.Bg,
	}

	switch {
	case m.focus == FocusPrompt:
		footer.Status = m.prompt.View()
		var names []string
		for _, c := range m.promptSuggestions() {
			names = append(names, c.Name+" "+c.Description)
		}
		footer.Help = strings.Join(names, "  ·  ")
		return footer.Render()
	case m.pending != nil && !m.saving:
		footer.Help = m.help.View(retryKeys{m.keys})
	case m.drag.Active():
		footer.Help = m.help.View(dragKeys{m.keys})
	default:
		footer.Help = m.help.View(m.keys)
	}

	switch {
	case m.statusMsg != "":
		footer.Status = " " + m.statusMsg
		if m.statusErr {
			footer.StatusStyle = s.StatusErrorStyle
		}
	case m.drag.Active():
		footer.Status = " " + m.dragStatus()
	}
	return footer.Render()
}

func (m Model) dragStatus() string {
	name := m.draggedName()
	target := m.dropTarget()
	switch {
	case target == nil:
		return fmt.Sprintf("%s: release outside the grid to cancel", name)
	case m.overBacklog:
		return fmt.Sprintf("%s → backlog", name)
	case m.drag.Handle != drag.Move:
		return fmt.Sprintf("%s: %s", name, view.FormatDuration(m.drag.Preview.Duration))
	default:
		return fmt.Sprintf("%s → %s", name, target.At().Format("Mon Jan 2 15:04"))
	}
}

func (m Model) renderHelpModal() string {
	s := m.styles
	h := help.New()
	h.Styles = m.help.Styles
	body := s.ModalTitleStyle.Render("Keys") + "\n\n" + h.FullHelpView(m.keys.FullHelp()) + "\n\n" +
		s.ModalMutedStyle.Render("Mouse: drag a task to move it, drag its top or bottom edge to resize,") + "\n" +
		s.ModalMutedStyle.Render("drop it on the backlog to unschedule.")
	return s.ModalStyle.Render(body)
}

func (m Model) renderSuggestModal() string {
	s := m.styles
	r := m.suggestion
	if r == nil {
		return ""
	}
	width := max(20, min(72, m.width-8))

	var b strings.Builder
	b.WriteString(s.ModalTitleStyle.Render("Suggestions for " + r.Date.Format("Monday, Jan 2")))
	b.WriteString("\n\n")

	if len(r.Proposals) == 0 {
		b.WriteString(s.ModalMutedStyle.Render("No placements proposed."))
		b.WriteString("\n")
	}
	for _, p := range r.Proposals {
		b.WriteString(s.ModalTextStyle.Render(view.Fit(timeRange(p.At, p.Duration)+"  "+p.Task.TaskName, width)))
		b.WriteString("\n")
		if p.Reason != "" {
			b.WriteString(s.ModalMutedStyle.Render(view.Fit("             "+p.Reason, width)))
			b.WriteString("\n")
		}
	}
	for _, w := range r.Warnings {
		b.WriteString("\n")
		b.WriteString(s.ModalErrorStyle.Render(view.Fit("! "+w, width)))
	}
	if r.HasValidationErrors() {
		b.WriteString("\n")
		b.WriteString(s.ModalErrorStyle.Render(fmt.Sprintf("%d placements were rejected:", len(r.ValidationErrors))))
		for _, e := range r.ValidationErrors {
			b.WriteString("\n")
			b.WriteString(s.ModalErrorStyle.Render(view.Fit("  "+e.String(), width)))
		}
	}

	b.WriteString("\n\n")
	if len(r.Proposals) > 0 {
		b.WriteString(s.ModalMutedStyle.Render("enter apply · esc discard"))
	} else {
		b.WriteString(s.ModalMutedStyle.Render("esc close"))
	}
	return s.ModalStyle.Render(b.String())
}
