package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timegrid/internal/calendar"
	"github.com/javiermolinar/timegrid/internal/debuglog"
	"github.com/javiermolinar/timegrid/internal/drag"
)

// minResizableHeight is the smallest box that shows resize handles. Shorter
// boxes can only be moved.
const minResizableHeight = 3

// hit is what lies under a screen position.
type hit struct {
	inGrid    bool
	col, line int
	x         int // offset inside the column

	inBacklog    bool
	backlogIndex int // -1 on the panel title
}

func (m Model) hitTest(x, y int) hit {
	h := hit{backlogIndex: -1}
	row := y - headerLines
	if m.mode == calendar.Month || row < 0 || row >= m.visibleLines() {
		return h
	}

	colW := m.colWidth()
	gridRight := timeColWidth + colW*len(m.grid.Columns)
	switch {
	case x >= timeColWidth && x < gridRight && colW > 0:
		h.inGrid = true
		h.col = (x - timeColWidth) / colW
		h.x = (x - timeColWidth) % colW
		h.line = m.scroll + row
	case x >= gridRight && m.backlogPanelWidth() > 0:
		h.inBacklog = true
		if idx := row - 1; idx >= 0 && idx < len(m.backlog) {
			h.backlogIndex = idx
		}
	}
	return h
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.focus != FocusGrid && m.focus != FocusBacklog {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-3)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scrollBy(3)
		return m, nil
	}

	if m.pending != nil {
		return m, nil
	}

	h := m.hitTest(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.mousePress(h)

	case tea.MouseActionMotion:
		if !m.drag.Active() {
			return m, nil
		}
		switch {
		case h.inBacklog && m.drag.Handle == drag.Move:
			m.overBacklog = true
		case h.inGrid:
			if m.drag.Handle != drag.Move {
				h.col = m.dragCol
			}
			m.moveDrag(h.col, h.line)
		default:
			m.overBacklog = false
		}
		return m, nil

	case tea.MouseActionRelease:
		if !m.drag.Active() {
			return m, nil
		}
		if !h.inGrid && !h.inBacklog {
			// Released outside any target.
			m.dragCol = -1
			m.overBacklog = false
		}
		return m.dropDrag()
	}
	return m, nil
}

func (m Model) mousePress(h hit) (tea.Model, tea.Cmd) {
	switch {
	case h.inGrid:
		m.focus = FocusGrid
		m.cursor.Col = h.col
		if idx := m.grid.SlotAt(h.line); idx >= 0 {
			m.cursor.Slot = idx
		}
		if h.col < len(m.grid.Columns) {
			m.date = m.grid.Columns[h.col].Date
		}

		item, ok := m.grid.TaskAtPoint(h.col, h.x, m.colWidth(), h.line)
		if !ok {
			return m, nil
		}
		handle := drag.Move
		if item.Box.Height >= minResizableHeight {
			switch h.line {
			case item.Box.Top:
				handle = drag.ResizeStart
			case item.Box.Bottom() - 1:
				handle = drag.ResizeEnd
			}
		}
		m.drag = drag.Begin(item.Task, handle, h.line)
		m.dragCol = h.col
		m.dragLine = h.line
		m.overBacklog = false
		debuglog.Log("DRAG_BEGIN", map[string]any{"task_id": item.Task.ID, "handle": handle.String(), "input": "mouse"})
		return m, nil

	case h.inBacklog:
		m.focus = FocusBacklog
		if h.backlogIndex < 0 {
			return m, nil
		}
		m.backlogCursor = h.backlogIndex
		t := m.backlog[h.backlogIndex]
		m.drag = drag.Begin(t, drag.Move, 0)
		m.dragCol = -1
		m.overBacklog = true
		debuglog.Log("DRAG_BEGIN", map[string]any{"task_id": t.ID, "handle": "move", "input": "mouse", "from": "backlog"})
		return m, nil
	}
	return m, nil
}

func (m *Model) scrollBy(lines int) {
	visible := m.visibleLines()
	m.scroll = max(0, min(m.viewportLines()-visible, m.scroll+lines))
}
