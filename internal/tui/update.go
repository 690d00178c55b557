package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/calendar"
	"github.com/javiermolinar/timegrid/internal/dateutil"
	"github.com/javiermolinar/timegrid/internal/debuglog"
	"github.com/javiermolinar/timegrid/internal/drag"
	"github.com/javiermolinar/timegrid/internal/tui/commands"
	"github.com/javiermolinar/timegrid/internal/tui/view"
)

const (
	statusDuration = 3 * time.Second
	errorDuration  = 5 * time.Second
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.prompt.Width = max(10, msg.Width-4)
		m.ensureCursorVisible()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case commands.LoadedMsg:
		m.busy = max(0, m.busy-1)
		if msg.Mode != m.mode || !dateutil.SameDay(msg.Date, m.date) {
			// The user navigated away while this range was loading.
			return m, nil
		}
		m.blocks = msg.Blocks
		m.tasks = msg.Tasks
		m.backlog = msg.Backlog
		m.rebuild()
		m.ensureCursorVisible()
		return m, nil

	case commands.CommittedMsg:
		m.busy = max(0, m.busy-1)
		m.saving = false
		m.pending = nil
		m.drag = m.drag.Cancel()
		m.overBacklog = false
		debuglog.Log("COMMIT_OK", map[string]any{"kind": msg.Commit.Kind.String(), "task_id": msg.Commit.TaskID})
		m.setStatus(committedText(msg), false, statusDuration)
		return m.reload()

	case commands.CommitFailedMsg:
		m.busy = max(0, m.busy-1)
		m.saving = false
		debuglog.Error("commit "+msg.Commit.Kind.String(), msg.Err)
		m.setStatus(apperr.Message(msg.Err), true, errorDuration)
		if apperr.Retryable(msg.Err) {
			// Keep the preview on screen until the user retries or cancels.
			return m, nil
		}
		m.pending = nil
		m.drag = m.drag.Cancel()
		m.overBacklog = false
		return m.reload()

	case commands.TaskCreatedMsg:
		m.busy = max(0, m.busy-1)
		m.setStatus(fmt.Sprintf("Added %q (%s)", msg.Task.TaskName, msg.Task.Placement()), false, statusDuration)
		return m.reload()

	case commands.DayResetMsg:
		m.busy = max(0, m.busy-1)
		m.setStatus(fmt.Sprintf("Moved %d tasks from %s to the backlog", msg.Count, msg.Date.Format("Mon Jan 2")), false, statusDuration)
		return m.reload()

	case commands.SuggestResultMsg:
		m.busy = max(0, m.busy-1)
		m.suggestion = msg.Result
		m.focus = FocusSuggest
		return m, nil

	case commands.SuggestAppliedMsg:
		m.busy = max(0, m.busy-1)
		m.suggestion = nil
		m.setStatus(fmt.Sprintf("Scheduled %d tasks", msg.Count), false, statusDuration)
		return m.reload()

	case commands.ErrMsg:
		m.busy = max(0, m.busy-1)
		debuglog.Error("tui", msg.Err)
		m.setStatus(apperr.Message(msg.Err), true, errorDuration)
		return m, nil

	case commands.StatusMsgCmd:
		m.setStatus(msg.Msg, false, statusDuration)
		return m, tea.Tick(statusDuration, func(time.Time) tea.Msg {
			return commands.ClearStatusMsg{}
		})

	case commands.ClearStatusMsg:
		if !m.nowFunc().Before(m.statusTime) && m.pending == nil {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil

	case commands.ClockTickMsg:
		m.now = m.nowFunc()
		return m, commands.ClockTick(calendar.ClockRefresh)

	case commands.MarkerTickMsg:
		m.now = m.nowFunc()
		m.rebuild()
		return m, commands.MarkerTick(calendar.MarkerRefresh)
	}

	if m.focus == FocusPrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func committedText(msg commands.CommittedMsg) string {
	name := "Task"
	if msg.Task != nil {
		name = fmt.Sprintf("%q", msg.Task.TaskName)
	}
	switch msg.Commit.Kind {
	case drag.CommitUnschedule:
		return name + " moved to the backlog"
	case drag.CommitResize, drag.CommitReschedule:
		return fmt.Sprintf("%s now takes %s", name, view.FormatDuration(msg.Commit.Duration))
	default:
		return fmt.Sprintf("%s placed at %s", name, msg.Commit.At.Format("Mon 15:04"))
	}
}

func (m *Model) setStatus(text string, isErr bool, d time.Duration) {
	m.statusMsg = text
	m.statusErr = isErr
	m.statusTime = m.nowFunc().Add(d)
}

// reload fetches the visible range again.
func (m Model) reload() (tea.Model, tea.Cmd) {
	m.busy++
	return m, m.load()
}

// startCommit persists c. The drag state, if any, stays until the store
// answers.
func (m Model) startCommit(c drag.Commit) (tea.Model, tea.Cmd) {
	m.pending = &c
	m.saving = true
	m.busy++
	debuglog.Log("COMMIT", map[string]any{
		"kind":     c.Kind.String(),
		"task_id":  c.TaskID,
		"at":       c.At,
		"duration": c.Duration,
	})
	return m, commands.Commit(m.deps.Tasks, m.owner, c)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.focus {
	case FocusHelp:
		m.focus = FocusGrid
		return m, nil
	case FocusSuggest:
		return m.handleSuggestKey(msg)
	case FocusPrompt:
		return m.handlePromptKey(msg)
	}

	if m.pending != nil {
		return m.handlePendingKey(msg)
	}
	if m.drag.Active() {
		return m.handleDragKey(msg)
	}
	if m.focus == FocusBacklog {
		return m.handleBacklogKey(msg)
	}
	if m.mode == calendar.Month {
		return m.handleMonthKey(msg)
	}
	return m.handleGridKey(msg)
}

// handleCommonKey handles keys that work the same in every view. handled is
// false when the key is not one of them.
func (m Model) handleCommonKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.focus = FocusHelp
		return m, nil, true
	case key.Matches(msg, m.keys.Prev):
		model, cmd := m.navigate(calendar.Shift(m.date, m.mode, -1))
		return model, cmd, true
	case key.Matches(msg, m.keys.Next):
		model, cmd := m.navigate(calendar.Shift(m.date, m.mode, 1))
		return model, cmd, true
	case key.Matches(msg, m.keys.Today):
		model, cmd := m.navigate(dateutil.TruncateToDay(m.nowFunc()))
		return model, cmd, true
	case key.Matches(msg, m.keys.DayView):
		model, cmd := m.setMode(calendar.Day)
		return model, cmd, true
	case key.Matches(msg, m.keys.WeekView):
		model, cmd := m.setMode(calendar.Week)
		return model, cmd, true
	case key.Matches(msg, m.keys.MonthView):
		model, cmd := m.setMode(calendar.Month)
		return model, cmd, true
	case key.Matches(msg, m.keys.Add):
		return m.openPrompt("/add "), nil, true
	case key.Matches(msg, m.keys.Prompt):
		return m.openPrompt("/"), nil, true
	case key.Matches(msg, m.keys.Suggest):
		model, cmd := m.runSuggest()
		return model, cmd, true
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyAgenda(), true
	}
	return m, nil, false
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		return m.navigate(m.date.AddDate(0, 0, -1))
	case key.Matches(msg, m.keys.Right):
		return m.navigate(m.date.AddDate(0, 0, 1))
	case key.Matches(msg, m.keys.Up):
		m.cursor.Slot--
		m.ensureCursorVisible()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.cursor.Slot++
		m.ensureCursorVisible()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.cursor.Slot -= max(1, m.visibleLines()/m.geometry.SlotHeight)
		m.ensureCursorVisible()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.cursor.Slot += max(1, m.visibleLines()/m.geometry.SlotHeight)
		m.ensureCursorVisible()
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		m.focus = FocusBacklog
		return m, nil
	case key.Matches(msg, m.keys.Move):
		return m.beginCursorDrag(drag.Move)
	case key.Matches(msg, m.keys.Resize):
		return m.beginCursorDrag(drag.ResizeEnd)
	case key.Matches(msg, m.keys.ToBacklog):
		t, ok := m.cursorTask()
		if !ok {
			return m, nil
		}
		c, ok := drag.Begin(t, drag.Move, 0).Drop(ptr(drag.Backlog()))
		if !ok {
			return m, nil
		}
		return m.startCommit(c)
	}

	model, cmd, _ := m.handleCommonKey(msg)
	return model, cmd
}

// beginCursorDrag picks up the task under the cursor.
func (m Model) beginCursorDrag(h drag.Handle) (tea.Model, tea.Cmd) {
	t, ok := m.cursorTask()
	if !ok {
		m.setStatus("No task under the cursor", false, statusDuration)
		return m, nil
	}
	line := m.lineOfSlot(m.cursor.Slot)
	if h == drag.ResizeEnd {
		// Grab the last slot so the first keystroke already resizes.
		line = m.lineOfSlot(t.StartSlot()) + m.geometry.Position(t.StartSlot(), t.EffectiveDuration()).Height/m.geometry.SlotHeight - 1
	}
	m.drag = drag.Begin(t, h, line)
	m.dragCol = m.cursor.Col
	m.dragLine = line
	m.overBacklog = false
	debuglog.Log("DRAG_BEGIN", map[string]any{"task_id": t.ID, "handle": h.String(), "input": "keyboard"})
	return m, nil
}

func (m Model) handleDragKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	resizing := m.drag.Handle != drag.Move
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.drag = m.drag.Cancel()
		m.overBacklog = false
		return m, nil
	case key.Matches(msg, m.keys.Drop):
		return m.dropDrag()
	case key.Matches(msg, m.keys.ToBacklog) && !resizing:
		m.overBacklog = true
		return m.dropDrag()
	case key.Matches(msg, m.keys.Up):
		m.moveDrag(m.dragCol, m.dragLine-m.geometry.SlotHeight)
	case key.Matches(msg, m.keys.Down):
		m.moveDrag(m.dragCol, m.dragLine+m.geometry.SlotHeight)
	case key.Matches(msg, m.keys.Left) && !resizing:
		m.moveDrag(m.dragCol-1, m.dragLine)
	case key.Matches(msg, m.keys.Right) && !resizing:
		m.moveDrag(m.dragCol+1, m.dragLine)
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

// moveDrag moves the pointer of the current gesture to col and line.
func (m *Model) moveDrag(col, line int) {
	m.dragCol = max(0, min(len(m.grid.Columns)-1, col))
	m.dragLine = max(0, min(m.viewportLines()-1, line))
	m.overBacklog = false
	m.drag = m.drag.Move(m.dragLine, m.geometry.SlotHeight)

	// Follow the preview with the cursor.
	m.cursor.Slot = m.grid.SlotAt(m.dragLine)
	m.ensureCursorVisible()
}

// dropTarget resolves what is under the pointer. A moved task keeps its
// offset from the pointer, so the target is the slot the preview starts in.
func (m Model) dropTarget() *drag.Target {
	if m.overBacklog {
		return ptr(drag.Backlog())
	}
	if m.dragCol < 0 || m.dragCol >= len(m.grid.Columns) {
		return nil
	}
	a, p := m.drag.Anchor, m.drag.Preview
	if m.drag.Handle == drag.Move && a.Start != nil && p.Start != nil {
		if !dateutil.SameDay(*a.Start, *p.Start) {
			return nil
		}
		t := drag.SlotAt(m.grid.Columns[m.dragCol].Date, p.Start.Hour(), p.Start.Minute())
		return &t
	}
	if m.drag.Handle != drag.Move {
		// Resizing never changes the day.
		t := drag.SlotAt(*a.Start, 0, 0)
		return &t
	}
	t, ok := m.grid.TargetAt(m.dragCol, m.dragLine)
	if !ok {
		return nil
	}
	return &t
}

func (m Model) dropDrag() (tea.Model, tea.Cmd) {
	c, ok := m.drag.Drop(m.dropTarget())
	if !ok {
		debuglog.Log("DRAG_CANCEL", map[string]any{"task_id": m.drag.Anchor.TaskID})
		m.drag = m.drag.Cancel()
		m.overBacklog = false
		return m, nil
	}
	return m.startCommit(c)
}

func (m Model) handlePendingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Retry):
		return m.startCommit(*m.pending)
	case key.Matches(msg, m.keys.Cancel):
		m.pending = nil
		m.drag = m.drag.Cancel()
		m.overBacklog = false
		m.statusMsg = ""
		m.statusErr = false
		return m.reload()
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleBacklogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.backlogCursor = max(0, m.backlogCursor-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.backlogCursor = max(0, min(len(m.backlog)-1, m.backlogCursor+1))
		return m, nil
	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Cancel):
		m.focus = FocusGrid
		return m, nil
	case key.Matches(msg, m.keys.Move):
		t, ok := m.selectedBacklog()
		if !ok {
			return m, nil
		}
		m.focus = FocusGrid
		line := m.lineOfSlot(m.cursor.Slot)
		m.drag = drag.Begin(t, drag.Move, line)
		m.dragCol = m.cursor.Col
		m.dragLine = line
		m.overBacklog = false
		debuglog.Log("DRAG_BEGIN", map[string]any{"task_id": t.ID, "handle": "move", "input": "keyboard", "from": "backlog"})
		return m, nil
	case key.Matches(msg, m.keys.Drop):
		// Place at the grid cursor right away.
		t, ok := m.selectedBacklog()
		if !ok {
			return m, nil
		}
		target, ok := m.grid.TargetAt(m.cursor.Col, m.lineOfSlot(m.cursor.Slot))
		if !ok {
			return m, nil
		}
		c, ok := drag.Begin(t, drag.Move, 0).Drop(&target)
		if !ok {
			return m, nil
		}
		m.focus = FocusGrid
		return m.startCommit(c)
	}

	model, cmd, _ := m.handleCommonKey(msg)
	return model, cmd
}

func (m Model) handleMonthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		return m.navigate(m.date.AddDate(0, 0, -1))
	case key.Matches(msg, m.keys.Right):
		return m.navigate(m.date.AddDate(0, 0, 1))
	case key.Matches(msg, m.keys.Up):
		return m.navigate(m.date.AddDate(0, 0, -7))
	case key.Matches(msg, m.keys.Down):
		return m.navigate(m.date.AddDate(0, 0, 7))
	case key.Matches(msg, m.keys.Drop):
		return m.setMode(calendar.Day)
	}

	model, cmd, _ := m.handleCommonKey(msg)
	return model, cmd
}

func (m Model) handleSuggestKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "a":
		if m.suggestion == nil || len(m.suggestion.Proposals) == 0 {
			m.focus = FocusGrid
			m.suggestion = nil
			return m, nil
		}
		result := m.suggestion
		m.focus = FocusGrid
		m.busy++
		return m, commands.ApplySuggestion(m.deps.Suggester, m.owner, result)
	case "esc", "q":
		m.focus = FocusGrid
		m.suggestion = nil
		return m, nil
	}
	return m, nil
}

// navigate selects date, reloading when it falls outside the loaded range.
func (m Model) navigate(date time.Time) (tea.Model, tea.Cmd) {
	date = dateutil.TruncateToDay(date)
	inRange := !date.Before(m.grid.Start) && !date.After(m.grid.End)
	m.date = date
	if inRange {
		m.rebuild()
		return m, nil
	}
	m.rebuild()
	return m.reload()
}

func (m Model) setMode(mode calendar.Mode) (tea.Model, tea.Cmd) {
	if mode == m.mode {
		return m, nil
	}
	m.mode = mode
	m.focus = FocusGrid
	m.rebuild()
	m.ensureCursorVisible()
	return m.reload()
}

func (m Model) copyAgenda() tea.Cmd {
	return commands.CopyText(m.grid.Agenda(m.tasks), "agenda")
}

func (m Model) runSuggest() (tea.Model, tea.Cmd) {
	if m.deps.Suggester == nil {
		m.setStatus("Suggestions need an LLM provider in the config", true, errorDuration)
		return m, nil
	}
	m.busy++
	m.setStatus("Asking for suggestions for "+m.date.Format("Mon Jan 2")+"...", false, statusDuration)
	return m, commands.Suggest(m.deps.Suggester, m.owner, m.date)
}

func ptr[T any](v T) *T {
	return &v
}
