package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timegrid/internal/block"
	"github.com/javiermolinar/timegrid/internal/calendar"
	"github.com/javiermolinar/timegrid/internal/config"
	"github.com/javiermolinar/timegrid/internal/dateutil"
	"github.com/javiermolinar/timegrid/internal/debuglog"
	"github.com/javiermolinar/timegrid/internal/drag"
	"github.com/javiermolinar/timegrid/internal/layout"
	"github.com/javiermolinar/timegrid/internal/slot"
	"github.com/javiermolinar/timegrid/internal/suggest"
	"github.com/javiermolinar/timegrid/internal/task"
	"github.com/javiermolinar/timegrid/internal/tui/commands"
	"github.com/javiermolinar/timegrid/internal/tui/theme"
)

// Screen layout in terminal cells.
const (
	headerLines  = 2 // title bar + day labels
	footerLines  = 2 // status/prompt + help
	timeColWidth = 6
	backlogWidth = 26
	minColWidth  = 4
)

// Focus is the part of the screen receiving keys.
type Focus int

const (
	FocusGrid Focus = iota
	FocusBacklog
	FocusPrompt
	FocusSuggest
	FocusHelp
)

// Deps are the collaborators of the TUI.
type Deps struct {
	Tasks     commands.TaskStore
	Blocks    commands.BlockStore
	Suggester commands.Suggester // nil when no LLM is configured
}

// Position is the keyboard cursor: a day column and a slot index.
type Position struct {
	Col  int
	Slot int
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	deps   Deps
	config *config.Config
	owner  string

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Components
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	prompt  textinput.Model

	// What is shown
	mode     calendar.Mode
	date     time.Time
	now      time.Time
	nowFunc  func() time.Time
	geometry layout.Geometry
	grid     *calendar.Grid

	blocks  []*block.TimeBlock
	tasks   []*task.Task
	backlog []*task.Task

	// Interaction
	focus         Focus
	cursor        Position
	backlogCursor int
	scroll        int // first visible viewport line

	// Drag gesture. dragCol is the column under the pointer; overBacklog is
	// set while the pointer is over the backlog panel.
	drag        drag.State
	dragCol     int
	dragLine    int
	overBacklog bool
	pending     *drag.Commit // commit in flight or waiting for a retry
	saving      bool

	suggestion *suggest.Result

	busy       int // requests in flight
	statusMsg  string
	statusErr  bool
	statusTime time.Time

	width  int
	height int
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.nowFunc = now
	}
}

// WithDate sets the date shown first.
func WithDate(date time.Time) ModelOption {
	return func(m *Model) {
		m.date = dateutil.TruncateToDay(date)
	}
}

// New creates a new TUI model.
func New(deps Deps, cfg *config.Config, opts ...ModelOption) Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	prompt := textinput.New()
	prompt.Prompt = "> "
	prompt.Placeholder = "/add name @14:00 1h"
	prompt.CharLimit = 256
	prompt.TextStyle = styles.PromptStyle
	prompt.PromptStyle = styles.StatusStyle

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.SpinnerStyle

	m := Model{
		deps:     deps,
		config:   cfg,
		owner:    cfg.Owner.ID,
		theme:    t,
		styles:   styles,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		prompt:   prompt,
		mode:     cfg.View(),
		nowFunc:  time.Now,
		geometry: terminalGeometry(cfg.Geometry()),
	}
	m.help.Styles.ShortKey = styles.HelpStyle.Bold(true)
	m.help.Styles.ShortDesc = styles.HelpStyle
	m.help.Styles.ShortSeparator = styles.HelpStyle
	m.help.Styles.FullKey = styles.ModalTextStyle.Bold(true)
	m.help.Styles.FullDesc = styles.ModalMutedStyle
	m.help.Styles.FullSeparator = styles.ModalMutedStyle

	for _, opt := range opts {
		opt(&m)
	}

	m.now = m.nowFunc()
	if m.date.IsZero() {
		m.date = dateutil.TruncateToDay(m.now)
	}
	m.rebuild()
	m.cursor.Slot = slot.OfTime(m.now)
	m.ensureCursorVisible()
	return m
}

// terminalGeometry keeps the configured viewport but draws one line per slot.
func terminalGeometry(g layout.Geometry) layout.Geometry {
	return layout.Geometry{
		SlotHeight: 1,
		Gap:        0,
		MinHeight:  1,
		Viewport:   g.Viewport,
	}
}

// Init loads the first range and starts the clocks.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.load(),
		m.spinner.Tick,
		commands.ClockTick(calendar.ClockRefresh),
		commands.MarkerTick(calendar.MarkerRefresh),
	)
}

// load fetches the visible range. The caller must count it in busy.
func (m Model) load() tea.Cmd {
	return commands.Load(m.deps.Tasks, m.deps.Blocks, m.owner, m.mode, m.date)
}

// rebuild recomputes the grid from the loaded data.
func (m *Model) rebuild() {
	m.grid = calendar.Render(calendar.Input{
		Mode:          m.mode,
		Date:          m.date,
		Now:           m.now,
		Geometry:      m.geometry,
		Blocks:        m.blocks,
		Tasks:         m.tasks,
		MonthMaxTasks: m.config.Grid.MonthMaxTasks,
	})
	m.cursor.Col = m.dateColumn()
	if m.backlogCursor >= len(m.backlog) {
		m.backlogCursor = max(0, len(m.backlog)-1)
	}
}

// dateColumn is the column showing the selected date.
func (m Model) dateColumn() int {
	for i, c := range m.grid.Columns {
		if dateutil.SameDay(c.Date, m.date) {
			return i
		}
	}
	return 0
}

// Run starts the TUI.
func Run(deps Deps, cfg *config.Config) error {
	debuglog.Log("TUI_START", map[string]any{"view": cfg.View().String(), "owner": cfg.Owner.ID})
	p := tea.NewProgram(New(deps, cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Geometry helpers. All grid positions are viewport lines: line 0 is the
// first slot of the viewport.

func (m Model) firstSlot() int {
	return m.geometry.Viewport.StartHour * slot.PerHour
}

func (m Model) viewportLines() int {
	return m.geometry.ViewportHeight()
}

func (m Model) gridHeight() int {
	return max(0, m.height-headerLines-footerLines)
}

// visibleLines is how many viewport lines fit on screen.
func (m Model) visibleLines() int {
	return min(m.gridHeight(), m.viewportLines())
}

func (m Model) backlogPanelWidth() int {
	if m.mode == calendar.Month || m.width < timeColWidth+backlogWidth+2*minColWidth {
		return 0
	}
	return backlogWidth
}

func (m Model) colWidth() int {
	n := len(m.grid.Columns)
	if n == 0 {
		return 0
	}
	return max(minColWidth, (m.width-timeColWidth-m.backlogPanelWidth())/n)
}

// lineOfSlot converts a slot index to a viewport line.
func (m Model) lineOfSlot(idx int) int {
	return (idx - m.firstSlot()) * m.geometry.SlotHeight
}

func (m *Model) ensureCursorVisible() {
	first, last := m.firstSlot(), m.firstSlot()+m.viewportLines()-1
	m.cursor.Slot = max(first, min(last, m.cursor.Slot))

	line := m.lineOfSlot(m.cursor.Slot)
	visible := m.visibleLines()
	if visible <= 0 {
		return
	}
	if line < m.scroll {
		m.scroll = line
	}
	if line >= m.scroll+visible {
		m.scroll = line - visible + 1
	}
	m.scroll = max(0, min(m.scroll, m.viewportLines()-visible))
}

// cursorTask returns the task under the keyboard cursor.
func (m Model) cursorTask() (*task.Task, bool) {
	item, ok := m.grid.TaskAt(m.cursor.Col, m.lineOfSlot(m.cursor.Slot))
	if !ok {
		return nil, false
	}
	return item.Task, true
}

func (m Model) selectedBacklog() (*task.Task, bool) {
	if m.backlogCursor < 0 || m.backlogCursor >= len(m.backlog) {
		return nil, false
	}
	return m.backlog[m.backlogCursor], true
}
