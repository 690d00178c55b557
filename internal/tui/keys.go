package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Prev      key.Binding
	Next      key.Binding
	Today     key.Binding
	DayView   key.Binding
	WeekView  key.Binding
	MonthView key.Binding
	Focus     key.Binding
	Move      key.Binding
	Resize    key.Binding
	ToBacklog key.Binding
	Drop      key.Binding
	Cancel    key.Binding
	Retry     key.Binding
	Add       key.Binding
	Prompt    key.Binding
	Suggest   key.Binding
	Copy      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "day")),
		Right:     key.NewBinding(key.WithKeys("l", "right")),
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "slot")),
		Down:      key.NewBinding(key.WithKeys("j", "down")),
		PageUp:    key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup/pgdn", "scroll")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
		Prev:      key.NewBinding(key.WithKeys("[", "H"), key.WithHelp("[/]", "prev/next")),
		Next:      key.NewBinding(key.WithKeys("]", "L")),
		Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		DayView:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1/2/3", "day/week/month")),
		WeekView:  key.NewBinding(key.WithKeys("2")),
		MonthView: key.NewBinding(key.WithKeys("3")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "backlog")),
		Move:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		Resize:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resize")),
		ToBacklog: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "to backlog")),
		Drop:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Retry:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "retry save")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Prompt:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "commands")),
		Suggest:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "suggest")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy agenda")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Up, k.Move, k.Resize, k.Focus, k.Add, k.Suggest, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Up, k.PageUp, k.Prev, k.Today, k.DayView},
		{k.Move, k.Resize, k.ToBacklog, k.Drop, k.Cancel, k.Retry},
		{k.Focus, k.Add, k.Prompt, k.Suggest, k.Copy, k.Help, k.Quit},
	}
}

// dragKeys is the help shown while a task is being moved or resized.
type dragKeys struct {
	keyMap
}

func (k dragKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Up, k.Drop, k.Cancel}
}

func (k dragKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// retryKeys is the help shown while a failed save waits for a decision.
type retryKeys struct {
	keyMap
}

func (k retryKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Cancel}
}

func (k retryKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
