package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/debuglog"
	"github.com/javiermolinar/timegrid/internal/task"
	"github.com/javiermolinar/timegrid/internal/tui/commands"
	"github.com/javiermolinar/timegrid/internal/tui/input"
)

func (m Model) openPrompt(value string) Model {
	m.focus = FocusPrompt
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.prompt.Focus()
	return m
}

func (m Model) closePrompt() Model {
	m.focus = FocusGrid
	m.prompt.Blur()
	m.prompt.Reset()
	return m
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closePrompt(), nil
	case "tab":
		if completed, ok := input.PromptAutocomplete(m.prompt.Value(), input.Commands); ok {
			m.prompt.SetValue(completed)
			m.prompt.CursorEnd()
		}
		return m, nil
	case "enter":
		line := m.prompt.Value()
		m = m.closePrompt()
		return m.executePrompt(line)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) executePrompt(line string) (tea.Model, tea.Cmd) {
	action, err := input.Parse(line, m.date, m.nowFunc())
	if err != nil {
		m.setStatus(apperr.Message(err), true, errorDuration)
		return m, nil
	}
	debuglog.Log("PROMPT", map[string]any{"line": line, "kind": int(action.Kind)})

	switch action.Kind {
	case input.ActionAdd:
		m.busy++
		return m, commands.CreateTask(m.deps.Tasks, m.owner, task.NewTask{
			TaskName: action.Name,
			DueDate:  action.At,
			Duration: action.Duration,
		})
	case input.ActionSuggest:
		return m.runSuggest()
	case input.ActionReset:
		m.busy++
		return m, commands.ResetDay(m.deps.Tasks, m.owner, m.date)
	case input.ActionMode:
		return m.setMode(action.Mode)
	case input.ActionGoto:
		return m.navigate(action.Date)
	case input.ActionCopy:
		return m, m.copyAgenda()
	}
	return m, nil
}

// promptSuggestions lists the commands matching what has been typed.
func (m Model) promptSuggestions() []input.PromptCommand {
	return input.PromptMatchingCommands(m.prompt.Value(), input.Commands)
}
