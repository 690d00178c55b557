// Package input parses the TUI command prompt.
package input

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/calendar"
	"github.com/javiermolinar/timegrid/internal/dateutil"
	"github.com/javiermolinar/timegrid/internal/slot"
)

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string
	Description string
}

// Commands lists every prompt command.
var Commands = []PromptCommand{
	{Name: "/add", Description: "Add a task: /add name [@HH:MM] [duration]"},
	{Name: "/suggest", Description: "Suggest slots for the backlog"},
	{Name: "/reset", Description: "Send the day's tasks back to the backlog"},
	{Name: "/day", Description: "Day view"},
	{Name: "/week", Description: "Week view"},
	{Name: "/month", Description: "Month view"},
	{Name: "/today", Description: "Jump to today"},
	{Name: "/go", Description: "Jump to a date: /go 2025-01-15 | tomorrow | friday"},
	{Name: "/copy", Description: "Copy the agenda of the view"},
}

// PromptMatchingCommands returns commands that match the current input prefix.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	if !strings.HasPrefix(strings.TrimSpace(input), "/") {
		return nil
	}
	if strings.Contains(input, " ") {
		return nil
	}

	prefix := strings.ToLower(strings.TrimSpace(input))
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching command and whether it exists.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name + " ", true
}

// ActionKind is what a prompt line asks for.
type ActionKind int

const (
	ActionAdd ActionKind = iota
	ActionSuggest
	ActionReset
	ActionMode
	ActionGoto
	ActionCopy
)

// Action is a parsed prompt line.
type Action struct {
	Kind     ActionKind
	Name     string     // ActionAdd
	At       *time.Time // ActionAdd; nil adds to the backlog
	Duration int        // ActionAdd; 0 means the default
	Mode     calendar.Mode
	Date     time.Time // ActionGoto
}

// Parse turns a prompt line into an Action. date is the day in view, used
// for "@HH:MM"; now anchors relative dates.
func Parse(line string, date, now time.Time) (Action, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("%w: empty command", apperr.ErrValidation)
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "/add":
		return parseAdd(args, date)
	case "/suggest":
		return Action{Kind: ActionSuggest}, nil
	case "/reset":
		return Action{Kind: ActionReset}, nil
	case "/day", "/week", "/month":
		mode, _ := calendar.ParseMode(strings.TrimPrefix(name, "/"))
		return Action{Kind: ActionMode, Mode: mode}, nil
	case "/today":
		return Action{Kind: ActionGoto, Date: dateutil.TruncateToDay(now)}, nil
	case "/go":
		if len(args) != 1 {
			return Action{}, fmt.Errorf("%w: usage: /go <date>", apperr.ErrValidation)
		}
		d, err := dateutil.ParseDate(args[0])
		if err != nil {
			d, err = dateutil.ParseRelativeDate(args[0], now)
		}
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActionGoto, Date: d}, nil
	case "/copy":
		return Action{Kind: ActionCopy}, nil
	}
	return Action{}, fmt.Errorf("%w: unknown command %s", apperr.ErrValidation, fields[0])
}

// parseAdd reads trailing "@HH:MM" and duration tokens; the rest is the name.
func parseAdd(args []string, date time.Time) (Action, error) {
	a := Action{Kind: ActionAdd}

	for len(args) > 0 {
		last := args[len(args)-1]
		if strings.HasPrefix(last, "@") && a.At == nil {
			hour, minute, err := slot.ParseClock(strings.TrimPrefix(last, "@"))
			if err != nil {
				return Action{}, err
			}
			at := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
			a.At = &at
			args = args[:len(args)-1]
			continue
		}
		if a.Duration == 0 && len(args) > 1 && looksLikeDuration(last) {
			minutes, err := dateutil.ParseMinutes(last)
			if err != nil {
				return Action{}, err
			}
			a.Duration = minutes
			args = args[:len(args)-1]
			continue
		}
		break
	}

	a.Name = strings.Join(args, " ")
	if a.Name == "" {
		return Action{}, fmt.Errorf("%w: usage: /add name [@HH:MM] [duration]", apperr.ErrValidation)
	}
	return a, nil
}

func looksLikeDuration(s string) bool {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789hm", r) {
			return false
		}
	}
	return true
}
