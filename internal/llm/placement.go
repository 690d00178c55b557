package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const placementPrompt = `You are a scheduling assistant for a small business owner.
Place the backlog tasks listed below into free 30-minute slots of one day.

Date: %s (%s)
Current time: %s
Working hours: %s to %s

Scheduled tasks (do not overlap):
%s

Recurring time blocks (prefer placing work inside matching blocks):
%s

Backlog tasks to place:
%s

Rules:
- Return JSON only (no markdown).
- "start" is HH:MM (24-hour) on a 30-minute boundary (minute 00 or 30).
- Never use 00:00.
- Every task must start and end within working hours.
- Tasks must not overlap the busy list or each other.
- "duration" is in minutes, a multiple of 30, at least 30. Keep the given duration unless it cannot fit.
- Skip a task rather than break a rule, and say why in "warnings".
- Do not place tasks before the current time when the date is today.

JSON schema:
{
  "placements": [
    {"task_id": "string", "start": "HH:MM", "duration": 60, "reason": "string"}
  ],
  "warnings": ["string"]
}`

// BusyInterval is something already occupying part of the day.
type BusyInterval struct {
	Start string // HH:MM
	End   string // HH:MM
	Title string
	Kind  string // "block" or "task"
}

// Candidate is a backlog task offered for placement.
type Candidate struct {
	ID       string
	Name     string
	Project  string
	Priority string
	Duration int
}

// PlacementRequest is the input for a placement prompt.
type PlacementRequest struct {
	Date       time.Time
	Now        time.Time
	DayStart   string // HH:MM
	DayEnd     string // HH:MM
	Busy       []BusyInterval
	Blocks     []BusyInterval
	Candidates []Candidate
}

// PlacementResponse is the parsed model reply.
type PlacementResponse struct {
	Placements []Placement `json:"placements"`
	Warnings   []string    `json:"warnings"`
}

// Placement is one proposed slot for a task.
type Placement struct {
	TaskID   string `json:"task_id"`
	Start    string `json:"start"`
	Duration int    `json:"duration"`
	Reason   string `json:"reason,omitempty"`
}

// Planner asks an LLM for placements.
type Planner struct {
	client Client
}

// NewPlanner creates a new Planner with the given LLM client.
func NewPlanner(client Client) *Planner {
	return &Planner{client: client}
}

// BuildInitialMessages returns the conversation that opens a placement
// session.
func (p *Planner) BuildInitialMessages(req PlacementRequest) []Message {
	today := req.Now.Format("2006-01-02") == req.Date.Format("2006-01-02")
	now := "n/a (not today)"
	if today {
		now = req.Now.Format("15:04")
	}

	prompt := fmt.Sprintf(placementPrompt,
		req.Date.Format("2006-01-02"),
		req.Date.Format("Monday"),
		now,
		req.DayStart,
		req.DayEnd,
		formatBusy(req.Busy),
		formatBusy(req.Blocks),
		formatCandidates(req.Candidates),
	)
	return []Message{
		{Role: RoleSystem, Content: prompt},
		{Role: RoleUser, Content: "Suggest placements for the backlog tasks."},
	}
}

// PlaceWithMessages sends messages and parses the placements.
func (p *Planner) PlaceWithMessages(ctx context.Context, messages []Message) (*PlacementResponse, error) {
	var resp PlacementResponse
	if err := p.client.ChatJSON(ctx, messages, &resp); err != nil {
		return nil, fmt.Errorf("getting placements from LLM: %w", err)
	}
	return &resp, nil
}

func formatBusy(busy []BusyInterval) string {
	if len(busy) == 0 {
		return "- nothing"
	}
	var b strings.Builder
	for _, it := range busy {
		fmt.Fprintf(&b, "- %s-%s %s (%s)\n", it.Start, it.End, it.Title, it.Kind)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCandidates(cs []Candidate) string {
	if len(cs) == 0 {
		return "- none"
	}
	var b strings.Builder
	for _, c := range cs {
		fmt.Fprintf(&b, "- id=%s name=%q duration=%d", c.ID, c.Name, c.Duration)
		if c.Project != "" {
			fmt.Fprintf(&b, " project=%q", c.Project)
		}
		if c.Priority != "" {
			fmt.Fprintf(&b, " priority=%s", c.Priority)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
