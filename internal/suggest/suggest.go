// Package suggest asks an LLM to place backlog tasks into the free slots of a
// day, validates the answer against the grid and retries with feedback.
// Both CLI and TUI can use this package.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/javiermolinar/timegrid/internal/block"
	"github.com/javiermolinar/timegrid/internal/debuglog"
	"github.com/javiermolinar/timegrid/internal/llm"
	"github.com/javiermolinar/timegrid/internal/slot"
	"github.com/javiermolinar/timegrid/internal/task"
)

// ErrNoConversation is returned by Refine before Suggest has run.
var ErrNoConversation = errors.New("no placement conversation to refine")

// Tasks is the part of the task store the planner needs.
type Tasks interface {
	ListRange(ctx context.Context, ownerID string, start, end time.Time) ([]*task.Task, error)
	Backlog(ctx context.Context, ownerID string) ([]*task.Task, error)
	Reschedule(ctx context.Context, ownerID, id string, at time.Time, minutes int) (*task.Task, error)
}

// Blocks is the part of the block store the planner needs.
type Blocks interface {
	ListDay(ctx context.Context, ownerID string, day int) ([]*block.TimeBlock, error)
}

// Options configure a Planner.
type Options struct {
	DayStart   string // HH:MM
	DayEnd     string // HH:MM
	MaxRetries int
	Now        func() time.Time
}

// Proposal is a validated placement of one backlog task.
type Proposal struct {
	Task     *task.Task
	At       time.Time
	Duration int
	Reason   string
}

// End returns the end of the proposed slot range.
func (p Proposal) End() time.Time {
	return p.At.Add(time.Duration(p.Duration) * time.Minute)
}

// Result is the outcome of a suggestion run.
type Result struct {
	Date      time.Time
	Proposals []Proposal
	Warnings  []string

	// ValidationErrors is set when retries were exhausted; Proposals then
	// holds only the placements that passed on their own.
	ValidationErrors []ValidationError
}

// HasValidationErrors returns true if there are unresolved validation errors.
func (r *Result) HasValidationErrors() bool {
	return len(r.ValidationErrors) > 0
}

// Planner orchestrates placement suggestions for one owner.
type Planner struct {
	client llm.Client
	tasks  Tasks
	blocks Blocks
	opts   Options

	// Conversation state for interactive refinement
	messages   []llm.Message
	date       time.Time
	scheduled  []*task.Task
	candidates []*task.Task
}

// New creates a Planner.
func New(client llm.Client, tasks Tasks, blocks Blocks, opts Options) *Planner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DayStart == "" {
		opts.DayStart = "08:00"
	}
	if opts.DayEnd == "" {
		opts.DayEnd = "18:00"
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Planner{client: client, tasks: tasks, blocks: blocks, opts: opts}
}

// Suggest proposes slots on date for the owner's backlog tasks.
// Nothing is written; call Apply with the result to commit it.
func (p *Planner) Suggest(ctx context.Context, ownerID string, date time.Time) (*Result, error) {
	now := p.opts.Now()
	day := task.Midnight(date)

	scheduled, err := p.tasks.ListRange(ctx, ownerID, day, day)
	if err != nil {
		return nil, fmt.Errorf("fetching scheduled tasks: %w", err)
	}
	backlog, err := p.tasks.Backlog(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetching backlog: %w", err)
	}
	blocks, err := p.blocks.ListDay(ctx, ownerID, int(day.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("fetching time blocks: %w", err)
	}

	p.date = day
	p.scheduled = onlyScheduled(scheduled)
	p.candidates = backlog

	result := &Result{Date: day}
	if len(backlog) == 0 {
		result.Warnings = []string{"backlog is empty"}
		return result, nil
	}

	req := llm.PlacementRequest{
		Date:       day,
		Now:        now,
		DayStart:   p.opts.DayStart,
		DayEnd:     p.opts.DayEnd,
		Busy:       busyFromTasks(p.scheduled),
		Blocks:     busyFromBlocks(blocks),
		Candidates: candidatesFrom(backlog),
	}
	p.messages = llm.NewPlanner(p.client).BuildInitialMessages(req)

	debuglog.Log("SUGGEST_START", map[string]any{
		"date":       day.Format("2006-01-02"),
		"scheduled":  len(p.scheduled),
		"candidates": len(backlog),
		"blocks":     len(blocks),
	})
	return p.run(ctx, now)
}

// Refine adds user feedback to the last conversation and asks again.
func (p *Planner) Refine(ctx context.Context, feedback string) (*Result, error) {
	if len(p.messages) == 0 {
		return nil, ErrNoConversation
	}
	p.messages = append(p.messages, llm.Message{Role: llm.RoleUser, Content: feedback})
	return p.run(ctx, p.opts.Now())
}

func (p *Planner) run(ctx context.Context, now time.Time) (*Result, error) {
	planner := llm.NewPlanner(p.client)
	validator := NewValidator(p.date, now, p.opts.DayStart, p.opts.DayEnd, p.scheduled, p.candidates)

	var (
		resp       *llm.PlacementResponse
		validation ValidationResult
	)
	for attempt := 0; attempt <= p.opts.MaxRetries; attempt++ {
		var err error
		resp, err = planner.PlaceWithMessages(ctx, p.messages)
		if err != nil {
			return nil, fmt.Errorf("LLM placement (attempt %d): %w", attempt+1, err)
		}

		respJSON, _ := json.Marshal(resp)
		p.messages = append(p.messages, llm.Message{Role: llm.RoleAssistant, Content: string(respJSON)})

		validation = validator.Validate(resp.Placements)
		if validation.Valid {
			return p.buildResult(resp, nil), nil
		}

		debuglog.Log("SUGGEST_INVALID", map[string]any{
			"attempt": attempt + 1,
			"errors":  len(validation.Errors),
		})
		if attempt < p.opts.MaxRetries {
			p.messages = append(p.messages, llm.Message{Role: llm.RoleUser, Content: validation.FormatErrors()})
		}
	}

	return p.buildResult(resp, validation.Errors), nil
}

func (p *Planner) buildResult(resp *llm.PlacementResponse, errs []ValidationError) *Result {
	bad := make(map[int]bool, len(errs))
	for _, e := range errs {
		bad[e.Index] = true
	}
	byID := make(map[string]*task.Task, len(p.candidates))
	for _, t := range p.candidates {
		byID[t.ID] = t
	}

	result := &Result{Date: p.date, Warnings: resp.Warnings, ValidationErrors: errs}
	for i, pl := range resp.Placements {
		if bad[i] {
			continue
		}
		t, ok := byID[pl.TaskID]
		if !ok {
			continue
		}
		result.Proposals = append(result.Proposals, Proposal{
			Task:     t,
			At:       slot.At(p.date, slot.TimeToMinutes(pl.Start)),
			Duration: pl.Duration,
			Reason:   pl.Reason,
		})
	}
	sort.Slice(result.Proposals, func(i, j int) bool {
		return result.Proposals[i].At.Before(result.Proposals[j].At)
	})
	return result
}

// Apply schedules every proposal in result and returns the updated tasks.
// It stops at the first failure; tasks placed before it stay placed.
func (p *Planner) Apply(ctx context.Context, ownerID string, result *Result) ([]*task.Task, error) {
	placed := make([]*task.Task, 0, len(result.Proposals))
	for _, prop := range result.Proposals {
		t, err := p.tasks.Reschedule(ctx, ownerID, prop.Task.ID, prop.At, prop.Duration)
		if err != nil {
			return placed, fmt.Errorf("placing %q: %w", prop.Task.TaskName, err)
		}
		placed = append(placed, t)
	}
	debuglog.Log("SUGGEST_APPLY", map[string]any{"placed": len(placed)})
	return placed, nil
}

func onlyScheduled(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsScheduled() {
			out = append(out, t)
		}
	}
	return out
}

func busyFromTasks(tasks []*task.Task) []llm.BusyInterval {
	busy := make([]llm.BusyInterval, 0, len(tasks))
	for _, t := range tasks {
		start := t.StartMinutes()
		busy = append(busy, llm.BusyInterval{
			Start: slot.MinutesToTime(start),
			End:   slot.MinutesToTime(start + t.EffectiveDuration()),
			Title: t.TaskName,
			Kind:  "task",
		})
	}
	return busy
}

func busyFromBlocks(blocks []*block.TimeBlock) []llm.BusyInterval {
	busy := make([]llm.BusyInterval, 0, len(blocks))
	for _, b := range blocks {
		busy = append(busy, llm.BusyInterval{
			Start: b.StartTime,
			End:   b.EndTime,
			Title: b.Title,
			Kind:  string(b.Category),
		})
	}
	return busy
}

func candidatesFrom(tasks []*task.Task) []llm.Candidate {
	out := make([]llm.Candidate, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, llm.Candidate{
			ID:       t.ID,
			Name:     t.TaskName,
			Project:  t.ProjectName,
			Priority: t.Priority,
			Duration: t.EffectiveDuration(),
		})
	}
	return out
}
