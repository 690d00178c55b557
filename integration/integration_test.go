package integration

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/block"
	"github.com/javiermolinar/timegrid/internal/calendar"
	"github.com/javiermolinar/timegrid/internal/db"
	"github.com/javiermolinar/timegrid/internal/drag"
	"github.com/javiermolinar/timegrid/internal/layout"
	"github.com/javiermolinar/timegrid/internal/task"
)

const owner = "jamie"

type stores struct {
	repo   *db.SQLite
	blocks *block.Store
	tasks  *task.Store
}

// openStores creates a fresh database for each test with automatic cleanup.
func openStores(t *testing.T) stores {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return stores{
		repo:   repo,
		blocks: block.NewStore(repo, block.DefaultTimeout),
		tasks:  task.NewStore(repo, block.DefaultTimeout),
	}
}

func at(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", s, err)
	}
	return v
}

func createTask(t *testing.T, s stores, name string, due *time.Time, minutes int) *task.Task {
	t.Helper()
	tsk, err := s.tasks.Create(context.Background(), owner, task.NewTask{TaskName: name, DueDate: due, Duration: minutes})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return tsk
}

func TestPlaceLandsInSlot(t *testing.T) {
	s := openStores(t)
	ctx := context.Background()

	tsk := createTask(t, s, "Quote Maple St", nil, 0)
	if !tsk.IsBacklog() {
		t.Fatal("expected new task without date to be in the backlog")
	}

	placed, err := s.tasks.PlaceAt(ctx, owner, tsk.ID, at(t, "2025-01-15 14:00"))
	if err != nil {
		t.Fatalf("PlaceAt failed: %v", err)
	}
	if got := placed.StartSlot(); got != 28 {
		t.Errorf("StartSlot: got %d, want 28", got)
	}

	got, err := s.tasks.Get(ctx, owner, tsk.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.DueDate == nil || !got.DueDate.Equal(at(t, "2025-01-15 14:00")) {
		t.Errorf("DueDate: got %v, want 2025-01-15 14:00", got.DueDate)
	}
	if got.EffectiveDuration() != task.DefaultDuration {
		t.Errorf("EffectiveDuration: got %d, want %d", got.EffectiveDuration(), task.DefaultDuration)
	}

	backlog, err := s.tasks.Backlog(ctx, owner)
	if err != nil {
		t.Fatalf("Backlog failed: %v", err)
	}
	if len(backlog) != 0 {
		t.Errorf("expected empty backlog after placing, got %d", len(backlog))
	}
}

func TestUnscheduleKeepsDate(t *testing.T) {
	s := openStores(t)
	ctx := context.Background()

	due := at(t, "2025-01-15 10:00")
	tsk := createTask(t, s, "Call supplier", &due, 60)

	got, err := s.tasks.Unschedule(ctx, owner, tsk.ID)
	if err != nil {
		t.Fatalf("Unschedule failed: %v", err)
	}
	if !got.IsBacklog() {
		t.Fatal("expected task in the backlog")
	}
	if got.DueDate == nil || !got.DueOn(due) {
		t.Errorf("expected date to be kept, got %v", got.DueDate)
	}

	backlog, err := s.tasks.Backlog(ctx, owner)
	if err != nil {
		t.Fatalf("Backlog failed: %v", err)
	}
	if len(backlog) != 1 || backlog[0].ID != tsk.ID {
		t.Errorf("expected the task in the backlog, got %v", backlog)
	}
}

func TestResizeRejectsBelowFloor(t *testing.T) {
	s := openStores(t)
	ctx := context.Background()

	due := at(t, "2025-01-15 10:00")
	tsk := createTask(t, s, "Review", &due, 60)

	if _, err := s.tasks.Resize(ctx, owner, tsk.ID, 15); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got, err := s.tasks.Get(ctx, owner, tsk.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Duration != 60 {
		t.Errorf("Duration: got %d, want 60 (unchanged)", got.Duration)
	}
}

func TestResetDay(t *testing.T) {
	s := openStores(t)
	ctx := context.Background()

	a := at(t, "2025-01-15 09:00")
	b := at(t, "2025-01-15 15:30")
	other := at(t, "2025-01-16 09:00")
	createTask(t, s, "a", &a, 30)
	createTask(t, s, "b", &b, 30)
	createTask(t, s, "other day", &other, 30)

	n, err := s.tasks.ResetDay(ctx, owner, a)
	if err != nil {
		t.Fatalf("ResetDay failed: %v", err)
	}
	if n != 2 {
		t.Errorf("reset: got %d, want 2", n)
	}

	backlog, err := s.tasks.Backlog(ctx, owner)
	if err != nil {
		t.Fatalf("Backlog failed: %v", err)
	}
	if len(backlog) != 2 {
		t.Errorf("backlog: got %d, want 2", len(backlog))
	}
}

func TestCopyDayReplacesTargets(t *testing.T) {
	s := openStores(t)
	ctx := context.Background()

	for _, in := range []block.NewTimeBlock{
		{Title: "Deep work", DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00"},
		{Title: "Lunch", DayOfWeek: 1, StartTime: "12:00", EndTime: "13:00", Category: block.CategoryBreak},
		{Title: "Old tuesday", DayOfWeek: 2, StartTime: "07:00", EndTime: "08:00"},
	} {
		if _, err := s.blocks.Create(ctx, owner, in); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	n, err := s.blocks.CopyDay(ctx, owner, 1, []int{2, 3})
	if err != nil {
		t.Fatalf("CopyDay failed: %v", err)
	}
	if n != 4 {
		t.Errorf("created: got %d, want 4", n)
	}

	tuesday, err := s.blocks.ListDay(ctx, owner, 2)
	if err != nil {
		t.Fatalf("ListDay failed: %v", err)
	}
	if len(tuesday) != 2 {
		t.Fatalf("tuesday: got %d blocks, want 2", len(tuesday))
	}
	for _, b := range tuesday {
		if b.Title == "Old tuesday" {
			t.Error("expected existing tuesday block to be replaced")
		}
	}

	monday, err := s.blocks.ListDay(ctx, owner, 1)
	if err != nil {
		t.Fatalf("ListDay failed: %v", err)
	}
	if len(monday) != 2 {
		t.Errorf("monday: got %d blocks, want 2 (source untouched)", len(monday))
	}
}

func TestCopyDayEmptySource(t *testing.T) {
	s := openStores(t)
	ctx := context.Background()

	if _, err := s.blocks.Create(ctx, owner, block.NewTimeBlock{Title: "Keep", DayOfWeek: 2, StartTime: "09:00", EndTime: "10:00"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := s.blocks.CopyDay(ctx, owner, 1, []int{2})
	if !errors.Is(err, apperr.ErrEmptySource) {
		t.Fatalf("expected empty source error, got %v", err)
	}

	tuesday, err := s.blocks.ListDay(ctx, owner, 2)
	if err != nil {
		t.Fatalf("ListDay failed: %v", err)
	}
	if len(tuesday) != 1 {
		t.Errorf("expected target day untouched, got %d blocks", len(tuesday))
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	s := openStores(t)
	ctx := context.Background()

	tsk := createTask(t, s, "Mine", nil, 0)
	if _, err := s.tasks.Get(ctx, "someone-else", tsk.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for another owner, got %v", err)
	}
	if _, err := s.tasks.PlaceAt(ctx, "someone-else", tsk.ID, at(t, "2025-01-15 10:00")); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found when placing another owner's task, got %v", err)
	}
}

// TestDragCommitWorkflow drives a gesture over a rendered grid and persists
// the commit, the way the TUI does.
func TestDragCommitWorkflow(t *testing.T) {
	s := openStores(t)
	ctx := context.Background()

	if _, err := s.blocks.Create(ctx, owner, block.NewTimeBlock{
		Title: "Site visit", DayOfWeek: 3, StartTime: "08:00", EndTime: "12:00", Category: block.CategorySiteVisit,
	}); err != nil {
		t.Fatalf("Create block failed: %v", err)
	}
	due := at(t, "2025-01-15 10:00") // Wednesday
	tsk := createTask(t, s, "Quote Maple St", &due, 60)

	load := func() *calendar.Grid {
		t.Helper()
		day := at(t, "2025-01-15 00:00")
		start, end := calendar.RangeFor(day, calendar.Week)
		blocks, err := s.blocks.List(ctx, owner)
		if err != nil {
			t.Fatalf("List blocks failed: %v", err)
		}
		tasks, err := s.tasks.ListRange(ctx, owner, start, end)
		if err != nil {
			t.Fatalf("ListRange failed: %v", err)
		}
		return calendar.Render(calendar.Input{
			Mode: calendar.Week, Date: day, Now: at(t, "2025-01-15 09:00"),
			Geometry: layout.Default(), Blocks: blocks, Tasks: tasks,
		})
	}

	g := load()
	col := 3 // Sunday-first week
	item, ok := g.TaskAt(col, 0)
	for y := 0; !ok && y < g.Geometry.ViewportHeight(); y++ {
		item, ok = g.TaskAt(col, y)
	}
	if !ok || item.Task.ID != tsk.ID {
		t.Fatalf("expected task in wednesday column")
	}
	if len(g.Columns[col].Blocks) != 1 {
		t.Fatalf("expected site visit block under wednesday, got %d", len(g.Columns[col].Blocks))
	}

	// Move down two slots.
	st := drag.Begin(item.Task, drag.Move, item.Box.Top+1)
	st = st.Move(item.Box.Top+1+2*g.Geometry.SlotHeight, g.Geometry.SlotHeight)
	preview := *st.Preview.Start
	target := drag.SlotAt(preview, preview.Hour(), preview.Minute())
	if !strings.HasSuffix(target.ID(), "2025-01-15-11-00") {
		t.Fatalf("unexpected target %s", target.ID())
	}
	commit, ok := st.Drop(&target)
	if !ok {
		t.Fatal("expected a commit")
	}
	if _, err := drag.Apply(ctx, s.tasks, owner, commit); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// Resize the bottom edge by one slot.
	g = load()
	var moved calendar.TaskItem
	for _, it := range g.Columns[col].Tasks {
		if it.Task.ID == tsk.ID {
			moved = it
		}
	}
	if moved.Task == nil || moved.Task.StartSlot() != 22 {
		t.Fatalf("expected task at slot 22 after the move, got %+v", moved.Task)
	}
	st = drag.Begin(moved.Task, drag.ResizeEnd, moved.Box.Bottom())
	st = st.Move(moved.Box.Bottom()+g.Geometry.SlotHeight, g.Geometry.SlotHeight)
	resizeTarget := drag.SlotAt(*moved.Task.DueDate, 0, 0)
	commit, ok = st.Drop(&resizeTarget)
	if !ok {
		t.Fatal("expected a resize commit")
	}
	if _, err := drag.Apply(ctx, s.tasks, owner, commit); err != nil {
		t.Fatalf("Apply resize failed: %v", err)
	}

	// Drop it on the backlog.
	got, err := s.tasks.Get(ctx, owner, tsk.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Duration != 90 {
		t.Errorf("Duration: got %d, want 90", got.Duration)
	}
	st = drag.Begin(got, drag.Move, 0)
	backlog := drag.Backlog()
	commit, ok = st.Drop(&backlog)
	if !ok || commit.Kind != drag.CommitUnschedule {
		t.Fatalf("expected unschedule commit, got %+v", commit)
	}
	if _, err := drag.Apply(ctx, s.tasks, owner, commit); err != nil {
		t.Fatalf("Apply unschedule failed: %v", err)
	}

	got, err = s.tasks.Get(ctx, owner, tsk.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.IsBacklog() {
		t.Error("expected task back in the backlog")
	}
	if out := calendar.Agenda([]*task.Task{got}, due, due); out != "" {
		t.Errorf("expected empty agenda for backlog task, got %q", out)
	}
}
