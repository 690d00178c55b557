// Package calendar composes slots, geometry, blocks and tasks into day, week
// and month grid models. Rendering them is left to the caller.
package calendar

import (
	"sort"
	"time"

	"github.com/javiermolinar/timegrid/internal/block"
	"github.com/javiermolinar/timegrid/internal/dateutil"
	"github.com/javiermolinar/timegrid/internal/drag"
	"github.com/javiermolinar/timegrid/internal/layout"
	"github.com/javiermolinar/timegrid/internal/slot"
	"github.com/javiermolinar/timegrid/internal/task"
)

const (
	// MarkerRefresh is how often the current-time marker moves.
	MarkerRefresh = time.Minute
	// ClockRefresh is how often the header clock ticks.
	ClockRefresh = time.Second
	// DefaultMonthMaxTasks is how many tasks a month cell lists before "+N more".
	DefaultMonthMaxTasks = 3
)

// Input is everything needed to build a grid.
type Input struct {
	Mode          Mode
	Date          time.Time
	Now           time.Time
	Geometry      layout.Geometry
	Blocks        []*block.TimeBlock
	Tasks         []*task.Task
	MonthMaxTasks int
}

// Grid is a rendered calendar page. Day and week grids fill Rows and
// Columns; month grids fill Weeks.
type Grid struct {
	Mode     Mode
	Start    time.Time
	End      time.Time
	Geometry layout.Geometry
	Rows     []Row
	Columns  []Column
	Weeks    [][]MonthCell
	Marker   *Marker
}

// Row is one 30-minute slot. Top is relative to the viewport and Visible is
// false for slots outside it.
type Row struct {
	Slot    int
	Label   string
	OnHour  bool
	Top     int
	Visible bool
}

// Column is one date in a day or week grid.
type Column struct {
	Date   time.Time
	Today  bool
	Cells  []Cell
	Blocks []BlockItem // underlay, never a drop target
	Tasks  []TaskItem
}

// Cell is a drop target for one slot of a column.
type Cell struct {
	Slot     int
	TargetID string
}

// BlockItem is a recurring block placed in a column.
type BlockItem struct {
	Block *block.TimeBlock
	Box   layout.Box
}

// TaskItem is a scheduled task placed in a column.
type TaskItem struct {
	Task    *task.Task
	Box     layout.Box
	Lane    layout.Lane
	Visible bool
}

// MonthCell is one day of a month page. Blank cells pad the first and last
// weeks.
type MonthCell struct {
	Date     time.Time
	Blank    bool
	Today    bool
	Tasks    []*task.Task
	Overflow int
}

// Marker is the current-time line, drawn only in today's column.
type Marker struct {
	Column int
	Top    int
	Label  string
}

// Render builds the grid for in.Mode.
func Render(in Input) *Grid {
	if in.Geometry.SlotHeight == 0 {
		in.Geometry = layout.Default()
	}
	if in.MonthMaxTasks <= 0 {
		in.MonthMaxTasks = DefaultMonthMaxTasks
	}

	start, end := RangeFor(in.Date, in.Mode)
	g := &Grid{Mode: in.Mode, Start: start, End: end, Geometry: in.Geometry}

	if in.Mode == Month {
		g.Weeks = monthWeeks(in, start, end)
		return g
	}

	g.Rows = rows(in.Geometry)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		g.Columns = append(g.Columns, column(in, d))
	}
	for i, c := range g.Columns {
		if !c.Today {
			continue
		}
		if top, ok := in.Geometry.MarkerInViewport(in.Now); ok {
			g.Marker = &Marker{Column: i, Top: top, Label: in.Now.Format("15:04")}
		}
	}
	return g
}

func viewportOffset(geo layout.Geometry) int {
	return geo.Viewport.StartHour * geo.HourHeight()
}

func rows(geo layout.Geometry) []Row {
	offset := viewportOffset(geo)
	first := geo.Viewport.StartHour * slot.PerHour
	last := geo.Viewport.EndHour * slot.PerHour

	rows := make([]Row, slot.PerDay)
	for i := range rows {
		rows[i] = Row{
			Slot:    i,
			Label:   slot.Label(i),
			OnHour:  i%slot.PerHour == 0,
			Top:     geo.Position(i, 0).Top - offset,
			Visible: i >= first && i < last,
		}
	}
	return rows
}

func column(in Input, date time.Time) Column {
	c := Column{Date: date, Today: dateutil.SameDay(date, in.Now)}

	c.Cells = make([]Cell, slot.PerDay)
	for i := range c.Cells {
		c.Cells[i] = Cell{Slot: i, TargetID: drag.SlotIndexAt(date, i).ID()}
	}

	for _, b := range in.Blocks {
		if !b.OccursOn(date) {
			continue
		}
		c.Blocks = append(c.Blocks, BlockItem{
			Block: b,
			Box:   in.Geometry.BlockBox(slot.TimeToMinutes(b.StartTime), slot.TimeToMinutes(b.EndTime)),
		})
	}
	sort.SliceStable(c.Blocks, func(i, j int) bool {
		return c.Blocks[i].Block.StartTime < c.Blocks[j].Block.StartTime
	})

	tasks := scheduledOn(in.Tasks, date)
	intervals := make([]layout.Interval, len(tasks))
	for i, t := range tasks {
		intervals[i] = layout.Interval{Start: t.StartMinutes(), End: t.StartMinutes() + t.EffectiveDuration()}
	}
	lanes := layout.AssignLanes(intervals)

	offset := viewportOffset(in.Geometry)
	height := in.Geometry.ViewportHeight()
	for i, t := range tasks {
		box := in.Geometry.Position(t.StartSlot(), t.EffectiveDuration())
		box.Top -= offset
		c.Tasks = append(c.Tasks, TaskItem{
			Task:    t,
			Box:     box,
			Lane:    lanes[i],
			Visible: box.Bottom() > 0 && box.Top < height,
		})
	}
	return c
}

// scheduledOn returns the tasks scheduled on date, ordered by start.
func scheduledOn(tasks []*task.Task, date time.Time) []*task.Task {
	var result []*task.Task
	for _, t := range tasks {
		if t.IsScheduled() && t.DueOn(date) {
			result = append(result, t)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DueDate.Before(*result[j].DueDate)
	})
	return result
}

func monthWeeks(in Input, first, last time.Time) [][]MonthCell {
	var cells []MonthCell
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, MonthCell{Blank: true})
	}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		tasks := scheduledOn(in.Tasks, d)
		cell := MonthCell{Date: d, Today: dateutil.SameDay(d, in.Now)}
		if len(tasks) > in.MonthMaxTasks {
			cell.Overflow = len(tasks) - in.MonthMaxTasks
			tasks = tasks[:in.MonthMaxTasks]
		}
		cell.Tasks = tasks
		cells = append(cells, cell)
	}
	for len(cells)%7 != 0 {
		cells = append(cells, MonthCell{Blank: true})
	}

	weeks := make([][]MonthCell, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}

// SlotAt maps a viewport-relative position to a slot index, or -1 when the
// position is outside the viewport.
func (g *Grid) SlotAt(y int) int {
	if y < 0 || y >= g.Geometry.ViewportHeight() || g.Geometry.SlotHeight <= 0 {
		return -1
	}
	return g.Geometry.Viewport.StartHour*slot.PerHour + y/g.Geometry.SlotHeight
}

// TargetAt returns the drop target under column col at position y.
func (g *Grid) TargetAt(col, y int) (drag.Target, bool) {
	if col < 0 || col >= len(g.Columns) {
		return drag.Target{}, false
	}
	idx := g.SlotAt(y)
	if idx < 0 {
		return drag.Target{}, false
	}
	return drag.SlotIndexAt(g.Columns[col].Date, idx), true
}

// Covering returns the visible tasks of column col that cover line y, and
// how many lanes the column is split into on that line.
func (g *Grid) Covering(col, y int) ([]TaskItem, int) {
	if col < 0 || col >= len(g.Columns) {
		return nil, 0
	}
	var items []TaskItem
	lanes := 1
	for _, it := range g.Columns[col].Tasks {
		if it.Visible && y >= it.Box.Top && y < it.Box.Bottom() {
			items = append(items, it)
			lanes = max(lanes, it.Lane.Count)
		}
	}
	return items, lanes
}

// LaneAt maps offset x inside a column width cells wide to one of lanes
// equal lanes. The last lane takes the remainder.
func LaneAt(x, width, lanes int) int {
	if lanes <= 1 {
		return 0
	}
	laneW := width / lanes
	if laneW <= 0 {
		return lanes - 1
	}
	return min(max(x, 0)/laneW, lanes-1)
}

// TaskAt returns the first visible task under column col at line y.
func (g *Grid) TaskAt(col, y int) (TaskItem, bool) {
	items, _ := g.Covering(col, y)
	if len(items) == 0 {
		return TaskItem{}, false
	}
	return items[0], true
}

// TaskAtPoint returns the task drawn at offset x of a column width cells
// wide, on line y. An empty lane next to an overlapping task hits nothing.
func (g *Grid) TaskAtPoint(col, x, width, y int) (TaskItem, bool) {
	items, lanes := g.Covering(col, y)
	lane := LaneAt(x, width, lanes)
	for _, it := range items {
		if it.Lane.Index == lane {
			return it, true
		}
	}
	return TaskItem{}, false
}

// VisibleRows returns the rows inside the viewport.
func (g *Grid) VisibleRows() []Row {
	var result []Row
	for _, r := range g.Rows {
		if r.Visible {
			result = append(result, r)
		}
	}
	return result
}
