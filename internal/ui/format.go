package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/timegrid/internal/block"
	"github.com/javiermolinar/timegrid/internal/calendar"
	"github.com/javiermolinar/timegrid/internal/slot"
	"github.com/javiermolinar/timegrid/internal/task"
)

// Stats holds aggregated minutes for the days of a view.
type Stats struct {
	BlockMinutes    map[block.Category]int
	TaskMinutes     int
	Tasks           int
	ViewportMinutes int
	DayStats        map[string]DayStats
}

// DayStats holds statistics for a single day.
type DayStats struct {
	TaskMinutes int
	Tasks       int
}

// TotalBlockMinutes returns the minutes covered by blocks of any category.
func (s Stats) TotalBlockMinutes() int {
	total := 0
	for _, m := range s.BlockMinutes {
		total += m
	}
	return total
}

// TaskPercent returns the share of the visible hours taken by tasks.
func (s Stats) TaskPercent() int {
	if s.ViewportMinutes == 0 {
		return 0
	}
	return (s.TaskMinutes * 100) / s.ViewportMinutes
}

// BusiestDay returns the day with the most scheduled task minutes.
func (s Stats) BusiestDay() (day string, minutes int) {
	for d, ds := range s.DayStats {
		if ds.TaskMinutes > minutes || (ds.TaskMinutes == minutes && minutes > 0 && d < day) {
			minutes = ds.TaskMinutes
			day = d
		}
	}
	return day, minutes
}

// AccumulateColumn adds one day column of a grid to stats.
func AccumulateColumn(stats *Stats, col calendar.Column, viewportMinutes int) {
	if stats.BlockMinutes == nil {
		stats.BlockMinutes = make(map[block.Category]int)
	}
	if stats.DayStats == nil {
		stats.DayStats = make(map[string]DayStats)
	}
	stats.ViewportMinutes += viewportMinutes

	for _, bi := range col.Blocks {
		stats.BlockMinutes[bi.Block.Category] += bi.Block.Duration()
	}

	dayKey := col.Date.Format("Mon Jan 2")
	ds := stats.DayStats[dayKey]
	for _, it := range col.Tasks {
		minutes := it.Task.EffectiveDuration()
		stats.TaskMinutes += minutes
		stats.Tasks++
		ds.TaskMinutes += minutes
		ds.Tasks++
	}
	stats.DayStats[dayKey] = ds
}

// PrintStats prints the stats summary lines.
func PrintStats(w io.Writer, stats Stats) {
	fmt.Fprintf(w, "  %s  |  Blocks: %s  |  Tasks: %d\n",
		formatTask("Scheduled: "+FormatDuration(stats.TaskMinutes)),
		FormatDuration(stats.TotalBlockMinutes()),
		stats.Tasks)

	if len(stats.BlockMinutes) > 0 {
		cats := make([]string, 0, len(stats.BlockMinutes))
		for _, c := range block.Categories() {
			if m, ok := stats.BlockMinutes[c]; ok {
				cats = append(cats, formatCategory(c, fmt.Sprintf("%s %s", c, FormatDuration(m))))
			}
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(cats, "  "))
	}
	if day, minutes := stats.BusiestDay(); minutes > 0 && len(stats.DayStats) > 1 {
		fmt.Fprintf(w, "  Busiest day: %s (%s)\n", day, formatStats(FormatDuration(minutes)))
	}
	fmt.Fprintf(w, "  Load: %s\n", FillBar(stats.TaskMinutes, stats.ViewportMinutes, 20))
}

// FillBar creates an ASCII bar showing how much of the visible hours is
// scheduled.
func FillBar(taskMinutes, totalMinutes, width int) string {
	if totalMinutes == 0 {
		return "[" + strings.Repeat("░", width) + "] (0% scheduled)"
	}

	pct := min(100, (taskMinutes*100)/totalMinutes)
	filled := min(width, (taskMinutes*width)/totalMinutes)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatTask(bar), formatStats(fmt.Sprintf("(%d%% scheduled)", pct)))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// PrintBlockRow prints a single block row with consistent formatting.
func PrintBlockRow(w io.Writer, b *block.TimeBlock, maxTitleWidth int) {
	title := ansi.Truncate(b.Title, maxTitleWidth, "...")
	fmt.Fprintf(w, "  %s-%s  %s  %-*s  %s  %s\n",
		b.StartTime, b.EndTime,
		formatCategory(b.Category, fmt.Sprintf("%-10s", b.Category)),
		maxTitleWidth, title,
		formatMuted(FormatDuration(b.Duration())),
		formatMuted(shortID(b.ID)))
}

// PrintTaskRow prints a single task row with consistent formatting.
func PrintTaskRow(w io.Writer, t *task.Task, maxNameWidth int) {
	when := "  backlog  "
	if start, ok := t.Placement().Scheduled(); ok {
		end := start.Add(time.Duration(t.EffectiveDuration()) * time.Minute)
		when = start.Format("15:04") + "-" + end.Format("15:04")
	}
	name := ansi.Truncate(t.TaskName, maxNameWidth, "...")
	project := ""
	if t.ProjectName != "" {
		project = " [" + t.ProjectName + "]"
	}
	fmt.Fprintf(w, "  %s  %s  %s  %s%s\n",
		formatTask(when),
		formatMuted(fmt.Sprintf("%-6s", FormatDuration(t.EffectiveDuration()))),
		formatMuted(shortID(t.ID)),
		name, formatMuted(project))
}

// shortID returns the first segment of a UUID, enough to address a row.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// PrintGrid prints a day or week grid as text: one line per visible slot,
// one column per day. Blocks show their category color, tasks their name.
func PrintGrid(w io.Writer, g *calendar.Grid, width int) {
	const labelW = 6
	cols := len(g.Columns)
	if cols == 0 {
		return
	}
	colW := max(8, (width-labelW)/cols)

	var header strings.Builder
	header.WriteString(strings.Repeat(" ", labelW))
	for _, c := range g.Columns {
		label := c.Date.Format("Mon Jan 2")
		if c.Today {
			label = "*" + label
		}
		header.WriteString(fit(label, colW))
	}
	fmt.Fprintln(w, formatHeader(header.String()))

	for _, row := range g.VisibleRows() {
		label := "      "
		if row.OnHour {
			label = fit(row.Label, labelW)
		}
		var line strings.Builder
		line.WriteString(formatMuted(label))
		for ci, c := range g.Columns {
			line.WriteString(gridCell(g, ci, c, row, colW))
		}
		fmt.Fprintln(w, line.String())
	}
}

func gridCell(g *calendar.Grid, ci int, c calendar.Column, row calendar.Row, width int) string {
	top := row.Top
	if g.Marker != nil && g.Marker.Column == ci && g.Marker.Top >= top && g.Marker.Top < top+g.Geometry.SlotHeight {
		return formatNow(fit("── "+g.Marker.Label+" "+strings.Repeat("─", width), width))
	}
	for _, it := range c.Tasks {
		if top >= it.Box.Top && top < it.Box.Bottom() {
			text := "│"
			if top == it.Box.Top {
				text = "┌" + it.Task.TaskName
			}
			return formatTask(fit(text, width))
		}
	}
	for _, bi := range c.Blocks {
		if top >= bi.Box.Top && top < bi.Box.Bottom() {
			text := "▏"
			if top == bi.Box.Top {
				text = "▏" + bi.Block.Title
			}
			return formatCategory(bi.Block.Category, fit(text, width))
		}
	}
	if row.OnHour {
		return formatMuted(fit("·", width))
	}
	return strings.Repeat(" ", width)
}

// PrintMonth prints a month as a seven-column calendar with task counts.
func PrintMonth(w io.Writer, g *calendar.Grid, width int) {
	colW := max(6, width/7)
	var header strings.Builder
	for _, d := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		header.WriteString(fit(d, colW))
	}
	fmt.Fprintln(w, formatHeader(header.String()))

	for _, week := range g.Weeks {
		var line strings.Builder
		for _, cell := range week {
			if cell.Blank {
				line.WriteString(strings.Repeat(" ", colW))
				continue
			}
			text := cell.Date.Format("2")
			if n := len(cell.Tasks) + cell.Overflow; n > 0 {
				text += fmt.Sprintf(" (%d)", n)
			}
			switch {
			case cell.Today:
				line.WriteString(formatNow(fit(text, colW)))
			case len(cell.Tasks) > 0:
				line.WriteString(formatTask(fit(text, colW)))
			default:
				line.WriteString(fit(text, colW))
			}
		}
		fmt.Fprintln(w, line.String())
	}
}

// PrintAgenda prints the tasks of a grid grouped by day.
func PrintAgenda(w io.Writer, g *calendar.Grid, tasks []*task.Task) {
	byDay := make(map[string][]*task.Task)
	var days []time.Time
	for _, t := range tasks {
		start, ok := t.Placement().Scheduled()
		if !ok || start.Before(g.Start) || start.After(g.End.AddDate(0, 0, 1)) {
			continue
		}
		key := start.Format("2006-01-02")
		if _, seen := byDay[key]; !seen {
			days = append(days, task.Midnight(start))
		}
		byDay[key] = append(byDay[key], t)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	for _, d := range days {
		fmt.Fprintf(w, "\n%s\n", formatHeader(d.Format("Monday, January 2")))
		list := byDay[d.Format("2006-01-02")]
		sort.SliceStable(list, func(i, j int) bool { return list[i].DueDate.Before(*list[j].DueDate) })
		for _, t := range list {
			PrintTaskRow(w, t, 40)
		}
	}
}

// viewportMinutes is the minutes between the first and last visible hour.
func viewportMinutes(g *calendar.Grid) int {
	return (g.Geometry.Viewport.EndHour - g.Geometry.Viewport.StartHour) * slot.PerHour * slot.Minutes
}

// fit truncates s to width cells and pads it with spaces.
func fit(s string, width int) string {
	s = ansi.Truncate(s, width-1, "…")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
