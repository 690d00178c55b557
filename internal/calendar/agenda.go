package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/timegrid/internal/task"
)

// Agenda renders the tasks scheduled between start and end (inclusive days)
// as plain text, one heading per day that has tasks:
//
//	Monday, Jan 15
//	  14:00-15:00  Quote Maple St [Maple]
func Agenda(tasks []*task.Task, start, end time.Time) string {
	var b strings.Builder
	for d := task.Midnight(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		day := scheduledOn(tasks, d)
		if len(day) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.Format("Monday, Jan 2"))
		b.WriteString("\n")
		for _, t := range day {
			fmt.Fprintf(&b, "  %s-%s  %s", t.DueDate.Format("15:04"), t.End().Format("15:04"), t.TaskName)
			if t.ProjectName != "" {
				fmt.Fprintf(&b, " [%s]", t.ProjectName)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Agenda renders the grid's range as plain text.
func (g *Grid) Agenda(tasks []*task.Task) string {
	return Agenda(tasks, g.Start, g.End)
}
