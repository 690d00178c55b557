// Package layout computes where blocks and tasks land on the grid.
//
// Units are abstract: the web grid uses pixels, the terminal grid uses rows.
// Position is absolute (slot 0 at the top). BlockBox and OvernightClamp are
// relative to the visible Viewport.
package layout

import (
	"sort"
	"time"

	"github.com/javiermolinar/timegrid/internal/slot"
)

// Defaults of the web grid.
const (
	DefaultSlotHeight    = 24
	DefaultGap           = 4
	DefaultMinHeight     = 20
	DefaultViewportStart = 5
	DefaultViewportEnd   = 24
)

// Viewport is the band of hours actually drawn, [StartHour, EndHour).
type Viewport struct {
	StartHour int
	EndHour   int
}

// Geometry holds the slot pitch and clamping rules.
type Geometry struct {
	SlotHeight int // height of one 30-minute slot
	Gap        int // subtracted from every box to separate neighbours
	MinHeight  int // floor so very short items stay clickable
	Viewport   Viewport
}

// Default returns the geometry of the web grid.
func Default() Geometry {
	return Geometry{
		SlotHeight: DefaultSlotHeight,
		Gap:        DefaultGap,
		MinHeight:  DefaultMinHeight,
		Viewport:   Viewport{StartHour: DefaultViewportStart, EndHour: DefaultViewportEnd},
	}
}

// Box is a vertical placement.
type Box struct {
	Top    int
	Height int
}

// Bottom returns the first unit below the box.
func (b Box) Bottom() int {
	return b.Top + b.Height
}

// Span is a clamped start/end pair relative to the viewport top.
type Span struct {
	StartPos int
	EndPos   int
}

// Position places an item starting at startSlot lasting durationMinutes.
func (g Geometry) Position(startSlot, durationMinutes int) Box {
	height := slot.Spanned(durationMinutes)*g.SlotHeight - g.Gap
	return Box{
		Top:    startSlot * g.SlotHeight,
		Height: max(g.MinHeight, height),
	}
}

// HourHeight returns the height of one hour.
func (g Geometry) HourHeight() int {
	return g.SlotHeight * slot.PerHour
}

// ViewportHeight returns the drawn height of the viewport.
func (g Geometry) ViewportHeight() int {
	return (g.Viewport.EndHour - g.Viewport.StartHour) * g.HourHeight()
}

// OvernightClamp positions an hour range inside the viewport. Hours before
// the viewport (the early-morning band) snap to its top edge and hours after
// it snap to its bottom edge, so an early block is drawn at the band edge
// instead of at a negative offset. The small inaccuracy is accepted.
func (g Geometry) OvernightClamp(startHour, endHour int) Span {
	lo, hi := g.Viewport.StartHour, g.Viewport.EndHour
	s := clamp(startHour, lo, hi)
	e := clamp(endHour, lo, hi)
	return Span{
		StartPos: (s - lo) * g.HourHeight(),
		EndPos:   (e - lo) * g.HourHeight(),
	}
}

// BlockBox places a block given minutes since midnight, relative to the
// viewport, applying the overnight clamp and the minimum height.
func (g Geometry) BlockBox(startMinutes, endMinutes int) Box {
	lo := g.Viewport.StartHour * 60
	hi := g.Viewport.EndHour * 60
	s := clamp(startMinutes, lo, hi)
	e := clamp(endMinutes, lo, hi)

	height := 0
	if e > s {
		height = slot.Spanned(e-s)*g.SlotHeight - g.Gap
	}
	return Box{
		Top:    (s/slot.Minutes - lo/slot.Minutes) * g.SlotHeight,
		Height: max(g.MinHeight, height),
	}
}

// MarkerTop returns the absolute position of the current-time marker: the top
// of the current slot plus how far into the slot now is.
func (g Geometry) MarkerTop(now time.Time) int {
	offset := (now.Minute() % slot.Minutes) * g.SlotHeight / slot.Minutes
	return g.Position(slot.OfTime(now), 0).Top + offset
}

// MarkerInViewport returns the marker position relative to the viewport and
// whether it is visible at all.
func (g Geometry) MarkerInViewport(now time.Time) (int, bool) {
	h := now.Hour()
	if h < g.Viewport.StartHour || h >= g.Viewport.EndHour {
		return 0, false
	}
	return g.MarkerTop(now) - g.Viewport.StartHour*g.HourHeight(), true
}

// Interval is a half-open [Start, End) range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// Lane tells where an item sits among the items it collides with.
type Lane struct {
	Index int // 0-based column within the collision group
	Count int // columns in the group
}

// AssignLanes lays out overlapping intervals side by side. Intervals that
// overlap directly or through a chain of others share a group and get
// distinct lanes; the result is aligned with the input.
func AssignLanes(items []Interval) []Lane {
	lanes := make([]Lane, len(items))
	if len(items) == 0 {
		return lanes
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := items[order[a]], items[order[b]]
		if ia.Start != ib.Start {
			return ia.Start < ib.Start
		}
		return ia.End > ib.End
	})

	var (
		group    []int
		laneEnds []int
		groupEnd = -1
	)
	flush := func() {
		for _, idx := range group {
			lanes[idx].Count = len(laneEnds)
		}
		group = group[:0]
		laneEnds = laneEnds[:0]
	}

	for _, idx := range order {
		it := items[idx]
		end := max(it.End, it.Start+1)
		if len(group) > 0 && it.Start >= groupEnd {
			flush()
		}

		placed := false
		for l, le := range laneEnds {
			if le <= it.Start {
				laneEnds[l] = end
				lanes[idx].Index = l
				placed = true
				break
			}
		}
		if !placed {
			lanes[idx].Index = len(laneEnds)
			laneEnds = append(laneEnds, end)
		}

		group = append(group, idx)
		groupEnd = max(groupEnd, end)
	}
	flush()

	return lanes
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
