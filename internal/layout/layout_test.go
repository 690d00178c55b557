package layout

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestPosition(t *testing.T) {
	g := Default()

	tests := []struct {
		name      string
		startSlot int
		duration  int
		want      Box
	}{
		{name: "focus block 09:00 for 90 minutes", startSlot: 18, duration: 90, want: Box{Top: 432, Height: 68}},
		{name: "single slot", startSlot: 0, duration: 30, want: Box{Top: 0, Height: 20}},
		{name: "partial slot rounds up", startSlot: 2, duration: 45, want: Box{Top: 48, Height: 44}},
		{name: "zero duration clamps to min height", startSlot: 28, duration: 0, want: Box{Top: 672, Height: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(g.Position(tt.startSlot, tt.duration), tt.want)
		})
	}
}

func TestPosition_MinHeightFloor(t *testing.T) {
	is := is.New(t)
	g := Geometry{SlotHeight: 10, Gap: 4, MinHeight: 24}
	is.Equal(g.Position(3, 15).Height, 24) // 10-4 = 6 below floor
	is.Equal(g.Position(3, 90).Height, 26)
}

func TestOvernightClamp(t *testing.T) {
	g := Default() // viewport 05:00-24:00, 48 units per hour

	tests := []struct {
		name             string
		startHour, end   int
		wantStart, wantE int
	}{
		{name: "inside viewport", startHour: 9, end: 11, wantStart: 192, wantE: 288},
		{name: "early morning start clamps to top", startHour: 2, end: 7, wantStart: 0, wantE: 96},
		{name: "fully early block collapses to edge", startHour: 0, end: 4, wantStart: 0, wantE: 0},
		{name: "end beyond viewport clamps to bottom", startHour: 22, end: 26, wantStart: 816, wantE: 912},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			got := g.OvernightClamp(tt.startHour, tt.end)
			is.Equal(got, Span{StartPos: tt.wantStart, EndPos: tt.wantE})
			is.True(got.StartPos >= 0)
		})
	}
}

func TestBlockBox(t *testing.T) {
	is := is.New(t)
	g := Default()

	// 09:00-10:30 relative to a 05:00 viewport: 8 slots down
	is.Equal(g.BlockBox(540, 630), Box{Top: 192, Height: 68})

	// 03:00-04:00 sits in the early band: drawn at the top edge with min height
	is.Equal(g.BlockBox(180, 240), Box{Top: 0, Height: 20})

	// Full-day viewport keeps absolute coordinates
	g.Viewport = Viewport{StartHour: 0, EndHour: 24}
	is.Equal(g.BlockBox(540, 630), g.Position(18, 90))
}

func TestMarker(t *testing.T) {
	is := is.New(t)
	g := Default()

	now := time.Date(2024, 1, 15, 14, 10, 0, 0, time.UTC)
	is.Equal(g.MarkerTop(now), 28*24+8) // 10 of 30 minutes into the slot

	top, ok := g.MarkerInViewport(now)
	is.True(ok)
	is.Equal(top, 28*24+8-5*48)

	is.Equal(g.MarkerTop(time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)), 29*24)

	_, ok = g.MarkerInViewport(time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC))
	is.True(!ok)
}

func TestAssignLanes(t *testing.T) {
	is := is.New(t)

	lanes := AssignLanes([]Interval{
		{Start: 540, End: 600}, // 09:00-10:00
		{Start: 570, End: 630}, // 09:30-10:30 overlaps first
		{Start: 600, End: 660}, // 10:00-11:00 overlaps second, reuses lane 0
		{Start: 720, End: 750}, // 12:00 alone
	})

	is.Equal(lanes[0], Lane{Index: 0, Count: 2})
	is.Equal(lanes[1], Lane{Index: 1, Count: 2})
	is.Equal(lanes[2], Lane{Index: 0, Count: 2})
	is.Equal(lanes[3], Lane{Index: 0, Count: 1})
}

func TestAssignLanes_Empty(t *testing.T) {
	is := is.New(t)
	is.Equal(len(AssignLanes(nil)), 0)
}
