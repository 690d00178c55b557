package drag

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/javiermolinar/timegrid/internal/apperr"
)

func TestTargetID(t *testing.T) {
	is := is.New(t)

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	is.Equal(SlotAt(day, 14, 30).ID(), "calendar-slot-2024-01-15-14-30")
	is.Equal(SlotAt(day, 9, 0).ID(), "calendar-slot-2024-01-15-09-00")
	is.Equal(SlotIndexAt(day, 28).ID(), "calendar-slot-2024-01-15-14-00")
	is.Equal(Backlog().ID(), "backlog")
}

func TestParseTarget(t *testing.T) {
	is := is.New(t)

	got, err := ParseTarget("calendar-slot-2024-01-15-14-30", time.UTC)
	is.NoErr(err)
	is.Equal(got.Kind, SlotTarget)
	is.True(got.At().Equal(time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)))

	got, err = ParseTarget("backlog", time.UTC)
	is.NoErr(err)
	is.Equal(got.Kind, BacklogTarget)
}

func TestParseTarget_RoundTrip(t *testing.T) {
	is := is.New(t)

	day := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 48; i++ {
		want := SlotIndexAt(day, i)
		got, err := ParseTarget(want.ID(), time.UTC)
		is.NoErr(err)
		is.Equal(got.ID(), want.ID())
	}
}

func TestParseTarget_Invalid(t *testing.T) {
	for _, id := range []string{
		"",
		"calendar",
		"calendar-slot-2024-01-15",
		"calendar-slot-2024-13-15-14-30",
		"calendar-slot-2024-01-15-24-00",
		"calendar-slot-2024-01-15-14-15",
		"calendar-slot-2024-01-15-ab-00",
		"backlog-2",
	} {
		t.Run(id, func(t *testing.T) {
			is := is.New(t)
			_, err := ParseTarget(id, time.UTC)
			is.True(errors.Is(err, apperr.ErrValidation))
		})
	}
}
