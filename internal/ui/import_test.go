package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/block"
	"github.com/javiermolinar/timegrid/internal/db"
)

func newBlockStore(t *testing.T) *block.Store {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "timegrid.db"))
	if err != nil {
		t.Fatalf("creating repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return block.NewStore(repo, block.DefaultTimeout)
}

func TestImportBlocks(t *testing.T) {
	ctx := context.Background()
	store := newBlockStore(t)

	data := []byte(`
blocks:
  - title: Deep work
    day: monday
    start: "09:00"
    end: "11:00"
  - title: Site visit
    day: 3
    start: "14:00"
    end: "16:30"
    category: site-visit
    color: "#ffffff"
`)

	count, err := importBlocks(ctx, store, "owner", data)
	if err != nil {
		t.Fatalf("importBlocks failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 blocks imported, got %d", count)
	}

	monday, err := store.ListDay(ctx, "owner", 1)
	if err != nil {
		t.Fatalf("ListDay failed: %v", err)
	}
	if len(monday) != 1 {
		t.Fatalf("expected 1 block on monday, got %d", len(monday))
	}
	if monday[0].Category != block.CategoryWork || monday[0].Color != block.CategoryWork.DefaultColor() {
		t.Fatalf("expected work defaults, got %s %s", monday[0].Category, monday[0].Color)
	}

	wednesday, err := store.ListDay(ctx, "owner", 3)
	if err != nil {
		t.Fatalf("ListDay failed: %v", err)
	}
	if len(wednesday) != 1 {
		t.Fatalf("expected 1 block on wednesday, got %d", len(wednesday))
	}
	got := wednesday[0]
	if got.Category != block.CategorySiteVisit || got.Color != "#ffffff" || got.EndTime != "16:30" {
		t.Fatalf("unexpected block: %+v", got)
	}
}

func TestImportBlocksStopsAtInvalidBlock(t *testing.T) {
	ctx := context.Background()
	store := newBlockStore(t)

	data := []byte(`
blocks:
  - title: Morning
    day: tue
    start: "08:00"
    end: "09:00"
  - title: Backwards
    day: tue
    start: "12:00"
    end: "10:00"
`)

	count, err := importBlocks(ctx, store, "owner", data)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Backwards") {
		t.Fatalf("expected error to name the block, got %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 block before failure, got %d", count)
	}
}

func TestImportBlocksRejectsBadTemplates(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "blocks: []\n", apperr.ErrEmptySource},
		{"bad yaml", "blocks: [\n", apperr.ErrValidation},
		{"bad day", "blocks:\n  - title: x\n    day: someday\n    start: \"09:00\"\n    end: \"10:00\"\n", apperr.ErrValidation},
	}

	store := newBlockStore(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importBlocks(context.Background(), store, "owner", []byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestExportBlocksRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newBlockStore(t)

	_, err := store.Create(ctx, "owner", block.NewTimeBlock{
		Title: "Gym", DayOfWeek: 5, StartTime: "18:00", EndTime: "19:00", Category: block.CategoryExercise,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	blocks, err := store.List(ctx, "owner")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	data, err := exportBlocks(blocks)
	if err != nil {
		t.Fatalf("exportBlocks failed: %v", err)
	}
	if !strings.Contains(string(data), "day: friday") {
		t.Fatalf("expected weekday name in export, got:\n%s", data)
	}
	if strings.Contains(string(data), "color:") {
		t.Fatalf("expected default color to be omitted, got:\n%s", data)
	}

	other := newBlockStore(t)
	count, err := importBlocks(ctx, other, "owner", data)
	if err != nil || count != 1 {
		t.Fatalf("re-import: count=%d err=%v", count, err)
	}
}
