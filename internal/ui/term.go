package ui

import (
	"os"
	"strconv"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/timegrid/internal/block"
)

// Terminal palette for the plain-text views. color.NoColor is checked on
// every call, so --no-color and non-tty output still apply.
var (
	formatTask   = color.New(color.FgCyan, color.Bold).SprintFunc()
	formatNow    = color.New(color.FgRed, color.Bold).SprintFunc()
	formatWarn   = color.New(color.FgYellow).SprintFunc()
	formatHeader = color.New(color.Bold).SprintFunc()
	formatStats  = color.New(color.FgGreen).SprintFunc()
	formatMuted  = color.New(color.FgWhite, color.Faint).SprintFunc()
)

// categoryInk is the closest 16-color match for each block category.
var categoryInk = map[block.Category]color.Attribute{
	block.CategoryWork:      color.FgBlue,
	block.CategoryPersonal:  color.FgMagenta,
	block.CategoryMeeting:   color.FgYellow,
	block.CategoryBreak:     color.FgGreen,
	block.CategoryFamily:    color.FgHiMagenta,
	block.CategorySiteVisit: color.FgHiYellow,
	block.CategoryChurch:    color.FgHiBlue,
	block.CategoryRest:      color.FgHiBlack,
	block.CategoryExercise:  color.FgRed,
}

func formatCategory(c block.Category, s string) string {
	ink, ok := categoryInk[c]
	if !ok {
		return s
	}
	return color.New(ink).Sprint(s)
}

// termWidth is the stdout width, then $COLUMNS, then 80.
func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		return w
	}
	return 80
}

func disableColor() {
	color.NoColor = true
}
