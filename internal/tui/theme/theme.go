// Package theme loads the embedded color schemes used by the calendar TUI.
package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/timegrid/internal/apperr"
)

//go:embed embedded/*.toml
var schemes embed.FS

// DefaultName is the scheme used when none is configured or the configured
// one does not exist.
const DefaultName = "frappe"

// Theme is a named scheme as stored on disk. Every color is #rrggbb.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`
	BgHighlight string `toml:"bg_highlight"`
	BgSelection string `toml:"bg_selection"`
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"`
	Accent      string `toml:"accent"`
	Task        string `toml:"task"`
	Backlog     string `toml:"backlog"`
	Marker      string `toml:"marker"`
	Warning     string `toml:"warning"`
}

// Load returns the scheme called name. Unknown names resolve to DefaultName.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !IsAvailable(name) {
		name = DefaultName
	}

	data, err := schemes.ReadFile(path.Join("embedded", name+".toml"))
	if err != nil {
		return nil, fmt.Errorf("reading theme %q: %w", name, err)
	}
	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Theme) colors() map[string]string {
	return map[string]string{
		"bg":           t.Bg,
		"bg_highlight": t.BgHighlight,
		"bg_selection": t.BgSelection,
		"fg":           t.Fg,
		"fg_muted":     t.FgMuted,
		"accent":       t.Accent,
		"task":         t.Task,
		"backlog":      t.Backlog,
		"marker":       t.Marker,
		"warning":      t.Warning,
	}
}

func (t *Theme) validate() error {
	for key, hex := range t.colors() {
		if _, ok := parseRGB(hex); !ok {
			return fmt.Errorf("%w: theme %q: %s = %q is not #rrggbb", apperr.ErrValidation, t.Name, key, hex)
		}
	}
	return nil
}

// Available lists the embedded scheme names in alphabetical order.
func Available() []string {
	files, _ := fs.Glob(schemes, "embedded/*.toml")
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(path.Base(f), ".toml"))
	}
	slices.Sort(names)
	return names
}

// IsAvailable reports whether name (case-insensitive) is an embedded scheme.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
