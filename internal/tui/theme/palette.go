package theme

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of lipgloss colors the TUI paints with. Shades for
// tasks, blocks and the drag preview are derived from the scheme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Task        lipgloss.Color
	Backlog     lipgloss.Color
	Marker      lipgloss.Color
	Warning     lipgloss.Color

	TaskBg     lipgloss.Color
	TaskBgAlt  lipgloss.Color // overlapping tasks in the same slot
	TaskPastBg lipgloss.Color
	PreviewBg  lipgloss.Color

	TextOnAccent  lipgloss.Color
	TextOnWarning lipgloss.Color
	TextOnMarker  lipgloss.Color
	TextOnTask    lipgloss.Color

	Modal ModalColors

	light  bool
	bg, fg rgb
}

// ModalColors paints prompts and the suggestion dialog.
type ModalColors struct {
	Bg     lipgloss.Color
	Border lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
}

// NewPalette derives a Palette from t, or from DefaultName when t is nil.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}
	bg := mustRGB(t.Bg)
	fg := mustRGB(t.Fg)
	light := bg.luminance() > 0.55

	task := mustRGB(t.Task)
	taskBg := task.solid(bg, light)

	p := &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Task:        lipgloss.Color(t.Task),
		Backlog:     lipgloss.Color(t.Backlog),
		Marker:      lipgloss.Color(t.Marker),
		Warning:     lipgloss.Color(t.Warning),

		TaskBg:     taskBg.color(),
		TaskBgAlt:  taskBg.alternate(light).color(),
		TaskPastBg: task.faded(bg, light).color(),
		PreviewBg:  mustRGB(t.Warning).solid(bg, light).color(),

		Modal: ModalColors{
			Bg:     lipgloss.Color(t.BgHighlight),
			Border: lipgloss.Color(t.Accent),
			Text:   lipgloss.Color(t.Fg),
			Muted:  lipgloss.Color(t.FgMuted),
		},

		light: light,
		bg:    bg,
		fg:    fg,
	}
	p.TextOnAccent = p.TextOn(p.Accent)
	p.TextOnWarning = p.TextOn(p.Warning)
	p.TextOnMarker = p.TextOn(p.Marker)
	p.TextOnTask = p.TextOn(p.TaskBg)
	return p
}

// BlockBg is the background of a time block painted in hex. Blocks sit
// behind tasks so they use the faded shade.
func (p *Palette) BlockBg(hex string) lipgloss.Color {
	c, ok := parseRGB(hex)
	if !ok {
		return p.BgHighlight
	}
	return c.faded(p.bg, p.light).color()
}

// TextOn picks whichever of the scheme's bg and fg reads better on bg.
func (p *Palette) TextOn(bg lipgloss.Color) lipgloss.Color {
	c, ok := parseRGB(string(bg))
	if !ok {
		return p.Fg
	}
	if c.contrast(p.bg) >= c.contrast(p.fg) {
		return p.bg.color()
	}
	return p.fg.color()
}

type rgb struct{ r, g, b float64 }

func parseRGB(hex string) (rgb, bool) {
	var r, g, b uint8
	if len(hex) != 7 {
		return rgb{}, false
	}
	if n, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil || n != 3 {
		return rgb{}, false
	}
	return rgb{float64(r), float64(g), float64(b)}, true
}

// mustRGB parses a color already checked by Theme.validate.
func mustRGB(hex string) rgb {
	c, _ := parseRGB(hex)
	return c
}

func (c rgb) String() string {
	clamp := func(v float64) uint8 { return uint8(math.Max(0, math.Min(255, v))) }
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.r), clamp(c.g), clamp(c.b))
}

func (c rgb) color() lipgloss.Color { return lipgloss.Color(c.String()) }

// mix moves c toward o by t in [0,1].
func (c rgb) mix(o rgb, t float64) rgb {
	t = math.Max(0, math.Min(1, t))
	return rgb{c.r + (o.r-c.r)*t, c.g + (o.g-c.g)*t, c.b + (o.b-c.b)*t}
}

// dim scales c by f and keeps every channel at or above floor.
func (c rgb) dim(f, floor float64) rgb {
	return rgb{math.Max(floor, math.Floor(c.r*f)), math.Max(floor, math.Floor(c.g*f)), math.Max(floor, math.Floor(c.b*f))}
}

func (c rgb) solid(bg rgb, light bool) rgb {
	if light {
		return c.mix(bg, 0.75)
	}
	return c.dim(0.5, 40)
}

func (c rgb) faded(bg rgb, light bool) rgb {
	if light {
		return c.mix(bg, 0.88)
	}
	return c.dim(0.3, 30)
}

func (c rgb) alternate(light bool) rgb {
	if light {
		return c.mix(rgb{}, 0.10)
	}
	return c.mix(rgb{255, 255, 255}, 0.30)
}

func (c rgb) luminance() float64 {
	lin := func(v float64) float64 {
		v /= 255
		if v <= 0.04045 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.r) + 0.7152*lin(c.g) + 0.0722*lin(c.b)
}

func (c rgb) contrast(o rgb) float64 {
	hi, lo := c.luminance(), o.luminance()
	if hi < lo {
		hi, lo = lo, hi
	}
	return (hi + 0.05) / (lo + 0.05)
}
