// Package cmap provides the color ramps used to paint grid values in
// the terminal.
package cmap

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Map is a named sequence of color stops interpolated in Lab space.
type Map struct {
	name  string
	stops []colorful.Color
}

var missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// ramps are anchor colors for the built-in maps.
var ramps = map[string][]string{
	"viridis": {"#440154", "#414487", "#2a788e", "#22a884", "#7ad151", "#fde725"},
	"plasma":  {"#0d0887", "#6a00a8", "#b12a90", "#e16462", "#fca636", "#f0f921"},
	"gray":    {"#000000", "#ffffff"},
}

// Default is the colormap used when the config names none.
const Default = "viridis"

// Get returns the named colormap.
func Get(name string) (Map, error) {
	hexes, ok := ramps[name]
	if !ok {
		return Map{}, fmt.Errorf("cmap: unknown colormap %q (have %s)", name, strings.Join(Names(), ", "))
	}
	m := Map{name: name, stops: make([]colorful.Color, len(hexes))}
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Map{}, fmt.Errorf("cmap: bad ramp color %q: %w", h, err)
		}
		m.stops[i] = c
	}
	return m, nil
}

// Names lists the available colormaps in sorted order.
func Names() []string {
	names := make([]string, 0, len(ramps))
	for n := range ramps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Name returns the colormap's name.
func (m Map) Name() string { return m.name }

// At returns the ramp color at position t in [0, 1], blending adjacent
// stops in Lab space. Out-of-range t is clamped.
func (m Map) At(t float64) colorful.Color {
	if math.IsNaN(t) || t <= 0 {
		return m.stops[0]
	}
	if t >= 1 {
		return m.stops[len(m.stops)-1]
	}
	pos := t * float64(len(m.stops)-1)
	i := int(pos)
	return m.stops[i].BlendLab(m.stops[i+1], pos-float64(i)).Clamped()
}

// Cell returns a terminal cell (two spaces, background-colored) for
// value v scaled into [min, max].
func (m Map) Cell(v, min, max float64) string {
	t := 0.5
	if max > min {
		t = (v - min) / (max - min)
	}
	c := m.At(t)
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("  ")
}

// MissingCell returns the cell drawn for masked values.
func (m Map) MissingCell() string { return missingStyle.Render(" ·") }

// Colorbar renders a horizontal legend of the given width (in cells)
// with the range endpoints printed beneath it.
func (m Map) Colorbar(width int, min, max float64) string {
	if width < 2 {
		width = 2
	}
	var bar strings.Builder
	for i := 0; i < width; i++ {
		c := m.At(float64(i) / float64(width-1))
		bar.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(" "))
	}
	lo := fmt.Sprintf("%.4g", min)
	hi := fmt.Sprintf("%.4g", max)
	pad := width - len(lo) - len(hi)
	if pad < 1 {
		pad = 1
	}
	return bar.String() + "\n" + lo + strings.Repeat(" ", pad) + hi
}
