package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/geom"

	"github.com/san-kum/geoview/internal/axes"
	"github.com/san-kum/geoview/internal/render"
)

func (m model) View() string {
	switch m.state {
	case stateVars:
		return m.viewVars()
	case stateDialog:
		return m.viewDialog()
	case stateMeta:
		return m.viewMeta()
	case stateMap:
		return m.viewMap()
	case stateShape:
		return m.viewShape()
	}
	return ""
}

func (m model) viewVars() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("g e o v i e w") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")
	b.WriteString("      " + dim.Render(m.nc.Path()) + "\n\n")

	if len(m.vars) == 0 {
		b.WriteString("      " + yellow.Render("no plottable variables (need at least 2 dimensions)") + "\n")
	}
	for i, v := range m.vars {
		shape := make([]string, len(v.Dims))
		for j, d := range v.Dims {
			shape[j] = fmt.Sprintf("%s:%d", d.Name, d.Size)
		}
		desc := "(" + strings.Join(shape, ", ") + ")"
		if v.Units != "" {
			desc += "  " + v.Units
		}
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", v.Name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", v.Name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString("      " + red.Render(m.status) + "\n")
	}
	b.WriteString(dim.Render("      ↑↓ select   enter plot   m metadata   q quit") + "\n")
	return b.String()
}

func (m model) viewDialog() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.dlgVar.Name) + "  " + dim.Render("assign axis roles") + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 40)) + "\n\n")

	for i, d := range m.dlgVar.Dims {
		role := m.dlgRoles[i].String()
		if m.dlgRoles[i] == axes.RoleFixed {
			role = fmt.Sprintf("FIXED @ %d", m.dlgFixed[i])
		}
		line := fmt.Sprintf("%-14s %6d   ", d.Name, d.Size)
		if i == m.dlgCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(line) + magenta.Render(role) + "\n")
		} else {
			b.WriteString("        " + dim.Render(line) + dim.Render(role) + "\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString("      " + red.Render(m.status) + "\n")
	}
	b.WriteString(dim.Render("      ↑↓ select  ←→ role  +- fixed index  enter plot  esc back") + "\n")
	return b.String()
}

func (m model) viewMeta() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.nc.Path()) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 40)) + "\n\n")

	b.WriteString("      " + white.Render("dimensions") + "\n")
	for _, d := range m.nc.Dimensions() {
		note := ""
		if d.HasCoords() {
			note = fmt.Sprintf("  [%g .. %g]", d.Coords[0], d.Coords[len(d.Coords)-1])
		}
		b.WriteString(fmt.Sprintf("        %s%s%s\n",
			dim.Render(fmt.Sprintf("%-14s", d.Name)), white.Render(fmt.Sprintf("%6d", d.Size)), dimmer.Render(note)))
	}

	b.WriteString("\n      " + white.Render("global attributes") + "\n")
	for _, a := range m.nc.GlobalAttrs() {
		b.WriteString("        " + dim.Render(fmt.Sprintf("%-14s", a.Name)) + dimmer.Render(a.Value) + "\n")
	}

	if len(m.vars) > 0 {
		v := m.vars[m.cursor]
		b.WriteString("\n      " + white.Render(v.Name+" attributes") + "\n")
		for _, a := range m.nc.VarAttrs(v.Name) {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-14s", a.Name)) + dimmer.Render(a.Value) + "\n")
		}
	}

	b.WriteString("\n" + dim.Render("      esc back") + "\n")
	return b.String()
}

func (m model) viewMap() string {
	f := m.frame
	if f == nil {
		return "\n   " + dim.Render("rendering…") + "\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n   %s", cyan.Render(f.Var.Title())))
	if f.FixedLabel != "" {
		b.WriteString("   " + dim.Render(f.FixedLabel))
	}
	b.WriteString("\n")

	if f.NavLabel != "" {
		nav := "   " + yellow.Render(f.NavLabel) + dim.Render("   ←→ step  g jump")
		if m.jumping {
			nav += "   " + magenta.Render("jump to: "+m.jumpBuf+"▋")
		}
		if m.pending {
			nav += "   " + dimmer.Render("…")
		}
		b.WriteString(nav + "\n")
	}
	b.WriteString("\n")

	if f.Empty || f.Grid == nil || f.Grid.NY == 0 || f.Grid.NX == 0 {
		b.WriteString("   " + yellow.Render("no data in this slice") + "\n")
	} else {
		b.WriteString(m.drawHeatmap(f))
	}

	if m.status != "" {
		b.WriteString("\n   " + red.Render(m.status) + "\n")
	}
	b.WriteString("\n" + dim.Render("   o coastlines  i gridlines  t colormap  v variables  q quit") + "\n")
	return b.String()
}

// drawHeatmap samples the slice onto a character canvas, low Y at the
// bottom, and applies the coastline overlay and axis tick labels.
func (m model) drawHeatmap(f *render.Frame) string {
	g := f.Grid
	ch := m.height - 10
	cw := (m.width - 12) / 2
	if ch < 8 {
		ch = 8
	}
	if cw < 20 {
		cw = 20
	}
	if ch > g.NY {
		ch = g.NY
	}
	if cw > g.NX {
		cw = g.NX
	}

	coast := m.coastMask(f, cw, ch)

	margin := "   "
	if m.showGrid {
		margin = "         "
	}
	var b strings.Builder
	for r := 0; r < ch; r++ {
		gy := sampleIndex(ch-1-r, ch, g.NY)
		if m.showGrid {
			b.WriteString(dimmer.Render(fmt.Sprintf("%8s ", yTick(f, r, ch, gy))))
		} else {
			b.WriteString(margin)
		}
		for c := 0; c < cw; c++ {
			gx := sampleIndex(c, cw, g.NX)
			if coast != nil && coast[r][c] {
				b.WriteString(coastFg.Render("··"))
				continue
			}
			if g.Missing(gy, gx) {
				b.WriteString(m.colormap.MissingCell())
			} else {
				b.WriteString(m.colormap.Cell(g.At(gy, gx), f.Min, f.Max))
			}
		}
		b.WriteString("\n")
	}

	if m.showGrid {
		b.WriteString(margin + xTicks(f, cw) + "\n")
	}
	b.WriteString("\n" + margin + m.colormap.Colorbar(cw*2, f.Min, f.Max) + "\n")
	b.WriteString(margin + dim.Render(fmt.Sprintf("[%s × %s]", f.XDim.Name, f.YDim.Name)) + "\n")
	return b.String()
}

// coastMask rasterizes the coastline outlines onto the canvas when the
// overlay is on and both axes carry coordinate values.
func (m model) coastMask(f *render.Frame, cw, ch int) [][]bool {
	if !m.showCoast || m.coast == nil {
		return nil
	}
	if !f.XDim.HasCoords() || !f.YDim.HasCoords() {
		return nil
	}
	xmin, xmax := coordRange(f.XDim.Coords)
	ymin, ymax := coordRange(f.YDim.Coords)
	if xmax == xmin || ymax == ymin {
		return nil
	}

	mask := make([][]bool, ch)
	for i := range mask {
		mask[i] = make([]bool, cw)
	}
	toCell := func(p geom.Point) (int, int, bool) {
		cx := int((p.X - xmin) / (xmax - xmin) * float64(cw-1))
		// Row 0 is the top of the canvas; high Y draws there.
		cy := int((ymax - p.Y) / (ymax - ymin) * float64(ch-1))
		ok := cx >= 0 && cx < cw && cy >= 0 && cy < ch
		return cx, cy, ok
	}
	for _, path := range m.coast.Outlines {
		for i := 1; i < len(path); i++ {
			x1, y1, ok1 := toCell(path[i-1])
			x2, y2, ok2 := toCell(path[i])
			if !ok1 && !ok2 {
				continue
			}
			bresenham(x1, y1, x2, y2, func(x, y int) {
				if x >= 0 && x < cw && y >= 0 && y < ch {
					mask[y][x] = true
				}
			})
		}
	}
	return mask
}

func (m model) viewShape() string {
	s := m.shape
	var b strings.Builder

	b.WriteString("\n   " + cyan.Render(s.Path) + "\n")
	b.WriteString(fmt.Sprintf("   %s %d   %s %s   %s %s\n",
		dim.Render("features"), s.FeatureCount,
		dim.Render("types"), white.Render(strings.Join(s.GeomTypes, ", ")),
		dim.Render("crs"), white.Render(s.CRS)))
	b.WriteString(fmt.Sprintf("   %s (%.4g, %.4g) .. (%.4g, %.4g)\n\n",
		dim.Render("bounds"), s.Bounds.Min.X, s.Bounds.Min.Y, s.Bounds.Max.X, s.Bounds.Max.Y))

	ch := m.height - 10
	cw := m.width - 6
	if ch < 10 {
		ch = 10
	}
	if cw < 40 {
		cw = 40
	}
	canvas := make([][]rune, ch)
	for i := range canvas {
		canvas[i] = make([]rune, cw)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	w := s.Bounds.Max.X - s.Bounds.Min.X
	h := s.Bounds.Max.Y - s.Bounds.Min.Y
	if w > 0 && h > 0 {
		toCell := func(p geom.Point) (int, int) {
			cx := int((p.X - s.Bounds.Min.X) / w * float64(cw-1))
			cy := int((s.Bounds.Max.Y - p.Y) / h * float64(ch-1))
			return cx, cy
		}
		for _, path := range s.Outlines {
			for i := 1; i < len(path); i++ {
				x1, y1 := toCell(path[i-1])
				x2, y2 := toCell(path[i])
				bresenham(x1, y1, x2, y2, func(x, y int) {
					if x >= 0 && x < cw && y >= 0 && y < ch {
						canvas[y][x] = '·'
					}
				})
			}
		}
	}

	for _, row := range canvas {
		b.WriteString("   " + cyan.Render(string(row)) + "\n")
	}
	b.WriteString("\n" + dim.Render("   q quit") + "\n")
	return b.String()
}

// sampleIndex maps canvas position i of n onto a source axis of size.
func sampleIndex(i, n, size int) int {
	if n <= 1 {
		return 0
	}
	idx := i * (size - 1) / (n - 1)
	if idx >= size {
		idx = size - 1
	}
	return idx
}

func coordRange(coords []float64) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, c := range coords {
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return min, max
}

// yTick labels the top, middle, and bottom canvas rows with the Y
// coordinate (or index) they sample.
func yTick(f *render.Frame, r, ch, gy int) string {
	if r != 0 && r != ch/2 && r != ch-1 {
		return ""
	}
	return fmt.Sprintf("%.4g", f.YDim.Coord(gy))
}

// xTicks labels the left, middle, and right canvas columns.
func xTicks(f *render.Frame, cw int) string {
	left := fmt.Sprintf("%.4g", f.XDim.Coord(sampleIndex(0, cw, f.XDim.Size)))
	mid := fmt.Sprintf("%.4g", f.XDim.Coord(sampleIndex(cw/2, cw, f.XDim.Size)))
	right := fmt.Sprintf("%.4g", f.XDim.Coord(sampleIndex(cw-1, cw, f.XDim.Size)))
	width := cw * 2
	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}
	copyAt := func(s string, at int) {
		for i, c := range s {
			if at+i >= 0 && at+i < width {
				line[at+i] = c
			}
		}
	}
	copyAt(left, 0)
	copyAt(mid, width/2-len(mid)/2)
	copyAt(right, width-len(right))
	return dimmer.Render(string(line))
}

func bresenham(x1, y1, x2, y2 int, plot func(x, y int)) {
	dx := intAbs(x2 - x1)
	dy := intAbs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		plot(x1, y1)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
