package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/geoview/internal/cmap"
)

// TextSink writes frames as colored character maps, for the
// non-interactive render path. Grids larger than Width x Height cells
// are downsampled by nearest neighbor.
type TextSink struct {
	W      io.Writer
	Width  int
	Height int
	Map    cmap.Map
}

// Publish draws the frame to the sink's writer.
func (s *TextSink) Publish(f Frame) {
	title := f.Var.Title()
	if f.FixedLabel != "" {
		title += " (" + f.FixedLabel + ")"
	}
	fmt.Fprintln(s.W, title)
	if f.NavLabel != "" {
		fmt.Fprintln(s.W, f.NavLabel)
	}
	if f.Empty {
		fmt.Fprintln(s.W, "no data: every value in this slice is missing")
		return
	}

	ny, nx := s.cells(f)
	var b strings.Builder
	// Rows are written top-down; row 0 of the grid is the lowest Y
	// coordinate, so flip vertically.
	for cy := ny - 1; cy >= 0; cy-- {
		gy := cy * f.Grid.NY / ny
		for cx := 0; cx < nx; cx++ {
			gx := cx * f.Grid.NX / nx
			if f.Grid.Missing(gy, gx) {
				b.WriteString(s.Map.MissingCell())
			} else {
				b.WriteString(s.Map.Cell(f.Grid.At(gy, gx), f.Min, f.Max))
			}
		}
		b.WriteByte('\n')
	}
	io.WriteString(s.W, b.String())
	fmt.Fprintf(s.W, "%s  [%s x %s]\n", s.Map.Colorbar(2*nx, f.Min, f.Max), f.XDim.Name, f.YDim.Name)
}

// cells returns the drawing size in cells, capped at the grid shape.
func (s *TextSink) cells(f Frame) (ny, nx int) {
	ny, nx = s.Height, s.Width
	if ny <= 0 || ny > f.Grid.NY {
		ny = f.Grid.NY
	}
	if nx <= 0 || nx > f.Grid.NX {
		nx = f.Grid.NX
	}
	return ny, nx
}
