package grid

import "math"

// Grid2D is a row-major 2-D array with a missing-value mask. Row index
// is the Y (vertical plot) axis, column index the X axis. Mask[i] true
// means Values[i] is missing and must not enter color-range or value
// computations.
type Grid2D struct {
	Values []float64
	Mask   []bool
	NY, NX int
}

// NewGrid2D allocates an all-valid grid of the given shape.
func NewGrid2D(ny, nx int) *Grid2D {
	return &Grid2D{
		Values: make([]float64, ny*nx),
		Mask:   make([]bool, ny*nx),
		NY:     ny,
		NX:     nx,
	}
}

// At returns the value at row y, column x.
func (g *Grid2D) At(y, x int) float64 { return g.Values[y*g.NX+x] }

// Set stores v at row y, column x and clears its mask bit.
func (g *Grid2D) Set(y, x int, v float64) {
	i := y*g.NX + x
	g.Values[i] = v
	g.Mask[i] = false
}

// SetMissing marks the cell at row y, column x as missing.
func (g *Grid2D) SetMissing(y, x int) { g.Mask[y*g.NX+x] = true }

// Missing reports whether the cell at row y, column x holds no usable
// value, either because it is masked or because it is not finite.
func (g *Grid2D) Missing(y, x int) bool {
	i := y*g.NX + x
	return g.Mask[i] || math.IsNaN(g.Values[i]) || math.IsInf(g.Values[i], 0)
}

// Finite appends all finite unmasked values to dst and returns it.
func (g *Grid2D) Finite(dst []float64) []float64 {
	for i, v := range g.Values {
		if g.Mask[i] || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		dst = append(dst, v)
	}
	return dst
}

// Transpose returns a new grid with rows and columns exchanged.
func (g *Grid2D) Transpose() *Grid2D {
	t := NewGrid2D(g.NX, g.NY)
	for y := 0; y < g.NY; y++ {
		for x := 0; x < g.NX; x++ {
			i := y*g.NX + x
			t.Values[x*t.NX+y] = g.Values[i]
			t.Mask[x*t.NX+y] = g.Mask[i]
		}
	}
	return t
}
