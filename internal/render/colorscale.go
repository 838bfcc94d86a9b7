package render

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/geoview/internal/grid"
)

// colorRange returns the minimum and maximum of the finite unmasked
// values in g. An all-missing slice yields grid.ErrEmptySlice.
func colorRange(g *grid.Grid2D) (float64, float64, error) {
	vals := g.Finite(nil)
	if len(vals) == 0 {
		return 0, 0, grid.ErrEmptySlice
	}
	return floats.Min(vals), floats.Max(vals), nil
}
