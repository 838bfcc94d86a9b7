// Package render coordinates one visualization session: it resolves
// axis roles, maintains navigation state, fetches 2-D slices, keeps
// the color scale stable while stepping, and publishes frames to a
// sink. All domain errors are recovered at this boundary; a failed
// render leaves the previously published frame in place.
package render

import (
	"github.com/san-kum/geoview/internal/axes"
	"github.com/san-kum/geoview/internal/grid"
)

// Frame is everything a sink needs to draw one map view.
type Frame struct {
	Var        grid.VariableDescriptor
	XDim, YDim grid.DimensionDescriptor
	Grid       *grid.Grid2D
	Min, Max   float64
	Coastlines bool
	Gridlines  bool
	// NavLabel is "<dim>: <index+1>/<size>", empty with no navigation
	// dimension.
	NavLabel string
	// FixedLabel lists the held dimensions, e.g. "level=2".
	FixedLabel string
	// Empty marks the explicit no-data state (all values missing).
	Empty bool
}

// DataSource delivers 2-D slices for slice requests.
type DataSource interface {
	FetchSlice(req axes.SliceRequest) (*grid.Grid2D, error)
}

// Prompt supplies axis roles when a variable's dimensionality makes
// them ambiguous. Implementations return grid.ErrCancelled when the
// user backs out.
type Prompt interface {
	AskAxisRoles(req *axes.AmbiguityRequest) (axes.RoleMapping, error)
}

// Sink receives rendered frames.
type Sink interface {
	Publish(f Frame)
}
