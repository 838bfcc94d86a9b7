package axes

import (
	"fmt"

	"github.com/san-kum/geoview/internal/grid"
)

// FullRange marks a dimension that is read in full (a plot axis)
// rather than held at a single index.
const FullRange = -1

// SliceRequest is the index tuple describing one 2-D slice of a
// variable: one entry per declared dimension, FullRange for the plot
// axes and a concrete index everywhere else. XPos and YPos record
// which tuple positions are the plot axes so data sources can orient
// the slice. Values of this type are immutable once built and safe to
// hand across goroutines.
type SliceRequest struct {
	Var   string
	Index []int
	XPos  int
	YPos  int
}

// BuildIndex computes the SliceRequest for m at the given navigation
// index. It is deterministic: identical inputs always produce
// identical requests. navIndex is ignored when the mapping has no
// navigation dimension.
func BuildIndex(m RoleMapping, navIndex int) (SliceRequest, error) {
	if err := m.Validate(); err != nil {
		return SliceRequest{}, err
	}
	if nav, _, ok := m.NavDim(); ok {
		if navIndex < 0 || navIndex >= nav.Size {
			return SliceRequest{}, fmt.Errorf("%w: navigation index %d for dimension %s (size %d)",
				grid.ErrIndexOutOfRange, navIndex, nav.Name, nav.Size)
		}
	}
	req := SliceRequest{
		Var:   m.Var.Name,
		Index: make([]int, m.Var.NDim()),
		XPos:  m.XPos(),
		YPos:  m.YPos(),
	}
	for i, r := range m.Roles {
		switch r {
		case RoleX, RoleY:
			req.Index[i] = FullRange
		case RoleNav:
			req.Index[i] = navIndex
		default:
			req.Index[i] = m.Fixed[i]
		}
	}
	return req, nil
}
