// Package axes maps the dimensions of an N-dimensional variable onto
// plotting roles and builds the index tuples needed to pull 2-D slices
// out of it.
package axes

import (
	"fmt"
	"strings"

	"github.com/san-kum/geoview/internal/grid"
)

// Role is the plotting role assigned to one dimension.
type Role uint8

const (
	// RoleFixed holds the dimension at a constant index.
	RoleFixed Role = iota
	// RoleX plots the dimension on the horizontal axis.
	RoleX
	// RoleY plots the dimension on the vertical axis.
	RoleY
	// RoleNav steps through the dimension with the navigation controls.
	RoleNav
)

func (r Role) String() string {
	switch r {
	case RoleX:
		return "X"
	case RoleY:
		return "Y"
	case RoleNav:
		return "NAV"
	default:
		return "FIXED"
	}
}

// RoleMapping assigns exactly one role to each dimension of a
// variable. Roles and Fixed are parallel to Var.Dims; Fixed holds the
// constant index used for each RoleFixed dimension (ignored for other
// roles).
type RoleMapping struct {
	Var   grid.VariableDescriptor
	Roles []Role
	Fixed []int
}

// AmbiguityRequest signals that a variable has more than two
// dimensions and the caller must supply a complete RoleMapping.
// SuggestedX and SuggestedY are dimension positions guessed from
// conventional names, or -1 when no guess was possible.
type AmbiguityRequest struct {
	Var        grid.VariableDescriptor
	SuggestedX int
	SuggestedY int
}

// Resolve determines axis roles for v. Variables with exactly two
// dimensions are mapped automatically: the last-declared dimension
// becomes X and the second-to-last Y, matching the usual row-major
// (lat, lon) layout, with no navigation dimension. Variables with more
// dimensions produce an AmbiguityRequest for the caller's UI to
// complete.
func Resolve(v grid.VariableDescriptor) (RoleMapping, *AmbiguityRequest, error) {
	n := v.NDim()
	if n < 2 {
		return RoleMapping{}, nil, fmt.Errorf("%w: variable %s has %d dimension(s), need at least 2",
			grid.ErrInvalidMapping, v.Name, n)
	}
	if n == 2 {
		m := RoleMapping{
			Var:   v,
			Roles: []Role{RoleY, RoleX},
			Fixed: make([]int, 2),
		}
		return m, nil, nil
	}
	x, y := GuessXY(v.Dims)
	return RoleMapping{}, &AmbiguityRequest{Var: v, SuggestedX: x, SuggestedY: y}, nil
}

// GuessXY proposes X and Y dimension positions by name convention:
// lon/longitude/x for X and lat/latitude/y for Y. A position of -1
// means no dimension matched.
func GuessXY(dims []grid.DimensionDescriptor) (x, y int) {
	x, y = -1, -1
	for i, d := range dims {
		name := strings.ToLower(d.Name)
		switch {
		case x < 0 && (strings.Contains(name, "lon") || name == "x"):
			x = i
		case y < 0 && (strings.Contains(name, "lat") || name == "y"):
			y = i
		}
	}
	return x, y
}

// Validate checks the RoleMapping invariants: exactly one X and one Y
// on different dimensions, at most one NAV, every dimension assigned,
// and every fixed index within its dimension's bounds.
func (m RoleMapping) Validate() error {
	n := m.Var.NDim()
	if len(m.Roles) != n || len(m.Fixed) != n {
		return fmt.Errorf("%w: %d roles and %d fixed indices for %d dimensions",
			grid.ErrInvalidMapping, len(m.Roles), len(m.Fixed), n)
	}
	var nx, ny, nnav int
	for i, r := range m.Roles {
		switch r {
		case RoleX:
			nx++
		case RoleY:
			ny++
		case RoleNav:
			nnav++
		case RoleFixed:
			if m.Fixed[i] < 0 || m.Fixed[i] >= m.Var.Dims[i].Size {
				return fmt.Errorf("%w: fixed index %d for dimension %s (size %d)",
					grid.ErrIndexOutOfRange, m.Fixed[i], m.Var.Dims[i].Name, m.Var.Dims[i].Size)
			}
		}
	}
	if nx != 1 || ny != 1 {
		return fmt.Errorf("%w: need exactly one X and one Y dimension (got %d X, %d Y)",
			grid.ErrInvalidMapping, nx, ny)
	}
	if nnav > 1 {
		return fmt.Errorf("%w: at most one navigation dimension (got %d)",
			grid.ErrInvalidMapping, nnav)
	}
	return nil
}

// dimWithRole returns the position of the first dimension holding
// role, or -1.
func (m RoleMapping) dimWithRole(role Role) int {
	for i, r := range m.Roles {
		if r == role {
			return i
		}
	}
	return -1
}

// XPos returns the position of the X dimension, or -1 if unset.
func (m RoleMapping) XPos() int { return m.dimWithRole(RoleX) }

// YPos returns the position of the Y dimension, or -1 if unset.
func (m RoleMapping) YPos() int { return m.dimWithRole(RoleY) }

// NavDim returns the navigation dimension and its position, if one is
// set.
func (m RoleMapping) NavDim() (grid.DimensionDescriptor, int, bool) {
	if i := m.dimWithRole(RoleNav); i >= 0 {
		return m.Var.Dims[i], i, true
	}
	return grid.DimensionDescriptor{}, -1, false
}
