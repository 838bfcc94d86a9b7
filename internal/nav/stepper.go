// Package nav holds the navigation-axis state: which index of the
// navigation dimension is currently displayed, and the step/jump
// operations that move it.
package nav

import (
	"fmt"

	"github.com/san-kum/geoview/internal/axes"
	"github.com/san-kum/geoview/internal/grid"
)

// Stepper is the navigation state machine. It is either not navigable
// (the active mapping has no navigation dimension) or navigating with
// an index in [0, size). Steps clamp at the bounds rather than
// wrapping, so paging past the end of a time axis does not silently
// jump back to the start.
type Stepper struct {
	navigable bool
	dimName   string
	index     int
	size      int
}

// SetMapping resets the stepper for a new axis-role mapping. With a
// navigation dimension present the index starts at 0; otherwise the
// stepper becomes non-navigable.
func (s *Stepper) SetMapping(m axes.RoleMapping) {
	if dim, _, ok := m.NavDim(); ok {
		s.navigable = true
		s.dimName = dim.Name
		s.index = 0
		s.size = dim.Size
		return
	}
	*s = Stepper{}
}

// Navigable reports whether step/jump operations are currently valid.
func (s *Stepper) Navigable() bool { return s.navigable }

// Index returns the current navigation index. It is only meaningful
// when the stepper is navigable.
func (s *Stepper) Index() int { return s.index }

// Size returns the navigation dimension's size, or 0 when not
// navigating.
func (s *Stepper) Size() int { return s.size }

// Step moves the index by delta, clamping to [0, size). The returned
// bool reports whether the index actually changed, so callers can skip
// redraws at the boundaries.
func (s *Stepper) Step(delta int) (bool, error) {
	if !s.navigable {
		return false, grid.ErrNotNavigable
	}
	next := s.index + delta
	if next < 0 {
		next = 0
	}
	if next >= s.size {
		next = s.size - 1
	}
	moved := next != s.index
	s.index = next
	return moved, nil
}

// Jump sets the index directly after bounds-checking it.
func (s *Stepper) Jump(target int) error {
	if !s.navigable {
		return grid.ErrNotNavigable
	}
	if target < 0 || target >= s.size {
		return fmt.Errorf("%w: jump target %d for dimension %s (size %d)",
			grid.ErrIndexOutOfRange, target, s.dimName, s.size)
	}
	s.index = target
	return nil
}

// Label returns the navigation indicator in the form "time: 3/10", or
// the empty string when not navigating.
func (s *Stepper) Label() string {
	if !s.navigable {
		return ""
	}
	return fmt.Sprintf("%s: %d/%d", s.dimName, s.index+1, s.size)
}
