package nav

import (
	"errors"
	"testing"

	"github.com/san-kum/geoview/internal/axes"
	"github.com/san-kum/geoview/internal/grid"
)

func mappingWithNav() axes.RoleMapping {
	return axes.RoleMapping{
		Var: grid.VariableDescriptor{
			Name: "temp",
			Dims: []grid.DimensionDescriptor{
				{Name: "time", Size: 10},
				{Name: "lat", Size: 50},
				{Name: "lon", Size: 80},
			},
		},
		Roles: []axes.Role{axes.RoleNav, axes.RoleY, axes.RoleX},
		Fixed: []int{0, 0, 0},
	}
}

func mappingWithoutNav() axes.RoleMapping {
	return axes.RoleMapping{
		Var: grid.VariableDescriptor{
			Name: "sst",
			Dims: []grid.DimensionDescriptor{
				{Name: "lat", Size: 30},
				{Name: "lon", Size: 60},
			},
		},
		Roles: []axes.Role{axes.RoleY, axes.RoleX},
		Fixed: []int{0, 0},
	}
}

func TestStepper_InitialState(t *testing.T) {
	var s Stepper
	if s.Navigable() {
		t.Error("zero stepper must not be navigable")
	}
	if _, err := s.Step(1); !errors.Is(err, grid.ErrNotNavigable) {
		t.Errorf("Step on zero stepper: err = %v, want ErrNotNavigable", err)
	}
	if s.Label() != "" {
		t.Errorf("Label() = %q, want empty", s.Label())
	}
}

func TestStepper_SetMapping(t *testing.T) {
	var s Stepper
	s.SetMapping(mappingWithNav())
	if !s.Navigable() || s.Index() != 0 || s.Size() != 10 {
		t.Errorf("after SetMapping: navigable=%v index=%d size=%d, want true 0 10",
			s.Navigable(), s.Index(), s.Size())
	}

	// A mapping without a navigation dimension resets to NoNavigation.
	s.SetMapping(mappingWithoutNav())
	if s.Navigable() {
		t.Error("mapping without NAV must reset to non-navigable")
	}
	if _, err := s.Step(1); !errors.Is(err, grid.ErrNotNavigable) {
		t.Errorf("Step: err = %v, want ErrNotNavigable", err)
	}
}

func TestStepper_StepClamps(t *testing.T) {
	var s Stepper
	s.SetMapping(mappingWithNav())

	// Backward at 0 stays at 0 and reports no movement.
	moved, err := s.Step(-1)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if moved || s.Index() != 0 {
		t.Errorf("step(-1) at 0: moved=%v index=%d, want false 0", moved, s.Index())
	}

	// Three forward steps land on 1, 2, 3.
	for want := 1; want <= 3; want++ {
		moved, err := s.Step(1)
		if err != nil || !moved {
			t.Fatalf("step(+1): moved=%v err=%v", moved, err)
		}
		if s.Index() != want {
			t.Errorf("index = %d, want %d", s.Index(), want)
		}
	}

	// Jump to the end, then a forward step clamps there.
	if err := s.Jump(9); err != nil {
		t.Fatalf("Jump: %v", err)
	}
	moved, err = s.Step(1)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if moved || s.Index() != 9 {
		t.Errorf("step(+1) at end: moved=%v index=%d, want false 9", moved, s.Index())
	}
}

func TestStepper_Jump(t *testing.T) {
	var s Stepper
	s.SetMapping(mappingWithNav())

	if err := s.Jump(4); err != nil || s.Index() != 4 {
		t.Errorf("Jump(4): err=%v index=%d", err, s.Index())
	}
	for _, target := range []int{-1, 10, 100} {
		if err := s.Jump(target); !errors.Is(err, grid.ErrIndexOutOfRange) {
			t.Errorf("Jump(%d): err = %v, want ErrIndexOutOfRange", target, err)
		}
	}
	// Failed jumps leave the index untouched.
	if s.Index() != 4 {
		t.Errorf("index after failed jumps = %d, want 4", s.Index())
	}
}

func TestStepper_Label(t *testing.T) {
	var s Stepper
	s.SetMapping(mappingWithNav())
	if got := s.Label(); got != "time: 1/10" {
		t.Errorf("Label() = %q, want %q", got, "time: 1/10")
	}
	s.Jump(9)
	if got := s.Label(); got != "time: 10/10" {
		t.Errorf("Label() = %q, want %q", got, "time: 10/10")
	}
}
