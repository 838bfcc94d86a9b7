package axes

import (
	"errors"
	"testing"

	"github.com/san-kum/geoview/internal/grid"
)

func latLonVar() grid.VariableDescriptor {
	return grid.VariableDescriptor{
		Name: "sst",
		Dims: []grid.DimensionDescriptor{
			{Name: "lat", Size: 30},
			{Name: "lon", Size: 60},
		},
	}
}

func timeLatLonVar() grid.VariableDescriptor {
	return grid.VariableDescriptor{
		Name: "temp",
		Dims: []grid.DimensionDescriptor{
			{Name: "time", Size: 10},
			{Name: "lat", Size: 50},
			{Name: "lon", Size: 80},
		},
	}
}

func TestResolve_TwoDims(t *testing.T) {
	m, amb, err := Resolve(latLonVar())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if amb != nil {
		t.Fatal("2-D variable must never be ambiguous")
	}
	// Last-declared dimension is X, second-to-last Y.
	if m.Roles[1] != RoleX || m.Roles[0] != RoleY {
		t.Errorf("roles = [%v %v], want [Y X]", m.Roles[0], m.Roles[1])
	}
	if err := m.Validate(); err != nil {
		t.Errorf("auto mapping failed validation: %v", err)
	}
	if _, _, ok := m.NavDim(); ok {
		t.Error("2-D mapping must have no navigation dimension")
	}
}

func TestResolve_HigherDims(t *testing.T) {
	_, amb, err := Resolve(timeLatLonVar())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if amb == nil {
		t.Fatal("expected AmbiguityRequest for 3-D variable")
	}
	if amb.SuggestedX != 2 || amb.SuggestedY != 1 {
		t.Errorf("suggested (x,y) = (%d,%d), want (2,1)", amb.SuggestedX, amb.SuggestedY)
	}
}

func TestResolve_TooFewDims(t *testing.T) {
	v := grid.VariableDescriptor{Name: "t", Dims: []grid.DimensionDescriptor{{Name: "time", Size: 4}}}
	_, _, err := Resolve(v)
	if !errors.Is(err, grid.ErrInvalidMapping) {
		t.Errorf("err = %v, want ErrInvalidMapping", err)
	}
}

func TestGuessXY(t *testing.T) {
	tests := []struct {
		name string
		dims []string
		x, y int
	}{
		{"standard", []string{"time", "lat", "lon"}, 2, 1},
		{"long names", []string{"latitude", "longitude"}, 1, 0},
		{"projected", []string{"y", "x"}, 1, 0},
		{"no match", []string{"a", "b", "c"}, -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dims := make([]grid.DimensionDescriptor, len(tt.dims))
			for i, n := range tt.dims {
				dims[i] = grid.DimensionDescriptor{Name: n, Size: 2}
			}
			x, y := GuessXY(dims)
			if x != tt.x || y != tt.y {
				t.Errorf("GuessXY = (%d,%d), want (%d,%d)", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	v := timeLatLonVar()
	tests := []struct {
		name  string
		roles []Role
		fixed []int
		want  error
	}{
		{"valid with nav", []Role{RoleNav, RoleY, RoleX}, []int{0, 0, 0}, nil},
		{"valid with fixed", []Role{RoleFixed, RoleY, RoleX}, []int{3, 0, 0}, nil},
		{"missing x", []Role{RoleNav, RoleY, RoleFixed}, []int{0, 0, 0}, grid.ErrInvalidMapping},
		{"two x", []Role{RoleX, RoleY, RoleX}, []int{0, 0, 0}, grid.ErrInvalidMapping},
		{"missing y", []Role{RoleFixed, RoleFixed, RoleX}, []int{0, 0, 0}, grid.ErrInvalidMapping},
		{"two nav", []Role{RoleNav, RoleNav, RoleX}, []int{0, 0, 0}, grid.ErrInvalidMapping},
		{"short roles", []Role{RoleY, RoleX}, []int{0, 0}, grid.ErrInvalidMapping},
		{"fixed out of range", []Role{RoleFixed, RoleY, RoleX}, []int{10, 0, 0}, grid.ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := RoleMapping{Var: v, Roles: tt.roles, Fixed: tt.fixed}
			err := m.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
