package grid

import (
	"math"
	"testing"
)

func TestDimensionDescriptor_Coord(t *testing.T) {
	withCoords := DimensionDescriptor{Name: "lat", Size: 3, Coords: []float64{-30, 0, 30}}
	if got := withCoords.Coord(2); got != 30 {
		t.Errorf("Coord(2) = %v, want 30", got)
	}
	if !withCoords.HasCoords() {
		t.Error("expected HasCoords")
	}

	noCoords := DimensionDescriptor{Name: "level", Size: 5}
	if got := noCoords.Coord(4); got != 4 {
		t.Errorf("Coord(4) = %v, want index fallback 4", got)
	}
	if noCoords.HasCoords() {
		t.Error("expected no coords")
	}
}

func TestVariableDescriptor_Shape(t *testing.T) {
	v := VariableDescriptor{
		Name: "temp",
		Dims: []DimensionDescriptor{
			{Name: "time", Size: 10},
			{Name: "lat", Size: 50},
			{Name: "lon", Size: 80},
		},
	}
	shape := v.Shape()
	if len(shape) != 3 || shape[0] != 10 || shape[1] != 50 || shape[2] != 80 {
		t.Errorf("Shape() = %v, want [10 50 80]", shape)
	}
	if v.NDim() != 3 {
		t.Errorf("NDim() = %d, want 3", v.NDim())
	}
}

func TestGrid2D_Missing(t *testing.T) {
	g := NewGrid2D(2, 3)
	g.Set(0, 0, 1.5)
	g.Set(0, 1, math.NaN())
	g.Set(0, 2, math.Inf(1))
	g.SetMissing(1, 0)

	tests := []struct {
		y, x    int
		missing bool
	}{
		{0, 0, false},
		{0, 1, true},  // NaN
		{0, 2, true},  // Inf
		{1, 0, true},  // masked
		{1, 1, false}, // zero value, valid
	}
	for _, tt := range tests {
		if got := g.Missing(tt.y, tt.x); got != tt.missing {
			t.Errorf("Missing(%d,%d) = %v, want %v", tt.y, tt.x, got, tt.missing)
		}
	}
}

func TestGrid2D_Finite(t *testing.T) {
	g := NewGrid2D(1, 4)
	g.Set(0, 0, 2)
	g.Set(0, 1, math.NaN())
	g.Set(0, 2, -7)
	g.SetMissing(0, 3)

	vals := g.Finite(nil)
	if len(vals) != 2 {
		t.Fatalf("Finite returned %d values, want 2", len(vals))
	}
	if vals[0] != 2 || vals[1] != -7 {
		t.Errorf("Finite = %v", vals)
	}
}

func TestGrid2D_Transpose(t *testing.T) {
	g := NewGrid2D(2, 3)
	v := 0.0
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			g.Set(y, x, v)
			v++
		}
	}
	g.SetMissing(1, 2)

	tr := g.Transpose()
	if tr.NY != 3 || tr.NX != 2 {
		t.Fatalf("Transpose shape = (%d,%d), want (3,2)", tr.NY, tr.NX)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if tr.At(x, y) != g.At(y, x) {
				t.Errorf("Transpose mismatch at (%d,%d)", y, x)
			}
		}
	}
	if !tr.Missing(2, 1) {
		t.Error("mask not transposed")
	}
}
