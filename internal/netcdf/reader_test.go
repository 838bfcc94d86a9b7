package netcdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"

	"github.com/san-kum/geoview/internal/axes"
	"github.com/san-kum/geoview/internal/grid"
)

const fillValue = -999.0

// writeFixture creates a small NetCDF file with a 3-D temp variable
// (time, lat, lon), coordinate variables for lat and lon, and one
// fill-valued cell at (time=0, lat=0, lon=1).
func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.nc")

	h := cdf.NewHeader([]string{"time", "lat", "lon"}, []int{3, 4, 5})
	h.AddVariable("temp", []string{"time", "lat", "lon"}, []float32{0})
	h.AddAttribute("temp", "units", "K")
	h.AddAttribute("temp", "long_name", "air temperature")
	h.AddAttribute("temp", "_FillValue", []float32{fillValue})
	h.AddVariable("swapped", []string{"lon", "lat"}, []float32{0})
	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddVariable("lon", []string{"lon"}, []float64{0})
	h.AddAttribute("", "title", "fixture dataset")
	h.Define()
	for _, err := range h.Check() {
		t.Fatalf("defining fixture header: %v", err)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cf, err := cdf.Create(f, h)
	if err != nil {
		t.Fatalf("creating fixture: %v", err)
	}

	temp := make([]float32, 3*4*5)
	for ti := 0; ti < 3; ti++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 5; x++ {
				temp[ti*20+y*5+x] = float32(ti*100 + y*10 + x)
			}
		}
	}
	temp[1] = fillValue // time=0, lat=0, lon=1
	w := cf.Writer("temp", []int{0, 0, 0}, []int{3, 4, 5})
	if _, err := w.Write(temp); err != nil {
		t.Fatalf("writing temp: %v", err)
	}

	swapped := make([]float32, 5*4)
	for x := 0; x < 5; x++ {
		for y := 0; y < 4; y++ {
			swapped[x*4+y] = float32(y*10 + x)
		}
	}
	w = cf.Writer("swapped", []int{0, 0}, []int{5, 4})
	if _, err := w.Write(swapped); err != nil {
		t.Fatalf("writing swapped: %v", err)
	}

	w = cf.Writer("lat", []int{0}, []int{4})
	if _, err := w.Write([]float64{-30, -10, 10, 30}); err != nil {
		t.Fatalf("writing lat: %v", err)
	}
	w = cf.Writer("lon", []int{0}, []int{5})
	if _, err := w.Write([]float64{0, 90, 180, 270, 359}); err != nil {
		t.Fatalf("writing lon: %v", err)
	}
	return path
}

func openFixture(t *testing.T) *File {
	t.Helper()
	nc, err := Open(writeFixture(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { nc.Close() })
	return nc
}

func tempVar(t *testing.T, nc *File) grid.VariableDescriptor {
	t.Helper()
	for _, v := range nc.Variables() {
		if v.Name == "temp" {
			return v
		}
	}
	t.Fatal("temp variable not found")
	return grid.VariableDescriptor{}
}

func TestVariables(t *testing.T) {
	nc := openFixture(t)
	vars := nc.Variables()
	if len(vars) != 2 {
		t.Fatalf("got %d plottable variables, want 2 (temp, swapped)", len(vars))
	}

	temp := tempVar(t, nc)
	if temp.Units != "K" || temp.LongName != "air temperature" {
		t.Errorf("metadata = (%q, %q), want (K, air temperature)", temp.Units, temp.LongName)
	}
	if temp.NDim() != 3 {
		t.Fatalf("temp has %d dims, want 3", temp.NDim())
	}
	lat := temp.Dims[1]
	if lat.Name != "lat" || lat.Size != 4 || !lat.HasCoords() {
		t.Errorf("lat dim = %+v, want size 4 with coords", lat)
	}
	if lat.Coords[0] != -30 || lat.Coords[3] != 30 {
		t.Errorf("lat coords = %v", lat.Coords)
	}
	if temp.Dims[0].HasCoords() {
		t.Error("time has no coordinate variable, HasCoords must be false")
	}
}

func TestGlobalAndVarAttrs(t *testing.T) {
	nc := openFixture(t)

	var title string
	for _, a := range nc.GlobalAttrs() {
		if a.Name == "title" {
			title = a.Value
		}
	}
	if title != "fixture dataset" {
		t.Errorf("global title = %q", title)
	}

	var units string
	for _, a := range nc.VarAttrs("temp") {
		if a.Name == "units" {
			units = a.Value
		}
	}
	if units != "K" {
		t.Errorf("temp units attr = %q", units)
	}
}

func TestFetchSlice(t *testing.T) {
	nc := openFixture(t)
	m := axes.RoleMapping{
		Var:   tempVar(t, nc),
		Roles: []axes.Role{axes.RoleNav, axes.RoleY, axes.RoleX},
		Fixed: []int{0, 0, 0},
	}

	req, err := axes.BuildIndex(m, 2)
	if err != nil {
		t.Fatal(err)
	}
	g, err := nc.FetchSlice(req)
	if err != nil {
		t.Fatalf("FetchSlice: %v", err)
	}
	if g.NY != 4 || g.NX != 5 {
		t.Fatalf("slice shape = (%d,%d), want (4,5)", g.NY, g.NX)
	}
	if got := g.At(3, 4); got != 234 {
		t.Errorf("At(3,4) = %v, want 234", got)
	}
	if g.Missing(0, 1) {
		t.Error("(0,1) should not be masked at time=2")
	}
}

func TestFetchSlice_FillValueMasked(t *testing.T) {
	nc := openFixture(t)
	m := axes.RoleMapping{
		Var:   tempVar(t, nc),
		Roles: []axes.Role{axes.RoleNav, axes.RoleY, axes.RoleX},
		Fixed: []int{0, 0, 0},
	}
	req, err := axes.BuildIndex(m, 0)
	if err != nil {
		t.Fatal(err)
	}
	g, err := nc.FetchSlice(req)
	if err != nil {
		t.Fatalf("FetchSlice: %v", err)
	}
	if !g.Missing(0, 1) {
		t.Error("fill-valued cell (0,1) must be masked at time=0")
	}
	if g.Missing(0, 0) {
		t.Error("(0,0) must not be masked")
	}
}

func TestFetchSlice_TransposesXBeforeY(t *testing.T) {
	nc := openFixture(t)
	var swapped grid.VariableDescriptor
	for _, v := range nc.Variables() {
		if v.Name == "swapped" {
			swapped = v
		}
	}
	// Declared order is (lon, lat): X precedes Y.
	m := axes.RoleMapping{
		Var:   swapped,
		Roles: []axes.Role{axes.RoleX, axes.RoleY},
		Fixed: []int{0, 0},
	}
	req, err := axes.BuildIndex(m, 0)
	if err != nil {
		t.Fatal(err)
	}
	g, err := nc.FetchSlice(req)
	if err != nil {
		t.Fatalf("FetchSlice: %v", err)
	}
	// The grid must come back (Y, X) = (4, 5) with value y*10+x.
	if g.NY != 4 || g.NX != 5 {
		t.Fatalf("slice shape = (%d,%d), want (4,5)", g.NY, g.NX)
	}
	if got := g.At(2, 3); got != 23 {
		t.Errorf("At(2,3) = %v, want 23", got)
	}
}

func TestFetchSlice_Errors(t *testing.T) {
	nc := openFixture(t)

	_, err := nc.FetchSlice(axes.SliceRequest{Var: "nope", Index: []int{axes.FullRange, axes.FullRange}, XPos: 1, YPos: 0})
	if !errors.Is(err, grid.ErrDataFetch) {
		t.Errorf("unknown variable: err = %v, want ErrDataFetch", err)
	}

	_, err = nc.FetchSlice(axes.SliceRequest{Var: "temp", Index: []int{99, axes.FullRange, axes.FullRange}, XPos: 2, YPos: 1})
	if !errors.Is(err, grid.ErrIndexOutOfRange) {
		t.Errorf("index 99: err = %v, want ErrIndexOutOfRange", err)
	}
}
