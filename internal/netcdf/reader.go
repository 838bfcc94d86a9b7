// Package netcdf reads variable metadata and 2-D slices out of
// NetCDF-3 files, backed by github.com/ctessum/cdf.
package netcdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ctessum/cdf"

	"github.com/san-kum/geoview/internal/axes"
	"github.com/san-kum/geoview/internal/grid"
)

// File is an open NetCDF file. It implements render.DataSource.
type File struct {
	cf   *cdf.File
	f    *os.File
	path string
}

// Attr is one attribute, formatted for display.
type Attr struct {
	Name  string
	Value string
}

// Open opens a NetCDF-3 file for reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("netcdf: opening %s: %w", path, err)
	}
	cf, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("netcdf: reading header of %s: %w", path, err)
	}
	return &File{cf: cf, f: f, path: path}, nil
}

// Path returns the path the file was opened from.
func (nc *File) Path() string { return nc.path }

// Close releases the underlying file handle.
func (nc *File) Close() error { return nc.f.Close() }

// Variables returns descriptors for the plottable variables (two or
// more dimensions), in file order, with coordinate values attached to
// any dimension that has a same-named 1-D coordinate variable.
func (nc *File) Variables() []grid.VariableDescriptor {
	var out []grid.VariableDescriptor
	for _, name := range nc.cf.Header.Variables() {
		dims := nc.cf.Header.Dimensions(name)
		if len(dims) < 2 {
			continue
		}
		lens := nc.cf.Header.Lengths(name)
		v := grid.VariableDescriptor{
			Name:     name,
			Dims:     make([]grid.DimensionDescriptor, len(dims)),
			Units:    nc.attrString(name, "units"),
			LongName: nc.attrString(name, "long_name"),
		}
		for i, d := range dims {
			v.Dims[i] = grid.DimensionDescriptor{
				Name:   d,
				Size:   lens[i],
				Coords: nc.coords(d, lens[i]),
			}
		}
		out = append(out, v)
	}
	return out
}

// Dimensions returns every dimension used by any variable, in first
// encounter order, for the metadata listing.
func (nc *File) Dimensions() []grid.DimensionDescriptor {
	var out []grid.DimensionDescriptor
	seen := make(map[string]bool)
	for _, name := range nc.cf.Header.Variables() {
		dims := nc.cf.Header.Dimensions(name)
		lens := nc.cf.Header.Lengths(name)
		for i, d := range dims {
			if seen[d] {
				continue
			}
			seen[d] = true
			out = append(out, grid.DimensionDescriptor{Name: d, Size: lens[i]})
		}
	}
	return out
}

// GlobalAttrs returns the file's global attributes.
func (nc *File) GlobalAttrs() []Attr { return nc.attrs("") }

// VarAttrs returns the attributes of one variable.
func (nc *File) VarAttrs(name string) []Attr { return nc.attrs(name) }

func (nc *File) attrs(varName string) []Attr {
	var out []Attr
	for _, key := range nc.cf.Header.Attributes(varName) {
		out = append(out, Attr{Name: key, Value: formatAttr(nc.cf.Header.GetAttribute(varName, key))})
	}
	return out
}

func (nc *File) attrString(varName, key string) string {
	if v, ok := nc.cf.Header.GetAttribute(varName, key).(string); ok {
		return strings.TrimRight(v, "\x00")
	}
	return ""
}

func formatAttr(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimRight(t, "\x00")
	default:
		return strings.Trim(fmt.Sprintf("%v", t), "[]")
	}
}

// coords reads the coordinate variable named like dim, if it exists
// with exactly that one dimension and the expected length.
func (nc *File) coords(dim string, size int) []float64 {
	dims := nc.cf.Header.Dimensions(dim)
	if len(dims) != 1 || dims[0] != dim {
		return nil
	}
	r := nc.cf.Reader(dim, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil
	}
	vals := widen(buf)
	if len(vals) != size {
		return nil
	}
	return vals
}

// FetchSlice reads the 2-D hyperslab described by req. The returned
// grid is always oriented (Y, X) regardless of the dimensions'
// declared order.
func (nc *File) FetchSlice(req axes.SliceRequest) (*grid.Grid2D, error) {
	lens := nc.cf.Header.Lengths(req.Var)
	if len(lens) == 0 {
		return nil, fmt.Errorf("%w: variable %s not in %s", grid.ErrDataFetch, req.Var, nc.path)
	}
	if len(lens) != len(req.Index) {
		return nil, fmt.Errorf("%w: index tuple length %d for %d-dimensional variable %s",
			grid.ErrDataFetch, len(req.Index), len(lens), req.Var)
	}

	start := make([]int, len(lens))
	end := make([]int, len(lens))
	nread := 1
	for i, idx := range req.Index {
		if idx == axes.FullRange {
			start[i], end[i] = 0, lens[i]
			nread *= lens[i]
			continue
		}
		if idx < 0 || idx >= lens[i] {
			return nil, fmt.Errorf("%w: index %d for dimension %d of %s (size %d)",
				grid.ErrIndexOutOfRange, idx, i, req.Var, lens[i])
		}
		start[i], end[i] = idx, idx+1
	}

	r := nc.cf.Reader(req.Var, start, end)
	buf := r.Zero(nread)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", grid.ErrDataFetch, req.Var, err)
	}
	vals := widen(buf)
	if vals == nil {
		return nil, fmt.Errorf("%w: variable %s has unsupported type %T", grid.ErrDataFetch, req.Var, buf)
	}

	// The buffer is laid out in declared dimension order: the earlier
	// of the two range dimensions varies slowest.
	first, second := req.XPos, req.YPos
	if req.YPos < req.XPos {
		first, second = req.YPos, req.XPos
	}
	g := &grid.Grid2D{
		Values: vals,
		Mask:   make([]bool, len(vals)),
		NY:     lens[first],
		NX:     lens[second],
	}
	nc.applyFillValues(req.Var, g)
	if req.XPos < req.YPos {
		// X varies slowest: rows are currently X, so exchange axes.
		g = g.Transpose()
	}
	return g, nil
}

// applyFillValues masks cells matching the variable's _FillValue or
// missing_value attribute.
func (nc *File) applyFillValues(varName string, g *grid.Grid2D) {
	for _, key := range []string{"_FillValue", "missing_value"} {
		fv, ok := attrFloat(nc.cf.Header.GetAttribute(varName, key))
		if !ok {
			continue
		}
		for i, v := range g.Values {
			if v == fv {
				g.Mask[i] = true
			}
		}
	}
}

func attrFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case []float64:
		if len(t) > 0 {
			return t[0], true
		}
	case []float32:
		if len(t) > 0 {
			return float64(t[0]), true
		}
	case []int32:
		if len(t) > 0 {
			return float64(t[0]), true
		}
	case []int16:
		if len(t) > 0 {
			return float64(t[0]), true
		}
	}
	return 0, false
}

// widen converts any numeric buffer the cdf package produces to
// float64, returning nil for non-numeric types.
func widen(buf interface{}) []float64 {
	switch t := buf.(type) {
	case []float64:
		return t
	case []float32:
		out := make([]float64, len(t))
		for i, v := range t {
			out[i] = float64(v)
		}
		return out
	case []int32:
		out := make([]float64, len(t))
		for i, v := range t {
			out[i] = float64(v)
		}
		return out
	case []int16:
		out := make([]float64, len(t))
		for i, v := range t {
			out[i] = float64(v)
		}
		return out
	case []int8:
		out := make([]float64, len(t))
		for i, v := range t {
			out[i] = float64(v)
		}
		return out
	default:
		return nil
	}
}
