package grid

// DimensionDescriptor describes one dimension of a gridded variable.
// Coords holds the coordinate values associated with the dimension
// (e.g. the contents of a same-named coordinate variable); it is nil
// when the file provides none, otherwise len(Coords) == Size.
type DimensionDescriptor struct {
	Name   string
	Size   int
	Coords []float64
}

// HasCoords reports whether coordinate values are available for the
// dimension.
func (d DimensionDescriptor) HasCoords() bool {
	return len(d.Coords) == d.Size && d.Size > 0
}

// Coord returns the coordinate value at index i, falling back to the
// index itself when the dimension has no coordinate variable.
func (d DimensionDescriptor) Coord(i int) float64 {
	if d.HasCoords() {
		return d.Coords[i]
	}
	return float64(i)
}

// VariableDescriptor describes a plottable gridded variable: its name,
// its dimensions in declared (outermost-first) order, and the display
// metadata carried by the file. Descriptors are read-only once loaded.
type VariableDescriptor struct {
	Name     string
	Dims     []DimensionDescriptor
	Units    string
	LongName string
}

// NDim returns the number of dimensions.
func (v VariableDescriptor) NDim() int { return len(v.Dims) }

// Shape returns the dimension sizes in declared order.
func (v VariableDescriptor) Shape() []int {
	s := make([]int, len(v.Dims))
	for i, d := range v.Dims {
		s[i] = d.Size
	}
	return s
}

// Title returns the most descriptive name available for display.
func (v VariableDescriptor) Title() string {
	if v.LongName != "" {
		return v.LongName
	}
	return v.Name
}
