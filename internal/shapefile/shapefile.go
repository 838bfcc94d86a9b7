// Package shapefile summarizes ESRI shapefiles and extracts geometry
// outlines for terminal rendering, backed by
// github.com/ctessum/geom/encoding/shp.
package shapefile

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/sirupsen/logrus"
)

// IsShapefile reports whether path names a shapefile, by extension.
func IsShapefile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".shp")
}

// maxOutlinePoints caps the geometry detail kept for rendering so a
// country-scale file does not turn into millions of terminal cells.
const maxOutlinePoints = 200000

// Summary describes an opened shapefile.
type Summary struct {
	Path         string
	CRS          string
	FeatureCount int
	GeomTypes    []string
	Bounds       *geom.Bounds
	// Outlines are the feature boundaries (polygon rings and line
	// paths) in file coordinates, truncated at maxOutlinePoints.
	Outlines [][]geom.Point
}

// Load reads the whole shapefile. A missing or unparseable .prj
// sidecar is logged and reported as an unknown CRS rather than
// failing, matching the leniency users expect from ad hoc files.
func Load(path string) (*Summary, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("shapefile: opening %s: %w", path, err)
	}
	defer d.Close()

	s := &Summary{
		Path:   path,
		CRS:    "unknown (no .prj)",
		Bounds: geom.NewBounds(),
	}
	if sr, err := d.SR(); err == nil {
		s.CRS = sr.Name
	} else {
		logrus.WithField("path", path).WithError(err).Debug("no spatial reference")
	}

	types := make(map[string]int)
	points := 0
	for {
		g, _, more := d.DecodeRowFields()
		if !more {
			break
		}
		s.FeatureCount++
		types[geomTypeName(g)]++
		s.Bounds.Extend(g.Bounds())
		if points < maxOutlinePoints {
			for _, path := range outlinePaths(g) {
				s.Outlines = append(s.Outlines, path)
				points += len(path)
			}
		}
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("shapefile: reading %s: %w", path, err)
	}

	for t := range types {
		s.GeomTypes = append(s.GeomTypes, t)
	}
	sort.Strings(s.GeomTypes)
	return s, nil
}

func geomTypeName(g geom.Geom) string {
	switch g.(type) {
	case geom.Point, *geom.Point:
		return "Point"
	case geom.MultiPoint:
		return "MultiPoint"
	case geom.LineString:
		return "LineString"
	case geom.MultiLineString:
		return "MultiLineString"
	case geom.Polygon:
		return "Polygon"
	case geom.MultiPolygon:
		return "MultiPolygon"
	default:
		return fmt.Sprintf("%T", g)
	}
}

// outlinePaths flattens a geometry into drawable point sequences.
func outlinePaths(g geom.Geom) [][]geom.Point {
	switch t := g.(type) {
	case geom.Point:
		return [][]geom.Point{{t}}
	case *geom.Point:
		return [][]geom.Point{{*t}}
	case geom.MultiPoint:
		out := make([][]geom.Point, len(t))
		for i, p := range t {
			out[i] = []geom.Point{p}
		}
		return out
	case geom.LineString:
		return [][]geom.Point{t}
	case geom.MultiLineString:
		out := make([][]geom.Point, len(t))
		for i, l := range t {
			out[i] = l
		}
		return out
	case geom.Polygon:
		out := make([][]geom.Point, len(t))
		for i, ring := range t {
			out[i] = []geom.Point(ring)
		}
		return out
	case geom.MultiPolygon:
		var out [][]geom.Point
		for _, p := range t {
			for _, ring := range p {
				out = append(out, []geom.Point(ring))
			}
		}
		return out
	default:
		return nil
	}
}
