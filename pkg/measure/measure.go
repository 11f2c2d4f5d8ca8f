// Package measure reports lengths and areas of drawn features.
package measure

import (
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/s2"
	"github.com/philipparndt/geodraw/pkg/accessor"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/style"
)

// EarthRadius is the mean earth radius in meters used to scale spherical
// lengths and areas
const EarthRadius = 6371008.8

// Report contains the measurements of one feature
type Report struct {
	ID     string
	Kind   style.Kind
	Points int
	// Length is the length of an open line or the perimeter of a closed shape
	Length float64
	Area   float64
	// Height is the top of an extruded feature above the ellipsoid
	Height float64
	Bounds style.Rectangle
}

// Closed reports whether Length is a perimeter
func (r Report) Closed() bool {
	switch r.Kind {
	case style.KindPolygon, style.KindRectangle, style.KindCircle, style.KindEllipse:
		return true
	}
	return false
}

// Measure computes the report of f
func Measure(f *feature.Feature, e *geometry.Ellipsoid) Report {
	r := Report{ID: f.ID, Kind: f.Kind, Points: len(f.Positions)}
	coords := accessor.Coordinates(f, e)
	r.Bounds = extent(coords)
	if h, ok := accessor.ExtrusionHeight(f, e); ok {
		r.Height = h
	}

	switch f.Kind {
	case style.KindPolyline, style.KindCorridor, style.KindWall, style.KindVolume:
		r.Length = PathLength(coords)
	case style.KindPolygon:
		r.Length = PathLength(closeRing(coords))
		r.Area = RingArea(coords)
	case style.KindRectangle:
		if len(coords) >= 2 {
			ring := [][3]float64{
				{r.Bounds.West, r.Bounds.South, 0},
				{r.Bounds.East, r.Bounds.South, 0},
				{r.Bounds.East, r.Bounds.North, 0},
				{r.Bounds.West, r.Bounds.North, 0},
			}
			r.Length = PathLength(closeRing(ring))
			r.Area = RingArea(ring)
		}
	case style.KindCircle, style.KindEllipse:
		shape := accessor.EllipseOf(f, e)
		r.Area = shape.Area()
		r.Length = ellipsePerimeter(shape.SemiMajorAxis, shape.SemiMinorAxis)
	}
	return r
}

// PathLength returns the great circle length of lon/lat coordinates in meters
func PathLength(coords [][3]float64) float64 {
	if len(coords) < 2 {
		return 0
	}
	line := s2.Polyline(points(coords))
	return line.Length().Radians() * EarthRadius
}

// RingArea returns the spherical area enclosed by lon/lat coordinates in
// square meters. The ring may be given open or closed, in either winding.
func RingArea(coords [][3]float64) float64 {
	if len(coords) > 1 && coords[0] == coords[len(coords)-1] {
		coords = coords[:len(coords)-1]
	}
	if len(coords) < 3 {
		return 0
	}
	loop := s2.LoopFromPoints(points(coords))
	loop.Normalize()
	return loop.Area() * EarthRadius * EarthRadius
}

// Ramanujan's approximation
func ellipsePerimeter(a, b float64) float64 {
	if a <= 0 && b <= 0 {
		return 0
	}
	h := math.Pow(a-b, 2) / math.Pow(a+b, 2)
	return math.Pi * (a + b) * (1 + 3*h/(10+math.Sqrt(4-3*h)))
}

func points(coords [][3]float64) []s2.Point {
	pts := make([]s2.Point, 0, len(coords))
	for _, c := range coords {
		pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(c[1], c[0])))
	}
	return pts
}

func closeRing(coords [][3]float64) [][3]float64 {
	if len(coords) < 3 || coords[0] == coords[len(coords)-1] {
		return coords
	}
	return append(append([][3]float64(nil), coords...), coords[0])
}

func extent(coords [][3]float64) style.Rectangle {
	if len(coords) == 0 {
		return style.Rectangle{}
	}
	r := style.Rectangle{West: coords[0][0], East: coords[0][0], South: coords[0][1], North: coords[0][1]}
	for _, c := range coords[1:] {
		r.West = math.Min(r.West, c[0])
		r.East = math.Max(r.East, c[0])
		r.South = math.Min(r.South, c[1])
		r.North = math.Max(r.North, c[1])
	}
	return r
}

// Summary aggregates the reports of a feature set
type Summary struct {
	Features    int
	ByKind      map[style.Kind]int
	TotalLength float64
	TotalArea   float64
	Reports     []Report
}

// Summarize measures every feature
func Summarize(features []*feature.Feature, e *geometry.Ellipsoid) Summary {
	s := Summary{ByKind: make(map[style.Kind]int)}
	for _, f := range features {
		r := Measure(f, e)
		s.Features++
		s.ByKind[f.Kind]++
		s.TotalLength += r.Length
		s.TotalArea += r.Area
		s.Reports = append(s.Reports, r)
	}
	return s
}

// Kinds returns the measured kinds in a stable order
func (s Summary) Kinds() []style.Kind {
	kinds := make([]style.Kind, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return kinds[i] < kinds[j]
	})
	return kinds
}

// FindLongest returns the count reports with the largest length
func FindLongest(reports []Report, count int) []Report {
	sorted := make([]Report, len(reports))
	copy(sorted, reports)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Length > sorted[j].Length
	})

	if count > len(sorted) {
		count = len(sorted)
	}
	return sorted[:count]
}

// FindLargest returns the count reports with the largest area
func FindLargest(reports []Report, count int) []Report {
	sorted := make([]Report, len(reports))
	copy(sorted, reports)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Area > sorted[j].Area
	})

	if count > len(sorted) {
		count = len(sorted)
	}
	return sorted[:count]
}

// FormatLength formats meters with an appropriate unit
func FormatLength(m float64) string {
	if math.Abs(m) >= 1000 {
		return fmt.Sprintf("%.3f km", m/1000)
	}
	return fmt.Sprintf("%.2f m", m)
}

// FormatArea formats square meters with an appropriate unit
func FormatArea(m2 float64) string {
	switch {
	case math.Abs(m2) >= 1e6:
		return fmt.Sprintf("%.3f km²", m2/1e6)
	case math.Abs(m2) >= 1e4:
		return fmt.Sprintf("%.2f ha", m2/1e4)
	}
	return fmt.Sprintf("%.2f m²", m2)
}
