package accessor

import (
	"fmt"

	"github.com/golang/geo/s1"
	geojson "github.com/paulmach/go.geojson"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/style"
	"github.com/twpayne/go-geom"
)

var degreesToRadians = s1.Degree.Radians()

type pointCodec struct{}

func (pointCodec) encode(f *feature.Feature, e *geometry.Ellipsoid) (*geojson.Geometry, map[string]any, error) {
	c, err := toCoordinate(f.Positions[0], e)
	if err != nil {
		return nil, nil, err
	}
	return geojson.NewPointGeometry(c), nil, nil
}

func (pointCodec) decode(g *geojson.Geometry, _ map[string]any, f *feature.Feature, e *geometry.Ellipsoid) error {
	if err := expect(g, geojson.GeometryPoint); err != nil {
		return err
	}
	p, err := fromCoordinate(g.Point, e)
	if err != nil {
		return err
	}
	f.Positions = []geometry.Vector3{p}
	return nil
}

// boxCodec writes the box as its anchor point plus the geographic bounds of
// its eight corners
type boxCodec struct {
	pointCodec
}

func (b boxCodec) encode(f *feature.Feature, e *geometry.Ellipsoid) (*geojson.Geometry, map[string]any, error) {
	g, _, err := b.pointCodec.encode(f, e)
	if err != nil {
		return nil, nil, err
	}

	coords := make([]geom.Coord, 0, 8)
	for _, corner := range BoxCorners(f, e) {
		c, err := toCoordinate(corner, e)
		if err != nil {
			return nil, nil, err
		}
		coords = append(coords, geom.Coord(c))
	}
	bounds := geom.NewBounds(geom.XYZ).Extend(geom.NewMultiPoint(geom.XYZ).MustSetCoords(coords))
	bbox := []float64{
		bounds.Min(0), bounds.Min(1), bounds.Min(2),
		bounds.Max(0), bounds.Max(1), bounds.Max(2),
	}
	return g, map[string]any{PropBBox: bbox}, nil
}

// BoxCorners returns the eight corners of a box feature, centered on its
// anchor in the local east-north-up frame
func BoxCorners(f *feature.Feature, e *geometry.Ellipsoid) []geometry.Vector3 {
	if len(f.Positions) == 0 {
		return nil
	}
	cfg := style.WithDefaults(style.KindBox, f.Style)
	hx := cfg.Float("dimensions_x", 100) / 2
	hy := cfg.Float("dimensions_y", 100) / 2
	hz := cfg.Float("dimensions_z", 100) / 2

	frame := e.EastNorthUp(f.Positions[0])
	out := make([]geometry.Vector3, 0, 8)
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				out = append(out, frame.ToWorld(sx*hx, sy*hy, sz*hz))
			}
		}
	}
	return out
}

type lineCodec struct{}

func (lineCodec) encode(f *feature.Feature, e *geometry.Ellipsoid) (*geojson.Geometry, map[string]any, error) {
	cs, err := toCoordinates(f.Positions, e)
	if err != nil {
		return nil, nil, err
	}
	return geojson.NewLineStringGeometry(cs), nil, nil
}

func (lineCodec) decode(g *geojson.Geometry, _ map[string]any, f *feature.Feature, e *geometry.Ellipsoid) error {
	if err := expect(g, geojson.GeometryLineString); err != nil {
		return err
	}
	points, err := fromCoordinates(g.LineString, e)
	if err != nil {
		return err
	}
	f.Positions = points
	return nil
}

type polygonCodec struct{}

func (polygonCodec) encode(f *feature.Feature, e *geometry.Ellipsoid) (*geojson.Geometry, map[string]any, error) {
	ring, err := toCoordinates(f.Positions, e)
	if err != nil {
		return nil, nil, err
	}
	ring = append(ring, append([]float64(nil), ring[0]...))
	return geojson.NewPolygonGeometry([][][]float64{ring}), nil, nil
}

func (polygonCodec) decode(g *geojson.Geometry, _ map[string]any, f *feature.Feature, e *geometry.Ellipsoid) error {
	if err := expect(g, geojson.GeometryPolygon); err != nil {
		return err
	}
	if len(g.Polygon) == 0 {
		return ErrMissingGeometry
	}
	ring := g.Polygon[0]
	if n := len(ring); n > 1 && sameCoordinate(ring[0], ring[n-1]) {
		ring = ring[:n-1]
	}
	points, err := fromCoordinates(ring, e)
	if err != nil {
		return err
	}
	f.Positions = points
	return nil
}

func sameCoordinate(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// rectangleCodec writes the lon/lat bounds of the two corners as a polygon
// ring and keeps the corners themselves so heights survive
type rectangleCodec struct{}

func (rectangleCodec) encode(f *feature.Feature, e *geometry.Ellipsoid) (*geojson.Geometry, map[string]any, error) {
	corners, err := toCoordinates(f.Positions, e)
	if err != nil {
		return nil, nil, err
	}
	bounds := lonLatBounds(corners)
	if bounds.IsEmpty() {
		return nil, nil, ErrMissingGeometry
	}

	var ring [][]float64
	for _, c := range bounds.Polygon().Coords()[0] {
		ring = append(ring, []float64{c[0], c[1]})
	}
	return geojson.NewPolygonGeometry([][][]float64{ring}), map[string]any{PropCorners: corners}, nil
}

func (rectangleCodec) decode(g *geojson.Geometry, props map[string]any, f *feature.Feature, e *geometry.Ellipsoid) error {
	if err := expect(g, geojson.GeometryPolygon); err != nil {
		return err
	}
	if corners, ok := cornersProperty(props); ok {
		points, err := fromCoordinates(corners, e)
		if err != nil {
			return err
		}
		f.Positions = points
		return nil
	}

	if len(g.Polygon) == 0 || len(g.Polygon[0]) == 0 {
		return ErrMissingGeometry
	}
	bounds := lonLatBounds(g.Polygon[0])
	sw, err := fromCoordinate([]float64{bounds.Min(0), bounds.Min(1)}, e)
	if err != nil {
		return err
	}
	ne, err := fromCoordinate([]float64{bounds.Max(0), bounds.Max(1)}, e)
	if err != nil {
		return err
	}
	f.Positions = []geometry.Vector3{sw, ne}
	return nil
}

// lonLatBounds returns the two-dimensional bounds of coordinates
func lonLatBounds(coords [][]float64) *geom.Bounds {
	flat := make([]geom.Coord, 0, len(coords))
	for _, c := range coords {
		if len(c) >= 2 {
			flat = append(flat, geom.Coord{c[0], c[1]})
		}
	}
	return geom.NewBounds(geom.XY).Extend(geom.NewMultiPoint(geom.XY).MustSetCoords(flat))
}

// RectangleExtent returns the lon/lat extent spanned by a rectangle's corners
func RectangleExtent(f *feature.Feature, e *geometry.Ellipsoid) (style.Rectangle, bool) {
	corners := Coordinates(f, e)
	if len(corners) < 2 {
		return style.Rectangle{}, false
	}
	cs := make([][]float64, 0, len(corners))
	for _, c := range corners {
		cs = append(cs, []float64{c[0], c[1]})
	}
	b := lonLatBounds(cs)
	return style.Rectangle{West: b.Min(0), South: b.Min(1), East: b.Max(0), North: b.Max(1)}, true
}

func cornersProperty(props map[string]any) ([][]float64, bool) {
	switch raw := props[PropCorners].(type) {
	case [][]float64:
		return raw, len(raw) >= 2
	case []any:
		if len(raw) < 2 {
			return nil, false
		}
		out := make([][]float64, 0, len(raw))
		for _, item := range raw {
			values, ok := item.([]any)
			if !ok {
				return nil, false
			}
			c := make([]float64, 0, len(values))
			for _, v := range values {
				f, ok := v.(float64)
				if !ok {
					return nil, false
				}
				c = append(c, f)
			}
			out = append(out, c)
		}
		return out, true
	}
	return nil, false
}

// ellipseCodec writes circles and ellipses as their center point; the
// radii travel in the style
type ellipseCodec struct{}

func (ellipseCodec) encode(f *feature.Feature, e *geometry.Ellipsoid) (*geojson.Geometry, map[string]any, error) {
	SyncEllipseStyle(f, e)
	c, err := toCoordinate(f.Positions[0], e)
	if err != nil {
		return nil, nil, err
	}
	return geojson.NewPointGeometry(c), nil, nil
}

func (ellipseCodec) decode(g *geojson.Geometry, _ map[string]any, f *feature.Feature, e *geometry.Ellipsoid) error {
	if err := expect(g, geojson.GeometryPoint); err != nil {
		return err
	}
	center, err := fromCoordinate(g.Point, e)
	if err != nil {
		return err
	}

	shape := EllipseOf(f, e)
	shape.Center = center
	if shape.SemiMajorAxis <= 0 {
		return fmt.Errorf("%s without radius", f.Kind)
	}

	f.Positions = []geometry.Vector3{center, shape.MajorAxisPoint(e)}
	if f.Kind == style.KindEllipse && f.Style.Has("semiMinorAxis") {
		f.Positions = append(f.Positions, shape.MinorAxisPoint(e))
	}
	return nil
}

// EllipseOf returns the shape of a circle or ellipse feature. Control
// points win over the style: the second point sets the major axis and its
// direction, the third the minor axis.
func EllipseOf(f *feature.Feature, e *geometry.Ellipsoid) geometry.EllipseShape {
	var shape geometry.EllipseShape
	if f.Kind == style.KindCircle {
		r := f.Style.Float("radius", 0)
		shape.SemiMajorAxis, shape.SemiMinorAxis = r, r
	} else {
		shape.SemiMajorAxis = f.Style.Float("semiMajorAxis", 0)
		shape.SemiMinorAxis = f.Style.Float("semiMinorAxis", shape.SemiMajorAxis)
	}
	shape.Rotation = f.Style.Float("rotation", 0) * degreesToRadians

	if len(f.Positions) == 0 {
		return shape
	}
	shape.Center = f.Positions[0]
	if len(f.Positions) < 2 {
		return shape
	}

	major := geometry.SurfaceDistance(e, shape.Center, f.Positions[1])
	shape.SemiMajorAxis = major
	if f.Kind == style.KindCircle {
		shape.SemiMinorAxis = major
		return shape
	}

	shape.Rotation = geometry.RotationTowards(e, shape.Center, f.Positions[1])
	if len(f.Positions) > 2 {
		shape.SemiMinorAxis = geometry.SurfaceDistance(e, shape.Center, f.Positions[2])
	} else if !f.Style.Has("semiMinorAxis") {
		shape.SemiMinorAxis = major
	}
	return shape
}

// SyncEllipseStyle writes the radii implied by the control points back
// into the style
func SyncEllipseStyle(f *feature.Feature, e *geometry.Ellipsoid) {
	if f.Kind != style.KindCircle && f.Kind != style.KindEllipse {
		return
	}
	if len(f.Positions) < 2 {
		return
	}
	shape := EllipseOf(f, e)
	if f.Kind == style.KindCircle {
		f.Style["radius"] = shape.SemiMajorAxis
		return
	}
	f.Style["semiMajorAxis"] = shape.SemiMajorAxis
	f.Style["rotation"] = shape.Rotation / degreesToRadians
	// without a minor axis point the minor axis follows the major one or
	// keeps an explicitly styled value
	if len(f.Positions) > 2 {
		f.Style["semiMinorAxis"] = shape.SemiMinorAxis
	}
}
