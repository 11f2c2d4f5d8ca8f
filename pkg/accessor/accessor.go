// Package accessor reads feature geometry and converts features to and from
// GeoJSON. Each kind has a codec; point-like kinds share one, line kinds
// share another.
package accessor

import (
	"errors"
	"fmt"

	geojson "github.com/paulmach/go.geojson"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/style"
)

// ErrMissingGeometry is returned for GeoJSON features without a usable geometry
var ErrMissingGeometry = errors.New("missing geometry")

// Property keys the codecs reserve next to the draw attribute
const (
	PropKind    = "kind"
	PropStyle   = "style"
	PropCorners = "corners"
	PropBBox    = "bbox"
)

type codec interface {
	encode(f *feature.Feature, e *geometry.Ellipsoid) (*geojson.Geometry, map[string]any, error)
	decode(g *geojson.Geometry, props map[string]any, f *feature.Feature, e *geometry.Ellipsoid) error
}

var codecs = map[style.Kind]codec{
	style.KindPoint:     pointCodec{},
	style.KindBillboard: pointCodec{},
	style.KindLabel:     pointCodec{},
	style.KindModel:     pointCodec{},
	style.KindCylinder:  pointCodec{},
	style.KindEllipsoid: pointCodec{},
	style.KindPlane:     pointCodec{},
	style.KindBox:       boxCodec{},
	style.KindPolyline:  lineCodec{},
	style.KindCorridor:  lineCodec{},
	style.KindWall:      lineCodec{},
	style.KindVolume:    lineCodec{},
	style.KindPolygon:   polygonCodec{},
	style.KindRectangle: rectangleCodec{},
	style.KindCircle:    ellipseCodec{},
	style.KindEllipse:   ellipseCodec{},
}

// Positions returns a copy of the control points, nil when there are none
func Positions(f *feature.Feature) []geometry.Vector3 {
	if len(f.Positions) == 0 {
		return nil
	}
	return geometry.ClonePoints(f.Positions)
}

// Coordinates returns the control points as [lon, lat, height] in degrees
// and meters. Points at the center of the ellipsoid are skipped.
func Coordinates(f *feature.Feature, e *geometry.Ellipsoid) [][3]float64 {
	out := make([][3]float64, 0, len(f.Positions))
	for _, p := range f.Positions {
		if c, ok := e.ToCartographic(p); ok {
			out = append(out, [3]float64{c.Lon, c.Lat, c.Height})
		}
	}
	return out
}

// ToFeature encodes f as a GeoJSON feature
func ToFeature(f *feature.Feature, e *geometry.Ellipsoid) (*geojson.Feature, error) {
	c, ok := codecs[f.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", style.ErrUnsupportedKind, f.Kind)
	}
	if len(f.Positions) == 0 {
		return nil, fmt.Errorf("%s %s: %w", f.Kind, f.ID, ErrMissingGeometry)
	}

	f = f.Clone()
	g, extra, err := c.encode(f, e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s %s: %w", f.Kind, f.ID, err)
	}

	gf := geojson.NewFeature(g)
	gf.ID = f.ID
	for k, v := range f.DrawAttribute {
		gf.SetProperty(k, v)
	}
	for k, v := range extra {
		gf.SetProperty(k, v)
	}
	gf.SetProperty(PropKind, string(f.Kind))
	gf.SetProperty(PropStyle, map[string]any(f.Style.Clone()))
	return gf, nil
}

// FromFeature decodes a GeoJSON feature. The kind comes from the kind
// property or, when that is absent, from the geometry type. The returned
// feature is idle and visible.
func FromFeature(gf *geojson.Feature, e *geometry.Ellipsoid) (*feature.Feature, error) {
	if gf == nil || gf.Geometry == nil {
		return nil, ErrMissingGeometry
	}

	kind, err := kindOf(gf)
	if err != nil {
		return nil, err
	}

	cfg, styleErr := style.Parse(kind, styleProperty(gf.Properties))

	f := feature.New(kind, cfg, drawAttribute(gf.Properties))
	f.State = feature.StateIdle
	if id, ok := gf.ID.(string); ok && id != "" {
		f.ID = id
	}

	if err := codecs[kind].decode(gf.Geometry, gf.Properties, f, e); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	if len(f.Positions) == 0 {
		return nil, fmt.Errorf("%s: %w", kind, ErrMissingGeometry)
	}
	if styleErr != nil {
		return f, styleErr
	}
	return f, nil
}

func kindOf(gf *geojson.Feature) (style.Kind, error) {
	if raw, ok := gf.Properties[PropKind].(string); ok && raw != "" {
		return style.ParseKind(raw)
	}
	switch gf.Geometry.Type {
	case geojson.GeometryPoint:
		return style.KindPoint, nil
	case geojson.GeometryLineString:
		return style.KindPolyline, nil
	case geojson.GeometryPolygon:
		return style.KindPolygon, nil
	}
	return "", fmt.Errorf("%w: geometry %s", style.ErrUnsupportedKind, gf.Geometry.Type)
}

func styleProperty(props map[string]any) map[string]any {
	if m, ok := props[PropStyle].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func drawAttribute(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		switch k {
		case PropKind, PropStyle, PropCorners, PropBBox:
			continue
		}
		out[k] = v
	}
	return out
}

func toCoordinate(p geometry.Vector3, e *geometry.Ellipsoid) ([]float64, error) {
	c, ok := e.ToCartographic(p)
	if !ok {
		return nil, fmt.Errorf("position %v has no geographic equivalent", p)
	}
	return []float64{c.Lon, c.Lat, c.Height}, nil
}

func toCoordinates(points []geometry.Vector3, e *geometry.Ellipsoid) ([][]float64, error) {
	out := make([][]float64, 0, len(points))
	for _, p := range points {
		c, err := toCoordinate(p, e)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func fromCoordinate(c []float64, e *geometry.Ellipsoid) (geometry.Vector3, error) {
	if len(c) < 2 {
		return geometry.Vector3{}, fmt.Errorf("coordinate %v needs at least lon and lat", c)
	}
	height := 0.0
	if len(c) > 2 {
		height = c[2]
	}
	return e.ToCartesian(geometry.NewCartographic(c[0], c[1], height)), nil
}

func fromCoordinates(cs [][]float64, e *geometry.Ellipsoid) ([]geometry.Vector3, error) {
	out := make([]geometry.Vector3, 0, len(cs))
	for _, c := range cs {
		p, err := fromCoordinate(c, e)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func expect(g *geojson.Geometry, t geojson.GeometryType) error {
	if g.Type != t {
		return fmt.Errorf("expected %s geometry, got %s", t, g.Type)
	}
	return nil
}
