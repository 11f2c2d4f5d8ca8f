package accessor

import (
	"encoding/json"
	"errors"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	wgs84  = geometry.WGS84
	origin = wgs84.EastNorthUp(wgs84.ToCartesian(geometry.NewCartographic(8.5, 47.3, 400)))
)

func at(east, north float64) geometry.Vector3 {
	return origin.ToWorld(east, north, 0)
}

func sample(kind style.Kind) *feature.Feature {
	f := feature.New(kind, style.Config{}, map[string]any{"name": string(kind)})
	f.State = feature.StateIdle
	switch kind.Family() {
	case style.FamilySinglePoint:
		f.Positions = []geometry.Vector3{at(0, 0)}
	case style.FamilyOpen:
		f.Positions = []geometry.Vector3{at(0, 0), at(100, 0), at(100, 80)}
	case style.FamilyClosed:
		f.Positions = []geometry.Vector3{at(0, 0), at(100, 0), at(100, 100), at(0, 100)}
	case style.FamilyFixed:
		switch kind {
		case style.KindEllipse:
			f.Positions = []geometry.Vector3{at(0, 0), at(0, 300), at(-120, 0)}
		case style.KindCircle:
			f.Positions = []geometry.Vector3{at(0, 0), at(0, 250)}
		default:
			f.Positions = []geometry.Vector3{at(0, 0), at(200, 150)}
		}
	}
	return f
}

func assertSamePoints(t *testing.T, want, got []geometry.Vector3, tolerance float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, 0, want[i].Distance(got[i]), tolerance, "point %d", i)
	}
}

func TestRoundTripEveryKind(t *testing.T) {
	for _, kind := range style.AllKinds() {
		t.Run(string(kind), func(t *testing.T) {
			f := sample(kind)

			gf, err := ToFeature(f, wgs84)
			require.NoError(t, err)
			data, err := gf.MarshalJSON()
			require.NoError(t, err)

			decoded, err := geojson.UnmarshalFeature(data)
			require.NoError(t, err)
			back, err := FromFeature(decoded, wgs84)
			require.NoError(t, err)

			assert.Equal(t, kind, back.Kind)
			assert.Equal(t, f.ID, back.ID)
			assert.Equal(t, string(kind), back.DrawAttribute["name"])
			assert.Equal(t, feature.StateIdle, back.State)
			assertSamePoints(t, f.Positions, back.Positions, 1e-3)
		})
	}
}

func TestPolygonIsClosedRing(t *testing.T) {
	f := feature.New(style.KindPolygon, nil, nil)
	f.Positions = []geometry.Vector3{at(0, 0), at(1, 0), at(1, 1)}

	gf, err := ToFeature(f, wgs84)
	require.NoError(t, err)
	require.True(t, gf.Geometry.IsPolygon())
	ring := gf.Geometry.Polygon[0]
	assert.Len(t, ring, 4)
	assert.Equal(t, ring[0], ring[3])
}

func TestRectangleWritesBoundsAndCorners(t *testing.T) {
	f := sample(style.KindRectangle)
	gf, err := ToFeature(f, wgs84)
	require.NoError(t, err)

	ring := gf.Geometry.Polygon[0]
	assert.Len(t, ring, 5)
	corners, ok := gf.Properties[PropCorners].([][]float64)
	require.True(t, ok)
	assert.Len(t, corners, 2)

	rect, ok := RectangleExtent(f, wgs84)
	require.True(t, ok)
	for _, c := range ring {
		assert.True(t, c[0] >= rect.West-1e-12 && c[0] <= rect.East+1e-12)
		assert.True(t, c[1] >= rect.South-1e-12 && c[1] <= rect.North+1e-12)
	}
}

func TestRectangleWithoutCornersUsesBounds(t *testing.T) {
	data := []byte(`{"type":"Feature","properties":{"kind":"rectangle"},
		"geometry":{"type":"Polygon","coordinates":[[[8,47],[8,48],[9,48],[9,47],[8,47]]]}}`)
	gf, err := geojson.UnmarshalFeature(data)
	require.NoError(t, err)

	f, err := FromFeature(gf, wgs84)
	require.NoError(t, err)
	coords := Coordinates(f, wgs84)
	require.Len(t, coords, 2)
	assert.InDelta(t, 8, coords[0][0], 1e-7)
	assert.InDelta(t, 47, coords[0][1], 1e-7)
	assert.InDelta(t, 9, coords[1][0], 1e-7)
	assert.InDelta(t, 48, coords[1][1], 1e-7)
}

func TestCircleWritesCenterAndRadius(t *testing.T) {
	f := feature.New(style.KindCircle, nil, nil)
	f.Positions = []geometry.Vector3{at(0, 0), at(500, 0)}

	gf, err := ToFeature(f, wgs84)
	require.NoError(t, err)
	assert.True(t, gf.Geometry.IsPoint())
	styleProps := gf.Properties[PropStyle].(map[string]any)
	assert.InDelta(t, 500, styleProps["radius"], 0.01)
	assert.False(t, f.Style.Has("radius"), "export must not touch the feature")

	back, err := FromFeature(gf, wgs84)
	require.NoError(t, err)
	require.Len(t, back.Positions, 2)
	assert.InDelta(t, 500, EllipseOf(back, wgs84).SemiMajorAxis, 0.01)
}

func TestBoxWritesBBox(t *testing.T) {
	f := sample(style.KindBox)
	f.Style["dimensions_z"] = 40.0
	gf, err := ToFeature(f, wgs84)
	require.NoError(t, err)

	bbox, ok := gf.Properties[PropBBox].([]float64)
	require.True(t, ok)
	require.Len(t, bbox, 6)
	assert.InDelta(t, 400-20, bbox[2], 0.01)
	assert.InDelta(t, 400+20, bbox[5], 0.01)
	assert.Less(t, bbox[0], bbox[3])
	assert.Less(t, bbox[1], bbox[4])
}

func TestFromFeatureErrors(t *testing.T) {
	_, err := FromFeature(&geojson.Feature{Properties: map[string]any{}}, wgs84)
	assert.True(t, errors.Is(err, ErrMissingGeometry))

	gf := geojson.NewPointFeature([]float64{8, 47})
	gf.SetProperty(PropKind, "hexagon")
	_, err = FromFeature(gf, wgs84)
	assert.True(t, errors.Is(err, style.ErrUnsupportedKind))

	gf = geojson.NewPointFeature([]float64{8, 47})
	gf.SetProperty(PropKind, "polyline")
	_, err = FromFeature(gf, wgs84)
	assert.Error(t, err)
}

func TestFromFeatureInfersKind(t *testing.T) {
	gf := geojson.NewLineStringFeature([][]float64{{8, 47}, {8.1, 47.1}})
	f, err := FromFeature(gf, wgs84)
	require.NoError(t, err)
	assert.Equal(t, style.KindPolyline, f.Kind)
}

func TestFromFeatureKeepsFeatureWithBadStyle(t *testing.T) {
	gf := geojson.NewPointFeature([]float64{8, 47})
	gf.SetProperty(PropStyle, map[string]any{"pixelSize": "huge", "color": "red"})
	f, err := FromFeature(gf, wgs84)
	require.NotNil(t, f)
	assert.True(t, errors.Is(err, style.ErrInvalidStyle))
	assert.Equal(t, "red", f.Style["color"])
	assert.False(t, f.Style.Has("pixelSize"))
}

func TestParseCollectionIsolatesBadFeatures(t *testing.T) {
	good := sample(style.KindPolyline)
	data, errs := MarshalCollection([]*feature.Feature{good}, wgs84)
	require.Empty(t, errs)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	doc["features"] = append(doc["features"].([]any),
		map[string]any{"type": "Feature", "properties": map[string]any{"kind": "circle"}},
		"not a feature",
	)
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	features, errs := ParseCollection(data, wgs84)
	require.Len(t, features, 1)
	assert.Len(t, errs, 2)
	assert.Equal(t, good.ID, features[0].ID)
}

func TestParseSingleFeature(t *testing.T) {
	features, errs := ParseCollection([]byte(`{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{}}`), wgs84)
	assert.Empty(t, errs)
	require.Len(t, features, 1)
	assert.Equal(t, style.KindPoint, features[0].Kind)
}

func TestParseCollectionRejectsGarbage(t *testing.T) {
	features, errs := ParseCollection([]byte(`{"type":"Topology"}`), wgs84)
	assert.Nil(t, features)
	assert.Len(t, errs, 1)

	_, errs = ParseCollection([]byte(`{`), wgs84)
	assert.Len(t, errs, 1)
}

func TestEmptyFeaturesNeverPanic(t *testing.T) {
	for _, kind := range style.AllKinds() {
		f := feature.New(kind, nil, nil)
		assert.Nil(t, Positions(f))
		assert.Empty(t, Coordinates(f, wgs84))
		_, err := ToFeature(f, wgs84)
		assert.True(t, errors.Is(err, ErrMissingGeometry), kind)
		assert.NotPanics(t, func() { Entity(f, wgs84, nil) }, kind)

		f.Positions = []geometry.Vector3{at(0, 0)}
		assert.NotPanics(t, func() { Entity(f, wgs84, nil) }, kind)
	}
}

func TestEntityDerivedAttributes(t *testing.T) {
	wall := sample(style.KindWall)
	wall.Style["diffHeight"] = 25.0
	e := Entity(wall, wgs84, nil)
	mins := e.Attr["minimumHeights"].([]float64)
	maxs := e.Attr["maximumHeights"].([]float64)
	require.Len(t, mins, 3)
	for i := range mins {
		assert.InDelta(t, 25, maxs[i]-mins[i], 1e-9)
	}

	circle := feature.New(style.KindCircle, nil, nil)
	circle.Positions = []geometry.Vector3{at(0, 0), at(0, 250)}
	e = Entity(circle, wgs84, nil)
	assert.InDelta(t, 250, e.Attr["semiMajorAxis"], 1e-6)
	assert.InDelta(t, 250, e.Attr["semiMinorAxis"], 1e-6)

	polygon := sample(style.KindPolygon)
	polygon.Style["diffHeight"] = 10.0
	e = Entity(polygon, wgs84, nil)
	assert.InDelta(t, 410, e.Attr["extrudedHeight"], 0.01)
}

func TestSinglePointKindsHiddenWhileDrawing(t *testing.T) {
	f := feature.New(style.KindPoint, nil, nil)
	assert.False(t, Entity(f, wgs84, nil).Visible)
	f.State = feature.StateIdle
	assert.True(t, Entity(f, wgs84, nil).Visible)

	line := feature.New(style.KindPolyline, nil, nil)
	assert.True(t, Entity(line, wgs84, nil).Visible)
}
