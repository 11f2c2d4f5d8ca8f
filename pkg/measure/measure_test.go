package measure

import (
	"math"
	"testing"

	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frame = geometry.WGS84.EastNorthUp(geometry.WGS84.ToCartesian(geometry.NewCartographic(8, 47, 0)))

func at(east, north float64) geometry.Vector3 {
	return frame.ToWorld(east, north, 0)
}

func featureOf(kind style.Kind, cfg style.Config, points ...geometry.Vector3) *feature.Feature {
	f := feature.New(kind, cfg, nil)
	f.Positions = points
	f.State = feature.StateIdle
	return f
}

func TestPolylineLength(t *testing.T) {
	f := featureOf(style.KindPolyline, nil, at(0, 0), at(100, 0), at(100, 100))

	r := Measure(f, geometry.WGS84)

	assert.InEpsilon(t, 200, r.Length, 0.01)
	assert.Zero(t, r.Area)
	assert.False(t, r.Closed())
	assert.Equal(t, 3, r.Points)
}

func TestPolygonAreaAndPerimeter(t *testing.T) {
	f := featureOf(style.KindPolygon, nil, at(0, 0), at(100, 0), at(100, 100), at(0, 100))

	r := Measure(f, geometry.WGS84)

	assert.InEpsilon(t, 400, r.Length, 0.01)
	assert.InEpsilon(t, 10000, r.Area, 0.01)
	assert.True(t, r.Closed())
}

func TestPolygonWindingDoesNotMatter(t *testing.T) {
	cw := featureOf(style.KindPolygon, nil, at(0, 0), at(0, 100), at(100, 100), at(100, 0))
	ccw := featureOf(style.KindPolygon, nil, at(0, 0), at(100, 0), at(100, 100), at(0, 100))

	assert.InDelta(t, Measure(ccw, geometry.WGS84).Area, Measure(cw, geometry.WGS84).Area, 1)
}

func TestCircleArea(t *testing.T) {
	f := featureOf(style.KindCircle, nil, at(0, 0), at(500, 0))

	r := Measure(f, geometry.WGS84)

	assert.InEpsilon(t, math.Pi*500*500, r.Area, 0.01)
	assert.InEpsilon(t, 2*math.Pi*500, r.Length, 0.01)
}

func TestRectangleArea(t *testing.T) {
	f := featureOf(style.KindRectangle, nil, at(0, 0), at(200, 100))

	r := Measure(f, geometry.WGS84)

	assert.InEpsilon(t, 20000, r.Area, 0.02)
	assert.Less(t, r.Bounds.West, r.Bounds.East)
	assert.Less(t, r.Bounds.South, r.Bounds.North)
}

func TestExtrudedHeight(t *testing.T) {
	f := featureOf(style.KindWall, style.Config{"diffHeight": 30.0}, at(0, 0), at(100, 0))

	r := Measure(f, geometry.WGS84)

	assert.InDelta(t, 30, r.Height, 0.01)
}

func TestDegenerateFeatures(t *testing.T) {
	assert.Zero(t, Measure(featureOf(style.KindPolygon, nil, at(0, 0), at(1, 0)), geometry.WGS84).Area)
	assert.Zero(t, Measure(featureOf(style.KindPolyline, nil), geometry.WGS84).Length)
	assert.Zero(t, Measure(featureOf(style.KindPoint, nil, at(0, 0)), geometry.WGS84).Length)
}

func TestSummarize(t *testing.T) {
	features := []*feature.Feature{
		featureOf(style.KindPolyline, nil, at(0, 0), at(100, 0)),
		featureOf(style.KindPolyline, nil, at(0, 0), at(300, 0)),
		featureOf(style.KindPolygon, nil, at(0, 0), at(100, 0), at(100, 100), at(0, 100)),
	}

	s := Summarize(features, geometry.WGS84)

	assert.Equal(t, 3, s.Features)
	assert.Equal(t, 2, s.ByKind[style.KindPolyline])
	assert.Equal(t, []style.Kind{style.KindPolygon, style.KindPolyline}, s.Kinds())
	assert.InEpsilon(t, 800, s.TotalLength, 0.01)

	longest := FindLongest(s.Reports, 2)
	require.Len(t, longest, 2)
	assert.Equal(t, features[2].ID, longest[0].ID)
	assert.Equal(t, features[1].ID, longest[1].ID)

	largest := FindLargest(s.Reports, 10)
	require.Len(t, largest, 3)
	assert.Equal(t, features[2].ID, largest[0].ID)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{12.346, "12.35 m"},
		{1500, "1.500 km"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatLength(tt.value))
	}

	assert.Equal(t, "50.00 m²", FormatArea(50))
	assert.Equal(t, "2.00 ha", FormatArea(20000))
	assert.Equal(t, "3.000 km²", FormatArea(3e6))
}

func TestVolumeIsOpen(t *testing.T) {
	f := featureOf(style.KindVolume, nil, at(0, 0), at(100, 0), at(100, 100))

	r := Measure(f, geometry.WGS84)

	assert.InEpsilon(t, 200, r.Length, 0.01)
	assert.Zero(t, r.Area)
	assert.False(t, r.Closed())
}
