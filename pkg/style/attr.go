package style

import (
	"math"

	"github.com/philipparndt/geodraw/pkg/geometry"
)

// Attr is the renderer-native attribute bag of one graphic. Keys follow
// the renderer's graphics property names; values are the typed values in
// this file or plain primitives.
type Attr map[string]any

// HeightReference positions a graphic relative to the terrain
type HeightReference int

const (
	HeightNone HeightReference = iota
	HeightClampToGround
	HeightRelativeToGround
)

func (h HeightReference) String() string {
	switch h {
	case HeightClampToGround:
		return "CLAMP_TO_GROUND"
	case HeightRelativeToGround:
		return "RELATIVE_TO_GROUND"
	}
	return "NONE"
}

// NearFarScalar scales a value between two camera distances
type NearFarScalar struct {
	Near      float64
	NearValue float64
	Far       float64
	FarValue  float64
}

// DistanceDisplayCondition limits visibility to a camera distance range
type DistanceDisplayCondition struct {
	Near float64
	Far  float64
}

// Cartesian2 is a 2D value such as a pixel offset or repeat count
type Cartesian2 struct {
	X, Y float64
}

// HeadingPitchRoll is an orientation in radians
type HeadingPitchRoll struct {
	Heading float64
	Pitch   float64
	Roll    float64
}

// Plane is a plane in Hessian normal form
type Plane struct {
	Normal   geometry.Vector3
	Distance float64
}

// Set stores a value
func (a Attr) Set(key string, value any) {
	a[key] = value
}

// Unset removes a derived attribute so the renderer falls back to its default
func (a Attr) Unset(key string) {
	delete(a, key)
}

// Has reports whether key is present
func (a Attr) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Float returns a numeric attribute
func (a Attr) Float(key string) (float64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// Color returns a color attribute
func (a Attr) Color(key string) (Color, bool) {
	c, ok := a[key].(Color)
	return c, ok
}

// Material returns the material attribute
func (a Attr) Material(key string) (Material, bool) {
	m, ok := a[key].(Material)
	return m, ok
}

// Clone returns a copy of the bag. Slice values are copied as well so a
// clone never aliases position or height arrays.
func (a Attr) Clone() Attr {
	out := make(Attr, len(a))
	for k, v := range a {
		switch vv := v.(type) {
		case []float64:
			out[k] = append([]float64(nil), vv...)
		case []geometry.Vector3:
			out[k] = geometry.ClonePoints(vv)
		default:
			out[k] = v
		}
	}
	return out
}

// disabledDepthTest is the distance at which depth testing is switched off:
// always, so the graphic draws on top of terrain.
var disabledDepthTest = math.Inf(1)

// Rectangle is a lon/lat extent in degrees
type Rectangle struct {
	West, South, East, North float64
}
