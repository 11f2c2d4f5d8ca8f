package geometry

import (
	"math"

	"github.com/golang/geo/s1"
)

// Cartographic is a geographic position: longitude and latitude in degrees,
// height in meters above the ellipsoid.
type Cartographic struct {
	Lon    float64
	Lat    float64
	Height float64
}

// NewCartographic creates a cartographic position from degrees and meters
func NewCartographic(lon, lat, height float64) Cartographic {
	return Cartographic{Lon: lon, Lat: lat, Height: height}
}

// Ellipsoid describes a reference ellipsoid by its radii in meters
type Ellipsoid struct {
	Radii Vector3

	radiiSquared  Vector3
	oneOverRadii2 Vector3
}

// WGS84 is the ellipsoid every feature position is expressed against
var WGS84 = NewEllipsoid(6378137.0, 6378137.0, 6356752.3142451793)

// NewEllipsoid creates an ellipsoid with the given radii
func NewEllipsoid(x, y, z float64) *Ellipsoid {
	return &Ellipsoid{
		Radii:         NewVector3(x, y, z),
		radiiSquared:  NewVector3(x*x, y*y, z*z),
		oneOverRadii2: NewVector3(1/(x*x), 1/(y*y), 1/(z*z)),
	}
}

// GeodeticSurfaceNormal returns the unit normal of the ellipsoid surface
// below the given world position.
func (e *Ellipsoid) GeodeticSurfaceNormal(p Vector3) Vector3 {
	return NewVector3(
		p.X*e.oneOverRadii2.X,
		p.Y*e.oneOverRadii2.Y,
		p.Z*e.oneOverRadii2.Z,
	).Normalize()
}

// ToCartesian converts a cartographic position to world coordinates
func (e *Ellipsoid) ToCartesian(c Cartographic) Vector3 {
	lon := (s1.Angle(c.Lon) * s1.Degree).Radians()
	lat := (s1.Angle(c.Lat) * s1.Degree).Radians()

	cosLat := math.Cos(lat)
	normal := NewVector3(cosLat*math.Cos(lon), cosLat*math.Sin(lon), math.Sin(lat))

	k := NewVector3(
		e.radiiSquared.X*normal.X,
		e.radiiSquared.Y*normal.Y,
		e.radiiSquared.Z*normal.Z,
	)
	gamma := math.Sqrt(normal.Dot(k))
	surface := k.Mul(1 / gamma)

	return surface.Add(normal.Mul(c.Height))
}

// ToCartographic converts a world position to geographic coordinates.
// The second return value is false for positions at the ellipsoid center.
func (e *Ellipsoid) ToCartographic(p Vector3) (Cartographic, bool) {
	if p.Length() < 1 {
		return Cartographic{}, false
	}

	// Bowring's iteration on the geocentric latitude
	a := e.Radii.X
	b := e.Radii.Z
	e2 := 1 - (b*b)/(a*a)
	ep2 := (a*a)/(b*b) - 1

	r := math.Hypot(p.X, p.Y)
	lon := math.Atan2(p.Y, p.X)

	if r < 1e-9 {
		lat := math.Pi / 2
		if p.Z < 0 {
			lat = -lat
		}
		return Cartographic{
			Lon:    s1.Angle(lon).Degrees(),
			Lat:    s1.Angle(lat).Degrees(),
			Height: math.Abs(p.Z) - b,
		}, true
	}

	beta := math.Atan2(a*p.Z, b*r)
	lat := math.Atan2(p.Z+ep2*b*math.Pow(math.Sin(beta), 3), r-e2*a*math.Pow(math.Cos(beta), 3))
	for i := 0; i < 4; i++ {
		beta = math.Atan2((b/a)*math.Sin(lat), math.Cos(lat))
		next := math.Atan2(p.Z+ep2*b*math.Pow(math.Sin(beta), 3), r-e2*a*math.Pow(math.Cos(beta), 3))
		if math.Abs(next-lat) < 1e-15 {
			lat = next
			break
		}
		lat = next
	}

	sinLat := math.Sin(lat)
	n := a / math.Sqrt(1-e2*sinLat*sinLat)
	var height float64
	if math.Abs(math.Cos(lat)) > 1e-10 {
		height = r/math.Cos(lat) - n
	} else {
		height = math.Abs(p.Z) - b
	}

	return Cartographic{
		Lon:    s1.Angle(lon).Degrees(),
		Lat:    s1.Angle(lat).Degrees(),
		Height: height,
	}, true
}

// Frame is a local east-north-up frame anchored at a world position
type Frame struct {
	Origin Vector3
	East   Vector3
	North  Vector3
	Up     Vector3
}

// EastNorthUp returns the local tangent frame at the given world position
func (e *Ellipsoid) EastNorthUp(origin Vector3) Frame {
	up := e.GeodeticSurfaceNormal(origin)
	east := NewVector3(-origin.Y, origin.X, 0).Normalize()
	if east.IsZero() {
		east = NewVector3(0, 1, 0)
	}
	north := up.Cross(east).Normalize()
	return Frame{Origin: origin, East: east, North: north, Up: up}
}

// ToWorld converts local east/north/up offsets in meters to world coordinates
func (f Frame) ToWorld(east, north, up float64) Vector3 {
	return f.Origin.
		Add(f.East.Mul(east)).
		Add(f.North.Mul(north)).
		Add(f.Up.Mul(up))
}

// ToLocal converts a world position to east/north/up offsets from the origin
func (f Frame) ToLocal(p Vector3) Vector3 {
	d := p.Sub(f.Origin)
	return NewVector3(d.Dot(f.East), d.Dot(f.North), d.Dot(f.Up))
}

// HeightAbove returns the ellipsoid height of a world position, zero when
// the position cannot be converted.
func (e *Ellipsoid) HeightAbove(p Vector3) float64 {
	c, ok := e.ToCartographic(p)
	if !ok {
		return 0
	}
	return c.Height
}

// WithHeight returns p moved along its surface normal so its ellipsoid
// height equals height.
func (e *Ellipsoid) WithHeight(p Vector3, height float64) Vector3 {
	c, ok := e.ToCartographic(p)
	if !ok {
		return p
	}
	c.Height = height
	return e.ToCartesian(c)
}

// MaxHeight returns the largest ellipsoid height among the points
func (e *Ellipsoid) MaxHeight(points []Vector3) float64 {
	if len(points) == 0 {
		return 0
	}
	maxHeight := -math.MaxFloat64
	for _, p := range points {
		maxHeight = math.Max(maxHeight, e.HeightAbove(p))
	}
	return maxHeight
}

// MinHeight returns the smallest ellipsoid height among the points
func (e *Ellipsoid) MinHeight(points []Vector3) float64 {
	if len(points) == 0 {
		return 0
	}
	minHeight := math.MaxFloat64
	for _, p := range points {
		minHeight = math.Min(minHeight, e.HeightAbove(p))
	}
	return minHeight
}
