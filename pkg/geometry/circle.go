package geometry

import (
	"fmt"
	"math"
)

// EllipseShape describes a flat ellipse lying in the local tangent plane of
// its center. Rotation is measured in radians counter-clockwise from north,
// the same convention the renderer uses for the ellipse rotation attribute.
type EllipseShape struct {
	Center        Vector3
	SemiMajorAxis float64
	SemiMinorAxis float64
	Rotation      float64
}

// NewCircle creates a circular ellipse shape
func NewCircle(center Vector3, radius float64) EllipseShape {
	return EllipseShape{Center: center, SemiMajorAxis: radius, SemiMinorAxis: radius}
}

// PointAt returns the boundary point at the given angle (radians,
// counter-clockwise from the major axis) in world space.
func (s EllipseShape) PointAt(e *Ellipsoid, angle float64) Vector3 {
	frame := e.EastNorthUp(s.Center)

	// Major axis points north before rotation
	x := s.SemiMinorAxis * -math.Sin(angle)
	y := s.SemiMajorAxis * math.Cos(angle)

	cosR := math.Cos(s.Rotation)
	sinR := math.Sin(s.Rotation)
	east := x*cosR - y*sinR
	north := x*sinR + y*cosR

	return frame.ToWorld(east, north, 0)
}

// MajorAxisPoint returns the boundary point at the end of the major axis
func (s EllipseShape) MajorAxisPoint(e *Ellipsoid) Vector3 {
	return s.PointAt(e, 0)
}

// MinorAxisPoint returns the boundary point at the end of the minor axis
func (s EllipseShape) MinorAxisPoint(e *Ellipsoid) Vector3 {
	return s.PointAt(e, math.Pi/2)
}

// Outline samples the ellipse boundary with the given number of segments
func (s EllipseShape) Outline(e *Ellipsoid, segments int) []Vector3 {
	if segments < 3 {
		segments = 3
	}
	points := make([]Vector3, 0, segments)
	for i := 0; i < segments; i++ {
		angle := float64(i) * 2.0 * math.Pi / float64(segments)
		points = append(points, s.PointAt(e, angle))
	}
	return points
}

// Area returns the area of the ellipse in square meters
func (s EllipseShape) Area() float64 {
	return math.Pi * s.SemiMajorAxis * s.SemiMinorAxis
}

// RotationTowards returns the ellipse rotation that makes the major axis
// point from center towards target, measured in the center's tangent plane.
func RotationTowards(e *Ellipsoid, center, target Vector3) float64 {
	local := e.EastNorthUp(center).ToLocal(target)
	if local.X == 0 && local.Y == 0 {
		return 0
	}
	return math.Atan2(-local.X, local.Y)
}

// SurfaceDistance returns the horizontal distance between two points in
// the tangent plane of the first one, ignoring their height difference.
func SurfaceDistance(e *Ellipsoid, from, to Vector3) float64 {
	local := e.EastNorthUp(from).ToLocal(to)
	return math.Hypot(local.X, local.Y)
}

// CircleThroughPoints returns the circle through three points that lie in
// the tangent plane of the first point. It is used to fit a pulse circle to
// an arc picked on the surface.
//
// Uses the 3-point determinant formula:
//
//	D = 2(x₁(y₂-y₃) + x₂(y₃-y₁) + x₃(y₁-y₂))
//	cx = ((x₁²+y₁²)(y₂-y₃) + (x₂²+y₂²)(y₃-y₁) + (x₃²+y₃²)(y₁-y₂)) / D
//	cy = ((x₁²+y₁²)(x₃-x₂) + (x₂²+y₂²)(x₁-x₃) + (x₃²+y₃²)(x₂-x₁)) / D
func CircleThroughPoints(e *Ellipsoid, p1, p2, p3 Vector3) (EllipseShape, error) {
	frame := e.EastNorthUp(p1)
	a := frame.ToLocal(p1)
	b := frame.ToLocal(p2)
	c := frame.ToLocal(p3)

	x1, y1 := a.X, a.Y
	x2, y2 := b.X, b.Y
	x3, y3 := c.X, c.Y

	D := 2.0 * (x1*(y2-y3) + x2*(y3-y1) + x3*(y1-y2))
	if math.Abs(D) < 1e-10 {
		return EllipseShape{}, fmt.Errorf("points are collinear")
	}

	x1sq := x1*x1 + y1*y1
	x2sq := x2*x2 + y2*y2
	x3sq := x3*x3 + y3*y3

	cx := (x1sq*(y2-y3) + x2sq*(y3-y1) + x3sq*(y1-y2)) / D
	cy := (x1sq*(x3-x2) + x2sq*(x1-x3) + x3sq*(x2-x1)) / D

	radius := math.Hypot(x1-cx, y1-cy)
	return NewCircle(frame.ToWorld(cx, cy, 0), radius), nil
}
