package geometry

import "math"

// Ray is a half line from Origin along the unit Direction
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// NewRay creates a ray, normalizing the direction
func NewRay(origin, direction Vector3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) Vector3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IsZero reports whether the ray carries no direction
func (r Ray) IsZero() bool {
	return r.Direction.IsZero()
}

// DistanceToPoint calculates distance from ray to point
func (r Ray) DistanceToPoint(point Vector3) float64 {
	t := point.Sub(r.Origin).Dot(r.Direction)
	if t < 0 {
		t = 0
	}
	return point.Distance(r.At(t))
}

// ClosestPointOnLine returns the point on the infinite line through
// lineOrigin along lineDir that is closest to the ray. It is how vertical
// drags are constrained: the line is the local up axis of a vertex.
// ok is false when the ray runs parallel to the line.
func (r Ray) ClosestPointOnLine(lineOrigin, lineDir Vector3) (Vector3, bool) {
	u := lineDir.Normalize()
	v := r.Direction
	w := lineOrigin.Sub(r.Origin)

	b := u.Dot(v)
	d := u.Dot(w)
	e := v.Dot(w)
	denom := 1 - b*b
	if math.Abs(denom) < 1e-12 {
		return lineOrigin, false
	}

	s := (b*e - d) / denom
	return lineOrigin.Add(u.Mul(s)), true
}

// IntersectPlane intersects the ray with the plane through point with the
// given normal. ok is false when the ray is parallel or points away.
func (r Ray) IntersectPlane(point, normal Vector3) (Vector3, bool) {
	denom := normal.Dot(r.Direction)
	if math.Abs(denom) < 1e-12 {
		return Vector3{}, false
	}
	t := point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return Vector3{}, false
	}
	return r.At(t), true
}
