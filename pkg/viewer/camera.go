package viewer

import (
	"math"

	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/scene"
)

const (
	minPitch    = 0.1
	maxPitch    = math.Pi/2 - 0.01
	minDistance = 1.0
	maxDistance = 2e7
)

var worldUp = geometry.NewVector3(0, 0, 1)

// Camera orbits a target in the local east-north-up space of a view
type Camera struct {
	Target   geometry.Vector3
	Distance float64
	Pitch    float64 // Elevation above the horizon in radians
	Heading  float64 // Clockwise from north in radians
	FOV      float64 // Field of view in radians

	Width  float64
	Height float64
}

// NewCamera creates a camera that shows about extent meters around the
// origin
func NewCamera(extent float64) *Camera {
	return &Camera{
		Distance: extent * 2.0,
		Pitch:    math.Pi / 3,
		FOV:      math.Pi / 4, // 45 degrees
		Width:    800,
		Height:   600,
	}
}

// Position returns the camera position
func (c *Camera) Position() geometry.Vector3 {
	cosP := math.Cos(c.Pitch)
	offset := geometry.NewVector3(
		-math.Sin(c.Heading)*cosP,
		-math.Cos(c.Heading)*cosP,
		math.Sin(c.Pitch),
	)
	return c.Target.Add(offset.Mul(c.Distance))
}

func (c *Camera) basis() (forward, right, up geometry.Vector3) {
	forward = c.Target.Sub(c.Position()).Normalize()
	right = forward.Cross(worldUp).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

// Rotate changes pitch and heading. Pitch is clamped so the camera stays
// above the ground and never looks straight down.
func (c *Camera) Rotate(deltaPitch, deltaHeading float64) {
	c.Pitch = math.Max(minPitch, math.Min(maxPitch, c.Pitch+deltaPitch))
	c.Heading = math.Mod(c.Heading+deltaHeading, 2*math.Pi)
}

// Zoom changes the camera distance
func (c *Camera) Zoom(delta float64) {
	c.Distance *= (1.0 + delta)
	c.Distance = math.Max(minDistance, math.Min(maxDistance, c.Distance))
}

// MetersPerPixel returns the ground size of one pixel at the target
func (c *Camera) MetersPerPixel() float64 {
	if c.Height <= 0 {
		return 1
	}
	return 2 * c.Distance * math.Tan(c.FOV/2) / c.Height
}

// Pan moves the target along the ground by a screen offset in pixels
func (c *Camera) Pan(dx, dy float64) {
	forward, right, _ := c.basis()
	flatRight := geometry.NewVector3(right.X, right.Y, 0).Normalize()
	flatForward := geometry.NewVector3(forward.X, forward.Y, 0).Normalize()
	mpp := c.MetersPerPixel()
	c.Target = c.Target.Sub(flatRight.Mul(dx * mpp)).Add(flatForward.Mul(dy * mpp))
}

// Fit centers the camera on a local bounding box
func (c *Camera) Fit(bbox geometry.BoundingBox) {
	if bbox.IsEmpty() {
		return
	}
	center := bbox.Center()
	c.Target = geometry.NewVector3(center.X, center.Y, 0)
	size := bbox.Size()
	c.Distance = math.Max(minDistance, math.Max(size.X, size.Y)*1.5)
}

// Project projects a local point to screen coordinates. ok is false for
// points behind the camera.
func (c *Camera) Project(point geometry.Vector3) (scene.Point, bool) {
	forward, right, up := c.basis()

	relative := point.Sub(c.Position())
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)
	if z <= 0.01 {
		return scene.Point{}, false
	}

	aspect := c.Width / c.Height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(z*fovScale*aspect))*(c.Width/2) + (c.Width / 2)
	screenY := (-y/(z*fovScale))*(c.Height/2) + (c.Height / 2)
	return scene.Point{X: screenX, Y: screenY}, true
}

// Unproject returns the camera ray through a screen point
func (c *Camera) Unproject(p scene.Point) (geometry.Ray, bool) {
	if c.Width <= 0 || c.Height <= 0 {
		return geometry.Ray{}, false
	}
	// Normalized device coordinates (-1 to 1)
	ndcX := (2.0 * p.X / c.Width) - 1.0
	ndcY := 1.0 - (2.0 * p.Y / c.Height)

	aspect := c.Width / c.Height
	fovScale := math.Tan(c.FOV / 2)

	forward, right, up := c.basis()
	dir := forward.Add(right.Mul(ndcX * fovScale * aspect)).Add(up.Mul(ndcY * fovScale))
	return geometry.NewRay(c.Position(), dir), true
}
