package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/scene"
)

const (
	minDistance = 1.0
	maxDistance = 2e7
	maxAngleX   = math.Pi/2 - 0.01
)

// orbitCamera circles a target in the local east-north-up space of the
// scene. raylib is y-up, so east maps to x, up to y and north to -z.
type orbitCamera struct {
	camera   rl.Camera3D
	distance float32
	angleX   float32
	angleY   float32
	target   rl.Vector3

	defaultDist   float32
	defaultAngleX float32
	defaultAngleY float32
}

func newOrbitCamera(extent float64) *orbitCamera {
	if extent <= 0 {
		extent = 1000
	}
	c := &orbitCamera{
		distance:      float32(extent * 2),
		angleX:        math.Pi / 3,
		defaultDist:   float32(extent * 2),
		defaultAngleX: math.Pi / 3,
		camera: rl.Camera3D{
			Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
			Fovy:       45.0,
			Projection: rl.CameraPerspective,
		},
	}
	c.update()
	return c
}

func toRaylib(v geometry.Vector3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Z), Z: float32(-v.Y)}
}

func fromRaylib(v rl.Vector3) geometry.Vector3 {
	return geometry.NewVector3(float64(v.X), float64(-v.Z), float64(v.Y))
}

// update places the camera from its angles
func (c *orbitCamera) update() {
	x := c.distance * float32(math.Cos(float64(c.angleX))) * float32(math.Sin(float64(c.angleY)))
	y := c.distance * float32(math.Sin(float64(c.angleX)))
	z := c.distance * float32(math.Cos(float64(c.angleX))) * float32(math.Cos(float64(c.angleY)))

	c.camera.Position = rl.Vector3{
		X: c.target.X + x,
		Y: c.target.Y + y,
		Z: c.target.Z + z,
	}
	c.camera.Target = c.target
}

func (c *orbitCamera) reset() {
	c.distance = c.defaultDist
	c.angleX = c.defaultAngleX
	c.angleY = c.defaultAngleY
	c.target = rl.Vector3{}
	c.update()
}

// top looks straight down, north up
func (c *orbitCamera) top() {
	c.angleX = maxAngleX
	c.angleY = 0
	c.update()
}

func (c *orbitCamera) rotate(delta rl.Vector2) {
	c.angleY -= delta.X * 0.01
	c.angleX += delta.Y * 0.01
	c.angleX = float32(math.Max(0.05, math.Min(maxAngleX, float64(c.angleX))))
	c.update()
}

func (c *orbitCamera) zoom(wheel float32) {
	c.distance *= 1 - wheel*0.1
	c.distance = float32(math.Max(minDistance, math.Min(maxDistance, float64(c.distance))))
	c.update()
}

// pan moves the target so the ground follows the mouse
func (c *orbitCamera) pan(delta rl.Vector2) {
	forward := rl.Vector3Normalize(rl.Vector3Subtract(c.target, c.camera.Position))
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, c.camera.Up))
	up := rl.Vector3Normalize(rl.Vector3CrossProduct(right, forward))

	panSpeed := c.distance * 0.001

	c.target = rl.Vector3Add(c.target, rl.Vector3Scale(right, -delta.X*panSpeed))
	c.target = rl.Vector3Add(c.target, rl.Vector3Scale(up, delta.Y*panSpeed))
	c.update()
}

// fit centers the camera on a local bounding box
func (c *orbitCamera) fit(bbox geometry.BoundingBox) {
	if bbox.IsEmpty() {
		return
	}
	size := bbox.Size()
	extent := math.Max(size.X, math.Max(size.Y, size.Z))
	c.target = toRaylib(bbox.Center())
	c.distance = float32(math.Max(minDistance, extent*1.5))
	c.update()
}

// inFront reports whether a raylib position lies ahead of the camera
func (c *orbitCamera) inFront(p rl.Vector3) bool {
	forward := rl.Vector3Subtract(c.camera.Target, c.camera.Position)
	return rl.Vector3DotProduct(rl.Vector3Subtract(p, c.camera.Position), forward) > 0
}

// Project returns the screen position of a local point
func (c *orbitCamera) Project(local geometry.Vector3) (scene.Point, bool) {
	p := toRaylib(local)
	if !c.inFront(p) {
		return scene.Point{}, false
	}
	s := rl.GetWorldToScreen(p, c.camera)
	return scene.Point{X: float64(s.X), Y: float64(s.Y)}, true
}

// Unproject returns the mouse ray through a screen position
func (c *orbitCamera) Unproject(p scene.Point) (geometry.Ray, bool) {
	ray := rl.GetMouseRay(rl.Vector2{X: float32(p.X), Y: float32(p.Y)}, c.camera)
	dir := fromRaylib(ray.Direction)
	if dir.Length() == 0 {
		return geometry.Ray{}, false
	}
	return geometry.NewRay(fromRaylib(ray.Position), dir), true
}
