package scene

import (
	"github.com/philipparndt/geodraw/pkg/geometry"
)

// Projection maps the local east-north-up space of a viewport to the
// screen. Implementations wrap a host's camera.
type Projection interface {
	// Project returns the screen point of a local position; ok is false
	// behind the camera
	Project(local geometry.Vector3) (Point, bool)
	// Unproject returns the camera ray through a screen point in local space
	Unproject(p Point) (geometry.Ray, bool)
}

// TerrainFunc answers terrain samples. It runs off the event loop.
type TerrainFunc func(positions []geometry.Cartographic) ([]geometry.Cartographic, error)

// Viewport is the host core shared by interactive viewers. It stores
// entities in insertion order, picks through a Projection onto the tangent
// plane of its origin and keeps the UI state a renderer draws. Rendering
// itself is left to the embedding host.
type Viewport struct {
	Dispatcher

	Projection Projection
	// Schedule runs a function on the host event loop; nil runs inline
	Schedule func(func())
	// Terrain answers SampleTerrain; nil keeps the sampled heights
	Terrain TerrainFunc
	// PickTolerance is the screen distance in pixels within which
	// PickEntity hits
	PickTolerance float64
	// OnChange is called after every change that needs a redraw
	OnChange func()

	Cursor         Cursor
	Tooltip        string
	TooltipAt      Point
	TooltipVisible bool
	PopupsEnabled  bool

	ellipsoid *geometry.Ellipsoid
	frame     geometry.Frame
	entities  map[string]Entity
	order     []string
}

// NewViewport creates a viewport centered on origin
func NewViewport(origin geometry.Cartographic, projection Projection) *Viewport {
	e := geometry.WGS84
	return &Viewport{
		Projection:    projection,
		PickTolerance: 6,
		PopupsEnabled: true,
		ellipsoid:     e,
		frame:         e.EastNorthUp(e.ToCartesian(origin)),
		entities:      make(map[string]Entity),
	}
}

// Frame returns the local frame of the viewport
func (v *Viewport) Frame() geometry.Frame {
	return v.frame
}

// Recenter moves the local frame to origin
func (v *Viewport) Recenter(origin geometry.Cartographic) {
	v.frame = v.ellipsoid.EastNorthUp(v.ellipsoid.ToCartesian(origin))
	v.changed()
}

// ScreenOf projects a world position
func (v *Viewport) ScreenOf(p geometry.Vector3) (Point, bool) {
	if v.Projection == nil {
		return Point{}, false
	}
	return v.Projection.Project(v.frame.ToLocal(p))
}

func (v *Viewport) changed() {
	if v.OnChange != nil {
		v.OnChange()
	}
}

func (v *Viewport) AddEntity(e Entity) {
	if _, ok := v.entities[e.ID]; !ok {
		v.order = append(v.order, e.ID)
	}
	v.entities[e.ID] = e.Clone()
	v.changed()
}

func (v *Viewport) UpdateEntity(e Entity) {
	v.AddEntity(e)
}

func (v *Viewport) RemoveEntity(id string) {
	if _, ok := v.entities[id]; !ok {
		return
	}
	delete(v.entities, id)
	for i, other := range v.order {
		if other == id {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
	v.changed()
}

func (v *Viewport) Entity(id string) (Entity, bool) {
	e, ok := v.entities[id]
	if !ok {
		return Entity{}, false
	}
	return e.Clone(), true
}

// Entities returns the entities in drawing order
func (v *Viewport) Entities() []Entity {
	out := make([]Entity, 0, len(v.order))
	for _, id := range v.order {
		out = append(out, v.entities[id])
	}
	return out
}

// Shapes returns the visible entities flattened in drawing order
func (v *Viewport) Shapes() []Shape {
	out := make([]Shape, 0, len(v.order))
	for _, id := range v.order {
		e := v.entities[id]
		if !e.Visible {
			continue
		}
		if s, ok := ShapeOf(e, v.ellipsoid); ok {
			out = append(out, s)
		}
	}
	return out
}

func (v *Viewport) Ray(p Point) (geometry.Ray, bool) {
	if v.Projection == nil {
		return geometry.Ray{}, false
	}
	local, ok := v.Projection.Unproject(p)
	if !ok {
		return geometry.Ray{}, false
	}
	origin := v.frame.ToWorld(local.Origin.X, local.Origin.Y, local.Origin.Z)
	dir := v.frame.East.Mul(local.Direction.X).
		Add(v.frame.North.Mul(local.Direction.Y)).
		Add(v.frame.Up.Mul(local.Direction.Z))
	return geometry.NewRay(origin, dir), true
}

// Pick intersects the camera ray with the tangent plane at the origin
func (v *Viewport) Pick(p Point) (geometry.Vector3, bool) {
	ray, ok := v.Ray(p)
	if !ok {
		return geometry.Vector3{}, false
	}
	return ray.IntersectPlane(v.frame.Origin, v.frame.Up)
}

func (v *Viewport) PickEntity(p Point) (string, bool) {
	for i := len(v.order) - 1; i >= 0; i-- {
		e := v.entities[v.order[i]]
		if !e.Visible {
			continue
		}
		s, ok := ShapeOf(e, v.ellipsoid)
		if ok && s.Hit(p, v.PickTolerance, v.ScreenOf) {
			return e.ID, true
		}
	}
	return "", false
}

func (v *Viewport) Ellipsoid() *geometry.Ellipsoid {
	return v.ellipsoid
}

func (v *Viewport) SetCursor(c Cursor) {
	if v.Cursor == c {
		return
	}
	v.Cursor = c
	v.changed()
}

func (v *Viewport) ShowTooltip(p Point, text string) {
	v.Tooltip = text
	v.TooltipAt = p
	v.TooltipVisible = true
	v.changed()
}

func (v *Viewport) HideTooltip() {
	if !v.TooltipVisible {
		return
	}
	v.TooltipVisible = false
	v.changed()
}

func (v *Viewport) SetPopupsEnabled(enabled bool) {
	v.PopupsEnabled = enabled
}

// SampleTerrain runs Terrain on its own goroutine and delivers the result
// through Schedule
func (v *Viewport) SampleTerrain(positions []geometry.Cartographic, done func([]geometry.Cartographic, error)) {
	in := append([]geometry.Cartographic(nil), positions...)
	if v.Terrain == nil {
		v.schedule(func() { done(in, nil) })
		return
	}
	terrain := v.Terrain
	go func() {
		out, err := terrain(in)
		v.schedule(func() { done(out, err) })
	}()
}

func (v *Viewport) schedule(fn func()) {
	if v.Schedule == nil {
		fn()
		return
	}
	v.Schedule(fn)
}
