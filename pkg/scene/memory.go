package scene

import (
	"github.com/philipparndt/geodraw/pkg/geometry"
)

// Memory is a headless host. Screen coordinates are east/north offsets in
// meters on the tangent plane at the origin, so (100, 0) picks the point
// 100 m east of the origin. Terrain callbacks queue until Flush.
type Memory struct {
	Dispatcher

	// PickTolerance is the world distance within which PickEntity hits
	PickTolerance float64
	// CameraHeight places the camera above the origin for Ray
	CameraHeight float64
	// NoGlobe makes every Pick miss
	NoGlobe bool
	// TerrainHeight answers terrain samples; nil means height 0
	TerrainHeight func(lon, lat float64) float64

	Cursor         Cursor
	Tooltip        string
	TooltipAt      Point
	TooltipVisible bool
	PopupsEnabled  bool

	ellipsoid *geometry.Ellipsoid
	frame     geometry.Frame
	entities  map[string]Entity
	order     []string
	pending   []func()
}

// NewMemory creates a headless host centered on origin
func NewMemory(origin geometry.Cartographic) *Memory {
	e := geometry.WGS84
	return &Memory{
		PickTolerance: 1,
		CameraHeight:  1000,
		PopupsEnabled: true,
		ellipsoid:     e,
		frame:         e.EastNorthUp(e.ToCartesian(origin)),
		entities:      make(map[string]Entity),
	}
}

// Frame returns the tangent frame screen coordinates are measured in
func (m *Memory) Frame() geometry.Frame {
	return m.frame
}

// World returns the world position screen point (x, y) picks
func (m *Memory) World(x, y float64) geometry.Vector3 {
	return m.frame.ToWorld(x, y, 0)
}

// Screen returns the screen point above a world position
func (m *Memory) Screen(p geometry.Vector3) Point {
	local := m.frame.ToLocal(p)
	return Point{X: local.X, Y: local.Y}
}

func (m *Memory) AddEntity(e Entity) {
	if _, exists := m.entities[e.ID]; !exists {
		m.order = append(m.order, e.ID)
	}
	m.entities[e.ID] = e.Clone()
}

func (m *Memory) UpdateEntity(e Entity) {
	m.AddEntity(e)
}

func (m *Memory) RemoveEntity(id string) {
	if _, exists := m.entities[id]; !exists {
		return
	}
	delete(m.entities, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Memory) Entity(id string) (Entity, bool) {
	e, ok := m.entities[id]
	if !ok {
		return Entity{}, false
	}
	return e.Clone(), true
}

// Entities returns every entity in insertion order
func (m *Memory) Entities() []Entity {
	out := make([]Entity, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entities[id].Clone())
	}
	return out
}

// EntitiesOwnedBy returns the entities belonging to a feature
func (m *Memory) EntitiesOwnedBy(owner string) []Entity {
	var out []Entity
	for _, e := range m.Entities() {
		if e.Owner == owner {
			out = append(out, e)
		}
	}
	return out
}

func (m *Memory) Pick(p Point) (geometry.Vector3, bool) {
	if m.NoGlobe {
		return geometry.Vector3{}, false
	}
	return m.World(p.X, p.Y), true
}

func (m *Memory) PickEntity(p Point) (string, bool) {
	world, ok := m.Pick(p)
	if !ok {
		return "", false
	}
	for i := len(m.order) - 1; i >= 0; i-- {
		e := m.entities[m.order[i]]
		if !e.Visible {
			continue
		}
		for _, pos := range e.Positions {
			if pos.Distance(world) <= m.PickTolerance {
				return e.ID, true
			}
		}
	}
	return "", false
}

func (m *Memory) Ray(p Point) (geometry.Ray, bool) {
	target, ok := m.Pick(p)
	if !ok {
		return geometry.Ray{}, false
	}
	camera := m.frame.ToWorld(0, 0, m.CameraHeight)
	return geometry.NewRay(camera, target.Sub(camera)), true
}

func (m *Memory) Ellipsoid() *geometry.Ellipsoid {
	return m.ellipsoid
}

func (m *Memory) SetCursor(c Cursor) {
	m.Cursor = c
}

func (m *Memory) ShowTooltip(p Point, text string) {
	m.Tooltip = text
	m.TooltipAt = p
	m.TooltipVisible = true
}

func (m *Memory) HideTooltip() {
	m.TooltipVisible = false
}

func (m *Memory) SetPopupsEnabled(enabled bool) {
	m.PopupsEnabled = enabled
}

func (m *Memory) SampleTerrain(positions []geometry.Cartographic, done func([]geometry.Cartographic, error)) {
	sampled := make([]geometry.Cartographic, len(positions))
	copy(sampled, positions)
	m.pending = append(m.pending, func() {
		for i := range sampled {
			sampled[i].Height = 0
			if m.TerrainHeight != nil {
				sampled[i].Height = m.TerrainHeight(sampled[i].Lon, sampled[i].Lat)
			}
		}
		done(sampled, nil)
	})
}

// Pending returns the number of queued terrain callbacks
func (m *Memory) Pending() int {
	return len(m.pending)
}

// Flush runs queued terrain callbacks and returns how many ran
func (m *Memory) Flush() int {
	n := 0
	for len(m.pending) > 0 {
		next := m.pending[0]
		m.pending = m.pending[1:]
		next()
		n++
	}
	return n
}

// Move sends a pointer move
func (m *Memory) Move(x, y float64) {
	m.Dispatch(PointerEvent{Kind: PointerMove, Position: Point{X: x, Y: y}})
}

// Down sends a left button press
func (m *Memory) Down(x, y float64) {
	m.Dispatch(PointerEvent{Kind: PointerDown, Position: Point{X: x, Y: y}})
}

// Up sends a left button release
func (m *Memory) Up(x, y float64) {
	m.Dispatch(PointerEvent{Kind: PointerUp, Position: Point{X: x, Y: y}})
}

// Click sends a left click
func (m *Memory) Click(x, y float64) {
	m.Dispatch(PointerEvent{Kind: PointerClick, Position: Point{X: x, Y: y}})
}

// RightClick sends a right click
func (m *Memory) RightClick(x, y float64) {
	m.Dispatch(PointerEvent{Kind: PointerRightClick, Position: Point{X: x, Y: y}})
}

// DoubleClick sends what a real pointer produces for a double click: the
// click of the second press followed by the double click itself
func (m *Memory) DoubleClick(x, y float64) {
	m.Click(x, y)
	m.Dispatch(PointerEvent{Kind: PointerDoubleClick, Position: Point{X: x, Y: y}})
}

// Drag presses at from, moves to to and releases there
func (m *Memory) Drag(from, to Point) {
	m.Down(from.X, from.Y)
	m.Move(to.X, to.Y)
	m.Up(to.X, to.Y)
}
