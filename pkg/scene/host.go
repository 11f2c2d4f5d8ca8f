// Package scene defines the contract between the authoring engine and the
// viewport that renders it. A host stores entities, answers picking
// queries, shows transient UI and delivers pointer input.
package scene

import (
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/style"
)

// Point is a position on screen in pixels
type Point struct {
	X, Y float64
}

// Entity is one rendered graphic
type Entity struct {
	ID        string
	Kind      style.Kind
	Positions []geometry.Vector3
	Attr      style.Attr
	Visible   bool

	// Dynamic marks geometry that changes every frame while a pointer
	// drags it; hosts should re-read it instead of caching.
	Dynamic bool

	// Owner is the feature id the entity belongs to
	Owner string
}

// Clone returns a copy that shares nothing with e
func (e Entity) Clone() Entity {
	e.Positions = geometry.ClonePoints(e.Positions)
	if e.Attr != nil {
		e.Attr = e.Attr.Clone()
	}
	return e
}

// Cursor is a pointer cursor shape
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorCrosshair
	CursorPointer
	CursorMove
)

func (c Cursor) String() string {
	switch c {
	case CursorCrosshair:
		return "crosshair"
	case CursorPointer:
		return "pointer"
	case CursorMove:
		return "move"
	}
	return "default"
}

// Entities stores rendered graphics
type Entities interface {
	AddEntity(e Entity)
	UpdateEntity(e Entity)
	RemoveEntity(id string)
	Entity(id string) (Entity, bool)
}

// Picker resolves screen positions against the scene
type Picker interface {
	// Pick returns the world position under p on terrain or the globe
	Pick(p Point) (geometry.Vector3, bool)
	// PickEntity returns the id of the topmost entity under p
	PickEntity(p Point) (string, bool)
	// Ray returns the camera ray through p
	Ray(p Point) (geometry.Ray, bool)
	Ellipsoid() *geometry.Ellipsoid
}

// UI is the transient interface chrome a session drives
type UI interface {
	SetCursor(c Cursor)
	ShowTooltip(p Point, text string)
	HideTooltip()
	// SetPopupsEnabled toggles the host's own click popups so they do not
	// fire while a session owns the pointer
	SetPopupsEnabled(enabled bool)
}

// Terrain samples terrain heights. done must be called on the host's
// event loop, never from another goroutine.
type Terrain interface {
	SampleTerrain(positions []geometry.Cartographic, done func([]geometry.Cartographic, error))
}

// Input delivers pointer events to bound handlers
type Input interface {
	// Bind registers h and returns a function that unbinds it
	Bind(h PointerHandler) func()
}

// Host is everything a viewport provides
type Host interface {
	Entities
	Picker
	UI
	Terrain
	Input
}
