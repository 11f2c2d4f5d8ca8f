// Package events carries draw and edit notifications to listeners.
package events

import (
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/style"
)

// Type names an event
type Type string

const (
	DrawStart       Type = "drawStart"
	DrawAddPoint    Type = "drawAddPoint"
	DrawRemovePoint Type = "drawRemovePoint"
	DrawMouseMove   Type = "drawMouseMove"
	DrawCreated     Type = "drawCreated"
	EditStart       Type = "editStart"
	EditMovePoint   Type = "editMovePoint"
	EditRemovePoint Type = "editRemovePoint"
	EditStop        Type = "editStop"
	Delete          Type = "delete"
)

// Event is one notification. Position is set for point-related events.
type Event struct {
	Type        Type
	Kind        style.Kind
	FeatureID   string
	Position    geometry.Vector3
	HasPosition bool
}

// At returns a copy of the event carrying position
func (e Event) At(position geometry.Vector3) Event {
	e.Position = position
	e.HasPosition = true
	return e
}

// Handler receives events
type Handler func(Event)

// Emitter is what sessions publish to
type Emitter interface {
	Emit(Event)
}
