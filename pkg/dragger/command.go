package dragger

import "github.com/philipparndt/geodraw/pkg/geometry"

// Command is a pointer intent addressed to one dragger
type Command interface {
	Target() string
}

// BeginDrag starts dragging
type BeginDrag struct {
	DraggerID string
}

// UpdateDrag moves a dragged marker. Ray is the camera ray through the
// pointer and is used by draggers constrained to an axis.
type UpdateDrag struct {
	DraggerID string
	Position  geometry.Vector3
	Ray       geometry.Ray
}

// EndDrag finishes dragging
type EndDrag struct {
	DraggerID string
}

// RemovePoint asks to delete the control point behind a dragger
type RemovePoint struct {
	DraggerID string
}

func (c BeginDrag) Target() string   { return c.DraggerID }
func (c UpdateDrag) Target() string  { return c.DraggerID }
func (c EndDrag) Target() string     { return c.DraggerID }
func (c RemovePoint) Target() string { return c.DraggerID }
