// Package dragger creates the draggable markers an edit session places on
// a feature, and defines the commands pointer input is translated into.
package dragger

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/scene"
	"github.com/philipparndt/geodraw/pkg/style"
)

// PointType is the role of a dragger
type PointType int

const (
	// Control moves one control point
	Control PointType = iota
	// MoveAll translates the whole feature
	MoveAll
	// AddMidPoint inserts a control point on an edge
	AddMidPoint
	// MoveHeight drags along the local up axis
	MoveHeight
	// EditAttribute changes a style dimension such as a radius
	EditAttribute
)

func (t PointType) String() string {
	switch t {
	case Control:
		return "control"
	case MoveAll:
		return "moveAll"
	case AddMidPoint:
		return "addMidPoint"
	case MoveHeight:
		return "moveHeight"
	case EditAttribute:
		return "editAttribute"
	}
	return fmt.Sprintf("pointType(%d)", int(t))
}

// ParsePointType parses the String form of a point type
func ParsePointType(s string) (PointType, bool) {
	for _, t := range []PointType{Control, MoveAll, AddMidPoint, MoveHeight, EditAttribute} {
		if t.String() == s {
			return t, true
		}
	}
	return Control, false
}

// Dragger is one draggable marker
type Dragger struct {
	ID       string
	Type     PointType
	Index    int
	Position geometry.Vector3
	Tooltip  string

	// EntityID is the marker entity; for reused draggers it is the
	// feature's own entity
	EntityID string
	Reused   bool

	// Owner is the feature the dragger edits
	Owner string

	// Attribute names the style key an EditAttribute dragger changes
	Attribute string
}

// Options configures Create. The zero value creates a Control dragger.
type Options struct {
	Type      PointType
	Position  geometry.Vector3
	Tooltip   string
	Index     int
	Owner     string
	Attribute string

	// ReuseEntity makes the dragger use an existing entity instead of
	// creating a marker
	ReuseEntity string
}

// Colors maps point types to marker colors
type Colors map[PointType]style.Color

// DefaultColors returns the standard marker colors
func DefaultColors() Colors {
	return Colors{
		Control:       mustColor("#1E90FF"),
		AddMidPoint:   mustColor("#FFFF00").WithAlpha(0.5),
		MoveAll:       mustColor("#FF0000"),
		MoveHeight:    mustColor("#9500EB"),
		EditAttribute: mustColor("#FFA500"),
	}
}

func mustColor(s string) style.Color {
	c, err := style.ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

var pixelSizes = map[PointType]float64{
	Control:       10,
	AddMidPoint:   8,
	MoveAll:       12,
	MoveHeight:    10,
	EditAttribute: 10,
}

// Factory creates and destroys dragger markers on a host
type Factory struct {
	host   scene.Entities
	colors Colors
}

// NewFactory creates a factory. Missing colors fall back to the defaults.
func NewFactory(host scene.Entities, colors Colors) *Factory {
	merged := DefaultColors()
	for t, c := range colors {
		merged[t] = c
	}
	return &Factory{host: host, colors: merged}
}

// Color returns the marker color of t
func (f *Factory) Color(t PointType) style.Color {
	return f.colors[t]
}

// Create makes a dragger and, unless it reuses an entity, its marker
func (f *Factory) Create(o Options) *Dragger {
	d := &Dragger{
		ID:        uuid.NewString(),
		Type:      o.Type,
		Index:     o.Index,
		Position:  o.Position,
		Tooltip:   o.Tooltip,
		Owner:     o.Owner,
		Attribute: o.Attribute,
	}
	if o.ReuseEntity != "" {
		d.EntityID = o.ReuseEntity
		d.Reused = true
		return d
	}

	d.EntityID = "dragger-" + d.ID
	f.host.AddEntity(f.marker(d))
	return d
}

// Move repositions a dragger and its marker
func (f *Factory) Move(d *Dragger, p geometry.Vector3) {
	d.Position = p
	if d.Reused {
		return
	}
	f.host.UpdateEntity(f.marker(d))
}

// Destroy removes the marker of d unless it is reused
func (f *Factory) Destroy(d *Dragger) {
	if d == nil || d.Reused {
		return
	}
	f.host.RemoveEntity(d.EntityID)
}

func (f *Factory) marker(d *Dragger) scene.Entity {
	return scene.Entity{
		ID:        d.EntityID,
		Kind:      style.KindPoint,
		Positions: []geometry.Vector3{d.Position},
		Attr: style.Attr{
			"pixelSize":                pixelSizes[d.Type],
			"color":                    f.colors[d.Type],
			"outlineColor":             style.White,
			"outlineWidth":             2.0,
			"disableDepthTestDistance": math.Inf(1),
			"dragger":                  d.Type.String(),
		},
		Visible: true,
		Dynamic: true,
		Owner:   d.Owner,
	}
}
