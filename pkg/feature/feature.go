// Package feature holds drawn features and the store that owns them.
package feature

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/style"
)

// State is the lifecycle state of a feature
type State int

const (
	StateIdle State = iota
	StateDrawing
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateDrawing:
		return "drawing"
	case StateEditing:
		return "editing"
	}
	return "idle"
}

// Feature is one user-authored geometry
type Feature struct {
	ID            string
	Kind          style.Kind
	Style         style.Config
	Positions     []geometry.Vector3
	DrawAttribute map[string]any
	Visible       bool
	State         State
}

// New creates a visible feature in drawing state with a fresh id
func New(kind style.Kind, cfg style.Config, drawAttr map[string]any) *Feature {
	if cfg == nil {
		cfg = style.Config{}
	}
	if drawAttr == nil {
		drawAttr = map[string]any{}
	}
	return &Feature{
		ID:            NewID(),
		Kind:          kind,
		Style:         cfg,
		DrawAttribute: drawAttr,
		Visible:       true,
		State:         StateDrawing,
	}
}

// NewID returns a random feature id
func NewID() string {
	return uuid.NewString()
}

// Clone returns a deep copy
func (f *Feature) Clone() *Feature {
	out := &Feature{}
	if err := copier.CopyWithOption(out, f, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched types, which cannot happen here
		panic(fmt.Sprintf("clone feature %s: %v", f.ID, err))
	}
	return out
}

// Len returns the number of positions
func (f *Feature) Len() int {
	return len(f.Positions)
}

// Last returns the last position
func (f *Feature) Last() (geometry.Vector3, bool) {
	if len(f.Positions) == 0 {
		return geometry.Vector3{}, false
	}
	return f.Positions[len(f.Positions)-1], true
}

func (f *Feature) String() string {
	return fmt.Sprintf("%s %s (%d points, %s)", f.Kind, f.ID, len(f.Positions), f.State)
}
