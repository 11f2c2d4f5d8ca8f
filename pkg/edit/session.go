// Package edit implements the editing state machine shared by every
// geometry kind. A session places draggers on one feature, turns pointer
// input into drag commands and applies them through a per-kind strategy.
package edit

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/philipparndt/geodraw/pkg/accessor"
	"github.com/philipparndt/geodraw/pkg/dragger"
	"github.com/philipparndt/geodraw/pkg/events"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/scene"
	"github.com/philipparndt/geodraw/pkg/style"
)

// ErrNotActive is returned for commands sent to an inactive session
var ErrNotActive = errors.New("edit session not active")

// Messages are the tooltip texts of an edit session
type Messages struct {
	DragPoint     string
	DragMidPoint  string
	DragAll       string
	DragHeight    string
	DragAttribute string
	// MinPoints is a format string taking the minimum point count
	MinPoints string
}

// DefaultMessages returns the standard tooltip texts
func DefaultMessages() Messages {
	return Messages{
		DragPoint:     "Drag to move the point, right-click to delete it",
		DragMidPoint:  "Drag to insert a point",
		DragAll:       "Drag to move the whole shape",
		DragHeight:    "Drag up or down to change the height",
		DragAttribute: "Drag to resize",
		MinPoints:     "Cannot delete: at least %d points are required",
	}
}

// Options are the collaborators of a session
type Options struct {
	Host     scene.Host
	Store    *feature.Store
	Factory  *dragger.Factory
	Events   events.Emitter
	Logger   *slog.Logger
	Messages Messages
	Rules    feature.Rules

	// ModelSize returns the base size in meters of a model url, used to
	// place the scale handle; nil means 10 m
	ModelSize func(url string) float64
}

// Session edits one feature
type Session struct {
	opts      Options
	featureID string
	kind      style.Kind
	strategy  strategy

	active   bool
	unbind   func()
	draggers []*dragger.Dragger
	dragging *dragger.Dragger
	attr     style.Attr
}

// New creates an inactive session for the feature with id
func New(featureID string, opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Messages == (Messages{}) {
		opts.Messages = DefaultMessages()
	}

	f, err := opts.Store.Lookup(featureID)
	if err != nil {
		return nil, err
	}
	st, ok := strategies[f.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", style.ErrUnsupportedKind, f.Kind)
	}
	if opts.Rules == (feature.Rules{}) {
		opts.Rules = feature.DefaultRules(f.Kind)
	}
	return &Session{
		opts:      opts,
		featureID: featureID,
		kind:      f.Kind,
		strategy:  st,
		attr:      style.Attr{},
	}, nil
}

// FeatureID returns the edited feature
func (s *Session) FeatureID() string {
	return s.featureID
}

// Active reports whether the session is editing
func (s *Session) Active() bool {
	return s.active
}

// Draggers returns the current draggers
func (s *Session) Draggers() []*dragger.Dragger {
	out := make([]*dragger.Dragger, len(s.draggers))
	copy(out, s.draggers)
	return out
}

// Activate starts editing: the feature switches to live rendering, the
// draggers appear and the pointer is bound
func (s *Session) Activate() error {
	if s.active {
		return nil
	}
	f, err := s.feature()
	if err != nil {
		return err
	}

	if f.Style == nil {
		f.Style = style.Config{}
	}
	s.active = true
	f.State = feature.StateEditing
	s.render(f)
	s.bindDraggers(f)
	s.unbind = s.opts.Host.Bind(s.handlePointer)

	s.opts.Logger.Debug("edit started", "kind", s.kind, "feature", s.featureID)
	s.emit(events.Event{Type: events.EditStart})
	return nil
}

// Disable stops editing and commits the positions. Calling it on an
// inactive session does nothing.
func (s *Session) Disable() {
	if !s.active {
		return
	}
	s.active = false
	s.dragging = nil
	s.destroyDraggers()
	if s.unbind != nil {
		s.unbind()
		s.unbind = nil
	}
	s.opts.Host.HideTooltip()
	s.opts.Host.SetCursor(scene.CursorDefault)

	if f, err := s.feature(); err == nil {
		f.State = feature.StateIdle
		s.render(f)
	}

	s.opts.Logger.Debug("edit stopped", "kind", s.kind, "feature", s.featureID)
	s.emit(events.Event{Type: events.EditStop})
}

// Refresh re-renders the feature and rebuilds the draggers, for changes
// made outside the session such as new positions or a new style
func (s *Session) Refresh() {
	f, err := s.feature()
	if err != nil {
		return
	}
	s.render(f)
	if s.active {
		s.UpdateDraggers()
	}
}

// UpdateDraggers destroys the draggers and creates them again from the
// current geometry
func (s *Session) UpdateDraggers() {
	f, err := s.feature()
	if err != nil {
		return
	}
	s.destroyDraggers()
	s.bindDraggers(f)
}

// Handle applies a drag command and reports whether it changed anything
func (s *Session) Handle(cmd dragger.Command) (bool, error) {
	if !s.active {
		return false, ErrNotActive
	}
	f, err := s.feature()
	if err != nil {
		return false, err
	}

	switch c := cmd.(type) {
	case dragger.BeginDrag:
		return s.beginDrag(f, c), nil
	case dragger.UpdateDrag:
		return s.updateDrag(f, c), nil
	case dragger.EndDrag:
		return s.endDrag(f, c), nil
	case dragger.RemovePoint:
		return s.removePoint(f, c), nil
	}
	return false, fmt.Errorf("unknown command %T", cmd)
}

func (s *Session) beginDrag(f *feature.Feature, c dragger.BeginDrag) bool {
	d := s.dragger(c.DraggerID)
	if d == nil {
		return false
	}
	if d.Type == dragger.AddMidPoint {
		if len(f.Positions) >= s.opts.Rules.MaxPoints {
			s.opts.Logger.Warn("point insertion refused", "kind", s.kind, "feature", s.featureID,
				"points", len(f.Positions), "max", s.opts.Rules.MaxPoints)
			return false
		}
		// the mid point becomes a real control point as soon as it moves
		index := d.Index + 1
		f.Positions = append(f.Positions[:index], append([]geometry.Vector3{d.Position}, f.Positions[index:]...)...)
		d.Type = dragger.Control
		d.Index = index
		s.render(f)
	}
	s.dragging = d
	s.opts.Host.SetCursor(scene.CursorMove)
	return true
}

func (s *Session) updateDrag(f *feature.Feature, c dragger.UpdateDrag) bool {
	d := s.dragging
	if d == nil || d.ID != c.DraggerID {
		return false
	}

	ctx := s.context()
	pos, ok := s.strategy.drag(ctx, f, d, c.Position, c.Ray)
	if !ok {
		return false
	}
	s.opts.Factory.Move(d, pos)
	s.render(f)
	s.followDraggers(f, d)
	return true
}

func (s *Session) endDrag(f *feature.Feature, c dragger.EndDrag) bool {
	d := s.dragging
	if d == nil || d.ID != c.DraggerID {
		return false
	}
	s.dragging = nil
	s.opts.Host.SetCursor(scene.CursorDefault)

	s.emit(events.Event{Type: events.EditMovePoint}.At(d.Position))
	s.UpdateDraggers()
	return true
}

func (s *Session) removePoint(f *feature.Feature, c dragger.RemovePoint) bool {
	d := s.dragger(c.DraggerID)
	if d == nil || d.Type != dragger.Control || !s.strategy.removable() {
		return false
	}

	if len(f.Positions)-1 < s.opts.Rules.MinPoints {
		msg := fmt.Sprintf(s.opts.Messages.MinPoints, s.opts.Rules.MinPoints)
		s.opts.Host.ShowTooltip(s.screenOf(d.Position), msg)
		s.opts.Logger.Warn("point removal refused", "kind", s.kind, "feature", s.featureID,
			"points", len(f.Positions), "min", s.opts.Rules.MinPoints)
		return false
	}
	if d.Index < 0 || d.Index >= len(f.Positions) {
		return false
	}

	removed := f.Positions[d.Index]
	f.Positions = append(f.Positions[:d.Index], f.Positions[d.Index+1:]...)
	s.render(f)
	s.UpdateDraggers()
	s.emit(events.Event{Type: events.EditRemovePoint}.At(removed))
	return true
}

// followDraggers moves the other draggers along with a drag so that a
// moved shape keeps its handles
func (s *Session) followDraggers(f *feature.Feature, dragged *dragger.Dragger) {
	specs := s.strategy.draggers(s.context(), f)
	if len(specs) != len(s.draggers) {
		return
	}
	for i, d := range s.draggers {
		if d == dragged {
			continue
		}
		s.opts.Factory.Move(d, specs[i].Position)
	}
}

func (s *Session) bindDraggers(f *feature.Feature) {
	for _, opts := range s.strategy.draggers(s.context(), f) {
		opts.Owner = s.featureID
		opts.Tooltip = s.tooltip(opts.Type)
		s.draggers = append(s.draggers, s.opts.Factory.Create(opts))
	}
}

func (s *Session) destroyDraggers() {
	for _, d := range s.draggers {
		s.opts.Factory.Destroy(d)
	}
	s.draggers = nil
}

func (s *Session) tooltip(t dragger.PointType) string {
	switch t {
	case dragger.AddMidPoint:
		return s.opts.Messages.DragMidPoint
	case dragger.MoveAll:
		return s.opts.Messages.DragAll
	case dragger.MoveHeight:
		return s.opts.Messages.DragHeight
	case dragger.EditAttribute:
		return s.opts.Messages.DragAttribute
	}
	return s.opts.Messages.DragPoint
}

func (s *Session) handlePointer(e scene.PointerEvent) {
	if !s.active {
		return
	}
	host := s.opts.Host

	switch e.Kind {
	case scene.PointerDown:
		if d := s.pick(e.Position); d != nil {
			s.Handle(dragger.BeginDrag{DraggerID: d.ID})
		}

	case scene.PointerMove:
		if s.dragging != nil {
			world, ok := host.Pick(e.Position)
			if !ok {
				return
			}
			ray, _ := host.Ray(e.Position)
			s.Handle(dragger.UpdateDrag{DraggerID: s.dragging.ID, Position: world, Ray: ray})
			return
		}
		if d := s.pick(e.Position); d != nil {
			host.ShowTooltip(e.Position, d.Tooltip)
			host.SetCursor(scene.CursorPointer)
		} else {
			host.HideTooltip()
			host.SetCursor(scene.CursorDefault)
		}

	case scene.PointerUp:
		if s.dragging != nil {
			s.Handle(dragger.EndDrag{DraggerID: s.dragging.ID})
		}

	case scene.PointerRightClick:
		if d := s.pick(e.Position); d != nil {
			s.Handle(dragger.RemovePoint{DraggerID: d.ID})
		}
	}
}

func (s *Session) pick(p scene.Point) *dragger.Dragger {
	id, ok := s.opts.Host.PickEntity(p)
	if !ok {
		return nil
	}
	for _, d := range s.draggers {
		if d.EntityID == id {
			return d
		}
	}
	return nil
}

func (s *Session) dragger(id string) *dragger.Dragger {
	for _, d := range s.draggers {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (s *Session) feature() (*feature.Feature, error) {
	return s.opts.Store.Lookup(s.featureID)
}

func (s *Session) render(f *feature.Feature) {
	accessor.SyncEllipseStyle(f, s.opts.Host.Ellipsoid())
	s.opts.Host.UpdateEntity(accessor.Entity(f, s.opts.Host.Ellipsoid(), s.attr))
}

func (s *Session) context() *dragContext {
	return &dragContext{ellipsoid: s.opts.Host.Ellipsoid(), modelSize: s.opts.ModelSize, rules: s.opts.Rules}
}

// screenOf is used to anchor refusal tooltips; hosts that cannot project
// back get the origin
func (s *Session) screenOf(p geometry.Vector3) scene.Point {
	if projector, ok := s.opts.Host.(interface {
		Screen(geometry.Vector3) scene.Point
	}); ok {
		return projector.Screen(p)
	}
	return scene.Point{}
}

func (s *Session) emit(e events.Event) {
	if s.opts.Events == nil {
		return
	}
	e.Kind = s.kind
	e.FeatureID = s.featureID
	s.opts.Events.Emit(e)
}
