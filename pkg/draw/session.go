// Package draw runs the pointer protocol that creates a feature. One
// session exists per kind; it turns clicks into control points, previews
// the next point under the pointer and hands the finished feature to an
// edit session.
package draw

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/philipparndt/geodraw/pkg/accessor"
	"github.com/philipparndt/geodraw/pkg/dragger"
	"github.com/philipparndt/geodraw/pkg/edit"
	"github.com/philipparndt/geodraw/pkg/events"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/scene"
	"github.com/philipparndt/geodraw/pkg/style"
)

// ErrTooFewPoints is returned when a drawing is finished before it has its
// minimum number of points; the feature is discarded
var ErrTooFewPoints = errors.New("too few points")

// duplicateTolerance is the distance under which the two clicks of a
// double click count as the same point
const duplicateTolerance = 0.01

// Messages are the tooltip texts shown while drawing
type Messages struct {
	Start    string
	Continue string
	Finish   string
	// MinPoints is a format string taking the minimum point count
	MinPoints string
}

// DefaultMessages returns the standard tooltip texts
func DefaultMessages() Messages {
	return Messages{
		Start:     "Click to place the first point",
		Continue:  "Click to add a point, right-click to remove the last one",
		Finish:    "Double-click to finish",
		MinPoints: "At least %d points are required",
	}
}

// CreatedFunc is called with every finished feature and its edit session
type CreatedFunc func(f *feature.Feature, s *edit.Session)

// Options are the collaborators of a draw session
type Options struct {
	Host         scene.Host
	Store        *feature.Store
	Factory      *dragger.Factory
	Events       events.Emitter
	Logger       *slog.Logger
	Rules        feature.Rules
	Messages     Messages
	EditMessages edit.Messages
	ModelSize    func(url string) float64

	// OnCreated receives finished features
	OnCreated CreatedFunc
}

// Session draws features of one kind
type Session struct {
	kind style.Kind
	opts Options

	active    bool
	unbind    func()
	feature   *feature.Feature
	committed int
	preview   bool
	attr      style.Attr
}

// New creates an inactive session for kind
func New(kind style.Kind, opts Options) (*Session, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", style.ErrUnsupportedKind, kind)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Messages == (Messages{}) {
		opts.Messages = DefaultMessages()
	}
	if opts.Rules == (feature.Rules{}) {
		opts.Rules = feature.DefaultRules(kind)
	}
	return &Session{kind: kind, opts: opts, attr: style.Attr{}}, nil
}

// Kind returns the kind this session draws
func (s *Session) Kind() style.Kind {
	return s.kind
}

// Rules returns the point rules in effect
func (s *Session) Rules() feature.Rules {
	return s.opts.Rules
}

// Active reports whether a drawing is in progress
func (s *Session) Active() bool {
	return s.active
}

// Feature returns the feature being drawn, nil when inactive
func (s *Session) Feature() *feature.Feature {
	if !s.active {
		return nil
	}
	return s.feature
}

// Committed returns the number of clicked points
func (s *Session) Committed() int {
	return s.committed
}

// Activate starts drawing a new feature styled by cfg. An active session
// keeps its drawing and returns it unchanged.
func (s *Session) Activate(cfg style.Config, drawAttr map[string]any) (*feature.Feature, error) {
	if s.active {
		s.opts.Logger.Debug("draw already active", "kind", s.kind, "feature", s.feature.ID)
		return s.feature, nil
	}

	f := feature.New(s.kind, cfg.Clone(), drawAttr)
	if err := s.opts.Store.Add(f); err != nil {
		return nil, err
	}
	s.feature = f
	s.attr = style.Attr{}
	s.committed = 0
	s.preview = false
	s.active = true

	host := s.opts.Host
	s.render()
	host.SetCursor(scene.CursorCrosshair)
	host.SetPopupsEnabled(false)
	s.unbind = host.Bind(s.handlePointer)

	s.opts.Logger.Debug("draw started", "kind", s.kind, "feature", f.ID)
	s.emit(events.Event{Type: events.DrawStart})
	return f, nil
}

// Disable ends drawing. With discard the feature is removed; otherwise it
// is finished and handed to an edit session. Calling Disable on an
// inactive session does nothing.
func (s *Session) Disable(discard bool) (*feature.Feature, error) {
	if !s.active {
		return nil, nil
	}
	f := s.feature

	var err error
	if !discard {
		s.dropPreview()
		if s.committed < s.opts.Rules.MinPoints {
			s.opts.Logger.Warn("drawing discarded", "kind", s.kind, "feature", f.ID,
				"points", s.committed, "min", s.opts.Rules.MinPoints)
			err = fmt.Errorf("%w: %s needs %d, has %d", ErrTooFewPoints, s.kind, s.opts.Rules.MinPoints, s.committed)
			discard = true
		}
	}

	s.teardown()

	if discard {
		s.opts.Store.Remove(f.ID)
		s.opts.Host.RemoveEntity(f.ID)
		s.opts.Logger.Debug("draw discarded", "kind", s.kind, "feature", f.ID)
		return nil, err
	}
	return f, s.finish(f)
}

func (s *Session) teardown() {
	host := s.opts.Host
	if s.unbind != nil {
		s.unbind()
		s.unbind = nil
	}
	host.HideTooltip()
	host.SetCursor(scene.CursorDefault)
	host.SetPopupsEnabled(true)

	s.active = false
	s.feature = nil
	s.committed = 0
	s.preview = false
}

// finish commits the drawn positions, derives the remaining geometry and
// attaches an edit session
func (s *Session) finish(f *feature.Feature) error {
	e := s.opts.Host.Ellipsoid()
	if f.Kind == style.KindEllipse && len(f.Positions) == 2 {
		shape := accessor.EllipseOf(f, e)
		f.Positions = append(f.Positions, shape.MinorAxisPoint(e))
	}
	accessor.SyncEllipseStyle(f, e)
	f.State = feature.StateIdle
	s.opts.Host.UpdateEntity(accessor.Entity(f, e, s.attr))

	es, err := edit.New(f.ID, edit.Options{
		Host:      s.opts.Host,
		Store:     s.opts.Store,
		Factory:   s.opts.Factory,
		Events:    s.opts.Events,
		Logger:    s.opts.Logger,
		Messages:  s.opts.EditMessages,
		Rules:     s.opts.Rules,
		ModelSize: s.opts.ModelSize,
	})
	if err != nil {
		return fmt.Errorf("attach edit session: %w", err)
	}

	if f.Style.Bool("clampToGround", false) {
		sampleTerrain(s.opts.Host, s.opts.Store, s.attr, f.ID, es)
	}

	s.opts.Logger.Info("feature created", "kind", f.Kind, "feature", f.ID, "points", len(f.Positions))
	if s.opts.OnCreated != nil {
		s.opts.OnCreated(f, es)
	}
	s.emitFor(f, events.Event{Type: events.DrawCreated})
	return nil
}

// sampleTerrain replaces the heights of a finished feature by terrain
// heights once the host delivers them
func sampleTerrain(host scene.Host, store *feature.Store, attr style.Attr, id string, es *edit.Session) {
	f, ok := store.Get(id)
	if !ok || len(f.Positions) == 0 {
		return
	}
	e := host.Ellipsoid()
	cartos := make([]geometry.Cartographic, 0, len(f.Positions))
	for _, p := range f.Positions {
		c, _ := e.ToCartographic(p)
		cartos = append(cartos, c)
	}

	host.SampleTerrain(cartos, func(sampled []geometry.Cartographic, err error) {
		if err != nil {
			slog.Warn("terrain sampling failed", "feature", id, "err", err)
			return
		}
		f, ok := store.Get(id)
		if !ok || len(f.Positions) != len(sampled) {
			return
		}
		for i, c := range sampled {
			f.Positions[i] = e.ToCartesian(c)
		}
		if es.Active() {
			es.Refresh()
			return
		}
		host.UpdateEntity(accessor.Entity(f, e, attr))
	})
}

func (s *Session) handlePointer(ev scene.PointerEvent) {
	if !s.active {
		return
	}
	switch ev.Kind {
	case scene.PointerMove:
		s.move(ev.Position)
	case scene.PointerClick:
		s.click(ev.Position)
	case scene.PointerRightClick:
		s.removeLast(ev.Position)
	case scene.PointerDoubleClick:
		s.doubleClick(ev.Position)
	}
}

func (s *Session) singlePoint() bool {
	return s.kind.Family() == style.FamilySinglePoint
}

func (s *Session) move(p scene.Point) {
	host := s.opts.Host
	world, ok := host.Pick(p)
	if !ok {
		return
	}
	host.ShowTooltip(p, s.tooltip())

	f := s.feature
	switch {
	case s.singlePoint():
		f.Positions = []geometry.Vector3{world}
		s.preview = true
	case s.committed == 0 || s.committed >= s.opts.Rules.MaxPoints:
		return
	case s.preview:
		f.Positions[len(f.Positions)-1] = world
	default:
		f.Positions = append(f.Positions, world)
		s.preview = true
	}
	s.render()
	s.emit(events.Event{Type: events.DrawMouseMove}.At(world))
}

func (s *Session) click(p scene.Point) {
	world, ok := s.opts.Host.Pick(p)
	if !ok {
		return
	}
	rules := s.opts.Rules
	if s.committed >= rules.MaxPoints {
		// only reachable without auto finish; wait for the double click
		return
	}

	f := s.feature
	if s.committed > 0 && s.committed+1 >= rules.MaxPoints && world.Equals(f.Positions[s.committed-1], duplicateTolerance) {
		// the first half of a double click must not complete the shape
		// with a degenerate point
		return
	}
	if s.preview {
		f.Positions[len(f.Positions)-1] = world
		s.preview = false
	} else {
		f.Positions = append(f.Positions, world)
	}
	s.committed++
	s.render()
	s.emit(events.Event{Type: events.DrawAddPoint}.At(world))

	if s.committed >= rules.MaxPoints && rules.AutoFinish {
		s.Disable(false)
	}
}

// removeLast drops the last committed point, keeping the preview
func (s *Session) removeLast(p scene.Point) {
	if s.singlePoint() || s.committed == 0 {
		return
	}
	f := s.feature
	if len(f.Positions)-1 < s.opts.Rules.MinPoints {
		s.refuse(p)
		return
	}

	index := s.committed - 1
	removed := f.Positions[index]
	f.Positions = append(f.Positions[:index], f.Positions[index+1:]...)
	s.committed--
	if s.committed == 0 {
		s.dropPreview()
	}
	s.render()
	s.emit(events.Event{Type: events.DrawRemovePoint}.At(removed))
}

func (s *Session) doubleClick(p scene.Point) {
	if s.singlePoint() {
		return
	}
	f := s.feature
	s.dropPreview()

	// the first click of a double click already committed this point
	if s.committed >= 2 && f.Positions[s.committed-1].Equals(f.Positions[s.committed-2], duplicateTolerance) {
		f.Positions = f.Positions[:s.committed-1]
		s.committed--
	}

	if s.committed < s.opts.Rules.MinPoints {
		s.refuse(p)
		s.render()
		return
	}
	s.Disable(false)
}

func (s *Session) refuse(p scene.Point) {
	msg := fmt.Sprintf(s.opts.Messages.MinPoints, s.opts.Rules.MinPoints)
	s.opts.Host.ShowTooltip(p, msg)
	s.opts.Logger.Warn("point count below minimum", "kind", s.kind,
		"points", s.committed, "min", s.opts.Rules.MinPoints)
}

func (s *Session) dropPreview() {
	if !s.preview || s.feature == nil {
		return
	}
	s.feature.Positions = s.feature.Positions[:len(s.feature.Positions)-1]
	s.preview = false
}

func (s *Session) tooltip() string {
	switch {
	case s.committed == 0:
		return s.opts.Messages.Start
	case s.committed >= s.opts.Rules.MinPoints:
		return s.opts.Messages.Finish
	}
	return s.opts.Messages.Continue
}

func (s *Session) render() {
	e := s.opts.Host.Ellipsoid()
	accessor.SyncEllipseStyle(s.feature, e)
	s.opts.Host.UpdateEntity(accessor.Entity(s.feature, e, s.attr))
}

func (s *Session) emit(e events.Event) {
	s.emitFor(s.feature, e)
}

func (s *Session) emitFor(f *feature.Feature, e events.Event) {
	if s.opts.Events == nil {
		return
	}
	e.Kind = s.kind
	if f != nil {
		e.FeatureID = f.ID
	}
	s.opts.Events.Emit(e)
}
