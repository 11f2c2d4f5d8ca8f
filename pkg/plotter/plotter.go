// Package plotter is the entry point of the authoring engine. It owns the
// feature store, one draw session per registered kind and the edit
// sessions of finished features, and makes sure only one of them drives
// the pointer at a time.
package plotter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/philipparndt/geodraw/pkg/accessor"
	"github.com/philipparndt/geodraw/pkg/dragger"
	"github.com/philipparndt/geodraw/pkg/draw"
	"github.com/philipparndt/geodraw/pkg/edit"
	"github.com/philipparndt/geodraw/pkg/events"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/scene"
	"github.com/philipparndt/geodraw/pkg/style"
)

// ErrPointCount is returned for positions outside the point rules of a kind
var ErrPointCount = errors.New("point count outside rules")

// Options configure a plotter. The zero value is usable.
type Options struct {
	Registry     *Registry
	Logger       *slog.Logger
	Colors       dragger.Colors
	DrawMessages draw.Messages
	EditMessages edit.Messages

	// ModelSize sizes the scale handle of model features
	ModelSize func(url string) float64

	// EditOnCreate starts editing a feature as soon as it is drawn
	EditOnCreate bool
}

// Plotter coordinates drawing and editing on one host
type Plotter struct {
	host     scene.Host
	store    *feature.Store
	bus      *events.Bus
	factory  *dragger.Factory
	registry *Registry
	logger   *slog.Logger
	opts     Options

	draws   map[style.Kind]*draw.Session
	edits   map[string]*edit.Session
	drawing *draw.Session
	editing *edit.Session
	unbind  func()
}

// New creates a plotter with one draw session per registered kind
func New(host scene.Host, opts Options) (*Plotter, error) {
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	p := &Plotter{
		host:     host,
		store:    feature.NewStore(),
		bus:      events.NewBus(),
		factory:  dragger.NewFactory(host, opts.Colors),
		registry: opts.Registry,
		logger:   opts.Logger,
		opts:     opts,
		draws:    make(map[style.Kind]*draw.Session),
		edits:    make(map[string]*edit.Session),
	}

	for _, kind := range opts.Registry.Kinds() {
		kc, _ := opts.Registry.Lookup(kind)
		s, err := draw.New(kind, draw.Options{
			Host:         host,
			Store:        p.store,
			Factory:      p.factory,
			Events:       p.bus,
			Logger:       opts.Logger,
			Rules:        kc.Rules,
			Messages:     opts.DrawMessages,
			EditMessages: opts.EditMessages,
			ModelSize:    opts.ModelSize,
			OnCreated:    p.created,
		})
		if err != nil {
			return nil, err
		}
		p.draws[kind] = s
	}

	p.unbind = host.Bind(p.handleSelect)
	return p, nil
}

// Close stops every session and releases the pointer
func (p *Plotter) Close() {
	p.StopDraw(true)
	p.StopEdit()
	if p.unbind != nil {
		p.unbind()
		p.unbind = nil
	}
}

// Events returns the bus every session publishes to
func (p *Plotter) Events() *events.Bus {
	return p.bus
}

// Store returns the feature store
func (p *Plotter) Store() *feature.Store {
	return p.store
}

// Registry returns the kind registry
func (p *Plotter) Registry() *Registry {
	return p.registry
}

// Ellipsoid returns the host ellipsoid
func (p *Plotter) Ellipsoid() *geometry.Ellipsoid {
	return p.host.Ellipsoid()
}

// StartDraw begins drawing a feature of kind. Invalid style values are
// dropped and logged; the drawing starts with the rest.
func (p *Plotter) StartDraw(kind style.Kind, raw map[string]any, drawAttr map[string]any) (*feature.Feature, error) {
	s, ok := p.draws[kind]
	if !ok {
		p.logger.Warn("unsupported kind", "kind", kind)
		return nil, fmt.Errorf("%w: %q", style.ErrUnsupportedKind, kind)
	}

	cfg, err := style.Parse(kind, raw)
	if err != nil {
		p.logger.Warn("invalid style values dropped", "kind", kind, "err", err)
	}
	kc, _ := p.registry.Lookup(kind)

	p.StopDraw(true)
	p.StopEdit()

	p.drawing = s
	f, err := s.Activate(kc.Style.Merge(cfg), drawAttr)
	if err != nil {
		p.drawing = nil
		return nil, err
	}
	return f, nil
}

// StopDraw ends the active drawing. See draw.Session.Disable.
func (p *Plotter) StopDraw(discard bool) (*feature.Feature, error) {
	if p.drawing == nil {
		return nil, nil
	}
	s := p.drawing
	p.drawing = nil
	return s.Disable(discard)
}

// HasDrawing reports whether a drawing is in progress
func (p *Plotter) HasDrawing() bool {
	return p.drawing != nil && p.drawing.Active()
}

// Drawing returns the feature being drawn
func (p *Plotter) Drawing() *feature.Feature {
	if !p.HasDrawing() {
		return nil
	}
	return p.drawing.Feature()
}

func (p *Plotter) created(f *feature.Feature, es *edit.Session) {
	p.drawing = nil
	p.edits[f.ID] = es
	if p.opts.EditOnCreate {
		if err := p.StartEdit(f.ID); err != nil {
			p.logger.Warn("edit after create failed", "feature", f.ID, "err", err)
		}
	}
}

// StartEdit selects a feature for editing. A running drawing is finished
// first and another edited feature is released.
func (p *Plotter) StartEdit(id string) error {
	if p.editing != nil && p.editing.FeatureID() == id && p.editing.Active() {
		return nil
	}
	f, err := p.store.Lookup(id)
	if err != nil {
		return err
	}
	if !f.Visible {
		return fmt.Errorf("feature %s is hidden", id)
	}

	if p.HasDrawing() {
		if _, err := p.StopDraw(false); err != nil {
			p.logger.Warn("drawing discarded", "err", err)
		}
	}
	p.StopEdit()

	es, err := p.editSession(id)
	if err != nil {
		return err
	}
	// listeners of the edit events see the new state
	p.editing = es
	if err := es.Activate(); err != nil {
		p.editing = nil
		return err
	}
	return nil
}

// StopEdit releases the edited feature
func (p *Plotter) StopEdit() {
	if p.editing == nil {
		return
	}
	es := p.editing
	p.editing = nil
	es.Disable()
}

// Editing returns the id of the edited feature
func (p *Plotter) Editing() (string, bool) {
	if p.editing == nil || !p.editing.Active() {
		return "", false
	}
	return p.editing.FeatureID(), true
}

// EditSession returns the edit session of a feature, creating it for
// loaded features
func (p *Plotter) EditSession(id string) (*edit.Session, error) {
	return p.editSession(id)
}

func (p *Plotter) editSession(id string) (*edit.Session, error) {
	if es, ok := p.edits[id]; ok {
		return es, nil
	}
	f, err := p.store.Lookup(id)
	if err != nil {
		return nil, err
	}
	kc, ok := p.registry.Lookup(f.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", style.ErrUnsupportedKind, f.Kind)
	}
	es, err := edit.New(id, edit.Options{
		Host:      p.host,
		Store:     p.store,
		Factory:   p.factory,
		Events:    p.bus,
		Logger:    p.logger,
		Messages:  p.opts.EditMessages,
		Rules:     kc.Rules,
		ModelSize: p.opts.ModelSize,
	})
	if err != nil {
		return nil, err
	}
	p.edits[id] = es
	return es, nil
}

// Delete removes a feature and its entities
func (p *Plotter) Delete(id string) error {
	f, err := p.store.Lookup(id)
	if err != nil {
		return err
	}
	if p.editing != nil && p.editing.FeatureID() == id {
		p.StopEdit()
	}
	if p.HasDrawing() && p.drawing.Feature().ID == id {
		p.StopDraw(true)
		return nil
	}

	p.store.Remove(id)
	p.host.RemoveEntity(id)
	delete(p.edits, id)
	p.bus.Emit(events.Event{Type: events.Delete, Kind: f.Kind, FeatureID: id})
	return nil
}

// DeleteAll removes every feature and returns how many were removed
func (p *Plotter) DeleteAll() int {
	p.StopDraw(true)
	p.StopEdit()

	n := 0
	for _, f := range p.store.All() {
		if err := p.Delete(f.ID); err == nil {
			n++
		}
	}
	return n
}

// SetVisible shows or hides a feature. Hiding the edited feature ends
// editing.
func (p *Plotter) SetVisible(id string, visible bool) error {
	f, err := p.store.Lookup(id)
	if err != nil {
		return err
	}
	if !visible && p.editing != nil && p.editing.FeatureID() == id {
		p.StopEdit()
	}
	f.Visible = visible
	p.render(f)
	return nil
}

// SetPositions replaces the control points of a finished feature
func (p *Plotter) SetPositions(id string, positions []geometry.Vector3) error {
	f, err := p.store.Lookup(id)
	if err != nil {
		return err
	}
	if f.State == feature.StateDrawing {
		return fmt.Errorf("feature %s is being drawn", id)
	}
	kc, _ := p.registry.Lookup(f.Kind)
	if !kc.Rules.Allows(len(positions)) {
		p.logger.Warn("positions refused", "feature", id, "points", len(positions),
			"min", kc.Rules.MinPoints, "max", kc.Rules.MaxPoints)
		return fmt.Errorf("%w: %s takes %d to %d, got %d", ErrPointCount, f.Kind, kc.Rules.MinPoints, kc.Rules.MaxPoints, len(positions))
	}

	f.Positions = geometry.ClonePoints(positions)
	p.refresh(f)
	return nil
}

// UpdateStyle merges raw into the style of a feature. Invalid values are
// dropped and reported; the valid rest is applied.
func (p *Plotter) UpdateStyle(id string, raw map[string]any) error {
	f, err := p.store.Lookup(id)
	if err != nil {
		return err
	}
	cfg, parseErr := style.Parse(f.Kind, raw)
	f.Style = f.Style.Merge(cfg)
	p.refresh(f)
	if parseErr != nil {
		p.logger.Warn("invalid style values dropped", "feature", id, "err", parseErr)
	}
	return parseErr
}

// Features returns every feature in insertion order
func (p *Plotter) Features() []*feature.Feature {
	return p.store.All()
}

// FeaturesByKind returns the features of one kind
func (p *Plotter) FeaturesByKind(kind style.Kind) []*feature.Feature {
	return p.store.ByKind(kind)
}

// Load adds the features of a GeoJSON document. Bad features are skipped
// and reported, the others load.
func (p *Plotter) Load(data []byte) ([]*feature.Feature, []error) {
	parsed, errs := accessor.ParseCollection(data, p.host.Ellipsoid())
	return p.add(parsed, errs)
}

// Replace removes every feature and loads data instead
func (p *Plotter) Replace(data []byte) ([]*feature.Feature, []error) {
	p.DeleteAll()
	return p.Load(data)
}

// Export encodes every finished feature as a FeatureCollection
func (p *Plotter) Export() ([]byte, []error) {
	var out []*feature.Feature
	for _, f := range p.store.All() {
		if f.State != feature.StateDrawing {
			out = append(out, f)
		}
	}
	return accessor.MarshalCollection(out, p.host.Ellipsoid())
}

// SaveSnapshot writes the store to a msgpack side-car
func (p *Plotter) SaveSnapshot(path string) error {
	return p.store.SaveSnapshot(path)
}

// LoadSnapshot adds the features of a side-car. Features saved while
// being edited come back idle; unfinished drawings are dropped.
func (p *Plotter) LoadSnapshot(path string) ([]*feature.Feature, []error) {
	restored, errs := feature.LoadSnapshot(path)
	var keep []*feature.Feature
	for _, f := range restored {
		if f.State == feature.StateDrawing {
			errs = append(errs, fmt.Errorf("snapshot feature %s: unfinished drawing", f.ID))
			continue
		}
		f.State = feature.StateIdle
		keep = append(keep, f)
	}
	return p.add(keep, errs)
}

func (p *Plotter) add(features []*feature.Feature, errs []error) ([]*feature.Feature, []error) {
	var added []*feature.Feature
	for _, f := range features {
		kc, ok := p.registry.Lookup(f.Kind)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", style.ErrUnsupportedKind, f.Kind))
			continue
		}
		if !kc.Rules.Allows(len(f.Positions)) {
			errs = append(errs, fmt.Errorf("%s %s: %w", f.Kind, f.ID, ErrPointCount))
			continue
		}
		if err := p.store.Add(f); err != nil {
			errs = append(errs, err)
			continue
		}
		p.render(f)
		added = append(added, f)
	}
	for _, err := range errs {
		p.logger.Warn("feature skipped", "err", err)
	}
	return added, errs
}

// refresh re-renders a feature after an outside change, rebuilding the
// draggers when it is being edited
func (p *Plotter) refresh(f *feature.Feature) {
	if p.editing != nil && p.editing.FeatureID() == f.ID && p.editing.Active() {
		p.editing.Refresh()
		return
	}
	p.render(f)
}

func (p *Plotter) render(f *feature.Feature) {
	accessor.SyncEllipseStyle(f, p.host.Ellipsoid())
	p.host.UpdateEntity(accessor.Entity(f, p.host.Ellipsoid(), style.Attr{}))
}

// handleSelect starts editing the feature under a click, or stops editing
// on a click into empty space
func (p *Plotter) handleSelect(e scene.PointerEvent) {
	if e.Kind != scene.PointerClick || p.HasDrawing() {
		return
	}
	id, ok := p.host.PickEntity(e.Position)
	if !ok {
		p.StopEdit()
		return
	}
	owner := id
	if entity, found := p.host.Entity(id); found && entity.Owner != "" {
		owner = entity.Owner
	}
	if _, found := p.store.Get(owner); !found {
		p.StopEdit()
		return
	}
	if err := p.StartEdit(owner); err != nil {
		p.logger.Warn("select failed", "feature", owner, "err", err)
	}
}
