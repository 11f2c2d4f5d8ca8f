package edit

import (
	"math"
	"testing"

	"github.com/philipparndt/geodraw/pkg/dragger"
	"github.com/philipparndt/geodraw/pkg/events"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/scene"
	"github.com/philipparndt/geodraw/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	host    *scene.Memory
	store   *feature.Store
	events  *events.Recorder
	feature *feature.Feature
	session *Session
}

func newFixture(t *testing.T, kind style.Kind, cfg style.Config, points ...scene.Point) *fixture {
	t.Helper()
	return newFixtureWithRules(t, kind, cfg, feature.Rules{}, points...)
}

func newFixtureWithRules(t *testing.T, kind style.Kind, cfg style.Config, rules feature.Rules, points ...scene.Point) *fixture {
	t.Helper()
	host := scene.NewMemory(geometry.NewCartographic(8, 47, 0))
	store := feature.NewStore()
	rec := &events.Recorder{}

	f := feature.New(kind, cfg, nil)
	for _, p := range points {
		f.Positions = append(f.Positions, host.World(p.X, p.Y))
	}
	f.State = feature.StateIdle
	require.NoError(t, store.Add(f))

	s, err := New(f.ID, Options{
		Host:    host,
		Store:   store,
		Factory: dragger.NewFactory(host, nil),
		Events:  rec,
		Rules:   rules,
	})
	require.NoError(t, err)
	require.NoError(t, s.Activate())
	return &fixture{host: host, store: store, events: rec, feature: f, session: s}
}

func pt(x, y float64) scene.Point {
	return scene.Point{X: x, Y: y}
}

func countType(draggers []*dragger.Dragger, t dragger.PointType) int {
	n := 0
	for _, d := range draggers {
		if d.Type == t {
			n++
		}
	}
	return n
}

func findDragger(t *testing.T, s *Session, typ dragger.PointType, index int) *dragger.Dragger {
	t.Helper()
	for _, d := range s.Draggers() {
		if d.Type == typ && d.Index == index {
			return d
		}
	}
	require.Failf(t, "dragger not found", "%s %d", typ, index)
	return nil
}

func square() []scene.Point {
	return []scene.Point{pt(0, 0), pt(100, 0), pt(100, 100), pt(0, 100)}
}

func TestActivateBindsDraggers(t *testing.T) {
	fx := newFixture(t, style.KindPolygon, style.Config{}, square()...)

	draggers := fx.session.Draggers()
	assert.Equal(t, 4, countType(draggers, dragger.Control))
	assert.Equal(t, 4, countType(draggers, dragger.AddMidPoint))
	assert.Equal(t, 1, countType(draggers, dragger.MoveAll))
	assert.Equal(t, 0, countType(draggers, dragger.MoveHeight))

	assert.Equal(t, feature.StateEditing, fx.feature.State)
	e, ok := fx.host.Entity(fx.feature.ID)
	require.True(t, ok)
	assert.True(t, e.Dynamic)
	assert.Equal(t, []events.Type{events.EditStart}, fx.events.Types())
	assert.Equal(t, 1, fx.host.Bound())
}

func TestTwoPointLineMoveAllBesideMidPoint(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, style.Config{}, pt(0, 0), pt(100, 0))

	draggers := fx.session.Draggers()
	assert.Equal(t, 2, countType(draggers, dragger.Control))
	assert.Equal(t, 1, countType(draggers, dragger.AddMidPoint))
	require.Equal(t, 1, countType(draggers, dragger.MoveAll))

	moveAll := findDragger(t, fx.session, dragger.MoveAll, -1)
	at := fx.host.Screen(moveAll.Position)
	assert.InDelta(t, 50, at.X, 1e-3)
	assert.InDelta(t, 20, math.Abs(at.Y), 1e-3)

	fx.host.Drag(at, pt(at.X+10, at.Y+5))

	require.Len(t, fx.feature.Positions, 2)
	assert.True(t, fx.feature.Positions[0].Equals(fx.host.World(10, 5), 0.01))
	assert.True(t, fx.feature.Positions[1].Equals(fx.host.World(110, 5), 0.01))
}

func TestMidPointsRespectMaxPoints(t *testing.T) {
	rules := feature.Rules{MinPoints: 2, MaxPoints: 3, AutoFinish: true}
	fx := newFixtureWithRules(t, style.KindPolyline, style.Config{}, rules, pt(0, 0), pt(100, 0), pt(200, 50))

	assert.Equal(t, 0, countType(fx.session.Draggers(), dragger.AddMidPoint))

	fx.host.Drag(pt(50, 0), pt(50, 30))

	assert.Len(t, fx.feature.Positions, 3)
	assert.True(t, rules.Allows(len(fx.feature.Positions)))
}

func TestMidPointInsertionRefusedAtMaxPoints(t *testing.T) {
	fx := newFixtureWithRules(t, style.KindPolyline, style.Config{},
		feature.Rules{MinPoints: 2, MaxPoints: 3, AutoFinish: true}, pt(0, 0), pt(100, 0))
	mid := findDragger(t, fx.session, dragger.AddMidPoint, 0)
	fx.feature.Positions = append(fx.feature.Positions, fx.host.World(200, 50))

	ok, err := fx.session.Handle(dragger.BeginDrag{DraggerID: mid.ID})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, fx.feature.Positions, 3)
}

func TestDragControlPoint(t *testing.T) {
	fx := newFixture(t, style.KindPolygon, style.Config{}, square()...)
	before := len(fx.session.Draggers())

	fx.host.Drag(pt(0, 0), pt(-10, -20))

	require.Len(t, fx.feature.Positions, 4)
	assert.True(t, fx.feature.Positions[0].Equals(fx.host.World(-10, -20), 1e-6))
	assert.Len(t, fx.session.Draggers(), before)
	assert.Equal(t, 1, fx.events.Count(events.EditMovePoint))

	e, _ := fx.host.Entity(fx.feature.ID)
	assert.True(t, e.Positions[0].Equals(fx.host.World(-10, -20), 1e-6))
}

func TestDragConsistency(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, style.Config{}, pt(0, 0), pt(100, 0), pt(200, 50))

	fx.host.Drag(pt(100, 0), pt(100, 30))

	fresh := strategies[style.KindPolyline].draggers(fx.session.context(), fx.feature)
	assert.Len(t, fx.session.Draggers(), len(fresh))
	assert.Len(t, fx.host.EntitiesOwnedBy(fx.feature.ID), len(fresh)+1)
}

func TestDragMidPointInsertsVertex(t *testing.T) {
	fx := newFixture(t, style.KindPolygon, style.Config{}, square()...)

	fx.host.Drag(pt(50, 0), pt(50, -20))

	require.Len(t, fx.feature.Positions, 5)
	assert.True(t, fx.feature.Positions[1].Equals(fx.host.World(50, -20), 1e-6))
	assert.True(t, fx.feature.Positions[2].Equals(fx.host.World(100, 0), 1e-6))

	draggers := fx.session.Draggers()
	assert.Equal(t, 5, countType(draggers, dragger.Control))
	assert.Equal(t, 5, countType(draggers, dragger.AddMidPoint))
}

func TestClosingEdgeMidPoint(t *testing.T) {
	fx := newFixture(t, style.KindPolygon, style.Config{}, square()...)

	fx.host.Drag(pt(0, 50), pt(-30, 50))

	require.Len(t, fx.feature.Positions, 5)
	assert.True(t, fx.feature.Positions[4].Equals(fx.host.World(-30, 50), 1e-6))
}

func TestMoveAllTranslates(t *testing.T) {
	fx := newFixture(t, style.KindPolygon, style.Config{}, square()...)

	fx.host.Drag(pt(50, 50), pt(60, 55))

	want := []scene.Point{pt(10, 5), pt(110, 5), pt(110, 105), pt(10, 105)}
	for i, w := range want {
		assert.True(t, fx.feature.Positions[i].Equals(fx.host.World(w.X, w.Y), 0.01), "point %d", i)
	}
}

func TestRemovePointRefusedAtMinimum(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, style.Config{}, pt(0, 0), pt(100, 0))

	fx.host.RightClick(0, 0)

	assert.Len(t, fx.feature.Positions, 2)
	assert.True(t, fx.host.TooltipVisible)
	assert.Contains(t, fx.host.Tooltip, "2")
	assert.Zero(t, fx.events.Count(events.EditRemovePoint))
}

func TestRemovePoint(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, style.Config{}, pt(0, 0), pt(100, 0), pt(200, 50))

	fx.host.RightClick(100, 0)

	require.Len(t, fx.feature.Positions, 2)
	assert.True(t, fx.feature.Positions[1].Equals(fx.host.World(200, 50), 1e-6))
	assert.Equal(t, 1, fx.events.Count(events.EditRemovePoint))
	assert.Equal(t, 2, countType(fx.session.Draggers(), dragger.Control))
}

func TestRemoveIgnoresNonControl(t *testing.T) {
	fx := newFixture(t, style.KindPolygon, style.Config{}, square()...)

	fx.host.RightClick(50, 50)

	assert.Len(t, fx.feature.Positions, 4)
	assert.Zero(t, fx.events.Count(events.EditRemovePoint))
}

func TestCircleRadiusDrag(t *testing.T) {
	fx := newFixture(t, style.KindCircle, style.Config{"radius": 500.0}, pt(0, 0), pt(500, 0))

	draggers := fx.session.Draggers()
	assert.Equal(t, 1, countType(draggers, dragger.Control))
	assert.Equal(t, 1, countType(draggers, dragger.EditAttribute))

	fx.host.Drag(pt(500, 0), pt(800, 0))

	assert.InDelta(t, 800, fx.feature.Style.Float("radius", 0), 0.01)
	e, _ := fx.host.Entity(fx.feature.ID)
	major, ok := e.Attr.Float("semiMajorAxis")
	require.True(t, ok)
	assert.InDelta(t, 800, major, 0.01)
}

func TestCircleCenterMovesShape(t *testing.T) {
	fx := newFixture(t, style.KindCircle, style.Config{"radius": 500.0}, pt(0, 0), pt(500, 0))

	fx.host.Drag(pt(0, 0), pt(100, 100))

	assert.True(t, fx.feature.Positions[0].Equals(fx.host.World(100, 100), 0.01))
	assert.True(t, fx.feature.Positions[1].Equals(fx.host.World(600, 100), 0.05))
	assert.InDelta(t, 500, fx.feature.Style.Float("radius", 0), 0.05)
}

func TestEllipseMinorAxisDrag(t *testing.T) {
	fx := newFixture(t, style.KindEllipse, style.Config{}, pt(0, 0), pt(0, 300), pt(-100, 0))

	minor := findDragger(t, fx.session, dragger.EditAttribute, 2)
	assert.Equal(t, "semiMinorAxis", minor.Attribute)

	fx.host.Drag(pt(-100, 0), pt(-150, 0))

	assert.InDelta(t, 300, fx.feature.Style.Float("semiMajorAxis", 0), 0.01)
	assert.InDelta(t, 150, fx.feature.Style.Float("semiMinorAxis", 0), 0.01)
}

func TestUpdateWithoutBeginIsIgnored(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, style.Config{}, pt(0, 0), pt(100, 0))
	d := findDragger(t, fx.session, dragger.Control, 0)

	changed, err := fx.session.Handle(dragger.UpdateDrag{DraggerID: d.ID, Position: fx.host.World(5, 5)})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, fx.feature.Positions[0].Equals(fx.host.World(0, 0), 1e-6))

	changed, err = fx.session.Handle(dragger.EndDrag{DraggerID: d.ID})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestWallHeightDrag(t *testing.T) {
	fx := newFixture(t, style.KindWall, style.Config{}, pt(0, 0), pt(100, 0))
	assert.Equal(t, 2, countType(fx.session.Draggers(), dragger.MoveHeight))

	d := findDragger(t, fx.session, dragger.MoveHeight, 0)
	frame := fx.host.Ellipsoid().EastNorthUp(fx.feature.Positions[0])
	assert.InDelta(t, 100, frame.ToLocal(d.Position).Z, 0.01)

	ray := geometry.NewRay(frame.ToWorld(-500, 0, 250), frame.East)
	_, err := fx.session.Handle(dragger.BeginDrag{DraggerID: d.ID})
	require.NoError(t, err)
	changed, err := fx.session.Handle(dragger.UpdateDrag{DraggerID: d.ID, Ray: ray})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.InDelta(t, 250, fx.feature.Style.Float("diffHeight", 0), 0.01)

	e, _ := fx.host.Entity(fx.feature.ID)
	maxs, ok := e.Attr["maximumHeights"].([]float64)
	require.True(t, ok)
	assert.InDelta(t, 250, maxs[0], 0.01)
}

func TestHeightDragNeedsRay(t *testing.T) {
	fx := newFixture(t, style.KindVolume, style.Config{}, pt(0, 0), pt(100, 0), pt(0, 100))
	d := findDragger(t, fx.session, dragger.MoveHeight, 0)

	fx.session.Handle(dragger.BeginDrag{DraggerID: d.ID})
	changed, _ := fx.session.Handle(dragger.UpdateDrag{DraggerID: d.ID})
	assert.False(t, changed)
}

func TestBoxDimensionHandle(t *testing.T) {
	fx := newFixture(t, style.KindBox, style.Config{}, pt(0, 0))

	draggers := fx.session.Draggers()
	require.Len(t, draggers, 3)
	assert.True(t, draggers[0].Reused)
	assert.Equal(t, fx.feature.ID, draggers[0].EntityID)
	assert.Len(t, fx.host.EntitiesOwnedBy(fx.feature.ID), 3)

	fx.host.Drag(pt(50, 50), pt(80, -60))

	assert.InDelta(t, 160, fx.feature.Style.Float("dimensions_x", 0), 0.01)
	assert.InDelta(t, 120, fx.feature.Style.Float("dimensions_y", 0), 0.01)
}

func TestAnchorDragMovesFeature(t *testing.T) {
	fx := newFixture(t, style.KindPoint, style.Config{}, pt(0, 0))
	require.Len(t, fx.session.Draggers(), 1)

	fx.host.Drag(pt(0, 0), pt(40, 40))

	assert.True(t, fx.feature.Positions[0].Equals(fx.host.World(40, 40), 1e-6))
	e, _ := fx.host.Entity(fx.feature.ID)
	assert.True(t, e.Positions[0].Equals(fx.host.World(40, 40), 1e-6))
}

func TestModelScaleHandle(t *testing.T) {
	host := scene.NewMemory(geometry.NewCartographic(8, 47, 0))
	store := feature.NewStore()
	f := feature.New(style.KindModel, style.Config{"url": "part.stl"}, nil)
	f.Positions = []geometry.Vector3{host.World(0, 0)}
	require.NoError(t, store.Add(f))

	s, err := New(f.ID, Options{
		Host:      host,
		Store:     store,
		Factory:   dragger.NewFactory(host, nil),
		ModelSize: func(string) float64 { return 20 },
	})
	require.NoError(t, err)
	require.NoError(t, s.Activate())

	host.Drag(pt(20, 0), pt(40, 0))
	assert.InDelta(t, 2, f.Style.Float("scale", 0), 0.001)
}

func TestDisable(t *testing.T) {
	fx := newFixture(t, style.KindPolygon, style.Config{}, square()...)

	fx.session.Disable()
	fx.session.Disable()

	assert.False(t, fx.session.Active())
	assert.Empty(t, fx.session.Draggers())
	assert.Len(t, fx.host.EntitiesOwnedBy(fx.feature.ID), 1)
	assert.Equal(t, feature.StateIdle, fx.feature.State)
	assert.Equal(t, 1, fx.events.Count(events.EditStop))
	assert.Equal(t, 0, fx.host.Bound())

	e, _ := fx.host.Entity(fx.feature.ID)
	assert.False(t, e.Dynamic)

	_, err := fx.session.Handle(dragger.BeginDrag{DraggerID: "x"})
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestRefreshAfterExternalChange(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, style.Config{}, pt(0, 0), pt(100, 0))

	fx.feature.Positions = append(fx.feature.Positions, fx.host.World(200, 0))
	fx.session.Refresh()

	assert.Equal(t, 3, countType(fx.session.Draggers(), dragger.Control))
	assert.Len(t, fx.host.EntitiesOwnedBy(fx.feature.ID), len(fx.session.Draggers())+1)
}

func TestNewErrors(t *testing.T) {
	host := scene.NewMemory(geometry.Cartographic{})
	store := feature.NewStore()
	opts := Options{Host: host, Store: store, Factory: dragger.NewFactory(host, nil)}

	_, err := New("missing", opts)
	assert.ErrorIs(t, err, feature.ErrNotFound)

	f := feature.New(style.Kind("bogus"), nil, nil)
	require.NoError(t, store.Add(f))
	_, err = New(f.ID, opts)
	assert.ErrorIs(t, err, style.ErrUnsupportedKind)
}

func TestVolumeHasNoClosingEdge(t *testing.T) {
	fx := newFixture(t, style.KindVolume, style.Config{}, pt(0, 0), pt(100, 0), pt(0, 100))

	assert.Equal(t, 2, countType(fx.session.Draggers(), dragger.AddMidPoint))
}
