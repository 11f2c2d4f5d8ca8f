package draw

import (
	"testing"

	"github.com/philipparndt/geodraw/pkg/accessor"
	"github.com/philipparndt/geodraw/pkg/dragger"
	"github.com/philipparndt/geodraw/pkg/edit"
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
	session *Session
	created []*feature.Feature
	edits   []*edit.Session
}

func newFixture(t *testing.T, kind style.Kind, rules feature.Rules) *fixture {
	t.Helper()
	fx := &fixture{
		host:   scene.NewMemory(geometry.NewCartographic(8, 47, 0)),
		store:  feature.NewStore(),
		events: &events.Recorder{},
	}
	s, err := New(kind, Options{
		Host:    fx.host,
		Store:   fx.store,
		Factory: dragger.NewFactory(fx.host, nil),
		Events:  fx.events,
		Rules:   rules,
		OnCreated: func(f *feature.Feature, es *edit.Session) {
			fx.created = append(fx.created, f)
			fx.edits = append(fx.edits, es)
		},
	})
	require.NoError(t, err)
	fx.session = s
	return fx
}

func (fx *fixture) start(t *testing.T, cfg style.Config) *feature.Feature {
	t.Helper()
	f, err := fx.session.Activate(cfg, nil)
	require.NoError(t, err)
	return f
}

func TestPolygonDoubleClickScenario(t *testing.T) {
	fx := newFixture(t, style.KindPolygon, feature.Rules{})
	f := fx.start(t, style.Config{})

	fx.host.Click(0, 0)
	fx.host.Click(1, 0)
	fx.host.Click(1, 1)
	fx.host.DoubleClick(1, 1)

	assert.False(t, fx.session.Active())
	require.Len(t, fx.created, 1)
	assert.Same(t, f, fx.created[0])
	require.Len(t, f.Positions, 3)
	assert.Equal(t, feature.StateIdle, f.State)

	gf, err := accessor.ToFeature(f, fx.host.Ellipsoid())
	require.NoError(t, err)
	require.Len(t, gf.Geometry.Polygon, 1)
	assert.Len(t, gf.Geometry.Polygon[0], 4)

	assert.Equal(t, 1, fx.events.Count(events.DrawStart))
	assert.Equal(t, 1, fx.events.Count(events.DrawCreated))
	assert.Equal(t, 0, fx.host.Bound())
	assert.Equal(t, scene.CursorDefault, fx.host.Cursor)
	assert.True(t, fx.host.PopupsEnabled)
}

func TestActivateSetsUpHost(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, feature.Rules{})
	f := fx.start(t, style.Config{"width": 3.0})

	assert.True(t, fx.session.Active())
	assert.Same(t, f, fx.session.Feature())
	assert.Equal(t, scene.CursorCrosshair, fx.host.Cursor)
	assert.False(t, fx.host.PopupsEnabled)
	assert.Equal(t, 1, fx.host.Bound())
	assert.Equal(t, feature.StateDrawing, f.State)
	assert.Equal(t, 1, fx.store.Len())

	again, err := fx.session.Activate(style.Config{}, nil)
	require.NoError(t, err)
	assert.Same(t, f, again)
	assert.Equal(t, 1, fx.store.Len())
	assert.Equal(t, 1, fx.events.Count(events.DrawStart))
}

func TestSessionDoesNotCarryStyleBetweenFeatures(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, feature.Rules{})
	first := fx.start(t, style.Config{"customTag": "first"})
	fx.host.Click(0, 0)
	fx.host.Click(100, 0)
	fx.host.DoubleClick(100, 0)
	require.Len(t, fx.created, 1)

	second := fx.start(t, style.Config{})
	fx.host.Click(0, 50)

	e, ok := fx.host.Entity(second.ID)
	require.True(t, ok)
	assert.NotContains(t, e.Attr, "customTag")

	e, ok = fx.host.Entity(first.ID)
	require.True(t, ok)
	assert.Equal(t, "first", e.Attr["customTag"])
}

func TestPreviewFollowsPointer(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, feature.Rules{})
	f := fx.start(t, style.Config{})

	fx.host.Move(5, 5)
	assert.Empty(t, f.Positions)

	fx.host.Click(0, 0)
	fx.host.Move(50, 0)
	fx.host.Move(60, 10)
	require.Len(t, f.Positions, 2)
	assert.Equal(t, 1, fx.session.Committed())
	assert.True(t, f.Positions[1].Equals(fx.host.World(60, 10), 1e-9))
	assert.Equal(t, 2, fx.events.Count(events.DrawMouseMove))

	e, ok := fx.host.Entity(f.ID)
	require.True(t, ok)
	assert.Len(t, e.Positions, 2)
	assert.True(t, e.Dynamic)
}

func TestPointCountInvariant(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, feature.Rules{})
	f := fx.start(t, style.Config{})

	steps := []func(){
		func() { fx.host.Click(0, 0) },
		func() { fx.host.Move(10, 0) },
		func() { fx.host.Click(10, 0) },
		func() { fx.host.Move(20, 5) },
		func() { fx.host.RightClick(20, 5) },
		func() { fx.host.Move(30, 5) },
		func() { fx.host.Click(30, 5) },
		func() { fx.host.Move(40, 5) },
	}
	for i, step := range steps {
		step()
		n := len(f.Positions)
		c := fx.session.Committed()
		assert.True(t, n == c || n == c+1, "step %d: %d positions, %d committed", i, n, c)
	}
}

func TestRightClickRemovesLastCommitted(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, feature.Rules{})
	f := fx.start(t, style.Config{})

	fx.host.Click(0, 0)
	fx.host.Click(100, 0)
	fx.host.Click(200, 0)
	fx.host.Move(300, 0)
	fx.host.RightClick(300, 0)

	require.Len(t, f.Positions, 3)
	assert.Equal(t, 2, fx.session.Committed())
	assert.True(t, f.Positions[1].Equals(fx.host.World(100, 0), 1e-9))
	assert.True(t, f.Positions[2].Equals(fx.host.World(300, 0), 1e-9))
	assert.Equal(t, 1, fx.events.Count(events.DrawRemovePoint))
}

func TestRightClickRefusedBelowMinimum(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, feature.Rules{})
	f := fx.start(t, style.Config{})

	fx.host.Click(0, 0)
	fx.host.Move(50, 0)
	fx.host.RightClick(50, 0)

	assert.Len(t, f.Positions, 2)
	assert.Equal(t, 1, fx.session.Committed())
	assert.Zero(t, fx.events.Count(events.DrawRemovePoint))
	assert.Contains(t, fx.host.Tooltip, "2")
}

func TestDoubleClickBelowMinimumKeepsDrawing(t *testing.T) {
	fx := newFixture(t, style.KindPolygon, feature.Rules{})
	f := fx.start(t, style.Config{})

	fx.host.Click(0, 0)
	fx.host.DoubleClick(100, 0)

	assert.True(t, fx.session.Active())
	assert.Len(t, f.Positions, 2)
	assert.Empty(t, fx.created)
	assert.Contains(t, fx.host.Tooltip, "3")
}

func TestCircleScenario(t *testing.T) {
	fx := newFixture(t, style.KindCircle, feature.Rules{})
	f := fx.start(t, style.Config{})

	fx.host.Click(0, 0)
	fx.host.Move(300, 0)
	assert.InDelta(t, 300, f.Style.Float("radius", 0), 0.01)
	fx.host.Click(500, 0)

	require.Len(t, fx.created, 1)
	assert.Len(t, f.Positions, 2)
	assert.InDelta(t, 500, f.Style.Float("radius", 0), 0.01)

	es := fx.edits[0]
	require.NoError(t, es.Activate())
	fx.host.Drag(scene.Point{X: 500, Y: 0}, scene.Point{X: 800, Y: 0})

	assert.InDelta(t, 800, f.Style.Float("radius", 0), 0.01)
	e, _ := fx.host.Entity(f.ID)
	major, ok := e.Attr.Float("semiMajorAxis")
	require.True(t, ok)
	assert.InDelta(t, 800, major, 0.01)
}

func TestCircleDoubleClickOnCenterDoesNotFinish(t *testing.T) {
	fx := newFixture(t, style.KindCircle, feature.Rules{})
	f := fx.start(t, style.Config{})

	fx.host.Click(0, 0)
	fx.host.DoubleClick(0, 0)

	assert.True(t, fx.session.Active())
	assert.Len(t, f.Positions, 1)
}

func TestEllipseFinishAddsMinorAxis(t *testing.T) {
	fx := newFixture(t, style.KindEllipse, feature.Rules{})
	f := fx.start(t, style.Config{})

	fx.host.Click(0, 0)
	fx.host.Click(0, 300)
	fx.host.DoubleClick(0, 300)

	require.Len(t, fx.created, 1)
	require.Len(t, f.Positions, 3)
	assert.InDelta(t, 300, f.Style.Float("semiMajorAxis", 0), 0.01)
	assert.InDelta(t, 300, f.Style.Float("semiMinorAxis", 0), 0.01)
}

func TestEllipseAutoFinishesAtThree(t *testing.T) {
	fx := newFixture(t, style.KindEllipse, feature.Rules{})
	f := fx.start(t, style.Config{})

	fx.host.Click(0, 0)
	fx.host.Click(0, 300)
	fx.host.Click(-120, 0)

	require.Len(t, fx.created, 1)
	assert.InDelta(t, 120, f.Style.Float("semiMinorAxis", 0), 0.01)
}

func TestRectangleFinishesAtTwo(t *testing.T) {
	fx := newFixture(t, style.KindRectangle, feature.Rules{})
	f := fx.start(t, style.Config{})

	fx.host.Click(0, 0)
	fx.host.Click(200, 100)

	require.Len(t, fx.created, 1)
	assert.Len(t, f.Positions, 2)
	e, _ := fx.host.Entity(f.ID)
	_, ok := e.Attr["coordinates"].(style.Rectangle)
	assert.True(t, ok)
}

func TestWithoutAutoFinishWaitsForDoubleClick(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, feature.Rules{MinPoints: 2, MaxPoints: 2})
	f := fx.start(t, style.Config{})

	fx.host.Click(0, 0)
	fx.host.Click(100, 0)
	assert.True(t, fx.session.Active())

	fx.host.Move(150, 0)
	fx.host.Click(200, 0)
	assert.Len(t, f.Positions, 2)

	fx.host.DoubleClick(300, 0)
	assert.False(t, fx.session.Active())
	assert.Len(t, f.Positions, 2)
	assert.Len(t, fx.created, 1)
}

func TestSinglePointKind(t *testing.T) {
	fx := newFixture(t, style.KindPoint, feature.Rules{})
	f := fx.start(t, style.Config{})

	fx.host.Move(10, 10)
	e, ok := fx.host.Entity(f.ID)
	require.True(t, ok)
	assert.False(t, e.Visible)

	fx.host.Click(20, 20)
	require.Len(t, fx.created, 1)
	require.Len(t, f.Positions, 1)
	assert.True(t, f.Positions[0].Equals(fx.host.World(20, 20), 1e-9))

	e, _ = fx.host.Entity(f.ID)
	assert.True(t, e.Visible)
	assert.False(t, e.Dynamic)
}

func TestCancelRemovesFeature(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, feature.Rules{})
	f := fx.start(t, style.Config{})

	fx.host.Click(0, 0)
	fx.host.Move(10, 0)

	got, err := fx.session.Disable(true)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Zero(t, fx.store.Len())
	_, ok := fx.host.Entity(f.ID)
	assert.False(t, ok)
	assert.Zero(t, fx.events.Count(events.DrawCreated))
	assert.Zero(t, fx.host.Bound())
	assert.True(t, fx.host.PopupsEnabled)

	got, err = fx.session.Disable(false)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestFinishWithTooFewPointsDiscards(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, feature.Rules{})
	f := fx.start(t, style.Config{})

	fx.host.Click(0, 0)
	fx.host.Move(10, 0)

	_, err := fx.session.Disable(false)
	assert.ErrorIs(t, err, ErrTooFewPoints)
	_, ok := fx.store.Get(f.ID)
	assert.False(t, ok)
}

func TestFinishDropsPreview(t *testing.T) {
	fx := newFixture(t, style.KindPolyline, feature.Rules{})
	f := fx.start(t, style.Config{})

	fx.host.Click(0, 0)
	fx.host.Click(100, 0)
	fx.host.Move(150, 50)

	got, err := fx.session.Disable(false)
	require.NoError(t, err)
	assert.Same(t, f, got)
	assert.Len(t, f.Positions, 2)
}

func TestClampToGroundSamplesTerrain(t *testing.T) {
	fx := newFixture(t, style.KindPolygon, feature.Rules{})
	fx.host.TerrainHeight = func(lon, lat float64) float64 { return 42 }
	f := fx.start(t, style.Config{"clampToGround": true})

	fx.host.Click(0, 0)
	fx.host.Click(100, 0)
	fx.host.DoubleClick(100, 100)

	require.Len(t, fx.created, 1)
	assert.Equal(t, 1, fx.host.Pending())
	assert.InDelta(t, 0, fx.host.Ellipsoid().HeightAbove(f.Positions[0]), 0.01)

	fx.host.Flush()
	for _, p := range f.Positions {
		assert.InDelta(t, 42, fx.host.Ellipsoid().HeightAbove(p), 1e-3)
	}
}

func TestNewRejectsUnknownKind(t *testing.T) {
	_, err := New(style.Kind("bogus"), Options{})
	assert.ErrorIs(t, err, style.ErrUnsupportedKind)
}
