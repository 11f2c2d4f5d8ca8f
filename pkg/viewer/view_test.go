package viewer

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/plotter"
	"github.com/philipparndt/geodraw/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newView(t *testing.T) (*View, *plotter.Plotter) {
	t.Helper()
	test.NewTempApp(t)

	v := NewView(geometry.NewCartographic(8, 47, 0))
	v.Resize(fyne.NewSize(800, 600))
	test.WidgetRenderer(v).Layout(fyne.NewSize(800, 600))

	p, err := plotter.New(v.Host(), plotter.Options{})
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return v, p
}

func at(x, y float32) *fyne.PointEvent {
	return &fyne.PointEvent{Position: fyne.NewPos(x, y)}
}

func TestViewDrawsPolygonWithPointerInput(t *testing.T) {
	v, p := newView(t)

	f, err := p.StartDraw(style.KindPolygon, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, desktop.CrosshairCursor, v.Cursor())

	v.Tapped(at(300, 300))
	v.MouseMoved(&desktop.MouseEvent{PointEvent: *at(500, 300)})
	v.Tapped(at(500, 300))
	v.Tapped(at(500, 450))
	v.DoubleTapped(at(500, 450))

	assert.False(t, p.HasDrawing())
	assert.Equal(t, feature.StateIdle, f.State)
	assert.Len(t, f.Positions, 3)
	assert.Equal(t, desktop.DefaultCursor, v.Cursor())

	_, ok := v.Host().Entity(f.ID)
	assert.True(t, ok)
	assert.NotEmpty(t, test.WidgetRenderer(v).Objects())
}

func TestViewClickSelectsFeature(t *testing.T) {
	v, p := newView(t)

	f, err := p.StartDraw(style.KindPoint, nil, nil)
	require.NoError(t, err)
	v.Tapped(at(400, 300))
	require.False(t, p.HasDrawing())

	v.Tapped(at(401, 300))
	id, ok := p.Editing()
	require.True(t, ok)
	assert.Equal(t, f.ID, id)
}

func TestViewCameraDrags(t *testing.T) {
	v, _ := newView(t)
	pitch := v.Camera().Pitch
	target := v.Camera().Target

	v.MouseDown(&desktop.MouseEvent{PointEvent: *at(400, 300), Button: desktop.MouseButtonPrimary, Modifier: fyne.KeyModifierShift})
	v.Dragged(&fyne.DragEvent{PointEvent: *at(400, 280), Dragged: fyne.NewDelta(0, -20)})
	v.MouseUp(&desktop.MouseEvent{PointEvent: *at(400, 280), Button: desktop.MouseButtonPrimary})
	assert.NotEqual(t, pitch, v.Camera().Pitch)

	v.MouseDown(&desktop.MouseEvent{PointEvent: *at(400, 300), Button: desktop.MouseButtonPrimary, Modifier: fyne.KeyModifierControl})
	v.Dragged(&fyne.DragEvent{PointEvent: *at(420, 300), Dragged: fyne.NewDelta(20, 0)})
	v.MouseUp(&desktop.MouseEvent{PointEvent: *at(420, 300), Button: desktop.MouseButtonPrimary})
	assert.NotEqual(t, target, v.Camera().Target)

	distance := v.Camera().Distance
	v.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 100)})
	assert.Less(t, v.Camera().Distance, distance)
}

func TestViewFitEntities(t *testing.T) {
	v, p := newView(t)
	data := []byte(`{"type":"Feature","properties":{"kind":"point"},"geometry":{"type":"Point","coordinates":[8.01,47,0]}}`)
	_, errs := p.Load(data)
	require.Empty(t, errs)

	v.FitEntities()

	assert.Greater(t, v.Camera().Target.X, 500.0)
}
