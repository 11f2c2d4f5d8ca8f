package scene

import (
	"testing"

	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// topDown looks straight down, one pixel per meter
type topDown struct{}

func (topDown) Project(local geometry.Vector3) (Point, bool) {
	return Point{X: local.X, Y: local.Y}, true
}

func (topDown) Unproject(p Point) (geometry.Ray, bool) {
	return geometry.NewRay(geometry.NewVector3(p.X, p.Y, 1000), geometry.NewVector3(0, 0, -1)), true
}

func newViewport() *Viewport {
	return NewViewport(geometry.NewCartographic(8, 47, 0), topDown{})
}

func TestViewportPickOnTangentPlane(t *testing.T) {
	v := newViewport()

	p, ok := v.Pick(Point{X: 100, Y: 50})
	require.True(t, ok)
	local := v.Frame().ToLocal(p)
	assert.InDelta(t, 100, local.X, 1e-6)
	assert.InDelta(t, 50, local.Y, 1e-6)
	assert.InDelta(t, 0, local.Z, 1e-6)

	ray, ok := v.Ray(Point{X: 100, Y: 50})
	require.True(t, ok)
	assert.InDelta(t, -1, ray.Direction.Dot(v.Frame().Up), 1e-9)
}

func TestViewportPickEntityTopmost(t *testing.T) {
	v := newViewport()
	changes := 0
	v.OnChange = func() { changes++ }

	at := func(x, y float64) geometry.Vector3 { return v.Frame().ToWorld(x, y, 0) }
	v.AddEntity(Entity{ID: "below", Kind: style.KindPoint, Positions: []geometry.Vector3{at(0, 0)}, Visible: true})
	v.AddEntity(Entity{ID: "above", Kind: style.KindPoint, Positions: []geometry.Vector3{at(2, 0)}, Visible: true})
	v.AddEntity(Entity{ID: "hidden", Kind: style.KindPoint, Positions: []geometry.Vector3{at(1, 0)}, Visible: false})
	assert.Equal(t, 3, changes)

	id, ok := v.PickEntity(Point{X: 1})
	require.True(t, ok)
	assert.Equal(t, "above", id)

	_, ok = v.PickEntity(Point{X: 100})
	assert.False(t, ok)

	v.RemoveEntity("above")
	id, _ = v.PickEntity(Point{X: 1})
	assert.Equal(t, "below", id)
	assert.Len(t, v.Entities(), 2)
	assert.Len(t, v.Shapes(), 1)
}

func TestViewportEntitiesAreCopies(t *testing.T) {
	v := newViewport()
	positions := []geometry.Vector3{v.Frame().Origin}
	v.AddEntity(Entity{ID: "a", Kind: style.KindPoint, Positions: positions, Visible: true})

	positions[0] = geometry.Vector3{}
	e, ok := v.Entity("a")
	require.True(t, ok)
	assert.Equal(t, v.Frame().Origin, e.Positions[0])
}

func TestViewportTerrainIsScheduled(t *testing.T) {
	v := newViewport()
	queue := make(chan func(), 1)
	v.Schedule = func(fn func()) { queue <- fn }
	v.Terrain = func(in []geometry.Cartographic) ([]geometry.Cartographic, error) {
		out := append([]geometry.Cartographic(nil), in...)
		for i := range out {
			out[i].Height = 12
		}
		return out, nil
	}

	var got []geometry.Cartographic
	v.SampleTerrain([]geometry.Cartographic{geometry.NewCartographic(8, 47, 0)}, func(c []geometry.Cartographic, err error) {
		require.NoError(t, err)
		got = c
	})
	assert.Nil(t, got)

	(<-queue)()
	require.Len(t, got, 1)
	assert.Equal(t, 12.0, got[0].Height)
}

func TestViewportUIState(t *testing.T) {
	v := newViewport()

	v.SetCursor(CursorCrosshair)
	v.ShowTooltip(Point{X: 3, Y: 4}, "hello")
	v.SetPopupsEnabled(false)

	assert.Equal(t, CursorCrosshair, v.Cursor)
	assert.True(t, v.TooltipVisible)
	assert.Equal(t, "hello", v.Tooltip)
	assert.False(t, v.PopupsEnabled)

	v.HideTooltip()
	assert.False(t, v.TooltipVisible)
}

func TestViewportIsHost(t *testing.T) {
	var _ Host = newViewport()
}
