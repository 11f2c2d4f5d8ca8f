package scene

import (
	"testing"

	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPickIsMetricOffset(t *testing.T) {
	m := NewMemory(geometry.NewCartographic(0, 0, 0))

	a, ok := m.Pick(Point{})
	require.True(t, ok)
	b, _ := m.Pick(Point{X: 500})
	assert.InDelta(t, 500, a.Distance(b), 1e-6)

	back := m.Screen(b)
	assert.InDelta(t, 500, back.X, 1e-6)
	assert.InDelta(t, 0, back.Y, 1e-6)
}

func TestMemoryEntities(t *testing.T) {
	m := NewMemory(geometry.NewCartographic(8, 47, 0))
	m.AddEntity(Entity{ID: "a", Visible: true, Positions: []geometry.Vector3{m.World(0, 0)}})
	m.AddEntity(Entity{ID: "b", Visible: true, Positions: []geometry.Vector3{m.World(0, 0)}, Owner: "f"})

	id, ok := m.PickEntity(Point{X: 0.2})
	require.True(t, ok)
	assert.Equal(t, "b", id)

	m.UpdateEntity(Entity{ID: "b", Visible: false, Owner: "f"})
	id, _ = m.PickEntity(Point{})
	assert.Equal(t, "a", id)
	assert.Len(t, m.EntitiesOwnedBy("f"), 1)

	m.RemoveEntity("a")
	_, ok = m.PickEntity(Point{})
	assert.False(t, ok)
	assert.Len(t, m.Entities(), 1)
}

func TestMemoryEntityIsCopied(t *testing.T) {
	m := NewMemory(geometry.NewCartographic(0, 0, 0))
	points := []geometry.Vector3{{X: 1}}
	m.AddEntity(Entity{ID: "a", Positions: points})
	points[0].X = 5

	e, _ := m.Entity("a")
	assert.Equal(t, 1.0, e.Positions[0].X)
}

func TestMemoryTerrainQueuesUntilFlush(t *testing.T) {
	m := NewMemory(geometry.NewCartographic(0, 0, 0))
	m.TerrainHeight = func(lon, lat float64) float64 { return 42 }

	var got []geometry.Cartographic
	m.SampleTerrain([]geometry.Cartographic{{Lon: 1, Lat: 2, Height: 7}}, func(c []geometry.Cartographic, err error) {
		require.NoError(t, err)
		got = c
	})
	assert.Nil(t, got)
	assert.Equal(t, 1, m.Pending())

	assert.Equal(t, 1, m.Flush())
	require.Len(t, got, 1)
	assert.Equal(t, 42.0, got[0].Height)
	assert.Equal(t, 1.0, got[0].Lon)
}

func TestDispatcherBindAndUnbind(t *testing.T) {
	m := NewMemory(geometry.NewCartographic(0, 0, 0))
	var kinds []PointerKind
	unbind := m.Bind(func(e PointerEvent) { kinds = append(kinds, e.Kind) })

	m.DoubleClick(1, 1)
	assert.Equal(t, []PointerKind{PointerClick, PointerDoubleClick}, kinds)

	unbind()
	m.Click(0, 0)
	assert.Len(t, kinds, 2)
	assert.Equal(t, 0, m.Bound())
}

func TestDispatcherSkipsHandlersUnboundDuringDispatch(t *testing.T) {
	var d Dispatcher
	calls := 0
	var second func()
	d.Bind(func(PointerEvent) { second() })
	second = d.Bind(func(PointerEvent) { calls++ })

	d.Dispatch(PointerEvent{Kind: PointerClick})
	assert.Equal(t, 0, calls)
}

func TestMemoryRayHitsPick(t *testing.T) {
	m := NewMemory(geometry.NewCartographic(0, 0, 0))
	ray, ok := m.Ray(Point{X: 100, Y: 50})
	require.True(t, ok)
	target := m.World(100, 50)
	assert.InDelta(t, 0, ray.DistanceToPoint(target), 1e-6)
}
