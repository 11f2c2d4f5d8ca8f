package dragger

import (
	"math"
	"testing"

	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/scene"
	"github.com/philipparndt/geodraw/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAddsMarker(t *testing.T) {
	host := scene.NewMemory(geometry.NewCartographic(0, 0, 0))
	f := NewFactory(host, nil)

	d := f.Create(Options{Position: host.World(10, 0), Owner: "feature", Index: 3, Tooltip: "drag"})
	assert.Equal(t, Control, d.Type)
	assert.False(t, d.Reused)
	assert.Equal(t, 3, d.Index)

	e, ok := host.Entity(d.EntityID)
	require.True(t, ok)
	assert.Equal(t, "feature", e.Owner)
	c, _ := e.Attr.Color("color")
	assert.Equal(t, "#1e90ff", c.Hex())
	depth, _ := e.Attr.Float("disableDepthTestDistance")
	assert.True(t, math.IsInf(depth, 1))

	f.Destroy(d)
	_, ok = host.Entity(d.EntityID)
	assert.False(t, ok)
}

func TestColorsPerType(t *testing.T) {
	f := NewFactory(scene.NewMemory(geometry.Cartographic{}), nil)
	tests := map[PointType]string{
		Control:       "#1e90ff",
		AddMidPoint:   "#ffff00",
		MoveAll:       "#ff0000",
		MoveHeight:    "#9500eb",
		EditAttribute: "#ffa500",
	}
	for pt, hex := range tests {
		assert.Equal(t, hex, f.Color(pt).Hex(), pt.String())
	}
	assert.Less(t, f.Color(AddMidPoint).A, 1.0)
}

func TestColorOverride(t *testing.T) {
	green, err := style.ParseColor("green")
	require.NoError(t, err)
	f := NewFactory(scene.NewMemory(geometry.Cartographic{}), Colors{MoveAll: green})
	assert.Equal(t, green, f.Color(MoveAll))
	assert.Equal(t, "#1e90ff", f.Color(Control).Hex())
}

func TestReusedEntityIsNeverRemoved(t *testing.T) {
	host := scene.NewMemory(geometry.Cartographic{})
	host.AddEntity(scene.Entity{ID: "own", Visible: true})
	f := NewFactory(host, nil)

	d := f.Create(Options{ReuseEntity: "own"})
	assert.True(t, d.Reused)
	assert.Equal(t, "own", d.EntityID)
	assert.Len(t, host.Entities(), 1)

	f.Move(d, geometry.Vector3{X: 1})
	f.Destroy(d)
	_, ok := host.Entity("own")
	assert.True(t, ok)
}

func TestMoveUpdatesMarker(t *testing.T) {
	host := scene.NewMemory(geometry.Cartographic{})
	f := NewFactory(host, nil)
	d := f.Create(Options{Type: MoveAll})

	f.Move(d, host.World(5, 5))
	e, _ := host.Entity(d.EntityID)
	assert.Equal(t, host.World(5, 5), e.Positions[0])
}

func TestParsePointType(t *testing.T) {
	for _, pt := range []PointType{Control, MoveAll, AddMidPoint, MoveHeight, EditAttribute} {
		parsed, ok := ParsePointType(pt.String())
		assert.True(t, ok)
		assert.Equal(t, pt, parsed)
	}
	_, ok := ParsePointType("nope")
	assert.False(t, ok)
}

func TestCommandsTarget(t *testing.T) {
	cmds := []Command{BeginDrag{"a"}, UpdateDrag{DraggerID: "a"}, EndDrag{"a"}, RemovePoint{"a"}}
	for _, c := range cmds {
		assert.Equal(t, "a", c.Target())
	}
}
