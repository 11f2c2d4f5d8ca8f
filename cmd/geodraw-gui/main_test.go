package main

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/philipparndt/geodraw/internal/config"
	"github.com/philipparndt/geodraw/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const drawing = `{"type":"FeatureCollection","features":[
	{"type":"Feature","id":"square","properties":{"kind":"polygon"},"geometry":{"type":"Polygon","coordinates":[[[8,47,0],[8.001,47,0],[8.001,47.001,0],[8,47.001,0],[8,47,0]]]}},
	{"type":"Feature","id":"road","properties":{"kind":"polyline"},"geometry":{"type":"LineString","coordinates":[[8,47,0],[8.01,47,0]]}}
]}`

func newTestGUI(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Origin = config.Origin{Lon: 8, Lat: 47}
	gui, err := newGUI(test.NewTempApp(t), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(gui.close)
	return gui
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawing.geojson")
	require.NoError(t, os.WriteFile(path, []byte(drawing), 0644))
	gui := newTestGUI(t)

	gui.openFile(path)

	assert.Equal(t, 2, gui.plotter.Store().Len())
	assert.Equal(t, "Features: 2", gui.featureInfo.countLabel.Text)
	assert.Equal(t, "File: "+path, gui.featureInfo.fileLabel.Text)
	assert.Empty(t, gui.featureInfo.skippedLabel.Text)
}

func TestEditShowsMeasurements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawing.geojson")
	require.NoError(t, os.WriteFile(path, []byte(drawing), 0644))
	gui := newTestGUI(t)
	gui.openFile(path)

	require.NoError(t, gui.plotter.StartEdit("square"))

	assert.Equal(t, "Selected: polygon (4 points)", gui.featureInfo.kindLabel.Text)
	assert.Contains(t, gui.featureInfo.lengthLabel.Text, "Perimeter: ")
	assert.Contains(t, gui.featureInfo.areaLabel.Text, "m²")

	gui.plotter.StopEdit()
	assert.Equal(t, "Selected: none", gui.featureInfo.kindLabel.Text)
}

func TestStartDrawUsesSelectedKind(t *testing.T) {
	gui := newTestGUI(t)
	gui.kindSelect.SetSelected(style.KindPolyline.String())

	gui.startDraw()

	require.True(t, gui.plotter.HasDrawing())
	assert.Equal(t, style.KindPolyline, gui.plotter.Drawing().Kind)
}

func TestSaveAs(t *testing.T) {
	source := filepath.Join(t.TempDir(), "drawing.geojson")
	require.NoError(t, os.WriteFile(source, []byte(drawing), 0644))
	gui := newTestGUI(t)
	gui.openFile(source)
	require.NoError(t, gui.plotter.Delete("road"))

	target := filepath.Join(t.TempDir(), "copy.geojson")
	gui.saveAs(target)

	assert.FileExists(t, target)
	reopened := newTestGUI(t)
	reopened.openFile(target)
	assert.Equal(t, 1, reopened.plotter.Store().Len())
}
